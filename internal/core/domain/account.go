package domain

import (
	"github.com/shopspring/decimal"
)

// Account is a customer's single balance-holding account.
// Balance is only mutated by the ledger commit operations and never goes negative.
type Account struct {
	AccountID string          `json:"accountID"`
	Username  string          `json:"username"`
	Balance   decimal.Decimal `json:"balance"`
	AuditFields
}

// Credential is the login material owned by the identity provider.
type Credential struct {
	AccountID    string
	Email        string
	PasswordHash string
	AuditFields
}
