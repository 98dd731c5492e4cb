package models

import (
	"github.com/shopspring/decimal"
)

// Account is a row of the accounts table.
type Account struct {
	AccountID string          `db:"account_id"`
	Username  string          `db:"username"`
	Balance   decimal.Decimal `db:"balance"`
	AuditFields
}

// Credential is a row of the credentials table.
type Credential struct {
	AccountID    string `db:"account_id"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	AuditFields
}
