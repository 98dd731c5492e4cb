package dto

import (
	"time"

	"github.com/SscSPs/secure_banking_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID string          `json:"id"`
	Username  string          `json:"username"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID: acc.AccountID,
		Username:  acc.Username,
		Balance:   acc.Balance,
		CreatedAt: acc.CreatedAt,
	}
}

// BalanceResponse defines the data returned for a balance query.
type BalanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

// DepositRequest credits the caller's own account.
type DepositRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"money"`
	Description string          `json:"description" binding:"max=255"`
}

// DepositResponse is returned after a committed deposit.
type DepositResponse struct {
	Message    string                   `json:"message"`
	NewBalance decimal.Decimal          `json:"newBalance"`
	Entry      TransactionEntryResponse `json:"entry"`
}
