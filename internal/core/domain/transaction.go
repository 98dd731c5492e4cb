package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction indicates which side of a balance change a ledger entry records.
type Direction string

const (
	Debit  Direction = "debit"
	Credit Direction = "credit"
)

// EntryStatus is the lifecycle status of a ledger entry.
type EntryStatus string

const (
	StatusPending   EntryStatus = "pending"
	StatusCompleted EntryStatus = "completed"
	StatusFailed    EntryStatus = "failed"
)

// SelfCounterparty is the counterparty name recorded on deposits.
const SelfCounterparty = "Self"

// DefaultDepositDescription is used when a deposit carries no description.
const DefaultDepositDescription = "Deposit"

// LedgerEntry is one immutable side of a balance change.
// Both entries of a transfer share TransferID.
type LedgerEntry struct {
	EntryID          string          `json:"id"`
	TransferID       string          `json:"transferId"`
	AccountID        string          `json:"accountId"`
	Direction        Direction       `json:"direction"`
	Amount           decimal.Decimal `json:"amount"`
	CounterpartyName string          `json:"counterpartyName"`
	Description      string          `json:"description,omitempty"`
	Status           EntryStatus     `json:"status"`
	BalanceAfter     decimal.Decimal `json:"balanceAfter"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// TransferRequest is a sender's intent to move money to a named recipient.
type TransferRequest struct {
	SenderID      string
	Amount        decimal.Decimal
	RecipientName string
	Description   string
}

// TransferResult is the outcome of a committed transfer.
type TransferResult struct {
	TransferID string
	Debit      LedgerEntry
	Credit     LedgerEntry
}

// DepositRequest credits the caller's own account.
type DepositRequest struct {
	AccountID   string
	Amount      decimal.Decimal
	Description string
}

// DepositResult is the outcome of a committed deposit.
type DepositResult struct {
	Entry      LedgerEntry
	NewBalance decimal.Decimal
}
