package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is a row of the ledger_entries table. Rows are never updated.
type LedgerEntry struct {
	EntryID          string          `db:"entry_id"`
	TransferID       string          `db:"transfer_id"`
	AccountID        string          `db:"account_id"`
	Direction        string          `db:"direction"`
	Amount           decimal.Decimal `db:"amount"`
	CounterpartyName string          `db:"counterparty_name"`
	Description      string          `db:"description"`
	Status           string          `db:"status"`
	BalanceAfter     decimal.Decimal `db:"balance_after"`
	CreatedAt        time.Time       `db:"created_at"`
}
