package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event topics.
const (
	TopicTransferCompleted = "transfer_completed"
	TopicDepositCompleted  = "deposit_completed"
)

// TransferCompleted is published after a transfer commits.
type TransferCompleted struct {
	TransferID  string          `json:"transfer_id"`
	FromAccount string          `json:"from_account"`
	ToAccount   string          `json:"to_account"`
	Amount      decimal.Decimal `json:"amount"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

// DepositCompleted is published after a deposit commits.
type DepositCompleted struct {
	TransferID string          `json:"transfer_id"`
	AccountID  string          `json:"account_id"`
	Amount     decimal.Decimal `json:"amount"`
	OccurredAt time.Time       `json:"occurred_at"`
}
