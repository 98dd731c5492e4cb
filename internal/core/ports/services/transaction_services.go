package services

import (
	"context"

	"github.com/SscSPs/secure_banking_app/internal/core/domain"
)

// ValidatorSvc produces a verdict for a transfer attempt without mutating anything.
// Business-rule failures are reported in the verdict; only infrastructure faults return an error.
type ValidatorSvc interface {
	Validate(ctx context.Context, req domain.TransferRequest) (*domain.ValidationVerdict, error)
}

// LedgerSvc performs the atomic balance mutations.
type LedgerSvc interface {
	// Transfer commits an approved transfer. Unapproved verdicts are refused.
	Transfer(ctx context.Context, req domain.TransferRequest, verdict *domain.ValidationVerdict) (*domain.TransferResult, error)
	Deposit(ctx context.Context, req domain.DepositRequest) (*domain.DepositResult, error)
}

// HistorySvc is the read side over accounts and the ledger.
type HistorySvc interface {
	GetBalance(ctx context.Context, accountID string) (*domain.Account, error)
	History(ctx context.Context, accountID string, period domain.Period) ([]domain.LedgerEntry, error)
	Recent(ctx context.Context, accountID string, limit int) ([]domain.LedgerEntry, error)
	// ListEntries pages through the full history. nextToken is empty on the last page.
	ListEntries(ctx context.Context, accountID string, limit int, pageToken string) (entries []domain.LedgerEntry, nextToken string, err error)
}

// TransactionSvc runs the validate-then-commit pipeline under the scorer-unavailability policy.
type TransactionSvc interface {
	Validate(ctx context.Context, req domain.TransferRequest) (*domain.ValidationVerdict, error)
	// Submit validates and, when approved, commits. A rejected verdict is returned together
	// with an error wrapping apperrors.ErrValidation.
	Submit(ctx context.Context, req domain.TransferRequest) (*domain.TransferResult, *domain.ValidationVerdict, error)
}

// SecuritySvc records and reports suspicious activity.
type SecuritySvc interface {
	Record(ctx context.Context, accountID string, eventType domain.SecurityEventType, details map[string]any)
	ListLogs(ctx context.Context, accountID string) ([]domain.SecurityLog, error)
	Summary(ctx context.Context, accountID string) (*domain.SecuritySummary, error)
}

// EventPublisher delivers domain events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}
