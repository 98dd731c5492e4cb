package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/secure_banking_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryCursor points at the last entry of a previous page.
type EntryCursor struct {
	CreatedAt time.Time
	EntryID   string
}

// EntryFilter narrows a ledger listing. Zero values mean "no constraint".
type EntryFilter struct {
	// Since is an inclusive lower bound on CreatedAt.
	Since     time.Time
	Direction domain.Direction
	Limit     int
	// After returns only entries strictly older than the cursor.
	After *EntryCursor
}

// LedgerReader defines read operations over ledger entries.
type LedgerReader interface {
	// ListEntriesByAccount returns entries for accountID newest first.
	ListEntriesByAccount(ctx context.Context, accountID string, filter EntryFilter) ([]domain.LedgerEntry, error)
}

// TransferCommand is the fully resolved input of an atomic transfer.
type TransferCommand struct {
	TransferID    string
	SenderID      string
	RecipientName string
	Amount        decimal.Decimal
	Description   string
	Now           time.Time
}

// DepositCommand is the input of an atomic deposit.
type DepositCommand struct {
	TransferID  string
	AccountID   string
	Amount      decimal.Decimal
	Description string
	Now         time.Time
}

// LedgerWriter defines the atomic balance mutations.
// Implementations serialize per account and acquire account locks in ascending id order.
type LedgerWriter interface {
	// CommitTransfer debits the sender, credits the recipient and appends both entries in one unit.
	// Returns apperrors.ErrNotFound for an unknown sender or recipient and
	// apperrors.ErrInsufficientFunds when the locked sender balance is below the amount.
	CommitTransfer(ctx context.Context, cmd TransferCommand) (*domain.TransferResult, error)

	// CommitDeposit credits the account and appends one credit entry in one unit.
	CommitDeposit(ctx context.Context, cmd DepositCommand) (*domain.DepositResult, error)
}

// LedgerRepositoryFacade combines the ledger read and write sides.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
