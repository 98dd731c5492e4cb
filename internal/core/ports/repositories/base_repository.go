package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager is implemented by the postgres adapter only. Ports that
// need atomicity expose one atomic operation (CommitTransfer, CreateAccount)
// rather than handing a transaction to the core.
type TransactionManager interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Commit(ctx context.Context, tx pgx.Tx) error
	// Rollback is a no-op on a transaction that already finished.
	Rollback(ctx context.Context, tx pgx.Tx) error
}
