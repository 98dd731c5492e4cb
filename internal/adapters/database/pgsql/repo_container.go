package pgsql

import (
	portsrepo "github.com/SscSPs/secure_banking_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every repository port to the given pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     newPgxAccountRepository(dbPool),
		LedgerRepo:      newPgxLedgerRepository(dbPool),
		SecurityLogRepo: newPgxSecurityLogRepository(dbPool),
	}
}
