package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/secure_banking_app/internal/apperrors"
	"github.com/SscSPs/secure_banking_app/internal/core/domain"
	portsrepo "github.com/SscSPs/secure_banking_app/internal/core/ports/repositories"
	"github.com/SscSPs/secure_banking_app/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for accounts and credentials.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func toModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID: d.AccountID,
		Username:  d.Username,
		Balance:   d.Balance,
		AuditFields: models.AuditFields{
			CreatedAt:     dbTime(d.CreatedAt),
			LastUpdatedAt: dbTime(d.LastUpdatedAt),
		},
	}
}

func toDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID: m.AccountID,
		Username:  m.Username,
		Balance:   m.Balance,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}

// CreateAccount inserts the account and its credential in one transaction.
func (r *PgxAccountRepository) CreateAccount(ctx context.Context, account domain.Account, credential domain.Credential) error {
	acc := toModelAccount(account)
	cred := models.Credential{
		AccountID:    credential.AccountID,
		Email:        credential.Email,
		PasswordHash: credential.PasswordHash,
		AuditFields: models.AuditFields{
			CreatedAt:     dbTime(credential.CreatedAt),
			LastUpdatedAt: dbTime(credential.LastUpdatedAt),
		},
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if rbErr := r.Rollback(ctx, tx); rbErr != nil {
			slog.WarnContext(ctx, "Rollback failed", slog.String("error", rbErr.Error()))
		}
	}()

	_, err = tx.Exec(ctx, `
		INSERT INTO accounts (account_id, username, balance, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5);
	`, acc.AccountID, acc.Username, acc.Balance, acc.CreatedAt, acc.LastUpdatedAt)
	if err != nil {
		return mapCreateError(err, acc.Username)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO credentials (account_id, email, password_hash, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5);
	`, cred.AccountID, cred.Email, cred.PasswordHash, cred.CreatedAt, cred.LastUpdatedAt)
	if err != nil {
		return mapCreateError(err, acc.Username)
	}

	return r.Commit(ctx, tx)
}

func mapCreateError(err error, username string) error {
	switch pgErrorCode(err) {
	case pgUniqueViolation:
		return fmt.Errorf("%w: username or email for %s already exists", apperrors.ErrDuplicate, username)
	case pgCheckViolation:
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}
	return fmt.Errorf("failed to create account %s: %w", username, err)
}

const selectAccountColumns = `SELECT account_id, username, balance, created_at, last_updated_at FROM accounts`

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return r.findOne(ctx, selectAccountColumns+` WHERE account_id = $1;`, accountID)
}

// FindAccountByUsername retrieves an account by its exact username.
func (r *PgxAccountRepository) FindAccountByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return r.findOne(ctx, selectAccountColumns+` WHERE username = $1;`, username)
}

func (r *PgxAccountRepository) findOne(ctx context.Context, query string, arg string) (*domain.Account, error) {
	var m models.Account
	err := r.Pool.QueryRow(ctx, query, arg).Scan(&m.AccountID, &m.Username, &m.Balance, &m.CreatedAt, &m.LastUpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query account: %w", err)
	}
	acc := toDomainAccount(m)
	return &acc, nil
}

// FindCredentialByAccountID retrieves the login credential of an account.
func (r *PgxAccountRepository) FindCredentialByAccountID(ctx context.Context, accountID string) (*domain.Credential, error) {
	var m models.Credential
	err := r.Pool.QueryRow(ctx, `
		SELECT account_id, email, password_hash, created_at, last_updated_at
		FROM credentials
		WHERE account_id = $1;
	`, accountID).Scan(&m.AccountID, &m.Email, &m.PasswordHash, &m.CreatedAt, &m.LastUpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query credential: %w", err)
	}
	return &domain.Credential{
		AccountID:    m.AccountID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		AuditFields:  domain.AuditFields{CreatedAt: m.CreatedAt, LastUpdatedAt: m.LastUpdatedAt},
	}, nil
}
