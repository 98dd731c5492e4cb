package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/secure_banking_app/internal/apperrors"
	"github.com/SscSPs/secure_banking_app/internal/core/domain"
	portsrepo "github.com/SscSPs/secure_banking_app/internal/core/ports/repositories"
	"github.com/SscSPs/secure_banking_app/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates the ledger repository.
func newPgxLedgerRepository(pool *pgxpool.Pool) *PgxLedgerRepository {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

func toModelEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:          d.EntryID,
		TransferID:       d.TransferID,
		AccountID:        d.AccountID,
		Direction:        string(d.Direction),
		Amount:           d.Amount,
		CounterpartyName: d.CounterpartyName,
		Description:      d.Description,
		Status:           string(d.Status),
		BalanceAfter:     d.BalanceAfter,
		CreatedAt:        d.CreatedAt,
	}
}

func toDomainEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:          m.EntryID,
		TransferID:       m.TransferID,
		AccountID:        m.AccountID,
		Direction:        domain.Direction(m.Direction),
		Amount:           m.Amount,
		CounterpartyName: m.CounterpartyName,
		Description:      m.Description,
		Status:           domain.EntryStatus(m.Status),
		BalanceAfter:     m.BalanceAfter,
		CreatedAt:        m.CreatedAt,
	}
}

const insertEntryQuery = `
	INSERT INTO ledger_entries (entry_id, transfer_id, account_id, direction, amount, counterparty_name, description, status, balance_after, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
`

const updateBalanceQuery = `
	UPDATE accounts SET balance = $2, last_updated_at = $3 WHERE account_id = $1;
`

type lockedAccount struct {
	AccountID string
	Username  string
	Balance   decimal.Decimal
}

// lockAccountsForUpdate locks the rows in ascending account_id order so that
// concurrent transfers over the same pair cannot deadlock.
func lockAccountsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs ...string) (map[string]lockedAccount, error) {
	rows, err := tx.Query(ctx, `
		SELECT account_id, username, balance
		FROM accounts
		WHERE account_id = ANY($1)
		ORDER BY account_id
		FOR UPDATE;
	`, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", err)
	}
	defer rows.Close()

	locked := make(map[string]lockedAccount, len(accountIDs))
	for rows.Next() {
		var a lockedAccount
		if err := rows.Scan(&a.AccountID, &a.Username, &a.Balance); err != nil {
			return nil, fmt.Errorf("failed to scan locked account row: %w", err)
		}
		locked[a.AccountID] = a
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked account rows: %w", err)
	}
	for _, id := range accountIDs {
		if _, ok := locked[id]; !ok {
			return nil, fmt.Errorf("account %s: %w", id, apperrors.ErrNotFound)
		}
	}
	return locked, nil
}

// CommitTransfer moves money between two accounts in one database transaction.
func (r *PgxLedgerRepository) CommitTransfer(ctx context.Context, cmd portsrepo.TransferCommand) (*domain.TransferResult, error) {
	now := dbTime(cmd.Now)

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if rbErr := r.Rollback(ctx, tx); rbErr != nil {
			slog.WarnContext(ctx, "Rollback failed", slog.String("transfer_id", cmd.TransferID), slog.String("error", rbErr.Error()))
		}
	}()

	var recipientID string
	err = tx.QueryRow(ctx, `SELECT account_id FROM accounts WHERE username = $1;`, cmd.RecipientName).Scan(&recipientID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("recipient %s: %w", cmd.RecipientName, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to resolve recipient: %w", err)
	}
	if recipientID == cmd.SenderID {
		return nil, fmt.Errorf("%w: sender and recipient are the same account", apperrors.ErrValidation)
	}

	locked, err := lockAccountsForUpdate(ctx, tx, cmd.SenderID, recipientID)
	if err != nil {
		return nil, err
	}
	from, to := locked[cmd.SenderID], locked[recipientID]
	if from.Balance.LessThan(cmd.Amount) {
		return nil, fmt.Errorf("%w: balance %s is below %s", apperrors.ErrInsufficientFunds, from.Balance.StringFixed(2), cmd.Amount.StringFixed(2))
	}

	fromAfter := from.Balance.Sub(cmd.Amount)
	toAfter := to.Balance.Add(cmd.Amount)

	debit := domain.LedgerEntry{
		EntryID:          newEntryID(),
		TransferID:       cmd.TransferID,
		AccountID:        from.AccountID,
		Direction:        domain.Debit,
		Amount:           cmd.Amount,
		CounterpartyName: to.Username,
		Description:      cmd.Description,
		Status:           domain.StatusCompleted,
		BalanceAfter:     fromAfter,
		CreatedAt:        now,
	}
	credit := domain.LedgerEntry{
		EntryID:          newEntryID(),
		TransferID:       cmd.TransferID,
		AccountID:        to.AccountID,
		Direction:        domain.Credit,
		Amount:           cmd.Amount,
		CounterpartyName: from.Username,
		Description:      cmd.Description,
		Status:           domain.StatusCompleted,
		BalanceAfter:     toAfter,
		CreatedAt:        now,
	}

	batch := &pgx.Batch{}
	batch.Queue(updateBalanceQuery, from.AccountID, fromAfter, now)
	batch.Queue(updateBalanceQuery, to.AccountID, toAfter, now)
	queueEntryInsert(batch, debit)
	queueEntryInsert(batch, credit)
	if err := execBatch(ctx, tx, batch); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &domain.TransferResult{TransferID: cmd.TransferID, Debit: debit, Credit: credit}, nil
}

// CommitDeposit credits an account in one database transaction.
func (r *PgxLedgerRepository) CommitDeposit(ctx context.Context, cmd portsrepo.DepositCommand) (*domain.DepositResult, error) {
	now := dbTime(cmd.Now)

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if rbErr := r.Rollback(ctx, tx); rbErr != nil {
			slog.WarnContext(ctx, "Rollback failed", slog.String("transfer_id", cmd.TransferID), slog.String("error", rbErr.Error()))
		}
	}()

	locked, err := lockAccountsForUpdate(ctx, tx, cmd.AccountID)
	if err != nil {
		return nil, err
	}
	acc := locked[cmd.AccountID]
	after := acc.Balance.Add(cmd.Amount)

	entry := domain.LedgerEntry{
		EntryID:          newEntryID(),
		TransferID:       cmd.TransferID,
		AccountID:        acc.AccountID,
		Direction:        domain.Credit,
		Amount:           cmd.Amount,
		CounterpartyName: domain.SelfCounterparty,
		Description:      cmd.Description,
		Status:           domain.StatusCompleted,
		BalanceAfter:     after,
		CreatedAt:        now,
	}

	batch := &pgx.Batch{}
	batch.Queue(updateBalanceQuery, acc.AccountID, after, now)
	queueEntryInsert(batch, entry)
	if err := execBatch(ctx, tx, batch); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &domain.DepositResult{Entry: entry, NewBalance: after}, nil
}

func queueEntryInsert(batch *pgx.Batch, e domain.LedgerEntry) {
	m := toModelEntry(e)
	batch.Queue(insertEntryQuery,
		m.EntryID,
		m.TransferID,
		m.AccountID,
		m.Direction,
		m.Amount,
		m.CounterpartyName,
		m.Description,
		m.Status,
		m.BalanceAfter,
		m.CreatedAt,
	)
}

// execBatch runs every queued statement and requires each to touch exactly one row.
func execBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch) error {
	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				batchErr = err
			}
			continue
		}
		if ct.RowsAffected() != 1 && batchErr == nil {
			batchErr = fmt.Errorf("statement %d affected %d rows", i, ct.RowsAffected())
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = err
	}
	if batchErr == nil {
		return nil
	}
	if pgErrorCode(batchErr) == pgCheckViolation {
		return fmt.Errorf("%w: %w", apperrors.ErrInsufficientFunds, batchErr)
	}
	return fmt.Errorf("failed to apply ledger batch: %w", batchErr)
}

// ListEntriesByAccount returns matching entries ordered by (created_at, entry_id) descending.
func (r *PgxLedgerRepository) ListEntriesByAccount(ctx context.Context, accountID string, filter portsrepo.EntryFilter) ([]domain.LedgerEntry, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT entry_id, transfer_id, account_id, direction, amount, counterparty_name, description, status, balance_after, created_at
		FROM ledger_entries
		WHERE account_id = $1`)
	args := []any{accountID}

	if !filter.Since.IsZero() {
		args = append(args, filter.Since)
		fmt.Fprintf(&sb, " AND created_at >= $%d", len(args))
	}
	if filter.Direction != "" {
		args = append(args, string(filter.Direction))
		fmt.Fprintf(&sb, " AND direction = $%d", len(args))
	}
	if filter.After != nil {
		args = append(args, filter.After.CreatedAt, filter.After.EntryID)
		fmt.Fprintf(&sb, " AND (created_at, entry_id) < ($%d, $%d)", len(args)-1, len(args))
	}
	sb.WriteString(" ORDER BY created_at DESC, entry_id DESC")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}

	rows, err := r.Pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.LedgerEntry, 0)
	for rows.Next() {
		var m models.LedgerEntry
		if err := rows.Scan(
			&m.EntryID,
			&m.TransferID,
			&m.AccountID,
			&m.Direction,
			&m.Amount,
			&m.CounterpartyName,
			&m.Description,
			&m.Status,
			&m.BalanceAfter,
			&m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, toDomainEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger entries: %w", err)
	}
	return entries, nil
}

func newEntryID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
