package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/secure_banking_app/internal/core/domain"
	portsrepo "github.com/SscSPs/secure_banking_app/internal/core/ports/repositories"
	"github.com/SscSPs/secure_banking_app/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxSecurityLogRepository struct {
	pool *pgxpool.Pool
}

func newPgxSecurityLogRepository(pool *pgxpool.Pool) *PgxSecurityLogRepository {
	return &PgxSecurityLogRepository{pool: pool}
}

var _ portsrepo.SecurityLogRepository = (*PgxSecurityLogRepository)(nil)

// SaveSecurityLog appends a log row. Details are stored as JSONB.
func (r *PgxSecurityLogRepository) SaveSecurityLog(ctx context.Context, log domain.SecurityLog) error {
	details := log.Details
	if details == nil {
		details = map[string]any{}
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO security_logs (log_id, account_id, event_type, details, created_at)
		VALUES ($1, $2, $3, $4, $5);
	`, log.LogID, log.AccountID, string(log.EventType), details, dbTime(log.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to save security log %s: %w", log.LogID, err)
	}
	return nil
}

// ListSecurityLogs returns the account's logs newest first.
func (r *PgxSecurityLogRepository) ListSecurityLogs(ctx context.Context, accountID string, limit int) ([]domain.SecurityLog, error) {
	query := `
		SELECT log_id, account_id, event_type, details, created_at
		FROM security_logs
		WHERE account_id = $1
		ORDER BY created_at DESC, log_id DESC`
	args := []any{accountID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query security logs: %w", err)
	}
	defer rows.Close()

	logs := make([]domain.SecurityLog, 0)
	for rows.Next() {
		var m models.SecurityLog
		if err := rows.Scan(&m.LogID, &m.AccountID, &m.EventType, &m.Details, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan security log: %w", err)
		}
		logs = append(logs, domain.SecurityLog{
			LogID:     m.LogID,
			AccountID: m.AccountID,
			EventType: domain.SecurityEventType(m.EventType),
			Details:   m.Details,
			CreatedAt: m.CreatedAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating security logs: %w", err)
	}
	return logs, nil
}
