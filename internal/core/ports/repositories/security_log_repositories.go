package repositories

import (
	"context"

	"github.com/SscSPs/secure_banking_app/internal/core/domain"
)

// SecurityLogRepository persists the security audit trail.
type SecurityLogRepository interface {
	SaveSecurityLog(ctx context.Context, log domain.SecurityLog) error
	// ListSecurityLogs returns logs for accountID newest first; limit <= 0 means all.
	ListSecurityLogs(ctx context.Context, accountID string, limit int) ([]domain.SecurityLog, error)
}
