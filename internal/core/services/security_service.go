package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/secure_banking_app/internal/core/domain"
	portsrepo "github.com/SscSPs/secure_banking_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/secure_banking_app/internal/core/ports/services"
	"github.com/google/uuid"
)

// securityService implements the SecuritySvc interface
type securityService struct {
	BaseService
	repo portsrepo.SecurityLogRepository
}

// NewSecurityService creates the security audit service.
func NewSecurityService(repo portsrepo.SecurityLogRepository) portssvc.SecuritySvc {
	return &securityService{repo: repo}
}

var _ portssvc.SecuritySvc = (*securityService)(nil)

// Record appends a security log. Failures are logged, not returned.
func (s *securityService) Record(ctx context.Context, accountID string, eventType domain.SecurityEventType, details map[string]any) {
	if details == nil {
		details = map[string]any{}
	}
	entry := domain.SecurityLog{
		LogID:     uuid.NewString(),
		AccountID: accountID,
		EventType: eventType,
		Details:   details,
		CreatedAt: s.Now().UTC(),
	}
	if err := s.repo.SaveSecurityLog(ctx, entry); err != nil {
		s.LogError(ctx, err, "Failed to record security log",
			slog.String("account_id", accountID),
			slog.String("event_type", string(eventType)))
		return
	}
	s.LogDebug(ctx, "Security log recorded", slog.String("event_type", string(eventType)))
}

func (s *securityService) ListLogs(ctx context.Context, accountID string) ([]domain.SecurityLog, error) {
	return s.repo.ListSecurityLogs(ctx, accountID, 0)
}

// Summary counts the account's logs and reports the newest log time.
func (s *securityService) Summary(ctx context.Context, accountID string) (*domain.SecuritySummary, error) {
	logs, err := s.repo.ListSecurityLogs(ctx, accountID, 0)
	if err != nil {
		return nil, err
	}

	summary := &domain.SecuritySummary{TotalLogs: len(logs)}
	for i := range logs {
		if logs[i].EventType == domain.EventSuspiciousTransaction {
			summary.SuspiciousTransactions++
		}
		if summary.LastAlert == nil || logs[i].CreatedAt.After(*summary.LastAlert) {
			t := logs[i].CreatedAt
			summary.LastAlert = &t
		}
	}
	return summary, nil
}
