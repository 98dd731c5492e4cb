package dto

import (
	"time"

	"github.com/SscSPs/secure_banking_app/internal/core/domain"
)

// SecurityLogResponse defines the data returned for a security log.
type SecurityLogResponse struct {
	LogID     string                   `json:"id"`
	EventType domain.SecurityEventType `json:"eventType"`
	Details   map[string]any           `json:"details"`
	Timestamp time.Time                `json:"timestamp"`
}

func ToSecurityLogResponses(logs []domain.SecurityLog) []SecurityLogResponse {
	res := make([]SecurityLogResponse, len(logs))
	for i, l := range logs {
		res[i] = SecurityLogResponse{
			LogID:     l.LogID,
			EventType: l.EventType,
			Details:   l.Details,
			Timestamp: l.CreatedAt,
		}
	}
	return res
}

// SecuritySummaryResponse aggregates an account's security logs.
type SecuritySummaryResponse struct {
	TotalLogs              int        `json:"total_logs"`
	SuspiciousTransactions int        `json:"suspicious_transactions"`
	LastAlert              *time.Time `json:"last_alert"`
}

func ToSecuritySummaryResponse(s *domain.SecuritySummary) SecuritySummaryResponse {
	return SecuritySummaryResponse{
		TotalLogs:              s.TotalLogs,
		SuspiciousTransactions: s.SuspiciousTransactions,
		LastAlert:              s.LastAlert,
	}
}
