package domain

import "time"

// SecurityEventType classifies a security log record.
type SecurityEventType string

const (
	EventSuspiciousTransaction SecurityEventType = "suspicious_transaction"
	EventLoginAttempt          SecurityEventType = "login_attempt"
	EventSecurityAlert         SecurityEventType = "security_alert"
)

// SecurityLog is an append-only audit record of suspicious activity on an account.
type SecurityLog struct {
	LogID     string            `json:"id"`
	AccountID string            `json:"accountId"`
	EventType SecurityEventType `json:"eventType"`
	Details   map[string]any    `json:"details"`
	CreatedAt time.Time         `json:"createdAt"`
}

// SecuritySummary aggregates an account's security logs.
type SecuritySummary struct {
	TotalLogs              int
	SuspiciousTransactions int
	LastAlert              *time.Time
}
