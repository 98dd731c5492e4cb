package models

import "time"

// SecurityLog is a row of the security_logs table. Details is stored as JSONB.
type SecurityLog struct {
	LogID     string         `db:"log_id"`
	AccountID string         `db:"account_id"`
	EventType string         `db:"event_type"`
	Details   map[string]any `db:"details"`
	CreatedAt time.Time      `db:"created_at"`
}
