// Package rules holds the deterministic transfer checks.
// Every function here is pure: callers supply the clock and the history slice.
package rules

import (
	"time"

	"github.com/SscSPs/secure_banking_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Input is everything the rule set needs to judge one transfer attempt.
type Input struct {
	SenderID      string
	Amount        decimal.Decimal
	RecipientName string
	// Recipient is nil when no account matches RecipientName.
	Recipient   *domain.Account
	Description string
	Now         time.Time
	// RecentEntries is the sender's ledger history covering at least the velocity window.
	RecentEntries []domain.LedgerEntry
}

// VelocityPolicy bounds how much a sender may move in a short window.
type VelocityPolicy struct {
	Window         time.Duration
	MinPriorDebits int
	VolumeLimit    decimal.Decimal
}

// DefaultVelocityPolicy returns the 60s / 2 debits / 10000 policy.
func DefaultVelocityPolicy() VelocityPolicy {
	return VelocityPolicy{
		Window:         60 * time.Second,
		MinPriorDebits: 2,
		VolumeLimit:    decimal.NewFromInt(10000),
	}
}

// Checker evaluates all rules against an Input.
type Checker struct {
	velocity VelocityPolicy
}

// NewChecker creates a Checker using the given velocity policy.
func NewChecker(velocity VelocityPolicy) *Checker {
	return &Checker{velocity: velocity}
}

// Check runs every rule and returns all failing reason codes, in a stable order.
// An empty result means the deterministic rules passed.
func (c *Checker) Check(in Input) []domain.ReasonCode {
	var reasons []domain.ReasonCode
	if !RecipientExists(in) {
		reasons = append(reasons, domain.ReasonRecipientNotFound)
	}
	if !IsAlphanumeric(in.RecipientName) {
		reasons = append(reasons, domain.ReasonInvalidRecipientFormat)
	}
	if IsSelfTransfer(in) {
		reasons = append(reasons, domain.ReasonSelfTransfer)
	}
	if ExceedsVelocity(c.velocity, in) {
		reasons = append(reasons, domain.ReasonExcessiveVolume)
	}
	return reasons
}

// RecipientExists reports whether the recipient name resolved to an account.
func RecipientExists(in Input) bool {
	return in.Recipient != nil
}

// IsAlphanumeric reports whether s is non-empty and made only of ASCII letters and digits.
func IsAlphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch >= 'a' && ch <= 'z':
		case ch >= 'A' && ch <= 'Z':
		case ch >= '0' && ch <= '9':
		default:
			return false
		}
	}
	return true
}

// IsSelfTransfer reports whether the recipient is the sender's own account.
func IsSelfTransfer(in Input) bool {
	return in.Recipient != nil && in.Recipient.AccountID == in.SenderID
}

// ExceedsVelocity applies the volume rule over the sender's debits inside (now-window, now].
// The limit is strict: a total equal to VolumeLimit passes.
func ExceedsVelocity(p VelocityPolicy, in Input) bool {
	windowStart := in.Now.Add(-p.Window)
	count := 0
	sum := decimal.Zero
	for _, e := range in.RecentEntries {
		if e.Direction != domain.Debit || e.Status == domain.StatusFailed {
			continue
		}
		if in.SenderID != "" && e.AccountID != in.SenderID {
			continue
		}
		if !e.CreatedAt.After(windowStart) || e.CreatedAt.After(in.Now) {
			continue
		}
		count++
		sum = sum.Add(e.Amount)
	}
	if count < p.MinPriorDebits {
		return false
	}
	return sum.Add(in.Amount).GreaterThan(p.VolumeLimit)
}
