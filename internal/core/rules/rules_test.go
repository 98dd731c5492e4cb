package rules_test

import (
	"testing"
	"time"

	"github.com/SscSPs/secure_banking_app/internal/core/domain"
	"github.com/SscSPs/secure_banking_app/internal/core/rules"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var now = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

func debit(sender string, amount int64, ago time.Duration) domain.LedgerEntry {
	return domain.LedgerEntry{
		AccountID: sender,
		Direction: domain.Debit,
		Amount:    decimal.NewFromInt(amount),
		Status:    domain.StatusCompleted,
		CreatedAt: now.Add(-ago),
	}
}

func baseInput() rules.Input {
	return rules.Input{
		SenderID:      "sender",
		Amount:        decimal.NewFromInt(50),
		RecipientName: "bob",
		Recipient:     &domain.Account{AccountID: "recipient", Username: "bob"},
		Now:           now,
	}
}

func TestIsAlphanumeric(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"letters", "bob", true},
		{"letters and digits", "Alice42", true},
		{"empty", "", false},
		{"bang", "x!", false},
		{"space", "bob smith", false},
		{"underscore", "bob_1", false},
		{"non ascii letter", "bjørn", false},
		{"script injection", "<script>", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rules.IsAlphanumeric(tt.in))
		})
	}
}

func TestCheck_AllPass(t *testing.T) {
	c := rules.NewChecker(rules.DefaultVelocityPolicy())
	assert.Empty(t, c.Check(baseInput()))
}

func TestCheck_CollectsEveryFailure(t *testing.T) {
	c := rules.NewChecker(rules.DefaultVelocityPolicy())
	in := baseInput()
	in.RecipientName = "x!"
	in.Recipient = nil
	in.Amount = decimal.NewFromInt(4000)
	in.RecentEntries = []domain.LedgerEntry{
		debit("sender", 4000, 10*time.Second),
		debit("sender", 4000, 20*time.Second),
	}

	reasons := c.Check(in)

	assert.Equal(t, []domain.ReasonCode{
		domain.ReasonRecipientNotFound,
		domain.ReasonInvalidRecipientFormat,
		domain.ReasonExcessiveVolume,
	}, reasons)
}

func TestCheck_SelfTransfer(t *testing.T) {
	c := rules.NewChecker(rules.DefaultVelocityPolicy())
	in := baseInput()
	in.Recipient = &domain.Account{AccountID: "sender", Username: "bob"}

	assert.Equal(t, []domain.ReasonCode{domain.ReasonSelfTransfer}, c.Check(in))
}

func TestExceedsVelocity(t *testing.T) {
	policy := rules.DefaultVelocityPolicy()

	tests := []struct {
		name    string
		amount  string
		entries []domain.LedgerEntry
		want    bool
	}{
		{
			name:    "exactly at limit passes",
			amount:  "2000",
			entries: []domain.LedgerEntry{debit("sender", 4000, 5*time.Second), debit("sender", 4000, 6*time.Second)},
			want:    false,
		},
		{
			name:    "one cent above limit fails",
			amount:  "2000.01",
			entries: []domain.LedgerEntry{debit("sender", 4000, 5*time.Second), debit("sender", 4000, 6*time.Second)},
			want:    true,
		},
		{
			name:    "single prior debit never triggers",
			amount:  "9000",
			entries: []domain.LedgerEntry{debit("sender", 9000, 5*time.Second)},
			want:    false,
		},
		{
			name:    "entries outside the window are ignored",
			amount:  "4000",
			entries: []domain.LedgerEntry{debit("sender", 4000, 61*time.Second), debit("sender", 4000, 60*time.Second)},
			want:    false,
		},
		{
			name:   "credits are ignored",
			amount: "4000",
			entries: []domain.LedgerEntry{
				debit("sender", 4000, 5*time.Second),
				{AccountID: "sender", Direction: domain.Credit, Amount: decimal.NewFromInt(9000), Status: domain.StatusCompleted, CreatedAt: now.Add(-time.Second)},
			},
			want: false,
		},
		{
			name:   "failed debits are ignored",
			amount: "4000",
			entries: []domain.LedgerEntry{
				debit("sender", 4000, 5*time.Second),
				{AccountID: "sender", Direction: domain.Debit, Amount: decimal.NewFromInt(4000), Status: domain.StatusFailed, CreatedAt: now.Add(-time.Second)},
			},
			want: false,
		},
		{
			name:   "other accounts are ignored",
			amount: "4000",
			entries: []domain.LedgerEntry{
				debit("sender", 4000, 5*time.Second),
				debit("someone-else", 4000, 5*time.Second),
			},
			want: false,
		},
		{
			name:    "three transfers of 4000",
			amount:  "4000",
			entries: []domain.LedgerEntry{debit("sender", 4000, 2*time.Second), debit("sender", 4000, time.Second)},
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseInput()
			in.Amount = decimal.RequireFromString(tt.amount)
			in.RecentEntries = tt.entries
			assert.Equal(t, tt.want, rules.ExceedsVelocity(policy, in))
		})
	}
}

func TestExceedsVelocity_BoundaryOnCurrentAmount(t *testing.T) {
	policy := rules.DefaultVelocityPolicy()
	in := baseInput()
	in.RecentEntries = []domain.LedgerEntry{debit("sender", 1, 3*time.Second), debit("sender", 1, 2*time.Second)}

	in.Amount = decimal.RequireFromString("9998")
	assert.False(t, rules.ExceedsVelocity(policy, in), "total of exactly 10000 must pass")

	in.Amount = decimal.RequireFromString("9998.01")
	assert.True(t, rules.ExceedsVelocity(policy, in), "total of 10000.01 must fail")
}
