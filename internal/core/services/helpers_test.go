package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/secure_banking_app/internal/adapters/database/memory"
	"github.com/SscSPs/secure_banking_app/internal/core/domain"
	portsrepo "github.com/SscSPs/secure_banking_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/secure_banking_app/internal/core/ports/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock RiskScorer ---
type MockRiskScorer struct {
	mock.Mock
}

func (m *MockRiskScorer) Score(ctx context.Context, features domain.RiskFeatures) (float64, error) {
	args := m.Called(ctx, features)
	return args.Get(0).(float64), args.Error(1)
}

var _ portssvc.RiskScorer = (*MockRiskScorer)(nil)

// scorerFunc adapts a function to RiskScorer.
type scorerFunc func(ctx context.Context, features domain.RiskFeatures) (float64, error)

func (f scorerFunc) Score(ctx context.Context, features domain.RiskFeatures) (float64, error) {
	return f(ctx, features)
}

func fixedScore(score float64) portssvc.RiskScorer {
	return scorerFunc(func(context.Context, domain.RiskFeatures) (float64, error) { return score, nil })
}

func failingScorer(err error) portssvc.RiskScorer {
	return scorerFunc(func(context.Context, domain.RiskFeatures) (float64, error) { return 0, err })
}

// --- Mock EventPublisher ---
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, topic string, key string, event any) error {
	args := m.Called(ctx, topic, key, event)
	return args.Error(0)
}

var _ portssvc.EventPublisher = (*MockEventPublisher)(nil)

// --- Mock LedgerWriter ---
type MockLedgerWriter struct {
	mock.Mock
}

func (m *MockLedgerWriter) CommitTransfer(ctx context.Context, cmd portsrepo.TransferCommand) (*domain.TransferResult, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransferResult), args.Error(1)
}

func (m *MockLedgerWriter) CommitDeposit(ctx context.Context, cmd portsrepo.DepositCommand) (*domain.DepositResult, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DepositResult), args.Error(1)
}

var _ portsrepo.LedgerWriter = (*MockLedgerWriter)(nil)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedAccount(t *testing.T, store *memory.Store, username, balance string) domain.Account {
	t.Helper()
	now := time.Now().UTC()
	acc := domain.Account{
		AccountID:   uuid.NewString(),
		Username:    username,
		Balance:     dec(balance),
		AuditFields: domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	cred := domain.Credential{
		AccountID:    acc.AccountID,
		Email:        username + "@example.com",
		PasswordHash: "unused",
		AuditFields:  acc.AuditFields,
	}
	require.NoError(t, store.CreateAccount(context.Background(), acc, cred))
	return acc
}

func balanceOf(t *testing.T, store *memory.Store, accountID string) decimal.Decimal {
	t.Helper()
	acc, err := store.FindAccountByID(context.Background(), accountID)
	require.NoError(t, err)
	return acc.Balance
}
