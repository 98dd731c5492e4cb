package handlers_test

import (
	"context"

	"github.com/SscSPs/secure_banking_app/internal/core/domain"
	portssvc "github.com/SscSPs/secure_banking_app/internal/core/ports/services"
	"github.com/stretchr/testify/mock"
)

// --- Mock AuthService ---
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}
func (m *MockAuthService) Register(ctx context.Context, in portssvc.RegisterInput) (*domain.Account, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAuthService) Login(ctx context.Context, username, password string) (*portssvc.LoginResult, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portssvc.LoginResult), args.Error(1)
}

var _ portssvc.AuthSvcFacade = (*MockAuthService)(nil)

// --- Mock TransactionService ---
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) Validate(ctx context.Context, req domain.TransferRequest) (*domain.ValidationVerdict, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ValidationVerdict), args.Error(1)
}
func (m *MockTransactionService) Submit(ctx context.Context, req domain.TransferRequest) (*domain.TransferResult, *domain.ValidationVerdict, error) {
	args := m.Called(ctx, req)
	var result *domain.TransferResult
	if r := args.Get(0); r != nil {
		result = r.(*domain.TransferResult)
	}
	var verdict *domain.ValidationVerdict
	if v := args.Get(1); v != nil {
		verdict = v.(*domain.ValidationVerdict)
	}
	return result, verdict, args.Error(2)
}

var _ portssvc.TransactionSvc = (*MockTransactionService)(nil)

// --- Mock HistoryService ---
type MockHistoryService struct {
	mock.Mock
}

func (m *MockHistoryService) GetBalance(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockHistoryService) History(ctx context.Context, accountID string, period domain.Period) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, accountID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}
func (m *MockHistoryService) Recent(ctx context.Context, accountID string, limit int) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}
func (m *MockHistoryService) ListEntries(ctx context.Context, accountID string, limit int, pageToken string) ([]domain.LedgerEntry, string, error) {
	args := m.Called(ctx, accountID, limit, pageToken)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).([]domain.LedgerEntry), args.String(1), args.Error(2)
}

var _ portssvc.HistorySvc = (*MockHistoryService)(nil)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Transfer(ctx context.Context, req domain.TransferRequest, verdict *domain.ValidationVerdict) (*domain.TransferResult, error) {
	args := m.Called(ctx, req, verdict)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransferResult), args.Error(1)
}
func (m *MockLedgerService) Deposit(ctx context.Context, req domain.DepositRequest) (*domain.DepositResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DepositResult), args.Error(1)
}

var _ portssvc.LedgerSvc = (*MockLedgerService)(nil)

// --- Mock SecurityService ---
type MockSecurityService struct {
	mock.Mock
}

func (m *MockSecurityService) Record(ctx context.Context, accountID string, eventType domain.SecurityEventType, details map[string]any) {
	m.Called(ctx, accountID, eventType, details)
}
func (m *MockSecurityService) ListLogs(ctx context.Context, accountID string) ([]domain.SecurityLog, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SecurityLog), args.Error(1)
}
func (m *MockSecurityService) Summary(ctx context.Context, accountID string) (*domain.SecuritySummary, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SecuritySummary), args.Error(1)
}

var _ portssvc.SecuritySvc = (*MockSecurityService)(nil)
