package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/secure_banking_app/internal/adapters/database/memory"
	"github.com/SscSPs/secure_banking_app/internal/apperrors"
	"github.com/SscSPs/secure_banking_app/internal/core/domain"
	portsrepo "github.com/SscSPs/secure_banking_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/secure_banking_app/internal/core/ports/services"
	"github.com/SscSPs/secure_banking_app/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type LedgerServiceTestSuite struct {
	suite.Suite
	store     *memory.Store
	publisher *MockEventPublisher
	service   portssvc.LedgerSvc
	now       time.Time
	alice     domain.Account
	bob       domain.Account
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.store = memory.NewStore()
	suite.alice = seedAccount(suite.T(), suite.store, "alice", "1000")
	suite.bob = seedAccount(suite.T(), suite.store, "bob", "1000")
	suite.now = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	suite.publisher = new(MockEventPublisher)
	suite.service = services.NewLedgerService(suite.store,
		services.WithEventPublisher(suite.publisher),
		services.WithLedgerClock(func() time.Time { return suite.now }))
}

func approved() *domain.ValidationVerdict {
	return &domain.ValidationVerdict{Approved: true, RiskScore: 0.95}
}

func (suite *LedgerServiceTestSuite) TestTransfer_CommitsBothLegs() {
	suite.publisher.On("Publish", mock.Anything, domain.TopicTransferCompleted, mock.AnythingOfType("string"),
		mock.AnythingOfType("domain.TransferCompleted")).Return(nil).Once()

	req := domain.TransferRequest{SenderID: suite.alice.AccountID, Amount: dec("500"), RecipientName: "bob", Description: " rent "}
	result, err := suite.service.Transfer(context.Background(), req, approved())

	suite.Require().NoError(err)
	suite.NotEmpty(result.TransferID)
	suite.Equal(result.TransferID, result.Debit.TransferID)
	suite.Equal(result.TransferID, result.Credit.TransferID)

	suite.Equal(domain.Debit, result.Debit.Direction)
	suite.Equal(suite.alice.AccountID, result.Debit.AccountID)
	suite.Equal("bob", result.Debit.CounterpartyName)
	suite.Equal("rent", result.Debit.Description)
	suite.True(dec("500").Equal(result.Debit.BalanceAfter))
	suite.Equal(suite.now, result.Debit.CreatedAt)

	suite.Equal(domain.Credit, result.Credit.Direction)
	suite.Equal(suite.bob.AccountID, result.Credit.AccountID)
	suite.Equal("alice", result.Credit.CounterpartyName)
	suite.True(dec("1500").Equal(result.Credit.BalanceAfter))

	suite.True(dec("500").Equal(balanceOf(suite.T(), suite.store, suite.alice.AccountID)))
	suite.True(dec("1500").Equal(balanceOf(suite.T(), suite.store, suite.bob.AccountID)))
	suite.publisher.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestTransfer_RefusesUnapprovedVerdict() {
	req := domain.TransferRequest{SenderID: suite.alice.AccountID, Amount: dec("10"), RecipientName: "bob"}

	for _, verdict := range []*domain.ValidationVerdict{nil, domain.Rejected(domain.ReasonFraudDetected)} {
		result, err := suite.service.Transfer(context.Background(), req, verdict)
		suite.Nil(result)
		suite.ErrorIs(err, apperrors.ErrValidation)
	}

	entries, err := suite.store.ListEntriesByAccount(context.Background(), suite.alice.AccountID, portsrepo.EntryFilter{})
	suite.Require().NoError(err)
	suite.Empty(entries)
	suite.publisher.AssertNotCalled(suite.T(), "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestTransfer_InsufficientFundsIsNotACommitFailure() {
	req := domain.TransferRequest{SenderID: suite.alice.AccountID, Amount: dec("1000.01"), RecipientName: "bob"}

	result, err := suite.service.Transfer(context.Background(), req, approved())

	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.NotErrorIs(err, apperrors.ErrCommitFailed)
	suite.True(dec("1000").Equal(balanceOf(suite.T(), suite.store, suite.alice.AccountID)))
	suite.True(dec("1000").Equal(balanceOf(suite.T(), suite.store, suite.bob.AccountID)))
}

func (suite *LedgerServiceTestSuite) TestTransfer_ExactBalanceSucceeds() {
	suite.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	req := domain.TransferRequest{SenderID: suite.alice.AccountID, Amount: dec("1000"), RecipientName: "bob"}

	_, err := suite.service.Transfer(context.Background(), req, approved())

	suite.Require().NoError(err)
	suite.True(balanceOf(suite.T(), suite.store, suite.alice.AccountID).IsZero())
}

func (suite *LedgerServiceTestSuite) TestTransfer_StoreFailureWrapsCommitFailed() {
	writer := new(MockLedgerWriter)
	writer.On("CommitTransfer", mock.Anything, mock.AnythingOfType("repositories.TransferCommand")).Return(nil, assert.AnError).Once()
	svc := services.NewLedgerService(writer)

	req := domain.TransferRequest{SenderID: suite.alice.AccountID, Amount: dec("10"), RecipientName: "bob"}
	result, err := svc.Transfer(context.Background(), req, approved())

	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrCommitFailed)
	suite.ErrorIs(err, assert.AnError)
	writer.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestTransfer_PublishFailureDoesNotUndoCommit() {
	suite.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError).Once()
	req := domain.TransferRequest{SenderID: suite.alice.AccountID, Amount: dec("250"), RecipientName: "bob"}

	result, err := suite.service.Transfer(context.Background(), req, approved())

	suite.Require().NoError(err)
	suite.NotNil(result)
	suite.True(dec("750").Equal(balanceOf(suite.T(), suite.store, suite.alice.AccountID)))
}

func (suite *LedgerServiceTestSuite) TestDeposit_DefaultsDescription() {
	suite.publisher.On("Publish", mock.Anything, domain.TopicDepositCompleted, mock.AnythingOfType("string"),
		mock.AnythingOfType("domain.DepositCompleted")).Return(nil).Once()

	result, err := suite.service.Deposit(context.Background(), domain.DepositRequest{AccountID: suite.alice.AccountID, Amount: dec("20.50")})

	suite.Require().NoError(err)
	suite.True(dec("1020.50").Equal(result.NewBalance))
	suite.Equal(domain.Credit, result.Entry.Direction)
	suite.Equal(domain.SelfCounterparty, result.Entry.CounterpartyName)
	suite.Equal(domain.DefaultDepositDescription, result.Entry.Description)
	suite.publisher.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestDeposit_RejectsBadAmount() {
	for _, amount := range []string{"0", "-1", "0.001"} {
		result, err := suite.service.Deposit(context.Background(), domain.DepositRequest{AccountID: suite.alice.AccountID, Amount: dec(amount)})
		suite.Nil(result, amount)
		suite.ErrorIs(err, apperrors.ErrValidation, amount)
	}
}

func (suite *LedgerServiceTestSuite) TestDeposit_UnknownAccount() {
	result, err := suite.service.Deposit(context.Background(), domain.DepositRequest{AccountID: "missing", Amount: dec("5")})

	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
