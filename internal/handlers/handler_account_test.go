package handlers_test

import (
	"errors"
	"net/http"

	"github.com/SscSPs/secure_banking_app/internal/apperrors"
	"github.com/SscSPs/secure_banking_app/internal/core/domain"
	"github.com/SscSPs/secure_banking_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestBalance_BothRoutes() {
	account := &domain.Account{AccountID: testAccountID, Username: "alice", Balance: decimal.RequireFromString("1000.50")}
	suite.history.On("GetBalance", mock.Anything, testAccountID).Return(account, nil).Twice()

	for _, url := range []string{"/api/v1/balance", "/api/v1/transactions/balance"} {
		w := suite.do(http.MethodGet, url, nil)
		suite.Equal(http.StatusOK, w.Code, url)
		suite.JSONEq(`{"balance": 1000.5}`, w.Body.String(), url)
	}
}

func (suite *HandlerTestSuite) TestBalance_UnknownAccount() {
	suite.history.On("GetBalance", mock.Anything, testAccountID).Return(nil, apperrors.ErrNotFound).Once()

	w := suite.do(http.MethodGet, "/api/v1/balance", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestDeposit() {
	entry := domain.LedgerEntry{
		EntryID:          "entry-9",
		TransferID:       "transfer-9",
		AccountID:        testAccountID,
		Direction:        domain.Credit,
		Amount:           decimal.NewFromInt(250),
		CounterpartyName: domain.SelfCounterparty,
		Description:      domain.DefaultDepositDescription,
		Status:           domain.StatusCompleted,
		BalanceAfter:     decimal.NewFromInt(1250),
	}
	suite.ledger.On("Deposit", mock.Anything, mock.MatchedBy(func(req domain.DepositRequest) bool {
		return req.AccountID == testAccountID && req.Amount.Equal(decimal.NewFromInt(250)) && req.Description == ""
	})).Return(&domain.DepositResult{Entry: entry, NewBalance: decimal.NewFromInt(1250)}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/deposit", `{"amount": 250}`)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.DepositResponse
	suite.decode(w, &resp)
	suite.Equal("Deposit successful", resp.Message)
	suite.True(resp.NewBalance.Equal(decimal.NewFromInt(1250)))
	suite.Equal(domain.Credit, resp.Entry.Type)
	suite.Equal("Self", resp.Entry.Recipient)
}

func (suite *HandlerTestSuite) TestDeposit_Errors() {
	w := suite.do(http.MethodPost, "/api/v1/deposit", `{"amount": 0.001}`)
	suite.Equal(http.StatusBadRequest, w.Code)

	suite.ledger.On("Deposit", mock.Anything, mock.Anything).Return(nil, errors.New("pool closed")).Once()
	w = suite.do(http.MethodPost, "/api/v1/deposit", `{"amount": 5}`)
	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.JSONEq(`{"error": "Error processing deposit"}`, w.Body.String())
}
