package handlers_test

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/secure_banking_app/internal/apperrors"
	"github.com/SscSPs/secure_banking_app/internal/core/domain"
	"github.com/SscSPs/secure_banking_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func transferTo(recipient string, amount string) any {
	return mock.MatchedBy(func(req domain.TransferRequest) bool {
		return req.SenderID == testAccountID &&
			req.RecipientName == recipient &&
			req.Amount.Equal(decimal.RequireFromString(amount))
	})
}

func debitEntry(amount string) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:          "entry-1",
		TransferID:       "transfer-1",
		AccountID:        testAccountID,
		Direction:        domain.Debit,
		Amount:           decimal.RequireFromString(amount),
		CounterpartyName: "bob",
		Status:           domain.StatusCompleted,
		BalanceAfter:     decimal.NewFromInt(500),
		CreatedAt:        time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (suite *HandlerTestSuite) TestValidate_Statuses() {
	tests := []struct {
		name       string
		verdict    *domain.ValidationVerdict
		status     string
		isValid    bool
		fraudScore int
		errors     []string
	}{
		{name: "safe", verdict: &domain.ValidationVerdict{Approved: true, RiskScore: 0.95}, status: dto.StatusSafe, isValid: true, errors: []string{}},
		{name: "warning", verdict: &domain.ValidationVerdict{Approved: true, RiskScore: 0.6}, status: dto.StatusWarning, isValid: true, errors: []string{}},
		{name: "danger", verdict: &domain.ValidationVerdict{Approved: true, RiskScore: 0.5}, status: dto.StatusDanger, isValid: true, errors: []string{}},
		{name: "degraded", verdict: &domain.ValidationVerdict{Approved: true, Degraded: true}, status: dto.StatusWarning, isValid: true, errors: []string{}},
		{name: "fraud", verdict: domain.Rejected(domain.ReasonFraudDetected), status: dto.StatusDanger, fraudScore: 100, errors: []string{"fraud_detected"}},
		{name: "unknown recipient", verdict: domain.Rejected(domain.ReasonRecipientNotFound), status: dto.StatusDanger, errors: []string{"recipient_not_found"}},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.SetupTest()
			suite.transaction.On("Validate", mock.Anything, transferTo("bob", "500")).Return(tc.verdict, nil).Once()

			w := suite.do(http.MethodPost, "/api/v1/transactions/validate", `{"amount": 500, "recipient": "bob"}`)

			suite.Equal(http.StatusOK, w.Code)
			var resp dto.ValidationResponse
			suite.decode(w, &resp)
			suite.Equal(tc.status, resp.Status)
			suite.Equal(tc.isValid, resp.IsValid)
			suite.Equal(tc.fraudScore, resp.FraudScore)
			suite.Equal(tc.errors, resp.ValidationErrors)
			suite.NotEmpty(resp.Message)
		})
	}
}

func (suite *HandlerTestSuite) TestValidate_ScorerUnavailableIsGeneric500() {
	cause := fmt.Errorf("%w: dial tcp 10.0.0.9:80: connection refused", apperrors.ErrScorerUnavailable)
	suite.transaction.On("Validate", mock.Anything, mock.Anything).Return(nil, cause).Once()

	w := suite.do(http.MethodPost, "/api/v1/transactions/validate", `{"amount": 2000, "recipient": "bob"}`)

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.JSONEq(`{"error": "Failed to validate transaction"}`, w.Body.String())
}

func (suite *HandlerTestSuite) TestValidate_SenderNotFound() {
	suite.transaction.On("Validate", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("sender account x: %w", apperrors.ErrNotFound)).Once()

	w := suite.do(http.MethodPost, "/api/v1/transactions/validate", `{"amount": 20, "recipient": "bob"}`)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestTransfer_BadBodiesNeverReachTheService() {
	bodies := []string{
		`{"amount": 10.001, "recipient": "bob"}`,
		`{"amount": -5, "recipient": "bob"}`,
		`{"amount": 0, "recipient": "bob"}`,
		`{"recipient": "bob"}`,
		`{"amount": 10}`,
		`{"amount": "ten", "recipient": "bob"}`,
		`not json`,
	}
	for _, body := range bodies {
		for _, url := range []string{"/api/v1/transactions/validate", "/api/v1/transactions"} {
			w := suite.do(http.MethodPost, url, body)
			suite.Equal(http.StatusBadRequest, w.Code, "%s %s", url, body)
		}
	}
	suite.transaction.AssertNotCalled(suite.T(), "Validate", mock.Anything, mock.Anything)
	suite.transaction.AssertNotCalled(suite.T(), "Submit", mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestSubmit_Created() {
	entry := debitEntry("500")
	suite.transaction.On("Submit", mock.Anything, transferTo("bob", "500")).Return(
		&domain.TransferResult{TransferID: entry.TransferID, Debit: entry},
		&domain.ValidationVerdict{Approved: true, RiskScore: 0.95},
		nil,
	).Once()

	w := suite.do(http.MethodPost, "/api/v1/transactions", `{"amount": 500, "recipient": "bob", "description": "rent"}`)

	suite.Equal(http.StatusCreated, w.Code)
	var raw map[string]any
	suite.decode(w, &raw)
	suite.Equal("entry-1", raw["id"])
	suite.Equal("debit", raw["type"])
	suite.Equal("bob", raw["recipient"])
	suite.Equal(500.0, raw["amount"], "money serializes as a JSON number")
	suite.Equal(500.0, raw["balanceAfter"])
}

func (suite *HandlerTestSuite) TestSubmit_Rejected() {
	verdict := domain.Rejected(domain.ReasonExcessiveVolume)
	suite.transaction.On("Submit", mock.Anything, transferTo("bob", "4000")).Return(
		nil, verdict, fmt.Errorf("%w: transfer rejected: excessive_transaction_volume", apperrors.ErrValidation),
	).Once()

	w := suite.do(http.MethodPost, "/api/v1/transactions", `{"amount": 4000, "recipient": "bob"}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	var resp dto.TransferRejectedResponse
	suite.decode(w, &resp)
	suite.Equal(domain.ReasonExcessiveVolume.Message(), resp.Error)
	suite.Equal(dto.StatusDanger, resp.Status)
	suite.False(resp.IsValid)
	suite.Equal([]string{"excessive_transaction_volume"}, resp.ValidationErrors)
	suite.Equal(0, resp.FraudScore)
}

func (suite *HandlerTestSuite) TestSubmit_ErrorMapping() {
	approved := &domain.ValidationVerdict{Approved: true, RiskScore: 0.9}
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{name: "insufficient funds", err: apperrors.ErrInsufficientFunds, code: http.StatusBadRequest, message: "Insufficient funds"},
		{name: "unknown sender", err: fmt.Errorf("sender: %w", apperrors.ErrNotFound), code: http.StatusNotFound, message: "Account not found"},
		{name: "commit failed", err: fmt.Errorf("%w: connection reset", apperrors.ErrCommitFailed), code: http.StatusInternalServerError, message: "Error processing transaction"},
		{name: "scorer unavailable", err: apperrors.ErrScorerUnavailable, code: http.StatusInternalServerError, message: "Error processing transaction"},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.SetupTest()
			suite.transaction.On("Submit", mock.Anything, mock.Anything).Return(nil, approved, tc.err).Once()

			w := suite.do(http.MethodPost, "/api/v1/transactions", `{"amount": 50, "recipient": "bob"}`)

			suite.Equal(tc.code, w.Code)
			suite.JSONEq(fmt.Sprintf(`{"error": %q}`, tc.message), w.Body.String())
		})
	}
}

func (suite *HandlerTestSuite) TestListTransactions_Paged() {
	entries := []domain.LedgerEntry{debitEntry("10"), debitEntry("20")}
	suite.history.On("ListEntries", mock.Anything, testAccountID, 2, "tok-1").Return(entries, "tok-2", nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/transactions?limit=2&nextToken=tok-1", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListTransactionsResponse
	suite.decode(w, &resp)
	suite.Len(resp.Transactions, 2)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal("tok-2", *resp.NextToken)
}

func (suite *HandlerTestSuite) TestListTransactions_LastPageAndBadToken() {
	suite.history.On("ListEntries", mock.Anything, testAccountID, 0, "").Return([]domain.LedgerEntry{}, "", nil).Once()
	suite.history.On("ListEntries", mock.Anything, testAccountID, 0, "garbage").
		Return(nil, "", fmt.Errorf("%w: invalid pagination token", apperrors.ErrValidation)).Once()

	w := suite.do(http.MethodGet, "/api/v1/transactions", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"transactions": []}`, w.Body.String())

	w = suite.do(http.MethodGet, "/api/v1/transactions?nextToken=garbage", nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/transactions?limit=500", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestRecentAndHistory() {
	suite.history.On("Recent", mock.Anything, testAccountID, 0).Return([]domain.LedgerEntry{debitEntry("1")}, nil).Once()
	suite.history.On("Recent", mock.Anything, testAccountID, 3).Return([]domain.LedgerEntry{}, nil).Once()
	suite.history.On("History", mock.Anything, testAccountID, domain.PeriodWeek).Return([]domain.LedgerEntry{debitEntry("2")}, nil).Once()
	suite.history.On("History", mock.Anything, testAccountID, domain.Period("")).Return([]domain.LedgerEntry{}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/transactions/recent", nil)
	suite.Equal(http.StatusOK, w.Code)
	var entries []dto.TransactionEntryResponse
	suite.decode(w, &entries)
	suite.Len(entries, 1)

	w = suite.do(http.MethodGet, "/api/v1/transactions/recent?limit=3", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`[]`, w.Body.String())

	w = suite.do(http.MethodGet, "/api/v1/transactions/history?period=week", nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/transactions/history", nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/transactions/history?period=year", nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/transactions/recent?limit=51", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}
