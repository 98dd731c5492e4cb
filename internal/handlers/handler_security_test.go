package handlers_test

import (
	"errors"
	"net/http"
	"time"

	"github.com/SscSPs/secure_banking_app/internal/core/domain"
	"github.com/SscSPs/secure_banking_app/internal/dto"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestSecurityLogs() {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	logs := []domain.SecurityLog{{
		LogID:     "log-1",
		AccountID: testAccountID,
		EventType: domain.EventSuspiciousTransaction,
		Details:   map[string]any{"reasons": []any{"fraud_detected"}},
		CreatedAt: at,
	}}
	suite.security.On("ListLogs", mock.Anything, testAccountID).Return(logs, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/security/logs", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp []dto.SecurityLogResponse
	suite.decode(w, &resp)
	suite.Require().Len(resp, 1)
	suite.Equal(domain.EventSuspiciousTransaction, resp[0].EventType)
	suite.True(at.Equal(resp[0].Timestamp))
}

func (suite *HandlerTestSuite) TestSecuritySummary() {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	suite.security.On("Summary", mock.Anything, testAccountID).
		Return(&domain.SecuritySummary{TotalLogs: 3, SuspiciousTransactions: 2, LastAlert: &at}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/security/summary", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"total_logs": 3, "suspicious_transactions": 2, "last_alert": "2024-03-01T12:00:00Z"}`, w.Body.String())
}

func (suite *HandlerTestSuite) TestSecuritySummary_Empty() {
	suite.security.On("Summary", mock.Anything, testAccountID).Return(&domain.SecuritySummary{}, nil).Once()
	suite.security.On("ListLogs", mock.Anything, testAccountID).Return(nil, errors.New("db down")).Once()

	w := suite.do(http.MethodGet, "/api/v1/security/summary", nil)
	suite.JSONEq(`{"total_logs": 0, "suspicious_transactions": 0, "last_alert": null}`, w.Body.String())

	w = suite.do(http.MethodGet, "/api/v1/security/logs", nil)
	suite.Equal(http.StatusInternalServerError, w.Code)
}
