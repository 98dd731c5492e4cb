package handlers_test

import (
	"fmt"
	"net/http"

	"github.com/SscSPs/secure_banking_app/internal/apperrors"
	"github.com/SscSPs/secure_banking_app/internal/core/domain"
	portssvc "github.com/SscSPs/secure_banking_app/internal/core/ports/services"
	"github.com/SscSPs/secure_banking_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestRegister_Created() {
	account := &domain.Account{AccountID: testAccountID, Username: "alice", Balance: decimal.NewFromInt(1000)}
	suite.auth.On("Register", mock.Anything, mock.MatchedBy(func(in portssvc.RegisterInput) bool {
		return in.Username == "alice" && in.Email == "alice@example.com" && in.InitialDeposit.IsZero()
	})).Return(account, nil).Once()

	w := suite.doWithToken(http.MethodPost, "/api/v1/auth/register",
		`{"username": "alice", "email": "alice@example.com", "password": "s3cret!"}`, "")

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.RegisterResponse
	suite.decode(w, &resp)
	suite.Equal("alice", resp.Account.Username)
	suite.True(resp.Account.Balance.Equal(decimal.NewFromInt(1000)))
}

func (suite *HandlerTestSuite) TestRegister_InitialDeposit() {
	suite.auth.On("Register", mock.Anything, mock.MatchedBy(func(in portssvc.RegisterInput) bool {
		return in.InitialDeposit.Equal(decimal.NewFromInt(250))
	})).Return(&domain.Account{AccountID: "a2", Username: "bob", Balance: decimal.NewFromInt(250)}, nil).Once()

	w := suite.doWithToken(http.MethodPost, "/api/v1/auth/register",
		`{"username": "bob", "email": "bob@example.com", "password": "pw", "initialDeposit": 250}`, "")

	suite.Equal(http.StatusCreated, w.Code)
}

func (suite *HandlerTestSuite) TestRegister_Errors() {
	suite.auth.On("Register", mock.Anything, mock.MatchedBy(func(in portssvc.RegisterInput) bool { return in.Username == "taken" })).
		Return(nil, fmt.Errorf("%w: username", apperrors.ErrDuplicate)).Once()
	suite.auth.On("Register", mock.Anything, mock.MatchedBy(func(in portssvc.RegisterInput) bool { return in.Username == "x!" })).
		Return(nil, fmt.Errorf("%w: username must be alphanumeric", apperrors.ErrValidation)).Once()

	w := suite.doWithToken(http.MethodPost, "/api/v1/auth/register",
		`{"username": "taken", "email": "t@example.com", "password": "pw"}`, "")
	suite.Equal(http.StatusConflict, w.Code)

	w = suite.doWithToken(http.MethodPost, "/api/v1/auth/register",
		`{"username": "x!", "email": "x@example.com", "password": "pw"}`, "")
	suite.Equal(http.StatusBadRequest, w.Code)

	for _, body := range []string{
		`{"username": "carol", "email": "not-an-email", "password": "pw"}`,
		`{"username": "carol", "email": "c@example.com"}`,
		`{"username": "carol", "email": "c@example.com", "password": "pw", "initialDeposit": 50.005}`,
		`{"username": "carol", "email": "c@example.com", "password": "pw", "initialDeposit": -100}`,
	} {
		w = suite.doWithToken(http.MethodPost, "/api/v1/auth/register", body, "")
		suite.Equal(http.StatusBadRequest, w.Code, body)
	}
}

func (suite *HandlerTestSuite) TestLogin() {
	account := &domain.Account{AccountID: testAccountID, Username: "alice", Balance: decimal.NewFromInt(1000)}
	suite.auth.On("Login", mock.Anything, "alice", "right").
		Return(&portssvc.LoginResult{Token: "signed", Account: account}, nil).Once()
	suite.auth.On("Login", mock.Anything, "alice", "wrong").
		Return(nil, apperrors.ErrUnauthorized).Once()

	w := suite.doWithToken(http.MethodPost, "/api/v1/auth/login", `{"username": "alice", "password": "right"}`, "")
	suite.Equal(http.StatusOK, w.Code)
	var resp dto.LoginResponse
	suite.decode(w, &resp)
	suite.Equal("signed", resp.Token)
	suite.Equal(testAccountID, resp.Account.AccountID)

	w = suite.doWithToken(http.MethodPost, "/api/v1/auth/login", `{"username": "alice", "password": "wrong"}`, "")
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.JSONEq(`{"error": "Invalid username or password"}`, w.Body.String())

	w = suite.doWithToken(http.MethodPost, "/api/v1/auth/login", `{"username": "alice"}`, "")
	suite.Equal(http.StatusBadRequest, w.Code)
}
