package services

import (
	"context"

	"github.com/SscSPs/secure_banking_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// IdentityProvider resolves a bearer token to the authenticated principal's account id.
type IdentityProvider interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

// RegisterInput carries the data needed to open an account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	// InitialDeposit is optional; zero selects the configured default.
	InitialDeposit decimal.Decimal
}

// LoginResult is returned on successful login.
type LoginResult struct {
	Token   string
	Account *domain.Account
}

// AuthSvcFacade covers registration, login and token verification.
type AuthSvcFacade interface {
	IdentityProvider
	Register(ctx context.Context, in RegisterInput) (*domain.Account, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
}
