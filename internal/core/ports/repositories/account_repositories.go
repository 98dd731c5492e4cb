package repositories

import (
	"context"

	"github.com/SscSPs/secure_banking_app/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByUsername retrieves an account by its unique username.
	FindAccountByUsername(ctx context.Context, username string) (*domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// CreateAccount persists a new account together with its login credential.
	// Returns apperrors.ErrDuplicate when the username or email is taken.
	CreateAccount(ctx context.Context, account domain.Account, credential domain.Credential) error
}

// CredentialReader exposes login material to the identity provider only.
type CredentialReader interface {
	FindCredentialByAccountID(ctx context.Context, accountID string) (*domain.Credential, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	CredentialReader
}
