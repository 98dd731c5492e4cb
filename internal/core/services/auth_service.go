package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/secure_banking_app/internal/apperrors"
	"github.com/SscSPs/secure_banking_app/internal/core/domain"
	portsrepo "github.com/SscSPs/secure_banking_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/secure_banking_app/internal/core/ports/services"
	"github.com/SscSPs/secure_banking_app/internal/core/rules"
	"github.com/SscSPs/secure_banking_app/internal/platform/config"
	"github.com/SscSPs/secure_banking_app/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 32
	maxPasswordBytes  = utils.MaxPasswordBytes
)

// authService implements AuthSvcFacade: registration, login and bearer token verification.
type authService struct {
	BaseService
	cfg         *config.Config
	accountRepo portsrepo.AccountRepositoryFacade
	security    portssvc.SecuritySvc
	validate    *validator.Validate
}

// NewAuthService creates the identity provider. security may be nil.
func NewAuthService(cfg *config.Config, accountRepo portsrepo.AccountRepositoryFacade, security portssvc.SecuritySvc) portssvc.AuthSvcFacade {
	return &authService{
		cfg:         cfg,
		accountRepo: accountRepo,
		security:    security,
		validate:    validator.New(),
	}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

// Register opens an account with its opening balance and login credential.
func (s *authService) Register(ctx context.Context, in portssvc.RegisterInput) (*domain.Account, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if n := len(username); n < minUsernameLength || n > maxUsernameLength || !rules.IsAlphanumeric(username) {
		return nil, fmt.Errorf("%w: username must be %d-%d letters or digits", apperrors.ErrValidation, minUsernameLength, maxUsernameLength)
	}
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", apperrors.ErrValidation)
	}
	if in.Password == "" || len(in.Password) > maxPasswordBytes {
		return nil, fmt.Errorf("%w: password must be 1-%d bytes", apperrors.ErrValidation, maxPasswordBytes)
	}

	opening := in.InitialDeposit
	if opening.IsZero() {
		opening = s.cfg.DefaultOpeningBalance
	}
	if !domain.IsValidAmount(opening) {
		return nil, fmt.Errorf("%w: initial deposit must be positive with at most %d decimal places", apperrors.ErrValidation, domain.MoneyScale)
	}
	if opening.LessThan(s.cfg.MinOpeningBalance) {
		return nil, fmt.Errorf("%w: initial deposit must be at least %s", apperrors.ErrValidation, s.cfg.MinOpeningBalance.StringFixed(domain.MoneyScale))
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.Now().UTC()
	audit := domain.AuditFields{CreatedAt: now, LastUpdatedAt: now}
	account := domain.Account{
		AccountID:   uuid.NewString(),
		Username:    username,
		Balance:     opening.Round(domain.MoneyScale),
		AuditFields: audit,
	}
	credential := domain.Credential{
		AccountID:    account.AccountID,
		Email:        email,
		PasswordHash: hash,
		AuditFields:  audit,
	}

	if err := s.accountRepo.CreateAccount(ctx, account, credential); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: username or email already registered", apperrors.ErrDuplicate)
		}
		s.LogError(ctx, err, "Failed to create account", slog.String("username", username))
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.LogInfo(ctx, "Account registered", slog.String("account_id", account.AccountID))
	return &account, nil
}

// Login checks the password and issues a signed access token.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, username, password string) (*portssvc.LoginResult, error) {
	account, err := s.accountRepo.FindAccountByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			utils.BurnPasswordCheck(password)
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	credential, err := s.accountRepo.FindCredentialByAccountID(ctx, account.AccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to load credential: %w", err)
	}

	if !utils.CheckPasswordHash(password, credential.PasswordHash) {
		s.LogWarn(ctx, "Failed login attempt", slog.String("account_id", account.AccountID))
		if s.security != nil {
			s.security.Record(ctx, account.AccountID, domain.EventLoginAttempt, map[string]any{
				"success": false,
				"reason":  "invalid password",
			})
		}
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	token, _, err := utils.GenerateJWT(account.AccountID, s.cfg.JWTSecret, s.expiry(), s.cfg.JWTIssuer)
	if err != nil {
		return nil, err
	}
	return &portssvc.LoginResult{Token: token, Account: account}, nil
}

// Authenticate verifies a bearer token and returns its subject.
func (s *authService) Authenticate(_ context.Context, token string) (string, error) {
	claims, err := utils.ParseAndValidateJWT(token, s.cfg.JWTSecret, s.cfg.JWTIssuer)
	if err != nil {
		return "", fmt.Errorf("%w: %w", apperrors.ErrUnauthorized, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: token has no subject", apperrors.ErrUnauthorized)
	}
	return claims.Subject, nil
}

func (s *authService) expiry() time.Duration {
	if s.cfg.JWTExpiryDuration <= 0 {
		return time.Hour
	}
	return s.cfg.JWTExpiryDuration
}
