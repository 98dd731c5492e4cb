package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"
	"unicode/utf8"

	"github.com/SscSPs/secure_banking_app/internal/apperrors"
	"github.com/SscSPs/secure_banking_app/internal/core/domain"
	portsrepo "github.com/SscSPs/secure_banking_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/secure_banking_app/internal/core/ports/services"
	"github.com/SscSPs/secure_banking_app/internal/core/rules"
	"github.com/shopspring/decimal"
)

// ValidatorConfig holds the thresholds of the validation pipeline.
type ValidatorConfig struct {
	Velocity      rules.VelocityPolicy
	ScorerTimeout time.Duration

	// Feature clamps applied before scoring.
	MaxFeatureAmount     float64
	MaxRecipientLength   int
	MaxDescriptionLength int

	// ZeroScoreFallback replaces a raw score of exactly 0.
	ZeroScoreFallback float64

	// Transfers at or below LowRiskAmount to a recipient name of at least
	// LowRiskMinRecipientLength characters are scored LowRiskScore and never fraud-rejected.
	LowRiskAmount             decimal.Decimal
	LowRiskMinRecipientLength int
	LowRiskScore              float64

	// Transfers above FraudAmount scoring below FraudScoreThreshold are rejected.
	FraudAmount         decimal.Decimal
	FraudScoreThreshold float64
}

// DefaultValidatorConfig returns the production thresholds.
func DefaultValidatorConfig() ValidatorConfig {
	return ValidatorConfig{
		Velocity:                  rules.DefaultVelocityPolicy(),
		ScorerTimeout:             2 * time.Second,
		MaxFeatureAmount:          10000,
		MaxRecipientLength:        20,
		MaxDescriptionLength:      100,
		ZeroScoreFallback:         0.75,
		LowRiskAmount:             decimal.NewFromInt(1000),
		LowRiskMinRecipientLength: 3,
		LowRiskScore:              0.95,
		FraudAmount:               decimal.NewFromInt(5000),
		FraudScoreThreshold:       0.2,
	}
}

// validatorService implements the ValidatorSvc interface
type validatorService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	ledgerRepo  portsrepo.LedgerReader
	scorer      portssvc.RiskScorer
	checker     *rules.Checker
	cfg         ValidatorConfig
}

// ValidatorOption is a functional option for configuring the validator service
type ValidatorOption func(*validatorService)

// WithValidatorConfig overrides the default thresholds.
func WithValidatorConfig(cfg ValidatorConfig) ValidatorOption {
	return func(s *validatorService) {
		s.cfg = cfg
	}
}

// WithValidatorClock pins the validator's notion of now.
func WithValidatorClock(now Clock) ValidatorOption {
	return func(s *validatorService) {
		s.now = now
	}
}

// NewValidatorService creates a validator over the given stores and risk scorer.
func NewValidatorService(accountRepo portsrepo.AccountReader, ledgerRepo portsrepo.LedgerReader, scorer portssvc.RiskScorer, options ...ValidatorOption) portssvc.ValidatorSvc {
	svc := &validatorService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		scorer:      scorer,
		cfg:         DefaultValidatorConfig(),
	}
	for _, option := range options {
		option(svc)
	}
	svc.checker = rules.NewChecker(svc.cfg.Velocity)
	return svc
}

var _ portssvc.ValidatorSvc = (*validatorService)(nil)

// Validate runs the deterministic rules and, if they pass, the risk scorer.
func (s *validatorService) Validate(ctx context.Context, req domain.TransferRequest) (*domain.ValidationVerdict, error) {
	if !domain.IsValidAmount(req.Amount) {
		return nil, fmt.Errorf("%w: amount must be positive with at most %d decimal places", apperrors.ErrValidation, domain.MoneyScale)
	}

	now := s.Now()
	logger := s.GetLogger(ctx).With(slog.String("sender_id", req.SenderID))

	if _, err := s.accountRepo.FindAccountByID(ctx, req.SenderID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("sender account %s: %w", req.SenderID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load sender account: %w", err)
	}

	var recipient *domain.Account
	if req.RecipientName != "" {
		acc, err := s.accountRepo.FindAccountByUsername(ctx, req.RecipientName)
		switch {
		case err == nil:
			recipient = acc
		case errors.Is(err, apperrors.ErrNotFound):
		default:
			return nil, fmt.Errorf("failed to look up recipient: %w", err)
		}
	}

	recent, err := s.ledgerRepo.ListEntriesByAccount(ctx, req.SenderID, portsrepo.EntryFilter{
		Since:     now.Add(-s.cfg.Velocity.Window),
		Direction: domain.Debit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read recent transactions: %w", err)
	}

	reasons := s.checker.Check(rules.Input{
		SenderID:      req.SenderID,
		Amount:        req.Amount,
		RecipientName: req.RecipientName,
		Recipient:     recipient,
		Description:   req.Description,
		Now:           now,
		RecentEntries: recent,
	})
	if len(reasons) > 0 {
		logger.Info("Transfer rejected by rules", slog.Any("reasons", reasons))
		return domain.Rejected(reasons...), nil
	}

	raw, err := s.score(ctx, s.features(req))
	if err != nil {
		return nil, err
	}

	score := raw
	if score == 0 {
		score = s.cfg.ZeroScoreFallback
	}

	if req.Amount.LessThanOrEqual(s.cfg.LowRiskAmount) && len(req.RecipientName) >= s.cfg.LowRiskMinRecipientLength {
		return &domain.ValidationVerdict{Approved: true, RiskScore: s.cfg.LowRiskScore}, nil
	}

	if req.Amount.GreaterThan(s.cfg.FraudAmount) && score < s.cfg.FraudScoreThreshold {
		logger.Warn("Transfer flagged as fraud", slog.Float64("score", score), slog.String("amount", req.Amount.String()))
		return domain.Rejected(domain.ReasonFraudDetected), nil
	}

	return &domain.ValidationVerdict{Approved: true, RiskScore: score}, nil
}

func (s *validatorService) features(req domain.TransferRequest) domain.RiskFeatures {
	amount, _ := req.Amount.Float64()
	return domain.RiskFeatures{
		Amount:            clamp(amount, 0, s.cfg.MaxFeatureAmount),
		RecipientLength:   clamp(float64(utf8.RuneCountInString(req.RecipientName)), 0, float64(s.cfg.MaxRecipientLength)),
		DescriptionLength: clamp(float64(utf8.RuneCountInString(req.Description)), 0, float64(s.cfg.MaxDescriptionLength)),
	}
}

// score calls the scorer under the configured timeout. The call is abandoned,
// not awaited, if the scorer ignores cancellation.
func (s *validatorService) score(ctx context.Context, features domain.RiskFeatures) (float64, error) {
	scoreCtx, cancel := context.WithTimeout(ctx, s.cfg.ScorerTimeout)
	defer cancel()

	type result struct {
		score float64
		err   error
	}
	ch := make(chan result, 1)
	go func() {
		score, err := s.scorer.Score(scoreCtx, features)
		ch <- result{score: score, err: err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return 0, fmt.Errorf("%w: %w", apperrors.ErrScorerUnavailable, r.err)
		}
		if math.IsNaN(r.score) || r.score < 0 || r.score > 1 {
			return 0, fmt.Errorf("%w: score %v outside [0,1]", apperrors.ErrScorerUnavailable, r.score)
		}
		return r.score, nil
	case <-scoreCtx.Done():
		return 0, fmt.Errorf("%w: %w", apperrors.ErrScorerUnavailable, scoreCtx.Err())
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
