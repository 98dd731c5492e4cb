package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/SscSPs/secure_banking_app/internal/apperrors"
	"github.com/SscSPs/secure_banking_app/internal/core/domain"
	portssvc "github.com/SscSPs/secure_banking_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// FailPolicy decides what happens when the risk scorer is unavailable.
type FailPolicy string

const (
	// FailPolicyThreshold fails open at or below the low-risk amount and closed above it.
	FailPolicyThreshold FailPolicy = "threshold"
	FailPolicyOpen      FailPolicy = "open"
	FailPolicyClosed    FailPolicy = "closed"
)

// ParseFailPolicy validates a configured policy name.
func ParseFailPolicy(raw string) (FailPolicy, error) {
	switch p := FailPolicy(strings.ToLower(strings.TrimSpace(raw))); p {
	case FailPolicyThreshold, FailPolicyOpen, FailPolicyClosed:
		return p, nil
	case "":
		return FailPolicyThreshold, nil
	}
	return "", fmt.Errorf("unknown risk fail policy %q", raw)
}

// transactionService implements the TransactionSvc interface
type transactionService struct {
	BaseService
	validator     portssvc.ValidatorSvc
	ledger        portssvc.LedgerSvc
	security      portssvc.SecuritySvc
	policy        FailPolicy
	lowRiskAmount decimal.Decimal
	senders       *keyedMutex
}

// TransactionOption is a functional option for configuring the transaction service
type TransactionOption func(*transactionService)

// WithFailPolicy sets the scorer-unavailability policy and the amount the threshold policy pivots on.
func WithFailPolicy(policy FailPolicy, lowRiskAmount decimal.Decimal) TransactionOption {
	return func(s *transactionService) {
		s.policy = policy
		s.lowRiskAmount = lowRiskAmount
	}
}

// WithSecurityService records suspicious verdicts and degraded approvals.
func WithSecurityService(security portssvc.SecuritySvc) TransactionOption {
	return func(s *transactionService) {
		s.security = security
	}
}

// NewTransactionService wires the validator and the ledger committer into one pipeline.
func NewTransactionService(validator portssvc.ValidatorSvc, ledger portssvc.LedgerSvc, options ...TransactionOption) portssvc.TransactionSvc {
	svc := &transactionService{
		validator:     validator,
		ledger:        ledger,
		policy:        FailPolicyThreshold,
		lowRiskAmount: DefaultValidatorConfig().LowRiskAmount,
		senders:       newKeyedMutex(),
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.TransactionSvc = (*transactionService)(nil)

// Validate previews a transfer, applying the fail policy if the scorer is down.
func (s *transactionService) Validate(ctx context.Context, req domain.TransferRequest) (*domain.ValidationVerdict, error) {
	verdict, err := s.validator.Validate(ctx, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrScorerUnavailable) {
			return s.onScorerUnavailable(ctx, req, err)
		}
		return nil, err
	}
	if !verdict.Approved {
		s.recordSuspicious(ctx, req, verdict)
	}
	return verdict, nil
}

// Submit validates and commits while holding the sender's lock, so two requests
// from one sender never interleave between validation and commit.
func (s *transactionService) Submit(ctx context.Context, req domain.TransferRequest) (*domain.TransferResult, *domain.ValidationVerdict, error) {
	release, err := s.senders.Acquire(ctx, req.SenderID)
	if err != nil {
		return nil, nil, err
	}
	defer release()

	verdict, err := s.Validate(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	if !verdict.Approved {
		return nil, verdict, fmt.Errorf("%w: transfer rejected: %s", apperrors.ErrValidation, joinReasons(verdict.FailureReasons))
	}

	result, err := s.ledger.Transfer(ctx, req, verdict)
	if err != nil {
		return nil, verdict, err
	}
	return result, verdict, nil
}

func (s *transactionService) onScorerUnavailable(ctx context.Context, req domain.TransferRequest, cause error) (*domain.ValidationVerdict, error) {
	failOpen := false
	switch s.policy {
	case FailPolicyOpen:
		failOpen = true
	case FailPolicyThreshold:
		failOpen = req.Amount.LessThanOrEqual(s.lowRiskAmount)
	}

	if !failOpen {
		s.LogError(ctx, cause, "Risk scorer unavailable, failing closed",
			slog.String("sender_id", req.SenderID),
			slog.String("policy", string(s.policy)))
		return nil, cause
	}

	s.LogWarn(ctx, "Risk scorer unavailable, failing open",
		slog.String("sender_id", req.SenderID),
		slog.String("policy", string(s.policy)),
		slog.String("error", cause.Error()))
	if s.security != nil {
		s.security.Record(ctx, req.SenderID, domain.EventSecurityAlert, map[string]any{
			"reason":    "risk scorer unavailable",
			"amount":    req.Amount.String(),
			"recipient": req.RecipientName,
			"policy":    string(s.policy),
		})
	}
	return &domain.ValidationVerdict{Approved: true, RiskScore: 0, Degraded: true}, nil
}

// recordSuspicious logs rejections that suggest abuse rather than a typo.
func (s *transactionService) recordSuspicious(ctx context.Context, req domain.TransferRequest, verdict *domain.ValidationVerdict) {
	if s.security == nil {
		return
	}
	if !verdict.HasReason(domain.ReasonFraudDetected) && !verdict.HasReason(domain.ReasonExcessiveVolume) {
		return
	}
	reasons := make([]string, 0, len(verdict.FailureReasons))
	for _, r := range verdict.FailureReasons {
		reasons = append(reasons, string(r))
	}
	s.security.Record(ctx, req.SenderID, domain.EventSuspiciousTransaction, map[string]any{
		"amount":      req.Amount.String(),
		"recipient":   req.RecipientName,
		"description": req.Description,
		"reasons":     reasons,
	})
}

func joinReasons(reasons []domain.ReasonCode) string {
	parts := make([]string, 0, len(reasons))
	for _, r := range reasons {
		parts = append(parts, string(r))
	}
	return strings.Join(parts, ", ")
}

// keyedMutex is a set of per-key binary semaphores. Idle keys are dropped.
type keyedMutex struct {
	mu    sync.Mutex
	slots map[string]*keyedSlot
}

type keyedSlot struct {
	ch   chan struct{}
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{slots: make(map[string]*keyedSlot)}
}

// Acquire blocks until key is free or ctx is done.
func (k *keyedMutex) Acquire(ctx context.Context, key string) (func(), error) {
	k.mu.Lock()
	slot, ok := k.slots[key]
	if !ok {
		slot = &keyedSlot{ch: make(chan struct{}, 1)}
		k.slots[key] = slot
	}
	slot.refs++
	k.mu.Unlock()

	select {
	case slot.ch <- struct{}{}:
	case <-ctx.Done():
		k.drop(key, slot)
		return nil, ctx.Err()
	}

	return func() {
		<-slot.ch
		k.drop(key, slot)
	}, nil
}

func (k *keyedMutex) drop(key string, slot *keyedSlot) {
	k.mu.Lock()
	defer k.mu.Unlock()
	slot.refs--
	if slot.refs == 0 {
		delete(k.slots, key)
	}
}
