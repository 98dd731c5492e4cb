package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/secure_banking_app/internal/apperrors"
	"github.com/SscSPs/secure_banking_app/internal/core/domain"
	portsrepo "github.com/SscSPs/secure_banking_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/secure_banking_app/internal/core/ports/services"
	"github.com/google/uuid"
)

// ledgerService implements the LedgerSvc interface
type ledgerService struct {
	BaseService
	ledgerRepo portsrepo.LedgerWriter
	publisher  portssvc.EventPublisher
}

// LedgerOption is a functional option for configuring the ledger service
type LedgerOption func(*ledgerService)

// WithEventPublisher publishes completion events after each commit.
func WithEventPublisher(p portssvc.EventPublisher) LedgerOption {
	return func(s *ledgerService) {
		s.publisher = p
	}
}

// WithLedgerClock pins the timestamps written on ledger entries.
func WithLedgerClock(now Clock) LedgerOption {
	return func(s *ledgerService) {
		s.now = now
	}
}

// NewLedgerService creates the ledger committer.
func NewLedgerService(ledgerRepo portsrepo.LedgerWriter, options ...LedgerOption) portssvc.LedgerSvc {
	svc := &ledgerService{ledgerRepo: ledgerRepo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.LedgerSvc = (*ledgerService)(nil)

// Transfer commits an approved transfer as one atomic unit.
func (s *ledgerService) Transfer(ctx context.Context, req domain.TransferRequest, verdict *domain.ValidationVerdict) (*domain.TransferResult, error) {
	if verdict == nil || !verdict.Approved {
		return nil, fmt.Errorf("%w: transfer has no approved verdict", apperrors.ErrValidation)
	}
	if !domain.IsValidAmount(req.Amount) {
		return nil, fmt.Errorf("%w: amount must be positive with at most %d decimal places", apperrors.ErrValidation, domain.MoneyScale)
	}

	cmd := portsrepo.TransferCommand{
		TransferID:    uuid.NewString(),
		SenderID:      req.SenderID,
		RecipientName: req.RecipientName,
		Amount:        req.Amount,
		Description:   strings.TrimSpace(req.Description),
		Now:           s.Now().UTC(),
	}

	result, err := s.ledgerRepo.CommitTransfer(ctx, cmd)
	if err != nil {
		if isDomainOutcome(err) {
			return nil, err
		}
		s.LogError(ctx, err, "Transfer commit rolled back", slog.String("transfer_id", cmd.TransferID))
		return nil, fmt.Errorf("%w: %w", apperrors.ErrCommitFailed, err)
	}

	s.LogInfo(ctx, "Transfer committed",
		slog.String("transfer_id", result.TransferID),
		slog.String("from_account", result.Debit.AccountID),
		slog.String("to_account", result.Credit.AccountID),
		slog.String("amount", req.Amount.String()))

	s.publish(ctx, domain.TopicTransferCompleted, result.TransferID, domain.TransferCompleted{
		TransferID:  result.TransferID,
		FromAccount: result.Debit.AccountID,
		ToAccount:   result.Credit.AccountID,
		Amount:      req.Amount,
		OccurredAt:  result.Debit.CreatedAt,
	})
	return result, nil
}

// Deposit credits the caller's own account.
func (s *ledgerService) Deposit(ctx context.Context, req domain.DepositRequest) (*domain.DepositResult, error) {
	if !domain.IsValidAmount(req.Amount) {
		return nil, fmt.Errorf("%w: amount must be positive with at most %d decimal places", apperrors.ErrValidation, domain.MoneyScale)
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = domain.DefaultDepositDescription
	}

	cmd := portsrepo.DepositCommand{
		TransferID:  uuid.NewString(),
		AccountID:   req.AccountID,
		Amount:      req.Amount,
		Description: description,
		Now:         s.Now().UTC(),
	}

	result, err := s.ledgerRepo.CommitDeposit(ctx, cmd)
	if err != nil {
		if isDomainOutcome(err) {
			return nil, err
		}
		s.LogError(ctx, err, "Deposit commit rolled back", slog.String("transfer_id", cmd.TransferID))
		return nil, fmt.Errorf("%w: %w", apperrors.ErrCommitFailed, err)
	}

	s.publish(ctx, domain.TopicDepositCompleted, cmd.TransferID, domain.DepositCompleted{
		TransferID: cmd.TransferID,
		AccountID:  req.AccountID,
		Amount:     req.Amount,
		OccurredAt: result.Entry.CreatedAt,
	})
	return result, nil
}

// publish is best effort: the money has already moved.
func (s *ledgerService) publish(ctx context.Context, topic, key string, event any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, topic, key, event); err != nil {
		s.LogError(ctx, err, "Failed to publish ledger event", slog.String("topic", topic), slog.String("key", key))
	}
}

func isDomainOutcome(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, apperrors.ErrInsufficientFunds) ||
		errors.Is(err, apperrors.ErrValidation)
}
