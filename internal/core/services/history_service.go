package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/secure_banking_app/internal/apperrors"
	"github.com/SscSPs/secure_banking_app/internal/core/domain"
	portsrepo "github.com/SscSPs/secure_banking_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/secure_banking_app/internal/core/ports/services"
	"github.com/SscSPs/secure_banking_app/internal/utils/pagination"
)

const (
	DefaultRecentLimit = 5
	MaxRecentLimit     = 50
	DefaultPageSize    = 20
	MaxPageSize        = 100
)

// historyService implements the HistorySvc interface
type historyService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	ledgerRepo  portsrepo.LedgerReader
}

// HistoryOption is a functional option for configuring the history service
type HistoryOption func(*historyService)

// WithHistoryClock pins the reference time used for period bounds.
func WithHistoryClock(now Clock) HistoryOption {
	return func(s *historyService) {
		s.now = now
	}
}

// NewHistoryService creates the read side over accounts and ledger entries.
func NewHistoryService(accountRepo portsrepo.AccountReader, ledgerRepo portsrepo.LedgerReader, options ...HistoryOption) portssvc.HistorySvc {
	svc := &historyService{accountRepo: accountRepo, ledgerRepo: ledgerRepo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.HistorySvc = (*historyService)(nil)

func (s *historyService) GetBalance(ctx context.Context, accountID string) (*domain.Account, error) {
	acc, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", accountID, err)
	}
	return acc, nil
}

// History returns the account's entries created at or after the period bound, newest first.
func (s *historyService) History(ctx context.Context, accountID string, period domain.Period) ([]domain.LedgerEntry, error) {
	if _, err := domain.ParsePeriod(string(period)); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}
	if period == "" {
		period = domain.PeriodAll
	}
	return s.ledgerRepo.ListEntriesByAccount(ctx, accountID, portsrepo.EntryFilter{
		Since: period.Since(s.Now()),
	})
}

// Recent returns up to limit newest entries; limit <= 0 selects the default.
func (s *historyService) Recent(ctx context.Context, accountID string, limit int) ([]domain.LedgerEntry, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}
	return s.ledgerRepo.ListEntriesByAccount(ctx, accountID, portsrepo.EntryFilter{Limit: limit})
}

// ListEntries pages through the full history using an opaque cursor token.
func (s *historyService) ListEntries(ctx context.Context, accountID string, limit int, pageToken string) ([]domain.LedgerEntry, string, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	filter := portsrepo.EntryFilter{Limit: limit + 1}
	if pageToken != "" {
		createdAt, entryID, err := pagination.DecodeCursor(pageToken)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
		}
		filter.After = &portsrepo.EntryCursor{CreatedAt: createdAt, EntryID: entryID}
	}

	entries, err := s.ledgerRepo.ListEntriesByAccount(ctx, accountID, filter)
	if err != nil {
		return nil, "", err
	}

	var nextToken string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		nextToken = pagination.EncodeCursor(last.CreatedAt, last.EntryID)
	}
	return entries, nextToken, nil
}
