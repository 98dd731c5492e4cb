// Package memory is an in-process implementation of the repository ports.
// It backs STORE_DRIVER=memory and the service tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/SscSPs/secure_banking_app/internal/apperrors"
	"github.com/SscSPs/secure_banking_app/internal/core/domain"
	portsrepo "github.com/SscSPs/secure_banking_app/internal/core/ports/repositories"
	"github.com/google/uuid"
)

// Store keeps accounts, credentials, ledger entries and security logs in memory.
type Store struct {
	mu          sync.RWMutex // guards the maps and slices below
	accounts    map[string]*domain.Account
	byUsername  map[string]string
	byEmail     map[string]string
	credentials map[string]domain.Credential
	entries     []domain.LedgerEntry
	logs        []domain.SecurityLog

	lockMu sync.Mutex // guards locks
	locks  map[string]*sync.Mutex
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		accounts:    make(map[string]*domain.Account),
		byUsername:  make(map[string]string),
		byEmail:     make(map[string]string),
		credentials: make(map[string]domain.Credential),
		locks:       make(map[string]*sync.Mutex),
	}
}

var (
	_ portsrepo.AccountRepositoryFacade = (*Store)(nil)
	_ portsrepo.LedgerRepositoryFacade  = (*Store)(nil)
	_ portsrepo.SecurityLogRepository   = (*Store)(nil)
)

// NewRepositoryProvider exposes one Store through every repository port.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     store,
		LedgerRepo:      store,
		SecurityLogRepo: store,
	}
}

func (s *Store) accountLock(accountID string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()

	if _, ok := s.locks[accountID]; !ok {
		s.locks[accountID] = &sync.Mutex{}
	}
	return s.locks[accountID]
}

// lockAccounts takes the per-account locks in ascending id order and returns the release func.
func (s *Store) lockAccounts(ids ...string) func() {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	held := make([]*sync.Mutex, 0, len(sorted))
	for i, id := range sorted {
		if i > 0 && id == sorted[i-1] {
			continue
		}
		m := s.accountLock(id)
		m.Lock()
		held = append(held, m)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}

// CreateAccount stores a new account and its credential.
func (s *Store) CreateAccount(ctx context.Context, account domain.Account, credential domain.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[account.AccountID]; ok {
		return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, account.AccountID)
	}
	if _, ok := s.byUsername[account.Username]; ok {
		return fmt.Errorf("%w: username %s is taken", apperrors.ErrDuplicate, account.Username)
	}
	if _, ok := s.byEmail[credential.Email]; ok {
		return fmt.Errorf("%w: email is already registered", apperrors.ErrDuplicate)
	}

	acc := account
	s.accounts[acc.AccountID] = &acc
	s.byUsername[acc.Username] = acc.AccountID
	s.byEmail[credential.Email] = acc.AccountID
	s.credentials[acc.AccountID] = credential
	return nil
}

// FindAccountByID returns a copy of the account.
func (s *Store) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *acc
	return &cp, nil
}

// FindAccountByUsername returns a copy of the account with the given username.
func (s *Store) FindAccountByUsername(ctx context.Context, username string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUsername[username]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *s.accounts[id]
	return &cp, nil
}

// FindCredentialByAccountID returns the stored credential.
func (s *Store) FindCredentialByAccountID(ctx context.Context, accountID string) (*domain.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cred, ok := s.credentials[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &cred, nil
}

// CommitTransfer moves money between two accounts atomically.
func (s *Store) CommitTransfer(ctx context.Context, cmd portsrepo.TransferCommand) (*domain.TransferResult, error) {
	sender, err := s.FindAccountByID(ctx, cmd.SenderID)
	if err != nil {
		return nil, fmt.Errorf("sender %s: %w", cmd.SenderID, err)
	}
	recipient, err := s.FindAccountByUsername(ctx, cmd.RecipientName)
	if err != nil {
		return nil, fmt.Errorf("recipient %s: %w", cmd.RecipientName, err)
	}
	if sender.AccountID == recipient.AccountID {
		return nil, fmt.Errorf("%w: sender and recipient are the same account", apperrors.ErrValidation)
	}

	release := s.lockAccounts(sender.AccountID, recipient.AccountID)
	defer release()

	// Nothing is visible until the mutation below; abandoning here leaves no trace.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	from := s.accounts[sender.AccountID]
	to := s.accounts[recipient.AccountID]
	if from.Balance.LessThan(cmd.Amount) {
		return nil, fmt.Errorf("%w: balance %s is below %s", apperrors.ErrInsufficientFunds, from.Balance.StringFixed(2), cmd.Amount.StringFixed(2))
	}

	from.Balance = from.Balance.Sub(cmd.Amount)
	from.LastUpdatedAt = cmd.Now
	to.Balance = to.Balance.Add(cmd.Amount)
	to.LastUpdatedAt = cmd.Now

	debit := domain.LedgerEntry{
		EntryID:          newEntryID(),
		TransferID:       cmd.TransferID,
		AccountID:        from.AccountID,
		Direction:        domain.Debit,
		Amount:           cmd.Amount,
		CounterpartyName: to.Username,
		Description:      cmd.Description,
		Status:           domain.StatusCompleted,
		BalanceAfter:     from.Balance,
		CreatedAt:        cmd.Now,
	}
	credit := domain.LedgerEntry{
		EntryID:          newEntryID(),
		TransferID:       cmd.TransferID,
		AccountID:        to.AccountID,
		Direction:        domain.Credit,
		Amount:           cmd.Amount,
		CounterpartyName: from.Username,
		Description:      cmd.Description,
		Status:           domain.StatusCompleted,
		BalanceAfter:     to.Balance,
		CreatedAt:        cmd.Now,
	}
	s.entries = append(s.entries, debit, credit)

	return &domain.TransferResult{TransferID: cmd.TransferID, Debit: debit, Credit: credit}, nil
}

// CommitDeposit credits an account atomically.
func (s *Store) CommitDeposit(ctx context.Context, cmd portsrepo.DepositCommand) (*domain.DepositResult, error) {
	if _, err := s.FindAccountByID(ctx, cmd.AccountID); err != nil {
		return nil, fmt.Errorf("account %s: %w", cmd.AccountID, err)
	}

	release := s.lockAccounts(cmd.AccountID)
	defer release()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc := s.accounts[cmd.AccountID]
	acc.Balance = acc.Balance.Add(cmd.Amount)
	acc.LastUpdatedAt = cmd.Now

	entry := domain.LedgerEntry{
		EntryID:          newEntryID(),
		TransferID:       cmd.TransferID,
		AccountID:        acc.AccountID,
		Direction:        domain.Credit,
		Amount:           cmd.Amount,
		CounterpartyName: domain.SelfCounterparty,
		Description:      cmd.Description,
		Status:           domain.StatusCompleted,
		BalanceAfter:     acc.Balance,
		CreatedAt:        cmd.Now,
	}
	s.entries = append(s.entries, entry)

	return &domain.DepositResult{Entry: entry, NewBalance: acc.Balance}, nil
}

// ListEntriesByAccount returns matching entries newest first.
func (s *Store) ListEntriesByAccount(ctx context.Context, accountID string, filter portsrepo.EntryFilter) ([]domain.LedgerEntry, error) {
	s.mu.RLock()
	matched := make([]domain.LedgerEntry, 0)
	for _, e := range s.entries {
		if e.AccountID != accountID {
			continue
		}
		if !filter.Since.IsZero() && e.CreatedAt.Before(filter.Since) {
			continue
		}
		if filter.Direction != "" && e.Direction != filter.Direction {
			continue
		}
		if filter.After != nil && !olderThan(e, *filter.After) {
			continue
		}
		matched = append(matched, e)
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].EntryID > matched[j].EntryID
	})

	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

// SaveSecurityLog appends a security log.
func (s *Store) SaveSecurityLog(ctx context.Context, log domain.SecurityLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logs = append(s.logs, log)
	return nil
}

// ListSecurityLogs returns logs for accountID newest first.
func (s *Store) ListSecurityLogs(ctx context.Context, accountID string, limit int) ([]domain.SecurityLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.SecurityLog, 0)
	for i := len(s.logs) - 1; i >= 0; i-- {
		if s.logs[i].AccountID != accountID {
			continue
		}
		result = append(result, s.logs[i])
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}

// olderThan orders by (created_at, entry_id) descending, matching the postgres adapter.
func olderThan(e domain.LedgerEntry, c portsrepo.EntryCursor) bool {
	if e.CreatedAt.Equal(c.CreatedAt) {
		return e.EntryID < c.EntryID
	}
	return e.CreatedAt.Before(c.CreatedAt)
}

// newEntryID returns a time-ordered id so ties on created_at keep insertion order.
func newEntryID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
