package testutil

import (
	"context"
	"sync"

	"github.com/parsapay/checkout/internal/domain/wallet"
	ierr "github.com/parsapay/checkout/internal/errors"
)

// InMemoryWalletStore implements wallet.Repository
type InMemoryWalletStore struct {
	mu       sync.RWMutex
	balances map[string]*wallet.Balance
	err      error
}

// NewInMemoryWalletStore creates a new in-memory wallet store
func NewInMemoryWalletStore() *InMemoryWalletStore {
	return &InMemoryWalletStore{
		balances: make(map[string]*wallet.Balance),
	}
}

// SetBalance registers a balance for a user
func (s *InMemoryWalletStore) SetBalance(b *wallet.Balance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[b.UserID] = b
}

// Clear removes all balances
func (s *InMemoryWalletStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances = make(map[string]*wallet.Balance)
}

// SetErr fails every call with the given error
func (s *InMemoryWalletStore) SetErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *InMemoryWalletStore) GetBalance(ctx context.Context, userID string) (*wallet.Balance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.err != nil {
		return nil, s.err
	}

	b, ok := s.balances[userID]
	if !ok {
		return nil, ierr.NewError("wallet not found").
			WithHint("Wallet not found").
			WithReportableDetails(map[string]interface{}{
				"user_id": userID,
			}).
			Mark(ierr.ErrNotFound)
	}
	copied := *b
	return &copied, nil
}
