package testutil

import (
	"context"
	"sync"

	"github.com/parsapay/checkout/internal/domain/gateway"
)

// InMemoryGatewayStore implements gateway.Repository
type InMemoryGatewayStore struct {
	mu        sync.RWMutex
	gateways  []*gateway.Descriptor
	err       error
	callCount int
}

// NewInMemoryGatewayStore creates a new in-memory gateway store
func NewInMemoryGatewayStore() *InMemoryGatewayStore {
	return &InMemoryGatewayStore{}
}

// SetGateways replaces the catalog snapshot
func (s *InMemoryGatewayStore) SetGateways(gateways []*gateway.Descriptor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gateways = gateways
}

// Clear removes the catalog and resets the call counter
func (s *InMemoryGatewayStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gateways = nil
	s.callCount = 0
}

// SetErr fails every call with the given error
func (s *InMemoryGatewayStore) SetErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// CallCount reports fetches, for cache assertions
func (s *InMemoryGatewayStore) CallCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.callCount
}

func (s *InMemoryGatewayStore) GetAvailableGateways(ctx context.Context) ([]*gateway.Descriptor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.callCount++
	if s.err != nil {
		return nil, s.err
	}

	out := make([]*gateway.Descriptor, len(s.gateways))
	copy(out, s.gateways)
	return out, nil
}
