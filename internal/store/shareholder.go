package store

import (
	"sync"

	"matching-engine/internal/domain"
)

// ShareholderStore is a thread-safe in-memory store for shareholders,
// keyed by shareholder ID.
type ShareholderStore struct {
	mu           sync.RWMutex
	shareholders map[string]*domain.Shareholder
}

// NewShareholderStore creates an empty ShareholderStore.
func NewShareholderStore() *ShareholderStore {
	return &ShareholderStore{
		shareholders: make(map[string]*domain.Shareholder),
	}
}

// Create adds a shareholder to the store. It returns
// domain.ErrShareholderAlreadyExists if the ID is already registered.
func (s *ShareholderStore) Create(sh *domain.Shareholder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.shareholders[sh.ShareholderID]; exists {
		return domain.ErrShareholderAlreadyExists
	}
	s.shareholders[sh.ShareholderID] = sh
	return nil
}

// Get retrieves a shareholder by ID. It returns
// domain.ErrShareholderNotFound if the shareholder does not exist.
func (s *ShareholderStore) Get(id string) (*domain.Shareholder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sh, ok := s.shareholders[id]
	if !ok {
		return nil, domain.ErrShareholderNotFound
	}
	return sh, nil
}

// Exists returns true if a shareholder with the given ID exists.
func (s *ShareholderStore) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.shareholders[id]
	return ok
}

// Ledgers adapts the broker and shareholder stores to the engine's lookup
// interface. The engine only resolves IDs that request validation has
// already confirmed exist.
type Ledgers struct {
	Brokers      *BrokerStore
	Shareholders *ShareholderStore
}

// Broker resolves a broker by ID.
func (l Ledgers) Broker(id string) *domain.Broker {
	b, _ := l.Brokers.Get(id)
	return b
}

// Shareholder resolves a shareholder by ID.
func (l Ledgers) Shareholder(id string) *domain.Shareholder {
	sh, _ := l.Shareholders.Get(id)
	return sh
}
