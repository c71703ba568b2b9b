package store

import (
	"sync"

	"matching-engine/internal/domain"
	"matching-engine/internal/engine"
)

// SecurityStore is a thread-safe in-memory store for securities,
// keyed by ISIN.
type SecurityStore struct {
	mu         sync.RWMutex
	securities map[string]*engine.Security
}

// NewSecurityStore creates an empty SecurityStore.
func NewSecurityStore() *SecurityStore {
	return &SecurityStore{
		securities: make(map[string]*engine.Security),
	}
}

// Create adds a security to the store. It returns
// domain.ErrSecurityAlreadyExists if the ISIN is already registered.
func (s *SecurityStore) Create(sec *engine.Security) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.securities[sec.ISIN]; exists {
		return domain.ErrSecurityAlreadyExists
	}
	s.securities[sec.ISIN] = sec
	return nil
}

// Get retrieves a security by ISIN. It returns
// domain.ErrSecurityNotFound if the security does not exist.
func (s *SecurityStore) Get(isin string) (*engine.Security, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sec, ok := s.securities[isin]
	if !ok {
		return nil, domain.ErrSecurityNotFound
	}
	return sec, nil
}

// Exists returns true if a security with the given ISIN exists.
func (s *SecurityStore) Exists(isin string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.securities[isin]
	return ok
}
