package service

import "sync"

// SecurityLocks serializes all matching work per security. Every request
// touching a security's book or the ledgers it settles against runs under
// that security's lock.
type SecurityLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewSecurityLocks() *SecurityLocks {
	return &SecurityLocks{locks: make(map[string]*sync.Mutex)}
}

func (s *SecurityLocks) lock(isin string) func() {
	s.mu.Lock()
	l, ok := s.locks[isin]
	if !ok {
		l = &sync.Mutex{}
		s.locks[isin] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}
