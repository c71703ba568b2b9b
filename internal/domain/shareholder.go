package domain

import "time"

// Shareholder holds per-security position counts backing sell orders.
// Like Broker, it relies on the per-security single-writer discipline
// instead of carrying its own lock.
type Shareholder struct {
	ShareholderID string
	Positions     map[string]int64 // security ISIN → quantity held
	CreatedAt     time.Time
}

// HasEnoughPositionsOn reports whether the shareholder holds at least
// quantity units of the given security.
func (s *Shareholder) HasEnoughPositionsOn(isin string, quantity int64) bool {
	return s.Positions[isin] >= quantity
}

// IncPosition adds quantity units of the security to the shareholder.
func (s *Shareholder) IncPosition(isin string, quantity int64) {
	if s.Positions == nil {
		s.Positions = make(map[string]int64)
	}
	s.Positions[isin] += quantity
}

// DecPosition removes quantity units of the security from the shareholder.
func (s *Shareholder) DecPosition(isin string, quantity int64) {
	if s.Positions == nil {
		s.Positions = make(map[string]int64)
	}
	s.Positions[isin] -= quantity
}
