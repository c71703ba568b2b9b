package engine

import (
	"time"

	"matching-engine/internal/book"
	"matching-engine/internal/domain"
)

// Security is a tradable instrument: its matching mode, price constraints,
// last traded price, and order book. It is created once at setup and only
// its LastTradedPrice and State mutate afterwards.
type Security struct {
	ISIN            string
	TickSize        int64
	LotSize         int64
	LastTradedPrice int64
	State           domain.MatchingState
	Book            *book.OrderBook
	CreatedAt       time.Time
}

// NewSecurity creates a security in continuous mode with an empty book.
func NewSecurity(isin string, tickSize, lotSize int64) *Security {
	return &Security{
		ISIN:      isin,
		TickSize:  tickSize,
		LotSize:   lotSize,
		State:     domain.MatchingStateContinuous,
		Book:      book.New(),
		CreatedAt: time.Now(),
	}
}

// OpeningPrice computes the current auction uncrossing price and the
// quantity tradable at it. When nothing can trade the price is reported
// as zero.
func (s *Security) OpeningPrice() (int64, int64) {
	price, qty := s.Book.OpeningPrice(s.LastTradedPrice)
	if qty == 0 {
		return 0, 0
	}
	return price, qty
}

// Ledgers resolves brokers and shareholders for the engine. Resting
// orders reference counterparties by ID, so matching needs lookups beyond
// the single broker/shareholder attached to the in-flight request. Every
// referenced ID was validated at request entry, so lookups cannot miss.
type Ledgers interface {
	Broker(id string) *domain.Broker
	Shareholder(id string) *domain.Shareholder
}
