package service

import (
	"log/slog"
	"regexp"
	"time"

	"matching-engine/internal/book"
	"matching-engine/internal/domain"
	"matching-engine/internal/engine"
	"matching-engine/internal/store"
)

var isinPattern = regexp.MustCompile(`^[A-Z0-9]{1,12}$`)

// SecurityService manages security listings, matching-state transitions
// and read-side views of the order book.
type SecurityService struct {
	securities *store.SecurityStore
	events     *store.EventLog
	engine     *engine.Engine
	locks      *SecurityLocks
	logger     *slog.Logger
}

func NewSecurityService(
	securities *store.SecurityStore,
	events *store.EventLog,
	eng *engine.Engine,
	locks *SecurityLocks,
	logger *slog.Logger,
) *SecurityService {
	return &SecurityService{
		securities: securities,
		events:     events,
		engine:     eng,
		locks:      locks,
		logger:     logger,
	}
}

// Create lists a new security with an empty book in continuous mode.
func (s *SecurityService) Create(isin string, tickSize, lotSize int64) (*engine.Security, error) {
	if !isinPattern.MatchString(isin) {
		return nil, &domain.ValidationError{Message: "isin must be 1-12 uppercase letters or digits"}
	}
	if tickSize <= 0 {
		return nil, &domain.ValidationError{Message: "tick size must be positive"}
	}
	if lotSize <= 0 {
		return nil, &domain.ValidationError{Message: "lot size must be positive"}
	}

	sec := engine.NewSecurity(isin, tickSize, lotSize)
	if err := s.securities.Create(sec); err != nil {
		return nil, err
	}
	s.logger.Info("security listed", "isin", isin, "tick_size", tickSize, "lot_size", lotSize)
	return sec, nil
}

// Get returns the security listed under isin.
func (s *SecurityService) Get(isin string) (*engine.Security, error) {
	return s.securities.Get(isin)
}

// ChangeState switches a security's matching mode and returns the events
// it produced. Leaving auction mode uncrosses the book at the opening
// price and may activate stop orders against the new traded price.
func (s *SecurityService) ChangeState(req engine.ChangeStateRequest) ([]domain.Event, error) {
	if !req.TargetState.Valid() {
		return nil, &domain.ValidationError{Message: domain.ReasonInvalidTargetState}
	}
	sec, err := s.securities.Get(req.SecurityISIN)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(sec.ISIN)
	defer unlock()

	res := s.engine.ChangeState(sec, req.TargetState)

	events := []domain.Event{{
		Type:         domain.EventSecurityStateChanged,
		At:           time.Now(),
		SecurityISIN: sec.ISIN,
		State:        req.TargetState,
	}}
	if res != nil {
		for _, t := range res.Trades {
			events = append(events, domain.Event{
				Type:         domain.EventTrade,
				At:           time.Now(),
				SecurityISIN: sec.ISIN,
				Price:        t.Price,
				Quantity:     t.Quantity,
				BuyOrderID:   t.BuyOrderID,
				SellOrderID:  t.SellOrderID,
			})
		}
	}
	events = append(events, cascadeEvents(s.engine, sec)...)
	s.events.Append(events...)

	s.logger.Info("matching state changed", "isin", sec.ISIN, "state", req.TargetState)
	return events, nil
}

// BookDepth is the aggregated top of a security's book.
type BookDepth struct {
	ISIN            string            `json:"isin"`
	State           string            `json:"state"`
	LastTradedPrice int64             `json:"last_traded_price"`
	Bids            []book.PriceLevel `json:"bids"`
	Asks            []book.PriceLevel `json:"asks"`
}

// Depth returns up to n visible price levels per side.
func (s *SecurityService) Depth(isin string, n int) (*BookDepth, error) {
	sec, err := s.securities.Get(isin)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(sec.ISIN)
	defer unlock()

	return &BookDepth{
		ISIN:            sec.ISIN,
		State:           string(sec.State),
		LastTradedPrice: sec.LastTradedPrice,
		Bids:            sec.Book.Levels(domain.SideBuy, n),
		Asks:            sec.Book.Levels(domain.SideSell, n),
	}, nil
}

// OpeningPrice returns the current theoretical uncrossing price and the
// quantity tradable at it.
func (s *SecurityService) OpeningPrice(isin string) (price, quantity int64, err error) {
	sec, err := s.securities.Get(isin)
	if err != nil {
		return 0, 0, err
	}

	unlock := s.locks.lock(sec.ISIN)
	defer unlock()

	price, quantity = sec.OpeningPrice()
	return price, quantity, nil
}
