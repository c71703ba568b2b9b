package service

import (
	"log/slog"
	"time"

	"matching-engine/internal/domain"
	"matching-engine/internal/engine"
	"matching-engine/internal/store"
)

// OrderService validates incoming order requests, runs them through the
// matching engine under the owning security's lock, and records the
// resulting events.
type OrderService struct {
	securities   *store.SecurityStore
	brokers      *store.BrokerStore
	shareholders *store.ShareholderStore
	events       *store.EventLog
	engine       *engine.Engine
	locks        *SecurityLocks
	logger       *slog.Logger
}

func NewOrderService(
	securities *store.SecurityStore,
	brokers *store.BrokerStore,
	shareholders *store.ShareholderStore,
	events *store.EventLog,
	eng *engine.Engine,
	locks *SecurityLocks,
	logger *slog.Logger,
) *OrderService {
	return &OrderService{
		securities:   securities,
		brokers:      brokers,
		shareholders: shareholders,
		events:       events,
		engine:       eng,
		locks:        locks,
		logger:       logger,
	}
}

// NewOrder processes a new-order request and returns the events it produced.
func (s *OrderService) NewOrder(req engine.EnterOrderRequest) []domain.Event {
	return s.enterOrder(req, false)
}

// UpdateOrder processes an update-order request and returns the events it
// produced.
func (s *OrderService) UpdateOrder(req engine.EnterOrderRequest) []domain.Event {
	return s.enterOrder(req, true)
}

func (s *OrderService) enterOrder(req engine.EnterOrderRequest, isUpdate bool) []domain.Event {
	if reasons := s.validateEnterOrder(req, isUpdate); len(reasons) > 0 {
		ev := rejectedEvent(req.SecurityISIN, req.RequestID, req.OrderID, reasons)
		s.events.Append(ev)
		s.logger.Warn("order request rejected",
			"order_id", req.OrderID, "isin", req.SecurityISIN, "reasons", reasons)
		return []domain.Event{ev}
	}

	sec, _ := s.securities.Get(req.SecurityISIN)
	unlock := s.locks.lock(sec.ISIN)
	defer unlock()

	var (
		res engine.MatchResult
		err error
	)
	if isUpdate {
		res, err = s.engine.UpdateOrder(sec, req)
	} else {
		res, err = s.engine.NewOrder(sec, req)
	}
	if err != nil {
		ev := rejectedEvent(sec.ISIN, req.RequestID, req.OrderID, reasonsForError(err))
		s.events.Append(ev)
		s.logger.Warn("order request rejected",
			"order_id", req.OrderID, "isin", sec.ISIN, "error", err)
		return []domain.Event{ev}
	}

	events := translateEnterResult(sec, req, res, isUpdate)
	if sec.State == domain.MatchingStateContinuous {
		events = append(events, cascadeEvents(s.engine, sec)...)
	}
	s.events.Append(events...)

	s.logger.Info("order request processed",
		"order_id", req.OrderID, "isin", sec.ISIN,
		"outcome", res.Outcome, "trades", len(res.Trades))
	return events
}

// DeleteOrder removes a resting or pending order and returns the events it
// produced. Deleting while in auction mode moves the theoretical opening
// price, so a fresh announcement follows the deletion.
func (s *OrderService) DeleteOrder(req engine.DeleteOrderRequest) []domain.Event {
	if reasons := s.validateDeleteOrder(req); len(reasons) > 0 {
		ev := rejectedEvent(req.SecurityISIN, req.RequestID, req.OrderID, reasons)
		s.events.Append(ev)
		return []domain.Event{ev}
	}

	sec, _ := s.securities.Get(req.SecurityISIN)
	unlock := s.locks.lock(sec.ISIN)
	defer unlock()

	if err := s.engine.DeleteOrder(sec, req); err != nil {
		ev := rejectedEvent(sec.ISIN, req.RequestID, req.OrderID, reasonsForError(err))
		s.events.Append(ev)
		s.logger.Warn("delete request rejected",
			"order_id", req.OrderID, "isin", sec.ISIN, "error", err)
		return []domain.Event{ev}
	}

	events := []domain.Event{{
		Type:         domain.EventOrderDeleted,
		At:           time.Now(),
		SecurityISIN: sec.ISIN,
		RequestID:    req.RequestID,
		OrderID:      req.OrderID,
	}}
	if sec.State == domain.MatchingStateAuction {
		events = append(events, openingPriceEvent(sec))
	}
	s.events.Append(events...)

	s.logger.Info("order deleted", "order_id", req.OrderID, "isin", sec.ISIN)
	return events
}

// validateEnterOrder collects every reason the request is unacceptable.
// A request is rejected with the full list, not just the first violation.
func (s *OrderService) validateEnterOrder(req engine.EnterOrderRequest, isUpdate bool) []string {
	var reasons []string
	if req.OrderID == 0 {
		reasons = append(reasons, domain.ReasonInvalidOrderID)
	}
	if !req.Side.Valid() {
		reasons = append(reasons, domain.ReasonInvalidSide)
	}
	if req.Quantity <= 0 {
		reasons = append(reasons, domain.ReasonQuantityNotPositive)
	}
	if req.Price <= 0 {
		reasons = append(reasons, domain.ReasonPriceNotPositive)
	}
	if req.PeakSize < 0 || (req.Quantity > 0 && req.PeakSize >= req.Quantity) {
		reasons = append(reasons, domain.ReasonInvalidPeakSize)
	}
	if req.MinimumExecutionQuantity < 0 || req.MinimumExecutionQuantity > req.Quantity {
		reasons = append(reasons, domain.ReasonInvalidMinimumQuantity)
	}
	if req.StopPrice < 0 {
		reasons = append(reasons, domain.ReasonInvalidStopPrice)
	}
	if req.StopPrice > 0 && req.MinimumExecutionQuantity > 0 {
		reasons = append(reasons, domain.ReasonStopOrderWithMinQuantity)
	}
	if req.StopPrice > 0 && req.PeakSize > 0 {
		reasons = append(reasons, domain.ReasonStopOrderWithPeakSize)
	}

	sec, err := s.securities.Get(req.SecurityISIN)
	if err != nil {
		reasons = append(reasons, domain.ReasonUnknownSecurity)
	} else {
		if req.Quantity%sec.LotSize != 0 {
			reasons = append(reasons, domain.ReasonQuantityNotMultipleOfLot)
		}
		if req.Price%sec.TickSize != 0 {
			reasons = append(reasons, domain.ReasonPriceNotMultipleOfTick)
		}
		if !isUpdate && sec.State == domain.MatchingStateAuction && req.MinimumExecutionQuantity > 0 {
			reasons = append(reasons, domain.ReasonMinQuantityInAuction)
		}
	}
	if !s.brokers.Exists(req.BrokerID) {
		reasons = append(reasons, domain.ReasonUnknownBroker)
	}
	if !s.shareholders.Exists(req.ShareholderID) {
		reasons = append(reasons, domain.ReasonUnknownShareholder)
	}
	return reasons
}

func (s *OrderService) validateDeleteOrder(req engine.DeleteOrderRequest) []string {
	var reasons []string
	if req.OrderID == 0 {
		reasons = append(reasons, domain.ReasonInvalidOrderID)
	}
	if !req.Side.Valid() {
		reasons = append(reasons, domain.ReasonInvalidSide)
	}
	if !s.securities.Exists(req.SecurityISIN) {
		reasons = append(reasons, domain.ReasonUnknownSecurity)
	}
	return reasons
}
