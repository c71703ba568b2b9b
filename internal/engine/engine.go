// Package engine implements the matching core: the continuous and auction
// matchers, the security state machine, and the activation cascade for
// stop-limit orders. All methods mutate a single security's book and the
// ledgers it references, and must run under that security's single-writer
// discipline.
package engine

import (
	"matching-engine/internal/domain"
)

// Engine orchestrates request processing for securities.
type Engine struct {
	ledgers    Ledgers
	continuous *ContinuousMatcher
	auction    *AuctionMatcher
}

// New creates an engine over the given ledgers.
func New(ledgers Ledgers) *Engine {
	return &Engine{
		ledgers:    ledgers,
		continuous: NewContinuousMatcher(ledgers),
		auction:    NewAuctionMatcher(ledgers),
	}
}

// Activation reports one stop-limit order promoted out of the inactive
// queue by the cascade. In continuous mode the order was resubmitted to
// the matcher and Result holds its outcome; in auction mode it was only
// moved to the active queue and Matched is false.
type Activation struct {
	Order   *domain.Order
	Result  MatchResult
	Matched bool
}

// NewOrder admits a new order into the security according to its current
// matching mode. Mode-forbidden requests return an error; business
// rejections come back as MatchResult outcomes.
func (e *Engine) NewOrder(sec *Security, req EnterOrderRequest) (MatchResult, error) {
	if sec.State == domain.MatchingStateAuction {
		return e.newOrderInAuction(sec, req)
	}
	return e.newOrderInContinuous(sec, req)
}

// newOrderInAuction places the order directly into the active queue with
// no matching; price discovery happens when the auction uncrosses.
func (e *Engine) newOrderInAuction(sec *Security, req EnterOrderRequest) (MatchResult, error) {
	if req.IsStopLimit() {
		return MatchResult{}, domain.ErrNewStopOrderInAuction
	}
	if e.lacksPositions(sec, req.ShareholderID, req.Side, req.Quantity) {
		return notEnoughPositions(), nil
	}
	o := req.buildOrder()
	if o.Side == domain.SideBuy {
		broker := e.ledgers.Broker(o.BrokerID)
		if !broker.HasEnoughCredit(o.Value()) {
			return notEnoughCredit(), nil
		}
		broker.DecreaseCreditBy(o.Value())
	}
	sec.Book.EnqueueActive(o)
	return openingPriceAnnouncement(), nil
}

func (e *Engine) newOrderInContinuous(sec *Security, req EnterOrderRequest) (MatchResult, error) {
	if e.lacksPositions(sec, req.ShareholderID, req.Side, req.Quantity) {
		return notEnoughPositions(), nil
	}
	o := req.buildOrder()

	if o.IsStopLimit() {
		if o.Side == domain.SideBuy && !e.ledgers.Broker(o.BrokerID).HasEnoughCredit(o.Value()) {
			return notEnoughCredit(), nil
		}
		if !o.CanActivate(sec.LastTradedPrice) {
			// Pending stop orders hold their reservation while invisible.
			if o.Side == domain.SideBuy {
				e.ledgers.Broker(o.BrokerID).DecreaseCreditBy(o.Value())
			}
			sec.Book.EnqueueInactive(o)
			return inactiveOrderEnqueued(), nil
		}
	}
	return e.continuous.Execute(sec, o), nil
}

// UpdateOrder modifies an existing order. Updates that preserve priority
// apply in place; anything else removes the order and reprocesses it as if
// newly entered, restoring the pre-update order if the re-match fails.
func (e *Engine) UpdateOrder(sec *Security, req EnterOrderRequest) (MatchResult, error) {
	o, err := e.locateForUpdate(sec, req)
	if err != nil {
		return MatchResult{}, err
	}
	if sec.State == domain.MatchingStateAuction && req.IsStopLimit() {
		return MatchResult{}, domain.ErrUpdateStopOrderInAuction
	}
	if o.IsIceberg() != req.IsIceberg() {
		return MatchResult{}, domain.ErrIcebergAttributeChange
	}
	if o.IsStopLimit() != req.IsStopLimit() {
		return MatchResult{}, domain.ErrStopAttributeChange
	}
	if o.MinimumExecutionQuantity != req.MinimumExecutionQuantity {
		return cantUpdateMinQuantity(), nil
	}
	if sec.State == domain.MatchingStateAuction {
		return e.updateOrderInAuction(sec, o, req)
	}
	return e.updateOrderInContinuous(sec, o, req)
}

// locateForUpdate finds the referenced order: the inactive queue when the
// request carries a stop price, the active queue otherwise.
func (e *Engine) locateForUpdate(sec *Security, req EnterOrderRequest) (*domain.Order, error) {
	var o *domain.Order
	var ok bool
	if req.IsStopLimit() {
		o, ok = sec.Book.FindInactive(req.Side, req.OrderID)
	} else {
		o, ok = sec.Book.FindActive(req.Side, req.OrderID)
	}
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return o, nil
}

func (e *Engine) updateOrderInContinuous(sec *Security, o *domain.Order, req EnterOrderRequest) (MatchResult, error) {
	if req.Side == domain.SideSell && e.lacksPositionsForUpdate(sec, o, req) {
		return notEnoughPositions(), nil
	}

	losesPriority := req.Quantity > o.Quantity ||
		req.Price != o.Price ||
		(o.IsIceberg() && req.PeakSize < o.PeakSize)

	if o.Side == domain.SideBuy {
		e.ledgers.Broker(o.BrokerID).IncreaseCreditBy(o.Value())
	}
	snapshot := o.Snapshot()
	applyUpdate(o, req)

	if !losesPriority && !req.IsStopLimit() {
		// In-place update: no requeueing, no rematching, credit only.
		if o.Side == domain.SideBuy {
			e.ledgers.Broker(o.BrokerID).DecreaseCreditBy(o.Value())
		}
		return executed(nil, nil), nil
	}

	o.Status = domain.OrderStatusUpdating
	sec.Book.Remove(req.Side, req.OrderID)

	if req.IsStopLimit() && !o.CanActivate(sec.LastTradedPrice) {
		if o.Side == domain.SideBuy {
			e.ledgers.Broker(o.BrokerID).DecreaseCreditBy(o.Value())
		}
		sec.Book.EnqueueInactive(o)
		return inactiveOrderEnqueued(), nil
	}

	res := e.continuous.Execute(sec, o)
	if res.Outcome != OutcomeExecuted {
		e.restoreSnapshot(sec, snapshot)
	}
	return res, nil
}

// restoreSnapshot puts the pre-update order back after a failed re-match,
// re-taking its buy-side reservation. The queue is chosen by the
// snapshot's own activation predicate so a still-untriggered stop order
// returns to the inactive queue.
func (e *Engine) restoreSnapshot(sec *Security, snapshot *domain.Order) {
	if snapshot.Side == domain.SideBuy {
		e.ledgers.Broker(snapshot.BrokerID).DecreaseCreditBy(snapshot.Value())
	}
	if snapshot.CanActivate(sec.LastTradedPrice) {
		sec.Book.EnqueueActive(snapshot)
	} else {
		sec.Book.EnqueueInactive(snapshot)
	}
}

func (e *Engine) updateOrderInAuction(sec *Security, o *domain.Order, req EnterOrderRequest) (MatchResult, error) {
	if req.Side == domain.SideSell {
		if e.lacksPositionsForUpdate(sec, o, req) {
			return notEnoughPositions(), nil
		}
	} else {
		// The order's reservation covers its current value; only the
		// difference must still be affordable.
		delta := req.Quantity*req.Price - o.Value()
		if !e.ledgers.Broker(o.BrokerID).HasEnoughCredit(delta) {
			return notEnoughCredit(), nil
		}
	}

	if o.Side == domain.SideBuy {
		e.ledgers.Broker(o.BrokerID).IncreaseCreditBy(o.Value())
	}
	sec.Book.Remove(req.Side, req.OrderID)
	applyUpdate(o, req)
	if o.Side == domain.SideBuy {
		e.ledgers.Broker(o.BrokerID).DecreaseCreditBy(o.Value())
	}
	sec.Book.EnqueueActive(o)
	return openingPriceAnnouncement(), nil
}

// applyUpdate mutates the order's updatable fields from the request and
// refreshes the visible slice.
func applyUpdate(o *domain.Order, req EnterOrderRequest) {
	o.Quantity = req.Quantity
	o.Price = req.Price
	if o.IsIceberg() {
		o.PeakSize = req.PeakSize
	}
	if o.IsStopLimit() {
		o.StopPrice = req.StopPrice
	}
	o.Replenish()
}

// DeleteOrder removes an order from whichever queue holds it, refunding a
// buy order's reservation. Stop orders are frozen during an auction.
func (e *Engine) DeleteOrder(sec *Security, req DeleteOrderRequest) error {
	o, found := sec.Book.Find(req.Side, req.OrderID)
	if _, inactive := sec.Book.FindInactive(req.Side, req.OrderID); inactive &&
		sec.State == domain.MatchingStateAuction {
		return domain.ErrDeleteStopOrderInAuction
	}
	if !found {
		return domain.ErrOrderNotFound
	}
	if o.Side == domain.SideBuy {
		e.ledgers.Broker(o.BrokerID).IncreaseCreditBy(o.Value())
	}
	sec.Book.Remove(req.Side, req.OrderID)
	return nil
}

// ChangeState switches the security's matching mode. Leaving auction mode
// uncrosses the book first; the returned result carries the auction trades
// when that happened. The caller runs the activation cascade afterwards.
func (e *Engine) ChangeState(sec *Security, target domain.MatchingState) *MatchResult {
	var res *MatchResult
	if sec.State == domain.MatchingStateAuction {
		r := e.auction.Execute(sec)
		res = &r
	}
	sec.State = target
	return res
}

// RunCascade re-examines the inactive queues after anything that may have
// moved the last traded price or the matching mode. In continuous mode
// triggered stop orders are resubmitted to the matcher, which can itself
// move the price and trigger more; in auction mode they are only promoted
// into the active queue to await the next uncrossing.
func (e *Engine) RunCascade(sec *Security) []Activation {
	if sec.State == domain.MatchingStateContinuous {
		return e.executeActivable(sec)
	}
	return e.promoteActivable(sec)
}

func (e *Engine) executeActivable(sec *Security) []Activation {
	var acts []Activation
	for {
		o, ok := sec.Book.DequeueActivable(domain.SideBuy, sec.LastTradedPrice)
		if !ok {
			o, ok = sec.Book.DequeueActivable(domain.SideSell, sec.LastTradedPrice)
		}
		if !ok {
			return acts
		}
		// The activated order is treated as a fresh attempt: release its
		// reservation and let the matcher charge per trade again.
		if o.Side == domain.SideBuy {
			e.ledgers.Broker(o.BrokerID).IncreaseCreditBy(o.Value())
		}
		res := e.continuous.Execute(sec, o)
		acts = append(acts, Activation{Order: o, Result: res, Matched: true})
	}
}

func (e *Engine) promoteActivable(sec *Security) []Activation {
	var acts []Activation
	for {
		sellOrder, okSell := sec.Book.DequeueActivable(domain.SideSell, sec.LastTradedPrice)
		buyOrder, okBuy := sec.Book.DequeueActivable(domain.SideBuy, sec.LastTradedPrice)
		if !okSell && !okBuy {
			return acts
		}
		if okSell {
			sec.Book.EnqueueActive(sellOrder)
			acts = append(acts, Activation{Order: sellOrder})
		}
		if okBuy {
			sec.Book.EnqueueActive(buyOrder)
			acts = append(acts, Activation{Order: buyOrder})
		}
	}
}

// lacksPositions guards sell orders: the shareholder must hold enough of
// the security to back its existing sell exposure plus the new quantity.
func (e *Engine) lacksPositions(sec *Security, shareholderID string, side domain.Side, quantity int64) bool {
	if side != domain.SideSell {
		return false
	}
	sh := e.ledgers.Shareholder(shareholderID)
	exposure := sec.Book.TotalSellQuantityByShareholder(shareholderID)
	return !sh.HasEnoughPositionsOn(sec.ISIN, exposure+quantity)
}

// lacksPositionsForUpdate is the sell-side guard for updates: the order's
// own active exposure is replaced by the requested quantity.
func (e *Engine) lacksPositionsForUpdate(sec *Security, o *domain.Order, req EnterOrderRequest) bool {
	sh := e.ledgers.Shareholder(o.ShareholderID)
	exposure := sec.Book.TotalSellQuantityByShareholder(o.ShareholderID)
	if _, active := sec.Book.FindActive(o.Side, o.OrderID); active {
		exposure -= o.Quantity
	}
	return !sh.HasEnoughPositionsOn(sec.ISIN, exposure+req.Quantity)
}
