package service

import (
	"time"

	"matching-engine/internal/domain"
	"matching-engine/internal/engine"
)

// Event construction and outcome translation. Every engine outcome maps to
// one or more notification events; callers append them to the event log
// and hand them back to the request originator.

func rejectedEvent(isin string, requestID, orderID uint64, reasons []string) domain.Event {
	return domain.Event{
		Type:         domain.EventOrderRejected,
		At:           time.Now(),
		SecurityISIN: isin,
		RequestID:    requestID,
		OrderID:      orderID,
		Reasons:      reasons,
	}
}

func openingPriceEvent(sec *engine.Security) domain.Event {
	price, qty := sec.OpeningPrice()
	return domain.Event{
		Type:             domain.EventOpeningPrice,
		At:               time.Now(),
		SecurityISIN:     sec.ISIN,
		OpeningPrice:     price,
		TradableQuantity: qty,
	}
}

// translateEnterResult maps the outcome of a new-order or update-order
// request to its notification events.
func translateEnterResult(sec *engine.Security, req engine.EnterOrderRequest, res engine.MatchResult, isUpdate bool) []domain.Event {
	switch res.Outcome {
	case engine.OutcomeNotEnoughCredit:
		return []domain.Event{rejectedEvent(sec.ISIN, req.RequestID, req.OrderID, []string{domain.ReasonBuyerNotEnoughCredit})}
	case engine.OutcomeNotEnoughPositions:
		return []domain.Event{rejectedEvent(sec.ISIN, req.RequestID, req.OrderID, []string{domain.ReasonSellerNotEnoughPositions})}
	case engine.OutcomeMinimumQuantityInsufficient:
		return []domain.Event{rejectedEvent(sec.ISIN, req.RequestID, req.OrderID, []string{domain.ReasonMinimumQuantityNotMet})}
	case engine.OutcomeCantUpdateMinQuantity:
		return []domain.Event{rejectedEvent(sec.ISIN, req.RequestID, req.OrderID, []string{domain.ReasonMinimumQuantityImmutable})}
	}

	ack := domain.EventOrderAccepted
	if isUpdate {
		ack = domain.EventOrderUpdated
	}
	events := []domain.Event{{
		Type:         ack,
		At:           time.Now(),
		SecurityISIN: sec.ISIN,
		RequestID:    req.RequestID,
		OrderID:      req.OrderID,
	}}

	// A stop-limit request that did not land in the inactive queue was
	// activated on the spot.
	if req.IsStopLimit() && res.Outcome != engine.OutcomeInactiveOrderEnqueued {
		events = append(events, domain.Event{
			Type:         domain.EventOrderActivated,
			At:           time.Now(),
			SecurityISIN: sec.ISIN,
			RequestID:    req.RequestID,
			OrderID:      req.OrderID,
		})
	}
	if res.Outcome == engine.OutcomeOpeningPriceAnnouncement {
		events = append(events, openingPriceEvent(sec))
	}
	if len(res.Trades) > 0 {
		events = append(events, domain.Event{
			Type:         domain.EventOrderExecuted,
			At:           time.Now(),
			SecurityISIN: sec.ISIN,
			RequestID:    req.RequestID,
			OrderID:      req.OrderID,
			Trades:       res.Trades,
		})
	}
	return events
}

// cascadeEvents runs the activation cascade and translates each promoted
// stop order into its activation (and execution) events. The request ID
// on these events is the one the stop order was created under.
func cascadeEvents(e *engine.Engine, sec *engine.Security) []domain.Event {
	var events []domain.Event
	for _, act := range e.RunCascade(sec) {
		events = append(events, domain.Event{
			Type:         domain.EventOrderActivated,
			At:           time.Now(),
			SecurityISIN: sec.ISIN,
			RequestID:    act.Order.RequestID,
			OrderID:      act.Order.OrderID,
		})
		if act.Matched && len(act.Result.Trades) > 0 {
			events = append(events, domain.Event{
				Type:         domain.EventOrderExecuted,
				At:           time.Now(),
				SecurityISIN: sec.ISIN,
				RequestID:    act.Order.RequestID,
				OrderID:      act.Order.OrderID,
				Trades:       act.Result.Trades,
			})
		}
	}
	return events
}

// reasonsForError maps the engine's sentinel errors to rejection reasons.
func reasonsForError(err error) []string {
	switch err {
	case domain.ErrOrderNotFound:
		return []string{domain.ReasonOrderNotFound}
	case domain.ErrIcebergAttributeChange:
		return []string{domain.ReasonIcebergAttributeImmutable}
	case domain.ErrStopAttributeChange:
		return []string{domain.ReasonStopAttributeImmutable}
	case domain.ErrNewStopOrderInAuction:
		return []string{domain.ReasonNewStopOrderInAuction}
	case domain.ErrUpdateStopOrderInAuction:
		return []string{domain.ReasonUpdateStopOrderInAuction}
	case domain.ErrDeleteStopOrderInAuction:
		return []string{domain.ReasonDeleteStopOrderInAuction}
	default:
		return []string{err.Error()}
	}
}
