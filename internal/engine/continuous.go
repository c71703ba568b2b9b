package engine

import (
	"time"

	"github.com/google/uuid"

	"matching-engine/internal/domain"
)

// ContinuousMatcher crosses an incoming order against the opposite active
// queue immediately, at each resting order's price.
type ContinuousMatcher struct {
	ledgers Ledgers
}

// NewContinuousMatcher creates a continuous matcher over the given ledgers.
func NewContinuousMatcher(ledgers Ledgers) *ContinuousMatcher {
	return &ContinuousMatcher{ledgers: ledgers}
}

// undoStep records everything needed to reverse one trade: the resting
// order's pre-trade quantities, its queue position, and the credit moved.
type undoStep struct {
	resting      *domain.Order
	seq          uint64
	prevQuantity int64
	prevVisible  int64
	value        int64
	sellerID     string
}

// undoLog accumulates the reversible effects of one matching pass.
// Position transfers are applied only after a pass commits, so the log
// tracks credit movements and book mutations only.
type undoLog struct {
	order        *domain.Order
	prevQuantity int64
	prevVisible  int64
	steps        []undoStep
}

// Execute runs a full matching attempt for the order: the match loop,
// the minimum-fill check, reservation of any remainder, and the post-commit
// price and position effects. Any failure rolls the whole attempt back.
func (m *ContinuousMatcher) Execute(sec *Security, o *domain.Order) MatchResult {
	res, undo := m.match(sec, o)
	if res.Outcome != OutcomeExecuted {
		return res
	}

	if o.Quantity > 0 {
		// The remainder becomes a resting order; a buy remainder must
		// reserve its entire remaining value.
		if o.Side == domain.SideBuy {
			buyer := m.ledgers.Broker(o.BrokerID)
			if !buyer.HasEnoughCredit(o.Value()) {
				m.rollback(sec, undo)
				return notEnoughCredit()
			}
			buyer.DecreaseCreditBy(o.Value())
		}
		o.Replenish()
		sec.Book.EnqueueActive(o)
	}

	if len(res.Trades) > 0 {
		sec.LastTradedPrice = res.Trades[len(res.Trades)-1].Price
	}
	m.applyPositions(res.Trades)
	return res
}

// match runs the crossing loop and the minimum-fill check. It returns the
// undo log so Execute can still roll back if reserving the remainder fails.
func (m *ContinuousMatcher) match(sec *Security, o *domain.Order) (MatchResult, *undoLog) {
	undo := &undoLog{order: o, prevQuantity: o.Quantity, prevVisible: o.Visible}
	initial := o.Quantity
	var trades []domain.Trade

	for o.Quantity > 0 {
		head, ok := sec.Book.MatchableWith(o)
		if !ok {
			break
		}
		resting := head.Order

		qty := min(o.Quantity, resting.Visible)
		price := resting.Price
		value := price * qty

		if o.Side == domain.SideBuy {
			buyer := m.ledgers.Broker(o.BrokerID)
			if !buyer.HasEnoughCredit(value) {
				m.rollback(sec, undo)
				return notEnoughCredit(), nil
			}
			buyer.DecreaseCreditBy(value)
		}
		// Selling always frees funds: the seller is credited immediately.
		sellerID := o.BrokerID
		if o.Side == domain.SideBuy {
			sellerID = resting.BrokerID
		}
		m.ledgers.Broker(sellerID).IncreaseCreditBy(value)

		undo.steps = append(undo.steps, undoStep{
			resting:      resting,
			seq:          head.Seq,
			prevQuantity: resting.Quantity,
			prevVisible:  resting.Visible,
			value:        value,
			sellerID:     sellerID,
		})
		trades = append(trades, newTrade(sec.ISIN, price, qty, o, resting))

		o.Quantity -= qty
		resting.Fill(qty)
		if resting.Visible == 0 {
			sec.Book.Remove(resting.Side, resting.OrderID)
			if resting.Quantity > 0 {
				// Iceberg slice exhausted: replenish and rejoin the tail
				// of its price level.
				resting.Replenish()
				sec.Book.EnqueueActive(resting)
			}
		}
	}

	filled := initial - o.Quantity
	if o.Status != domain.OrderStatusUpdating && filled < o.MinimumExecutionQuantity {
		m.rollback(sec, undo)
		return minimumQuantityInsufficient(), nil
	}
	return executed(o, trades), undo
}

// rollback reverses a matching pass in LIFO order: each consumed resting
// order returns to its exact pre-trade queue position and every credit
// movement of the pass is undone.
func (m *ContinuousMatcher) rollback(sec *Security, undo *undoLog) {
	for i := len(undo.steps) - 1; i >= 0; i-- {
		st := undo.steps[i]
		if undo.order.Side == domain.SideBuy {
			m.ledgers.Broker(undo.order.BrokerID).IncreaseCreditBy(st.value)
		}
		m.ledgers.Broker(st.sellerID).DecreaseCreditBy(st.value)

		// The resting order may be gone or re-enqueued as a replenished
		// iceberg slice; remove whatever is there and reinstate the
		// pre-trade state under the pre-trade key.
		sec.Book.Remove(st.resting.Side, st.resting.OrderID)
		st.resting.Quantity = st.prevQuantity
		st.resting.Visible = st.prevVisible
		sec.Book.RestoreActive(st.resting, st.seq)
	}
	undo.order.Quantity = undo.prevQuantity
	undo.order.Visible = undo.prevVisible
}

// applyPositions transfers shareholder positions for committed trades.
func (m *ContinuousMatcher) applyPositions(trades []domain.Trade) {
	for _, t := range trades {
		m.ledgers.Shareholder(t.BuyShareholderID).IncPosition(t.SecurityISIN, t.Quantity)
		m.ledgers.Shareholder(t.SellShareholderID).DecPosition(t.SecurityISIN, t.Quantity)
	}
}

// newTrade builds the immutable trade record for a fill between the
// incoming order and a resting order.
func newTrade(isin string, price, qty int64, incoming, resting *domain.Order) domain.Trade {
	buy, sell := incoming, resting
	if incoming.Side == domain.SideSell {
		buy, sell = resting, incoming
	}
	return domain.Trade{
		TradeID:           uuid.NewString(),
		SecurityISIN:      isin,
		Price:             price,
		Quantity:          qty,
		BuyOrderID:        buy.OrderID,
		BuySideBrokerID:   buy.BrokerID,
		BuyShareholderID:  buy.ShareholderID,
		SellOrderID:       sell.OrderID,
		SellSideBrokerID:  sell.BrokerID,
		SellShareholderID: sell.ShareholderID,
		ExecutedAt:        time.Now(),
	}
}
