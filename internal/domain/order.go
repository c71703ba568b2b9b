package domain

import "time"

// OrderKind distinguishes the three order variants.
type OrderKind string

const (
	OrderKindPlain     OrderKind = "plain"
	OrderKindIceberg   OrderKind = "iceberg"
	OrderKindStopLimit OrderKind = "stop_limit"
)

// OrderStatus represents the lifecycle state of an order inside the engine.
type OrderStatus string

const (
	// OrderStatusNew marks an order built from a request that has not been
	// queued yet. The minimum-execution-quantity rule applies only to new orders.
	OrderStatusNew OrderStatus = "new"
	// OrderStatusQueued marks an order resting in one of the book queues.
	OrderStatusQueued OrderStatus = "queued"
	// OrderStatusUpdating marks an order being re-matched as part of an
	// update; the minimum-execution-quantity rule is suspended for it.
	OrderStatusUpdating OrderStatus = "updating"
)

// Order is a buy or sell instruction resting in or entering a security's
// order book. A single struct carries all three variants; Kind selects
// which of the variant fields (PeakSize, StopPrice) are meaningful.
type Order struct {
	OrderID       uint64
	SecurityISIN  string
	Side          Side
	BrokerID      string
	ShareholderID string

	Price    int64
	Quantity int64 // remaining quantity, total across visible and hidden
	Visible  int64 // matchable slice; equals Quantity except for icebergs

	MinimumExecutionQuantity int64
	Status                   OrderStatus
	EntryTime                time.Time

	Kind OrderKind

	// Iceberg only: the maximum slice shown to the market at a time.
	PeakSize int64

	// Stop-limit only: the activation trigger and the request that
	// created the order, kept so a later activation or execution can be
	// correlated back to its originating request.
	StopPrice int64
	RequestID uint64
}

// NewOrder builds a queued-nowhere order with its visible slice initialized
// for its kind.
func NewOrder(id uint64, isin string, side Side, quantity, price int64, brokerID, shareholderID string, minExecQty int64, entryTime time.Time) *Order {
	return &Order{
		OrderID:                  id,
		SecurityISIN:             isin,
		Side:                     side,
		BrokerID:                 brokerID,
		ShareholderID:            shareholderID,
		Price:                    price,
		Quantity:                 quantity,
		Visible:                  quantity,
		MinimumExecutionQuantity: minExecQty,
		Status:                   OrderStatusNew,
		EntryTime:                entryTime,
		Kind:                     OrderKindPlain,
	}
}

// NewIcebergOrder builds an iceberg order displaying at most peakSize at a time.
func NewIcebergOrder(id uint64, isin string, side Side, quantity, price int64, brokerID, shareholderID string, peakSize, minExecQty int64, entryTime time.Time) *Order {
	o := NewOrder(id, isin, side, quantity, price, brokerID, shareholderID, minExecQty, entryTime)
	o.Kind = OrderKindIceberg
	o.PeakSize = peakSize
	o.Visible = min(quantity, peakSize)
	return o
}

// NewStopLimitOrder builds a stop-limit order that stays invisible to
// matching until its activation predicate holds.
func NewStopLimitOrder(id uint64, isin string, side Side, quantity, price int64, brokerID, shareholderID string, stopPrice int64, requestID uint64, entryTime time.Time) *Order {
	o := NewOrder(id, isin, side, quantity, price, brokerID, shareholderID, 0, entryTime)
	o.Kind = OrderKindStopLimit
	o.StopPrice = stopPrice
	o.RequestID = requestID
	return o
}

// IsIceberg returns true for iceberg orders.
func (o *Order) IsIceberg() bool {
	return o.Kind == OrderKindIceberg
}

// IsStopLimit returns true for stop-limit orders.
func (o *Order) IsStopLimit() bool {
	return o.Kind == OrderKindStopLimit
}

// Value is the credit amount the order represents: remaining quantity at
// the order's own limit price.
func (o *Order) Value() int64 {
	return o.Price * o.Quantity
}

// Fill consumes qty units from both the remaining quantity and the
// visible slice. The caller guarantees qty <= Visible.
func (o *Order) Fill(qty int64) {
	o.Quantity -= qty
	o.Visible -= qty
}

// Replenish refreshes the visible slice from the remaining quantity.
// For icebergs the new slice is capped at the peak size; the order must
// be re-enqueued afterwards since a replenished slice loses time priority.
func (o *Order) Replenish() {
	if o.IsIceberg() {
		o.Visible = min(o.Quantity, o.PeakSize)
		return
	}
	o.Visible = o.Quantity
}

// CanActivate reports whether the order may enter the active queue given
// the security's last traded price. Non-stop orders are always active.
func (o *Order) CanActivate(lastTradedPrice int64) bool {
	if !o.IsStopLimit() {
		return true
	}
	if o.Side == SideBuy {
		return lastTradedPrice >= o.StopPrice
	}
	return lastTradedPrice <= o.StopPrice
}

// Crosses reports whether the order's limit price is compatible with the
// given opposite-side price.
func (o *Order) Crosses(oppositePrice int64) bool {
	if o.Side == SideBuy {
		return o.Price >= oppositePrice
	}
	return o.Price <= oppositePrice
}

// Snapshot returns a copy of the order, taken before an update so the
// pre-update state can be restored if the re-match fails.
func (o *Order) Snapshot() *Order {
	c := *o
	return &c
}
