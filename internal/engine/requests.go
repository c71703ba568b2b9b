package engine

import (
	"time"

	"matching-engine/internal/domain"
)

// EnterOrderRequest carries a validated new-order or update-order request.
// An update references an existing OrderID on the same security and side.
type EnterOrderRequest struct {
	RequestID     uint64
	OrderID       uint64
	SecurityISIN  string
	Side          domain.Side
	Quantity      int64
	Price         int64
	BrokerID      string
	ShareholderID string

	PeakSize                 int64 // > 0 marks an iceberg order
	MinimumExecutionQuantity int64
	StopPrice                int64 // > 0 marks a stop-limit order
	EntryTime                time.Time
}

// IsIceberg reports whether the request describes an iceberg order.
func (r EnterOrderRequest) IsIceberg() bool {
	return r.PeakSize > 0
}

// IsStopLimit reports whether the request describes a stop-limit order.
func (r EnterOrderRequest) IsStopLimit() bool {
	return r.StopPrice > 0
}

// buildOrder constructs the order variant the request describes.
func (r EnterOrderRequest) buildOrder() *domain.Order {
	switch {
	case r.IsStopLimit():
		return domain.NewStopLimitOrder(r.OrderID, r.SecurityISIN, r.Side, r.Quantity, r.Price,
			r.BrokerID, r.ShareholderID, r.StopPrice, r.RequestID, r.EntryTime)
	case r.IsIceberg():
		return domain.NewIcebergOrder(r.OrderID, r.SecurityISIN, r.Side, r.Quantity, r.Price,
			r.BrokerID, r.ShareholderID, r.PeakSize, r.MinimumExecutionQuantity, r.EntryTime)
	default:
		return domain.NewOrder(r.OrderID, r.SecurityISIN, r.Side, r.Quantity, r.Price,
			r.BrokerID, r.ShareholderID, r.MinimumExecutionQuantity, r.EntryTime)
	}
}

// DeleteOrderRequest asks for removal of a resting or pending order.
type DeleteOrderRequest struct {
	RequestID    uint64
	OrderID      uint64
	SecurityISIN string
	Side         domain.Side
}

// ChangeStateRequest switches a security's matching mode.
type ChangeStateRequest struct {
	SecurityISIN string
	TargetState  domain.MatchingState
}
