package domain

import "time"

// Trade is an immutable record of a matched execution between a buy and a
// sell order. Trades are produced only by the matchers and never mutated.
type Trade struct {
	TradeID      string
	SecurityISIN string
	Price        int64
	Quantity     int64

	BuyOrderID        uint64
	BuySideBrokerID   string
	BuyShareholderID  string
	SellOrderID       uint64
	SellSideBrokerID  string
	SellShareholderID string

	ExecutedAt time.Time
}

// Value is the traded amount: price × quantity.
func (t Trade) Value() int64 {
	return t.Price * t.Quantity
}
