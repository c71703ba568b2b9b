package domain

import "time"

// EventType names the notification kinds published while processing
// requests.
type EventType string

const (
	EventOrderAccepted        EventType = "order_accepted"
	EventOrderUpdated         EventType = "order_updated"
	EventOrderDeleted         EventType = "order_deleted"
	EventOrderRejected        EventType = "order_rejected"
	EventOrderActivated       EventType = "order_activated"
	EventOrderExecuted        EventType = "order_executed"
	EventOpeningPrice         EventType = "opening_price"
	EventSecurityStateChanged EventType = "security_state_changed"
	EventTrade                EventType = "trade"
)

// Event is one notification produced while processing a request. Only the
// fields relevant to its type are populated.
type Event struct {
	Type         EventType `json:"type"`
	At           time.Time `json:"at"`
	SecurityISIN string    `json:"security_isin,omitempty"`
	RequestID    uint64    `json:"request_id,omitempty"`
	OrderID      uint64    `json:"order_id,omitempty"`

	Reasons []string `json:"reasons,omitempty"` // order_rejected
	Trades  []Trade  `json:"trades,omitempty"`  // order_executed

	OpeningPrice     int64 `json:"opening_price,omitempty"`     // opening_price
	TradableQuantity int64 `json:"tradable_quantity,omitempty"` // opening_price

	State MatchingState `json:"state,omitempty"` // security_state_changed

	// trade (auction execution announcements)
	Price       int64  `json:"price,omitempty"`
	Quantity    int64  `json:"quantity,omitempty"`
	BuyOrderID  uint64 `json:"buy_order_id,omitempty"`
	SellOrderID uint64 `json:"sell_order_id,omitempty"`
}
