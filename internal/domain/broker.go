package domain

import "time"

// Broker represents a trading participant's credit ledger. Buy orders
// reserve credit when they rest on the book and spend it when they trade.
//
// Brokers carry no lock of their own: all mutation happens inside a
// matching pass, which runs under the owning security's single-writer
// discipline.
type Broker struct {
	BrokerID  string
	Credit    int64
	CreatedAt time.Time
}

// HasEnoughCredit reports whether the broker can afford the given amount.
func (b *Broker) HasEnoughCredit(amount int64) bool {
	return b.Credit >= amount
}

// IncreaseCreditBy adds amount to the broker's credit.
func (b *Broker) IncreaseCreditBy(amount int64) {
	b.Credit += amount
}

// DecreaseCreditBy subtracts amount from the broker's credit.
func (b *Broker) DecreaseCreditBy(amount int64) {
	b.Credit -= amount
}
