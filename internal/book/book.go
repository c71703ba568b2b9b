// Package book implements the per-security order book: active buy/sell
// queues in price-time priority and inactive queues holding stop-limit
// orders ordered by proximity to activation.
package book

import (
	"github.com/google/btree"

	"matching-engine/internal/domain"
)

// Entry is a queue position inside one of the book's four containers.
// Key is the sort key captured at insertion time: the limit price for
// active queues, the stop price for inactive queues. It is kept separate
// from the order so removals stay correct even after the order mutates.
type Entry struct {
	Key   int64
	Seq   uint64
	Order *domain.Order
}

// PriceLevel is an aggregated view of one price on one side of the book.
type PriceLevel struct {
	Price         int64
	TotalQuantity int64
	OrderCount    int
}

// activeBuyLess orders the active buy queue: price descending, then
// arrival ascending. Min() returns the best bid.
func activeBuyLess(a, b Entry) bool {
	if a.Key != b.Key {
		return a.Key > b.Key
	}
	return a.Seq < b.Seq
}

// activeSellLess orders the active sell queue: price ascending, then
// arrival ascending. Min() returns the best ask.
func activeSellLess(a, b Entry) bool {
	if a.Key != b.Key {
		return a.Key < b.Key
	}
	return a.Seq < b.Seq
}

// inactiveBuyLess keeps the buy stop order nearest to activation at the
// head. A buy stop activates once the last traded price rises to its stop
// price, so the lowest stop price activates first.
func inactiveBuyLess(a, b Entry) bool {
	if a.Key != b.Key {
		return a.Key < b.Key
	}
	return a.Seq < b.Seq
}

// inactiveSellLess keeps the sell stop order nearest to activation at the
// head. A sell stop activates once the last traded price falls to its stop
// price, so the highest stop price activates first.
func inactiveSellLess(a, b Entry) bool {
	if a.Key != b.Key {
		return a.Key > b.Key
	}
	return a.Seq < b.Seq
}

// slotKey addresses an order inside the book. Order IDs are unique per
// security and side.
type slotKey struct {
	side domain.Side
	id   uint64
}

type slot struct {
	entry    Entry
	inactive bool
}

// OrderBook holds the four ordered containers of one security. It carries
// no lock: every mutation happens under the owning security's
// single-writer discipline.
type OrderBook struct {
	activeBuys    *btree.BTreeG[Entry]
	activeSells   *btree.BTreeG[Entry]
	inactiveBuys  *btree.BTreeG[Entry]
	inactiveSells *btree.BTreeG[Entry]

	index map[slotKey]slot
	seq   uint64
}

// New creates an empty order book.
func New() *OrderBook {
	const degree = 32
	return &OrderBook{
		activeBuys:    btree.NewG(degree, activeBuyLess),
		activeSells:   btree.NewG(degree, activeSellLess),
		inactiveBuys:  btree.NewG(degree, inactiveBuyLess),
		inactiveSells: btree.NewG(degree, inactiveSellLess),
		index:         make(map[slotKey]slot),
	}
}

func (b *OrderBook) active(side domain.Side) *btree.BTreeG[Entry] {
	if side == domain.SideBuy {
		return b.activeBuys
	}
	return b.activeSells
}

func (b *OrderBook) inactive(side domain.Side) *btree.BTreeG[Entry] {
	if side == domain.SideBuy {
		return b.inactiveBuys
	}
	return b.inactiveSells
}

func (b *OrderBook) nextSeq() uint64 {
	b.seq++
	return b.seq
}

// EnqueueActive inserts the order into its active queue at the position
// preserving price-time priority and returns the created entry.
func (b *OrderBook) EnqueueActive(o *domain.Order) Entry {
	entry := Entry{Key: o.Price, Seq: b.nextSeq(), Order: o}
	o.Status = domain.OrderStatusQueued
	b.active(o.Side).ReplaceOrInsert(entry)
	b.index[slotKey{o.Side, o.OrderID}] = slot{entry: entry}
	return entry
}

// EnqueueInactive inserts a stop-limit order into its inactive queue,
// keyed by stop price so the order nearest to activation sits at the head.
func (b *OrderBook) EnqueueInactive(o *domain.Order) Entry {
	entry := Entry{Key: o.StopPrice, Seq: b.nextSeq(), Order: o}
	o.Status = domain.OrderStatusQueued
	b.inactive(o.Side).ReplaceOrInsert(entry)
	b.index[slotKey{o.Side, o.OrderID}] = slot{entry: entry, inactive: true}
	return entry
}

// RestoreActive re-inserts an order into its active queue under its
// pre-trade sequence number. It is used exclusively by rollback: the order
// was consumed from the head of its queue, so reinstating its original
// (price, seq) key puts it back in its exact pre-trade position.
func (b *OrderBook) RestoreActive(o *domain.Order, seq uint64) {
	entry := Entry{Key: o.Price, Seq: seq, Order: o}
	o.Status = domain.OrderStatusQueued
	b.active(o.Side).ReplaceOrInsert(entry)
	b.index[slotKey{o.Side, o.OrderID}] = slot{entry: entry}
}

// BestActive returns the head of the given active queue.
func (b *OrderBook) BestActive(side domain.Side) (Entry, bool) {
	return b.active(side).Min()
}

// MatchableWith returns the head of the opposite active queue if it
// satisfies the crossing predicate against the given order.
func (b *OrderBook) MatchableWith(o *domain.Order) (Entry, bool) {
	head, ok := b.active(o.Side.Opposite()).Min()
	if !ok || !o.Crosses(head.Key) {
		return Entry{}, false
	}
	return head, true
}

// DequeueActivable inspects the head of the inactive queue for the side;
// if its activation predicate holds against lastTradedPrice the order is
// removed and returned. Only the head is checked: the queue ordering
// guarantees that if the head cannot activate, no later entry can under the
// same last traded price. Callers must call again after each price change.
func (b *OrderBook) DequeueActivable(side domain.Side, lastTradedPrice int64) (*domain.Order, bool) {
	head, ok := b.inactive(side).Min()
	if !ok || !head.Order.CanActivate(lastTradedPrice) {
		return nil, false
	}
	b.inactive(side).Delete(head)
	delete(b.index, slotKey{side, head.Order.OrderID})
	return head.Order, true
}

// FindActive returns the order with the given ID from the active queue.
func (b *OrderBook) FindActive(side domain.Side, id uint64) (*domain.Order, bool) {
	s, ok := b.index[slotKey{side, id}]
	if !ok || s.inactive {
		return nil, false
	}
	return s.entry.Order, true
}

// FindInactive returns the order with the given ID from the inactive queue.
func (b *OrderBook) FindInactive(side domain.Side, id uint64) (*domain.Order, bool) {
	s, ok := b.index[slotKey{side, id}]
	if !ok || !s.inactive {
		return nil, false
	}
	return s.entry.Order, true
}

// Find returns the order with the given ID from whichever queue holds it.
func (b *OrderBook) Find(side domain.Side, id uint64) (*domain.Order, bool) {
	s, ok := b.index[slotKey{side, id}]
	if !ok {
		return nil, false
	}
	return s.entry.Order, true
}

// Remove deletes the order with the given ID from whichever queue holds it.
// It reports whether an order was removed.
func (b *OrderBook) Remove(side domain.Side, id uint64) bool {
	key := slotKey{side, id}
	s, ok := b.index[key]
	if !ok {
		return false
	}
	delete(b.index, key)
	if s.inactive {
		b.inactive(side).Delete(s.entry)
	} else {
		b.active(side).Delete(s.entry)
	}
	return true
}

// TotalSellQuantityByShareholder sums the remaining sell quantity the
// given shareholder already has resting on the active sell queue. Used by
// the position guard so a shareholder cannot oversell across orders.
func (b *OrderBook) TotalSellQuantityByShareholder(shareholderID string) int64 {
	var total int64
	b.activeSells.Ascend(func(e Entry) bool {
		if e.Order.ShareholderID == shareholderID {
			total += e.Order.Quantity
		}
		return true
	})
	return total
}

// TradableQuantity computes how much quantity would trade if the book
// uncrossed at the candidate price: the lesser of all sell quantity at or
// below it and all buy quantity at or above it.
func (b *OrderBook) TradableQuantity(price int64) int64 {
	var selling, buying int64
	b.activeSells.Ascend(func(e Entry) bool {
		if e.Key > price {
			return false
		}
		selling += e.Order.Quantity
		return true
	})
	b.activeBuys.Ascend(func(e Entry) bool {
		if e.Key < price {
			return false
		}
		buying += e.Order.Quantity
		return true
	})
	if selling < buying {
		return selling
	}
	return buying
}

// OpeningPrice chooses the auction uncrossing price. Candidates are the
// last traded price plus every price present in either active queue. The
// winner maximizes tradable quantity; ties break toward the candidate
// closest to the last traded price, then toward the lower price. The
// returned quantity is the tradable quantity at the chosen price.
func (b *OrderBook) OpeningPrice(lastTradedPrice int64) (int64, int64) {
	best := lastTradedPrice
	bestQty := b.TradableQuantity(best)

	consider := func(e Entry) bool {
		candidate := e.Key
		qty := b.TradableQuantity(candidate)
		switch {
		case qty > bestQty:
			best, bestQty = candidate, qty
		case qty == bestQty:
			bestDist := abs64(best - lastTradedPrice)
			dist := abs64(candidate - lastTradedPrice)
			if dist < bestDist || (dist == bestDist && candidate < best) {
				best = candidate
			}
		}
		return true
	}
	b.activeSells.Ascend(consider)
	b.activeBuys.Ascend(consider)

	return best, bestQty
}

// Levels returns up to n aggregated price levels from the given active
// side, best price first.
func (b *OrderBook) Levels(side domain.Side, n int) []PriceLevel {
	if n <= 0 {
		return nil
	}
	levels := make([]PriceLevel, 0, n)
	b.active(side).Ascend(func(e Entry) bool {
		if len(levels) > 0 && levels[len(levels)-1].Price == e.Key {
			levels[len(levels)-1].TotalQuantity += e.Order.Visible
			levels[len(levels)-1].OrderCount++
			return true
		}
		if len(levels) >= n {
			return false
		}
		levels = append(levels, PriceLevel{
			Price:         e.Key,
			TotalQuantity: e.Order.Visible,
			OrderCount:    1,
		})
		return true
	})
	return levels
}

// ActiveCount returns the number of orders resting on the given active side.
func (b *OrderBook) ActiveCount(side domain.Side) int {
	return b.active(side).Len()
}

// InactiveCount returns the number of stop orders pending on the given side.
func (b *OrderBook) InactiveCount(side domain.Side) int {
	return b.inactive(side).Len()
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
