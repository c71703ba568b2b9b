package book

import (
	"testing"
	"time"

	"matching-engine/internal/domain"
)

func buyOrder(id uint64, qty, price int64) *domain.Order {
	return domain.NewOrder(id, "TEST1", domain.SideBuy, qty, price, "b1", "sh1", 0, time.Now())
}

func sellOrder(id uint64, qty, price int64) *domain.Order {
	return domain.NewOrder(id, "TEST1", domain.SideSell, qty, price, "b2", "sh2", 0, time.Now())
}

func buyStop(id uint64, qty, price, stop int64) *domain.Order {
	return domain.NewStopLimitOrder(id, "TEST1", domain.SideBuy, qty, price, "b1", "sh1", stop, id, time.Now())
}

func sellStop(id uint64, qty, price, stop int64) *domain.Order {
	return domain.NewStopLimitOrder(id, "TEST1", domain.SideSell, qty, price, "b2", "sh2", stop, id, time.Now())
}

func TestEnqueueActive_PriceTimePriority(t *testing.T) {
	b := New()
	b.EnqueueActive(buyOrder(1, 10, 100))
	b.EnqueueActive(buyOrder(2, 10, 120))
	b.EnqueueActive(buyOrder(3, 10, 120)) // same price, later arrival

	head, ok := b.BestActive(domain.SideBuy)
	if !ok || head.Order.OrderID != 2 {
		t.Fatalf("expected order 2 at head, got %+v", head)
	}

	b.Remove(domain.SideBuy, 2)
	head, _ = b.BestActive(domain.SideBuy)
	if head.Order.OrderID != 3 {
		t.Fatalf("expected order 3 after removing 2, got %d", head.Order.OrderID)
	}

	b.Remove(domain.SideBuy, 3)
	head, _ = b.BestActive(domain.SideBuy)
	if head.Order.OrderID != 1 {
		t.Fatalf("expected order 1 last, got %d", head.Order.OrderID)
	}
}

func TestEnqueueActive_SellOrdering(t *testing.T) {
	b := New()
	b.EnqueueActive(sellOrder(1, 10, 120))
	b.EnqueueActive(sellOrder(2, 10, 100))

	head, ok := b.BestActive(domain.SideSell)
	if !ok || head.Order.OrderID != 2 {
		t.Fatalf("expected cheapest sell at head, got %+v", head)
	}
}

func TestMatchableWith(t *testing.T) {
	b := New()
	b.EnqueueActive(sellOrder(1, 10, 100))

	if _, ok := b.MatchableWith(buyOrder(2, 10, 99)); ok {
		t.Error("buy below best ask must not match")
	}
	head, ok := b.MatchableWith(buyOrder(3, 10, 100))
	if !ok || head.Order.OrderID != 1 {
		t.Errorf("buy at best ask must match order 1, got %+v", head)
	}
}

func TestInactiveQueue_ActivationProximityOrdering(t *testing.T) {
	b := New()
	// Buy stops: lowest stop price activates first.
	b.EnqueueInactive(buyStop(1, 10, 110, 105))
	b.EnqueueInactive(buyStop(2, 10, 110, 101))
	b.EnqueueInactive(buyStop(3, 10, 110, 103))

	// Sell stops: highest stop price activates first.
	b.EnqueueInactive(sellStop(4, 10, 90, 95))
	b.EnqueueInactive(sellStop(5, 10, 90, 99))

	if o, ok := b.DequeueActivable(domain.SideBuy, 100); ok {
		t.Fatalf("no buy stop should activate at 100, got %d", o.OrderID)
	}
	o, ok := b.DequeueActivable(domain.SideBuy, 103)
	if !ok || o.OrderID != 2 {
		t.Fatalf("expected buy stop 2 first at 103, got %v", o)
	}
	o, ok = b.DequeueActivable(domain.SideBuy, 103)
	if !ok || o.OrderID != 3 {
		t.Fatalf("expected buy stop 3 second at 103, got %v", o)
	}
	if _, ok := b.DequeueActivable(domain.SideBuy, 103); ok {
		t.Fatal("stop 1 must not activate at 103")
	}

	o, ok = b.DequeueActivable(domain.SideSell, 99)
	if !ok || o.OrderID != 5 {
		t.Fatalf("expected sell stop 5 first at 99, got %v", o)
	}
	if _, ok := b.DequeueActivable(domain.SideSell, 99); ok {
		t.Fatal("sell stop 4 must not activate at 99")
	}
}

func TestRestoreActive_ReinstatesQueuePosition(t *testing.T) {
	b := New()
	first := sellOrder(1, 10, 100)
	e := b.EnqueueActive(first)
	b.EnqueueActive(sellOrder(2, 10, 100))

	// Simulate a consumed head being rolled back.
	b.Remove(domain.SideSell, 1)
	b.RestoreActive(first, e.Seq)

	head, _ := b.BestActive(domain.SideSell)
	if head.Order.OrderID != 1 {
		t.Fatalf("expected restored order 1 back at head, got %d", head.Order.OrderID)
	}
}

func TestTradableQuantity(t *testing.T) {
	b := New()
	b.EnqueueActive(buyOrder(1, 100, 110))
	b.EnqueueActive(buyOrder(2, 50, 100))
	b.EnqueueActive(sellOrder(3, 80, 100))
	b.EnqueueActive(sellOrder(4, 100, 105))

	// At 100: sells at or below = 80, buys at or above = 150.
	if got := b.TradableQuantity(100); got != 80 {
		t.Errorf("expected 80 tradable at 100, got %d", got)
	}
	// At 105: sells = 180, buys = 100.
	if got := b.TradableQuantity(105); got != 100 {
		t.Errorf("expected 100 tradable at 105, got %d", got)
	}
	// At 111: no buys remain.
	if got := b.TradableQuantity(111); got != 0 {
		t.Errorf("expected 0 tradable at 111, got %d", got)
	}
}

func TestOpeningPrice_MaximizesQuantity(t *testing.T) {
	b := New()
	b.EnqueueActive(buyOrder(1, 100, 110))
	b.EnqueueActive(buyOrder(2, 50, 100))
	b.EnqueueActive(sellOrder(3, 80, 100))
	b.EnqueueActive(sellOrder(4, 100, 105))

	price, qty := b.OpeningPrice(0)
	if price != 105 || qty != 100 {
		t.Errorf("expected opening 105/100, got %d/%d", price, qty)
	}
}

func TestOpeningPrice_TieBreaksTowardLastTradedThenLower(t *testing.T) {
	b := New()
	// Both 100 and 110 clear the same quantity.
	b.EnqueueActive(buyOrder(1, 50, 110))
	b.EnqueueActive(sellOrder(2, 50, 100))

	price, qty := b.OpeningPrice(104)
	if qty != 50 {
		t.Fatalf("expected tradable 50, got %d", qty)
	}
	// Every price in [100, 110] clears 50; the last traded price itself is
	// a candidate and sits at distance zero.
	if price != 104 {
		t.Errorf("expected 104 (last traded price), got %d", price)
	}

	// Last traded below the crossing range: the nearest clearing price wins.
	price, _ = b.OpeningPrice(90)
	if price != 100 {
		t.Errorf("expected 100 (closest to last traded 90), got %d", price)
	}

	// Last traded above the crossing range.
	price, _ = b.OpeningPrice(120)
	if price != 110 {
		t.Errorf("expected 110 (closest to last traded 120), got %d", price)
	}
}

func TestTotalSellQuantityByShareholder(t *testing.T) {
	b := New()
	b.EnqueueActive(sellOrder(1, 30, 100))
	b.EnqueueActive(sellOrder(2, 20, 105))
	other := domain.NewOrder(3, "TEST1", domain.SideSell, 99, 100, "b9", "sh9", 0, time.Now())
	b.EnqueueActive(other)

	if got := b.TotalSellQuantityByShareholder("sh2"); got != 50 {
		t.Errorf("expected 50, got %d", got)
	}
	if got := b.TotalSellQuantityByShareholder("none"); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}

func TestLevels_AggregatesVisibleQuantity(t *testing.T) {
	b := New()
	b.EnqueueActive(sellOrder(1, 30, 100))
	b.EnqueueActive(sellOrder(2, 20, 100))
	iceberg := domain.NewIcebergOrder(3, "TEST1", domain.SideSell, 500, 105, "b2", "sh2", 40, 0, time.Now())
	b.EnqueueActive(iceberg)

	levels := b.Levels(domain.SideSell, 10)
	if len(levels) != 2 {
		t.Fatalf("expected 2 levels, got %d", len(levels))
	}
	if levels[0].Price != 100 || levels[0].TotalQuantity != 50 || levels[0].OrderCount != 2 {
		t.Errorf("unexpected level 0: %+v", levels[0])
	}
	// Iceberg contributes only its visible slice.
	if levels[1].Price != 105 || levels[1].TotalQuantity != 40 || levels[1].OrderCount != 1 {
		t.Errorf("unexpected level 1: %+v", levels[1])
	}

	if got := b.Levels(domain.SideSell, 1); len(got) != 1 {
		t.Errorf("expected depth cap of 1, got %d levels", len(got))
	}
}

func TestFindAndRemove(t *testing.T) {
	b := New()
	b.EnqueueActive(buyOrder(1, 10, 100))
	b.EnqueueInactive(buyStop(2, 10, 110, 105))

	if _, ok := b.FindActive(domain.SideBuy, 1); !ok {
		t.Error("expected to find active order 1")
	}
	if _, ok := b.FindActive(domain.SideBuy, 2); ok {
		t.Error("stop order must not be found in the active queue")
	}
	if _, ok := b.FindInactive(domain.SideBuy, 2); !ok {
		t.Error("expected to find inactive order 2")
	}
	if _, ok := b.Find(domain.SideBuy, 2); !ok {
		t.Error("Find must cover both queues")
	}

	if !b.Remove(domain.SideBuy, 2) {
		t.Error("expected removal of inactive order 2")
	}
	if b.Remove(domain.SideBuy, 2) {
		t.Error("second removal must report false")
	}
	if b.InactiveCount(domain.SideBuy) != 0 || b.ActiveCount(domain.SideBuy) != 1 {
		t.Errorf("unexpected counts: active=%d inactive=%d",
			b.ActiveCount(domain.SideBuy), b.InactiveCount(domain.SideBuy))
	}
}
