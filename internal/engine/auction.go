package engine

import "matching-engine/internal/domain"

// AuctionMatcher uncrosses a security's book at a single clearing price.
// Every crossable order trades at that price, not at its resting price.
type AuctionMatcher struct {
	ledgers Ledgers
}

// NewAuctionMatcher creates an auction matcher over the given ledgers.
func NewAuctionMatcher(ledgers Ledgers) *AuctionMatcher {
	return &AuctionMatcher{ledgers: ledgers}
}

// Execute computes the opening price and executes all crossable orders at
// it. Auction participants were charged or reserved at order entry, so no
// credit pre-checks run here; a buyer is refunded the difference between
// its limit price and the opening price for each unit traded.
func (m *AuctionMatcher) Execute(sec *Security) MatchResult {
	openingPrice, _ := sec.OpeningPrice()

	var all []domain.Trade
	for {
		head, ok := sec.Book.BestActive(domain.SideBuy)
		if !ok || head.Order.Price < openingPrice {
			break
		}
		trades := m.matchOne(sec, head.Order, openingPrice)
		if len(trades) == 0 {
			break
		}
		all = append(all, trades...)
	}
	return auctionMatchCompleted(all)
}

// matchOne fills one buy order against the front of the sell queue at the
// opening price, with the same slice and replenish mechanics as continuous
// matching.
func (m *AuctionMatcher) matchOne(sec *Security, buy *domain.Order, openingPrice int64) []domain.Trade {
	var trades []domain.Trade

	for buy.Visible > 0 {
		head, ok := sec.Book.BestActive(domain.SideSell)
		if !ok || head.Key > openingPrice {
			break
		}
		sell := head.Order

		qty := min(buy.Visible, sell.Visible)

		// The buyer reserved credit at its own limit price; trading at the
		// opening price frees the difference.
		m.ledgers.Broker(buy.BrokerID).IncreaseCreditBy(qty * (buy.Price - openingPrice))
		m.ledgers.Broker(sell.BrokerID).IncreaseCreditBy(qty * openingPrice)

		trades = append(trades, newTrade(sec.ISIN, openingPrice, qty, buy, sell))

		buy.Fill(qty)
		sell.Fill(qty)
		if sell.Visible == 0 {
			sec.Book.Remove(sell.Side, sell.OrderID)
			if sell.Quantity > 0 {
				sell.Replenish()
				sec.Book.EnqueueActive(sell)
			}
		}
	}

	if buy.Visible == 0 {
		sec.Book.Remove(buy.Side, buy.OrderID)
		if buy.Quantity > 0 {
			buy.Replenish()
			sec.Book.EnqueueActive(buy)
		}
	}

	if len(trades) > 0 {
		sec.LastTradedPrice = trades[len(trades)-1].Price
		for _, t := range trades {
			m.ledgers.Shareholder(t.BuyShareholderID).IncPosition(t.SecurityISIN, t.Quantity)
			m.ledgers.Shareholder(t.SellShareholderID).DecPosition(t.SecurityISIN, t.Quantity)
		}
	}
	return trades
}
