package engine

import "matching-engine/internal/domain"

// Outcome tags a MatchResult. Exactly one outcome applies per result.
type Outcome string

const (
	OutcomeExecuted                    Outcome = "executed"
	OutcomeNotEnoughCredit             Outcome = "not_enough_credit"
	OutcomeNotEnoughPositions          Outcome = "not_enough_positions"
	OutcomeMinimumQuantityInsufficient Outcome = "minimum_quantity_insufficient"
	OutcomeCantUpdateMinQuantity       Outcome = "cant_update_min_quantity"
	OutcomeInactiveOrderEnqueued       Outcome = "inactive_order_enqueued"
	OutcomeOpeningPriceAnnouncement    Outcome = "opening_price_announcement"
	OutcomeAuctionMatchCompleted       Outcome = "auction_match_completed"
)

// MatchResult is the tagged outcome of processing one order request.
// Trades is empty unless the outcome implies execution; Remainder is the
// incoming order after an executed pass (possibly fully consumed).
type MatchResult struct {
	Outcome   Outcome
	Remainder *domain.Order
	Trades    []domain.Trade
}

func executed(remainder *domain.Order, trades []domain.Trade) MatchResult {
	return MatchResult{Outcome: OutcomeExecuted, Remainder: remainder, Trades: trades}
}

func notEnoughCredit() MatchResult {
	return MatchResult{Outcome: OutcomeNotEnoughCredit}
}

func notEnoughPositions() MatchResult {
	return MatchResult{Outcome: OutcomeNotEnoughPositions}
}

func minimumQuantityInsufficient() MatchResult {
	return MatchResult{Outcome: OutcomeMinimumQuantityInsufficient}
}

func cantUpdateMinQuantity() MatchResult {
	return MatchResult{Outcome: OutcomeCantUpdateMinQuantity}
}

func inactiveOrderEnqueued() MatchResult {
	return MatchResult{Outcome: OutcomeInactiveOrderEnqueued}
}

func openingPriceAnnouncement() MatchResult {
	return MatchResult{Outcome: OutcomeOpeningPriceAnnouncement}
}

func auctionMatchCompleted(trades []domain.Trade) MatchResult {
	return MatchResult{Outcome: OutcomeAuctionMatchCompleted, Trades: trades}
}
