package domain

// Side indicates whether an order buys or sells the security.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Opposite returns the other side of the market.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// Valid returns true for the two known sides.
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// MatchingState is the trading mode of a security.
type MatchingState string

const (
	MatchingStateContinuous MatchingState = "continuous"
	MatchingStateAuction    MatchingState = "auction"
)

// Valid returns true for the two known matching states.
func (m MatchingState) Valid() bool {
	return m == MatchingStateContinuous || m == MatchingStateAuction
}
