package signal

import "predictlearn/internal/market"

// Type identifies one of the four proxy signals. The set is closed: the
// lookup tables and fixed-order outputs below assume exactly these four.
type Type string

const (
	Twitter Type = "twitter" // price volatility as a proxy for social buzz
	Whales  Type = "whales"  // liquidity as a proxy for large traders
	News    Type = "news"    // combined volume/liquidity movement
	Volume  Type = "volume"  // raw trading volume
)

// Types lists every signal in output order.
var Types = []Type{Twitter, Whales, News, Volume}

// Valid reports whether t is one of the four known signals.
func Valid(t Type) bool {
	switch t {
	case Twitter, Whales, News, Volume:
		return true
	}
	return false
}

// Thresholds for the firing predicates. Illustrative proxies, not tuned
// parameters, so they are fixed rather than configurable.
const (
	volumeFireThreshold    = 10000
	whalesFireThreshold    = 5000
	newsVolumeThreshold    = 5000
	newsLiquidityThreshold = 3000
	volatilityLow          = 0.3
	volatilityHigh         = 0.7
	strongOutcomeThreshold = 0.6
)

// Fires reports whether the given signal would have fired for the market.
func Fires(m market.Market, t Type) bool {
	switch t {
	case Volume:
		return m.Volume > volumeFireThreshold
	case Twitter:
		// Prices in the contested band read as uncertainty, the volatility
		// that social attention produces.
		return len(m.OutcomePrices) >= 2 &&
			m.OutcomePrices[0] > volatilityLow && m.OutcomePrices[0] < volatilityHigh
	case Whales:
		return m.Liquidity > whalesFireThreshold
	case News:
		return m.Volume > newsVolumeThreshold || m.Liquidity > newsLiquidityThreshold
	}
	return false
}

// HasStrongOutcome reports whether the market resolved with a clear favorite:
// at least two outcome prices and either side above 0.6. Stands in for "the
// signal was right".
func HasStrongOutcome(m market.Market) bool {
	if len(m.OutcomePrices) < 2 {
		return false
	}
	return m.OutcomePrices[0] > strongOutcomeThreshold ||
		m.OutcomePrices[1] > strongOutcomeThreshold
}
