package explain

import (
	"fmt"
	"math"
	"time"

	"predictlearn/internal/market"
	"predictlearn/internal/signal"
)

// Confidence buckets a prediction by how many signals agree.
type Confidence string

const (
	Low      Confidence = "LOW"
	Medium   Confidence = "MEDIUM"
	High     Confidence = "HIGH"
	VeryHigh Confidence = "VERY_HIGH"
)

// Contribution is one signal's share of a prediction.
type Contribution struct {
	SignalType  signal.Type `json:"signalType"`
	Impact      int         `json:"impact"` // signed percentage points
	Value       int         `json:"value"`  // 0-100 gauge
	Description string      `json:"description"`
}

// Prediction is an explainable view of a market's current odds: the headline
// probability plus a per-signal breakdown of what is driving it.
type Prediction struct {
	EventID         string         `json:"eventId"`
	Probability     int            `json:"probability"` // 0-100
	Confidence      Confidence     `json:"confidence"`
	SignalBreakdown []Contribution `json:"signalBreakdown"`
	Timestamp       string         `json:"timestamp"`
}

// BuildPrediction derives an explainable prediction from one market. The
// impacts are illustrative readings of the same proxies the signal tracker
// uses, not a fitted model.
func BuildPrediction(m market.Market) Prediction {
	probability := 0
	if len(m.OutcomePrices) > 0 {
		probability = int(math.Round(m.OutcomePrices[0] * 100))
	}

	breakdown := make([]Contribution, 0, len(signal.Types))
	fired := 0
	for _, t := range signal.Types {
		c := contributionFor(m, t)
		if signal.Fires(m, t) {
			fired++
		}
		breakdown = append(breakdown, c)
	}

	return Prediction{
		EventID:         m.ID,
		Probability:     probability,
		Confidence:      confidenceFor(fired),
		SignalBreakdown: breakdown,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
	}
}

func contributionFor(m market.Market, t signal.Type) Contribution {
	switch t {
	case signal.Volume:
		ratio := m.Volume / 10000
		return Contribution{
			SignalType:  t,
			Impact:      scaledImpact(ratio),
			Value:       gauge(ratio * 50),
			Description: fmt.Sprintf("$%.0f traded vs $10k high-volume threshold", m.Volume),
		}
	case signal.Whales:
		ratio := m.Liquidity / 5000
		return Contribution{
			SignalType:  t,
			Impact:      scaledImpact(ratio),
			Value:       gauge(ratio * 50),
			Description: fmt.Sprintf("$%.0f liquidity vs $5k whale threshold", m.Liquidity),
		}
	case signal.News:
		ratio := math.Max(m.Volume/5000, m.Liquidity/3000)
		return Contribution{
			SignalType:  t,
			Impact:      scaledImpact(ratio),
			Value:       gauge(ratio * 50),
			Description: fmt.Sprintf("volume $%.0f and liquidity $%.0f against news thresholds", m.Volume, m.Liquidity),
		}
	case signal.Twitter:
		if len(m.OutcomePrices) < 2 {
			return Contribution{SignalType: t, Description: "no price data for sentiment reading"}
		}
		// Contested prices read as active discussion; settled prices as quiet.
		contested := 1 - math.Abs(m.OutcomePrices[0]-0.5)*2
		return Contribution{
			SignalType:  t,
			Impact:      int(math.Round((contested - 0.5) * 30)),
			Value:       gauge(contested * 100),
			Description: fmt.Sprintf("first outcome at %.0f%%, contested band is 30-70%%", m.OutcomePrices[0]*100),
		}
	}
	return Contribution{SignalType: t}
}

// scaledImpact turns a ratio-to-threshold into a signed impact, positive
// above the threshold, capped at [-10, 25].
func scaledImpact(ratio float64) int {
	impact := int(math.Round((ratio - 1) * 10))
	if impact > 25 {
		return 25
	}
	if impact < -10 {
		return -10
	}
	return impact
}

func confidenceFor(fired int) Confidence {
	switch {
	case fired >= 4:
		return VeryHigh
	case fired == 3:
		return High
	case fired == 2:
		return Medium
	default:
		return Low
	}
}

func gauge(x float64) int {
	if x < 0 {
		return 0
	}
	if x > 100 {
		return 100
	}
	return int(math.Round(x))
}
