package explain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"predictlearn/internal/market"
	"predictlearn/internal/signal"
)

func TestBuildPrediction_AllSignalsFiring(t *testing.T) {
	m := market.Market{
		ID:            "m1",
		Volume:        20000,
		Liquidity:     8000,
		OutcomePrices: []float64{0.6, 0.4},
	}

	p := BuildPrediction(m)

	assert.Equal(t, "m1", p.EventID)
	assert.Equal(t, 60, p.Probability)
	assert.Equal(t, VeryHigh, p.Confidence)
	assert.NotEmpty(t, p.Timestamp)

	require.Len(t, p.SignalBreakdown, 4)
	byType := map[signal.Type]Contribution{}
	for _, c := range p.SignalBreakdown {
		byType[c.SignalType] = c
	}

	// Volume is 2x its threshold: (2-1)*10 = +10 impact.
	assert.Equal(t, 10, byType[signal.Volume].Impact)
	// Liquidity is 1.6x its threshold: round((1.6-1)*10) = +6.
	assert.Equal(t, 6, byType[signal.Whales].Impact)
	// News takes the stronger of the two ratios, here volume at 4x, capped gauge.
	assert.Equal(t, 25, byType[signal.News].Impact)
	assert.Equal(t, 100, byType[signal.News].Value)

	for _, c := range p.SignalBreakdown {
		assert.GreaterOrEqual(t, c.Value, 0)
		assert.LessOrEqual(t, c.Value, 100)
		assert.NotEmpty(t, c.Description)
	}
}

func TestBuildPrediction_QuietMarket(t *testing.T) {
	m := market.Market{
		ID:            "m2",
		Volume:        100,
		Liquidity:     50,
		OutcomePrices: []float64{0.9, 0.1},
	}

	p := BuildPrediction(m)

	assert.Equal(t, 90, p.Probability)
	assert.Equal(t, Low, p.Confidence)

	byType := map[signal.Type]Contribution{}
	for _, c := range p.SignalBreakdown {
		byType[c.SignalType] = c
	}

	// Far below every threshold, impacts bottom out at the -10 floor.
	assert.Equal(t, -10, byType[signal.Volume].Impact)
	assert.Equal(t, -10, byType[signal.Whales].Impact)

	// A settled price reads as quiet sentiment: contested = 0.2, negative impact.
	assert.Equal(t, -9, byType[signal.Twitter].Impact)
	assert.Equal(t, 20, byType[signal.Twitter].Value)
}

func TestBuildPrediction_ContestedSentiment(t *testing.T) {
	m := market.Market{
		ID:            "m3",
		OutcomePrices: []float64{0.5, 0.5},
	}

	p := BuildPrediction(m)

	var twitter Contribution
	for _, c := range p.SignalBreakdown {
		if c.SignalType == signal.Twitter {
			twitter = c
		}
	}

	// Perfectly contested: maximum sentiment reading and a +15 impact.
	assert.Equal(t, 15, twitter.Impact)
	assert.Equal(t, 100, twitter.Value)
}

func TestBuildPrediction_NoPrices(t *testing.T) {
	p := BuildPrediction(market.Market{ID: "m4"})

	assert.Zero(t, p.Probability)
	assert.Equal(t, Low, p.Confidence)

	var twitter Contribution
	for _, c := range p.SignalBreakdown {
		if c.SignalType == signal.Twitter {
			twitter = c
		}
	}
	assert.Zero(t, twitter.Impact)
	assert.Zero(t, twitter.Value)
	assert.NotEmpty(t, twitter.Description)
}

func TestConfidenceBuckets(t *testing.T) {
	assert.Equal(t, Low, confidenceFor(0))
	assert.Equal(t, Low, confidenceFor(1))
	assert.Equal(t, Medium, confidenceFor(2))
	assert.Equal(t, High, confidenceFor(3))
	assert.Equal(t, VeryHigh, confidenceFor(4))
}
