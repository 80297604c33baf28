package signal

import (
	"log/slog"
	"math"

	"predictlearn/internal/market"
)

// Performance is the computed track record for one signal type.
type Performance struct {
	SignalType         Type               `json:"signalType"`
	WinRate            float64            `json:"winRate"` // 0-100, one decimal
	TotalEvents        int                `json:"totalEvents"`
	CorrectPredictions int                `json:"correctPredictions"`
	AverageLeadTime    float64            `json:"averageLeadTime"` // hours
	CorrelationScore   float64            `json:"correlationScore"`
	CategoryBreakdown  []CategoryAccuracy `json:"categoryBreakdown"`
}

// CategoryAccuracy is one row of a per-category breakdown.
type CategoryAccuracy struct {
	Category string `json:"category"`
	Accuracy int    `json:"accuracy"` // 0-100
}

// ComputePerformance derives a track record for each of the four signals from
// historical markets. Only closed markets with traded volume count; with none
// at hand the fixed default table is returned so consumers never see an empty
// state. Results are in Types order: twitter, whales, news, volume.
func ComputePerformance(markets []market.Market) []Performance {
	closed := make([]market.Market, 0, len(markets))
	for _, m := range markets {
		if m.Closed && m.Volume > 0 {
			closed = append(closed, m)
		}
	}

	if len(closed) == 0 {
		return DefaultPerformance()
	}

	out := make([]Performance, 0, len(Types))
	for _, t := range Types {
		out = append(out, computeOne(t, closed))
	}
	return out
}

func computeOne(t Type, closed []market.Market) Performance {
	fired := make([]market.Market, 0, len(closed))
	for _, m := range closed {
		if Fires(m, t) {
			fired = append(fired, m)
		}
	}

	correct := 0
	for _, m := range fired {
		if HasStrongOutcome(m) {
			correct++
		}
	}

	winRate := fallbackWinRate[t]
	if len(fired) > 0 {
		winRate = round1(float64(correct) / float64(len(fired)) * 100)
	}

	total := len(fired)
	if total == 0 {
		total = fallbackTotalEvents[t]
	}

	return Performance{
		SignalType:         t,
		WinRate:            winRate,
		TotalEvents:        total,
		CorrectPredictions: correct,
		AverageLeadTime:    averageLeadTime[t],
		CorrelationScore:   correlationScore[t],
		CategoryBreakdown:  categoryBreakdown(t, fired),
	}
}

func categoryBreakdown(t Type, fired []market.Market) []CategoryAccuracy {
	breakdown := make([]CategoryAccuracy, 0, len(Categories))
	for _, category := range Categories {
		inCategory := 0
		correct := 0
		for _, m := range fired {
			if !MatchesCategory(m, category) {
				continue
			}
			inCategory++
			if HasStrongOutcome(m) {
				correct++
			}
		}

		accuracy := defaultAccuracy(t, category)
		if inCategory > 0 {
			accuracy = int(math.Round(float64(correct) / float64(inCategory) * 100))
		}
		breakdown = append(breakdown, CategoryAccuracy{Category: category, Accuracy: accuracy})
	}
	return breakdown
}

// Best returns the signal with the highest win rate, first occurrence winning
// ties. The caller must not pass an empty slice.
func Best(signals []Performance) Performance {
	best := signals[0]
	for _, s := range signals[1:] {
		if s.WinRate > best.WinRate {
			best = s
		}
	}
	return best
}

// LogReport logs each signal's track record plus the current best.
func LogReport(signals []Performance) {
	for _, s := range signals {
		slog.Info("signal performance",
			"signal", s.SignalType,
			"win_rate", s.WinRate,
			"total_events", s.TotalEvents,
			"correct", s.CorrectPredictions,
			"lead_time_hours", s.AverageLeadTime,
			"correlation", s.CorrelationScore,
		)
	}
	if len(signals) > 0 {
		best := Best(signals)
		slog.Info("best signal", "signal", best.SignalType, "win_rate", best.WinRate)
	}
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
