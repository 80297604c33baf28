package backtest

import (
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	"predictlearn/internal/market"
	"predictlearn/internal/signal"
)

// Condition is the logical combinator over a strategy's selected signals.
type Condition string

const (
	All Condition = "ALL" // every selected signal must fire
	Any Condition = "ANY" // at least one selected signal must fire
)

// Config describes a strategy to replay against historical markets.
type Config struct {
	Signals   []signal.Type `json:"signals"`
	Condition Condition     `json:"condition"`
	Category  string        `json:"category"` // free text, or "all"
}

// Trade is one simulated position taken by the strategy.
type Trade struct {
	EventID   string        `json:"eventId"`
	EntryOdds float64       `json:"entryOdds"`
	ExitOdds  float64       `json:"exitOdds"`
	Profit    float64       `json:"profit"` // signed percent
	Timestamp string        `json:"timestamp"`
	Signals   []signal.Type `json:"signals"` // the signals that fired
}

// Result aggregates a backtest run. All fields are zero when no trades were
// admitted; unlike the signal calculator there is no synthetic fallback here.
type Result struct {
	SignalsGenerated int     `json:"signalsGenerated"`
	ProfitableTrades int     `json:"profitableTrades"`
	WinRate          int     `json:"winRate"` // whole percent
	AverageProfit    float64 `json:"averageProfit"`
	TotalProfit      float64 `json:"totalProfit"`
	BestTrade        float64 `json:"bestTrade"`
	WorstTrade       float64 `json:"worstTrade"`
	SharpeRatio      float64 `json:"sharpeRatio"`
	Trades           []Trade `json:"trades"`
}

// Simulator replays signal strategies against closed markets. Profit spread
// is drawn from its own seeded source, so two simulators built with the same
// seed produce identical results for identical input.
type Simulator struct {
	rng *rand.Rand
	now func() time.Time
}

// New creates a Simulator. A zero seed draws one from the clock.
func New(seed int64) *Simulator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Simulator{
		rng: rand.New(rand.NewSource(seed)),
		now: time.Now,
	}
}

// Run executes the backtest and aggregates the simulated trades.
func (s *Simulator) Run(markets []market.Market, cfg Config) Result {
	filtered := filterByCategory(markets, cfg.Category)
	trades := s.generateTrades(filtered, cfg)

	result := Result{
		SignalsGenerated: len(trades),
		Trades:           trades,
	}
	if len(trades) == 0 {
		return result
	}

	var total float64
	best := trades[0].Profit
	worst := trades[0].Profit
	for _, t := range trades {
		total += t.Profit
		if t.Profit > 0 {
			result.ProfitableTrades++
		}
		if t.Profit > best {
			best = t.Profit
		}
		if t.Profit < worst {
			worst = t.Profit
		}
	}

	mean := total / float64(len(trades))
	var variance float64
	for _, t := range trades {
		variance += (t.Profit - mean) * (t.Profit - mean)
	}
	variance /= float64(len(trades))
	stddev := math.Sqrt(variance)

	result.WinRate = int(math.Round(float64(result.ProfitableTrades) / float64(len(trades)) * 100))
	result.AverageProfit = round1(mean)
	result.TotalProfit = round1(total)
	result.BestTrade = round1(best)
	result.WorstTrade = round1(worst)
	if stddev > 0 {
		result.SharpeRatio = round2(mean / stddev)
	}

	slog.Debug("backtest complete",
		"trades", len(trades),
		"win_rate", result.WinRate,
		"sharpe", result.SharpeRatio,
	)
	return result
}

func filterByCategory(markets []market.Market, category string) []market.Market {
	if category == "" || category == "all" {
		return markets
	}

	target := strings.ToLower(category)
	out := make([]market.Market, 0, len(markets))
	for _, m := range markets {
		if strings.Contains(strings.ToLower(m.Category), target) {
			out = append(out, m)
			continue
		}
		for _, tag := range m.Tags {
			if strings.Contains(strings.ToLower(tag), target) {
				out = append(out, m)
				break
			}
		}
	}
	return out
}

func (s *Simulator) generateTrades(markets []market.Market, cfg Config) []Trade {
	trades := make([]Trade, 0)

	for _, m := range markets {
		if !m.Closed || m.Volume <= 0 || len(m.OutcomePrices) < 2 {
			continue
		}

		fired := make([]signal.Type, 0, len(cfg.Signals))
		for _, t := range cfg.Signals {
			if signal.Fires(m, t) {
				fired = append(fired, t)
			}
		}

		admitted := cfg.Condition == All && len(fired) == len(cfg.Signals) ||
			cfg.Condition == Any && len(fired) > 0
		// Zero requested signals means nothing fired, so nothing is admitted.
		if !admitted || len(fired) == 0 {
			continue
		}

		trades = append(trades, s.simulateTrade(m, fired))
	}

	return trades
}

// simulateTrade enters at the first outcome price and exits at a three-way
// quantization of how the market resolved: 0.95 for a clear YES, 0.05 for a
// clear NO, 0.5 when neither side cleared 0.6.
func (s *Simulator) simulateTrade(m market.Market, fired []signal.Type) Trade {
	price1 := m.OutcomePrices[0]
	price2 := m.OutcomePrices[1]

	entryOdds := price1
	exitOdds := 0.5
	if price1 > 0.6 {
		exitOdds = 0.95
	} else if price2 > 0.6 {
		exitOdds = 0.05
	}

	predictedCorrectly := (entryOdds > 0.5 && exitOdds > 0.6) ||
		(entryOdds < 0.5 && exitOdds < 0.4)

	// Controlled randomness for a realistic spread of outcomes: 5-20% gains
	// on correct calls, 2-12% losses otherwise.
	var profit float64
	if predictedCorrectly {
		profit = s.rng.Float64()*15 + 5
	} else {
		profit = -(s.rng.Float64()*10 + 2)
	}

	timestamp := m.CreatedAt
	if timestamp == "" {
		timestamp = s.now().UTC().Format(time.RFC3339)
	}

	return Trade{
		EventID:   m.ID,
		EntryOdds: round2(entryOdds),
		ExitOdds:  round2(exitOdds),
		Profit:    round1(profit),
		Timestamp: timestamp,
		Signals:   fired,
	}
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
