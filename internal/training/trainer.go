package training

import (
	"errors"
	"fmt"
	"math"

	"predictlearn/internal/config"
	"predictlearn/internal/market"
	"predictlearn/internal/progress"
	"predictlearn/internal/signal"
)

// Challenge asks the user to estimate a market's odds from signal readings
// alone, before the real odds are revealed.
type Challenge struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	MarketID    string              `json:"marketId"`
	Question    string              `json:"question"`
	Category    string              `json:"category"`
	ResolveDate string              `json:"resolveDate"`
	Signals     map[signal.Type]int `json:"signals"` // 0-100 readings
	XPReward    int                 `json:"xpReward"`
}

// Outcome is the grade for a submitted guess.
type Outcome struct {
	ActualOdds int               `json:"actualOdds"` // 0-100
	Delta      int               `json:"delta"`
	CalledWell bool              `json:"calledWell"`
	XPEarned   int               `json:"xpEarned"`
	Progress   progress.Progress `json:"progress"`
}

var ErrNoChallenge = errors.New("no market eligible for a challenge")

// A guess within this many points of the market is a good call.
const goodCallMargin = 15

// Trainer builds challenges from live markets and grades guesses against
// current market odds, crediting XP through the progress store.
type Trainer struct {
	cache *market.Cache
	store progress.Store
	cfg   config.TrainingConfig
}

func NewTrainer(cache *market.Cache, store progress.Store, cfg config.TrainingConfig) *Trainer {
	return &Trainer{cache: cache, store: store, cfg: cfg}
}

// NextChallenge picks the most liquid eligible active market and presents it
// with derived signal readings but without its odds.
func (t *Trainer) NextChallenge() (Challenge, error) {
	var pick *market.Market
	for _, m := range t.cache.All() {
		if m.Closed || !m.Active {
			continue
		}
		if m.Volume < t.cfg.MinVolume || m.Liquidity < t.cfg.MinLiquidity {
			continue
		}
		if len(m.OutcomePrices) < 2 {
			continue
		}
		if pick == nil || m.Volume > pick.Volume {
			copied := m
			pick = &copied
		}
	}
	if pick == nil {
		return Challenge{}, ErrNoChallenge
	}

	return Challenge{
		ID:          "challenge-" + pick.ID,
		Title:       "Daily Challenge: " + pick.Question,
		Description: "Predict the outcome using available signals",
		MarketID:    pick.ID,
		Question:    pick.Question,
		Category:    pick.Category,
		ResolveDate: pick.EndDate,
		Signals:     signalReadings(*pick),
		XPReward:    t.cfg.BaseXPReward,
	}, nil
}

// Answer grades a 0-100 probability guess against current market odds and
// updates the user's progress.
func (t *Trainer) Answer(userID, marketID string, guess int) (Outcome, error) {
	m, ok := t.cache.Get(marketID)
	if !ok || len(m.OutcomePrices) == 0 {
		return Outcome{}, fmt.Errorf("market %s not available: %w", marketID, ErrNoChallenge)
	}

	actual := int(math.Round(m.OutcomePrices[0] * 100))
	delta := guess - actual
	if delta < 0 {
		delta = -delta
	}
	calledWell := delta <= goodCallMargin

	closeness := 100 - delta
	if closeness < 0 {
		closeness = 0
	}
	xp := t.cfg.BaseXPReward * closeness / 100
	if xp < 10 {
		xp = 10
	}

	p, err := t.store.Load(userID)
	if err != nil {
		return Outcome{}, err
	}
	p.AddXP(xp)
	p.RecordChallenge(calledWell)
	if calledWell {
		p.IncrementStreak()
	} else {
		p.ResetStreak()
	}
	if err := t.store.Save(p); err != nil {
		return Outcome{}, err
	}

	return Outcome{
		ActualOdds: actual,
		Delta:      delta,
		CalledWell: calledWell,
		XPEarned:   xp,
		Progress:   p,
	}, nil
}

// signalReadings scales raw market figures into 0-100 gauges for display.
func signalReadings(m market.Market) map[signal.Type]int {
	readings := map[signal.Type]int{
		signal.Volume: clamp(m.Volume / 200),
		signal.Whales: clamp(m.Liquidity / 100),
		signal.News:   clamp(m.Volume/200 + m.Liquidity/120),
	}

	// Contested prices read high; settled prices read low.
	if len(m.OutcomePrices) >= 2 {
		readings[signal.Twitter] = clamp(100 - math.Abs(m.OutcomePrices[0]-0.5)*200)
	} else {
		readings[signal.Twitter] = 0
	}
	return readings
}

func clamp(x float64) int {
	if x < 0 {
		return 0
	}
	if x > 100 {
		return 100
	}
	return int(math.Round(x))
}
