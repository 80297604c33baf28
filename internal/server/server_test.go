package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"predictlearn/internal/backtest"
	"predictlearn/internal/community"
	"predictlearn/internal/config"
	"predictlearn/internal/explain"
	"predictlearn/internal/gamma"
	"predictlearn/internal/market"
	"predictlearn/internal/progress"
	"predictlearn/internal/signal"
	"predictlearn/internal/training"
)

// newTestServer wires a server against a stub upstream, with the given
// markets pre-warmed into the cache so compute routes never hit the network.
func newTestServer(t *testing.T, upstream http.Handler, markets ...market.Market) *Server {
	t.Helper()

	if upstream == nil {
		upstream = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.NotFound(w, nil)
		})
	}
	ts := httptest.NewServer(upstream)
	t.Cleanup(ts.Close)

	gammaClient := gamma.NewClient(config.GammaConfig{
		BaseURL:        ts.URL,
		RequestTimeout: config.Duration{Duration: 5 * time.Second},
		MaxRetries:     0,
		UserAgent:      "predictlearn-test",
	})

	cache := market.NewCache(time.Minute)
	cache.SetAll(markets)

	store := progress.NewMemoryStore()
	trainer := training.NewTrainer(cache, store, config.TrainingConfig{
		MinVolume:    1000,
		MinLiquidity: 500,
		BaseXPReward: 100,
	})

	return New(
		config.ServerConfig{
			ListenAddr:  ":0",
			ProxyMaxAge: config.Duration{Duration: 30 * time.Second},
		},
		gammaClient,
		market.NewScanner(gammaClient),
		cache,
		community.NewFeed(nil),
		trainer,
		store,
		42,
	)
}

func doRequest(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func closedMarket(id string, volume, liquidity, p1, p2 float64) market.Market {
	return market.Market{
		ID:            id,
		Question:      "Will it happen?",
		Category:      "Politics",
		Closed:        true,
		Volume:        volume,
		Liquidity:     liquidity,
		OutcomePrices: []float64{p1, p2},
		CreatedAt:     "2026-01-10T10:00:00Z",
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "ok", body["status"])
}

func TestSignals_FromCache(t *testing.T) {
	s := newTestServer(t, nil,
		closedMarket("m1", 20000, 8000, 0.65, 0.35),
		closedMarket("m2", 500, 100, 0.5, 0.5),
	)

	rec := doRequest(t, s, http.MethodGet, "/api/signals", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	signals := decodeBody[[]signal.Performance](t, rec)
	require.Len(t, signals, 4)
	assert.Equal(t, signal.Twitter, signals[0].SignalType)
	assert.Equal(t, signal.Volume, signals[3].SignalType)
}

func TestSignals_ColdCacheFallsBackToDefaults(t *testing.T) {
	// Upstream 404s, so the cold-cache scan fails and the default table serves.
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodGet, "/api/signals", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	signals := decodeBody[[]signal.Performance](t, rec)
	require.Len(t, signals, 4)
	assert.Equal(t, 64.0, signals[0].WinRate)
}

func TestBestSignal(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodGet, "/api/signals/best", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	best := decodeBody[signal.Performance](t, rec)
	// On the default table whales leads with 71.
	assert.Equal(t, signal.Whales, best.SignalType)
	assert.Equal(t, 71.0, best.WinRate)
}

func TestExplanations(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodGet, "/api/signals/explanations", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	explanations := decodeBody[map[signal.Type]signal.Explanation](t, rec)
	assert.Len(t, explanations, 4)
	assert.NotEmpty(t, explanations[signal.Whales].Title)
}

func TestBacktest(t *testing.T) {
	s := newTestServer(t, nil,
		closedMarket("m1", 15000, 6000, 0.65, 0.35),
	)

	rec := doRequest(t, s, http.MethodPost, "/api/backtest", map[string]any{
		"signals":   []string{"volume", "whales"},
		"condition": "ALL",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeBody[backtest.Result](t, rec)
	assert.Equal(t, 1, result.SignalsGenerated)
	assert.Equal(t, 100, result.WinRate)
}

func TestBacktest_Validation(t *testing.T) {
	s := newTestServer(t, nil)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"no signals", map[string]any{"condition": "ALL"}},
		{"unknown signal", map[string]any{"signals": []string{"astrology"}, "condition": "ALL"}},
		{"bad condition", map[string]any{"signals": []string{"volume"}, "condition": "SOME"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, s, http.MethodPost, "/api/backtest", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestBacktest_InvalidJSON(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/backtest", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPrediction_FromCache(t *testing.T) {
	m := closedMarket("m1", 20000, 8000, 0.6, 0.4)
	s := newTestServer(t, nil, m)

	rec := doRequest(t, s, http.MethodGet, "/api/prediction/m1", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	p := decodeBody[explain.Prediction](t, rec)
	assert.Equal(t, "m1", p.EventID)
	assert.Equal(t, 60, p.Probability)
	assert.Len(t, p.SignalBreakdown, 4)
}

func TestPrediction_NotFound(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodGet, "/api/prediction/missing", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInsights(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodGet, "/api/insights", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[struct {
		Analysts []community.Analyst `json:"analysts"`
		Insights []community.Insight `json:"insights"`
	}](t, rec)
	assert.Len(t, body.Analysts, 2)
	assert.GreaterOrEqual(t, len(body.Insights), 2)
}

func TestPostInsight(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodPost, "/api/insights", map[string]any{
		"analystId": "analyst-1",
		"content":   "Liquidity dried up on the election markets this morning.",
		"tags":      []string{"politics"},
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	ins := decodeBody[community.Insight](t, rec)
	assert.NotEmpty(t, ins.ID)
	assert.Equal(t, "analyst-1", ins.AnalystID)

	// The new post shows up on the feed.
	rec = doRequest(t, s, http.MethodGet, "/api/insights", nil)
	body := decodeBody[struct {
		Insights []community.Insight `json:"insights"`
	}](t, rec)
	found := false
	for _, i := range body.Insights {
		if i.ID == ins.ID {
			found = true
		}
	}
	assert.True(t, found)
}

func TestPostInsight_RequiresContent(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodPost, "/api/insights", map[string]any{
		"analystId": "analyst-1",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChallengeFlow(t *testing.T) {
	eligible := market.Market{
		ID:            "m1",
		Question:      "Will it happen?",
		Active:        true,
		Volume:        50000,
		Liquidity:     8000,
		OutcomePrices: []float64{0.65, 0.35},
	}
	s := newTestServer(t, nil, eligible)

	rec := doRequest(t, s, http.MethodGet, "/api/challenges/next", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	challenge := decodeBody[training.Challenge](t, rec)
	assert.Equal(t, "m1", challenge.MarketID)

	rec = doRequest(t, s, http.MethodPost, "/api/challenges/answer", map[string]any{
		"userId":   "u1",
		"marketId": "m1",
		"guess":    70,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	outcome := decodeBody[training.Outcome](t, rec)
	assert.Equal(t, 65, outcome.ActualOdds)
	assert.True(t, outcome.CalledWell)
	assert.Equal(t, 95, outcome.XPEarned)
}

func TestNextChallenge_NoEligibleMarket(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodGet, "/api/challenges/next", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnswerChallenge_Validation(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodPost, "/api/challenges/answer", map[string]any{
		"marketId": "m1",
		"guess":    150,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, s, http.MethodPost, "/api/challenges/answer", map[string]any{
		"marketId": "missing",
		"guess":    50,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProgressLifecycle(t *testing.T) {
	s := newTestServer(t, nil)

	// A fresh user gets the default state.
	rec := doRequest(t, s, http.MethodGet, "/api/progress/u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	p := decodeBody[progress.Progress](t, rec)
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, 1000, p.XPToNextLevel)

	// Saved state comes back on the next read.
	p.XP = 400
	p.Streak = 3
	rec = doRequest(t, s, http.MethodPut, "/api/progress/u1", p)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, s, http.MethodGet, "/api/progress/u1", nil)
	p = decodeBody[progress.Progress](t, rec)
	assert.Equal(t, 400, p.XP)
	assert.Equal(t, 3, p.Streak)

	// Reset returns to the default state.
	rec = doRequest(t, s, http.MethodDelete, "/api/progress/u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, s, http.MethodGet, "/api/progress/u1", nil)
	p = decodeBody[progress.Progress](t, rec)
	assert.Zero(t, p.XP)
	assert.Zero(t, p.Streak)
}

func TestProxyMarkets(t *testing.T) {
	var gotQuery string
	upstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"m1"}]`))
	})
	s := newTestServer(t, upstream)

	rec := doRequest(t, s, http.MethodGet, "/api/polymarket/markets?closed=true&limit=50", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":"m1"}]`, rec.Body.String())
	assert.Equal(t, "public, s-maxage=30, stale-while-revalidate=60", rec.Header().Get("Cache-Control"))

	// Requested parameters pass through; the limit default is overridden.
	assert.Contains(t, gotQuery, "closed=true")
	assert.Contains(t, gotQuery, "limit=50")
	assert.Contains(t, gotQuery, "offset=0")
}

func TestProxyEvents_UpstreamFailure(t *testing.T) {
	// The server is built against a live stub, then the stub goes away.
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[]`))
	}))
	gammaClient := gamma.NewClient(config.GammaConfig{
		BaseURL:        upstream.URL,
		RequestTimeout: config.Duration{Duration: time.Second},
		MaxRetries:     0,
	})
	upstream.Close()

	cache := market.NewCache(time.Minute)
	store := progress.NewMemoryStore()
	s := New(
		config.ServerConfig{ProxyMaxAge: config.Duration{Duration: 30 * time.Second}},
		gammaClient,
		market.NewScanner(gammaClient),
		cache,
		community.NewFeed(nil),
		training.NewTrainer(cache, store, config.TrainingConfig{MinVolume: 1000, MinLiquidity: 500, BaseXPReward: 100}),
		store,
		0,
	)

	rec := doRequest(t, s, http.MethodGet, "/api/polymarket/events", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
