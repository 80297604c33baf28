package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"predictlearn/internal/backtest"
	"predictlearn/internal/explain"
	"predictlearn/internal/progress"
	"predictlearn/internal/signal"
	"predictlearn/internal/training"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Proxy routes forward the recognised query parameters upstream and relay the
// raw body, so browser clients avoid CORS against the Gamma API directly.

func (s *Server) handleProxyMarkets(w http.ResponseWriter, r *http.Request) {
	s.proxy(w, r, "/markets")
}

func (s *Server) handleProxyEvents(w http.ResponseWriter, r *http.Request) {
	s.proxy(w, r, "/events")
}

func (s *Server) proxy(w http.ResponseWriter, r *http.Request, path string) {
	params := url.Values{}
	params.Set("limit", "10")
	params.Set("offset", "0")
	for _, key := range []string{"limit", "offset", "active", "closed", "tag"} {
		if v := r.URL.Query().Get(key); v != "" {
			params.Set(key, v)
		}
	}

	body, status, err := s.gamma.Raw(r.Context(), path, params)
	if err != nil {
		slog.Error("proxy request failed", "path", path, "error", err)
		writeError(w, http.StatusBadGateway, "failed to fetch from Polymarket")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control",
		fmt.Sprintf("public, s-maxage=%d, stale-while-revalidate=%d",
			int(s.cfg.ProxyMaxAge.Seconds()), int(s.cfg.ProxyMaxAge.Seconds())*2))
	w.WriteHeader(status)
	w.Write(body)
}

func (s *Server) handleSignals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, signal.ComputePerformance(s.markets(r.Context())))
}

func (s *Server) handleBestSignal(w http.ResponseWriter, r *http.Request) {
	signals := signal.ComputePerformance(s.markets(r.Context()))
	// ComputePerformance always yields four records, so Best is safe here.
	writeJSON(w, http.StatusOK, signal.Best(signals))
}

func (s *Server) handleExplanations(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, signal.Explanations)
}

type backtestRequest struct {
	Signals   []signal.Type      `json:"signals"`
	Condition backtest.Condition `json:"condition"`
	Category  string             `json:"category"`
	Seed      int64              `json:"seed"`
}

func (s *Server) handleBacktest(w http.ResponseWriter, r *http.Request) {
	var req backtestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.Signals) == 0 {
		writeError(w, http.StatusBadRequest, "at least one signal is required")
		return
	}
	for _, t := range req.Signals {
		if !signal.Valid(t) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown signal %q", t))
			return
		}
	}
	if req.Condition != backtest.All && req.Condition != backtest.Any {
		writeError(w, http.StatusBadRequest, "condition must be ALL or ANY")
		return
	}
	if req.Category == "" {
		req.Category = "all"
	}

	result := s.newSimulator(req.Seed).Run(s.markets(r.Context()), backtest.Config{
		Signals:   req.Signals,
		Condition: req.Condition,
		Category:  req.Category,
	})
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handlePrediction(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	m, ok := s.cache.Get(id)
	if !ok {
		fetched, err := s.scanner.GetMarket(r.Context(), id)
		if err != nil || fetched == nil {
			writeError(w, http.StatusNotFound, "market not found")
			return
		}
		m = *fetched
		s.cache.Set(m)
	}

	writeJSON(w, http.StatusOK, explain.BuildPrediction(m))
}

func (s *Server) handleInsights(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"analysts": s.feed.Analysts(),
		"insights": s.feed.Insights(),
	})
}

type postInsightRequest struct {
	AnalystID string   `json:"analystId"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
}

func (s *Server) handlePostInsight(w http.ResponseWriter, r *http.Request) {
	var req postInsightRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}
	if req.AnalystID == "" {
		req.AnalystID = "guest"
	}

	ins, err := s.feed.Post(req.AnalystID, req.Content, req.Tags)
	if err != nil {
		slog.Warn("insight persisted in memory only", "error", err)
	}
	writeJSON(w, http.StatusCreated, ins)
}

func (s *Server) handleNextChallenge(w http.ResponseWriter, _ *http.Request) {
	challenge, err := s.trainer.NextChallenge()
	if err != nil {
		writeError(w, http.StatusNotFound, "no eligible market for a challenge right now")
		return
	}
	writeJSON(w, http.StatusOK, challenge)
}

type answerRequest struct {
	UserID   string `json:"userId"`
	MarketID string `json:"marketId"`
	Guess    int    `json:"guess"` // 0-100
}

func (s *Server) handleAnswerChallenge(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" {
		req.UserID = "guest"
	}
	if req.Guess < 0 || req.Guess > 100 {
		writeError(w, http.StatusBadRequest, "guess must be between 0 and 100")
		return
	}

	outcome, err := s.trainer.Answer(req.UserID, req.MarketID, req.Guess)
	if err != nil {
		if errors.Is(err, training.ErrNoChallenge) {
			writeError(w, http.StatusNotFound, "market not found")
			return
		}
		slog.Error("failed to grade challenge", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to grade challenge")
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	user := mux.Vars(r)["user"]
	p, err := s.store.Load(user)
	if err != nil {
		slog.Error("failed to load progress", "user", user, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load progress")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handlePutProgress(w http.ResponseWriter, r *http.Request) {
	user := mux.Vars(r)["user"]

	var p progress.Progress
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p.UserID = user

	if err := s.store.Save(p); err != nil {
		slog.Error("failed to save progress", "user", user, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save progress")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleResetProgress(w http.ResponseWriter, r *http.Request) {
	user := mux.Vars(r)["user"]
	if err := s.store.Reset(user); err != nil {
		slog.Error("failed to reset progress", "user", user, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to reset progress")
		return
	}
	writeJSON(w, http.StatusOK, progress.Default(user))
}
