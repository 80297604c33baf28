package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"predictlearn/internal/backtest"
	"predictlearn/internal/community"
	"predictlearn/internal/config"
	"predictlearn/internal/gamma"
	"predictlearn/internal/market"
	"predictlearn/internal/progress"
	"predictlearn/internal/training"
)

// Server exposes the dashboard API: thin proxy routes for raw Polymarket
// data plus computed endpoints for signals, backtests, predictions,
// community content, challenges, and user progress.
type Server struct {
	cfg     config.ServerConfig
	gamma   *gamma.Client
	scanner *market.Scanner
	cache   *market.Cache
	feed    *community.Feed
	trainer *training.Trainer
	store   progress.Store
	seed    int64

	http *http.Server
}

func New(
	cfg config.ServerConfig,
	gammaClient *gamma.Client,
	scanner *market.Scanner,
	cache *market.Cache,
	feed *community.Feed,
	trainer *training.Trainer,
	store progress.Store,
	backtestSeed int64,
) *Server {
	s := &Server{
		cfg:     cfg,
		gamma:   gammaClient,
		scanner: scanner,
		cache:   cache,
		feed:    feed,
		trainer: trainer,
		store:   store,
		seed:    backtestSeed,
	}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/polymarket/markets", s.handleProxyMarkets).Methods(http.MethodGet)
	api.HandleFunc("/polymarket/events", s.handleProxyEvents).Methods(http.MethodGet)
	api.HandleFunc("/signals", s.handleSignals).Methods(http.MethodGet)
	api.HandleFunc("/signals/best", s.handleBestSignal).Methods(http.MethodGet)
	api.HandleFunc("/signals/explanations", s.handleExplanations).Methods(http.MethodGet)
	api.HandleFunc("/backtest", s.handleBacktest).Methods(http.MethodPost)
	api.HandleFunc("/prediction/{id}", s.handlePrediction).Methods(http.MethodGet)
	api.HandleFunc("/insights", s.handleInsights).Methods(http.MethodGet)
	api.HandleFunc("/insights", s.handlePostInsight).Methods(http.MethodPost)
	api.HandleFunc("/challenges/next", s.handleNextChallenge).Methods(http.MethodGet)
	api.HandleFunc("/challenges/answer", s.handleAnswerChallenge).Methods(http.MethodPost)
	api.HandleFunc("/progress/{user}", s.handleGetProgress).Methods(http.MethodGet)
	api.HandleFunc("/progress/{user}", s.handlePutProgress).Methods(http.MethodPut)
	api.HandleFunc("/progress/{user}", s.handleResetProgress).Methods(http.MethodDelete)

	s.http = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout.Duration,
		WriteTimeout: cfg.WriteTimeout.Duration,
	}
	return s
}

// Handler returns the routed handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// ListenAndServe blocks serving HTTP until Shutdown.
func (s *Server) ListenAndServe() error {
	slog.Info("http server listening", "addr", s.cfg.ListenAddr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// markets returns the cached market set, falling back to a live scan when the
// cache is cold.
func (s *Server) markets(ctx context.Context) []market.Market {
	cached := s.cache.All()
	if len(cached) > 0 {
		return cached
	}

	scanned, err := s.scanner.ScanClosed(ctx, 200)
	if err != nil {
		slog.Warn("cold-cache scan failed", "error", err)
		return nil
	}
	s.cache.SetAll(scanned)
	return scanned
}

func (s *Server) newSimulator(seed int64) *backtest.Simulator {
	if seed == 0 {
		seed = s.seed
	}
	return backtest.New(seed)
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
