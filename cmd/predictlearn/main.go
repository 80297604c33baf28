package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"predictlearn/internal/backtest"
	"predictlearn/internal/collector"
	"predictlearn/internal/community"
	"predictlearn/internal/config"
	"predictlearn/internal/db"
	"predictlearn/internal/gamma"
	"predictlearn/internal/market"
	"predictlearn/internal/progress"
	"predictlearn/internal/scheduler"
	"predictlearn/internal/server"
	sig "predictlearn/internal/signal"
	"predictlearn/internal/training"
)

func main() {
	// Parse CLI flags.
	backtestMode := flag.Bool("backtest", false, "Run a one-shot backtest against stored snapshots")
	backtestSignals := flag.String("signals", "volume", "Comma-separated signals for backtest mode")
	backtestCondition := flag.String("condition", "ANY", "Signal combinator for backtest mode (ALL or ANY)")
	backtestCategory := flag.String("category", "all", "Category filter for backtest mode")
	backtestSeed := flag.Int64("seed", 0, "Random seed for backtest profit simulation (0 = from clock)")
	flag.Parse()

	// Optional .env for local development.
	_ = godotenv.Load()

	// Set up structured logging.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	slog.Info("predictlearn starting")

	// Load configuration.
	configPath := "config.toml"
	if p := os.Getenv("PREDICTLEARN_CONFIG"); p != "" {
		configPath = p
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if level := parseLogLevel(cfg.General.LogLevel); level != slog.LevelInfo {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})))
	}

	// Initialize database.
	database, err := db.Open(cfg.General.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database initialized", "path", cfg.General.DBPath)

	// Backtest mode: replay stored snapshots, no server, no API calls.
	if *backtestMode {
		runOfflineBacktest(database, *backtestSignals, *backtestCondition, *backtestCategory, *backtestSeed)
		return
	}

	// Live mode.
	gammaClient := gamma.NewClient(cfg.Gamma)
	scanner := market.NewScanner(gammaClient)
	cache := market.NewCache(cfg.Schedule.CacheTTL.Duration)
	coll := collector.NewCollector(scanner, database, cfg.Schedule.MarketsPerScan)
	store := progress.NewSQLiteStore(database)
	feed := community.NewFeed(database)
	trainer := training.NewTrainer(cache, store, cfg.Training)

	srv := server.New(cfg.Server, gammaClient, scanner, cache, feed, trainer, store, cfg.Backtest.Seed)
	sched := scheduler.New(scanner, cache, coll, cfg.Schedule)

	// Graceful shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigCh
		slog.Info("received signal, shutting down", "signal", s)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	go func() {
		if err := sched.Run(ctx); err != nil && err != context.Canceled {
			slog.Error("scheduler error", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("predictlearn stopped")
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// runOfflineBacktest replays stored snapshots through the simulator and logs
// the aggregate result.
func runOfflineBacktest(database *sql.DB, signals, condition, category string, seed int64) {
	markets, err := db.LoadMarkets(database)
	if err != nil {
		slog.Error("failed to load markets from snapshots", "error", err)
		os.Exit(1)
	}
	if len(markets) == 0 {
		slog.Error("no market snapshots stored; run the service first to collect data")
		os.Exit(1)
	}

	var selected []sig.Type
	for _, name := range strings.Split(signals, ",") {
		t := sig.Type(strings.TrimSpace(name))
		if !sig.Valid(t) {
			slog.Error("unknown signal", "signal", name)
			os.Exit(1)
		}
		selected = append(selected, t)
	}

	cond := backtest.Condition(strings.ToUpper(condition))
	if cond != backtest.All && cond != backtest.Any {
		slog.Error("condition must be ALL or ANY", "condition", condition)
		os.Exit(1)
	}

	result := backtest.New(seed).Run(markets, backtest.Config{
		Signals:   selected,
		Condition: cond,
		Category:  category,
	})

	slog.Info("=== BACKTEST RESULTS ===",
		"markets", len(markets),
		"signals", signals,
		"condition", cond,
		"category", category,
		"trades", result.SignalsGenerated,
		"profitable", result.ProfitableTrades,
		"win_rate", result.WinRate,
		"avg_profit", result.AverageProfit,
		"total_profit", result.TotalProfit,
		"best_trade", result.BestTrade,
		"worst_trade", result.WorstTrade,
		"sharpe", result.SharpeRatio,
	)
}
