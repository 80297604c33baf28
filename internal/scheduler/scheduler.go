package scheduler

import (
	"context"
	"log/slog"
	"time"

	"predictlearn/internal/collector"
	"predictlearn/internal/config"
	"predictlearn/internal/market"
	"predictlearn/internal/signal"
)

// Scheduler drives the periodic loops: market refresh into the cache,
// snapshot collection into SQLite, and signal performance reporting. Each
// cycle is independent; a failed cycle just waits for the next tick.
type Scheduler struct {
	scanner   *market.Scanner
	cache     *market.Cache
	collector *collector.Collector
	cfg       config.ScheduleConfig
}

func New(scanner *market.Scanner, cache *market.Cache, coll *collector.Collector, cfg config.ScheduleConfig) *Scheduler {
	return &Scheduler{
		scanner:   scanner,
		cache:     cache,
		collector: coll,
		cfg:       cfg,
	}
}

// Run starts all periodic loops and blocks until context is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	slog.Info("scheduler starting",
		"scan_interval", s.cfg.ScanInterval.Duration,
		"snapshot_interval", s.cfg.SnapshotInterval.Duration,
		"report_interval", s.cfg.ReportInterval.Duration,
	)

	// Run the first cycle immediately so the cache is warm before the first tick.
	s.runScan(ctx)
	s.runCollection(ctx)

	scanTicker := time.NewTicker(s.cfg.ScanInterval.Duration)
	snapshotTicker := time.NewTicker(s.cfg.SnapshotInterval.Duration)
	reportTicker := time.NewTicker(s.cfg.ReportInterval.Duration)
	defer scanTicker.Stop()
	defer snapshotTicker.Stop()
	defer reportTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("scheduler shutting down")
			return ctx.Err()
		case <-scanTicker.C:
			s.runScan(ctx)
		case <-snapshotTicker.C:
			s.runCollection(ctx)
		case <-reportTicker.C:
			s.runReport()
		}
	}
}

// runScan refreshes the cache with both closed markets (signal and backtest
// input) and active ones (training and prediction input).
func (s *Scheduler) runScan(ctx context.Context) {
	closed, err := s.scanner.ScanClosed(ctx, s.cfg.MarketsPerScan)
	if err != nil {
		slog.Error("closed market scan failed", "error", err)
	} else {
		s.cache.SetAll(closed)
	}

	active, err := s.scanner.ScanActive(ctx, s.cfg.MarketsPerScan)
	if err != nil {
		slog.Error("active market scan failed", "error", err)
	} else {
		s.cache.SetAll(active)
	}

	slog.Info("scan cycle complete", "closed", len(closed), "active", len(active))
}

func (s *Scheduler) runCollection(ctx context.Context) {
	slog.Info("starting data collection")
	if err := s.collector.Collect(ctx); err != nil {
		slog.Error("collection failed", "error", err)
	}
}

func (s *Scheduler) runReport() {
	signal.LogReport(signal.ComputePerformance(s.cache.All()))
}
