package collector

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"predictlearn/internal/gamma"
	"predictlearn/internal/market"
)

// Collector periodically snapshots market data so backtests can run against
// stored history instead of the live API.
type Collector struct {
	scanner *market.Scanner
	db      *sql.DB
	limit   int
}

func NewCollector(scanner *market.Scanner, db *sql.DB, limit int) *Collector {
	return &Collector{scanner: scanner, db: db, limit: limit}
}

// Collect fetches closed and open markets and stores snapshots.
func (c *Collector) Collect(ctx context.Context) error {
	closed := true
	closedMarkets, err := c.scanner.Scan(ctx, gamma.Query{Limit: c.limit, Closed: &closed})
	if err != nil {
		return fmt.Errorf("scanning closed markets: %w", err)
	}

	open := false
	openMarkets, err := c.scanner.Scan(ctx, gamma.Query{Limit: c.limit, Closed: &open})
	if err != nil {
		slog.Warn("open market scan failed, snapshotting closed only", "error", err)
	}

	upserted, snapshotted := 0, 0
	for _, m := range append(closedMarkets, openMarkets...) {
		if err := c.upsertMarket(m); err != nil {
			slog.Warn("failed to upsert market", "id", m.ID, "error", err)
			continue
		}
		upserted++

		if err := c.snapshot(m); err != nil {
			slog.Warn("failed to snapshot market", "id", m.ID, "error", err)
			continue
		}
		snapshotted++
	}

	slog.Info("collection complete", "markets_upserted", upserted, "snapshots_taken", snapshotted)
	return nil
}

func (c *Collector) upsertMarket(m market.Market) error {
	tags := marshalOrEmpty(m.Tags)
	outcomes := marshalOrEmpty(m.Outcomes)

	_, err := c.db.Exec(`
		INSERT INTO markets (id, question, slug, category, tags, outcomes, created_at, end_date, active, closed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			active = excluded.active,
			closed = excluded.closed,
			last_updated_at = datetime('now')`,
		m.ID, m.Question, m.Slug, m.Category, tags, outcomes,
		m.CreatedAt, m.EndDate, boolToInt(m.Active), boolToInt(m.Closed),
	)
	return err
}

func (c *Collector) snapshot(m market.Market) error {
	prices, err := json.Marshal(m.OutcomePrices)
	if err != nil {
		prices = []byte("[]")
	}

	_, err = c.db.Exec(`
		INSERT INTO market_snapshots (market_id, outcome_prices, volume, liquidity, closed)
		VALUES (?, ?, ?, ?, ?)`,
		m.ID, string(prices), m.Volume, m.Liquidity, boolToInt(m.Closed),
	)
	return err
}

func marshalOrEmpty(values []string) string {
	data, err := json.Marshal(values)
	if err != nil || values == nil {
		return "[]"
	}
	return string(data)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
