package db

import (
	"testing"
)

func TestMigrate_CreatesTables(t *testing.T) {
	database, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer database.Close()

	if err := Migrate(database); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	tables := []string{"schema_version", "markets", "market_snapshots", "user_progress", "insights"}
	for _, table := range tables {
		var name string
		err := database.QueryRow(
			`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s not created: %v", table, err)
		}
	}

	var version int
	if err := database.QueryRow(`SELECT version FROM schema_version`).Scan(&version); err != nil {
		t.Fatalf("reading schema version: %v", err)
	}
	if version != 1 {
		t.Errorf("expected schema version 1, got %d", version)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	database, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer database.Close()

	if err := Migrate(database); err != nil {
		t.Fatalf("first migration: %v", err)
	}
	if err := Migrate(database); err != nil {
		t.Fatalf("second migration should be a no-op: %v", err)
	}

	var count int
	if err := database.QueryRow(`SELECT COUNT(*) FROM schema_version`).Scan(&count); err != nil {
		t.Fatalf("counting versions: %v", err)
	}
	if count != 1 {
		t.Errorf("expected a single version row, got %d", count)
	}
}

func TestLoadMarkets_LatestSnapshotWins(t *testing.T) {
	database, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer database.Close()
	if err := Migrate(database); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	_, err = database.Exec(`
		INSERT INTO markets (id, question, slug, category, tags, outcomes, created_at, end_date, active, closed)
		VALUES ('m1', 'Will it happen?', 'will-it-happen', 'Politics',
		        '["election"]', '["Yes","No"]', '2026-01-10T10:00:00Z', '2026-02-01T00:00:00Z', 0, 1)`)
	if err != nil {
		t.Fatalf("seeding market: %v", err)
	}

	// Two snapshots; only the newest should be returned.
	_, err = database.Exec(`
		INSERT INTO market_snapshots (market_id, outcome_prices, volume, liquidity, closed)
		VALUES ('m1', '[0.5,0.5]', 8000, 2000, 0),
		       ('m1', '[0.65,0.35]', 15000, 6000, 1)`)
	if err != nil {
		t.Fatalf("seeding snapshots: %v", err)
	}

	markets, err := LoadMarkets(database)
	if err != nil {
		t.Fatalf("loading markets: %v", err)
	}
	if len(markets) != 1 {
		t.Fatalf("expected 1 market, got %d", len(markets))
	}

	m := markets[0]
	if m.ID != "m1" || m.Question != "Will it happen?" || m.Category != "Politics" {
		t.Errorf("unexpected market fields: %+v", m)
	}
	if len(m.Tags) != 1 || m.Tags[0] != "election" {
		t.Errorf("unexpected tags: %v", m.Tags)
	}
	if len(m.OutcomePrices) != 2 || m.OutcomePrices[0] != 0.65 {
		t.Errorf("expected latest snapshot prices, got %v", m.OutcomePrices)
	}
	if m.Volume != 15000 || m.Liquidity != 6000 {
		t.Errorf("expected latest snapshot volume/liquidity, got %f/%f", m.Volume, m.Liquidity)
	}
	if !m.Closed || m.Active {
		t.Errorf("unexpected flags: closed=%v active=%v", m.Closed, m.Active)
	}
}

func TestLoadMarkets_SkipsMarketsWithoutSnapshots(t *testing.T) {
	database, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer database.Close()
	if err := Migrate(database); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	_, err = database.Exec(`
		INSERT INTO markets (id, question) VALUES ('bare', 'No snapshots yet?')`)
	if err != nil {
		t.Fatalf("seeding market: %v", err)
	}

	markets, err := LoadMarkets(database)
	if err != nil {
		t.Fatalf("loading markets: %v", err)
	}
	if len(markets) != 0 {
		t.Errorf("expected no markets, got %d", len(markets))
	}
}
