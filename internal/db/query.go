package db

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"predictlearn/internal/market"
)

// LoadMarkets rebuilds canonical markets from the latest snapshot of each
// stored market, for backtests without a live API.
func LoadMarkets(db *sql.DB) ([]market.Market, error) {
	rows, err := db.Query(`
		SELECT m.id, m.question, m.slug, m.category, m.tags, m.outcomes,
		       m.created_at, m.end_date, m.active,
		       s.outcome_prices, s.volume, s.liquidity, s.closed
		FROM markets m
		JOIN market_snapshots s ON s.market_id = m.id
		WHERE s.id IN (SELECT MAX(id) FROM market_snapshots GROUP BY market_id)`)
	if err != nil {
		return nil, fmt.Errorf("loading markets: %w", err)
	}
	defer rows.Close()

	var markets []market.Market
	for rows.Next() {
		var (
			m                      market.Market
			tags, outcomes, prices string
			createdAt, endDate     sql.NullString
			active, closed         int
		)
		if err := rows.Scan(
			&m.ID, &m.Question, &m.Slug, &m.Category, &tags, &outcomes,
			&createdAt, &endDate, &active,
			&prices, &m.Volume, &m.Liquidity, &closed,
		); err != nil {
			return nil, fmt.Errorf("scanning market row: %w", err)
		}

		// Stored as JSON; a corrupt column just leaves the field empty.
		_ = json.Unmarshal([]byte(tags), &m.Tags)
		_ = json.Unmarshal([]byte(outcomes), &m.Outcomes)
		_ = json.Unmarshal([]byte(prices), &m.OutcomePrices)

		m.CreatedAt = createdAt.String
		m.EndDate = endDate.String
		m.Active = active == 1
		m.Closed = closed == 1

		markets = append(markets, m)
	}

	return markets, rows.Err()
}
