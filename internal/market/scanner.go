package market

import (
	"context"
	"fmt"
	"log/slog"

	"predictlearn/internal/gamma"
)

// Scanner fetches markets from the Gamma API and normalizes them.
type Scanner struct {
	client *gamma.Client
}

func NewScanner(client *gamma.Client) *Scanner {
	return &Scanner{client: client}
}

// Scan fetches markets matching the query and returns them in canonical form.
func (s *Scanner) Scan(ctx context.Context, q gamma.Query) ([]Market, error) {
	raws, err := s.client.ListMarkets(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("scanning markets: %w", err)
	}

	markets := NormalizeAll(raws)
	slog.Info("scanned markets", "count", len(markets))
	return markets, nil
}

// ScanClosed fetches closed markets, the input for signal performance and
// backtest computation.
func (s *Scanner) ScanClosed(ctx context.Context, limit int) ([]Market, error) {
	closed := true
	return s.Scan(ctx, gamma.Query{Limit: limit, Closed: &closed})
}

// ScanActive fetches open markets for the training and prediction widgets.
func (s *Scanner) ScanActive(ctx context.Context, limit int) ([]Market, error) {
	active := true
	closed := false
	return s.Scan(ctx, gamma.Query{Limit: limit, Active: &active, Closed: &closed})
}

// GetMarket fetches a single market by ID.
func (s *Scanner) GetMarket(ctx context.Context, id string) (*Market, error) {
	raw, err := s.client.GetMarket(ctx, id)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	m := Normalize(*raw)
	return &m, nil
}
