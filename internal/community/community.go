package community

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"predictlearn/internal/signal"
)

// SignalWeight is how heavily an analyst leans on one signal.
type SignalWeight struct {
	SignalType signal.Type `json:"signalType"`
	Weight     int         `json:"weight"` // percent
}

// Analyst is a community member whose track record is shown on the feed.
type Analyst struct {
	ID               string         `json:"id"`
	Username         string         `json:"username"`
	WinRate          float64        `json:"winRate"`
	TotalPredictions int            `json:"totalPredictions"`
	AverageProfit    float64        `json:"averageProfit"`
	Specialty        string         `json:"specialty"`
	PreferredSignals []SignalWeight `json:"preferredSignals"`
	Followers        int            `json:"followers"`
	Verified         bool           `json:"verified"`
}

// Insight is one post on the community feed.
type Insight struct {
	ID        string   `json:"id"`
	AnalystID string   `json:"analystId"`
	Content   string   `json:"content"`
	Likes     int      `json:"likes"`
	Comments  int      `json:"comments"`
	Tags      []string `json:"tags"`
	Timestamp string   `json:"timestamp"`
}

// Feed serves the analyst registry and insight feed. Seed content ships with
// the binary; user-posted insights are kept in memory and, when a database is
// attached, persisted across restarts.
type Feed struct {
	mu       sync.RWMutex
	db       *sql.DB // nil means memory only
	insights []Insight
}

func NewFeed(db *sql.DB) *Feed {
	f := &Feed{db: db, insights: seedInsights()}
	if db != nil {
		if err := f.loadStored(); err != nil {
			slog.Warn("failed to load stored insights", "error", err)
		}
	}
	return f
}

// Analysts returns the analyst registry.
func (f *Feed) Analysts() []Analyst {
	return seedAnalysts()
}

// Insights returns the feed, newest first.
func (f *Feed) Insights() []Insight {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]Insight, len(f.insights))
	copy(out, f.insights)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	return out
}

// Post adds a user insight to the feed and persists it when possible.
func (f *Feed) Post(analystID, content string, tags []string) (Insight, error) {
	if tags == nil {
		tags = []string{}
	}
	ins := Insight{
		ID:        uuid.NewString(),
		AnalystID: analystID,
		Content:   content,
		Tags:      tags,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	f.mu.Lock()
	f.insights = append(f.insights, ins)
	f.mu.Unlock()

	if f.db != nil {
		tagData, _ := json.Marshal(tags)
		_, err := f.db.Exec(`
			INSERT INTO insights (id, analyst_id, content, tags, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			ins.ID, ins.AnalystID, ins.Content, string(tagData), ins.Timestamp,
		)
		if err != nil {
			return ins, fmt.Errorf("persisting insight: %w", err)
		}
	}
	return ins, nil
}

func (f *Feed) loadStored() error {
	rows, err := f.db.Query(`
		SELECT id, analyst_id, content, likes, comments, tags, created_at
		FROM insights ORDER BY created_at`)
	if err != nil {
		return err
	}
	defer rows.Close()

	f.mu.Lock()
	defer f.mu.Unlock()

	for rows.Next() {
		var ins Insight
		var tags string
		if err := rows.Scan(&ins.ID, &ins.AnalystID, &ins.Content, &ins.Likes, &ins.Comments, &tags, &ins.Timestamp); err != nil {
			return err
		}
		if json.Unmarshal([]byte(tags), &ins.Tags) != nil {
			ins.Tags = []string{}
		}
		f.insights = append(f.insights, ins)
	}
	return rows.Err()
}

func seedAnalysts() []Analyst {
	return []Analyst{
		{
			ID:               "analyst-1",
			Username:         "CryptoWhale",
			WinRate:          73,
			TotalPredictions: 300,
			AverageProfit:    18,
			Specialty:        "Crypto",
			PreferredSignals: []SignalWeight{
				{SignalType: signal.Whales, Weight: 35},
				{SignalType: signal.Volume, Weight: 25},
				{SignalType: signal.Twitter, Weight: 20},
				{SignalType: signal.News, Weight: 20},
			},
			Followers: 2340,
			Verified:  true,
		},
		{
			ID:               "analyst-2",
			Username:         "PoliticsGuru",
			WinRate:          68,
			TotalPredictions: 250,
			AverageProfit:    14,
			Specialty:        "Politics",
			PreferredSignals: []SignalWeight{
				{SignalType: signal.News, Weight: 40},
				{SignalType: signal.Twitter, Weight: 35},
				{SignalType: signal.Volume, Weight: 25},
			},
			Followers: 1890,
			Verified:  true,
		},
	}
}

func seedInsights() []Insight {
	now := time.Now().UTC()
	return []Insight{
		{
			ID:        "insight-1",
			AnalystID: "analyst-1",
			Content:   "When Twitter is overly bullish on crypto events, I fade it. Works 80% of the time in my experience.",
			Likes:     234,
			Comments:  45,
			Tags:      []string{"crypto", "contrarian", "twitter"},
			Timestamp: now.Add(-2 * time.Hour).Format(time.RFC3339),
		},
		{
			ID:        "insight-2",
			AnalystID: "analyst-2",
			Content:   "For political events, combine news sentiment with volume spikes. News moves first, volume confirms.",
			Likes:     189,
			Comments:  32,
			Tags:      []string{"politics", "strategy"},
			Timestamp: now.Add(-5 * time.Hour).Format(time.RFC3339),
		},
	}
}
