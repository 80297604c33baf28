package community

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"predictlearn/internal/db"
)

func TestAnalysts(t *testing.T) {
	feed := NewFeed(nil)

	analysts := feed.Analysts()
	require.Len(t, analysts, 2)

	assert.Equal(t, "CryptoWhale", analysts[0].Username)
	assert.Equal(t, 73.0, analysts[0].WinRate)
	assert.True(t, analysts[0].Verified)
	assert.Equal(t, "PoliticsGuru", analysts[1].Username)

	// Preferred signal weights always describe a full allocation.
	for _, a := range analysts {
		total := 0
		for _, w := range a.PreferredSignals {
			total += w.Weight
		}
		assert.Equal(t, 100, total, "analyst %s", a.Username)
	}
}

func TestInsights_NewestFirst(t *testing.T) {
	feed := NewFeed(nil)

	insights := feed.Insights()
	require.GreaterOrEqual(t, len(insights), 2)
	for i := 1; i < len(insights); i++ {
		assert.GreaterOrEqual(t, insights[i-1].Timestamp, insights[i].Timestamp)
	}
}

func TestPost_MemoryOnly(t *testing.T) {
	feed := NewFeed(nil)
	before := len(feed.Insights())

	ins, err := feed.Post("analyst-1", "Volume is drying up on the weekend markets.", nil)
	require.NoError(t, err)

	assert.NotEmpty(t, ins.ID)
	assert.Equal(t, "analyst-1", ins.AnalystID)
	assert.NotNil(t, ins.Tags)
	assert.Len(t, feed.Insights(), before+1)

	// The fresh post sorts to the top.
	assert.Equal(t, ins.ID, feed.Insights()[0].ID)
}

func TestPost_PersistsAcrossRestart(t *testing.T) {
	database, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, db.Migrate(database))

	feed := NewFeed(database)
	ins, err := feed.Post("analyst-2", "News flow around the election is accelerating.", []string{"politics"})
	require.NoError(t, err)

	// A new feed against the same database picks the post back up.
	reopened := NewFeed(database)
	found := false
	for _, i := range reopened.Insights() {
		if i.ID == ins.ID {
			found = true
			assert.Equal(t, []string{"politics"}, i.Tags)
		}
	}
	assert.True(t, found)
}
