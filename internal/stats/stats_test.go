package stats

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"xss/internal/events"
	"xss/internal/log"
	"xss/internal/player"
)

func init() {
	log.SetOutput(io.Discard)
}

func openTestDB(t *testing.T, path string) *DB {
	t.Helper()
	db, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func steppingClock(start time.Time) func() time.Time {
	now := start
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func TestAttachRecordsBusEvents(t *testing.T) {
	db := openTestDB(t, filepath.Join(t.TempDir(), "stats.db"))
	bus := events.NewBus()
	bus.SetClock(steppingClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)))
	detach := db.Attach(bus)

	events.Emit(bus, events.MissionAccepted, "forum_spam", "accepted", nil)
	events.Emit(bus, events.NodeCompromised, "forum.xss.is", "owned", map[string]any{"security": 2})
	events.Emit(bus, events.MissionCompleted, "forum_spam", "done", map[string]any{"btc": 20.0})
	detach()
	events.Emit(bus, events.MissionFailed, "ignored", "after detach", nil)

	recent, err := db.Recent(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, events.MissionCompleted, recent[0].Type)
	assert.Equal(t, events.NodeCompromised, recent[1].Type)
	assert.Equal(t, "forum.xss.is", recent[1].Subject)
	assert.EqualValues(t, 2, recent[1].Data["security"])
	assert.Equal(t, db.Session(), recent[0].Session)
	assert.True(t, recent[0].Time.After(recent[1].Time))

	sum, err := db.Summary()
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Events)
	assert.Equal(t, 1, sum.ByType[events.MissionAccepted])
	assert.Zero(t, sum.ByType[events.MissionFailed])
	assert.Equal(t, 1, sum.Sessions)
}

func TestMutationHookFeedsSummary(t *testing.T) {
	db := openTestDB(t, filepath.Join(t.TempDir(), "stats.db"))
	p := player.New("neo")
	p.SetMutationHook(db.MutationHook())

	p.Earn(player.BTC, 12.5, "mission:a")
	p.Earn(player.BTC, 7.5, "mission:b")
	require.NoError(t, p.Spend(player.BTC, 5, "tick"))
	p.Earn(player.XMR, 1, "trade")
	p.AddHeat(15, "exploit")
	p.AddHeat(-5, "decay")
	p.ModifySkill(player.SkillStealth, 0, "noop")

	sum, err := db.Summary()
	require.NoError(t, err)
	assert.Equal(t, 6, sum.Mutations)
	assert.InDelta(t, 20, sum.Earned[player.BTC], 1e-9)
	assert.InDelta(t, 1, sum.Earned[player.XMR], 1e-9)
	assert.InDelta(t, 15, sum.HeatGained, 1e-9)
	assert.Zero(t, sum.Events)
}

func TestSessionsAccumulateAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.db")
	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.RecordEvent(events.Event{Type: events.GameSaved}))
	require.NoError(t, first.Close())

	second := openTestDB(t, path)
	assert.NotEqual(t, first.Session(), second.Session())
	require.NoError(t, second.RecordEvent(events.Event{Type: events.GameSaved}))

	sum, err := second.Summary()
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Sessions)
	assert.Equal(t, 2, sum.ByType[events.GameSaved])
}

func TestRecentDefaultsLimit(t *testing.T) {
	db := openTestDB(t, ":memory:")
	db.SetClock(steppingClock(time.Now()))
	for range 12 {
		require.NoError(t, db.RecordEvent(events.Event{Type: events.NetworkEvent, Message: "patch"}))
	}
	recent, err := db.Recent(0)
	require.NoError(t, err)
	assert.Len(t, recent, 10)
}
