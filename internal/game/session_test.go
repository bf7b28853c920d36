package game

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"xss/internal/api"
	"xss/internal/console"
	"xss/internal/dice"
	"xss/internal/events"
	"xss/internal/log"
	"xss/internal/mission"
	"xss/internal/network"
	"xss/internal/player"
	"xss/internal/save"
	"xss/internal/stats"
)

func init() {
	log.SetOutput(io.Discard)
}

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type recordingUI struct {
	statuses []api.StatusInfo
	nodes    []api.NodeInfo
}

func (r *recordingUI) OnStatusChanged(s api.StatusInfo) { r.statuses = append(r.statuses, s) }
func (r *recordingUI) OnNodeChanged(n api.NodeInfo)     { r.nodes = append(r.nodes, n) }

func testCatalog(t *testing.T) *mission.Catalog {
	t.Helper()
	c, err := mission.NewCatalog(
		mission.Mission{ID: "quick", Name: "Quick Job", Desc: "Easy money.", Risk: 20, Duration: 1, RewardBTC: 25, RewardRep: 4, HeatGain: 4},
		mission.Mission{ID: "long", Name: "Long Job", Risk: 30, Duration: 3, RewardBTC: 40},
		mission.Mission{ID: "gated", Name: "Gated Job", Risk: 30, Duration: 1, ReqRep: 50},
	)
	require.NoError(t, err)
	return c
}

type harness struct {
	session *Session
	io      *console.Script
	ui      *recordingUI
	store   *save.Store
	rng     *dice.Script
}

// newHarness rolls a 100 on every mission check and never fires network events.
func newHarness(t *testing.T, configure func(o *Options), lines ...string) *harness {
	t.Helper()
	h := &harness{
		io:    console.NewScript(lines...),
		ui:    &recordingUI{},
		store: save.NewStore(filepath.Join(t.TempDir(), "xss_save.json")),
		rng:   &dice.Script{FallbackInt: 99, FallbackFloat: 0.999},
	}
	opts := Options{
		Name:      "neo",
		Rng:       h.rng,
		IO:        h.io,
		Catalog:   testCatalog(t),
		Store:     h.store,
		Clock:     func() time.Time { return t0 },
		HeatDecay: 1,
		UI:        h.ui,
	}
	if configure != nil {
		configure(&opts)
	}
	s, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	h.session = s
	return h
}

func TestNewRequiresIO(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestWorkCompletesMission(t *testing.T) {
	h := newHarness(t, nil)
	p := h.session.Player()

	assert.False(t, h.session.Execute("accept quick"))
	h.session.Execute("work")

	assert.True(t, p.CompletedMissions.Has("quick"))
	assert.Empty(t, p.ActiveMission)
	assert.InDelta(t, 120, p.Balance(player.BTC), 1e-9)
	assert.Equal(t, 3, p.HeatLevel)
	assert.Equal(t, 1, p.Turn)
	assert.Contains(t, h.io.Output(), "Mission complete: Quick Job")
	assert.Contains(t, h.io.Output(), "+25.00 BTC")
}

func TestErrorsDoNotTakeATurn(t *testing.T) {
	h := newHarness(t, nil)
	h.session.Execute("work")
	h.session.Execute("accept gated")
	h.session.Execute("connect")
	h.session.Execute("connect forum.xss.is")

	out := h.io.Output()
	assert.Contains(t, out, "no active mission")
	assert.Contains(t, out, "requirements not met: reputation 10/50")
	assert.Contains(t, out, "usage: connect <address>")
	assert.Contains(t, out, "scan first")
	assert.Zero(t, h.session.Player().Turn)
	assert.Equal(t, network.Localhost, h.session.Player().CurrentNode)
}

func TestUnknownCommandAndBlankLine(t *testing.T) {
	h := newHarness(t, nil)
	assert.False(t, h.session.Execute("   "))
	assert.False(t, h.session.Execute("hack the planet"))
	assert.Contains(t, h.io.Output(), `Unknown command "hack"`)
}

func TestHelp(t *testing.T) {
	h := newHarness(t, nil)
	h.session.Execute("help")
	for _, c := range commandList() {
		assert.Contains(t, h.io.Output(), c.usage)
	}
	h.session.Execute("help w")
	assert.Contains(t, h.io.Output(), "advance the active mission")
}

func TestScanConnectTracerouteDisconnect(t *testing.T) {
	h := newHarness(t, nil)
	s := h.session

	s.Execute("scan")
	s.Execute("connect forum.xss.is")
	assert.Equal(t, "forum.xss.is", s.Player().CurrentNode)
	assert.Contains(t, h.io.Output(), "Connected to forum.xss.is")
	assert.Contains(t, h.io.Output(), "You own forum.xss.is now.")
	assert.Equal(t, 1, s.Network().CompromisedCount())
	assert.True(t, s.Player().Achievements.Has("first_blood"))

	s.Execute("traceroute exploit.in")
	assert.Contains(t, h.io.Output(), "forum.xss.is -> exploit.in")

	s.Execute("disconnect")
	assert.Equal(t, network.Localhost, s.Player().CurrentNode)
	assert.Equal(t, 4, s.Player().Turn)

	require.NotEmpty(t, h.ui.nodes)
	addrs := make([]string, 0, len(h.ui.nodes))
	for _, n := range h.ui.nodes {
		addrs = append(addrs, n.Address)
	}
	assert.Equal(t, []string{network.Localhost, "forum.xss.is", network.Localhost}, addrs)
	assert.Contains(t, h.ui.nodes[1].Neighbors, "exploit.in")
}

func TestStatusPushedAfterEveryCommand(t *testing.T) {
	h := newHarness(t, nil)
	before := len(h.ui.statuses)
	h.session.Execute("accept long")
	h.session.Execute("status")
	require.Len(t, h.ui.statuses, before+2)

	last := h.ui.statuses[len(h.ui.statuses)-1]
	assert.Equal(t, "Long Job", last.Mission)
	assert.Equal(t, 3, last.Duration)
	assert.Equal(t, "neo", last.Name)
	assert.InDelta(t, 100, last.Balances[player.BTC], 1e-9)
	assert.Equal(t, 1, last.Discovered)
}

func TestSaveAndLoadCommands(t *testing.T) {
	h := newHarness(t, nil)
	s := h.session
	s.Execute("scan")
	s.Execute("save")
	require.FileExists(t, h.store.Path())

	s.Player().Earn(player.BTC, 500, "test")
	s.Player().ModifySkill(player.SkillStealth, 5, "test")
	s.Execute("load")

	assert.InDelta(t, 100, s.Player().Balance(player.BTC), 1e-9)
	assert.Equal(t, 1, s.Player().Skill(player.SkillStealth))
	assert.Equal(t, 4, len(s.Network().Discovered()))
	assert.Contains(t, h.io.Output(), "Loaded neo")
}

func TestLoadFailureLeavesGameUntouched(t *testing.T) {
	h := newHarness(t, nil)
	s := h.session
	s.Player().Earn(player.BTC, 50, "test")
	s.Execute("load")
	assert.Contains(t, h.io.Output(), "no save found")
	assert.InDelta(t, 150, s.Player().Balance(player.BTC), 1e-9)
}

func TestLoadDropsUnknownActiveMission(t *testing.T) {
	h := newHarness(t, nil)
	p := h.session.Player()
	p.ActiveMission = "retired_job"
	_, err := h.session.Save()
	require.NoError(t, err)

	_, err = h.session.Load()
	require.NoError(t, err)
	assert.Empty(t, h.session.Player().ActiveMission)
}

func TestAutosave(t *testing.T) {
	h := newHarness(t, func(o *Options) { o.AutosaveTurns = 2 })
	h.session.Execute("scan")
	assert.NoFileExists(t, h.store.Path())
	h.session.Execute("scan")
	assert.FileExists(t, h.store.Path())
}

func TestQuitSaves(t *testing.T) {
	h := newHarness(t, nil)
	assert.True(t, h.session.Execute("quit"))
	assert.FileExists(t, h.store.Path())
}

func TestSavingDisabled(t *testing.T) {
	h := newHarness(t, func(o *Options) { o.Store = nil })
	h.session.Execute("save")
	assert.Contains(t, h.io.Output(), "saving is disabled")
	assert.True(t, h.session.Execute("quit"))
}

func TestAchievementsAwardedOnce(t *testing.T) {
	var unlocked []events.Event
	h := newHarness(t, nil)
	h.session.Bus().Subscribe(events.AchievementUnlocked, func(e events.Event) { unlocked = append(unlocked, e) })

	h.session.Player().Earn(player.BTC, 1000, "test")
	h.session.Execute("status")
	h.session.Execute("status")

	assert.Equal(t, 1, strings.Count(h.io.Output(), "Achievement unlocked: Whale"))
	require.Len(t, unlocked, 1)
	assert.Equal(t, "whale", unlocked[0].Subject)
	assert.True(t, h.session.Player().Achievements.Has("whale"))
}

func TestFactionCommand(t *testing.T) {
	h := newHarness(t, nil)
	h.session.Execute("faction grayhats")
	assert.Contains(t, h.io.Output(), "factions ignore anyone under 20 reputation")

	h.session.Player().AddReputation(20, "test")
	h.session.Execute("faction GRAYHATS")
	assert.Equal(t, player.FactionGrayhats, h.session.Player().Faction)
	assert.Contains(t, h.io.Output(), "You joined the Grayhats")
	assert.Contains(t, h.io.Output(), "+1 stealth")
}

func TestStatsCommand(t *testing.T) {
	db, err := stats.Open(filepath.Join(t.TempDir(), "stats.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h := newHarness(t, func(o *Options) { o.Stats = db })
	h.session.Execute("accept quick")
	h.session.Execute("work")
	h.session.Execute("stats")

	out := h.io.Output()
	assert.Contains(t, out, "mission.accepted")
	assert.Contains(t, out, "mission.completed")
	assert.Contains(t, out, "earned 25.00 BTC")
}

func TestStatsDisabled(t *testing.T) {
	h := newHarness(t, nil)
	h.session.Execute("stats")
	assert.Contains(t, h.io.Output(), "statistics are disabled")
}

func TestRunStopsOnQuitAndEOF(t *testing.T) {
	h := newHarness(t, nil, "status", "quit", "status")
	require.NoError(t, h.session.Run(context.Background()))
	assert.Equal(t, []string{"status"}, h.io.Lines)

	h = newHarness(t, nil, "status")
	require.NoError(t, h.session.Run(context.Background()))
	assert.Len(t, h.io.Prompts, 2)
	assert.Equal(t, "neo@localhost> ", h.io.Prompts[0])
}

func TestRunHonoursContext(t *testing.T) {
	h := newHarness(t, nil, "status")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, h.session.Run(ctx), context.Canceled)
}

func TestEOFInsideCommandEndsSession(t *testing.T) {
	h := newHarness(t, nil)
	assert.True(t, h.session.Execute("train caesar"))
}
