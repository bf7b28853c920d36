package minigame

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"xss/internal/console"
	"xss/internal/dice"
	"xss/internal/errs"
	"xss/internal/events"
	"xss/internal/log"
	"xss/internal/mission"
	"xss/internal/player"
)

func init() {
	log.SetOutput(io.Discard)
}

func newTestHub(rng *dice.Script, lines ...string) (*Hub, *player.State, *[]events.Event) {
	p := player.New("tester")
	var seen []events.Event
	pub := events.PublisherFunc(func(e events.Event) { seen = append(seen, e) })
	return NewHub(p, rng, console.NewScript(lines...), pub), p, &seen
}

func TestHubRegistersAllGames(t *testing.T) {
	h, _, _ := newTestHub(&dice.Script{})
	ids := h.IDs()
	assert.Len(t, ids, 12)
	assert.IsIncreasing(t, ids)

	g, ok := h.Get("caesar")
	require.True(t, ok)
	assert.Equal(t, player.SkillCracking, g.Skill())

	_, ok = h.Get("tetris")
	assert.False(t, ok)
}

func TestForMission(t *testing.T) {
	h, _, _ := newTestHub(&dice.Script{})
	tests := []struct {
		mission mission.Mission
		want    string
	}{
		{mission.Mission{ID: "phishing_kit", Name: "Phishing Kit Deployment"}, "phishing_spot"},
		{mission.Mission{ID: "password_dump", Name: "Password Dump Cleanup"}, "hash_crack"},
		{mission.Mission{ID: "x", Name: "Quiet job", Desc: "Sniff the office wifi"}, "packet_classify"},
		{mission.Mission{ID: "rush", Name: "Rush", Type: mission.KindTimeCritical}, "code_guess"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, h.ForMission(tt.mission).ID(), tt.mission.ID)
	}

	// no keyword falls back to a random pick
	assert.Equal(t, h.IDs()[0], h.ForMission(mission.Mission{ID: "q", Name: "Quiet"}).ID())
}

func TestTrainPassRaisesSkill(t *testing.T) {
	h, p, seen := newTestHub(&dice.Script{FallbackFloat: 0.0}, "payload")
	res, err := h.Train("caesar")
	require.NoError(t, err)

	assert.True(t, res.Passed)
	assert.True(t, res.SkillUp)
	assert.Equal(t, 2, res.Level)
	assert.Equal(t, 2, p.Skill(player.SkillCracking))
	assert.InDelta(t, 16.5, res.BTC, 0.001)
	assert.Equal(t, 4, res.Reputation)
	assert.InDelta(t, 116.5, p.Balance(player.BTC), 0.001)
	assert.Equal(t, 14, p.Reputation)

	var types []events.Type
	for _, e := range *seen {
		types = append(types, e.Type)
	}
	assert.Equal(t, []events.Type{events.MinigamePlayed, events.SkillLevelUp}, types)
}

func TestTrainFailureGivesNothing(t *testing.T) {
	h, p, _ := newTestHub(&dice.Script{FallbackFloat: 0.0}, "nope", "nope")
	res, err := h.Train("caesar")
	require.NoError(t, err)
	assert.False(t, res.Passed)
	assert.False(t, res.SkillUp)
	assert.Equal(t, 1, p.Skill(player.SkillCracking))
	assert.InDelta(t, 100, p.Balance(player.BTC), 0.001)
}

func TestTrainUnknownGame(t *testing.T) {
	h, _, _ := newTestHub(&dice.Script{})
	_, err := h.Train("tetris")
	assert.True(t, errs.IsKind(err, errs.KindValidation))
}

func TestTrainingRewardsShrink(t *testing.T) {
	prevBTC, prevRep, prevChance := 1e9, 1<<30, 101.0
	for level := 0; level <= player.MaxSkill; level++ {
		btc, rep := TrainingReward(level)
		chance := SkillUpChance(level)
		assert.LessOrEqual(t, btc, prevBTC)
		assert.LessOrEqual(t, rep, prevRep)
		assert.LessOrEqual(t, chance, prevChance)
		assert.Positive(t, btc)
		assert.Positive(t, rep)
		prevBTC, prevRep, prevChance = btc, rep, chance
	}
}

func TestCheckpointImplementsMissionHook(t *testing.T) {
	h, _, _ := newTestHub(&dice.Script{}, "000")
	var cp mission.Checkpoint = h
	game, passed, err := cp.Checkpoint(mission.Mission{ID: "password_dump", Name: "Password Dump Cleanup"})
	require.NoError(t, err)
	assert.Equal(t, "hash_crack", game)
	assert.True(t, passed)
}
