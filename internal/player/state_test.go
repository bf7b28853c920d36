package player

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"xss/internal/errs"
)

func TestModifySkillClamps(t *testing.T) {
	deltas := []int{-100, -11, -1, 0, 1, 3, 9, 10, 11, 1000}
	for _, start := range []int{0, 1, 5, 10} {
		for _, delta := range deltas {
			p := New("t")
			p.Skills[SkillCracking] = start
			got := p.ModifySkill(SkillCracking, delta, "test")
			assert.GreaterOrEqual(t, got, MinSkill, "start=%d delta=%d", start, delta)
			assert.LessOrEqual(t, got, MaxSkill, "start=%d delta=%d", start, delta)
			assert.Equal(t, got, p.Skill(SkillCracking))
		}
	}
}

func TestSpendIsGuarded(t *testing.T) {
	p := New("t")
	p.Currencies[BTC] = 10

	err := p.Spend(BTC, 15, "test")
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindPrecondition))
	assert.Equal(t, 10.0, p.Balance(BTC))

	require.NoError(t, p.Spend(BTC, 10, "test"))
	assert.Equal(t, 0.0, p.Balance(BTC))
	assert.True(t, p.CanAfford(BTC, 0))
	assert.False(t, p.CanAfford(BTC, 0.01))
}

func TestDeductNeverGoesNegative(t *testing.T) {
	p := New("t")
	p.Currencies[USD] = 30
	taken := p.Deduct(USD, 50, "fine")
	assert.Equal(t, 30.0, taken)
	assert.Equal(t, 0.0, p.Balance(USD))
}

func TestHeatAndReputationBounds(t *testing.T) {
	p := New("t")
	p.AddHeat(250, "test")
	assert.Equal(t, MaxHeat, p.HeatLevel)
	p.AddHeat(-500, "test")
	assert.Equal(t, 0, p.HeatLevel)
	p.DecayHeat(5)
	assert.Equal(t, 0, p.HeatLevel)

	p.AddReputation(-1000, "test")
	assert.Equal(t, 0, p.Reputation)
	p.AddReputation(5000, "test")
	assert.Equal(t, 5000, p.Reputation)
}

func TestInventoryUniqueness(t *testing.T) {
	p := New("t")
	assert.True(t, p.AddItem("vpn_basic", "shop"))
	assert.False(t, p.AddItem("vpn_basic", "shop"))
	assert.Equal(t, 2, p.Inventory.Len())
}

func TestMutationHookRecordsChanges(t *testing.T) {
	p := New("t")
	var got []Mutation
	p.SetMutationHook(func(m Mutation) { got = append(got, m) })

	p.Earn(BTC, 25, "mission:m1")
	p.AddHeat(0, "noop")
	p.ModifySkill(SkillStealth, 2, "training")

	require.Len(t, got, 2)
	assert.Equal(t, Mutation{Field: "currency", Key: BTC, Delta: 25, Value: 125, Source: "mission:m1"}, got[0])
	assert.Equal(t, "skill", got[1].Field)
	assert.Equal(t, 3.0, got[1].Value)
}

func TestApplyBonuses(t *testing.T) {
	p := New("t")
	p.Apply("test",
		SkillBonus{Skill: SkillScanning, Amount: 2},
		CurrencyBonus{Currency: BTC, Amount: 40},
		CurrencyBonus{Currency: USD, Amount: -600},
		ReputationBonus{Amount: 15},
		HeatDelta{Amount: 12},
		ItemGrant{ID: "zero_day"},
		ContactGrant{ID: "insider"},
	)

	assert.Equal(t, 3, p.Skill(SkillScanning))
	assert.Equal(t, 140.0, p.Balance(BTC))
	assert.Equal(t, 0.0, p.Balance(USD))
	assert.Equal(t, 25, p.Reputation)
	assert.Equal(t, 12, p.HeatLevel)
	assert.True(t, p.HasItem("zero_day"))
	assert.True(t, p.Contacts.Has("insider"))
}

func TestBonusSpec(t *testing.T) {
	b, err := BonusSpec{Type: "currency", Target: "btc", Amount: 5}.Bonus()
	require.NoError(t, err)
	assert.Equal(t, CurrencyBonus{Currency: BTC, Amount: 5}, b)
	assert.Equal(t, "+5.00 BTC", Describe(b))

	_, err = BonusSpec{Type: "karma"}.Bonus()
	assert.Error(t, err)
}

func TestJoinFaction(t *testing.T) {
	p := New("t")
	_, err := p.JoinFaction(FactionBlackhats)
	assert.True(t, errs.IsKind(err, errs.KindPrecondition), "low reputation should block joining")

	p.Reputation = 30
	_, err = p.JoinFaction("redhats")
	assert.True(t, errs.IsKind(err, errs.KindValidation))

	perks, err := p.JoinFaction(FactionBlackhats)
	require.NoError(t, err)
	assert.NotEmpty(t, perks)
	assert.Equal(t, FactionBlackhats, p.Faction)
	assert.Equal(t, 2, p.Skill(SkillCracking))
	assert.Equal(t, 150.0, p.Balance(BTC))

	_, err = p.JoinFaction(FactionWhitehats)
	assert.True(t, errs.IsKind(err, errs.KindPrecondition))
}

func TestStateJSONRoundTrip(t *testing.T) {
	p := New("neo")
	p.Currencies[XMR] = 3.25
	p.AddItem("vpn_premium", "shop")
	p.CompleteMission("first_hack")
	p.Skills[SkillCracking] = 7

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var back State
	require.NoError(t, json.Unmarshal(data, &back))
	back.Normalize()
	assert.Equal(t, p.Currencies, back.Currencies)
	assert.Equal(t, p.Skills, back.Skills)
	assert.Equal(t, p.Inventory.Items(), back.Inventory.Items())
	assert.True(t, back.CompletedMissions.Has("first_hack"))
}

func TestNormalizeBackfills(t *testing.T) {
	var p State
	require.NoError(t, json.Unmarshal([]byte(`{"name":"old","skills":{"cracking":14}}`), &p))
	p.Normalize()

	assert.Equal(t, MaxSkill, p.Skill(SkillCracking))
	assert.Equal(t, 1, p.Skill(SkillStealth))
	assert.NotNil(t, p.Inventory)
	assert.Equal(t, "localhost", p.CurrentNode)
	assert.Equal(t, 1, p.StoryStage)
}
