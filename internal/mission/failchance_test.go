package mission

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"xss/internal/player"
)

func baseSkills() map[string]int {
	return map[string]int{
		player.SkillScanning:  1,
		player.SkillCracking:  1,
		player.SkillStealth:   1,
		player.SkillSocialEng: 1,
	}
}

func TestFailChanceTerms(t *testing.T) {
	pass, fail := true, false
	tests := []struct {
		name   string
		modify func(f *Factors)
		want   int
	}{
		{"base risk less skill total", func(f *Factors) {}, 46},
		{"requirement deficit", func(f *Factors) { f.ReqSkills = map[string]int{player.SkillCracking: 3} }, 56},
		{"requirement surplus", func(f *Factors) {
			f.Skills[player.SkillCracking] = 4
			f.ReqSkills = map[string]int{player.SkillCracking: 1}
		}, 34},
		{"equipment", func(f *Factors) { f.Equipment = 2 }, 36},
		{"minigame passed", func(f *Factors) { f.Minigame = &pass }, 36},
		{"minigame failed", func(f *Factors) { f.Minigame = &fail }, 76},
		{"heat below first tier", func(f *Factors) { f.Heat = 19 }, 46},
		{"heat 20", func(f *Factors) { f.Heat = 20 }, 51},
		{"heat 40", func(f *Factors) { f.Heat = 40 }, 56},
		{"heat 60", func(f *Factors) { f.Heat = 60 }, 61},
		{"heat 80", func(f *Factors) { f.Heat = 80 }, 71},
		{"warnings", func(f *Factors) { f.Warnings = 2 }, 66},
		{"progression 5", func(f *Factors) { f.Completed = 5 }, 51},
		{"progression 30", func(f *Factors) { f.Completed = 30 }, 66},
		{"faction", func(f *Factors) { f.Faction = -10 }, 36},
		{"vpn", func(f *Factors) { f.HasVPN = true }, 36},
		{"jitter", func(f *Factors) { f.Jitter = -5 }, 41},
		{"synergy", func(f *Factors) { f.Synergy = 12 }, 34},
		{"clamped high", func(f *Factors) { f.Risk = 100; f.Heat = 90 }, MaxFailChance},
		{"clamped low", func(f *Factors) { f.Risk = 0 }, MinFailChance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Factors{Risk: 50, Skills: baseSkills()}
			tt.modify(&f)
			assert.Equal(t, tt.want, FailChance(f).Value)
		})
	}
}

func TestFailChanceAlwaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 5000; i++ {
		passed := rng.IntN(2) == 0
		f := Factors{
			Risk: rng.IntN(101),
			ReqSkills: map[string]int{
				player.SkillCracking: rng.IntN(11),
				player.SkillStealth:  rng.IntN(11),
			},
			Skills: map[string]int{
				player.SkillScanning:  rng.IntN(11),
				player.SkillCracking:  rng.IntN(11),
				player.SkillStealth:   rng.IntN(11),
				player.SkillSocialEng: rng.IntN(11),
			},
			Equipment: rng.IntN(8),
			Heat:      rng.IntN(101),
			Warnings:  rng.IntN(10),
			Completed: rng.IntN(40),
			Faction:   []int{-10, -5, 0, 5}[rng.IntN(4)],
			HasVPN:    rng.IntN(2) == 0,
			Jitter:    rng.IntN(11) - 5,
			Synergy:   rng.IntN(31),
		}
		if rng.IntN(3) > 0 {
			f.Minigame = &passed
		}
		b := FailChance(f)
		assert.GreaterOrEqual(t, b.Value, MinFailChance)
		assert.LessOrEqual(t, b.Value, MaxFailChance)
	}
}

func TestFactionModifier(t *testing.T) {
	assert.Equal(t, 0, FactionModifier("", player.FactionWhitehats))
	assert.Equal(t, 0, FactionModifier(player.FactionBlackhats, ""))
	assert.Equal(t, -10, FactionModifier(player.FactionWhitehats, player.FactionWhitehats))
	assert.Equal(t, -5, FactionModifier(player.FactionGrayhats, player.FactionBlackhats))
	assert.Equal(t, 5, FactionModifier(player.FactionWhitehats, player.FactionBlackhats))
}

func TestEquipmentCountCapsVPN(t *testing.T) {
	inv := player.NewSet("basic_laptop", "custom_rig", "proxy_chain", "vpn_basic", "premium_vpn")
	count, vpn := EquipmentCount(inv)
	assert.Equal(t, 2, count)
	assert.True(t, vpn)

	f := Factors{Risk: 50, Skills: baseSkills(), Equipment: count, HasVPN: vpn}
	assert.Equal(t, 26, FailChance(f).Value)
}

func TestScaleSkillReward(t *testing.T) {
	assert.Equal(t, 2, ScaleSkillReward(4, 2))
	assert.Equal(t, 1, ScaleSkillReward(5, 2))
	assert.Equal(t, 1, ScaleSkillReward(5, 1))
	assert.Equal(t, 0, ScaleSkillReward(8, 2))
	assert.Equal(t, 1, ScaleSkillReward(9, 3))
}
