package game

import (
	"xss/internal/console"
	"xss/internal/events"
	"xss/internal/log"
	"xss/internal/player"
)

type achievement struct {
	id   string
	name string
	met  func(s *Session) bool
}

var achievements = []achievement{
	{"first_blood", "First Blood", func(s *Session) bool { return s.network.CompromisedCount() >= 1 }},
	{"botnet_herder", "Botnet Herder", func(s *Session) bool { return s.network.CompromisedCount() >= 5 }},
	{"script_kiddie", "Script Kiddie", func(s *Session) bool { return s.player.CompletedMissions.Len() >= 5 }},
	{"elite", "Elite", func(s *Session) bool { return s.player.CompletedMissions.Len() >= 10 }},
	{"maxed_out", "Maxed Out", func(s *Session) bool {
		for _, skill := range player.Skills {
			if s.player.Skill(skill) >= player.MaxSkill {
				return true
			}
		}
		return false
	}},
	{"whale", "Whale", func(s *Session) bool { return s.player.Balance(player.BTC) >= 1000 }},
	{"most_wanted", "Most Wanted", func(s *Session) bool { return s.player.HeatLevel >= player.MaxHeat }},
}

// checkAchievements awards every newly met milestone once.
func (s *Session) checkAchievements() {
	for _, a := range achievements {
		if s.player.Achievements.Has(a.id) || !a.met(s) {
			continue
		}
		s.player.AddAchievement(a.id)
		s.sound.Play(console.SoundLevelUp)
		s.io.Println(console.Highlight, "Achievement unlocked: "+a.name)
		log.Info("achievement unlocked", "achievement", a.id)
		events.Emit(s.bus, events.AchievementUnlocked, a.id, a.name, nil)
	}
}
