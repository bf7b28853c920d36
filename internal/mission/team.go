package mission

import (
	"fmt"
	"math"

	"xss/internal/console"
	"xss/internal/dice"
	"xss/internal/errs"
	"xss/internal/events"
	"xss/internal/log"
	"xss/internal/player"
)

var (
	crewHandles = []string{"n0mad", "Kestrel", "zer0cool", "Vesper", "d4rkfib3r", "Morrow", "sh4de", "Quill", "Orchid", "b1tflip", "Rook", "Jinx"}
	crewRoles   = []string{"social engineer", "exploit dev", "infiltrator", "cryptographer", "lookout", "money mule"}
)

// Candidates rolls count recruits for a crew.
func Candidates(rng dice.Source, count int) []TeamMember {
	handles := append([]string(nil), crewHandles...)
	dice.Shuffle(rng, handles)
	out := make([]TeamMember, 0, count)
	for i := 0; i < count; i++ {
		skill := dice.Between(rng, 3, 9)
		loyalty := dice.Between(rng, 30, 95)
		out = append(out, TeamMember{
			Name:    handles[i%len(handles)],
			Role:    dice.Pick(rng, crewRoles),
			Skill:   skill,
			Loyalty: loyalty,
			Cost:    float64(skill*4 + loyalty/10),
		})
	}
	return out
}

// Synergy scores a roster from its average loyalty and skill, less the
// skill spread. The result is in [0, 30].
func Synergy(roster []TeamMember) int {
	if len(roster) == 0 {
		return 0
	}
	var skillSum, loyaltySum float64
	for _, m := range roster {
		skillSum += float64(m.Skill)
		loyaltySum += float64(m.Loyalty)
	}
	n := float64(len(roster))
	avgSkill := skillSum / n
	var variance float64
	for _, m := range roster {
		d := float64(m.Skill) - avgSkill
		variance += d * d
	}
	stddev := math.Sqrt(variance / n)
	score := loyaltySum/n/10 + avgSkill*2 - stddev*2
	return max(0, min(30, int(math.Round(score))))
}

// recruit runs the synchronous hiring flow. The whole roster is priced
// before anything is spent, so a refused or unaffordable pick leaves the
// player untouched.
func (e *Engine) recruit(m Mission) (Team, error) {
	candidates := Candidates(e.rng, m.TeamSize+2)
	e.io.Println(console.Highlight, fmt.Sprintf("%s needs a crew of %d. Candidates:", m.Name, m.TeamSize))
	for i, c := range candidates {
		e.io.Println(console.Normal, fmt.Sprintf("  %d. %-10s %-16s skill %d  loyalty %d%%  %.0f BTC", i+1, c.Name, c.Role, c.Skill, c.Loyalty, c.Cost))
	}
	picks, err := console.ReadChoices(e.io, fmt.Sprintf("Pick %d (e.g. 1,3): ", m.TeamSize), m.TeamSize, 1, len(candidates))
	if err != nil {
		return Team{}, err
	}

	roster := make([]TeamMember, 0, len(picks))
	total := 0.0
	for _, p := range picks {
		roster = append(roster, candidates[p-1])
		total += candidates[p-1].Cost
	}
	if !e.player.CanAfford(player.BTC, total) {
		return Team{}, errs.Precondition("crew costs %.2f BTC, you have %.2f", total, e.player.Balance(player.BTC))
	}
	if err := e.player.Spend(player.BTC, total, "recruit:"+m.ID); err != nil {
		return Team{}, err
	}

	team := Team{Recruited: true, Roster: roster, Synergy: Synergy(roster)}
	names := make([]string, len(roster))
	for i, r := range roster {
		names[i] = r.Name
	}
	log.Info("crew recruited", "mission", m.ID, "size", len(roster), "cost", total, "synergy", team.Synergy)
	events.Emit(e.pub, events.TeamRecruited, m.ID, fmt.Sprintf("recruited %v", names), map[string]any{
		"cost":    total,
		"synergy": team.Synergy,
	})
	return team, nil
}

// betrayals gives each disloyal member a chance to walk out with the plan.
func (e *Engine) betrayals(m Mission, team *Team, res *WorkResult) {
	kept := team.Roster[:0]
	for _, member := range team.Roster {
		if member.Loyalty < 50 && dice.Chance(e.rng, float64(50-member.Loyalty)/2) {
			msg := fmt.Sprintf("%s sold you out and vanished", member.Name)
			res.Messages = append(res.Messages, msg)
			e.player.AddHeat(5, "betrayal:"+m.ID)
			res.HeatGained += 5
			log.Warn("crew betrayal", "mission", m.ID, "member", member.Name, "loyalty", member.Loyalty)
			events.Emit(e.pub, events.TeamBetrayal, m.ID, msg, map[string]any{"member": member.Name})
			continue
		}
		kept = append(kept, member)
	}
	team.Roster = kept
	team.Synergy = Synergy(kept)
}
