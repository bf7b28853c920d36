package mission

import (
	"fmt"
	"strings"

	"xss/internal/player"
)

const (
	MinFailChance = 5
	MaxFailChance = 95
)

// Factors is every input to the work-tick fail chance.
type Factors struct {
	Risk      int
	ReqSkills map[string]int
	Skills    map[string]int
	// Equipment is the number of qualifying inventory items.
	Equipment int
	// Minigame is nil when no checkpoint game was played this tick.
	Minigame  *bool
	Heat      int
	Warnings  int
	Completed int
	// Faction is the precomputed alignment modifier.
	Faction int
	HasVPN  bool
	Jitter  int
	Synergy int
}

// Term is one named contribution to the fail chance.
type Term struct {
	Name  string
	Value int
}

// Breakdown shows how a fail chance was reached.
type Breakdown struct {
	Terms []Term
	Raw   int
	Value int
}

func (b Breakdown) String() string {
	parts := make([]string, 0, len(b.Terms))
	for _, t := range b.Terms {
		if t.Value != 0 {
			parts = append(parts, fmt.Sprintf("%s %+d", t.Name, t.Value))
		}
	}
	return fmt.Sprintf("%d%% (%s)", b.Value, strings.Join(parts, ", "))
}

func heatPenalty(heat int) int {
	switch {
	case heat >= 80:
		return 25
	case heat >= 60:
		return 15
	case heat >= 40:
		return 10
	case heat >= 20:
		return 5
	default:
		return 0
	}
}

func progressionPenalty(completed int) int {
	switch {
	case completed >= 30:
		return 20
	case completed >= 20:
		return 15
	case completed >= 10:
		return 10
	case completed >= 5:
		return 5
	default:
		return 0
	}
}

// FailChance sums the additive terms and clamps the result to [5, 95].
func FailChance(f Factors) Breakdown {
	b := Breakdown{}
	add := func(name string, v int) {
		b.Terms = append(b.Terms, Term{Name: name, Value: v})
		b.Raw += v
	}

	add("risk", f.Risk)

	requirement := 0
	for skill, req := range f.ReqSkills {
		diff := f.Skills[skill] - req
		if diff >= 0 {
			requirement -= 3 * diff
		} else {
			requirement += 5 * -diff
		}
	}
	add("requirements", requirement)

	total := 0
	for _, skill := range player.Skills {
		total += f.Skills[skill]
	}
	add("skills", -total)
	add("equipment", -5*f.Equipment)

	if f.Minigame != nil {
		if *f.Minigame {
			add("minigame", -10)
		} else {
			add("minigame", 30)
		}
	}

	add("heat", heatPenalty(f.Heat))
	add("warnings", 10*f.Warnings)
	add("progression", progressionPenalty(f.Completed))
	add("faction", f.Faction)
	if f.HasVPN {
		add("vpn", -10)
	}
	add("jitter", f.Jitter)
	add("synergy", -f.Synergy)

	b.Value = max(MinFailChance, min(MaxFailChance, b.Raw))
	return b
}

// FactionModifier is the alignment term for a mission.
func FactionModifier(playerFaction, missionFaction string) int {
	if missionFaction == "" || playerFaction == "" {
		return 0
	}
	switch {
	case playerFaction == missionFaction:
		return -10
	case playerFaction == player.FactionGrayhats:
		return -5
	case missionFaction == player.FactionGrayhats:
		return 0
	default:
		return 5
	}
}

// equipment items lower the fail chance by 5 each.
var equipment = map[string]bool{
	"gaming_laptop":      true,
	"custom_rig":         true,
	"proxy_chain":        true,
	"hardware_keylogger": true,
	"zero_day_kit":       true,
	"burner_phone":       true,
	"sdr_kit":            true,
}

// EquipmentCount counts qualifying gear and whether any VPN is owned. Only
// one VPN counts.
func EquipmentCount(inventory player.Set) (count int, vpn bool) {
	for _, item := range inventory.Items() {
		if equipment[item] {
			count++
		}
		if strings.Contains(item, "vpn") {
			vpn = true
		}
	}
	return count, vpn
}
