package minigame

import (
	"fmt"
	"sort"
	"strings"

	"xss/internal/console"
	"xss/internal/dice"
	"xss/internal/errs"
	"xss/internal/events"
	"xss/internal/log"
	"xss/internal/mission"
	"xss/internal/player"
)

// Hub is the game registry. It also serves mission checkpoints.
type Hub struct {
	games  map[string]Minigame
	order  []string
	player *player.State
	rng    dice.Source
	io     console.IO
	pub    events.Publisher
	sound  console.Sounder
}

// NewHub registers every built-in game.
func NewHub(p *player.State, rng dice.Source, io console.IO, pub events.Publisher) *Hub {
	if pub == nil {
		pub = events.NopPublisher()
	}
	h := &Hub{
		games:  make(map[string]Minigame),
		player: p,
		rng:    rng,
		io:     io,
		pub:    pub,
		sound:  console.Silent{},
	}
	h.Register(All()...)
	return h
}

func (h *Hub) SetSounder(s console.Sounder) {
	h.sound = s
}

// Register adds games, replacing any with the same id.
func (h *Hub) Register(games ...Minigame) {
	for _, g := range games {
		if _, exists := h.games[g.ID()]; !exists {
			h.order = append(h.order, g.ID())
		}
		h.games[g.ID()] = g
	}
	sort.Strings(h.order)
}

func (h *Hub) Get(id string) (Minigame, bool) {
	g, ok := h.games[id]
	return g, ok
}

// IDs lists registered games in id order.
func (h *Hub) IDs() []string {
	return append([]string(nil), h.order...)
}

// All lists registered games in id order.
func (h *Hub) All() []Minigame {
	out := make([]Minigame, 0, len(h.order))
	for _, id := range h.order {
		out = append(out, h.games[id])
	}
	return out
}

// Random picks any registered game.
func (h *Hub) Random() Minigame {
	return h.games[dice.Pick(h.rng, h.order)]
}

// missionKeywords maps words in a mission's name or description to a game.
// The first match wins.
var missionKeywords = []struct {
	keyword string
	game    string
}{
	{"phish", "phishing_spot"},
	{"password", "hash_crack"},
	{"pin", "hash_crack"},
	{"sql", "sql_injection"},
	{"database", "sql_injection"},
	{"wifi", "packet_classify"},
	{"sniff", "packet_classify"},
	{"botnet", "firewall_sequence"},
	{"firewall", "firewall_sequence"},
	{"ransom", "vigenere"},
	{"decrypt", "vigenere"},
	{"recon", "port_match"},
	{"scan", "port_match"},
	{"espionage", "path_finder"},
	{"exfil", "path_finder"},
	{"log", "log_triage"},
	{"exploit", "hex_decode"},
	{"zero-day", "hex_decode"},
	{"wallet", "code_guess"},
	{"bank", "code_guess"},
	{"spam", "caesar"},
}

// ForMission picks a game from keywords in the mission, falling back to a
// random one.
func (h *Hub) ForMission(m mission.Mission) Minigame {
	text := strings.ToLower(m.ID + " " + m.Name + " " + m.Desc)
	for _, k := range missionKeywords {
		if strings.Contains(text, k.keyword) {
			if g, ok := h.games[k.game]; ok {
				return g
			}
		}
	}
	if m.Type == mission.KindTimeCritical {
		if g, ok := h.games["code_guess"]; ok {
			return g
		}
	}
	return h.Random()
}

// DifficultyFor asks g for its difficulty at the player's current skill.
func (h *Hub) DifficultyFor(g Minigame) int {
	return g.Difficulty(h.player.Skill(g.Skill()))
}

// Play runs one round of g.
func (h *Hub) Play(g Minigame) (bool, error) {
	difficulty := h.DifficultyFor(g)
	h.io.Println(console.Highlight, fmt.Sprintf("== %s (difficulty %d) ==", g.Name(), difficulty))
	passed, err := g.Play(Round{IO: h.io, Rng: h.rng, Difficulty: difficulty})
	if err != nil {
		return false, err
	}
	if passed {
		h.sound.Play(console.SoundSuccess)
	} else {
		h.sound.Play(console.SoundFailure)
	}
	log.Info("minigame played", "game", g.ID(), "difficulty", difficulty, "passed", passed)
	events.Emit(h.pub, events.MinigamePlayed, g.ID(), g.Name(), map[string]any{
		"passed":     passed,
		"difficulty": difficulty,
	})
	return passed, nil
}

// Checkpoint plays the game chosen for a mission checkpoint.
func (h *Hub) Checkpoint(m mission.Mission) (string, bool, error) {
	g := h.ForMission(m)
	h.io.Println(console.Warning, "Checkpoint! "+m.Name+" needs your hands on the keyboard.")
	passed, err := h.Play(g)
	return g.ID(), passed, err
}

// TrainResult reports a training session.
type TrainResult struct {
	Game       string
	Passed     bool
	SkillUp    bool
	Skill      string
	Level      int
	BTC        float64
	Reputation int
}

// SkillUpChance is the percent chance a passed training raises a skill.
func SkillUpChance(level int) float64 {
	return float64(max(10, 60-level*5))
}

// TrainingReward shrinks as the skill grows.
func TrainingReward(level int) (btc float64, rep int) {
	return float64(max(1, 12-level)) * 1.5, max(1, (10-level)/2)
}

// Train plays id (or a random game when id is empty) for practice.
func (h *Hub) Train(id string) (TrainResult, error) {
	g := h.Random()
	if id != "" {
		var ok bool
		if g, ok = h.games[id]; !ok {
			return TrainResult{}, errs.Validation("unknown game %q (try: %s)", id, strings.Join(h.order, ", "))
		}
	}
	res := TrainResult{Game: g.ID(), Skill: g.Skill()}
	passed, err := h.Play(g)
	if err != nil {
		return res, err
	}
	res.Passed = passed
	level := h.player.Skill(g.Skill())
	res.Level = level
	if !passed {
		return res, nil
	}

	res.BTC, res.Reputation = TrainingReward(level)
	h.player.Earn(player.BTC, res.BTC, "train:"+g.ID())
	h.player.AddReputation(res.Reputation, "train:"+g.ID())

	if level < player.MaxSkill && dice.Chance(h.rng, SkillUpChance(level)) {
		res.Level = h.player.ModifySkill(g.Skill(), 1, "train:"+g.ID())
		res.SkillUp = true
		h.sound.Play(console.SoundLevelUp)
		events.Emit(h.pub, events.SkillLevelUp, g.Skill(), fmt.Sprintf("%s is now %d", g.Skill(), res.Level), map[string]any{"level": res.Level})
	}
	return res, nil
}
