// Package player holds the persistent character: skills, balances,
// reputation, heat and the id sets that track progress. Every mutation goes
// through a method so it can be recorded in the mutation log.
package player

import (
	"encoding/json"
	"fmt"
	"sort"

	"xss/internal/errs"
)

// Core skills. Every mini-game trains one of these.
const (
	SkillScanning  = "scanning"
	SkillCracking  = "cracking"
	SkillStealth   = "stealth"
	SkillSocialEng = "social_eng"
)

// Skills lists the core skills in display order.
var Skills = []string{SkillScanning, SkillCracking, SkillStealth, SkillSocialEng}

const (
	MinSkill = 0
	MaxSkill = 10
	MaxHeat  = 100
)

// Currencies.
const (
	BTC = "BTC"
	USD = "USD"
	XMR = "XMR"
	ETH = "ETH"
)

// Factions.
const (
	FactionWhitehats = "whitehats"
	FactionBlackhats = "blackhats"
	FactionGrayhats  = "grayhats"
)

var Factions = []string{FactionWhitehats, FactionBlackhats, FactionGrayhats}

// Mutation is one recorded change to the player.
type Mutation struct {
	Field  string  `json:"field"`
	Key    string  `json:"key,omitempty"`
	Delta  float64 `json:"delta"`
	Value  float64 `json:"value"`
	Source string  `json:"source"`
}

// State is the player_stats document.
type State struct {
	Name              string             `json:"name"`
	Skills            map[string]int     `json:"skills"`
	Currencies        map[string]float64 `json:"currencies"`
	Reputation        int                `json:"reputation"`
	HeatLevel         int                `json:"heat_level"`
	Warnings          int                `json:"warnings"`
	Inventory         Set                `json:"inventory"`
	ActiveMission     string             `json:"active_mission,omitempty"`
	MissionProgress   int                `json:"mission_progress"`
	MissionState      json.RawMessage    `json:"mission_state,omitempty"`
	Faction           string             `json:"faction,omitempty"`
	FactionStanding   map[string]int     `json:"faction_standing"`
	CompletedMissions Set                `json:"completed_missions"`
	Achievements      Set                `json:"achievements"`
	Contacts          Set                `json:"contacts"`
	MoralChoices      map[string]string  `json:"moral_choices"`
	StoryStage        int                `json:"story_stage"`
	CurrentNode       string             `json:"current_node"`
	Turn              int                `json:"turn"`
	TotalEarned       map[string]float64 `json:"total_earned"`
	MissionsFailed    int                `json:"missions_failed"`

	hook func(Mutation)
}

// New returns a fresh character with new-game defaults.
func New(name string) *State {
	s := &State{
		Name:              name,
		Skills:            make(map[string]int, len(Skills)),
		Currencies:        map[string]float64{BTC: 100, USD: 500, XMR: 0, ETH: 0},
		Reputation:        10,
		Inventory:         NewSet("basic_laptop"),
		FactionStanding:   make(map[string]int),
		CompletedMissions: NewSet(),
		Achievements:      NewSet(),
		Contacts:          NewSet(),
		MoralChoices:      make(map[string]string),
		StoryStage:        1,
		CurrentNode:       "localhost",
		TotalEarned:       make(map[string]float64),
	}
	for _, skill := range Skills {
		s.Skills[skill] = 1
	}
	return s
}

// SetMutationHook installs the mutation log callback.
func (s *State) SetMutationHook(hook func(Mutation)) {
	s.hook = hook
}

// Replace overwrites s with other, keeping the installed mutation hook.
func (s *State) Replace(other *State) {
	hook := s.hook
	*s = *other
	s.hook = hook
}

func (s *State) record(m Mutation) {
	if s.hook != nil && m.Delta != 0 {
		s.hook(m)
	}
}

// Normalize backfills nil collections after decoding an older save.
func (s *State) Normalize() {
	if s.Skills == nil {
		s.Skills = make(map[string]int)
	}
	for _, skill := range Skills {
		if _, ok := s.Skills[skill]; !ok {
			s.Skills[skill] = 1
		}
	}
	for skill, level := range s.Skills {
		s.Skills[skill] = clamp(level, MinSkill, MaxSkill)
	}
	if s.Currencies == nil {
		s.Currencies = make(map[string]float64)
	}
	for _, sets := range []*Set{&s.Inventory, &s.CompletedMissions, &s.Achievements, &s.Contacts} {
		if *sets == nil {
			*sets = NewSet()
		}
	}
	if s.FactionStanding == nil {
		s.FactionStanding = make(map[string]int)
	}
	if s.MoralChoices == nil {
		s.MoralChoices = make(map[string]string)
	}
	if s.TotalEarned == nil {
		s.TotalEarned = make(map[string]float64)
	}
	if s.CurrentNode == "" {
		s.CurrentNode = "localhost"
	}
	if s.StoryStage < 1 {
		s.StoryStage = 1
	}
	s.HeatLevel = clamp(s.HeatLevel, 0, MaxHeat)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Skill returns the level of skill (0 when unknown).
func (s *State) Skill(skill string) int {
	return s.Skills[skill]
}

// SkillTotal sums the core skills.
func (s *State) SkillTotal() int {
	total := 0
	for _, skill := range Skills {
		total += s.Skills[skill]
	}
	return total
}

// ModifySkill changes a skill by delta, clamped to [0, 10], and returns the new level.
func (s *State) ModifySkill(skill string, delta int, source string) int {
	old := s.Skills[skill]
	level := clamp(old+delta, MinSkill, MaxSkill)
	s.Skills[skill] = level
	s.record(Mutation{Field: "skill", Key: skill, Delta: float64(level - old), Value: float64(level), Source: source})
	return level
}

// Balance returns the balance of currency.
func (s *State) Balance(currency string) float64 {
	return s.Currencies[currency]
}

// CanAfford reports whether amount of currency can be spent.
func (s *State) CanAfford(currency string, amount float64) bool {
	return amount <= 0 || s.Currencies[currency] >= amount
}

// Spend removes amount or fails with a precondition error leaving the balance untouched.
func (s *State) Spend(currency string, amount float64, source string) error {
	if amount < 0 {
		return errs.Validation("cannot spend a negative amount")
	}
	if !s.CanAfford(currency, amount) {
		return errs.Precondition("insufficient %s: need %.2f, have %.2f", currency, amount, s.Currencies[currency])
	}
	s.Currencies[currency] -= amount
	s.record(Mutation{Field: "currency", Key: currency, Delta: -amount, Value: s.Currencies[currency], Source: source})
	return nil
}

// Earn adds amount to currency.
func (s *State) Earn(currency string, amount float64, source string) {
	if amount <= 0 {
		return
	}
	s.Currencies[currency] += amount
	s.TotalEarned[currency] += amount
	s.record(Mutation{Field: "currency", Key: currency, Delta: amount, Value: s.Currencies[currency], Source: source})
}

// Deduct takes up to amount as a penalty; balances never go negative.
func (s *State) Deduct(currency string, amount float64, source string) float64 {
	if amount <= 0 {
		return 0
	}
	taken := amount
	if have := s.Currencies[currency]; have < taken {
		taken = have
	}
	s.Currencies[currency] -= taken
	s.record(Mutation{Field: "currency", Key: currency, Delta: -taken, Value: s.Currencies[currency], Source: source})
	return taken
}

// AddReputation changes reputation; it never drops below zero.
func (s *State) AddReputation(delta int, source string) {
	old := s.Reputation
	s.Reputation += delta
	if s.Reputation < 0 {
		s.Reputation = 0
	}
	s.record(Mutation{Field: "reputation", Delta: float64(s.Reputation - old), Value: float64(s.Reputation), Source: source})
}

// AddHeat changes the heat level within [0, 100].
func (s *State) AddHeat(delta int, source string) {
	old := s.HeatLevel
	s.HeatLevel = clamp(s.HeatLevel+delta, 0, MaxHeat)
	s.record(Mutation{Field: "heat", Delta: float64(s.HeatLevel - old), Value: float64(s.HeatLevel), Source: source})
}

// DecayHeat cools heat by amount, used once per turn.
func (s *State) DecayHeat(amount int) {
	if s.HeatLevel > 0 && amount > 0 {
		s.AddHeat(-amount, "decay")
	}
}

// AddWarning increments the warning counter.
func (s *State) AddWarning(source string) {
	s.Warnings++
	s.record(Mutation{Field: "warnings", Delta: 1, Value: float64(s.Warnings), Source: source})
}

// AddItem inserts an inventory item; duplicates are ignored.
func (s *State) AddItem(id, source string) bool {
	if !s.Inventory.Add(id) {
		return false
	}
	s.record(Mutation{Field: "inventory", Key: id, Delta: 1, Value: float64(s.Inventory.Len()), Source: source})
	return true
}

func (s *State) HasItem(id string) bool {
	return s.Inventory.Has(id)
}

func (s *State) AddContact(id, source string) bool {
	if !s.Contacts.Add(id) {
		return false
	}
	s.record(Mutation{Field: "contacts", Key: id, Delta: 1, Value: float64(s.Contacts.Len()), Source: source})
	return true
}

// AddAchievement records an achievement and reports whether it is new.
func (s *State) AddAchievement(id string) bool {
	if !s.Achievements.Add(id) {
		return false
	}
	s.record(Mutation{Field: "achievements", Key: id, Delta: 1, Value: float64(s.Achievements.Len()), Source: "achievement"})
	return true
}

// factionPerks are granted once on joining.
var factionPerks = map[string][]Bonus{
	FactionWhitehats: {SkillBonus{SkillScanning, 1}, ReputationBonus{20}, HeatDelta{-10}, ContactGrant{"cert_team_lead"}},
	FactionBlackhats: {SkillBonus{SkillCracking, 1}, CurrencyBonus{BTC, 50}, HeatDelta{5}, ContactGrant{"carding_boss"}},
	FactionGrayhats:  {SkillBonus{SkillStealth, 1}, SkillBonus{SkillSocialEng, 1}, ContactGrant{"bug_bounty_broker"}},
}

// JoinFaction aligns the player with a faction and applies its perks.
func (s *State) JoinFaction(faction string) ([]Bonus, error) {
	perks, ok := factionPerks[faction]
	if !ok {
		return nil, errs.Validation("unknown faction %q (choose %v)", faction, Factions)
	}
	if s.Faction != "" {
		return nil, errs.Precondition("already aligned with the %s", s.Faction)
	}
	if s.Reputation < 20 {
		return nil, errs.Precondition("factions ignore anyone under 20 reputation")
	}
	s.Faction = faction
	s.FactionStanding[faction] += 10
	s.Apply("faction:"+faction, perks...)
	return perks, nil
}

// CompleteMission marks id completed.
func (s *State) CompleteMission(id string) {
	if s.CompletedMissions.Add(id) {
		s.record(Mutation{Field: "completed_missions", Key: id, Delta: 1, Value: float64(s.CompletedMissions.Len()), Source: "mission:" + id})
	}
}

// ClearMission drops the active mission and its progress.
func (s *State) ClearMission() {
	s.ActiveMission = ""
	s.MissionProgress = 0
	s.MissionState = nil
}

// Summary is a one-line description used in logs.
func (s *State) Summary() string {
	currencies := make([]string, 0, len(s.Currencies))
	for c := range s.Currencies {
		currencies = append(currencies, c)
	}
	sort.Strings(currencies)
	out := fmt.Sprintf("%s rep=%d heat=%d", s.Name, s.Reputation, s.HeatLevel)
	for _, c := range currencies {
		out += fmt.Sprintf(" %s=%.2f", c, s.Currencies[c])
	}
	return out
}
