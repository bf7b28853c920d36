package mission

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"xss/internal/console"
	"xss/internal/dice"
	"xss/internal/errs"
	"xss/internal/events"
	"xss/internal/log"
	"xss/internal/player"
)

// Checkpoint plays the mini-game launched at a mission checkpoint.
type Checkpoint interface {
	Checkpoint(m Mission) (game string, passed bool, err error)
}

// Outcome is how a work tick ended.
type Outcome int

const (
	OutcomeProgress Outcome = iota
	OutcomeCompleted
	OutcomeFailed
	OutcomeTimedOut
)

func (o Outcome) String() string {
	switch o {
	case OutcomeProgress:
		return "progress"
	case OutcomeCompleted:
		return "completed"
	case OutcomeFailed:
		return "failed"
	case OutcomeTimedOut:
		return "timed out"
	}
	return "unknown"
}

// WorkResult reports one work tick. A failed roll is an outcome, not an error.
type WorkResult struct {
	Mission        string
	Name           string
	Outcome        Outcome
	Cost           float64
	Progress       int
	Duration       int
	Stage          string
	StageCompleted []string
	Minigame       string
	MinigamePassed *bool
	Breakdown      Breakdown
	Roll           int
	HeatGained     int
	ReputationLost int
	Rewards        []player.Bonus
	Messages       []string
}

// Engine runs the single active mission. Its per-mission state lives on the
// player so it is saved with everything else.
type Engine struct {
	catalog    *Catalog
	player     *player.State
	rng        dice.Source
	io         console.IO
	pub        events.Publisher
	checkpoint Checkpoint
	clock      func() time.Time
}

func NewEngine(catalog *Catalog, p *player.State, rng dice.Source, io console.IO, pub events.Publisher) *Engine {
	if pub == nil {
		pub = events.NopPublisher()
	}
	return &Engine{
		catalog: catalog,
		player:  p,
		rng:     rng,
		io:      io,
		pub:     pub,
		clock:   time.Now,
	}
}

// SetCheckpoint installs the checkpoint mini-game runner; nil disables checkpoints.
func (e *Engine) SetCheckpoint(cp Checkpoint) {
	e.checkpoint = cp
}

func (e *Engine) SetClock(clock func() time.Time) {
	e.clock = clock
}

func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// ListAvailable filters the catalog by story stage, faction and completion.
// Skill and reputation gates are left to CheckRequirements.
func (e *Engine) ListAvailable() []Mission {
	var out []Mission
	for _, m := range e.catalog.All() {
		if m.StoryStage > e.player.StoryStage {
			continue
		}
		if m.ReqFaction != "" && m.ReqFaction != e.player.Faction {
			continue
		}
		if e.player.CompletedMissions.Has(m.ID) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// CheckRequirements lists unmet reputation, skill and faction gates.
func (e *Engine) CheckRequirements(m Mission) []string {
	var unmet []string
	if e.player.Reputation < m.ReqRep {
		unmet = append(unmet, fmt.Sprintf("reputation %d/%d", e.player.Reputation, m.ReqRep))
	}
	skills := make([]string, 0, len(m.ReqSkills))
	for skill := range m.ReqSkills {
		skills = append(skills, skill)
	}
	sort.Strings(skills)
	for _, skill := range skills {
		if have := e.player.Skill(skill); have < m.ReqSkills[skill] {
			unmet = append(unmet, fmt.Sprintf("%s %d/%d", skill, have, m.ReqSkills[skill]))
		}
	}
	if m.ReqFaction != "" && m.ReqFaction != e.player.Faction {
		unmet = append(unmet, "faction "+m.ReqFaction)
	}
	return unmet
}

func newVariant(m Mission, now time.Time) Variant {
	switch m.Type {
	case KindMultiStage:
		return MultiStage{}
	case KindTeam:
		return Team{}
	case KindTimeCritical:
		return TimeCritical{Deadline: now.Add(time.Duration(m.TimeLimit * float64(time.Hour)))}
	case KindMoralChoice:
		return MoralChoice{Multiplier: 1}
	default:
		return Standard{}
	}
}

// Accept makes id the active mission.
func (e *Engine) Accept(id string) (Mission, error) {
	if e.player.ActiveMission != "" {
		return Mission{}, errs.Precondition("mission %q is already active", e.player.ActiveMission)
	}
	m, ok := e.catalog.Get(id)
	if !ok {
		return Mission{}, errs.Precondition("unknown mission %q", id)
	}
	if e.player.CompletedMissions.Has(id) {
		return Mission{}, errs.Precondition("%s is already done", m.Name)
	}
	if m.StoryStage > e.player.StoryStage {
		return Mission{}, errs.Precondition("%s is locked until story stage %d", m.Name, m.StoryStage)
	}
	if unmet := e.CheckRequirements(m); len(unmet) > 0 {
		return Mission{}, errs.Precondition("requirements not met: %s", strings.Join(unmet, ", "))
	}

	now := e.clock()
	e.player.ActiveMission = m.ID
	e.player.MissionProgress = 0
	e.storeActive(Active{MissionID: m.ID, AcceptedAt: now, Variant: newVariant(m, now)})

	log.Info("mission accepted", "mission", m.ID, "type", m.Type, "risk", m.Risk, "duration", m.Duration)
	events.Emit(e.pub, events.MissionAccepted, m.ID, "accepted "+m.Name, map[string]any{"type": string(m.Type)})
	return m, nil
}

// Active returns the running mission and its variant state.
func (e *Engine) Active() (Mission, Active, bool) {
	if e.player.ActiveMission == "" {
		return Mission{}, Active{}, false
	}
	m, ok := e.catalog.Get(e.player.ActiveMission)
	if !ok {
		return Mission{}, Active{}, false
	}
	return m, e.loadActive(m), true
}

func (e *Engine) loadActive(m Mission) Active {
	if len(e.player.MissionState) > 0 {
		var a Active
		err := json.Unmarshal(e.player.MissionState, &a)
		if err == nil && a.MissionID == m.ID && a.Variant.Kind() == m.Type {
			return a
		}
		log.Warn("discarding mismatched mission state", "mission", m.ID, "error", err)
	}
	now := e.clock()
	return Active{MissionID: m.ID, AcceptedAt: now, Variant: newVariant(m, now)}
}

func (e *Engine) storeActive(a Active) {
	data, err := json.Marshal(a)
	if err != nil {
		log.Error("encode mission state", "mission", a.MissionID, "error", err)
		return
	}
	e.player.MissionState = data
}

func isCheckpoint(tick, duration int) bool {
	return tick == (duration+1)/2 || tick == duration
}

// Work advances the active mission by one tick.
func (e *Engine) Work() (WorkResult, error) {
	id := e.player.ActiveMission
	if id == "" {
		return WorkResult{}, errs.Precondition("no active mission")
	}
	m, ok := e.catalog.Get(id)
	if !ok {
		log.Warn("active mission missing from catalog", "mission", id)
		e.player.ClearMission()
		return WorkResult{}, errs.Integrity("active mission %q no longer exists and was dropped", id)
	}

	active := e.loadActive(m)
	res := WorkResult{Mission: m.ID, Name: m.Name, Progress: e.player.MissionProgress, Duration: m.Duration}

	if tc, ok := active.Variant.(TimeCritical); ok {
		now := e.clock()
		if !now.Before(tc.Deadline) {
			return e.timeout(m, res), nil
		}
		window := time.Duration(m.TimeLimit * float64(time.Hour))
		if remaining := tc.Deadline.Sub(now); !tc.Warned && remaining <= window/4 {
			tc.Warned = true
			active.Variant = tc
			msg := fmt.Sprintf("%s left on %s", remaining.Round(time.Minute), m.Name)
			res.Messages = append(res.Messages, msg)
			events.Emit(e.pub, events.MissionTimeWarning, m.ID, msg, map[string]any{"remaining_seconds": remaining.Seconds()})
		}
	}

	if e.player.MissionProgress >= m.Duration {
		return e.complete(m, active, res), nil
	}

	switch v := active.Variant.(type) {
	case Team:
		if !v.Recruited {
			team, err := e.recruit(m)
			if err != nil {
				return res, err
			}
			v = team
		}
		e.betrayals(m, &v, &res)
		active.Variant = v
	case MoralChoice:
		if !v.Resolved && e.player.MissionProgress >= m.MoralChoice.TriggerAt {
			resolved, err := e.resolveDilemma(m, &res)
			if err != nil {
				e.storeActive(active)
				return res, err
			}
			active.Variant = resolved
		}
	}

	cost := m.TickCost()
	if !e.player.CanAfford(player.BTC, cost) {
		e.storeActive(active)
		return res, errs.Precondition("this step costs %.0f BTC, you have %.2f", cost, e.player.Balance(player.BTC))
	}

	// The checkpoint runs before the step is paid for; EOF ends the step
	// with nothing spent and no roll.
	if e.checkpoint != nil && isCheckpoint(e.player.MissionProgress+1, m.Duration) {
		game, passed, err := e.checkpoint.Checkpoint(m)
		switch {
		case errors.Is(err, io.EOF):
			e.storeActive(active)
			return res, err
		case err != nil:
			log.Warn("checkpoint game aborted", "mission", m.ID, "game", game, "error", err)
		default:
			res.Minigame = game
			res.MinigamePassed = &passed
		}
	}

	if err := e.player.Spend(player.BTC, cost, "work:"+m.ID); err != nil {
		e.storeActive(active)
		return res, err
	}
	res.Cost = cost

	risk, reqSkills := m.Risk, m.ReqSkills
	if m.Staged() {
		s := m.Stages[m.StageAt(e.player.MissionProgress)]
		res.Stage = s.Name
		if s.Risk > 0 {
			risk = s.Risk
		}
		if len(s.ReqSkills) > 0 {
			reqSkills = s.ReqSkills
		}
	}

	gear, vpn := EquipmentCount(e.player.Inventory)
	factors := Factors{
		Risk:      risk,
		ReqSkills: reqSkills,
		Skills:    e.player.Skills,
		Equipment: gear,
		Minigame:  res.MinigamePassed,
		Heat:      e.player.HeatLevel,
		Warnings:  e.player.Warnings,
		Completed: e.player.CompletedMissions.Len(),
		Faction:   FactionModifier(e.player.Faction, m.ReqFaction),
		HasVPN:    vpn,
		Jitter:    dice.Between(e.rng, -5, 5),
	}
	if team, ok := active.Variant.(Team); ok {
		factors.Synergy = team.Synergy
	}
	res.Breakdown = FailChance(factors)
	res.Roll = dice.Between(e.rng, 1, 100)

	log.Info("mission work roll", "mission", m.ID, "fail_chance", res.Breakdown.Value, "roll", res.Roll, "progress", e.player.MissionProgress)
	if res.Roll <= res.Breakdown.Value {
		return e.fail(m, res), nil
	}

	e.player.MissionProgress++
	res.Progress = e.player.MissionProgress
	switch v := active.Variant.(type) {
	case MultiStage:
		e.advanceStages(m, &v.Stage, &res)
		active.Variant = v
	case Team:
		e.advanceStages(m, &v.Stage, &res)
		active.Variant = v
	}

	if e.player.MissionProgress >= m.Duration {
		return e.complete(m, active, res), nil
	}
	e.storeActive(active)
	res.Outcome = OutcomeProgress
	return res, nil
}

// advanceStages pays out every stage that progress has now finished.
func (e *Engine) advanceStages(m Mission, stage *int, res *WorkResult) {
	for *stage < len(m.Stages) && e.player.MissionProgress >= m.StageEnd(*stage) {
		s := m.Stages[*stage]
		var rewards []player.Bonus
		if s.RewardBTC > 0 {
			rewards = append(rewards, player.CurrencyBonus{Currency: player.BTC, Amount: s.RewardBTC})
		}
		if s.RewardRep > 0 {
			rewards = append(rewards, player.ReputationBonus{Amount: s.RewardRep})
		}
		e.player.Apply("stage:"+m.ID, rewards...)
		res.Rewards = append(res.Rewards, rewards...)
		res.StageCompleted = append(res.StageCompleted, s.Name)
		log.Info("mission stage completed", "mission", m.ID, "stage", s.Name, "index", *stage)
		events.Emit(e.pub, events.MissionStageCompleted, m.ID, s.Name, map[string]any{"stage": *stage})
		*stage++
	}
}

func (e *Engine) resolveDilemma(m Mission, res *WorkResult) (MoralChoice, error) {
	d := m.MoralChoice
	e.io.Println(console.Warning, d.Prompt)
	for i, opt := range d.Options {
		line := fmt.Sprintf("  %d. %s", i+1, opt.Label)
		if opt.Desc != "" {
			line += " - " + opt.Desc
		}
		e.io.Println(console.Normal, line)
	}
	choice, err := console.ReadChoice(e.io, "Your call: ", 1, len(d.Options))
	if err != nil {
		return MoralChoice{}, err
	}
	opt := d.Options[choice-1]
	bonuses, err := player.Bonuses(opt.Effects)
	if err != nil {
		return MoralChoice{}, errs.Integrity("mission %s option %q: %v", m.ID, opt.Label, err)
	}
	e.player.Apply("moral:"+m.ID, bonuses...)
	res.Rewards = append(res.Rewards, bonuses...)
	if e.player.MoralChoices == nil {
		e.player.MoralChoices = make(map[string]string)
	}
	e.player.MoralChoices[m.ID] = opt.Label

	multiplier := opt.RewardMultiplier
	if multiplier <= 0 {
		multiplier = 1
	}
	res.Messages = append(res.Messages, "you chose: "+opt.Label)
	log.Info("moral choice made", "mission", m.ID, "choice", opt.Label, "multiplier", multiplier)
	events.Emit(e.pub, events.MissionMoralChoice, m.ID, opt.Label, map[string]any{"multiplier": multiplier})
	return MoralChoice{Resolved: true, Choice: opt.Label, Multiplier: multiplier}, nil
}

func (e *Engine) fail(m Mission, res WorkResult) WorkResult {
	heat := float64(m.HeatGain) * 1.5
	if e.player.HeatLevel > 50 {
		heat *= 1.2
	}
	res.HeatGained += int(math.Round(heat))
	e.player.AddHeat(int(math.Round(heat)), "failed:"+m.ID)
	e.player.AddWarning("failed:" + m.ID)
	res.ReputationLost = dice.Between(e.rng, 5, 15)
	e.player.AddReputation(-res.ReputationLost, "failed:"+m.ID)
	e.player.MissionsFailed++
	e.player.ClearMission()

	res.Outcome = OutcomeFailed
	log.Info("mission failed", "mission", m.ID, "roll", res.Roll, "fail_chance", res.Breakdown.Value)
	events.Emit(e.pub, events.MissionFailed, m.ID, "failed "+m.Name, map[string]any{"roll": res.Roll, "fail_chance": res.Breakdown.Value})
	return res
}

func (e *Engine) timeout(m Mission, res WorkResult) WorkResult {
	res.ReputationLost = 10 + m.Risk/10
	e.player.AddReputation(-res.ReputationLost, "timeout:"+m.ID)
	res.HeatGained = m.HeatGain
	e.player.AddHeat(m.HeatGain, "timeout:"+m.ID)
	e.player.MissionsFailed++
	e.player.ClearMission()

	res.Outcome = OutcomeTimedOut
	log.Info("mission timed out", "mission", m.ID)
	events.Emit(e.pub, events.MissionTimedOut, m.ID, m.Name+" ran out of time", nil)
	return res
}

// ScaleSkillReward shrinks skill rewards at high levels.
func ScaleSkillReward(level, amount int) int {
	switch {
	case level >= 8:
		return amount / 3
	case level >= 5:
		return (amount + 1) / 2
	default:
		return amount
	}
}

func (e *Engine) complete(m Mission, active Active, res WorkResult) WorkResult {
	multiplier := 1.0
	if mc, ok := active.Variant.(MoralChoice); ok && mc.Resolved {
		multiplier = mc.Multiplier
	}

	var rewards []player.Bonus
	if btc := m.RewardBTC * multiplier; btc > 0 {
		rewards = append(rewards, player.CurrencyBonus{Currency: player.BTC, Amount: btc})
	}
	if m.RewardRep > 0 {
		rewards = append(rewards, player.ReputationBonus{Amount: m.RewardRep})
	}
	skills := make([]string, 0, len(m.RewardSkills))
	for skill := range m.RewardSkills {
		skills = append(skills, skill)
	}
	sort.Strings(skills)
	for _, skill := range skills {
		if amount := ScaleSkillReward(e.player.Skill(skill), m.RewardSkills[skill]); amount > 0 {
			rewards = append(rewards, player.SkillBonus{Skill: skill, Amount: amount})
		}
	}
	for _, item := range m.RewardItems {
		rewards = append(rewards, player.ItemGrant{ID: item})
	}
	if m.HeatGain != 0 {
		rewards = append(rewards, player.HeatDelta{Amount: m.HeatGain})
	}

	before := make(map[string]int, len(skills))
	for _, skill := range skills {
		before[skill] = e.player.Skill(skill)
	}
	e.player.Apply("mission:"+m.ID, rewards...)
	e.player.CompleteMission(m.ID)
	if m.UnlocksStage > e.player.StoryStage {
		e.player.StoryStage = m.UnlocksStage
		res.Messages = append(res.Messages, fmt.Sprintf("story stage %d unlocked", m.UnlocksStage))
	}
	e.player.ClearMission()

	for _, skill := range skills {
		if after := e.player.Skill(skill); after > before[skill] {
			events.Emit(e.pub, events.SkillLevelUp, skill, fmt.Sprintf("%s is now %d", skill, after), map[string]any{"level": after})
		}
	}

	res.Rewards = append(res.Rewards, rewards...)
	res.Outcome = OutcomeCompleted
	res.Progress = m.Duration
	log.Info("mission completed", "mission", m.ID, "btc", m.RewardBTC*multiplier)
	events.Emit(e.pub, events.MissionCompleted, m.ID, "completed "+m.Name, map[string]any{"btc": m.RewardBTC * multiplier})
	return res
}
