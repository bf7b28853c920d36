// Package mission holds the mission catalog and the engine that runs the
// single active mission through accept, work ticks and resolution.
package mission

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"
	"xss/internal/player"
)

// Kind selects the per-variant handler for a mission.
type Kind string

const (
	KindStandard     Kind = "normal"
	KindMultiStage   Kind = "multi_stage"
	KindTeam         Kind = "team_mission"
	KindTimeCritical Kind = "time_critical"
	KindMoralChoice  Kind = "moral_choice"
)

// Stage is one sub-unit of a staged mission.
type Stage struct {
	Name      string         `yaml:"name" json:"name"`
	Desc      string         `yaml:"desc" json:"desc,omitempty"`
	Duration  int            `yaml:"duration" json:"duration"`
	Risk      int            `yaml:"risk" json:"risk"`
	ReqSkills map[string]int `yaml:"req_skills" json:"req_skills,omitempty"`
	RewardBTC float64        `yaml:"reward_btc" json:"reward_btc,omitempty"`
	RewardRep int            `yaml:"reward_rep" json:"reward_rep,omitempty"`
}

// ChoiceOption is one answer to a moral dilemma.
type ChoiceOption struct {
	Label            string             `yaml:"label" json:"label"`
	Desc             string             `yaml:"desc" json:"desc,omitempty"`
	Effects          []player.BonusSpec `yaml:"effects" json:"effects,omitempty"`
	RewardMultiplier float64            `yaml:"reward_multiplier" json:"reward_multiplier,omitempty"`
}

// Dilemma is the moral choice block of a mission.
type Dilemma struct {
	Prompt    string         `yaml:"prompt" json:"prompt"`
	TriggerAt int            `yaml:"trigger_at" json:"trigger_at"`
	Options   []ChoiceOption `yaml:"options" json:"options"`
}

// Mission is immutable reference data.
type Mission struct {
	ID           string         `yaml:"id" json:"id"`
	Name         string         `yaml:"name" json:"name"`
	Desc         string         `yaml:"desc" json:"desc"`
	Risk         int            `yaml:"risk" json:"risk"`
	Duration     int            `yaml:"duration" json:"duration"`
	RewardBTC    float64        `yaml:"reward_btc" json:"reward_btc"`
	RewardRep    int            `yaml:"reward_rep" json:"reward_rep"`
	RewardSkills map[string]int `yaml:"reward_skills" json:"reward_skills,omitempty"`
	RewardItems  []string       `yaml:"reward_items" json:"reward_items,omitempty"`
	ReqRep       int            `yaml:"req_rep" json:"req_rep"`
	ReqSkills    map[string]int `yaml:"req_skills" json:"req_skills,omitempty"`
	ReqFaction   string         `yaml:"req_faction" json:"req_faction,omitempty"`
	HeatGain     int            `yaml:"heat_gain" json:"heat_gain"`
	StoryStage   int            `yaml:"story_stage" json:"story_stage"`
	UnlocksStage int            `yaml:"unlocks_stage" json:"unlocks_stage,omitempty"`
	Type         Kind           `yaml:"type" json:"type"`
	Stages       []Stage        `yaml:"stages" json:"stages,omitempty"`
	TeamSize     int            `yaml:"team_size" json:"team_size,omitempty"`
	TimeLimit    float64        `yaml:"time_limit" json:"time_limit,omitempty"`
	MoralChoice  *Dilemma       `yaml:"moral_choice" json:"moral_choice,omitempty"`
}

// Staged reports whether progress is split into stages.
func (m Mission) Staged() bool {
	return len(m.Stages) > 0
}

// StageAt returns the index of the stage that tick progress falls in.
func (m Mission) StageAt(progress int) int {
	end := 0
	for i, s := range m.Stages {
		end += s.Duration
		if progress < end {
			return i
		}
	}
	return len(m.Stages) - 1
}

// StageEnd is the cumulative progress at which stage i is finished.
func (m Mission) StageEnd(i int) int {
	end := 0
	for j := 0; j <= i && j < len(m.Stages); j++ {
		end += m.Stages[j].Duration
	}
	return end
}

// TickCost is the BTC charged per work tick, tiered by risk.
func (m Mission) TickCost() float64 {
	switch {
	case m.Risk < 40:
		return 5
	case m.Risk < 60:
		return 10
	case m.Risk < 80:
		return 15
	default:
		return 20
	}
}

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog is the read-only mission table.
type Catalog struct {
	missions map[string]Mission
	order    []string
}

// Default loads the embedded catalog.
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultCatalog))
}

// Load decodes and validates a YAML catalog.
func Load(r io.Reader) (*Catalog, error) {
	var missions []Mission
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&missions); err != nil {
		return nil, fmt.Errorf("decode mission catalog: %w", err)
	}
	return NewCatalog(missions...)
}

// NewCatalog validates missions and fills derived fields.
func NewCatalog(missions ...Mission) (*Catalog, error) {
	c := &Catalog{missions: make(map[string]Mission, len(missions))}
	for _, m := range missions {
		if m.ID == "" {
			return nil, fmt.Errorf("mission %q has no id", m.Name)
		}
		if _, dup := c.missions[m.ID]; dup {
			return nil, fmt.Errorf("duplicate mission id %q", m.ID)
		}
		if m.Type == "" {
			m.Type = KindStandard
		}
		if m.StoryStage < 1 {
			m.StoryStage = 1
		}
		if m.Staged() {
			total := 0
			for i, s := range m.Stages {
				if s.Duration < 1 {
					return nil, fmt.Errorf("mission %q stage %d has no duration", m.ID, i)
				}
				total += s.Duration
			}
			m.Duration = total
		}
		if m.Duration < 1 {
			return nil, fmt.Errorf("mission %q has no duration", m.ID)
		}
		if m.Risk < 0 || m.Risk > 100 {
			return nil, fmt.Errorf("mission %q risk %d out of range", m.ID, m.Risk)
		}
		switch m.Type {
		case KindStandard, KindMultiStage:
		case KindTeam:
			if m.TeamSize < 1 {
				return nil, fmt.Errorf("team mission %q needs team_size", m.ID)
			}
		case KindTimeCritical:
			if m.TimeLimit <= 0 {
				return nil, fmt.Errorf("time critical mission %q needs time_limit", m.ID)
			}
		case KindMoralChoice:
			if m.MoralChoice == nil || len(m.MoralChoice.Options) < 2 {
				return nil, fmt.Errorf("moral choice mission %q needs at least two options", m.ID)
			}
			if m.MoralChoice.TriggerAt >= m.Duration {
				return nil, fmt.Errorf("moral choice mission %q triggers after it ends", m.ID)
			}
			for _, opt := range m.MoralChoice.Options {
				if _, err := player.Bonuses(opt.Effects); err != nil {
					return nil, fmt.Errorf("mission %q option %q: %w", m.ID, opt.Label, err)
				}
			}
		default:
			return nil, fmt.Errorf("mission %q has unknown type %q", m.ID, m.Type)
		}
		c.missions[m.ID] = m
		c.order = append(c.order, m.ID)
	}
	sort.SliceStable(c.order, func(i, j int) bool {
		a, b := c.missions[c.order[i]], c.missions[c.order[j]]
		if a.StoryStage != b.StoryStage {
			return a.StoryStage < b.StoryStage
		}
		return a.ID < b.ID
	})
	return c, nil
}

// Get looks up a mission by id.
func (c *Catalog) Get(id string) (Mission, bool) {
	m, ok := c.missions[id]
	return m, ok
}

// All returns every mission ordered by story stage then id.
func (c *Catalog) All() []Mission {
	out := make([]Mission, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.missions[id])
	}
	return out
}

func (c *Catalog) Len() int {
	return len(c.order)
}
