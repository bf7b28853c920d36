package mission

import (
	"encoding/json"
	"fmt"
	"time"
)

// Variant is the per-kind state carried by the active mission. The engine
// dispatches on the concrete type.
type Variant interface {
	Kind() Kind
}

// Standard missions carry no extra state.
type Standard struct{}

// MultiStage tracks the last stage whose rewards were paid.
type MultiStage struct {
	Stage int `json:"stage"`
}

// TeamMember is a recruited specialist.
type TeamMember struct {
	Name    string  `json:"name"`
	Role    string  `json:"role"`
	Skill   int     `json:"skill_level"`
	Loyalty int     `json:"loyalty"`
	Cost    float64 `json:"cost"`
}

// Team is a staged mission run with a recruited crew.
type Team struct {
	Recruited bool         `json:"recruited"`
	Roster    []TeamMember `json:"roster"`
	Synergy   int          `json:"synergy"`
	Stage     int          `json:"stage"`
}

// TimeCritical carries the wall-clock deadline.
type TimeCritical struct {
	Deadline time.Time `json:"deadline"`
	Warned   bool      `json:"warned"`
}

// MoralChoice records the pending or resolved dilemma.
type MoralChoice struct {
	Resolved   bool    `json:"resolved"`
	Choice     string  `json:"choice,omitempty"`
	Multiplier float64 `json:"multiplier"`
}

func (Standard) Kind() Kind     { return KindStandard }
func (MultiStage) Kind() Kind   { return KindMultiStage }
func (Team) Kind() Kind         { return KindTeam }
func (TimeCritical) Kind() Kind { return KindTimeCritical }
func (MoralChoice) Kind() Kind  { return KindMoralChoice }

// Active is the engine's record of the running mission, stored opaquely on
// the player so it survives save and load.
type Active struct {
	MissionID  string
	AcceptedAt time.Time
	Variant    Variant
}

type envelope struct {
	MissionID  string          `json:"mission_id"`
	AcceptedAt time.Time       `json:"accepted_at"`
	Kind       Kind            `json:"kind"`
	State      json.RawMessage `json:"state,omitempty"`
}

func (a Active) MarshalJSON() ([]byte, error) {
	variant := a.Variant
	if variant == nil {
		variant = Standard{}
	}
	state, err := json.Marshal(variant)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{
		MissionID:  a.MissionID,
		AcceptedAt: a.AcceptedAt,
		Kind:       variant.Kind(),
		State:      state,
	})
}

func (a *Active) UnmarshalJSON(data []byte) error {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	variant, err := decodeVariant(env.Kind, env.State)
	if err != nil {
		return err
	}
	a.MissionID = env.MissionID
	a.AcceptedAt = env.AcceptedAt
	a.Variant = variant
	return nil
}

func decodeVariant(kind Kind, state json.RawMessage) (Variant, error) {
	if len(state) == 0 {
		state = []byte("{}")
	}
	switch kind {
	case KindStandard, "":
		return Standard{}, nil
	case KindMultiStage:
		var v MultiStage
		if err := json.Unmarshal(state, &v); err != nil {
			return nil, err
		}
		return v, nil
	case KindTeam:
		var v Team
		if err := json.Unmarshal(state, &v); err != nil {
			return nil, err
		}
		return v, nil
	case KindTimeCritical:
		var v TimeCritical
		if err := json.Unmarshal(state, &v); err != nil {
			return nil, err
		}
		return v, nil
	case KindMoralChoice:
		var v MoralChoice
		if err := json.Unmarshal(state, &v); err != nil {
			return nil, err
		}
		return v, nil
	}
	return nil, fmt.Errorf("unknown mission kind %q", kind)
}
