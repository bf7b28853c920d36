package player

import (
	"fmt"
	"strings"
)

// Bonus is a single typed effect on the player. The concrete types below
// are the only implementations; Apply switches over all of them.
type Bonus interface {
	bonus()
}

type SkillBonus struct {
	Skill  string
	Amount int
}

type CurrencyBonus struct {
	Currency string
	Amount   float64
}

type ReputationBonus struct {
	Amount int
}

type HeatDelta struct {
	Amount int
}

type ItemGrant struct {
	ID string
}

type ContactGrant struct {
	ID string
}

func (SkillBonus) bonus()      {}
func (CurrencyBonus) bonus()   {}
func (ReputationBonus) bonus() {}
func (HeatDelta) bonus()       {}
func (ItemGrant) bonus()       {}
func (ContactGrant) bonus()    {}

// Apply applies every bonus in order, attributing the mutations to source.
func (s *State) Apply(source string, bonuses ...Bonus) {
	for _, b := range bonuses {
		switch b := b.(type) {
		case SkillBonus:
			s.ModifySkill(b.Skill, b.Amount, source)
		case CurrencyBonus:
			if b.Amount >= 0 {
				s.Earn(b.Currency, b.Amount, source)
			} else {
				s.Deduct(b.Currency, -b.Amount, source)
			}
		case ReputationBonus:
			s.AddReputation(b.Amount, source)
		case HeatDelta:
			s.AddHeat(b.Amount, source)
		case ItemGrant:
			s.AddItem(b.ID, source)
		case ContactGrant:
			s.AddContact(b.ID, source)
		default:
			panic(fmt.Sprintf("player: unhandled bonus %T", b))
		}
	}
}

// Describe renders a bonus for the player.
func Describe(b Bonus) string {
	switch b := b.(type) {
	case SkillBonus:
		return fmt.Sprintf("%+d %s", b.Amount, b.Skill)
	case CurrencyBonus:
		return fmt.Sprintf("%+.2f %s", b.Amount, b.Currency)
	case ReputationBonus:
		return fmt.Sprintf("%+d reputation", b.Amount)
	case HeatDelta:
		return fmt.Sprintf("%+d heat", b.Amount)
	case ItemGrant:
		return "item " + b.ID
	case ContactGrant:
		return "contact " + b.ID
	}
	return fmt.Sprintf("%v", b)
}

// BonusSpec is the data-file form of a Bonus.
type BonusSpec struct {
	Type   string  `yaml:"type" json:"type"`
	Target string  `yaml:"target,omitempty" json:"target,omitempty"`
	Amount float64 `yaml:"amount,omitempty" json:"amount,omitempty"`
}

// Bonus converts the spec. Unknown types are an error so that typos in
// catalog data surface at load time.
func (b BonusSpec) Bonus() (Bonus, error) {
	switch strings.ToLower(b.Type) {
	case "skill":
		return SkillBonus{Skill: b.Target, Amount: int(b.Amount)}, nil
	case "currency":
		return CurrencyBonus{Currency: strings.ToUpper(b.Target), Amount: b.Amount}, nil
	case "reputation":
		return ReputationBonus{Amount: int(b.Amount)}, nil
	case "heat":
		return HeatDelta{Amount: int(b.Amount)}, nil
	case "item":
		return ItemGrant{ID: b.Target}, nil
	case "contact":
		return ContactGrant{ID: b.Target}, nil
	}
	return nil, fmt.Errorf("unknown bonus type %q", b.Type)
}

// Bonuses converts a list of specs.
func Bonuses(specs []BonusSpec) ([]Bonus, error) {
	out := make([]Bonus, 0, len(specs))
	for _, spec := range specs {
		b, err := spec.Bonus()
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}
