package player

import (
	"encoding/json"
	"sort"
)

// Set is a set of ids that serializes as a sorted JSON array.
type Set map[string]struct{}

func NewSet(items ...string) Set {
	s := make(Set, len(items))
	for _, item := range items {
		s[item] = struct{}{}
	}
	return s
}

func (s Set) Has(item string) bool {
	_, ok := s[item]
	return ok
}

// Add inserts item and reports whether it was new.
func (s Set) Add(item string) bool {
	if s.Has(item) {
		return false
	}
	s[item] = struct{}{}
	return true
}

func (s Set) Remove(item string) {
	delete(s, item)
}

func (s Set) Len() int {
	return len(s)
}

// Items returns the members in sorted order.
func (s Set) Items() []string {
	items := make([]string, 0, len(s))
	for item := range s {
		items = append(items, item)
	}
	sort.Strings(items)
	return items
}

func (s Set) Clone() Set {
	return NewSet(s.Items()...)
}

func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Items())
}

func (s *Set) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*s = NewSet(items...)
	return nil
}
