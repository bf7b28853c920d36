// Package events is the in-process pub/sub that decouples gameplay outcomes
// from statistics and notifications. Publishing is synchronous and never
// fails: a misbehaving subscriber is logged and skipped.
package events

import (
	"sort"
	"sync"
	"time"

	"xss/internal/log"
)

// Type names an event.
type Type string

const (
	MissionAccepted       Type = "mission.accepted"
	MissionStageCompleted Type = "mission.stage_completed"
	MissionCompleted      Type = "mission.completed"
	MissionFailed         Type = "mission.failed"
	MissionTimedOut       Type = "mission.timed_out"
	MissionTimeWarning    Type = "mission.time_warning"
	MissionMoralChoice    Type = "mission.moral_choice"
	TeamRecruited         Type = "team.recruited"
	TeamBetrayal          Type = "team.betrayal"
	NodeConnected         Type = "node.connected"
	NodeDiscovered        Type = "node.discovered"
	NodeCompromised       Type = "node.compromised"
	NetworkEvent          Type = "network.event"
	MinigamePlayed        Type = "minigame.played"
	SkillLevelUp          Type = "skill.levelup"
	AchievementUnlocked   Type = "achievement.unlocked"
	GameSaved             Type = "game.saved"
)

// Event is a published fact.
type Event struct {
	Type    Type           `json:"type"`
	Time    time.Time      `json:"time"`
	Subject string         `json:"subject,omitempty"`
	Message string         `json:"message,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// Handler receives events.
type Handler func(Event)

// Publisher is what gameplay code depends on.
type Publisher interface {
	Publish(event Event)
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(Event)

func (f PublisherFunc) Publish(event Event) {
	if f == nil {
		return
	}
	f(event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(Event) {}

// NopPublisher drops everything.
func NopPublisher() Publisher {
	return nopPublisher{}
}

type subscription struct {
	id      int
	handler Handler
}

// Bus fans events out to subscribers.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	byType map[Type][]subscription
	all    []subscription
	clock  func() time.Time
}

func NewBus() *Bus {
	return &Bus{
		byType: make(map[Type][]subscription),
		clock:  time.Now,
	}
}

// SetClock overrides the timestamp source.
func (b *Bus) SetClock(clock func() time.Time) {
	b.clock = clock
}

// Subscribe registers handler for one event type and returns an unsubscribe func.
func (b *Bus) Subscribe(t Type, handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.byType[t] = append(b.byType[t], subscription{id: id, handler: handler})
	return func() { b.remove(t, id) }
}

// SubscribeAll registers handler for every event.
func (b *Bus) SubscribeAll(handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.all = append(b.all, subscription{id: id, handler: handler})
	return func() { b.remove("", id) }
}

func (b *Bus) remove(t Type, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	filter := func(subs []subscription) []subscription {
		out := subs[:0]
		for _, s := range subs {
			if s.id != id {
				out = append(out, s)
			}
		}
		return out
	}
	if t == "" {
		b.all = filter(b.all)
		return
	}
	b.byType[t] = filter(b.byType[t])
}

// Publish delivers event to type subscribers then catch-all subscribers.
func (b *Bus) Publish(event Event) {
	if event.Time.IsZero() {
		event.Time = b.clock()
	}
	b.mu.RLock()
	subs := make([]subscription, 0, len(b.byType[event.Type])+len(b.all))
	subs = append(subs, b.byType[event.Type]...)
	subs = append(subs, b.all...)
	b.mu.RUnlock()

	sort.SliceStable(subs, func(i, j int) bool { return subs[i].id < subs[j].id })
	for _, s := range subs {
		deliver(s.handler, event)
	}
}

func deliver(handler Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("event subscriber panicked", "event", event.Type, "panic", r)
		}
	}()
	handler(event)
}

// Emit is shorthand for publishing a typed event with data.
func Emit(p Publisher, t Type, subject, message string, data map[string]any) {
	if p == nil {
		return
	}
	p.Publish(Event{Type: t, Subject: subject, Message: message, Data: data})
}
