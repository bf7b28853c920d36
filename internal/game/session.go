// Package game owns a play session: the player, the network, the mission
// engine, the mini-game hub and the event bus, plus the command loop that
// drives them.
package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"xss/internal/api"
	"xss/internal/console"
	"xss/internal/dice"
	"xss/internal/errs"
	"xss/internal/events"
	"xss/internal/log"
	"xss/internal/minigame"
	"xss/internal/mission"
	"xss/internal/network"
	"xss/internal/player"
	"xss/internal/save"
	"xss/internal/stats"
)

// Options configures a session. IO is required; everything else has a
// default or is optional.
type Options struct {
	Name          string
	Rng           dice.Source
	IO            console.IO
	Sound         console.Sounder
	Catalog       *mission.Catalog
	Store         *save.Store
	Stats         *stats.DB
	Clock         func() time.Time
	Checkpoints   bool
	AutosaveTurns int
	HeatDecay     int
	UI            api.UIAPI
}

// Session is the single owner of all game state.
type Session struct {
	player  *player.State
	bus     *events.Bus
	network *network.Graph
	engine  *mission.Engine
	hub     *minigame.Hub

	store *save.Store
	stats *stats.DB
	io    console.IO
	sound console.Sounder
	rng   dice.Source
	clock func() time.Time
	state *StateManager

	autosaveTurns int
	heatDecay     int
	commands      map[string]*command
	unsubscribe   []func()
	quit          bool
}

// New wires a fresh game.
func New(opts Options) (*Session, error) {
	if opts.IO == nil {
		return nil, errors.New("game: IO is required")
	}
	if opts.Rng == nil {
		opts.Rng = dice.New(0)
	}
	if opts.Sound == nil {
		opts.Sound = console.Silent{}
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Catalog == nil {
		catalog, err := mission.Default()
		if err != nil {
			return nil, fmt.Errorf("load mission catalog: %w", err)
		}
		opts.Catalog = catalog
	}
	if opts.Name == "" {
		opts.Name = "anon"
	}

	s := &Session{
		player:        player.New(opts.Name),
		bus:           events.NewBus(),
		store:         opts.Store,
		stats:         opts.Stats,
		io:            opts.IO,
		sound:         opts.Sound,
		rng:           opts.Rng,
		clock:         opts.Clock,
		state:         NewStateManager(opts.UI),
		autosaveTurns: opts.AutosaveTurns,
		heatDecay:     opts.HeatDecay,
	}
	s.bus.SetClock(opts.Clock)
	s.network = network.New(s.player, s.rng, s.bus)
	s.engine = mission.NewEngine(opts.Catalog, s.player, s.rng, s.io, s.bus)
	s.engine.SetClock(opts.Clock)
	s.hub = minigame.NewHub(s.player, s.rng, s.io, s.bus)
	s.hub.SetSounder(s.sound)
	if opts.Checkpoints {
		s.engine.SetCheckpoint(s.hub)
	}

	if s.stats != nil {
		s.unsubscribe = append(s.unsubscribe, s.stats.Attach(s.bus))
		s.player.SetMutationHook(s.stats.MutationHook())
	}
	s.unsubscribe = append(s.unsubscribe,
		s.bus.Subscribe(events.MissionTimeWarning, func(events.Event) { s.sound.Play(console.SoundAlert) }),
		s.bus.Subscribe(events.TeamBetrayal, func(events.Event) { s.sound.Play(console.SoundAlert) }),
	)
	s.commands = newCommandTable()
	s.notify()
	log.Info("session started", "player", s.player.Name, "missions", opts.Catalog.Len())
	return s, nil
}

// Close detaches subscribers. The stats DB is owned by the caller.
func (s *Session) Close() {
	for _, fn := range s.unsubscribe {
		fn()
	}
	s.unsubscribe = nil
}

func (s *Session) Player() *player.State     { return s.player }
func (s *Session) Network() *network.Graph   { return s.network }
func (s *Session) Missions() *mission.Engine { return s.engine }
func (s *Session) Hub() *minigame.Hub        { return s.hub }
func (s *Session) Bus() *events.Bus          { return s.bus }

// Status snapshots the player for the UI.
func (s *Session) Status() api.StatusInfo {
	p := s.player
	st := api.StatusInfo{
		Name:        p.Name,
		Turn:        p.Turn,
		Balances:    make(map[string]float64, len(p.Currencies)),
		Reputation:  p.Reputation,
		Heat:        p.HeatLevel,
		Warnings:    p.Warnings,
		Faction:     p.Faction,
		StoryStage:  p.StoryStage,
		Skills:      make(map[string]int, len(p.Skills)),
		Node:        p.CurrentNode,
		Discovered:  len(s.network.Discovered()),
		Compromised: s.network.CompromisedCount(),
		Completed:   p.CompletedMissions.Len(),
	}
	for c, v := range p.Currencies {
		st.Balances[c] = v
	}
	for k, v := range p.Skills {
		st.Skills[k] = v
	}
	if m, _, ok := s.engine.Active(); ok {
		st.Mission = m.Name
		st.Progress = p.MissionProgress
		st.Duration = m.Duration
	}
	return st
}

func (s *Session) notify() {
	s.state.SetCurrentNode(s.network.Current(), s.network)
	s.state.SetStatus(s.Status())
}

// Execute runs one command line and reports whether the session is over.
func (s *Session) Execute(line string) bool {
	name, args := parseLine(line)
	if name == "" {
		return s.quit
	}
	cmd, ok := s.commands[name]
	if !ok {
		s.io.Println(console.Warning, fmt.Sprintf("Unknown command %q. Type help.", name))
		return s.quit
	}
	log.Debug("command", "name", cmd.name, "args", args)

	err := cmd.run(s, args)
	if err != nil {
		s.report(err)
	}
	if cmd.turn && err == nil {
		s.endTurn()
	}
	s.checkAchievements()
	s.notify()
	return s.quit
}

func parseLine(line string) (string, []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return strings.ToLower(fields[0]), fields[1:]
}

// report renders err once, coloured by kind. EOF ends the session.
func (s *Session) report(err error) {
	if errors.Is(err, io.EOF) {
		s.quit = true
		return
	}
	switch errs.KindOf(err) {
	case errs.KindPrecondition, errs.KindValidation:
		s.io.Println(console.Warning, err.Error())
	case errs.KindIntegrity:
		s.io.Println(console.Muted, err.Error())
	case errs.KindPersistence:
		s.io.Println(console.Danger, err.Error())
	default:
		log.Error("command failed", "error", err)
		s.io.Println(console.Danger, "error: "+err.Error())
	}
}

// endTurn advances the clock after an action that took time.
func (s *Session) endTurn() {
	s.player.Turn++
	s.player.DecayHeat(s.heatDecay)
	for _, msg := range s.network.Tick() {
		s.io.Println(console.Muted, "[net] "+msg)
	}
	if s.store != nil && s.autosaveTurns > 0 && s.player.Turn%s.autosaveTurns == 0 {
		if _, err := s.Save(); err != nil {
			log.Warn("autosave failed", "turn", s.player.Turn, "error", err)
		}
	}
}

// Save writes the current game.
func (s *Session) Save() (save.Result, error) {
	if s.store == nil {
		return save.Result{}, errs.Precondition("saving is disabled")
	}
	res, err := s.store.Save(s.player, s.network.State())
	if err != nil {
		return res, err
	}
	events.Emit(s.bus, events.GameSaved, res.Path, "game saved", map[string]any{
		"degraded": res.Degraded,
		"bytes":    res.Size,
	})
	return res, nil
}

// Load replaces the running game with the saved one. On error nothing changes.
func (s *Session) Load() (*save.Snapshot, error) {
	if s.store == nil {
		return nil, errs.Precondition("saving is disabled")
	}
	snap, _, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	s.player.Replace(snap.PlayerStats)
	g := network.New(s.player, s.rng, s.bus)
	if snap.NetworkState != nil {
		g.Restore(*snap.NetworkState)
	} else {
		g.Restore(g.State())
	}
	s.network = g

	if id := s.player.ActiveMission; id != "" {
		if _, ok := s.engine.Catalog().Get(id); !ok {
			log.Warn("saved active mission no longer exists", "mission", id)
			s.player.ClearMission()
		}
	}
	s.notify()
	return snap, nil
}

const banner = `
 __  __ ____ ____
 \ \/ // ___/ ___|
  \  / \___ \___ \
  /  \  ___) |__) |
 /_/\_\|____/____/   underground since '09
`

// Run reads commands until quit, EOF or ctx is done.
func (s *Session) Run(ctx context.Context) error {
	s.io.Println(console.Highlight, banner)
	s.io.Println(console.Info, fmt.Sprintf("Welcome back, %s. Type help to see what you can do.", s.player.Name))
	for !s.quit {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := s.io.ReadLine(fmt.Sprintf("%s@%s> ", s.player.Name, s.player.CurrentNode))
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		s.Execute(line)
	}
	return nil
}
