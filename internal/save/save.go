// Package save persists a game as one JSON document. Writes go through a
// temp file and a rename; if the full document cannot be written a
// player-only copy lands next to it with a .simple suffix.
package save

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"xss/internal/errs"
	"xss/internal/log"
	"xss/internal/network"
	"xss/internal/player"
)

// Version is written into every save.
const Version = "1.0.0"

// DefaultFile is used when no path is configured.
const DefaultFile = "xss_save.json"

// Snapshot is the document on disk.
type Snapshot struct {
	PlayerStats   *player.State  `json:"player_stats"`
	SaveTimestamp time.Time      `json:"save_timestamp"`
	GameVersion   string         `json:"game_version"`
	NetworkState  *network.State `json:"network_state,omitempty"`
}

// Result describes a completed save.
type Result struct {
	Path     string
	Degraded bool
	Size     int
	Time     time.Time
}

// Store reads and writes one save slot.
type Store struct {
	path    string
	clock   func() time.Time
	marshal func(any) ([]byte, error)
}

func NewStore(path string) *Store {
	if path == "" {
		path = DefaultFile
	}
	return &Store{
		path:  path,
		clock: time.Now,
		marshal: func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		},
	}
}

func (s *Store) Path() string {
	return s.path
}

// SimplePath is the degraded fallback location.
func (s *Store) SimplePath() string {
	return s.path + ".simple"
}

func (s *Store) SetClock(clock func() time.Time) {
	s.clock = clock
}

// Exists reports whether either save file is present.
func (s *Store) Exists() bool {
	for _, p := range []string{s.path, s.SimplePath()} {
		if _, err := os.Stat(p); err == nil {
			return true
		}
	}
	return false
}

// Save writes the full snapshot, falling back to the player-only file.
func (s *Store) Save(p *player.State, net network.State) (Result, error) {
	now := s.clock().UTC()
	snap := Snapshot{
		PlayerStats:   p,
		SaveTimestamp: now,
		GameVersion:   Version,
		NetworkState:  &net,
	}
	n, err := s.write(s.path, snap)
	if err == nil {
		log.Info("game saved", "path", s.path, "bytes", n)
		return Result{Path: s.path, Size: n, Time: now}, nil
	}
	log.Warn("full save failed, trying simple save", "path", s.path, "error", err)

	snap.NetworkState = nil
	n, simpleErr := s.write(s.SimplePath(), snap)
	if simpleErr != nil {
		return Result{}, errs.Persistence(errors.Join(err, simpleErr), "save to %s failed", s.path)
	}
	log.Warn("simple save written", "path", s.SimplePath(), "bytes", n)
	return Result{Path: s.SimplePath(), Degraded: true, Size: n, Time: now}, nil
}

func (s *Store) write(path string, snap Snapshot) (int, error) {
	data, err := s.marshal(snap)
	if err != nil {
		return 0, fmt.Errorf("marshal save: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("create save directory: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return 0, fmt.Errorf("write temp save: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return 0, fmt.Errorf("replace save: %w", err)
	}
	return len(data) + 1, nil
}

// Load reads the full save, or the simple one when the full file is
// absent. Stats are decoded over a fresh character so fields missing from
// older saves keep their defaults. Nothing outside the returned snapshot
// is touched, so a failed load leaves the running game as it was.
func (s *Store) Load() (*Snapshot, string, error) {
	path := s.path
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		path = s.SimplePath()
		data, err = os.ReadFile(path)
	}
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", errs.Persistence(err, "no save found at %s", s.path)
		}
		return nil, "", errs.Persistence(err, "read %s", path)
	}
	snap, err := Decode(data)
	if err != nil {
		return nil, "", errs.Persistence(err, "decode %s", path)
	}
	log.Info("game loaded", "path", path, "version", snap.GameVersion, "saved", snap.SaveTimestamp)
	return snap, path, nil
}

// Decode parses a save document and merges it over new-game defaults.
func Decode(data []byte) (*Snapshot, error) {
	var raw struct {
		PlayerStats   json.RawMessage `json:"player_stats"`
		SaveTimestamp time.Time       `json:"save_timestamp"`
		GameVersion   string          `json:"game_version"`
		NetworkState  *network.State  `json:"network_state"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if len(raw.PlayerStats) == 0 || string(raw.PlayerStats) == "null" {
		return nil, errors.New("missing player_stats")
	}
	p := player.New("")
	if err := json.Unmarshal(raw.PlayerStats, p); err != nil {
		return nil, fmt.Errorf("player_stats: %w", err)
	}
	p.Normalize()
	if raw.GameVersion != Version {
		log.Warn("save written by another version", "version", raw.GameVersion, "current", Version)
	}
	return &Snapshot{
		PlayerStats:   p,
		SaveTimestamp: raw.SaveTimestamp,
		GameVersion:   raw.GameVersion,
		NetworkState:  raw.NetworkState,
	}, nil
}

// Remove deletes both save files; missing files are not an error.
func (s *Store) Remove() error {
	for _, p := range []string{s.path, s.SimplePath()} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return errs.Persistence(err, "remove %s", p)
		}
	}
	return nil
}
