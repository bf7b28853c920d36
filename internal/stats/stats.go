// Package stats keeps a SQLite history of published events and player
// mutations so a run can be summarised after the fact.
package stats

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"xss/internal/errs"
	"xss/internal/events"
	"xss/internal/log"
	"xss/internal/player"
)

// DefaultFile is used when no path is configured.
const DefaultFile = "xss_stats.db"

const timeLayout = time.RFC3339Nano

// DB is the statistics store.
type DB struct {
	db      *sql.DB
	sb      squirrel.StatementBuilderType
	session string
	clock   func() time.Time
}

// Record is one stored event.
type Record struct {
	ID      string
	Session string
	Type    events.Type
	Subject string
	Message string
	Data    map[string]any
	Time    time.Time
}

// Summary aggregates the whole history.
type Summary struct {
	Sessions   int
	Events     int
	ByType     map[events.Type]int
	Mutations  int
	Earned     map[string]float64
	HeatGained float64
}

// Open creates or opens the database at path and applies the schema.
func Open(path string) (*DB, error) {
	if path == "" {
		path = DefaultFile
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errs.Persistence(err, "open stats db %s", path)
	}
	// one writer; also keeps ":memory:" on a single connection
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errs.Persistence(err, "open stats db %s", path)
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, errs.Persistence(err, "create stats schema")
		}
	}
	s := &DB{
		db:      db,
		sb:      squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		session: uuid.NewString(),
		clock:   time.Now,
	}
	log.Info("stats db opened", "path", path, "session", s.session)
	return s, nil
}

func (s *DB) Close() error {
	return s.db.Close()
}

// Session identifies this run in both tables.
func (s *DB) Session() string {
	return s.session
}

func (s *DB) SetClock(clock func() time.Time) {
	s.clock = clock
}

// RecordEvent stores one event.
func (s *DB) RecordEvent(e events.Event) error {
	data, err := json.Marshal(e.Data)
	if err != nil {
		return fmt.Errorf("encode event data: %w", err)
	}
	at := e.Time
	if at.IsZero() {
		at = s.clock()
	}
	query, args, err := s.sb.Insert("events").
		Columns("id", "session_id", "type", "subject", "message", "data", "created_at").
		Values(uuid.NewString(), s.session, string(e.Type), e.Subject, e.Message, string(data), at.UTC().Format(timeLayout)).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(query, args...); err != nil {
		return errs.Persistence(err, "record event %s", e.Type)
	}
	return nil
}

// RecordMutation stores one player mutation.
func (s *DB) RecordMutation(m player.Mutation) error {
	query, args, err := s.sb.Insert("mutations").
		Columns("session_id", "field", "item", "delta", "value", "source", "created_at").
		Values(s.session, m.Field, m.Key, m.Delta, m.Value, m.Source, s.clock().UTC().Format(timeLayout)).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(query, args...); err != nil {
		return errs.Persistence(err, "record mutation %s", m.Field)
	}
	return nil
}

// Attach records every event published on bus until the returned func is
// called. Write failures are logged; gameplay never sees them.
func (s *DB) Attach(bus *events.Bus) func() {
	return bus.SubscribeAll(func(e events.Event) {
		if err := s.RecordEvent(e); err != nil {
			log.Warn("stats event not recorded", "event", e.Type, "error", err)
		}
	})
}

// MutationHook adapts RecordMutation for player.State.SetMutationHook.
func (s *DB) MutationHook() func(player.Mutation) {
	return func(m player.Mutation) {
		if err := s.RecordMutation(m); err != nil {
			log.Warn("stats mutation not recorded", "field", m.Field, "error", err)
		}
	}
}

// Recent returns the newest events first.
func (s *DB) Recent(limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 10
	}
	query, args, err := s.sb.
		Select("id", "session_id", "type", "subject", "message", "data", "created_at").
		From("events").
		OrderBy("created_at DESC", "rowid DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, errs.Persistence(err, "query recent events")
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			r       Record
			typ     string
			data    string
			created string
		)
		if err := rows.Scan(&r.ID, &r.Session, &typ, &r.Subject, &r.Message, &data, &created); err != nil {
			return nil, errs.Persistence(err, "scan event")
		}
		r.Type = events.Type(typ)
		if data != "" && data != "null" {
			if err := json.Unmarshal([]byte(data), &r.Data); err != nil {
				log.Warn("event data unreadable", "id", r.ID, "error", err)
			}
		}
		if r.Time, err = time.Parse(timeLayout, created); err != nil {
			log.Warn("event time unreadable", "id", r.ID, "error", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Summary aggregates events and mutations across all sessions.
func (s *DB) Summary() (Summary, error) {
	sum := Summary{
		ByType: make(map[events.Type]int),
		Earned: make(map[string]float64),
	}

	query, args, err := s.sb.Select("type", "COUNT(*)").From("events").GroupBy("type").ToSql()
	if err != nil {
		return sum, err
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return sum, errs.Persistence(err, "count events")
	}
	for rows.Next() {
		var (
			typ string
			n   int
		)
		if err := rows.Scan(&typ, &n); err != nil {
			rows.Close()
			return sum, errs.Persistence(err, "scan event count")
		}
		sum.ByType[events.Type(typ)] = n
		sum.Events += n
	}
	rows.Close()

	query, args, err = s.sb.Select("item", "SUM(delta)").
		From("mutations").
		Where(squirrel.Eq{"field": "currency"}).
		Where(squirrel.Gt{"delta": 0}).
		GroupBy("item").
		ToSql()
	if err != nil {
		return sum, err
	}
	rows, err = s.db.Query(query, args...)
	if err != nil {
		return sum, errs.Persistence(err, "sum earnings")
	}
	for rows.Next() {
		var (
			currency string
			total    float64
		)
		if err := rows.Scan(&currency, &total); err != nil {
			rows.Close()
			return sum, errs.Persistence(err, "scan earnings")
		}
		sum.Earned[currency] = total
	}
	rows.Close()

	query, args, err = s.sb.Select("COUNT(*)", "COALESCE(SUM(CASE WHEN field = 'heat' AND delta > 0 THEN delta ELSE 0 END), 0)").
		From("mutations").
		ToSql()
	if err != nil {
		return sum, err
	}
	if err := s.db.QueryRow(query, args...).Scan(&sum.Mutations, &sum.HeatGained); err != nil {
		return sum, errs.Persistence(err, "count mutations")
	}

	query, args, err = s.sb.Select("COUNT(DISTINCT session_id)").From("events").ToSql()
	if err != nil {
		return sum, err
	}
	if err := s.db.QueryRow(query, args...).Scan(&sum.Sessions); err != nil {
		return sum, errs.Persistence(err, "count sessions")
	}
	return sum, nil
}
