package stats

// schema is applied on every open; statements are idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		type TEXT NOT NULL,
		subject TEXT DEFAULT '',
		message TEXT DEFAULT '',
		data TEXT DEFAULT '{}',
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_events_type ON events(type)`,
	`CREATE INDEX IF NOT EXISTS idx_events_created ON events(created_at)`,
	`CREATE TABLE IF NOT EXISTS mutations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		field TEXT NOT NULL,
		item TEXT DEFAULT '',
		delta REAL NOT NULL,
		value REAL NOT NULL,
		source TEXT DEFAULT '',
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_mutations_field ON mutations(field, item)`,
}
