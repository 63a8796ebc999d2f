package store

import (
	"fmt"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "records: per-fact memory model",
		SQL: `
CREATE TABLE records (
    fact_key    TEXT PRIMARY KEY,

    -- Belief about recall probability at half_life seconds
    alpha       REAL NOT NULL CHECK (alpha > 0),
    beta        REAL NOT NULL CHECK (beta > 0),
    half_life   REAL NOT NULL CHECK (half_life > 0),

    num_drills  INTEGER NOT NULL DEFAULT 0,
    last_time   INTEGER NOT NULL,
    last_result INTEGER CHECK (last_result IN (0, 1)),

    updated_at  INTEGER NOT NULL
);

CREATE INDEX idx_records_last_time ON records(last_time);
`,
	},
	{
		Version:     2,
		Description: "sessions: review session tracking",
		SQL: `
CREATE TABLE sessions (
    id             INTEGER PRIMARY KEY,
    session_id     TEXT NOT NULL UNIQUE,
    mode           TEXT NOT NULL CHECK (mode IN ('learn', 'drill')),
    started_at     INTEGER NOT NULL,
    ended_at       INTEGER,
    status         TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'completed', 'abandoned')),
    card_count     INTEGER NOT NULL DEFAULT 0,
    recalled_count INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX idx_sessions_status     ON sessions(status);
CREATE INDEX idx_sessions_started_at ON sessions(started_at DESC);
`,
	},
	{
		Version:     3,
		Description: "events: append-only review log",
		SQL: `
CREATE TABLE events (
    id         INTEGER PRIMARY KEY,
    fact_key   TEXT NOT NULL,
    session_id TEXT,
    time       INTEGER NOT NULL,
    event      TEXT NOT NULL CHECK (event IN ('LEARN', 'REVIEW', 'DRILL')),
    data       TEXT NOT NULL DEFAULT '{}',

    FOREIGN KEY (session_id) REFERENCES sessions(session_id)
);

CREATE INDEX idx_events_fact    ON events(fact_key);
CREATE INDEX idx_events_session ON events(session_id);
`,
	},
}

func (db *DB) migrate() error {
	// Create schema_versions table if it doesn't exist
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_versions (
			version     INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at  INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}

	for _, m := range migrations {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM schema_versions WHERE version = ?", m.Version).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		err = db.InTx(func(tx *Tx) error {
			if _, err := tx.tx.Exec(m.SQL); err != nil {
				return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
			}
			if _, err := tx.tx.Exec(
				"INSERT INTO schema_versions (version, description) VALUES (?, ?)",
				m.Version, m.Description,
			); err != nil {
				return fmt.Errorf("record migration %d: %w", m.Version, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// SchemaVersion returns the current schema version.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_versions").Scan(&version)
	return version, err
}
