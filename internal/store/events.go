package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// EventKind names a review log entry.
type EventKind string

const (
	EventLearn  EventKind = "LEARN"
	EventReview EventKind = "REVIEW"
	EventDrill  EventKind = "DRILL"
)

// Event is one entry of the append-only review log.
type Event struct {
	ID        int64           `json:"id"`
	FactKey   string          `json:"fact_key"`
	SessionID string          `json:"session_id,omitempty"` // empty outside a session
	Time      int64           `json:"time"`
	Kind      EventKind       `json:"event"`
	Data      json.RawMessage `json:"data"`
}

// AppendEvent writes an event and returns its id.
func (db *DB) AppendEvent(e Event) (int64, error) {
	return appendEvent(db.DB, e)
}

// AppendEvent is AppendEvent within the transaction.
func (t *Tx) AppendEvent(e Event) (int64, error) {
	return appendEvent(t.tx, e)
}

func appendEvent(q queryer, e Event) (int64, error) {
	data := e.Data
	if len(data) == 0 {
		data = json.RawMessage("{}")
	}
	var session sql.NullString
	if e.SessionID != "" {
		session = sql.NullString{String: e.SessionID, Valid: true}
	}
	res, err := q.Exec(`
		INSERT INTO events (fact_key, session_id, time, event, data)
		VALUES (?, ?, ?, ?, ?)
	`, e.FactKey, session, e.Time, string(e.Kind), string(data))
	if err != nil {
		return 0, fmt.Errorf("append event: %w", err)
	}
	return res.LastInsertId()
}

// EventsFor returns the events of one fact in log order.
func (db *DB) EventsFor(key string) ([]Event, error) {
	return db.queryEvents(`WHERE fact_key = ? ORDER BY id`, key)
}

// Events returns the whole log in order.
func (db *DB) Events() ([]Event, error) {
	return db.queryEvents(`ORDER BY id`)
}

// EventKeys returns the distinct fact keys that appear in the log, sorted.
func (db *DB) EventKeys() ([]string, error) {
	return stringColumn(db.DB, `SELECT DISTINCT fact_key FROM events ORDER BY fact_key`)
}

func (db *DB) queryEvents(where string, args ...any) ([]Event, error) {
	rows, err := db.Query(`SELECT id, fact_key, session_id, time, event, data FROM events `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var (
			e       Event
			session sql.NullString
			kind    string
			data    string
		)
		if err := rows.Scan(&e.ID, &e.FactKey, &session, &e.Time, &kind, &data); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.SessionID = session.String
		e.Kind = EventKind(kind)
		e.Data = json.RawMessage(data)
		out = append(out, e)
	}
	return out, rows.Err()
}
