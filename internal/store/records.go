package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lazypower/halflife/internal/memory"
	"github.com/lazypower/halflife/internal/recall"
)

// ErrNewRecord is returned when saving a record that has no belief yet.
// New facts are represented by the absence of a row.
var ErrNewRecord = errors.New("record has no belief")

const recordColumns = `fact_key, alpha, beta, half_life, num_drills, last_time, last_result`

// GetRecord returns the stored record for a fact key, or nil if the fact has
// never been learned.
func (db *DB) GetRecord(key string) (*memory.Record, error) {
	return getRecord(db.DB, key)
}

// SaveRecord inserts or replaces the record for a fact key.
func (db *DB) SaveRecord(key string, r *memory.Record) error {
	return saveRecord(db.DB, key, r)
}

// DeleteRecord removes a fact's record, returning it to the new state.
func (db *DB) DeleteRecord(key string) error {
	if _, err := db.Exec(`DELETE FROM records WHERE fact_key = ?`, key); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

// GetRecord is GetRecord within the transaction.
func (t *Tx) GetRecord(key string) (*memory.Record, error) {
	return getRecord(t.tx, key)
}

// SaveRecord is SaveRecord within the transaction.
func (t *Tx) SaveRecord(key string, r *memory.Record) error {
	return saveRecord(t.tx, key, r)
}

// LoadRecords returns every stored record keyed by fact key.
func (db *DB) LoadRecords() (map[string]*memory.Record, error) {
	rows, err := db.Query(`SELECT ` + recordColumns + ` FROM records`)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	defer rows.Close()

	out := make(map[string]*memory.Record)
	for rows.Next() {
		key, r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out[key] = r
	}
	return out, rows.Err()
}

// RecordKeys returns the keys of all stored records, sorted.
func (db *DB) RecordKeys() ([]string, error) {
	return stringColumn(db.DB, `SELECT fact_key FROM records ORDER BY fact_key`)
}

// CountRecords returns the number of stored records.
func (db *DB) CountRecords() (int, error) {
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (string, *memory.Record, error) {
	var (
		key        string
		b          recall.Belief
		r          memory.Record
		lastResult sql.NullBool
	)
	if err := s.Scan(&key, &b.Alpha, &b.Beta, &b.HalfLife, &r.Drills, &r.LastReview, &lastResult); err != nil {
		return "", nil, fmt.Errorf("scan record: %w", err)
	}
	r.Belief = &b
	if lastResult.Valid {
		v := lastResult.Bool
		r.LastResult = &v
	}
	return key, &r, nil
}

func getRecord(q queryer, key string) (*memory.Record, error) {
	_, r, err := scanRecord(q.QueryRow(`SELECT `+recordColumns+` FROM records WHERE fact_key = ?`, key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get record %s: %w", key, err)
	}
	return r, nil
}

func saveRecord(q queryer, key string, r *memory.Record) error {
	if r == nil || r.IsNew() {
		return fmt.Errorf("save record %s: %w", key, ErrNewRecord)
	}
	var lastResult sql.NullBool
	if r.LastResult != nil {
		lastResult = sql.NullBool{Bool: *r.LastResult, Valid: true}
	}
	b := r.Belief
	_, err := q.Exec(`
		INSERT INTO records (`+recordColumns+`, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(fact_key) DO UPDATE SET
			alpha = excluded.alpha,
			beta = excluded.beta,
			half_life = excluded.half_life,
			num_drills = excluded.num_drills,
			last_time = excluded.last_time,
			last_result = excluded.last_result,
			updated_at = excluded.updated_at
	`, key, b.Alpha, b.Beta, b.HalfLife, r.Drills, r.LastReview, lastResult, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("save record %s: %w", key, err)
	}
	return nil
}

func stringColumn(q queryer, query string, args ...any) ([]string, error) {
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
