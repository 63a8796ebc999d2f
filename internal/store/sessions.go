package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Session modes.
const (
	ModeLearn = "learn"
	ModeDrill = "drill"
)

// ErrSessionNotActive is returned when ending or recording into a session
// that does not exist or has already ended.
var ErrSessionNotActive = errors.New("no active session")

// Session is one sitting of learning or drilling.
type Session struct {
	ID            int64
	SessionID     string
	Mode          string
	StartedAt     int64
	EndedAt       *int64
	Status        string
	CardCount     int
	RecalledCount int
}

const sessionColumns = `id, session_id, mode, started_at, ended_at, status, card_count, recalled_count`

func scanSession(s scanner) (*Session, error) {
	var ss Session
	err := s.Scan(&ss.ID, &ss.SessionID, &ss.Mode, &ss.StartedAt, &ss.EndedAt, &ss.Status, &ss.CardCount, &ss.RecalledCount)
	if err != nil {
		return nil, err
	}
	return &ss, nil
}

// StartSession opens a new active session with a fresh UUID.
func (db *DB) StartSession(mode string, now int64) (*Session, error) {
	if mode != ModeLearn && mode != ModeDrill {
		return nil, fmt.Errorf("start session: unknown mode %q", mode)
	}
	sessionID := uuid.NewString()
	result, err := db.Exec(`
		INSERT INTO sessions (session_id, mode, started_at, status)
		VALUES (?, ?, ?, 'active')
	`, sessionID, mode, now)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}

	id, _ := result.LastInsertId()
	return &Session{
		ID:        id,
		SessionID: sessionID,
		Mode:      mode,
		StartedAt: now,
		Status:    "active",
	}, nil
}

// GetSession returns a session by its session_id, or nil if there is none.
func (db *DB) GetSession(sessionID string) (*Session, error) {
	s, err := scanSession(db.QueryRow(`SELECT `+sessionColumns+` FROM sessions WHERE session_id = ?`, sessionID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return s, nil
}

// EndSession marks an active session as completed.
func (db *DB) EndSession(sessionID string, now int64) error {
	result, err := db.Exec(`
		UPDATE sessions SET status = 'completed', ended_at = ?
		WHERE session_id = ? AND status = 'active'
	`, now, sessionID)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("end session %s: %w", sessionID, ErrSessionNotActive)
	}
	return nil
}

// AbandonStaleSessions marks sessions still active since before the cutoff
// as abandoned and returns how many were closed.
func (db *DB) AbandonStaleSessions(cutoff, now int64) (int64, error) {
	result, err := db.Exec(`
		UPDATE sessions SET status = 'abandoned', ended_at = ?
		WHERE status = 'active' AND started_at < ?
	`, now, cutoff)
	if err != nil {
		return 0, fmt.Errorf("abandon sessions: %w", err)
	}
	return result.RowsAffected()
}

// GetRecentSessions returns the most recent sessions, ordered by started_at DESC.
func (db *DB) GetRecentSessions(limit int) ([]Session, error) {
	rows, err := db.Query(`SELECT `+sessionColumns+` FROM sessions ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("get recent sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

// CountCard tallies a fact seen in an active session; recalled counts drills
// that were passed.
func (t *Tx) CountCard(sessionID string, recalled bool) error {
	inc := 0
	if recalled {
		inc = 1
	}
	result, err := t.tx.Exec(`
		UPDATE sessions SET card_count = card_count + 1, recalled_count = recalled_count + ?
		WHERE session_id = ? AND status = 'active'
	`, inc, sessionID)
	if err != nil {
		return fmt.Errorf("count card: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("count card in %s: %w", sessionID, ErrSessionNotActive)
	}
	return nil
}
