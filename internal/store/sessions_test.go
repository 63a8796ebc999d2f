package store

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestStartSession(t *testing.T) {
	db := openTest(t)

	s, err := db.StartSession(ModeDrill, 1000)
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if _, err := uuid.Parse(s.SessionID); err != nil {
		t.Errorf("SessionID %q is not a UUID: %v", s.SessionID, err)
	}
	if s.Mode != ModeDrill || s.Status != "active" || s.StartedAt != 1000 {
		t.Errorf("session = %+v", s)
	}

	if _, err := db.StartSession("cram", 1000); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestGetSession(t *testing.T) {
	db := openTest(t)

	s, err := db.GetSession("missing")
	if err != nil || s != nil {
		t.Fatalf("GetSession(missing) = %+v, %v", s, err)
	}

	started, _ := db.StartSession(ModeLearn, 1000)
	got, err := db.GetSession(started.SessionID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.ID != started.ID || got.Mode != ModeLearn || got.EndedAt != nil {
		t.Errorf("got %+v", got)
	}
}

func TestEndSession(t *testing.T) {
	db := openTest(t)
	s, _ := db.StartSession(ModeDrill, 1000)

	if err := db.EndSession(s.SessionID, 1500); err != nil {
		t.Fatalf("EndSession: %v", err)
	}
	got, _ := db.GetSession(s.SessionID)
	if got.Status != "completed" || got.EndedAt == nil || *got.EndedAt != 1500 {
		t.Errorf("ended session = %+v", got)
	}

	// Ending twice is an error
	if err := db.EndSession(s.SessionID, 1600); !errors.Is(err, ErrSessionNotActive) {
		t.Errorf("second EndSession err = %v, want ErrSessionNotActive", err)
	}
}

func TestCountCard(t *testing.T) {
	db := openTest(t)
	s, _ := db.StartSession(ModeDrill, 1000)

	err := db.InTx(func(tx *Tx) error {
		if err := tx.CountCard(s.SessionID, true); err != nil {
			return err
		}
		return tx.CountCard(s.SessionID, false)
	})
	if err != nil {
		t.Fatalf("CountCard: %v", err)
	}
	got, _ := db.GetSession(s.SessionID)
	if got.CardCount != 2 || got.RecalledCount != 1 {
		t.Errorf("counts = %d/%d, want 2/1", got.CardCount, got.RecalledCount)
	}

	db.EndSession(s.SessionID, 2000)
	err = db.InTx(func(tx *Tx) error { return tx.CountCard(s.SessionID, true) })
	if !errors.Is(err, ErrSessionNotActive) {
		t.Errorf("CountCard on ended session err = %v", err)
	}
}

func TestAbandonStaleSessions(t *testing.T) {
	db := openTest(t)
	old, _ := db.StartSession(ModeDrill, 1000)
	fresh, _ := db.StartSession(ModeDrill, 5000)

	n, err := db.AbandonStaleSessions(2000, 6000)
	if err != nil {
		t.Fatalf("AbandonStaleSessions: %v", err)
	}
	if n != 1 {
		t.Errorf("abandoned %d, want 1", n)
	}
	if s, _ := db.GetSession(old.SessionID); s.Status != "abandoned" {
		t.Errorf("old status = %q", s.Status)
	}
	if s, _ := db.GetSession(fresh.SessionID); s.Status != "active" {
		t.Errorf("fresh status = %q", s.Status)
	}
}

func TestGetRecentSessions(t *testing.T) {
	db := openTest(t)
	for i := range 5 {
		if _, err := db.StartSession(ModeLearn, int64(1000+i)); err != nil {
			t.Fatal(err)
		}
	}

	sessions, err := db.GetRecentSessions(3)
	if err != nil {
		t.Fatalf("GetRecentSessions: %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("got %d sessions, want 3", len(sessions))
	}
	if sessions[0].StartedAt != 1004 || sessions[2].StartedAt != 1002 {
		t.Errorf("order = %d..%d", sessions[0].StartedAt, sessions[2].StartedAt)
	}
}
