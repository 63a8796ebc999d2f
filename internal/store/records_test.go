package store

import (
	"errors"
	"testing"

	"github.com/lazypower/halflife/internal/memory"
	"github.com/lazypower/halflife/internal/recall"
)

func learned(t *testing.T, halfLife float64, at int64) *memory.Record {
	t.Helper()
	var r memory.Record
	if err := r.Initialize(recall.Default(halfLife), at); err != nil {
		t.Fatal(err)
	}
	return &r
}

func TestSaveAndGetRecord(t *testing.T) {
	db := openTest(t)

	r := learned(t, 3600, 1000)
	if err := db.SaveRecord("1-[de]-eins", r); err != nil {
		t.Fatalf("SaveRecord: %v", err)
	}
	got, err := db.GetRecord("1-[de]-eins")
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if *got.Belief != *r.Belief || got.LastReview != 1000 || got.Drills != 0 || got.LastResult != nil {
		t.Errorf("got %+v (belief %v)", got, got.Belief)
	}

	// Update in place
	if err := r.Grade(true, 4600); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveRecord("1-[de]-eins", r); err != nil {
		t.Fatalf("SaveRecord update: %v", err)
	}
	got, _ = db.GetRecord("1-[de]-eins")
	if got.Drills != 1 || got.LastResult == nil || !*got.LastResult || got.LastReview != 4600 {
		t.Errorf("after grade got %+v", got)
	}
	if got.Belief.HalfLife != r.Belief.HalfLife {
		t.Errorf("half-life = %g, want %g", got.Belief.HalfLife, r.Belief.HalfLife)
	}

	n, _ := db.CountRecords()
	if n != 1 {
		t.Errorf("CountRecords = %d, want 1", n)
	}
}

func TestGetRecordMissing(t *testing.T) {
	db := openTest(t)
	r, err := db.GetRecord("nope")
	if err != nil || r != nil {
		t.Fatalf("GetRecord(nope) = %+v, %v", r, err)
	}
}

func TestSaveNewRecordRejected(t *testing.T) {
	db := openTest(t)
	if err := db.SaveRecord("a--b", &memory.Record{}); !errors.Is(err, ErrNewRecord) {
		t.Fatalf("err = %v, want ErrNewRecord", err)
	}
}

func TestLoadRecordsAndKeys(t *testing.T) {
	db := openTest(t)
	for _, key := range []string{"b--2", "a--1", "c--3"} {
		if err := db.SaveRecord(key, learned(t, 60, 10)); err != nil {
			t.Fatal(err)
		}
	}
	if err := db.DeleteRecord("c--3"); err != nil {
		t.Fatal(err)
	}

	all, err := db.LoadRecords()
	if err != nil {
		t.Fatalf("LoadRecords: %v", err)
	}
	if len(all) != 2 || all["a--1"] == nil || all["b--2"] == nil {
		t.Errorf("LoadRecords = %v", all)
	}

	keys, err := db.RecordKeys()
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 || keys[0] != "a--1" || keys[1] != "b--2" {
		t.Errorf("RecordKeys = %v", keys)
	}
}

func TestTxRecord(t *testing.T) {
	db := openTest(t)
	err := db.InTx(func(tx *Tx) error {
		if err := tx.SaveRecord("a--b", learned(t, 60, 5)); err != nil {
			return err
		}
		r, err := tx.GetRecord("a--b")
		if err != nil {
			return err
		}
		if r == nil {
			t.Error("record not visible inside its transaction")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("InTx: %v", err)
	}
}
