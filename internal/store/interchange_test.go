package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/lazypower/halflife/internal/recall"
)

func TestExportJSON(t *testing.T) {
	db := openTest(t)
	r := learned(t, 3600, 1000)
	if err := r.Grade(false, 2000); err != nil {
		t.Fatal(err)
	}
	db.SaveRecord("a--1", r)

	var buf bytes.Buffer
	if err := db.ExportJSON(&buf); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	var doc map[string]map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("exported document is not JSON: %v", err)
	}
	entry := doc["a--1"]
	if entry == nil {
		t.Fatalf("missing entry: %s", buf.String())
	}
	params, _ := entry["priorParams"].([]any)
	if len(params) != 3 {
		t.Errorf("priorParams = %v", entry["priorParams"])
	}
	if entry["numDrills"] != 1.0 || entry["lastTime"] != 2000.0 || entry["lastResult"] != false {
		t.Errorf("entry = %v", entry)
	}
}

func TestImportJSON(t *testing.T) {
	db := openTest(t)
	db.SaveRecord("gone--x", learned(t, 60, 1))

	doc := `{
  "a--1": {"priorParams": [2, 2, 3600], "numDrills": 3, "lastTime": 1500, "lastResult": true},
  "b--2": {"priorParams": [1, 1, 60], "numDrills": 0, "lastTime": 10},
  "gone--x": {}
}`
	n, err := db.ImportJSON(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if n != 2 {
		t.Errorf("imported %d, want 2", n)
	}

	a, _ := db.GetRecord("a--1")
	if a == nil || *a.Belief != (recall.Belief{Alpha: 2, Beta: 2, HalfLife: 3600}) || a.Drills != 3 || !*a.LastResult {
		t.Errorf("a--1 = %+v", a)
	}
	b, _ := db.GetRecord("b--2")
	if b == nil || b.LastResult != nil {
		t.Errorf("b--2 = %+v", b)
	}
	if gone, _ := db.GetRecord("gone--x"); gone != nil {
		t.Errorf("empty entry should delete the record, got %+v", gone)
	}
}

func TestImportJSONInvalidBelief(t *testing.T) {
	db := openTest(t)
	_, err := db.ImportJSON(strings.NewReader(`{"a--1": {"priorParams": [0, 1, 60], "lastTime": 1}}`))
	if !errors.Is(err, recall.ErrDomain) {
		t.Fatalf("err = %v, want ErrDomain", err)
	}
	if n, _ := db.CountRecords(); n != 0 {
		t.Errorf("partial import persisted %d records", n)
	}
}

func TestExportImportPreservesRecords(t *testing.T) {
	src := openTest(t)
	r := learned(t, 3600, 1000)
	r.Grade(true, 4600)
	src.SaveRecord("a--1", r)
	src.SaveRecord("b--2", learned(t, 60, 7))

	var buf bytes.Buffer
	if err := src.ExportJSON(&buf); err != nil {
		t.Fatal(err)
	}
	dst := openTest(t)
	if _, err := dst.ImportJSON(&buf); err != nil {
		t.Fatal(err)
	}

	want, _ := src.LoadRecords()
	got, _ := dst.LoadRecords()
	for key, w := range want {
		g := got[key]
		if g == nil || *g.Belief != *w.Belief || g.Drills != w.Drills || g.LastReview != w.LastReview {
			t.Errorf("%s: got %+v, want %+v", key, g, w)
		}
	}
}

func TestExportLog(t *testing.T) {
	db := openTest(t)
	db.AppendEvent(Event{FactKey: "a--1", Time: 100, Kind: EventLearn, Data: json.RawMessage(`{"prior":[1,1,3600]}`)})
	db.AppendEvent(Event{FactKey: "a--1", Time: 200, Kind: EventDrill, Data: json.RawMessage(`{"got":false}`)})

	var buf bytes.Buffer
	if err := db.ExportLog(&buf); err != nil {
		t.Fatalf("ExportLog: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines: %q", len(lines), buf.String())
	}
	want := `{"id":"a--1","time":200,"event":"DRILL","data":{"got":false}}`
	if lines[1] != want {
		t.Errorf("line = %s, want %s", lines[1], want)
	}
}
