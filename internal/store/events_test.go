package store

import (
	"encoding/json"
	"testing"
)

func TestAppendAndQueryEvents(t *testing.T) {
	db := openTest(t)
	s, _ := db.StartSession(ModeDrill, 100)

	events := []Event{
		{FactKey: "a--1", Time: 100, Kind: EventLearn, Data: json.RawMessage(`{"prior":[1,1,3600]}`)},
		{FactKey: "b--2", Time: 110, Kind: EventReview},
		{FactKey: "a--1", SessionID: s.SessionID, Time: 200, Kind: EventDrill, Data: json.RawMessage(`{"got":true}`)},
	}
	for _, e := range events {
		if _, err := db.AppendEvent(e); err != nil {
			t.Fatalf("AppendEvent: %v", err)
		}
	}

	got, err := db.EventsFor("a--1")
	if err != nil {
		t.Fatalf("EventsFor: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("EventsFor returned %d events, want 2", len(got))
	}
	if got[0].Kind != EventLearn || got[1].Kind != EventDrill {
		t.Errorf("kinds = %s, %s", got[0].Kind, got[1].Kind)
	}
	if got[1].SessionID != s.SessionID || got[0].SessionID != "" {
		t.Errorf("session ids = %q, %q", got[0].SessionID, got[1].SessionID)
	}
	if string(got[1].Data) != `{"got":true}` {
		t.Errorf("data = %s", got[1].Data)
	}

	all, _ := db.Events()
	if len(all) != 3 || string(all[1].Data) != `{}` {
		t.Errorf("Events = %+v", all)
	}

	keys, err := db.EventKeys()
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 || keys[0] != "a--1" || keys[1] != "b--2" {
		t.Errorf("EventKeys = %v", keys)
	}
}
