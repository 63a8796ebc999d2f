package store

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/lazypower/halflife/internal/memory"
	"github.com/lazypower/halflife/internal/recall"
)

// recordDoc is the interchange form of one record. An empty document means
// the fact is new.
type recordDoc struct {
	PriorParams *[3]float64 `json:"priorParams,omitempty"`
	NumDrills   int         `json:"numDrills"`
	LastTime    int64       `json:"lastTime"`
	LastResult  *bool       `json:"lastResult,omitempty"`
}

// logLine is the interchange form of one event.
type logLine struct {
	ID    string          `json:"id"`
	Time  int64           `json:"time"`
	Event EventKind       `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ExportJSON writes every stored record as a JSON object keyed by fact key.
func (db *DB) ExportJSON(w io.Writer) error {
	records, err := db.LoadRecords()
	if err != nil {
		return err
	}
	doc := make(map[string]recordDoc, len(records))
	for key, r := range records {
		p := r.Belief.Params()
		doc[key] = recordDoc{
			PriorParams: &p,
			NumDrills:   r.Drills,
			LastTime:    r.LastReview,
			LastResult:  r.LastResult,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	return nil
}

// ImportJSON replaces stored records with those in a document written by
// ExportJSON. Empty entries delete the record. It returns the number of
// records written.
func (db *DB) ImportJSON(r io.Reader) (int, error) {
	var doc map[string]recordDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return 0, fmt.Errorf("decode records: %w", err)
	}

	written := 0
	err := db.InTx(func(tx *Tx) error {
		for _, key := range slices.Sorted(maps.Keys(doc)) {
			d := doc[key]
			if d.PriorParams == nil {
				if _, err := tx.tx.Exec(`DELETE FROM records WHERE fact_key = ?`, key); err != nil {
					return fmt.Errorf("import %s: %w", key, err)
				}
				continue
			}
			b, err := recall.FromParams(*d.PriorParams)
			if err != nil {
				return fmt.Errorf("import %s: %w", key, err)
			}
			rec := &memory.Record{Belief: &b, LastReview: d.LastTime, Drills: d.NumDrills, LastResult: d.LastResult}
			if err := tx.SaveRecord(key, rec); err != nil {
				return err
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

// ExportLog writes the event log as JSON lines.
func (db *DB) ExportLog(w io.Writer) error {
	events, err := db.Events()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	for _, e := range events {
		if err := enc.Encode(logLine{ID: e.FactKey, Time: e.Time, Event: e.Kind, Data: e.Data}); err != nil {
			return fmt.Errorf("encode event %d: %w", e.ID, err)
		}
	}
	return nil
}
