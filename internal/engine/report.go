package engine

import (
	"fmt"
	"math"

	"github.com/lazypower/halflife/internal/deck"
	"github.com/lazypower/halflife/internal/recall"
	"github.com/lazypower/halflife/internal/store"
)

// Bins is the resolution of recall histograms and density profiles.
const Bins = 20

// Status counts the facts under some topics and bins the recall
// probabilities of the old ones.
type Status struct {
	Topics    []string      `json:"topics,omitempty"`
	Total     int           `json:"total"`
	New       int           `json:"new"`
	Old       int           `json:"old"`
	Got       int           `json:"got"`
	Forgot    int           `json:"forgot"`
	Histogram [Bins]int     `json:"histogram"`
	AtRisk    []FactView    `json:"at_risk,omitempty"`
	Skipped   []SkippedFact `json:"skipped,omitempty"`
}

// StatusOf reports on the facts under every one of the topics. The atRisk
// most at-risk old facts are listed.
func (e *Engine) StatusOf(topics []string, atRisk int) Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	q := deck.Query{Topics: topics}
	s := Status{
		Topics: topics,
		Total:  e.index.Count(q),
		New:    e.index.Count(deck.Query{Topics: topics, New: deck.Flag(true)}),
		Old:    e.index.Count(deck.Query{Topics: topics, New: deck.Flag(false)}),
		Forgot: e.index.Count(deck.Query{Topics: topics, ForgotOnly: true}),
	}
	s.Got = s.Old - s.Forgot

	preds, skipped := e.sched.Predictions(q)
	now := e.now()
	for _, p := range preds {
		s.Histogram[bin(p.Recall)]++
	}
	for i := 0; i < len(preds) && i < atRisk; i++ {
		s.AtRisk = append(s.AtRisk, viewOf(preds[i].Fact, now))
	}
	for _, sk := range skipped {
		s.Skipped = append(s.Skipped, SkippedFact{Key: sk.Fact.Key(), Error: sk.Err.Error()})
	}
	return s
}

func bin(p float64) int {
	i := int(math.Floor(p * Bins))
	return min(max(i, 0), Bins-1)
}

// DensityPoint is one sample of the recall density.
type DensityPoint struct {
	P       float64 `json:"p"`
	Density float64 `json:"density"`
}

// Info is the detailed state of one fact.
type Info struct {
	Fact    FactView       `json:"fact"`
	Density []DensityPoint `json:"density,omitempty"`
	Events  []store.Event  `json:"events"`
}

// Info returns a fact with its recall density at the current time and its
// review log. The density is omitted for new facts and facts reviewed this
// second, where it is a point mass.
func (e *Engine) Info(key string) (Info, error) {
	e.mu.Lock()
	f, ok := e.index.Lookup(key)
	if !ok {
		e.mu.Unlock()
		return Info{}, fmt.Errorf("%s: %w", key, ErrUnknownFact)
	}
	now := e.now()
	v := viewOf(f, now)
	e.mu.Unlock()

	info := Info{Fact: v}
	if v.Belief != nil && v.Elapsed > 0 {
		info.Density = densityProfile(float64(v.Elapsed), *v.Belief)
	}
	events, err := e.DB.EventsFor(key)
	if err != nil {
		return Info{}, err
	}
	info.Events = events
	return info, nil
}

func densityProfile(t float64, b recall.Belief) []DensityPoint {
	out := make([]DensityPoint, 0, Bins)
	for i := range Bins {
		p := (float64(i) + 0.5) / Bins
		d, err := recall.Density(p, t, b)
		if err != nil {
			return nil
		}
		out = append(out, DensityPoint{P: p, Density: d})
	}
	return out
}

// Checkup lists stored keys that no loaded fact claims, typically left
// behind when a deck is edited.
type Checkup struct {
	OrphanRecords []string `json:"orphan_records"`
	OrphanEvents  []string `json:"orphan_events"`
	Duplicates    int      `json:"duplicates"`
}

// Checkup compares the store against the loaded deck.
func (e *Engine) Checkup() (Checkup, error) {
	recordKeys, err := e.DB.RecordKeys()
	if err != nil {
		return Checkup{}, err
	}
	eventKeys, err := e.DB.EventKeys()
	if err != nil {
		return Checkup{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	orphans := func(keys []string) []string {
		out := []string{}
		for _, k := range keys {
			if _, ok := e.index.Lookup(k); !ok {
				out = append(out, k)
			}
		}
		return out
	}
	return Checkup{
		OrphanRecords: orphans(recordKeys),
		OrphanEvents:  orphans(eventKeys),
		Duplicates:    e.index.Skipped(),
	}, nil
}
