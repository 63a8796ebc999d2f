// Package engine ties the fact index, the review store and the scheduler
// together. All mutations go through the engine so that the in-memory
// index and the database never disagree.
package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lazypower/halflife/internal/deck"
	"github.com/lazypower/halflife/internal/logging"
	"github.com/lazypower/halflife/internal/memory"
	"github.com/lazypower/halflife/internal/recall"
	"github.com/lazypower/halflife/internal/scheduler"
	"github.com/lazypower/halflife/internal/store"
	"github.com/sirupsen/logrus"
)

// ErrUnknownFact is returned for a key that is not in the loaded decks.
var ErrUnknownFact = errors.New("unknown fact")

// Engine orchestrates learning, drilling and scheduling over a loaded deck.
type Engine struct {
	DB *store.DB

	mu     sync.Mutex
	index  *deck.Index
	sched  *scheduler.Scheduler
	now    scheduler.Clock
	priors Priors
	log    *logrus.Entry

	stopCh   chan struct{}
	stopOnce sync.Once
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock, in Unix seconds.
func WithClock(now scheduler.Clock) Option {
	return func(e *Engine) { e.now = now }
}

// WithPriors sets the beliefs assigned by each learn rating.
func WithPriors(p Priors) Option {
	return func(e *Engine) { e.priors = p }
}

// New creates an Engine with an empty deck.
func New(db *store.DB, opts ...Option) *Engine {
	e := &Engine{
		DB:     db,
		now:    func() int64 { return time.Now().Unix() },
		priors: DefaultPriors(),
		log:    logging.For("engine"),
		stopCh: make(chan struct{}),
	}
	for _, o := range opts {
		o(e)
	}
	e.index = deck.NewIndex()
	e.sched = scheduler.New(e.index, e.now)
	return e
}

// Now returns the engine's current time.
func (e *Engine) Now() int64 { return e.now() }

// LoadResult summarises a deck load.
type LoadResult struct {
	Facts      int `json:"facts"`
	Duplicates int `json:"duplicates"`
	Hydrated   int `json:"hydrated"`
}

// Load replaces the deck with the given triples and attaches stored records
// to the facts they belong to.
func (e *Engine) Load(triples []deck.Triple) (LoadResult, error) {
	records, err := e.DB.LoadRecords()
	if err != nil {
		return LoadResult{}, fmt.Errorf("load records: %w", err)
	}

	ix := deck.NewIndex()
	ix.Load(triples)
	hydrated := 0
	for _, f := range ix.Facts() {
		if r, ok := records[f.Key()]; ok {
			f.Record = r
			ix.Refresh(f)
			hydrated++
		}
	}

	e.mu.Lock()
	e.index = ix
	e.sched = scheduler.New(ix, e.now)
	e.mu.Unlock()

	res := LoadResult{Facts: ix.Len(), Duplicates: ix.Skipped(), Hydrated: hydrated}
	e.log.WithFields(logrus.Fields{
		"facts":      res.Facts,
		"duplicates": res.Duplicates,
		"hydrated":   res.Hydrated,
		"orphaned":   len(records) - hydrated,
	}).Info("deck loaded")
	return res, nil
}

// Learn introduces a new fact with the given prior.
func (e *Engine) Learn(sessionID, key string, prior recall.Belief) (FactView, error) {
	data, _ := json.Marshal(map[string]any{"prior": prior.Params()})
	return e.mutate(sessionID, key, store.EventLearn, data, false, func(r *memory.Record, now int64) error {
		return r.Initialize(prior, now)
	})
}

// LearnRated introduces a new fact with the prior for a rating.
func (e *Engine) LearnRated(sessionID, key string, rating Rating) (FactView, error) {
	prior, err := e.priors.For(rating)
	if err != nil {
		return FactView{}, err
	}
	return e.Learn(sessionID, key, prior)
}

// Drill grades a recall attempt and updates the fact's belief.
func (e *Engine) Drill(sessionID, key string, got bool) (FactView, error) {
	data, _ := json.Marshal(map[string]any{"got": got})
	return e.mutate(sessionID, key, store.EventDrill, data, got, func(r *memory.Record, now int64) error {
		return r.Grade(got, now)
	})
}

// Skip marks a fact as seen without grading it.
func (e *Engine) Skip(sessionID, key string) (FactView, error) {
	return e.mutate(sessionID, key, store.EventReview, nil, false, func(r *memory.Record, now int64) error {
		return r.Review(now)
	})
}

// mutate applies fn to a copy of the fact's record, persists the copy with
// its log event, and only then installs it in the index.
func (e *Engine) mutate(sessionID, key string, kind store.EventKind, data []byte, recalled bool, fn func(*memory.Record, int64) error) (FactView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	f, ok := e.index.Lookup(key)
	if !ok {
		return FactView{}, fmt.Errorf("%s: %w", key, ErrUnknownFact)
	}
	now := e.now()
	next := f.Record.Clone()
	if err := fn(next, now); err != nil {
		return FactView{}, fmt.Errorf("%s %s: %w", kind, key, err)
	}

	err := e.DB.InTx(func(tx *store.Tx) error {
		if err := tx.SaveRecord(key, next); err != nil {
			return err
		}
		if _, err := tx.AppendEvent(store.Event{FactKey: key, SessionID: sessionID, Time: now, Kind: kind, Data: data}); err != nil {
			return err
		}
		if sessionID != "" {
			return tx.CountCard(sessionID, recalled)
		}
		return nil
	})
	if err != nil {
		return FactView{}, fmt.Errorf("persist %s: %w", key, err)
	}

	f.Record = next
	e.index.Refresh(f)
	e.log.WithFields(logrus.Fields{
		"event":   kind,
		"key":     key,
		"session": sessionID,
		"belief":  next.Belief.String(),
	}).Debug("record updated")
	return viewOf(f, now), nil
}

// Hand is a drawn set of facts plus the candidates that could not be scored.
type Hand struct {
	Facts   []FactView    `json:"facts"`
	Skipped []SkippedFact `json:"skipped,omitempty"`
}

// SkippedFact names a fact left out of a hand and why.
type SkippedFact struct {
	Key   string `json:"key"`
	Error string `json:"error"`
}

// Queue draws the next facts to learn or drill.
func (e *Engine) Queue(req scheduler.Request) Hand {
	e.mu.Lock()
	defer e.mu.Unlock()

	facts, skipped := e.sched.Draw(req)
	now := e.now()
	h := Hand{Facts: make([]FactView, len(facts))}
	for i, f := range facts {
		h.Facts[i] = viewOf(f, now)
	}
	for _, s := range skipped {
		e.log.WithField("key", s.Fact.Key()).WithError(s.Err).Warn("prediction failed, fact skipped")
		h.Skipped = append(h.Skipped, SkippedFact{Key: s.Fact.Key(), Error: s.Err.Error()})
	}
	return h
}

// Facts lists the facts matching q in load order.
func (e *Engine) Facts(q deck.Query) []FactView {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	facts := e.index.Query(q)
	out := make([]FactView, len(facts))
	for i, f := range facts {
		out[i] = viewOf(f, now)
	}
	return out
}

// Match lists the facts whose key contains every substring.
func (e *Engine) Match(substrings ...string) []FactView {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	facts := e.index.Match(substrings...)
	out := make([]FactView, len(facts))
	for i, f := range facts {
		out[i] = viewOf(f, now)
	}
	return out
}

// Fact returns a single fact by key.
func (e *Engine) Fact(key string) (FactView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	f, ok := e.index.Lookup(key)
	if !ok {
		return FactView{}, fmt.Errorf("%s: %w", key, ErrUnknownFact)
	}
	return viewOf(f, e.now()), nil
}

// StartSession opens a review session.
func (e *Engine) StartSession(mode string) (*store.Session, error) {
	s, err := e.DB.StartSession(mode, e.now())
	if err != nil {
		return nil, err
	}
	e.log.WithFields(logrus.Fields{"session": s.SessionID, "mode": mode}).Info("session started")
	return s, nil
}

// EndSession completes a review session and returns its final state.
func (e *Engine) EndSession(sessionID string) (*store.Session, error) {
	if err := e.DB.EndSession(sessionID, e.now()); err != nil {
		return nil, err
	}
	s, err := e.DB.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	e.log.WithFields(logrus.Fields{
		"session":  sessionID,
		"cards":    s.CardCount,
		"recalled": s.RecalledCount,
	}).Info("session ended")
	return s, nil
}

// StartJanitor abandons sessions left active for longer than maxAge, once at
// startup and then every interval.
func (e *Engine) StartJanitor(interval, maxAge time.Duration) {
	sweep := func() {
		now := e.now()
		n, err := e.DB.AbandonStaleSessions(now-int64(maxAge/time.Second), now)
		if err != nil {
			e.log.WithError(err).Error("abandon stale sessions")
		} else if n > 0 {
			e.log.WithField("sessions", n).Info("abandoned stale sessions")
		}
	}
	sweep()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sweep()
			case <-e.stopCh:
				return
			}
		}
	}()
}

// Stop shuts down the engine's background goroutines.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.stopCh) })
}
