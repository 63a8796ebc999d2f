// Package memory holds the per-fact review state and its transitions.
package memory

import (
	"errors"
	"fmt"

	"github.com/lazypower/halflife/internal/recall"
)

var (
	// ErrUninitialized is returned by operations that need a belief on a
	// record that has never been introduced.
	ErrUninitialized = errors.New("memory: record not initialized")

	// ErrAlreadyInitialized is returned by Initialize on a record that
	// already holds a belief. Re-learning a fact would discard its history,
	// so callers that want that must Reset first.
	ErrAlreadyInitialized = errors.New("memory: record already initialized")
)

// Status is the scheduling status of a record.
type Status int

const (
	New       Status = iota // never introduced
	Recalled                // introduced, last drill passed or not yet drilled
	Forgotten               // last drill failed
)

func (s Status) String() string {
	switch s {
	case New:
		return "new"
	case Recalled:
		return "recalled"
	case Forgotten:
		return "forgotten"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Record is the mutable memory state of one fact. Times are Unix seconds.
// The zero value is a new record.
//
// A Record has a single writer; callers serialise concurrent access.
type Record struct {
	Belief     *recall.Belief
	LastReview int64
	Drills     int
	LastResult *bool
}

// IsNew reports whether the record has never been introduced.
func (r *Record) IsNew() bool {
	return r.Belief == nil
}

// Status classifies the record for indexing.
func (r *Record) Status() Status {
	switch {
	case r.IsNew():
		return New
	case r.LastResult != nil && !*r.LastResult:
		return Forgotten
	default:
		return Recalled
	}
}

// Initialize introduces the fact with a prior belief at time now.
func (r *Record) Initialize(prior recall.Belief, now int64) error {
	if !r.IsNew() {
		return ErrAlreadyInitialized
	}
	if err := prior.Validate(); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	b := prior
	r.Belief = &b
	r.Drills = 0
	r.LastResult = nil
	r.LastReview = now
	return nil
}

// Reset returns the record to the new state.
func (r *Record) Reset() {
	*r = Record{}
}

// Elapsed returns the seconds since the last review. Clock skew that would
// make the result negative is clamped to zero.
func (r *Record) Elapsed(now int64) (int64, error) {
	if r.IsNew() {
		return 0, ErrUninitialized
	}
	if d := now - r.LastReview; d > 0 {
		return d, nil
	}
	return 0, nil
}

// Predict returns the expected recall probability at time now. With exact
// set the probability itself is returned, otherwise its natural log, which
// orders records identically and is what the scheduler ranks by.
func (r *Record) Predict(now int64, exact bool) (float64, error) {
	t, err := r.Elapsed(now)
	if err != nil {
		return 0, err
	}
	if exact {
		return recall.Mean(float64(t), *r.Belief)
	}
	return recall.LogMean(float64(t), *r.Belief)
}

// Review marks the fact as seen at time now without grading it.
func (r *Record) Review(now int64) error {
	if r.IsNew() {
		return ErrUninitialized
	}
	r.LastReview = now
	return nil
}

// Grade applies the outcome of a drill at time now. The record is left
// unchanged if the model update fails.
func (r *Record) Grade(outcome bool, now int64) error {
	t, err := r.Elapsed(now)
	if err != nil {
		return err
	}
	post, err := recall.Update(outcome, float64(t), *r.Belief)
	if err != nil {
		return fmt.Errorf("grade after %ds: %w", t, err)
	}
	r.Belief = &post
	r.Drills++
	r.LastResult = &outcome
	r.LastReview = now
	return nil
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	out := *r
	if r.Belief != nil {
		b := *r.Belief
		out.Belief = &b
	}
	if r.LastResult != nil {
		v := *r.LastResult
		out.LastResult = &v
	}
	return &out
}
