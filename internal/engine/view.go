package engine

import (
	"github.com/lazypower/halflife/internal/deck"
	"github.com/lazypower/halflife/internal/recall"
)

// FactView is a snapshot of a fact, safe to hold after the engine moves on.
type FactView struct {
	Key        string         `json:"key"`
	Prompt     string         `json:"prompt"`
	Answer     string         `json:"answer"`
	Topic      string         `json:"topic,omitempty"`
	Status     string         `json:"status"`
	Belief     *recall.Belief `json:"belief,omitempty"`
	LastReview int64          `json:"last_review,omitempty"`
	Elapsed    int64          `json:"elapsed,omitempty"`
	Drills     int            `json:"drills"`
	LastResult *bool          `json:"last_result,omitempty"`
	Recall     *float64       `json:"recall,omitempty"`

	answer deck.Node
}

// Accepts reports whether a typed guess matches the fact's answer.
func (v FactView) Accepts(guess string) bool {
	return v.answer != nil && v.answer.Matches(guess)
}

func viewOf(f *deck.Fact, now int64) FactView {
	r := f.Record.Clone()
	v := FactView{
		Key:        f.Key(),
		Prompt:     f.PromptLabel(),
		Answer:     f.AnswerLabel(),
		Topic:      f.Topic,
		Status:     r.Status().String(),
		Belief:     r.Belief,
		LastReview: r.LastReview,
		Drills:     r.Drills,
		LastResult: r.LastResult,
		answer:     f.Answer,
	}
	if r.IsNew() {
		return v
	}
	v.Elapsed, _ = r.Elapsed(now)
	if p, err := r.Predict(now, true); err == nil {
		v.Recall = &p
	}
	return v
}
