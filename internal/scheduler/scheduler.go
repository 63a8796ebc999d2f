// Package scheduler picks which facts to introduce or drill next.
package scheduler

import (
	"slices"

	"github.com/lazypower/halflife/internal/deck"
	"github.com/lazypower/halflife/internal/topk"
)

// Clock returns the current time in Unix seconds.
type Clock func() int64

// Request describes a hand of facts to draw.
type Request struct {
	Topics     []string
	Count      int // topk.All for every candidate
	New        bool
	ForgotOnly bool
}

// Skipped is a candidate left out because its recall could not be predicted.
type Skipped struct {
	Fact *deck.Fact
	Err  error
}

// Prediction is a fact with its expected recall probability.
type Prediction struct {
	Fact   *deck.Fact
	Recall float64
}

// Scheduler ranks the facts of an index against a clock.
type Scheduler struct {
	index *deck.Index
	now   Clock
}

// New returns a Scheduler over ix.
func New(ix *deck.Index, now Clock) *Scheduler {
	return &Scheduler{index: ix, now: now}
}

// Draw returns up to req.Count facts. New facts come in load order. Old facts
// come most at-risk first: lowest predicted recall at the current time.
// Candidates whose prediction fails are reported, not drawn.
func (s *Scheduler) Draw(req Request) ([]*deck.Fact, []Skipped) {
	q := deck.Query{Topics: req.Topics, New: deck.Flag(req.New), ForgotOnly: req.ForgotOnly}
	candidates := s.index.Query(q)

	if req.New {
		hand := topk.TopK(candidates, req.Count, orderOf, false)
		slices.SortFunc(hand, func(a, b *deck.Fact) int { return a.Order - b.Order })
		return hand, nil
	}

	scored, skipped := s.score(candidates, false)
	best := topk.TopK(scored, req.Count, recallOf, false)
	slices.SortStableFunc(best, comparePredictions)

	hand := make([]*deck.Fact, len(best))
	for i, p := range best {
		hand[i] = p.Fact
	}
	return hand, skipped
}

// Predictions returns every old fact matching q with its exact recall
// probability, most at-risk first.
func (s *Scheduler) Predictions(q deck.Query) ([]Prediction, []Skipped) {
	q.New = deck.Flag(false)
	scored, skipped := s.score(s.index.Query(q), true)
	slices.SortStableFunc(scored, comparePredictions)
	return scored, skipped
}

func (s *Scheduler) score(facts []*deck.Fact, exact bool) ([]Prediction, []Skipped) {
	now := s.now()
	scored := make([]Prediction, 0, len(facts))
	var skipped []Skipped
	for _, f := range facts {
		p, err := f.Record.Predict(now, exact)
		if err != nil {
			skipped = append(skipped, Skipped{Fact: f, Err: err})
			continue
		}
		scored = append(scored, Prediction{Fact: f, Recall: p})
	}
	return scored, skipped
}

func orderOf(f *deck.Fact) int { return f.Order }

func recallOf(p Prediction) float64 { return p.Recall }

func comparePredictions(a, b Prediction) int {
	switch {
	case a.Recall < b.Recall:
		return -1
	case a.Recall > b.Recall:
		return 1
	}
	return a.Fact.Order - b.Fact.Order
}
