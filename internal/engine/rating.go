package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lazypower/halflife/internal/config"
	"github.com/lazypower/halflife/internal/recall"
)

// ErrUnknownRating is returned for a learn rating other than easy, medium
// or hard.
var ErrUnknownRating = errors.New("unknown rating")

// Rating is the learner's judgement of a new fact, used to pick its prior.
type Rating string

const (
	Easy   Rating = "easy"
	Medium Rating = "medium"
	Hard   Rating = "hard"
)

// ParseRating accepts a rating name or its first letter.
func ParseRating(s string) (Rating, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "e", "easy":
		return Easy, nil
	case "m", "medium":
		return Medium, nil
	case "h", "hard":
		return Hard, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownRating)
}

// Priors maps each rating to the belief a newly learned fact starts with.
type Priors map[Rating]recall.Belief

// DefaultPriors are uniform beliefs with half-lives of two days, an hour
// and a minute.
func DefaultPriors() Priors {
	return Priors{
		Easy:   {Alpha: 1, Beta: 1, HalfLife: (48 * time.Hour).Seconds()},
		Medium: {Alpha: 1, Beta: 1, HalfLife: time.Hour.Seconds()},
		Hard:   {Alpha: 1, Beta: 1, HalfLife: time.Minute.Seconds()},
	}
}

// PriorsFromConfig converts the configured priors.
func PriorsFromConfig(c config.PriorsConfig) Priors {
	conv := func(p config.Prior) recall.Belief {
		return recall.Belief{Alpha: p.Alpha, Beta: p.Beta, HalfLife: p.HalfLife.Seconds()}
	}
	return Priors{Easy: conv(c.Easy), Medium: conv(c.Medium), Hard: conv(c.Hard)}
}

// For returns the prior for a rating.
func (p Priors) For(r Rating) (recall.Belief, error) {
	b, ok := p[r]
	if !ok {
		return recall.Belief{}, fmt.Errorf("%q: %w", r, ErrUnknownRating)
	}
	return b, nil
}
