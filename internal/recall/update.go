package recall

import (
	"fmt"
	"math"
)

// Update returns the approximate posterior belief after a single pass/fail
// review observed t units after the previous one.
//
// The exact posterior is not Beta-distributed, so it is approximated in two
// passes:
//
//  1. The analytic posterior at elapsed time t is shifted back to the old
//     half-life λ, and its mean μ gives a new half-life λ' = −λ·ln 2 / ln μ
//     (the time at which the posterior mean would decay to one half).
//  2. The posterior is shifted to λ' instead and a Beta distribution is
//     fitted to its first two moments.
//
// The returned belief is (α', β', λ').
//
// When t is a tiny fraction of λ the true change in recall at t is below
// float64 resolution, and the mean at t may then move by a few ULPs against
// the outcome.
func Update(outcome bool, t float64, b Belief) (Belief, error) {
	if _, err := decay(t, b); err != nil {
		return Belief{}, err
	}

	atOld, err := newPosterior(outcome, t, b.HalfLife, b)
	if err != nil {
		return Belief{}, fmt.Errorf("posterior at λ=%g: %w", b.HalfLife, err)
	}
	lnMu, err := atOld.lnMoment(1)
	if err != nil {
		return Belief{}, err
	}
	if !(lnMu < 0) {
		return Belief{}, fmt.Errorf("%w: posterior mean %g leaves no finite half-life", ErrDomain, math.Exp(lnMu))
	}
	halfLife := -b.HalfLife * math.Ln2 / lnMu

	atNew, err := newPosterior(outcome, t, halfLife, b)
	if err != nil {
		return Belief{}, fmt.Errorf("posterior at λ=%g: %w", halfLife, err)
	}
	lnM1, err := atNew.lnMoment(1)
	if err != nil {
		return Belief{}, err
	}
	lnM2, err := atNew.lnMoment(2)
	if err != nil {
		return Belief{}, err
	}
	// Var = M1²·(M2/M1² − 1); expm1 keeps the difference exact when M2 ≈ M1².
	mean := math.Exp(lnM1)
	variance := math.Exp(2*lnM1) * math.Expm1(lnM2-2*lnM1)

	alpha, beta, err := MatchMoments(mean, variance)
	if err != nil {
		return Belief{}, fmt.Errorf("update: %w", err)
	}
	post := Belief{Alpha: alpha, Beta: beta, HalfLife: halfLife}
	if err := post.Validate(); err != nil {
		return Belief{}, fmt.Errorf("update: %w", err)
	}
	return post, nil
}

// posterior is the analytic posterior of recall probability after a review
// at elapsed time t, time-shifted to elapsed time tNew. Its raw moments are
// ratios of Beta functions.
type posterior struct {
	outcome bool
	alpha   float64
	beta    float64
	delta   float64 // t / λ
	shift   float64 // tNew / λ
	lnDenom float64
}

func newPosterior(outcome bool, t, tNew float64, prior Belief) (*posterior, error) {
	p := &posterior{
		outcome: outcome,
		alpha:   prior.Alpha,
		beta:    prior.Beta,
		delta:   t / prior.HalfLife,
		shift:   tNew / prior.HalfLife,
	}
	denom, err := p.lnNumer(0)
	if err != nil {
		return nil, err
	}
	p.lnDenom = denom
	return p, nil
}

// lnMoment returns ln E[p^n] of the shifted posterior.
func (p *posterior) lnMoment(n int) (float64, error) {
	numer, err := p.lnNumer(n)
	if err != nil {
		return 0, err
	}
	return numer - p.lnDenom, nil
}

// lnNumer is ln B(α+nε+δ, β) for a pass and
// ln(B(α+nε, β) − B(α+nε+δ, β)) for a fail, where ε is the shift.
func (p *posterior) lnNumer(n int) (float64, error) {
	a := p.alpha + float64(n)*p.shift
	if p.outcome {
		return LnBeta(a+p.delta, p.beta), nil
	}
	return LnSubExp(LnBeta(a, p.beta), LnBeta(a+p.delta, p.beta))
}
