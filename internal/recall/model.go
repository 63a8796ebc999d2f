package recall

import (
	"fmt"
	"math"
)

// decay returns δ = t/λ after validating the belief and elapsed time.
func decay(t float64, b Belief) (float64, error) {
	if err := b.Validate(); err != nil {
		return 0, err
	}
	if t < 0 || math.IsNaN(t) || math.IsInf(t, 0) {
		return 0, fmt.Errorf("%w: elapsed time %g", ErrDomain, t)
	}
	return t / b.HalfLife, nil
}

// LogDensity returns the log probability density of recall probability p
// after t units of elapsed time.
//
// With δ = t/λ the recall probability is GB1(1/δ, 1, α, β):
//
//	ln f(p) = ((α−δ)/δ)·ln p + (β−1)·ln(1 − p^(1/δ)) − ln δ − ln B(α, β)
//
// p must lie in the open interval (0, 1) and t must be positive.
func LogDensity(p, t float64, b Belief) (float64, error) {
	if !(p > 0 && p < 1) {
		return 0, fmt.Errorf("%w: probability %g not in (0, 1)", ErrDomain, p)
	}
	d, err := decay(t, b)
	if err != nil {
		return 0, err
	}
	if d == 0 {
		return 0, fmt.Errorf("%w: density undefined at zero elapsed time", ErrDomain)
	}
	lnp := math.Log(p)
	return (b.Alpha-d)/d*lnp +
		(b.Beta-1)*math.Log1p(-math.Exp(lnp/d)) -
		math.Log(d) -
		LnBeta(b.Alpha, b.Beta), nil
}

// Density is the exponentiated LogDensity.
func Density(p, t float64, b Belief) (float64, error) {
	ln, err := LogDensity(p, t, b)
	if err != nil {
		return 0, err
	}
	return math.Exp(ln), nil
}

// LogMean returns the log of the expected recall probability after t units
// of elapsed time:
//
//	ln E[p] = ln Γ(α+β) + ln Γ(α+δ) − ln Γ(α) − ln Γ(α+β+δ)
func LogMean(t float64, b Belief) (float64, error) {
	d, err := decay(t, b)
	if err != nil {
		return 0, err
	}
	a, s := b.Alpha, b.Alpha+b.Beta
	return LnGamma(s) + LnGamma(a+d) - LnGamma(a) - LnGamma(s+d), nil
}

// Mean returns the expected recall probability after t units of elapsed time.
func Mean(t float64, b Belief) (float64, error) {
	ln, err := LogMean(t, b)
	if err != nil {
		return 0, err
	}
	return math.Exp(ln), nil
}
