package recall

import (
	"fmt"
	"math"
)

// LnGamma returns ln Γ(x) for x > 0.
func LnGamma(x float64) float64 {
	v, _ := math.Lgamma(x)
	return v
}

// LnBeta returns ln B(α, β) = ln Γ(α) + ln Γ(β) − ln Γ(α+β).
func LnBeta(alpha, beta float64) float64 {
	return LnGamma(alpha) + LnGamma(beta) - LnGamma(alpha+beta)
}

// LnAddExp computes ln(exp(x) + exp(y)) without leaving log space.
func LnAddExp(x, y float64) (float64, error) {
	if math.IsNaN(x) || math.IsNaN(y) {
		return math.NaN(), fmt.Errorf("%w: lnaddexp(%g, %g)", ErrNumericPrecondition, x, y)
	}
	switch {
	case x == y:
		return x + math.Ln2, nil
	case x < y:
		return y + math.Log1p(math.Exp(x-y)), nil
	default:
		return x + math.Log1p(math.Exp(y-x)), nil
	}
}

// LnSubExp computes ln(exp(x) − exp(y)) without leaving log space.
// It requires x > y, otherwise the difference is not positive and
// ErrNumericPrecondition is returned.
func LnSubExp(x, y float64) (float64, error) {
	if math.IsNaN(x) || math.IsNaN(y) || !(x > y) {
		return math.NaN(), fmt.Errorf("%w: lnsubexp(%g, %g) requires x > y", ErrNumericPrecondition, x, y)
	}
	if math.IsInf(y, -1) {
		return x, nil
	}
	return x + math.Log1p(-math.Exp(y-x)), nil
}

// MatchMoments returns the Beta(α, β) distribution with the given mean and
// variance. The variance must lie strictly between 0 and mean·(1−mean).
func MatchMoments(mean, variance float64) (alpha, beta float64, err error) {
	if !(mean > 0 && mean < 1) || !(variance > 0 && variance < mean*(1-mean)) {
		return 0, 0, fmt.Errorf("%w: no beta distribution with mean %g, variance %g", ErrDomain, mean, variance)
	}
	factor := mean*(1-mean)/variance - 1
	return factor * mean, factor * (1 - mean), nil
}
