package recall

import (
	"fmt"
	"math"
)

// DefaultShape is the α = β used by Default.
const DefaultShape = 2.0

// Belief is the (α, β, λ) parameter triple of a memory model.
type Belief struct {
	Alpha    float64 `json:"alpha"`
	Beta     float64 `json:"beta"`
	HalfLife float64 `json:"half_life"`
}

// Default returns a symmetric Beta(2, 2) belief at the given half-life.
func Default(halfLife float64) Belief {
	return Belief{Alpha: DefaultShape, Beta: DefaultShape, HalfLife: halfLife}
}

// Validate reports ErrDomain unless α, β and λ are finite and positive.
func (b Belief) Validate() error {
	if !positive(b.Alpha) || !positive(b.Beta) || !positive(b.HalfLife) {
		return fmt.Errorf("%w: belief (%g, %g, %g)", ErrDomain, b.Alpha, b.Beta, b.HalfLife)
	}
	return nil
}

// Params returns the belief as the [α, β, λ] array used by the interchange format.
func (b Belief) Params() [3]float64 {
	return [3]float64{b.Alpha, b.Beta, b.HalfLife}
}

// FromParams builds a Belief from an [α, β, λ] array and validates it.
func FromParams(p [3]float64) (Belief, error) {
	b := Belief{Alpha: p[0], Beta: p[1], HalfLife: p[2]}
	return b, b.Validate()
}

// String formats the belief as "(α, β, λ)".
func (b Belief) String() string {
	return fmt.Sprintf("(%.4g, %.4g, %.4g)", b.Alpha, b.Beta, b.HalfLife)
}

func positive(x float64) bool {
	return x > 0 && !math.IsInf(x, 1)
}
