package recall

import "errors"

// Sentinel errors for the recall package.
// Use errors.Is to check: errors.Is(err, recall.ErrDomain)
var (
	// ErrDomain indicates an argument outside the model's domain:
	// α, β, λ ≤ 0, a negative elapsed time, or a probability outside (0, 1).
	ErrDomain = errors.New("recall: argument outside model domain")

	// ErrNumericPrecondition indicates a log-space operation whose
	// precondition does not hold, such as LnSubExp(x, y) with x ≤ y.
	ErrNumericPrecondition = errors.New("recall: numeric precondition violated")
)
