package calculator

import (
	"math"

	"go.uber.org/zap"
)

// maxFactorial is the largest n whose factorial fits in an int64.
const maxFactorial = 20

// Advanced extends Calculator with percentage and factorial.
type Advanced struct {
	*Calculator
}

// NewAdvanced creates an advanced calculator sharing Calculator's options.
func NewAdvanced(name string, opts ...Option) *Advanced {
	return &Advanced{Calculator: New(name, opts...)}
}

// Percentage returns percent% of number.
func (a *Advanced) Percentage(number, percent float64) float64 {
	return a.record(OpPercentage, number*percent/100, number, percent)
}

// Factorial returns n!. Negative inputs and inputs whose factorial would
// overflow int64 are rejected.
func (a *Advanced) Factorial(n int64) (int64, error) {
	if n < 0 {
		a.logger.Error("attempted factorial of negative number", zap.Int64("n", n))
		return 0, ErrNegativeFactorial
	}
	if n > maxFactorial {
		return 0, ErrFactorialOverflow
	}

	result := int64(1)
	for i := int64(2); i <= n; i++ {
		result *= i
	}
	a.record(OpFactorial, float64(result), float64(n))
	return result, nil
}

// AsInteger converts x to an int64, failing with ErrNotInteger when x has a
// fractional part or is not finite.
func AsInteger(x float64) (int64, error) {
	if math.IsInf(x, 0) || math.IsNaN(x) || x != math.Trunc(x) {
		return 0, ErrNotInteger
	}
	if x >= math.MaxInt64 || x < math.MinInt64 {
		return 0, ErrNotInteger
	}
	return int64(x), nil
}
