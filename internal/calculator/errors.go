package calculator

import "errors"

// Domain errors returned by calculator operations. Callers compare with errors.Is.
var (
	ErrDivisionByZero    = errors.New("cannot divide by zero")
	ErrNegativeSqrt      = errors.New("cannot calculate square root of negative number")
	ErrNegativeFactorial = errors.New("factorial not defined for negative numbers")
	ErrFactorialOverflow = errors.New("factorial result overflows int64")
	ErrNotInteger        = errors.New("factorial requires an integer")
	ErrSyntax            = errors.New("malformed expression")
)
