// Package calculator implements the sample arithmetic library exercised by
// the CI pipeline: a named calculator with basic operations, an advanced
// variant with percentage and factorial, and an in-memory history of every
// successful calculation.
package calculator

import (
	"math"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultName is used when a calculator is created without a name.
const DefaultName = "Calculator"

// Calculator performs basic arithmetic and records each successful
// operation in its history. It is safe for concurrent use.
type Calculator struct {
	name   string
	logger *zap.Logger
	now    func() time.Time

	mu      sync.Mutex
	history []Entry
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithLogger sets the logger used for operation tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Calculator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock overrides the time source used to stamp history entries.
func WithClock(now func() time.Time) Option {
	return func(c *Calculator) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a calculator. An empty name falls back to DefaultName.
func New(name string, opts ...Option) *Calculator {
	if name == "" {
		name = DefaultName
	}
	c := &Calculator{
		name:   name,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("calculator").With(zap.String("name", name))
	c.logger.Info("calculator initialized")
	return c
}

// Name returns the calculator's name.
func (c *Calculator) Name() string {
	return c.name
}

// Add returns a + b.
func (c *Calculator) Add(a, b float64) float64 {
	return c.record(OpAdd, a+b, a, b)
}

// Subtract returns a - b.
func (c *Calculator) Subtract(a, b float64) float64 {
	return c.record(OpSubtract, a-b, a, b)
}

// Multiply returns a * b.
func (c *Calculator) Multiply(a, b float64) float64 {
	return c.record(OpMultiply, a*b, a, b)
}

// Divide returns a / b, or ErrDivisionByZero when b is zero (either sign).
func (c *Calculator) Divide(a, b float64) (float64, error) {
	if b == 0 {
		c.logger.Error("attempted division by zero", zap.Float64("dividend", a))
		return 0, ErrDivisionByZero
	}
	return c.record(OpDivide, a/b, a, b), nil
}

// Power returns base raised to exponent.
func (c *Calculator) Power(base, exponent float64) float64 {
	return c.record(OpPower, math.Pow(base, exponent), base, exponent)
}

// Sqrt returns the square root of x, or ErrNegativeSqrt when x < 0.
func (c *Calculator) Sqrt(x float64) (float64, error) {
	if x < 0 {
		c.logger.Error("attempted square root of negative number", zap.Float64("x", x))
		return 0, ErrNegativeSqrt
	}
	return c.record(OpSqrt, math.Sqrt(x), x), nil
}

// History returns a copy of the recorded calculations, oldest first.
func (c *Calculator) History() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Entry, len(c.history))
	for i, e := range c.history {
		e.Operands = append([]float64(nil), e.Operands...)
		out[i] = e
	}
	return out
}

// ClearHistory discards all recorded calculations.
func (c *Calculator) ClearHistory() {
	c.mu.Lock()
	c.history = nil
	c.mu.Unlock()
	c.logger.Info("history cleared")
}

func (c *Calculator) record(op Op, result float64, operands ...float64) float64 {
	e := Entry{
		Op:       op,
		Operands: operands,
		Result:   result,
		At:       c.now(),
	}

	c.mu.Lock()
	c.history = append(c.history, e)
	c.mu.Unlock()

	c.logger.Debug("calculation", zap.String("op", string(op)), zap.Stringer("entry", e))
	return result
}
