package calculator

import (
	"errors"
	"math"
	"sync"
	"testing"
	"testing/quick"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestCalc(t *testing.T) *Calculator {
	t.Helper()
	return New("TestCalc", WithLogger(zaptest.NewLogger(t)))
}

// =============================================================================
// BASIC OPERATIONS
// =============================================================================

func TestAdd(t *testing.T) {
	c := newTestCalc(t)

	tests := []struct {
		a, b, want float64
	}{
		{2, 3, 5},
		{0, 0, 0},
		{-1, 1, 0},
		{-5, -3, -8},
		{100, 200, 300},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Add(tt.a, tt.b), "%v + %v", tt.a, tt.b)
	}

	assert.InDelta(t, 6.2, c.Add(2.5, 3.7), 1e-9)
	assert.InDelta(t, 0.3, c.Add(0.1, 0.2), 1e-9)
}

func TestSubtract(t *testing.T) {
	c := newTestCalc(t)

	assert.Equal(t, 7.0, c.Subtract(10, 3))
	assert.Equal(t, 0.0, c.Subtract(5, 5))
	assert.Equal(t, -7.0, c.Subtract(3, 10))
	assert.Equal(t, -2.0, c.Subtract(-5, -3))
	assert.InDelta(t, 3.2, c.Subtract(5.5, 2.3), 1e-9)
	assert.InDelta(t, 5.05, c.Subtract(10.1, 5.05), 1e-9)
}

func TestMultiply(t *testing.T) {
	c := newTestCalc(t)

	assert.Equal(t, 20.0, c.Multiply(4, 5))
	assert.Equal(t, 0.0, c.Multiply(0, 100))
	assert.Equal(t, -12.0, c.Multiply(-3, 4))
	assert.Equal(t, 12.0, c.Multiply(-2, -6))
	assert.InDelta(t, 10.0, c.Multiply(2.5, 4), 1e-9)
	assert.InDelta(t, 4.8, c.Multiply(1.5, 3.2), 1e-9)
}

func TestDivide(t *testing.T) {
	c := newTestCalc(t)

	tests := []struct {
		a, b, want float64
	}{
		{10, 2, 5},
		{7, 2, 3.5},
		{-12, 3, -4},
		{10.5, 2, 5.25},
		{7.5, 1.5, 5},
	}
	for _, tt := range tests {
		got, err := c.Divide(tt.a, tt.b)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-9)
	}
}

func TestDivideByZero(t *testing.T) {
	c := newTestCalc(t)

	for _, zero := range []float64{0, math.Copysign(0, -1)} {
		_, err := c.Divide(10, zero)
		require.ErrorIs(t, err, ErrDivisionByZero)
		assert.EqualError(t, err, "cannot divide by zero")
	}
	assert.Empty(t, c.History(), "failed division must not be recorded")
}

func TestPower(t *testing.T) {
	c := newTestCalc(t)

	assert.Equal(t, 8.0, c.Power(2, 3))
	assert.Equal(t, 25.0, c.Power(5, 2))
	assert.Equal(t, 1.0, c.Power(10, 0))
	assert.InDelta(t, 0.5, c.Power(2, -1), 1e-12)
	assert.Equal(t, 0.0, c.Power(0, 5))
}

func TestSqrt(t *testing.T) {
	c := newTestCalc(t)

	for in, want := range map[float64]float64{16: 4, 25: 5, 0: 0} {
		got, err := c.Sqrt(in)
		require.NoError(t, err)
		assert.InDelta(t, want, got, 1e-12)
	}

	got, err := c.Sqrt(2)
	require.NoError(t, err)
	assert.InEpsilon(t, 1.414, got, 1e-3)

	_, err = c.Sqrt(-16)
	require.ErrorIs(t, err, ErrNegativeSqrt)
}

// =============================================================================
// PROPERTIES
// =============================================================================

func finite(xs ...float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func TestProperties(t *testing.T) {
	c := New("props")

	t.Run("add commutes", func(t *testing.T) {
		f := func(a, b float64) bool {
			return !finite(a, b) || c.Add(a, b) == c.Add(b, a)
		}
		require.NoError(t, quick.Check(f, nil))
	})

	t.Run("multiply commutes", func(t *testing.T) {
		f := func(a, b float64) bool {
			return !finite(a, b) || c.Multiply(a, b) == c.Multiply(b, a)
		}
		require.NoError(t, quick.Check(f, nil))
	})

	t.Run("subtract self is zero", func(t *testing.T) {
		f := func(a float64) bool {
			return !finite(a) || c.Subtract(a, a) == 0
		}
		require.NoError(t, quick.Check(f, nil))
	})

	t.Run("divide by zero always fails", func(t *testing.T) {
		f := func(a float64) bool {
			_, err := c.Divide(a, 0)
			return errors.Is(err, ErrDivisionByZero)
		}
		require.NoError(t, quick.Check(f, nil))
	})
}

// =============================================================================
// HISTORY
// =============================================================================

func TestHistoryRecordsOperations(t *testing.T) {
	c := newTestCalc(t)
	c.Add(2, 3)
	c.Multiply(4, 5)

	history := c.History()
	require.Len(t, history, 2)
	assert.Equal(t, "2 + 3 = 5", history[0].String())
	assert.Equal(t, "4 * 5 = 20", history[1].String())
}

func TestHistoryClear(t *testing.T) {
	c := newTestCalc(t)
	c.Add(1, 1)
	c.Subtract(5, 3)
	require.Len(t, c.History(), 2)

	c.ClearHistory()
	assert.Empty(t, c.History())

	c.Add(10, 20)
	assert.Len(t, c.History(), 1)
}

func TestHistoryIsolation(t *testing.T) {
	c1 := New("Calc1")
	c2 := New("Calc2")
	c1.Add(1, 2)
	c2.Add(3, 4)

	require.Len(t, c1.History(), 1)
	require.Len(t, c2.History(), 1)
	assert.NotEqual(t, c1.History()[0].String(), c2.History()[0].String())
}

func TestHistoryReturnsCopy(t *testing.T) {
	c := newTestCalc(t)
	c.Add(1, 2)

	h := c.History()
	h[0].Operands[0] = 99
	h[0].Result = 99

	again := c.History()
	assert.Equal(t, "1 + 2 = 3", again[0].String())
}

func TestHistoryTimestamps(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c := New("clock", WithClock(func() time.Time { return fixed }))
	c.Add(1, 1)
	assert.Equal(t, fixed, c.History()[0].At)
}

func TestConcurrentUse(t *testing.T) {
	c := New("concurrent")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 125; j++ {
				c.Add(float64(i), float64(j))
			}
		}(i)
	}
	wg.Wait()
	assert.Len(t, c.History(), 1000)
}

func TestComplexSequence(t *testing.T) {
	c := newTestCalc(t)

	// (10 + 5) * 2 / 3
	r1 := c.Add(10, 5)
	r2 := c.Multiply(r1, 2)
	r3, err := c.Divide(r2, 3)
	require.NoError(t, err)

	assert.InDelta(t, 10.0, r3, 1e-9)
	assert.Len(t, c.History(), 3)
}

// =============================================================================
// EDGE CASES
// =============================================================================

func TestEdgeCases(t *testing.T) {
	c := newTestCalc(t)

	large := 1e100
	assert.Equal(t, 2*large, c.Add(large, large))

	small := 1e-10
	assert.InDelta(t, 2*small, c.Add(small, small), 1e-20)

	assert.InDelta(t, 7.5, c.Add(5, 2.5), 1e-12)
	assert.InDelta(t, 4.5, c.Multiply(3, 1.5), 1e-12)
}

func TestDefaultName(t *testing.T) {
	assert.Equal(t, DefaultName, New("").Name())
	assert.Equal(t, "BasicCalc", New("BasicCalc").Name())
}
