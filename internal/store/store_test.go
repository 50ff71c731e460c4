package store

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"calcforge/internal/calculator"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func openTestStore(t *testing.T) *HistoryStore {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "sub", "history.db"), zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestAppendAndList(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	c := calculator.NewAdvanced("Stored", calculator.WithClock(func() time.Time { return at }))
	c.Add(2, 3)
	_, _ = c.Sqrt(16)
	_, _ = c.Factorial(5)

	session := NewSessionID()
	require.NoError(t, s.Append(ctx, session, c.Name(), c.History()...))

	records, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "5! = 120", records[0].String(), "newest first")
	assert.Equal(t, "√16 = 4", records[1].String())
	assert.Equal(t, "2 + 3 = 5", records[2].String())
	for _, r := range records {
		assert.Equal(t, session, r.SessionID)
		assert.Equal(t, "Stored", r.Calculator)
		assert.True(t, at.Equal(r.Entry.At))
	}

	limited, err := s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestAppendNonFiniteValues(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	entry := calculator.Entry{Op: calculator.OpPower, Operands: []float64{10, 400}, Result: math.Inf(1), At: time.Now()}
	require.NoError(t, s.Append(ctx, NewSessionID(), "inf", entry))

	records, err := s.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, math.IsInf(records[0].Entry.Result, 1))
	assert.Equal(t, []float64{10, 400}, records[0].Entry.Operands)
}

func TestCountAndClear(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	c := calculator.New("counter")
	for i := 0; i < 5; i++ {
		c.Add(float64(i), 1)
	}
	require.NoError(t, s.Append(ctx, NewSessionID(), c.Name(), c.History()...))
	require.NoError(t, s.Append(ctx, NewSessionID(), c.Name()))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	removed, err := s.Clear(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 5, removed)

	n, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestReopenKeepsHistory(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := Open(ctx, path, nil)
	require.NoError(t, err)
	c := calculator.New("persist")
	c.Multiply(4, 5)
	require.NoError(t, s.Append(ctx, NewSessionID(), c.Name(), c.History()...))
	require.NoError(t, s.Close())

	s, err = Open(ctx, path, nil)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, path, s.Path())

	records, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "4 * 5 = 20", records[0].String())
}

func TestNewSessionID(t *testing.T) {
	id := NewSessionID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.NotEqual(t, id, NewSessionID())
}
