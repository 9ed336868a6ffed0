package numerator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metapos/internal/core/numerator"
)

type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

// mockQuerier simulates sys_sequences keyed by the first argument.
type mockQuerier struct {
	mu    sync.Mutex
	vals  map[string]int64
	calls int
	err   error
}

func newMockQuerier() *mockQuerier {
	return &mockQuerier{vals: make(map[string]int64)}
}

func (m *mockQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return &mockRow{err: m.err}
	}

	key := args[0].(string)
	switch {
	case strings.Contains(sql, "current_val = $2\n"):
		m.vals[key] = args[1].(int64)
	case len(args) == 2:
		m.vals[key] += args[1].(int64)
	default:
		m.vals[key]++
	}
	return &mockRow{val: m.vals[key]}
}

var period = time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)

func TestGetNextNumber_Strict(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()
	cfg := numerator.DefaultConfig("FT")

	num, err := svc.GetNextNumber(ctx, cfg, period)
	require.NoError(t, err)
	assert.Equal(t, "FT-2026-00001", num)

	num, err = svc.GetNextNumber(ctx, cfg, period)
	require.NoError(t, err)
	assert.Equal(t, "FT-2026-00002", num)
	assert.Equal(t, 2, q.calls)
}

func TestSetNextNumber_ContinuesSequence(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()
	cfg := numerator.DefaultConfig("FT")

	require.NoError(t, svc.SetNextNumber(ctx, cfg, period, 100))

	num, err := svc.GetNextNumber(ctx, cfg, period)
	require.NoError(t, err)
	assert.Equal(t, "FT-2026-00101", num)
}

func TestContinueFrom(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()
	cfg := numerator.DefaultConfig("FT")

	require.NoError(t, svc.ContinueFrom(ctx, cfg, "FT-2025-00417"))
	assert.Equal(t, int64(417), q.vals["FT_2025"])

	num, err := svc.GetNextNumber(ctx, cfg, time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "FT-2025-00418", num)

	assert.Error(t, svc.ContinueFrom(ctx, cfg, "NF-2025-00001"))
	assert.Error(t, svc.ContinueFrom(ctx, cfg, "FT-00001"))
	assert.Error(t, svc.ContinueFrom(ctx, cfg, "garbage"))
}

func TestGetNextNumber_QueryError(t *testing.T) {
	q := newMockQuerier()
	q.err = errors.New("connection refused")
	svc := New(q)

	_, err := svc.GetNextNumber(context.Background(), numerator.DefaultConfig("FT"), period)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "next number")
}

func TestParseNumber(t *testing.T) {
	assert.Equal(t, int64(42), ParseNumber("FT-2026-00042"))
	assert.Equal(t, int64(7), ParseNumber("VEN-00007"))
	assert.Equal(t, int64(-1), ParseNumber("garbage"))
}
