package numerator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_Sequence(t *testing.T) {
	gen := NewMemory()
	ctx := context.Background()
	period := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	cfg := DefaultConfig("FT")

	first, err := gen.GetNextNumber(ctx, cfg, period)
	require.NoError(t, err)
	second, err := gen.GetNextNumber(ctx, cfg, period)
	require.NoError(t, err)

	assert.Equal(t, "FT-2026-00001", first)
	assert.Equal(t, "FT-2026-00002", second)

	// New year restarts the sequence.
	next, err := gen.GetNextNumber(ctx, cfg, period.AddDate(1, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, "FT-2027-00001", next)
}

func TestMemory_SetNextNumber(t *testing.T) {
	gen := NewMemory()
	ctx := context.Background()
	period := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	cfg := Config{Prefix: "VEN", PadWidth: 3, ResetPeriod: "never"}

	require.NoError(t, gen.SetNextNumber(ctx, cfg, period, 41))
	num, err := gen.GetNextNumber(ctx, cfg, period)
	require.NoError(t, err)
	assert.Equal(t, "VEN-042", num)
}

func TestConfig_Key(t *testing.T) {
	period := time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "FT_2026", DefaultConfig("FT").Key(period))
	assert.Equal(t, "FT_2026_02", Config{Prefix: "FT", ResetPeriod: "month"}.Key(period))
	assert.Equal(t, "FT", Config{Prefix: "FT", ResetPeriod: "never"}.Key(period))
}
