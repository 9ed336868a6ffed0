// Package numerator provides PostgreSQL-backed invoice numbering.
// Sequences live in sys_sequences (key, current_val).
package numerator

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"metapos/internal/core/numerator"
)

// Querier interface for database operations.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Service implements numerator.Generator on top of sys_sequences. Every
// number is reserved in the caller's transaction, so a rolled back
// finalize leaves no gap.
type Service struct {
	querier Querier
}

// New creates a new numerator service.
func New(querier Querier) *Service {
	return &Service{querier: querier}
}

// GetNextNumber bumps the sequence by one using UPSERT + RETURNING.
// Pattern: PREFIX-YEAR-XXXXX (e.g., FT-2026-00001)
func (s *Service) GetNextNumber(ctx context.Context, cfg numerator.Config, period time.Time) (string, error) {
	if s == nil || s.querier == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}

	var num int64
	err := s.querier.QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, 1)
		ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + 1
		RETURNING current_val
	`, cfg.Key(period)).Scan(&num)
	if err != nil {
		return "", fmt.Errorf("next number: %w", err)
	}
	return cfg.Format(period, num), nil
}

// SetNextNumber sets the current sequence value; the next number is value+1.
func (s *Service) SetNextNumber(ctx context.Context, cfg numerator.Config, period time.Time, value int64) error {
	var result int64
	err := s.querier.QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET current_val = $2
		RETURNING current_val
	`, cfg.Key(period), value).Scan(&result)
	if err != nil {
		return fmt.Errorf("set next number: %w", err)
	}
	return nil
}

// ContinueFrom positions the sequence after last, a number previously
// issued under cfg (e.g. FT-2026-00417 from a legacy till). The period
// is taken from the year embedded in last.
func (s *Service) ContinueFrom(ctx context.Context, cfg numerator.Config, last string) error {
	num := ParseNumber(last)
	if num < 0 || !strings.HasPrefix(last, cfg.Prefix+"-") {
		return fmt.Errorf("invoice number %q does not match prefix %s", last, cfg.Prefix)
	}

	period := time.Now().UTC()
	if cfg.IncludeYear {
		parts := strings.Split(last, "-")
		if len(parts) != 3 {
			return fmt.Errorf("invoice number %q has no year", last)
		}
		year, err := strconv.Atoi(parts[1])
		if err != nil {
			return fmt.Errorf("invoice number %q: bad year: %w", last, err)
		}
		period = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	return s.SetNextNumber(ctx, cfg, period, num)
}

// ParseNumber extracts numeric part from formatted number.
// Returns -1 if parsing fails.
func ParseNumber(formatted string) int64 {
	idx := strings.LastIndex(formatted, "-")
	if idx < 0 {
		return -1
	}
	num, err := strconv.ParseInt(formatted[idx+1:], 10, 64)
	if err != nil {
		return -1
	}
	return num
}

var _ numerator.Generator = (*Service)(nil)
