package numerator

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process Generator used when no store is configured
// and in unit tests. Numbers restart with the process.
type Memory struct {
	mu      sync.Mutex
	current map[string]int64
}

// NewMemory creates an empty in-memory generator.
func NewMemory() *Memory {
	return &Memory{current: make(map[string]int64)}
}

// GetNextNumber implements Generator.
func (m *Memory) GetNextNumber(_ context.Context, cfg Config, period time.Time) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := cfg.Key(period)
	m.current[key]++
	return cfg.Format(period, m.current[key]), nil
}

// SetNextNumber implements Generator.
func (m *Memory) SetNextNumber(_ context.Context, cfg Config, period time.Time, value int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current[cfg.Key(period)] = value
	return nil
}

var _ Generator = (*Memory)(nil)
