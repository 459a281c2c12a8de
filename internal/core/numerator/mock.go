// Package numerator provides domain contracts for document auto-numbering.
package numerator

import (
	"context"
	"sync"
	"time"
)

// MockGenerator is a test implementation of Generator.
// Use in unit tests to avoid database dependencies.
type MockGenerator struct {
	NextNumberFunc     func(ctx context.Context, cfg Config, period time.Time) (string, error)
	SetNextCounterFunc func(ctx context.Context, cfg Config, period time.Time, value int64) error

	mu       sync.Mutex
	counters map[string]int64
}

// NextNumber implements Generator.
// Default behavior counts in memory per (owner, type, period) key, matching
// the real allocator's uniqueness guarantee within a single process.
func (m *MockGenerator) NextNumber(ctx context.Context, cfg Config, period time.Time) (string, error) {
	if m.NextNumberFunc != nil {
		return m.NextNumberFunc(ctx, cfg, period)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counters == nil {
		m.counters = make(map[string]int64)
	}
	key := cfg.OwnerID.String() + "/" + string(cfg.DocumentType) + "/" + cfg.Prefix
	if cfg.ResetAnnually {
		key += "/" + period.Format("2006")
	}
	m.counters[key]++
	return cfg.Format(period, m.counters[key]), nil
}

// SetNextCounter implements Generator.
func (m *MockGenerator) SetNextCounter(ctx context.Context, cfg Config, period time.Time, value int64) error {
	if m.SetNextCounterFunc != nil {
		return m.SetNextCounterFunc(ctx, cfg, period, value)
	}
	return nil
}

// Ensure compile-time interface compliance.
var _ Generator = (*MockGenerator)(nil)
