package numerator

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/AzizBrinis/invoice-app-sub003/internal/core/entity"
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/id"
	corenumerator "github.com/AzizBrinis/invoice-app-sub003/internal/core/numerator"
)

// Mock objects
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

// mockQuerier simulates the sys_sequences UPSERT: one counter per
// (owner, type, period) key, incremented atomically.
type mockQuerier struct {
	mu       sync.Mutex
	counters map[string]int64
	err      error
}

func newMockQuerier() *mockQuerier {
	return &mockQuerier{counters: make(map[string]int64)}
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return &mockRow{err: m.err}
	}

	// args: owner_id, document_type, period_year, prefix[, value]
	key := fmt.Sprintf("%v/%v/%v", args[0], args[1], args[2])
	if len(args) == 5 {
		m.counters[key] = args[4].(int64)
	} else {
		m.counters[key]++
	}
	return &mockRow{val: m.counters[key]}
}

func TestNextNumber_Sequential(t *testing.T) {
	q := newMockQuerier()
	svc := NewWithQuerier(q)
	ctx := context.Background()

	cfg := corenumerator.DefaultConfig(id.New(), entity.DocumentTypeInvoice, "FAC")
	period := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	num, err := svc.NextNumber(ctx, cfg, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "FAC-2026-0001" {
		t.Errorf("expected FAC-2026-0001, got %s", num)
	}

	num, err = svc.NextNumber(ctx, cfg, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "FAC-2026-0002" {
		t.Errorf("expected FAC-2026-0002, got %s", num)
	}
}

func TestNextNumber_NoAnnualReset(t *testing.T) {
	q := newMockQuerier()
	svc := NewWithQuerier(q)
	ctx := context.Background()

	cfg := corenumerator.DefaultConfig(id.New(), entity.DocumentTypeQuote, "DEV")
	cfg.ResetAnnually = false

	// Different years hit the same counter row (period_year = 0).
	num, err := svc.NextNumber(ctx, cfg, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "DEV-0001" {
		t.Errorf("expected DEV-0001, got %s", num)
	}

	num, err = svc.NextNumber(ctx, cfg, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "DEV-0002" {
		t.Errorf("expected DEV-0002, got %s", num)
	}
}

func TestNextNumber_IndependentKeys(t *testing.T) {
	q := newMockQuerier()
	svc := NewWithQuerier(q)
	ctx := context.Background()
	period := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	owner := id.New()
	invCfg := corenumerator.DefaultConfig(owner, entity.DocumentTypeInvoice, "FAC")
	quoCfg := corenumerator.DefaultConfig(owner, entity.DocumentTypeQuote, "DEV")

	if _, err := svc.NextNumber(ctx, invCfg, period); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	num, err := svc.NextNumber(ctx, quoCfg, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The quote counter is untouched by invoice allocations.
	if num != "DEV-2026-0001" {
		t.Errorf("expected DEV-2026-0001, got %s", num)
	}
}

func TestNextNumber_ConcurrentNoDuplicates(t *testing.T) {
	q := newMockQuerier()
	svc := NewWithQuerier(q)
	ctx := context.Background()

	cfg := corenumerator.DefaultConfig(id.New(), entity.DocumentTypeInvoice, "FAC")
	period := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	const workers = 50
	results := make(chan string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			num, err := svc.NextNumber(ctx, cfg, period)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			results <- num
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool)
	for num := range results {
		if seen[num] {
			t.Errorf("duplicate number allocated: %s", num)
		}
		seen[num] = true
	}
	if len(seen) != workers {
		t.Errorf("expected %d distinct numbers, got %d", workers, len(seen))
	}
}

func TestNextNumber_StorageError(t *testing.T) {
	q := newMockQuerier()
	q.err = fmt.Errorf("connection refused")
	svc := NewWithQuerier(q)

	cfg := corenumerator.DefaultConfig(id.New(), entity.DocumentTypeInvoice, "FAC")
	if _, err := svc.NextNumber(context.Background(), cfg, time.Now()); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestSetNextCounter(t *testing.T) {
	q := newMockQuerier()
	svc := NewWithQuerier(q)
	ctx := context.Background()

	cfg := corenumerator.DefaultConfig(id.New(), entity.DocumentTypeInvoice, "FAC")
	period := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	if err := svc.SetNextCounter(ctx, cfg, period, 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	num, err := svc.NextNumber(ctx, cfg, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "FAC-2026-0101" {
		t.Errorf("expected FAC-2026-0101, got %s", num)
	}
}
