// Package numerator provides domain contracts for document auto-numbering.
// Implementations live in infrastructure layer.
package numerator

import (
	"context"
	"time"
)

// Generator generates sequential document numbers.
// This is the domain contract - implementations live in infrastructure layer.
//
// The create-or-increment step must run inside one atomic transaction against
// the counter row; the storage layer's transaction isolation is the only
// serialization point. Two concurrent callers on the same key never receive
// the same counter value. Numbers may have gaps (aborted transactions) but
// never repeat.
type Generator interface {
	// NextNumber allocates and formats the next document number.
	// Pattern: PREFIX-YEAR-NNNN (e.g., FAC-2025-0001).
	NextNumber(ctx context.Context, cfg Config, period time.Time) (string, error)

	// SetNextCounter sets the counter value (for migration purposes).
	SetNextCounter(ctx context.Context, cfg Config, period time.Time, value int64) error
}
