// Package numerator provides domain contracts for document auto-numbering.
package numerator

import (
	"fmt"
	"time"

	"github.com/AzizBrinis/invoice-app-sub003/internal/core/entity"
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/id"
)

// Config holds numbering configuration for one sequence.
//
// Sequences are keyed by (OwnerID, DocumentType, period year). When annual
// reset is disabled the period year is fixed at zero, giving one continuous
// counter per owner and type.
type Config struct {
	// OwnerID scopes the sequence to the owning account
	OwnerID id.ID

	// DocumentType distinguishes invoice and quote counters
	DocumentType entity.DocumentType

	// Prefix added to all numbers (e.g., "FAC", "DEV").
	// Prefix changes apply to future numbers, not past ones.
	Prefix string

	// PadWidth is the minimum number width (default 4)
	PadWidth int

	// ResetAnnually restarts the counter each calendar year
	ResetAnnually bool
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(ownerID id.ID, docType entity.DocumentType, prefix string) Config {
	return Config{
		OwnerID:       ownerID,
		DocumentType:  docType,
		Prefix:        prefix,
		PadWidth:      4,
		ResetAnnually: true,
	}
}

// PeriodYear computes the sequence period for a point in time.
// Zero means the sequence never resets.
func (c Config) PeriodYear(now time.Time) int {
	if c.ResetAnnually {
		return now.Year()
	}
	return 0
}

// Format renders the externally visible number string.
// Pattern: PREFIX-YEAR-NNNN when reset-annually, else PREFIX-NNNN.
// This string is user-facing and must never be reformatted retroactively.
func (c Config) Format(now time.Time, counter int64) string {
	padWidth := c.PadWidth
	if padWidth == 0 {
		padWidth = 4
	}

	if c.ResetAnnually {
		return fmt.Sprintf("%s-%d-%0*d", c.Prefix, now.Year(), padWidth, counter)
	}
	return fmt.Sprintf("%s-%0*d", c.Prefix, padWidth, counter)
}
