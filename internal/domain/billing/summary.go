package billing

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/AzizBrinis/invoice-app-sub003/internal/core/types"
)

// TaxSummaryEntry is one row of the persisted tax summary.
//
// The serialized shape {kind, ratePercent?, label, baseCents, amountCents} is
// stored verbatim on historical documents and is never recomputed on read, so
// it must remain stable.
type TaxSummaryEntry struct {
	Kind        TaxKind          `json:"kind" db:"kind"`
	RatePercent *decimal.Decimal `json:"ratePercent,omitempty" db:"rate_percent"`
	Label       string           `json:"label" db:"label"`
	Base        types.MinorUnits `json:"baseCents" db:"base_cents"`
	Amount      types.MinorUnits `json:"amountCents" db:"amount_cents"`
}

func vatEntry(rate decimal.Decimal, base, amount types.MinorUnits) TaxSummaryEntry {
	r := rate
	return TaxSummaryEntry{
		Kind:        TaxKindVAT,
		RatePercent: &r,
		Label:       fmt.Sprintf("TVA %s%%", rate.String()),
		Base:        base,
		Amount:      amount,
	}
}

func surchargeEntry(rate *decimal.Decimal, base, amount types.MinorUnits) TaxSummaryEntry {
	entry := TaxSummaryEntry{
		Kind:   TaxKindSurcharge,
		Label:  "FODEC",
		Base:   base,
		Amount: amount,
	}
	if rate != nil {
		r := *rate
		entry.RatePercent = &r
	}
	return entry
}

func stampEntry(amount types.MinorUnits) TaxSummaryEntry {
	return TaxSummaryEntry{
		Kind:   TaxKindStamp,
		Label:  "Timbre fiscal",
		Amount: amount,
	}
}

// sortSummary orders entries by the configured kind order, VAT entries among
// themselves by ascending rate, non-VAT entries by label as a tie-break.
func sortSummary(entries []TaxSummaryEntry, cfg TaxConfiguration) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		ai, bi := cfg.orderIndex(a.Kind), cfg.orderIndex(b.Kind)
		if ai != bi {
			return ai < bi
		}
		if a.Kind == TaxKindVAT && b.Kind == TaxKindVAT {
			return a.RatePercent.Cmp(*b.RatePercent) < 0
		}
		return a.Label < b.Label
	})
}
