package billing

import (
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/types"
)

// Allocate splits total across weights proportionally, rounding each share
// and cascading the rounding difference so that the shares always sum to
// total exactly.
//
// The cascade walks from the last weight towards the first, skipping
// zero-weight lines. While the weights have capacity for the total, no share
// is ever pushed above its own weight or below zero, so a line never
// receives more discount than it contributed.
//
// This is the single allocation primitive: the global discount and the
// document-scope surcharge both redistribute through it.
func Allocate(total types.MinorUnits, weights []types.MinorUnits, mode types.RoundingMode) []types.MinorUnits {
	if len(weights) == 0 {
		return nil
	}

	shares := make([]types.MinorUnits, len(weights))

	var weightSum types.MinorUnits
	for _, w := range weights {
		weightSum += w
	}
	if weightSum == 0 {
		// Nothing to weight by: the whole total lands on the last slot.
		shares[len(shares)-1] = total
		return shares
	}

	var allocated types.MinorUnits
	sum := weightSum.Decimal()
	for i, w := range weights {
		share := mode.Round(total.Decimal().Mul(w.Decimal()).Div(sum))
		shares[i] = share
		allocated += share
	}

	// Per-share rounding can leave the sum off by several cents in either
	// direction, one per rounded share in the worst case.
	capped := total >= 0 && total <= weightSum
	diff := total - allocated
	for i := len(shares) - 1; i >= 0 && diff != 0; i-- {
		if weights[i] == 0 {
			continue
		}
		step := diff
		if diff > 0 && capped {
			if room := weights[i] - shares[i]; step > room {
				step = room
			}
		} else if diff < 0 && shares[i]+step < 0 {
			step = -shares[i]
		}
		shares[i] += step
		diff -= step
	}

	return shares
}
