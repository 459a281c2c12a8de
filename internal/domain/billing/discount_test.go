package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AzizBrinis/invoice-app-sub003/internal/core/types"
)

func TestResolveDiscount(t *testing.T) {
	rate := pct("10")
	amount := types.MinorUnits(500)

	assert.True(t, ResolveDiscount(nil, nil).IsZero())
	assert.Equal(t, DiscountRate(rate), ResolveDiscount(&rate, nil))
	assert.Equal(t, DiscountAmount(amount), ResolveDiscount(nil, &amount))

	// When both arrive, the explicit amount wins.
	assert.Equal(t, DiscountAmount(amount), ResolveDiscount(&rate, &amount))
}

func TestDiscount_Resolve(t *testing.T) {
	mode := types.RoundNearestCent

	assert.Equal(t, types.MinorUnits(0), NoDiscount().resolve(10000, mode))
	assert.Equal(t, types.MinorUnits(1000), DiscountRate(pct("10")).resolve(10000, mode))
	assert.Equal(t, types.MinorUnits(500), DiscountAmount(500).resolve(10000, mode))

	// Caps at the base in both forms.
	assert.Equal(t, types.MinorUnits(10000), DiscountRate(pct("150")).resolve(10000, mode))
	assert.Equal(t, types.MinorUnits(10000), DiscountAmount(99999).resolve(10000, mode))
}

func TestDiscount_RoundsHalfAwayFromZero(t *testing.T) {
	// 12.5% of 101 cents = 12.625 -> 13.
	assert.Equal(t, types.MinorUnits(13), DiscountRate(pct("12.5")).resolve(101, types.RoundNearestCent))
}

func TestDiscount_Validate(t *testing.T) {
	assert.NoError(t, NoDiscount().validate())
	assert.NoError(t, DiscountRate(pct("10")).validate())
	assert.NoError(t, DiscountAmount(100).validate())

	assert.Error(t, DiscountRate(pct("-1")).validate())
	assert.Error(t, DiscountAmount(-1).validate())

	// Oversized is not invalid; it clips at resolution.
	assert.NoError(t, DiscountAmount(1<<40).validate())
}
