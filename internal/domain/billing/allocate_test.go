package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AzizBrinis/invoice-app-sub003/internal/core/types"
)

func sumShares(shares []types.MinorUnits) types.MinorUnits {
	var sum types.MinorUnits
	for _, s := range shares {
		sum += s
	}
	return sum
}

func TestAllocate_Proportional(t *testing.T) {
	shares := Allocate(10000, []types.MinorUnits{30000, 70000}, types.RoundNearestCent)

	assert.Equal(t, types.MinorUnits(3000), shares[0])
	assert.Equal(t, types.MinorUnits(7000), shares[1])
	assert.Equal(t, types.MinorUnits(10000), sumShares(shares))
}

func TestAllocate_SingleWeight(t *testing.T) {
	shares := Allocate(999, []types.MinorUnits{12345}, types.RoundNearestCent)

	assert.Equal(t, []types.MinorUnits{999}, shares)
}

func TestAllocate_RemainderAbsorbedExactly(t *testing.T) {
	// 100 over three equal weights: 33 + 33 + 34.
	shares := Allocate(100, []types.MinorUnits{100, 100, 100}, types.RoundNearestCent)

	assert.Equal(t, types.MinorUnits(100), sumShares(shares))
	assert.Equal(t, types.MinorUnits(33), shares[0])
	assert.Equal(t, types.MinorUnits(33), shares[1])
	assert.Equal(t, types.MinorUnits(34), shares[2])
}

func TestAllocate_RemainderGoesToLastNonzeroWeight(t *testing.T) {
	shares := Allocate(100, []types.MinorUnits{100, 100, 100, 0}, types.RoundNearestCent)

	// The trailing zero-weight line gets nothing; line 2 absorbs the remainder.
	assert.Equal(t, types.MinorUnits(0), shares[3])
	assert.Equal(t, types.MinorUnits(34), shares[2])
	assert.Equal(t, types.MinorUnits(100), sumShares(shares))
}

func TestAllocate_AllZeroWeights(t *testing.T) {
	shares := Allocate(50, []types.MinorUnits{0, 0, 0}, types.RoundNearestCent)

	// Nothing to weight by: the whole total lands on the last slot.
	assert.Equal(t, []types.MinorUnits{0, 0, 50}, shares)
}

func TestAllocate_ZeroTotal(t *testing.T) {
	shares := Allocate(0, []types.MinorUnits{100, 200}, types.RoundNearestCent)

	assert.Equal(t, []types.MinorUnits{0, 0}, shares)
}

func TestAllocate_EmptyWeights(t *testing.T) {
	assert.Nil(t, Allocate(100, nil, types.RoundNearestCent))
}

func TestAllocate_ShareNeverExceedsWeight(t *testing.T) {
	// Eleven 3-cent lines and one 1-cent line, discount 27 of subtotal 34.
	// Every 3-cent share rounds 2.38 down to 2, leaving 5 cents of remainder
	// that must not pile onto the 1-cent line.
	weights := make([]types.MinorUnits, 0, 12)
	for i := 0; i < 11; i++ {
		weights = append(weights, 3)
	}
	weights = append(weights, 1)

	shares := Allocate(27, weights, types.RoundNearestCent)

	assert.Equal(t, types.MinorUnits(27), sumShares(shares))
	for i, s := range shares {
		assert.GreaterOrEqual(t, int64(s), int64(0), "share %d", i)
		assert.LessOrEqual(t, int64(s), int64(weights[i]), "share %d", i)
	}
}

func TestAllocate_OverRoundedSumGivesBackFromTail(t *testing.T) {
	// Both halves round up; one cent comes back from the tail.
	shares := Allocate(1, []types.MinorUnits{1, 1}, types.RoundNearestCent)

	assert.Equal(t, []types.MinorUnits{1, 0}, shares)
}

func TestAllocate_SumIsExactForAwkwardSplits(t *testing.T) {
	cases := []struct {
		total   types.MinorUnits
		weights []types.MinorUnits
	}{
		{1, []types.MinorUnits{1, 1, 1}},
		{7, []types.MinorUnits{3, 3, 3}},
		{999, []types.MinorUnits{1, 2, 4, 8, 16}},
		{10001, []types.MinorUnits{333, 333, 334}},
		{1234567, []types.MinorUnits{1, 999999}},
	}

	for _, tc := range cases {
		shares := Allocate(tc.total, tc.weights, types.RoundNearestCent)
		assert.Equal(t, tc.total, sumShares(shares), "weights %v", tc.weights)
		assert.Len(t, shares, len(tc.weights))
	}
}
