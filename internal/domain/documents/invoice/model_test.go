package invoice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AzizBrinis/invoice-app-sub003/internal/core/id"
	"github.com/AzizBrinis/invoice-app-sub003/internal/domain/billing"
)

func TestTaxSummaryColumn_PreservesOrder(t *testing.T) {
	rate := dec("19")
	col := TaxSummaryColumn{
		{Kind: billing.TaxKindSurcharge, Label: "FODEC", Base: 100000, Amount: 1000},
		{Kind: billing.TaxKindVAT, RatePercent: &rate, Label: "TVA 19%", Base: 101000, Amount: 19190},
		{Kind: billing.TaxKindStamp, Label: "Timbre fiscal", Amount: 1000},
	}

	val, err := col.Value()
	require.NoError(t, err)

	var decoded TaxSummaryColumn
	require.NoError(t, decoded.Scan(val))

	require.Len(t, decoded, 3)
	assert.Equal(t, billing.TaxKindSurcharge, decoded[0].Kind)
	assert.Equal(t, billing.TaxKindVAT, decoded[1].Kind)
	assert.Equal(t, billing.TaxKindStamp, decoded[2].Kind)
	assert.True(t, decoded[1].RatePercent.Equal(rate))
	assert.Nil(t, decoded[2].RatePercent)
}

func TestTaxSummaryColumn_NilValue(t *testing.T) {
	var col TaxSummaryColumn
	val, err := col.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", val)

	var decoded TaxSummaryColumn
	require.NoError(t, decoded.Scan(nil))
	assert.Nil(t, decoded)
}

func TestInvoice_ValidateLineConsistency(t *testing.T) {
	inv := NewInvoice(id.New(), id.New(), "TND")
	inv.Lines = []Line{{
		LineID:      id.New(),
		LineNo:      1,
		Quantity:    dec("1"),
		NetAmount:   100,
		VATAmount:   19,
		GrossAmount: 200, // does not reconcile
	}}

	err := inv.Validate(context.Background())
	assert.Error(t, err)

	inv.Lines[0].GrossAmount = 119
	assert.NoError(t, inv.Validate(context.Background()))
}
