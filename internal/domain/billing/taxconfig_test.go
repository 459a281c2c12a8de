package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaxConfiguration_ValidateDefaults(t *testing.T) {
	assert.NoError(t, DefaultTaxConfiguration().Validate())
}

func TestTaxConfiguration_ValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*TaxConfiguration)
	}{
		{"unknown scope", func(c *TaxConfiguration) { c.SurchargeScope = "warehouse" }},
		{"unknown order", func(c *TaxConfiguration) { c.SurchargeOrder = "DURING_TVA" }},
		{"negative surcharge rate", func(c *TaxConfiguration) { c.SurchargeRate = pct("-1") }},
		{"negative stamp amount", func(c *TaxConfiguration) { c.StampAmount = -100 }},
		{"empty display order", func(c *TaxConfiguration) { c.DisplayOrder = nil }},
		{"unknown tax kind", func(c *TaxConfiguration) { c.DisplayOrder = []TaxKind{"EXCISE"} }},
		{"duplicate tax kind", func(c *TaxConfiguration) { c.DisplayOrder = []TaxKind{TaxKindVAT, TaxKindVAT} }},
		{"bad line rounding", func(c *TaxConfiguration) { c.LineRounding = "banker" }},
		{"bad document rounding", func(c *TaxConfiguration) { c.DocumentRounding = "floor" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultTaxConfiguration()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestTaxConfiguration_OrderIndex(t *testing.T) {
	cfg := DefaultTaxConfiguration()
	cfg.DisplayOrder = []TaxKind{TaxKindVAT, TaxKindStamp}

	assert.Equal(t, 0, cfg.orderIndex(TaxKindVAT))
	assert.Equal(t, 1, cfg.orderIndex(TaxKindStamp))
	// Kinds absent from the configured order sort last.
	assert.Equal(t, 2, cfg.orderIndex(TaxKindSurcharge))
}

func TestTaxKind_Valid(t *testing.T) {
	assert.True(t, TaxKindVAT.Valid())
	assert.True(t, TaxKindSurcharge.Valid())
	assert.True(t, TaxKindStamp.Valid())
	assert.False(t, TaxKind("EXCISE").Valid())
}
