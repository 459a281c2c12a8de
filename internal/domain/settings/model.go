// Package settings provides the owner-level billing configuration surface.
package settings

import (
	"github.com/shopspring/decimal"

	"github.com/AzizBrinis/invoice-app-sub003/internal/core/apperror"
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/entity"
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/id"
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/numerator"
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/types"
	"github.com/AzizBrinis/invoice-app-sub003/internal/domain/billing"
)

// BillingSettings holds one owner's tax and numbering configuration as
// persisted. String-typed enum fields are parsed and validated by
// TaxConfiguration(); documents never consume the raw row.
type BillingSettings struct {
	OwnerID id.ID `db:"owner_id" json:"ownerId"`

	Currency       string          `db:"currency" json:"currency"`
	DefaultVATRate decimal.Decimal `db:"default_vat_rate" json:"defaultVatRatePercent"`

	// FODEC surcharge
	SurchargeEnabled bool            `db:"surcharge_enabled" json:"surchargeEnabled"`
	SurchargeRate    decimal.Decimal `db:"surcharge_rate" json:"surchargeRatePercent"`
	SurchargeScope   string          `db:"surcharge_scope" json:"surchargeScope"`
	SurchargeOrder   string          `db:"surcharge_order" json:"surchargeOrder"`

	// Stamp duty (timbre)
	StampEnabled   bool             `db:"stamp_enabled" json:"stampEnabled"`
	StampAutoApply bool             `db:"stamp_auto_apply" json:"stampAutoApply"`
	StampAmount    types.MinorUnits `db:"stamp_amount" json:"stampAmountCents"`

	// TaxDisplayOrder declares the summary output order, comma-free kinds
	TaxDisplayOrder []string `db:"tax_display_order" json:"taxDisplayOrder"`

	// Rounding per scope
	LineRounding     string `db:"line_rounding" json:"lineRounding"`
	DocumentRounding string `db:"document_rounding" json:"documentRounding"`

	// Numbering
	InvoicePrefix string `db:"invoice_prefix" json:"invoicePrefix"`
	QuotePrefix   string `db:"quote_prefix" json:"quotePrefix"`
	ResetAnnually bool   `db:"reset_annually" json:"resetAnnually"`
}

// Defaults returns the settings a new owner starts with.
func Defaults(ownerID id.ID) *BillingSettings {
	cfg := billing.DefaultTaxConfiguration()
	order := make([]string, len(cfg.DisplayOrder))
	for i, k := range cfg.DisplayOrder {
		order[i] = string(k)
	}
	return &BillingSettings{
		OwnerID:          ownerID,
		Currency:         "TND",
		DefaultVATRate:   decimal.NewFromInt(19),
		SurchargeEnabled: cfg.SurchargeEnabled,
		SurchargeRate:    cfg.SurchargeRate,
		SurchargeScope:   string(cfg.SurchargeScope),
		SurchargeOrder:   string(cfg.SurchargeOrder),
		StampEnabled:     cfg.StampEnabled,
		StampAutoApply:   cfg.StampAutoApply,
		StampAmount:      cfg.StampAmount,
		TaxDisplayOrder:  order,
		LineRounding:     string(cfg.LineRounding),
		DocumentRounding: string(cfg.DocumentRounding),
		InvoicePrefix:    "FAC",
		QuotePrefix:      "DEV",
		ResetAnnually:    true,
	}
}

// TaxConfiguration parses the stored row into the engine configuration.
// Unknown enum values fail here, at load time, never during a calculation.
func (s *BillingSettings) TaxConfiguration() (billing.TaxConfiguration, error) {
	lineMode, err := types.ParseRoundingMode(s.LineRounding)
	if err != nil {
		return billing.TaxConfiguration{}, apperror.NewInvalidConfig("invalid line rounding mode").WithCause(err)
	}
	docMode, err := types.ParseRoundingMode(s.DocumentRounding)
	if err != nil {
		return billing.TaxConfiguration{}, apperror.NewInvalidConfig("invalid document rounding mode").WithCause(err)
	}

	order := make([]billing.TaxKind, len(s.TaxDisplayOrder))
	for i, raw := range s.TaxDisplayOrder {
		order[i] = billing.TaxKind(raw)
	}
	if len(order) == 0 {
		order = billing.DefaultTaxConfiguration().DisplayOrder
	}

	cfg := billing.TaxConfiguration{
		SurchargeEnabled: s.SurchargeEnabled,
		SurchargeRate:    s.SurchargeRate,
		SurchargeScope:   billing.SurchargeScope(s.SurchargeScope),
		SurchargeOrder:   billing.CalculationOrder(s.SurchargeOrder),
		StampEnabled:     s.StampEnabled,
		StampAutoApply:   s.StampAutoApply,
		StampAmount:      s.StampAmount,
		DisplayOrder:     order,
		LineRounding:     lineMode,
		DocumentRounding: docMode,
	}
	if err := cfg.Validate(); err != nil {
		return billing.TaxConfiguration{}, err
	}
	return cfg, nil
}

// NumberingConfig resolves the sequence configuration for a document type.
// Caller-supplied overrides, when present, win over the stored settings.
func (s *BillingSettings) NumberingConfig(docType entity.DocumentType, prefixOverride string, resetOverride *bool) numerator.Config {
	cfg := numerator.DefaultConfig(s.OwnerID, docType, s.InvoicePrefix)
	if docType == entity.DocumentTypeQuote {
		cfg.Prefix = s.QuotePrefix
	}
	cfg.ResetAnnually = s.ResetAnnually

	if prefixOverride != "" {
		cfg.Prefix = prefixOverride
	}
	if resetOverride != nil {
		cfg.ResetAnnually = *resetOverride
	}
	return cfg
}
