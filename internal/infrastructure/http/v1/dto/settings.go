package dto

import (
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/id"
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/types"
	"github.com/AzizBrinis/invoice-app-sub003/internal/domain/settings"
)

// SaveSettingsRequest replaces the owner's billing settings. The stored row
// is validated through the engine configuration before it is accepted.
type SaveSettingsRequest struct {
	Currency       string `json:"currency" binding:"required,len=3"`
	DefaultVATRate string `json:"defaultVatRatePercent" binding:"required"`

	SurchargeEnabled bool   `json:"surchargeEnabled"`
	SurchargeRate    string `json:"surchargeRatePercent,omitempty"`
	SurchargeScope   string `json:"surchargeScope,omitempty"`
	SurchargeOrder   string `json:"surchargeOrder,omitempty"`

	StampEnabled   bool  `json:"stampEnabled"`
	StampAutoApply bool  `json:"stampAutoApply"`
	StampAmount    int64 `json:"stampAmountCents,omitempty"`

	TaxDisplayOrder []string `json:"taxDisplayOrder,omitempty"`

	LineRounding     string `json:"lineRounding,omitempty"`
	DocumentRounding string `json:"documentRounding,omitempty"`

	InvoicePrefix string `json:"invoicePrefix,omitempty"`
	QuotePrefix   string `json:"quotePrefix,omitempty"`
	ResetAnnually bool   `json:"resetAnnually"`
}

// ToModel converts the request to the settings model, layered over the
// owner's defaults so omitted fields keep their default values.
func (r *SaveSettingsRequest) ToModel(ownerID id.ID) (*settings.BillingSettings, error) {
	s := settings.Defaults(ownerID)

	s.Currency = r.Currency

	vatRate, err := ParseRate("defaultVatRatePercent", r.DefaultVATRate)
	if err != nil {
		return nil, err
	}
	s.DefaultVATRate = *vatRate

	s.SurchargeEnabled = r.SurchargeEnabled
	if r.SurchargeRate != "" {
		rate, err := ParseRate("surchargeRatePercent", r.SurchargeRate)
		if err != nil {
			return nil, err
		}
		s.SurchargeRate = *rate
	}
	if r.SurchargeScope != "" {
		s.SurchargeScope = r.SurchargeScope
	}
	if r.SurchargeOrder != "" {
		s.SurchargeOrder = r.SurchargeOrder
	}

	s.StampEnabled = r.StampEnabled
	s.StampAutoApply = r.StampAutoApply
	if r.StampAmount > 0 {
		s.StampAmount = types.MinorUnits(r.StampAmount)
	}

	if len(r.TaxDisplayOrder) > 0 {
		s.TaxDisplayOrder = r.TaxDisplayOrder
	}
	if r.LineRounding != "" {
		s.LineRounding = r.LineRounding
	}
	if r.DocumentRounding != "" {
		s.DocumentRounding = r.DocumentRounding
	}

	if r.InvoicePrefix != "" {
		s.InvoicePrefix = r.InvoicePrefix
	}
	if r.QuotePrefix != "" {
		s.QuotePrefix = r.QuotePrefix
	}
	s.ResetAnnually = r.ResetAnnually

	// Reject unknown enum values before anything is stored.
	if _, err := s.TaxConfiguration(); err != nil {
		return nil, err
	}

	return s, nil
}
