package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/AzizBrinis/invoice-app-sub003/internal/core/apperror"
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/id"
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/types"
	"github.com/AzizBrinis/invoice-app-sub003/internal/domain/billing"
	"github.com/AzizBrinis/invoice-app-sub003/internal/domain/documents/invoice"
)

// --- Request DTOs ---

// LineRequest is one submitted line item. Quantities and rates travel as
// strings, amounts as integer cents.
type LineRequest struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity" binding:"required"`
	UnitPrice   int64  `json:"unitPriceCents" binding:"gte=0"`

	VATRate        string `json:"vatRatePercent,omitempty"`
	DiscountRate   string `json:"discountRatePercent,omitempty"`
	DiscountAmount *int64 `json:"discountAmountCents,omitempty"`

	ApplySurcharge bool `json:"applySurcharge,omitempty"`
}

// ToSpec converts the request line to a service line spec.
func (r *LineRequest) ToSpec() (invoice.LineSpec, error) {
	qty, err := decimal.NewFromString(r.Quantity)
	if err != nil {
		return invoice.LineSpec{}, apperror.NewValidation("invalid quantity").
			WithDetail("quantity", r.Quantity)
	}

	vatRate, err := ParseRate("vatRatePercent", r.VATRate)
	if err != nil {
		return invoice.LineSpec{}, err
	}
	discountRate, err := ParseRate("discountRatePercent", r.DiscountRate)
	if err != nil {
		return invoice.LineSpec{}, err
	}

	return invoice.LineSpec{
		Description:    r.Description,
		Quantity:       qty,
		UnitPrice:      types.MinorUnits(r.UnitPrice),
		VATRate:        vatRate,
		DiscountRate:   discountRate,
		DiscountAmount: Cents(r.DiscountAmount),
		ApplySurcharge: r.ApplySurcharge,
	}, nil
}

// OverridesRequest carries per-document tax overrides.
type OverridesRequest struct {
	ApplySurcharge *bool  `json:"applySurcharge,omitempty"`
	ApplyStamp     *bool  `json:"applyStamp,omitempty"`
	SurchargeRate  string `json:"surchargeRatePercent,omitempty"`
	StampAmount    *int64 `json:"stampAmountCents,omitempty"`
}

// ToOverrides converts the request overrides to engine overrides.
func (r *OverridesRequest) ToOverrides() (billing.Overrides, error) {
	if r == nil {
		return billing.Overrides{}, nil
	}
	rate, err := ParseRate("surchargeRatePercent", r.SurchargeRate)
	if err != nil {
		return billing.Overrides{}, err
	}
	return billing.Overrides{
		ApplySurcharge: r.ApplySurcharge,
		ApplyStamp:     r.ApplyStamp,
		SurchargeRate:  rate,
		StampAmount:    Cents(r.StampAmount),
	}, nil
}

// CreateInvoiceRequest represents a request to create an invoice.
type CreateInvoiceRequest struct {
	ClientID string     `json:"clientId" binding:"required"`
	Date     time.Time  `json:"date,omitempty"`
	DueDate  *time.Time `json:"dueDate,omitempty"`
	Comment  string     `json:"comment,omitempty"`

	Lines []LineRequest `json:"lines" binding:"required,dive"`

	GlobalDiscountRate   string `json:"globalDiscountRatePercent,omitempty"`
	GlobalDiscountAmount *int64 `json:"globalDiscountAmountCents,omitempty"`

	Overrides *OverridesRequest `json:"overrides,omitempty"`

	NumberPrefix  string `json:"numberPrefix,omitempty"`
	ResetAnnually *bool  `json:"resetAnnually,omitempty"`
}

// ToInput converts the request to a service create input.
func (r *CreateInvoiceRequest) ToInput(ownerID id.ID) (invoice.CreateInput, error) {
	clientID, err := id.Parse(r.ClientID)
	if err != nil {
		return invoice.CreateInput{}, apperror.NewValidation("invalid client id").
			WithDetail("clientId", r.ClientID)
	}

	lines := make([]invoice.LineSpec, len(r.Lines))
	for i, lr := range r.Lines {
		spec, err := lr.ToSpec()
		if err != nil {
			return invoice.CreateInput{}, err
		}
		lines[i] = spec
	}

	globalRate, err := ParseRate("globalDiscountRatePercent", r.GlobalDiscountRate)
	if err != nil {
		return invoice.CreateInput{}, err
	}

	overrides, err := r.Overrides.ToOverrides()
	if err != nil {
		return invoice.CreateInput{}, err
	}

	return invoice.CreateInput{
		OwnerID:              ownerID,
		ClientID:             clientID,
		Date:                 r.Date,
		DueDate:              r.DueDate,
		Comment:              r.Comment,
		Lines:                lines,
		GlobalDiscountRate:   globalRate,
		GlobalDiscountAmount: Cents(r.GlobalDiscountAmount),
		Overrides:            overrides,
		PrefixOverride:       r.NumberPrefix,
		ResetAnnually:        r.ResetAnnually,
	}, nil
}

// UpdateInvoiceRequest represents a request to update a draft invoice.
// The full financial content is resubmitted and recomputed.
type UpdateInvoiceRequest struct {
	ClientID string     `json:"clientId" binding:"required"`
	Date     time.Time  `json:"date,omitempty"`
	DueDate  *time.Time `json:"dueDate,omitempty"`
	Comment  string     `json:"comment,omitempty"`

	Lines []LineRequest `json:"lines" binding:"required,dive"`

	GlobalDiscountRate   string `json:"globalDiscountRatePercent,omitempty"`
	GlobalDiscountAmount *int64 `json:"globalDiscountAmountCents,omitempty"`

	Overrides *OverridesRequest `json:"overrides,omitempty"`

	Version int `json:"version,omitempty"`
}

// ToInput converts the request to a service update input.
func (r *UpdateInvoiceRequest) ToInput() (invoice.UpdateInput, error) {
	clientID, err := id.Parse(r.ClientID)
	if err != nil {
		return invoice.UpdateInput{}, apperror.NewValidation("invalid client id").
			WithDetail("clientId", r.ClientID)
	}

	lines := make([]invoice.LineSpec, len(r.Lines))
	for i, lr := range r.Lines {
		spec, err := lr.ToSpec()
		if err != nil {
			return invoice.UpdateInput{}, err
		}
		lines[i] = spec
	}

	globalRate, err := ParseRate("globalDiscountRatePercent", r.GlobalDiscountRate)
	if err != nil {
		return invoice.UpdateInput{}, err
	}

	overrides, err := r.Overrides.ToOverrides()
	if err != nil {
		return invoice.UpdateInput{}, err
	}

	return invoice.UpdateInput{
		ClientID:             clientID,
		Date:                 r.Date,
		DueDate:              r.DueDate,
		Comment:              r.Comment,
		Lines:                lines,
		GlobalDiscountRate:   globalRate,
		GlobalDiscountAmount: Cents(r.GlobalDiscountAmount),
		Overrides:            overrides,
		Version:              r.Version,
	}, nil
}

// PaymentRequest registers a received amount on an invoice.
type PaymentRequest struct {
	Amount int64 `json:"amountCents" binding:"required,gt=0"`
}

// --- Response DTOs ---

// The invoice and quote documents marshal with stable json tags on the
// domain models themselves; responses return the models directly. Only the
// list envelope below is DTO-shaped.

// InvoiceListResponse wraps an invoice listing.
type InvoiceListResponse = ListResponse
