package billing

import (
	"github.com/shopspring/decimal"

	"github.com/AzizBrinis/invoice-app-sub003/internal/core/apperror"
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/types"
)

// LineInput is one line item as collected by the caller's form handler.
type LineInput struct {
	// Quantity is a non-negative decimal (units, hours, m2, ...)
	Quantity decimal.Decimal

	// UnitPrice in minor units, tax excluded
	UnitPrice types.MinorUnits

	// VATRate in percent (e.g. 19 for 19%)
	VATRate decimal.Decimal

	// Discount on this line (none, rate or amount; amount caps at line base)
	Discount Discount
}

// LineOptions carries the per-line tax options resolved from configuration.
type LineOptions struct {
	// SurchargeRate, when set, applies the FODEC surcharge to this line
	SurchargeRate *decimal.Decimal

	// Order places the surcharge before or after VAT in the base
	Order CalculationOrder

	// Rounding applied at every intermediate rounding point of this line
	Rounding types.RoundingMode
}

// LineResult holds every derived per-line amount. The invariant
// Gross = Net + Surcharge + VAT holds for every result, all values >= 0.
type LineResult struct {
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitPrice types.MinorUnits `json:"unitPriceCents"`
	VATRate   decimal.Decimal  `json:"vatRatePercent"`

	Base            types.MinorUnits `json:"baseCents"`
	DiscountAmount  types.MinorUnits `json:"discountAmountCents"`
	NetAmount       types.MinorUnits `json:"netAmountCents"`
	SurchargeRate   *decimal.Decimal `json:"surchargeRatePercent,omitempty"`
	SurchargeAmount types.MinorUnits `json:"surchargeAmountCents"`
	VATAmount       types.MinorUnits `json:"vatAmountCents"`
	GrossAmount     types.MinorUnits `json:"grossAmountCents"`

	// GlobalDiscountShare is this line's slice of the document-level
	// discount, filled in by the aggregator. Zero for a standalone line.
	GlobalDiscountShare types.MinorUnits `json:"globalDiscountShareCents,omitempty"`
}

// ComputeLine derives one line's amounts. Pure function; no I/O, no
// randomness. Rounding happens exactly once per derived quantity, never by
// subtracting rounded totals.
//
// Malformed-but-in-range input clips (a discount larger than the base caps at
// the base); structurally invalid input (negative quantity, price or rate)
// returns a typed validation error.
func ComputeLine(in LineInput, opts LineOptions) (LineResult, error) {
	if in.Quantity.IsNegative() {
		return LineResult{}, apperror.NewValidation("quantity must not be negative").
			WithDetail("quantity", in.Quantity.String())
	}
	if in.UnitPrice.IsNegative() {
		return LineResult{}, apperror.NewValidation("unit price must not be negative").
			WithDetail("unitPriceCents", int64(in.UnitPrice))
	}
	if in.VATRate.IsNegative() {
		return LineResult{}, apperror.NewValidation("vat rate must not be negative").
			WithDetail("vatRatePercent", in.VATRate.String())
	}
	if opts.SurchargeRate != nil && opts.SurchargeRate.IsNegative() {
		return LineResult{}, apperror.NewValidation("surcharge rate must not be negative").
			WithDetail("surchargeRatePercent", opts.SurchargeRate.String())
	}
	if err := in.Discount.validate(); err != nil {
		return LineResult{}, err
	}

	mode, err := types.ParseRoundingMode(string(opts.Rounding))
	if err != nil {
		return LineResult{}, apperror.NewInvalidConfig("invalid rounding mode").WithCause(err)
	}
	order := opts.Order
	if order == "" {
		order = OrderBeforeTVA
	}

	base := mode.Round(in.Quantity.Mul(in.UnitPrice.Decimal()))
	discount := in.Discount.resolve(base, mode)
	net := base - discount

	var surcharge types.MinorUnits
	if opts.SurchargeRate != nil {
		surcharge = mode.Percent(net, *opts.SurchargeRate)
	}

	vatBase := net
	if order == OrderBeforeTVA {
		vatBase += surcharge
	}
	vat := mode.Percent(vatBase, in.VATRate)

	return LineResult{
		Quantity:        in.Quantity,
		UnitPrice:       in.UnitPrice,
		VATRate:         in.VATRate,
		Base:            base,
		DiscountAmount:  discount,
		NetAmount:       net,
		SurchargeRate:   opts.SurchargeRate,
		SurchargeAmount: surcharge,
		VATAmount:       vat,
		GrossAmount:     net + surcharge + vat,
	}, nil
}
