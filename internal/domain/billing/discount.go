package billing

import (
	"github.com/shopspring/decimal"

	"github.com/AzizBrinis/invoice-app-sub003/internal/core/apperror"
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/types"
)

type discountKind int

const (
	discountNone discountKind = iota
	discountRate
	discountAmount
)

// Discount is a closed sum type: none, a percentage rate, or an explicit
// amount. Callers that receive both a rate and an amount from legacy inputs
// must pick one before constructing a Discount; the engine never resolves
// that precedence at runtime.
type Discount struct {
	kind   discountKind
	rate   decimal.Decimal
	amount types.MinorUnits
}

// NoDiscount returns the zero discount.
func NoDiscount() Discount {
	return Discount{kind: discountNone}
}

// DiscountRate builds a percentage discount.
func DiscountRate(percent decimal.Decimal) Discount {
	return Discount{kind: discountRate, rate: percent}
}

// DiscountAmount builds an explicit amount discount.
func DiscountAmount(cents types.MinorUnits) Discount {
	return Discount{kind: discountAmount, amount: cents}
}

// ResolveDiscount maps the legacy two-nullable-fields input shape onto the
// sum type. The explicit amount wins when both are supplied; that precedence
// lives here, at the boundary, and nowhere inside the engine.
func ResolveDiscount(rate *decimal.Decimal, amount *types.MinorUnits) Discount {
	switch {
	case amount != nil:
		return DiscountAmount(*amount)
	case rate != nil:
		return DiscountRate(*rate)
	default:
		return NoDiscount()
	}
}

// IsZero reports whether the discount is absent.
func (d Discount) IsZero() bool {
	return d.kind == discountNone
}

// validate rejects structurally invalid discounts (negative rate or amount).
// Amounts exceeding their base are not an error; they clip at resolution.
func (d Discount) validate() error {
	switch d.kind {
	case discountRate:
		if d.rate.IsNegative() {
			return apperror.NewValidation("discount rate must not be negative").
				WithDetail("rate", d.rate.String())
		}
	case discountAmount:
		if d.amount.IsNegative() {
			return apperror.NewValidation("discount amount must not be negative").
				WithDetail("amount", int64(d.amount))
		}
	}
	return nil
}

// resolve computes the discount against a base, rounding once and silently
// capping at the base. A discount can never exceed what it discounts.
func (d Discount) resolve(base types.MinorUnits, mode types.RoundingMode) types.MinorUnits {
	var requested types.MinorUnits
	switch d.kind {
	case discountNone:
		return 0
	case discountRate:
		requested = mode.Percent(base, d.rate)
	case discountAmount:
		requested = d.amount
	}
	return types.Min(requested, base)
}
