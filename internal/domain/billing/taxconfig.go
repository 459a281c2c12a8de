// Package billing implements the financial document engine: per-line tax
// arithmetic, document aggregation with proportional allocation, VAT
// bucketing and the ordered tax summary.
//
// All computation is pure and side-effect free: integer minor units in,
// integer minor units out, safe to call from any number of concurrent
// requests.
package billing

import (
	"github.com/shopspring/decimal"

	"github.com/AzizBrinis/invoice-app-sub003/internal/core/apperror"
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/types"
)

// TaxKind tags an entry of the persisted tax summary.
type TaxKind string

const (
	TaxKindVAT       TaxKind = "VAT"
	TaxKindSurcharge TaxKind = "SURCHARGE"
	TaxKindStamp     TaxKind = "STAMP"
)

// Valid reports whether k is a known tax kind.
func (k TaxKind) Valid() bool {
	switch k {
	case TaxKindVAT, TaxKindSurcharge, TaxKindStamp:
		return true
	}
	return false
}

// SurchargeScope selects where the FODEC surcharge is computed.
type SurchargeScope string

const (
	// SurchargeScopeLine computes the surcharge per line on each line's net.
	SurchargeScopeLine SurchargeScope = "line"

	// SurchargeScopeDocument computes the surcharge once on the document net
	// and redistributes it back to lines proportionally.
	SurchargeScopeDocument SurchargeScope = "document"
)

// CalculationOrder fixes whether VAT is computed before or after the
// surcharge enters the base.
type CalculationOrder string

const (
	// OrderBeforeTVA: the surcharge is part of the VAT base.
	OrderBeforeTVA CalculationOrder = "BEFORE_TVA"

	// OrderAfterTVA: VAT is computed on the net alone.
	OrderAfterTVA CalculationOrder = "AFTER_TVA"
)

// TaxConfiguration is the owner-level tax surface, injected read-only into
// the engine. Invalid values are rejected by Validate at configuration load
// time, never per calculation.
type TaxConfiguration struct {
	// FODEC parafiscal surcharge
	SurchargeEnabled bool
	SurchargeRate    decimal.Decimal
	SurchargeScope   SurchargeScope
	SurchargeOrder   CalculationOrder

	// Stamp duty (timbre fiscal): a flat amount added once at document level
	StampEnabled   bool
	StampAutoApply bool
	StampAmount    types.MinorUnits

	// DisplayOrder declares the output ordering of tax kinds in the summary
	DisplayOrder []TaxKind

	// Rounding per scope
	LineRounding     types.RoundingMode
	DocumentRounding types.RoundingMode
}

// DefaultTaxConfiguration returns the standard Tunisian setup: 1% FODEC per
// line before VAT, stamp duty applied automatically, surcharge shown first.
func DefaultTaxConfiguration() TaxConfiguration {
	return TaxConfiguration{
		SurchargeEnabled: false,
		SurchargeRate:    decimal.NewFromInt(1),
		SurchargeScope:   SurchargeScopeLine,
		SurchargeOrder:   OrderBeforeTVA,
		StampEnabled:     false,
		StampAutoApply:   false,
		StampAmount:      0,
		DisplayOrder:     []TaxKind{TaxKindSurcharge, TaxKindVAT, TaxKindStamp},
		LineRounding:     types.RoundNearestCent,
		DocumentRounding: types.RoundNearestCent,
	}
}

// Validate checks the configuration for unknown enum values.
// Fail fast: a document calculation never sees an invalid configuration.
func (c TaxConfiguration) Validate() error {
	switch c.SurchargeScope {
	case SurchargeScopeLine, SurchargeScopeDocument:
	default:
		return apperror.NewInvalidConfig("unknown surcharge scope").
			WithDetail("scope", string(c.SurchargeScope))
	}

	switch c.SurchargeOrder {
	case OrderBeforeTVA, OrderAfterTVA:
	default:
		return apperror.NewInvalidConfig("unknown surcharge calculation order").
			WithDetail("order", string(c.SurchargeOrder))
	}

	if c.SurchargeRate.IsNegative() {
		return apperror.NewInvalidConfig("surcharge rate must not be negative").
			WithDetail("rate", c.SurchargeRate.String())
	}

	if c.StampAmount.IsNegative() {
		return apperror.NewInvalidConfig("stamp amount must not be negative").
			WithDetail("amount", int64(c.StampAmount))
	}

	if len(c.DisplayOrder) == 0 {
		return apperror.NewInvalidConfig("tax display order is empty")
	}
	seen := make(map[TaxKind]bool, len(c.DisplayOrder))
	for _, kind := range c.DisplayOrder {
		if !kind.Valid() {
			return apperror.NewInvalidConfig("unknown tax kind in display order").
				WithDetail("kind", string(kind))
		}
		if seen[kind] {
			return apperror.NewInvalidConfig("duplicate tax kind in display order").
				WithDetail("kind", string(kind))
		}
		seen[kind] = true
	}

	if _, err := types.ParseRoundingMode(string(c.LineRounding)); err != nil {
		return apperror.NewInvalidConfig("invalid line rounding mode").WithCause(err)
	}
	if _, err := types.ParseRoundingMode(string(c.DocumentRounding)); err != nil {
		return apperror.NewInvalidConfig("invalid document rounding mode").WithCause(err)
	}

	return nil
}

// orderIndex gives the sort rank of a kind under the configured order.
// Validate guarantees every kind used by the engine is present or at least
// known; kinds absent from DisplayOrder sort last, after configured ones.
func (c TaxConfiguration) orderIndex(kind TaxKind) int {
	for i, k := range c.DisplayOrder {
		if k == kind {
			return i
		}
	}
	return len(c.DisplayOrder)
}
