// Package types provides common type aliases and utilities.
package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MinorUnits represents a monetary value in minor currency units (cents, millimes).
// Storage: int64 - sufficient for ±922 trillion minor units.
// Every amount crossing the engine boundary is a MinorUnits value, never a float.
type MinorUnits int64

func (m MinorUnits) IsZero() bool     { return m == 0 }
func (m MinorUnits) IsPositive() bool { return m > 0 }
func (m MinorUnits) IsNegative() bool { return m < 0 }
func (m MinorUnits) Neg() MinorUnits  { return -m }
func (m MinorUnits) Abs() MinorUnits {
	if m < 0 {
		return -m
	}
	return m
}

// Decimal converts minor units to a decimal value for intermediate rate math.
// The result must always come back through RoundingMode.Round before it is
// observable anywhere.
func (m MinorUnits) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(m))
}

// Min returns the smaller of two amounts.
func Min(a, b MinorUnits) MinorUnits {
	if a < b {
		return a
	}
	return b
}

// RoundingMode names the rule applied at every intermediate rounding point.
// Rounding is never deferred to the end of a computation.
type RoundingMode string

const (
	// RoundNearestCent rounds half away from zero to the nearest minor unit.
	RoundNearestCent RoundingMode = "nearest-cent"
)

// ParseRoundingMode validates a stored rounding mode value.
// Unknown modes are a configuration error, rejected at load time.
func ParseRoundingMode(s string) (RoundingMode, error) {
	switch RoundingMode(s) {
	case RoundNearestCent:
		return RoundNearestCent, nil
	case "":
		return RoundNearestCent, nil
	default:
		return "", fmt.Errorf("unknown rounding mode %q", s)
	}
}

// Round converts a decimal intermediate value to minor units under this mode.
func (r RoundingMode) Round(d decimal.Decimal) MinorUnits {
	switch r {
	case RoundNearestCent:
		return MinorUnits(d.Round(0).IntPart())
	default:
		// Modes are validated at configuration load. An unknown mode reaching
		// a calculation is a programmer error.
		panic(fmt.Sprintf("unvalidated rounding mode %q", string(r)))
	}
}

// Percent applies rate/100 to an amount and rounds once.
func (r RoundingMode) Percent(amount MinorUnits, rate decimal.Decimal) MinorUnits {
	return r.Round(amount.Decimal().Mul(rate).Div(decimal.NewFromInt(100)))
}
