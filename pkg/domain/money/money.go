// Package money provides the Money value object used for all balances and
// transaction amounts. Amounts are stored as an integer number of kobo, the
// smallest unit of the naira; the bank operates in NGN only.
package money

import (
	"errors"
	"fmt"
	"math"
)

// Code is the ISO 4217 currency the bank operates in.
const Code = "NGN"

// Decimals is the number of subunit decimal places for NGN (kobo).
const Decimals = 2

const subunitsPerUnit = 100

var (
	// ErrAmountNotFinite is returned when an amount is NaN or infinite.
	ErrAmountNotFinite = errors.New("amount must be a finite number")

	// ErrExcessivePrecision is returned when an amount carries more decimal
	// places than the currency supports.
	ErrExcessivePrecision = errors.New("amount has more than two decimal places")

	// ErrAmountOverflow is returned when an amount cannot be represented in
	// the smallest currency unit without overflow.
	ErrAmountOverflow = errors.New("amount exceeds maximum representable value")
)

// Money is a signed monetary value in kobo.
//
// Invariants:
//   - The amount is always an exact integer number of kobo.
//   - Arithmetic never silently loses precision.
type Money struct {
	amount int64
}

// Zero is the zero naira value.
var Zero = Money{}

// New creates Money from a naira amount. The amount must be finite and carry
// at most two decimal places.
func New(naira float64) (Money, error) {
	if math.IsNaN(naira) || math.IsInf(naira, 0) {
		return Money{}, ErrAmountNotFinite
	}
	scaled := naira * subunitsPerUnit
	if scaled > math.MaxInt64 || scaled < math.MinInt64 {
		return Money{}, ErrAmountOverflow
	}
	kobo := math.Round(scaled)
	if math.Abs(scaled-kobo) > 1e-6 {
		return Money{}, ErrExcessivePrecision
	}
	return Money{amount: int64(kobo)}, nil
}

// FromKobo creates Money directly from a kobo amount, as read from storage.
func FromKobo(kobo int64) Money {
	return Money{amount: kobo}
}

// Kobo returns the amount in kobo.
func (m Money) Kobo() int64 {
	return m.amount
}

// Naira returns the amount in naira as a float, for display only.
func (m Money) Naira() float64 {
	return float64(m.amount) / subunitsPerUnit
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount + other.amount}
}

// Subtract returns the difference of two amounts.
func (m Money) Subtract(other Money) Money {
	return Money{amount: m.amount - other.amount}
}

// Negate returns the amount with its sign flipped.
func (m Money) Negate() Money {
	return Money{amount: -m.amount}
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m.amount > 0
}

// IsNegative reports whether the amount is strictly less than zero.
func (m Money) IsNegative() bool {
	return m.amount < 0
}

// GreaterThan reports whether m is strictly greater than other.
func (m Money) GreaterThan(other Money) bool {
	return m.amount > other.amount
}

// Equals reports whether two amounts are equal.
func (m Money) Equals(other Money) bool {
	return m.amount == other.amount
}

// String formats the amount in naira with two decimal places, e.g. "10500.00".
func (m Money) String() string {
	sign := ""
	kobo := m.amount
	if kobo < 0 {
		sign = "-"
		kobo = -kobo
	}
	return fmt.Sprintf("%s%d.%02d", sign, kobo/subunitsPerUnit, kobo%subunitsPerUnit)
}
