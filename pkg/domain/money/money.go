// Package money provides a fixed-scale monetary value object used for all
// balances and transfer amounts.
//
// Invariants:
//   - Amounts are stored as an integer number of cents (two fractional digits).
//   - Values never pass through binary floating point, neither when parsing
//     request text nor when rendering responses.
//   - Arithmetic is exact and deterministic.
package money

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Scale is the number of fractional digits carried by every Money value.
const Scale = 2

// centsPerUnit is 10^Scale.
const centsPerUnit = 100

// ErrInvalidAmount is returned when text cannot be parsed as a non-negative
// decimal amount with at most Scale fractional digits.
var ErrInvalidAmount = fmt.Errorf("invalid amount")

// Money represents an exact monetary value as an integer count of cents.
// The zero value is 0.00.
type Money struct {
	cents int64
}

// FromCents creates a Money value from a raw cent count. It is intended for
// hydrating values from a data store and for test setup.
func FromCents(cents int64) Money {
	return Money{cents: cents}
}

// Parse converts decimal text such as "250.50" into a Money value.
//
// The text must be a plain non-negative decimal number: optional fractional
// part of at most Scale digits, no sign, no exponent, no grouping separators.
// Anything else, or a magnitude that does not fit in int64 cents, yields
// ErrInvalidAmount.
func Parse(text string) (Money, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Money{}, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}

	whole, frac, hasFrac := strings.Cut(text, ".")
	if whole == "" && frac == "" {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}
	if whole == "" {
		// Normalize ".5" to "0.5".
		whole = "0"
	}
	if hasFrac && frac == "" {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}
	if len(frac) > Scale {
		return Money{}, fmt.Errorf("%w: more than %d fractional digits in %q", ErrInvalidAmount, Scale, text)
	}
	if !digitsOnly(whole) || !digitsOnly(frac) {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}
	if units > math.MaxInt64/centsPerUnit {
		return Money{}, fmt.Errorf("%w: %q exceeds representable range", ErrInvalidAmount, text)
	}
	cents := units * centsPerUnit

	if frac != "" {
		// Right-pad to Scale digits so "5" means 50 cents.
		part, err := strconv.ParseInt(frac+strings.Repeat("0", Scale-len(frac)), 10, 64)
		if err != nil {
			return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
		}
		if cents > math.MaxInt64-part {
			return Money{}, fmt.Errorf("%w: %q exceeds representable range", ErrInvalidAmount, text)
		}
		cents += part
	}

	return Money{cents: cents}, nil
}

func digitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Cents returns the raw cent count.
func (m Money) Cents() int64 {
	return m.cents
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// Subtract returns m - other. The result may be negative; callers that treat
// a negative balance as a business-rule violation must check IsNegative.
func (m Money) Subtract(other Money) Money {
	return Money{cents: m.cents - other.cents}
}

// IsPositive reports whether the value is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m.cents > 0
}

// IsNegative reports whether the value is below zero.
func (m Money) IsNegative() bool {
	return m.cents < 0
}

// IsZero reports whether the value is exactly zero.
func (m Money) IsZero() bool {
	return m.cents == 0
}

// LessThan reports whether m < other.
func (m Money) LessThan(other Money) bool {
	return m.cents < other.cents
}

// Equals reports whether two values are identical.
func (m Money) Equals(other Money) bool {
	return m.cents == other.cents
}

// String renders the value as decimal text with exactly Scale fractional
// digits, e.g. "250.50" or "-0.01". Parse(m.String()) returns m for any
// non-negative value.
func (m Money) String() string {
	// Take the magnitude in uint64 space so math.MinInt64 cents renders
	// correctly instead of overflowing on negation.
	magnitude := uint64(m.cents)
	sign := ""
	if m.cents < 0 {
		sign = "-"
		magnitude = -magnitude
	}
	return fmt.Sprintf("%s%d.%02d", sign, magnitude/centsPerUnit, magnitude%centsPerUnit)
}

// MarshalJSON encodes the value as a JSON string of decimal text, keeping
// amounts exact across the wire.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.String())), nil
}

// UnmarshalJSON decodes a JSON string of decimal text.
func (m *Money) UnmarshalJSON(data []byte) error {
	text, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("%w: amount must be a decimal string", ErrInvalidAmount)
	}
	parsed, err := Parse(text)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
