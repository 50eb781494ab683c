package models

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AmountScale is the number of fractional digits carried by Amount values.
const AmountScale = 8

// Amount is a non-negative coin quantity with 8 fractional digits.
// All arithmetic truncates toward zero; subtraction clamps at zero.
type Amount struct {
	d decimal.Decimal
}

var secondsPerHour = decimal.NewFromInt(3600)

// ZeroAmount returns the zero amount.
func ZeroAmount() Amount {
	return Amount{}
}

// NewAmountFromString parses a decimal literal into an Amount. Negative
// values are rejected; excess fractional digits are truncated.
func NewAmountFromString(s string) (Amount, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return Amount{}, fmt.Errorf("amount must not be negative: %s", s)
	}
	return Amount{d: d.Truncate(AmountScale)}, nil
}

// AmountFromRate converts an hourly rate and a duration in seconds into
// coins: truncate8(rate * seconds / 3600). Never rounds up.
func AmountFromRate(rate Amount, seconds int64) Amount {
	if seconds <= 0 {
		return Amount{}
	}
	return Amount{
		d: rate.d.Mul(decimal.NewFromInt(seconds)).Div(secondsPerHour).Truncate(AmountScale),
	}
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return Amount{d: a.d.Add(b.d)}
}

// SubClamped returns a - b, clamped at zero. Any clamped remainder is
// silently dropped; callers that need exactness must reconcile separately.
func (a Amount) SubClamped(b Amount) Amount {
	r := a.d.Sub(b.d)
	if r.IsNegative() {
		return Amount{}
	}
	return Amount{d: r}
}

// Cmp compares a and b: -1 if a < b, 0 if equal, 1 if a > b.
func (a Amount) Cmp(b Amount) int {
	return a.d.Cmp(b.d)
}

// IsZero reports whether the amount is zero.
func (a Amount) IsZero() bool {
	return a.d.IsZero()
}

// IsPositive reports whether the amount is greater than zero.
func (a Amount) IsPositive() bool {
	return a.d.IsPositive()
}

// Decimal exposes the underlying decimal value.
func (a Amount) Decimal() decimal.Decimal {
	return a.d
}

// String renders the amount with trailing zeros stripped and at least one
// digit before the point: "2", "0.5", "0.00000001".
func (a Amount) String() string {
	s := a.d.Truncate(AmountScale).StringFixed(AmountScale)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "" {
		return "0"
	}
	return s
}

// Value implements driver.Valuer so Amount maps to NUMERIC columns.
func (a Amount) Value() (driver.Value, error) {
	return a.d.Truncate(AmountScale).String(), nil
}

// Scan implements sql.Scanner.
func (a *Amount) Scan(src any) error {
	var d decimal.Decimal
	if err := d.Scan(src); err != nil {
		return fmt.Errorf("failed to scan amount: %w", err)
	}
	if d.IsNegative() {
		return fmt.Errorf("negative amount in storage: %s", d)
	}
	a.d = d.Truncate(AmountScale)
	return nil
}
