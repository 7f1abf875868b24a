// internal/domain/money.go
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

// Amounts are NUMERIC(10,2): two fractional digits, eight integer digits.
var (
	maxAmount = decimal.New(1, 8)
	hundred   = decimal.NewFromInt(100)
)

func ValidateAmount(d decimal.Decimal) error {
	if !d.Equal(d.Round(2)) {
		return fmt.Errorf("%w: more than two decimal places", ErrInvalidAmount)
	}
	if d.Abs().GreaterThanOrEqual(maxAmount) {
		return fmt.Errorf("%w: out of range", ErrInvalidAmount)
	}
	return nil
}

// ParseAmount accepts both "12.34" and "12,34".
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if err := ValidateAmount(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Cents and FromCents convert for stores that keep money as integers.
func Cents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

func FromCents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}

// DateOf drops the clock part, keeping the calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
