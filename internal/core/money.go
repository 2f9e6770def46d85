package core

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Money is an amount in minor units (centavos / cents).
type Money struct {
	Cents int64
}

func Cents(c int64) Money { return Money{Cents: c} }

func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// Pending returns how much of required is still owed after payed,
// never less than zero.
func Pending(required, payed Money) Money {
	if d := required.Cents - payed.Cents; d > 0 {
		return Money{Cents: d}
	}
	return Money{}
}

// String renders the amount the way statements print it: "11,548.46".
func (m Money) String() string {
	return FormatAmount(m.Cents)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, m.Cents, 10), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*m = Money{}
		return nil
	}
	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, data)
	}
	m.Cents = v
	return nil
}

var maxCents = decimal.NewFromInt(math.MaxInt64)
var minCents = decimal.NewFromInt(math.MinInt64)

// ParseAmount converts a display amount to minor units.
//
// Thousands separators are stripped and the value is rounded half away
// from zero to two decimals:
//
//	ParseAmount("11,065.41") -> 1106541, nil
//	ParseAmount("0.005")     -> 1, nil
//	ParseAmount("-12")       -> -1200, nil
func ParseAmount(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	cents := d.Shift(2).Round(0)
	if cents.GreaterThan(maxCents) || cents.LessThan(minCents) {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidAmount, s)
	}
	return cents.IntPart(), nil
}

// FormatAmount renders minor units with thousands separators and two
// decimals: 1154846 -> "11,548.46".
func FormatAmount(cents int64) string {
	sign := ""
	u := uint64(cents)
	if cents < 0 {
		sign = "-"
		u = uint64(-(cents + 1)) + 1
	}
	return fmt.Sprintf("%s%s.%02d", sign, humanize.Comma(int64(u/100)), u%100)
}
