// Package core provides money parsing and handling utilities.
//
// Amounts are kept as integer cents. Parsing goes through decimal so that
// user input such as "1.234,56" or "12.345" is rounded once, half-up.
package core

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Largest amount accepted from user input, in reais.
var maxAmount = decimal.New(1_000_000_000, 0)

// ParseAmount converts user text into Money.
//
// It accepts dot (12.34) and comma (12,34) decimal separators. When both are
// present the Brazilian convention applies: dots group thousands and the comma
// marks decimals ("1.234,56"). The value is rounded half-up to cents and must
// be strictly positive.
//
// Examples:
//
//	ParseAmount("12.34")    -> 1234 cents
//	ParseAmount("12,34")    -> 1234 cents
//	ParseAmount("1.234,56") -> 123456 cents
//	ParseAmount("12.345")   -> 1235 cents
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Money{}, ErrInvalidAmount
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return Money{}, ErrInvalidAmount
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	if d.GreaterThan(maxAmount) {
		return Money{}, ErrInvalidAmount
	}
	cents := d.Round(2).Shift(2).IntPart()
	if cents <= 0 {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents}, nil
}

// Reais returns the value as a decimal number of reais.
func (m Money) Reais() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

// Abs returns the magnitude of m.
func (m Money) Abs() Money {
	if m.Cents < 0 {
		return Money{Cents: -m.Cents}
	}
	return m
}

func (m Money) IsNegative() bool {
	return m.Cents < 0
}

// FormatBRL renders m as Brazilian reais, e.g. "R$ 1.234,56" or "-R$ 10,00".
func FormatBRL(m Money) string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	whole := strconv.FormatInt(cents/100, 10)
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	frac := cents % 100
	return sign + "R$ " + b.String() + "," + strconv.FormatInt(frac/10, 10) + strconv.FormatInt(frac%10, 10)
}
