// Package moneybr converts between Brazilian-locale money text and decimal
// amounts. All monetary values cross the API boundary in this textual form,
// never as floating point.
package moneybr

import (
	"fmt"
	"strings"

	"github.com/caixasimples/caixa_simples_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Parse converts Brazilian-locale money text into a decimal amount.
// All characters except digits and the decimal comma are stripped first, so
// "R$ 1.234,56" and "1234,56" both parse to 1234.56. A comma introduces at
// most two fractional digits; extra digits are truncated, not rounded.
// The empty string (or text with no digits at all) parses to zero.
func Parse(text string) (decimal.Decimal, error) {
	var b strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == ',' {
			b.WriteRune(r)
		}
	}
	clean := b.String()
	if clean == "" {
		return decimal.Zero, nil
	}

	intPart := clean
	fracPart := ""
	if i := strings.IndexByte(clean, ','); i >= 0 {
		intPart = clean[:i]
		fracPart = clean[i+1:]
		if strings.IndexByte(fracPart, ',') >= 0 {
			return decimal.Zero, fmt.Errorf("%w: multiple decimal separators in %q", apperrors.ErrValidation, text)
		}
		if len(fracPart) > 2 {
			fracPart = fracPart[:2] // truncate, never round
		}
	}
	if intPart == "" {
		intPart = "0"
	}

	numeric := intPart
	if fracPart != "" {
		numeric = intPart + "." + fracPart
	}
	amount, err := decimal.NewFromString(numeric)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: malformed amount %q", apperrors.ErrValidation, text)
	}
	return amount, nil
}

// Format renders an amount in the Brazilian textual form with exactly two
// fractional digits and "." thousands grouping: 1234567.8 -> "1.234.567,80".
// Round-trips with Parse for every non-negative amount with <= 2 decimals.
func Format(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)
	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	dot := strings.IndexByte(fixed, '.')
	intPart, fracPart := fixed[:dot], fixed[dot+1:]

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	b.WriteByte(',')
	b.WriteString(fracPart)
	return b.String()
}
