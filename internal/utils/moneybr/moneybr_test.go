package moneybr_test

import (
	"testing"

	"github.com/caixasimples/caixa_simples_app/internal/apperrors"
	"github.com/caixasimples/caixa_simples_app/internal/utils/moneybr"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty is zero", "", "0"},
		{"plain integer", "150", "150"},
		{"comma decimal", "677,55", "677.55"},
		{"grouped thousands", "1.234,56", "1234.56"},
		{"currency prefix and spaces", "R$ 2.500,00", "2500"},
		{"extra fraction digits truncated", "10,999", "10.99"},
		{"lone comma", "12,", "12"},
		{"fraction only", ",50", "0.5"},
		{"no digits is zero", "R$ ", "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := moneybr.Parse(tc.in)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)),
				"Parse(%q) = %s, want %s", tc.in, got, tc.want)
		})
	}
}

func TestParse_MultipleCommas(t *testing.T) {
	_, err := moneybr.Parse("1,2,3")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestFormat(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "0,00"},
		{"5", "5,00"},
		{"677.55", "677,55"},
		{"999.9", "999,90"},
		{"1000", "1.000,00"},
		{"1234567.8", "1.234.567,80"},
		{"322.45", "322,45"},
	}

	for _, tc := range cases {
		got := moneybr.Format(decimal.RequireFromString(tc.in))
		assert.Equal(t, tc.want, got, "Format(%s)", tc.in)
	}
}

// parse(format(x)) == x must hold for every non-negative amount representable
// with two decimal digits.
func TestRoundTrip(t *testing.T) {
	for cents := int64(0); cents < 500000; cents += 137 {
		x := decimal.New(cents, -2)
		back, err := moneybr.Parse(moneybr.Format(x))
		require.NoError(t, err)
		require.True(t, back.Equal(x), "round-trip failed for %s (got %s)", x, back)
	}
	// a few large values past the grouping threshold
	for _, s := range []string{"1000.00", "999999.99", "123456789.01"} {
		x := decimal.RequireFromString(s)
		back, err := moneybr.Parse(moneybr.Format(x))
		require.NoError(t, err)
		require.True(t, back.Equal(x), "round-trip failed for %s", x)
	}
}
