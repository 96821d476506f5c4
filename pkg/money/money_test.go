package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	f := NewFormatter(DefaultDisplayConfig())

	cases := []struct {
		amount string
		want   string
	}{
		{"0", "$0.00"},
		{"9.2", "$9.20"},
		{"10.80", "$10.80"},
		{"999.99", "$999.99"},
		{"1000", "$1,000.00"},
		{"10000", "$10,000.00"},
		{"1234567.89", "$1,234,567.89"},
		{"-1234.5", "-$1,234.50"},
	}

	for _, tc := range cases {
		got := f.Format(decimal.RequireFromString(tc.amount))
		assert.Equal(t, tc.want, got, "amount %s", tc.amount)
	}
}

func TestFormatCustomConfig(t *testing.T) {
	f := NewFormatter(DisplayConfig{
		Symbol:            "KZT ",
		DecimalPlaces:     2,
		ThousandSeparator: " ",
	})

	assert.Equal(t, "KZT 1 234 567.89", f.Format(decimal.RequireFromString("1234567.89")))
}

func TestFormatNoSeparator(t *testing.T) {
	f := NewFormatter(DisplayConfig{Symbol: "$", DecimalPlaces: 2})

	assert.Equal(t, "$1000000.00", f.Format(decimal.RequireFromString("1000000")))
}

func TestFormatZeroDecimalPlaces(t *testing.T) {
	f := NewFormatter(DisplayConfig{Symbol: "¥", DecimalPlaces: 0, ThousandSeparator: ","})

	assert.Equal(t, "¥1,235", f.Format(decimal.RequireFromString("1234.6")))
}

func TestNewFormatterNegativePlacesFallsBack(t *testing.T) {
	f := NewFormatter(DisplayConfig{Symbol: "$", DecimalPlaces: -1})

	assert.Equal(t, "$5.00", f.Format(decimal.NewFromInt(5)))
}
