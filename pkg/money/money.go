// Package money formats fixed-point amounts for receipts and reports. The
// formatting rules travel in an explicit DisplayConfig rather than being read
// from process-wide settings.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DisplayConfig holds the currency presentation rules for one deployment.
type DisplayConfig struct {
	Symbol            string
	DecimalPlaces     int32
	ThousandSeparator string
}

// DefaultDisplayConfig matches the presentation most registers ship with.
func DefaultDisplayConfig() DisplayConfig {
	return DisplayConfig{
		Symbol:            "$",
		DecimalPlaces:     2,
		ThousandSeparator: ",",
	}
}

// Formatter renders decimal amounts according to one DisplayConfig.
type Formatter struct {
	cfg DisplayConfig
}

// NewFormatter returns a formatter for the given display rules.
func NewFormatter(cfg DisplayConfig) *Formatter {
	if cfg.DecimalPlaces < 0 {
		cfg.DecimalPlaces = 2
	}
	return &Formatter{cfg: cfg}
}

// Format renders an amount with symbol, fixed decimals and thousand grouping,
// e.g. 10000 -> "$10,000.00".
func (f *Formatter) Format(amount decimal.Decimal) string {
	fixed := amount.StringFixed(f.cfg.DecimalPlaces)

	neg := strings.HasPrefix(fixed, "-")
	if neg {
		fixed = fixed[1:]
	}

	intPart := fixed
	fracPart := ""
	if i := strings.IndexByte(fixed, '.'); i >= 0 {
		intPart, fracPart = fixed[:i], fixed[i:]
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(f.cfg.Symbol)
	b.WriteString(groupDigits(intPart, f.cfg.ThousandSeparator))
	b.WriteString(fracPart)
	return b.String()
}

func groupDigits(digits, sep string) string {
	if sep == "" || len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
