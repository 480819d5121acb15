package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// maxPriceExponent bounds the decimal exponent accepted from form input.
// Anything outside it is either far beyond int64 cents or below a cent.
const maxPriceExponent = 20

var (
	minCents = decimal.NewFromInt(-1 << 63)
	maxCents = decimal.NewFromInt(1<<63 - 1)
)

// ParseCents converts user-entered major-unit text ("390.00") to integer
// minor units (39000). Blank, unparsable or out-of-range text yields 0.
func ParseCents(text string) int64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return 0
	}
	if exp := d.Exponent(); exp > maxPriceExponent || exp < -maxPriceExponent {
		return 0
	}
	cents := d.Shift(2).Round(0)
	if cents.LessThan(minCents) || cents.GreaterThan(maxCents) {
		return 0
	}
	return cents.IntPart()
}

// FormatCents renders minor units as a fixed two-decimal string.
func FormatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
