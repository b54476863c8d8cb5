// internal/domain/common/money.go
package common

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Prices travel as dollars (float) on the wire; sums are done in cents so that
// 0.1+0.2 style drift never reaches a charge or a displayed total.

// ToCents converts a dollar amount to integer cents (half away from zero).
func ToCents(dollars float64) int64 {
	if math.IsNaN(dollars) || math.IsInf(dollars, 0) {
		return 0
	}
	return int64(math.Round(dollars * 100))
}

// FromCents converts cents back to dollars.
func FromCents(cents int64) float64 {
	return float64(cents) / 100
}

var usPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatUSD renders cents the way en-US currency formatting does: "$1,234.50", "-$3.00".
func FormatUSD(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return sign + "$" + usPrinter.Sprintf("%d", cents/100) + fmt.Sprintf(".%02d", cents%100)
}
