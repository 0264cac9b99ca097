// Package format renders currency and percentage values for reasoning strings and reports.
package format

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	if amount < 0 {
		return "-$" + printer.Sprintf("%.2f", math.Abs(amount))
	}
	return "$" + printer.Sprintf("%.2f", amount)
}

// Dollars returns a whole-dollar currency string (e.g., "$1,650").
func Dollars(amount float64) string {
	rounded := math.Round(amount)
	if rounded < 0 {
		return "-$" + printer.Sprintf("%.0f", math.Abs(rounded))
	}
	return "$" + printer.Sprintf("%.0f", rounded)
}

// Percent returns a signed percentage with one decimal (e.g., "-8.5%", "+3.0%").
func Percent(pct float64) string {
	if pct > 0 {
		return printer.Sprintf("+%.1f%%", pct)
	}
	return printer.Sprintf("%.1f%%", pct)
}
