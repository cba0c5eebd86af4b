package recurrence

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatEUR renders an amount the Italian way, e.g. 1.234,50 €.
func FormatEUR(amount float64) string {
	p := message.NewPrinter(language.Italian)
	return p.Sprintf("%.2f €", amount)
}

// roundCents rounds to two decimals, half away from zero.
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
