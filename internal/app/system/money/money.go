// Package money formats naira amounts for display. Amounts stay numeric in
// models; formatting happens only when a view model is built.
package money

import (
	"math"

	"github.com/dalemusser/nursinghub/internal/domain/models"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// ngn is the naira unit; x/text/currency exports no NGN variable.
var ngn = currency.MustParseISO("NGN")

// Naira formats a as "₦ 12,500.00".
func Naira(a models.Amount) string {
	v := float64(a)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return printer.Sprint(currency.NarrowSymbol(ngn.Amount(round2(v))))
}

// Code formats a as "NGN 12,500.00", for receipts and exports.
func Code(a models.Amount) string {
	v := float64(a)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return printer.Sprint(ngn.Amount(round2(v)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
