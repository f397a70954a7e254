package utils

import (
	"fmt"
	"math"
	"strconv"
)

// RoundCurrency rounds a monetary amount to 2 decimal places, half away
// from zero.
func RoundCurrency(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// FormatAmount renders a monetary amount without trailing zeros: 50 stays
// "50", 30.5 stays "30.5", 19.99 stays "19.99". Used for customer-facing
// messages.
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(RoundCurrency(amount), 'f', -1, 64)
}

// FormatEuro renders an amount with the euro sign, message style: "50€".
func FormatEuro(amount float64) string {
	return FormatAmount(amount) + "€"
}

// FormatPrice renders an amount with 2 forced decimals for invoices and
// emails: "19.90 €".
func FormatPrice(amount float64) string {
	return fmt.Sprintf("%.2f €", RoundCurrency(amount))
}
