package flow

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/snatchedbeauties/booking-platform/internal/catalog"
)

// Total renders the price line shown in the wizard. Variable pricing never
// yields a number, only the consultation prompt. Units multiply the price
// only for unit based services.
func Total(svc *catalog.ServiceOffering, units int) string {
	if svc == nil {
		return ""
	}
	if svc.VariablePricing {
		return "Consultation Required"
	}
	if svc.Complimentary() {
		return "Complimentary"
	}
	if !svc.UnitBased || units < 1 {
		units = 1
	}
	return "$" + formatPrice(svc.Price*float64(units))
}

// formatPrice prints whole dollar amounts without decimals, like the site
// always has, and everything else with cents.
func formatPrice(p float64) string {
	if p == math.Trunc(p) {
		return strconv.FormatInt(int64(p), 10)
	}
	return strconv.FormatFloat(p, 'f', 2, 64)
}

// FormatSettledAmount renders a settled charge from minor units, e.g.
// 3000 cents usd becomes "$30.00 USD". Used by the confirmation page.
func FormatSettledAmount(cents int64, currency string) string {
	if currency == "" {
		currency = "usd"
	}
	return fmt.Sprintf("$%.2f %s", float64(cents)/100, strings.ToUpper(currency))
}
