// Package pricing converts catalog costs (galactic credits) into the local
// currency and computes order totals. Every price shown or summed in the
// storefront goes through NormalizedUnitPrice.
package pricing

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// ExchangeRate is the number of credits per unit of local currency.
	ExchangeRate = 10000
	// UnknownCost is the catalog sentinel for an unavailable cost.
	UnknownCost = "unknown"
	// Currency is the local currency code used for presentation.
	Currency = "AED"
)

// NormalizedUnitPrice returns the local-currency price for a raw cost field.
// The longest leading decimal literal is read, so "1,000" is 1 credit and
// "100abc" is 100 credits. Blank, unknown, non-numeric, non-finite and non-positive
// costs yield 0.
func NormalizedUnitPrice(cost string) float64 {
	cost = strings.TrimSpace(cost)
	if cost == "" || cost == UnknownCost {
		return 0
	}
	credits, err := strconv.ParseFloat(leadingNumber(cost), 64)
	if err != nil || math.IsNaN(credits) || math.IsInf(credits, 0) || credits <= 0 {
		return 0
	}
	return credits / ExchangeRate
}

// LineTotal is the local-currency price of quantity units.
func LineTotal(cost string, quantity int) float64 {
	if quantity <= 0 {
		return 0
	}
	return NormalizedUnitPrice(cost) * float64(quantity)
}

// Tax is the flat tax on subtotal.
func Tax(subtotal, taxRate float64) float64 {
	return subtotal * taxRate
}

// OrderTotal adds flat tax to subtotal. No rounding happens here.
func OrderTotal(subtotal, taxRate float64) float64 {
	return subtotal + Tax(subtotal, taxRate)
}

// FormatAmount renders amount with two decimals and the currency code, e.g. "12.50 AED".
func FormatAmount(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2) + " " + Currency
}

// FormatPrice renders the display price of a raw cost field.
func FormatPrice(cost string) string {
	return FormatAmount(NormalizedUnitPrice(cost))
}

// leadingNumber returns the prefix of s matching
// [+-]?(digits[.digits]|.digits)([eE][+-]?digits)?, or "" when there is none.
func leadingNumber(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	intStart := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	digits := i - intStart
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > i+1 {
			digits += j - i - 1
			i = j
		}
	}
	if digits == 0 {
		return ""
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}
	return s[:i]
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
