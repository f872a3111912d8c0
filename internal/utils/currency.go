package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type Currency struct {
	Code     string `json:"code"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals int    `json:"decimals"`
}

var SupportedCurrencies = map[string]Currency{
	"RWF": {Code: "RWF", Symbol: "RWF", Name: "Rwandan Franc", Decimals: 0},
	"UGX": {Code: "UGX", Symbol: "UGX", Name: "Ugandan Shilling", Decimals: 0},
	"KES": {Code: "KES", Symbol: "KES", Name: "Kenyan Shilling", Decimals: 2},
	"USD": {Code: "USD", Symbol: "$", Name: "US Dollar", Decimals: 2},
}

// FormatCurrency renders an amount as "RWF 12,345". Unknown codes fall back
// to the default currency.
func FormatCurrency(amount float64, currencyCode string) string {
	currency, exists := SupportedCurrencies[currencyCode]
	if !exists {
		currency = SupportedCurrencies[DefaultCurrency]
	}

	separator := " "
	if len(currency.Symbol) == 1 {
		separator = ""
	}
	return currency.Symbol + separator + FormatNumber(amount, currency.Decimals)
}

// FormatNumber groups the integer part in thousands. Trailing fractional
// zeros are dropped.
func FormatNumber(value float64, maxDecimals int) string {
	negative := value < 0
	value = math.Abs(value)

	pow := math.Pow(10, float64(maxDecimals))
	value = math.Round(value*pow) / pow

	whole := math.Floor(value)
	frac := strconv.FormatFloat(value-whole, 'f', maxDecimals, 64)
	frac = strings.TrimRight(strings.TrimPrefix(frac, "0"), "0")
	if frac == "." {
		frac = ""
	}

	digits := strconv.FormatFloat(whole, 'f', 0, 64)
	var b strings.Builder
	if negative && (whole > 0 || frac != "") {
		b.WriteByte('-')
	}
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	b.WriteString(frac)
	return b.String()
}

func FormatCount(n int) string {
	return FormatNumber(float64(n), 0)
}

// FormatWholeCurrency renders "RWF 1234" with no grouping and no decimals.
func FormatWholeCurrency(amount float64, currencyCode string) string {
	currency, exists := SupportedCurrencies[currencyCode]
	if !exists {
		currency = SupportedCurrencies[DefaultCurrency]
	}
	return fmt.Sprintf("%s %.0f", currency.Symbol, amount)
}
