// Package pricing parses, formats and sums the localized price strings shown by the store.
package pricing

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/themizzi/storecheck/internal/models"
)

// Currency symbols
const (
	EuroSymbol   = "€"
	DollarSymbol = "$"
)

// ParseEUR converts "1.234,56€" into minor units (123456). Whole-euro prices
// shown as "20,--€" read as 2000.
func ParseEUR(s string) (int64, error) {
	v := strings.TrimSpace(s)
	if !strings.HasSuffix(v, EuroSymbol) {
		return 0, fmt.Errorf("price %q: missing %s suffix", s, EuroSymbol)
	}
	v = strings.TrimSpace(strings.TrimSuffix(v, EuroSymbol))
	if whole, ok := strings.CutSuffix(v, ",--"); ok {
		v = whole + ",00"
	}
	v = strings.ReplaceAll(v, ".", "")
	v = strings.Replace(v, ",", ".", 1)
	return toMinor(s, v)
}

// ParseUSD converts "$1,234.56" into minor units (123456)
func ParseUSD(s string) (int64, error) {
	v := strings.TrimSpace(s)
	if !strings.HasPrefix(v, DollarSymbol) {
		return 0, fmt.Errorf("price %q: missing %s prefix", s, DollarSymbol)
	}
	v = strings.TrimPrefix(v, DollarSymbol)
	v = strings.TrimSpace(strings.TrimSuffix(v, " USD"))
	v = strings.ReplaceAll(v, ",", "")
	return toMinor(s, v)
}

// toMinor reads a plain "123" or "123.4" or "123.45" amount
func toMinor(original, decimal string) (int64, error) {
	whole, frac, _ := strings.Cut(decimal, ".")
	if !digits(whole) || len(frac) > 2 || (strings.Contains(decimal, ".") && !digits(frac)) {
		return 0, fmt.Errorf("price %q: not an amount", original)
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units > math.MaxInt64/100-1 {
		return 0, fmt.Errorf("price %q: amount out of range", original)
	}
	var cents int64
	if frac != "" {
		cents, _ = strconv.ParseInt(frac, 10, 64)
		if len(frac) == 1 {
			cents *= 10
		}
	}
	return units*100 + cents, nil
}

func digits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FormatEUR renders minor units as "15,50€"
func FormatEUR(minor int64) string {
	return strings.Replace(decimal(minor), ".", ",", 1) + EuroSymbol
}

// FormatUSD renders minor units as "$15.50"
func FormatUSD(minor int64) string {
	return DollarSymbol + decimal(minor)
}

// Format renders minor units for an ISO currency code. Anything other than USD
// uses the euro layout, which is what the store shows for EUR-zone countries.
func Format(currency string, minor int64) string {
	if strings.EqualFold(currency, "USD") {
		return FormatUSD(minor)
	}
	return FormatEUR(minor)
}

func decimal(minor int64) string {
	sign := ""
	if minor < 0 {
		sign, minor = "-", -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}

// SumFinalPrices totals final_formatted prices fetched for a euro-locale country
func SumFinalPrices(items []*models.NormalizedProduct) (string, error) {
	total, err := sum(items, ParseEUR)
	if err != nil {
		return "", err
	}
	return FormatEUR(total), nil
}

// SumFinalPricesUS totals final_formatted prices fetched with cc=us
func SumFinalPricesUS(items []*models.NormalizedProduct) (string, error) {
	total, err := sum(items, ParseUSD)
	if err != nil {
		return "", err
	}
	return FormatUSD(total), nil
}

func sum(items []*models.NormalizedProduct, parse func(string) (int64, error)) (int64, error) {
	var total int64
	for _, item := range items {
		if item.PriceOverview == nil {
			return 0, fmt.Errorf("product %d (%s) has no price overview", item.SteamAppID, item.Name)
		}
		minor, err := parse(item.PriceOverview.FinalFormatted)
		if err != nil {
			return 0, fmt.Errorf("product %d (%s): %w", item.SteamAppID, item.Name, err)
		}
		total += minor
	}
	return total, nil
}

// CurrencyFor returns the currency the store charges in country cc
func CurrencyFor(cc string) string {
	if strings.EqualFold(cc, "us") {
		return "USD"
	}
	return "EUR"
}

// Localize returns a copy of po in currency with its display strings re-rendered.
// Like the store, initial_formatted is empty unless a discount applies.
func Localize(po *models.PriceOverview, currency string) *models.PriceOverview {
	if po == nil {
		return nil
	}
	out := *po
	out.Currency = currency
	out.FinalFormatted = Format(currency, po.Final)
	out.InitialFormatted = ""
	if po.DiscountPercent > 0 {
		out.InitialFormatted = Format(currency, po.Initial)
	}
	return &out
}
