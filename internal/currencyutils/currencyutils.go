// Package currencyutils parses and formats statement amounts.
package currencyutils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrEmptyAmount is returned by ParseAmount for blank input.
var ErrEmptyAmount = errors.New("empty amount")

// SplitTolerance is the largest accepted difference between the sum of split
// entries and the transaction magnitude.
var SplitTolerance = decimal.New(1, -2)

var symbolPattern = regexp.MustCompile(`[€$£¥₹R\s']|BRL|CHF`)

// ParseAmount parses a locale tolerant amount such as "-1.234,56", "1,234.56"
// or "50,00". Blank input yields ErrEmptyAmount.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	if strings.TrimSpace(amountStr) == "" {
		return decimal.Zero, ErrEmptyAmount
	}

	standardized := StandardizeAmount(amountStr)
	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	return amount, nil
}

// StandardizeAmount rewrites an amount into the dotted form understood by
// decimal.NewFromString. When both separators appear the last one is the
// decimal point. A single comma is a decimal comma; repeated commas or dots
// with no other separator are thousands separators.
func StandardizeAmount(amountStr string) string {
	s := symbolPattern.ReplaceAllString(amountStr, "")
	s = strings.TrimPrefix(s, "+")

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") == 1 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	}
	return s
}

// FormatAmount renders an amount with two decimals, prefixed by the currency
// code or symbol when one is given.
func FormatAmount(amount decimal.Decimal, currency string) string {
	formatted := amount.StringFixed(2)
	switch strings.ToUpper(currency) {
	case "":
		return formatted
	case "BRL":
		return "R$ " + formatted
	case "EUR":
		return "€" + formatted
	case "USD":
		return "$" + formatted
	default:
		return strings.ToUpper(currency) + " " + formatted
	}
}

// WithinTolerance reports whether a and b differ by at most SplitTolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(SplitTolerance)
}
