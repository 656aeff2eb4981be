// Package currencyutils cleans statement amounts and converts them to decimals.
package currencyutils

import (
	"fmt"
	"regexp"
	"strings"

	"fjacquet/ebill-csv/internal/models"

	"github.com/shopspring/decimal"
)

// Currency glyphs removed from statement amounts. The entity form survives
// when a statement was HTML-escaped twice.
const (
	YenSign   = "¥"
	YenEntity = "&yen;"
)

var amountGlyphs = strings.NewReplacer(YenSign, "", YenEntity, "", ",", "")

// StripCurrency removes yen glyphs and thousands separators and trims whitespace.
func StripCurrency(raw string) string {
	return strings.TrimSpace(amountGlyphs.Replace(raw))
}

// InvertSign drops a leading minus sign, or prepends one when absent.
// The statement shows charges unsigned and credits signed; the report
// shows spend as negative.
func InvertSign(amount string) string {
	if strings.HasPrefix(amount, "-") {
		return amount[1:]
	}
	return "-" + amount
}

// CleanAmount strips currency glyphs and inverts the sign.
// It is not idempotent: each application flips the sign again.
func CleanAmount(raw string) string {
	return InvertSign(StripCurrency(raw))
}

// ClassifyDirection maps a cleaned amount to spend (leading minus) or income.
func ClassifyDirection(cleaned string) string {
	if strings.HasPrefix(cleaned, "-") {
		return models.DirectionSpend
	}
	return models.DirectionIncome
}

var nonNumeric = regexp.MustCompile(`[^0-9.\-+]`)

// ParseAmount parses a cleaned or raw amount into a decimal value.
// Currency symbols, separators and whitespace are ignored.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	standardized := nonNumeric.ReplaceAllString(StripCurrency(amountStr), "")
	if standardized == "" || standardized == "-" || standardized == "+" {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': no digits", amountStr)
	}

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	return amount, nil
}

// FormatAmount formats an amount with two decimals and a yen sign.
func FormatAmount(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-" + YenSign + amount.Abs().StringFixed(2)
	}
	return YenSign + amount.StringFixed(2)
}
