// Package numfmt parses and formats the two numeric inputs of the loan form.
//
// Amounts are Brazilian reais written as “R$ 10.000,00”: a prefix, “.” as the
// thousands separator, “,” as the decimal separator, and two decimal places.
// Rates are written as “1,5 %”: no grouping, “,” as the decimal separator, and
// one decimal place.  Negative values are rejected.  Blank input is zero, so
// clearing a field stores 0 rather than leaving the previous value.
package numfmt

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	AmountPrefix = "R$ "
	RateSuffix   = " %"
	AmountScale  = 2
	RateScale    = 1
)

var (
	ErrNegative = errors.New("negative values are not allowed")
	ErrSyntax   = errors.New("not a number")
)

// grouped matches integers written with "." thousands separators only.
var grouped = regexp.MustCompile(`^\d{1,3}(\.\d{3})+$`)

// ParseAmount converts formatted currency text into a decimal rounded to two
// places.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "R$")
	return parse(s, AmountScale, true)
}

// ParseRate converts formatted percentage text into a decimal rounded to one
// place.
func ParseRate(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, "%")
	return parse(s, RateScale, false)
}

func parse(s string, scale int32, thousands bool) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if s == "" {
		return decimal.Zero, nil
	}
	if strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrNegative
	}

	switch {
	case strings.Contains(s, ","):
		if thousands {
			s = strings.ReplaceAll(s, ".", "")
		}
		s = strings.Replace(s, ",", ".", 1)
	case thousands && grouped.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	if d.IsNegative() {
		return decimal.Zero, ErrNegative
	}
	return d.Round(scale), nil
}

// FormatAmount renders d as “R$ 1.234,56”.
func FormatAmount(d decimal.Decimal) string {
	fixed := d.StringFixed(AmountScale)
	intPart, decPart, _ := strings.Cut(fixed, ".")
	return AmountPrefix + group(intPart) + "," + decPart
}

// FormatRate renders d as “1,5 %”.
func FormatRate(d decimal.Decimal) string {
	fixed := d.StringFixed(RateScale)
	return strings.Replace(fixed, ".", ",", 1) + RateSuffix
}

// group inserts "." every three digits from the right.
func group(digits string) string {
	neg := strings.HasPrefix(digits, "-")
	digits = strings.TrimPrefix(digits, "-")
	if len(digits) <= 3 {
		if neg {
			return "-" + digits
		}
		return digits
	}
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return b.String()
}
