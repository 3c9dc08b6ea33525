package services

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// nonNumericRegexp strips everything but digits and the decimal point.
var nonNumericRegexp = regexp.MustCompile(`[^\d.]`)

// ParsePrice converts a free-text price such as "$1,200,000", "1.2M" or
// "500K" into whole dollars. The boolean is false when the price is unknown.
func ParsePrice(raw string) (int64, bool) {
	s := strings.ToUpper(raw)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	switch {
	case strings.Contains(s, "M"):
		return scaled(strings.ReplaceAll(s, "M", ""), 1_000_000)
	case strings.Contains(s, "K"):
		return scaled(strings.ReplaceAll(s, "K", ""), 1_000)
	default:
		num := nonNumericRegexp.ReplaceAllString(s, "")
		if num == "" {
			return 0, false
		}
		return scaled(num, 1)
	}
}

// scaled multiplies in decimal so "2.3M" is exactly 2,300,000.
func scaled(num string, factor int64) (int64, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(num))
	if err != nil {
		return 0, false
	}
	return d.Mul(decimal.New(factor, 0)).IntPart(), true
}

// PriceFilter admits listings whose asking price falls inside an inclusive window.
type PriceFilter struct {
	Min int64
	Max int64
}

// Admits returns true for unknown prices (left for the rater to judge) and
// for parsed prices within [Min, Max].
func (f PriceFilter) Admits(raw string) bool {
	price, ok := ParsePrice(raw)
	if !ok {
		return true
	}
	return f.Min <= price && price <= f.Max
}
