// Package numfmt renders report figures in the European (de-DE) convention:
// '.' groups thousands and ',' separates decimals.
package numfmt

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Placeholder is rendered for absent or non-numeric values.
const Placeholder = "-"

// FormatEuropean formats v with the given number of decimals, rounding half
// away from zero. NaN and infinities render as Placeholder.
//
//	FormatEuropean(1234.56, 2) == "1.234,56"
//	FormatEuropean(1234.56, 0) == "1.235"
func FormatEuropean(v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Placeholder
	}
	if decimals < 0 {
		decimals = 0
	}
	s := decimal.NewFromFloat(v).StringFixed(int32(decimals))

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg && strings.Trim(intPart+fracPart, "0") != "" {
		b.WriteByte('-')
	}
	b.WriteString(group(intPart))
	if fracPart != "" {
		b.WriteByte(',')
		b.WriteString(fracPart)
	}
	return b.String()
}

// FormatAny formats numeric values and renders anything else as Placeholder.
func FormatAny(v any, decimals int) string {
	switch n := v.(type) {
	case float64:
		return FormatEuropean(n, decimals)
	case float32:
		return FormatEuropean(float64(n), decimals)
	case int:
		return FormatEuropean(float64(n), decimals)
	case int64:
		return FormatEuropean(float64(n), decimals)
	case int32:
		return FormatEuropean(float64(n), decimals)
	default:
		return Placeholder
	}
}

// Percent renders v as a one-decimal percentage, e.g. "12,5%".
func Percent(v float64) string {
	s := FormatEuropean(v, 1)
	if s == Placeholder {
		return s
	}
	return s + "%"
}

// Cell renders v when present and positive, Placeholder otherwise. Tables use
// it so unreported slots and zero values both show a dash.
func Cell(v float64, present bool, decimals int) string {
	if !present || v <= 0 {
		return Placeholder
	}
	return FormatEuropean(v, decimals)
}

func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
