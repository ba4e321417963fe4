package insights

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"github.com/vinodismyname/mcpeassc/internal/eassc"
)

var monthLabels = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// MonthLabel returns the short English name of month (1-12).
func MonthLabel(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthLabels[month-1]
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }

func round3(x float64) float64 { return math.Round(x*1000) / 1000 }

// sum adds positive values only; zero and absent slots contribute nothing.
func sum(values []float64) float64 {
	pos := positive(values)
	if len(pos) == 0 {
		return 0
	}
	s, err := stats.Sum(pos)
	if err != nil {
		return 0
	}
	return s
}

// meanPositive averages the positive values, ignoring zeros so unreported
// months do not dilute the result.
func meanPositive(values []float64) (float64, int) {
	pos := positive(values)
	if len(pos) == 0 {
		return 0, 0
	}
	m, err := stats.Mean(pos)
	if err != nil {
		return 0, 0
	}
	return m, len(pos)
}

func positive(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if v > 0 {
			out = append(out, v)
		}
	}
	return out
}

// productOrder lists products in first-seen order.
func productOrder(records []eassc.Record) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, r := range records {
		if _, ok := seen[r.Product]; ok {
			continue
		}
		seen[r.Product] = struct{}{}
		out = append(out, r.Product)
	}
	return out
}

func sortedYears(records []eassc.Record) []int {
	seen := map[int]struct{}{}
	var years []int
	for _, r := range records {
		if _, ok := seen[r.Year]; ok {
			continue
		}
		seen[r.Year] = struct{}{}
		years = append(years, r.Year)
	}
	sort.Ints(years)
	return years
}

// yearTotals sums field per product and year.
func yearTotals(records []eassc.Record, field Field) map[string]map[int]float64 {
	acc := map[string]map[int]float64{}
	for _, r := range records {
		m, ok := acc[r.Product]
		if !ok {
			m = map[int]float64{}
			acc[r.Product] = m
		}
		m[r.Year] += Measure(r, field)
	}
	return acc
}

// growthPct is (last-first)/first in percent; ok is false when first is 0.
func growthPct(first, last float64) (float64, bool) {
	if first == 0 {
		return 0, false
	}
	return (last - first) / first * 100, true
}
