package insights

import (
	"sort"

	"github.com/vinodismyname/mcpeassc/internal/eassc"
)

// ProductShare is one product's part of the filtered total.
type ProductShare struct {
	Product string  `json:"product"`
	Total   float64 `json:"total"`
	// Share is the fraction of the overall total (0-1); Percent is the same
	// value in percent rounded to one decimal for display.
	Share   float64 `json:"share"`
	Percent float64 `json:"percent"`
}

// ShareReport describes how the filtered total splits across products.
type ShareReport struct {
	Field  Field          `json:"field"`
	Total  float64        `json:"total"`
	Shares []ProductShare `json:"shares"`
	// HHI is the Herfindahl-Hirschman index over product shares (0-1).
	HHI  float64 `json:"hhi"`
	Band string  `json:"band"`
}

// ProductTotal pairs a product with its summed figure.
type ProductTotal struct {
	Product string  `json:"product"`
	Total   float64 `json:"total"`
}

// CategoryTotals returns each product's total, largest first.
func CategoryTotals(records []eassc.Record, field Field) []ProductTotal {
	acc := map[string]float64{}
	for _, r := range records {
		acc[r.Product] += Measure(r, field)
	}
	out := make([]ProductTotal, 0, len(acc))
	for _, p := range productOrder(records) {
		out = append(out, ProductTotal{Product: p, Total: acc[p]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out
}

// MarketShare computes each product's share of the filtered total and the
// resulting concentration. An empty or all-zero input yields no shares.
func MarketShare(records []eassc.Record, field Field) ShareReport {
	rep := ShareReport{Field: field}
	totals := CategoryTotals(records, field)
	for _, t := range totals {
		rep.Total += t.Total
	}
	if rep.Total == 0 {
		return rep
	}

	var hhi float64
	for _, t := range totals {
		sh := t.Total / rep.Total
		hhi += sh * sh
		rep.Shares = append(rep.Shares, ProductShare{
			Product: t.Product,
			Total:   t.Total,
			Share:   round3(sh),
			Percent: round1(sh * 100),
		})
	}
	rep.HHI = round3(hhi)
	// Bands follow the common antitrust thresholds.
	switch {
	case hhi < 0.15:
		rep.Band = "unconcentrated"
	case hhi < 0.25:
		rep.Band = "moderately_concentrated"
	default:
		rep.Band = "highly_concentrated"
	}
	return rep
}
