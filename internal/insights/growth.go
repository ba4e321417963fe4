package insights

import (
	"sort"

	"github.com/vinodismyname/mcpeassc/internal/eassc"
)

// ProductGrowth compares a product's first-year and last-year totals.
type ProductGrowth struct {
	Product string  `json:"product"`
	First   float64 `json:"first"`
	Last    float64 `json:"last"`
	Growth  float64 `json:"growth_pct"`
	// Defined is false when the first-year total is 0; Growth is then 0.
	Defined bool `json:"defined"`
}

// GrowthReport holds growth between the earliest and latest year present.
type GrowthReport struct {
	Field     Field `json:"field"`
	FirstYear int   `json:"first_year,omitempty"`
	LastYear  int   `json:"last_year,omitempty"`
	// Computed is false when fewer than two distinct years are present.
	Computed bool            `json:"computed"`
	Rates    []ProductGrowth `json:"rates"`
}

// GrowthRates computes (last-first)/first*100 per product. Products with a
// defined rate come first, highest growth first.
func GrowthRates(records []eassc.Record, field Field) GrowthReport {
	rep := GrowthReport{Field: field}
	years := sortedYears(records)
	if len(years) < 2 {
		return rep
	}
	rep.Computed = true
	rep.FirstYear, rep.LastYear = years[0], years[len(years)-1]

	totals := yearTotals(records, field)
	for _, p := range productOrder(records) {
		first, last := totals[p][rep.FirstYear], totals[p][rep.LastYear]
		g, ok := growthPct(first, last)
		rep.Rates = append(rep.Rates, ProductGrowth{Product: p, First: first, Last: last, Growth: g, Defined: ok})
	}
	sort.SliceStable(rep.Rates, func(i, j int) bool {
		a, b := rep.Rates[i], rep.Rates[j]
		if a.Defined != b.Defined {
			return a.Defined
		}
		return a.Growth > b.Growth
	})
	return rep
}
