package insights

import "github.com/vinodismyname/mcpeassc/internal/eassc"

// Trend statuses.
const (
	StatusStrongGrowth = "Strong Growth"
	StatusGrowing      = "Growing"
	StatusDeclining    = "Declining"
	StatusWeak         = "Weak"
	StatusStable       = "Stable"
)

// trendYears is how many of the earliest years the trend table compares.
const trendYears = 3

// Trend is one product's totals over the compared years and its status.
type Trend struct {
	Product string    `json:"product"`
	Totals  []float64 `json:"totals"`
	// Growth[i] is the change from Totals[i] to Totals[i+1] in percent. It is
	// 0 when Totals[i] is 0, so a product first sold in a later year counts as
	// flat for that step and classifies as Stable unless its other step moves.
	Growth []float64 `json:"growth_pct"`
	Status string    `json:"status"`
}

// TrendReport classifies every product over the earliest three years seen.
type TrendReport struct {
	Field  Field   `json:"field"`
	Years  []int   `json:"years"`
	Trends []Trend `json:"trends"`
}

// Trends computes year-over-year growth between the earliest three calendar
// years of the records and classifies each product with fixed thresholds.
func Trends(records []eassc.Record, field Field) TrendReport {
	years := sortedYears(records)
	if len(years) > trendYears {
		years = years[:trendYears]
	}
	rep := TrendReport{Field: field, Years: years}
	totals := yearTotals(records, field)
	for _, p := range productOrder(records) {
		t := Trend{Product: p, Totals: make([]float64, len(years))}
		for i, y := range years {
			t.Totals[i] = totals[p][y]
		}
		for i := 1; i < len(years); i++ {
			g, _ := growthPct(t.Totals[i-1], t.Totals[i])
			t.Growth = append(t.Growth, g)
		}
		t.Status = Classify(t.Growth)
		rep.Trends = append(rep.Trends, t)
	}
	return rep
}

// Classify maps two consecutive growth rates (percent) to a status. Missing
// rates count as 0.
func Classify(growth []float64) string {
	var g1, g2 float64
	if len(growth) > 0 {
		g1 = growth[0]
	}
	if len(growth) > 1 {
		g2 = growth[1]
	}
	switch {
	case g1 > 10 && g2 > 10:
		return StatusStrongGrowth
	case g1 > 5 || g2 > 5:
		return StatusGrowing
	case g1 < -10 || g2 < -10:
		return StatusDeclining
	case g1 < 0 && g2 < 0:
		return StatusWeak
	default:
		return StatusStable
	}
}
