package insights

import "github.com/vinodismyname/mcpeassc/internal/eassc"

// SeasonalPoint is the average figure of one calendar month across years.
type SeasonalPoint struct {
	Month   int     `json:"month"`
	Label   string  `json:"label"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// Seasonal averages the selected field per calendar month, ignoring the year.
// Only non-zero figures count; a month without data averages 0.
func Seasonal(records []eassc.Record, field Field) [12]SeasonalPoint {
	var buckets [12][]float64
	for _, r := range records {
		if r.Month < 1 || r.Month > 12 {
			continue
		}
		buckets[r.Month-1] = append(buckets[r.Month-1], Measure(r, field))
	}
	var out [12]SeasonalPoint
	for i := range out {
		avg, n := meanPositive(buckets[i])
		out[i] = SeasonalPoint{Month: i + 1, Label: monthLabels[i], Average: avg, Count: n}
	}
	return out
}
