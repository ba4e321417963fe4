package insights

import (
	"github.com/montanaflynn/stats"
	"github.com/vinodismyname/mcpeassc/internal/eassc"
)

// Summary carries the headline figures of a filtered selection.
type Summary struct {
	Field     Field   `json:"field"`
	Total     float64 `json:"total"`
	Records   int     `json:"records"`
	Products  int     `json:"products"`
	Companies int     `json:"companies"`
	Periods   int     `json:"periods"`
	// PeriodAverage is the mean of the non-zero monthly totals.
	PeriodAverage float64 `json:"period_average"`
	MinMonth      float64 `json:"min_month"`
	MaxMonth      float64 `json:"max_month"`
	MedianMonth   float64 `json:"median_month"`
}

// Summarize computes totals and monthly spread over the records. Monthly
// statistics consider non-zero monthly totals only.
func Summarize(records []eassc.Record, field Field) Summary {
	t := BuildMonthlyTable(records, field)
	s := Summary{
		Field:         field,
		Total:         t.GrandTotal,
		Records:       len(records),
		Products:      len(t.Rows),
		Periods:       len(t.Periods),
		PeriodAverage: t.GrandAverage,
	}
	companies := map[string]struct{}{}
	for _, r := range records {
		companies[r.Company] = struct{}{}
	}
	s.Companies = len(companies)

	monthly := positive(t.ColumnTotals)
	if len(monthly) == 0 {
		return s
	}
	s.MinMonth, _ = stats.Min(monthly)
	s.MaxMonth, _ = stats.Max(monthly)
	s.MedianMonth, _ = stats.Median(monthly)
	return s
}
