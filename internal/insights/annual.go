package insights

import (
	"strconv"

	"github.com/vinodismyname/mcpeassc/internal/eassc"
)

// Series is one labelled line or bar group of a chart.
type Series struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
}

// AnnualTotals sums the selected field per product and year.
type AnnualTotals struct {
	Field    Field    `json:"field"`
	Years    []int    `json:"years"`
	Products []string `json:"products"`
	// Series holds one entry per product, valued over Years.
	Series []Series `json:"series"`
}

// Annual computes per-product yearly totals over the sorted distinct years.
func Annual(records []eassc.Record, field Field) AnnualTotals {
	a := AnnualTotals{Field: field, Years: sortedYears(records), Products: productOrder(records)}
	totals := yearTotals(records, field)
	for _, p := range a.Products {
		s := Series{Label: p, Values: make([]float64, len(a.Years))}
		for i, y := range a.Years {
			s.Values[i] = totals[p][y]
		}
		a.Series = append(a.Series, s)
	}
	return a
}

// ByYear transposes the totals into one series per year, valued over Products.
func (a AnnualTotals) ByYear() []Series {
	out := make([]Series, 0, len(a.Years))
	for yi, y := range a.Years {
		s := Series{Label: strconv.Itoa(y), Values: make([]float64, len(a.Products))}
		for pi := range a.Products {
			s.Values[pi] = a.Series[pi].Values[yi]
		}
		out = append(out, s)
	}
	return out
}

// Evolution is the month-by-month series of each product.
type Evolution struct {
	Field   Field    `json:"field"`
	Periods []string `json:"periods"`
	Series  []Series `json:"series"`
}

// MonthlyEvolution returns each product's figure over the sorted months,
// with 0 where a product has no figure.
func MonthlyEvolution(records []eassc.Record, field Field) Evolution {
	t := BuildMonthlyTable(records, field)
	e := Evolution{Field: field, Periods: t.Periods}
	for _, row := range t.Rows {
		s := Series{Label: row.Product, Values: make([]float64, len(row.Cells))}
		for i, c := range row.Cells {
			s.Values[i] = c.Value
		}
		e.Series = append(e.Series, s)
	}
	return e
}
