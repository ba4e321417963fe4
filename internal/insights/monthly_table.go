package insights

import (
	"sort"
	"strconv"

	"github.com/vinodismyname/mcpeassc/internal/eassc"
	"github.com/vinodismyname/mcpeassc/pkg/numfmt"
)

// Cell is one product/month slot. Present is false when no record covers the
// slot, which renders differently from a reported zero.
type Cell struct {
	Value   float64 `json:"value"`
	Present bool    `json:"present"`
}

// TableRow holds one product's monthly figures.
type TableRow struct {
	Product    string  `json:"product"`
	Cells      []Cell  `json:"cells"`
	Total      float64 `json:"total"`
	Average    float64 `json:"average"`
	HasAverage bool    `json:"has_average"`
}

// MonthlyTable is the product x "YYYY-MM" grid with row and column totals.
type MonthlyTable struct {
	Field        Field      `json:"field"`
	Periods      []string   `json:"periods"`
	Rows         []TableRow `json:"rows"`
	ColumnTotals []float64  `json:"column_totals"`
	GrandTotal   float64    `json:"grand_total"`
	GrandAverage float64    `json:"grand_average"`
}

// BuildMonthlyTable groups records by product and month. Figures of several
// companies for the same product and month are added. Row averages divide by
// the number of non-zero cells; the grand average divides by the number of
// columns with a non-zero total.
func BuildMonthlyTable(records []eassc.Record, field Field) MonthlyTable {
	t := MonthlyTable{Field: field}

	periodSet := map[string]struct{}{}
	cells := map[string]map[string]float64{}
	for _, r := range records {
		p := r.Period()
		periodSet[p] = struct{}{}
		m, ok := cells[r.Product]
		if !ok {
			m = map[string]float64{}
			cells[r.Product] = m
		}
		m[p] += Measure(r, field)
	}
	for p := range periodSet {
		t.Periods = append(t.Periods, p)
	}
	sort.Strings(t.Periods)

	t.ColumnTotals = make([]float64, len(t.Periods))
	for _, product := range productOrder(records) {
		row := TableRow{Product: product, Cells: make([]Cell, len(t.Periods))}
		values := make([]float64, len(t.Periods))
		for i, p := range t.Periods {
			v, ok := cells[product][p]
			row.Cells[i] = Cell{Value: v, Present: ok}
			values[i] = v
			if v > 0 {
				t.ColumnTotals[i] += v
			}
		}
		row.Total = sum(values)
		if avg, n := meanPositive(values); n > 0 {
			row.Average, row.HasAverage = avg, true
		}
		t.Rows = append(t.Rows, row)
	}

	t.GrandTotal = sum(t.ColumnTotals)
	if avg, n := meanPositive(t.ColumnTotals); n > 0 {
		t.GrandAverage = avg
	}
	return t
}

// PeriodLabel renders "2024-03" as "Mar 2024".
func PeriodLabel(period string) string {
	if len(period) != 7 {
		return period
	}
	m, err := strconv.Atoi(period[5:])
	if err != nil || MonthLabel(m) == "" {
		return period
	}
	return MonthLabel(m) + " " + period[:4]
}

// Render lays the table out as text cells: a header row, one row per
// product and a TOTAL row. Absent and zero slots render as a dash.
func (t MonthlyTable) Render(decimals int) [][]string {
	header := []string{"Product"}
	for _, p := range t.Periods {
		header = append(header, PeriodLabel(p))
	}
	header = append(header, "Total", "Average")

	out := [][]string{header}
	for _, row := range t.Rows {
		line := []string{row.Product}
		for _, c := range row.Cells {
			line = append(line, numfmt.Cell(c.Value, c.Present, decimals))
		}
		line = append(line, numfmt.FormatEuropean(row.Total, decimals), numfmt.Cell(row.Average, row.HasAverage, decimals))
		out = append(out, line)
	}

	total := []string{"TOTAL"}
	for _, v := range t.ColumnTotals {
		total = append(total, numfmt.Cell(v, true, decimals))
	}
	total = append(total, numfmt.FormatEuropean(t.GrandTotal, decimals), numfmt.Cell(t.GrandAverage, true, decimals))
	return append(out, total)
}
