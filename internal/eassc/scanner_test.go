package eassc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vinodismyname/mcpeassc/internal/tabular"
)

// threeYearGrid mirrors the EASSC template: a title row, then one block per
// year with a marker row, a month header and product rows ending in a total.
func threeYearGrid() tabular.Grid {
	return tabular.Grid{
		{"EASSC SALES REPORT"},
		{"", "2023"},
		{"Code", "Product", "Jan", "Feb", "Mar"},
		{"1", "Widgets", "100", "0", "1,200"},
		{"2", "Gadgets", "", "n/a", "-5"},
		{"", "TOTAL", "100", "0", "1200"},
		{},
		{"", "2024"},
		{"Code", "Product", "January", "February"},
		{"1", "Widgets", "110", "90"},
		{"", "2025"},
		{"note: figures pending"},
		{"Code", "Product", "Jan"},
		{"1", "Widgets", "130"},
	}
}

func TestScan_ThreeYearSections(t *testing.T) {
	s := NewScanner(1, 4, nil)
	res, err := s.Scan(context.Background(), threeYearGrid(), "SALES_EASSC_2023-2025_template_COMPANY_A.csv")
	require.NoError(t, err)
	require.Equal(t, "Company A", res.Company)
	require.Equal(t, Sales, res.DataType)

	require.Len(t, res.Sections, 3)
	require.Equal(t, []int{2023, 2024, 2025}, []int{res.Sections[0].Year, res.Sections[1].Year, res.Sections[2].Year})
	require.Equal(t, 12, res.Sections[2].HeaderRow)

	type obs struct {
		product     string
		year, month int
		value       float64
	}
	var got []obs
	for _, o := range res.Observations {
		require.Equal(t, "Company A", o.Company)
		require.Equal(t, Sales, o.DataType)
		got = append(got, obs{o.Product, o.Year, o.Month, o.Value})
	}
	require.Equal(t, []obs{
		{"Widgets", 2023, 1, 100},
		{"Widgets", 2023, 3, 1200},
		{"Widgets", 2024, 1, 110},
		{"Widgets", 2024, 2, 90},
		{"Widgets", 2025, 1, 130},
	}, got)
}

func TestScan_OneObservationPerPositiveCell(t *testing.T) {
	grid := tabular.Grid{
		{"2024"},
		{"", "Product", "Jan", "Feb", "Mar", "Apr"},
		{"", "A", "1", "2", "0", "x"},
		{"", "B", "-1", "3", "4", "5"},
	}
	res, err := NewScanner(1, 4, nil).Scan(context.Background(), grid, "sales.csv")
	require.NoError(t, err)
	require.Len(t, res.Observations, 5)
	require.Equal(t, 2, res.Sections[0].DataRows)
	require.Equal(t, 5, res.Sections[0].Observations)
}

func TestScan_NoHeaderWithinLookaheadSkipsSection(t *testing.T) {
	grid := tabular.Grid{
		{"2024"},
		{"a"}, {"b"}, {"c"}, {"d"},
		{"", "Product", "Jan"},
		{"", "Widgets", "10"},
	}
	res, err := NewScanner(1, 4, nil).Scan(context.Background(), grid, "sales.csv")
	require.NoError(t, err)
	require.Empty(t, res.Observations)
	require.Len(t, res.Sections, 1)
	require.True(t, res.Sections[0].Skipped)
	require.Equal(t, -1, res.Sections[0].HeaderRow)

	// A longer lookahead reaches the header.
	res, err = NewScanner(1, 5, nil).Scan(context.Background(), grid, "sales.csv")
	require.NoError(t, err)
	require.Len(t, res.Observations, 1)
}

func TestScan_NoYearMarkerYieldsNothing(t *testing.T) {
	grid := tabular.Grid{
		{"", "Product", "Jan"},
		{"", "Widgets", "10"},
	}
	res, err := NewScanner(1, 4, nil).Scan(context.Background(), grid, "sales.csv")
	require.NoError(t, err)
	require.Empty(t, res.Observations)
	require.Empty(t, res.Sections)

	res, err = NewScanner(1, 4, nil).Scan(context.Background(), tabular.Grid{{"2024"}}, "sales.csv")
	require.NoError(t, err)
	require.Empty(t, res.Sections)
}

func TestScan_YearMarkerEndsSectionEvenWithoutProduct(t *testing.T) {
	grid := tabular.Grid{
		{"2024"},
		{"", "Product", "Jan"},
		{"", "Widgets", "10"},
		{"2025"},
		{"", "Product", "Jan"},
		{"", "Widgets", "20"},
	}
	res, err := NewScanner(1, 4, nil).Scan(context.Background(), grid, "sales.csv")
	require.NoError(t, err)
	require.Len(t, res.Observations, 2)
	require.Equal(t, 2024, res.Observations[0].Year)
	require.Equal(t, 10.0, res.Observations[0].Value)
	require.Equal(t, 2025, res.Observations[1].Year)
	require.Equal(t, 20.0, res.Observations[1].Value)
}

func TestScan_ProductColumnIsConfigurable(t *testing.T) {
	grid := tabular.Grid{
		{"2024"},
		{"Product", "Jan"},
		{"Widgets", "7"},
		{"Grand Total", "7"},
	}
	res, err := NewScanner(0, 4, nil).Scan(context.Background(), grid, "STOCK_EASSC_COMPANY_B.csv")
	require.NoError(t, err)
	require.Len(t, res.Observations, 1)
	o := res.Observations[0]
	require.Equal(t, "Widgets", o.Product)
	require.Equal(t, Stocks, o.DataType)
	require.Equal(t, "Company B", o.Company)
}

func TestScan_HeaderCellWithSeveralMonths(t *testing.T) {
	grid := tabular.Grid{
		{"2024"},
		{"", "Product", "Jan/Feb"},
		{"", "Widgets", "5"},
	}
	res, err := NewScanner(1, 4, nil).Scan(context.Background(), grid, "sales.csv")
	require.NoError(t, err)
	require.Len(t, res.Sections[0].MonthColumns, 2)
	require.Len(t, res.Observations, 2)
	require.Equal(t, 1, res.Observations[0].Month)
	require.Equal(t, 2, res.Observations[1].Month)
}

func TestScan_StrictPolicyReportsCell(t *testing.T) {
	grid := tabular.Grid{
		{"2024"},
		{"", "Product", "Jan"},
		{"", "Widgets", "ten"},
	}
	lenient, err := NewScanner(1, 4, ParseOrDefault).Scan(context.Background(), grid, "sales.csv")
	require.NoError(t, err)
	require.Empty(t, lenient.Observations)

	_, err = NewScanner(1, 4, Strict).Scan(context.Background(), grid, "sales.csv")
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	require.Equal(t, 2, pe.Row)
	require.Equal(t, 2, pe.Col)
	require.Equal(t, "ten", pe.Text)
}

func TestScan_StrictPolicyRejectsNonFinite(t *testing.T) {
	grid := tabular.Grid{
		{"2024"},
		{"", "Product", "Jan", "Feb"},
		{"1", "Widgets", "NaN", "Inf"},
	}
	res, err := NewScanner(1, 4, Strict).Scan(context.Background(), grid, "sales.csv")
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	require.Equal(t, 2, pe.Col)
	require.Equal(t, "NaN", pe.Text)
	require.Empty(t, res.Observations)

	lenient, err := NewScanner(1, 4, ParseOrDefault).Scan(context.Background(), grid, "sales.csv")
	require.NoError(t, err)
	require.Empty(t, lenient.Observations)
}
