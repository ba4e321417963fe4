package tabular

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadCSV_QuotedFieldsKeepCommas(t *testing.T) {
	in := "Code,Product,Jan\n" +
		`1,"Widgets, large","1,250"` + "\n" +
		"\n" +
		"   \n" +
		`2, Gadgets ,  30 ` + "\r\n"

	grid, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, grid, 3)
	require.Equal(t, []string{"Code", "Product", "Jan"}, grid[0])
	require.Equal(t, []string{"1", "Widgets, large", "1,250"}, grid[1])
	require.Equal(t, []string{"2", "Gadgets", "30"}, grid[2])
}

func TestReadCSV_QuoteAlwaysToggles(t *testing.T) {
	// A doubled quote is not an escape: it closes and reopens the quoted state.
	grid, err := ReadCSV(strings.NewReader(`"say ""hi"", ok",x`))
	require.NoError(t, err)
	require.Equal(t, []string{"say hi, ok", "x"}, grid[0])
}

func TestReadCSV_StripsBOM(t *testing.T) {
	grid, err := ReadCSV(strings.NewReader("\xEF\xBB\xBF2024,\nA,B"))
	require.NoError(t, err)
	require.Equal(t, "2024", grid[0][0])
	require.Equal(t, []string{"2024", ""}, grid[0])
}

func TestGridCell(t *testing.T) {
	g := Grid{{"a"}, {"b", "c"}}
	require.Equal(t, "c", g.Cell(1, 1))
	require.Equal(t, "", g.Cell(0, 3))
	require.Equal(t, "", g.Cell(5, 0))
	require.Equal(t, "", g.Cell(-1, 0))
}

func TestKindFromName(t *testing.T) {
	cases := map[string]Kind{
		"SALES_EASSC_COMPANY_A.csv": KindCSV,
		"report.CSV":                KindCSV,
		"stock.xlsx":                KindXLSX,
		"stock.XLSM":                KindXLSX,
		"legacy.xls":                KindXLS,
	}
	for name, want := range cases {
		got, err := KindFromName(name)
		require.NoError(t, err, name)
		require.Equal(t, want, got, name)
	}
	_, err := KindFromName("notes.txt")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func workbookBytes(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	// A second sheet must be ignored.
	_, err := f.NewSheet("Other")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Other", "A1", "ignored"))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return buf.Bytes()
}

func TestReader_ReadsFirstWorkbookSheet(t *testing.T) {
	data := workbookBytes(t, [][]any{
		{nil, "2024"},
		{"Code", "Product", "Jan", "Feb"},
		{1, "Widgets", 100, 0},
	})

	grid, err := Reader{}.Read(context.Background(), BytesSource("SALES_COMPANY_A.xlsx", data))
	require.NoError(t, err)
	require.Len(t, grid, 3)
	require.Equal(t, []string{"", "2024"}, grid[0])
	require.Equal(t, "Widgets", grid.Cell(2, 1))
	require.Equal(t, "100", grid.Cell(2, 2))
}

func TestReader_CorruptWorkbookIsReadError(t *testing.T) {
	for _, name := range []string{"broken.xlsx", "broken.xls"} {
		_, err := Reader{}.Read(context.Background(), BytesSource(name, []byte("definitely not a workbook")))
		require.Error(t, err, name)
		var re *ReadError
		require.True(t, errors.As(err, &re), name)
		require.Equal(t, name, re.File)
		require.Contains(t, err.Error(), name)
		require.ErrorIs(t, err, ErrCorrupt, name)
	}
}

func TestReader_SizeLimit(t *testing.T) {
	rd := Reader{MaxBytes: 8}
	_, err := rd.Read(context.Background(), BytesSource("big.csv", []byte("2024,Jan,Feb,Mar\n")))
	require.ErrorIs(t, err, ErrTooLarge)

	grid, err := rd.Read(context.Background(), BytesSource("ok.csv", []byte("a,b")))
	require.NoError(t, err)
	require.Equal(t, Grid{{"a", "b"}}, grid)
}

func TestReader_FileSourceMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.csv")
	_, err := Reader{}.Read(context.Background(), FileSource(path))
	var re *ReadError
	require.ErrorAs(t, err, &re)
	require.Equal(t, "missing.csv", re.File)
	require.Equal(t, KindCSV, re.Kind)
}

func TestReader_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Reader{}.Read(ctx, BytesSource("a.csv", []byte("x")))
	require.ErrorIs(t, err, context.Canceled)
}

func TestReader_XLSFirstSheetGrid(t *testing.T) {
	path := filepath.Join("testdata", "SALES_EASSC_COMPANY_A.xls")

	grid, err := Reader{}.Read(context.Background(), FileSource(path))
	require.NoError(t, err)
	require.Equal(t, Grid{
		{"", "2024"},
		{"Code", "Product", "Jan", "Feb"},
		{"1", "Widgets", "100", "12.5"},
	}, grid)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	fromBytes, err := Reader{}.Read(context.Background(), BytesSource("upload.xls", data))
	require.NoError(t, err)
	require.Equal(t, grid, fromBytes)
}
