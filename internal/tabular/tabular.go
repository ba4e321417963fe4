// Package tabular reads CSV and spreadsheet report files into raw string grids.
package tabular

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Grid is a row-major matrix of raw cell strings. Rows may have different lengths.
type Grid [][]string

// Cell returns the cell at (row, col) or "" when it is missing.
func (g Grid) Cell(row, col int) string {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return ""
	}
	return g[row][col]
}

// Kind identifies the decoder used for a file.
type Kind string

const (
	KindCSV  Kind = "csv"
	KindXLSX Kind = "xlsx"
	KindXLS  Kind = "xls"
)

var (
	// ErrUnsupportedFormat indicates a file name that is neither CSV nor a spreadsheet.
	ErrUnsupportedFormat = errors.New("tabular: unsupported format")
	// ErrTooLarge indicates the input exceeded the configured byte limit.
	ErrTooLarge = errors.New("tabular: file exceeds size limit")
	// ErrNoSheets indicates a workbook without any worksheet.
	ErrNoSheets = errors.New("tabular: workbook has no sheets")
	// ErrCorrupt indicates a spreadsheet the decoder could not parse.
	ErrCorrupt = errors.New("tabular: corrupt or unreadable workbook")
)

// KindFromName picks a decoder from the file name. Any name containing ".xls"
// is treated as a spreadsheet; ".xls" exactly selects the legacy BIFF reader.
func KindFromName(name string) (Kind, error) {
	low := strings.ToLower(strings.TrimSpace(name))
	switch {
	case strings.HasSuffix(low, ".csv"):
		return KindCSV, nil
	case filepath.Ext(low) == ".xls":
		return KindXLS, nil
	case strings.Contains(low, ".xls"):
		return KindXLSX, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(low))
	}
}

// ReadError reports a hard failure reading or decoding one file.
type ReadError struct {
	File string
	Kind Kind
	Err  error
}

func (e *ReadError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("read %s: %v", e.File, e.Err)
	}
	return fmt.Sprintf("read %s (%s): %v", e.File, e.Kind, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }
