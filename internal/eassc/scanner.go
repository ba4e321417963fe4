package eassc

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/vinodismyname/mcpeassc/config"
	"github.com/vinodismyname/mcpeassc/internal/tabular"
)

var (
	yearMarkerRe = regexp.MustCompile(`^20\d{2}$`)
	monthAbbrevs = [12]string{"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"}
)

// MonthColumn maps a header column to the calendar month it carries.
type MonthColumn struct {
	Col    int    `json:"col"`
	Month  int    `json:"month"`
	Year   int    `json:"year"`
	Header string `json:"header"`
}

// Section describes one year block found by the scanner. Rows are 0-based.
type Section struct {
	Year         int           `json:"year"`
	MarkerRow    int           `json:"marker_row"`
	HeaderRow    int           `json:"header_row"`
	MonthColumns []MonthColumn `json:"month_columns,omitempty"`
	DataRows     int           `json:"data_rows"`
	Observations int           `json:"observations"`
	Skipped      bool          `json:"skipped,omitempty"`
}

// ScanResult carries the observations of one file and the sections they came from.
type ScanResult struct {
	Company      string        `json:"company"`
	DataType     DataType      `json:"data_type"`
	Observations []Observation `json:"-"`
	Sections     []Section     `json:"sections"`
}

// Scanner locates year sections in a report grid and extracts monthly figures.
type Scanner struct {
	// ProductColumn is the 0-based column holding product labels.
	ProductColumn int
	// HeaderLookahead is how many rows after a year marker may hold the month header.
	HeaderLookahead int
	// Numbers converts month cells; nil means ParseOrDefault.
	Numbers NumberPolicy
}

// NewScanner returns a Scanner, substituting defaults for negative column or
// non-positive lookahead values.
func NewScanner(productColumn, headerLookahead int, numbers NumberPolicy) *Scanner {
	if productColumn < 0 {
		productColumn = config.DefaultProductColumn
	}
	if headerLookahead <= 0 {
		headerLookahead = config.DefaultHeaderLookahead
	}
	if numbers == nil {
		numbers = ParseOrDefault
	}
	return &Scanner{ProductColumn: productColumn, HeaderLookahead: headerLookahead, Numbers: numbers}
}

type scanState int

const (
	seekingYearMarker scanState = iota
	seekingHeaderRow
	readingDataRows
)

// Scan walks the grid as a small state machine:
//
//	seekingYearMarker -> seekingHeaderRow   on a row holding a bare 20xx year
//	seekingHeaderRow  -> readingDataRows    when a month header follows within the lookahead
//	seekingHeaderRow  -> seekingYearMarker  otherwise (section skipped)
//	readingDataRows   -> seekingYearMarker  on the next year marker or the end of the grid
//
// After each section the search resumes on the row following its marker.
// Unrecognized layouts yield fewer or no observations instead of an error; the
// only error is a *ParseError from a strict NumberPolicy.
func (s *Scanner) Scan(ctx context.Context, grid tabular.Grid, filename string) (ScanResult, error) {
	res := ScanResult{Company: ExtractCompanyName(filename), DataType: DataTypeFromName(filename)}
	if len(grid) < 2 {
		return res, nil
	}
	logger := zerolog.Ctx(ctx)
	numbers := s.Numbers
	if numbers == nil {
		numbers = ParseOrDefault
	}

	var (
		state = seekingYearMarker
		sec   Section
		row   int
	)
	finish := func() {
		res.Sections = append(res.Sections, sec)
		logger.Debug().
			Str("file", filename).
			Int("year", sec.Year).
			Int("marker_row", sec.MarkerRow).
			Int("header_row", sec.HeaderRow).
			Int("observations", sec.Observations).
			Bool("skipped", sec.Skipped).
			Msg("year section scanned")
		state = seekingYearMarker
		row = sec.MarkerRow + 1
	}

	for {
		if row >= len(grid) {
			if state != readingDataRows {
				break
			}
			finish()
			continue
		}

		switch state {
		case seekingYearMarker:
			year, ok := yearMarker(grid[row])
			if !ok {
				row++
				continue
			}
			sec = Section{Year: year, MarkerRow: row, HeaderRow: -1}
			state = seekingHeaderRow

		case seekingHeaderRow:
			header := s.findHeader(grid, sec.MarkerRow)
			if header < 0 {
				sec.Skipped = true
				finish()
				continue
			}
			sec.HeaderRow = header
			sec.MonthColumns = monthColumns(grid[header], sec.Year)
			state = readingDataRows
			row = header + 1

		case readingDataRows:
			cells := grid[row]
			if _, ok := yearMarker(cells); ok {
				finish()
				continue
			}
			if err := s.readDataRow(&res, &sec, cells, row, filename, numbers); err != nil {
				return res, err
			}
			row++
		}
	}
	return res, nil
}

func (s *Scanner) readDataRow(res *ScanResult, sec *Section, cells []string, row int, filename string, numbers NumberPolicy) error {
	if len(cells) == 0 {
		return nil
	}
	product := strings.TrimSpace(tabular.Grid{cells}.Cell(0, s.ProductColumn))
	if product == "" || strings.Contains(strings.ToLower(product), "total") {
		return nil
	}
	sec.DataRows++

	for _, mc := range sec.MonthColumns {
		raw := ""
		if mc.Col < len(cells) {
			raw = cells[mc.Col]
		}
		v, err := numbers.Parse(raw)
		if err != nil {
			return &ParseError{File: filename, Row: row, Col: mc.Col, Text: raw}
		}
		if v <= 0 {
			continue
		}
		res.Observations = append(res.Observations, Observation{
			Company:  res.Company,
			Product:  product,
			Year:     mc.Year,
			Month:    mc.Month,
			Value:    v,
			DataType: res.DataType,
			Source:   filename,
		})
		sec.Observations++
	}
	return nil
}

// findHeader returns the first row within the lookahead after marker that
// mentions a month abbreviation, or -1.
func (s *Scanner) findHeader(grid tabular.Grid, marker int) int {
	last := marker + s.HeaderLookahead
	if last >= len(grid) {
		last = len(grid) - 1
	}
	for j := marker + 1; j <= last; j++ {
		for _, cell := range grid[j] {
			if containsMonth(strings.ToLower(cell)) {
				return j
			}
		}
	}
	return -1
}

func yearMarker(cells []string) (int, bool) {
	for _, cell := range cells {
		c := strings.TrimSpace(cell)
		if yearMarkerRe.MatchString(c) {
			year, err := strconv.Atoi(c)
			if err != nil {
				return 0, false
			}
			return year, true
		}
	}
	return 0, false
}

func containsMonth(lower string) bool {
	for _, m := range monthAbbrevs {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// monthColumns lists every (column, month) pair of a header row. A cell naming
// several months contributes one column per month.
func monthColumns(header []string, year int) []MonthColumn {
	var cols []MonthColumn
	for idx, cell := range header {
		h := strings.ToLower(strings.TrimSpace(cell))
		if h == "" {
			continue
		}
		for i, m := range monthAbbrevs {
			if strings.Contains(h, m) {
				cols = append(cols, MonthColumn{Col: idx, Month: i + 1, Year: year, Header: h})
			}
		}
	}
	return cols
}
