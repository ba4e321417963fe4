// Package eassc extracts sales and stock observations from EASSC multi-year
// report grids and merges them into one record per company, product and month.
package eassc

import (
	"fmt"
	"strings"
)

// DataType names which measure an observation carries.
type DataType string

const (
	Sales  DataType = "sales"
	Stocks DataType = "stocks"
)

// DataTypeFromName classifies a report by its file name: names mentioning
// "stock" carry stock levels, everything else carries sales.
func DataTypeFromName(filename string) DataType {
	if strings.Contains(strings.ToLower(filename), "stock") {
		return Stocks
	}
	return Sales
}

// Observation is one positive monthly figure read from a report.
type Observation struct {
	Company  string   `json:"company"`
	Product  string   `json:"product"`
	Year     int      `json:"year"`
	Month    int      `json:"month"`
	Value    float64  `json:"value"`
	DataType DataType `json:"data_type"`
	Source   string   `json:"source"`
}

// Key identifies a Record.
type Key struct {
	Company string
	Product string
	Year    int
	Month   int
}

// Record merges sales and stock figures for one key.
type Record struct {
	Company string  `json:"company"`
	Product string  `json:"product"`
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Sales   float64 `json:"sales"`
	Stocks  float64 `json:"stocks"`
}

// Key returns the identity of the record.
func (r Record) Key() Key {
	return Key{Company: r.Company, Product: r.Product, Year: r.Year, Month: r.Month}
}

// Period returns the "YYYY-MM" label of the record's month.
func (r Record) Period() string {
	return PeriodKey(r.Year, r.Month)
}

// PeriodKey formats a sortable "YYYY-MM" label.
func PeriodKey(year, month int) string {
	return fmt.Sprintf("%d-%02d", year, month)
}
