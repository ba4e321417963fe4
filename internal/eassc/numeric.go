package eassc

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// NumberPolicy converts a raw cell into a figure.
type NumberPolicy interface {
	Parse(cell string) (float64, error)
}

// ParseError reports a cell rejected by the Strict policy.
type ParseError struct {
	File string
	Row  int
	Col  int
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: row %d col %d: not a number: %q", e.File, e.Row+1, e.Col+1, e.Text)
}

var leadingNumberRe = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

type parseOrDefault struct{}

// ParseOrDefault removes thousands commas and reads the leading number of a
// cell, falling back to 0 when there is none. "1,250 units" reads as 1250.
var ParseOrDefault NumberPolicy = parseOrDefault{}

func (parseOrDefault) Parse(cell string) (float64, error) {
	s := strings.TrimSpace(strings.ReplaceAll(cell, ",", ""))
	m := leadingNumberRe.FindString(s)
	if m == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, nil
	}
	return v, nil
}

type strictPolicy struct{}

// Strict accepts empty cells as 0 and rejects anything that is not entirely a
// finite number. NaN and Inf spellings are rejected.
var Strict NumberPolicy = strictPolicy{}

func (strictPolicy) Parse(cell string) (float64, error) {
	s := strings.TrimSpace(strings.ReplaceAll(cell, ",", ""))
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", cell)
	}
	return v, nil
}

// PolicyFor returns Strict when strict is set, ParseOrDefault otherwise.
func PolicyFor(strict bool) NumberPolicy {
	if strict {
		return Strict
	}
	return ParseOrDefault
}
