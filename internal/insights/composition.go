package insights

import (
	"errors"
	"math"
	"sort"

	"github.com/vinodismyname/mcpeassc/internal/eassc"
)

// ErrNotEnoughYears reports a comparison that needs at least two years.
var ErrNotEnoughYears = errors.New("at least two distinct years are required")

// ShareShift is a product's share in the first and last year, in percent.
type ShareShift struct {
	Product    string  `json:"product"`
	FirstShare float64 `json:"first_share_pct"`
	LastShare  float64 `json:"last_share_pct"`
	// ChangePP is LastShare-FirstShare in percentage points.
	ChangePP float64 `json:"change_pp"`
}

// Composition compares the product mix between two years.
type Composition struct {
	Field     Field        `json:"field"`
	FirstYear int          `json:"first_year"`
	LastYear  int          `json:"last_year"`
	Shifts    []ShareShift `json:"shifts"`
}

// CompositionShift compares product shares of the earliest and latest year,
// largest absolute movement first.
func CompositionShift(records []eassc.Record, field Field) (Composition, error) {
	years := sortedYears(records)
	if len(years) < 2 {
		return Composition{Field: field}, ErrNotEnoughYears
	}
	c := Composition{Field: field, FirstYear: years[0], LastYear: years[len(years)-1]}

	totals := yearTotals(records, field)
	var firstAll, lastAll float64
	for _, byYear := range totals {
		firstAll += byYear[c.FirstYear]
		lastAll += byYear[c.LastYear]
	}
	share := func(v, total float64) float64 {
		if total == 0 {
			return 0
		}
		return v / total * 100
	}
	for _, p := range productOrder(records) {
		f := share(totals[p][c.FirstYear], firstAll)
		l := share(totals[p][c.LastYear], lastAll)
		c.Shifts = append(c.Shifts, ShareShift{
			Product:    p,
			FirstShare: round1(f),
			LastShare:  round1(l),
			ChangePP:   round1(l - f),
		})
	}
	sort.SliceStable(c.Shifts, func(i, j int) bool {
		return math.Abs(c.Shifts[i].ChangePP) > math.Abs(c.Shifts[j].ChangePP)
	})
	return c, nil
}
