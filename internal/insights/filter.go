// Package insights filters normalized EASSC records and computes the grouped,
// annual, share, growth, seasonal and trend views served to clients. Every
// function is pure: input slices are never modified.
package insights

import (
	"strings"

	"github.com/vinodismyname/mcpeassc/internal/eassc"
)

// All matches every value of a filter dimension.
const All = "all"

// Field selects the measure aggregated by a view.
type Field string

const (
	FieldAll    Field = All
	FieldSales  Field = Field(eassc.Sales)
	FieldStocks Field = Field(eassc.Stocks)
)

// FilterState is the client's current selection. Empty values mean All.
type FilterState struct {
	Company  string `json:"company,omitempty" validate:"omitempty,max=128"`
	Category string `json:"category,omitempty" validate:"omitempty,max=256"`
	DataType string `json:"data_type,omitempty" validate:"omitempty,datatype"`
}

// Normalized replaces empty dimensions with All.
func (f FilterState) Normalized() FilterState {
	norm := func(s string) string {
		s = strings.TrimSpace(s)
		if s == "" || strings.EqualFold(s, All) {
			return All
		}
		return s
	}
	return FilterState{
		Company:  norm(f.Company),
		Category: norm(f.Category),
		DataType: strings.ToLower(norm(f.DataType)),
	}
}

// Field returns the measure implied by the data type selection.
func (f FilterState) Field() Field {
	switch strings.ToLower(strings.TrimSpace(f.DataType)) {
	case string(FieldSales):
		return FieldSales
	case string(FieldStocks):
		return FieldStocks
	default:
		return FieldAll
	}
}

// Filter keeps records matching the company, the category (product) and,
// unless the data type is All, carrying a figure of that data type.
func Filter(records []eassc.Record, state FilterState) []eassc.Record {
	st := state.Normalized()
	field := st.Field()
	out := make([]eassc.Record, 0, len(records))
	for _, r := range records {
		if st.Company != All && r.Company != st.Company {
			continue
		}
		if st.Category != All && r.Product != st.Category {
			continue
		}
		if field != FieldAll && Measure(r, field) == 0 {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Measure returns the figure of r selected by field. FieldAll adds sales and
// stocks, matching how a combined view sums every observation.
func Measure(r eassc.Record, field Field) float64 {
	switch field {
	case FieldSales:
		return r.Sales
	case FieldStocks:
		return r.Stocks
	default:
		return r.Sales + r.Stocks
	}
}
