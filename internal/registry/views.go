package registry

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/vinodismyname/mcpeassc/internal/eassc"
	"github.com/vinodismyname/mcpeassc/internal/insights"
	"github.com/vinodismyname/mcpeassc/internal/sessions"
	"github.com/vinodismyname/mcpeassc/pkg/mcperr"
	"github.com/vinodismyname/mcpeassc/pkg/numfmt"
	"github.com/vinodismyname/mcpeassc/pkg/validation"
)

// view computes one aggregated result over filtered records.
type view[T any] struct {
	compute   func([]eassc.Record, insights.Field) (T, error)
	summarize func(T) []string
}

// runView filters the session dataset and applies v. An empty selection is
// reported as NO_DATA rather than an empty result.
func runView[T any](h *Handlers, in ViewInput, v view[T]) *mcp.CallToolResult {
	if msg := validation.ValidateStruct(in); msg != "" {
		return mcperr.FromText(msg)
	}
	state := in.filter()
	var (
		out     ViewOutput[T]
		matched int
	)
	err := h.Sessions.WithRead(in.SessionID, func(s sessions.Snapshot) error {
		filtered := insights.Filter(s.Dataset.Records, state)
		matched = len(filtered)
		if matched == 0 {
			return nil
		}
		res, err := v.compute(filtered, state.Field())
		if err != nil {
			return err
		}
		out = ViewOutput[T]{SessionID: s.ID, Version: s.Version, Filter: state, Records: matched, Result: res}
		return nil
	})
	if err != nil {
		return toolError(err)
	}
	if matched == 0 {
		return mcperr.Wrapf(mcperr.NoData, "no records for company=%s category=%s data_type=%s", state.Company, state.Category, state.DataType)
	}
	header := fmt.Sprintf("records=%d company=%s category=%s data_type=%s", matched, state.Company, state.Category, state.DataType)
	return structured(out, append([]string{header}, v.summarize(out.Result)...), h.Budget)
}

func pure[T any](fn func([]eassc.Record, insights.Field) T) func([]eassc.Record, insights.Field) (T, error) {
	return func(r []eassc.Record, f insights.Field) (T, error) { return fn(r, f), nil }
}

func eur(v float64) string { return numfmt.FormatEuropean(v, 0) }

var (
	monthlyTableView = view[insights.MonthlyTable]{
		compute: pure(insights.BuildMonthlyTable),
		summarize: func(t insights.MonthlyTable) []string {
			rows := t.Render(0)
			out := make([]string, 0, len(rows))
			for _, r := range rows {
				out = append(out, strings.Join(r, " | "))
			}
			return out
		},
	}

	annualView = view[AnnualView]{
		compute: pure(func(r []eassc.Record, f insights.Field) AnnualView {
			a := insights.Annual(r, f)
			return AnnualView{AnnualTotals: a, ByYear: a.ByYear()}
		}),
		summarize: func(a AnnualView) []string {
			years := make([]string, len(a.Years))
			for i, y := range a.Years {
				years[i] = strconv.Itoa(y)
			}
			out := []string{"Product | " + strings.Join(years, " | ")}
			for _, s := range a.Series {
				vals := make([]string, len(s.Values))
				for i, v := range s.Values {
					vals[i] = eur(v)
				}
				out = append(out, s.Label+" | "+strings.Join(vals, " | "))
			}
			return out
		},
	}

	evolutionView = view[insights.Evolution]{
		compute: pure(insights.MonthlyEvolution),
		summarize: func(e insights.Evolution) []string {
			out := []string{fmt.Sprintf("periods=%d series=%d", len(e.Periods), len(e.Series))}
			for _, s := range e.Series {
				vals := make([]string, len(s.Values))
				for i, v := range s.Values {
					vals[i] = numfmt.Cell(v, true, 0)
				}
				out = append(out, s.Label+": "+strings.Join(vals, " "))
			}
			return out
		},
	}

	shareView = view[insights.ShareReport]{
		compute: pure(insights.MarketShare),
		summarize: func(r insights.ShareReport) []string {
			out := []string{fmt.Sprintf("total=%s hhi=%.3f band=%s", eur(r.Total), r.HHI, r.Band)}
			for _, s := range r.Shares {
				out = append(out, fmt.Sprintf("- %s: %s (%s)", s.Product, numfmt.Percent(s.Percent), eur(s.Total)))
			}
			return out
		},
	}

	categoryView = view[[]insights.ProductTotal]{
		compute: pure(insights.CategoryTotals),
		summarize: func(ts []insights.ProductTotal) []string {
			out := make([]string, 0, len(ts))
			for _, t := range ts {
				out = append(out, fmt.Sprintf("- %s: %s", t.Product, eur(t.Total)))
			}
			return out
		},
	}

	growthView = view[insights.GrowthReport]{
		compute: pure(insights.GrowthRates),
		summarize: func(g insights.GrowthReport) []string {
			if !g.Computed {
				return []string{"growth needs at least two distinct years"}
			}
			out := []string{fmt.Sprintf("growth %d -> %d", g.FirstYear, g.LastYear)}
			for _, r := range g.Rates {
				rate := "n/a"
				if r.Defined {
					rate = numfmt.Percent(r.Growth)
				}
				out = append(out, fmt.Sprintf("- %s: %s -> %s (%s)", r.Product, eur(r.First), eur(r.Last), rate))
			}
			return out
		},
	}

	seasonalView = view[[12]insights.SeasonalPoint]{
		compute: pure(insights.Seasonal),
		summarize: func(pts [12]insights.SeasonalPoint) []string {
			out := make([]string, 0, len(pts))
			for _, p := range pts {
				out = append(out, fmt.Sprintf("%s: %s (n=%d)", p.Label, numfmt.FormatEuropean(p.Average, 1), p.Count))
			}
			return out
		},
	}

	trendView = view[insights.TrendReport]{
		compute: pure(insights.Trends),
		summarize: func(r insights.TrendReport) []string {
			out := []string{fmt.Sprintf("years=%v", r.Years)}
			for _, t := range r.Trends {
				growth := make([]string, len(t.Growth))
				for i, g := range t.Growth {
					growth[i] = numfmt.Percent(g)
				}
				out = append(out, fmt.Sprintf("- %s: %s [%s]", t.Product, t.Status, strings.Join(growth, ", ")))
			}
			return out
		},
	}

	compositionView = view[insights.Composition]{
		compute: insights.CompositionShift,
		summarize: func(c insights.Composition) []string {
			out := []string{fmt.Sprintf("share shift %d -> %d", c.FirstYear, c.LastYear)}
			for _, s := range c.Shifts {
				out = append(out, fmt.Sprintf("- %s: %s -> %s (%+.1f pp)", s.Product, numfmt.Percent(s.FirstShare), numfmt.Percent(s.LastShare), s.ChangePP))
			}
			return out
		},
	}

	summaryView = view[insights.Summary]{
		compute: pure(insights.Summarize),
		summarize: func(s insights.Summary) []string {
			return []string{
				fmt.Sprintf("total=%s products=%d companies=%d periods=%d", eur(s.Total), s.Products, s.Companies, s.Periods),
				fmt.Sprintf("monthly avg=%s min=%s median=%s max=%s", eur(s.PeriodAverage), eur(s.MinMonth), eur(s.MedianMonth), eur(s.MaxMonth)),
			}
		},
	}
)

func viewHandler[T any](h *Handlers, v view[T]) func(context.Context, mcp.CallToolRequest, ViewInput) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest, in ViewInput) (*mcp.CallToolResult, error) {
		if err := ctx.Err(); err != nil {
			return toolError(err), nil
		}
		return runView(h, in, v), nil
	}
}
