// Command report prints the monthly table, growth rates and trend
// classification for a batch of local EASSC report files.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/vinodismyname/mcpeassc/config"
	"github.com/vinodismyname/mcpeassc/internal/eassc"
	"github.com/vinodismyname/mcpeassc/internal/insights"
	"github.com/vinodismyname/mcpeassc/internal/tabular"
	"github.com/vinodismyname/mcpeassc/pkg/numfmt"
)

var errUsage = errors.New("usage: report [flags] FILE...")

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zlog.With().Str("service", "eassc-report").Logger().Level(zerolog.WarnLevel)
	ctx := logger.WithContext(context.Background())

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		logger.Error().Err(err).Msg("report failed")
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

type options struct {
	company       string
	category      string
	dataType      string
	productColumn int
	strict        bool
	decimals      int
}

func parseFlags(args []string, cfg *config.Config) (options, []string, error) {
	opts := options{}
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.company, "company", insights.All, "company filter")
	fs.StringVar(&opts.category, "category", insights.All, "product (category) filter")
	fs.StringVar(&opts.dataType, "data-type", insights.All, "sales, stocks or all")
	fs.IntVar(&opts.productColumn, "product-column", cfg.ProductColumn, "zero-based column holding product names")
	fs.BoolVar(&opts.strict, "strict", cfg.StrictNumbers, "fail on non-numeric month cells")
	fs.IntVar(&opts.decimals, "decimals", 0, "decimals in the monthly table")
	if err := fs.Parse(args); err != nil {
		return opts, nil, err
	}
	switch strings.ToLower(opts.dataType) {
	case insights.All, string(eassc.Sales), string(eassc.Stocks):
	default:
		return opts, nil, fmt.Errorf("%w: unknown data type %q", errUsage, opts.dataType)
	}
	if fs.NArg() == 0 {
		return opts, nil, errUsage
	}
	return opts, fs.Args(), nil
}

func run(ctx context.Context, args []string, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	opts, files, err := parseFlags(args, cfg)
	if err != nil {
		return err
	}

	sources := make([]tabular.Source, 0, len(files))
	for _, f := range files {
		if _, err := tabular.KindFromName(f); err != nil {
			return fmt.Errorf("%s: %w", f, err)
		}
		sources = append(sources, tabular.FileSource(f))
	}

	proc := &eassc.Processor{
		Reader:  tabular.Reader{MaxBytes: cfg.MaxFileBytes},
		Scanner: eassc.NewScanner(opts.productColumn, cfg.HeaderLookahead, eassc.PolicyFor(opts.strict)),
	}
	ds, err := proc.Process(ctx, sources)
	if err != nil {
		return err
	}

	state := insights.FilterState{Company: opts.company, Category: opts.category, DataType: opts.dataType}
	records := insights.Filter(ds.Records, state)
	field := state.Field()
	if len(records) == 0 {
		fmt.Fprintln(out, "no data for the selected filters")
		return nil
	}

	writeTable(out, insights.BuildMonthlyTable(records, field).Render(opts.decimals))
	fmt.Fprintln(out)
	writeGrowth(out, insights.GrowthRates(records, field))
	fmt.Fprintln(out)
	writeTrends(out, insights.Trends(records, field))
	return nil
}

func writeTable(out io.Writer, rows [][]string) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}
	tw.Flush()
}

func writeGrowth(out io.Writer, rep insights.GrowthReport) {
	if !rep.Computed {
		fmt.Fprintln(out, "growth: at least two years are required")
		return
	}
	fmt.Fprintf(out, "growth %d to %d\n", rep.FirstYear, rep.LastYear)
	rows := [][]string{{"Product", fmt.Sprint(rep.FirstYear), fmt.Sprint(rep.LastYear), "Growth"}}
	for _, g := range rep.Rates {
		rate := "-"
		if g.Defined {
			rate = numfmt.Percent(g.Growth)
		}
		rows = append(rows, []string{
			g.Product,
			numfmt.FormatEuropean(g.First, 0),
			numfmt.FormatEuropean(g.Last, 0),
			rate,
		})
	}
	writeTable(out, rows)
}

func writeTrends(out io.Writer, rep insights.TrendReport) {
	if len(rep.Years) < 2 {
		fmt.Fprintln(out, "trends: at least two years are required")
		return
	}
	header := []string{"Product"}
	for _, y := range rep.Years {
		header = append(header, fmt.Sprint(y))
	}
	header = append(header, "Status")
	rows := [][]string{header}
	for _, t := range rep.Trends {
		row := []string{t.Product}
		for _, v := range t.Totals {
			row = append(row, numfmt.FormatEuropean(v, 0))
		}
		rows = append(rows, append(row, t.Status))
	}
	writeTable(out, rows)
}
