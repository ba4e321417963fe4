package eassc

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/vinodismyname/mcpeassc/internal/tabular"
)

var (
	// ErrNoFiles indicates an empty processing batch.
	ErrNoFiles = errors.New("eassc: no files selected")
	// ErrTooManyFiles indicates a batch above the configured file limit.
	ErrTooManyFiles = errors.New("eassc: too many files in batch")
)

// BatchError aborts a processing run and names the file that caused it.
type BatchError struct {
	File string
	Err  error
}

func (e *BatchError) Error() string { return fmt.Sprintf("failed to process %s: %v", e.File, e.Err) }

func (e *BatchError) Unwrap() error { return e.Err }

// FileSummary reports what one file contributed to a dataset.
type FileSummary struct {
	Name         string    `json:"name"`
	Company      string    `json:"company"`
	DataType     DataType  `json:"data_type"`
	Rows         int       `json:"rows"`
	Sections     []Section `json:"sections"`
	Observations int       `json:"observations"`
}

// Dataset is the result of one processing run. It is replaced as a whole by
// the next run and never updated in place.
type Dataset struct {
	Records      []Record      `json:"records"`
	Companies    []string      `json:"companies"`
	Products     []string      `json:"products"`
	Files        []FileSummary `json:"files"`
	Observations int           `json:"observations"`
}

// Processor turns a batch of report files into a Dataset.
type Processor struct {
	Reader  tabular.Reader
	Scanner *Scanner
	// MaxFiles caps the batch size; <= 0 disables the cap.
	MaxFiles int
}

// Process reads, scans and normalizes sources one at a time in the given
// order. The first hard read failure aborts the run with a *BatchError; files
// without recognizable sections simply contribute nothing.
func (p *Processor) Process(ctx context.Context, sources []tabular.Source) (*Dataset, error) {
	if len(sources) == 0 {
		return nil, ErrNoFiles
	}
	if p.MaxFiles > 0 && len(sources) > p.MaxFiles {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyFiles, len(sources), p.MaxFiles)
	}
	logger := zerolog.Ctx(ctx)

	var (
		observations []Observation
		files        = make([]FileSummary, 0, len(sources))
	)
	for _, src := range sources {
		res, rows, err := p.scanSource(ctx, src)
		if err != nil {
			logger.Error().Err(err).Str("file", src.Name).Msg("report processing failed")
			return nil, &BatchError{File: src.Name, Err: err}
		}
		observations = append(observations, res.Observations...)
		files = append(files, FileSummary{
			Name:         src.Name,
			Company:      res.Company,
			DataType:     res.DataType,
			Rows:         rows,
			Sections:     res.Sections,
			Observations: len(res.Observations),
		})
		logger.Info().
			Str("file", src.Name).
			Str("company", res.Company).
			Str("data_type", string(res.DataType)).
			Int("sections", len(res.Sections)).
			Int("observations", len(res.Observations)).
			Msg("report processed")
	}

	records := Normalize(observations)
	ds := &Dataset{
		Records:      records,
		Companies:    distinct(records, func(r Record) string { return r.Company }),
		Products:     distinct(records, func(r Record) string { return r.Product }),
		Files:        files,
		Observations: len(observations),
	}
	logger.Info().Int("files", len(files)).Int("records", len(records)).Msg("dataset built")
	return ds, nil
}

// Inspect reads and scans one source without building a dataset.
func (p *Processor) Inspect(ctx context.Context, src tabular.Source) (FileSummary, error) {
	res, rows, err := p.scanSource(ctx, src)
	if err != nil {
		return FileSummary{Name: src.Name}, err
	}
	return FileSummary{
		Name:         src.Name,
		Company:      res.Company,
		DataType:     res.DataType,
		Rows:         rows,
		Sections:     res.Sections,
		Observations: len(res.Observations),
	}, nil
}

func (p *Processor) scanSource(ctx context.Context, src tabular.Source) (ScanResult, int, error) {
	grid, err := p.Reader.Read(ctx, src)
	if err != nil {
		return ScanResult{}, 0, err
	}
	scanner := p.Scanner
	if scanner == nil {
		scanner = NewScanner(-1, 0, nil)
	}
	res, err := scanner.Scan(ctx, grid, src.Name)
	return res, len(grid), err
}

func distinct(records []Record, field func(Record) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range records {
		v := field(r)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
