package tabular

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Source is one file selected for processing: a display name (used for kind
// detection and error attribution) and a way to open its bytes.
type Source struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// FileSource opens a file from disk, naming it by its base name.
func FileSource(path string) Source {
	return Source{
		Name: filepath.Base(path),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// BytesSource wraps in-memory content, e.g. an uploaded file.
func BytesSource(name string, content []byte) Source {
	return Source{
		Name: name,
		Open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(content)), nil },
	}
}

// Reader decodes Sources into Grids, bounded by a per-file byte limit.
type Reader struct {
	// MaxBytes caps the bytes read per file; <= 0 disables the cap.
	MaxBytes int64
}

// Read decodes src into a Grid. Every failure is returned as *ReadError naming src.
func (rd Reader) Read(ctx context.Context, src Source) (Grid, error) {
	kind, err := KindFromName(src.Name)
	if err != nil {
		return nil, &ReadError{File: src.Name, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, &ReadError{File: src.Name, Kind: kind, Err: err}
	}
	if src.Open == nil {
		return nil, &ReadError{File: src.Name, Kind: kind, Err: fmt.Errorf("no content")}
	}

	rc, err := src.Open()
	if err != nil {
		return nil, &ReadError{File: src.Name, Kind: kind, Err: err}
	}
	defer rc.Close()

	data, err := rd.readAll(rc)
	if err != nil {
		return nil, &ReadError{File: src.Name, Kind: kind, Err: err}
	}

	var grid Grid
	switch kind {
	case KindCSV:
		grid, err = ReadCSV(bytes.NewReader(data))
	case KindXLS:
		grid, err = ReadXLS(bytes.NewReader(data))
	default:
		grid, err = ReadWorkbook(bytes.NewReader(data))
	}
	if err != nil {
		if kind != KindCSV && !errors.Is(err, ErrNoSheets) {
			err = fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		return nil, &ReadError{File: src.Name, Kind: kind, Err: err}
	}
	return grid, nil
}

func (rd Reader) readAll(r io.Reader) ([]byte, error) {
	if rd.MaxBytes <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, rd.MaxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > rd.MaxBytes {
		return nil, ErrTooLarge
	}
	return data, nil
}
