// Package security guards report file access with a directory allow-list
// and an extension check.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultExtensions lists the report formats accepted when none are configured.
var DefaultExtensions = []string{".csv", ".xls", ".xlsx", ".xlsm"}

var (
	// ErrNotAllowed indicates the path is outside every allow-list root.
	ErrNotAllowed = errors.New("security: path not allowed")
	// ErrUnsupportedExtension indicates the file is not a supported report format.
	ErrUnsupportedExtension = errors.New("security: unsupported file extension")
	// ErrNotFound indicates the file does not exist or cannot be resolved.
	ErrNotFound = errors.New("security: file not found")
)

// PathError attributes a rejected path to its position in a batch.
type PathError struct {
	Index int
	Path  string
	Err   error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("file %d (%s): %v", e.Index+1, e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// Manager resolves report paths against canonical allow-list roots.
type Manager struct {
	roots []string
	exts  map[string]struct{}
}

// NewManager canonicalizes allowDirs (absolute, symlinks evaluated, must be
// directories) and the accepted extensions (case-insensitive, leading dot).
// Empty directory entries are skipped.
func NewManager(allowDirs []string, extensions []string) (*Manager, error) {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	exts := make(map[string]struct{}, len(extensions))
	for _, e := range extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if !strings.HasPrefix(e, ".") || len(e) < 2 {
			return nil, fmt.Errorf("security: invalid extension: %q", e)
		}
		exts[e] = struct{}{}
	}

	roots := make([]string, 0, len(allowDirs))
	for _, d := range allowDirs {
		if d = strings.TrimSpace(d); d == "" {
			continue
		}
		root, err := canonicalDir(d)
		if err != nil {
			return nil, err
		}
		roots = append(roots, root)
	}
	return &Manager{roots: roots, exts: exts}, nil
}

func canonicalDir(d string) (string, error) {
	abs, err := filepath.Abs(d)
	if err != nil {
		return "", fmt.Errorf("security: resolve abs for %q: %w", d, err)
	}
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("security: eval symlinks for %q: %w", abs, err)
	}
	info, err := os.Stat(real)
	if err != nil {
		return "", fmt.Errorf("security: stat %q: %w", real, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("security: allow-list entry is not a directory: %q", real)
	}
	return filepath.Clean(real), nil
}

// AllowedDirectories returns a copy of the canonical roots.
func (m *Manager) AllowedDirectories() []string {
	return append([]string(nil), m.roots...)
}

// ValidateConfig fails when no roots are configured; process_files and
// inspect_file then reject every path.
func (m *Manager) ValidateConfig() error {
	if len(m.roots) == 0 {
		return errors.New("security: no allowed directories configured")
	}
	return nil
}

func (m *Manager) supported(name string) bool {
	_, ok := m.exts[strings.ToLower(filepath.Ext(name))]
	return ok
}

// ValidateOpenPath returns the canonical path of an existing regular file
// with a supported extension inside one of the roots. Symlinks are resolved
// before the containment check.
func (m *Manager) ValidateOpenPath(input string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", ErrNotAllowed
	}
	if !m.supported(input) {
		return "", ErrUnsupportedExtension
	}
	abs, err := filepath.Abs(input)
	if err != nil {
		return "", fmt.Errorf("security: abs path: %w", err)
	}
	real, err := filepath.EvalSymlinks(abs)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("security: eval symlinks: %w", err)
	}
	info, err := os.Stat(real)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("security: stat: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", ErrNotAllowed
	}
	if !m.contains(real) {
		return "", ErrNotAllowed
	}
	return real, nil
}

func (m *Manager) contains(real string) bool {
	for _, root := range m.roots {
		rel, err := filepath.Rel(root, real)
		if err != nil || rel == "." {
			continue
		}
		if rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// ResolveBatch validates every path of a processing batch in order and
// returns their canonical forms. The first rejection is returned as a
// *PathError.
func (m *Manager) ResolveBatch(paths []string) ([]string, error) {
	out := make([]string, 0, len(paths))
	for i, p := range paths {
		real, err := m.ValidateOpenPath(p)
		if err != nil {
			return nil, &PathError{Index: i, Path: p, Err: err}
		}
		out = append(out, real)
	}
	return out, nil
}

// ValidateUploadName checks the extension of an uploaded file name and
// returns its base name. Uploads never touch the filesystem, so only the
// name is checked.
func (m *Manager) ValidateUploadName(name string) (string, error) {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "", ErrNotAllowed
	}
	if !m.supported(base) {
		return "", ErrUnsupportedExtension
	}
	return base, nil
}
