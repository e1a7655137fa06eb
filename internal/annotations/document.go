// Package annotations persists user metadata about transcripts (display
// names and the archived set) as small JSON documents.
package annotations

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pbrown/claude-viewer/internal/lock"
)

// Document is a JSON file holding a single value of type T.
//
// Reads never fail: a missing, unreadable, or unparsable file yields the
// empty value. Writes replace the whole file via rename, so readers see
// either the old or the new document.
type Document[T any] struct {
	path  string
	empty func() T
}

// NewDocument creates a document backed by path. empty builds the value
// returned when the file holds nothing usable.
func NewDocument[T any](path string, empty func() T) *Document[T] {
	return &Document[T]{path: path, empty: empty}
}

// Path returns the backing file.
func (d *Document[T]) Path() string {
	return d.path
}

// Load returns the current value, or the empty value.
func (d *Document[T]) Load() T {
	data, err := os.ReadFile(d.path)
	if err != nil {
		return d.empty()
	}

	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return d.empty()
	}

	v := d.empty()
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return d.empty()
	}
	return v
}

// Update applies mutate to the current value and persists the result.
// The read-modify-write runs under the document's file lock.
func (d *Document[T]) Update(mutate func(T) T) error {
	return lock.With(d.path, func() error {
		return d.write(mutate(d.Load()))
	})
}

func (d *Document[T]) write(v T) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(d.path), err)
	}

	dir := filepath.Dir(d.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(d.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, d.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}
