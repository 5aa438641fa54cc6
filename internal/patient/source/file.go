// Package source fetches the raw directory document from wherever it lives.
// Every source returns the document bytes untouched; decoding is the record
// store's job. Missing documents are reported as sentinel.ErrNotFound.
package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"patientdir/pkg/platform/sentinel"
)

// File reads the document from the local filesystem on every call.
type File struct {
	Path string
}

// NewFile builds a file source.
func NewFile(path string) *File {
	return &File{Path: path}
}

// Name identifies the source in logs and metrics.
func (f *File) Name() string { return "file" }

// Fetch reads the whole file.
func (f *File) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", sentinel.ErrNotFound, f.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Path, err)
	}
	return data, nil
}
