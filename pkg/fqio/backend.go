// Package fqio opens and creates (compressed) FASTQ streams, either through
// an external compressor process or an in-process gzip library.
package fqio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	gzip "github.com/klauspost/pgzip"
)

// ErrCompressorMissing reports a compressor that cannot be started.
var ErrCompressorMissing = errors.New("compressor not available")

// Backend compresses and decompresses gzip streams.
type Backend interface {
	Name() string
	// Check fails when the backend cannot run, before any file is touched.
	Check(ctx context.Context) error
	// Create returns a sink compressing into path. Close must be called exactly
	// once and reports any failure of the compressor.
	Create(path string) (io.WriteCloser, error)
	// Open returns the decompressed content of path.
	Open(path string) (io.ReadCloser, error)
}

// NewBackend builds a backend by name: "pigz" or "pgzip".
func NewBackend(name, bin string, threads int) (Backend, error) {
	switch name {
	case "pigz", "":
		return &Pigz{Bin: bin, Threads: threads}, nil
	case "pgzip":
		return &PGzip{Threads: threads}, nil
	default:
		return nil, fmt.Errorf("unknown backend %q, want pigz or pgzip", name)
	}
}

// IsGzipName reports whether path carries a .gz suffix.
func IsGzipName(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".gz")
}

// OpenFastq opens path for reading, decompressing through b when the name ends
// in .gz or the content starts with the gzip magic. A gzip stream that is not a
// regular file cannot be reopened by b and is decompressed in process.
func OpenFastq(b Backend, path string) (io.ReadCloser, error) {
	if IsGzipName(path) {
		return b.Open(path)
	}
	var file, err = os.Open(path)
	if err != nil {
		return nil, err
	}
	var r = newPlainReader(file)
	if !r.isGzip() {
		return r, nil
	}
	if info, err := file.Stat(); err == nil && info.Mode().IsRegular() {
		r.Close()
		return b.Open(path)
	}
	gr, err := gzip.NewReader(r)
	if err != nil {
		r.Close()
		return nil, err
	}
	return &multiReadCloser{Reader: gr, closers: []io.Closer{gr, r}}, nil
}

// CreateFastq creates path, compressing through b when the name ends in .gz.
func CreateFastq(b Backend, path string) (io.WriteCloser, error) {
	if IsGzipName(path) {
		return b.Create(path)
	}
	w, err := createPlain(path)
	if err != nil {
		return nil, err
	}
	return w, nil
}
