package fqio

import (
	"context"
	"errors"
	"io"
	"os"

	gzip "github.com/klauspost/pgzip"
)

// pgzip block size, the library default
const pgzipBlockSize = 1 << 20

// PGzip compresses in process with klauspost/pgzip. It needs no external binary.
type PGzip struct {
	// Threads is the number of blocks compressed in parallel, library default when zero.
	Threads int
}

func (p *PGzip) Name() string { return "pgzip" }

func (p *PGzip) Check(context.Context) error { return nil }

type gzipWriter struct {
	gw     *gzip.Writer
	file   *os.File
	closed bool
	err    error
}

func (w *gzipWriter) Write(b []byte) (int, error) {
	if w.closed {
		return 0, os.ErrClosed
	}
	return w.gw.Write(b)
}

// Close finishes the gzip stream before closing the file.
func (w *gzipWriter) Close() error {
	if w.closed {
		return w.err
	}
	w.closed = true
	w.err = errors.Join(w.gw.Close(), w.file.Close())
	return w.err
}

func (p *PGzip) Create(path string) (io.WriteCloser, error) {
	var file, err = os.Create(path)
	if err != nil {
		return nil, err
	}
	var gw = gzip.NewWriter(file)
	if p.Threads > 0 {
		if err = gw.SetConcurrency(pgzipBlockSize, p.Threads); err != nil {
			file.Close()
			return nil, err
		}
	}
	return &gzipWriter{gw: gw, file: file}, nil
}

// multiReadCloser closes every closer once, reporting the first error on
// every call.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
	closed  bool
	err     error
}

func (m *multiReadCloser) Close() error {
	if m.closed {
		return m.err
	}
	m.closed = true
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && m.err == nil {
			m.err = cerr
		}
	}
	return m.err
}

func (p *PGzip) Open(path string) (io.ReadCloser, error) {
	var file, err = os.Open(path)
	if err != nil {
		return nil, err
	}
	var gr *gzip.Reader
	if p.Threads > 0 {
		gr, err = gzip.NewReaderN(file, pgzipBlockSize, p.Threads)
	} else {
		gr, err = gzip.NewReader(file)
	}
	if err != nil {
		file.Close()
		return nil, err
	}
	return &multiReadCloser{Reader: gr, closers: []io.Closer{gr, file}}, nil
}
