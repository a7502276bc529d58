package fqio

import (
	"bufio"
	"errors"
	"os"
)

const bufferSize = 1 << 20

type plainWriter struct {
	*bufio.Writer
	file   *os.File
	closed bool
	err    error
}

func createPlain(path string) (*plainWriter, error) {
	var file, err = os.Create(path)
	if err != nil {
		return nil, err
	}
	return &plainWriter{Writer: bufio.NewWriterSize(file, bufferSize), file: file}, nil
}

func (w *plainWriter) Close() error {
	if w.closed {
		return w.err
	}
	w.closed = true
	w.err = errors.Join(w.Flush(), w.file.Close())
	return w.err
}

// plainReader reads a file through a buffer. The record parser closes its
// source at EOF, so Close may run twice and reports the first result.
type plainReader struct {
	*bufio.Reader
	file   *os.File
	closed bool
	err    error
}

func newPlainReader(file *os.File) *plainReader {
	return &plainReader{Reader: bufio.NewReaderSize(file, bufferSize), file: file}
}

// isGzip peeks at the gzip magic 1F 8B without consuming it.
func (r *plainReader) isGzip() bool {
	var sig, _ = r.Peek(2)
	return len(sig) == 2 && sig[0] == 0x1f && sig[1] == 0x8b
}

func (r *plainReader) Close() error {
	if r.closed {
		return r.err
	}
	r.closed = true
	r.err = r.file.Close()
	return r.err
}
