package fqio

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"syscall"
)

// ExitError is a coprocess that exited non-zero.
type ExitError struct {
	Bin    string
	Path   string
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	var msg = fmt.Sprintf("%s on %s exited with code %d", e.Bin, e.Path, e.Code)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// IsBrokenPipe reports whether err is a write to a pipe whose reader is gone.
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe) || errors.Is(err, os.ErrClosed))
}

// limitedBuffer keeps the first bytes of a stream and drops the rest.
type limitedBuffer struct {
	bytes.Buffer
	limit int
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if room := b.limit - b.Len(); room > 0 {
		b.Buffer.Write(p[:min(room, len(p))])
	}
	return len(p), nil
}

func waitError(cmd *exec.Cmd, err error, path string, stderr *limitedBuffer) error {
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return &ExitError{
			Bin:    cmd.Path,
			Path:   path,
			Code:   ee.ExitCode(),
			Stderr: strings.TrimSpace(stderr.String()),
		}
	}
	return fmt.Errorf("wait %s on %s: %w", cmd.Path, path, err)
}

// Sink is a compressor process reading from a pipe and writing into a file.
type Sink struct {
	Path string

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	w      *bufio.Writer
	file   *os.File
	stderr limitedBuffer

	closed bool
	err    error
}

// NewSink creates path and starts bin with args, its stdout redirected to the file.
func NewSink(bin string, args []string, path string) (*Sink, error) {
	var file, err = os.Create(path)
	if err != nil {
		return nil, err
	}
	var s = &Sink{
		Path:   path,
		cmd:    exec.Command(bin, args...),
		file:   file,
		stderr: limitedBuffer{limit: 4096},
	}
	s.cmd.Stdout = file
	s.cmd.Stderr = &s.stderr
	detach(s.cmd)
	s.stdin, err = s.cmd.StdinPipe()
	if err == nil {
		err = s.cmd.Start()
	}
	if err != nil {
		file.Close()
		os.Remove(path)
		return nil, fmt.Errorf("%w: start %s: %v", ErrCompressorMissing, bin, err)
	}
	s.w = bufio.NewWriterSize(s.stdin, bufferSize)
	slog.Debug("start compressor", "cmd", s.cmd.String(), "path", path, "pid", s.cmd.Process.Pid)
	return s, nil
}

// Write blocks while the compressor is behind.
func (s *Sink) Write(p []byte) (int, error) {
	if s.closed {
		return 0, os.ErrClosed
	}
	var n, err = s.w.Write(p)
	if IsBrokenPipe(err) {
		err = fmt.Errorf("%s stopped reading %s: %w", s.cmd.Path, s.Path, err)
	}
	return n, err
}

// Close flushes, closes the compressor's stdin and only then waits for it to
// exit. Calling Close again returns the first result.
func (s *Sink) Close() error {
	if s.closed {
		return s.err
	}
	s.closed = true

	var errs []error
	if err := s.w.Flush(); err != nil {
		errs = append(errs, fmt.Errorf("flush %s: %w", s.Path, err))
	}
	// stdin must be closed before Wait or the compressor waits for more input forever
	if err := s.stdin.Close(); err != nil && !IsBrokenPipe(err) {
		errs = append(errs, fmt.Errorf("close stdin of %s: %w", s.cmd.Path, err))
	}
	if err := s.cmd.Wait(); err != nil {
		errs = append(errs, waitError(s.cmd, err, s.Path, &s.stderr))
	}
	if err := s.file.Close(); err != nil {
		errs = append(errs, err)
	}
	s.err = errors.Join(errs...)
	slog.Debug("stop compressor", "path", s.Path, "err", s.err)
	return s.err
}

// Source is a decompressor process whose stdout is read as a byte stream.
type Source struct {
	Path string

	cmd    *exec.Cmd
	out    io.ReadCloser
	stderr limitedBuffer
	eof    bool

	closed bool
	err    error
}

// NewSource starts bin with args and exposes its stdout. path is only used in messages.
func NewSource(bin string, args []string, path string) (*Source, error) {
	var s = &Source{
		Path:   path,
		cmd:    exec.Command(bin, args...),
		stderr: limitedBuffer{limit: 4096},
	}
	s.cmd.Stderr = &s.stderr
	detach(s.cmd)
	var err error
	s.out, err = s.cmd.StdoutPipe()
	if err == nil {
		err = s.cmd.Start()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: start %s: %v", ErrCompressorMissing, bin, err)
	}
	slog.Debug("start decompressor", "cmd", s.cmd.String(), "pid", s.cmd.Process.Pid)
	return s, nil
}

func (s *Source) Read(p []byte) (int, error) {
	var n, err = s.out.Read(p)
	if err == io.EOF {
		s.eof = true
	}
	return n, err
}

// Close closes the pipe and waits for the process. A failed exit is only an
// error when the whole stream was read; a reader that stopped early kills the
// decompressor with a broken pipe on purpose.
func (s *Source) Close() error {
	if s.closed {
		return s.err
	}
	s.closed = true

	s.out.Close()
	if err := s.cmd.Wait(); err != nil {
		if s.eof {
			s.err = waitError(s.cmd, err, s.Path, &s.stderr)
		} else {
			slog.Debug("decompressor stopped early", "path", s.Path, "err", err)
		}
	}
	return s.err
}
