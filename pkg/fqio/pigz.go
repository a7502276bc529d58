package fqio

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
)

// DefaultPigzThreads is the pigz -p used when none is given.
const DefaultPigzThreads = 4

// Pigz runs the pigz binary as a coprocess per file.
type Pigz struct {
	// Bin is the executable, "pigz" from PATH when empty.
	Bin     string
	Threads int
}

func (p *Pigz) bin() string {
	if p.Bin == "" {
		return "pigz"
	}
	return p.Bin
}

func (p *Pigz) threads() int {
	if p.Threads <= 0 {
		return DefaultPigzThreads
	}
	return p.Threads
}

func (p *Pigz) Name() string { return "pigz" }

// Check runs "pigz --version" once.
func (p *Pigz) Check(ctx context.Context) error {
	var path, err = exec.LookPath(p.bin())
	if err != nil {
		return fmt.Errorf("%w: %s is not installed or not found in PATH", ErrCompressorMissing, p.bin())
	}
	out, err := exec.CommandContext(ctx, path, "--version").CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s --version: %v", ErrCompressorMissing, path, err)
	}
	slog.Debug("compressor", "bin", path, "version", strings.TrimSpace(string(out)))
	return nil
}

func (p *Pigz) Create(path string) (io.WriteCloser, error) {
	var sink, err = NewSink(p.bin(), []string{"-p", strconv.Itoa(p.threads()), "-c"}, path)
	if err != nil {
		return nil, err
	}
	return sink, nil
}

func (p *Pigz) Open(path string) (io.ReadCloser, error) {
	var source, err = NewSource(p.bin(), []string{"-dc", path}, path)
	if err != nil {
		return nil, err
	}
	return source, nil
}
