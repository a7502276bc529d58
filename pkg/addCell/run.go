// Package addCell splices cell barcodes from a barcode read stream into the
// headers of synchronized R1/R2 read streams.
package addCell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"fastqAddCell/pkg/fqio"
)

// Options configure one run.
type Options struct {
	Cell string
	R1   string
	// R2 is optional.
	R2 string

	// OutDir holds the outputs, the directory of each input when empty.
	OutDir string
	// Tag is inserted into output names, DefaultTag when empty.
	Tag string

	Window  Window
	RevComp bool
	Style   InjectStyle

	// Backend (de)compresses gzip files, pigz when nil.
	Backend fqio.Backend
}

// OutputPath maps an input path to its annotated output.
func (o *Options) OutputPath(input string) string {
	var tag = o.Tag
	if tag == "" {
		tag = DefaultTag
	}
	var name = OutputName(input, tag)
	if o.OutDir != "" {
		name = filepath.Join(o.OutDir, filepath.Base(name))
	}
	return name
}

func (o *Options) validate() error {
	if o.Cell == "" || o.R1 == "" {
		return errors.New("cell and r1 inputs are required")
	}
	if o.R2 != "" && o.OutputPath(o.R1) == o.OutputPath(o.R2) {
		return fmt.Errorf("r1 and r2 map to the same output %s", o.OutputPath(o.R1))
	}
	return nil
}

// IOs holds every open stream of a run.
type IOs struct {
	Cell io.ReadCloser
	Fq1  io.ReadCloser
	Fq2  io.ReadCloser
	Out1 io.WriteCloser
	Out2 io.WriteCloser
}

// CreateIOs opens the inputs, then creates the outputs. On failure everything
// already opened is closed again.
func CreateIOs(b fqio.Backend, o *Options) (ios *IOs, err error) {
	ios = &IOs{}
	defer func() {
		if err != nil {
			ios.Close()
			ios = nil
		}
	}()

	if ios.Cell, err = fqio.OpenFastq(b, o.Cell); err != nil {
		return ios, fmt.Errorf("open cell %s: %w", o.Cell, err)
	}
	if ios.Fq1, err = fqio.OpenFastq(b, o.R1); err != nil {
		return ios, fmt.Errorf("open r1 %s: %w", o.R1, err)
	}
	if o.R2 != "" {
		if ios.Fq2, err = fqio.OpenFastq(b, o.R2); err != nil {
			return ios, fmt.Errorf("open r2 %s: %w", o.R2, err)
		}
	}

	if ios.Out1, err = fqio.CreateFastq(b, o.OutputPath(o.R1)); err != nil {
		return ios, fmt.Errorf("create r1 output: %w", err)
	}
	if o.R2 != "" {
		if ios.Out2, err = fqio.CreateFastq(b, o.OutputPath(o.R2)); err != nil {
			return ios, fmt.Errorf("create r2 output: %w", err)
		}
	}
	return ios, nil
}

// Close finalizes the outputs first, then releases the inputs. Every handle
// is closed exactly once; all errors are returned joined.
func (ios *IOs) Close() error {
	var errs []error
	for _, c := range []io.Closer{ios.Out1, ios.Out2, ios.Cell, ios.Fq1, ios.Fq2} {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	*ios = IOs{}
	return errors.Join(errs...)
}

// Run annotates o.R1 (and o.R2) with barcodes from o.Cell.
// The backend is checked before any input is opened.
func Run(ctx context.Context, o Options) (stats *Stats, err error) {
	if err = o.validate(); err != nil {
		return nil, err
	}
	var b = o.Backend
	if b == nil {
		b = &fqio.Pigz{}
	}
	if err = b.Check(ctx); err != nil {
		return nil, err
	}

	ios, err := CreateIOs(b, &o)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := ios.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	var in Streams
	var out = Outputs{R1: ios.Out1}
	if in.Cell, err = fqio.NewFastxReader(ios.Cell); err != nil {
		return nil, fmt.Errorf("parse cell %s: %w", o.Cell, err)
	}
	if in.R1, err = fqio.NewFastxReader(ios.Fq1); err != nil {
		return nil, fmt.Errorf("parse r1 %s: %w", o.R1, err)
	}
	if ios.Fq2 != nil {
		if in.R2, err = fqio.NewFastxReader(ios.Fq2); err != nil {
			return nil, fmt.Errorf("parse r2 %s: %w", o.R2, err)
		}
		out.R2 = ios.Out2
	}

	slog.Info("add cell barcodes", "cell", o.Cell, "r1", o.R1, "r2", o.R2, "backend", b.Name(), "style", o.Style, "recomp", o.RevComp)
	var syncer = &Syncer{Window: o.Window, RevComp: o.RevComp, Style: o.Style}
	stats, err = syncer.Run(ctx, in, out)
	if stats != nil {
		slog.Info("synchronized", "rounds", stats.Barcodes(), "stoppedBy", stats.StoppedBy, "r1", stats.Written[StreamR1], "r2", stats.Written[StreamR2])
	}
	return stats, err
}
