package addCell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"fastqAddCell/pkg/fqio"
)

// stream names, in the order they are read each round
const (
	StreamCell = "cell"
	StreamR1   = "r1"
	StreamR2   = "r2"
)

// RecordReader yields records until io.EOF.
type RecordReader interface {
	Read() (*fqio.Record, error)
}

// Streams are the synchronized inputs. R2 is optional.
type Streams struct {
	Cell RecordReader
	R1   RecordReader
	R2   RecordReader
}

// Outputs receive the annotated R1 and R2 records. R2 is set iff Streams.R2 is.
type Outputs struct {
	R1 io.Writer
	R2 io.Writer
}

// Syncer advances the barcode stream and the read streams in lockstep and
// splices the transformed barcode into every read header.
type Syncer struct {
	Window  Window
	RevComp bool
	Style   InjectStyle

	buf []byte
}

type lane struct {
	name   string
	reader RecordReader
	out    io.Writer
	record *fqio.Record
}

// Run pulls one record from every stream per round until the first stream
// ends. The end of any stream, including a record that fails to decode, ends
// the whole run without error; a shorter R2 stops R1 output too. Only write
// failures and ctx cancellation are returned as errors.
func (s *Syncer) Run(ctx context.Context, in Streams, out Outputs) (*Stats, error) {
	if in.Cell == nil || in.R1 == nil || out.R1 == nil {
		return nil, errors.New("cell and r1 streams are required")
	}
	if (in.R2 == nil) != (out.R2 == nil) {
		return nil, errors.New("r2 input and r2 output must be given together")
	}

	var lanes = []*lane{
		{name: StreamCell, reader: in.Cell},
		{name: StreamR1, reader: in.R1, out: out.R1},
	}
	if in.R2 != nil {
		lanes = append(lanes, &lane{name: StreamR2, reader: in.R2, out: out.R2})
	}

	var stats = NewStats()
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		for i, l := range lanes {
			if !s.pull(l, stats) {
				s.probe(lanes, i, stats)
				return stats, nil
			}
		}

		var barcode = Transform(lanes[0].record.Seq, s.Window, s.RevComp)
		stats.AddBarcode(barcode)
		for _, l := range lanes[1:] {
			if err := s.write(l, barcode, stats.Read[l.name]); err != nil {
				return stats, err
			}
			stats.Written[l.name]++
		}
	}
}

// pull reads the next record of l, reporting false when the stream is done.
func (s *Syncer) pull(l *lane, stats *Stats) bool {
	var rec, err = l.reader.Read()
	if err != nil {
		stats.StoppedBy = l.name
		if err != io.EOF {
			stats.StopErr = fmt.Errorf("%s record %d: %w", l.name, stats.Read[l.name]+1, err)
			slog.Warn("bad record, stop", "stream", l.name, "record", stats.Read[l.name]+1, "err", err)
		}
		return false
	}
	l.record = rec
	stats.Read[l.name]++
	return true
}

// probe looks for streams that outlive the one at index stopped.
func (s *Syncer) probe(lanes []*lane, stopped int, stats *Stats) {
	for i, l := range lanes {
		switch {
		case i < stopped:
			// already yielded a record this round
			stats.Divergent = append(stats.Divergent, l.name)
		case i > stopped:
			if _, err := l.reader.Read(); err == nil {
				stats.Divergent = append(stats.Divergent, l.name)
			}
		}
	}
	if len(stats.Divergent) > 0 {
		slog.Warn("input streams have different lengths", "stoppedBy", stats.StoppedBy, "longer", stats.Divergent)
	}
}

func (s *Syncer) write(l *lane, barcode []byte, n int) error {
	var r = l.record
	s.buf = AppendRecord(s.buf[:0], r.Header, barcode, r.Seq, r.Qual, s.Style)
	if _, err := l.out.Write(s.buf); err != nil {
		return fmt.Errorf("write %s record %d: %w", l.name, n, err)
	}
	return nil
}
