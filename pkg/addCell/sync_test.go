package addCell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"testing"

	"fastqAddCell/pkg/fqio"
)

// sliceReader serves records and then err (io.EOF when nil).
type sliceReader struct {
	records []fqio.Record
	err     error
	reads   int
}

func (r *sliceReader) Read() (*fqio.Record, error) {
	r.reads++
	if len(r.records) == 0 {
		if r.err != nil {
			return nil, r.err
		}
		return nil, io.EOF
	}
	var rec = r.records[0]
	r.records = r.records[1:]
	return &rec, nil
}

func makeReads(prefix string, n int, seq func(i int) string) *sliceReader {
	var r = &sliceReader{}
	for i := 0; i < n; i++ {
		var s = seq(i)
		r.records = append(r.records, fqio.Record{
			Header: []byte(fmt.Sprintf("%s%d 1:N:0", prefix, i)),
			Seq:    []byte(s),
			Qual:   bytes.Repeat([]byte("I"), len(s)),
		})
	}
	return r
}

var barcodes = []string{"AACCGGTT", "ACGTACGT", "TTTTCCCC", "GGGGAAAA", "CATCATCA"}

func cellReads(n int) *sliceReader {
	return makeReads("cell", n, func(i int) string { return barcodes[i%len(barcodes)] })
}

func readReads(prefix string, n int) *sliceReader {
	return makeReads(prefix, n, func(i int) string { return "GATTACA" })
}

func headers(t *testing.T, out string) []string {
	t.Helper()
	var lines = strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if out == "" {
		return nil
	}
	if len(lines)%4 != 0 {
		t.Fatalf("output has %d lines, not a multiple of 4: %q", len(lines), out)
	}
	var h []string
	for i := 0; i < len(lines); i += 4 {
		h = append(h, lines[i])
	}
	return h
}

func TestSyncer_Run_ThreeStreams(t *testing.T) {
	var (
		r1, r2 bytes.Buffer
		s      = &Syncer{Window: Window{2, 5}, RevComp: true}
	)
	stats, err := s.Run(context.Background(),
		Streams{Cell: cellReads(3), R1: readReads("a", 3), R2: readReads("b", 3)},
		Outputs{R1: &r1, R2: &r2},
	)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for _, out := range []struct {
		prefix string
		buf    *bytes.Buffer
	}{{"a", &r1}, {"b", &r2}} {
		var h = headers(t, out.buf.String())
		if len(h) != 3 {
			t.Fatalf("%s output has %d records; want 3", out.prefix, len(h))
		}
		for i := range h {
			var bc = string(Transform([]byte(barcodes[i]), Window{2, 5}, true))
			var want = fmt.Sprintf("@%s%d:1:N:0:%s", out.prefix, i, bc)
			if h[i] != want {
				t.Errorf("%s record %d header = %q; want %q", out.prefix, i, h[i], want)
			}
		}
	}

	if stats.StoppedBy != StreamCell || stats.StopErr != nil || len(stats.Divergent) != 0 {
		t.Errorf("stats = %+v; want clean stop by cell", stats)
	}
	if stats.Written[StreamR1] != 3 || stats.Written[StreamR2] != 3 || stats.Barcodes() != 3 {
		t.Errorf("written = %v, barcodes = %d; want 3 each", stats.Written, stats.Barcodes())
	}
}

func TestSyncer_Run_ShortR2StopsEverything(t *testing.T) {
	var r1, r2 bytes.Buffer
	stats, err := new(Syncer).Run(context.Background(),
		Streams{Cell: cellReads(5), R1: readReads("a", 5), R2: readReads("b", 3)},
		Outputs{R1: &r1, R2: &r2},
	)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if n := len(headers(t, r1.String())); n != 3 {
		t.Errorf("r1 records = %d; want 3", n)
	}
	if n := len(headers(t, r2.String())); n != 3 {
		t.Errorf("r2 records = %d; want 3", n)
	}
	if stats.StoppedBy != StreamR2 {
		t.Errorf("StoppedBy = %q; want %q", stats.StoppedBy, StreamR2)
	}
	if want := map[string]int{StreamCell: 4, StreamR1: 4, StreamR2: 3}; !reflect.DeepEqual(stats.Read, want) {
		t.Errorf("Read = %v; want %v", stats.Read, want)
	}
	if want := []string{StreamCell, StreamR1}; !reflect.DeepEqual(stats.Divergent, want) {
		t.Errorf("Divergent = %v; want %v", stats.Divergent, want)
	}
}

func TestSyncer_Run_ShortCell(t *testing.T) {
	var r1, r2 bytes.Buffer
	var fq1, fq2 = readReads("a", 3), readReads("b", 3)
	stats, err := new(Syncer).Run(context.Background(),
		Streams{Cell: cellReads(2), R1: fq1, R2: fq2},
		Outputs{R1: &r1, R2: &r2},
	)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stats.Written[StreamR1] != 2 || stats.Written[StreamR2] != 2 {
		t.Errorf("Written = %v; want 2 each", stats.Written)
	}
	if want := []string{StreamR1, StreamR2}; !reflect.DeepEqual(stats.Divergent, want) {
		t.Errorf("Divergent = %v; want %v", stats.Divergent, want)
	}
	if fq1.reads != 3 || fq2.reads != 3 {
		t.Errorf("reads = %d, %d; want 2 rounds plus one probe each", fq1.reads, fq2.reads)
	}
}

func TestSyncer_Run_SingleEnd(t *testing.T) {
	var r1 bytes.Buffer
	stats, err := (&Syncer{Style: InjectDesc}).Run(context.Background(),
		Streams{Cell: cellReads(4), R1: readReads("a", 4)},
		Outputs{R1: &r1},
	)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	var h = headers(t, r1.String())
	if len(h) != 4 {
		t.Fatalf("records = %d; want 4", len(h))
	}
	if want := "@a0 1:N:0 " + barcodes[0]; h[0] != want {
		t.Errorf("header = %q; want %q", h[0], want)
	}
	if _, ok := stats.Read[StreamR2]; ok {
		t.Errorf("Read = %v; want no r2 entry", stats.Read)
	}
}

func TestSyncer_Run_DecodeErrorEndsRun(t *testing.T) {
	var r1 bytes.Buffer
	var fq1 = readReads("a", 2)
	fq1.err = errors.New("truncated record")
	stats, err := new(Syncer).Run(context.Background(),
		Streams{Cell: cellReads(5), R1: fq1},
		Outputs{R1: &r1},
	)
	if err != nil {
		t.Fatalf("Run() error = %v; want nil, a bad record only ends the run", err)
	}
	if stats.StoppedBy != StreamR1 || stats.StopErr == nil {
		t.Errorf("StoppedBy = %q, StopErr = %v; want r1 and an error", stats.StoppedBy, stats.StopErr)
	}
	if n := len(headers(t, r1.String())); n != 2 {
		t.Errorf("records = %d; want 2", n)
	}
}

type failWriter struct{ after int }

func (w *failWriter) Write(p []byte) (int, error) {
	if w.after == 0 {
		return 0, io.ErrClosedPipe
	}
	w.after--
	return len(p), nil
}

func TestSyncer_Run_WriteError(t *testing.T) {
	var r1 bytes.Buffer
	stats, err := new(Syncer).Run(context.Background(),
		Streams{Cell: cellReads(5), R1: readReads("a", 5), R2: readReads("b", 5)},
		Outputs{R1: &r1, R2: &failWriter{after: 1}},
	)
	if !errors.Is(err, io.ErrClosedPipe) {
		t.Fatalf("Run() error = %v; want %v", err, io.ErrClosedPipe)
	}
	if stats.Written[StreamR2] != 1 {
		t.Errorf("Written = %v; want one r2 record", stats.Written)
	}
}

func TestSyncer_Run_Canceled(t *testing.T) {
	var ctx, cancel = context.WithCancel(context.Background())
	cancel()
	var r1 bytes.Buffer
	_, err := new(Syncer).Run(ctx, Streams{Cell: cellReads(1), R1: readReads("a", 1)}, Outputs{R1: &r1})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v; want %v", err, context.Canceled)
	}
	if r1.Len() != 0 {
		t.Errorf("output = %q; want nothing after cancel", r1.String())
	}
}

func TestSyncer_Run_BadConfig(t *testing.T) {
	var r1 bytes.Buffer
	var ctx = context.Background()
	if _, err := new(Syncer).Run(ctx, Streams{R1: readReads("a", 1)}, Outputs{R1: &r1}); err == nil {
		t.Error("Run() without cell stream: want error")
	}
	if _, err := new(Syncer).Run(ctx, Streams{Cell: cellReads(1), R1: readReads("a", 1), R2: readReads("b", 1)}, Outputs{R1: &r1}); err == nil {
		t.Error("Run() with r2 input but no r2 output: want error")
	}
}

func TestStats_AddBarcode(t *testing.T) {
	var s = NewStats()
	s.AddBarcode([]byte("ACGT"))
	s.AddBarcode([]byte("aN"))
	if want := map[int]int{4: 1, 2: 1}; !reflect.DeepEqual(s.BarcodeLength, want) {
		t.Errorf("BarcodeLength = %v; want %v", s.BarcodeLength, want)
	}
	if want := [][5]int{{2, 0, 0, 0, 0}, {0, 1, 0, 0, 1}, {0, 0, 1, 0, 0}, {0, 0, 0, 1, 0}}; !reflect.DeepEqual(s.Composition, want) {
		t.Errorf("Composition = %v; want %v", s.Composition, want)
	}
	if s.Barcodes() != 2 {
		t.Errorf("Barcodes() = %d; want 2", s.Barcodes())
	}
}
