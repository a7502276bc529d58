package fqio

import (
	"bufio"
	"bytes"
	"io"

	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
)

// Record is one decoded read. The slices belong to the reader and are only
// valid until its next Read.
type Record struct {
	// Header is the full header line without the leading '@' or '>'.
	Header []byte
	Seq    []byte
	// Qual is nil for FASTA input.
	Qual []byte
}

// ID returns the header up to the first whitespace.
func (r *Record) ID() []byte {
	if i := bytes.IndexAny(r.Header, " \t"); i >= 0 {
		return r.Header[:i]
	}
	return r.Header
}

// Desc returns the header after the ID, without the separating whitespace.
func (r *Record) Desc() []byte {
	return bytes.TrimLeft(r.Header[len(r.ID()):], " \t")
}

// FastxReader pulls FASTQ/FASTA records from a decompressed byte stream.
type FastxReader struct {
	// nil for an empty stream
	reader *fastx.Reader
	record Record
}

// NewFastxReader parses r with the fastx reader, accepting any sequence alphabet.
// An empty r is a valid stream that is already exhausted. The parser sees r
// through a buffer, so it never closes r itself.
func NewFastxReader(r io.Reader) (*FastxReader, error) {
	var br = bufio.NewReaderSize(r, bufferSize)
	if _, err := br.Peek(1); err == io.EOF {
		return &FastxReader{}, nil
	} else if err != nil {
		return nil, err
	}
	var reader, err = fastx.NewReaderFromIO(seq.Unlimit, br, fastx.DefaultIDRegexp)
	if err != nil {
		return nil, err
	}
	return &FastxReader{reader: reader}, nil
}

// Read returns the next record, or io.EOF at the end of the stream.
func (r *FastxReader) Read() (*Record, error) {
	if r.reader == nil {
		return nil, io.EOF
	}
	var rec, err = r.reader.Read()
	if err != nil {
		return nil, err
	}
	r.record.Header = rec.Name
	r.record.Seq = rec.Seq.Seq
	r.record.Qual = rec.Seq.Qual
	if len(r.record.Qual) == 0 {
		r.record.Qual = nil
	}
	return &r.record, nil
}
