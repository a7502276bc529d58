package addCell

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

// InjectStyle decides how the barcode annotation is spliced into a read header.
type InjectStyle int

const (
	// InjectColon replaces every space of the header with ':' and appends ":<barcode>".
	// "@r1 1:N:0" becomes "@r1:1:N:0:ACGT".
	InjectColon InjectStyle = iota
	// InjectDesc keeps the header and appends " <barcode>" as an extra description field.
	// "@r1 1:N:0" becomes "@r1 1:N:0 ACGT".
	InjectDesc
)

func (s InjectStyle) String() string {
	switch s {
	case InjectColon:
		return "colon"
	case InjectDesc:
		return "desc"
	default:
		return fmt.Sprintf("InjectStyle(%d)", int(s))
	}
}

// ParseInjectStyle parses the command line name of a style.
func ParseInjectStyle(name string) (InjectStyle, error) {
	switch name {
	case "colon", "":
		return InjectColon, nil
	case "desc":
		return InjectDesc, nil
	default:
		return 0, fmt.Errorf("unknown inject style %q, want colon or desc", name)
	}
}

var replacementChar = []byte(string(utf8.RuneError))

// appendLossy appends b, replacing invalid UTF-8 runs with U+FFFD.
func appendLossy(dst, b []byte) []byte {
	if utf8.Valid(b) {
		return append(dst, b...)
	}
	return append(dst, bytes.ToValidUTF8(b, replacementChar)...)
}

// AppendRecord appends the four line FASTQ text of one annotated read to dst.
// header is the full header line without '@'. A nil qual writes an empty quality line.
func AppendRecord(dst, header, annotation, seq, qual []byte, style InjectStyle) []byte {
	dst = append(dst, '@')
	switch style {
	case InjectDesc:
		dst = appendLossy(dst, header)
		dst = append(dst, ' ')
	default:
		var start = len(dst)
		dst = appendLossy(dst, header)
		for i := start; i < len(dst); i++ {
			if dst[i] == ' ' {
				dst[i] = ':'
			}
		}
		dst = append(dst, ':')
	}
	dst = appendLossy(dst, annotation)
	dst = append(dst, '\n')
	dst = appendLossy(dst, seq)
	dst = append(dst, "\n+\n"...)
	dst = appendLossy(dst, qual)
	return append(dst, '\n')
}

// FormatRecord is AppendRecord into a fresh string.
func FormatRecord(header, annotation, seq, qual []byte, style InjectStyle) string {
	return string(AppendRecord(nil, header, annotation, seq, qual, style))
}
