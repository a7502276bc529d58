package addCell

// Window selects the half-open range [Start, End) of a sequence.
// A negative bound is unset: Start falls back to 0, End to the sequence length.
type Window struct {
	Start int
	End   int
}

// FullWindow keeps the whole sequence.
var FullWindow = Window{Start: -1, End: -1}

// Resolve returns the bounds used for a sequence of length n.
// ok is false when the window is out of range and the whole sequence is used instead.
func (w Window) Resolve(n int) (start, end int, ok bool) {
	start, end = w.Start, w.End
	if start < 0 {
		start = 0
	}
	if end < 0 {
		end = n
	}
	if start < end && end <= n {
		return start, end, true
	}
	return 0, n, false
}

// complement table, anything outside ACGTN (either case) becomes N
var complement [256]byte

func init() {
	for i := range complement {
		complement[i] = 'N'
	}
	for _, p := range [][2]byte{{'A', 'T'}, {'T', 'A'}, {'C', 'G'}, {'G', 'C'}} {
		complement[p[0]] = p[1]
		complement[p[0]+'a'-'A'] = p[1]
	}
}

// Complement maps one base through the A<->T, C<->G, N->N table.
func Complement(b byte) byte {
	return complement[b]
}

// ReverseComplement returns a new slice holding the reverse complement of seq.
func ReverseComplement(seq []byte) []byte {
	var rc = make([]byte, len(seq))
	for i, j := 0, len(seq)-1; j >= 0; i, j = i+1, j-1 {
		rc[i] = complement[seq[j]]
	}
	return rc
}

// Transform clips seq to w and optionally reverse complements the result.
// It never fails and never returns a slice sharing memory with seq.
func Transform(seq []byte, w Window, revComp bool) []byte {
	var start, end, _ = w.Resolve(len(seq))
	var clipped = seq[start:end]
	if revComp {
		return ReverseComplement(clipped)
	}
	return append([]byte(nil), clipped...)
}
