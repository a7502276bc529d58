package addCell

// base index in Stats.Composition
const (
	baseA = iota
	baseC
	baseG
	baseT
	baseN
)

// Bases are the column labels of Stats.Composition.
var Bases = [5]string{"A", "C", "G", "T", "N"}

// Stats summarizes one synchronized run.
type Stats struct {
	// Read counts records consumed per stream.
	Read map[string]int
	// Written counts records emitted per output stream.
	Written map[string]int

	// StoppedBy names the stream whose end finished the run.
	StoppedBy string
	// StopErr is the decode error that ended StoppedBy, nil on a clean end.
	StopErr error
	// Divergent lists streams that still had records when the run finished.
	Divergent []string

	// BarcodeLength is the histogram of emitted barcode lengths.
	BarcodeLength map[int]int
	// Composition counts A C G T and other bases per barcode position.
	Composition [][5]int
}

func NewStats() *Stats {
	return &Stats{
		Read:          make(map[string]int),
		Written:       make(map[string]int),
		BarcodeLength: make(map[int]int),
	}
}

// Barcodes is the number of synchronized rounds that produced output.
func (s *Stats) Barcodes() int {
	var n = 0
	for _, v := range s.BarcodeLength {
		n += v
	}
	return n
}

func (s *Stats) AddBarcode(barcode []byte) {
	s.BarcodeLength[len(barcode)]++
	for len(s.Composition) < len(barcode) {
		s.Composition = append(s.Composition, [5]int{})
	}
	for i, b := range barcode {
		switch b {
		case 'A', 'a':
			s.Composition[i][baseA]++
		case 'C', 'c':
			s.Composition[i][baseC]++
		case 'G', 'g':
			s.Composition[i][baseG]++
		case 'T', 't':
			s.Composition[i][baseT]++
		default:
			s.Composition[i][baseN]++
		}
	}
}
