package addCell

import (
	"path/filepath"
	"strings"
)

// DefaultTag is inserted into output file names.
const DefaultTag = "_cells_added"

// lower case, longest first
var fastqSuffixes = []string{".fastq.gz", ".fq.gz", ".fastq", ".fq"}

// OutputName inserts tag before the FASTQ suffix of path:
// "sample.fastq.gz" -> "sample_cells_added.fastq.gz". Unknown suffixes get the
// tag before the last extension, names without extension get it appended.
func OutputName(path, tag string) string {
	var dir, base = filepath.Split(path)
	var lower = strings.ToLower(base)
	for _, suffix := range fastqSuffixes {
		if strings.HasSuffix(lower, suffix) && len(base) > len(suffix) {
			var i = len(base) - len(suffix)
			return dir + base[:i] + tag + base[i:]
		}
	}
	var ext = filepath.Ext(base)
	if ext == base {
		ext = ""
	}
	return dir + strings.TrimSuffix(base, ext) + tag + ext
}
