package report

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"fastqAddCell/pkg/addCell"
)

func testStats() *addCell.Stats {
	var stats = addCell.NewStats()
	stats.Read[addCell.StreamCell] = 4
	stats.Read[addCell.StreamR1] = 4
	stats.Read[addCell.StreamR2] = 3
	stats.Written[addCell.StreamR1] = 3
	stats.Written[addCell.StreamR2] = 3
	stats.StoppedBy = addCell.StreamR2
	stats.StopErr = errors.New("bad record")
	stats.Divergent = []string{addCell.StreamCell, addCell.StreamR1}
	for _, bc := range []string{"ACGT", "ACGA", "AC"} {
		stats.AddBarcode([]byte(bc))
	}
	return stats
}

func TestWriteXlsx(t *testing.T) {
	var path = filepath.Join(t.TempDir(), "report.xlsx")
	WriteXlsx(path, Info{Cell: "Cell.fq.gz", R1: "R1.fq.gz", Window: addCell.Window{Start: 0, End: 4}, Style: addCell.InjectDesc}, testStats())

	var xlsx, err = excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	defer xlsx.Close()

	rows, err := xlsx.GetRows(SheetSummary)
	if err != nil {
		t.Fatalf("GetRows(%s) error = %v", SheetSummary, err)
	}
	var summary = make(map[string][]string)
	for _, row := range rows {
		if len(row) > 1 {
			summary[row[0]] = append(summary[row[0]], row[1])
		}
	}
	for key, want := range map[string]string{
		"Cell":      "Cell.fq.gz",
		"Style":     "desc",
		"R2Reads":   "3",
		"R1Written": "3",
		"StoppedBy": "r2",
		"StopError": "bad record",
	} {
		if got := summary[key]; len(got) != 1 || got[0] != want {
			t.Errorf("summary[%s] = %v; want %q", key, got, want)
		}
	}
	if got := summary["Divergent"]; len(got) != 2 {
		t.Errorf("summary[Divergent] = %v; want cell and r1", got)
	}

	rows, err = xlsx.GetRows(SheetLength)
	if err != nil {
		t.Fatalf("GetRows(%s) error = %v", SheetLength, err)
	}
	if len(rows) != 3 || strings.Join(rows[1], ",") != "2,1" || strings.Join(rows[2], ",") != "4,2" {
		t.Errorf("%s rows = %v; want header, 2:1, 4:2", SheetLength, rows)
	}

	rows, err = xlsx.GetRows(SheetComposition)
	if err != nil {
		t.Fatalf("GetRows(%s) error = %v", SheetComposition, err)
	}
	if len(rows) != 5 || strings.Join(rows[4], ",") != "4,1,0,0,1,0" {
		t.Errorf("%s rows = %v; want 4 positions", SheetComposition, rows)
	}
}

func TestPlotComposition(t *testing.T) {
	var path = filepath.Join(t.TempDir(), "barcode.html")
	PlotComposition(path, testStats())
	var data, err = os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "A C G T N Distribution") {
		t.Errorf("%s does not contain the chart title", path)
	}
}
