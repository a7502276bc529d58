// Package report writes the optional summary of a barcode annotation run.
package report

import (
	"log/slog"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/liserjrqlxue/goUtil/osUtil"
	"github.com/liserjrqlxue/goUtil/simpleUtil"
	"github.com/xuri/excelize/v2"

	"fastqAddCell/pkg/addCell"
)

// sheet names
const (
	SheetSummary     = "Summary"
	SheetLength      = "BarcodeLength"
	SheetComposition = "Composition"
)

// Info is what the report knows about a run besides its Stats.
type Info struct {
	Cell    string
	R1      string
	R2      string
	Out1    string
	Out2    string
	Window  addCell.Window
	RevComp bool
	Style   addCell.InjectStyle
}

// WriteXlsx saves the run summary, barcode length histogram and per-position
// composition as three sheets of path.
func WriteXlsx(path string, info Info, stats *addCell.Stats) {
	var xlsx = excelize.NewFile()
	defer simpleUtil.DeferClose(xlsx)

	simpleUtil.CheckErr(xlsx.SetSheetName("Sheet1", SheetSummary))
	simpleUtil.HandleError(xlsx.NewSheet(SheetLength))
	simpleUtil.HandleError(xlsx.NewSheet(SheetComposition))
	simpleUtil.CheckErr(xlsx.SetColWidth(SheetSummary, "A", "A", 16))
	simpleUtil.CheckErr(xlsx.SetColWidth(SheetSummary, "B", "B", 40))

	var stopErr = ""
	if stats.StopErr != nil {
		stopErr = stats.StopErr.Error()
	}
	var rows = [][]interface{}{
		{"Cell", info.Cell},
		{"R1", info.R1},
		{"R2", info.R2},
		{"Output1", info.Out1},
		{"Output2", info.Out2},
		{"FromChar", info.Window.Start},
		{"ToChar", info.Window.End},
		{"RevComp", info.RevComp},
		{"Style", info.Style.String()},
		{"CellReads", stats.Read[addCell.StreamCell]},
		{"R1Reads", stats.Read[addCell.StreamR1]},
		{"R2Reads", stats.Read[addCell.StreamR2]},
		{"R1Written", stats.Written[addCell.StreamR1]},
		{"R2Written", stats.Written[addCell.StreamR2]},
		{"StoppedBy", stats.StoppedBy},
		{"StopError", stopErr},
	}
	for i, row := range rows {
		SetRow(xlsx, SheetSummary, 1, i+1, row)
	}
	for i, name := range stats.Divergent {
		SetRow(xlsx, SheetSummary, 1, len(rows)+i+1, []interface{}{"Divergent", name})
	}

	SetRow(xlsx, SheetLength, 1, 1, []interface{}{"length", "count"})
	var lengths []int
	for k := range stats.BarcodeLength {
		lengths = append(lengths, k)
	}
	sort.Ints(lengths)
	for i, k := range lengths {
		SetRow(xlsx, SheetLength, 1, i+2, []interface{}{k, stats.BarcodeLength[k]})
	}

	var title = []interface{}{"pos"}
	for _, b := range addCell.Bases {
		title = append(title, b)
	}
	SetRow(xlsx, SheetComposition, 1, 1, title)
	for i, counts := range stats.Composition {
		var row = []interface{}{i + 1}
		for _, n := range counts {
			row = append(row, n)
		}
		SetRow(xlsx, SheetComposition, 1, i+2, row)
	}

	slog.Info("save xlsx", "path", path)
	simpleUtil.CheckErr(xlsx.SaveAs(path))
}

func GenerateLineItems(vs []int) []opts.LineData {
	var items = make([]opts.LineData, 0)
	for _, v := range vs {
		items = append(items, opts.LineData{Value: v})
	}
	return items
}

// PlotComposition renders the per-position base counts of the barcodes as an html line chart.
func PlotComposition(path string, stats *addCell.Stats) {
	var (
		line   = charts.NewLine()
		xaxis  = make([]int, len(stats.Composition))
		series [5][]int
		output = osUtil.Create(path)
	)
	defer simpleUtil.DeferClose(output)

	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{
			Title:    "A C G T N Distribution",
			Subtitle: "of cell barcodes",
		}))

	for i, counts := range stats.Composition {
		xaxis[i] = i + 1
		for j, n := range counts {
			series[j] = append(series[j], n)
		}
	}

	line.SetXAxis(xaxis)
	for j, b := range addCell.Bases {
		line.AddSeries(b, GenerateLineItems(series[j]))
	}
	slog.Info("plot", "path", path)
	simpleUtil.CheckErr(line.Render(output))
}
