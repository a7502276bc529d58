package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"
	"time"

	"github.com/liserjrqlxue/goUtil/osUtil"
	"github.com/liserjrqlxue/goUtil/simpleUtil"
	flag "github.com/spf13/pflag"

	"fastqAddCell/pkg/addCell"
	"fastqAddCell/pkg/fqio"
	"fastqAddCell/pkg/report"
)

// flag
var (
	cell = flag.StringP(
		"cell",
		"c",
		"",
		"cell barcode fastq, required",
	)
	fq1 = flag.StringP(
		"r1",
		"1",
		"",
		"read 1 fastq, required",
	)
	fq2 = flag.StringP(
		"r2",
		"2",
		"",
		"read 2 fastq",
	)
	fromChar = flag.Uint(
		"from-char",
		0,
		"first barcode base to keep, 0-based",
	)
	toChar = flag.Uint(
		"to-char",
		0,
		"end of the barcode window, exclusive",
	)
	recomp = flag.Bool(
		"recomp",
		false,
		"reverse complement the barcode",
	)
	style = flag.String(
		"style",
		"colon",
		"barcode injection: colon (@id:desc:BARCODE) or desc (@id desc BARCODE)",
	)
	backend = flag.String(
		"backend",
		"pigz",
		"gzip backend: pigz (coprocess) or pgzip (in process)",
	)
	pigz = flag.String(
		"pigz",
		"pigz",
		"pigz executable",
	)
	threads = flag.IntP(
		"threads",
		"p",
		fqio.DefaultPigzThreads,
		"compression threads per output",
	)
	outDir = flag.StringP(
		"outdir",
		"o",
		"",
		"output directory, default: next to each input",
	)
	tag = flag.String(
		"tag",
		addCell.DefaultTag,
		"tag inserted into output names",
	)
	xlsxReport = flag.String(
		"report",
		"",
		"write run summary xlsx",
	)
	plot = flag.String(
		"plot",
		"",
		"write barcode base composition html",
	)
	verbose = flag.BoolP(
		"verbose",
		"v",
		false,
		"debug log",
	)
	cpuProfile = flag.String(
		"cpu",
		"",
		"cpu profile",
	)
)

func main() {
	t0 := time.Now()
	flag.Parse()
	if *cell == "" || *fq1 == "" {
		flag.PrintDefaults()
		log.Fatal("-c/-1 required!")
	}
	if *verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	if *cpuProfile != "" {
		var logCPUProfile = osUtil.Create(*cpuProfile)
		defer simpleUtil.DeferClose(logCPUProfile)
		simpleUtil.CheckErr(pprof.StartCPUProfile(logCPUProfile))
		defer pprof.StopCPUProfile()
	}

	var opt, err = parseOptions()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, err := addCell.Run(ctx, opt)
	if err != nil {
		slog.Error("add cell failed", "err", err)
		var exitErr *fqio.ExitError
		if errors.As(err, &exitErr) {
			slog.Error("compressor output is untrustworthy, rerun", "path", exitErr.Path)
		}
		pprof.StopCPUProfile()
		os.Exit(1)
	}

	var info = report.Info{
		Cell:    opt.Cell,
		R1:      opt.R1,
		R2:      opt.R2,
		Out1:    opt.OutputPath(opt.R1),
		Window:  opt.Window,
		RevComp: opt.RevComp,
		Style:   opt.Style,
	}
	if opt.R2 != "" {
		info.Out2 = opt.OutputPath(opt.R2)
	}
	if *xlsxReport != "" {
		report.WriteXlsx(*xlsxReport, info, stats)
	}
	if *plot != "" {
		report.PlotComposition(*plot, stats)
	}

	log.Printf("Done in %s, %d reads annotated", time.Since(t0), stats.Barcodes())
}

// clampInt keeps huge flag values positive, a negative bound means unset.
func clampInt(v uint) int {
	if v > math.MaxInt {
		return math.MaxInt
	}
	return int(v)
}

// parseOptions collects the flags; --from-char/--to-char stay unset unless given.
func parseOptions() (opt addCell.Options, err error) {
	opt = addCell.Options{
		Cell:    *cell,
		R1:      *fq1,
		R2:      *fq2,
		OutDir:  *outDir,
		Tag:     *tag,
		Window:  addCell.FullWindow,
		RevComp: *recomp,
	}
	if flag.CommandLine.Changed("from-char") {
		opt.Window.Start = clampInt(*fromChar)
	}
	if flag.CommandLine.Changed("to-char") {
		opt.Window.End = clampInt(*toChar)
	}
	if opt.Style, err = addCell.ParseInjectStyle(*style); err != nil {
		return opt, err
	}
	if opt.Backend, err = fqio.NewBackend(*backend, *pigz, *threads); err != nil {
		return opt, err
	}
	if opt.OutDir != "" {
		if err = os.MkdirAll(opt.OutDir, 0755); err != nil {
			return opt, fmt.Errorf("create outdir: %w", err)
		}
	}
	return opt, nil
}
