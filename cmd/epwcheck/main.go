// Command epwcheck parses EPW files from the command line and prints their
// diagnostics, useful for checking weather files before loading them into the
// service.
//
// Usage:
//
//	go run ./cmd/epwcheck [-year 2000] [-quiet] file.epw [file2.epw ...]
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/niprotogeros/epw-visualizer/internal/epw"
	"github.com/niprotogeros/epw-visualizer/internal/observability"
	"github.com/niprotogeros/epw-visualizer/internal/pipeline"
)

func main() {
	year := flag.Int("year", epw.DefaultUnifiedYear, "unified reference year for timestamps")
	quiet := flag.Bool("quiet", false, "suppress info and success diagnostics")
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(flag.Args(), *year, *quiet); code != 0 {
		os.Exit(code)
	}
}

func run(paths []string, year int, quiet bool) int {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(logger, metrics, year, nil, nil)

	exitCode := 0
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: %s: %v\n", path, err)
			exitCode = 1
			continue
		}

		result := p.Parse(content)
		if !checkFile(path, result, quiet) {
			exitCode = 1
		}
	}
	return exitCode
}

// checkFile prints the per-file report and returns false on a fatal parse.
func checkFile(path string, result pipeline.Result, quiet bool) bool {
	fmt.Printf("=== %s (%s) ===\n", path, result.DatasetID)

	for _, d := range result.Diagnostics {
		if quiet && (d.Level == epw.LevelInfo || d.Level == epw.LevelSuccess) {
			continue
		}
		fmt.Printf("  [%s] %s\n", levelTag(d.Level), d.Message)
	}

	if result.Dataset == nil {
		fmt.Println("  Result: FATAL (no usable data)")
		return false
	}

	meta := result.Metadata
	fmt.Printf("  Station: %s, %s, %s (WMO %s)\n", meta.City, meta.StateProvince, meta.Country, meta.WMO)
	fmt.Printf("  Rows: %d, unified to year %d\n", len(result.Dataset.Records), result.Dataset.UnifiedYear)
	return true
}

func levelTag(level epw.Level) string {
	switch level {
	case epw.LevelWarning:
		return "WARN"
	case epw.LevelError:
		return "ERROR"
	case epw.LevelSuccess:
		return "OK"
	default:
		return "INFO"
	}
}
