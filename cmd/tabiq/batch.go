package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/spf13/cobra"

	"tabiq/internal/exporter"
	"tabiq/internal/files"
	"tabiq/internal/quality"
)

var batchWorkers int

// batchResult is one file's outcome within a batch analysis.
type batchResult struct {
	File     string  `json:"file"`
	Rows     int     `json:"rows"`
	Columns  int     `json:"columns"`
	Score    float64 `json:"data_quality_score"`
	Duration string  `json:"duration"`
	Error    string  `json:"error,omitempty"`
}

var batchCmd = &cobra.Command{
	Use:   "batch <file-or-dir>...",
	Short: "Analyze many datasets concurrently",
	Long: `Analyze many datasets concurrently and print a per-file quality
summary. Directory arguments expand to the dataset files they contain.
Files that fail to load or analyze are reported in place without
stopping the rest of the batch.

The summary is JSON by default; an --output path ending in .csv
streams the rows as CSV instead.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := expandArgs(args)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			return fmt.Errorf("no dataset files found")
		}

		pool := pond.NewResultPool[batchResult](batchWorkers)
		defer pool.StopAndWait()
		group := pool.NewGroupContext(cmd.Context())

		for _, path := range paths {
			group.SubmitErr(func() (batchResult, error) {
				return analyzeOne(path), nil
			})
		}

		results, err := group.Wait()
		if err != nil {
			return fmt.Errorf("batch aborted: %w", err)
		}

		failed := 0
		for _, r := range results {
			if r.Error != "" {
				failed++
			}
		}
		slog.Info("batch complete",
			slog.Int("files", len(results)),
			slog.Int("failed", failed))

		if strings.EqualFold(filepath.Ext(outputPath), ".csv") {
			return writeBatchCSV(outputPath, results)
		}
		return emitJSON(results)
	},
}

// writeBatchCSV streams the batch summary to a CSV file, one record per
// analyzed dataset.
func writeBatchCSV(path string, results []batchResult) error {
	sw, err := exporter.CreateStreamWriter(path, []string{
		"file", "rows", "columns", "data_quality_score", "duration", "error",
	})
	if err != nil {
		return err
	}

	for _, r := range results {
		record := []string{
			r.File,
			strconv.Itoa(r.Rows),
			strconv.Itoa(r.Columns),
			strconv.FormatFloat(r.Score, 'f', 2, 64),
			r.Duration,
			r.Error,
		}
		if err := sw.WriteRecord(record); err != nil {
			sw.Close()
			return err
		}
	}
	return sw.Close()
}

// expandArgs replaces directory arguments with the dataset files they
// contain; plain file paths pass through untouched.
func expandArgs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		datasets, err := files.NewDiscovery(arg).FindDatasets(".")
		if err != nil {
			return nil, err
		}
		for _, ds := range datasets {
			paths = append(paths, ds.Path)
		}
	}
	return paths, nil
}

// analyzeOne loads and scores a single file, folding any error into the
// result so one bad file does not cancel the group.
func analyzeOne(path string) batchResult {
	start := time.Now()
	result := batchResult{File: path}

	table, err := loadTable(path)
	if err != nil {
		result.Error = err.Error()
		result.Duration = time.Since(start).String()
		return result
	}

	report, err := quality.NewAnalyzer().Analyze(table)
	if err != nil {
		result.Error = err.Error()
		result.Duration = time.Since(start).String()
		return result
	}

	result.Rows = table.NumRows()
	result.Columns = table.NumCols()
	result.Score = report.QualityScore
	result.Duration = time.Since(start).String()
	return result
}

func init() {
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 4, "number of files analyzed in parallel")
	rootCmd.AddCommand(batchCmd)
}
