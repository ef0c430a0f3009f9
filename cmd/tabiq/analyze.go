package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"tabiq/internal/quality"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Generate a data quality report for a dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := loadTable(args[0])
		if err != nil {
			return err
		}

		report, err := quality.NewAnalyzer().Analyze(table)
		if err != nil {
			return err
		}

		slog.Info("analysis complete",
			slog.String("file", args[0]),
			slog.Int("rows", table.NumRows()),
			slog.Float64("score", report.QualityScore))
		return emitJSON(report)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
