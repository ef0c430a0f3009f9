package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tabiq/internal/cleaning"
	"tabiq/internal/exporter"
)

var (
	cleanSubset   []string
	cleanTypes    []string
	cleanStrategy string
	cleanReport   bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean <file> <operation>",
	Short: "Apply a cleaning operation and write the cleaned dataset",
	Long: `Apply a cleaning operation to a dataset and write the result.

Operations: remove_duplicates, convert_types, handle_missing_values.
The cleaned table goes to --output (format chosen by extension) or to
stdout as JSON when no output file is given.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := loadTable(args[0])
		if err != nil {
			return err
		}

		params := cleaning.Params{
			Subset:   cleanSubset,
			Strategy: cleanStrategy,
		}
		if len(cleanTypes) > 0 {
			params.Types = make(map[string]string, len(cleanTypes))
			for _, pair := range cleanTypes {
				col, kind, ok := strings.Cut(pair, "=")
				if !ok {
					return fmt.Errorf("invalid --type %q, want column=kind", pair)
				}
				params.Types[col] = kind
			}
		}

		cleaned, report, err := cleaning.Apply(table, args[1], params)
		if err != nil {
			return err
		}

		slog.Info("cleaning complete",
			slog.String("operation", args[1]),
			slog.Int("rows_before", table.NumRows()),
			slog.Int("rows_after", cleaned.NumRows()))

		if cleanReport {
			return emitJSON(report)
		}
		if outputPath != "" {
			return exporter.ExportFile(outputPath, cleaned)
		}
		return exporter.WriteJSON(os.Stdout, cleaned)
	},
}

func init() {
	cleanCmd.Flags().StringSliceVar(&cleanSubset, "subset", nil, "columns considered by remove_duplicates")
	cleanCmd.Flags().StringSliceVar(&cleanTypes, "type", nil, "column=kind conversions for convert_types")
	cleanCmd.Flags().StringVar(&cleanStrategy, "strategy", "", "handle_missing_values strategy (mean, median, forward_fill, drop, drop_column)")
	cleanCmd.Flags().BoolVar(&cleanReport, "report", false, "print the change report instead of the cleaned table")
	rootCmd.AddCommand(cleanCmd)
}
