// Command tabiq is the command-line interface to the analysis engine:
// quality reports, cleaning, insights, chart configs, and full runs
// against local CSV, Excel, or JSON files.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"tabiq/internal/config"
	"tabiq/internal/infrastructure"
	"tabiq/internal/ingest"
	"tabiq/internal/tabular"
	"tabiq/internal/validation"
)

var (
	logLevel   string
	outputPath string
)

var rootCmd = &cobra.Command{
	Use:           "tabiq",
	Short:         "Tabular data quality and insight engine",
	Long:          "tabiq analyzes tabular datasets for quality problems, cleans them, and generates insights and chart configurations.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger, _ := infrastructure.InitializeLogger(config.LoggingConfig{
			Level:  logLevel,
			Format: "console",
		})
		slog.SetDefault(logger)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "write result to file instead of stdout")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "tabiq: %v\n", err)
		os.Exit(1)
	}
}

// loadTable validates the input path and decodes it into a table.
func loadTable(path string) (*tabular.MemTable, error) {
	validator := validation.NewFileValidator(slog.Default(), config.Default().Server.MaxUploadBytes)
	if _, err := validator.ValidateInputFile(path); err != nil {
		return nil, err
	}
	return ingest.DecodeFile(path)
}

// emitJSON writes v as indented JSON to --output or stdout.
func emitJSON(v any) error {
	out := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
