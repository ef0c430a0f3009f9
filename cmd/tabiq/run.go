package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"tabiq/internal/operations"
)

var runMode string

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Run the full analysis pipeline on a dataset",
	Long: `Run the full analysis pipeline (quality, insights, chart
suggestion) on a dataset and print the collected results.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := loadTable(args[0])
		if err != nil {
			return err
		}

		manager := operations.NewManager(
			operations.WithExecutionMode(operations.ExecutionMode(runMode)),
			operations.WithLogger(slog.Default()),
		)
		resp, err := manager.Execute(cmd.Context(), table)
		if err != nil {
			return err
		}

		slog.Info("run complete",
			slog.String("run_id", resp.ID),
			slog.String("status", string(resp.Status)),
			slog.Duration("duration", resp.Duration))
		return emitJSON(resp)
	},
}

func init() {
	runCmd.Flags().StringVar(&runMode, "mode", string(operations.ExecutionModeSequential),
		"step scheduling (sequential, concurrent)")
	rootCmd.AddCommand(runCmd)
}
