package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"tabiq/internal/services"
)

var insightSections []string

var insightsCmd = &cobra.Command{
	Use:   "insights <file>",
	Short: "Generate statistical insights for a dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := loadTable(args[0])
		if err != nil {
			return err
		}

		svc := services.NewInsightService(slog.Default())
		report, err := svc.Generate(cmd.Context(), table, insightSections)
		if err != nil {
			return err
		}
		return emitJSON(report)
	},
}

func init() {
	insightsCmd.Flags().StringSliceVar(&insightSections, "section", nil,
		"sections to generate (summary_stats, anomalies, outliers, relationships, distributions, missing_data); default all")
	rootCmd.AddCommand(insightsCmd)
}
