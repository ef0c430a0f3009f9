package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"tabiq/internal/services"
)

var (
	chartType  string
	chartX     string
	chartY     []string
	chartTitle string
)

var chartCmd = &cobra.Command{
	Use:   "chart <file>",
	Short: "Generate a Chart.js configuration for a dataset",
	Long: `Generate a Chart.js configuration for a dataset.

Without --type the chart type is suggested from the column kinds.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := loadTable(args[0])
		if err != nil {
			return err
		}

		svc := services.NewChartService(slog.Default())

		if chartType == "" {
			suggested, cfg, err := svc.Recommended(cmd.Context(), table, chartTitle)
			if err != nil {
				return err
			}
			slog.Info("chart type suggested", slog.String("type", string(suggested)))
			return emitJSON(cfg)
		}

		cfg, err := svc.Config(cmd.Context(), table, chartType, chartX, chartY, chartTitle)
		if err != nil {
			return err
		}
		return emitJSON(cfg)
	},
}

func init() {
	chartCmd.Flags().StringVar(&chartType, "type", "", "chart type (bar, line, pie, donut, scatter, area, radar, heatmap, bubble, treemap)")
	chartCmd.Flags().StringVar(&chartX, "x", "", "x-axis column")
	chartCmd.Flags().StringSliceVar(&chartY, "y", nil, "y-axis columns")
	chartCmd.Flags().StringVar(&chartTitle, "title", "", "chart title")
	rootCmd.AddCommand(chartCmd)
}
