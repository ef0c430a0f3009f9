package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tabiq/pkg/contracts"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(contracts.GetVersionInfo().String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
