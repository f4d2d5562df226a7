// Package main implements the circuit CLI, which previews and runs generated
// interval workouts from a JSON or TOML plan file.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "circuit",
	Short:        "Preview and run interval workouts",
	SilenceUsage: true,
}

var planMinutes int

func init() {
	rootCmd.PersistentFlags().IntVarP(&planMinutes, "minutes", "m", 0, "Requested workout length in minutes (defaults to the plan's durationMinutes)")
}
