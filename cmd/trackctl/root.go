package main

import (
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Global flag values.
var (
	verbose bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "trackctl",
	Short: "Generate and inspect person tracking workbooks",
	Long: `trackctl works with the person tracking workbooks served by the dashboard.
It can generate synthetic workbooks and reshape a workbook into per-day
location samples without running the service.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if noColor {
			color.NoColor = true
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log loader and reshape details to stderr")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(genmockCmd)
	rootCmd.AddCommand(reshapeCmd)
	rootCmd.AddCommand(versionCmd)
}

func cliLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
