package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/PescoJ/tracking-dashboard/internal/adapter/spreadsheet"
	"github.com/PescoJ/tracking-dashboard/internal/density"
	"github.com/PescoJ/tracking-dashboard/internal/domain"
)

var reshapeOpts struct {
	sheet  string
	out    string
	schema domain.Schema
}

var reshapeCmd = &cobra.Command{
	Use:   "reshape <file>",
	Short: "Reshape a workbook into location samples",
	Long: `Load an .xlsx, .xls or .csv tracking table, reshape it into one sample per
person and day, and print a summary of emitted and dropped candidates.
With --out the samples are written as a JSON array.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reshaper, err := domain.NewReshaper(reshapeOpts.schema)
		if err != nil {
			return err
		}

		src := spreadsheet.NewSource(args[0], reshapeOpts.sheet, cliLogger(cmd.ErrOrStderr()))
		table, err := src.LoadTable(cmd.Context())
		if err != nil {
			return err
		}
		res, err := reshaper.Reshape(table)
		if err != nil {
			return err
		}

		printSummary(cmd.OutOrStdout(), src.Name(), res, density.ComputeBounds(res.Samples))

		if reshapeOpts.out != "" {
			if err := writeSamplesJSON(reshapeOpts.out, res.Samples); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d samples to %s\n", len(res.Samples), reshapeOpts.out)
		}
		return nil
	},
}

func init() {
	defaults := domain.DefaultSchema()
	f := reshapeCmd.Flags()
	f.StringVar(&reshapeOpts.sheet, "sheet", "", "worksheet name (default: first sheet)")
	f.StringVarP(&reshapeOpts.out, "out", "o", "", "write samples to this JSON file")
	f.StringVar(&reshapeOpts.schema.IDColumn, "id-column", defaults.IDColumn, "person id column")
	f.StringVar(&reshapeOpts.schema.CrimeColumn, "crime-column", defaults.CrimeColumn, "crime tendency column")
	f.StringVar(&reshapeOpts.schema.TerrorColumn, "terror-column", defaults.TerrorColumn, "terror tendency column")
	f.StringVar(&reshapeOpts.schema.DayPrefix, "day-prefix", defaults.DayPrefix, "day column prefix")
}

var (
	colorBold   = color.New(color.Bold)
	colorGreen  = color.New(color.FgGreen)
	colorYellow = color.New(color.FgYellow)
)

func printSummary(w io.Writer, source string, res domain.ReshapeResult, b domain.Bounds) {
	s := res.Stats
	colorBold.Fprintf(w, "%s\n", source)
	fmt.Fprintf(w, "  people:       %d\n", s.Rows)
	fmt.Fprintf(w, "  day columns:  %d\n", s.DayColumns)
	fmt.Fprintf(w, "  candidates:   %d\n", s.Candidates)
	fmt.Fprintf(w, "  emitted:      %s\n", colorGreen.Sprint(s.Emitted))
	fmt.Fprintf(w, "  dropped:      %s\n", droppedCount(s.Dropped()))
	fmt.Fprintf(w, "    missing       %d\n", s.Missing)
	fmt.Fprintf(w, "    unparseable   %d\n", s.Unparseable)
	fmt.Fprintf(w, "    ambiguous     %d\n", s.Ambiguous)
	fmt.Fprintf(w, "    invalid score %d\n", s.InvalidScore)
	if b.Empty {
		fmt.Fprintf(w, "  bounds:       %s\n", colorYellow.Sprint("none"))
		return
	}
	fmt.Fprintf(w, "  bounds:       x [%.1f, %.1f]  y [%.1f, %.1f]\n", b.XMin, b.XMax, b.YMin, b.YMax)
}

func droppedCount(n int) string {
	if n == 0 {
		return colorGreen.Sprint(n)
	}
	return colorYellow.Sprint(n)
}

func writeSamplesJSON(path string, samples []domain.LocationSample) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(samples); err != nil {
		f.Close()
		return fmt.Errorf("encode samples: %w", err)
	}
	return f.Close()
}
