package main

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/PescoJ/tracking-dashboard/internal/adapter/spreadsheet"
	"github.com/PescoJ/tracking-dashboard/internal/domain"
)

var genmockOpts struct {
	out    string
	sheet  string
	people int
	days   int
	seed   uint64
}

var genmockCmd = &cobra.Command{
	Use:   "genmock",
	Short: "Write a synthetic tracking workbook",
	Long: `Write an .xlsx workbook with one row per person and one Location_<day>
column per day. Tokens mix the spaced "E12345 N67890" style with fused
10 and 12 digit codes, plus blank and garbage cells. Output is
deterministic for a given --seed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		o := genmockOpts
		if o.people < 1 {
			return fmt.Errorf("--people must be at least 1, got %d", o.people)
		}
		if o.days < 1 || o.days > 31 {
			return fmt.Errorf("--days must be between 1 and 31, got %d", o.days)
		}

		header, rows := mockRows(domain.DefaultSchema(), o.people, o.days, o.seed)
		if err := spreadsheet.WriteXLSX(o.out, o.sheet, header, rows); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d people x %d days to %s\n", o.people, o.days, o.out)
		return nil
	},
}

func init() {
	f := genmockCmd.Flags()
	f.StringVarP(&genmockOpts.out, "out", "o", "data/tracking.xlsx", "output workbook path")
	f.StringVar(&genmockOpts.sheet, "sheet", "Tracking", "worksheet name")
	f.IntVar(&genmockOpts.people, "people", 200, "number of person rows")
	f.IntVar(&genmockOpts.days, "days", 14, "number of day columns (1-31)")
	f.Uint64Var(&genmockOpts.seed, "seed", 1, "random seed")
}

// hotspot is a cluster centre people tend to be seen around.
type hotspot struct{ x, y float64 }

// mockRows builds the header and rows of a synthetic workbook.
func mockRows(schema domain.Schema, people, days int, seed uint64) ([]string, [][]any) {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	header := []string{schema.IDColumn, schema.CrimeColumn, schema.TerrorColumn}
	for d := 1; d <= days; d++ {
		header = append(header, fmt.Sprintf("%s%d", schema.DayPrefix, d))
	}

	spots := make([]hotspot, 4)
	for i := range spots {
		spots[i] = hotspot{x: 10000 + rng.Float64()*80000, y: 10000 + rng.Float64()*80000}
	}

	rows := make([][]any, 0, people)
	for i := range people {
		id := uuid.NewSHA1(uuid.NameSpaceOID, fmt.Appendf(nil, "trackctl-%d-%d", seed, i))
		home := spots[rng.IntN(len(spots))]

		row := []any{
			id.String(),
			math.Round(rng.Float64()*1000) / 10,
			math.Round(rng.Float64()*1000) / 10,
		}
		for range days {
			row = append(row, mockToken(rng, home))
		}
		rows = append(rows, row)
	}
	return header, rows
}

// mockToken returns a location cell value; nil is a blank cell.
func mockToken(rng *rand.Rand, home hotspot) any {
	x := clampCoord(home.x + rng.NormFloat64()*6000)
	y := clampCoord(home.y + rng.NormFloat64()*6000)

	switch p := rng.Float64(); {
	case p < 0.10:
		return nil
	case p < 0.14:
		return []string{"n/a", "unknown", "??", "123"}[rng.IntN(4)]
	case p < 0.55:
		return fmt.Sprintf("E%05d N%05d", x, y)
	case p < 0.85:
		return fmt.Sprintf("%05d%05d", x, y)
	default:
		// Fused code behind a two-digit sector prefix.
		return fmt.Sprintf("SEC-%02d%05d%05d", rng.IntN(100), x, y)
	}
}

func clampCoord(v float64) int {
	return int(math.Max(0, math.Min(99999, math.Round(v))))
}
