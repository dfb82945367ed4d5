package density

import (
	"fmt"

	"github.com/PescoJ/tracking-dashboard/internal/domain"
)

// MaxBins caps each heat-map axis.
const MaxBins = 500

// Grid holds 2-D bin counts over fixed bounds. Counts is indexed [y][x] so
// rows render top-down as heat-map lines.
type Grid struct {
	BinsX   int           `json:"bins_x"`
	BinsY   int           `json:"bins_y"`
	Bounds  domain.Bounds `json:"bounds"`
	Counts  [][]int       `json:"counts"`
	Total   int           `json:"total"`
	Outside int           `json:"outside"`
}

// Histogram bins samples into binsX by binsY equal-width cells spanning
// bounds. The upper edge of the last bin is inclusive; samples outside bounds
// are counted in Outside and not binned.
func Histogram(samples []domain.LocationSample, bounds domain.Bounds, binsX, binsY int) (Grid, error) {
	if binsX < 1 || binsX > MaxBins || binsY < 1 || binsY > MaxBins {
		return Grid{}, fmt.Errorf("bins must be between 1 and %d, got %dx%d", MaxBins, binsX, binsY)
	}

	g := Grid{
		BinsX:  binsX,
		BinsY:  binsY,
		Bounds: bounds,
		Counts: make([][]int, binsY),
	}
	for i := range g.Counts {
		g.Counts[i] = make([]int, binsX)
	}
	if bounds.Empty {
		g.Outside = len(samples)
		return g, nil
	}

	for _, s := range samples {
		ix, okX := binIndex(float64(s.X), bounds.XMin, bounds.XMax, binsX)
		iy, okY := binIndex(float64(s.Y), bounds.YMin, bounds.YMax, binsY)
		if !okX || !okY {
			g.Outside++
			continue
		}
		g.Counts[iy][ix]++
		g.Total++
	}
	return g, nil
}

// Edges returns the bin edges for one axis, len(bins)+1 values.
func Edges(lo, hi float64, bins int) []float64 {
	edges := make([]float64, bins+1)
	width := (hi - lo) / float64(bins)
	for i := range edges {
		edges[i] = lo + float64(i)*width
	}
	edges[bins] = hi
	return edges
}

func binIndex(v, lo, hi float64, bins int) (int, bool) {
	if v < lo || v > hi || hi <= lo {
		return 0, false
	}
	if v == hi {
		return bins - 1, true
	}
	i := int((v - lo) / (hi - lo) * float64(bins))
	if i >= bins {
		i = bins - 1
	}
	return i, true
}
