// Package density aggregates location samples into heat-map bin counts.
package density

import (
	"math"
	"sort"

	"github.com/PescoJ/tracking-dashboard/internal/domain"
)

const (
	lowerPercentile = 1
	upperPercentile = 99
	// degeneratePad widens a zero-width axis so every sample lands in a bin.
	degeneratePad = 0.5
)

// Percentile returns the p-th percentile (0-100) of values using linear
// interpolation between closest ranks. values need not be sorted.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return percentileSorted(sorted, p)
}

func percentileSorted(sorted []float64, p float64) float64 {
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	index := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// ComputeBounds derives the fixed heat-map window from the 1st and 99th
// percentile of x and y across the full sample set. It is computed once per
// dataset so filtered views share the same axes.
func ComputeBounds(samples []domain.LocationSample) domain.Bounds {
	if len(samples) == 0 {
		return domain.Bounds{Empty: true}
	}
	xs := make([]float64, len(samples))
	ys := make([]float64, len(samples))
	for i, s := range samples {
		xs[i] = float64(s.X)
		ys[i] = float64(s.Y)
	}
	sort.Float64s(xs)
	sort.Float64s(ys)

	b := domain.Bounds{
		XMin: percentileSorted(xs, lowerPercentile),
		XMax: percentileSorted(xs, upperPercentile),
		YMin: percentileSorted(ys, lowerPercentile),
		YMax: percentileSorted(ys, upperPercentile),
	}
	if b.XMax <= b.XMin {
		b.XMin -= degeneratePad
		b.XMax = b.XMin + 2*degeneratePad
	}
	if b.YMax <= b.YMin {
		b.YMin -= degeneratePad
		b.YMax = b.YMin + 2*degeneratePad
	}
	return b
}
