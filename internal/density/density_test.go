package density

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PescoJ/tracking-dashboard/internal/domain"
)

func sample(id string, crime, terror float64, day, x, y int) domain.LocationSample {
	return domain.LocationSample{PersonID: id, Crime: crime, Terror: terror, Day: day, X: x, Y: y}
}

func TestPercentile(t *testing.T) {
	values := []float64{5, 1, 4, 2, 3}

	assert.InDelta(t, 1.0, Percentile(values, 0), 1e-9)
	assert.InDelta(t, 3.0, Percentile(values, 50), 1e-9)
	assert.InDelta(t, 5.0, Percentile(values, 100), 1e-9)
	assert.InDelta(t, 1.04, Percentile(values, 1), 1e-9)
	assert.InDelta(t, 4.96, Percentile(values, 99), 1e-9)
	assert.InDelta(t, 5.0, Percentile(values, 150), 1e-9, "clamped")
	assert.Equal(t, 0.0, Percentile(nil, 50))
	assert.Equal(t, []float64{5, 1, 4, 2, 3}, values, "input untouched")
}

func TestComputeBounds(t *testing.T) {
	t.Run("percentile window", func(t *testing.T) {
		var samples []domain.LocationSample
		for i := 0; i <= 100; i++ {
			samples = append(samples, sample("p", 0, 0, 1, i*10, 1000+i))
		}
		b := ComputeBounds(samples)
		assert.InDelta(t, 10.0, b.XMin, 1e-9)
		assert.InDelta(t, 990.0, b.XMax, 1e-9)
		assert.InDelta(t, 1001.0, b.YMin, 1e-9)
		assert.InDelta(t, 1099.0, b.YMax, 1e-9)
		assert.False(t, b.Empty)
	})

	t.Run("degenerate axis widened", func(t *testing.T) {
		b := ComputeBounds([]domain.LocationSample{sample("p", 0, 0, 1, 7, 9)})
		assert.InDelta(t, 6.5, b.XMin, 1e-9)
		assert.InDelta(t, 7.5, b.XMax, 1e-9)
		assert.InDelta(t, 8.5, b.YMin, 1e-9)
		assert.InDelta(t, 9.5, b.YMax, 1e-9)
	})

	t.Run("empty", func(t *testing.T) {
		assert.True(t, ComputeBounds(nil).Empty)
	})
}

func TestFilterValidate(t *testing.T) {
	require.NoError(t, DefaultFilter().Validate())

	tests := []struct {
		name   string
		mutate func(*Filter)
	}{
		{"crime above range", func(f *Filter) { f.CrimeMax = 101 }},
		{"negative terror", func(f *Filter) { f.TerrorMin = -1 }},
		{"crime inverted", func(f *Filter) { f.CrimeMin, f.CrimeMax = 60, 40 }},
		{"day zero", func(f *Filter) { f.DayMin = 0 }},
		{"day inverted", func(f *Filter) { f.DayMin, f.DayMax = 20, 10 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := DefaultFilter()
			tt.mutate(&f)
			err := f.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid filter")
		})
	}
}

func TestApply(t *testing.T) {
	samples := []domain.LocationSample{
		sample("a", 10, 10, 1, 1, 1),
		sample("b", 50, 80, 15, 2, 2),
		sample("c", 90, 20, 31, 3, 3),
	}

	f := DefaultFilter()
	assert.Len(t, Apply(samples, f), 3)

	f.CrimeMin, f.CrimeMax = 10, 50
	got := Apply(samples, f)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].PersonID)
	assert.Equal(t, "b", got[1].PersonID)

	f = DefaultFilter()
	f.DayMin, f.DayMax = 31, 31
	got = Apply(samples, f)
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].PersonID)

	f = DefaultFilter()
	f.TerrorMax = 15
	assert.Len(t, Apply(samples, f), 1)
}

func TestHistogram(t *testing.T) {
	bounds := domain.Bounds{XMin: 0, XMax: 10, YMin: 0, YMax: 10}
	samples := []domain.LocationSample{
		sample("a", 0, 0, 1, 0, 0),
		sample("b", 0, 0, 1, 4, 6),
		sample("c", 0, 0, 1, 10, 10),
		sample("d", 0, 0, 1, 11, 5),
		sample("e", 0, 0, 1, 5, -1),
	}

	g, err := Histogram(samples, bounds, 2, 2)
	require.NoError(t, err)

	assert.Equal(t, [][]int{{1, 0}, {1, 1}}, g.Counts)
	assert.Equal(t, 3, g.Total)
	assert.Equal(t, 2, g.Outside)
	assert.Equal(t, 2, g.BinsX)
	assert.Equal(t, bounds, g.Bounds)
}

func TestHistogram_InvalidBins(t *testing.T) {
	_, err := Histogram(nil, domain.Bounds{XMax: 1, YMax: 1}, 0, 10)
	require.Error(t, err)
	_, err = Histogram(nil, domain.Bounds{XMax: 1, YMax: 1}, 10, MaxBins+1)
	require.Error(t, err)
}

func TestHistogram_EmptyBounds(t *testing.T) {
	g, err := Histogram([]domain.LocationSample{sample("a", 0, 0, 1, 1, 1)}, domain.Bounds{Empty: true}, 3, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, g.Total)
	assert.Equal(t, 1, g.Outside)
	assert.Len(t, g.Counts, 3)
}

func TestEdges(t *testing.T) {
	assert.Equal(t, []float64{0, 2.5, 5, 7.5, 10}, Edges(0, 10, 4))
}
