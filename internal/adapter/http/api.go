package http

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/PescoJ/tracking-dashboard/internal/density"
	"github.com/PescoJ/tracking-dashboard/internal/domain"
)

type summaryResponse struct {
	Source     string              `json:"source"`
	Generation uint64              `json:"generation"`
	LoadedAt   time.Time           `json:"loaded_at"`
	Samples    int                 `json:"samples"`
	Stats      domain.ReshapeStats `json:"stats"`
	Dropped    int                 `json:"dropped"`
	Bounds     domain.Bounds       `json:"bounds"`
}

type samplesResponse struct {
	Generation uint64                  `json:"generation"`
	Filter     density.Filter          `json:"filter"`
	Count      int                     `json:"count"`
	Samples    []domain.LocationSample `json:"samples"`
}

type heatmapResponse struct {
	Generation uint64         `json:"generation"`
	Filter     density.Filter `json:"filter"`
	XEdges     []float64      `json:"x_edges"`
	YEdges     []float64      `json:"y_edges"`
	density.Grid
}

// snapshot writes 503 and returns nil until the first load succeeds.
func (s *Server) snapshot(w http.ResponseWriter) *domain.Dataset {
	ds := s.data.Snapshot()
	if ds == nil {
		writeError(w, http.StatusServiceUnavailable, "dataset not loaded yet")
	}
	return ds
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	ds := s.snapshot(w)
	if ds == nil {
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{
		Source:     ds.Source,
		Generation: ds.Generation,
		LoadedAt:   ds.LoadedAt,
		Samples:    len(ds.Samples),
		Stats:      ds.Stats,
		Dropped:    ds.Stats.Dropped(),
		Bounds:     ds.Bounds,
	})
}

func (s *Server) handleSamples(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ds := s.snapshot(w)
	if ds == nil {
		return
	}
	samples := density.Apply(ds.Samples, f)
	writeJSON(w, http.StatusOK, samplesResponse{
		Generation: ds.Generation,
		Filter:     f,
		Count:      len(samples),
		Samples:    samples,
	})
}

func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f, err := parseFilter(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	binsX, binsY, err := parseBins(q, s.bins)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ds := s.snapshot(w)
	if ds == nil {
		return
	}

	key := density.CacheKey{Generation: ds.Generation, Filter: f, BinsX: binsX, BinsY: binsY}
	grid, ok := s.cachedGrid(key)
	if !ok {
		grid, err = density.Histogram(density.Apply(ds.Samples, f), ds.Bounds, binsX, binsY)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if s.cache != nil {
			s.cache.Put(key, grid)
		}
	}

	writeJSON(w, http.StatusOK, heatmapResponse{
		Generation: ds.Generation,
		Filter:     f,
		XEdges:     density.Edges(ds.Bounds.XMin, ds.Bounds.XMax, binsX),
		YEdges:     density.Edges(ds.Bounds.YMin, ds.Bounds.YMax, binsY),
		Grid:       grid,
	})
}

func (s *Server) cachedGrid(key density.CacheKey) (density.Grid, bool) {
	if s.cache == nil {
		return density.Grid{}, false
	}
	grid, ok := s.cache.Get(key)
	if ok {
		s.metrics.HeatmapCache.WithLabelValues("hit").Inc()
	} else {
		s.metrics.HeatmapCache.WithLabelValues("miss").Inc()
	}
	return grid, ok
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ds, err := s.data.Refresh(r.Context())
	if err != nil {
		s.logger.Warn("manual refresh failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Info("manual refresh", "generation", ds.Generation, "samples", len(ds.Samples))
	writeJSON(w, http.StatusOK, map[string]any{
		"generation": ds.Generation,
		"samples":    len(ds.Samples),
		"stats":      ds.Stats,
	})
}

// parseFilter overlays query parameters on the default filter and validates
// the result.
func parseFilter(q url.Values) (density.Filter, error) {
	f := density.DefaultFilter()
	floats := []struct {
		name string
		dst  *float64
	}{
		{"crime_min", &f.CrimeMin},
		{"crime_max", &f.CrimeMax},
		{"terror_min", &f.TerrorMin},
		{"terror_max", &f.TerrorMax},
	}
	for _, p := range floats {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return f, fmt.Errorf("%s: not a number: %q", p.name, v)
		}
		*p.dst = n
	}
	ints := []struct {
		name string
		dst  *int
	}{
		{"day_min", &f.DayMin},
		{"day_max", &f.DayMax},
	}
	for _, p := range ints {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return f, fmt.Errorf("%s: not an integer: %q", p.name, v)
		}
		*p.dst = n
	}
	if err := f.Validate(); err != nil {
		return f, err
	}
	return f, nil
}

// parseBins reads bins (both axes) with optional bins_x / bins_y overrides.
func parseBins(q url.Values, def int) (int, int, error) {
	bins := def
	if v := q.Get("bins"); v != "" {
		n, err := parseBinCount("bins", v)
		if err != nil {
			return 0, 0, err
		}
		bins = n
	}
	binsX, binsY := bins, bins
	if v := q.Get("bins_x"); v != "" {
		n, err := parseBinCount("bins_x", v)
		if err != nil {
			return 0, 0, err
		}
		binsX = n
	}
	if v := q.Get("bins_y"); v != "" {
		n, err := parseBinCount("bins_y", v)
		if err != nil {
			return 0, 0, err
		}
		binsY = n
	}
	return binsX, binsY, nil
}

func parseBinCount(name, v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > density.MaxBins {
		return 0, fmt.Errorf("%s must be an integer between 1 and %d, got %q", name, density.MaxBins, v)
	}
	return n, nil
}
