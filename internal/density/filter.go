package density

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/PescoJ/tracking-dashboard/internal/domain"
)

var validate = validator.New()

// Filter selects samples by inclusive score and day ranges.
type Filter struct {
	CrimeMin  float64 `json:"crime_min" validate:"gte=0,lte=100"`
	CrimeMax  float64 `json:"crime_max" validate:"gte=0,lte=100,gtefield=CrimeMin"`
	TerrorMin float64 `json:"terror_min" validate:"gte=0,lte=100"`
	TerrorMax float64 `json:"terror_max" validate:"gte=0,lte=100,gtefield=TerrorMin"`
	DayMin    int     `json:"day_min" validate:"gte=1,lte=31"`
	DayMax    int     `json:"day_max" validate:"gte=1,lte=31,gtefield=DayMin"`
}

// DefaultFilter selects every sample.
func DefaultFilter() Filter {
	return Filter{
		CrimeMin:  0,
		CrimeMax:  100,
		TerrorMin: 0,
		TerrorMax: 100,
		DayMin:    1,
		DayMax:    31,
	}
}

// Validate checks ranges and ordering.
func (f Filter) Validate() error {
	if err := validate.Struct(f); err != nil {
		return fmt.Errorf("invalid filter: %w", err)
	}
	return nil
}

// Match reports whether s falls inside every range of f.
func (f Filter) Match(s domain.LocationSample) bool {
	return s.Crime >= f.CrimeMin && s.Crime <= f.CrimeMax &&
		s.Terror >= f.TerrorMin && s.Terror <= f.TerrorMax &&
		s.Day >= f.DayMin && s.Day <= f.DayMax
}

// Apply returns the samples matching f. The input slice is not modified.
func Apply(samples []domain.LocationSample, f Filter) []domain.LocationSample {
	out := make([]domain.LocationSample, 0, len(samples))
	for _, s := range samples {
		if f.Match(s) {
			out = append(out, s)
		}
	}
	return out
}
