package domain

import "time"

// Bounds is the fixed coordinate window used to bin heat maps.
type Bounds struct {
	XMin  float64 `json:"x_min"`
	XMax  float64 `json:"x_max"`
	YMin  float64 `json:"y_min"`
	YMax  float64 `json:"y_max"`
	Empty bool    `json:"empty,omitempty"`
}

// Dataset is an immutable snapshot of one source load. Consumers must not
// modify Samples.
type Dataset struct {
	Samples    []LocationSample `json:"-"`
	Stats      ReshapeStats     `json:"stats"`
	Bounds     Bounds           `json:"bounds"`
	Source     string           `json:"source"`
	Generation uint64           `json:"generation"`
	LoadedAt   time.Time        `json:"loaded_at"`
}

// NewDataset stamps a reshape result with its source and load time.
func NewDataset(result ReshapeResult, bounds Bounds, source string, generation uint64) *Dataset {
	return &Dataset{
		Samples:    result.Samples,
		Stats:      result.Stats,
		Bounds:     bounds,
		Source:     source,
		Generation: generation,
		LoadedAt:   clock.Now().UTC(),
	}
}
