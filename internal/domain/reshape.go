package domain

// LocationSample is one person's decoded position on one day.
type LocationSample struct {
	PersonID string  `json:"person_id"`
	Crime    float64 `json:"crime"`
	Terror   float64 `json:"terror"`
	Day      int     `json:"day"`
	X        int     `json:"x"`
	Y        int     `json:"y"`
}

// ReshapeStats counts what happened to every (person, day) candidate.
// Candidates == Emitted + Missing + Unparseable + Ambiguous + InvalidScore.
type ReshapeStats struct {
	Rows         int `json:"rows"`
	DayColumns   int `json:"day_columns"`
	Candidates   int `json:"candidates"`
	Emitted      int `json:"emitted"`
	Missing      int `json:"missing"`
	Unparseable  int `json:"unparseable"`
	Ambiguous    int `json:"ambiguous"`
	InvalidScore int `json:"invalid_score"`
}

// Dropped returns the number of candidates that produced no sample.
func (s ReshapeStats) Dropped() int {
	return s.Candidates - s.Emitted
}

// ReshapeResult is the output of one reshape call.
type ReshapeResult struct {
	Samples []LocationSample
	Stats   ReshapeStats
}

// Reshaper melts a wide person table into location samples.
type Reshaper struct {
	schema Schema
}

// NewReshaper validates schema and returns a Reshaper bound to it.
func NewReshaper(schema Schema) (*Reshaper, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	return &Reshaper{schema: schema}, nil
}

// Schema returns the column naming the reshaper was built with.
func (r *Reshaper) Schema() Schema {
	return r.schema
}

// Reshape emits one sample per (person, day column) whose token decodes to a
// coordinate. Schema mismatches abort with a *SchemaError and no samples;
// every other anomaly drops a single candidate.
func (r *Reshaper) Reshape(t *Table) (ReshapeResult, error) {
	persons, days, err := DecodePersons(t, r.schema)
	if err != nil {
		return ReshapeResult{}, err
	}

	stats := ReshapeStats{
		Rows:       len(persons),
		DayColumns: len(days),
		Candidates: len(persons) * len(days),
	}
	samples := make([]LocationSample, 0, stats.Candidates)

	for _, p := range persons {
		if !p.ScoresValid {
			stats.InvalidScore += len(days)
			continue
		}
		for _, d := range days {
			m := ClassifyToken(p.Token(d.Name))
			switch m.Kind {
			case MatchBoundedRun, MatchFusedRun:
				samples = append(samples, LocationSample{
					PersonID: p.ID,
					Crime:    p.Crime,
					Terror:   p.Terror,
					Day:      d.Day,
					X:        m.Coordinate.X,
					Y:        m.Coordinate.Y,
				})
				stats.Emitted++
			case MatchMissing:
				stats.Missing++
			case MatchAmbiguousFusedRun:
				stats.Ambiguous++
			default:
				stats.Unparseable++
			}
		}
	}

	return ReshapeResult{Samples: samples, Stats: stats}, nil
}
