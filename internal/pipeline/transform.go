package pipeline

import (
	"github.com/PescoJ/tracking-dashboard/internal/density"
	"github.com/PescoJ/tracking-dashboard/internal/domain"
)

// buildDataset reshapes a loaded table into a snapshot with fixed plot bounds.
func (p *Pipeline) buildDataset(table *domain.Table, generation uint64) (*domain.Dataset, error) {
	result, err := p.reshaper.Reshape(table)
	if err != nil {
		return nil, err
	}

	if dropped := result.Stats.Dropped(); dropped > 0 {
		p.logger.Warn("dropped person-day candidates",
			"dropped", dropped,
			"missing", result.Stats.Missing,
			"unparseable", result.Stats.Unparseable,
			"ambiguous", result.Stats.Ambiguous,
			"invalid_score", result.Stats.InvalidScore,
		)
	}

	bounds := density.ComputeBounds(result.Samples)
	return domain.NewDataset(result, bounds, p.source.Name(), generation), nil
}
