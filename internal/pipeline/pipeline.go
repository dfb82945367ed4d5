package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/PescoJ/tracking-dashboard/internal/domain"
	"github.com/PescoJ/tracking-dashboard/internal/observability"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// TableSource reads the current person table.
type TableSource interface {
	LoadTable(ctx context.Context) (*domain.Table, error)
	Name() string
}

// Reshaper melts a person table into location samples.
type Reshaper interface {
	Reshape(t *domain.Table) (domain.ReshapeResult, error)
}

// BatchPublisher writes location samples to a downstream sink.
type BatchPublisher interface {
	PublishBatch(ctx context.Context, generation uint64, samples []domain.LocationSample) error
}

// Options tunes the refresh loop.
type Options struct {
	// RefreshInterval reloads the source periodically; 0 loads once.
	RefreshInterval time.Duration
	// BatchSize caps samples per publish call.
	BatchSize int
	// Clock drives backoff and the refresh ticker. Nil uses the real clock.
	Clock clockwork.Clock
}

// Pipeline loads the source table, reshapes it and publishes immutable
// dataset snapshots for readers.
type Pipeline struct {
	source    TableSource
	reshaper  Reshaper
	publisher BatchPublisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	clock     clockwork.Clock
	interval  time.Duration
	batchSize int

	mu         sync.Mutex // serializes refreshes
	generation uint64
	current    atomic.Pointer[domain.Dataset]
}

// New creates a Pipeline. publisher may be nil to skip sample publication.
func New(source TableSource, reshaper Reshaper, publisher BatchPublisher, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Pipeline {
	clk := opts.Clock
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Pipeline{
		source:    source,
		reshaper:  reshaper,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		clock:     clk,
		interval:  opts.RefreshInterval,
		batchSize: batchSize,
	}
}

// Snapshot returns the most recent dataset, or nil before the first
// successful load. The returned dataset must be treated as read-only.
func (p *Pipeline) Snapshot() *domain.Dataset {
	return p.current.Load()
}

// CheckReadiness returns nil once a dataset has been loaded.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if p.current.Load() == nil {
		return errors.New("no dataset loaded yet")
	}
	return nil
}

// Run performs the initial load, retrying with exponential backoff, then
// reloads on every refresh tick until the context is cancelled. A failed
// reload keeps serving the previous snapshot.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "source", p.source.Name(), "refresh_interval", p.interval)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	if !p.initialLoad(ctx) {
		p.logger.Info("pipeline stopping", "reason", ctx.Err())
		return nil
	}

	if p.interval <= 0 {
		<-ctx.Done()
		p.logger.Info("pipeline stopping", "reason", ctx.Err())
		return nil
	}

	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			if _, err := p.Refresh(ctx); err != nil && ctx.Err() == nil {
				p.logger.Warn("scheduled refresh failed, keeping previous snapshot", "error", err)
			}
		}
	}
}

// initialLoad retries until a snapshot exists. Returns false if the context
// was cancelled first.
func (p *Pipeline) initialLoad(ctx context.Context) bool {
	backoff := initialBackoff
	for p.current.Load() == nil {
		if _, err := p.Refresh(ctx); err == nil {
			return true
		}
		if ctx.Err() != nil {
			return false
		}
		if !sleepWithContext(ctx, p.clock, backoff) {
			return false
		}
		backoff = nextBackoff(backoff, maxBackoff)
	}
	return true
}

// Refresh loads and reshapes the source once and swaps in the new snapshot.
// On failure the previous snapshot stays in place.
func (p *Pipeline) Refresh(ctx context.Context) (*domain.Dataset, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	start := p.clock.Now()

	table, err := p.source.LoadTable(ctx)
	if err != nil {
		p.metrics.LoadFailures.Inc()
		p.logger.Error("load table failed", "source", p.source.Name(), "error", err)
		return nil, fmt.Errorf("load table: %w", err)
	}

	ds, err := p.buildDataset(table, p.generation+1)
	if err != nil {
		p.metrics.LoadFailures.Inc()
		var se *domain.SchemaError
		if errors.As(err, &se) {
			p.logger.Error("source schema mismatch", "source", p.source.Name(), "error", err, "columns", se.Columns)
		} else {
			p.logger.Error("reshape failed", "source", p.source.Name(), "error", err)
		}
		return nil, fmt.Errorf("reshape %s: %w", p.source.Name(), err)
	}

	p.generation = ds.Generation
	p.current.Store(ds)
	p.recordDataset(ds)

	p.publish(ctx, ds)

	p.metrics.RefreshDuration.Observe(p.clock.Since(start).Seconds())
	p.logger.Info("dataset refreshed",
		"generation", ds.Generation,
		"rows", ds.Stats.Rows,
		"day_columns", ds.Stats.DayColumns,
		"samples", ds.Stats.Emitted,
		"dropped", ds.Stats.Dropped(),
	)
	return ds, nil
}

func (p *Pipeline) recordDataset(ds *domain.Dataset) {
	s := ds.Stats
	p.metrics.Loads.Inc()
	p.metrics.SamplesEmitted.Add(float64(s.Emitted))
	p.metrics.SamplesDropped.WithLabelValues("missing").Add(float64(s.Missing))
	p.metrics.SamplesDropped.WithLabelValues("unparseable").Add(float64(s.Unparseable))
	p.metrics.SamplesDropped.WithLabelValues("ambiguous").Add(float64(s.Ambiguous))
	p.metrics.SamplesDropped.WithLabelValues("invalid_score").Add(float64(s.InvalidScore))
	p.metrics.DatasetSamples.Set(float64(len(ds.Samples)))
	p.metrics.DatasetPeople.Set(float64(s.Rows))
}

// publish writes the snapshot's samples in batches. Publication failures are
// logged and counted; the snapshot is already live and stays so.
func (p *Pipeline) publish(ctx context.Context, ds *domain.Dataset) {
	if p.publisher == nil || len(ds.Samples) == 0 {
		return
	}
	for start := 0; start < len(ds.Samples); start += p.batchSize {
		end := min(start+p.batchSize, len(ds.Samples))
		batch := ds.Samples[start:end]
		if err := p.publisher.PublishBatch(ctx, ds.Generation, batch); err != nil {
			p.metrics.PublishFailures.Inc()
			p.logger.Error("publish batch failed", "error", err, "generation", ds.Generation, "batch_size", len(batch))
			return
		}
		p.metrics.SamplesPublished.Add(float64(len(batch)))
	}
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, clk clockwork.Clock, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := clk.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}
