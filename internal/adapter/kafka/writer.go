package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/PescoJ/tracking-dashboard/internal/config"
	"github.com/PescoJ/tracking-dashboard/internal/domain"
)

// Message header keys attached to every published sample.
const (
	HeaderDay        = "day"
	HeaderGeneration = "generation"
	HeaderBatchID    = "batch_id"
)

// Writer produces location samples to a Kafka topic.
// It implements pipeline.BatchPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishBatch serializes samples from one dataset generation and writes them
// in a single WriteMessages call. Samples are keyed by person so that one
// person's trajectory lands on one partition.
func (w *Writer) PublishBatch(ctx context.Context, generation uint64, samples []domain.LocationSample) error {
	if len(samples) == 0 {
		return nil
	}
	batchID := uuid.NewString()
	msgs := make([]kafkago.Message, len(samples))
	for i := range samples {
		msg, err := serializeToMessage(samples[i], generation, batchID)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d samples: %w", len(msgs), err)
	}
	w.logger.Debug("published samples", "count", len(msgs), "generation", generation, "batch_id", batchID)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a LocationSample into a Kafka message.
func serializeToMessage(sample domain.LocationSample, generation uint64, batchID string) (kafkago.Message, error) {
	data, err := json.Marshal(sample)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize location sample: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(sample.PersonID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: HeaderDay, Value: []byte(strconv.Itoa(sample.Day))},
			{Key: HeaderGeneration, Value: []byte(strconv.FormatUint(generation, 10))},
			{Key: HeaderBatchID, Value: []byte(batchID)},
		},
	}, nil
}
