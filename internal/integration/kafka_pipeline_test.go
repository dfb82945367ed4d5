//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/PescoJ/tracking-dashboard/internal/adapter/kafka"
	"github.com/PescoJ/tracking-dashboard/internal/adapter/spreadsheet"
	"github.com/PescoJ/tracking-dashboard/internal/config"
	"github.com/PescoJ/tracking-dashboard/internal/domain"
	"github.com/PescoJ/tracking-dashboard/internal/observability"
	"github.com/PescoJ/tracking-dashboard/internal/pipeline"
)

const testSinkTopic = "test-location-samples"

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("test-cluster"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

type publishedSample struct {
	Sample  domain.LocationSample
	Key     string
	Headers map[string]string
}

func readSample(ctx context.Context, t *testing.T, consumer *kafkago.Reader) publishedSample {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var s domain.LocationSample
	require.NoError(t, json.Unmarshal(msg.Value, &s), "unmarshal sink message")
	return publishedSample{Sample: s, Key: string(msg.Key), Headers: headers}
}

// TestPipelinePublishesWorkbookSamples loads a workbook from disk, refreshes
// the pipeline once and reads every emitted sample back from Kafka.
func TestPipelinePublishesWorkbookSamples(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSinkTopic)

	book := filepath.Join(t.TempDir(), "tracking.xlsx")
	header := []string{"ID", "Crime_Tendency", "Terror_Tendency", "Location_1", "Location_2"}
	require.NoError(t, spreadsheet.WriteXLSX(book, "Tracking", header, [][]any{
		{"p1", 10, 20, "E12345 N67890", "SEC-071000020000"},
		{"p2", 30.5, 40, nil, "garbage"},
		{"p3", 50, 60, "11111111", "22222 33333"},
	}))

	cfg := &config.Config{
		KafkaBrokers:   []string{broker},
		KafkaSinkTopic: testSinkTopic,
	}
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	reshaper, err := domain.NewReshaper(domain.DefaultSchema())
	require.NoError(t, err)

	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(spreadsheet.NewSource(book, "", discardLogger()), reshaper, writer, discardLogger(), metrics, pipeline.Options{BatchSize: 2})

	ds, err := p.Refresh(ctx)
	require.NoError(t, err)
	require.Len(t, ds.Samples, 3)
	assert.Equal(t, 1, ds.Stats.Missing)
	assert.Equal(t, 1, ds.Stats.Unparseable)
	assert.Equal(t, 1, ds.Stats.Ambiguous)

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:   []string{broker},
		Topic:     testSinkTopic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  1 << 20,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	got := make(map[string][]domain.LocationSample)
	for range ds.Samples {
		msg := readSample(ctx, t, consumer)
		assert.Equal(t, msg.Sample.PersonID, msg.Key)
		assert.Equal(t, "1", msg.Headers[kafka.HeaderGeneration])
		assert.Equal(t, strconv.Itoa(msg.Sample.Day), msg.Headers[kafka.HeaderDay])
		assert.NotEmpty(t, msg.Headers[kafka.HeaderBatchID])
		got[msg.Key] = append(got[msg.Key], msg.Sample)
	}

	assert.ElementsMatch(t, []domain.LocationSample{
		{PersonID: "p1", Crime: 10, Terror: 20, Day: 1, X: 12345, Y: 67890},
		{PersonID: "p1", Crime: 10, Terror: 20, Day: 2, X: 10000, Y: 20000},
	}, got["p1"])
	assert.Equal(t, []domain.LocationSample{
		{PersonID: "p3", Crime: 50, Terror: 60, Day: 2, X: 22222, Y: 33333},
	}, got["p3"])
}
