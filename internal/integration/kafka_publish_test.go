//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	kafkaadapter "github.com/niprotogeros/epw-visualizer/internal/adapter/kafka"
	"github.com/niprotogeros/epw-visualizer/internal/config"
	"github.com/niprotogeros/epw-visualizer/internal/epw"
	"github.com/niprotogeros/epw-visualizer/internal/observability"
	"github.com/niprotogeros/epw-visualizer/internal/pipeline"
)

func pipelineForTest(publisher pipeline.SummaryPublisher) *pipeline.Pipeline {
	return pipeline.New(discardLogger(), observability.NewMetricsForTesting(), epw.DefaultUnifiedYear, nil, publisher)
}

const testSummaryTopic = "test-epw-parse-summaries"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka launches a single-node Kafka container and returns its broker address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx,
		"confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("test-cluster"),
	)
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "resolve kafka brokers")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial kafka")
	defer conn.Close()

	require.NoError(t, conn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}), "create topic %s", topic)
}

// TestPublishSummary verifies that a parse summary round-trips through a real
// Kafka broker with its key and headers intact.
func TestPublishSummary(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSummaryTopic)

	cfg := &config.Config{
		KafkaBrokers:      []string{broker},
		KafkaSummaryTopic: testSummaryTopic,
	}
	publisher := kafkaadapter.NewPublisher(cfg, discardLogger())
	t.Cleanup(func() { _ = publisher.Close() })

	parsedAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	summary := pipeline.Summary{
		DatasetID:   "epw-0011223344556677",
		City:        "Testville",
		Country:     "USA",
		WMO:         "999999",
		Rows:        8760,
		UnifiedYear: 2000,
		ParsedAt:    parsedAt,
	}
	require.NoError(t, publisher.PublishSummary(ctx, summary))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSummaryTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from summary topic")

	assert.Equal(t, "epw-0011223344556677", string(msg.Key))

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "999999", headers["wmo"])
	assert.Equal(t, parsedAt.Format(time.RFC3339), headers["parsed_at"])

	var got pipeline.Summary
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, summary.City, got.City)
	assert.Equal(t, summary.Rows, got.Rows)
	assert.Equal(t, summary.UnifiedYear, got.UnifiedYear)
	assert.False(t, got.Fatal)
}

// TestPublishSummaryFromParse runs the real pipeline against an EPW payload
// and publishes the resulting summary end to end.
func TestPublishSummaryFromParse(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSummaryTopic)

	cfg := &config.Config{
		KafkaBrokers:      []string{broker},
		KafkaSummaryTopic: testSummaryTopic,
	}
	publisher := kafkaadapter.NewPublisher(cfg, discardLogger())
	t.Cleanup(func() { _ = publisher.Close() })

	content := []byte("LOCATION,Testville,ST,USA,TMY3,999999,40.0,-105.0,-7.0,1650.0\n" +
		"x\nx\nx\nx\nx\nx\nx\n" +
		"2000,1,1,1,60,a,21.0,15.0,60,83000,0,0,330,0,0,0,0,0,0,0,180,3.0,5\n" +
		"2000,1,1,2,60,a,20.5,14.5,61,83000,0,0,330,0,0,0,0,0,0,0,180,3.1,5\n")

	p := pipelineForTest(publisher)
	result := p.Process(ctx, content)
	require.NotNil(t, result.Dataset)

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSummaryTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err)

	var got pipeline.Summary
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, result.DatasetID, got.DatasetID)
	assert.Equal(t, "Testville", got.City)
	assert.Equal(t, 2, got.Rows)
	assert.False(t, got.Fatal)
}
