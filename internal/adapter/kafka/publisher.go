// Package kafka publishes parse summaries to a Kafka topic so downstream
// catalogs can track ingested weather files.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/niprotogeros/epw-visualizer/internal/config"
	"github.com/niprotogeros/epw-visualizer/internal/pipeline"
)

// Publisher produces parse summary messages to a Kafka topic.
// It implements pipeline.SummaryPublisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured summary topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSummaryTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishSummary serializes and publishes one parse summary.
func (p *Publisher) PublishSummary(ctx context.Context, summary pipeline.Summary) error {
	msg, err := serializeToMessage(summary)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a Summary into a Kafka message keyed by the
// content-addressed dataset ID, so retries for the same file compact cleanly.
func serializeToMessage(summary pipeline.Summary) (kafkago.Message, error) {
	data, err := json.Marshal(summary)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize parse summary: %w", err)
	}
	headers := []kafkago.Header{
		{Key: "wmo", Value: []byte(summary.WMO)},
	}
	if !summary.ParsedAt.IsZero() {
		headers = append(headers, kafkago.Header{
			Key:   "parsed_at",
			Value: []byte(summary.ParsedAt.Format(time.RFC3339)),
		})
	}
	return kafkago.Message{
		Key:     []byte(summary.DatasetID),
		Value:   data,
		Headers: headers,
	}, nil
}
