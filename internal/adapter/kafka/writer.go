package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/plastic-waste-dashboard/internal/config"
	"github.com/couchcryptid/plastic-waste-dashboard/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes report requests to a Kafka topic consumed by the mailer.
// It implements domain.Notifier.
type Writer struct {
	writer messageWriter
	topic  string
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured report topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaReportTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, topic: cfg.KafkaReportTopic, logger: logger}
}

// RequestReport publishes req and waits for the brokers to acknowledge it.
func (w *Writer) RequestReport(ctx context.Context, req domain.ReportRequest) error {
	msg, err := serializeToMessage(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrDispatchFailure, err)
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("%w: publish to %s: %w", domain.ErrDispatchFailure, w.topic, err)
	}
	w.logger.Info("report request published", "request_id", req.ID, "topic", w.topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a ReportRequest into a Kafka message keyed by
// request id.
func serializeToMessage(req domain.ReportRequest) (kafkago.Message, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize report request: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(req.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "request_id", Value: []byte(req.ID)},
			{Key: "requested_at", Value: []byte(req.RequestedAt.Format(time.RFC3339))},
		},
	}, nil
}
