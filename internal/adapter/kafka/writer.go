// Package kafka publishes demand estimate snapshots to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/order-demand/internal/config"
	"github.com/couchcryptid/order-demand/internal/domain"
)

// Writer produces estimate messages to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured estimate topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaEstimateTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch serializes and publishes one snapshot of estimates in a single
// WriteMessages call. Every message in the call carries the same batch_id.
func (w *Writer) LoadBatch(ctx context.Context, estimates []domain.DemandEstimate) error {
	if len(estimates) == 0 {
		return nil
	}
	batchID := uuid.NewString()
	msgs := make([]kafkago.Message, len(estimates))
	for i := range estimates {
		msg, err := serializeToMessage(estimates[i], batchID)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish estimates: %w", err)
	}
	w.logger.Debug("estimates published", "topic", w.writer.Topic, "count", len(msgs), "batch_id", batchID)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a DemandEstimate into a Kafka message keyed by
// estimate ID.
func serializeToMessage(est domain.DemandEstimate, batchID string) (kafkago.Message, error) {
	data, err := json.Marshal(est)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize demand estimate: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(est.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "city", Value: []byte(est.City)},
			{Key: "basis", Value: []byte(est.Basis)},
			{Key: "weather_source", Value: []byte(est.WeatherSource)},
			{Key: "batch_id", Value: []byte(batchID)},
		},
	}, nil
}
