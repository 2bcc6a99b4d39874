package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/forecast-client/internal/config"
	"github.com/couchcryptid/forecast-client/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// ContentType is the content_type header value of every published snapshot.
const ContentType = "application/cbor"

// Writer produces forecast snapshots to a Kafka topic.
// It implements pipeline.Sink.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

func (w *Writer) Name() string { return "kafka" }

// StoreBatch publishes one message per snapshot in a single WriteMessages call.
// Messages are keyed by location so every snapshot of a location lands on the
// same partition, in order.
func (w *Writer) StoreBatch(ctx context.Context, snaps []domain.Snapshot) error {
	if len(snaps) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(snaps))
	for i := range snaps {
		msg, err := serializeToMessage(snaps[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish snapshots: %w", err)
	}
	w.logger.Debug("snapshots published", "count", len(msgs), "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage encodes a snapshot's forecast in its binary form.
func serializeToMessage(snap domain.Snapshot) (kafkago.Message, error) {
	data, err := domain.EncodeBinary(snap.Forecast)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize snapshot %s: %w", snap.Location.Key(), err)
	}
	return kafkago.Message{
		Key:   []byte(snap.Location.Key()),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "content_type", Value: []byte(ContentType)},
			{Key: "fetched_at", Value: []byte(snap.FetchedAt.Format(time.RFC3339Nano))},
		},
	}, nil
}

// DeserializeMessage is the inverse of the encoding StoreBatch publishes.
func DeserializeMessage(msg kafkago.Message) (domain.Snapshot, error) {
	loc, err := domain.ParseLocation(string(msg.Key))
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("deserialize snapshot: %w", err)
	}
	f, err := domain.DecodeBinary(msg.Value)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("deserialize snapshot %s: %w", loc.Key(), err)
	}
	snap := domain.Snapshot{Location: loc, Forecast: f}
	for _, h := range msg.Headers {
		if h.Key != "fetched_at" {
			continue
		}
		ts, err := time.Parse(time.RFC3339Nano, string(h.Value))
		if err != nil {
			return domain.Snapshot{}, fmt.Errorf("deserialize snapshot %s: fetched_at: %w", loc.Key(), err)
		}
		snap.FetchedAt = ts
	}
	return snap, nil
}
