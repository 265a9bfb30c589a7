package kafka

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/couchcryptid/police-blotter-etl/internal/config"
	"github.com/couchcryptid/police-blotter-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafkago.Writer used by Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes accident records to a Kafka topic in batches.
// It implements pipeline.Sink.
type Writer struct {
	writer    messageWriter
	logger    *slog.Logger
	batchSize int
	pending   []kafkago.Message
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchSize:    cfg.BatchSize,
		BatchTimeout: cfg.BatchFlushInterval,
	}
	return newWriter(w, cfg.BatchSize, logger)
}

func newWriter(w messageWriter, batchSize int, logger *slog.Logger) *Writer {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Writer{
		writer:    w,
		logger:    logger,
		batchSize: batchSize,
		pending:   make([]kafkago.Message, 0, batchSize),
	}
}

// Name identifies the sink in logs and metrics.
func (w *Writer) Name() string { return "kafka" }

// Load queues a record and publishes the queue once it reaches the batch size.
func (w *Writer) Load(ctx context.Context, rec domain.AccidentRecord) error {
	msg, err := serializeToMessage(rec, domain.Now())
	if err != nil {
		return err
	}
	w.pending = append(w.pending, msg)
	if len(w.pending) < w.batchSize {
		return nil
	}
	return w.Flush(ctx)
}

// Flush publishes all queued records in a single WriteMessages call.
func (w *Writer) Flush(ctx context.Context) error {
	if len(w.pending) == 0 {
		return nil
	}
	if err := w.writer.WriteMessages(ctx, w.pending...); err != nil {
		return fmt.Errorf("publish %d records: %w", len(w.pending), err)
	}
	w.logger.Debug("published accident records", "count", len(w.pending))
	w.pending = w.pending[:0]
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an AccidentRecord into a Kafka message.
func serializeToMessage(rec domain.AccidentRecord, processedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize accident record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(recordKey(rec)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "date", Value: []byte(rec.Date)},
			{Key: "processed_at", Value: []byte(processedAt.UTC().Format(time.RFC3339))},
		},
	}, nil
}

// recordKey derives a deterministic key from the record's fields, so replaying
// the same report produces the same keys and lands on the same partitions.
func recordKey(rec domain.AccidentRecord) string {
	hash := sha256.Sum256([]byte(strings.Join(rec.Row(), "|")))
	return rec.Date + "-" + hex.EncodeToString(hash[:8])
}
