package eventpublisher

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/iho/totza/internal/domain"
	"github.com/iho/totza/internal/usecase"
)

// FanOut publishes every event to each of its publishers in turn.
// All publishers see the event even when an earlier one fails; the errors are joined.
type FanOut struct {
	publishers []Publisher
}

// NewFanOut creates a FanOut over publishers, skipping nil ones.
func NewFanOut(publishers ...Publisher) *FanOut {
	f := &FanOut{}
	for _, p := range publishers {
		if p != nil {
			f.publishers = append(f.publishers, p)
		}
	}
	return f
}

// Publish implements Publisher.
func (f *FanOut) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	var errs []error
	for _, p := range f.publishers {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Flush implements Flusher for every publisher that supports it.
func (f *FanOut) Flush(ctx context.Context) error {
	var errs []error
	for _, p := range f.publishers {
		if fl, ok := p.(Flusher); ok {
			if err := fl.Flush(ctx); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// LogPublisher is a simple publisher that logs events.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the event.
func (p *LogPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	p.logger.Info().
		Str("event_id", event.ID).
		Str("event_type", event.EventType).
		Str("aggregate_type", event.AggregateType).
		Str("aggregate_id", event.AggregateID).
		RawJSON("payload", payload).
		Msg("event published")

	return nil
}

// MessageWriter is the part of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events to a Kafka topic keyed by aggregate id.
type KafkaPublisher struct {
	writer MessageWriter
}

type kafkaEnvelope struct {
	ID            string         `json:"id"`
	EventType     string         `json:"event_type"`
	AggregateType string         `json:"aggregate_type"`
	AggregateID   string         `json:"aggregate_id"`
	Payload       map[string]any `json:"payload"`
	CreatedAt     time.Time      `json:"created_at"`
}

// NewKafkaPublisher creates a publisher writing to topic on brokers.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return NewKafkaPublisherWithWriter(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	})
}

// NewKafkaPublisherWithWriter creates a publisher over an existing writer.
func NewKafkaPublisherWithWriter(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

// Publish implements Publisher.
func (p *KafkaPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	data, err := json.Marshal(kafkaEnvelope{
		ID:            event.ID,
		EventType:     event.EventType,
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		Payload:       event.Payload,
		CreatedAt:     event.CreatedAt,
	})
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.AggregateID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	})
}

// Close closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// SheetSyncer rewrites the ledger spreadsheet.
type SheetSyncer interface {
	SyncSheet(ctx context.Context) (*usecase.SheetSyncResult, error)
}

// SheetsSyncObserver rewrites the spreadsheet once per batch that touched the ledger.
type SheetsSyncObserver struct {
	syncer SheetSyncer
	logger zerolog.Logger

	mu    sync.Mutex
	dirty bool
}

// NewSheetsSyncObserver creates a new SheetsSyncObserver.
func NewSheetsSyncObserver(syncer SheetSyncer, logger zerolog.Logger) *SheetsSyncObserver {
	return &SheetsSyncObserver{syncer: syncer, logger: logger}
}

// Publish implements Publisher by noting that a sync is needed.
func (o *SheetsSyncObserver) Publish(_ context.Context, event *domain.OutboxEvent) error {
	if event.TouchesLedger() {
		o.mu.Lock()
		o.dirty = true
		o.mu.Unlock()
	}
	return nil
}

// Flush implements Flusher.
func (o *SheetsSyncObserver) Flush(ctx context.Context) error {
	o.mu.Lock()
	dirty := o.dirty
	o.dirty = false
	o.mu.Unlock()

	if !dirty {
		return nil
	}

	result, err := o.syncer.SyncSheet(ctx)
	if err != nil {
		o.mu.Lock()
		o.dirty = true
		o.mu.Unlock()
		return err
	}

	o.logger.Info().Int("rows", result.Rows).Msg("sheet synced")
	return nil
}
