package eventpublisher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/totza/internal/domain"
	"github.com/iho/totza/internal/usecase"
)

func TestFanOutPublishesToAllAndJoinsErrors(t *testing.T) {
	failing := &stubPublisher{errorsByID: map[string]error{"evt-1": errors.New("kafka down")}}
	healthy := &stubPublisher{}
	fan := NewFanOut(failing, nil, healthy)

	err := fan.Publish(context.Background(), &domain.OutboxEvent{ID: "evt-1"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "kafka down")
	assert.Len(t, healthy.published, 1)
}

func TestLogPublisherWritesPayload(t *testing.T) {
	var buf bytes.Buffer
	pub := NewLogPublisher(zerolog.New(&buf))

	err := pub.Publish(context.Background(), &domain.OutboxEvent{
		ID:        "evt-1",
		EventType: domain.EventTypeTransactionCreated,
		Payload:   map[string]any{"kind": "Debit"},
	})
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "evt-1", entry["event_id"])
	assert.Equal(t, map[string]any{"kind": "Debit"}, entry["payload"])
}

func TestKafkaPublisherWritesEnvelope(t *testing.T) {
	writer := &stubWriter{}
	pub := NewKafkaPublisherWithWriter(writer)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	err := pub.Publish(context.Background(), &domain.OutboxEvent{
		ID:            "evt-1",
		AggregateID:   "due-1",
		AggregateType: domain.AggregateTypeTransaction,
		EventType:     domain.EventTypeDueReconciled,
		Payload:       map[string]any{"status": "Fully Paid"},
		CreatedAt:     created,
	})
	require.NoError(t, err)
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, "due-1", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, domain.EventTypeDueReconciled, string(msg.Headers[0].Value))

	var envelope kafkaEnvelope
	require.NoError(t, json.Unmarshal(msg.Value, &envelope))
	assert.Equal(t, "evt-1", envelope.ID)
	assert.Equal(t, "Fully Paid", envelope.Payload["status"])
	assert.True(t, envelope.CreatedAt.Equal(created))

	require.NoError(t, pub.Close())
	assert.True(t, writer.closed)
}

func TestKafkaPublisherReturnsWriteError(t *testing.T) {
	pub := NewKafkaPublisherWithWriter(&stubWriter{err: errors.New("leader not available")})

	err := pub.Publish(context.Background(), &domain.OutboxEvent{ID: "evt-1"})
	assert.EqualError(t, err, "leader not available")
}

func TestSheetsSyncObserver(t *testing.T) {
	t.Run("ignores events outside the ledger", func(t *testing.T) {
		syncer := &stubSyncer{}
		o := NewSheetsSyncObserver(syncer, zerolog.Nop())

		require.NoError(t, o.Publish(context.Background(), &domain.OutboxEvent{AggregateType: "user"}))
		require.NoError(t, o.Flush(context.Background()))
		assert.Zero(t, syncer.calls)
	})

	t.Run("syncs once and clears", func(t *testing.T) {
		syncer := &stubSyncer{}
		o := NewSheetsSyncObserver(syncer, zerolog.Nop())

		ledgerEvent := &domain.OutboxEvent{AggregateType: domain.AggregateTypeTransaction}
		require.NoError(t, o.Publish(context.Background(), ledgerEvent))
		require.NoError(t, o.Publish(context.Background(), ledgerEvent))
		require.NoError(t, o.Flush(context.Background()))
		require.NoError(t, o.Flush(context.Background()))
		assert.Equal(t, 1, syncer.calls)
	})

	t.Run("retries after a failed sync", func(t *testing.T) {
		syncer := &stubSyncer{err: errors.New("quota exceeded")}
		o := NewSheetsSyncObserver(syncer, zerolog.Nop())

		require.NoError(t, o.Publish(context.Background(), &domain.OutboxEvent{AggregateType: domain.AggregateTypeTransaction}))
		require.Error(t, o.Flush(context.Background()))

		syncer.err = nil
		require.NoError(t, o.Flush(context.Background()))
		assert.Equal(t, 2, syncer.calls)
	})
}

type stubWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *stubWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *stubWriter) Close() error {
	w.closed = true
	return nil
}

type stubSyncer struct {
	calls int
	err   error
}

func (s *stubSyncer) SyncSheet(context.Context) (*usecase.SheetSyncResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &usecase.SheetSyncResult{Rows: 3}, nil
}
