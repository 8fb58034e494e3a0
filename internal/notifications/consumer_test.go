package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ambernegi/rha/pkg/enums"
	"github.com/ambernegi/rha/pkg/logger"
	"github.com/ambernegi/rha/pkg/outbox"
	"github.com/ambernegi/rha/pkg/outbox/idempotency"
	"github.com/ambernegi/rha/pkg/outbox/payloads"
)

type memoryStore struct {
	mu   sync.Mutex
	keys map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{keys: map[string]string{}}
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.keys[key], nil
}

func (m *memoryStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.keys[key]; ok {
		return false, nil
	}
	m.keys[key] = "1"
	return true, nil
}

func (m *memoryStore) IdempotencyKey(scope, id string) string {
	return "rha:idempotency:" + scope + ":" + id
}

func (m *memoryStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.keys, key)
	}
	return nil
}

type stubSender struct {
	name string
	err  error
	sent []Message
}

func (s *stubSender) Name() string { return s.name }

func (s *stubSender) Send(_ context.Context, msg Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

type nopReceiver struct{}

func (nopReceiver) Receive(context.Context, func(context.Context, *pubsub.Message)) error {
	return nil
}

func newTestConsumer(t *testing.T, senders ...Sender) *Consumer {
	t.Helper()
	manager, err := idempotency.NewManager(newMemoryStore(), time.Hour)
	require.NoError(t, err)
	logg := logger.New(logger.Options{ServiceName: "notifier-test", Output: io.Discard})
	consumer, err := NewConsumer(nopReceiver{}, manager, senders, logg)
	require.NoError(t, err)
	return consumer
}

func bookingMessage(t *testing.T, eventType enums.OutboxEventType, n payloads.BookingNotification) (*pubsub.Message, uuid.UUID) {
	t.Helper()
	data, err := json.Marshal(n)
	require.NoError(t, err)
	eventID := uuid.New()
	env, err := json.Marshal(outbox.PayloadEnvelope{
		Version:    1,
		EventID:    eventID.String(),
		OccurredAt: time.Now().UTC(),
		Data:       data,
	})
	require.NoError(t, err)
	return &pubsub.Message{
		ID:   "msg-" + eventID.String(),
		Data: env,
		Attributes: map[string]string{
			"event_type": string(eventType),
		},
	}, eventID
}

func confirmedNotification() payloads.BookingNotification {
	return payloads.BookingNotification{
		RecipientAddress: "guest@example.com",
		TemplateKind:     payloads.TemplateBookingConfirmed,
		Booking: payloads.BookingSnapshot{
			ReservationID: uuid.New(),
			Status:        enums.ReservationStatusConfirmed,
			TargetLabel:   "Entire villa",
			StartDate:     "2026-12-01",
			EndDate:       "2026-12-05",
			Nights:        4,
			TotalPrice:    "1000.00",
		},
	}
}

func TestConsumerDeliversOncePerEvent(t *testing.T) {
	sender := &stubSender{name: "stub"}
	consumer := newTestConsumer(t, sender)
	msg, eventID := bookingMessage(t, enums.EventReservationConfirmed, confirmedNotification())

	first := consumer.process(context.Background(), msg)
	assert.True(t, first.ack)
	assert.Equal(t, 1, first.delivered)

	second := consumer.process(context.Background(), msg)
	assert.True(t, second.ack)
	assert.Equal(t, 0, second.delivered)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "guest@example.com", sender.sent[0].To)
	assert.Equal(t, eventID.String(), sender.sent[0].EventID)
	assert.Contains(t, sender.sent[0].Subject, "confirmed")
}

func TestConsumerSkipsEmptyRecipient(t *testing.T) {
	sender := &stubSender{name: "stub"}
	consumer := newTestConsumer(t, sender)
	n := confirmedNotification()
	n.RecipientAddress = ""
	msg, _ := bookingMessage(t, enums.EventBlockCreated, n)

	result := consumer.process(context.Background(), msg)
	assert.True(t, result.ack)
	assert.Empty(t, sender.sent)
}

func TestConsumerSkipsByAttribute(t *testing.T) {
	sender := &stubSender{name: "stub"}
	consumer := newTestConsumer(t, sender)
	msg, _ := bookingMessage(t, enums.EventReservationConfirmed, confirmedNotification())
	msg.Attributes["has_recipient"] = "false"

	result := consumer.process(context.Background(), msg)
	assert.True(t, result.ack)
	assert.Empty(t, sender.sent)
}

func TestConsumerNacksWhenEveryChannelFails(t *testing.T) {
	failing := &stubSender{name: "broken", err: errors.New("smtp down")}
	consumer := newTestConsumer(t, failing)
	msg, _ := bookingMessage(t, enums.EventReservationConfirmed, confirmedNotification())

	result := consumer.process(context.Background(), msg)
	assert.True(t, result.nack)

	// the idempotency mark is cleared so the redelivery is attempted again
	working := &stubSender{name: "stub"}
	consumer.senders = []Sender{working}
	retry := consumer.process(context.Background(), msg)
	assert.True(t, retry.ack)
	assert.Len(t, working.sent, 1)
}

func TestConsumerAcksOnPartialDelivery(t *testing.T) {
	failing := &stubSender{name: "broken", err: errors.New("timeout")}
	working := &stubSender{name: "stub"}
	consumer := newTestConsumer(t, failing, working)
	msg, _ := bookingMessage(t, enums.EventReservationConfirmed, confirmedNotification())

	result := consumer.process(context.Background(), msg)
	assert.True(t, result.ack)
	assert.Equal(t, 1, result.delivered)
}

func TestConsumerAcksUndecodableMessages(t *testing.T) {
	sender := &stubSender{name: "stub"}
	consumer := newTestConsumer(t, sender)

	garbage := &pubsub.Message{ID: "bad", Data: []byte("{"), Attributes: map[string]string{"event_type": string(enums.EventReservationConfirmed)}}
	assert.True(t, consumer.process(context.Background(), garbage).ack)

	unknown, _ := bookingMessage(t, enums.OutboxEventType("unknown_event"), confirmedNotification())
	assert.True(t, consumer.process(context.Background(), unknown).ack)
	assert.Empty(t, sender.sent)
}

func TestNewConsumerRequiresSenders(t *testing.T) {
	manager, err := idempotency.NewManager(newMemoryStore(), time.Hour)
	require.NoError(t, err)
	logg := logger.New(logger.Options{ServiceName: "notifier-test", Output: io.Discard})
	_, err = NewConsumer(nopReceiver{}, manager, nil, logg)
	assert.Error(t, err)
}
