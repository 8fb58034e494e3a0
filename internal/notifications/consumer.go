package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/ambernegi/rha/pkg/enums"
	"github.com/ambernegi/rha/pkg/logger"
	"github.com/ambernegi/rha/pkg/outbox"
	"github.com/ambernegi/rha/pkg/outbox/idempotency"
	"github.com/ambernegi/rha/pkg/outbox/payloads"
	"github.com/ambernegi/rha/pkg/outbox/registry"
)

const bookingNotifierConsumer = "booking-notifier"

type receiver interface {
	Receive(ctx context.Context, f func(context.Context, *pubsub.Message)) error
}

// Consumer turns booking events into guest and host messages. Delivery is
// best effort: an event is retried only when every channel failed.
type Consumer struct {
	subscription receiver
	decoders     *registry.DecoderRegistry
	idempotency  *idempotency.Manager
	senders      []Sender
	logg         *logger.Logger
}

// NewConsumer builds a booking notification consumer.
func NewConsumer(subscription receiver, manager *idempotency.Manager, senders []Sender, logg *logger.Logger) (*Consumer, error) {
	if subscription == nil {
		return nil, fmt.Errorf("booking subscription required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if len(senders) == 0 {
		return nil, fmt.Errorf("at least one sender required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		subscription: subscription,
		decoders:     NewDecoders(),
		idempotency:  manager,
		senders:      senders,
		logg:         logg,
	}, nil
}

// NewDecoders registers the v1 booking notification payload for every
// reservation event type.
func NewDecoders() *registry.DecoderRegistry {
	reg := registry.NewDecoderRegistry()
	decode := func(payload json.RawMessage) (interface{}, error) {
		var n payloads.BookingNotification
		if err := json.Unmarshal(payload, &n); err != nil {
			return nil, err
		}
		return n, nil
	}
	for _, eventType := range enums.ReservationEventTypes() {
		reg.Register(eventType, 1, decode)
	}
	return reg
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack       bool
	nack      bool
	delivered int
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	eventType := enums.OutboxEventType(msg.Attributes["event_type"])
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id": msg.ID,
		"event_type": eventType,
	})

	if msg.Attributes["has_recipient"] == "false" {
		c.logg.Info(logCtx, "notification.skipped_no_recipient")
		return processResult{ack: true}
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		c.logg.Error(logCtx, "failed to decode envelope", err)
		return processResult{ack: true}
	}
	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		c.logg.Error(logCtx, "invalid event id", err)
		return processResult{ack: true}
	}
	logCtx = c.logg.WithEventID(logCtx, eventID.String())

	version := envelope.Version
	if version == 0 {
		version = 1
	}
	decoded, err := c.decoders.Decode(eventType, version, envelope.Data)
	if err != nil {
		c.logg.Warn(c.logg.WithField(logCtx, "error", err.Error()), "notification.undecodable")
		return processResult{ack: true}
	}
	notification, ok := decoded.(payloads.BookingNotification)
	if !ok {
		c.logg.Warn(logCtx, "notification.unexpected_payload")
		return processResult{ack: true}
	}
	logCtx = c.logg.WithReservationID(logCtx, notification.Booking.ReservationID.String())

	if strings.TrimSpace(notification.RecipientAddress) == "" {
		c.logg.Info(logCtx, "notification.skipped_no_recipient")
		return processResult{ack: true}
	}

	already, err := c.idempotency.CheckAndMarkProcessed(ctx, bookingNotifierConsumer, eventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return processResult{ack: true}
	}

	rendered, err := Render(notification, eventID.String())
	if err != nil {
		c.logg.Error(logCtx, "notification render failed", err)
		return processResult{ack: true}
	}

	delivered, err := c.deliver(ctx, rendered)
	if delivered == 0 {
		c.logg.Error(logCtx, "notification delivery failed on every channel", err)
		if delErr := c.idempotency.Delete(ctx, bookingNotifierConsumer, eventID); delErr != nil {
			c.logg.Error(logCtx, "failed to clear idempotency mark", delErr)
		}
		return processResult{nack: true}
	}
	if err != nil {
		c.logg.Warn(c.logg.WithField(logCtx, "error", err.Error()), "notification partially delivered")
	}
	c.logg.Info(c.logg.WithField(logCtx, "template", rendered.Template), "notification.delivered")
	return processResult{ack: true, delivered: delivered}
}

func (c *Consumer) deliver(ctx context.Context, msg Message) (int, error) {
	var (
		delivered int
		errs      error
	)
	for _, sender := range c.senders {
		if err := sender.Send(ctx, msg); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", sender.Name(), err))
			continue
		}
		delivered++
	}
	return delivered, errs
}
