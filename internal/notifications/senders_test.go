package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ambernegi/rha/pkg/config"
	"github.com/ambernegi/rha/pkg/logger"
	"github.com/ambernegi/rha/pkg/outbox/payloads"
)

func TestRenderTemplates(t *testing.T) {
	n := confirmedNotification()
	n.TemplateKind = payloads.TemplateBookingRejected
	n.Booking.DecisionNote = "dates reserved for maintenance"

	msg, err := Render(n, "evt-1")
	require.NoError(t, err)
	assert.Equal(t, "Your booking request for Entire villa was declined", msg.Subject)
	assert.Contains(t, msg.Body, "2026-12-01")
	assert.Contains(t, msg.Body, "dates reserved for maintenance")
	assert.Equal(t, "evt-1", msg.EventID)

	for kind := range templates {
		n.TemplateKind = kind
		_, err := Render(n, "evt")
		assert.NoError(t, err, kind)
	}

	n.TemplateKind = payloads.TemplateKind("mystery")
	_, err = Render(n, "evt")
	assert.Error(t, err)
}

func TestBuildRFC822(t *testing.T) {
	raw := string(buildRFC822("host@villa.test", Message{To: "guest@example.com", Subject: "Hello", Body: "body"}))
	assert.True(t, strings.HasPrefix(raw, "From: host@villa.test\r\n"))
	assert.Contains(t, raw, "To: guest@example.com\r\n")
	assert.True(t, strings.HasSuffix(raw, "\r\n\r\nbody"))
}

func TestWebhookSender(t *testing.T) {
	var got webhookPayload
	var idemKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		idemKey = r.Header.Get("Idempotency-Key")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	sender := NewWebhookSender(srv.URL, time.Second)
	err := sender.Send(context.Background(), Message{To: "guest@example.com", Subject: "s", Body: "b", Template: "booking_confirmed", EventID: "evt-9"})
	require.NoError(t, err)
	assert.Equal(t, "evt-9", idemKey)
	assert.Equal(t, "guest@example.com", got.To)
	assert.Equal(t, "booking_confirmed", got.Template)
}

func TestWebhookSenderReportsHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewWebhookSender(srv.URL, time.Second).Send(context.Background(), Message{EventID: "evt"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestBreakerSenderOpensAfterConsecutiveFailures(t *testing.T) {
	failing := &stubSender{name: "webhook", err: errors.New("down")}
	logg := logger.New(logger.Options{ServiceName: "notifier-test", Output: io.Discard})
	breaker := NewBreakerSender(failing, config.NotifyConfig{BreakerMaxFails: 2, BreakerOpenFor: time.Minute}, logg)

	for i := 0; i < 2; i++ {
		require.Error(t, breaker.Send(context.Background(), Message{}))
	}
	assert.Equal(t, gobreaker.StateOpen, breaker.State())

	err := breaker.Send(context.Background(), Message{})
	require.Error(t, err)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestNewSendersFallsBackToLog(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "notifier-test", Output: io.Discard})
	senders, err := NewSenders(context.Background(), config.NotifyConfig{}, logg)
	require.NoError(t, err)
	require.Len(t, senders, 1)
	assert.Equal(t, "log", senders[0].Name())

	senders, err = NewSenders(context.Background(), config.NotifyConfig{WebhookURL: "http://localhost:1"}, logg)
	require.NoError(t, err)
	require.Len(t, senders, 1)
	assert.Equal(t, "webhook", senders[0].Name())
}
