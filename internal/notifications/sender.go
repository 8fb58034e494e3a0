package notifications

import (
	"context"
	"fmt"

	"github.com/ambernegi/rha/pkg/config"
	"github.com/ambernegi/rha/pkg/logger"
)

// Message is a rendered notification ready for delivery.
type Message struct {
	To       string
	Subject  string
	Body     string
	Template string
	EventID  string
}

// Sender delivers a rendered message over one channel.
type Sender interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

// LogSender writes messages to the structured log. It is the fallback when no
// delivery channel is configured.
type LogSender struct {
	logg *logger.Logger
}

func NewLogSender(logg *logger.Logger) *LogSender {
	return &LogSender{logg: logg}
}

func (s *LogSender) Name() string { return "log" }

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	if s.logg == nil {
		return nil
	}
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"to":       msg.To,
		"subject":  msg.Subject,
		"template": msg.Template,
	})
	s.logg.Info(logCtx, "notification.logged")
	return nil
}

// NewSenders builds the delivery channels enabled by cfg, each behind its own
// circuit breaker.
func NewSenders(ctx context.Context, cfg config.NotifyConfig, logg *logger.Logger) ([]Sender, error) {
	var senders []Sender
	if cfg.GmailEnabled() {
		gmail, err := NewGmailSender(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("gmail sender: %w", err)
		}
		senders = append(senders, NewBreakerSender(gmail, cfg, logg))
	}
	if cfg.WebhookURL != "" {
		senders = append(senders, NewBreakerSender(NewWebhookSender(cfg.WebhookURL, cfg.Timeout), cfg, logg))
	}
	if len(senders) == 0 {
		senders = append(senders, NewLogSender(logg))
	}
	return senders, nil
}
