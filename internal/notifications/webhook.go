package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

type webhookPayload struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	Template string `json:"template"`
	EventID  string `json:"eventId"`
}

// WebhookSender posts messages as JSON to an HTTP endpoint.
type WebhookSender struct {
	client *resty.Client
	url    string
}

func NewWebhookSender(url string, timeout time.Duration) *WebhookSender {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookSender{
		client: resty.New().
			SetTimeout(timeout).
			SetRetryCount(0),
		url: url,
	}
}

func (w *WebhookSender) Name() string { return "webhook" }

func (w *WebhookSender) Send(ctx context.Context, msg Message) error {
	resp, err := w.client.R().
		SetContext(ctx).
		SetHeader("Idempotency-Key", msg.EventID).
		SetBody(webhookPayload{
			To:       msg.To,
			Subject:  msg.Subject,
			Body:     msg.Body,
			Template: msg.Template,
			EventID:  msg.EventID,
		}).
		Post(w.url)
	if err != nil {
		return fmt.Errorf("webhook post: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode())
	}
	return nil
}
