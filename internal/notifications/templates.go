package notifications

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/ambernegi/rha/pkg/outbox/payloads"
)

type messageTemplate struct {
	subject string
	body    *template.Template
}

var templates = map[payloads.TemplateKind]messageTemplate{
	payloads.TemplateBookingRequested: {
		subject: "New booking request for {{.TargetLabel}}",
		body: mustParse("requested", `{{if .GuestName}}{{.GuestName}}{{else}}A guest{{end}} requested {{.TargetLabel}} from {{.StartDate}} to {{.EndDate}} ({{.Nights}} nights, total {{.TotalPrice}}).

Reservation {{.ReservationID}} is waiting for your decision.
`),
	},
	payloads.TemplateBookingConfirmed: {
		subject: "Your stay at {{.TargetLabel}} is confirmed",
		body: mustParse("confirmed", `Your booking for {{.TargetLabel}} from {{.StartDate}} to {{.EndDate}} is confirmed.

Nights: {{.Nights}}
Total: {{.TotalPrice}}
Reference: {{.ReservationID}}
`),
	},
	payloads.TemplateBookingRejected: {
		subject: "Your booking request for {{.TargetLabel}} was declined",
		body: mustParse("rejected", `Unfortunately your request for {{.TargetLabel}} from {{.StartDate}} to {{.EndDate}} was declined.
{{if .DecisionNote}}
Note from the host: {{.DecisionNote}}
{{end}}
Reference: {{.ReservationID}}
`),
	},
	payloads.TemplateBookingCancelled: {
		subject: "Booking for {{.TargetLabel}} cancelled",
		body: mustParse("cancelled", `The booking for {{.TargetLabel}} from {{.StartDate}} to {{.EndDate}} has been cancelled.
{{if .DecisionNote}}
Note: {{.DecisionNote}}
{{end}}
Reference: {{.ReservationID}}
`),
	},
	payloads.TemplateBlockCreated: {
		subject: "Dates blocked on {{.TargetLabel}}",
		body: mustParse("block", `{{.TargetLabel}} is blocked from {{.StartDate}} to {{.EndDate}}.
{{if .DecisionNote}}
Reason: {{.DecisionNote}}
{{end}}`),
	},
}

func mustParse(name, text string) *template.Template {
	return template.Must(template.New(name).Parse(text))
}

// Render builds the message for a notification payload.
func Render(n payloads.BookingNotification, eventID string) (Message, error) {
	tpl, ok := templates[n.TemplateKind]
	if !ok {
		return Message{}, fmt.Errorf("unknown template %q", n.TemplateKind)
	}

	subject, err := template.New("subject").Parse(tpl.subject)
	if err != nil {
		return Message{}, err
	}
	var subj, body bytes.Buffer
	if err := subject.Execute(&subj, n.Booking); err != nil {
		return Message{}, fmt.Errorf("render subject: %w", err)
	}
	if err := tpl.body.Execute(&body, n.Booking); err != nil {
		return Message{}, fmt.Errorf("render body: %w", err)
	}

	return Message{
		To:       n.RecipientAddress,
		Subject:  strings.TrimSpace(subj.String()),
		Body:     body.String(),
		Template: string(n.TemplateKind),
		EventID:  eventID,
	}, nil
}
