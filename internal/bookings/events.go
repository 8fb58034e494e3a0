package bookings

import (
	"context"

	"gorm.io/gorm"

	"github.com/ambernegi/rha/internal/dates"
	"github.com/ambernegi/rha/pkg/db/models"
	"github.com/ambernegi/rha/pkg/enums"
	"github.com/ambernegi/rha/pkg/outbox"
	"github.com/ambernegi/rha/pkg/outbox/payloads"
)

const outboxSavepoint = "booking_outbox"

type notification struct {
	eventType enums.OutboxEventType
	template  payloads.TemplateKind
	recipient string
}

func admissionNotification(r *models.Reservation, hostEmail string) notification {
	switch {
	case r.Kind == enums.ReservationKindBlock:
		return notification{eventType: enums.EventBlockCreated, template: payloads.TemplateBlockCreated}
	case r.Status == enums.ReservationStatusConfirmed:
		return notification{eventType: enums.EventReservationConfirmed, template: payloads.TemplateBookingConfirmed, recipient: guestEmail(r)}
	default:
		return notification{eventType: enums.EventReservationRequested, template: payloads.TemplateBookingRequested, recipient: hostEmail}
	}
}

func transitionNotification(r *models.Reservation) notification {
	n := notification{recipient: guestEmail(r)}
	switch r.Status {
	case enums.ReservationStatusConfirmed:
		n.eventType, n.template = enums.EventReservationConfirmed, payloads.TemplateBookingConfirmed
	case enums.ReservationStatusRejected:
		n.eventType, n.template = enums.EventReservationRejected, payloads.TemplateBookingRejected
	default:
		n.eventType, n.template = enums.EventReservationCancelled, payloads.TemplateBookingCancelled
	}
	return n
}

func guestEmail(r *models.Reservation) string {
	if r.GuestEmail == nil {
		return ""
	}
	return *r.GuestEmail
}

func snapshot(r *models.Reservation, label string, previous enums.ReservationStatus) payloads.BookingSnapshot {
	snap := payloads.BookingSnapshot{
		ReservationID:   r.ID,
		Kind:            r.Kind,
		Status:          r.Status,
		PreviousStatus:  previous,
		TargetLabel:     label,
		ResourceID:      r.ResourceID,
		ConfigurationID: r.ConfigurationID,
		StartDate:       dates.FormatDay(r.StartDate),
		EndDate:         dates.FormatDay(r.EndDate),
		Nights:          r.Nights,
		TotalPrice:      r.TotalPrice.StringFixed(2),
	}
	if r.GuestName != nil {
		snap.GuestName = *r.GuestName
	}
	if r.DecisionNote != nil {
		snap.DecisionNote = *r.DecisionNote
	}
	return snap
}

// emit queues the notification behind a savepoint. A failing outbox write is
// rolled back to the savepoint and logged; the booking change still commits.
func (s *service) emit(ctx context.Context, tx *gorm.DB, r *models.Reservation, n notification, label string, previous enums.ReservationStatus, actor Actor) error {
	event := outbox.DomainEvent{
		EventType:     n.eventType,
		AggregateType: enums.AggregateReservation,
		AggregateID:   r.ID,
		Version:       1,
		Actor:         &outbox.ActorRef{UserID: actor.UserID, Role: string(actor.Role)},
		Data: payloads.BookingNotification{
			RecipientAddress: n.recipient,
			TemplateKind:     n.template,
			Booking:          snapshot(r, label, previous),
		},
	}

	if err := tx.SavePoint(outboxSavepoint).Error; err != nil {
		s.warn(ctx, r, "outbox savepoint failed, notification skipped", err)
		return nil
	}
	if err := s.outbox.Emit(ctx, tx, event); err != nil {
		if rbErr := tx.RollbackTo(outboxSavepoint).Error; rbErr != nil {
			return rbErr
		}
		s.warn(ctx, r, "outbox emit failed, notification dropped", err)
	}
	return nil
}

func (s *service) warn(ctx context.Context, r *models.Reservation, msg string, err error) {
	if s.logg == nil {
		return
	}
	logCtx := s.logg.WithReservationID(ctx, r.ID.String())
	logCtx = s.logg.WithField(logCtx, "error", err.Error())
	s.logg.Warn(logCtx, msg)
}
