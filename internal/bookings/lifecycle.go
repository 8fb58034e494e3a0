package bookings

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ambernegi/rha/internal/dates"
	"github.com/ambernegi/rha/pkg/db/models"
	"github.com/ambernegi/rha/pkg/enums"
	pkgerrors "github.com/ambernegi/rha/pkg/errors"
)

// TransitionBooking applies confirm, reject or cancel. Hosts may act on any
// reservation; guests may only cancel their own.
//
//	pending   -> confirmed  re-check overlap, then create locks
//	pending   -> rejected
//	pending   -> cancelled
//	confirmed -> cancelled  delete locks
func (s *service) TransitionBooking(ctx context.Context, input TransitionInput) (*BookingDTO, error) {
	dto, err := s.transition(ctx, input)
	s.metrics.ObserveTransition(string(input.Action), outcome(err))
	return dto, err
}

func (s *service) transition(ctx context.Context, input TransitionInput) (*BookingDTO, error) {
	if input.BookingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id required")
	}
	if input.Actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.Action.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "action must be confirm, reject or cancel")
	}
	note := strings.TrimSpace(input.Note)
	if len(note) > MaxNoteLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "note too long").
			WithDetails(map[string]any{"maxLength": MaxNoteLength})
	}

	var (
		updated  *models.Reservation
		previous enums.ReservationStatus
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		current, err := repo.FindReservationForUpdate(ctx, input.BookingID)
		if err != nil {
			return notFoundOr(err, "booking not found", "load booking")
		}
		if !canSee(input.Actor, current.GuestID) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		if !input.Actor.IsHost() && input.Action != enums.BookingActionCancel {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the host can confirm or reject a booking")
		}

		next, ok := current.Status.Next(input.Action)
		if !ok {
			return invalidTransition(current.Status, input.Action)
		}

		target, err := s.resolver.ResolveTarget(ctx, tx, targetOf(current))
		if err != nil {
			return err
		}
		if err := repo.LockResources(ctx, target.ConflictSet); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "lock resources")
		}

		now := time.Now().UTC()
		updates := map[string]any{"status": string(next)}
		if note != "" {
			updates["decision_note"] = note
		}
		switch next {
		case enums.ReservationStatusConfirmed:
			overlap, err := repo.FindOverlap(ctx, target.ConflictSet, rangeOf(current), &current.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "re-check overlap")
			}
			if overlap != nil {
				s.metrics.IncConflict(overlap.Source)
				return conflictError(rangeOf(current), overlap)
			}
			updates["confirmed_at"] = now
			current.ConfirmedAt = &now
		case enums.ReservationStatusRejected:
			updates["rejected_at"] = now
			current.RejectedAt = &now
		case enums.ReservationStatusCancelled:
			updates["cancelled_at"] = now
			current.CancelledAt = &now
		}

		changed, err := repo.UpdateStatus(ctx, current.ID, current.Status, updates)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "update booking status")
		}
		if !changed {
			return invalidTransition(current.Status, input.Action)
		}

		previous = current.Status
		current.Status = next
		switch {
		case next == enums.ReservationStatusConfirmed:
			if err := repo.CreateLocks(ctx, locksFor(current, target.Occupied)); err != nil {
				return writeError(err, "create occupancy locks")
			}
		case previous == enums.ReservationStatusConfirmed:
			if _, err := repo.DeleteLocks(ctx, current.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "release occupancy locks")
			}
		}

		if note != "" {
			current.DecisionNote = &note
		}
		if err := s.emit(ctx, tx, current, transitionNotification(current), target.Label, previous, input.Actor); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "restore outbox savepoint")
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, writeError(err, "commit transition")
	}

	if s.logg != nil {
		logCtx := s.logg.WithReservationID(ctx, updated.ID.String())
		logCtx = s.logg.WithFields(logCtx, map[string]any{
			"action":     input.Action,
			"from":       previous,
			"to":         updated.Status,
			"start_date": dates.FormatDay(updated.StartDate),
		})
		s.logg.Info(logCtx, "reservation transitioned")
	}

	dto := bookingFromModel(updated)
	return &dto, nil
}

func invalidTransition(from enums.ReservationStatus, action enums.BookingAction) error {
	return pkgerrors.New(pkgerrors.CodeInvalidTransition, "transition not allowed from current status").
		WithDetails(map[string]any{"status": from, "action": action})
}
