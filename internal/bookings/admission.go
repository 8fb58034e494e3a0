package bookings

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ambernegi/rha/internal/dates"
	"github.com/ambernegi/rha/internal/resources"
	"github.com/ambernegi/rha/pkg/db"
	"github.com/ambernegi/rha/pkg/db/models"
	"github.com/ambernegi/rha/pkg/enums"
	pkgerrors "github.com/ambernegi/rha/pkg/errors"
)

func (s *service) CreateBooking(ctx context.Context, input CreateBookingInput) (*BookingDTO, error) {
	if input.Actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	email := strings.TrimSpace(input.GuestEmail)
	if email == "" {
		email = strings.TrimSpace(input.Actor.Email)
	}
	name := strings.TrimSpace(input.GuestName)
	if name == "" {
		name = strings.TrimSpace(input.Actor.Name)
	}
	guestID := input.Actor.UserID

	return s.Admit(ctx, AdmissionRequest{
		Kind:       enums.ReservationKindGuest,
		Target:     input.Target,
		Range:      dates.New(input.StartDate, input.EndDate),
		Status:     s.initialStatus,
		GuestID:    &guestID,
		GuestEmail: email,
		GuestName:  name,
		Actor:      input.Actor,
	})
}

// Admit runs the admission protocol in one transaction:
//
//  1. validate the range
//  2. resolve the target into its conflict set
//  3. lock the conflict set rows
//  4. look for an overlapping active reservation or lock
//  5. insert the reservation, plus its locks when it starts confirmed
//  6. queue the notification
//
// Any failure rolls the whole unit back.
func (s *service) Admit(ctx context.Context, req AdmissionRequest) (*BookingDTO, error) {
	dto, err := s.admit(ctx, req)
	s.metrics.ObserveAdmission(string(req.Kind), outcome(err))
	return dto, err
}

func (s *service) admit(ctx context.Context, req AdmissionRequest) (*BookingDTO, error) {
	if err := s.validateAdmission(req); err != nil {
		return nil, err
	}

	var created *models.Reservation
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		target, err := s.resolver.ResolveTarget(ctx, tx, req.Target)
		if err != nil {
			return err
		}
		if err := repo.LockResources(ctx, target.ConflictSet); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "lock resources")
		}

		overlap, err := repo.FindOverlap(ctx, target.ConflictSet, req.Range, nil)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "check overlap")
		}
		if overlap != nil {
			s.metrics.IncConflict(overlap.Source)
			return conflictError(req.Range, overlap)
		}

		reservation := buildReservation(req, target)
		if err := repo.CreateReservation(ctx, reservation); err != nil {
			return writeError(err, "create reservation")
		}
		if reservation.Status == enums.ReservationStatusConfirmed {
			if err := repo.CreateLocks(ctx, locksFor(reservation, target.Occupied)); err != nil {
				return writeError(err, "create occupancy locks")
			}
		}

		n := admissionNotification(reservation, s.hostEmail)
		if err := s.emit(ctx, tx, reservation, n, target.Label, "", req.Actor); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "restore outbox savepoint")
		}
		created = reservation
		return nil
	})
	if err != nil {
		return nil, writeError(err, "commit reservation")
	}

	if s.logg != nil {
		logCtx := s.logg.WithReservationID(ctx, created.ID.String())
		logCtx = s.logg.WithFields(logCtx, map[string]any{
			"kind":       created.Kind,
			"status":     created.Status,
			"start_date": dates.FormatDay(created.StartDate),
			"end_date":   dates.FormatDay(created.EndDate),
		})
		s.logg.Info(logCtx, "reservation admitted")
	}

	dto := bookingFromModel(created)
	return &dto, nil
}

func (s *service) validateAdmission(req AdmissionRequest) error {
	if !req.Kind.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid reservation kind")
	}
	if !req.Status.IsActive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "reservation must start pending or confirmed")
	}
	if req.Kind == enums.ReservationKindGuest && req.GuestID == nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "guest identity missing")
	}
	if err := req.Range.Validate(); err != nil {
		return err
	}
	if s.maxNights > 0 && req.Range.Nights() > s.maxNights {
		return pkgerrors.New(pkgerrors.CodeValidation, "stay exceeds the maximum number of nights").
			WithDetails(map[string]any{"nights": req.Range.Nights(), "maxNights": s.maxNights})
	}
	if len(req.Note) > MaxNoteLength {
		return pkgerrors.New(pkgerrors.CodeValidation, "note too long").
			WithDetails(map[string]any{"maxLength": MaxNoteLength})
	}
	return nil
}

func buildReservation(req AdmissionRequest, target *resources.ResolvedTarget) *models.Reservation {
	nights := req.Range.Nights()
	price := decimal.Zero
	if req.Kind == enums.ReservationKindGuest {
		price = target.NightlyRate.Mul(decimal.NewFromInt(int64(nights)))
	}

	reservation := &models.Reservation{
		Kind:            req.Kind,
		GuestID:         req.GuestID,
		GuestEmail:      stringPtr(req.GuestEmail),
		GuestName:       stringPtr(req.GuestName),
		ResourceID:      target.ResourceID,
		ConfigurationID: target.ConfigurationID,
		StartDate:       req.Range.Start,
		EndDate:         req.Range.End,
		Nights:          nights,
		Status:          req.Status,
		TotalPrice:      price,
		DecisionNote:    stringPtr(strings.TrimSpace(req.Note)),
	}
	if req.Actor.UserID != uuid.Nil {
		createdBy := req.Actor.UserID
		reservation.CreatedBy = &createdBy
	}
	if req.Status == enums.ReservationStatusConfirmed {
		now := time.Now().UTC()
		reservation.ConfirmedAt = &now
	}
	return reservation
}

func locksFor(r *models.Reservation, occupied []uuid.UUID) []models.OccupancyLock {
	locks := make([]models.OccupancyLock, 0, len(occupied))
	for _, resourceID := range occupied {
		locks = append(locks, models.OccupancyLock{
			ReservationID: r.ID,
			ResourceID:    resourceID,
			StartDate:     r.StartDate,
			EndDate:       r.EndDate,
		})
	}
	return locks
}

func conflictError(requested dates.Range, overlap *Overlap) error {
	return pkgerrors.New(pkgerrors.CodeConflict, "requested dates overlap an existing reservation").
		WithDetails(map[string]any{
			"startDate":            dates.FormatDay(requested.Start),
			"endDate":              dates.FormatDay(requested.End),
			"conflictingStartDate": dates.FormatDay(overlap.StartDate),
			"conflictingEndDate":   dates.FormatDay(overlap.EndDate),
		})
}

// writeError maps a failed ledger write. The exclusion constraint on
// occupancy_locks reports a lost race as a conflict.
func writeError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	if db.IsExclusionViolation(err) {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "requested dates overlap an existing reservation")
	}
	return pkgerrors.Wrap(pkgerrors.CodeStorage, err, msg)
}
