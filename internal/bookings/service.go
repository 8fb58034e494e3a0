package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ambernegi/rha/internal/resources"
	"github.com/ambernegi/rha/pkg/config"
	"github.com/ambernegi/rha/pkg/enums"
	pkgerrors "github.com/ambernegi/rha/pkg/errors"
	"github.com/ambernegi/rha/pkg/logger"
	"github.com/ambernegi/rha/pkg/metrics"
	"github.com/ambernegi/rha/pkg/outbox"
	"github.com/ambernegi/rha/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type targetResolver interface {
	ResolveTarget(ctx context.Context, tx *gorm.DB, target resources.Target) (*resources.ResolvedTarget, error)
}

// Service is the booking core: admission, lifecycle and availability.
type Service interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*BookingDTO, error)
	Admit(ctx context.Context, req AdmissionRequest) (*BookingDTO, error)
	TransitionBooking(ctx context.Context, input TransitionInput) (*BookingDTO, error)
	GetBooking(ctx context.Context, actor Actor, id uuid.UUID) (*BookingDTO, error)
	ListBookings(ctx context.Context, params ListParams) (*ListResult, error)
	ListAvailability(ctx context.Context, query AvailabilityQuery) ([]AvailabilitySlot, error)
}

// ServiceParams groups the collaborators of the booking service.
type ServiceParams struct {
	Repo     Repository
	Resolver targetResolver
	Tx       txRunner
	Outbox   outboxPublisher
	Logger   *logger.Logger
	Metrics  *metrics.BookingMetrics
	Config   config.BookingConfig
}

type service struct {
	repo          Repository
	resolver      targetResolver
	tx            txRunner
	outbox        outboxPublisher
	logg          *logger.Logger
	metrics       *metrics.BookingMetrics
	initialStatus enums.ReservationStatus
	maxNights     int
	hostEmail     string
}

// NewService builds the booking service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("bookings repository required")
	}
	if params.Resolver == nil {
		return nil, fmt.Errorf("target resolver required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}

	initial := enums.ReservationStatusPending
	if raw := strings.ToLower(strings.TrimSpace(params.Config.InitialStatus)); raw != "" {
		parsed, err := enums.ParseReservationStatus(raw)
		if err != nil || !parsed.IsActive() {
			return nil, fmt.Errorf("initial status must be pending or confirmed, got %q", params.Config.InitialStatus)
		}
		initial = parsed
	}

	return &service{
		repo:          params.Repo,
		resolver:      params.Resolver,
		tx:            params.Tx,
		outbox:        params.Outbox,
		logg:          params.Logger,
		metrics:       params.Metrics,
		initialStatus: initial,
		maxNights:     params.Config.MaxNights,
		hostEmail:     strings.TrimSpace(params.Config.HostNotifyEmail),
	}, nil
}

func (s *service) GetBooking(ctx context.Context, actor Actor, id uuid.UUID) (*BookingDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id required")
	}
	if actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	reservation, err := s.repo.FindReservation(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "booking not found", "load booking")
	}
	if !canSee(actor, reservation.GuestID) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
	}
	dto := bookingFromModel(reservation)
	return &dto, nil
}

func (s *service) ListBookings(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.Actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	query := listReservationsParams{
		Status: params.Status,
		Kind:   params.Kind,
		Limit:  params.Limit,
		Cursor: cursor,
	}
	if !params.Actor.IsHost() {
		guestID := params.Actor.UserID
		query.GuestID = &guestID
		query.Kind = nil
	}

	rows, next, err := s.repo.ListReservations(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "list bookings")
	}

	result := &ListResult{Bookings: make([]BookingDTO, 0, len(rows))}
	for i := range rows {
		result.Bookings = append(result.Bookings, bookingFromModel(&rows[i]))
	}
	if next != nil {
		result.NextCursor = pagination.EncodeCursor(*next)
	}
	return result, nil
}

func canSee(actor Actor, guestID *uuid.UUID) bool {
	if actor.IsHost() {
		return true
	}
	return guestID != nil && *guestID == actor.UserID
}

func notFoundOr(err error, notFoundMsg, storageMsg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMsg)
	}
	return pkgerrors.Wrap(pkgerrors.CodeStorage, err, storageMsg)
}

// asTyped keeps typed errors and reports anything else as a storage failure.
func asTyped(err error, msg string) error {
	if err == nil {
		return nil
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeStorage, err, msg)
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return strings.ToLower(string(pkgerrors.As(asTyped(err, "")).Code()))
}
