// Package blocks lets the host take dates off the calendar. A block is a
// reservation of kind "block": no guest, no price, confirmed on creation, and
// admitted through the same protocol as guest bookings.
package blocks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ambernegi/rha/internal/bookings"
	"github.com/ambernegi/rha/internal/dates"
	"github.com/ambernegi/rha/internal/resources"
	"github.com/ambernegi/rha/pkg/enums"
	pkgerrors "github.com/ambernegi/rha/pkg/errors"
)

// Service manages manual blocks.
type Service interface {
	CreateBlock(ctx context.Context, input CreateBlockInput) (*bookings.BookingDTO, error)
	CancelBlock(ctx context.Context, actor bookings.Actor, id uuid.UUID, note string) (*bookings.BookingDTO, error)
	ListBlocks(ctx context.Context, actor bookings.Actor, limit int, cursor string) (*bookings.ListResult, error)
}

// CreateBlockInput describes the dates to take off the calendar.
type CreateBlockInput struct {
	Actor     bookings.Actor
	Target    resources.Target
	StartDate time.Time
	EndDate   time.Time
	Note      string
}

type service struct {
	bookings bookings.Service
}

// NewService builds the block service on top of the booking core.
func NewService(core bookings.Service) (Service, error) {
	if core == nil {
		return nil, fmt.Errorf("bookings service required")
	}
	return &service{bookings: core}, nil
}

func (s *service) CreateBlock(ctx context.Context, input CreateBlockInput) (*bookings.BookingDTO, error) {
	if err := requireHost(input.Actor); err != nil {
		return nil, err
	}
	return s.bookings.Admit(ctx, bookings.AdmissionRequest{
		Kind:   enums.ReservationKindBlock,
		Target: input.Target,
		Range:  dates.New(input.StartDate, input.EndDate),
		Status: enums.ReservationStatusConfirmed,
		Note:   input.Note,
		Actor:  input.Actor,
	})
}

func (s *service) CancelBlock(ctx context.Context, actor bookings.Actor, id uuid.UUID, note string) (*bookings.BookingDTO, error) {
	if err := requireHost(actor); err != nil {
		return nil, err
	}
	current, err := s.bookings.GetBooking(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if current.Kind != enums.ReservationKindBlock {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "block not found")
	}
	return s.bookings.TransitionBooking(ctx, bookings.TransitionInput{
		BookingID: id,
		Action:    enums.BookingActionCancel,
		Note:      note,
		Actor:     actor,
	})
}

func (s *service) ListBlocks(ctx context.Context, actor bookings.Actor, limit int, cursor string) (*bookings.ListResult, error) {
	if err := requireHost(actor); err != nil {
		return nil, err
	}
	kind := enums.ReservationKindBlock
	status := enums.ReservationStatusConfirmed
	return s.bookings.ListBookings(ctx, bookings.ListParams{
		Actor:  actor,
		Kind:   &kind,
		Status: &status,
		Limit:  limit,
		Cursor: cursor,
	})
}

func requireHost(actor bookings.Actor) error {
	if actor.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !actor.IsHost() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "host role required")
	}
	return nil
}
