package blocks

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ambernegi/rha/internal/bookings"
	"github.com/ambernegi/rha/internal/resources"
	"github.com/ambernegi/rha/pkg/enums"
	pkgerrors "github.com/ambernegi/rha/pkg/errors"
)

type stubBookings struct {
	admitted    *bookings.AdmissionRequest
	transition  *bookings.TransitionInput
	listParams  *bookings.ListParams
	existing    *bookings.BookingDTO
	existingErr error
}

func (s *stubBookings) CreateBooking(context.Context, bookings.CreateBookingInput) (*bookings.BookingDTO, error) {
	return nil, nil
}

func (s *stubBookings) Admit(_ context.Context, req bookings.AdmissionRequest) (*bookings.BookingDTO, error) {
	s.admitted = &req
	return &bookings.BookingDTO{ID: uuid.New(), Kind: req.Kind, Status: req.Status}, nil
}

func (s *stubBookings) TransitionBooking(_ context.Context, input bookings.TransitionInput) (*bookings.BookingDTO, error) {
	s.transition = &input
	return &bookings.BookingDTO{ID: input.BookingID, Status: enums.ReservationStatusCancelled}, nil
}

func (s *stubBookings) GetBooking(context.Context, bookings.Actor, uuid.UUID) (*bookings.BookingDTO, error) {
	return s.existing, s.existingErr
}

func (s *stubBookings) ListBookings(_ context.Context, params bookings.ListParams) (*bookings.ListResult, error) {
	s.listParams = &params
	return &bookings.ListResult{}, nil
}

func (s *stubBookings) ListAvailability(context.Context, bookings.AvailabilityQuery) ([]bookings.AvailabilitySlot, error) {
	return nil, nil
}

var (
	host  = bookings.Actor{UserID: uuid.New(), Role: enums.ActorRoleHost}
	guest = bookings.Actor{UserID: uuid.New(), Role: enums.ActorRoleGuest}
)

func TestCreateBlockAdmitsConfirmedBlock(t *testing.T) {
	stub := &stubBookings{}
	svc, err := NewService(stub)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	resourceID := uuid.New()
	start := time.Date(2024, 12, 20, 15, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 27, 0, 0, 0, 0, time.UTC)

	dto, err := svc.CreateBlock(context.Background(), CreateBlockInput{
		Actor:     host,
		Target:    resources.ResourceTarget(resourceID),
		StartDate: start,
		EndDate:   end,
		Note:      "family visit",
	})
	if err != nil {
		t.Fatalf("create block: %v", err)
	}
	if dto.Kind != enums.ReservationKindBlock || dto.Status != enums.ReservationStatusConfirmed {
		t.Fatalf("unexpected block %+v", dto)
	}
	req := stub.admitted
	if req == nil {
		t.Fatal("expected admission")
	}
	if req.GuestID != nil {
		t.Fatalf("blocks carry no guest, got %v", req.GuestID)
	}
	if req.Range.Nights() != 7 {
		t.Fatalf("expected 7 nights, got %d", req.Range.Nights())
	}
	if req.Note != "family visit" {
		t.Fatalf("note not forwarded: %q", req.Note)
	}
}

func TestCreateBlockRequiresHost(t *testing.T) {
	svc, _ := NewService(&stubBookings{})
	_, err := svc.CreateBlock(context.Background(), CreateBlockInput{Actor: guest})
	if !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	_, err = svc.CreateBlock(context.Background(), CreateBlockInput{})
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestCancelBlockDelegatesToLifecycle(t *testing.T) {
	id := uuid.New()
	stub := &stubBookings{existing: &bookings.BookingDTO{ID: id, Kind: enums.ReservationKindBlock, Status: enums.ReservationStatusConfirmed}}
	svc, _ := NewService(stub)

	dto, err := svc.CancelBlock(context.Background(), host, id, "reopened")
	if err != nil {
		t.Fatalf("cancel block: %v", err)
	}
	if dto.Status != enums.ReservationStatusCancelled {
		t.Fatalf("unexpected status %s", dto.Status)
	}
	if stub.transition == nil || stub.transition.Action != enums.BookingActionCancel || stub.transition.Note != "reopened" {
		t.Fatalf("unexpected transition %+v", stub.transition)
	}
}

func TestCancelBlockRejectsGuestBookings(t *testing.T) {
	id := uuid.New()
	stub := &stubBookings{existing: &bookings.BookingDTO{ID: id, Kind: enums.ReservationKindGuest}}
	svc, _ := NewService(stub)

	_, err := svc.CancelBlock(context.Background(), host, id, "")
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if stub.transition != nil {
		t.Fatal("guest booking must not be cancelled through blocks")
	}
}

func TestListBlocksFiltersKind(t *testing.T) {
	stub := &stubBookings{}
	svc, _ := NewService(stub)

	if _, err := svc.ListBlocks(context.Background(), host, 10, ""); err != nil {
		t.Fatalf("list blocks: %v", err)
	}
	if stub.listParams == nil || stub.listParams.Kind == nil || *stub.listParams.Kind != enums.ReservationKindBlock {
		t.Fatalf("unexpected params %+v", stub.listParams)
	}
}
