package bookings

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ambernegi/rha/internal/dates"
	"github.com/ambernegi/rha/internal/resources"
	"github.com/ambernegi/rha/pkg/db/models"
	"github.com/ambernegi/rha/pkg/enums"
)

// MaxNoteLength bounds decision notes.
const MaxNoteLength = 2000

// Actor is the authenticated caller as handed over by the identity layer.
type Actor struct {
	UserID uuid.UUID
	Role   enums.ActorRole
	Email  string
	Name   string
}

// IsHost reports whether the actor may act on any reservation.
func (a Actor) IsHost() bool {
	return a.Role == enums.ActorRoleHost
}

// CreateBookingInput is a guest request for a stay.
type CreateBookingInput struct {
	Actor      Actor
	Target     resources.Target
	StartDate  time.Time
	EndDate    time.Time
	GuestEmail string
	GuestName  string
}

// AdmissionRequest is the shared input of the admission protocol. Guest
// bookings and host blocks both go through it.
type AdmissionRequest struct {
	Kind       enums.ReservationKind
	Target     resources.Target
	Range      dates.Range
	Status     enums.ReservationStatus
	GuestID    *uuid.UUID
	GuestEmail string
	GuestName  string
	Note       string
	Actor      Actor
}

// TransitionInput applies a lifecycle action to an existing reservation.
type TransitionInput struct {
	BookingID uuid.UUID
	Action    enums.BookingAction
	Note      string
	Actor     Actor
}

// AvailabilityQuery selects the occupied ranges relevant to a target.
type AvailabilityQuery struct {
	Target resources.Target
	From   time.Time
	To     time.Time
}

// ListParams filters reservation listings.
type ListParams struct {
	Actor  Actor
	Status *enums.ReservationStatus
	Kind   *enums.ReservationKind
	Limit  int
	Cursor string
}

// BookingDTO is the public view of a reservation.
type BookingDTO struct {
	ID              uuid.UUID               `json:"id"`
	Kind            enums.ReservationKind   `json:"kind"`
	Status          enums.ReservationStatus `json:"status"`
	GuestID         *uuid.UUID              `json:"guestId,omitempty"`
	GuestEmail      *string                 `json:"guestEmail,omitempty"`
	GuestName       *string                 `json:"guestName,omitempty"`
	ResourceID      *uuid.UUID              `json:"resourceId,omitempty"`
	ConfigurationID *uuid.UUID              `json:"configurationId,omitempty"`
	StartDate       string                  `json:"startDate"`
	EndDate         string                  `json:"endDate"`
	Nights          int                     `json:"nights"`
	TotalPrice      decimal.Decimal         `json:"totalPrice"`
	DecisionNote    *string                 `json:"decisionNote,omitempty"`
	CreatedAt       time.Time               `json:"createdAt"`
	ConfirmedAt     *time.Time              `json:"confirmedAt,omitempty"`
	RejectedAt      *time.Time              `json:"rejectedAt,omitempty"`
	CancelledAt     *time.Time              `json:"cancelledAt,omitempty"`
}

// ListResult is one page of reservations.
type ListResult struct {
	Bookings   []BookingDTO `json:"bookings"`
	NextCursor string       `json:"nextCursor,omitempty"`
}

// AvailabilitySlot is one occupied range on one resource.
type AvailabilitySlot struct {
	ResourceID uuid.UUID               `json:"resourceId"`
	StartDate  string                  `json:"startDate"`
	EndDate    string                  `json:"endDate"`
	Status     enums.ReservationStatus `json:"status"`
}

func bookingFromModel(m *models.Reservation) BookingDTO {
	return BookingDTO{
		ID:              m.ID,
		Kind:            m.Kind,
		Status:          m.Status,
		GuestID:         m.GuestID,
		GuestEmail:      m.GuestEmail,
		GuestName:       m.GuestName,
		ResourceID:      m.ResourceID,
		ConfigurationID: m.ConfigurationID,
		StartDate:       dates.FormatDay(m.StartDate),
		EndDate:         dates.FormatDay(m.EndDate),
		Nights:          m.Nights,
		TotalPrice:      m.TotalPrice,
		DecisionNote:    m.DecisionNote,
		CreatedAt:       m.CreatedAt,
		ConfirmedAt:     m.ConfirmedAt,
		RejectedAt:      m.RejectedAt,
		CancelledAt:     m.CancelledAt,
	}
}

func rangeOf(m *models.Reservation) dates.Range {
	return dates.New(m.StartDate, m.EndDate)
}

func targetOf(m *models.Reservation) resources.Target {
	return resources.Target{
		ResourceID:      m.ResourceID,
		ConfigurationID: m.ConfigurationID,
		IncludeInactive: true,
	}
}

func stringPtr(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
