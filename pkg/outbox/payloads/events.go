package payloads

import (
	"github.com/google/uuid"

	"github.com/ambernegi/rha/pkg/enums"
)

// TemplateKind selects the message a notifier renders.
type TemplateKind string

const (
	TemplateBookingRequested TemplateKind = "booking_requested"
	TemplateBookingConfirmed TemplateKind = "booking_confirmed"
	TemplateBookingRejected  TemplateKind = "booking_rejected"
	TemplateBookingCancelled TemplateKind = "booking_cancelled"
	TemplateBlockCreated     TemplateKind = "block_created"
)

// BookingSnapshot captures a reservation as it was when the event was emitted.
type BookingSnapshot struct {
	ReservationID   uuid.UUID               `json:"reservationId"`
	Kind            enums.ReservationKind   `json:"kind"`
	Status          enums.ReservationStatus `json:"status"`
	PreviousStatus  enums.ReservationStatus `json:"previousStatus,omitempty"`
	TargetLabel     string                  `json:"targetLabel"`
	ResourceID      *uuid.UUID              `json:"resourceId,omitempty"`
	ConfigurationID *uuid.UUID              `json:"configurationId,omitempty"`
	StartDate       string                  `json:"startDate"`
	EndDate         string                  `json:"endDate"`
	Nights          int                     `json:"nights"`
	TotalPrice      string                  `json:"totalPrice"`
	GuestName       string                  `json:"guestName,omitempty"`
	DecisionNote    string                  `json:"decisionNote,omitempty"`
}

// BookingNotification is the payload of every reservation event. An empty
// RecipientAddress means there is nobody to notify.
type BookingNotification struct {
	RecipientAddress string          `json:"recipientAddress,omitempty"`
	TemplateKind     TemplateKind    `json:"templateKind"`
	Booking          BookingSnapshot `json:"bookingSnapshot"`
}
