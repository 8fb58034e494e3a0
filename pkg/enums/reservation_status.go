package enums

import "fmt"

// ReservationStatus tracks the lifecycle of a reservation.
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusRejected  ReservationStatus = "rejected"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

var validReservationStatuses = []ReservationStatus{
	ReservationStatusPending,
	ReservationStatusConfirmed,
	ReservationStatusRejected,
	ReservationStatusCancelled,
}

// ActiveReservationStatuses occupy the ledger and take part in conflict checks.
var ActiveReservationStatuses = []ReservationStatus{
	ReservationStatusPending,
	ReservationStatusConfirmed,
}

// String implements fmt.Stringer.
func (s ReservationStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ReservationStatus.
func (s ReservationStatus) IsValid() bool {
	for _, candidate := range validReservationStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsActive reports whether the status blocks the dates it covers.
func (s ReservationStatus) IsActive() bool {
	return s == ReservationStatusPending || s == ReservationStatusConfirmed
}

// IsTerminal reports whether no further transition is possible.
func (s ReservationStatus) IsTerminal() bool {
	return s == ReservationStatusRejected || s == ReservationStatusCancelled
}

// Next returns the status reached by applying action, or false when the
// transition is not allowed.
func (s ReservationStatus) Next(action BookingAction) (ReservationStatus, bool) {
	switch s {
	case ReservationStatusPending:
		switch action {
		case BookingActionConfirm:
			return ReservationStatusConfirmed, true
		case BookingActionReject:
			return ReservationStatusRejected, true
		case BookingActionCancel:
			return ReservationStatusCancelled, true
		}
	case ReservationStatusConfirmed:
		if action == BookingActionCancel {
			return ReservationStatusCancelled, true
		}
	}
	return s, false
}

// ParseReservationStatus converts raw input into a ReservationStatus.
func ParseReservationStatus(value string) (ReservationStatus, error) {
	for _, candidate := range validReservationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid reservation status %q", value)
}
