package enums

import "fmt"

// BookingAction is a lifecycle command applied to an existing reservation.
type BookingAction string

const (
	BookingActionConfirm BookingAction = "confirm"
	BookingActionReject  BookingAction = "reject"
	BookingActionCancel  BookingAction = "cancel"
)

var validBookingActions = []BookingAction{
	BookingActionConfirm,
	BookingActionReject,
	BookingActionCancel,
}

// String implements fmt.Stringer.
func (a BookingAction) String() string {
	return string(a)
}

// IsValid reports whether the value is a known BookingAction.
func (a BookingAction) IsValid() bool {
	for _, candidate := range validBookingActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseBookingAction converts raw input into a BookingAction.
func ParseBookingAction(value string) (BookingAction, error) {
	for _, candidate := range validBookingActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid booking action %q", value)
}
