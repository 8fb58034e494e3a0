package enums

import "fmt"

// ReservationKind separates guest bookings from host blocks.
type ReservationKind string

const (
	ReservationKindGuest ReservationKind = "guest"
	ReservationKindBlock ReservationKind = "block"
)

var validReservationKinds = []ReservationKind{
	ReservationKindGuest,
	ReservationKindBlock,
}

// String implements fmt.Stringer.
func (k ReservationKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known ReservationKind.
func (k ReservationKind) IsValid() bool {
	for _, candidate := range validReservationKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseReservationKind converts raw input into a ReservationKind.
func ParseReservationKind(value string) (ReservationKind, error) {
	for _, candidate := range validReservationKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid reservation kind %q", value)
}
