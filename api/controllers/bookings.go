package controllers

import (
	"net/http"

	"github.com/ambernegi/rha/api/responses"
	"github.com/ambernegi/rha/api/validators"
	"github.com/ambernegi/rha/internal/bookings"
	"github.com/ambernegi/rha/internal/dates"
	"github.com/ambernegi/rha/pkg/enums"
	pkgerrors "github.com/ambernegi/rha/pkg/errors"
	"github.com/ambernegi/rha/pkg/logger"
)

type createBookingRequest struct {
	targetBody
	StartDate  string `json:"startDate" validate:"required,day"`
	EndDate    string `json:"endDate" validate:"required,day"`
	GuestName  string `json:"guestName" validate:"omitempty,max=120"`
	GuestEmail string `json:"guestEmail" validate:"omitempty,email,max=254"`
}

type noteRequest struct {
	Note string `json:"note" validate:"omitempty,max=2000"`
}

// CreateBooking requests a stay for the caller.
func CreateBooking(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bookings service unavailable"))
			return
		}
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createBookingRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		target, err := body.target()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		stay, err := dates.Parse(body.StartDate, body.EndDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		booking, err := svc.CreateBooking(r.Context(), bookings.CreateBookingInput{
			Actor:      actor,
			Target:     target,
			StartDate:  stay.Start,
			EndDate:    stay.End,
			GuestEmail: body.GuestEmail,
			GuestName:  validators.SanitizeString(body.GuestName, 120),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, booking)
	}
}

// ListMyBookings returns the reservations visible to the caller, newest first.
func ListMyBookings(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return listBookings(svc, logg)
}

// GetBooking returns one reservation visible to the caller.
func GetBooking(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bookings service unavailable"))
			return
		}
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseUUIDParam(r, "bookingId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		booking, err := svc.GetBooking(r.Context(), actor, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, booking)
	}
}

// CancelMyBooking lets a guest withdraw a pending or confirmed stay.
func CancelMyBooking(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bookings service unavailable"))
			return
		}
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseUUIDParam(r, "bookingId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body noteRequest
		if r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		booking, err := svc.TransitionBooking(r.Context(), bookings.TransitionInput{
			BookingID: id,
			Action:    enums.BookingActionCancel,
			Note:      body.Note,
			Actor:     actor,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, booking)
	}
}

func listBookings(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bookings service unavailable"))
			return
		}
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := listParamsFrom(r, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.ListBookings(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
