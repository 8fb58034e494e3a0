package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ambernegi/rha/api/responses"
	"github.com/ambernegi/rha/api/validators"
	"github.com/ambernegi/rha/internal/bookings"
	"github.com/ambernegi/rha/internal/resources"
	pkgerrors "github.com/ambernegi/rha/pkg/errors"
	"github.com/ambernegi/rha/pkg/logger"
)

type createResourceRequest struct {
	Name        string          `json:"name" validate:"required,max=120"`
	Slug        string          `json:"slug" validate:"required,max=64"`
	NightlyRate decimal.Decimal `json:"nightlyRate"`
	ParentID    *uuid.UUID      `json:"parentId"`
}

type createConfigurationRequest struct {
	Slug          string          `json:"slug" validate:"required,max=64"`
	Label         string          `json:"label" validate:"required,max=120"`
	PricePerNight decimal.Decimal `json:"pricePerNight"`
	ResourceIDs   []uuid.UUID     `json:"resourceIds" validate:"required,min=1"`
}

// PublicResources returns the resource tree.
func PublicResources(svc resources.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		tree, err := svc.ListResources(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tree)
	}
}

// PublicConfigurations returns the bookable configurations, cheapest first.
func PublicConfigurations(svc resources.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		configs, err := svc.ListConfigurations(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, configs)
	}
}

// PublicAvailability lists occupied ranges for a resource or configuration.
func PublicAvailability(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bookings service unavailable"))
			return
		}
		target, err := targetFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		from, err := validators.ParseQueryDay(r, "from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, err := validators.ParseQueryDay(r, "to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		slots, err := svc.ListAvailability(r.Context(), bookings.AvailabilityQuery{Target: target, From: from, To: to})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, slots)
	}
}

func HostCreateResource(svc resources.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		var body createResourceRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := svc.CreateResource(r.Context(), resources.CreateResourceInput{
			Name:        body.Name,
			Slug:        body.Slug,
			NightlyRate: body.NightlyRate,
			ParentID:    body.ParentID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

func HostCreateConfiguration(svc resources.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		var body createConfigurationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := svc.CreateConfiguration(r.Context(), resources.CreateConfigurationInput{
			Slug:          body.Slug,
			Label:         body.Label,
			PricePerNight: body.PricePerNight,
			ResourceIDs:   body.ResourceIDs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}
