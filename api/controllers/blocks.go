package controllers

import (
	"net/http"

	"github.com/ambernegi/rha/api/responses"
	"github.com/ambernegi/rha/api/validators"
	"github.com/ambernegi/rha/internal/blocks"
	"github.com/ambernegi/rha/internal/dates"
	pkgerrors "github.com/ambernegi/rha/pkg/errors"
	"github.com/ambernegi/rha/pkg/logger"
	"github.com/ambernegi/rha/pkg/pagination"
)

type createBlockRequest struct {
	targetBody
	StartDate string `json:"startDate" validate:"required,day"`
	EndDate   string `json:"endDate" validate:"required,day"`
	Note      string `json:"note" validate:"omitempty,max=2000"`
}

// HostCreateBlock takes a range off the calendar.
func HostCreateBlock(svc blocks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "blocks service unavailable"))
			return
		}
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createBlockRequest
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

		block, err := svc.CreateBlock(r.Context(), blocks.CreateBlockInput{
			Actor:     actor,
			Target:    target,
			StartDate: stay.Start,
			EndDate:   stay.End,
			Note:      body.Note,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, block)
	}
}

// HostCancelBlock releases a block.
func HostCancelBlock(svc blocks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "blocks service unavailable"))
			return
		}
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseUUIDParam(r, "blockId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		block, err := svc.CancelBlock(r.Context(), actor, id, r.URL.Query().Get("note"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, block)
	}
}

func HostListBlocks(svc blocks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "blocks service unavailable"))
			return
		}
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.ListBlocks(r.Context(), actor, limit, r.URL.Query().Get("cursor"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
