package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ambernegi/rha/api/middleware"
	"github.com/ambernegi/rha/api/validators"
	"github.com/ambernegi/rha/internal/bookings"
	"github.com/ambernegi/rha/internal/resources"
	"github.com/ambernegi/rha/pkg/enums"
	pkgerrors "github.com/ambernegi/rha/pkg/errors"
	"github.com/ambernegi/rha/pkg/pagination"
)

// targetBody is embedded by every request that names a resource or configuration.
type targetBody struct {
	ResourceID        string `json:"resourceId" validate:"omitempty,uuid"`
	ConfigurationID   string `json:"configurationId" validate:"omitempty,uuid"`
	ConfigurationSlug string `json:"configurationSlug" validate:"omitempty,max=64"`
}

func (b targetBody) target() (resources.Target, error) {
	return buildTarget(b.ResourceID, b.ConfigurationID, b.ConfigurationSlug)
}

func buildTarget(resourceID, configurationID, slug string) (resources.Target, error) {
	resourceID = strings.TrimSpace(resourceID)
	configurationID = strings.TrimSpace(configurationID)
	slug = strings.TrimSpace(slug)

	set := 0
	for _, v := range []string{resourceID, configurationID, slug} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		return resources.Target{}, pkgerrors.New(pkgerrors.CodeValidation, "exactly one of resourceId, configurationId or configurationSlug is required")
	}

	switch {
	case resourceID != "":
		id, err := uuid.Parse(resourceID)
		if err != nil {
			return resources.Target{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid resourceId")
		}
		return resources.ResourceTarget(id), nil
	case configurationID != "":
		id, err := uuid.Parse(configurationID)
		if err != nil {
			return resources.Target{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid configurationId")
		}
		return resources.ConfigurationTarget(id), nil
	default:
		return resources.Target{ConfigurationSlug: slug}, nil
	}
}

func targetFromQuery(r *http.Request) (resources.Target, error) {
	q := r.URL.Query()
	return buildTarget(q.Get("resourceId"), q.Get("configurationId"), q.Get("configurationSlug"))
}

func actorFrom(r *http.Request) (bookings.Actor, error) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		return bookings.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	return bookings.Actor{
		UserID: identity.UserID,
		Role:   identity.Role,
		Email:  identity.Email,
		Name:   identity.Name,
	}, nil
}

func listParamsFrom(r *http.Request, actor bookings.Actor) (bookings.ListParams, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return bookings.ListParams{}, err
	}
	params := bookings.ListParams{
		Actor:  actor,
		Limit:  limit,
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, err := enums.ParseReservationStatus(raw)
		if err != nil {
			return bookings.ListParams{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		params.Status = &status
	}
	return params, nil
}
