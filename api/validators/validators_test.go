package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/ambernegi/rha/pkg/errors"
)

type stayBody struct {
	StartDate string `json:"startDate" validate:"required,day"`
	Email     string `json:"email" validate:"omitempty,email"`
}

func TestDecodeJSONBodyDayTag(t *testing.T) {
	var ok stayBody
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"startDate":"2025-06-01"}`))
	require.NoError(t, DecodeJSONBody(req, &ok))
	assert.Equal(t, "2025-06-01", ok.StartDate)

	var bad stayBody
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"startDate":"2025-02-30"}`))
	err := DecodeJSONBody(req, &bad)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, map[string]string{"startDate": "must be a date formatted YYYY-MM-DD"}, typed.Details())
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	var body stayBody
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"startDate":"2025-06-01","extra":1}`))
	err := DecodeJSONBody(req, &body)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestParseQueryHelpers(t *testing.T) {
	id := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/?from=2025-06-01&to=bad&limit=5&resourceId="+id.String(), nil)

	from, err := ParseQueryDay(req, "from")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", from.Format("2006-01-02"))

	_, err = ParseQueryDay(req, "to")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInvalidRange))

	missing, err := ParseQueryDay(req, "missing")
	require.NoError(t, err)
	assert.True(t, missing.IsZero())

	limit, err := ParseQueryInt(req, "limit", 25, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 5, limit)

	parsed, err := ParseQueryUUID(req, "resourceId")
	require.NoError(t, err)
	require.NotNil(t, parsed)
	assert.Equal(t, id, *parsed)
}

func TestParseUUIDParam(t *testing.T) {
	id := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rc := chi.NewRouteContext()
	rc.URLParams.Add("bookingId", id.String())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))

	got, err := ParseUUIDParam(req, "bookingId")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ParseUUIDParam(req, "blockId")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
