package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ambernegi/rha/internal/blocks"
	"github.com/ambernegi/rha/internal/bookings"
	"github.com/ambernegi/rha/internal/resources"
	pkgAuth "github.com/ambernegi/rha/pkg/auth"
	"github.com/ambernegi/rha/pkg/config"
	"github.com/ambernegi/rha/pkg/enums"
	"github.com/ambernegi/rha/pkg/logger"
	"github.com/ambernegi/rha/pkg/metrics"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubCatalog struct{}

func (stubCatalog) ListResources(context.Context) ([]resources.ResourceDTO, error) {
	return []resources.ResourceDTO{}, nil
}

func (stubCatalog) ListConfigurations(context.Context) ([]resources.ConfigurationDTO, error) {
	return []resources.ConfigurationDTO{}, nil
}

func (stubCatalog) CreateResource(context.Context, resources.CreateResourceInput) (*resources.ResourceDTO, error) {
	return &resources.ResourceDTO{}, nil
}

func (stubCatalog) CreateConfiguration(context.Context, resources.CreateConfigurationInput) (*resources.ConfigurationDTO, error) {
	return &resources.ConfigurationDTO{}, nil
}

type stubBookings struct{}

func (stubBookings) CreateBooking(context.Context, bookings.CreateBookingInput) (*bookings.BookingDTO, error) {
	return &bookings.BookingDTO{}, nil
}

func (stubBookings) Admit(context.Context, bookings.AdmissionRequest) (*bookings.BookingDTO, error) {
	return &bookings.BookingDTO{}, nil
}

func (stubBookings) TransitionBooking(context.Context, bookings.TransitionInput) (*bookings.BookingDTO, error) {
	return &bookings.BookingDTO{}, nil
}

func (stubBookings) GetBooking(_ context.Context, _ bookings.Actor, id uuid.UUID) (*bookings.BookingDTO, error) {
	return &bookings.BookingDTO{ID: id}, nil
}

func (stubBookings) ListBookings(context.Context, bookings.ListParams) (*bookings.ListResult, error) {
	return &bookings.ListResult{Bookings: []bookings.BookingDTO{}}, nil
}

func (stubBookings) ListAvailability(context.Context, bookings.AvailabilityQuery) ([]bookings.AvailabilitySlot, error) {
	return []bookings.AvailabilitySlot{}, nil
}

func testRouter(t *testing.T) (http.Handler, config.JWTConfig) {
	t.Helper()
	cfg := &config.Config{
		App: config.AppConfig{Env: "test", CORSOrigins: "http://localhost:3000"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "rha", ExpirationMinutes: 30},
	}
	blockSvc, err := blocks.NewService(stubBookings{})
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	router := NewRouter(cfg, logg, stubPinger{}, nil, reg, metrics.NewHTTPMetrics(reg), Services{
		Catalog:  stubCatalog{},
		Bookings: stubBookings{},
		Blocks:   blockSvc,
	})
	return router, cfg.JWT
}

func bearer(t *testing.T, cfg config.JWTConfig, role enums.ActorRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg, time.Now(), pkgAuth.AccessTokenPayload{UserID: uuid.New(), Role: role})
	require.NoError(t, err)
	return "Bearer " + token
}

func TestPublicRoutes(t *testing.T) {
	router, _ := testRouter(t)

	for _, path := range []string{
		"/health/live",
		"/health/ready",
		"/api/public/ping",
		"/api/public/resources",
		"/api/public/configurations",
		"/api/public/availability?configurationSlug=whole-villa",
	} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, resp.Code, path)
		assert.NotEmpty(t, resp.Header().Get("X-Request-Id"), path)
	}
}

func TestPrivateRoutesRequireToken(t *testing.T) {
	router, _ := testRouter(t)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestHostRoutesRequireHostRole(t *testing.T) {
	router, jwtCfg := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/host/bookings", nil)
	req.Header.Set("Authorization", bearer(t, jwtCfg, enums.ActorRoleGuest))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/host/bookings", nil)
	req.Header.Set("Authorization", bearer(t, jwtCfg, enums.ActorRoleHost))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestGuestCanCreateBooking(t *testing.T) {
	router, jwtCfg := testRouter(t)

	body := `{"configurationSlug":"whole-villa","startDate":"2025-06-01","endDate":"2025-06-03"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	req.Header.Set("Authorization", bearer(t, jwtCfg, enums.ActorRoleGuest))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusCreated, resp.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := testRouter(t)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/public/ping", nil))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "rha_http_requests_total")
}
