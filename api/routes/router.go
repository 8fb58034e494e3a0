package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ambernegi/rha/api/controllers"
	"github.com/ambernegi/rha/api/middleware"
	"github.com/ambernegi/rha/internal/blocks"
	"github.com/ambernegi/rha/internal/bookings"
	"github.com/ambernegi/rha/internal/resources"
	"github.com/ambernegi/rha/pkg/config"
	"github.com/ambernegi/rha/pkg/enums"
	"github.com/ambernegi/rha/pkg/logger"
	"github.com/ambernegi/rha/pkg/metrics"
	"github.com/ambernegi/rha/pkg/redis"
)

// Services groups the domain services the router exposes.
type Services struct {
	Catalog  resources.Service
	Bookings bookings.Service
	Blocks   blocks.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *redis.Client,
	gatherer prometheus.Gatherer,
	httpMetrics *metrics.HTTPMetrics,
	svc Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.AllowedOrigins()),
		middleware.Metrics(httpMetrics),
	)

	var (
		idempotencyStore redis.IdempotencyStore
		rateStore        *redis.Client
		readiness        = map[string]controllers.Pinger{"db": dbP}
	)
	if redisClient != nil {
		idempotencyStore = redisClient
		rateStore = redisClient
		readiness["redis"] = redisClient
	}
	bookingPolicy := middleware.NewRateLimitPolicy(
		"bookings",
		cfg.Booking.RateLimitWindow,
		cfg.Booking.RateLimitIPLimit,
		cfg.Booking.RateLimitUserLimit,
	)
	rateLimit := func(next http.Handler) http.Handler { return next }
	if rateStore != nil {
		rateLimit = middleware.RateLimit(bookingPolicy, rateStore, logg)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
		r.Get("/resources", controllers.PublicResources(svc.Catalog, logg))
		r.Get("/configurations", controllers.PublicConfigurations(svc.Catalog, logg))
		r.Get("/availability", controllers.PublicAvailability(svc.Bookings, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))
		r.Get("/ping", controllers.PrivatePing())

		r.Route("/bookings", func(r chi.Router) {
			r.Get("/", controllers.ListMyBookings(svc.Bookings, logg))
			r.With(rateLimit).Post("/", controllers.CreateBooking(svc.Bookings, logg))
			r.Get("/{bookingId}", controllers.GetBooking(svc.Bookings, logg))
			r.Post("/{bookingId}/cancel", controllers.CancelMyBooking(svc.Bookings, logg))
		})

		r.Route("/host", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.ActorRoleHost, logg))
			r.Get("/bookings", controllers.HostListBookings(svc.Bookings, logg))
			r.Patch("/bookings/{bookingId}", controllers.HostTransitionBooking(svc.Bookings, logg))
			r.Get("/blocks", controllers.HostListBlocks(svc.Blocks, logg))
			r.Post("/blocks", controllers.HostCreateBlock(svc.Blocks, logg))
			r.Delete("/blocks/{blockId}", controllers.HostCancelBlock(svc.Blocks, logg))
			r.Post("/resources", controllers.HostCreateResource(svc.Catalog, logg))
			r.Post("/configurations", controllers.HostCreateConfiguration(svc.Catalog, logg))
		})
	})

	return r
}
