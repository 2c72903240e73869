package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/caltrack/caltrack/internal/handler"
	"github.com/caltrack/caltrack/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Root     *handler.Handler
	Health   *handler.HealthHandler
	Metrics  *handler.MetricsHandler
	Entries  *handler.EntryHandler
	Users    *handler.UserHandler
	Warnings *handler.WarningHandler
	Reports  *handler.ReportHandler
}

// RouterConfig holds the middleware settings for NewRouter.
type RouterConfig struct {
	Logger    *slog.Logger
	Auth      middleware.AuthConfig
	RateLimit middleware.RateLimitConfig
	Security  middleware.SecurityConfig
	CORS      middleware.CORSConfig
}

// NewRouter configures the chi router with all routes and middleware.
func NewRouter(h Handlers, cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.Logger))
	r.Use(middleware.Security(cfg.Security))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.MaxBodySize(cfg.Security.MaxRequestBodySize))

	// Public endpoints
	r.Get("/", h.Root.Hello)
	r.Get("/healthz", h.Health.Healthz)
	r.Get("/readyz", h.Health.Readyz)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimitIP(cfg.RateLimit))
		r.Use(middleware.Auth(cfg.Auth))
		r.Use(middleware.RateLimitUser(cfg.RateLimit))

		r.With(middleware.RequireAdmin()).Get("/metrics", h.Metrics.Metrics)

		r.Route("/api/foodEntry", func(r chi.Router) {
			r.Post("/create", h.Entries.Create)
			r.Get("/user", h.Entries.ListForUser)
			r.Get("/user/days", h.Entries.ListDays)
			r.With(middleware.RequireAdmin()).Get("/allUsers", h.Entries.ListAll)
			r.Get("/{id}", h.Entries.Get)
			r.Put("/{id}", h.Entries.Update)
			r.Delete("/{id}", h.Entries.Delete)
		})

		r.Route("/api/users", func(r chi.Router) {
			r.Get("/getUserByToken", h.Users.Me)
			r.Get("/warning/calorie", h.Warnings.Calorie)
			r.Get("/warning/price", h.Warnings.Price)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin())
				r.Post("/create", h.Users.Create)
				r.Get("/getUserToken", h.Users.Token)
				r.Get("/allUsers", h.Users.List)
				r.Get("/report", h.Reports.Fleet)
				r.Get("/report/{id}", h.Reports.ForUser)
				r.Delete("/{id}", h.Users.Delete)
				r.Patch("/{id}/limits", h.Users.UpdateLimits)
			})
		})
	})

	// 404 and 405 handlers
	r.NotFound(h.Root.NotFound)
	r.MethodNotAllowed(h.Root.MethodNotAllowed)

	return r
}
