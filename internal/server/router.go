package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/shashi-bhusan/fitpreneurs/internal/config"
	"github.com/shashi-bhusan/fitpreneurs/internal/domain"
	"github.com/shashi-bhusan/fitpreneurs/internal/handler"
	"github.com/shashi-bhusan/fitpreneurs/internal/metrics"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Health        handler.HealthHandler
	Auth          handler.AuthHandler
	Customers     handler.CustomerHandler
	Revenue       handler.RevenueHandler
	Employees     handler.EmployeeHandler
	Exports       handler.ExportHandler
	Notifications handler.NotificationHandler
}

// NewRouter wires HTTP routes and middleware.
func NewRouter(cfg config.Config, logger *slog.Logger, verifier TokenVerifier, h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(metrics.InstrumentHandler)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if cfg.RateLimit > 0 {
		r.Use(httprate.LimitByIP(cfg.RateLimit, 1*time.Minute))
	}

	h.Health.RegisterRoutes(r)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(api chi.Router) {
		h.Auth.RegisterRoutes(api)

		api.Group(func(pr chi.Router) {
			pr.Use(AuthMiddleware(verifier))
			h.Auth.RegisterProtectedRoutes(pr)
			// staff-level (staff/manager/admin)
			pr.Group(func(sr chi.Router) {
				sr.Use(RequireRole(domain.RoleAdmin, domain.RoleManager, domain.RoleStaff))
				h.Customers.RegisterRoutes(sr)
				h.Employees.RegisterRoutes(sr)
			})
			// manager-level (manager/admin)
			pr.Group(func(mr chi.Router) {
				mr.Use(RequireRole(domain.RoleAdmin, domain.RoleManager))
				h.Customers.RegisterManagerRoutes(mr)
				h.Revenue.RegisterRoutes(mr)
				h.Employees.RegisterManagerRoutes(mr)
				h.Exports.RegisterRoutes(mr)
				h.Notifications.RegisterRoutes(mr)
			})
			pr.Group(func(ar chi.Router) {
				ar.Use(RequireRole(domain.RoleAdmin))
				h.Auth.RegisterAdminRoutes(ar)
			})
		})
	})

	return r
}
