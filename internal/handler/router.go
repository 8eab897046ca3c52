package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yourorg/hireloop/internal/observability/metrics"
	"github.com/yourorg/hireloop/internal/security"
	"github.com/yourorg/hireloop/internal/security/middleware"
)

// RouterDeps carries everything the router wires together.
type RouterDeps struct {
	Jobs         *JobHandler
	Apply        *ApplyHandler
	Applications *ApplicationHandler
	Portal       *PortalHandler
	Events       *EventsHandler
	Health       *HealthHandler

	Authz       *security.AuthorizationService
	StaffAuth   func(http.Handler) http.Handler
	PortalLimit func(http.Handler) http.Handler
	Audit       func(http.Handler) http.Handler

	CORSAllowedOrigins []string
	PipelineStream     bool

	Logger *slog.Logger
}

// NewRouter builds the HTTP routing table.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(corsMiddleware(deps.CORSAllowedOrigins))

	// Probes and metrics sit outside auth, rate limiting and instrumentation.
	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(metrics.HTTPMetricsMiddleware)
		r.Use(middleware.ValidateJSONContentType(deps.Logger))

		// Public portal.
		r.Group(func(r chi.Router) {
			r.Use(deps.PortalLimit)

			r.Get("/api/jobs", deps.Jobs.ListPublic)
			r.Get("/api/jobs/{id}", deps.Jobs.GetPublic)
			r.Post("/api/jobs/{id}/apply", deps.Apply.Apply)

			r.Get("/api/portal/my-applications", deps.Portal.MyApplications)
			r.Post("/api/portal/recover", deps.Portal.Recover)
			r.Post("/api/portal/logout", deps.Portal.Logout)
		})

		// Staff dashboard.
		r.Route("/api/staff", func(r chi.Router) {
			r.Use(deps.StaffAuth)
			r.Use(deps.Audit)

			r.With(middleware.RequireCapability(deps.Authz, security.CapManageJobs)).
				Post("/jobs", deps.Jobs.Create)
			r.With(middleware.RequireCapability(deps.Authz, security.CapManageJobs)).
				Put("/jobs/{id}", deps.Jobs.Update)
			r.With(middleware.RequireCapability(deps.Authz, security.CapViewPipeline)).
				Get("/jobs", deps.Jobs.ListStaff)

			r.With(middleware.RequireCapability(deps.Authz, security.CapViewPipeline)).
				Get("/applications", deps.Applications.List)
			r.With(middleware.RequireCapability(deps.Authz, security.CapViewPipeline)).
				Get("/applications/{id}", deps.Applications.Get)
			r.With(middleware.RequireCapability(deps.Authz, security.CapManagePipeline)).
				Patch("/applications/{id}/stage", deps.Applications.UpdateStage)
			r.With(middleware.RequireCapability(deps.Authz, security.CapManagePipeline)).
				Put("/applications/{id}/notes", deps.Applications.UpdateNotes)
			r.With(middleware.RequireCapability(deps.Authz, security.CapManagePipeline)).
				Post("/applications/{id}/slots", deps.Applications.CreateSlot)
		})
	})

	// The websocket route bypasses the metrics middleware: the wrapped
	// writer does not implement http.Hijacker.
	if deps.PipelineStream {
		r.Handle("/ws/pipeline", deps.Events)
	}

	return r
}

func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && allowed[origin] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
