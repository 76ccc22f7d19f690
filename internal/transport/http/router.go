package http

import (
	"net/http"

	applicationapp "github.com/careerhub-api/internal/application/application"
	"github.com/careerhub-api/internal/application/event"
	"github.com/careerhub-api/internal/application/notifier"
	"github.com/careerhub-api/internal/application/registration"
	"github.com/careerhub-api/internal/config"
	"github.com/careerhub-api/internal/domain"
	"github.com/careerhub-api/internal/transport/http/handler"
	appmiddleware "github.com/careerhub-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10, applied to the public verification
	// endpoint so a leaked link cannot be used to hammer the token index.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	notifSvc := notifier.NewService(deps.NotificationRepo, deps.Publisher, deps.Logger)
	applicationSvc := applicationapp.NewService(applicationapp.ServiceDeps{
		ApplicationRepo: deps.ApplicationRepo,
		ArtifactStore:   deps.ArtifactStore,
		Calendar:        calendarOrNil(deps.Calendar),
		Notifier:        notifSvc,
		Logger:          deps.Logger,
	})
	registrationSvc := registration.NewService(registration.ServiceDeps{
		RegistrationRepo: deps.RegistrationRepo,
		EventRepo:        deps.EventRepo,
		Mailer:           deps.Mailer,
		FrontendBaseURL:  cfg.FrontendBaseURL,
		TokenTTL:         cfg.VerificationTTL,
		Logger:           deps.Logger,
	})
	eventSvc := event.NewService(deps.EventRepo)

	healthH := handler.NewHealthHandler()
	applicationH := handler.NewApplicationHandler(applicationSvc)
	registrationH := handler.NewRegistrationHandler(registrationSvc)
	notifH := handler.NewNotificationHandler(notifSvc)
	eventH := handler.NewEventHandler(eventSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check", healthH.Ping)
		r.Get("/events", eventH.List)
		r.Get("/events/{id}", eventH.Get)
		r.With(sensitiveRL.Limit).Get("/verify-event-registration", registrationH.VerifyEmail)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			// Any authenticated subject
			r.Get("/notifications", notifH.ListUnread)
			r.Put("/notifications/read-all", notifH.MarkAllAsRead)
			r.Put("/notifications/{id}", notifH.MarkAsRead)

			// Applicant routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleUser))

				r.Post("/applications", applicationH.Submit)
				r.Get("/applications", applicationH.ListMine)
				r.Delete("/applications/{id}", applicationH.DeleteMine)

				r.Post("/event-registrations", registrationH.Submit)
				r.Get("/event-registrations", registrationH.ListMine)
				r.Delete("/event-registrations/{id}", registrationH.Cancel)
			})

			// Company routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleCompany))

				r.Get("/company/applications", applicationH.ListForCompany)
				r.Put("/company/applications/{id}/status", applicationH.UpdateStatus)
				r.Delete("/company/applications/{id}", applicationH.DeleteForCompany)
			})

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Post("/events", eventH.Create)
			})
		})
	})

	return r
}
