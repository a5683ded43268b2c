package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pfcr/clubportal/internal/api/handler"
	"github.com/pfcr/clubportal/internal/api/middleware"
	"github.com/pfcr/clubportal/internal/k8s"
	"github.com/pfcr/clubportal/internal/metrics"
	"github.com/pfcr/clubportal/internal/rbac"
)

// Sessions resolves bearer tokens and signs users in and out.
type Sessions interface {
	middleware.SessionResolver
	handler.SessionService
}

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	K8sChecker  k8s.HealthChecker
	DBPinger    handler.DBPinger
	Version     string
	OpenAPI     *handler.OpenAPIHandler
	Metrics     *metrics.Metrics
	Sessions    Sessions
	Users       handler.UserDirectory
	Provisioner handler.AccountCreator
	Content     handler.ContentService
	Media       handler.MediaService
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	healthHandler := handler.NewHealthHandler(deps.K8sChecker, deps.DBPinger, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)

	if deps.OpenAPI != nil {
		r.Get("/openapi.json", deps.OpenAPI.ServeHTTP)
	}

	if deps.Sessions == nil {
		return r
	}

	authHandler := handler.NewAuthHandler(deps.Sessions)
	requireSession := middleware.Auth(deps.Sessions)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/sign-in", authHandler.SignIn)
		r.Group(func(r chi.Router) {
			r.Use(requireSession)
			r.Post("/sign-out", authHandler.SignOut)
			r.Get("/session", authHandler.Session)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(requireSession)

		r.Get("/navigation", handler.Navigation)

		if deps.Users != nil {
			userHandler := handler.NewUserHandler(deps.Users, deps.Provisioner)
			r.Route("/users", func(r chi.Router) {
				r.With(middleware.RequireCapability(rbac.ManageUsers)).Get("/", userHandler.List)
				if deps.Provisioner != nil {
					r.With(middleware.RequireCapability(rbac.ManageUsers)).Post("/", userHandler.Create)
				}
				r.Get("/{id}", userHandler.GetByID)
			})
			r.With(middleware.RequireCapability(rbac.ViewDashboard)).Get("/players", userHandler.Players)
		}

		if deps.Content != nil {
			contentHandler := handler.NewContentHandler(deps.Content)
			r.Route("/content", func(r chi.Router) {
				r.Get("/", contentHandler.List)
				r.Get("/{id}", contentHandler.GetByID)
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireCapability(rbac.ManageContent))
					r.Post("/", contentHandler.Create)
					r.Patch("/{id}", contentHandler.Update)
					r.Delete("/{id}", contentHandler.Delete)
				})
			})
		}

		if deps.Media != nil {
			mediaHandler := handler.NewMediaHandler(deps.Media)
			r.Get("/media/{catalog}", mediaHandler.List)
		}
	})

	return r
}
