// Package rest wires the HTTP surface of the service.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"snaptales/infrastructure/config"
	"snaptales/interfaces/http/rest/handlers"
	"snaptales/interfaces/http/rest/middleware"
	"snaptales/pkg/auth"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg       config.Config
	validator *auth.JWTValidator
	auth      *handlers.AuthHandler
	profiles  *handlers.ProfileHandler
	couples   *handlers.CoupleHandler
	memories  *handlers.MemoryHandler
	media     *handlers.MediaHandler
	logger    *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg config.Config,
	validator *auth.JWTValidator,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	coupleHandler *handlers.CoupleHandler,
	memoryHandler *handlers.MemoryHandler,
	mediaHandler *handlers.MediaHandler,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:       cfg,
		validator: validator,
		auth:      authHandler,
		profiles:  profileHandler,
		couples:   coupleHandler,
		memories:  memoryHandler,
		media:     mediaHandler,
		logger:    logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   rt.cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	router.Route("/api/v1", func(r chi.Router) {
		// Account lifecycle endpoints take no bearer token.
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", rt.auth.Signup)
			r.Post("/login", rt.auth.Login)
			r.Post("/verification/request", rt.auth.RequestVerification)
			r.Post("/verification/confirm", rt.auth.ConfirmVerification)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Authenticate(rt.validator, rt.logger))
				r.Post("/logout", rt.auth.Logout)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(rt.validator, rt.logger))

			r.Route("/profiles", func(r chi.Router) {
				r.Get("/me", rt.profiles.Me)
				r.Put("/me", rt.profiles.Update)
				r.Put("/me/avatar", rt.profiles.SetAvatar)
			})

			r.Route("/couples", func(r chi.Router) {
				r.Post("/", rt.couples.Pair)
				r.Get("/current", rt.couples.Current)
				r.Delete("/current", rt.couples.Disconnect)
				r.Put("/current/name", rt.couples.Rename)

				r.Get("/{coupleID}/memories", rt.memories.List)
				r.Get("/{coupleID}/timeline", rt.memories.Timeline)
			})

			r.Post("/memories", rt.memories.Create)

			r.Route("/media", func(r chi.Router) {
				r.Post("/", rt.media.Upload)
				r.Get("/{ref}/url", rt.media.ResolveURL)
				r.Delete("/{ref}", rt.media.Delete)
			})
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
