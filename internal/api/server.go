// Package api provides the HTTP API server and handlers for the MeetLog application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/meetlogapp/meetlog-server/internal/live"
	"github.com/meetlogapp/meetlog-server/internal/service"
	"github.com/meetlogapp/meetlog-server/internal/store"
	"github.com/meetlogapp/meetlog-server/internal/validation"
)

// Services groups the business logic services used by the API server.
type Services struct {
	Sync    *service.SyncService
	Contact *service.ContactService
	People  *service.PeopleService
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store     store.Store
	services  *Services
	registry  *live.Registry
	router    *chi.Mux
	api       huma.API
	validator *validation.Validator
	logger    *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st store.Store, services *Services, registry *live.Registry, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	humaConfig := huma.DefaultConfig("MeetLog API", "1.0.0")
	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:     st,
		services:  services,
		registry:  registry,
		router:    router,
		api:       api,
		validator: validation.New(),
		logger:    logger,
	}

	s.registerHealthRoutes()
	s.registerEventRoutes()
	s.registerContactRoutes()
	s.registerPeopleRoutes()
	s.registerStreamRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
