package rest

import (
	"net/http"

	"devicehub-backend/application/services"
	"devicehub-backend/interfaces/http/rest/handlers"
	"devicehub-backend/interfaces/http/rest/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	service *services.AssociationService
	logger  *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(service *services.AssociationService, logger *zap.Logger) *Router {
	return &Router{
		service: service,
		logger:  logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	// CORS configuration. The API is consumed by browser dashboards on
	// arbitrary origins, so any origin is allowed.
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	// Device endpoints
	router.Route("/device", func(r chi.Router) {
		deviceHandler := handlers.NewDeviceHandler(rt.service, rt.logger)
		r.Post("/", deviceHandler.AddDevice)
		r.Get("/", deviceHandler.ListDevices)
		r.Get("/{deviceID}", deviceHandler.GetDevice)
		r.Delete("/{deviceID}", deviceHandler.DeleteDevice)
		r.Put("/{deviceID}/telemetry", deviceHandler.UpdateTelemetry)
	})

	// User association endpoints
	router.Route("/user", func(r chi.Router) {
		userHandler := handlers.NewUserHandler(rt.service, rt.logger)
		r.Post("/", userHandler.LinkDevice)
		r.Delete("/", userHandler.UnlinkDevice)
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
