package server

import (
	"log/slog"
	"net/http"

	"celestial-server/internal/catalog"
	catalogHandlers "celestial-server/internal/catalog/handlers"
	"celestial-server/internal/middleware"
	serverHandlers "celestial-server/internal/server/handlers"
	"celestial-server/internal/shared/database"
	"celestial-server/internal/shared/redis"
	"celestial-server/internal/system"
	systemHandlers "celestial-server/internal/system/handlers"
)

type Routes struct {
	db             *database.DB
	cache          *redis.Client
	catalogService *catalog.Service
	systemService  *system.Service
	authenticator  *middleware.Authenticator
	metrics        *middleware.Metrics
	metricsPath    string
}

func NewRoutes(
	db *database.DB,
	cache *redis.Client,
	catalogService *catalog.Service,
	systemService *system.Service,
	authenticator *middleware.Authenticator,
	metrics *middleware.Metrics,
	metricsPath string,
) *Routes {
	return &Routes{
		db:             db,
		cache:          cache,
		catalogService: catalogService,
		systemService:  systemService,
		authenticator:  authenticator,
		metrics:        metrics,
		metricsPath:    metricsPath,
	}
}

func (r *Routes) Setup() *http.ServeMux {
	logger := slog.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes")

	mux := http.NewServeMux()

	healthHandler := serverHandlers.NewHealthHandler(r.db, r.cache)
	bodyHandler := catalogHandlers.NewBodyHandler(r.catalogService)
	systemHandler := systemHandlers.NewSystemHandler(r.systemService)

	// Public endpoints
	mux.Handle("/api/server/health", healthHandler)
	mux.HandleFunc("/api/server/ready", healthHandler.Ready)
	mux.HandleFunc("/api/bodies/stats", bodyHandler.Stats)
	mux.HandleFunc("/api/bodies/{handle}", bodyHandler.Get)
	mux.HandleFunc("/api/bodies/{handle}/children", bodyHandler.GetChildren)
	mux.HandleFunc("/api/bodies/{handle}/ancestors", bodyHandler.GetAncestors)
	mux.HandleFunc("/api/systems", systemHandler.List)
	mux.HandleFunc("/api/systems/{star}", systemHandler.Get)

	// Admin-only endpoints (bearer token with admin role)
	mux.Handle("/api/bodies", r.authenticator.RequireAdmin(http.HandlerFunc(bodyHandler.Create)))
	mux.Handle("/api/systems/generate", r.authenticator.RequireAdmin(http.HandlerFunc(systemHandler.Generate)))

	if r.metrics != nil {
		mux.Handle(r.metricsPath, r.metrics.Handler())
	}

	logger.Info("Routes configured successfully",
		"public_endpoints", []string{
			"/api/server/health", "/api/server/ready", "/api/bodies/stats",
			"/api/bodies/{handle}", "/api/bodies/{handle}/children", "/api/bodies/{handle}/ancestors",
			"/api/systems", "/api/systems/{star}",
		},
		"admin_endpoints", []string{"/api/bodies", "/api/systems/generate"},
		"metrics_enabled", r.metrics != nil,
	)

	return mux
}
