package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"celestial-server/internal/shared/database"
	"celestial-server/internal/shared/errors"
	"celestial-server/internal/shared/redis"
	"celestial-server/internal/shared/response"
)

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
	Cache     string `json:"cache"`
}

type HealthHandler struct {
	db    *database.DB
	cache *redis.Client
}

// NewHealthHandler accepts a nil cache when Redis is disabled.
func NewHealthHandler(db *database.DB, cache *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) check(ctx context.Context, logger *slog.Logger) HealthResponse {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	dbStatus := "disconnected"
	if err := h.db.PingContext(ctx); err == nil {
		dbStatus = "connected"
	} else {
		logger.Warn("Database ping failed", "error", err)
	}

	cacheStatus := "disabled"
	if h.cache != nil {
		cacheStatus = "disconnected"
		if err := h.cache.Ping(ctx).Err(); err == nil {
			cacheStatus = "connected"
		} else {
			logger.Warn("Redis ping failed", "error", err)
		}
	}

	return HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Database:  dbStatus,
		Cache:     cacheStatus,
	}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "health")
	response.Success(w, http.StatusOK, h.check(r.Context(), logger))
}

// Ready fails with 503 while the database is unreachable. A missing cache
// only degrades performance and does not fail readiness.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "ready")

	status := h.check(r.Context(), logger)
	if status.Database != "connected" {
		response.Error(w, r, logger, errors.Unavailable("database unavailable", nil))
		return
	}

	status.Status = "ready"
	response.Success(w, http.StatusOK, status)
}
