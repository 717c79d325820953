package response

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"celestial-server/internal/shared/errors"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type errorPolicy struct {
	status  int
	level   slog.Level
	message string
}

// Client mistakes log at debug, auth failures at warn and anything the
// operator must look at at error.
var policies = map[errors.ErrorType]errorPolicy{
	errors.ErrorTypeNotFound:         {http.StatusNotFound, slog.LevelDebug, "Resource not found"},
	errors.ErrorTypeValidation:       {http.StatusBadRequest, slog.LevelDebug, "Client error"},
	errors.ErrorTypeMethodNotAllowed: {http.StatusMethodNotAllowed, slog.LevelDebug, "Client error"},
	errors.ErrorTypeRateLimited:      {http.StatusTooManyRequests, slog.LevelDebug, "Client error"},
	errors.ErrorTypeConflict:         {http.StatusConflict, slog.LevelInfo, "Conflict error"},
	errors.ErrorTypeUnauthorized:     {http.StatusUnauthorized, slog.LevelWarn, "Authorization error"},
	errors.ErrorTypeForbidden:        {http.StatusForbidden, slog.LevelWarn, "Authorization error"},
	errors.ErrorTypeUnavailable:      {http.StatusServiceUnavailable, slog.LevelError, "Backing service unavailable"},
}

var internalPolicy = errorPolicy{http.StatusInternalServerError, slog.LevelError, "Internal server error"}

func policyFor(errorType errors.ErrorType) errorPolicy {
	if p, ok := policies[errorType]; ok {
		return p
	}
	return internalPolicy
}

// Error logs err once and writes it as JSON. Handlers and middleware
// report failures only through here.
func Error(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	errorType := errors.GetType(err)
	policy := policyFor(errorType)

	logger.Log(r.Context(), policy.level, policy.message,
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr,
		"error_type", errorType,
		"status_code", policy.status,
		"error", err,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(policy.status)
	// the status is already sent, an encoding failure cannot be reported
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:   string(errorType),
		Message: err.Error(),
		Code:    policy.status,
	})
}

func Success(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}
