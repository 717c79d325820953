package response

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"celestial-server/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMapsTypeToStatus(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cases := map[int]error{
		http.StatusNotFound:            errors.NotFoundf("body %s not found", "planet:3"),
		http.StatusBadRequest:          errors.Validation("invalid handle"),
		http.StatusConflict:            errors.Conflictf("body exists"),
		http.StatusUnauthorized:        errors.Unauthorized("token required"),
		http.StatusForbidden:           errors.Forbidden("admin only"),
		http.StatusMethodNotAllowed:    errors.MethodNotAllowed(http.MethodPut),
		http.StatusServiceUnavailable:  errors.Unavailable("database down", io.EOF),
		http.StatusTooManyRequests:     errors.RateLimited("slow down"),
		http.StatusInternalServerError: io.ErrUnexpectedEOF,
	}

	for status, err := range cases {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/bodies/star:1", nil)

		Error(rec, req, logger, err)

		assert.Equal(t, status, rec.Code)
		var body ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, status, body.Code)
		assert.Equal(t, string(errors.GetType(err)), body.Error)
	}
}

func TestErrorLogLevels(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, policyFor(errors.ErrorTypeValidation).level)
	assert.Equal(t, slog.LevelWarn, policyFor(errors.ErrorTypeForbidden).level)
	assert.Equal(t, slog.LevelError, policyFor(errors.ErrorTypeUnavailable).level)
	assert.Equal(t, internalPolicy, policyFor("unknown"))
}

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, http.StatusCreated, map[string]string{"handle": "star:1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"handle":"star:1"}`, rec.Body.String())
}
