package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"celestial-server/internal/auth"
	"celestial-server/internal/shared/errors"
	"celestial-server/internal/shared/response"
)

type contextKey string

const ClaimsContextKey contextKey = "claims"

type Authenticator struct {
	tokens *auth.TokenManager
}

func NewAuthenticator(tokens *auth.TokenManager) *Authenticator {
	return &Authenticator{tokens: tokens}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func (a *Authenticator) JWTMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := slog.With(
			"middleware", "jwt",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)
		logger.Debug("Processing JWT authentication")

		token, ok := bearerToken(r)
		if !ok {
			response.Error(w, r, logger, errors.Unauthorized("authentication required"))
			return
		}

		claims, err := a.tokens.Validate(token)
		if err != nil {
			response.Error(w, r, logger, errors.Unauthorized("invalid token"))
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		logger.Debug("JWT authentication successful", "subject", claims.Subject)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin chains token validation and the admin role check.
func (a *Authenticator) RequireAdmin(next http.Handler) http.Handler {
	return a.JWTMiddleware(AdminMiddleware(next))
}

func GetClaimsFromContext(r *http.Request) *auth.Claims {
	if claims, ok := r.Context().Value(ClaimsContextKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}
