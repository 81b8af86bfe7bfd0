package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/shoplist/internal/auth"
	"github.com/dukerupert/shoplist/internal/model"
)

// UserLookup resolves the subject of a verified token to a live user.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// BearerToken returns the token from the Authorization header, or from the
// "token" query parameter for clients that cannot set headers (websockets).
func BearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return r.URL.Query().Get("token")
}

// RequireAuth verifies the bearer token, loads the user it names and
// populates AuthContext. The role comes from the database, not the token.
func RequireAuth(tokens *auth.TokenIssuer, users UserLookup, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := BearerToken(r)
			if raw == "" {
				writeJSONError(w, http.StatusUnauthorized, "unauthenticated", "missing bearer token")
				return
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				if !errors.Is(err, auth.ErrInvalidToken) {
					logger.Error("verify token", "error", err)
				}
				writeJSONError(w, http.StatusUnauthorized, "unauthenticated", "invalid or expired token")
				return
			}

			user, err := users.GetByID(r.Context(), claims.Subject)
			if err != nil {
				logger.Error("load token user", "error", err, "user_id", claims.Subject)
				writeJSONError(w, http.StatusServiceUnavailable, "unavailable", "failed to load user")
				return
			}
			if user == nil {
				writeJSONError(w, http.StatusUnauthorized, "unauthenticated", "unknown user")
				return
			}

			ac := claims.Context()
			ac.Email = user.Email
			ac.Role = user.Role

			ctx := auth.WithAuth(r.Context(), ac)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin checks that the authenticated user has the admin role.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.IsAdmin(r.Context()) {
			writeJSONError(w, http.StatusForbidden, "forbidden", "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
