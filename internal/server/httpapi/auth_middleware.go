package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/curexhq/curex/internal/common"
	"github.com/curexhq/curex/internal/server/models"
)

type contextKey string

const userContextKey contextKey = "currentUser"

// userFromContext returns the authenticated user set by RequireAccessToken.
func userFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userContextKey).(*models.User)
	return u, ok
}

// RequireAccessToken is the access guard: it extracts the bearer token from
// the Authorization header, resolves it to a user, and stores the user in
// the request context. Requests without a valid live access token never
// reach the protected handler.
func (s *Server) RequireAccessToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, common.ErrInvalidToken)
			return
		}

		user, err := s.auth.Authenticate(r.Context(), token)
		if err != nil {
			writeError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin gates admin-only routes. Must be mounted after
// RequireAccessToken.
func (s *Server) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userFromContext(r.Context())
		if !ok {
			writeError(w, common.ErrInvalidToken)
			return
		}
		if !user.IsAdmin {
			writeError(w, common.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return header[len(prefix):], true
}
