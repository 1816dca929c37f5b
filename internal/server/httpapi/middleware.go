package httpapi

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/Francortiz-137/taskflow-backend/internal/common"
	"github.com/Francortiz-137/taskflow-backend/internal/server/auth"
	"github.com/Francortiz-137/taskflow-backend/internal/server/models"
	"github.com/Francortiz-137/taskflow-backend/internal/server/ratelimit"
)

type contextKey string

const identityContextKey contextKey = "identity"

// Identity is the authenticated caller attached to a request context.
type Identity struct {
	UserID  int64
	Subject string
	Role    models.UserRole
}

// IdentityFromContext returns the caller's identity, if the request carried
// a valid access token.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityContextKey).(*Identity)
	return id, ok
}

// Authenticate reads the Authorization header and, when it carries a fully
// valid bearer token, attaches the caller's Identity to the context. It
// never rejects: a missing, malformed, or partial token simply leaves the
// request unauthenticated, and downstream guards decide whether that
// matters. An identity already present on the context is kept as is.
func Authenticate(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := IdentityFromContext(r.Context()); ok {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get(common.AuthorizationHeaderName)
			if !strings.HasPrefix(header, common.BearerPrefix) {
				next.ServeHTTP(w, r)
				return
			}
			tokenString := strings.TrimPrefix(header, common.BearerPrefix)

			subject, okSubject := tokens.ExtractSubject(tokenString)
			userID, okUserID := tokens.ExtractUserID(tokenString)
			role, okRole := tokens.ExtractRole(tokenString)
			if !okSubject || !okUserID || !okRole {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey, &Identity{
				UserID:  userID,
				Subject: subject,
				Role:    role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects unauthenticated requests with 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFromContext(r.Context()); !ok {
			writeError(w, common.ErrorUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects authenticated callers lacking the given role with 403.
// Unauthenticated callers get 401.
func RequireRole(role models.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				writeError(w, common.ErrorUnauthorized)
				return
			}
			if id.Role != role {
				writeError(w, common.ErrorForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit rejects requests over the per-minute budget for their key with
// 429. An empty key or a zero limit disables the check.
func RateLimit(limiter ratelimit.Limiter, keyFn func(*http.Request) string, limit int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}
			if !limiter.Allow(r.Context(), keyFn(r), limit) {
				writeError(w, common.ErrRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP extracts the requester's address for rate-limit keying.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
