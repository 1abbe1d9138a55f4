package middleware

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/zippy-link/zippy/internal/auth"
)

type contextKey string

// UserEmailKey is the context key holding the authenticated account email.
const UserEmailKey contextKey = "userEmail"

// SessionCookie is the cookie carrying the session token.
const SessionCookie = "auth_token"

// AuthMiddleware resolves the session cookie to an account identity.
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates an AuthMiddleware with the provided JWT service.
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// Identify puts the account email into the request context when a valid
// session cookie is present. Anonymous requests pass through unchanged;
// creation stays open to unauthenticated callers.
func (a *AuthMiddleware) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := a.jwtService.ValidateToken(cookie.Value)
		if err != nil {
			log.Debug().Err(err).Msg("Session cookie rejected, continuing anonymously")
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), UserEmailKey, claims.Email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth rejects requests without a valid session cookie.
func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		claims, err := a.jwtService.ValidateToken(cookie.Value)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserEmailKey, claims.Email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserEmailFromContext extracts the authenticated account email.
func GetUserEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(UserEmailKey).(string)
	return email, ok && email != ""
}
