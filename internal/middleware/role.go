package middleware

import (
	"errors"
	"net/http"

	"github.com/caltrack/caltrack/internal/auth"
	"github.com/caltrack/caltrack/internal/model"
)

// RequireRole returns middleware that only lets callers with role through.
// Must be applied after Auth middleware. Admins satisfy every role.
func RequireRole(role model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := auth.RequireRole(auth.AuthFromContext(r.Context()), role)
			switch {
			case err == nil:
				next.ServeHTTP(w, r)
			case errors.Is(err, auth.ErrUnauthenticated):
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "authentication required")
			default:
				writeError(w, http.StatusForbidden, CodeForbidden, "insufficient permissions: requires role "+string(role))
			}
		})
	}
}

// RequireAdmin is a convenience middleware for the Admin role.
func RequireAdmin() func(http.Handler) http.Handler {
	return RequireRole(model.RoleAdmin)
}
