package auth

import (
	"errors"

	"github.com/caltrack/caltrack/internal/model"
)

// Authorization errors.
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("not allowed to access this resource")
)

// Authorize allows admins to act on anyone and users to act on themselves.
func Authorize(actor *model.AuthContext, targetUserID string) error {
	if actor == nil || actor.UserID == "" {
		return ErrUnauthenticated
	}
	if actor.IsAdmin() || actor.UserID == targetUserID {
		return nil
	}
	return ErrForbidden
}

// RequireRole checks that the actor holds role. Admins satisfy every role.
func RequireRole(actor *model.AuthContext, role model.Role) error {
	if actor == nil || actor.UserID == "" {
		return ErrUnauthenticated
	}
	if actor.IsAdmin() || actor.Role == role {
		return nil
	}
	return ErrForbidden
}
