package model

// AuthContext holds the authenticated caller for a request.
type AuthContext struct {
	UserID string
	Email  string
	Role   Role
}

// IsAdmin returns true if the caller holds the Admin role.
func (a *AuthContext) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}
