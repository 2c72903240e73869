// Package model defines domain entities for the application.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role is the authorization role of a user.
type Role string

const (
	RoleUser  Role = "User"
	RoleAdmin Role = "Admin"
)

// User is a tracked person. A null limit disables the matching warning.
type User struct {
	ID           string              `json:"id"`
	Email        string              `json:"email"`
	UserName     string              `json:"user_name"`
	Role         Role                `json:"role"`
	CalorieLimit decimal.NullDecimal `json:"calorie_limit"`
	PriceLimit   decimal.NullDecimal `json:"price_limit"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// IsAdmin returns true if the user holds the Admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CalorieThreshold returns the daily calorie limit, or nil when unset.
func (u *User) CalorieThreshold() *decimal.Decimal {
	return threshold(u.CalorieLimit)
}

// PriceThreshold returns the monthly price limit, or nil when unset.
func (u *User) PriceThreshold() *decimal.Decimal {
	return threshold(u.PriceLimit)
}

func threshold(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}

// Limit wraps a value as a set limit.
func Limit(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
