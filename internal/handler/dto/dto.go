// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/caltrack/caltrack/internal/model"
	"github.com/caltrack/caltrack/internal/service"
)

// EntryRequest is the body of POST /api/foodEntry/create and
// PUT /api/foodEntry/{id}. DateTaken accepts RFC 3339 or YYYY-MM-DD.
type EntryRequest struct {
	UserID    string           `json:"user_id,omitempty"`
	FoodName  string           `json:"food_name"`
	Calories  *decimal.Decimal `json:"calories"`
	Price     *decimal.Decimal `json:"price"`
	DateTaken string           `json:"date_taken"`
	Timezone  string           `json:"timezone,omitempty"`
}

// EntryResponse represents a food entry in API responses.
type EntryResponse struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	UserName  string          `json:"user_name,omitempty"`
	FoodName  string          `json:"food_name"`
	Calories  decimal.Decimal `json:"calories"`
	Price     decimal.Decimal `json:"price"`
	DateTaken time.Time       `json:"date_taken"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// EntryMutationResponse is returned by create and update. The warning
// fields are empty when the limit was not reached.
type EntryMutationResponse struct {
	Message              string         `json:"message"`
	CalorieLimitExceeded string         `json:"calorie_limit_exceeded"`
	PriceLimitExceeded   string         `json:"price_limit_exceeded"`
	FoodEntry            *EntryResponse `json:"food_entry"`
}

// EntryListResponse wraps a page of entries.
type EntryListResponse struct {
	FoodEntries model.Page[*EntryResponse] `json:"food_entries"`
}

// DayListResponse wraps a page of daily totals.
type DayListResponse struct {
	FoodEntriesDays model.Page[service.DayTotal] `json:"food_entries_days"`
}

// MessageResponse carries a plain confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// DeleteUserResponse confirms a user deletion.
type DeleteUserResponse struct {
	Message        string `json:"message"`
	EntriesDeleted int64  `json:"entries_deleted"`
}

// CreateUserRequest is the body of POST /api/users/create.
type CreateUserRequest struct {
	Email    string `json:"email"`
	UserName string `json:"user_name"`
}

// UserTokenResponse is a user together with an access token.
type UserTokenResponse struct {
	Message string      `json:"message,omitempty"`
	User    *model.User `json:"user"`
	Token   string      `json:"token"`
}

// UserResponse wraps a single user.
type UserResponse struct {
	Message string      `json:"message,omitempty"`
	User    *model.User `json:"user"`
}

// UserListResponse wraps a page of users.
type UserListResponse struct {
	Users model.Page[*model.User] `json:"users"`
}

// OptionalDecimal tells an absent JSON field apart from an explicit null.
type OptionalDecimal struct {
	Set   bool
	Value decimal.NullDecimal
}

// UnmarshalJSON records presence; null clears the value.
func (o *OptionalDecimal) UnmarshalJSON(b []byte) error {
	o.Set = true
	return o.Value.UnmarshalJSON(b)
}

// Ptr returns nil when the field was absent.
func (o OptionalDecimal) Ptr() *decimal.NullDecimal {
	if !o.Set {
		return nil
	}
	v := o.Value
	return &v
}

// UpdateLimitsRequest is the body of PATCH /api/users/{id}/limits. An
// omitted field is left unchanged; null removes the limit.
type UpdateLimitsRequest struct {
	CalorieLimit OptionalDecimal `json:"calorie_limit"`
	PriceLimit   OptionalDecimal `json:"price_limit"`
}

// WarningsResponse wraps a page of warnings for one user.
type WarningsResponse struct {
	UserID   string               `json:"user_id"`
	Warnings *service.WarningPage `json:"warnings"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ToEntryResponse converts a FoodEntry model to EntryResponse DTO.
func ToEntryResponse(e *model.FoodEntry) *EntryResponse {
	return &EntryResponse{
		ID:        e.ID,
		UserID:    e.UserID,
		UserName:  e.UserName,
		FoodName:  e.FoodName,
		Calories:  e.Calories,
		Price:     e.Price,
		DateTaken: e.DateTaken,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// ToEntryListResponse converts a page of entries.
func ToEntryListResponse(page model.Page[*model.FoodEntry]) *EntryListResponse {
	items := make([]*EntryResponse, 0, len(page.Items))
	for _, e := range page.Items {
		items = append(items, ToEntryResponse(e))
	}
	return &EntryListResponse{FoodEntries: model.Page[*EntryResponse]{
		Items:      items,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalCount: page.TotalCount,
	}}
}

// ToEntryMutationResponse converts a create or update result.
func ToEntryMutationResponse(message string, res *service.EntryResult) *EntryMutationResponse {
	return &EntryMutationResponse{
		Message:              message,
		CalorieLimitExceeded: res.CalorieWarning,
		PriceLimitExceeded:   res.PriceWarning,
		FoodEntry:            ToEntryResponse(res.Entry),
	}
}
