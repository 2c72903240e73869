package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AmountPlaces is the number of decimal places amounts are stored with.
const AmountPlaces = 2

// FoodEntry is a single consumption record.
type FoodEntry struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	FoodName  string          `json:"food_name"`
	Calories  decimal.Decimal `json:"calories"`
	Price     decimal.Decimal `json:"price"`
	DateTaken time.Time       `json:"date_taken"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	// UserName is filled from the users table on listings; not persisted.
	UserName string `json:"-"`
}

// RoundAmount rounds an amount half away from zero to AmountPlaces.
func RoundAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(AmountPlaces)
}
