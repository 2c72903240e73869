package tracking

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	dayLabelLayout   = "Jan 02, 2006"
	monthLabelLayout = "Jan, 2006"
)

// Metric is a tracked quantity together with the period it is limited over.
type Metric string

const (
	Calories Metric = "calories"
	Price    Metric = "price"
)

// Granularity returns the period the metric's limit applies to.
func (m Metric) Granularity() Granularity {
	if m == Price {
		return Month
	}
	return Day
}

// Warning renders the threshold message for a bucket of this metric.
func (m Metric) Warning(b Bucket) string {
	if m == Price {
		return PriceWarning(b.Start, b.Total)
	}
	return CalorieWarning(b.Start, b.Total)
}

// CalorieWarning renders the daily calorie threshold message.
func CalorieWarning(day time.Time, amount decimal.Decimal) string {
	return fmt.Sprintf(
		"You Have Reached your daily Calorie Threshold Limit for day %s. Calorie amount on this day is %s",
		day.Format(dayLabelLayout), amount.String(),
	)
}

// PriceWarning renders the monthly price threshold message.
func PriceWarning(month time.Time, amount decimal.Decimal) string {
	return fmt.Sprintf(
		"You Have Reached your monthly price limit for month %s. Price amount on this month is %s",
		month.Format(monthLabelLayout), amount.String(),
	)
}

// SingleWarnings renders the pair of messages returned after a write. A nil
// bucket yields an empty message for that metric.
func SingleWarnings(calorie, price *Bucket) (string, string) {
	var calorieMsg, priceMsg string
	if calorie != nil {
		calorieMsg = Calories.Warning(*calorie)
	}
	if price != nil {
		priceMsg = Price.Warning(*price)
	}
	return calorieMsg, priceMsg
}
