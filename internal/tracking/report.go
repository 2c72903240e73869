package tracking

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportPeriod is the length of one report window.
const ReportPeriod = 7 * 24 * time.Hour

// Window is a time range used by reports. From is inclusive; To is
// inclusive only when IncludeEnd is set.
type Window struct {
	From       time.Time
	To         time.Time
	IncludeEnd bool
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	if t.Before(w.From) {
		return false
	}
	if w.IncludeEnd {
		return !t.After(w.To)
	}
	return t.Before(w.To)
}

// ReportWindows returns the current window [now-7d, now] and the prior
// window [now-14d, now-7d).
func ReportWindows(now time.Time) (current, prior Window) {
	boundary := now.Add(-ReportPeriod)
	current = Window{From: boundary, To: now, IncludeEnd: true}
	prior = Window{From: boundary.Add(-ReportPeriod), To: boundary}
	return current, prior
}

// UserRecord is a Record attributed to a user.
type UserRecord struct {
	UserID string
	Record
}

// WindowSummary is the calorie summary of one report window.
type WindowSummary struct {
	From            time.Time                  `json:"from"`
	To              time.Time                  `json:"to"`
	Entries         int                        `json:"entries"`
	Users           int                        `json:"users"`
	TotalCalories   decimal.Decimal            `json:"total_calories"`
	AverageCalories decimal.Decimal            `json:"average_calories"`
	PerUser         map[string]decimal.Decimal `json:"-"`
}

// SummarizeWindow sums the records inside w per user. The average is the
// total divided by the number of distinct users, and zero when there are
// none.
func SummarizeWindow(w Window, records []UserRecord) WindowSummary {
	summary := WindowSummary{
		From:            w.From,
		To:              w.To,
		TotalCalories:   decimal.Zero,
		AverageCalories: decimal.Zero,
		PerUser:         make(map[string]decimal.Decimal),
	}

	for _, r := range records {
		if !w.Contains(r.At) {
			continue
		}
		summary.Entries++
		summary.PerUser[r.UserID] = summary.PerUser[r.UserID].Add(r.Value)
		summary.TotalCalories = summary.TotalCalories.Add(r.Value)
	}

	summary.Users = len(summary.PerUser)
	if summary.Users > 0 {
		summary.AverageCalories = summary.TotalCalories.
			Div(decimal.NewFromInt(int64(summary.Users))).
			Round(2)
	}
	return summary
}
