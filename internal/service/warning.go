package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/caltrack/caltrack/internal/auth"
	"github.com/caltrack/caltrack/internal/model"
	"github.com/caltrack/caltrack/internal/repository"
	"github.com/caltrack/caltrack/internal/tracking"
)

// WarningService lists the periods in which a user reached a limit.
type WarningService struct {
	entries EntryStore
	users   UserGetter
}

// NewWarningService creates a new WarningService.
func NewWarningService(entries EntryStore, users UserGetter) *WarningService {
	return &WarningService{entries: entries, users: users}
}

// WarningsInput defines input for listing warnings.
type WarningsInput struct {
	UserID   string
	Timezone string
	// Date, when set, restricts the listing to the day (calories) or
	// month (price) containing it.
	Date  *time.Time
	Page  int
	Limit int
}

// Warning is a period that reached the limit, with its rendered message.
type Warning struct {
	tracking.Bucket
	Message string `json:"message"`
}

// WarningPage is a page of warnings plus the limit they were judged by.
type WarningPage struct {
	model.Page[Warning]
	Threshold *decimal.Decimal `json:"threshold"`
}

// CalorieWarnings lists days whose calorie total reached the user's limit.
func (s *WarningService) CalorieWarnings(ctx context.Context, actor *model.AuthContext, input WarningsInput) (*WarningPage, error) {
	return s.list(ctx, actor, tracking.Calories, input)
}

// PriceWarnings lists months whose spending reached the user's limit.
func (s *WarningService) PriceWarnings(ctx context.Context, actor *model.AuthContext, input WarningsInput) (*WarningPage, error) {
	return s.list(ctx, actor, tracking.Price, input)
}

func (s *WarningService) list(ctx context.Context, actor *model.AuthContext, metric tracking.Metric, input WarningsInput) (*WarningPage, error) {
	target := input.UserID
	if target == "" && actor != nil {
		target = actor.UserID
	}
	if err := auth.Authorize(actor, target); err != nil {
		return nil, err
	}

	user, err := s.users.Get(ctx, target)
	if err != nil {
		return nil, err
	}

	loc := tracking.LoadLocation(input.Timezone)
	gran := metric.Granularity()

	opts := []repository.EntryFilterOption{repository.ForUser(user.ID)}
	if input.Date != nil {
		period := tracking.BucketOf(*input.Date, loc, gran)
		opts = append(opts, repository.TakenFrom(period.Start), repository.TakenBefore(period.End))
	}

	entries, err := s.entries.FindEntries(ctx, repository.NewEntryFilter(opts...))
	if err != nil {
		return nil, err
	}

	records := make([]tracking.Record, 0, len(entries))
	for _, e := range entries {
		value := e.Calories
		if metric == tracking.Price {
			value = e.Price
		}
		records = append(records, tracking.Record{At: e.DateTaken, Value: value})
	}

	limit := user.CalorieThreshold()
	if metric == tracking.Price {
		limit = user.PriceThreshold()
	}

	exceeded := tracking.Exceeded(tracking.Aggregate(records, gran, loc), limit)
	warnings := make([]Warning, 0, len(exceeded))
	for _, b := range exceeded {
		warnings = append(warnings, Warning{Bucket: b, Message: metric.Warning(b)})
	}

	return &WarningPage{
		Page:      tracking.Paginate(warnings, input.Page, input.Limit),
		Threshold: limit,
	}, nil
}
