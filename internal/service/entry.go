package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/caltrack/caltrack/internal/auth"
	"github.com/caltrack/caltrack/internal/metrics"
	"github.com/caltrack/caltrack/internal/model"
	"github.com/caltrack/caltrack/internal/repository"
	"github.com/caltrack/caltrack/internal/tracking"
)

const maxFoodNameLength = 255

// maxAmount is the first value that no longer fits NUMERIC(12,2).
var maxAmount = decimal.New(1, 10)

// EntryService handles food entry business logic.
type EntryService struct {
	entries EntryStore
	users   UserGetter
	metrics metrics.Recorder
}

// NewEntryService creates a new EntryService.
func NewEntryService(entries EntryStore, users UserGetter, recorder metrics.Recorder) *EntryService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &EntryService{
		entries: entries,
		users:   users,
		metrics: recorder,
	}
}

// EntryInput defines input for creating or replacing an entry.
type EntryInput struct {
	// UserID is the owner. Empty means the caller on create and the
	// current owner on update.
	UserID    string
	FoodName  string
	Calories  *decimal.Decimal
	Price     *decimal.Decimal
	DateTaken *time.Time
	// Timezone decides the day and month the entry counts toward.
	Timezone string
}

// EntryResult is a saved entry together with any threshold warnings its
// day or month reached.
type EntryResult struct {
	Entry          *model.FoodEntry
	CalorieWarning string
	PriceWarning   string
}

// Create validates and stores a new entry, then evaluates the owner's
// daily calorie and monthly price limits.
func (s *EntryService) Create(ctx context.Context, actor *model.AuthContext, input EntryInput) (*EntryResult, error) {
	if err := validateEntry(input); err != nil {
		return nil, err
	}

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

	ts := utcNow()
	entry := &model.FoodEntry{
		ID:        newID(),
		UserID:    user.ID,
		FoodName:  strings.TrimSpace(input.FoodName),
		Calories:  model.RoundAmount(*input.Calories),
		Price:     model.RoundAmount(*input.Price),
		DateTaken: input.DateTaken.UTC(),
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	if err := s.entries.CreateEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create food entry: %w", err)
	}
	s.metrics.IncEntryCreated()

	return s.evaluate(ctx, user, entry, input.Timezone)
}

// Update replaces every field of an existing entry and re-evaluates the
// limits for the entry's new day and month.
func (s *EntryService) Update(ctx context.Context, actor *model.AuthContext, id string, input EntryInput) (*EntryResult, error) {
	if err := validateEntry(input); err != nil {
		return nil, err
	}

	existing, err := s.entries.GetEntry(ctx, id)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if err := auth.Authorize(actor, existing.UserID); err != nil {
		return nil, err
	}

	target := input.UserID
	if target == "" {
		target = existing.UserID
	}
	if err := auth.Authorize(actor, target); err != nil {
		return nil, err
	}

	user, err := s.users.Get(ctx, target)
	if err != nil {
		return nil, err
	}

	entry := &model.FoodEntry{
		ID:        existing.ID,
		UserID:    user.ID,
		FoodName:  strings.TrimSpace(input.FoodName),
		Calories:  model.RoundAmount(*input.Calories),
		Price:     model.RoundAmount(*input.Price),
		DateTaken: input.DateTaken.UTC(),
		CreatedAt: existing.CreatedAt,
		UpdatedAt: utcNow(),
	}

	if err := s.entries.UpdateEntry(ctx, entry); err != nil {
		return nil, mapStoreError(err)
	}
	s.metrics.IncEntryUpdated()

	return s.evaluate(ctx, user, entry, input.Timezone)
}

// evaluate sums the owner's entries for the day and month of entry and
// renders a warning for each limit that was reached.
func (s *EntryService) evaluate(ctx context.Context, user *model.User, entry *model.FoodEntry, timezone string) (*EntryResult, error) {
	started := time.Now()
	defer func() {
		s.metrics.ObserveAggregationDuration(time.Since(started))
	}()

	loc := tracking.LoadLocation(timezone)
	day := tracking.BucketOf(entry.DateTaken, loc, tracking.Day)
	month := tracking.BucketOf(entry.DateTaken, loc, tracking.Month)

	// The month always contains the day, so one query serves both.
	entries, err := s.entries.FindEntries(ctx, repository.NewEntryFilter(
		repository.ForUser(user.ID),
		repository.TakenFrom(month.Start),
		repository.TakenBefore(month.End),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to load entries for threshold check: %w", err)
	}

	var calories, prices []tracking.Record
	for _, e := range entries {
		calories = append(calories, tracking.Record{At: e.DateTaken, Value: e.Calories})
		prices = append(prices, tracking.Record{At: e.DateTaken, Value: e.Price})
	}
	day.Total = tracking.Totals(calories, tracking.Day, loc)[day.Key]
	month.Total = tracking.Sum(prices)

	calorieHit := tracking.First(tracking.Exceeded([]tracking.Bucket{day}, user.CalorieThreshold()))
	priceHit := tracking.First(tracking.Exceeded([]tracking.Bucket{month}, user.PriceThreshold()))

	if calorieHit != nil {
		s.metrics.IncWarningIssued(string(tracking.Calories))
	}
	if priceHit != nil {
		s.metrics.IncWarningIssued(string(tracking.Price))
	}

	calorieMsg, priceMsg := tracking.SingleWarnings(calorieHit, priceHit)
	return &EntryResult{Entry: entry, CalorieWarning: calorieMsg, PriceWarning: priceMsg}, nil
}

// Get returns an entry visible to the caller.
func (s *EntryService) Get(ctx context.Context, actor *model.AuthContext, id string) (*model.FoodEntry, error) {
	if actor == nil {
		return nil, auth.ErrUnauthenticated
	}

	entry, err := s.entries.GetEntry(ctx, id)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if err := auth.Authorize(actor, entry.UserID); err != nil {
		return nil, err
	}

	return entry, nil
}

// Delete removes an entry owned by the caller, or any entry for admins.
func (s *EntryService) Delete(ctx context.Context, actor *model.AuthContext, id string) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}

	deleted, err := s.entries.DeleteEntry(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete food entry: %w", err)
	}
	if deleted == 0 {
		return ErrEntryNotFound
	}

	s.metrics.IncEntryDeleted()
	return nil
}

// ListEntriesInput defines input for listing raw entries.
type ListEntriesInput struct {
	// UserID selects the owner. Empty means the caller, except in ListAll
	// where it means every user.
	UserID       string
	From         *time.Time
	To           *time.Time
	Page         int
	Limit        int
	PopulateUser bool
}

// ListForUser lists one user's entries, oldest date_taken first.
func (s *EntryService) ListForUser(ctx context.Context, actor *model.AuthContext, input ListEntriesInput) (model.Page[*model.FoodEntry], error) {
	target := input.UserID
	if target == "" && actor != nil {
		target = actor.UserID
	}
	if err := auth.Authorize(actor, target); err != nil {
		return model.Page[*model.FoodEntry]{}, err
	}

	return s.list(ctx, entryFilter(target, input), repository.SortDateTakenAsc, input)
}

// ListAll lists entries across users, newest first. Admin only.
func (s *EntryService) ListAll(ctx context.Context, actor *model.AuthContext, input ListEntriesInput) (model.Page[*model.FoodEntry], error) {
	if err := auth.RequireRole(actor, model.RoleAdmin); err != nil {
		return model.Page[*model.FoodEntry]{}, err
	}

	input.PopulateUser = true
	return s.list(ctx, entryFilter(input.UserID, input), repository.SortCreatedDesc, input)
}

func (s *EntryService) list(ctx context.Context, filter repository.EntryFilter, sort repository.EntrySort, input ListEntriesInput) (model.Page[*model.FoodEntry], error) {
	if err := validateRange(input.From, input.To); err != nil {
		return model.Page[*model.FoodEntry]{}, err
	}

	page, limit := model.NormalizePage(input.Page, input.Limit)

	total, err := s.entries.CountEntries(ctx, filter)
	if err != nil {
		return model.Page[*model.FoodEntry]{}, err
	}

	items, err := s.entries.ListEntries(ctx, filter, sort, model.Offset(page, limit, total), limit)
	if err != nil {
		return model.Page[*model.FoodEntry]{}, err
	}

	if !input.PopulateUser {
		for _, e := range items {
			e.UserName = ""
		}
	}

	return model.Page[*model.FoodEntry]{Items: items, Page: page, Limit: limit, TotalCount: total}, nil
}

// DayTotal is one day's calorie sum and whether it reached the limit.
type DayTotal struct {
	tracking.Bucket
	LimitReached bool `json:"limit_reached"`
}

// ListDaysInput defines input for listing daily calorie totals.
type ListDaysInput struct {
	UserID   string
	From     *time.Time
	To       *time.Time
	Timezone string
	Page     int
	Limit    int
}

// ListDays returns a user's daily calorie totals, most recent day first.
func (s *EntryService) ListDays(ctx context.Context, actor *model.AuthContext, input ListDaysInput) (model.Page[DayTotal], error) {
	target := input.UserID
	if target == "" && actor != nil {
		target = actor.UserID
	}
	if err := auth.Authorize(actor, target); err != nil {
		return model.Page[DayTotal]{}, err
	}
	if err := validateRange(input.From, input.To); err != nil {
		return model.Page[DayTotal]{}, err
	}

	user, err := s.users.Get(ctx, target)
	if err != nil {
		return model.Page[DayTotal]{}, err
	}

	entries, err := s.entries.FindEntries(ctx, entryFilter(target, ListEntriesInput{From: input.From, To: input.To}))
	if err != nil {
		return model.Page[DayTotal]{}, err
	}

	records := make([]tracking.Record, 0, len(entries))
	for _, e := range entries {
		records = append(records, tracking.Record{At: e.DateTaken, Value: e.Calories})
	}

	limit := user.CalorieThreshold()
	buckets := tracking.Aggregate(records, tracking.Day, tracking.LoadLocation(input.Timezone))
	days := make([]DayTotal, 0, len(buckets))
	for _, b := range buckets {
		days = append(days, DayTotal{
			Bucket:       b,
			LimitReached: limit != nil && b.Total.GreaterThanOrEqual(*limit),
		})
	}

	return tracking.Paginate(days, input.Page, input.Limit), nil
}

func entryFilter(userID string, input ListEntriesInput) repository.EntryFilter {
	opts := []repository.EntryFilterOption{repository.ForUser(userID)}
	if input.From != nil {
		opts = append(opts, repository.TakenFrom(*input.From))
	}
	if input.To != nil {
		opts = append(opts, repository.TakenThrough(*input.To))
	}
	return repository.NewEntryFilter(opts...)
}

func validateEntry(input EntryInput) error {
	name := strings.TrimSpace(input.FoodName)
	if name == "" {
		return invalid("food_name", "is required")
	}
	if len(name) > maxFoodNameLength {
		return invalid("food_name", fmt.Sprintf("must be at most %d characters", maxFoodNameLength))
	}
	if err := validateAmount("calories", input.Calories); err != nil {
		return err
	}
	if err := validateAmount("price", input.Price); err != nil {
		return err
	}
	if input.DateTaken == nil || input.DateTaken.IsZero() {
		return invalid("date_taken", "is required")
	}
	return nil
}

func validateAmount(field string, amount *decimal.Decimal) error {
	switch {
	case amount == nil:
		return invalid(field, "is required")
	case amount.IsNegative():
		return invalid(field, "must not be negative")
	case model.RoundAmount(*amount).GreaterThanOrEqual(maxAmount):
		return invalid(field, "is too large")
	}
	return nil
}

func validateRange(from, to *time.Time) error {
	if from != nil && to != nil && to.Before(*from) {
		return invalid("end_date", "must not be before start_date")
	}
	return nil
}
