package service

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caltrack/caltrack/internal/auth"
	"github.com/caltrack/caltrack/internal/testutil"
)

func seedDays(t *testing.T, f *fixture) {
	t.Helper()
	for _, e := range []struct {
		at       time.Time
		calories int64
		price    int64
	}{
		{time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC), 1200, 400},
		{time.Date(2024, 1, 15, 19, 0, 0, 0, time.UTC), 1000, 400},
		{time.Date(2024, 1, 16, 9, 0, 0, 0, time.UTC), 2100, 300},
		{time.Date(2024, 1, 17, 9, 0, 0, 0, time.UTC), 500, 100},
		{time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC), 100, 999},
	} {
		f.store.AddEntry(testutil.NewTestEntry(t, f.alice.ID, e.at, e.calories, e.price))
	}
}

func TestWarningService_CalorieWarnings(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	seedDays(t, f)

	page, err := f.warnings.CalorieWarnings(context.Background(), actorOf(f.alice), WarningsInput{Page: 1, Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, 2, page.TotalCount)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "2024-01-16", page.Items[0].Key)
	assert.Equal(t, "2024-01-15", page.Items[1].Key)
	assert.Equal(t,
		"You Have Reached your daily Calorie Threshold Limit for day Jan 15, 2024. Calorie amount on this day is 2200",
		page.Items[1].Message)
	assert.Equal(t, "2100", page.Threshold.String())
}

func TestWarningService_CalorieWarningsForDate(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	seedDays(t, f)

	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	page, err := f.warnings.CalorieWarnings(context.Background(), actorOf(f.admin), WarningsInput{
		UserID: f.alice.ID,
		Date:   &date,
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "2024-01-15", page.Items[0].Key)
}

func TestWarningService_DateOnMidnightTransitionDay(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	havana, err := time.LoadLocation("America/Havana")
	require.NoError(t, err)
	f.store.AddEntry(testutil.NewTestEntry(t, f.alice.ID, time.Date(2024, 3, 9, 10, 0, 0, 0, havana), 1500, 1))
	f.store.AddEntry(testutil.NewTestEntry(t, f.alice.ID, time.Date(2024, 3, 9, 23, 30, 0, 0, havana), 700, 1))

	date := time.Date(2024, 3, 9, 0, 0, 0, 0, havana)
	for name, input := range map[string]WarningsInput{
		"all days": {Timezone: "America/Havana"},
		"by date":  {Timezone: "America/Havana", Date: &date},
	} {
		page, err := f.warnings.CalorieWarnings(context.Background(), actorOf(f.alice), input)
		require.NoError(t, err, name)
		require.Len(t, page.Items, 1, name)
		assert.Equal(t, "2024-03-09", page.Items[0].Key, name)
		assert.Equal(t, "2200", page.Items[0].Total.String(), name)
	}
}

func TestWarningService_PriceWarnings(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	seedDays(t, f)

	page, err := f.warnings.PriceWarnings(context.Background(), actorOf(f.alice), WarningsInput{})
	require.NoError(t, err)

	require.Len(t, page.Items, 1)
	assert.Equal(t, "2024-01", page.Items[0].Key)
	assert.Equal(t,
		"You Have Reached your monthly price limit for month Jan, 2024. Price amount on this month is 1200",
		page.Items[0].Message)
}

func TestWarningService_Pagination(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	seedDays(t, f)

	page, err := f.warnings.CalorieWarnings(context.Background(), actorOf(f.alice), WarningsInput{Page: 2, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalCount)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "2024-01-15", page.Items[0].Key)

	page, err = f.warnings.CalorieWarnings(context.Background(), actorOf(f.alice), WarningsInput{Page: 3, Limit: 1})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 2, page.TotalCount)
}

func TestWarningService_Authorization(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.warnings.CalorieWarnings(context.Background(), actorOf(f.bob), WarningsInput{UserID: f.alice.ID})
	assert.ErrorIs(t, err, auth.ErrForbidden)

	_, err = f.warnings.PriceWarnings(context.Background(), actorOf(f.admin), WarningsInput{UserID: "missing"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
