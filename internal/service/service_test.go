package service

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/caltrack/caltrack/internal/auth"
	"github.com/caltrack/caltrack/internal/metrics"
	"github.com/caltrack/caltrack/internal/model"
	"github.com/caltrack/caltrack/internal/testutil"
)

type fixture struct {
	store    *testutil.MemStore
	recorder *metrics.InMemoryRecorder
	users    *UserService
	entries  *EntryService
	warnings *WarningService
	reports  *ReportService
	tokens   *auth.TokenManager
	admin    *model.User
	alice    *model.User
	bob      *model.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tokens, err := auth.NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)

	store := testutil.NewMemStore()
	recorder := metrics.NewInMemory()
	defaults := Limits{
		Calorie: model.Limit(decimal.NewFromInt(2100)),
		Price:   model.Limit(decimal.NewFromInt(1000)),
	}
	users := NewUserService(store, store, nil, tokens, defaults, recorder)

	f := &fixture{
		store:    store,
		recorder: recorder,
		users:    users,
		entries:  NewEntryService(store, users, recorder),
		warnings: NewWarningService(store, users),
		reports:  NewReportService(store, users),
		tokens:   tokens,
		admin:    testutil.NewTestUser(t, model.RoleAdmin),
		alice:    testutil.NewTestUser(t, model.RoleUser),
		bob:      testutil.NewTestUser(t, model.RoleUser),
	}
	f.admin.CalorieLimit = decimal.NullDecimal{}
	f.admin.PriceLimit = decimal.NullDecimal{}
	store.AddUser(f.admin)
	store.AddUser(f.alice)
	store.AddUser(f.bob)
	store.Writes = 0
	return f
}

func actorOf(u *model.User) *model.AuthContext {
	return &model.AuthContext{UserID: u.ID, Email: u.Email, Role: u.Role}
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func at(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

var errBoom = errors.New("boom")
