package service

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/caltrack/caltrack/internal/model"
	"github.com/caltrack/caltrack/internal/repository"
)

// UserStore persists user accounts. Implemented by repository.Repository.
type UserStore interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	FindUserByEmailOrUserName(ctx context.Context, email, userName string) (*model.User, error)
	GetAdmin(ctx context.Context) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) error
	UpdateUserLimits(ctx context.Context, id string, calorieLimit, priceLimit decimal.NullDecimal) (*model.User, error)
	DeleteUser(ctx context.Context, id string) error
	ListUsers(ctx context.Context, filter repository.UserFilter, offset, limit int) ([]*model.User, int, error)
}

// EntryStore persists food entries. Implemented by repository.Repository.
type EntryStore interface {
	GetEntry(ctx context.Context, id string) (*model.FoodEntry, error)
	FindEntries(ctx context.Context, filter repository.EntryFilter) ([]*model.FoodEntry, error)
	ListEntries(ctx context.Context, filter repository.EntryFilter, sort repository.EntrySort, offset, limit int) ([]*model.FoodEntry, error)
	CountEntries(ctx context.Context, filter repository.EntryFilter) (int, error)
	CreateEntry(ctx context.Context, entry *model.FoodEntry) error
	UpdateEntry(ctx context.Context, entry *model.FoodEntry) error
	DeleteEntry(ctx context.Context, id string) (int64, error)
	DeleteEntriesByUser(ctx context.Context, userID string) (int64, error)
}

// UserCache caches user profiles. Implemented by cache.Cache.
type UserCache interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
	SetUser(ctx context.Context, user *model.User) error
	DeleteUser(ctx context.Context, id string) error
}

// TokenIssuer signs access tokens. Implemented by auth.TokenManager.
type TokenIssuer interface {
	Issue(user *model.User) (string, error)
}

// UserGetter loads a user by ID, returning ErrUserNotFound when absent.
type UserGetter interface {
	Get(ctx context.Context, id string) (*model.User, error)
}

type noopUserCache struct{}

func (noopUserCache) GetUser(context.Context, string) (*model.User, error) {
	return nil, errCacheMiss
}
func (noopUserCache) SetUser(context.Context, *model.User) error { return nil }
func (noopUserCache) DeleteUser(context.Context, string) error   { return nil }

var errCacheMiss = errors.New("cache miss")

// newID returns a new time-sortable identifier.
func newID() string {
	return ulid.Make().String()
}

func utcNow() time.Time {
	return time.Now().UTC()
}
