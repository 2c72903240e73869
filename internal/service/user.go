package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/mail"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/caltrack/caltrack/internal/auth"
	"github.com/caltrack/caltrack/internal/metrics"
	"github.com/caltrack/caltrack/internal/model"
	"github.com/caltrack/caltrack/internal/repository"
)

const maxUserNameLength = 100

// Limits are the thresholds given to newly created users.
type Limits struct {
	Calorie decimal.NullDecimal
	Price   decimal.NullDecimal
}

// UserService handles account management.
type UserService struct {
	users    UserStore
	entries  EntryStore
	cache    UserCache
	tokens   TokenIssuer
	defaults Limits
	metrics  metrics.Recorder
}

// NewUserService creates a new UserService. A nil cache disables caching.
func NewUserService(users UserStore, entries EntryStore, cache UserCache, tokens TokenIssuer, defaults Limits, recorder metrics.Recorder) *UserService {
	if cache == nil {
		cache = noopUserCache{}
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{
		users:    users,
		entries:  entries,
		cache:    cache,
		tokens:   tokens,
		defaults: defaults,
		metrics:  recorder,
	}
}

// UserWithToken is a user together with a freshly issued access token.
type UserWithToken struct {
	User  *model.User
	Token string
}

// Get loads a user, preferring the profile cache.
func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	if user, err := s.cache.GetUser(ctx, id); err == nil {
		s.metrics.IncUserCacheHit()
		return user, nil
	}
	s.metrics.IncUserCacheMiss()

	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err)
	}

	// Cache write failures only cost a future miss.
	_ = s.cache.SetUser(ctx, user)
	return user, nil
}

// Me returns the account behind the caller's token.
func (s *UserService) Me(ctx context.Context, actor *model.AuthContext) (*model.User, error) {
	if actor == nil || actor.UserID == "" {
		return nil, auth.ErrUnauthenticated
	}

	user, err := s.Get(ctx, actor.UserID)
	if errors.Is(err, ErrUserNotFound) {
		return nil, auth.ErrUnauthenticated
	}
	return user, err
}

// CreateUserInput defines input for creating a user.
type CreateUserInput struct {
	Email    string
	UserName string
}

// Create registers a regular user with the default limits and issues a
// token for it. Admin only.
func (s *UserService) Create(ctx context.Context, actor *model.AuthContext, input CreateUserInput) (*UserWithToken, error) {
	if err := auth.RequireRole(actor, model.RoleAdmin); err != nil {
		return nil, err
	}

	user, err := s.newUser(input, model.RoleUser, s.defaults)
	if err != nil {
		return nil, err
	}

	if err := s.insert(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &UserWithToken{User: user, Token: token}, nil
}

// BootstrapAdmin returns the existing admin account or creates one.
// The boolean reports whether an account was created.
func (s *UserService) BootstrapAdmin(ctx context.Context, input CreateUserInput) (*UserWithToken, bool, error) {
	admin, err := s.users.GetAdmin(ctx)
	created := false

	switch {
	case err == nil:
	case errors.Is(err, repository.ErrUserNotFound):
		admin, err = s.newUser(input, model.RoleAdmin, Limits{})
		if err != nil {
			return nil, false, err
		}
		if err := s.insert(ctx, admin); err != nil {
			return nil, false, err
		}
		created = true
	default:
		return nil, false, fmt.Errorf("failed to look up admin: %w", err)
	}

	token, err := s.tokens.Issue(admin)
	if err != nil {
		return nil, false, fmt.Errorf("failed to issue token: %w", err)
	}

	return &UserWithToken{User: admin, Token: token}, created, nil
}

func (s *UserService) newUser(input CreateUserInput, role model.Role, limits Limits) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, invalid("email", "is required")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, invalid("email", "is not a valid address")
	}

	userName := strings.TrimSpace(input.UserName)
	if userName == "" {
		return nil, invalid("user_name", "is required")
	}
	if len(userName) > maxUserNameLength {
		return nil, invalid("user_name", fmt.Sprintf("must be at most %d characters", maxUserNameLength))
	}

	ts := utcNow()
	return &model.User{
		ID:           newID(),
		Email:        email,
		UserName:     userName,
		Role:         role,
		CalorieLimit: limits.Calorie,
		PriceLimit:   limits.Price,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}, nil
}

// insert checks for case-insensitive conflicts and creates the user. The
// unique indexes still catch concurrent inserts.
func (s *UserService) insert(ctx context.Context, user *model.User) error {
	existing, err := s.users.FindUserByEmailOrUserName(ctx, user.Email, user.UserName)
	switch {
	case err == nil:
		if strings.EqualFold(existing.Email, user.Email) {
			return ErrEmailExists
		}
		return ErrUserNameExists
	case !errors.Is(err, repository.ErrUserNotFound):
		return fmt.Errorf("failed to check existing users: %w", err)
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return mapStoreError(err)
	}

	s.metrics.IncUserCreated()
	return nil
}

// Delete removes a user and every entry they own. Admin only. Returns the
// number of deleted entries. Entries are removed before the user.
func (s *UserService) Delete(ctx context.Context, actor *model.AuthContext, id string) (int64, error) {
	if err := auth.RequireRole(actor, model.RoleAdmin); err != nil {
		return 0, err
	}

	if _, err := s.users.GetUserByID(ctx, id); err != nil {
		return 0, mapStoreError(err)
	}

	removed, err := s.entries.DeleteEntriesByUser(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete entries of user %s: %w", id, err)
	}

	if err := s.users.DeleteUser(ctx, id); err != nil {
		return 0, mapStoreError(err)
	}
	s.metrics.IncUserDeleted()

	if err := s.cache.DeleteUser(ctx, id); err != nil {
		return 0, fmt.Errorf("failed to invalidate cached user %s: %w", id, err)
	}

	return removed, nil
}

// TokenForEmail issues a new token for the user with the given email.
// Admin only.
func (s *UserService) TokenForEmail(ctx context.Context, actor *model.AuthContext, email string) (*UserWithToken, error) {
	if err := auth.RequireRole(actor, model.RoleAdmin); err != nil {
		return nil, err
	}

	email = strings.TrimSpace(email)
	if email == "" {
		return nil, invalid("email", "is required")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, mapStoreError(err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &UserWithToken{User: user, Token: token}, nil
}

// ListUsersInput defines input for listing users.
type ListUsersInput struct {
	NameContains string
	Page         int
	Limit        int
}

// List returns regular users sorted by user name. Admin only.
func (s *UserService) List(ctx context.Context, actor *model.AuthContext, input ListUsersInput) (model.Page[*model.User], error) {
	if err := auth.RequireRole(actor, model.RoleAdmin); err != nil {
		return model.Page[*model.User]{}, err
	}

	page, limit := model.NormalizePage(input.Page, input.Limit)
	filter := repository.UserFilter{
		Role:         model.RoleUser,
		NameContains: strings.TrimSpace(input.NameContains),
	}

	users, total, err := s.users.ListUsers(ctx, filter, model.Offset(page, limit, math.MaxInt32), limit)
	if err != nil {
		return model.Page[*model.User]{}, err
	}

	return model.Page[*model.User]{Items: users, Page: page, Limit: limit, TotalCount: total}, nil
}

// UpdateLimitsInput holds the limits to change. A nil field is left as
// is; a field with Valid unset clears the limit.
type UpdateLimitsInput struct {
	CalorieLimit *decimal.NullDecimal
	PriceLimit   *decimal.NullDecimal
}

// UpdateLimits changes a user's thresholds. Admin only. New limits apply
// to past periods too.
func (s *UserService) UpdateLimits(ctx context.Context, actor *model.AuthContext, id string, input UpdateLimitsInput) (*model.User, error) {
	if err := auth.RequireRole(actor, model.RoleAdmin); err != nil {
		return nil, err
	}
	if err := validateLimit("calorie_limit", input.CalorieLimit); err != nil {
		return nil, err
	}
	if err := validateLimit("price_limit", input.PriceLimit); err != nil {
		return nil, err
	}

	current, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err)
	}

	calorie, price := current.CalorieLimit, current.PriceLimit
	if input.CalorieLimit != nil {
		calorie = roundLimit(*input.CalorieLimit)
	}
	if input.PriceLimit != nil {
		price = roundLimit(*input.PriceLimit)
	}

	user, err := s.users.UpdateUserLimits(ctx, id, calorie, price)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if err := s.cache.DeleteUser(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to invalidate cached user %s: %w", id, err)
	}

	return user, nil
}

func validateLimit(field string, limit *decimal.NullDecimal) error {
	if limit == nil || !limit.Valid {
		return nil
	}
	return validateAmount(field, &limit.Decimal)
}

func roundLimit(limit decimal.NullDecimal) decimal.NullDecimal {
	if !limit.Valid {
		return limit
	}
	return model.Limit(model.RoundAmount(limit.Decimal))
}
