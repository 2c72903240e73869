package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/caltrack/caltrack/internal/model"
	"github.com/caltrack/caltrack/internal/repository"
)

// MemStore is an in-memory stand-in for repository.Repository that
// mirrors its sentinel errors and ordering.
type MemStore struct {
	mu      sync.Mutex
	users   map[string]*model.User
	entries map[string]*model.FoodEntry

	// FindErr, when set, is returned by FindEntries.
	FindErr error
	// Writes counts successful entry and user mutations.
	Writes int
}

// NewMemStore returns an empty store.
func NewMemStore() *MemStore {
	return &MemStore{
		users:   make(map[string]*model.User),
		entries: make(map[string]*model.FoodEntry),
	}
}

// AddUser seeds a user.
func (s *MemStore) AddUser(u *model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.users[u.ID] = &cp
}

// AddEntry seeds an entry.
func (s *MemStore) AddEntry(e *model.FoodEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *e
	s.entries[e.ID] = &cp
}

// EntryCount returns the number of stored entries.
func (s *MemStore) EntryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *MemStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *MemStore) FindUserByEmailOrUserName(_ context.Context, email, userName string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) || strings.EqualFold(u.UserName, userName) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *MemStore) GetAdmin(_ context.Context) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var admin *model.User
	for _, u := range s.users {
		if u.Role == model.RoleAdmin && (admin == nil || u.CreatedAt.Before(admin.CreatedAt)) {
			admin = u
		}
	}
	if admin == nil {
		return nil, repository.ErrUserNotFound
	}
	cp := *admin
	return &cp, nil
}

func (s *MemStore) CreateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repository.ErrEmailExists
		}
		if strings.EqualFold(u.UserName, user.UserName) {
			return repository.ErrUserNameExists
		}
	}
	cp := *user
	s.users[user.ID] = &cp
	s.Writes++
	return nil
}

func (s *MemStore) UpdateUserLimits(_ context.Context, id string, calorieLimit, priceLimit decimal.NullDecimal) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	u.CalorieLimit = calorieLimit
	u.PriceLimit = priceLimit
	s.Writes++
	cp := *u
	return &cp, nil
}

func (s *MemStore) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(s.users, id)
	s.Writes++
	return nil
}

func (s *MemStore) ListUsers(_ context.Context, filter repository.UserFilter, offset, limit int) ([]*model.User, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []*model.User
	for _, u := range s.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.NameContains != "" && !strings.Contains(strings.ToLower(u.UserName), strings.ToLower(filter.NameContains)) {
			continue
		}
		cp := *u
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool {
		return strings.ToLower(matched[i].UserName) < strings.ToLower(matched[j].UserName)
	})
	return window(matched, offset, limit), len(matched), nil
}

func (s *MemStore) GetEntry(_ context.Context, id string) (*model.FoodEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, repository.ErrEntryNotFound
	}
	cp := *e
	return &cp, nil
}

func (s *MemStore) CreateEntry(_ context.Context, entry *model.FoodEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *entry
	s.entries[entry.ID] = &cp
	s.Writes++
	return nil
}

func (s *MemStore) UpdateEntry(_ context.Context, entry *model.FoodEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.entries[entry.ID]
	if !ok {
		return repository.ErrEntryNotFound
	}
	entry.CreatedAt = existing.CreatedAt
	cp := *entry
	s.entries[entry.ID] = &cp
	s.Writes++
	return nil
}

func (s *MemStore) DeleteEntry(_ context.Context, id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return 0, nil
	}
	delete(s.entries, id)
	s.Writes++
	return 1, nil
}

func (s *MemStore) DeleteEntriesByUser(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, e := range s.entries {
		if e.UserID == userID {
			delete(s.entries, id)
			n++
		}
	}
	return n, nil
}

func (s *MemStore) FindEntries(_ context.Context, filter repository.EntryFilter) ([]*model.FoodEntry, error) {
	if s.FindErr != nil {
		return nil, s.FindErr
	}
	return s.match(filter, repository.SortDateTakenAsc), nil
}

func (s *MemStore) CountEntries(_ context.Context, filter repository.EntryFilter) (int, error) {
	return len(s.match(filter, repository.SortDateTakenAsc)), nil
}

func (s *MemStore) ListEntries(_ context.Context, filter repository.EntryFilter, order repository.EntrySort, offset, limit int) ([]*model.FoodEntry, error) {
	return window(s.match(filter, order), offset, limit), nil
}

func (s *MemStore) match(filter repository.EntryFilter, order repository.EntrySort) []*model.FoodEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.FoodEntry, 0)
	for _, e := range s.entries {
		if !filter.Matches(e) {
			continue
		}
		cp := *e
		if u, ok := s.users[e.UserID]; ok {
			cp.UserName = u.UserName
		}
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if order == repository.SortCreatedDesc {
			if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
				return out[i].CreatedAt.After(out[j].CreatedAt)
			}
			return out[i].ID > out[j].ID
		}
		if !out[i].DateTaken.Equal(out[j].DateTaken) {
			return out[i].DateTaken.Before(out[j].DateTaken)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func window[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}
