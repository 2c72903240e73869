// Package testutil holds helpers shared by unit, integration and e2e tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/caltrack/caltrack/internal/model"
	"github.com/caltrack/caltrack/internal/repository"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 210021

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetSchema rolls every migration back and applies them again.
func ResetSchema(ctx context.Context, databaseURL string) error {
	db, err := repository.OpenSQL(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repository.RunMigrations(ctx, db, "reset"); err != nil {
		return err
	}
	return repository.RunMigrations(ctx, db, "up")
}

// NewTestRepository connects to DATABASE_URL, serializes against other DB
// tests and starts from a fresh schema. Skips when DATABASE_URL is unset.
func NewTestRepository(t *testing.T) *repository.Repository {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := RequireEnv(t, "DATABASE_URL")

	repo, err := repository.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := ResetSchema(ctx, dbURL); err != nil {
		t.Fatalf("reset schema: %v", err)
	}

	return repo
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

var seq atomic.Int64

// NewTestUser creates a user with unique email and user name and the
// default limits.
func NewTestUser(t testing.TB, role model.Role) *model.User {
	t.Helper()
	n := seq.Add(1)
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &model.User{
		ID:           ulid.Make().String(),
		Email:        fmt.Sprintf("user%d-%d@example.com", n, now.UnixNano()),
		UserName:     fmt.Sprintf("user%d_%d", n, now.UnixNano()),
		Role:         role,
		CalorieLimit: model.Limit(decimal.NewFromInt(2100)),
		PriceLimit:   model.Limit(decimal.NewFromInt(1000)),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NewTestEntry creates a food entry for a user.
func NewTestEntry(t testing.TB, userID string, takenAt time.Time, calories, price int64) *model.FoodEntry {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &model.FoodEntry{
		ID:        ulid.Make().String(),
		UserID:    userID,
		FoodName:  fmt.Sprintf("food-%d", seq.Add(1)),
		Calories:  decimal.NewFromInt(calories),
		Price:     decimal.NewFromInt(price),
		DateTaken: takenAt.UTC().Truncate(time.Microsecond),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
