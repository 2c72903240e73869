package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/caltrack/caltrack/internal/model"
)

// Common errors for user repository operations.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrEmailExists    = errors.New("email already exists")
	ErrUserNameExists = errors.New("user name already exists")
)

// UserFilter defines filters for listing users.
type UserFilter struct {
	Role         model.Role
	NameContains string
}

const userColumns = `id, email, user_name, role, calorie_limit, price_limit, created_at, updated_at`

// CreateUser inserts a new user into the database.
func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, email, user_name, role, calorie_limit, price_limit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.UserName,
		user.Role,
		user.CalorieLimit,
		user.PriceLimit,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if constraint, ok := uniqueConstraint(err); ok {
			if strings.Contains(constraint, "user_name") {
				return ErrUserNameExists
			}
			return ErrEmailExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByID retrieves a user by their ID.
func (r *Repository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return user, nil
}

// GetUserByEmail retrieves a user by email address, ignoring case.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`

	user, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// FindUserByEmailOrUserName returns any user whose email or user name
// matches, ignoring case.
func (r *Repository) FindUserByEmailOrUserName(ctx context.Context, email, userName string) (*model.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE LOWER(email) = LOWER($1) OR LOWER(user_name) = LOWER($2)
		ORDER BY created_at
		LIMIT 1
	`

	user, err := scanUser(r.pool.QueryRow(ctx, query, email, userName))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// GetAdmin returns the oldest admin account.
func (r *Repository) GetAdmin(ctx context.Context) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1 ORDER BY created_at LIMIT 1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, model.RoleAdmin))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}

	return user, nil
}

// UpdateUserLimits replaces both limits of a user and returns the result.
func (r *Repository) UpdateUserLimits(ctx context.Context, id string, calorieLimit, priceLimit decimal.NullDecimal) (*model.User, error) {
	query := `
		UPDATE users
		SET calorie_limit = $2, price_limit = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(r.pool.QueryRow(ctx, query, id, calorieLimit, priceLimit))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user limits: %w", err)
	}

	return user, nil
}

// DeleteUser removes a user row. Entries are not touched.
func (r *Repository) DeleteUser(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// ListUsers returns a page of users sorted by user name, and the total
// number of matching users.
func (r *Repository) ListUsers(ctx context.Context, filter UserFilter, offset, limit int) ([]*model.User, int, error) {
	where := ` WHERE TRUE`
	var args []any
	argIndex := 1

	if filter.Role != "" {
		where += fmt.Sprintf(" AND role = $%d", argIndex)
		args = append(args, filter.Role)
		argIndex++
	}

	if filter.NameContains != "" {
		where += fmt.Sprintf(" AND user_name ILIKE $%d", argIndex)
		args = append(args, "%"+escapeLike(filter.NameContains)+"%")
		argIndex++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query := `SELECT ` + userColumns + ` FROM users` + where +
		fmt.Sprintf(" ORDER BY LOWER(user_name), id OFFSET $%d LIMIT $%d", argIndex, argIndex+1)
	args = append(args, offset, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]*model.User, 0, limit)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating users: %w", err)
	}

	return users, total, nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.UserName,
		&user.Role,
		&user.CalorieLimit,
		&user.PriceLimit,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
