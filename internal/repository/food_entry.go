package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/caltrack/caltrack/internal/model"
)

// ErrEntryNotFound is returned when a food entry does not exist.
var ErrEntryNotFound = errors.New("food entry not found")

const entryColumns = `e.id, e.user_id, e.food_name, e.calories, e.price, e.date_taken, e.created_at, e.updated_at`

// CreateEntry inserts a new food entry.
func (r *Repository) CreateEntry(ctx context.Context, entry *model.FoodEntry) error {
	query := `
		INSERT INTO food_entries (id, user_id, food_name, calories, price, date_taken, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.UserID,
		entry.FoodName,
		entry.Calories,
		entry.Price,
		entry.DateTaken,
		entry.CreatedAt,
		entry.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create food entry: %w", err)
	}

	return nil
}

// GetEntry retrieves a food entry by ID.
func (r *Repository) GetEntry(ctx context.Context, id string) (*model.FoodEntry, error) {
	query := `SELECT ` + entryColumns + `, ''::text FROM food_entries e WHERE e.id = $1`

	entry, err := scanEntry(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get food entry: %w", err)
	}

	return entry, nil
}

// UpdateEntry replaces every mutable field of an entry.
func (r *Repository) UpdateEntry(ctx context.Context, entry *model.FoodEntry) error {
	query := `
		UPDATE food_entries
		SET user_id = $2, food_name = $3, calories = $4, price = $5, date_taken = $6, updated_at = $7
		WHERE id = $1
		RETURNING created_at
	`

	err := r.pool.QueryRow(ctx, query,
		entry.ID,
		entry.UserID,
		entry.FoodName,
		entry.Calories,
		entry.Price,
		entry.DateTaken,
		entry.UpdatedAt,
	).Scan(&entry.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrEntryNotFound
		}
		return fmt.Errorf("failed to update food entry: %w", err)
	}

	return nil
}

// DeleteEntry removes an entry and returns how many rows were deleted.
func (r *Repository) DeleteEntry(ctx context.Context, id string) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM food_entries WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete food entry: %w", err)
	}
	return result.RowsAffected(), nil
}

// DeleteEntriesByUser removes every entry owned by a user.
func (r *Repository) DeleteEntriesByUser(ctx context.Context, userID string) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM food_entries WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete food entries for user: %w", err)
	}
	return result.RowsAffected(), nil
}

// FindEntries returns every entry matching filter, oldest date_taken first.
func (r *Repository) FindEntries(ctx context.Context, filter EntryFilter) ([]*model.FoodEntry, error) {
	where, args := filter.where("e.")
	query := `SELECT ` + entryColumns + `, ''::text FROM food_entries e` + where + SortDateTakenAsc.orderBy("e.")

	return r.queryEntries(ctx, query, args...)
}

// CountEntries counts entries matching filter.
func (r *Repository) CountEntries(ctx context.Context, filter EntryFilter) (int, error) {
	where, args := filter.where("e.")

	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM food_entries e`+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count food entries: %w", err)
	}

	return count, nil
}

// ListEntries returns a window of matching entries with the owner's user
// name filled in.
func (r *Repository) ListEntries(ctx context.Context, filter EntryFilter, sort EntrySort, offset, limit int) ([]*model.FoodEntry, error) {
	where, args := filter.where("e.")
	query := `
		SELECT ` + entryColumns + `, COALESCE(u.user_name, '')
		FROM food_entries e
		LEFT JOIN users u ON u.id = e.user_id` + where + sort.orderBy("e.") +
		fmt.Sprintf(" OFFSET $%d LIMIT $%d", len(args)+1, len(args)+2)
	args = append(args, offset, limit)

	return r.queryEntries(ctx, query, args...)
}

func (r *Repository) queryEntries(ctx context.Context, query string, args ...any) ([]*model.FoodEntry, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query food entries: %w", err)
	}
	defer rows.Close()

	entries := make([]*model.FoodEntry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan food entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating food entries: %w", err)
	}

	return entries, nil
}

func scanEntry(row pgx.Row) (*model.FoodEntry, error) {
	var entry model.FoodEntry
	err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.FoodName,
		&entry.Calories,
		&entry.Price,
		&entry.DateTaken,
		&entry.CreatedAt,
		&entry.UpdatedAt,
		&entry.UserName,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
