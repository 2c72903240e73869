package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/caltrack/caltrack/internal/model"
)

// EntryFilter selects food entries. The zero value matches every entry.
type EntryFilter struct {
	UserID string
	From   *time.Time // inclusive
	To     *time.Time
	// ToExclusive makes To an open bound.
	ToExclusive bool
}

// EntryFilterOption configures an EntryFilter.
type EntryFilterOption func(*EntryFilter)

// NewEntryFilter builds a filter from options.
func NewEntryFilter(opts ...EntryFilterOption) EntryFilter {
	var f EntryFilter
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// ForUser restricts entries to one owner. An empty ID is ignored.
func ForUser(userID string) EntryFilterOption {
	return func(f *EntryFilter) {
		f.UserID = userID
	}
}

// TakenFrom keeps entries with date_taken >= t.
func TakenFrom(t time.Time) EntryFilterOption {
	return func(f *EntryFilter) {
		f.From = &t
	}
}

// TakenThrough keeps entries with date_taken <= t.
func TakenThrough(t time.Time) EntryFilterOption {
	return func(f *EntryFilter) {
		f.To = &t
		f.ToExclusive = false
	}
}

// TakenBefore keeps entries with date_taken < t.
func TakenBefore(t time.Time) EntryFilterOption {
	return func(f *EntryFilter) {
		f.To = &t
		f.ToExclusive = true
	}
}

// Matches evaluates the filter against an entry in memory.
func (f EntryFilter) Matches(e *model.FoodEntry) bool {
	if f.UserID != "" && e.UserID != f.UserID {
		return false
	}
	if f.From != nil && e.DateTaken.Before(*f.From) {
		return false
	}
	if f.To != nil {
		if f.ToExclusive && !e.DateTaken.Before(*f.To) {
			return false
		}
		if !f.ToExclusive && e.DateTaken.After(*f.To) {
			return false
		}
	}
	return true
}

// where renders the filter as a SQL WHERE clause with positional
// parameters starting at $1. Column names are qualified with prefix.
func (f EntryFilter) where(prefix string) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, prefix, len(args)))
	}

	if f.UserID != "" {
		add("%suser_id = $%d", f.UserID)
	}
	if f.From != nil {
		add("%sdate_taken >= $%d", *f.From)
	}
	if f.To != nil {
		if f.ToExclusive {
			add("%sdate_taken < $%d", *f.To)
		} else {
			add("%sdate_taken <= $%d", *f.To)
		}
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// EntrySort is the ordering of an entry listing.
type EntrySort int

const (
	// SortDateTakenAsc orders by date_taken, oldest first.
	SortDateTakenAsc EntrySort = iota
	// SortCreatedDesc orders by creation time, newest first.
	SortCreatedDesc
)

func (s EntrySort) orderBy(prefix string) string {
	if s == SortCreatedDesc {
		return fmt.Sprintf(" ORDER BY %[1]screated_at DESC, %[1]sid DESC", prefix)
	}
	return fmt.Sprintf(" ORDER BY %[1]sdate_taken ASC, %[1]sid ASC", prefix)
}
