package model

// Pagination defaults.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Page is one page of a larger result set.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalCount int `json:"total_count"`
}

// NormalizePage clamps page and limit into their valid ranges.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// Offset returns the number of items skipped before the given page,
// capped at total so oversized page numbers cannot overflow.
func Offset(page, limit, total int) int {
	page, limit = NormalizePage(page, limit)
	if page-1 > total/limit {
		return total
	}
	return min((page-1)*limit, total)
}
