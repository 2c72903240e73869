package tracking

import "github.com/caltrack/caltrack/internal/model"

// Paginate slices an in-memory result set into a page.
func Paginate[T any](items []T, page, limit int) model.Page[T] {
	page, limit = model.NormalizePage(page, limit)
	total := len(items)
	start := model.Offset(page, limit, total)
	end := min(start+limit, total)

	out := make([]T, end-start)
	copy(out, items[start:end])

	return model.Page[T]{
		Items:      out,
		Page:       page,
		Limit:      limit,
		TotalCount: total,
	}
}
