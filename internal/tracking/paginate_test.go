package tracking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	t.Parallel()

	items := make([]int, 25)
	for i := range items {
		items[i] = i
	}

	testCases := []struct {
		name        string
		page, limit int
		wantItems   []int
		wantPage    int
	}{
		{"first page", 1, 10, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, 1},
		{"last partial page", 3, 10, []int{20, 21, 22, 23, 24}, 3},
		{"beyond data", 4, 10, []int{}, 4},
		{"defaults", 0, 0, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, 1},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			page := Paginate(items, tc.page, tc.limit)
			assert.Equal(t, tc.wantItems, page.Items)
			assert.Equal(t, tc.wantPage, page.Page)
			assert.Equal(t, 25, page.TotalCount)
			assert.LessOrEqual(t, len(page.Items), page.Limit)
		})
	}
}

func TestPaginate_DoesNotAlias(t *testing.T) {
	t.Parallel()

	items := []string{"a", "b", "c"}
	page := Paginate(items, 1, 2)
	page.Items[0] = "z"
	assert.Equal(t, "a", items[0])
}
