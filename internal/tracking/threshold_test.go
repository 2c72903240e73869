package tracking

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestExceeded(t *testing.T) {
	t.Parallel()

	buckets := []Bucket{
		{Key: "2024-01-16", Total: decimal.NewFromInt(2100)},
		{Key: "2024-01-15", Total: decimal.NewFromInt(2099)},
		{Key: "2024-01-14", Total: decimal.RequireFromString("2100.01")},
	}
	limit := decimal.NewFromInt(2100)

	got := Exceeded(buckets, &limit)
	if assert.Len(t, got, 2) {
		assert.Equal(t, "2024-01-16", got[0].Key)
		assert.Equal(t, "2024-01-14", got[1].Key)
	}

	assert.Empty(t, Exceeded(buckets, nil))
	assert.NotNil(t, Exceeded(nil, &limit))
}

func TestExceeded_ZeroLimit(t *testing.T) {
	t.Parallel()

	zero := decimal.Zero
	got := Exceeded([]Bucket{{Key: "2024-01", Total: decimal.Zero}}, &zero)
	assert.Len(t, got, 1)
}

func TestFirst(t *testing.T) {
	t.Parallel()

	assert.Nil(t, First(nil))
	b := First([]Bucket{{Key: "a"}, {Key: "b"}})
	if assert.NotNil(t, b) {
		assert.Equal(t, "a", b.Key)
	}
}
