package tracking

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(at time.Time, v string) Record {
	return Record{At: at, Value: decimal.RequireFromString(v)}
}

func TestAggregate_DayBuckets(t *testing.T) {
	t.Parallel()

	records := []Record{
		rec(time.Date(2024, 1, 14, 8, 0, 0, 0, time.UTC), "500"),
		rec(time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC), "1200"),
		rec(time.Date(2024, 1, 15, 19, 0, 0, 0, time.UTC), "1000"),
		rec(time.Date(2024, 1, 16, 1, 0, 0, 0, time.UTC), "0.5"),
	}

	buckets := Aggregate(records, Day, time.UTC)
	require.Len(t, buckets, 3)

	assert.Equal(t, "2024-01-16", buckets[0].Key)
	assert.Equal(t, "2024-01-15", buckets[1].Key)
	assert.Equal(t, "2024-01-14", buckets[2].Key)
	assert.Equal(t, "2200", buckets[1].Total.String())
	assert.Equal(t, "0.5", buckets[0].Total.String())
}

func TestAggregate_SumPreserved(t *testing.T) {
	t.Parallel()

	records := []Record{
		rec(time.Date(2024, 1, 31, 23, 0, 0, 0, time.UTC), "10.10"),
		rec(time.Date(2024, 2, 1, 0, 30, 0, 0, time.UTC), "20.20"),
		rec(time.Date(2024, 2, 28, 12, 0, 0, 0, time.UTC), "0.01"),
		rec(time.Date(2023, 12, 1, 12, 0, 0, 0, time.UTC), "99.99"),
	}

	for _, g := range []Granularity{Day, Month} {
		total := decimal.Zero
		for _, b := range Aggregate(records, g, LoadLocation("+05:00")) {
			total = total.Add(b.Total)
		}
		assert.True(t, total.Equal(Sum(records)), "granularity %s", g)
	}
}

func TestAggregate_MonthInTimezone(t *testing.T) {
	t.Parallel()

	// 2024-01-31T22:00Z is February in +05:00.
	records := []Record{
		rec(time.Date(2024, 1, 31, 22, 0, 0, 0, time.UTC), "700"),
		rec(time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC), "500"),
	}

	totals := Totals(records, Month, LoadLocation("+05:00"))
	assert.Equal(t, map[string]string{"2024-02": "1200"}, stringify(totals))

	totals = Totals(records, Month, time.UTC)
	assert.Equal(t, map[string]string{"2024-01": "700", "2024-02": "500"}, stringify(totals))
}

func TestAggregate_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Aggregate(nil, Day, nil))
	assert.Empty(t, Totals(nil, Month, nil))
	assert.True(t, Sum(nil).IsZero())
}

func stringify(m map[string]decimal.Decimal) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v.String()
	}
	return out
}
