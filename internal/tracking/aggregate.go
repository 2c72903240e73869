package tracking

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Record is a single timestamped value to aggregate.
type Record struct {
	At    time.Time
	Value decimal.Decimal
}

// Aggregate groups records into buckets of the given granularity and sums
// their values. Buckets are returned most recent first.
func Aggregate(records []Record, g Granularity, loc *time.Location) []Bucket {
	index := make(map[string]int, len(records))
	buckets := make([]Bucket, 0)

	for _, r := range records {
		b := BucketOf(r.At, loc, g)
		i, ok := index[b.Key]
		if !ok {
			i = len(buckets)
			index[b.Key] = i
			buckets = append(buckets, b)
		}
		buckets[i].Total = buckets[i].Total.Add(r.Value)
	}

	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Key > buckets[j].Key
	})
	return buckets
}

// Totals is Aggregate in map form, keyed by bucket key.
func Totals(records []Record, g Granularity, loc *time.Location) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, b := range Aggregate(records, g, loc) {
		totals[b.Key] = b.Total
	}
	return totals
}

// Sum adds up all record values.
func Sum(records []Record) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Value)
	}
	return total
}
