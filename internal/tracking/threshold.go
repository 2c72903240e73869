package tracking

import "github.com/shopspring/decimal"

// Exceeded returns the buckets whose total reached limit (inclusive), in
// their original order. A nil limit means no threshold is configured.
func Exceeded(buckets []Bucket, limit *decimal.Decimal) []Bucket {
	out := make([]Bucket, 0)
	if limit == nil {
		return out
	}
	for _, b := range buckets {
		if b.Total.GreaterThanOrEqual(*limit) {
			out = append(out, b)
		}
	}
	return out
}

// First returns the first bucket, or nil for an empty slice.
func First(buckets []Bucket) *Bucket {
	if len(buckets) == 0 {
		return nil
	}
	return &buckets[0]
}
