// Package tracking implements the calendar bucketing, aggregation and
// threshold rules behind calorie and price warnings.
//
// Everything here is pure: callers pass records and a location in, and get
// buckets out. No function in this package touches storage.
package tracking

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Granularity selects the calendar period records are grouped by.
type Granularity string

const (
	Day   Granularity = "day"
	Month Granularity = "month"
)

func (g Granularity) keyLayout() string {
	if g == Month {
		return "2006-01"
	}
	return "2006-01-02"
}

// Bucket is one calendar period and the sum of the values that fell in it.
// End is the start of the next period, so adjacent buckets are contiguous.
type Bucket struct {
	Key   string          `json:"key"`
	Start time.Time       `json:"window_start"`
	End   time.Time       `json:"window_end"`
	Total decimal.Decimal `json:"total"`
}

// BucketOf returns the empty bucket that t falls into when viewed in loc.
func BucketOf(t time.Time, loc *time.Location, g Granularity) Bucket {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)

	var start, end time.Time
	switch g {
	case Month:
		start = DayStart(local.Year(), local.Month(), 1, loc)
		end = DayStart(local.Year(), local.Month()+1, 1, loc)
	default:
		start = DayStart(local.Year(), local.Month(), local.Day(), loc)
		end = DayStart(local.Year(), local.Month(), local.Day()+1, loc)
	}

	return Bucket{
		Key:   local.Format(g.keyLayout()),
		Start: start,
		End:   end,
	}
}

// DayStart returns the first instant of the calendar day y-m-d in loc.
// Overflowing months and days are normalized as by time.Date. When a DST
// transition skips local midnight, the day starts at the transition.
func DayStart(y int, m time.Month, d int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	if noon := time.Date(y, m, d, 12, 0, 0, 0, loc); start.Day() != noon.Day() {
		_, start = start.ZoneBounds()
	}
	return start
}

var offsetPattern = regexp.MustCompile(`^([+-])(\d{2})(?::?(\d{2}))?$`)

// LoadLocation resolves a timezone given as an IANA name, "UTC"/"Z", or a
// fixed offset such as "+05:00", "-0700" or "+05". Anything it cannot
// resolve is treated as UTC.
func LoadLocation(tz string) *time.Location {
	tz = strings.TrimSpace(tz)
	switch strings.ToUpper(tz) {
	case "", "UTC", "Z", "GMT", "LOCAL":
		return time.UTC
	}

	if m := offsetPattern.FindStringSubmatch(tz); m != nil {
		hours, _ := strconv.Atoi(m[2])
		minutes := 0
		if m[3] != "" {
			minutes, _ = strconv.Atoi(m[3])
		}
		if hours > 14 || minutes > 59 {
			return time.UTC
		}
		offset := hours*3600 + minutes*60
		if m[1] == "-" {
			offset = -offset
		}
		return time.FixedZone(tz, offset)
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}
