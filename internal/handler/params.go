package handler

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/caltrack/caltrack/internal/tracking"
)

const dateLayout = "2006-01-02"

// queryInt parses an optional positive integer parameter. Zero means
// absent; the services apply defaults and caps.
func queryInt(q url.Values, key string) (int, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return n, nil
}

// queryPage parses page and limit.
func queryPage(q url.Values) (page, limit int, err error) {
	if page, err = queryInt(q, "page"); err != nil {
		return 0, 0, err
	}
	if limit, err = queryInt(q, "limit"); err != nil {
		return 0, 0, err
	}
	return page, limit, nil
}

// queryBool parses an optional boolean parameter.
func queryBool(q url.Values, key string) (bool, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean", key)
	}
	return b, nil
}

// parseInstant accepts RFC 3339 or a bare YYYY-MM-DD, which is read as
// midnight in loc.
func parseInstant(raw string, loc *time.Location) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, false, nil
	}
	d, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, false, err
	}
	return tracking.DayStart(d.Year(), d.Month(), d.Day(), loc), true, nil
}

// queryStart parses a range start parameter.
func queryStart(q url.Values, key string, loc *time.Location) (*time.Time, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	t, _, err := parseInstant(raw, loc)
	if err != nil {
		return nil, fmt.Errorf("%s must be RFC 3339 or YYYY-MM-DD", key)
	}
	return &t, nil
}

// queryEnd parses an inclusive range end parameter. A bare date covers
// the whole day.
func queryEnd(q url.Values, key string, loc *time.Location) (*time.Time, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	t, dateOnly, err := parseInstant(raw, loc)
	if err != nil {
		return nil, fmt.Errorf("%s must be RFC 3339 or YYYY-MM-DD", key)
	}
	if dateOnly {
		// Stored timestamps have microsecond precision.
		t = tracking.BucketOf(t, loc, tracking.Day).End.Add(-time.Microsecond)
	}
	return &t, nil
}

// queryTimezone returns the raw timezone parameter and its location.
func queryTimezone(q url.Values) (string, *time.Location) {
	tz := strings.TrimSpace(q.Get("timezone"))
	return tz, tracking.LoadLocation(tz)
}

// queryUserID returns user_id, falling back to id.
func queryUserID(q url.Values) string {
	if id := strings.TrimSpace(q.Get("user_id")); id != "" {
		return id
	}
	return strings.TrimSpace(q.Get("id"))
}
