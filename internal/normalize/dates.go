package normalize

import (
	"strconv"
	"strings"
	"time"

	"adlens/internal/models"
)

// Date layouts seen across actor versions, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

var (
	startDateKeys = []string{"start_date", "startDate"}
	endDateKeys   = []string{"end_date", "endDate"}
)

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ParseDateMaybe parses a scraped date-ish value: one of the known layouts,
// or an all-digit epoch in seconds. Naive timestamps are taken as UTC.
// Zero values count as absent, not as the epoch start.
func ParseDateMaybe(v any) (time.Time, bool) {
	if v == nil {
		return time.Time{}, false
	}
	switch t := v.(type) {
	case float64:
		if t == 0 {
			return time.Time{}, false
		}
		return time.Unix(int64(t), 0).UTC(), true
	case int:
		if t == 0 {
			return time.Time{}, false
		}
		return time.Unix(int64(t), 0).UTC(), true
	case int64:
		if t == 0 {
			return time.Time{}, false
		}
		return time.Unix(t, 0).UTC(), true
	}
	s := strings.TrimSpace(stringify(v))
	if s == "" || s == "0" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if dt, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return dt, true
		}
	}
	if isDigits(s) {
		if epoch, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.Unix(epoch, 0).UTC(), true
		}
	}
	return time.Time{}, false
}

// CoerceDate projects a value that may be an epoch (numeric or digit-string)
// or a date string into an ISO-8601 calendar date, UTC-normalized. Epoch wins
// when the value is purely numeric. Unparseable values yield nil silently.
func CoerceDate(v any) *string {
	switch v {
	case nil, "", "0":
		return nil
	}
	if f, ok := v.(float64); ok && f == 0 {
		return nil
	}
	switch t := v.(type) {
	case float64:
		return isoDate(time.Unix(int64(t), 0).UTC())
	case int:
		return isoDate(time.Unix(int64(t), 0).UTC())
	case int64:
		return isoDate(time.Unix(t, 0).UTC())
	case string:
		if isDigits(strings.TrimSpace(t)) {
			epoch, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
			if err == nil {
				return isoDate(time.Unix(epoch, 0).UTC())
			}
		}
	}
	if dt, ok := ParseDateMaybe(v); ok {
		return isoDate(dt.UTC())
	}
	return nil
}

// RunningDays returns how many whole days the ad has been running relative to
// now, never negative; nil when the start date is missing or unparseable.
// Recomputed at read time, never stored.
func RunningDays(raw models.RawRecord, now time.Time) *int {
	start := firstPresent(raw, startDateKeys)
	dt, ok := ParseDateMaybe(start)
	if !ok {
		return nil
	}
	days := int(now.UTC().Sub(dt).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return &days
}

func isoDate(t time.Time) *string {
	s := t.Format("2006-01-02")
	return &s
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if p := asString(v); p != nil {
		return *p
	}
	return ""
}
