// Package timezone resolves IANA zone names and formats event times for
// display.
package timezone

import (
	"fmt"
	"time"
)

var (
	// UTC is the coordinated universal time timezone
	UTC = time.UTC
)

const (
	// TimezoneUTC is the UTC timezone identifier
	TimezoneUTC = "UTC"

	// TimezoneAsiaTokyo is the Japan Standard Time timezone
	TimezoneAsiaTokyo = "Asia/Tokyo"
)

// ParseTimezone parses an IANA timezone identifier (e.g., "Asia/Tokyo").
// If the timezone is invalid, returns UTC and an error.
func ParseTimezone(tz string) (*time.Location, error) {
	if tz == "" || tz == TimezoneUTC {
		return UTC, nil
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return UTC, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}

	return loc, nil
}

// IsValidTimezone checks if a timezone identifier is valid.
func IsValidTimezone(tz string) bool {
	_, err := ParseTimezone(tz)
	return err == nil
}

// ToUserTimezone converts a Unix timestamp to the user's timezone.
func ToUserTimezone(ts int64, tz *time.Location) time.Time {
	if tz == nil {
		tz = UTC
	}
	return time.Unix(ts, 0).In(tz)
}

// FormatEventTime formats an event span for display.
// Rules:
//   - Same day: "2006-01-02 15:04 - 16:00"
//   - Across days: "2006-01-02 23:00 - 2006-01-03 01:00"
func FormatEventTime(start, end time.Time) string {
	if end.IsZero() || !end.After(start) {
		return start.Format("2006-01-02 15:04")
	}
	y1, m1, d1 := start.Date()
	y2, m2, d2 := end.Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		return fmt.Sprintf("%s - %s", start.Format("2006-01-02 15:04"), end.Format("15:04"))
	}
	return fmt.Sprintf("%s - %s", start.Format("2006-01-02 15:04"), end.Format("2006-01-02 15:04"))
}
