// Package biztime centralizes wall-clock access for time-derived business
// state. All storage and transport use UTC; implicit Local timezone is
// prohibited. Credential status is derived from these instants, never stored.
package biztime

import (
	"fmt"
	"time"
)

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// ToUTC converts a time (any timezone) to UTC.
func ToUTC(t time.Time) time.Time {
	return t.UTC()
}

// MinutesRemaining returns the number of whole minutes until deadline, rounded
// up, and 0 when the deadline has passed.
func MinutesRemaining(deadline, now time.Time) int {
	if !now.Before(deadline) {
		return 0
	}
	d := deadline.Sub(now)
	mins := int(d / time.Minute)
	if d%time.Minute != 0 {
		mins++
	}
	return mins
}

// FormatStamp formats a UTC time for audit notes using RFC3339.
func FormatStamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ParseStamp parses an RFC3339 timestamp produced by FormatStamp.
func ParseStamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp format %q: %w", s, err)
	}
	return t, nil
}
