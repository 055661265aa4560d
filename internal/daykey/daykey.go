// Package daykey derives calendar day keys anchored to a single global
// reference time so every install agrees on "today" without coordination.
package daykey

import (
	"fmt"
	"time"
)

// Format is the fixed 10-character day key layout.
const Format = "2006-01-02"

// Clock supplies the current time. Injected so day rollover can be driven
// in tests without wall-clock waits.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// For returns the day key of t, anchored to UTC.
func For(t time.Time) string {
	return t.UTC().Format(Format)
}

// Today returns the current day key from the given clock.
func Today(clock Clock) string {
	return For(clock.Now())
}

// Parse validates a day key and returns its UTC midnight instant.
func Parse(key string) (time.Time, error) {
	t, err := time.ParseInLocation(Format, key, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day key %q: %w", key, err)
	}
	return t, nil
}

// Gap returns the signed whole-day distance from one key to another.
// A malformed key yields an error; callers treat that as "no prior record".
func Gap(from, to string) (int, error) {
	a, err := Parse(from)
	if err != nil {
		return 0, err
	}
	b, err := Parse(to)
	if err != nil {
		return 0, err
	}
	return int(b.Sub(a) / (24 * time.Hour)), nil
}

// NextMidnight returns the next UTC day boundary after t. The daily
// challenge displays the time remaining until this instant.
func NextMidnight(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC).Add(24 * time.Hour)
}
