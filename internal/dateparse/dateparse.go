// Package dateparse normalizes the date formats the upstream sources emit
// into plain UTC calendar dates.
package dateparse

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const exportLayout = "02-Jan-06"

// MalformedDateError describes a date string that does not match the shape
// expected for its source. Callers treat it as a failed fetch, not a crash.
type MalformedDateError struct {
	Value  string
	Layout string
	Reason string
}

func (e *MalformedDateError) Error() string {
	if e == nil {
		return "malformed date"
	}
	return fmt.Sprintf("malformed date %q (want %s): %s", e.Value, e.Layout, e.Reason)
}

// ParseDellTimestamp parses the asset API timestamp form
// YYYY-MM-DDTHH:MM:SS, keeping only the calendar date. The time-of-day part
// after the literal T is discarded.
func ParseDellTimestamp(raw string) (time.Time, error) {
	fail := func(reason string) (time.Time, error) {
		return time.Time{}, &MalformedDateError{Value: raw, Layout: "YYYY-MM-DDTHH:MM:SS", Reason: reason}
	}

	parts := strings.Split(strings.TrimSpace(raw), "-")
	if len(parts) != 3 {
		return fail(fmt.Sprintf("expected 3 dash-separated tokens, got %d", len(parts)))
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return fail("year is not numeric")
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return fail("month is not numeric")
	}
	day, err := strconv.Atoi(strings.SplitN(parts[2], "T", 2)[0])
	if err != nil {
		return fail("day is not numeric")
	}
	if month < 1 || month > 12 {
		return fail("month out of range")
	}
	if day < 1 || day > 31 {
		return fail("day out of range")
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// ParseExportDate parses the flat-file export form DD-Mon-YY, e.g. 05-Jan-23,
// with a two-digit year and abbreviated English month.
func ParseExportDate(raw string) (time.Time, error) {
	t, err := time.ParseInLocation(exportLayout, strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return time.Time{}, &MalformedDateError{Value: raw, Layout: "DD-Mon-YY", Reason: err.Error()}
	}
	return t, nil
}
