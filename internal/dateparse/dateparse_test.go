package dateparse

import (
	"errors"
	"testing"
	"time"
)

func TestParseDellTimestamp(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"full timestamp", "2024-01-15T00:00:00", time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)},
		{"time of day discarded", "2023-06-01T23:59:59.000Z", time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)},
		{"date only", "2020-12-31", time.Date(2020, time.December, 31, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDellTimestamp(tc.raw)
			if err != nil {
				t.Fatalf("parse %q: %v", tc.raw, err)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("parse %q = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestParseDellTimestampMalformed(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"too few tokens", "2024-01"},
		{"too many tokens", "2024-01-15-16"},
		{"non numeric year", "twenty-01-15"},
		{"non numeric day", "2024-01-xxT00:00:00"},
		{"month out of range", "2024-13-15T00:00:00"},
		{"day out of range", "2024-01-32T00:00:00"},
		{"empty", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseDellTimestamp(tc.raw)
			if err == nil {
				t.Fatalf("parse %q: expected error", tc.raw)
			}
			var malformed *MalformedDateError
			if !errors.As(err, &malformed) {
				t.Fatalf("parse %q: got %T, want *MalformedDateError", tc.raw, err)
			}
		})
	}
}

func TestParseExportDate(t *testing.T) {
	got, err := ParseExportDate("05-Jan-23")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := time.Date(2023, time.January, 5, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("parse = %v, want %v", got, want)
	}
}

func TestParseExportDateMalformed(t *testing.T) {
	for _, raw := range []string{"2023-01-05", "05/Jan/23", "05-January-23", "", "garbage"} {
		_, err := ParseExportDate(raw)
		if err == nil {
			t.Fatalf("parse %q: expected error", raw)
		}
		var malformed *MalformedDateError
		if !errors.As(err, &malformed) {
			t.Fatalf("parse %q: got %T, want *MalformedDateError", raw, err)
		}
	}
}
