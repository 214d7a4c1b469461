package model

import (
	"fmt"
	"strings"
	"time"
)

// UndefinedMarker is the literal used on the wire and in storage for a
// field with no known value.
const UndefinedMarker = "undefined"

const dateLayout = "2006-01-02"

// EndDate is a warranty end date that is either a known calendar date or
// unknown. Dates are naive: UTC midnight, no time-of-day, no timezone.
type EndDate struct {
	date  time.Time
	known bool
}

// NewEndDate builds a known end date, dropping any time-of-day component.
func NewEndDate(t time.Time) EndDate {
	return EndDate{
		date:  time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC),
		known: true,
	}
}

// UnknownEndDate builds the unknown variant.
func UnknownEndDate() EndDate {
	return EndDate{}
}

// ParseEndDate reads the stored text form back into an EndDate.
func ParseEndDate(raw string) (EndDate, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == UndefinedMarker {
		return UnknownEndDate(), nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return UnknownEndDate(), fmt.Errorf("invalid end date %q: %w", raw, err)
	}
	return NewEndDate(t), nil
}

// Known reports whether the date carries a value.
func (d EndDate) Known() bool {
	return d.known
}

// Date returns the calendar date; the zero time when unknown.
func (d EndDate) Date() time.Time {
	return d.date
}

// Equal compares two end dates, treating unknown as equal to unknown only.
func (d EndDate) Equal(other EndDate) bool {
	if d.known != other.known {
		return false
	}
	if !d.known {
		return true
	}
	return d.date.Equal(other.date)
}

// String renders the stored/wire text form.
func (d EndDate) String() string {
	if !d.known {
		return UndefinedMarker
	}
	return d.date.Format(dateLayout)
}

// WarrantyRecord is one cached warranty lookup result. Records are written
// once by a successful upstream fetch and never mutated afterwards.
type WarrantyRecord struct {
	ServiceTag string
	EndDate    EndDate
	Model      string
}

// Sentinel returns the fallback record served when no upstream population
// succeeded. It is a successful response, not an error.
func Sentinel() WarrantyRecord {
	return WarrantyRecord{
		ServiceTag: UndefinedMarker,
		EndDate:    UnknownEndDate(),
		Model:      UndefinedMarker,
	}
}

// WarrantyPayload is the JSON body returned by the lookup endpoint. Field
// names are fixed wire contract.
type WarrantyPayload struct {
	ComputerName string `json:"ComputerName"`
	WarrantyData string `json:"WarrantyData"`
	Model        string `json:"Model"`
}

// Payload converts a record to its wire form.
func (r WarrantyRecord) Payload() WarrantyPayload {
	return WarrantyPayload{
		ComputerName: r.ServiceTag,
		WarrantyData: r.EndDate.String(),
		Model:        r.Model,
	}
}
