package upstream

import (
	"errors"
	"fmt"
)

// ErrNoRecord means the provider answered but holds no record for the tag.
var ErrNoRecord = errors.New("no warranty record in upstream")

// UnavailableError means the provider could not be reached or refused the
// request.
type UnavailableError struct {
	Source Source
	Err    error
}

func (e *UnavailableError) Error() string {
	if e == nil {
		return "upstream unavailable"
	}
	return fmt.Sprintf("upstream %s unavailable: %v", e.Source, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// FormatError means the provider answered with a shape the fetcher could
// not extract a record from.
type FormatError struct {
	Source Source
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e == nil {
		return "unexpected upstream response shape"
	}
	if e.Err != nil {
		return fmt.Sprintf("upstream %s response: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("upstream %s response: %s", e.Source, e.Reason)
}

func (e *FormatError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
