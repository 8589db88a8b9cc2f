package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a delete names an id that does not exist.
	ErrNotFound = errors.New("enquiry not found")
	// ErrEmptyBatch rejects an import whose batch has zero valid rows.
	ErrEmptyBatch = errors.New("no valid enquiries in batch")
	// ErrNotificationFailed reports a mail transport failure for an enquiry
	// that was already persisted. The record itself is never rolled back.
	ErrNotificationFailed = errors.New("enquiry saved but email notification failed")
	// ErrStorage wraps database unavailability or write failures. No layer
	// retries; callers see the failure immediately.
	ErrStorage = errors.New("storage failure")
	// ErrParse signals an upload that is not a readable spreadsheet. The
	// import preview aborts entirely, no partial results.
	ErrParse = errors.New("file is not a readable spreadsheet")
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) String() string {
	return e.Field + ": " + e.Message
}

// ValidationError aggregates the per-field failures of one payload. It is
// resolved entirely at the boundary and never reaches the store.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.String()
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(msgs, "; "))
}

// RowError ties validation failures to a 1-based spreadsheet row number
// (the first data row is row 2, after the header).
type RowError struct {
	Row    int          `json:"row"`
	Errors []FieldError `json:"errors"`
	Data   EnquiryDraft `json:"data"`
}
