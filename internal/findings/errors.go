package findings

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRecords means the finding source returned no list at all, which is
	// different from a list that is legitimately empty.
	ErrNoRecords = errors.New("no finding records: the finding source returned nothing")

	ErrMalformedRecord = errors.New("malformed finding record")
	ErrMissingField    = errors.New("required field is missing")
	ErrInvalidField    = errors.New("field has an invalid value")
)

// RecordError describes why a single raw record was rejected.
type RecordError struct {
	Index int
	Field string
	Err   error
}

func (e *RecordError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("record %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("record %d: field %q: %v", e.Index, e.Field, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}
