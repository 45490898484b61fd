package transaction

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

var (
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidAmount    = errors.New("amount must be a positive number")
	ErrEmptyDescription = errors.New("description cannot be empty")
	ErrInvalidDate      = errors.New("date must be formatted as YYYY-MM-DD")
	ErrMalformed        = errors.New("malformed ledger data")
)

// ValidationError reports which draft field was rejected and why.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// BatchError collects the validation failures of a batch, keyed by the
// position of the offending draft.
type BatchError struct {
	Errors map[int]*ValidationError
}

func (e *BatchError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, i := range slices.Sorted(maps.Keys(e.Errors)) {
		parts = append(parts, fmt.Sprintf("draft %d: %v", i, e.Errors[i]))
	}

	return "invalid batch: " + strings.Join(parts, "; ")
}
