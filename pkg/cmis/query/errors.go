package query

import "errors"

var (
	// ErrInvalidArgument is recorded by builder setters on out-of-range input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrQueryExecution wraps any failure while running a query.
	ErrQueryExecution = errors.New("query execution failed")

	// ErrNoResults is returned by First when no row could be mapped.
	ErrNoResults = errors.New("query returned no results")

	// ErrFieldConversion marks a raw value that could not be assigned.
	ErrFieldConversion = errors.New("field conversion failed")
)
