package domain

import "errors"

var (
	// ErrUnknownEnum indicates a caller passed an unrecognized metric, period,
	// group key, sort field, or comparison mode. It is a configuration bug and
	// is never silently defaulted.
	ErrUnknownEnum = errors.New("unknown enum value")

	// ErrInvalidDateRange indicates a custom period with a missing bound or
	// from > to. Aggregation must not run until the range is valid.
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")
)
