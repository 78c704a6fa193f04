package services

import "errors"

var (
	// ErrUnboundedRange is returned when an operation needs both ends of a date range.
	ErrUnboundedRange = errors.New("date range must have a start and an end")

	// ErrConflictSourceUnavailable is returned when the conflict source refuses calls,
	// for example while its circuit breaker is open.
	ErrConflictSourceUnavailable = errors.New("conflict source unavailable")
)
