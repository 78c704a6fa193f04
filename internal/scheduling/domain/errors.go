package domain

import "errors"

var (
	// ErrInvalidTimeFormat is returned when a time-of-day string is not a valid HH:MM value.
	ErrInvalidTimeFormat = errors.New("invalid time format")

	// ErrInvalidWindow is returned when a window or slot has start >= end, or when a
	// window sets both or neither of weekday and specific date.
	ErrInvalidWindow = errors.New("invalid window")

	// ErrInvalidWeekday is returned when a weekday value or name is not recognised.
	ErrInvalidWeekday = errors.New("invalid weekday")

	// ErrWindowNotFound is returned when an availability window does not exist.
	ErrWindowNotFound = errors.New("availability window not found")

	// ErrTemplateNotFound is returned when a schedule template does not exist.
	ErrTemplateNotFound = errors.New("schedule template not found")

	// ErrTemplateNameRequired is returned when a template has a blank name.
	ErrTemplateNameRequired = errors.New("template name is required")

	// ErrTemplateConflicts is returned when saving a template that overlaps existing
	// bookings of its resource and the save was not forced.
	ErrTemplateConflicts = errors.New("template conflicts with existing bookings")
)
