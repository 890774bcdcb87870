/*
errors.go - Centralized error types for the schedule engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers classify errors with the helpers at the bottom instead of
  matching strings.

ERROR CATEGORIES:
  1. Unscheduled errors - Non-fatal: the employee simply has no schedule
  2. Data-integrity errors - Malformed records; fatal for the single record
     but must never abort a week-level or roster-level batch
  3. Not-found errors - Referenced records missing from the store

SEE ALSO:
  - engine.go: Wraps these with per-date context
  - validate.go: Conflicts are data, not errors (see ValidationResult)
*/
package schedule

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNoActiveAssignment means the employee has no schedule assignment
	// valid on the date. Non-fatal; callers render "unscheduled".
	ErrNoActiveAssignment = errors.New("no active schedule assignment")

	// ErrNoPatternForDate means an assignment exists but no pattern covers
	// the computed weekday or cycle index. Non-fatal, same treatment.
	ErrNoPatternForDate = errors.New("no pattern registered for date")

	// ErrInvalidTimeFormat is returned for malformed clock strings or
	// out-of-range minute-of-day values.
	ErrInvalidTimeFormat = errors.New("invalid time format")

	// ErrInvalidSlotRange is returned when a slot's minute range is malformed
	// (end <= start, or outside [0, 1440]).
	ErrInvalidSlotRange = errors.New("invalid slot range")

	// ErrOverlappingSlots is returned when slots within one day pattern
	// overlap in minute-of-day range.
	ErrOverlappingSlots = errors.New("overlapping slots in pattern")

	// ErrInvalidCycleLength is returned when a rotating template has a
	// non-positive cycle length.
	ErrInvalidCycleLength = errors.New("invalid rotation cycle length")

	// ErrInvalidDate is returned for unparseable date strings.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidDateRange is returned when a range's end precedes its start.
	ErrInvalidDateRange = errors.New("invalid date range: end before start")

	// ErrTemplateNotFound is returned when an assignment references a
	// template missing from the store.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// NoActiveAssignmentError identifies the employee and date with no coverage.
type NoActiveAssignmentError struct {
	EmployeeID EmployeeID
	Date       LocalDate
}

func (e *NoActiveAssignmentError) Error() string {
	return fmt.Sprintf("no active schedule assignment for %s on %s", e.EmployeeID, e.Date)
}

func (e *NoActiveAssignmentError) Unwrap() error { return ErrNoActiveAssignment }

// NoPatternError identifies the pattern source and the index that missed.
type NoPatternError struct {
	TemplateID TemplateID
	Date       LocalDate
	DayIndex   int
}

func (e *NoPatternError) Error() string {
	return fmt.Sprintf("template %s has no pattern for %s (day index %d)", e.TemplateID, e.Date, e.DayIndex)
}

func (e *NoPatternError) Unwrap() error { return ErrNoPatternForDate }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsUnscheduled returns true for the non-fatal "no schedule" outcomes.
// Week and roster batches record these as NONE entries instead of failing.
func IsUnscheduled(err error) bool {
	return errors.Is(err, ErrNoActiveAssignment) ||
		errors.Is(err, ErrNoPatternForDate)
}

// IsDataIntegrity returns true for malformed-record errors. These are fatal
// for the single record but isolated per date/employee inside a batch.
func IsDataIntegrity(err error) bool {
	return errors.Is(err, ErrInvalidSlotRange) ||
		errors.Is(err, ErrOverlappingSlots) ||
		errors.Is(err, ErrInvalidTimeFormat) ||
		errors.Is(err, ErrInvalidCycleLength)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTemplateNotFound) ||
		errors.Is(err, ErrEmployeeNotFound)
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidTimeFormat) ||
		errors.Is(err, ErrInvalidSlotRange) ||
		errors.Is(err, ErrOverlappingSlots) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidDateRange) ||
		errors.Is(err, ErrInvalidCycleLength)
}
