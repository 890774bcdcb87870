/*
store.go - Read-only data-access interface the engine consumes

PURPOSE:
  Defines the narrow boundary between the resolution engine and whatever
  persists schedule records. The engine never mutates schedule data and
  never queries across tenants: implementations hand it pre-scoped record
  sets.

CONTRACT:
  - All lookups are point reads for one employee/date or one template.
  - A nil record with a nil error means "not found"; the engine decides
    whether that is terminal (no assignment) or just "continue down the
    priority chain" (no absence, no override).
  - GetAbsence must only return APPROVED absences.
  - I/O failures propagate as-is; the engine does not retry.

IMPLEMENTATIONS:
  - store/memory.go: In-memory, for tests and dev
  - store/sqlite: Production SQLite store (also owns the write path and the
    authoritative overlap constraint on assignments)
*/
package schedule

import "context"

// Reader is the data-access collaborator for resolution. Read-only by design;
// mutation lives entirely outside the engine.
type Reader interface {
	// GetActiveAssignment returns the employee's assignment valid on the
	// date, or nil when there is none.
	GetActiveAssignment(ctx context.Context, employeeID EmployeeID, date LocalDate) (*Assignment, error)

	// GetTemplate returns the template with its patterns and periods.
	// Returns ErrTemplateNotFound when the ID is unknown.
	GetTemplate(ctx context.Context, templateID TemplateID) (*ScheduleTemplate, error)

	// GetAbsence returns an approved absence covering the date, or nil.
	GetAbsence(ctx context.Context, employeeID EmployeeID, date LocalDate) (*AbsenceRequest, error)

	// GetOverride returns the exception-day override for the exact date, or nil.
	GetOverride(ctx context.Context, employeeID EmployeeID, date LocalDate) (*ExceptionDayOverride, error)

	// GetManualShift returns the ad-hoc shift assignment for the date, or nil.
	GetManualShift(ctx context.Context, employeeID EmployeeID, date LocalDate) (*ManualShiftAssignment, error)

	// GetPaidBreakSlotIDs returns the subset of the given slot IDs configured
	// as paid breaks (BREAK slots that count toward worked hours).
	GetPaidBreakSlotIDs(ctx context.Context, slotIDs []SlotID) (map[SlotID]bool, error)
}
