/*
Package schedule provides the effective schedule resolution engine.

PURPOSE:
  Given an employee and a date, compute which time-slot schedule actually
  applies by merging four layers of schedule data under a strict priority
  order:

    1. Absence requests      (terminal: employee is NOT WORKING)
    2. Exception overrides   (single-date replacement of the whole day)
    3. Manual shifts         (ad-hoc shift assignment, position configurable)
    4. Schedule periods      (time-bounded overrides bound to a template)
    5. Base templates        (the fallback layer)

  The result is a materialized daily/weekly schedule consumed read-only by
  time-tracking validation, shift display, and payroll computation.

KEY CONCEPTS IN THIS FILE (types.go):
  - TimeSlot: a contiguous [start, end) minute-of-day range, WORK or BREAK
  - WorkDayPattern: the ordered slot sequence for one weekday/cycle position
  - ScheduleTemplate: named base schedule owning patterns and periods
  - SchedulePeriod: date-bounded pattern override with a category rank
  - EffectiveSchedule: the resolved output, tagged with its provenance

DESIGN PRINCIPLES:
  1. Immutability: entities are validated at construction and never mutated
  2. Explicit dates: LocalDate + minute-of-day everywhere, no wall clocks
  3. Auditability: every resolution carries the IDs of the winning layer
  4. Purity: resolution is a pure function of a record snapshot

OVERNIGHT SLOTS:
  A slot is confined to one calendar day: 0 <= start < end <= 1440. A shift
  crossing midnight is represented as two slots, one ending at 24:00 and one
  starting at 00:00 on the following day. There is no wrap flag.

SEE ALSO:
  - engine.go: The resolution orchestrator
  - resolver.go: The priority stage chain
  - selector.go: Period selection rules
*/
package schedule

import (
	"fmt"
	"sort"
	"time"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string
type TemplateID string
type PeriodID string
type SlotID string
type OverrideID string
type AbsenceID string
type AssignmentID string
type ShiftID string

// =============================================================================
// TIME SLOT - Contiguous minute range within one day
// =============================================================================

type SlotType string

const (
	SlotWork  SlotType = "work"
	SlotBreak SlotType = "break"
)

// TimeSlot is a contiguous [StartMinutes, EndMinutes) range within a single
// calendar day. CountsAsWork marks intervals that contribute to worked-hours
// accounting even when the type is BREAK (paid breaks).
type TimeSlot struct {
	ID           SlotID
	StartMinutes int
	EndMinutes   int
	Type         SlotType
	CountsAsWork bool
}

// NewTimeSlot validates the minute range at construction. End must be strictly
// after start and within [0, 1440].
func NewTimeSlot(id SlotID, start, end int, slotType SlotType, countsAsWork bool) (TimeSlot, error) {
	if start < 0 || end > MinutesPerDay || end <= start {
		return TimeSlot{}, fmt.Errorf("%w: slot %s [%d, %d)", ErrInvalidSlotRange, id, start, end)
	}
	if slotType != SlotWork && slotType != SlotBreak {
		return TimeSlot{}, fmt.Errorf("%w: slot %s type %q", ErrInvalidSlotRange, id, slotType)
	}
	return TimeSlot{ID: id, StartMinutes: start, EndMinutes: end, Type: slotType, CountsAsWork: countsAsWork}, nil
}

// DurationMinutes is always end - start; construction guarantees it positive.
func (s TimeSlot) DurationMinutes() int { return s.EndMinutes - s.StartMinutes }

// Overlaps reports whether two slots share any minute.
func (s TimeSlot) Overlaps(other TimeSlot) bool {
	return s.StartMinutes < other.EndMinutes && other.StartMinutes < s.EndMinutes
}

// FormatRange renders the slot as "HH:mm-HH:mm".
func (s TimeSlot) FormatRange() string {
	return FormatRange(s.StartMinutes, s.EndMinutes)
}

// =============================================================================
// WORK DAY PATTERN - Slot sequence for one weekday or cycle position
// =============================================================================

// WorkDayPattern holds the slots for one day. DayIndex is the Monday-based
// weekday (0-6) for fixed/flexible templates, or the rotation cycle position
// for shift/rotation templates.
type WorkDayPattern struct {
	DayIndex int
	Slots    []TimeSlot
}

// NewWorkDayPattern validates that slots do not overlap and stores them sorted
// by start time.
func NewWorkDayPattern(dayIndex int, slots []TimeSlot) (WorkDayPattern, error) {
	if dayIndex < 0 {
		return WorkDayPattern{}, fmt.Errorf("%w: day index %d", ErrInvalidSlotRange, dayIndex)
	}
	sorted := make([]TimeSlot, len(slots))
	copy(sorted, slots)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StartMinutes < sorted[j].StartMinutes })
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].EndMinutes > sorted[i].StartMinutes {
			return WorkDayPattern{}, fmt.Errorf("%w: day %d slots %s and %s",
				ErrOverlappingSlots, dayIndex, sorted[i-1].ID, sorted[i].ID)
		}
	}
	return WorkDayPattern{DayIndex: dayIndex, Slots: sorted}, nil
}

// ScheduledMinutes is the total span of all slots in the pattern.
func (p WorkDayPattern) ScheduledMinutes() int {
	total := 0
	for _, s := range p.Slots {
		total += s.DurationMinutes()
	}
	return total
}

// =============================================================================
// SCHEDULE TEMPLATE - Named base schedule (fallback layer)
// =============================================================================

// ScheduleKind drives how a date maps to a pattern.
type ScheduleKind string

const (
	KindFixed    ScheduleKind = "fixed"    // one pattern per weekday
	KindFlexible ScheduleKind = "flexible" // weekday-mapped, hours are advisory
	KindShift    ScheduleKind = "shift"    // rotation cycle anchored to a date
	KindRotation ScheduleKind = "rotation" // rotation cycle anchored to a date
)

// IsRotating reports whether pattern lookup uses the rotation cycle index.
func (k ScheduleKind) IsRotating() bool { return k == KindShift || k == KindRotation }

// ScheduleTemplate is the named base schedule for a cost center or role. It
// owns one WorkDayPattern per weekday or cycle position, plus the periods
// that may override it. Immutable once periods reference it.
type ScheduleTemplate struct {
	ID          TemplateID
	Name        string
	Kind        ScheduleKind
	CycleLength int // rotation cycle length in days; 0 for fixed/flexible
	Patterns    []WorkDayPattern
	Periods     []SchedulePeriod
	CreatedAt   time.Time
}

// PatternFor returns the pattern registered at the given day index.
func PatternFor(patterns []WorkDayPattern, dayIndex int) (WorkDayPattern, bool) {
	for _, p := range patterns {
		if p.DayIndex == dayIndex {
			return p, true
		}
	}
	return WorkDayPattern{}, false
}

// =============================================================================
// SCHEDULE PERIOD - Date-bounded pattern override with category rank
// =============================================================================

// PeriodCategory ranks overlapping periods: SPECIAL > INTENSIVE > REGULAR.
type PeriodCategory string

const (
	CategoryRegular   PeriodCategory = "regular"
	CategoryIntensive PeriodCategory = "intensive"
	CategorySpecial   PeriodCategory = "special"
)

// Rank returns the numeric priority of the category; higher wins.
func (c PeriodCategory) Rank() int {
	switch c {
	case CategorySpecial:
		return 3
	case CategoryIntensive:
		return 2
	case CategoryRegular:
		return 1
	default:
		return 0
	}
}

// SchedulePeriod is an optional override layer bound to a template, active
// within its date range and carrying its own pattern set.
type SchedulePeriod struct {
	ID         PeriodID
	TemplateID TemplateID
	Category   PeriodCategory
	Range      DateRange
	Patterns   []WorkDayPattern
	CreatedAt  time.Time
}

// =============================================================================
// EMPLOYEE-LEVEL LAYERS
// =============================================================================

// ExceptionDayOverride replaces the entire resolved schedule for one employee
// on one date ("holiday worked", "custom hours today"). Highest priority
// below absence.
type ExceptionDayOverride struct {
	ID         OverrideID
	EmployeeID EmployeeID
	Date       LocalDate
	Slots      []TimeSlot
	Reason     string
}

// AbsenceRequest is an approved absence covering a date range. When it covers
// a date the employee has no work schedule that day, regardless of any other
// layer. The engine only ever sees approved requests.
type AbsenceRequest struct {
	ID         AbsenceID
	EmployeeID EmployeeID
	Kind       string // vacation, sick, leave, ...
	Range      DateRange
}

// ManualShiftAssignment is an ad-hoc assignment of an employee to a slot set
// on a specific date, used in rotation/shift environments.
type ManualShiftAssignment struct {
	ID         ShiftID
	EmployeeID EmployeeID
	Date       LocalDate
	TemplateID TemplateID
	Slots      []TimeSlot
}

// Assignment links an employee to a template within a validity window.
// Anchor is the rotation reference date for shift/rotation templates.
type Assignment struct {
	ID         AssignmentID
	EmployeeID EmployeeID
	TemplateID TemplateID
	Range      DateRange
	Anchor     LocalDate
	CreatedAt  time.Time
}

// IsActive reports whether the assignment is valid on the given date.
func (a Assignment) IsActive(d LocalDate) bool { return a.Range.Contains(d) }

// =============================================================================
// EFFECTIVE SCHEDULE - The resolved output (never persisted)
// =============================================================================

// Source tags which layer produced an effective schedule.
type Source string

const (
	SourceAbsence  Source = "absence"
	SourceOverride Source = "override"
	SourceManual   Source = "manual"
	SourcePeriod   Source = "period"
	SourceTemplate Source = "template"
	SourceNone     Source = "none"
)

// Provenance carries the identifiers of the winning layer for auditability.
// Only the fields relevant to the Source are set.
type Provenance struct {
	TemplateID TemplateID
	PeriodID   PeriodID
	OverrideID OverrideID
	AbsenceID  AbsenceID
	ShiftID    ShiftID
}

// EffectiveTimeSlot is a slot plus its resolved counts-as-work decision.
type EffectiveTimeSlot struct {
	Slot         TimeSlot
	CountsAsWork bool
}

// EffectiveSchedule is the final resolution for one (employee, date). Built
// fresh on every query; callers must not cache it across mutations.
type EffectiveSchedule struct {
	EmployeeID EmployeeID
	Date       LocalDate
	Source     Source
	Provenance Provenance
	Slots      []EffectiveTimeSlot

	// Reason is set for SourceNone days inside a week/roster batch, recording
	// why the day is unscheduled instead of failing the whole call.
	Reason string
}

// IsWorking reports whether the employee has any scheduled slot that day.
func (es EffectiveSchedule) IsWorking() bool { return len(es.Slots) > 0 }

// ScheduledMinutes is the total span of all resolved slots.
func (es EffectiveSchedule) ScheduledMinutes() int {
	total := 0
	for _, s := range es.Slots {
		total += s.Slot.DurationMinutes()
	}
	return total
}

// CountsAsWorkMinutes is the span of slots contributing to worked-hours
// accounting.
func (es EffectiveSchedule) CountsAsWorkMinutes() int {
	total := 0
	for _, s := range es.Slots {
		if s.CountsAsWork {
			total += s.Slot.DurationMinutes()
		}
	}
	return total
}

// =============================================================================
// WEEK SCHEDULE - Seven daily resolutions plus aggregates
// =============================================================================

// WeekSchedule is the Monday-Sunday sequence of daily resolutions with
// aggregate totals.
type WeekSchedule struct {
	EmployeeID          EmployeeID
	WeekStart           LocalDate
	Days                [7]EffectiveSchedule
	ScheduledMinutes    int
	CountsAsWorkMinutes int
}
