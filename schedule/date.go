package schedule

import (
	"fmt"
	"time"
)

// =============================================================================
// LOCAL DATE - Calendar date with no time component
// =============================================================================

// LocalDate is a plain calendar date (year/month/day). It deliberately carries
// no time-of-day and no timezone: every date crossing the engine boundary is
// already local to the employee's organization, and comparisons must never
// depend on wall-clock offsets.
type LocalDate struct {
	Year  int
	Month time.Month
	Day   int
}

// NewLocalDate builds a LocalDate. Out-of-range components are normalized the
// same way time.Date normalizes them.
func NewLocalDate(year int, month time.Month, day int) LocalDate {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return LocalDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// DateOf extracts the calendar date from a time.Time in its own location.
func DateOf(t time.Time) LocalDate {
	return LocalDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// ParseLocalDate parses "2006-01-02".
func ParseLocalDate(s string) (LocalDate, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return LocalDate{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

func (d LocalDate) toTime() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Comparison
func (d LocalDate) Before(other LocalDate) bool { return d.toTime().Before(other.toTime()) }
func (d LocalDate) After(other LocalDate) bool  { return d.toTime().After(other.toTime()) }
func (d LocalDate) Equal(other LocalDate) bool  { return d == other }
func (d LocalDate) BeforeOrEqual(other LocalDate) bool { return !d.After(other) }
func (d LocalDate) AfterOrEqual(other LocalDate) bool  { return !d.Before(other) }

// Arithmetic
func (d LocalDate) AddDays(n int) LocalDate { return DateOf(d.toTime().AddDate(0, 0, n)) }

// Properties
func (d LocalDate) Weekday() time.Weekday { return d.toTime().Weekday() }
func (d LocalDate) IsZero() bool          { return d == LocalDate{} }

func (d LocalDate) String() string { return d.toTime().Format("2006-01-02") }

// WeekdayIndex returns the Monday-based weekday index: Monday=0 .. Sunday=6.
// Fixed and flexible patterns are keyed by this index.
func (d LocalDate) WeekdayIndex() int {
	return FloorMod(int(d.Weekday())-1, 7)
}

// StartOfWeek returns the Monday of the week containing d.
func (d LocalDate) StartOfWeek() LocalDate {
	return d.AddDays(-d.WeekdayIndex())
}

// DaysBetween returns the signed number of calendar days from one date to
// another. Negative when to is before from.
func DaysBetween(from, to LocalDate) int {
	return int(to.toTime().Sub(from.toTime()).Hours() / 24)
}

// FloorMod is the mathematical modulo: the result always has the sign of the
// divisor. Needed so rotation cycle indexes are well-defined for dates before
// the anchor.
func FloorMod(a, b int) int {
	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

// =============================================================================
// DATE RANGE - Inclusive [Start, End], open-ended when End is nil
// =============================================================================

// DateRange is an inclusive calendar date range. A nil End means the range
// extends indefinitely.
type DateRange struct {
	Start LocalDate
	End   *LocalDate
}

// NewDateRange builds a bounded range, rejecting end-before-start.
func NewDateRange(start, end LocalDate) (DateRange, error) {
	if end.Before(start) {
		return DateRange{}, fmt.Errorf("%w: %s before %s", ErrInvalidDateRange, end, start)
	}
	return DateRange{Start: start, End: &end}, nil
}

// OpenRange builds a range with no end date.
func OpenRange(start LocalDate) DateRange {
	return DateRange{Start: start}
}

// Contains reports whether the date falls within the range.
func (r DateRange) Contains(d LocalDate) bool {
	if d.Before(r.Start) {
		return false
	}
	if r.End != nil && d.After(*r.End) {
		return false
	}
	return true
}

// IsOpen reports whether the range has no end date.
func (r DateRange) IsOpen() bool { return r.End == nil }

// LengthDays returns the inclusive day count and true, or (0, false) for an
// open-ended range.
func (r DateRange) LengthDays() (int, bool) {
	if r.End == nil {
		return 0, false
	}
	return DaysBetween(r.Start, *r.End) + 1, true
}

// Overlaps reports whether two ranges share at least one day.
func (r DateRange) Overlaps(other DateRange) bool {
	if other.End != nil && other.End.Before(r.Start) {
		return false
	}
	if r.End != nil && r.End.Before(other.Start) {
		return false
	}
	return true
}

func (r DateRange) String() string {
	if r.End == nil {
		return "[" + r.Start.String() + ", ...)"
	}
	return "[" + r.Start.String() + ", " + r.End.String() + "]"
}
