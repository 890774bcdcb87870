package schedule

import "fmt"

// =============================================================================
// PATTERN MATCHER - Maps a date to the applicable WorkDayPattern
// =============================================================================
// Fixed/flexible templates key patterns by Monday-based weekday. Shift and
// rotation templates key them by cycle position, computed with a floor-mod so
// the index is well-defined for dates before the anchor.

// PatternSource is what the matcher operates on: either a template's own
// patterns or the winning period's patterns, plus the rotation parameters
// that always come from the template and assignment.
type PatternSource struct {
	TemplateID  TemplateID
	Kind        ScheduleKind
	CycleLength int
	Anchor      LocalDate
	Patterns    []WorkDayPattern
}

// DayIndexFor computes which pattern index applies on the date.
func (ps PatternSource) DayIndexFor(date LocalDate) (int, error) {
	if !ps.Kind.IsRotating() {
		return date.WeekdayIndex(), nil
	}
	if ps.CycleLength <= 0 {
		return 0, fmt.Errorf("%w: template %s cycle length %d", ErrInvalidCycleLength, ps.TemplateID, ps.CycleLength)
	}
	return FloorMod(DaysBetween(ps.Anchor, date), ps.CycleLength), nil
}

// PatternForDate resolves the date to its WorkDayPattern. Returns a
// NoPatternError when nothing is registered at the computed index; callers
// treat that as "no schedule", not a user-facing failure.
func (ps PatternSource) PatternForDate(date LocalDate) (WorkDayPattern, error) {
	idx, err := ps.DayIndexFor(date)
	if err != nil {
		return WorkDayPattern{}, err
	}
	p, ok := PatternFor(ps.Patterns, idx)
	if !ok {
		return WorkDayPattern{}, &NoPatternError{TemplateID: ps.TemplateID, Date: date, DayIndex: idx}
	}
	return p, nil
}
