/*
engine.go - Effective schedule resolution orchestrator

PURPOSE:
  Composes the priority stages, period selector, and pattern matcher into a
  single resolution per (employee, date), plus a week-level aggregation.

RESOLUTION SEQUENCE (per date):
  1. Resolve the active assignment (template, rotation anchor)
  2. Run the stage chain: absence -> override -> manual shift
  3. Select the winning period, or fall through to the template
  4. Match the date to the day's WorkDayPattern
  5. Resolve paid-break slots and attach counts-as-work to each output slot
  6. Return the EffectiveSchedule tagged with its provenance

STATELESSNESS:
  The engine holds no mutable state. Each resolution is a pure
  read-then-compute over the snapshot the Reader returns at call time;
  concurrent resolutions are safe because nothing here mutates.

ERROR POLICY:
  Per-date failures inside a week resolution are recorded as NONE entries
  (unscheduled, with a reason) and never abort the week. Reader I/O failures
  propagate as-is; retry belongs to the caller or an enclosing job system.

SEE ALSO:
  - resolver.go: The stage chain
  - selector.go: Period selection
  - pattern.go: Weekday / rotation-cycle pattern lookup
*/
package schedule

import "context"

// =============================================================================
// ENGINE
// =============================================================================

// Config tunes the layering of manual shift assignments.
type Config struct {
	// ManualShiftsBelowPeriods demotes manual shifts below the period layer:
	// a manual shift then only applies when no period covers the date.
	// Default (false) resolves manual shifts above periods, below overrides.
	ManualShiftsBelowPeriods bool
}

// Engine resolves effective schedules against a read-only record store.
type Engine struct {
	Reader Reader
	Config Config
}

// NewEngine creates an engine with default layering.
func NewEngine(reader Reader) *Engine {
	return &Engine{Reader: reader}
}

// =============================================================================
// DAY RESOLUTION
// =============================================================================

// ResolveEffectiveSchedule computes the schedule that actually applies to the
// employee on the date. Returns ErrNoActiveAssignment or ErrNoPatternForDate
// (via IsUnscheduled) when the employee simply has no schedule.
func (e *Engine) ResolveEffectiveSchedule(ctx context.Context, employeeID EmployeeID, date LocalDate) (*EffectiveSchedule, error) {
	assignment, err := e.Reader.GetActiveAssignment(ctx, employeeID, date)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return nil, &NoActiveAssignmentError{EmployeeID: employeeID, Date: date}
	}

	stages := []stage{e.absenceStage(), e.overrideStage()}
	if !e.Config.ManualShiftsBelowPeriods {
		stages = append(stages, e.manualShiftStage())
	}
	if resolved, err := runStages(ctx, stages, employeeID, date); err != nil || resolved != nil {
		return resolved, err
	}

	template, err := e.Reader.GetTemplate(ctx, assignment.TemplateID)
	if err != nil {
		return nil, err
	}

	source := PatternSource{
		TemplateID:  template.ID,
		Kind:        template.Kind,
		CycleLength: template.CycleLength,
		Anchor:      assignment.Anchor,
		Patterns:    template.Patterns,
	}
	tag := SourceTemplate
	provenance := Provenance{TemplateID: template.ID}

	period, periodFound := SelectPeriod(template.Periods, date)
	if periodFound {
		source.Patterns = period.Patterns
		tag = SourcePeriod
		provenance.PeriodID = period.ID
	} else if e.Config.ManualShiftsBelowPeriods {
		// Demoted manual shifts apply only when no period covers the date.
		if resolved, err := runStages(ctx, []stage{e.manualShiftStage()}, employeeID, date); err != nil || resolved != nil {
			return resolved, err
		}
	}

	pattern, err := source.PatternForDate(date)
	if err != nil {
		return nil, err
	}

	slots, err := e.resolveSlots(ctx, pattern.Slots)
	if err != nil {
		return nil, err
	}

	return &EffectiveSchedule{
		EmployeeID: employeeID,
		Date:       date,
		Source:     tag,
		Provenance: provenance,
		Slots:      slots,
	}, nil
}

// resolveSlots attaches the counts-as-work decision to each slot. WORK slots
// always count; BREAK slots count when flagged on the record or configured as
// paid breaks in the store.
func (e *Engine) resolveSlots(ctx context.Context, slots []TimeSlot) ([]EffectiveTimeSlot, error) {
	var breakIDs []SlotID
	for _, s := range slots {
		if s.Type == SlotBreak && !s.CountsAsWork {
			breakIDs = append(breakIDs, s.ID)
		}
	}

	paid := map[SlotID]bool{}
	if len(breakIDs) > 0 {
		var err error
		paid, err = e.Reader.GetPaidBreakSlotIDs(ctx, breakIDs)
		if err != nil {
			return nil, err
		}
	}

	resolved := make([]EffectiveTimeSlot, len(slots))
	for i, s := range slots {
		counts := s.Type == SlotWork || s.CountsAsWork || paid[s.ID]
		resolved[i] = EffectiveTimeSlot{Slot: s, CountsAsWork: counts}
	}
	return resolved, nil
}

// =============================================================================
// WEEK RESOLUTION
// =============================================================================

// ResolveWeekSchedule resolves the Monday-Sunday week containing
// weekStartDate. Unscheduled and data-integrity failures on a single day are
// recorded as NONE entries with a reason; only Reader I/O failures abort the
// call.
func (e *Engine) ResolveWeekSchedule(ctx context.Context, employeeID EmployeeID, weekStartDate LocalDate) (*WeekSchedule, error) {
	monday := weekStartDate.StartOfWeek()
	week := &WeekSchedule{EmployeeID: employeeID, WeekStart: monday}

	for i := 0; i < 7; i++ {
		date := monday.AddDays(i)
		resolved, err := e.ResolveEffectiveSchedule(ctx, employeeID, date)
		if err != nil {
			if IsUnscheduled(err) || IsDataIntegrity(err) {
				week.Days[i] = EffectiveSchedule{
					EmployeeID: employeeID,
					Date:       date,
					Source:     SourceNone,
					Reason:     err.Error(),
				}
				continue
			}
			return nil, err
		}
		week.Days[i] = *resolved
		week.ScheduledMinutes += resolved.ScheduledMinutes()
		week.CountsAsWorkMinutes += resolved.CountsAsWorkMinutes()
	}

	return week, nil
}
