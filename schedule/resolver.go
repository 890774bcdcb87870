/*
resolver.go - Priority chain stages above the period/template layer

PURPOSE:
  The precedence between absence requests, exception-day overrides, and
  manual shift assignments is a single visible ordered list of stages, not
  scattered conditionals. Each stage either produces a terminal
  EffectiveSchedule or signals "continue" by returning nil.

STAGE ORDER:
  1. absence      - terminal NOT WORKING, nothing below is consulted
  2. override     - the override's slot set IS the day, bypassing the rest
  3. manual shift - ad-hoc assignment; demotable below periods via Config

SEE ALSO:
  - engine.go: Runs the chain, then period selection + pattern matching
*/
package schedule

import "context"

// stage is one step of the priority chain. A nil schedule with a nil error
// means "no opinion, continue down the chain".
type stage struct {
	name string
	run  func(ctx context.Context, employeeID EmployeeID, date LocalDate) (*EffectiveSchedule, error)
}

// absenceStage returns the terminal NOT WORKING resolution when an approved
// absence covers the date.
func (e *Engine) absenceStage() stage {
	return stage{
		name: "absence",
		run: func(ctx context.Context, employeeID EmployeeID, date LocalDate) (*EffectiveSchedule, error) {
			absence, err := e.Reader.GetAbsence(ctx, employeeID, date)
			if err != nil || absence == nil {
				return nil, err
			}
			return &EffectiveSchedule{
				EmployeeID: employeeID,
				Date:       date,
				Source:     SourceAbsence,
				Provenance: Provenance{AbsenceID: absence.ID},
			}, nil
		},
	}
}

// overrideStage returns the exception-day override's slot set directly,
// bypassing period and template resolution entirely.
func (e *Engine) overrideStage() stage {
	return stage{
		name: "override",
		run: func(ctx context.Context, employeeID EmployeeID, date LocalDate) (*EffectiveSchedule, error) {
			override, err := e.Reader.GetOverride(ctx, employeeID, date)
			if err != nil || override == nil {
				return nil, err
			}
			slots, err := e.resolveSlots(ctx, override.Slots)
			if err != nil {
				return nil, err
			}
			return &EffectiveSchedule{
				EmployeeID: employeeID,
				Date:       date,
				Source:     SourceOverride,
				Provenance: Provenance{OverrideID: override.ID},
				Slots:      slots,
			}, nil
		},
	}
}

// manualShiftStage resolves an ad-hoc shift assignment for the date.
func (e *Engine) manualShiftStage() stage {
	return stage{
		name: "manual-shift",
		run: func(ctx context.Context, employeeID EmployeeID, date LocalDate) (*EffectiveSchedule, error) {
			shift, err := e.Reader.GetManualShift(ctx, employeeID, date)
			if err != nil || shift == nil {
				return nil, err
			}
			slots, err := e.resolveSlots(ctx, shift.Slots)
			if err != nil {
				return nil, err
			}
			return &EffectiveSchedule{
				EmployeeID: employeeID,
				Date:       date,
				Source:     SourceManual,
				Provenance: Provenance{ShiftID: shift.ID, TemplateID: shift.TemplateID},
				Slots:      slots,
			}, nil
		},
	}
}

// runStages executes the chain in order and returns the first terminal result.
func runStages(ctx context.Context, stages []stage, employeeID EmployeeID, date LocalDate) (*EffectiveSchedule, error) {
	for _, s := range stages {
		resolved, err := s.run(ctx, employeeID, date)
		if err != nil {
			return nil, err
		}
		if resolved != nil {
			return resolved, nil
		}
	}
	return nil, nil
}
