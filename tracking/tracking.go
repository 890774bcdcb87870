/*
Package tracking validates time punches against the effective schedule.

PURPOSE:
  Time-tracking is the first consumer of the resolution engine: when an
  employee clocks in and out, the punches are checked against the slots the
  engine resolved for that date. Punches on absence days, punches outside
  any scheduled slot, late arrivals and early departures are all classified
  here so HR surfaces them consistently.

DESIGN:
  The validator consumes EffectiveSchedule read-only; it never calls the
  store and never re-resolves. Grace minutes absorb clock skew and badge
  queues before a punch is flagged.

SEE ALSO:
  - schedule/engine.go: Produces the EffectiveSchedule this package reads
*/
package tracking

import (
	"fmt"

	"github.com/warp/schedule-engine/schedule"
)

// =============================================================================
// PUNCHES
// =============================================================================

// Punch is one clock-in/clock-out pair, in minutes since local midnight.
type Punch struct {
	InMinutes  int
	OutMinutes int
}

// NewPunch validates the pair at construction: out must be after in, both
// within the day.
func NewPunch(in, out int) (Punch, error) {
	if in < 0 || out > schedule.MinutesPerDay || out <= in {
		return Punch{}, fmt.Errorf("%w: punch [%d, %d)", schedule.ErrInvalidSlotRange, in, out)
	}
	return Punch{InMinutes: in, OutMinutes: out}, nil
}

// DurationMinutes is the punched span.
func (p Punch) DurationMinutes() int { return p.OutMinutes - p.InMinutes }

// =============================================================================
// FINDINGS
// =============================================================================

type FindingKind string

const (
	PunchOK          FindingKind = "OK"
	PunchLateIn      FindingKind = "LATE_IN"
	PunchEarlyOut    FindingKind = "EARLY_OUT"
	PunchOffSchedule FindingKind = "OFF_SCHEDULE"
	PunchAbsentDay   FindingKind = "ABSENT_DAY"
	PunchNoSchedule  FindingKind = "NO_SCHEDULE"
)

// Finding classifies one punch. DeviationMinutes is how far the punch missed
// the slot boundary (late-in and early-out kinds only).
type Finding struct {
	Punch            Punch
	Kind             FindingKind
	DeviationMinutes int

	// SlotID is the scheduled slot the punch was matched against, when any.
	SlotID schedule.SlotID
}

// DayReport is the full time-tracking outcome for one (employee, date).
type DayReport struct {
	EmployeeID schedule.EmployeeID
	Date       schedule.LocalDate
	Source     schedule.Source

	ScheduledMinutes int
	WorkedMinutes    int
	DeltaMinutes     int // worked - scheduled; negative means undertime

	Findings []Finding
}

// Clean reports whether every punch came back OK.
func (r DayReport) Clean() bool {
	for _, f := range r.Findings {
		if f.Kind != PunchOK {
			return false
		}
	}
	return true
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Validator checks punches against resolved schedules.
type Validator struct {
	// GraceMinutes tolerates small late-ins and early-outs before flagging.
	GraceMinutes int
}

// NewValidator creates a validator with the given grace window.
func NewValidator(graceMinutes int) *Validator {
	return &Validator{GraceMinutes: graceMinutes}
}

// ValidateDay classifies each punch against the effective schedule for the
// date. Punches on absence days and unscheduled days are flagged wholesale;
// on working days each punch is matched to the work slot it overlaps most.
func (v *Validator) ValidateDay(es *schedule.EffectiveSchedule, punches []Punch) DayReport {
	report := DayReport{
		EmployeeID:       es.EmployeeID,
		Date:             es.Date,
		Source:           es.Source,
		ScheduledMinutes: es.ScheduledMinutes(),
	}
	for _, p := range punches {
		report.WorkedMinutes += p.DurationMinutes()
	}
	report.DeltaMinutes = report.WorkedMinutes - report.ScheduledMinutes

	var wholesale FindingKind
	switch {
	case es.Source == schedule.SourceAbsence:
		wholesale = PunchAbsentDay
	case !es.IsWorking():
		wholesale = PunchNoSchedule
	}
	if wholesale != "" {
		for _, p := range punches {
			report.Findings = append(report.Findings, Finding{Punch: p, Kind: wholesale})
		}
		return report
	}

	workSlots := make([]schedule.EffectiveTimeSlot, 0, len(es.Slots))
	for _, s := range es.Slots {
		if s.Slot.Type == schedule.SlotWork {
			workSlots = append(workSlots, s)
		}
	}

	for _, p := range punches {
		report.Findings = append(report.Findings, v.classify(p, workSlots))
	}
	return report
}

// classify matches the punch to the work slot it overlaps most and checks the
// boundaries against the grace window. Late-in dominates when both ends miss.
func (v *Validator) classify(p Punch, workSlots []schedule.EffectiveTimeSlot) Finding {
	best := -1
	bestOverlap := 0
	for i, s := range workSlots {
		overlap := min(p.OutMinutes, s.Slot.EndMinutes) - max(p.InMinutes, s.Slot.StartMinutes)
		if overlap > bestOverlap {
			bestOverlap = overlap
			best = i
		}
	}
	if best < 0 {
		return Finding{Punch: p, Kind: PunchOffSchedule}
	}

	slot := workSlots[best].Slot
	if late := p.InMinutes - slot.StartMinutes; late > v.GraceMinutes {
		return Finding{Punch: p, Kind: PunchLateIn, DeviationMinutes: late, SlotID: slot.ID}
	}
	if early := slot.EndMinutes - p.OutMinutes; early > v.GraceMinutes {
		return Finding{Punch: p, Kind: PunchEarlyOut, DeviationMinutes: early, SlotID: slot.ID}
	}
	return Finding{Punch: p, Kind: PunchOK, SlotID: slot.ID}
}
