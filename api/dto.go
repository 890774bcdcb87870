/*
dto.go - Request and response data structures

PURPOSE:
  Defines the JSON shapes crossing the HTTP boundary. Domain types stay
  internal; handlers convert at the edge so wire compatibility never leaks
  into the engine.

CONVENTIONS:
  - Dates are "YYYY-MM-DD" strings; an empty end date means open-ended
  - Slot boundaries are "HH:mm" clock strings ("24:00" for midnight ends)
  - Hours are decimal strings, exact to four places
  - Template and slot JSON reuse the factory document schema

SEE ALSO:
  - handlers.go: The conversions
  - factory/template.go: TemplateJSON / PatternJSON / SlotJSON
*/
package api

import (
	"time"

	"github.com/warp/schedule-engine/factory"
	"github.com/warp/schedule-engine/roster"
	"github.com/warp/schedule-engine/schedule"
	"github.com/warp/schedule-engine/store/sqlite"
	"github.com/warp/schedule-engine/tracking"
)

// ErrorResponse is the standard error shape.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// EMPLOYEES
// =============================================================================

type EmployeeDTO struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email,omitempty"`
	ContractStart string `json:"contract_start"`
	ContractEnd   string `json:"contract_end,omitempty"`
	CreatedAt     string `json:"created_at"`
}

type CreateEmployeeRequest struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email,omitempty"`
	ContractStart string `json:"contract_start"`
	ContractEnd   string `json:"contract_end,omitempty"`
}

func toEmployeeDTO(e sqlite.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:            string(e.ID),
		Name:          e.Name,
		Email:         e.Email,
		ContractStart: e.ContractStart.String(),
		CreatedAt:     e.CreatedAt.Format(time.RFC3339),
	}
	if e.ContractEnd != nil {
		dto.ContractEnd = e.ContractEnd.String()
	}
	return dto
}

// =============================================================================
// EFFECTIVE SCHEDULES
// =============================================================================

type EffectiveSlotDTO struct {
	ID           string `json:"id"`
	Start        string `json:"start"`
	End          string `json:"end"`
	Type         string `json:"type"`
	CountsAsWork bool   `json:"counts_as_work"`
}

type ProvenanceDTO struct {
	TemplateID string `json:"template_id,omitempty"`
	PeriodID   string `json:"period_id,omitempty"`
	OverrideID string `json:"override_id,omitempty"`
	AbsenceID  string `json:"absence_id,omitempty"`
	ShiftID    string `json:"shift_id,omitempty"`
}

type ScheduleDTO struct {
	EmployeeID          string             `json:"employee_id"`
	Date                string             `json:"date"`
	Source              string             `json:"source"`
	Provenance          ProvenanceDTO      `json:"provenance"`
	Slots               []EffectiveSlotDTO `json:"slots"`
	ScheduledMinutes    int                `json:"scheduled_minutes"`
	CountsAsWorkMinutes int                `json:"counts_as_work_minutes"`
	Reason              string             `json:"reason,omitempty"`
}

type WeekDTO struct {
	EmployeeID          string        `json:"employee_id"`
	WeekStart           string        `json:"week_start"`
	Days                []ScheduleDTO `json:"days"`
	ScheduledMinutes    int           `json:"scheduled_minutes"`
	CountsAsWorkMinutes int           `json:"counts_as_work_minutes"`
}

func toScheduleDTO(es *schedule.EffectiveSchedule) ScheduleDTO {
	dto := ScheduleDTO{
		EmployeeID: string(es.EmployeeID),
		Date:       es.Date.String(),
		Source:     string(es.Source),
		Provenance: ProvenanceDTO{
			TemplateID: string(es.Provenance.TemplateID),
			PeriodID:   string(es.Provenance.PeriodID),
			OverrideID: string(es.Provenance.OverrideID),
			AbsenceID:  string(es.Provenance.AbsenceID),
			ShiftID:    string(es.Provenance.ShiftID),
		},
		Slots:               make([]EffectiveSlotDTO, 0, len(es.Slots)),
		ScheduledMinutes:    es.ScheduledMinutes(),
		CountsAsWorkMinutes: es.CountsAsWorkMinutes(),
		Reason:              es.Reason,
	}
	for _, s := range es.Slots {
		start, _ := schedule.MinutesToClock(s.Slot.StartMinutes)
		end, _ := schedule.MinutesToClock(s.Slot.EndMinutes)
		dto.Slots = append(dto.Slots, EffectiveSlotDTO{
			ID:           string(s.Slot.ID),
			Start:        start,
			End:          end,
			Type:         string(s.Slot.Type),
			CountsAsWork: s.CountsAsWork,
		})
	}
	return dto
}

func toWeekDTO(week *schedule.WeekSchedule) WeekDTO {
	dto := WeekDTO{
		EmployeeID:          string(week.EmployeeID),
		WeekStart:           week.WeekStart.String(),
		Days:                make([]ScheduleDTO, 0, len(week.Days)),
		ScheduledMinutes:    week.ScheduledMinutes,
		CountsAsWorkMinutes: week.CountsAsWorkMinutes,
	}
	for i := range week.Days {
		dto.Days = append(dto.Days, toScheduleDTO(&week.Days[i]))
	}
	return dto
}

// =============================================================================
// ROSTER BATCHES
// =============================================================================

type RosterRequest struct {
	EmployeeIDs []string `json:"employee_ids"`
	WeekStart   string   `json:"week_start"`
}

type RosterEntryDTO struct {
	EmployeeID string   `json:"employee_id"`
	Week       *WeekDTO `json:"week,omitempty"`
	Error      string   `json:"error,omitempty"`
}

type WeekSummaryDTO struct {
	EmployeeID      string `json:"employee_id"`
	ScheduledHours  string `json:"scheduled_hours"`
	PayableHours    string `json:"payable_hours"`
	DaysWorking     int    `json:"days_working"`
	DaysAbsent      int    `json:"days_absent"`
	DaysUnscheduled int    `json:"days_unscheduled"`
}

type RosterDTO struct {
	WeekStart           string           `json:"week_start"`
	Entries             []RosterEntryDTO `json:"entries"`
	Summaries           []WeekSummaryDTO `json:"summaries"`
	TotalScheduledHours string           `json:"total_scheduled_hours"`
	TotalPayableHours   string           `json:"total_payable_hours"`
	FailedIDs           []string         `json:"failed_ids,omitempty"`
}

func toRosterDTO(result *roster.Result) RosterDTO {
	batch := roster.SummarizeBatch(result)

	dto := RosterDTO{
		WeekStart:           result.WeekStart.String(),
		Entries:             make([]RosterEntryDTO, 0, len(result.Entries)),
		Summaries:           make([]WeekSummaryDTO, 0, len(batch.Employees)),
		TotalScheduledHours: batch.TotalScheduledHours.String(),
		TotalPayableHours:   batch.TotalPayableHours.String(),
	}
	for _, entry := range result.Entries {
		e := RosterEntryDTO{EmployeeID: string(entry.EmployeeID), Error: entry.Err}
		if entry.Week != nil {
			week := toWeekDTO(entry.Week)
			e.Week = &week
		}
		dto.Entries = append(dto.Entries, e)
	}
	for _, s := range batch.Employees {
		dto.Summaries = append(dto.Summaries, WeekSummaryDTO{
			EmployeeID:      string(s.EmployeeID),
			ScheduledHours:  s.ScheduledHours.String(),
			PayableHours:    s.PayableHours.String(),
			DaysWorking:     s.DaysWorking,
			DaysAbsent:      s.DaysAbsent,
			DaysUnscheduled: s.DaysUnscheduled,
		})
	}
	for _, id := range batch.FailedIDs {
		dto.FailedIDs = append(dto.FailedIDs, string(id))
	}
	return dto
}

// =============================================================================
// ASSIGNMENTS
// =============================================================================

type CreateAssignmentRequest struct {
	ID         string `json:"id,omitempty"`
	EmployeeID string `json:"employee_id"`
	TemplateID string `json:"template_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date,omitempty"`
	AnchorDate string `json:"anchor_date,omitempty"`
}

type AssignmentDTO struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	TemplateID string `json:"template_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date,omitempty"`
	AnchorDate string `json:"anchor_date,omitempty"`
	CreatedAt  string `json:"created_at"`
}

type ConflictDTO struct {
	Kind          string `json:"kind"`
	Message       string `json:"message"`
	ConflictingID string `json:"conflicting_id,omitempty"`
}

type ValidationDTO struct {
	Valid     bool          `json:"valid"`
	Conflicts []ConflictDTO `json:"conflicts,omitempty"`
}

func toAssignmentDTO(a schedule.Assignment) AssignmentDTO {
	dto := AssignmentDTO{
		ID:         string(a.ID),
		EmployeeID: string(a.EmployeeID),
		TemplateID: string(a.TemplateID),
		StartDate:  a.Range.Start.String(),
		CreatedAt:  a.CreatedAt.Format(time.RFC3339),
	}
	if a.Range.End != nil {
		dto.EndDate = a.Range.End.String()
	}
	if !a.Anchor.IsZero() {
		dto.AnchorDate = a.Anchor.String()
	}
	return dto
}

func toValidationDTO(result schedule.ValidationResult) ValidationDTO {
	dto := ValidationDTO{Valid: result.Valid}
	for _, c := range result.Conflicts {
		dto.Conflicts = append(dto.Conflicts, ConflictDTO{
			Kind:          string(c.Kind),
			Message:       c.Message,
			ConflictingID: string(c.ConflictingID),
		})
	}
	return dto
}

// =============================================================================
// DAY-LEVEL LAYERS
// =============================================================================

type CreateAbsenceRequest struct {
	ID         string `json:"id,omitempty"`
	EmployeeID string `json:"employee_id"`
	Kind       string `json:"kind"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date,omitempty"`
}

type CreateOverrideRequest struct {
	ID         string             `json:"id,omitempty"`
	EmployeeID string             `json:"employee_id"`
	Date       string             `json:"date"`
	Slots      []factory.SlotJSON `json:"slots"`
	Reason     string             `json:"reason,omitempty"`
}

type CreateShiftRequest struct {
	ID         string             `json:"id,omitempty"`
	EmployeeID string             `json:"employee_id"`
	Date       string             `json:"date"`
	TemplateID string             `json:"template_id,omitempty"`
	Slots      []factory.SlotJSON `json:"slots"`
}

// =============================================================================
// PUNCH VALIDATION
// =============================================================================

type PunchDTO struct {
	In  string `json:"in"`
	Out string `json:"out"`
}

type ValidatePunchesRequest struct {
	Date         string     `json:"date"`
	GraceMinutes int        `json:"grace_minutes,omitempty"`
	Punches      []PunchDTO `json:"punches"`
}

type FindingDTO struct {
	In               string `json:"in"`
	Out              string `json:"out"`
	Kind             string `json:"kind"`
	DeviationMinutes int    `json:"deviation_minutes,omitempty"`
	SlotID           string `json:"slot_id,omitempty"`
}

type DayReportDTO struct {
	EmployeeID       string       `json:"employee_id"`
	Date             string       `json:"date"`
	Source           string       `json:"source"`
	ScheduledMinutes int          `json:"scheduled_minutes"`
	WorkedMinutes    int          `json:"worked_minutes"`
	DeltaMinutes     int          `json:"delta_minutes"`
	Clean            bool         `json:"clean"`
	Findings         []FindingDTO `json:"findings"`
}

func toDayReportDTO(report tracking.DayReport) DayReportDTO {
	dto := DayReportDTO{
		EmployeeID:       string(report.EmployeeID),
		Date:             report.Date.String(),
		Source:           string(report.Source),
		ScheduledMinutes: report.ScheduledMinutes,
		WorkedMinutes:    report.WorkedMinutes,
		DeltaMinutes:     report.DeltaMinutes,
		Clean:            report.Clean(),
		Findings:         make([]FindingDTO, 0, len(report.Findings)),
	}
	for _, f := range report.Findings {
		in, _ := schedule.MinutesToClock(f.Punch.InMinutes)
		out, _ := schedule.MinutesToClock(f.Punch.OutMinutes)
		dto.Findings = append(dto.Findings, FindingDTO{
			In:               in,
			Out:              out,
			Kind:             string(f.Kind),
			DeviationMinutes: f.DeviationMinutes,
			SlotID:           string(f.SlotID),
		})
	}
	return dto
}

// =============================================================================
// SWEEP RUNS
// =============================================================================

type SweepRunDTO struct {
	ID               string `json:"id"`
	RunAt            string `json:"run_at"`
	EmployeesChecked int    `json:"employees_checked"`
	ConflictsFound   int    `json:"conflicts_found"`
	Report           string `json:"report,omitempty"`
}

func toSweepRunDTO(run sqlite.SweepRun) SweepRunDTO {
	return SweepRunDTO{
		ID:               run.ID,
		RunAt:            run.RunAt.Format(time.RFC3339),
		EmployeesChecked: run.EmployeesChecked,
		ConflictsFound:   run.ConflictsFound,
		Report:           run.ReportJSON,
	}
}
