package roster

import (
	"github.com/shopspring/decimal"

	"github.com/warp/schedule-engine/schedule"
)

// =============================================================================
// PAYROLL TOTALS - Exact decimal hours from resolved weeks
// =============================================================================
// Payroll consumes hours, not minutes. Minutes convert to hours through
// decimal arithmetic so 490 minutes is exactly 8.1666...h rounded at the
// edge, never a float drift.

var minutesPerHour = decimal.NewFromInt(60)

// HoursFromMinutes converts a minute count to decimal hours, rounded to four
// places.
func HoursFromMinutes(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(minutesPerHour).Round(4)
}

// WeekSummary is the payroll-facing view of one employee's resolved week.
type WeekSummary struct {
	EmployeeID schedule.EmployeeID
	WeekStart  schedule.LocalDate

	ScheduledHours decimal.Decimal // all resolved slots
	PayableHours   decimal.Decimal // slots counting toward worked hours

	DaysWorking     int
	DaysAbsent      int
	DaysUnscheduled int
}

// Summarize derives the payroll summary from a resolved week.
func Summarize(week *schedule.WeekSchedule) WeekSummary {
	s := WeekSummary{
		EmployeeID:     week.EmployeeID,
		WeekStart:      week.WeekStart,
		ScheduledHours: HoursFromMinutes(week.ScheduledMinutes),
		PayableHours:   HoursFromMinutes(week.CountsAsWorkMinutes),
	}
	for _, day := range week.Days {
		switch {
		case day.Source == schedule.SourceAbsence:
			s.DaysAbsent++
		case day.Source == schedule.SourceNone:
			s.DaysUnscheduled++
		case day.IsWorking():
			s.DaysWorking++
		default:
			s.DaysUnscheduled++
		}
	}
	return s
}

// BatchSummary aggregates a whole roster batch for payroll export.
type BatchSummary struct {
	WeekStart schedule.LocalDate

	TotalScheduledHours decimal.Decimal
	TotalPayableHours   decimal.Decimal

	Employees []WeekSummary
	FailedIDs []schedule.EmployeeID
}

// SummarizeBatch folds every resolved entry into one payroll batch summary.
// Failed entries are listed separately so the job system can retry them.
func SummarizeBatch(result *Result) BatchSummary {
	batch := BatchSummary{
		WeekStart:           result.WeekStart,
		TotalScheduledHours: decimal.Zero,
		TotalPayableHours:   decimal.Zero,
	}
	for _, entry := range result.Entries {
		if entry.Failed() {
			batch.FailedIDs = append(batch.FailedIDs, entry.EmployeeID)
			continue
		}
		summary := Summarize(entry.Week)
		batch.Employees = append(batch.Employees, summary)
		batch.TotalScheduledHours = batch.TotalScheduledHours.Add(summary.ScheduledHours)
		batch.TotalPayableHours = batch.TotalPayableHours.Add(summary.PayableHours)
	}
	return batch
}
