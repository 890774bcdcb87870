package schedule_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/schedule-engine/schedule"
	"github.com/warp/schedule-engine/schedule/store"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

const emp = schedule.EmployeeID("emp-1")

// officeDayPattern is the canonical "Office 9-18" day: work 09:00-13:00,
// unpaid break 13:00-14:00, work 14:00-18:00.
func officeDayPattern(t *testing.T, dayIndex int) schedule.WorkDayPattern {
	t.Helper()
	return mustPattern(t, dayIndex,
		mustSlot(t, schedule.SlotID("office-am"), 540, 780, schedule.SlotWork, false),
		mustSlot(t, schedule.SlotID("office-lunch"), 780, 840, schedule.SlotBreak, false),
		mustSlot(t, schedule.SlotID("office-pm"), 840, 1080, schedule.SlotWork, false),
	)
}

// newOfficeFixture sets up a memory store with the office template assigned to
// emp-1 for weekdays Monday-Friday, open-ended from 2024-01-01.
func newOfficeFixture(t *testing.T) (*store.Memory, *schedule.Engine) {
	t.Helper()
	mem := store.NewMemory()

	var patterns []schedule.WorkDayPattern
	for day := 0; day < 5; day++ {
		patterns = append(patterns, officeDayPattern(t, day))
	}
	mem.PutTemplate(schedule.ScheduleTemplate{
		ID:       "tpl-office",
		Name:     "Office 9-18",
		Kind:     schedule.KindFixed,
		Patterns: patterns,
	})
	mem.PutAssignment(schedule.Assignment{
		ID:         "asg-1",
		EmployeeID: emp,
		TemplateID: "tpl-office",
		Range:      schedule.OpenRange(schedule.NewLocalDate(2024, time.January, 1)),
	})

	return mem, schedule.NewEngine(mem)
}

func slotRanges(es *schedule.EffectiveSchedule) []string {
	var out []string
	for _, s := range es.Slots {
		out = append(out, s.Slot.FormatRange())
	}
	return out
}

// =============================================================================
// TEMPLATE LAYER
// =============================================================================

func TestResolve_Template_OfficeWeekday(t *testing.T) {
	// GIVEN: Template "Office 9-18" with an unpaid lunch break 13:00-14:00
	// WHEN: Resolving a plain Wednesday
	// THEN: Three slots, 540 scheduled minutes, 480 counting toward work

	_, engine := newOfficeFixture(t)
	wednesday := schedule.NewLocalDate(2024, time.July, 3)

	es, err := engine.ResolveEffectiveSchedule(context.Background(), emp, wednesday)
	require.NoError(t, err)

	assert.Equal(t, schedule.SourceTemplate, es.Source)
	assert.Equal(t, schedule.TemplateID("tpl-office"), es.Provenance.TemplateID)
	assert.Equal(t, []string{"09:00-13:00", "13:00-14:00", "14:00-18:00"}, slotRanges(es))
	assert.Equal(t, 540, es.ScheduledMinutes())
	assert.Equal(t, 480, es.CountsAsWorkMinutes())
	assert.False(t, es.Slots[1].CountsAsWork, "unpaid lunch must not count as work")
}

func TestResolve_Weekend_NoPattern(t *testing.T) {
	// Office template covers Monday-Friday only; Saturday has no pattern.
	_, engine := newOfficeFixture(t)
	saturday := schedule.NewLocalDate(2024, time.July, 6)

	_, err := engine.ResolveEffectiveSchedule(context.Background(), emp, saturday)
	require.Error(t, err)
	assert.True(t, errors.Is(err, schedule.ErrNoPatternForDate))
	assert.True(t, schedule.IsUnscheduled(err))
}

func TestResolve_NoAssignment(t *testing.T) {
	mem := store.NewMemory()
	engine := schedule.NewEngine(mem)

	_, err := engine.ResolveEffectiveSchedule(context.Background(), emp, schedule.NewLocalDate(2024, time.July, 3))
	require.Error(t, err)
	assert.True(t, errors.Is(err, schedule.ErrNoActiveAssignment))
	assert.True(t, schedule.IsUnscheduled(err))

	var nae *schedule.NoActiveAssignmentError
	require.True(t, errors.As(err, &nae))
	assert.Equal(t, emp, nae.EmployeeID)
}

func TestResolve_PaidBreak_CountsAsWork(t *testing.T) {
	// GIVEN: The lunch break slot is configured as a paid break in the store
	// WHEN: Resolving a weekday
	// THEN: All 540 scheduled minutes count toward work

	mem, engine := newOfficeFixture(t)
	mem.MarkPaidBreak("office-lunch")

	es, err := engine.ResolveEffectiveSchedule(context.Background(), emp, schedule.NewLocalDate(2024, time.July, 3))
	require.NoError(t, err)
	assert.True(t, es.Slots[1].CountsAsWork)
	assert.Equal(t, 540, es.CountsAsWorkMinutes())
}

// =============================================================================
// PERIOD LAYER
// =============================================================================

func TestResolve_PeriodOverridesTemplate(t *testing.T) {
	// GIVEN: An INTENSIVE summer period with 07:00-15:00 days
	// WHEN: Resolving a date inside the period
	// THEN: The period's pattern wins, provenance = PERIOD

	mem, engine := newOfficeFixture(t)
	tplPtr, err := mem.GetTemplate(context.Background(), "tpl-office")
	require.NoError(t, err)
	tpl := *tplPtr

	var summerPatterns []schedule.WorkDayPattern
	for day := 0; day < 5; day++ {
		summerPatterns = append(summerPatterns, mustPattern(t, day,
			mustSlot(t, schedule.SlotID("summer-shift"), 420, 900, schedule.SlotWork, false),
		))
	}
	summer, err := schedule.NewDateRange(
		schedule.NewLocalDate(2024, time.July, 1),
		schedule.NewLocalDate(2024, time.August, 31),
	)
	require.NoError(t, err)
	tpl.Periods = append(tpl.Periods, schedule.SchedulePeriod{
		ID:         "per-summer",
		TemplateID: tpl.ID,
		Category:   schedule.CategoryIntensive,
		Range:      summer,
		Patterns:   summerPatterns,
		CreatedAt:  time.Now(),
	})
	mem.PutTemplate(tpl)

	es, err := engine.ResolveEffectiveSchedule(context.Background(), emp, schedule.NewLocalDate(2024, time.July, 3))
	require.NoError(t, err)
	assert.Equal(t, schedule.SourcePeriod, es.Source)
	assert.Equal(t, schedule.PeriodID("per-summer"), es.Provenance.PeriodID)
	assert.Equal(t, []string{"07:00-15:00"}, slotRanges(es))

	// Outside the period the template is back in charge.
	es, err = engine.ResolveEffectiveSchedule(context.Background(), emp, schedule.NewLocalDate(2024, time.September, 2))
	require.NoError(t, err)
	assert.Equal(t, schedule.SourceTemplate, es.Source)
}

// =============================================================================
// OVERRIDE AND ABSENCE LAYERS
// =============================================================================

func TestResolve_AbsenceBeatsEverything(t *testing.T) {
	// GIVEN: Approved vacation 2024-07-01..2024-07-05 AND a SPECIAL period
	//        active the same week AND an exception override on 07-03
	// WHEN: Resolving 2024-07-03
	// THEN: NOT WORKING with provenance ABSENCE; no slots at all

	mem, engine := newOfficeFixture(t)

	vacation, err := schedule.NewDateRange(
		schedule.NewLocalDate(2024, time.July, 1),
		schedule.NewLocalDate(2024, time.July, 5),
	)
	require.NoError(t, err)
	mem.PutAbsence(schedule.AbsenceRequest{ID: "abs-1", EmployeeID: emp, Kind: "vacation", Range: vacation})

	tplPtr, err := mem.GetTemplate(context.Background(), "tpl-office")
	require.NoError(t, err)
	tpl := *tplPtr
	tpl.Periods = append(tpl.Periods, schedule.SchedulePeriod{
		ID: "per-special", TemplateID: tpl.ID, Category: schedule.CategorySpecial,
		Range: vacation, Patterns: tpl.Patterns, CreatedAt: time.Now(),
	})
	mem.PutTemplate(tpl)

	mem.PutOverride(schedule.ExceptionDayOverride{
		ID: "ovr-1", EmployeeID: emp, Date: schedule.NewLocalDate(2024, time.July, 3),
		Slots: []schedule.TimeSlot{mustSlot(t, "ovr-slot", 600, 720, schedule.SlotWork, false)},
	})

	es, err := engine.ResolveEffectiveSchedule(context.Background(), emp, schedule.NewLocalDate(2024, time.July, 3))
	require.NoError(t, err)
	assert.Equal(t, schedule.SourceAbsence, es.Source)
	assert.Equal(t, schedule.AbsenceID("abs-1"), es.Provenance.AbsenceID)
	assert.False(t, es.IsWorking())
	assert.Equal(t, 0, es.ScheduledMinutes())
}

func TestResolve_OverrideBypassesPeriodAndTemplate(t *testing.T) {
	// GIVEN: An exception override "custom hours today" on a plain weekday
	// WHEN: Resolving that date
	// THEN: The returned slot list equals the override's slots exactly

	mem, engine := newOfficeFixture(t)
	date := schedule.NewLocalDate(2024, time.July, 3)
	mem.PutOverride(schedule.ExceptionDayOverride{
		ID: "ovr-1", EmployeeID: emp, Date: date, Reason: "customer visit",
		Slots: []schedule.TimeSlot{
			mustSlot(t, "ovr-am", 480, 720, schedule.SlotWork, false),
			mustSlot(t, "ovr-pm", 750, 960, schedule.SlotWork, false),
		},
	})

	es, err := engine.ResolveEffectiveSchedule(context.Background(), emp, date)
	require.NoError(t, err)
	assert.Equal(t, schedule.SourceOverride, es.Source)
	assert.Equal(t, schedule.OverrideID("ovr-1"), es.Provenance.OverrideID)
	assert.Equal(t, []string{"08:00-12:00", "12:30-16:00"}, slotRanges(es))

	// The adjacent day is untouched.
	es, err = engine.ResolveEffectiveSchedule(context.Background(), emp, date.AddDays(1))
	require.NoError(t, err)
	assert.Equal(t, schedule.SourceTemplate, es.Source)
}

func TestResolve_ManualShift_AbovePeriodsByDefault(t *testing.T) {
	mem, engine := newOfficeFixture(t)
	date := schedule.NewLocalDate(2024, time.July, 3)
	mem.PutManualShift(schedule.ManualShiftAssignment{
		ID: "shift-1", EmployeeID: emp, Date: date, TemplateID: "tpl-office",
		Slots: []schedule.TimeSlot{mustSlot(t, "night", 1320, 1440, schedule.SlotWork, false)},
	})

	es, err := engine.ResolveEffectiveSchedule(context.Background(), emp, date)
	require.NoError(t, err)
	assert.Equal(t, schedule.SourceManual, es.Source)
	assert.Equal(t, schedule.ShiftID("shift-1"), es.Provenance.ShiftID)
	assert.Equal(t, []string{"22:00-24:00"}, slotRanges(es))
}

func TestResolve_ManualShift_DemotedBelowPeriods(t *testing.T) {
	// GIVEN: Config demotes manual shifts below periods, and a period covers
	//        the date
	// WHEN: Resolving
	// THEN: The period wins; the manual shift only applies on period-free days

	mem, engine := newOfficeFixture(t)
	engine.Config.ManualShiftsBelowPeriods = true

	date := schedule.NewLocalDate(2024, time.July, 3)
	mem.PutManualShift(schedule.ManualShiftAssignment{
		ID: "shift-1", EmployeeID: emp, Date: date, TemplateID: "tpl-office",
		Slots: []schedule.TimeSlot{mustSlot(t, "night", 1320, 1440, schedule.SlotWork, false)},
	})

	tplPtr, err := mem.GetTemplate(context.Background(), "tpl-office")
	require.NoError(t, err)
	tpl := *tplPtr
	july, err := schedule.NewDateRange(schedule.NewLocalDate(2024, time.July, 1), schedule.NewLocalDate(2024, time.July, 31))
	require.NoError(t, err)
	tpl.Periods = append(tpl.Periods, schedule.SchedulePeriod{
		ID: "per-july", TemplateID: tpl.ID, Category: schedule.CategoryRegular,
		Range: july, Patterns: tpl.Patterns, CreatedAt: time.Now(),
	})
	mem.PutTemplate(tpl)

	es, err := engine.ResolveEffectiveSchedule(context.Background(), emp, date)
	require.NoError(t, err)
	assert.Equal(t, schedule.SourcePeriod, es.Source)

	// On a date outside the period, the demoted manual shift applies.
	august := schedule.NewLocalDate(2024, time.August, 7)
	mem.PutManualShift(schedule.ManualShiftAssignment{
		ID: "shift-2", EmployeeID: emp, Date: august, TemplateID: "tpl-office",
		Slots: []schedule.TimeSlot{mustSlot(t, "late", 960, 1200, schedule.SlotWork, false)},
	})
	es, err = engine.ResolveEffectiveSchedule(context.Background(), emp, august)
	require.NoError(t, err)
	assert.Equal(t, schedule.SourceManual, es.Source)
}

// =============================================================================
// PURITY
// =============================================================================

func TestResolve_Idempotent(t *testing.T) {
	// Calling twice with unchanged data yields identical output.
	_, engine := newOfficeFixture(t)
	date := schedule.NewLocalDate(2024, time.July, 3)

	first, err := engine.ResolveEffectiveSchedule(context.Background(), emp, date)
	require.NoError(t, err)
	second, err := engine.ResolveEffectiveSchedule(context.Background(), emp, date)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// =============================================================================
// WEEK RESOLUTION
// =============================================================================

func TestResolveWeek_AggregatesAndIsolatesFailures(t *testing.T) {
	// GIVEN: Office template Monday-Friday; weekend has no patterns
	// WHEN: Resolving the week of 2024-07-01
	// THEN: Five working days, two NONE entries, totals = sum of the days

	_, engine := newOfficeFixture(t)
	monday := schedule.NewLocalDate(2024, time.July, 1)

	week, err := engine.ResolveWeekSchedule(context.Background(), emp, monday)
	require.NoError(t, err)

	assert.Equal(t, monday, week.WeekStart)
	assert.Equal(t, 5*540, week.ScheduledMinutes)
	assert.Equal(t, 5*480, week.CountsAsWorkMinutes)

	sumScheduled, sumCounting := 0, 0
	for i, day := range week.Days {
		assert.Equal(t, monday.AddDays(i), day.Date)
		sumScheduled += day.ScheduledMinutes()
		sumCounting += day.CountsAsWorkMinutes()
	}
	assert.Equal(t, week.ScheduledMinutes, sumScheduled, "week total must equal sum of daily totals")
	assert.Equal(t, week.CountsAsWorkMinutes, sumCounting)

	for _, i := range []int{5, 6} {
		assert.Equal(t, schedule.SourceNone, week.Days[i].Source, "weekend day %d", i)
		assert.NotEmpty(t, week.Days[i].Reason)
	}
}

func TestResolveWeek_NormalizesToMonday(t *testing.T) {
	_, engine := newOfficeFixture(t)
	thursday := schedule.NewLocalDate(2024, time.July, 4)

	week, err := engine.ResolveWeekSchedule(context.Background(), emp, thursday)
	require.NoError(t, err)
	assert.Equal(t, schedule.NewLocalDate(2024, time.July, 1), week.WeekStart)
}

func TestResolveWeek_AbsenceMidWeek(t *testing.T) {
	// Vacation on Wednesday only: four office days plus one ABSENCE day.
	mem, engine := newOfficeFixture(t)
	wednesday := schedule.NewLocalDate(2024, time.July, 3)
	r, err := schedule.NewDateRange(wednesday, wednesday)
	require.NoError(t, err)
	mem.PutAbsence(schedule.AbsenceRequest{ID: "abs-1", EmployeeID: emp, Kind: "vacation", Range: r})

	week, err := engine.ResolveWeekSchedule(context.Background(), emp, wednesday)
	require.NoError(t, err)
	assert.Equal(t, schedule.SourceAbsence, week.Days[2].Source)
	assert.Equal(t, 4*540, week.ScheduledMinutes)
	assert.Equal(t, 4*480, week.CountsAsWorkMinutes)
}

func TestResolveWeek_NoAssignmentAtAll(t *testing.T) {
	// An employee with no assignment gets a full week of NONE entries, not an
	// error.
	mem := store.NewMemory()
	engine := schedule.NewEngine(mem)

	week, err := engine.ResolveWeekSchedule(context.Background(), "emp-ghost", schedule.NewLocalDate(2024, time.July, 1))
	require.NoError(t, err)
	for _, day := range week.Days {
		assert.Equal(t, schedule.SourceNone, day.Source)
	}
	assert.Equal(t, 0, week.ScheduledMinutes)
}
