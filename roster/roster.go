/*
Package roster resolves schedules for whole teams at once.

PURPOSE:
  Shift/roster UIs and payroll batch jobs need one week of effective
  schedules for many employees. This package fans the per-employee week
  resolution out with bounded concurrency and isolates failures: one
  employee's bad data never aborts the batch.

CONCURRENCY:
  Each week resolution is an independent pure computation over the record
  store, so employees resolve in parallel. Concurrency is bounded to keep
  pressure on the underlying store predictable.

SEE ALSO:
  - schedule/engine.go: Per-employee resolution
  - payroll.go: Decimal hour totals for payroll consumption
*/
package roster

import (
	"context"
	"sync"

	"github.com/warp/schedule-engine/schedule"
)

// DefaultConcurrency bounds parallel week resolutions when the caller does
// not choose a limit.
const DefaultConcurrency = 8

// Entry is one employee's outcome within a batch. Exactly one of Week or
// Err is meaningful.
type Entry struct {
	EmployeeID schedule.EmployeeID
	Week       *schedule.WeekSchedule
	Err        string
}

// Failed reports whether this employee's resolution failed outright.
// Unscheduled days inside a resolved week are not failures; they appear as
// NONE entries in the week itself.
func (e Entry) Failed() bool { return e.Err != "" }

// Result is the outcome of a roster batch, entries in input order.
type Result struct {
	WeekStart schedule.LocalDate
	Entries   []Entry
}

// Resolver runs roster batches against a schedule engine.
type Resolver struct {
	Engine      *schedule.Engine
	Concurrency int
}

// NewResolver creates a resolver with default concurrency.
func NewResolver(engine *schedule.Engine) *Resolver {
	return &Resolver{Engine: engine, Concurrency: DefaultConcurrency}
}

// ResolveWeek resolves the Monday-Sunday week for every employee in the
// roster. Per-employee failures are recorded on their entry and never abort
// the batch; retry policy belongs to the enclosing job system.
func (r *Resolver) ResolveWeek(ctx context.Context, employeeIDs []schedule.EmployeeID, weekStart schedule.LocalDate) *Result {
	monday := weekStart.StartOfWeek()
	result := &Result{
		WeekStart: monday,
		Entries:   make([]Entry, len(employeeIDs)),
	}

	limit := r.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	sem := make(chan struct{}, limit)

	var wg sync.WaitGroup
	for i, id := range employeeIDs {
		wg.Add(1)
		go func(i int, id schedule.EmployeeID) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			week, err := r.Engine.ResolveWeekSchedule(ctx, id, monday)
			if err != nil {
				result.Entries[i] = Entry{EmployeeID: id, Err: err.Error()}
				return
			}
			result.Entries[i] = Entry{EmployeeID: id, Week: week}
		}(i, id)
	}
	wg.Wait()

	return result
}
