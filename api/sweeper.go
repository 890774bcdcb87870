/*
sweeper.go - Background assignment conflict sweeper

PURPOSE:
  Periodically re-checks every employee's assignments for range overlaps and
  contract-bounds violations. The write path already refuses conflicting
  assignments, but data can drift in around it (bulk imports, manual DB
  fixes, contract end-dates shortened after the fact); the sweeper surfaces
  that drift instead of letting payroll trip over it.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Reuses the same ValidateAssignment check the write path runs
  - Records every run with a JSON conflict report for audit and UI display
  - Conflicts are reported, never auto-repaired

CONFIGURATION:
  - CheckInterval: How often to sweep (default: 1 hour)
  - Enabled: Whether the sweeper is active (default: true)

USAGE:
  sweeper := NewConflictSweeper(store)
  sweeper.Start()
  // ... later
  sweeper.Stop()

SEE ALSO:
  - handlers.go: TriggerSweep endpoint (manual sweep)
  - schedule/validate.go: The conflict check
*/
package api

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/warp/schedule-engine/schedule"
	"github.com/warp/schedule-engine/store/sqlite"
)

// ConflictSweeper re-validates persisted assignments on a schedule.
type ConflictSweeper struct {
	Store         *sqlite.Store
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewConflictSweeper creates a new sweeper.
func NewConflictSweeper(store *sqlite.Store) *ConflictSweeper {
	return &ConflictSweeper{
		Store:         store,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the sweeper.
func (cs *ConflictSweeper) Start() {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if !cs.Enabled {
		log.Println("[Sweeper] Disabled, not starting")
		return
	}

	cs.ticker = time.NewTicker(cs.CheckInterval)
	cs.wg.Add(1)

	go cs.run()

	log.Printf("[Sweeper] Started with check interval: %v", cs.CheckInterval)
}

// Stop stops the sweeper.
func (cs *ConflictSweeper) Stop() {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.ticker != nil {
		cs.ticker.Stop()
		close(cs.stop)
		cs.wg.Wait()
		log.Println("[Sweeper] Stopped")
	}
}

func (cs *ConflictSweeper) run() {
	defer cs.wg.Done()

	// Run immediately on start
	cs.sweep()

	for {
		select {
		case <-cs.ticker.C:
			cs.sweep()
		case <-cs.stop:
			return
		}
	}
}

func (cs *ConflictSweeper) sweep() {
	if _, err := cs.RunNow(context.Background()); err != nil {
		log.Printf("[Sweeper] Sweep failed: %v", err)
	}
}

// assignmentFinding is one conflicting assignment in the sweep report.
type assignmentFinding struct {
	EmployeeID   string   `json:"employee_id"`
	AssignmentID string   `json:"assignment_id"`
	Conflicts    []string `json:"conflicts"`
}

// RunNow performs one full sweep and records it. Exposed for the manual
// trigger endpoint.
func (cs *ConflictSweeper) RunNow(ctx context.Context) (*sqlite.SweepRun, error) {
	startedAt := time.Now()
	log.Printf("[Sweeper] Checking assignments at %v", startedAt.Format(time.RFC3339))

	employees, err := cs.Store.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}

	var findings []assignmentFinding
	for _, emp := range employees {
		assignments, err := cs.Store.ListAssignments(ctx, emp.ID)
		if err != nil {
			log.Printf("[Sweeper] Error listing assignments for %s: %v", emp.ID, err)
			continue
		}

		contract := emp.ContractRange()
		for _, a := range assignments {
			result := schedule.ValidateAssignment(a, schedule.ValidationContext{
				Existing: assignments,
				Contract: &contract,
			})
			if result.Valid {
				continue
			}

			finding := assignmentFinding{
				EmployeeID:   string(emp.ID),
				AssignmentID: string(a.ID),
			}
			for _, c := range result.Conflicts {
				finding.Conflicts = append(finding.Conflicts, string(c.Kind)+": "+c.Message)
			}
			findings = append(findings, finding)
		}
	}

	run := sqlite.SweepRun{
		RunAt:            startedAt,
		EmployeesChecked: len(employees),
		ConflictsFound:   len(findings),
	}
	if len(findings) > 0 {
		report, err := json.Marshal(findings)
		if err != nil {
			return nil, err
		}
		run.ReportJSON = string(report)
	}

	if err := cs.Store.SaveSweepRun(ctx, run); err != nil {
		return nil, err
	}

	if len(findings) > 0 {
		log.Printf("[Sweeper] Completed: %d employees checked, %d conflicting assignments",
			len(employees), len(findings))
	}
	return &run, nil
}

// GetNextRunTime returns when the next scheduled sweep will occur.
func (cs *ConflictSweeper) GetNextRunTime() time.Time {
	return time.Now().Add(cs.CheckInterval)
}
