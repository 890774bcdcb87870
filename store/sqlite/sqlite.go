/*
Package sqlite provides the SQLite-backed schedule store.

PURPOSE:
  Persists every layer the resolution engine reads (templates, periods,
  assignments, absences, overrides, manual shifts, paid-break marks) plus
  the employee registry and conflict-sweep bookkeeping. In production the
  same patterns apply to PostgreSQL - only minor SQL dialect differences.

INTERFACES IMPLEMENTED:
  schedule.Reader: The engine's read-only lookups

WRITE-PATH GUARANTEE:
  The advisory overlap check in schedule.ValidateAssignment runs again here,
  under the store's write lock, before an assignment row is inserted. This
  makes the store the authoritative enforcement point for "at most one
  active assignment per employee per date".

KEY TABLES:
  employees:     Registry plus contract window for bounds validation
  templates:     Base schedules, patterns stored in their JSON document form
  periods:       Date-bounded pattern overrides, ranked by category
  assignments:   Employee-to-template links with validity ranges
  absences:      Approved absence ranges
  overrides:     Single-date full-day replacements (unique per employee+date)
  manual_shifts: Ad-hoc shift slots (unique per employee+date)
  paid_breaks:   Slot IDs whose BREAK time counts toward worked hours
  sweep_runs:    Conflict sweeper audit trail

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/schedules.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  engine := schedule.NewEngine(store)

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - schedule/store.go: The Reader interface
  - schedule/store/memory.go: In-memory implementation for testing
  - factory/template.go: The JSON form patterns are stored in
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/schedule-engine/factory"
	"github.com/warp/schedule-engine/schedule"
)

// Store implements schedule.Reader and owns the write path.
type Store struct {
	db      *sql.DB
	mu      sync.RWMutex
	factory *factory.TemplateFactory
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db, factory: factory.NewTemplateFactory()}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Employees (with contract window for assignment bounds checks)
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		contract_start TEXT NOT NULL,
		contract_end TEXT,
		created_at TEXT NOT NULL
	);

	-- Templates (patterns kept in their JSON document form)
	CREATE TABLE IF NOT EXISTS templates (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		kind TEXT NOT NULL,
		cycle_length INTEGER DEFAULT 0,
		patterns_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Periods (date-bounded pattern overrides bound to a template)
	CREATE TABLE IF NOT EXISTS periods (
		id TEXT PRIMARY KEY,
		template_id TEXT NOT NULL,
		category TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT,
		patterns_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_periods_template
		ON periods(template_id);

	-- Assignments (employee-to-template validity ranges)
	CREATE TABLE IF NOT EXISTS assignments (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		template_id TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT,
		anchor_date TEXT,
		created_at TEXT NOT NULL
	);

	-- Composite index for active assignment lookups (hot path)
	CREATE INDEX IF NOT EXISTS idx_assignments_employee_active
		ON assignments(employee_id, start_date, end_date);

	-- Absences (approved only; the engine never sees pending requests)
	CREATE TABLE IF NOT EXISTS absences (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_absences_employee_dates
		ON absences(employee_id, start_date, end_date);

	-- Exception day overrides: one full-day replacement per employee+date
	CREATE TABLE IF NOT EXISTS overrides (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		date TEXT NOT NULL,
		slots_json TEXT NOT NULL,
		reason TEXT,
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_overrides_employee_date
		ON overrides(employee_id, date);

	-- Manual shift assignments: one per employee+date
	CREATE TABLE IF NOT EXISTS manual_shifts (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		date TEXT NOT NULL,
		template_id TEXT,
		slots_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_manual_shifts_employee_date
		ON manual_shifts(employee_id, date);

	-- Paid breaks: BREAK slots counting toward worked hours
	CREATE TABLE IF NOT EXISTS paid_breaks (
		slot_id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL
	);

	-- Conflict sweep audit trail
	CREATE TABLE IF NOT EXISTS sweep_runs (
		id TEXT PRIMARY KEY,
		run_at TEXT NOT NULL,
		employees_checked INTEGER NOT NULL,
		conflicts_found INTEGER NOT NULL,
		report_json TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sweep_runs_run_at
		ON sweep_runs(run_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// READER (schedule.Reader interface)
// =============================================================================

// GetActiveAssignment returns the assignment valid on the date, or nil.
func (s *Store) GetActiveAssignment(ctx context.Context, employeeID schedule.EmployeeID, date schedule.LocalDate) (*schedule.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, employee_id, template_id, start_date, end_date, anchor_date, created_at
		FROM assignments
		WHERE employee_id = ? AND start_date <= ?
		  AND (end_date IS NULL OR end_date >= ?)
		ORDER BY start_date DESC, created_at DESC
		LIMIT 1
	`

	row := s.db.QueryRowContext(ctx, query, employeeID, date.String(), date.String())
	a, err := scanAssignment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetTemplate returns the template with its patterns and periods.
func (s *Store) GetTemplate(ctx context.Context, templateID schedule.TemplateID) (*schedule.ScheduleTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.getTemplate(ctx, templateID)
}

// getTemplate is the lock-free inner lookup, shared with the write path.
func (s *Store) getTemplate(ctx context.Context, templateID schedule.TemplateID) (*schedule.ScheduleTemplate, error) {
	var (
		tpl          schedule.ScheduleTemplate
		kind         string
		patternsJSON string
		createdAt    string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, kind, cycle_length, patterns_json, created_at FROM templates WHERE id = ?",
		templateID,
	).Scan(&tpl.ID, &tpl.Name, &kind, &tpl.CycleLength, &patternsJSON, &createdAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", schedule.ErrTemplateNotFound, templateID)
	}
	if err != nil {
		return nil, err
	}

	tpl.Kind = schedule.ScheduleKind(kind)
	tpl.CreatedAt = parseTime(createdAt)
	tpl.Patterns, err = s.unmarshalPatterns(patternsJSON)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", templateID, err)
	}

	tpl.Periods, err = s.loadPeriods(ctx, templateID)
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (s *Store) loadPeriods(ctx context.Context, templateID schedule.TemplateID) ([]schedule.SchedulePeriod, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, template_id, category, start_date, end_date, patterns_json, created_at
		 FROM periods WHERE template_id = ? ORDER BY created_at ASC`,
		templateID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var periods []schedule.SchedulePeriod
	for rows.Next() {
		var (
			p            schedule.SchedulePeriod
			category     string
			startDate    string
			endDate      sql.NullString
			patternsJSON string
			createdAt    string
		)
		if err := rows.Scan(&p.ID, &p.TemplateID, &category, &startDate, &endDate, &patternsJSON, &createdAt); err != nil {
			return nil, err
		}

		p.Category = schedule.PeriodCategory(category)
		p.Range, err = scanRange(startDate, endDate)
		if err != nil {
			return nil, fmt.Errorf("period %s: %w", p.ID, err)
		}
		p.Patterns, err = s.unmarshalPatterns(patternsJSON)
		if err != nil {
			return nil, fmt.Errorf("period %s: %w", p.ID, err)
		}
		p.CreatedAt = parseTime(createdAt)
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

// GetAbsence returns an approved absence covering the date, or nil.
func (s *Store) GetAbsence(ctx context.Context, employeeID schedule.EmployeeID, date schedule.LocalDate) (*schedule.AbsenceRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, employee_id, kind, start_date, end_date
		FROM absences
		WHERE employee_id = ? AND start_date <= ?
		  AND (end_date IS NULL OR end_date >= ?)
		ORDER BY created_at ASC
		LIMIT 1
	`

	var (
		a         schedule.AbsenceRequest
		startDate string
		endDate   sql.NullString
	)
	err := s.db.QueryRowContext(ctx, query, employeeID, date.String(), date.String()).
		Scan(&a.ID, &a.EmployeeID, &a.Kind, &startDate, &endDate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	a.Range, err = scanRange(startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("absence %s: %w", a.ID, err)
	}
	return &a, nil
}

// GetOverride returns the exception-day override for the exact date, or nil.
func (s *Store) GetOverride(ctx context.Context, employeeID schedule.EmployeeID, date schedule.LocalDate) (*schedule.ExceptionDayOverride, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		o         schedule.ExceptionDayOverride
		dateStr   string
		slotsJSON string
		reason    sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, employee_id, date, slots_json, reason FROM overrides WHERE employee_id = ? AND date = ?",
		employeeID, date.String(),
	).Scan(&o.ID, &o.EmployeeID, &dateStr, &slotsJSON, &reason)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	o.Date, err = schedule.ParseLocalDate(dateStr)
	if err != nil {
		return nil, fmt.Errorf("override %s: %w", o.ID, err)
	}
	o.Slots, err = s.unmarshalSlots(slotsJSON)
	if err != nil {
		return nil, fmt.Errorf("override %s: %w", o.ID, err)
	}
	o.Reason = reason.String
	return &o, nil
}

// GetManualShift returns the ad-hoc shift assignment for the date, or nil.
func (s *Store) GetManualShift(ctx context.Context, employeeID schedule.EmployeeID, date schedule.LocalDate) (*schedule.ManualShiftAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		m          schedule.ManualShiftAssignment
		dateStr    string
		templateID sql.NullString
		slotsJSON  string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, employee_id, date, template_id, slots_json FROM manual_shifts WHERE employee_id = ? AND date = ?",
		employeeID, date.String(),
	).Scan(&m.ID, &m.EmployeeID, &dateStr, &templateID, &slotsJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	m.Date, err = schedule.ParseLocalDate(dateStr)
	if err != nil {
		return nil, fmt.Errorf("manual shift %s: %w", m.ID, err)
	}
	m.TemplateID = schedule.TemplateID(templateID.String)
	m.Slots, err = s.unmarshalSlots(slotsJSON)
	if err != nil {
		return nil, fmt.Errorf("manual shift %s: %w", m.ID, err)
	}
	return &m, nil
}

// GetPaidBreakSlotIDs returns the subset of the given slot IDs marked paid.
func (s *Store) GetPaidBreakSlotIDs(ctx context.Context, slotIDs []schedule.SlotID) (map[schedule.SlotID]bool, error) {
	paid := make(map[schedule.SlotID]bool)
	if len(slotIDs) == 0 {
		return paid, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	placeholders := strings.Repeat("?,", len(slotIDs))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(slotIDs))
	for i, id := range slotIDs {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT slot_id FROM paid_breaks WHERE slot_id IN ("+placeholders+")", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id schedule.SlotID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		paid[id] = true
	}
	return paid, rows.Err()
}

// =============================================================================
// EMPLOYEE STORE
// =============================================================================

// Employee is the registry record. The contract window bounds what assignment
// ranges the employee may hold.
type Employee struct {
	ID            schedule.EmployeeID
	Name          string
	Email         string
	ContractStart schedule.LocalDate
	ContractEnd   *schedule.LocalDate
	CreatedAt     time.Time
}

// ContractRange returns the employment contract's active window.
func (e Employee) ContractRange() schedule.DateRange {
	return schedule.DateRange{Start: e.ContractStart, End: e.ContractEnd}
}

// SaveEmployee inserts or updates an employee.
func (s *Store) SaveEmployee(ctx context.Context, emp Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO employees (id, name, email, contract_start, contract_end, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			contract_start = excluded.contract_start,
			contract_end = excluded.contract_end
	`

	_, err := s.db.ExecContext(ctx, query,
		emp.ID, emp.Name, emp.Email,
		emp.ContractStart.String(),
		nullDate(emp.ContractEnd),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// GetEmployee retrieves an employee by ID. Returns ErrEmployeeNotFound when
// the ID is unknown.
func (s *Store) GetEmployee(ctx context.Context, id schedule.EmployeeID) (*Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.getEmployee(ctx, id)
}

func (s *Store) getEmployee(ctx context.Context, id schedule.EmployeeID) (*Employee, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, contract_start, contract_end, created_at FROM employees WHERE id = ?",
		id,
	)
	emp, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", schedule.ErrEmployeeNotFound, id)
	}
	return emp, err
}

// ListEmployees returns all employees ordered by name.
func (s *Store) ListEmployees(ctx context.Context) ([]Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, email, contract_start, contract_end, created_at FROM employees ORDER BY name",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, *emp)
	}
	return employees, rows.Err()
}

// DeleteEmployee removes an employee.
func (s *Store) DeleteEmployee(ctx context.Context, id schedule.EmployeeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM employees WHERE id = ?", id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (*Employee, error) {
	var (
		emp           Employee
		contractStart string
		contractEnd   sql.NullString
		createdAt     string
	)
	err := row.Scan(&emp.ID, &emp.Name, &emp.Email, &contractStart, &contractEnd, &createdAt)
	if err != nil {
		return nil, err
	}

	emp.ContractStart, err = schedule.ParseLocalDate(contractStart)
	if err != nil {
		return nil, fmt.Errorf("employee %s: %w", emp.ID, err)
	}
	if contractEnd.Valid {
		end, err := schedule.ParseLocalDate(contractEnd.String)
		if err != nil {
			return nil, fmt.Errorf("employee %s: %w", emp.ID, err)
		}
		emp.ContractEnd = &end
	}
	emp.CreatedAt = parseTime(createdAt)
	return &emp, nil
}

// =============================================================================
// TEMPLATE STORE
// =============================================================================

// SaveTemplate inserts or updates a template together with its periods.
// Periods are replaced wholesale: the template document owns them.
func (s *Store) SaveTemplate(ctx context.Context, tpl *schedule.ScheduleTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	patternsJSON, err := marshalPatterns(tpl.Patterns)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO templates (id, name, kind, cycle_length, patterns_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			kind = excluded.kind,
			cycle_length = excluded.cycle_length,
			patterns_json = excluded.patterns_json
	`
	createdAt := tpl.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	if _, err := tx.ExecContext(ctx, query,
		tpl.ID, tpl.Name, string(tpl.Kind), tpl.CycleLength, patternsJSON,
		createdAt.Format(time.RFC3339),
	); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM periods WHERE template_id = ?", tpl.ID); err != nil {
		return err
	}
	for _, p := range tpl.Periods {
		periodPatterns, err := marshalPatterns(p.Patterns)
		if err != nil {
			return fmt.Errorf("period %s: %w", p.ID, err)
		}
		pCreatedAt := p.CreatedAt
		if pCreatedAt.IsZero() {
			pCreatedAt = createdAt
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO periods (id, template_id, category, start_date, end_date, patterns_json, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.ID, tpl.ID, string(p.Category),
			p.Range.Start.String(), nullDate(p.Range.End),
			periodPatterns, pCreatedAt.Format(time.RFC3339),
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListTemplates returns all templates with their periods.
func (s *Store) ListTemplates(ctx context.Context) ([]*schedule.ScheduleTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id FROM templates ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []schedule.TemplateID
	for rows.Next() {
		var id schedule.TemplateID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	templates := make([]*schedule.ScheduleTemplate, 0, len(ids))
	for _, id := range ids {
		tpl, err := s.getTemplate(ctx, id)
		if err != nil {
			return nil, err
		}
		templates = append(templates, tpl)
	}
	return templates, nil
}

// DeleteTemplate removes a template and its periods.
func (s *Store) DeleteTemplate(ctx context.Context, id schedule.TemplateID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM periods WHERE template_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM templates WHERE id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}

// =============================================================================
// ASSIGNMENT STORE - The authoritative overlap constraint
// =============================================================================

// CreateAssignment validates the candidate against the employee's existing
// assignments and contract window, then inserts it. Validation and insert
// happen under one write lock, so two racing requests cannot both pass the
// overlap check. An invalid result comes back with a nil error and no row
// written.
func (s *Store) CreateAssignment(ctx context.Context, candidate schedule.Assignment) (schedule.ValidationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if candidate.ID == "" {
		candidate.ID = schedule.AssignmentID("asg-" + uuid.NewString())
	}

	emp, err := s.getEmployee(ctx, candidate.EmployeeID)
	if err != nil {
		return schedule.ValidationResult{}, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM templates WHERE id = ?", candidate.TemplateID,
	).Scan(&count); err != nil {
		return schedule.ValidationResult{}, err
	}
	if count == 0 {
		return schedule.ValidationResult{}, fmt.Errorf("%w: %s", schedule.ErrTemplateNotFound, candidate.TemplateID)
	}

	existing, err := s.listAssignments(ctx, candidate.EmployeeID)
	if err != nil {
		return schedule.ValidationResult{}, err
	}

	contract := emp.ContractRange()
	result := schedule.ValidateAssignment(candidate, schedule.ValidationContext{
		Existing: existing,
		Contract: &contract,
	})
	if !result.Valid {
		return result, nil
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO assignments (id, employee_id, template_id, start_date, end_date, anchor_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		candidate.ID, candidate.EmployeeID, candidate.TemplateID,
		candidate.Range.Start.String(), nullDate(candidate.Range.End),
		nullZeroDate(candidate.Anchor),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return schedule.ValidationResult{}, err
	}
	return result, nil
}

// ListAssignments returns all assignments for an employee, newest range first.
func (s *Store) ListAssignments(ctx context.Context, employeeID schedule.EmployeeID) ([]schedule.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listAssignments(ctx, employeeID)
}

func (s *Store) listAssignments(ctx context.Context, employeeID schedule.EmployeeID) ([]schedule.Assignment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, employee_id, template_id, start_date, end_date, anchor_date, created_at
		 FROM assignments WHERE employee_id = ? ORDER BY start_date DESC`,
		employeeID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []schedule.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, *a)
	}
	return assignments, rows.Err()
}

// DeleteAssignment removes an assignment.
func (s *Store) DeleteAssignment(ctx context.Context, id schedule.AssignmentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM assignments WHERE id = ?", id)
	return err
}

func scanAssignment(row rowScanner) (*schedule.Assignment, error) {
	var (
		a          schedule.Assignment
		startDate  string
		endDate    sql.NullString
		anchorDate sql.NullString
		createdAt  string
	)
	err := row.Scan(&a.ID, &a.EmployeeID, &a.TemplateID, &startDate, &endDate, &anchorDate, &createdAt)
	if err != nil {
		return nil, err
	}

	a.Range, err = scanRange(startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("assignment %s: %w", a.ID, err)
	}
	if anchorDate.Valid {
		a.Anchor, err = schedule.ParseLocalDate(anchorDate.String)
		if err != nil {
			return nil, fmt.Errorf("assignment %s: %w", a.ID, err)
		}
	}
	a.CreatedAt = parseTime(createdAt)
	return &a, nil
}

// =============================================================================
// ABSENCE / OVERRIDE / SHIFT STORE
// =============================================================================

// SaveAbsence inserts an approved absence.
func (s *Store) SaveAbsence(ctx context.Context, a schedule.AbsenceRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = schedule.AbsenceID("abs-" + uuid.NewString())
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO absences (id, employee_id, kind, start_date, end_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.EmployeeID, a.Kind,
		a.Range.Start.String(), nullDate(a.Range.End),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// DeleteAbsence removes an absence.
func (s *Store) DeleteAbsence(ctx context.Context, id schedule.AbsenceID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM absences WHERE id = ?", id)
	return err
}

// SaveOverride upserts the exception-day override for the employee+date.
// A second override on the same date replaces the first.
func (s *Store) SaveOverride(ctx context.Context, o schedule.ExceptionDayOverride) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if o.ID == "" {
		o.ID = schedule.OverrideID("ovr-" + uuid.NewString())
	}
	slotsJSON, err := marshalSlots(o.Slots)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO overrides (id, employee_id, date, slots_json, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, date) DO UPDATE SET
			id = excluded.id,
			slots_json = excluded.slots_json,
			reason = excluded.reason
	`
	_, err = s.db.ExecContext(ctx, query,
		o.ID, o.EmployeeID, o.Date.String(), slotsJSON, o.Reason,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// DeleteOverride removes the override for an employee+date.
func (s *Store) DeleteOverride(ctx context.Context, employeeID schedule.EmployeeID, date schedule.LocalDate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"DELETE FROM overrides WHERE employee_id = ? AND date = ?", employeeID, date.String())
	return err
}

// SaveManualShift upserts the ad-hoc shift for the employee+date.
func (s *Store) SaveManualShift(ctx context.Context, m schedule.ManualShiftAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.ID == "" {
		m.ID = schedule.ShiftID("shf-" + uuid.NewString())
	}
	slotsJSON, err := marshalSlots(m.Slots)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO manual_shifts (id, employee_id, date, template_id, slots_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, date) DO UPDATE SET
			id = excluded.id,
			template_id = excluded.template_id,
			slots_json = excluded.slots_json
	`
	_, err = s.db.ExecContext(ctx, query,
		m.ID, m.EmployeeID, m.Date.String(), string(m.TemplateID), slotsJSON,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// DeleteManualShift removes the shift for an employee+date.
func (s *Store) DeleteManualShift(ctx context.Context, employeeID schedule.EmployeeID, date schedule.LocalDate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"DELETE FROM manual_shifts WHERE employee_id = ? AND date = ?", employeeID, date.String())
	return err
}

// MarkPaidBreak flags a BREAK slot as counting toward worked hours.
func (s *Store) MarkPaidBreak(ctx context.Context, slotID schedule.SlotID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO paid_breaks (slot_id, created_at) VALUES (?, ?) ON CONFLICT(slot_id) DO NOTHING",
		slotID, time.Now().UTC().Format(time.RFC3339))
	return err
}

// UnmarkPaidBreak removes the paid flag from a slot.
func (s *Store) UnmarkPaidBreak(ctx context.Context, slotID schedule.SlotID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM paid_breaks WHERE slot_id = ?", slotID)
	return err
}

// =============================================================================
// SWEEP RUNS
// =============================================================================

// SweepRun records one pass of the background conflict sweeper.
type SweepRun struct {
	ID               string
	RunAt            time.Time
	EmployeesChecked int
	ConflictsFound   int
	ReportJSON       string
	CreatedAt        time.Time
}

// SaveSweepRun records a completed sweep.
func (s *Store) SaveSweepRun(ctx context.Context, run SweepRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.ID == "" {
		run.ID = "swp-" + uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sweep_runs (id, run_at, employees_checked, conflicts_found, report_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.RunAt.UTC().Format(time.RFC3339),
		run.EmployeesChecked, run.ConflictsFound, run.ReportJSON,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// ListSweepRuns returns the most recent sweep runs, newest first.
func (s *Store) ListSweepRuns(ctx context.Context, limit int) ([]SweepRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_at, employees_checked, conflicts_found, report_json, created_at
		 FROM sweep_runs ORDER BY run_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []SweepRun
	for rows.Next() {
		var (
			run        SweepRun
			runAt      string
			reportJSON sql.NullString
			createdAt  string
		)
		if err := rows.Scan(&run.ID, &runAt, &run.EmployeesChecked, &run.ConflictsFound, &reportJSON, &createdAt); err != nil {
			return nil, err
		}
		run.RunAt = parseTime(runAt)
		run.ReportJSON = reportJSON.String
		run.CreatedAt = parseTime(createdAt)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{
		"sweep_runs", "paid_breaks", "manual_shifts", "overrides",
		"absences", "assignments", "periods", "templates", "employees",
	}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) unmarshalPatterns(patternsJSON string) ([]schedule.WorkDayPattern, error) {
	var pjs []factory.PatternJSON
	if err := json.Unmarshal([]byte(patternsJSON), &pjs); err != nil {
		return nil, fmt.Errorf("failed to decode patterns: %w", err)
	}
	return s.factory.ParsePatterns(pjs)
}

func (s *Store) unmarshalSlots(slotsJSON string) ([]schedule.TimeSlot, error) {
	var sjs []factory.SlotJSON
	if err := json.Unmarshal([]byte(slotsJSON), &sjs); err != nil {
		return nil, fmt.Errorf("failed to decode slots: %w", err)
	}
	return s.factory.ParseSlots(sjs)
}

func marshalPatterns(patterns []schedule.WorkDayPattern) (string, error) {
	b, err := json.Marshal(factory.EncodePatterns(patterns))
	if err != nil {
		return "", fmt.Errorf("failed to encode patterns: %w", err)
	}
	return string(b), nil
}

func marshalSlots(slots []schedule.TimeSlot) (string, error) {
	b, err := json.Marshal(factory.EncodeSlots(slots))
	if err != nil {
		return "", fmt.Errorf("failed to encode slots: %w", err)
	}
	return string(b), nil
}

func scanRange(start string, end sql.NullString) (schedule.DateRange, error) {
	startDate, err := schedule.ParseLocalDate(start)
	if err != nil {
		return schedule.DateRange{}, err
	}
	r := schedule.OpenRange(startDate)
	if end.Valid {
		endDate, err := schedule.ParseLocalDate(end.String)
		if err != nil {
			return schedule.DateRange{}, err
		}
		r.End = &endDate
	}
	return r, nil
}

func nullDate(d *schedule.LocalDate) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func nullZeroDate(d schedule.LocalDate) any {
	if d.IsZero() {
		return nil
	}
	return d.String()
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}
