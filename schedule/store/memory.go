// Package store provides Reader implementations.
package store

import (
	"context"
	"sync"

	"github.com/warp/schedule-engine/schedule"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory is an in-memory schedule.Reader. Writes are only used to set up
// state; the engine itself never mutates through this interface.
type Memory struct {
	mu          sync.RWMutex
	templates   map[schedule.TemplateID]schedule.ScheduleTemplate
	assignments map[schedule.EmployeeID][]schedule.Assignment
	absences    map[schedule.EmployeeID][]schedule.AbsenceRequest
	overrides   map[overrideKey]schedule.ExceptionDayOverride
	shifts      map[overrideKey]schedule.ManualShiftAssignment
	paidBreaks  map[schedule.SlotID]bool
}

type overrideKey struct {
	EmployeeID schedule.EmployeeID
	Date       schedule.LocalDate
}

func NewMemory() *Memory {
	return &Memory{
		templates:   make(map[schedule.TemplateID]schedule.ScheduleTemplate),
		assignments: make(map[schedule.EmployeeID][]schedule.Assignment),
		absences:    make(map[schedule.EmployeeID][]schedule.AbsenceRequest),
		overrides:   make(map[overrideKey]schedule.ExceptionDayOverride),
		shifts:      make(map[overrideKey]schedule.ManualShiftAssignment),
		paidBreaks:  make(map[schedule.SlotID]bool),
	}
}

// -----------------------------------------------------------------------------
// Setup mutators
// -----------------------------------------------------------------------------

func (m *Memory) PutTemplate(t schedule.ScheduleTemplate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.templates[t.ID] = t
}

func (m *Memory) PutAssignment(a schedule.Assignment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignments[a.EmployeeID] = append(m.assignments[a.EmployeeID], a)
}

func (m *Memory) PutAbsence(a schedule.AbsenceRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.absences[a.EmployeeID] = append(m.absences[a.EmployeeID], a)
}

func (m *Memory) PutOverride(o schedule.ExceptionDayOverride) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overrides[overrideKey{o.EmployeeID, o.Date}] = o
}

func (m *Memory) PutManualShift(s schedule.ManualShiftAssignment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shifts[overrideKey{s.EmployeeID, s.Date}] = s
}

func (m *Memory) MarkPaidBreak(id schedule.SlotID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paidBreaks[id] = true
}

// -----------------------------------------------------------------------------
// schedule.Reader
// -----------------------------------------------------------------------------

func (m *Memory) GetActiveAssignment(_ context.Context, employeeID schedule.EmployeeID, date schedule.LocalDate) (*schedule.Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.assignments[employeeID] {
		if a.IsActive(date) {
			found := a
			return &found, nil
		}
	}
	return nil, nil
}

func (m *Memory) GetTemplate(_ context.Context, templateID schedule.TemplateID) (*schedule.ScheduleTemplate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.templates[templateID]
	if !ok {
		return nil, schedule.ErrTemplateNotFound
	}
	found := t
	return &found, nil
}

func (m *Memory) GetAbsence(_ context.Context, employeeID schedule.EmployeeID, date schedule.LocalDate) (*schedule.AbsenceRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.absences[employeeID] {
		if a.Range.Contains(date) {
			found := a
			return &found, nil
		}
	}
	return nil, nil
}

func (m *Memory) GetOverride(_ context.Context, employeeID schedule.EmployeeID, date schedule.LocalDate) (*schedule.ExceptionDayOverride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if o, ok := m.overrides[overrideKey{employeeID, date}]; ok {
		found := o
		return &found, nil
	}
	return nil, nil
}

func (m *Memory) GetManualShift(_ context.Context, employeeID schedule.EmployeeID, date schedule.LocalDate) (*schedule.ManualShiftAssignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.shifts[overrideKey{employeeID, date}]; ok {
		found := s
		return &found, nil
	}
	return nil, nil
}

func (m *Memory) GetPaidBreakSlotIDs(_ context.Context, slotIDs []schedule.SlotID) (map[schedule.SlotID]bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	paid := make(map[schedule.SlotID]bool)
	for _, id := range slotIDs {
		if m.paidBreaks[id] {
			paid[id] = true
		}
	}
	return paid, nil
}
