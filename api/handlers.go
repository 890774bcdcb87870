/*
handlers.go - HTTP API handlers for the schedule resolution engine

PURPOSE:
  Exposes the resolution engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Employees:
    GET    /api/employees                    List all employees
    POST   /api/employees                    Create employee
    GET    /api/employees/{id}               Get employee details
    DELETE /api/employees/{id}               Remove employee
    GET    /api/employees/{id}/schedule      Resolve one day (?date=YYYY-MM-DD)
    GET    /api/employees/{id}/week          Resolve a week (?start=YYYY-MM-DD)
    GET    /api/employees/{id}/assignments   List schedule assignments
    POST   /api/employees/{id}/punches/validate  Check punches against the day

  Assignments:
    POST   /api/assignments                  Create (409 + conflicts when invalid)
    POST   /api/assignments/validate         Dry-run validation, nothing written
    DELETE /api/assignments/{id}             Remove assignment

  Templates:
    GET    /api/templates                    List templates (factory JSON form)
    POST   /api/templates                    Create template from JSON
    GET    /api/templates/{id}               Get one template
    DELETE /api/templates/{id}               Remove template and its periods

  Day layers:
    POST   /api/absences                     Record an approved absence
    DELETE /api/absences/{id}                Remove absence
    POST   /api/overrides                    Upsert exception-day override
    DELETE /api/overrides                    Remove (?employee=&date=)
    POST   /api/shifts                       Upsert manual shift
    DELETE /api/shifts                       Remove (?employee=&date=)
    POST   /api/breaks/{slotID}/paid         Mark a break slot paid
    DELETE /api/breaks/{slotID}/paid         Unmark

  Batches:
    POST   /api/roster/week                  Resolve a week for many employees
    GET    /api/sweeps                       Recent conflict sweep runs
    POST   /api/sweeps/run                   Trigger an immediate sweep

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 409: Assignment conflicts (body carries the full conflict list)
  - 500: Internal errors

  An unscheduled day is NOT an error: GET schedule renders it as a NONE
  schedule with a reason, the same shape week and roster views use.

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - sweeper.go: Background conflict sweeps
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/warp/schedule-engine/factory"
	"github.com/warp/schedule-engine/roster"
	"github.com/warp/schedule-engine/schedule"
	"github.com/warp/schedule-engine/store/sqlite"
	"github.com/warp/schedule-engine/tracking"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store           *sqlite.Store
	Engine          *schedule.Engine
	Roster          *roster.Resolver
	TemplateFactory *factory.TemplateFactory

	// Sweeper, when set, backs the manual sweep trigger endpoint.
	Sweeper *ConflictSweeper

	// GraceMinutes is the default punch tolerance when a request omits it.
	GraceMinutes int
}

// NewHandler creates a handler wired to the store.
func NewHandler(store *sqlite.Store) *Handler {
	engine := schedule.NewEngine(store)
	return &Handler{
		Store:           store,
		Engine:          engine,
		Roster:          roster.NewResolver(engine),
		TemplateFactory: factory.NewTemplateFactory(),
		GraceMinutes:    5,
	}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := schedule.EmployeeID(chi.URLParam(r, "id"))

	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to get employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// CreateEmployee creates or updates an employee.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}

	contractStart, err := schedule.ParseLocalDate(req.ContractStart)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid contract_start (use YYYY-MM-DD)", err)
		return
	}
	emp := sqlite.Employee{
		ID:            schedule.EmployeeID(req.ID),
		Name:          req.Name,
		Email:         req.Email,
		ContractStart: contractStart,
	}
	if req.ContractEnd != "" {
		end, err := schedule.ParseLocalDate(req.ContractEnd)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid contract_end (use YYYY-MM-DD)", err)
			return
		}
		if end.Before(contractStart) {
			writeError(w, http.StatusBadRequest, "contract_end precedes contract_start", nil)
			return
		}
		emp.ContractEnd = &end
	}

	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// DeleteEmployee removes an employee.
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := schedule.EmployeeID(chi.URLParam(r, "id"))
	if err := h.Store.DeleteEmployee(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete employee", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// RESOLUTION HANDLERS
// =============================================================================

// GetSchedule resolves the effective schedule for one employee and date.
// GET /api/employees/{id}/schedule?date=YYYY-MM-DD
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	employeeID := schedule.EmployeeID(chi.URLParam(r, "id"))
	date, err := schedule.ParseLocalDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid or missing date (use ?date=YYYY-MM-DD)", err)
		return
	}

	es, err := h.Engine.ResolveEffectiveSchedule(r.Context(), employeeID, date)
	if err != nil {
		// Unscheduled days render like week entries do: NONE plus a reason.
		if schedule.IsUnscheduled(err) || schedule.IsDataIntegrity(err) {
			writeJSON(w, http.StatusOK, toScheduleDTO(&schedule.EffectiveSchedule{
				EmployeeID: employeeID,
				Date:       date,
				Source:     schedule.SourceNone,
				Reason:     err.Error(),
			}))
			return
		}
		writeDomainError(w, "Failed to resolve schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, toScheduleDTO(es))
}

// GetWeek resolves the Monday-Sunday week containing the start date.
// GET /api/employees/{id}/week?start=YYYY-MM-DD
func (h *Handler) GetWeek(w http.ResponseWriter, r *http.Request) {
	employeeID := schedule.EmployeeID(chi.URLParam(r, "id"))
	start, err := schedule.ParseLocalDate(r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid or missing start (use ?start=YYYY-MM-DD)", err)
		return
	}

	week, err := h.Engine.ResolveWeekSchedule(r.Context(), employeeID, start)
	if err != nil {
		writeDomainError(w, "Failed to resolve week", err)
		return
	}
	writeJSON(w, http.StatusOK, toWeekDTO(week))
}

// ResolveRoster resolves one week for a batch of employees.
// POST /api/roster/week
func (h *Handler) ResolveRoster(w http.ResponseWriter, r *http.Request) {
	var req RosterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.EmployeeIDs) == 0 {
		writeError(w, http.StatusBadRequest, "employee_ids must not be empty", nil)
		return
	}
	start, err := schedule.ParseLocalDate(req.WeekStart)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid week_start (use YYYY-MM-DD)", err)
		return
	}

	ids := make([]schedule.EmployeeID, len(req.EmployeeIDs))
	for i, id := range req.EmployeeIDs {
		ids[i] = schedule.EmployeeID(id)
	}

	result := h.Roster.ResolveWeek(r.Context(), ids, start)
	writeJSON(w, http.StatusOK, toRosterDTO(result))
}

// ValidatePunches checks clock-in/out pairs against the resolved day.
// POST /api/employees/{id}/punches/validate
func (h *Handler) ValidatePunches(w http.ResponseWriter, r *http.Request) {
	employeeID := schedule.EmployeeID(chi.URLParam(r, "id"))

	var req ValidatePunchesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := schedule.ParseLocalDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}

	punches := make([]tracking.Punch, 0, len(req.Punches))
	for _, p := range req.Punches {
		in, err := schedule.ClockToMinutes(p.In)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid punch-in time", err)
			return
		}
		out, err := schedule.ClockToMinutes(p.Out)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid punch-out time", err)
			return
		}
		punch, err := tracking.NewPunch(in, out)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid punch range", err)
			return
		}
		punches = append(punches, punch)
	}

	es, err := h.Engine.ResolveEffectiveSchedule(r.Context(), employeeID, date)
	if err != nil {
		if schedule.IsUnscheduled(err) || schedule.IsDataIntegrity(err) {
			es = &schedule.EffectiveSchedule{
				EmployeeID: employeeID,
				Date:       date,
				Source:     schedule.SourceNone,
				Reason:     err.Error(),
			}
		} else {
			writeDomainError(w, "Failed to resolve schedule", err)
			return
		}
	}

	grace := req.GraceMinutes
	if grace == 0 {
		grace = h.GraceMinutes
	}
	report := tracking.NewValidator(grace).ValidateDay(es, punches)
	writeJSON(w, http.StatusOK, toDayReportDTO(report))
}

// =============================================================================
// ASSIGNMENT HANDLERS
// =============================================================================

func (h *Handler) parseAssignment(req CreateAssignmentRequest) (schedule.Assignment, error) {
	start, err := schedule.ParseLocalDate(req.StartDate)
	if err != nil {
		return schedule.Assignment{}, fmt.Errorf("start_date: %w", err)
	}
	candidate := schedule.Assignment{
		ID:         schedule.AssignmentID(req.ID),
		EmployeeID: schedule.EmployeeID(req.EmployeeID),
		TemplateID: schedule.TemplateID(req.TemplateID),
		Range:      schedule.OpenRange(start),
	}
	if req.EndDate != "" {
		end, err := schedule.ParseLocalDate(req.EndDate)
		if err != nil {
			return schedule.Assignment{}, fmt.Errorf("end_date: %w", err)
		}
		candidate.Range, err = schedule.NewDateRange(start, end)
		if err != nil {
			return schedule.Assignment{}, err
		}
	}
	if req.AnchorDate != "" {
		candidate.Anchor, err = schedule.ParseLocalDate(req.AnchorDate)
		if err != nil {
			return schedule.Assignment{}, fmt.Errorf("anchor_date: %w", err)
		}
	}
	return candidate, nil
}

// CreateAssignment validates and persists an assignment. Conflicts come back
// as 409 with the full conflict list.
// POST /api/assignments
func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	candidate, err := h.parseAssignment(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid assignment", err)
		return
	}

	result, err := h.Store.CreateAssignment(r.Context(), candidate)
	if err != nil {
		writeDomainError(w, "Failed to create assignment", err)
		return
	}
	if !result.Valid {
		writeJSON(w, http.StatusConflict, toValidationDTO(result))
		return
	}
	writeJSON(w, http.StatusCreated, toValidationDTO(result))
}

// ValidateAssignment dry-runs the conflict check without writing anything.
// POST /api/assignments/validate
func (h *Handler) ValidateAssignment(w http.ResponseWriter, r *http.Request) {
	var req CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	candidate, err := h.parseAssignment(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid assignment", err)
		return
	}

	emp, err := h.Store.GetEmployee(r.Context(), candidate.EmployeeID)
	if err != nil {
		writeDomainError(w, "Failed to load employee", err)
		return
	}
	existing, err := h.Store.ListAssignments(r.Context(), candidate.EmployeeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load assignments", err)
		return
	}

	contract := emp.ContractRange()
	result := schedule.ValidateAssignment(candidate, schedule.ValidationContext{
		Existing: existing,
		Contract: &contract,
	})
	writeJSON(w, http.StatusOK, toValidationDTO(result))
}

// GetAssignments lists an employee's assignments.
// GET /api/employees/{id}/assignments
func (h *Handler) GetAssignments(w http.ResponseWriter, r *http.Request) {
	employeeID := schedule.EmployeeID(chi.URLParam(r, "id"))
	assignments, err := h.Store.ListAssignments(r.Context(), employeeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list assignments", err)
		return
	}

	dtos := make([]AssignmentDTO, len(assignments))
	for i, a := range assignments {
		dtos[i] = toAssignmentDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// DeleteAssignment removes an assignment.
func (h *Handler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	id := schedule.AssignmentID(chi.URLParam(r, "id"))
	if err := h.Store.DeleteAssignment(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete assignment", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// TEMPLATE HANDLERS
// =============================================================================

// ListTemplates returns every template in its JSON document form.
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.Store.ListTemplates(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list templates", err)
		return
	}

	dtos := make([]factory.TemplateJSON, len(templates))
	for i, tpl := range templates {
		dtos[i] = factory.EncodeTemplate(tpl)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetTemplate returns one template.
func (h *Handler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	id := schedule.TemplateID(chi.URLParam(r, "id"))
	tpl, err := h.Store.GetTemplate(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to get template", err)
		return
	}
	writeJSON(w, http.StatusOK, factory.EncodeTemplate(tpl))
}

// CreateTemplate parses a template document and persists it.
// POST /api/templates
func (h *Handler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var doc factory.TemplateJSON
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	tpl, err := h.TemplateFactory.FromJSON(doc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid template", err)
		return
	}
	if err := h.Store.SaveTemplate(r.Context(), tpl); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save template", err)
		return
	}
	writeJSON(w, http.StatusCreated, factory.EncodeTemplate(tpl))
}

// DeleteTemplate removes a template and its periods.
func (h *Handler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id := schedule.TemplateID(chi.URLParam(r, "id"))
	if err := h.Store.DeleteTemplate(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete template", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// DAY-LAYER HANDLERS
// =============================================================================

// CreateAbsence records an approved absence range.
// POST /api/absences
func (h *Handler) CreateAbsence(w http.ResponseWriter, r *http.Request) {
	var req CreateAbsenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	start, err := schedule.ParseLocalDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date", err)
		return
	}
	absence := schedule.AbsenceRequest{
		ID:         schedule.AbsenceID(req.ID),
		EmployeeID: schedule.EmployeeID(req.EmployeeID),
		Kind:       req.Kind,
		Range:      schedule.OpenRange(start),
	}
	if req.EndDate != "" {
		end, err := schedule.ParseLocalDate(req.EndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid end_date", err)
			return
		}
		absence.Range, err = schedule.NewDateRange(start, end)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid absence range", err)
			return
		}
	}

	if err := h.Store.SaveAbsence(r.Context(), absence); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save absence", err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// DeleteAbsence removes an absence.
func (h *Handler) DeleteAbsence(w http.ResponseWriter, r *http.Request) {
	id := schedule.AbsenceID(chi.URLParam(r, "id"))
	if err := h.Store.DeleteAbsence(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete absence", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateOverride upserts the exception-day override for an employee+date.
// POST /api/overrides
func (h *Handler) CreateOverride(w http.ResponseWriter, r *http.Request) {
	var req CreateOverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := schedule.ParseLocalDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}
	slots, err := h.TemplateFactory.ParseSlots(req.Slots)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid slots", err)
		return
	}

	override := schedule.ExceptionDayOverride{
		ID:         schedule.OverrideID(req.ID),
		EmployeeID: schedule.EmployeeID(req.EmployeeID),
		Date:       date,
		Slots:      slots,
		Reason:     req.Reason,
	}
	if err := h.Store.SaveOverride(r.Context(), override); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save override", err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// DeleteOverride removes the override for ?employee=&date=.
func (h *Handler) DeleteOverride(w http.ResponseWriter, r *http.Request) {
	employeeID := schedule.EmployeeID(r.URL.Query().Get("employee"))
	date, err := schedule.ParseLocalDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid or missing date", err)
		return
	}
	if err := h.Store.DeleteOverride(r.Context(), employeeID, date); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete override", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateShift upserts a manual shift for an employee+date.
// POST /api/shifts
func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req CreateShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := schedule.ParseLocalDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}
	slots, err := h.TemplateFactory.ParseSlots(req.Slots)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid slots", err)
		return
	}

	shift := schedule.ManualShiftAssignment{
		ID:         schedule.ShiftID(req.ID),
		EmployeeID: schedule.EmployeeID(req.EmployeeID),
		Date:       date,
		TemplateID: schedule.TemplateID(req.TemplateID),
		Slots:      slots,
	}
	if err := h.Store.SaveManualShift(r.Context(), shift); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save shift", err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// DeleteShift removes the manual shift for ?employee=&date=.
func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	employeeID := schedule.EmployeeID(r.URL.Query().Get("employee"))
	date, err := schedule.ParseLocalDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid or missing date", err)
		return
	}
	if err := h.Store.DeleteManualShift(r.Context(), employeeID, date); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete shift", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkPaidBreak flags a break slot as paid.
// POST /api/breaks/{slotID}/paid
func (h *Handler) MarkPaidBreak(w http.ResponseWriter, r *http.Request) {
	slotID := schedule.SlotID(chi.URLParam(r, "slotID"))
	if err := h.Store.MarkPaidBreak(r.Context(), slotID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to mark paid break", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UnmarkPaidBreak removes the paid flag.
// DELETE /api/breaks/{slotID}/paid
func (h *Handler) UnmarkPaidBreak(w http.ResponseWriter, r *http.Request) {
	slotID := schedule.SlotID(chi.URLParam(r, "slotID"))
	if err := h.Store.UnmarkPaidBreak(r.Context(), slotID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to unmark paid break", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// SWEEP HANDLERS
// =============================================================================

// ListSweepRuns returns the most recent conflict sweep runs.
// GET /api/sweeps
func (h *Handler) ListSweepRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Store.ListSweepRuns(r.Context(), 50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sweep runs", err)
		return
	}

	dtos := make([]SweepRunDTO, len(runs))
	for i, run := range runs {
		dtos[i] = toSweepRunDTO(run)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// TriggerSweep runs an immediate conflict sweep.
// POST /api/sweeps/run
func (h *Handler) TriggerSweep(w http.ResponseWriter, r *http.Request) {
	if h.Sweeper == nil {
		writeError(w, http.StatusServiceUnavailable, "Sweeper not running", nil)
		return
	}
	run, err := h.Sweeper.RunNow(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Sweep failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toSweepRunDTO(*run))
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps engine/store errors to HTTP statuses.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case schedule.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case schedule.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
