package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/schedule-engine/api"
	"github.com/warp/schedule-engine/factory"
	"github.com/warp/schedule-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

type fixture struct {
	store   *sqlite.Store
	handler *api.Handler
	router  http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	handler := api.NewHandler(store)
	return &fixture{store: store, handler: handler, router: api.NewRouter(handler)}
}

// do sends a request through the router and returns the recorder.
func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

const officeTemplateDoc = `{
	"id": "tpl-office", "name": "Office 9-18", "kind": "fixed",
	"patterns": [
		{"day_index": 0, "slots": [
			{"id": "am", "start": "09:00", "end": "13:00", "type": "work"},
			{"id": "lunch", "start": "13:00", "end": "14:00", "type": "break"},
			{"id": "pm", "start": "14:00", "end": "18:00", "type": "work"}
		]},
		{"day_index": 1, "slots": [{"id": "tue", "start": "09:00", "end": "17:00", "type": "work"}]},
		{"day_index": 2, "slots": [{"id": "wed", "start": "09:00", "end": "17:00", "type": "work"}]},
		{"day_index": 3, "slots": [{"id": "thu", "start": "09:00", "end": "17:00", "type": "work"}]},
		{"day_index": 4, "slots": [{"id": "fri", "start": "09:00", "end": "17:00", "type": "work"}]}
	]
}`

// seedWorld creates an employee with an open-ended office assignment.
func (f *fixture) seedWorld(t *testing.T) {
	t.Helper()

	rec := f.do(t, http.MethodPost, "/api/employees", api.CreateEmployeeRequest{
		ID: "emp-1", Name: "Dana Ops", ContractStart: "2024-01-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var doc json.RawMessage = json.RawMessage(officeTemplateDoc)
	rec = f.do(t, http.MethodPost, "/api/templates", doc)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodPost, "/api/assignments", api.CreateAssignmentRequest{
		EmployeeID: "emp-1", TemplateID: "tpl-office", StartDate: "2024-01-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func TestEmployeeLifecycle(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/employees", api.CreateEmployeeRequest{
		ID: "emp-1", Name: "Dana Ops", Email: "dana@example.com",
		ContractStart: "2024-01-01", ContractEnd: "2024-12-31",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	got := decode[api.EmployeeDTO](t, f.do(t, http.MethodGet, "/api/employees/emp-1", nil))
	assert.Equal(t, "Dana Ops", got.Name)
	assert.Equal(t, "2024-12-31", got.ContractEnd)

	list := decode[[]api.EmployeeDTO](t, f.do(t, http.MethodGet, "/api/employees", nil))
	require.Len(t, list, 1)

	rec = f.do(t, http.MethodGet, "/api/employees/emp-ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateEmployee_Rejections(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/employees", api.CreateEmployeeRequest{
		ID: "emp-1", Name: "Dana", ContractStart: "01/01/2024",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/employees", api.CreateEmployeeRequest{
		ID: "emp-1", Name: "Dana", ContractStart: "2024-06-01", ContractEnd: "2024-01-01",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/employees", api.CreateEmployeeRequest{Name: "No ID"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// TEMPLATES
// =============================================================================

func TestTemplateEndpoints(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/templates", json.RawMessage(officeTemplateDoc))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	got := decode[map[string]any](t, f.do(t, http.MethodGet, "/api/templates/tpl-office", nil))
	assert.Equal(t, "Office 9-18", got["name"])

	// Invalid documents are rejected before anything is stored.
	rec = f.do(t, http.MethodPost, "/api/templates", json.RawMessage(
		`{"name": "broken", "patterns": [{"day_index": 0, "slots": [{"start": "17:00", "end": "09:00"}]}]}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/templates/tpl-ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// ASSIGNMENTS
// =============================================================================

func TestAssignmentConflictsReturn409(t *testing.T) {
	f := newFixture(t)
	f.seedWorld(t)

	rec := f.do(t, http.MethodPost, "/api/assignments", api.CreateAssignmentRequest{
		EmployeeID: "emp-1", TemplateID: "tpl-office", StartDate: "2024-07-01",
	})
	require.Equal(t, http.StatusConflict, rec.Code)

	result := decode[api.ValidationDTO](t, rec)
	assert.False(t, result.Valid)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, "OVERLAP", result.Conflicts[0].Kind)
}

func TestAssignmentDryRunValidation(t *testing.T) {
	f := newFixture(t)
	f.seedWorld(t)

	rec := f.do(t, http.MethodPost, "/api/assignments/validate", api.CreateAssignmentRequest{
		EmployeeID: "emp-1", TemplateID: "tpl-office", StartDate: "2024-07-01",
	})
	require.Equal(t, http.StatusOK, rec.Code, "dry run reports conflicts without a 409")

	result := decode[api.ValidationDTO](t, rec)
	assert.False(t, result.Valid)

	// Nothing was written: the employee still has exactly one assignment.
	assignments := decode[[]api.AssignmentDTO](t, f.do(t, http.MethodGet, "/api/employees/emp-1/assignments", nil))
	assert.Len(t, assignments, 1)
}

// =============================================================================
// RESOLUTION
// =============================================================================

func TestGetSchedule_ResolvesDay(t *testing.T) {
	f := newFixture(t)
	f.seedWorld(t)

	// 2024-07-01 is a Monday.
	got := decode[api.ScheduleDTO](t, f.do(t, http.MethodGet,
		"/api/employees/emp-1/schedule?date=2024-07-01", nil))

	assert.Equal(t, "template", got.Source)
	assert.Equal(t, "tpl-office", got.Provenance.TemplateID)
	require.Len(t, got.Slots, 3)
	assert.Equal(t, "09:00", got.Slots[0].Start)
	assert.Equal(t, 540, got.ScheduledMinutes)
}

func TestGetSchedule_UnscheduledDayIsNotAnError(t *testing.T) {
	f := newFixture(t)
	f.seedWorld(t)

	// Saturday has no pattern: 200 with a NONE schedule and a reason.
	got := decode[api.ScheduleDTO](t, f.do(t, http.MethodGet,
		"/api/employees/emp-1/schedule?date=2024-07-06", nil))
	assert.Equal(t, "none", got.Source)
	assert.NotEmpty(t, got.Reason)
	assert.Empty(t, got.Slots)
}

func TestGetWeek_AbsenceWins(t *testing.T) {
	f := newFixture(t)
	f.seedWorld(t)

	rec := f.do(t, http.MethodPost, "/api/absences", api.CreateAbsenceRequest{
		EmployeeID: "emp-1", Kind: "vacation", StartDate: "2024-07-03", EndDate: "2024-07-03",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	week := decode[api.WeekDTO](t, f.do(t, http.MethodGet,
		"/api/employees/emp-1/week?start=2024-07-01", nil))

	require.Len(t, week.Days, 7)
	assert.Equal(t, "2024-07-01", week.WeekStart)
	assert.Equal(t, "absence", week.Days[2].Source)
	assert.Empty(t, week.Days[2].Slots)
	assert.Equal(t, "template", week.Days[0].Source)
	// Mon 9h + Tue-Fri 8h, minus the absent Wednesday.
	assert.Equal(t, 540+3*480, week.ScheduledMinutes)
}

func TestOverride_ReplacesDay(t *testing.T) {
	f := newFixture(t)
	f.seedWorld(t)

	rec := f.do(t, http.MethodPost, "/api/overrides", api.CreateOverrideRequest{
		EmployeeID: "emp-1", Date: "2024-07-01",
		Slots:      []factory.SlotJSON{{Start: "06:00", End: "12:00", Type: "work"}},
		Reason:     "inventory day",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	got := decode[api.ScheduleDTO](t, f.do(t, http.MethodGet,
		"/api/employees/emp-1/schedule?date=2024-07-01", nil))
	assert.Equal(t, "override", got.Source)
	assert.Equal(t, 360, got.ScheduledMinutes)
}

func TestRosterWeek(t *testing.T) {
	f := newFixture(t)
	f.seedWorld(t)

	rec := f.do(t, http.MethodPost, "/api/roster/week", api.RosterRequest{
		EmployeeIDs: []string{"emp-1", "emp-ghost"},
		WeekStart:   "2024-07-01",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	result := decode[api.RosterDTO](t, rec)
	require.Len(t, result.Entries, 2)
	assert.Equal(t, "emp-1", result.Entries[0].EmployeeID)
	require.NotNil(t, result.Entries[0].Week)
	assert.Equal(t, 540+4*480, result.Entries[0].Week.ScheduledMinutes)

	// The unknown employee resolves to an all-NONE week, not a failure.
	require.NotNil(t, result.Entries[1].Week)
	assert.Empty(t, result.Entries[1].Error)
	assert.Equal(t, 0, result.Entries[1].Week.ScheduledMinutes)
	assert.Empty(t, result.FailedIDs)
}

// =============================================================================
// PUNCH VALIDATION
// =============================================================================

func TestValidatePunches(t *testing.T) {
	f := newFixture(t)
	f.seedWorld(t)

	rec := f.do(t, http.MethodPost, "/api/employees/emp-1/punches/validate", api.ValidatePunchesRequest{
		Date: "2024-07-01",
		Punches: []api.PunchDTO{
			{In: "09:20", Out: "13:00"}, // 20 minutes late
			{In: "14:00", Out: "18:00"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	report := decode[api.DayReportDTO](t, rec)
	assert.False(t, report.Clean)
	require.Len(t, report.Findings, 2)
	assert.Equal(t, "LATE_IN", report.Findings[0].Kind)
	assert.Equal(t, 20, report.Findings[0].DeviationMinutes)
	assert.Equal(t, "OK", report.Findings[1].Kind)
}

// =============================================================================
// SWEEPS
// =============================================================================

func TestSweepEndpoints(t *testing.T) {
	f := newFixture(t)
	f.seedWorld(t)

	// No sweeper attached: the manual trigger is unavailable.
	rec := f.do(t, http.MethodPost, "/api/sweeps/run", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	f.handler.Sweeper = api.NewConflictSweeper(f.store)
	rec = f.do(t, http.MethodPost, "/api/sweeps/run", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	run := decode[api.SweepRunDTO](t, rec)
	assert.Equal(t, 1, run.EmployeesChecked)
	assert.Equal(t, 0, run.ConflictsFound)

	runs := decode[[]api.SweepRunDTO](t, f.do(t, http.MethodGet, "/api/sweeps", nil))
	assert.Len(t, runs, 1)
}
