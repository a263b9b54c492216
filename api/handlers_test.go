package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/warp/punch-engine/api"
	"github.com/warp/punch-engine/config"
	"github.com/warp/punch-engine/payroll"
	"github.com/warp/punch-engine/store/sqlite"
)

// =============================================================================
// TEST SERVER
// =============================================================================

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	h := api.NewHandler(store, config.Default(), zap.NewNop())
	srv := httptest.NewServer(api.NewRouter(h))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, srv *httptest.Server, path string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(srv.URL+path, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func getJSON(t *testing.T, srv *httptest.Server, path string, dst any) *http.Response {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	if dst != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
	}
	resp.Body.Close()
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func loadScenario(t *testing.T, srv *httptest.Server, id string) {
	t.Helper()
	resp := postJSON(t, srv, "/api/scenarios/load", map[string]string{"id": id})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

// =============================================================================
// HEALTH
// =============================================================================

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	var body map[string]string
	resp := getJSON(t, srv, "/api/health", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

// =============================================================================
// PUNCHES
// =============================================================================

func TestCreatePunch(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv, "/api/punches", map[string]any{
		"employee_id": "cook-1",
		"kind":        "clock_in",
		"at":          "2026-08-24T09:00:00Z",
	})
	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, body["id"])
}

func TestCreatePunch_RejectsUnknownKind(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv, "/api/punches", map[string]any{
		"employee_id": "cook-1",
		"kind":        "lunch",
		"at":          "2026-08-24T09:00:00Z",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func TestCreateAndGetEmployee(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv, "/api/employees", map[string]any{
		"id":   "cook-9",
		"name": "Robin",
		"profile": map[string]any{
			"compensation_type": "hourly",
			"hourly_rate_cents": 1500,
		},
	})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var emp api.EmployeeDTO
	resp = getJSON(t, srv, "/api/employees/cook-9", &emp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Robin", emp.Name)
	assert.Equal(t, "hourly", emp.Profile.CompensationType)
}

func TestCreateEmployee_IncompleteProfile(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv, "/api/employees", map[string]any{
		"id":   "cook-9",
		"name": "Robin",
		"profile": map[string]any{
			"compensation_type": "hourly",
		},
	})
	var body api.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_profile", body.Code)
}

func TestGetEmployee_NotFound(t *testing.T) {
	srv := newTestServer(t)
	resp := getJSON(t, srv, "/api/employees/ghost-1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// =============================================================================
// NORMALIZED PUNCHES + SESSIONS
// =============================================================================

const weekQuery = "?from=2026-08-24T00:00:00Z&to=2026-08-30T23:59:59Z"

func TestGetNormalizedPunches_NoisyMorning(t *testing.T) {
	// GIVEN: the noisy-morning scenario (five punches inside one minute)
	// THEN: the stream view returns all six punches, four marked as noise

	srv := newTestServer(t)
	loadScenario(t, srv, "noisy-morning")

	var punches []api.NormalizedPunchDTO
	resp := getJSON(t, srv, "/api/employees/cook-1/punches"+weekQuery, &punches)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, punches, 6)

	noisy := 0
	for _, p := range punches {
		if p.IsNoise {
			noisy++
		}
	}
	assert.Equal(t, 4, noisy)
}

func TestGetSessions_NoisyMorningCollapsesToOne(t *testing.T) {
	srv := newTestServer(t)
	loadScenario(t, srv, "noisy-morning")

	var sessions []api.SessionDTO
	resp := getJSON(t, srv, "/api/employees/cook-1/sessions"+weekQuery, &sessions)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, sessions, 1)

	s := sessions[0]
	assert.Equal(t, "2026-08-24T09:56:25Z", s.ClockIn)
	require.NotNil(t, s.ClockOut)
	assert.Equal(t, "2026-08-24T11:37:07Z", *s.ClockOut)
	assert.False(t, s.Open)
	assert.Equal(t, int64(6042), s.WorkedSeconds)
	assert.Empty(t, s.Breaks)
	assert.Empty(t, s.Anomalies)
}

func TestGetSessions_MissedClockoutStaysOpen(t *testing.T) {
	srv := newTestServer(t)
	loadScenario(t, srv, "missed-clockout")

	var sessions []api.SessionDTO
	resp := getJSON(t, srv, "/api/employees/cook-1/sessions"+weekQuery, &sessions)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, sessions, 1)

	s := sessions[0]
	assert.True(t, s.Open)
	assert.Nil(t, s.ClockOut)
	assert.Equal(t, int64(0), s.WorkedSeconds, "open sessions pay nothing until closed")
	require.Len(t, s.Anomalies, 1)
	assert.Equal(t, "open_session", s.Anomalies[0].Kind)
}

func TestGetSessions_BadPeriod(t *testing.T) {
	srv := newTestServer(t)
	resp := getJSON(t, srv, "/api/employees/cook-1/sessions?from=yesterday&to=today", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// PAYROLL
// =============================================================================

func TestRunPayroll_RestaurantWeek(t *testing.T) {
	// The full roster: hourly with overtime and tips, flat salary, contractor
	// with zero punches, daily rate with a split day.

	srv := newTestServer(t)
	loadScenario(t, srv, "restaurant-week")

	resp := postJSON(t, srv, "/api/payroll/run", map[string]string{
		"start": "2026-08-24T00:00:00Z",
		"end":   "2026-08-30T23:59:59Z",
	})
	var result payroll.RunResult
	decodeBody(t, resp, &result)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, result.Items, 4)

	byID := map[string]payroll.LineItem{}
	for _, item := range result.Items {
		byID[string(item.EmployeeID)] = item
	}

	cook := byID["cook-1"]
	assert.Equal(t, int64(60000), cook.RegularPayCents)
	assert.Equal(t, int64(11250), cook.OvertimePayCents)
	assert.Equal(t, int64(2000), cook.TipsOwedCents)
	assert.Equal(t, int64(73250), cook.TotalPayCents)

	chef := byID["chef-1"]
	assert.Equal(t, int64(250000), chef.SalaryPayCents)
	assert.Equal(t, int64(0), chef.RegularPayCents, "salary ignores clocked hours")

	consult := byID["consult-1"]
	assert.Equal(t, int64(120000), consult.ContractorPayCents)
	assert.Equal(t, 0, consult.DaysWorked, "contractor pays without punches")

	porter := byID["porter-1"]
	assert.Equal(t, 3, porter.DaysWorked)
	assert.Equal(t, int64(50001), porter.DailyRatePayCents)
	assert.Equal(t, int64(0), porter.TipsOwedCents)

	assert.Equal(t, int64(491251), result.Totals.GrossPayCents)
	assert.Equal(t, int64(493251), result.Totals.TotalPayCents)
}

func TestRunPayroll_RejectsInvertedPeriod(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv, "/api/payroll/run", map[string]string{
		"start": "2026-08-30T00:00:00Z",
		"end":   "2026-08-24T00:00:00Z",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// SCENARIOS
// =============================================================================

func TestListScenarios(t *testing.T) {
	srv := newTestServer(t)

	var list []api.ScenarioDTO
	resp := getJSON(t, srv, "/api/scenarios", &list)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, list, 3)
	assert.Equal(t, "noisy-morning", list[0].ID)
}

func TestLoadScenario_Unknown(t *testing.T) {
	srv := newTestServer(t)
	resp := postJSON(t, srv, "/api/scenarios/load", map[string]string{"id": "nope"})
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestResetDatabase(t *testing.T) {
	srv := newTestServer(t)
	loadScenario(t, srv, "restaurant-week")

	resp := postJSON(t, srv, "/api/scenarios/reset", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var employees []api.EmployeeDTO
	getJSON(t, srv, "/api/employees", &employees)
	assert.Empty(t, employees)
}
