/*
scenarios.go - Demo scenario data

PURPOSE:
  Seeds the store with self-contained demo rosters so the punch stream,
  session, and payroll surfaces have something real to render. Each scenario
  resets the database and inserts a roster, a week of punches, and tip
  records. Scenarios exist for demos and manual testing only; payroll runs
  never depend on them.

SCENARIOS:
  noisy-morning:    one hourly cook mashing the clock terminal
  restaurant-week:  a full roster across all four compensation types
  missed-clockout:  an open session awaiting a manager correction
*/
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/warp/punch-engine/factory"
	"github.com/warp/punch-engine/pay"
	"github.com/warp/punch-engine/punch"
	"github.com/warp/punch-engine/store/sqlite"
)

// scenarios lists the loadable demos in display order.
var scenarios = []ScenarioDTO{
	{
		ID:          "noisy-morning",
		Name:        "Noisy morning",
		Description: "One hourly cook, rapid-fire duplicate taps around a real shift.",
	},
	{
		ID:          "restaurant-week",
		Name:        "Restaurant week",
		Description: "Hourly, salary, contractor and daily-rate staff over one week, with tips.",
	},
	{
		ID:          "missed-clockout",
		Name:        "Missed clock-out",
		Description: "A shift with no clock-out: open session awaiting manager correction.",
	},
}

func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Reset(r.Context()); err != nil {
		h.serverError(w, "reset database", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.store.Reset(r.Context()); err != nil {
		h.serverError(w, "reset database", err)
		return
	}

	var err error
	switch req.ID {
	case "noisy-morning":
		err = h.loadNoisyMorning(r.Context())
	case "restaurant-week":
		err = h.loadRestaurantWeek(r.Context())
	case "missed-clockout":
		err = h.loadMissedClockout(r.Context())
	default:
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown scenario %q", req.ID), "not_found")
		return
	}
	if err != nil {
		h.serverError(w, "load scenario", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ID})
}

// =============================================================================
// SCENARIO BUILDERS
// =============================================================================

func (h *Handler) loadNoisyMorning(ctx context.Context) error {
	if err := h.store.UpsertEmployee(ctx, sqlite.Employee{
		ID: "cook-1", Name: "Sam the cook",
		Profile: factory.HourlyPreset("cook-1", 1500),
	}); err != nil {
		return err
	}

	day := time.Date(2026, time.August, 24, 0, 0, 0, 0, time.UTC)
	at := func(h, m, s int) time.Time {
		return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second)
	}

	punches := []punch.Event{
		{EmployeeID: "cook-1", Kind: punch.KindClockIn, At: at(9, 56, 25)},
		{EmployeeID: "cook-1", Kind: punch.KindBreakStart, At: at(9, 56, 50)},
		{EmployeeID: "cook-1", Kind: punch.KindClockIn, At: at(9, 57, 10)},
		{EmployeeID: "cook-1", Kind: punch.KindClockOut, At: at(9, 57, 30)},
		{EmployeeID: "cook-1", Kind: punch.KindClockIn, At: at(9, 57, 50)},
		{EmployeeID: "cook-1", Kind: punch.KindClockOut, At: at(11, 37, 7)},
	}
	return h.insertPunches(ctx, punches)
}

func (h *Handler) loadRestaurantWeek(ctx context.Context) error {
	roster := []sqlite.Employee{
		{ID: "cook-1", Name: "Sam the cook", Profile: factory.HourlyPreset("cook-1", 1500)},
		{ID: "chef-1", Name: "Alex the chef", Profile: factory.SalaryPreset("chef-1", 250000, 14)},
		{ID: "consult-1", Name: "Jordan the consultant", Profile: factory.ContractorPreset("consult-1", 120000, pay.IntervalWeekly)},
		{ID: "porter-1", Name: "Kim the porter", Profile: factory.DailyRatePreset("porter-1", 16667)},
	}
	for _, emp := range roster {
		if err := h.store.UpsertEmployee(ctx, emp); err != nil {
			return err
		}
	}

	monday := time.Date(2026, time.August, 24, 0, 0, 0, 0, time.UTC)
	var punches []punch.Event

	// Cook: five 9-hour days -> 45 weekly hours, 5 of them overtime.
	for d := 0; d < 5; d++ {
		day := monday.AddDate(0, 0, d)
		punches = append(punches,
			punch.Event{EmployeeID: "cook-1", Kind: punch.KindClockIn, At: day.Add(9 * time.Hour)},
			punch.Event{EmployeeID: "cook-1", Kind: punch.KindBreakStart, At: day.Add(13 * time.Hour)},
			punch.Event{EmployeeID: "cook-1", Kind: punch.KindBreakEnd, At: day.Add(13*time.Hour + 30*time.Minute)},
			punch.Event{EmployeeID: "cook-1", Kind: punch.KindClockOut, At: day.Add(18*time.Hour + 30*time.Minute)},
		)
	}

	// Porter: three worked days, one of them split into two sessions.
	for _, d := range []int{0, 2, 4} {
		day := monday.AddDate(0, 0, d)
		punches = append(punches,
			punch.Event{EmployeeID: "porter-1", Kind: punch.KindClockIn, At: day.Add(7 * time.Hour)},
			punch.Event{EmployeeID: "porter-1", Kind: punch.KindClockOut, At: day.Add(11 * time.Hour)},
		)
	}
	punches = append(punches,
		punch.Event{EmployeeID: "porter-1", Kind: punch.KindClockIn, At: monday.Add(15 * time.Hour)},
		punch.Event{EmployeeID: "porter-1", Kind: punch.KindClockOut, At: monday.Add(19 * time.Hour)},
	)

	// Chef clocks in and out too; salary ignores the hours but the sessions
	// render in the review UI.
	for d := 0; d < 5; d++ {
		day := monday.AddDate(0, 0, d)
		punches = append(punches,
			punch.Event{EmployeeID: "chef-1", Kind: punch.KindClockIn, At: day.Add(8 * time.Hour)},
			punch.Event{EmployeeID: "chef-1", Kind: punch.KindClockOut, At: day.Add(17 * time.Hour)},
		)
	}

	if err := h.insertPunches(ctx, punches); err != nil {
		return err
	}

	tips := []pay.TipRecord{
		{EmployeeID: "cook-1", Date: monday, AmountCents: 8000, Kind: pay.TipEarned},
		{EmployeeID: "cook-1", Date: monday.AddDate(0, 0, 1), AmountCents: 6000, Kind: pay.TipPaidOut},
		{EmployeeID: "porter-1", Date: monday, AmountCents: 5000, Kind: pay.TipEarned},
		{EmployeeID: "porter-1", Date: monday.AddDate(0, 0, 2), AmountCents: 7000, Kind: pay.TipPaidOut},
	}
	for _, tip := range tips {
		if _, err := h.store.InsertTip(ctx, tip); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) loadMissedClockout(ctx context.Context) error {
	if err := h.store.UpsertEmployee(ctx, sqlite.Employee{
		ID: "cook-1", Name: "Sam the cook",
		Profile: factory.HourlyPreset("cook-1", 1500),
	}); err != nil {
		return err
	}

	day := time.Date(2026, time.August, 24, 0, 0, 0, 0, time.UTC)
	return h.insertPunches(ctx, []punch.Event{
		{EmployeeID: "cook-1", Kind: punch.KindClockIn, At: day.Add(16 * time.Hour)},
		// No clock-out: the session stays open until a manager inserts a
		// correcting ClockOut through POST /api/punches.
	})
}

func (h *Handler) insertPunches(ctx context.Context, punches []punch.Event) error {
	for _, p := range punches {
		if _, err := h.store.InsertPunch(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
