/*
handlers.go - HTTP handler implementations

PURPOSE:
  The fetch-then-compute call sites: each handler pulls the inputs it needs
  from the store, invokes the pure engine packages, and serializes the
  result. No business logic lives here, and no I/O lives in the engine.

QUERY PARAMETERS:
  Per-employee views take ?from= and ?to= as RFC3339 timestamps bounding the
  period.

ERROR MAPPING:
  - validation / parse failures        -> 400
  - unknown employee or scenario       -> 404
  - malformed profile on a single
    employee during a payroll run      -> reported on that line item, 200

SEE ALSO:
  - server.go: Routes
  - payroll/assembler.go: The engine entry point
*/
package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/warp/punch-engine/config"
	"github.com/warp/punch-engine/factory"
	"github.com/warp/punch-engine/hours"
	"github.com/warp/punch-engine/pay"
	"github.com/warp/punch-engine/payroll"
	"github.com/warp/punch-engine/punch"
	"github.com/warp/punch-engine/session"
	"github.com/warp/punch-engine/store/sqlite"
)

// Handler carries the dependencies every endpoint shares.
type Handler struct {
	store     *sqlite.Store
	cfg       config.Config
	assembler *payroll.Assembler
	logger    *zap.Logger
	validate  *validator.Validate
}

// NewHandler wires a handler from its dependencies.
func NewHandler(store *sqlite.Store, cfg config.Config, logger *zap.Logger) *Handler {
	return &Handler{
		store:     store,
		cfg:       cfg,
		assembler: payroll.NewAssembler(cfg.AssemblerOptions()),
		logger:    logger,
		validate:  validator.New(),
	}
}

// =============================================================================
// HEALTH
// =============================================================================

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// PUNCHES
// =============================================================================

func (h *Handler) CreatePunch(w http.ResponseWriter, r *http.Request) {
	var req CreatePunchRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.At.IsZero() {
		writeError(w, http.StatusBadRequest, "punch has no timestamp", "malformed_input")
		return
	}

	id, err := h.store.InsertPunch(r.Context(), punch.Event{
		EmployeeID: punch.EmployeeID(req.EmployeeID),
		Kind:       punch.Kind(req.Kind),
		At:         req.At,
		Note:       req.Note,
	})
	if err != nil {
		h.serverError(w, "insert punch", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if !h.decode(w, r, &req) {
		return
	}

	req.Profile.EmployeeID = req.ID
	profile, err := factory.FromJSON(req.Profile)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "invalid_profile")
		return
	}

	err = h.store.UpsertEmployee(r.Context(), sqlite.Employee{
		ID:      punch.EmployeeID(req.ID),
		Name:    req.Name,
		Profile: profile,
	})
	if err != nil {
		h.serverError(w, "upsert employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, EmployeeDTO{
		ID: req.ID, Name: req.Name, Profile: factory.ToJSON(profile),
	})
}

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.store.ListEmployees(r.Context())
	if err != nil {
		h.serverError(w, "list employees", err)
		return
	}
	dtos := make([]EmployeeDTO, len(employees))
	for i, emp := range employees {
		dtos[i] = EmployeeDTO{
			ID: string(emp.ID), Name: emp.Name, Profile: factory.ToJSON(emp.Profile),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	emp, err := h.store.GetEmployee(r.Context(), punch.EmployeeID(id))
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "employee not found", "not_found")
		return
	}
	if err != nil {
		h.serverError(w, "get employee", err)
		return
	}
	writeJSON(w, http.StatusOK, EmployeeDTO{
		ID: string(emp.ID), Name: emp.Name, Profile: factory.ToJSON(emp.Profile),
	})
}

// GetNormalizedPunches returns the annotated punch stream for one employee -
// the debug/stream rendering surface.
func (h *Handler) GetNormalizedPunches(w http.ResponseWriter, r *http.Request) {
	id := punch.EmployeeID(chi.URLParam(r, "id"))
	period, err := parsePeriod(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "from/to must be RFC3339 timestamps", "bad_period")
		return
	}

	events, err := h.store.ListPunches(r.Context(), id, period.Start, period.End)
	if err != nil {
		h.serverError(w, "list punches", err)
		return
	}
	normalized := punch.NormalizeWith(events, h.assemblerWindows())
	writeJSON(w, http.StatusOK, toNormalizedPunchDTOs(normalized))
}

// GetSessions returns the reconstructed sessions with anomaly tags - the
// surface every visualization mode and the manager review UI renders.
func (h *Handler) GetSessions(w http.ResponseWriter, r *http.Request) {
	id := punch.EmployeeID(chi.URLParam(r, "id"))
	period, err := parsePeriod(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "from/to must be RFC3339 timestamps", "bad_period")
		return
	}

	events, err := h.store.ListPunches(r.Context(), id, period.Start, period.End)
	if err != nil {
		h.serverError(w, "list punches", err)
		return
	}

	opts := h.cfg.AssemblerOptions()
	rec := session.NewReconstructor(session.Config{
		Reopen:           opts.Reopen,
		ShortSession:     opts.ShortSession,
		Location:         h.cfg.Location(),
		BreakAbortWindow: opts.Windows.BreakAbort,
	})
	sessions := rec.Reconstruct(id, punch.NormalizeWith(events, opts.Windows))
	writeJSON(w, http.StatusOK, toSessionDTOs(sessions))
}

// =============================================================================
// TIPS
// =============================================================================

func (h *Handler) CreateTip(w http.ResponseWriter, r *http.Request) {
	var req CreateTipRequest
	if !h.decode(w, r, &req) {
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD", "bad_date")
		return
	}

	id, err := h.store.InsertTip(r.Context(), pay.TipRecord{
		EmployeeID:  punch.EmployeeID(req.EmployeeID),
		Date:        date,
		AmountCents: req.AmountCents,
		Kind:        pay.TipKind(req.Kind),
	})
	if err != nil {
		h.serverError(w, "insert tip", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// =============================================================================
// PAYROLL
// =============================================================================

// RunPayroll fetches every employee's punches and tips for the period and
// assembles the payroll. A malformed profile surfaces on its own line item;
// the run itself still succeeds.
func (h *Handler) RunPayroll(w http.ResponseWriter, r *http.Request) {
	var req RunPayrollRequest
	if !h.decode(w, r, &req) {
		return
	}
	if !req.End.After(req.Start) {
		writeError(w, http.StatusBadRequest, "end must be after start", "bad_period")
		return
	}

	employees, err := h.store.ListEmployees(r.Context())
	if err != nil {
		h.serverError(w, "list employees", err)
		return
	}

	input := payroll.RunInput{
		Period:   hours.Period{Start: req.Start, End: req.End},
		Location: h.cfg.Location(),
	}
	for _, emp := range employees {
		punches, err := h.store.ListPunches(r.Context(), emp.ID, req.Start, req.End)
		if err != nil {
			h.serverError(w, "list punches", err)
			return
		}
		tips, err := h.store.ListTips(r.Context(), emp.ID, req.Start, req.End)
		if err != nil {
			h.serverError(w, "list tips", err)
			return
		}
		input.Employees = append(input.Employees, payroll.EmployeeInput{
			EmployeeID: emp.ID,
			Profile:    emp.Profile,
			Punches:    punches,
			Tips:       tips,
		})
	}

	result, err := h.assembler.Run(input)
	if err != nil {
		h.serverError(w, "assemble payroll", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "bad_json")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "validation_failed")
		return false
	}
	return true
}

func (h *Handler) serverError(w http.ResponseWriter, op string, err error) {
	h.logger.Error(op, zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error", "internal")
}

func (h *Handler) assemblerWindows() punch.Windows {
	return h.cfg.AssemblerOptions().Windows
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, code string) {
	writeJSON(w, status, ErrorResponse{Error: msg, Code: code})
}
