/*
Package payroll assembles per-employee pay into one reviewable period result.

PURPOSE:
  Runs the whole pipeline - normalize punches, reconstruct sessions,
  aggregate hours, dispatch pay, offset tips - for every employee in scope,
  and folds the line items into period totals. The run is pure and
  deterministic: identical inputs produce byte-identical output, so re-runs
  are always safe.

PARTIAL-FAILURE ISOLATION:
  One employee's malformed profile must not sink the restaurant's payroll.
  A per-employee failure is recorded on that employee's line item; every
  other employee still gets a complete result.

KEY CONCEPTS IN THIS FILE (types.go):
  - EmployeeInput: everything the caller fetched for one employee
  - LineItem: the complete per-employee output, created fresh each run
  - RunResult: line items plus period-level sums

SEE ALSO:
  - assembler.go: The fan-out/fan-in run
*/
package payroll

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/punch-engine/hours"
	"github.com/warp/punch-engine/pay"
	"github.com/warp/punch-engine/punch"
)

// =============================================================================
// INPUT
// =============================================================================

// EmployeeInput bundles the collaborator-fetched data for one employee.
// The assembler never performs I/O; everything arrives by value.
type EmployeeInput struct {
	EmployeeID punch.EmployeeID
	Profile    pay.Profile
	Punches    []punch.Event
	Tips       []pay.TipRecord

	// Salary proration, supplied by the caller (tenure is out of scope
	// here). Both zero means no proration.
	ElapsedDays int
	PeriodDays  int
}

// RunInput is one payroll run for a restaurant and period.
type RunInput struct {
	Period    hours.Period
	Location  *time.Location
	Employees []EmployeeInput
}

// =============================================================================
// OUTPUT
// =============================================================================

// LineItem is the complete per-employee result. Created fresh per run,
// never partially mutated.
type LineItem struct {
	EmployeeID punch.EmployeeID `json:"employee_id"`

	RegularPayCents    int64 `json:"regular_pay_cents"`
	OvertimePayCents   int64 `json:"overtime_pay_cents"`
	SalaryPayCents     int64 `json:"salary_pay_cents"`
	ContractorPayCents int64 `json:"contractor_pay_cents"`
	DailyRatePayCents  int64 `json:"daily_rate_pay_cents"`

	TipsEarnedCents  int64 `json:"tips_earned_cents"`
	TipsPaidOutCents int64 `json:"tips_paid_out_cents"`
	TipsOwedCents    int64 `json:"tips_owed_cents"`

	DaysWorked    int             `json:"days_worked"`
	RegularHours  decimal.Decimal `json:"regular_hours"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`

	GrossPayCents int64 `json:"gross_pay_cents"`
	TotalPayCents int64 `json:"total_pay_cents"`

	// Anomalies counts the reviewable session flags behind this line item;
	// the session detail itself is exposed by the reconstruction surface.
	Anomalies int `json:"anomalies,omitempty"`

	// Err carries a per-employee failure (e.g. a malformed profile). The
	// other line items in the run are unaffected.
	Err   error  `json:"-"`
	Error string `json:"error,omitempty"`
}

// Totals are the period-level sums over successful line items.
type Totals struct {
	RegularPayCents    int64 `json:"total_regular_pay_cents"`
	OvertimePayCents   int64 `json:"total_overtime_pay_cents"`
	SalaryPayCents     int64 `json:"total_salary_pay_cents"`
	ContractorPayCents int64 `json:"total_contractor_pay_cents"`
	DailyRatePayCents  int64 `json:"total_daily_rate_pay_cents"`
	TipsOwedCents      int64 `json:"total_tips_owed_cents"`
	GrossPayCents      int64 `json:"total_gross_pay_cents"`
	TotalPayCents      int64 `json:"total_pay_cents"`
}

// RunResult is the assembled period: one line item per employee, ordered by
// employee ID, plus the period sums.
type RunResult struct {
	PeriodStart time.Time  `json:"period_start"`
	PeriodEnd   time.Time  `json:"period_end"`
	Items       []LineItem `json:"items"`
	Totals      Totals     `json:"totals"`
}
