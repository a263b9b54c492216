/*
Package pay computes per-employee compensation from aggregated hours.

PURPOSE:
  Dispatches over the four incompatible pay models - hourly with overtime,
  salary, contractor, fixed daily rate - and keeps money arithmetic exact to
  the cent. All amounts are integer cents; every multiplication is rounded
  half-up at the point it happens, never accumulated as fractions.

KEY CONCEPTS IN THIS FILE (types.go):
  - Type: closed enum of compensation models (exhaustively matched)
  - Profile: an employee's compensation terms, read-only here
  - Breakdown: the dispatch result, one nonzero component per employee
  - MissingCompensationFieldError: a configured-but-incomplete profile

ERROR PHILOSOPHY:
  "Employee has no punches" is a valid zero. "Profile declares Hourly but has
  no hourly rate" is a malformed profile and must surface as an error naming
  the field - never a silent zero paycheck.

SEE ALSO:
  - dispatch.go: The pay formulas
  - money.go: Half-up cent rounding
  - tips.go: Tip offset
*/
package pay

import (
	"errors"
	"fmt"

	"github.com/warp/punch-engine/punch"
)

// =============================================================================
// COMPENSATION TYPE - Closed enum, exhaustively matched in Dispatch
// =============================================================================

type Type string

const (
	TypeHourly     Type = "hourly"
	TypeSalary     Type = "salary"
	TypeContractor Type = "contractor"
	TypeDailyRate  Type = "daily_rate"
)

// Valid reports whether t is one of the four compensation types.
func (t Type) Valid() bool {
	switch t {
	case TypeHourly, TypeSalary, TypeContractor, TypeDailyRate:
		return true
	}
	return false
}

// ContractorInterval names the billing interval a contractor amount covers.
type ContractorInterval string

const (
	IntervalWeekly   ContractorInterval = "weekly"
	IntervalBiweekly ContractorInterval = "biweekly"
	IntervalMonthly  ContractorInterval = "monthly"
)

// =============================================================================
// PROFILE - Compensation terms, owned by the employee directory
// =============================================================================

// Profile is an employee's compensation configuration. The engine reads it,
// never mutates it. Fields are pointers so "absent" is distinguishable from
// an explicit zero.
type Profile struct {
	EmployeeID punch.EmployeeID
	Type       Type

	HourlyRateCents *int64 // Hourly

	SalaryCents   *int64 // Salary: amount for the pay period
	PayPeriodDays *int   // Salary: nominal period length, informational

	ContractorCents    *int64             // Contractor
	ContractorInterval ContractorInterval // Contractor

	DailyRateCents *int64 // DailyRate
}

// =============================================================================
// BREAKDOWN - Dispatch output
// =============================================================================

// Breakdown holds the pay components in integer cents. By construction of
// the exhaustive dispatch, exactly one component group is nonzero.
type Breakdown struct {
	RegularPayCents    int64
	OvertimePayCents   int64
	SalaryPayCents     int64
	ContractorPayCents int64
	DailyRatePayCents  int64
}

// GrossCents sums every component. At most one pay model contributes.
func (b Breakdown) GrossCents() int64 {
	return b.RegularPayCents + b.OvertimePayCents + b.SalaryPayCents +
		b.ContractorPayCents + b.DailyRatePayCents
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrMissingCompensationField is the sentinel for incomplete profiles.
// Match with errors.Is; inspect the field with errors.As on
// *MissingCompensationFieldError.
var ErrMissingCompensationField = errors.New("missing compensation field")

// ErrUnknownCompensationType is returned for a Type outside the closed enum.
var ErrUnknownCompensationType = errors.New("unknown compensation type")

// MissingCompensationFieldError names the field a profile's declared type
// requires but does not carry.
type MissingCompensationFieldError struct {
	EmployeeID punch.EmployeeID
	Type       Type
	Field      string
}

func (e *MissingCompensationFieldError) Error() string {
	return fmt.Sprintf("profile for %s declares %s but has no %s", e.EmployeeID, e.Type, e.Field)
}

func (e *MissingCompensationFieldError) Unwrap() error {
	return ErrMissingCompensationField
}
