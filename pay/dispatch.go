/*
dispatch.go - Exhaustive dispatch over the four pay models

PURPOSE:
  Routes a compensation profile plus aggregated hours to the correct pay
  formula. The switch over Type is exhaustive with a default error arm:
  adding a fifth compensation type is a here-and-the-enum change, not a
  runtime surprise.

THE FOUR MODELS:
  Hourly:     regular_hours x rate, overtime_hours x rate x multiplier
  Salary:     fixed amount per period, optionally prorated by elapsed days
  Contractor: fixed amount per interval; punches are informational only
  DailyRate:  unique worked days x rate; hours are ignored entirely -
              a 1-hour day and a 16-hour day pay the same, and two sessions
              on one date still count as one day. Zero days, zero pay.
*/
package pay

import (
	"github.com/shopspring/decimal"
	"github.com/warp/punch-engine/hours"
)

// DefaultOvertimeMultiplier is the standard time-and-a-half factor.
var DefaultOvertimeMultiplier = decimal.NewFromFloat(1.5)

// =============================================================================
// DISPATCH INPUT
// =============================================================================

// Input carries the caller-supplied context a formula may need beyond the
// hour totals.
type Input struct {
	// OvertimeMultiplier defaults to 1.5 when zero.
	OvertimeMultiplier decimal.Decimal

	// ElapsedDays/PeriodDays pro-rate salary for employees whose tenure does
	// not span the period. Computing tenure is the caller's job; both zero
	// means no proration.
	ElapsedDays int
	PeriodDays  int
}

func (in Input) withDefaults() Input {
	if in.OvertimeMultiplier.IsZero() {
		in.OvertimeMultiplier = DefaultOvertimeMultiplier
	}
	return in
}

// =============================================================================
// DISPATCHER
// =============================================================================

// Dispatch computes the pay breakdown for one employee. A profile missing a
// field its declared type requires fails with MissingCompensationFieldError;
// it is never silently zero.
func Dispatch(profile Profile, totals hours.Totals, in Input) (Breakdown, error) {
	in = in.withDefaults()

	switch profile.Type {
	case TypeHourly:
		return dispatchHourly(profile, totals, in)
	case TypeSalary:
		return dispatchSalary(profile, in)
	case TypeContractor:
		return dispatchContractor(profile)
	case TypeDailyRate:
		return dispatchDailyRate(profile, totals)
	default:
		return Breakdown{}, ErrUnknownCompensationType
	}
}

func dispatchHourly(p Profile, totals hours.Totals, in Input) (Breakdown, error) {
	if p.HourlyRateCents == nil {
		return Breakdown{}, &MissingCompensationFieldError{
			EmployeeID: p.EmployeeID, Type: TypeHourly, Field: "hourly_rate_cents",
		}
	}
	rate := *p.HourlyRateCents
	return Breakdown{
		RegularPayCents:  MulCents(totals.RegularHours, rate),
		OvertimePayCents: MulCentsScaled(totals.OvertimeHours, rate, in.OvertimeMultiplier),
	}, nil
}

func dispatchSalary(p Profile, in Input) (Breakdown, error) {
	if p.SalaryCents == nil {
		return Breakdown{}, &MissingCompensationFieldError{
			EmployeeID: p.EmployeeID, Type: TypeSalary, Field: "salary_amount_cents",
		}
	}
	amount := *p.SalaryCents
	if in.PeriodDays > 0 {
		amount = ProrateCents(amount, in.ElapsedDays, in.PeriodDays)
	}
	return Breakdown{SalaryPayCents: amount}, nil
}

func dispatchContractor(p Profile) (Breakdown, error) {
	if p.ContractorCents == nil {
		return Breakdown{}, &MissingCompensationFieldError{
			EmployeeID: p.EmployeeID, Type: TypeContractor, Field: "contractor_amount_cents",
		}
	}
	// Punches never gate contractor payment.
	return Breakdown{ContractorPayCents: *p.ContractorCents}, nil
}

func dispatchDailyRate(p Profile, totals hours.Totals) (Breakdown, error) {
	if p.DailyRateCents == nil {
		return Breakdown{}, &MissingCompensationFieldError{
			EmployeeID: p.EmployeeID, Type: TypeDailyRate, Field: "daily_rate_cents",
		}
	}
	days := decimal.NewFromInt(int64(totals.DaysWorked()))
	return Breakdown{DailyRatePayCents: MulCents(days, *p.DailyRateCents)}, nil
}
