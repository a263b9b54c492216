/*
Package factory provides JSON to Go compensation-profile conversion.

PURPOSE:
  Converts JSON profile definitions into pay.Profile values. This enables
  compensation configuration without code changes - a manager tool or admin
  UI can define profiles in JSON, and the factory builds the proper Go
  structs with the same never-silently-zero validation the dispatcher
  applies.

JSON SCHEMA:
  {
    "employee_id": "emp-7",
    "compensation_type": "hourly",
    "hourly_rate_cents": 1500
  }

  {
    "employee_id": "emp-9",
    "compensation_type": "daily_rate",
    "daily_rate_cents": 16667
  }

KEY FEATURES:
  - Validates the declared type against its required field
  - Error messages name the missing field
  - Round-trips: ToJSON(FromJSON(x)) == x

PRESETS:
  Named restaurant presets (line cook, head chef, consultant, porter) for
  demos and tests.

SEE ALSO:
  - pay/types.go: Profile definition and dispatch-time validation
  - api/handlers.go: Uses the JSON form on the wire
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/warp/punch-engine/pay"
	"github.com/warp/punch-engine/punch"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ProfileJSON is the wire representation of a compensation profile.
type ProfileJSON struct {
	EmployeeID         string `json:"employee_id"`
	CompensationType   string `json:"compensation_type"`
	HourlyRateCents    *int64 `json:"hourly_rate_cents,omitempty"`
	SalaryAmountCents  *int64 `json:"salary_amount_cents,omitempty"`
	PayPeriodDays      *int   `json:"pay_period_days,omitempty"`
	ContractorCents    *int64 `json:"contractor_amount_cents,omitempty"`
	ContractorInterval string `json:"contractor_interval,omitempty"`
	DailyRateCents     *int64 `json:"daily_rate_cents,omitempty"`
}

// =============================================================================
// CONVERSION
// =============================================================================

// ParseProfile converts a JSON document into a pay.Profile.
func ParseProfile(data []byte) (pay.Profile, error) {
	var pj ProfileJSON
	if err := json.Unmarshal(data, &pj); err != nil {
		return pay.Profile{}, fmt.Errorf("parse profile: %w", err)
	}
	return FromJSON(pj)
}

// FromJSON validates and converts the wire form.
func FromJSON(pj ProfileJSON) (pay.Profile, error) {
	t := pay.Type(pj.CompensationType)
	if !t.Valid() {
		return pay.Profile{}, fmt.Errorf("unknown compensation_type %q: %w",
			pj.CompensationType, pay.ErrUnknownCompensationType)
	}

	p := pay.Profile{
		EmployeeID:         punch.EmployeeID(pj.EmployeeID),
		Type:               t,
		HourlyRateCents:    pj.HourlyRateCents,
		SalaryCents:        pj.SalaryAmountCents,
		PayPeriodDays:      pj.PayPeriodDays,
		ContractorCents:    pj.ContractorCents,
		ContractorInterval: pay.ContractorInterval(pj.ContractorInterval),
		DailyRateCents:     pj.DailyRateCents,
	}

	if err := validate(p); err != nil {
		return pay.Profile{}, err
	}
	return p, nil
}

// ToJSON converts a profile back to its wire form.
func ToJSON(p pay.Profile) ProfileJSON {
	return ProfileJSON{
		EmployeeID:         string(p.EmployeeID),
		CompensationType:   string(p.Type),
		HourlyRateCents:    p.HourlyRateCents,
		SalaryAmountCents:  p.SalaryCents,
		PayPeriodDays:      p.PayPeriodDays,
		ContractorCents:    p.ContractorCents,
		ContractorInterval: string(p.ContractorInterval),
		DailyRateCents:     p.DailyRateCents,
	}
}

// validate applies the same field requirements the dispatcher enforces, so a
// bad profile fails at configuration time instead of payroll time.
func validate(p pay.Profile) error {
	switch p.Type {
	case pay.TypeHourly:
		if p.HourlyRateCents == nil {
			return &pay.MissingCompensationFieldError{
				EmployeeID: p.EmployeeID, Type: p.Type, Field: "hourly_rate_cents",
			}
		}
	case pay.TypeSalary:
		if p.SalaryCents == nil {
			return &pay.MissingCompensationFieldError{
				EmployeeID: p.EmployeeID, Type: p.Type, Field: "salary_amount_cents",
			}
		}
	case pay.TypeContractor:
		if p.ContractorCents == nil {
			return &pay.MissingCompensationFieldError{
				EmployeeID: p.EmployeeID, Type: p.Type, Field: "contractor_amount_cents",
			}
		}
	case pay.TypeDailyRate:
		if p.DailyRateCents == nil {
			return &pay.MissingCompensationFieldError{
				EmployeeID: p.EmployeeID, Type: p.Type, Field: "daily_rate_cents",
			}
		}
	}
	return nil
}

// =============================================================================
// PRESETS - Typical restaurant roster
// =============================================================================

func cents(v int64) *int64 { return &v }
func intp(v int) *int      { return &v }

// HourlyPreset is a standard hourly line cook profile.
func HourlyPreset(employeeID string, rateCents int64) pay.Profile {
	return pay.Profile{
		EmployeeID:      punch.EmployeeID(employeeID),
		Type:            pay.TypeHourly,
		HourlyRateCents: cents(rateCents),
	}
}

// SalaryPreset is a salaried head-chef profile.
func SalaryPreset(employeeID string, amountCents int64, periodDays int) pay.Profile {
	return pay.Profile{
		EmployeeID:    punch.EmployeeID(employeeID),
		Type:          pay.TypeSalary,
		SalaryCents:   cents(amountCents),
		PayPeriodDays: intp(periodDays),
	}
}

// ContractorPreset is a fixed-interval consultant profile.
func ContractorPreset(employeeID string, amountCents int64, interval pay.ContractorInterval) pay.Profile {
	return pay.Profile{
		EmployeeID:         punch.EmployeeID(employeeID),
		Type:               pay.TypeContractor,
		ContractorCents:    cents(amountCents),
		ContractorInterval: interval,
	}
}

// DailyRatePreset is a per-day porter profile: fixed pay per worked day,
// hours irrelevant.
func DailyRatePreset(employeeID string, rateCents int64) pay.Profile {
	return pay.Profile{
		EmployeeID:     punch.EmployeeID(employeeID),
		Type:           pay.TypeDailyRate,
		DailyRateCents: cents(rateCents),
	}
}
