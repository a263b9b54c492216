/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Request types carry go-playground/validator struct tags; handlers run the
  shared validator before touching the store. DTOs stay pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/profiles.go: ProfileJSON, the wire form of a profile
*/
package api

import (
	"time"

	"github.com/warp/punch-engine/factory"
	"github.com/warp/punch-engine/hours"
	"github.com/warp/punch-engine/punch"
	"github.com/warp/punch-engine/session"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// CreatePunchRequest records one clock event. A manager force clock-out is
// the same request with the manager's chosen timestamp.
type CreatePunchRequest struct {
	EmployeeID string    `json:"employee_id" validate:"required"`
	Kind       string    `json:"kind" validate:"required,oneof=clock_in clock_out break_start break_end"`
	At         time.Time `json:"at" validate:"required"`
	Note       string    `json:"note,omitempty"`
}

// CreateEmployeeRequest creates a directory row with its profile.
type CreateEmployeeRequest struct {
	ID      string              `json:"id" validate:"required"`
	Name    string              `json:"name" validate:"required"`
	Profile factory.ProfileJSON `json:"profile" validate:"required"`
}

// CreateTipRequest records one tip movement.
type CreateTipRequest struct {
	EmployeeID  string `json:"employee_id" validate:"required"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	AmountCents int64  `json:"amount_cents" validate:"gte=0"`
	Kind        string `json:"kind" validate:"required,oneof=earned paid_out"`
}

// RunPayrollRequest runs the full pipeline for every employee over a period.
type RunPayrollRequest struct {
	Start time.Time `json:"start" validate:"required"`
	End   time.Time `json:"end" validate:"required"`
}

// LoadScenarioRequest loads a named demo scenario.
type LoadScenarioRequest struct {
	ID string `json:"id" validate:"required"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// EmployeeDTO is a directory row in API responses.
type EmployeeDTO struct {
	ID      string              `json:"id"`
	Name    string              `json:"name"`
	Profile factory.ProfileJSON `json:"profile"`
}

// NormalizedPunchDTO is one punch with its noise annotation - the stream
// view a debug or correction UI renders.
type NormalizedPunchDTO struct {
	EmployeeID string `json:"employee_id"`
	Kind       string `json:"kind"`
	At         string `json:"at"`
	Note       string `json:"note,omitempty"`
	IsNoise    bool   `json:"is_noise"`
	Noise      string `json:"noise_reason,omitempty"`
}

// BreakDTO is one break interval inside a session.
type BreakDTO struct {
	Start string  `json:"start"`
	End   *string `json:"end,omitempty"`
}

// AnomalyDTO is one reviewable session flag.
type AnomalyDTO struct {
	Kind            string `json:"kind"`
	DurationSeconds int64  `json:"duration_seconds,omitempty"`
	Note            string `json:"note,omitempty"`
}

// SessionDTO is one reconstructed work session.
type SessionDTO struct {
	EmployeeID    string       `json:"employee_id"`
	ClockIn       string       `json:"clock_in"`
	ClockOut      *string      `json:"clock_out,omitempty"`
	Open          bool         `json:"open"`
	WorkedSeconds int64        `json:"worked_seconds"`
	Breaks        []BreakDTO   `json:"breaks,omitempty"`
	Anomalies     []AnomalyDTO `json:"anomalies,omitempty"`
}

// ScenarioDTO describes a loadable demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toNormalizedPunchDTO(p punch.Normalized) NormalizedPunchDTO {
	return NormalizedPunchDTO{
		EmployeeID: string(p.EmployeeID),
		Kind:       string(p.Kind),
		At:         p.At.Format(time.RFC3339),
		Note:       p.Note,
		IsNoise:    p.IsNoise(),
		Noise:      string(p.Noise),
	}
}

func toNormalizedPunchDTOs(punches []punch.Normalized) []NormalizedPunchDTO {
	dtos := make([]NormalizedPunchDTO, len(punches))
	for i, p := range punches {
		dtos[i] = toNormalizedPunchDTO(p)
	}
	return dtos
}

func toSessionDTO(s *session.WorkSession) SessionDTO {
	dto := SessionDTO{
		EmployeeID:    string(s.EmployeeID),
		ClockIn:       s.ClockIn.Format(time.RFC3339),
		Open:          s.Open(),
		WorkedSeconds: int64(s.Worked() / time.Second),
	}
	if s.ClockOut != nil {
		out := s.ClockOut.Format(time.RFC3339)
		dto.ClockOut = &out
	}
	for _, b := range s.Breaks {
		bd := BreakDTO{Start: b.Start.Format(time.RFC3339)}
		if b.End != nil {
			end := b.End.Format(time.RFC3339)
			bd.End = &end
		}
		dto.Breaks = append(dto.Breaks, bd)
	}
	for _, a := range s.Anomalies {
		dto.Anomalies = append(dto.Anomalies, AnomalyDTO{
			Kind:            string(a.Kind),
			DurationSeconds: int64(a.Duration / time.Second),
			Note:            a.Note,
		})
	}
	return dto
}

func toSessionDTOs(sessions []*session.WorkSession) []SessionDTO {
	dtos := make([]SessionDTO, len(sessions))
	for i, s := range sessions {
		dtos[i] = toSessionDTO(s)
	}
	return dtos
}

func parsePeriod(fromStr, toStr string) (hours.Period, error) {
	from, err := time.Parse(time.RFC3339, fromStr)
	if err != nil {
		return hours.Period{}, err
	}
	to, err := time.Parse(time.RFC3339, toStr)
	if err != nil {
		return hours.Period{}, err
	}
	return hours.Period{Start: from, End: to}, nil
}
