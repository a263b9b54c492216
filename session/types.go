/*
Package session reconstructs work sessions from normalized punches.

PURPOSE:
  Given the surviving (non-noise) punch stream for one employee, rebuild the
  ordered list of work sessions - each a ClockIn paired with its ClockOut,
  possibly containing breaks - together with the anomalies a human should
  review. Anomalies are data, not errors: reconstruction always completes and
  returns a best-effort result.

KEY CONCEPTS IN THIS FILE (types.go):
  - WorkSession: one continuous stint from a ClockIn to its paired ClockOut
  - BreakInterval: a break inside a session; End == nil means never closed
  - Anomaly: a reviewable flag (open session, short session, broken break)
  - ReopenPolicy: what to do with a ClockIn while a session is already open

SEE ALSO:
  - reconstructor.go: The state machine
  - punch/normalizer.go: Producer of the input stream
*/
package session

import (
	"time"

	"github.com/warp/punch-engine/punch"
)

// =============================================================================
// INTERVALS
// =============================================================================

// BreakInterval is a break inside a session. End == nil means the break was
// never closed before the session ended (an IncompleteBreak anomaly).
type BreakInterval struct {
	Start time.Time
	End   *time.Time
}

// Duration returns the closed break's length, or zero for an open break.
func (b BreakInterval) Duration() time.Duration {
	if b.End == nil {
		return 0
	}
	return b.End.Sub(b.Start)
}

// =============================================================================
// ANOMALIES
// =============================================================================

// AnomalyKind is the closed set of reviewable session flags.
type AnomalyKind string

const (
	// AnomalyOpenSession: the session has no ClockOut. It contributes zero
	// hours until closed (by a correction punch in a later run).
	AnomalyOpenSession AnomalyKind = "open_session"

	// AnomalyVeryShortSession: session shorter than the threshold on a day
	// that has other sessions. A lone short session is left unflagged - it
	// may be the entire intended shift.
	AnomalyVeryShortSession AnomalyKind = "very_short_session"

	// AnomalyIncompleteBreak: a break was opened but never closed before the
	// session ended.
	AnomalyIncompleteBreak AnomalyKind = "incomplete_break"

	// AnomalyCanceledBreak: the operator started a break and immediately
	// undid it with a ClockIn.
	AnomalyCanceledBreak AnomalyKind = "canceled_break"
)

// Anomaly is a non-fatal, human-reviewable flag attached to a session.
type Anomaly struct {
	Kind     AnomalyKind
	Duration time.Duration // For VeryShortSession: the offending length
	Note     string        // e.g. "forced close at next clock-in"
}

// =============================================================================
// WORK SESSION
// =============================================================================

// WorkSession is one continuous work stint. ClockOut == nil means the session
// is still open (an OpenSession anomaly).
type WorkSession struct {
	EmployeeID punch.EmployeeID
	ClockIn    time.Time
	ClockOut   *time.Time
	Breaks     []BreakInterval
	Anomalies  []Anomaly
}

// Open reports whether the session has no ClockOut.
func (s *WorkSession) Open() bool { return s.ClockOut == nil }

// Duration is the raw clock-in to clock-out span, ignoring breaks.
// Open sessions have zero duration.
func (s *WorkSession) Duration() time.Duration {
	if s.ClockOut == nil {
		return 0
	}
	return s.ClockOut.Sub(s.ClockIn)
}

// Worked is the session's paid span: duration minus closed breaks.
// Open sessions contribute zero.
func (s *WorkSession) Worked() time.Duration {
	if s.ClockOut == nil {
		return 0
	}
	worked := s.Duration()
	for _, b := range s.Breaks {
		worked -= b.Duration()
	}
	return worked
}

// HasAnomaly reports whether the session carries a flag of the given kind.
func (s *WorkSession) HasAnomaly(kind AnomalyKind) bool {
	for _, a := range s.Anomalies {
		if a.Kind == kind {
			return true
		}
	}
	return false
}
