/*
reconstructor.go - Punch stream to work sessions

PURPOSE:
  A three-state machine over the surviving punch stream:

    AwaitingClockIn --ClockIn--> InSession --BreakStart--> InBreak
    InSession --ClockOut--> AwaitingClockIn
    InBreak --BreakEnd--> InSession
    InBreak --ClockOut--> close break as IncompleteBreak, close session

  Protocol violations never raise: a ClockIn while a session is open is
  resolved by policy (force-close the previous session, or discard the
  punch), and end-of-input with an open session emits it with an OpenSession
  anomaly. The caller always gets every recorded stint back.

GUARANTEES:
  - Sessions for one employee never overlap.
  - clock_out > clock_in for every closed session.
  - Breaks are contained in their session except the documented
    IncompleteBreak case (break closed implicitly at session close).
*/
package session

import (
	"time"

	"github.com/warp/punch-engine/punch"
)

// =============================================================================
// CONFIGURATION
// =============================================================================

// ReopenPolicy decides what a ClockIn means while a session is already open.
type ReopenPolicy string

const (
	// ReopenForceClose closes the open session at the new ClockIn's
	// timestamp (flagged as a forced close) and starts a fresh session.
	// Default: it never loses recorded work time.
	ReopenForceClose ReopenPolicy = "force_close"

	// ReopenDiscard drops the redundant ClockIn as a protocol error.
	ReopenDiscard ReopenPolicy = "discard"
)

// DefaultShortSession is the threshold below which a session on a multi-
// session day is flagged for review.
const DefaultShortSession = 3 * time.Minute

// Config tunes the reconstructor. The zero value gets defaults applied;
// Location is mandatory (used for same-day grouping of short sessions).
type Config struct {
	Reopen       ReopenPolicy
	ShortSession time.Duration
	Location     *time.Location

	// BreakAbortWindow pairs a canceled BreakStart with its undoing ClockIn.
	// Must match the normalizer's window.
	BreakAbortWindow time.Duration
}

func (c Config) withDefaults() Config {
	if c.Reopen == "" {
		c.Reopen = ReopenForceClose
	}
	if c.ShortSession == 0 {
		c.ShortSession = DefaultShortSession
	}
	if c.Location == nil {
		c.Location = time.UTC
	}
	if c.BreakAbortWindow == 0 {
		c.BreakAbortWindow = punch.DefaultBreakAbortWindow
	}
	return c
}

// =============================================================================
// RECONSTRUCTOR
// =============================================================================

type state int

const (
	awaitingClockIn state = iota
	inSession
	inBreak
)

// Reconstructor turns a normalized punch list into work sessions.
// Stateless between calls; safe to share across goroutines.
type Reconstructor struct {
	cfg Config
}

// NewReconstructor builds a reconstructor with defaults applied.
func NewReconstructor(cfg Config) *Reconstructor {
	return &Reconstructor{cfg: cfg.withDefaults()}
}

// Reconstruct consumes the full normalized list (noise punches included - it
// needs them to recognize canceled-break pairs) and returns the employee's
// sessions in chronological order.
func (r *Reconstructor) Reconstruct(employeeID punch.EmployeeID, punches []punch.Normalized) []*WorkSession {
	var (
		sessions []*WorkSession
		current  *WorkSession
		st       = awaitingClockIn
	)

	closeSession := func(at time.Time, forced bool) {
		t := at
		current.ClockOut = &t
		if forced {
			current.Anomalies = append(current.Anomalies, Anomaly{
				Kind: AnomalyOpenSession,
				Note: "forced close at next clock-in",
			})
		}
		sessions = append(sessions, current)
		current = nil
		st = awaitingClockIn
	}

	for i, p := range punches {
		if p.IsNoise() {
			continue
		}

		switch st {
		case awaitingClockIn:
			if p.Kind == punch.KindClockIn {
				current = &WorkSession{EmployeeID: employeeID, ClockIn: p.At}
				st = inSession
			}
			// BreakStart/BreakEnd/ClockOut with no open session carry no
			// information at this layer; skip.

		case inSession:
			switch p.Kind {
			case punch.KindBreakStart:
				current.Breaks = append(current.Breaks, BreakInterval{Start: p.At})
				st = inBreak
			case punch.KindClockOut:
				closeSession(p.At, false)
			case punch.KindClockIn:
				r.handleReopen(p, punches, i, &current, &st, closeSession)
			}

		case inBreak:
			switch p.Kind {
			case punch.KindBreakEnd:
				t := p.At
				current.Breaks[len(current.Breaks)-1].End = &t
				st = inSession
			case punch.KindClockOut:
				// Unterminated break: close it open-ended so it cannot
				// silently consume the rest of the shift, then close the
				// session.
				current.Anomalies = append(current.Anomalies, Anomaly{Kind: AnomalyIncompleteBreak})
				closeSession(p.At, false)
			case punch.KindClockIn:
				r.handleReopen(p, punches, i, &current, &st, closeSession)
			}
		}
	}

	// End of input with an open session: emit it, flagged.
	if current != nil {
		if st == inBreak {
			current.Anomalies = append(current.Anomalies, Anomaly{Kind: AnomalyIncompleteBreak})
		}
		current.Anomalies = append(current.Anomalies, Anomaly{Kind: AnomalyOpenSession})
		sessions = append(sessions, current)
	}

	r.flagShortSessions(sessions)
	return sessions
}

// handleReopen resolves a ClockIn that arrives while a session is open.
// When the ClockIn is the undo-partner of a canceled BreakStart it simply
// confirms the session; otherwise the configured reopen policy applies.
func (r *Reconstructor) handleReopen(
	p punch.Normalized,
	punches []punch.Normalized,
	i int,
	current **WorkSession,
	st *state,
	closeSession func(time.Time, bool),
) {
	if r.isBreakAbort(punches, i) {
		if !(*current).HasAnomaly(AnomalyCanceledBreak) {
			(*current).Anomalies = append((*current).Anomalies, Anomaly{Kind: AnomalyCanceledBreak})
		}
		// An aborted break while InBreak cannot occur: the canceled
		// BreakStart is noise and never opened a break. Stay InSession.
		*st = inSession
		return
	}

	switch r.cfg.Reopen {
	case ReopenDiscard:
		// Protocol error; punch dropped.
	default: // ReopenForceClose
		if *st == inBreak {
			(*current).Anomalies = append((*current).Anomalies, Anomaly{Kind: AnomalyIncompleteBreak})
		}
		closeSession(p.At, true)
		*current = &WorkSession{EmployeeID: p.EmployeeID, ClockIn: p.At}
		*st = inSession
	}
}

// isBreakAbort reports whether the ClockIn at index i undoes a canceled
// BreakStart (the preceding punch marked NoiseCanceledBreak within the abort
// window).
func (r *Reconstructor) isBreakAbort(punches []punch.Normalized, i int) bool {
	for j := i - 1; j >= 0; j-- {
		p := punches[j]
		if p.Noise == punch.NoiseCanceledBreak && p.Kind == punch.KindBreakStart {
			return !punches[i].At.After(p.At.Add(r.cfg.BreakAbortWindow))
		}
		if !p.IsNoise() {
			return false
		}
	}
	return false
}

// flagShortSessions marks closed sessions shorter than the threshold, but
// only on days that saw more than one session - a lone short session may be
// the whole intended shift.
func (r *Reconstructor) flagShortSessions(sessions []*WorkSession) {
	perDay := make(map[string]int)
	for _, s := range sessions {
		perDay[s.ClockIn.In(r.cfg.Location).Format("2006-01-02")]++
	}
	for _, s := range sessions {
		if s.Open() {
			continue
		}
		d := s.Duration()
		if d >= r.cfg.ShortSession {
			continue
		}
		if perDay[s.ClockIn.In(r.cfg.Location).Format("2006-01-02")] > 1 {
			s.Anomalies = append(s.Anomalies, Anomaly{Kind: AnomalyVeryShortSession, Duration: d})
		}
	}
}
