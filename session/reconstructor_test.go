package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/punch-engine/punch"
	"github.com/warp/punch-engine/session"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var day = time.Date(2026, time.August, 24, 0, 0, 0, 0, time.UTC)

func at(h, m, s int) time.Time {
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second)
}

func ev(kind punch.Kind, t time.Time) punch.Event {
	return punch.Event{EmployeeID: "emp-1", Kind: kind, At: t}
}

func reconstruct(t *testing.T, cfg session.Config, events ...punch.Event) []*session.WorkSession {
	t.Helper()
	return session.NewReconstructor(cfg).Reconstruct("emp-1", punch.Normalize(events))
}

func anomalyKinds(s *session.WorkSession) []session.AnomalyKind {
	out := make([]session.AnomalyKind, len(s.Anomalies))
	for i, a := range s.Anomalies {
		out[i] = a.Kind
	}
	return out
}

// =============================================================================
// HAPPY PATH
// =============================================================================

func TestReconstruct_SimpleShiftWithBreak(t *testing.T) {
	// GIVEN: clock-in, a closed break, clock-out
	// THEN: one session, one break, no anomalies

	sessions := reconstruct(t, session.Config{},
		ev(punch.KindClockIn, at(9, 0, 0)),
		ev(punch.KindBreakStart, at(13, 0, 0)),
		ev(punch.KindBreakEnd, at(13, 30, 0)),
		ev(punch.KindClockOut, at(17, 0, 0)),
	)

	require.Len(t, sessions, 1)
	s := sessions[0]
	assert.Equal(t, at(9, 0, 0), s.ClockIn)
	require.NotNil(t, s.ClockOut)
	assert.Equal(t, at(17, 0, 0), *s.ClockOut)
	require.Len(t, s.Breaks, 1)
	assert.Equal(t, 30*time.Minute, s.Breaks[0].Duration())
	assert.Empty(t, s.Anomalies)
	assert.Equal(t, 7*time.Hour+30*time.Minute, s.Worked())
}

func TestReconstruct_MultipleSessionsDoNotOverlap(t *testing.T) {
	sessions := reconstruct(t, session.Config{},
		ev(punch.KindClockIn, at(7, 0, 0)),
		ev(punch.KindClockOut, at(11, 0, 0)),
		ev(punch.KindClockIn, at(15, 0, 0)),
		ev(punch.KindClockOut, at(19, 0, 0)),
	)

	require.Len(t, sessions, 2)
	require.NotNil(t, sessions[0].ClockOut)
	assert.True(t, !sessions[1].ClockIn.Before(*sessions[0].ClockOut),
		"sessions for one employee must never overlap")
}

// =============================================================================
// NOISE COLLAPSE (end to end with the normalizer)
// =============================================================================

func TestReconstruct_NoisyBurstCollapsesToOneSession(t *testing.T) {
	// GIVEN: a real clock-in, a flurry of accidental taps, a real clock-out
	// THEN: exactly one session spanning the real punches, zero breaks,
	//       zero anomalies

	sessions := reconstruct(t, session.Config{},
		ev(punch.KindClockIn, at(9, 56, 25)),
		ev(punch.KindBreakStart, at(9, 56, 50)),
		ev(punch.KindClockIn, at(9, 57, 10)),
		ev(punch.KindClockOut, at(9, 57, 30)),
		ev(punch.KindClockIn, at(9, 57, 50)),
		ev(punch.KindClockOut, at(11, 37, 7)),
	)

	require.Len(t, sessions, 1)
	s := sessions[0]
	assert.Equal(t, at(9, 56, 25), s.ClockIn)
	require.NotNil(t, s.ClockOut)
	assert.Equal(t, at(11, 37, 7), *s.ClockOut)
	assert.Empty(t, s.Breaks)
	assert.Empty(t, s.Anomalies)
}

func TestReconstruct_AbortedBreakKeepsSessionWhole(t *testing.T) {
	// GIVEN: an accidental BreakStart undone by a ClockIn 90s later
	// THEN: one continuous session, no break opened, a CanceledBreak flag

	sessions := reconstruct(t, session.Config{},
		ev(punch.KindClockIn, at(9, 0, 0)),
		ev(punch.KindBreakStart, at(12, 0, 0)),
		ev(punch.KindClockIn, at(12, 1, 30)),
		ev(punch.KindClockOut, at(17, 0, 0)),
	)

	require.Len(t, sessions, 1)
	s := sessions[0]
	assert.Empty(t, s.Breaks)
	assert.Equal(t, []session.AnomalyKind{session.AnomalyCanceledBreak}, anomalyKinds(s))
	assert.Equal(t, 8*time.Hour, s.Worked())
}

// =============================================================================
// OPEN SESSIONS
// =============================================================================

func TestReconstruct_MissingClockOut_OpenSessionAnomaly(t *testing.T) {
	// GIVEN: a clock-in with no clock-out before end of input
	// THEN: the session is emitted open, flagged, and contributes 0 worked

	sessions := reconstruct(t, session.Config{},
		ev(punch.KindClockIn, at(16, 0, 0)),
	)

	require.Len(t, sessions, 1)
	s := sessions[0]
	assert.True(t, s.Open())
	assert.Equal(t, []session.AnomalyKind{session.AnomalyOpenSession}, anomalyKinds(s))
	assert.Equal(t, time.Duration(0), s.Worked())
}

func TestReconstruct_EndOfInputDuringBreak_BothFlags(t *testing.T) {
	sessions := reconstruct(t, session.Config{},
		ev(punch.KindClockIn, at(9, 0, 0)),
		ev(punch.KindBreakStart, at(13, 0, 0)),
	)

	require.Len(t, sessions, 1)
	s := sessions[0]
	assert.True(t, s.Open())
	assert.Contains(t, anomalyKinds(s), session.AnomalyIncompleteBreak)
	assert.Contains(t, anomalyKinds(s), session.AnomalyOpenSession)
}

// =============================================================================
// INCOMPLETE BREAKS
// =============================================================================

func TestReconstruct_ClockOutDuringBreak_IncompleteBreak(t *testing.T) {
	// GIVEN: a break opened but never closed before clock-out
	// THEN: the break is left open (it cannot eat the rest of the shift),
	//       the session closes, and an IncompleteBreak flag is raised

	sessions := reconstruct(t, session.Config{},
		ev(punch.KindClockIn, at(9, 0, 0)),
		ev(punch.KindBreakStart, at(13, 0, 0)),
		ev(punch.KindClockOut, at(17, 0, 0)),
	)

	require.Len(t, sessions, 1)
	s := sessions[0]
	require.NotNil(t, s.ClockOut)
	require.Len(t, s.Breaks, 1)
	assert.Nil(t, s.Breaks[0].End)
	assert.Equal(t, []session.AnomalyKind{session.AnomalyIncompleteBreak}, anomalyKinds(s))
	// Open break contributes zero deduction.
	assert.Equal(t, 8*time.Hour, s.Worked())
}

// =============================================================================
// REOPEN POLICY
// =============================================================================

func TestReconstruct_ReopenForceClose_SplitsAtNewClockIn(t *testing.T) {
	// GIVEN: a second ClockIn hours into an open session (default policy)
	// THEN: the first session is force-closed at the new ClockIn, flagged,
	//       and a second session starts - no recorded time is lost

	sessions := reconstruct(t, session.Config{Reopen: session.ReopenForceClose},
		ev(punch.KindClockIn, at(9, 0, 0)),
		ev(punch.KindClockIn, at(13, 0, 0)),
		ev(punch.KindClockOut, at(17, 0, 0)),
	)

	require.Len(t, sessions, 2)
	first, second := sessions[0], sessions[1]
	require.NotNil(t, first.ClockOut)
	assert.Equal(t, at(13, 0, 0), *first.ClockOut)
	assert.Equal(t, []session.AnomalyKind{session.AnomalyOpenSession}, anomalyKinds(first))
	assert.Equal(t, at(13, 0, 0), second.ClockIn)
	assert.Empty(t, second.Anomalies)
}

func TestReconstruct_ReopenDiscard_DropsRedundantClockIn(t *testing.T) {
	sessions := reconstruct(t, session.Config{Reopen: session.ReopenDiscard},
		ev(punch.KindClockIn, at(9, 0, 0)),
		ev(punch.KindClockIn, at(13, 0, 0)),
		ev(punch.KindClockOut, at(17, 0, 0)),
	)

	require.Len(t, sessions, 1)
	s := sessions[0]
	assert.Equal(t, at(9, 0, 0), s.ClockIn)
	require.NotNil(t, s.ClockOut)
	assert.Equal(t, at(17, 0, 0), *s.ClockOut)
	assert.Empty(t, s.Anomalies)
}

// =============================================================================
// SHORT SESSIONS
// =============================================================================

func TestReconstruct_ShortSessionOnMultiSessionDay_Flagged(t *testing.T) {
	// GIVEN: a 2-minute stint and a real shift on the same day
	// THEN: only the short one is flagged

	sessions := reconstruct(t, session.Config{},
		ev(punch.KindClockIn, at(8, 0, 0)),
		ev(punch.KindClockOut, at(8, 2, 0)),
		ev(punch.KindClockIn, at(9, 0, 0)),
		ev(punch.KindClockOut, at(17, 0, 0)),
	)

	require.Len(t, sessions, 2)
	require.Len(t, sessions[0].Anomalies, 1)
	assert.Equal(t, session.AnomalyVeryShortSession, sessions[0].Anomalies[0].Kind)
	assert.Equal(t, 2*time.Minute, sessions[0].Anomalies[0].Duration)
	assert.Empty(t, sessions[1].Anomalies)
}

func TestReconstruct_LoneShortSession_NotFlagged(t *testing.T) {
	// A single short session with nothing else that day may be the entire
	// intended shift.
	sessions := reconstruct(t, session.Config{},
		ev(punch.KindClockIn, at(8, 0, 0)),
		ev(punch.KindClockOut, at(8, 2, 0)),
	)

	require.Len(t, sessions, 1)
	assert.Empty(t, sessions[0].Anomalies)
}

// =============================================================================
// INVARIANTS
// =============================================================================

func TestReconstruct_Invariants(t *testing.T) {
	// For every closed session: clock_out > clock_in; every break starts at
	// or after clock-in; every closed break ends at or before clock-out.

	sessions := reconstruct(t, session.Config{},
		ev(punch.KindClockIn, at(7, 0, 0)),
		ev(punch.KindBreakStart, at(9, 0, 0)),
		ev(punch.KindBreakEnd, at(9, 15, 0)),
		ev(punch.KindClockOut, at(11, 0, 0)),
		ev(punch.KindClockIn, at(15, 0, 0)),
		ev(punch.KindBreakStart, at(16, 0, 0)),
		ev(punch.KindClockOut, at(19, 0, 0)),
		ev(punch.KindClockIn, at(21, 0, 0)),
	)

	for _, s := range sessions {
		if s.ClockOut != nil {
			assert.True(t, s.ClockOut.After(s.ClockIn))
		}
		for _, b := range s.Breaks {
			assert.False(t, b.Start.Before(s.ClockIn))
			if b.End != nil && s.ClockOut != nil {
				assert.False(t, b.End.After(*s.ClockOut))
			}
		}
	}
}

func TestReconstruct_OrphanPunchesBeforeClockIn_Skipped(t *testing.T) {
	// BreakEnd/ClockOut with no open session carry no information.
	sessions := reconstruct(t, session.Config{},
		ev(punch.KindClockOut, at(6, 0, 0)),
		ev(punch.KindBreakEnd, at(6, 30, 0)),
		ev(punch.KindClockIn, at(9, 0, 0)),
		ev(punch.KindClockOut, at(17, 0, 0)),
	)

	require.Len(t, sessions, 1)
	assert.Equal(t, at(9, 0, 0), sessions[0].ClockIn)
}
