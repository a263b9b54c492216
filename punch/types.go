/*
Package punch defines raw time-clock events and the noise normalizer.

PURPOSE:
  A clock terminal produces a noisy stream of punches: rapid-fire duplicate
  taps, accidental break starts, double clock-ins. This package tags which
  punches are noise so the session reconstructor only sees punches that
  represent real operator intent. Nothing is ever deleted - every punch stays
  in the record with an annotation.

KEY CONCEPTS IN THIS FILE (types.go):
  - Event: A single immutable clock event (clock-in/out, break start/end)
  - Normalized: An Event annotated with a noise verdict
  - NoiseReason: Why a punch was excluded from reconstruction

DESIGN PRINCIPLES:
  1. Immutability: Events are never mutated, only superseded by new events
     (a manager force clock-out is just another ClockOut event)
  2. Non-destruction: normalization annotates, it never drops
  3. Determinism: the same input list always yields the same annotations

SEE ALSO:
  - normalizer.go: The noise-collapse algorithm
  - session/reconstructor.go: Consumer of the non-noise stream
*/
package punch

import "time"

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string

// =============================================================================
// EVENT - A single clock punch
// =============================================================================

// Kind is the closed set of punch kinds a clock terminal can emit.
type Kind string

const (
	KindClockIn    Kind = "clock_in"
	KindClockOut   Kind = "clock_out"
	KindBreakStart Kind = "break_start"
	KindBreakEnd   Kind = "break_end"
)

// Valid reports whether k is one of the four punch kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindClockIn, KindClockOut, KindBreakStart, KindBreakEnd:
		return true
	}
	return false
}

// Event is one timestamped clock punch. Immutable once persisted; created by
// clock-terminal input or manager override, never mutated.
type Event struct {
	EmployeeID EmployeeID
	Kind       Kind
	At         time.Time
	Note       string // Optional source note ("terminal-3", "manager override")
}

// =============================================================================
// NOISE ANNOTATION
// =============================================================================

// NoiseReason explains why a punch was excluded from reconstruction.
type NoiseReason string

const (
	// NoiseBurst: punch was part of a rapid-fire tap burst (3+ punches
	// chained within the burst window); only the first punch survives.
	NoiseBurst NoiseReason = "burst"

	// NoiseDuplicate: a punch of the same kind occurred just before this one.
	NoiseDuplicate NoiseReason = "duplicate"

	// NoiseCanceledBreak: a BreakStart that the operator immediately aborted
	// with a ClockIn and that never saw a matching BreakEnd.
	NoiseCanceledBreak NoiseReason = "canceled_break"
)

// Normalized is an Event plus the normalizer's verdict. Noise == "" means the
// punch participates in session reconstruction.
type Normalized struct {
	Event
	Noise NoiseReason
}

// IsNoise reports whether the punch is excluded from reconstruction.
func (n Normalized) IsNoise() bool { return n.Noise != "" }
