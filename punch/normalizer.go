/*
normalizer.go - Noise collapse over a raw punch list

PURPOSE:
  Turns an unordered per-employee punch list into a chronologically sorted
  list with noise annotations. The output has exactly the same length as the
  input: punches are tagged, never removed.

ALGORITHM (in order):
  1. Stable sort by timestamp, ties broken by input order.
  2. Burst collapse: a chain of punches where each lands within the burst
     window of the previous one forms a burst; a burst of 3 or more punches
     keeps only its first member.
  3. Duplicate collapse: two surviving punches of the same kind within the
     duplicate window - the later one is marked.
  4. Canceled-break marking: a surviving BreakStart immediately followed by a
     ClockIn within the abort window, with no BreakEnd before the next
     ClockOut, is marked CanceledBreak. The triggering ClockIn stays normal;
     the reconstructor recognizes the pair and keeps the session whole.

GUARANTEES:
  - Total: never errors. Malformed input (zero timestamps, unknown kinds) is
    the caller's responsibility to reject before this layer.
  - Pure: output is a function of the input list alone.
  - Idempotent: a noise-free list normalizes to itself.
*/
package punch

import (
	"sort"
	"time"
)

// =============================================================================
// WINDOWS
// =============================================================================

const (
	// DefaultBurstWindow chains rapid-fire taps into one burst.
	DefaultBurstWindow = 60 * time.Second

	// DefaultDuplicateWindow collapses same-kind double taps.
	DefaultDuplicateWindow = 60 * time.Second

	// DefaultBreakAbortWindow pairs an accidental BreakStart with the
	// ClockIn the operator used to undo it.
	DefaultBreakAbortWindow = 120 * time.Second
)

// Windows tunes the normalizer's three time windows. The zero value is
// replaced by the defaults.
type Windows struct {
	Burst      time.Duration
	Duplicate  time.Duration
	BreakAbort time.Duration
}

func (w Windows) withDefaults() Windows {
	if w.Burst == 0 {
		w.Burst = DefaultBurstWindow
	}
	if w.Duplicate == 0 {
		w.Duplicate = DefaultDuplicateWindow
	}
	if w.BreakAbort == 0 {
		w.BreakAbort = DefaultBreakAbortWindow
	}
	return w
}

// =============================================================================
// NORMALIZER
// =============================================================================

// Normalize sorts and annotates a raw punch list for one employee.
func Normalize(events []Event) []Normalized {
	return NormalizeWith(events, Windows{})
}

// NormalizeWith is Normalize with explicit windows.
func NormalizeWith(events []Event, w Windows) []Normalized {
	w = w.withDefaults()

	out := make([]Normalized, len(events))
	for i, e := range events {
		out[i] = Normalized{Event: e}
	}

	// Chronological order; sort.SliceStable preserves input order for ties.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].At.Before(out[j].At)
	})

	collapseBursts(out, w.Burst)
	collapseDuplicates(out, w.Duplicate)
	markCanceledBreaks(out, w.BreakAbort)

	return out
}

// collapseBursts finds chains of punches where each punch lands within the
// burst window of the previous one. A chain of 3+ punches is an operator
// mashing the terminal: only the first punch is intentional.
func collapseBursts(punches []Normalized, window time.Duration) {
	i := 0
	for i < len(punches) {
		j := i + 1
		for j < len(punches) && !punches[j].At.After(punches[j-1].At.Add(window)) {
			j++
		}
		if j-i >= 3 {
			for k := i + 1; k < j; k++ {
				punches[k].Noise = NoiseBurst
			}
		}
		i = j
	}
}

// collapseDuplicates marks the later of two surviving same-kind punches that
// fall within the duplicate window of each other.
func collapseDuplicates(punches []Normalized, window time.Duration) {
	// Last surviving punch seen per kind.
	lastAt := make(map[Kind]time.Time, 4)
	lastSet := make(map[Kind]bool, 4)

	for i := range punches {
		if punches[i].IsNoise() {
			continue
		}
		k := punches[i].Kind
		if lastSet[k] && !punches[i].At.After(lastAt[k].Add(window)) {
			punches[i].Noise = NoiseDuplicate
			continue
		}
		lastAt[k] = punches[i].At
		lastSet[k] = true
	}
}

// markCanceledBreaks marks a surviving BreakStart whose immediate surviving
// successor is a ClockIn within the abort window, provided no BreakEnd shows
// up before the next ClockOut. The ClockIn keeps normal status.
func markCanceledBreaks(punches []Normalized, window time.Duration) {
	for i := range punches {
		if punches[i].IsNoise() || punches[i].Kind != KindBreakStart {
			continue
		}

		next := nextSurviving(punches, i)
		if next < 0 || punches[next].Kind != KindClockIn {
			continue
		}
		if punches[next].At.After(punches[i].At.Add(window)) {
			continue
		}

		if breakEndFollows(punches, next) {
			continue
		}
		punches[i].Noise = NoiseCanceledBreak
	}
}

func nextSurviving(punches []Normalized, i int) int {
	for j := i + 1; j < len(punches); j++ {
		if !punches[j].IsNoise() {
			return j
		}
	}
	return -1
}

// breakEndFollows reports whether a surviving BreakEnd appears after index i
// but before the next surviving ClockOut.
func breakEndFollows(punches []Normalized, i int) bool {
	for j := i + 1; j < len(punches); j++ {
		if punches[j].IsNoise() {
			continue
		}
		switch punches[j].Kind {
		case KindBreakEnd:
			return true
		case KindClockOut:
			return false
		}
	}
	return false
}

// Surviving filters a normalized list down to the non-noise punches.
// The result shares no backing storage with the input.
func Surviving(punches []Normalized) []Normalized {
	var out []Normalized
	for _, p := range punches {
		if !p.IsNoise() {
			out = append(out, p)
		}
	}
	return out
}
