/*
Package hours reduces work sessions into paid-hours totals.

PURPOSE:
  Collapses an employee's sessions over a period into the three numbers the
  pay dispatcher needs: regular hours, overtime hours, and the set of unique
  days worked. Timezone is an explicit, mandatory input - this package never
  reads the system clock or guesses a zone; date attribution bugs come from
  exactly that kind of guessing.

ATTRIBUTION POLICY (stated, not inferred):
  A session belongs to the calendar date of its clock-in, in the caller's
  location. Overnight shifts are not split across the boundary - the whole
  session counts toward the start date.

OVERTIME MODEL:
  Weekly only. Hours inside a week bucket beyond the threshold (default 40,
  week starting Monday) are overtime. Daily overtime rules are out of scope.

SEE ALSO:
  - session/types.go: Worked() defines a session's paid span
  - pay/dispatch.go: Consumer of Totals
*/
package hours

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/punch-engine/session"
)

// ErrNilLocation is returned when the caller omits the reference timezone.
// Defaulting to UTC or the host zone here is how date-attribution bugs start.
var ErrNilLocation = errors.New("hours: reference location is required")

// =============================================================================
// DATE - Calendar day in the reference location
// =============================================================================

// Date is a calendar day. Comparable, so it works as a set key.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in loc.
func DateOf(t time.Time, loc *time.Location) Date {
	y, m, d := t.In(loc).Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

func (d Date) Time(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Date) String() string {
	return d.Time(time.UTC).Format("2006-01-02")
}

// =============================================================================
// PERIOD
// =============================================================================

// Period is the inclusive time range a payroll run covers.
type Period struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within [Start, End].
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// =============================================================================
// WEEK CONFIGURATION
// =============================================================================

// DefaultOvertimeThreshold is the weekly hours boundary beyond which hours
// become overtime.
var DefaultOvertimeThreshold = decimal.NewFromInt(40)

// WeekConfig tunes the overtime bucketing. Use DefaultWeekConfig for the
// standard Monday-start, 40-hour week; the zero value of StartDay is a
// Sunday-start week (time.Sunday == 0).
type WeekConfig struct {
	// StartDay is the first day of the overtime week.
	StartDay time.Weekday

	// OvertimeThreshold in hours. Zero value means the default (40).
	OvertimeThreshold decimal.Decimal
}

// DefaultWeekConfig is the standard overtime week: Monday start, 40 hours.
func DefaultWeekConfig() WeekConfig {
	return WeekConfig{StartDay: time.Monday, OvertimeThreshold: DefaultOvertimeThreshold}
}

func (w WeekConfig) withDefaults() WeekConfig {
	if w.OvertimeThreshold.IsZero() {
		w.OvertimeThreshold = DefaultOvertimeThreshold
	}
	return w
}

// weekOf returns the date of the week-start day on or before d.
func (w WeekConfig) weekOf(d Date) Date {
	t := d.Time(time.UTC)
	offset := (int(t.Weekday()) - int(w.StartDay) + 7) % 7
	y, m, day := t.AddDate(0, 0, -offset).Date()
	return Date{Year: y, Month: m, Day: day}
}

// =============================================================================
// TOTALS
// =============================================================================

// Totals is the aggregation result for one employee over one period.
type Totals struct {
	RegularHours  decimal.Decimal
	OvertimeHours decimal.Decimal
	Days          map[Date]bool
}

// TotalHours is regular plus overtime.
func (t Totals) TotalHours() decimal.Decimal {
	return t.RegularHours.Add(t.OvertimeHours)
}

// DaysWorked is the number of unique days with at least one qualifying
// session. Multiple sessions on one date count once.
func (t Totals) DaysWorked() int { return len(t.Days) }

// UniqueDays returns the worked dates in ascending order.
func (t Totals) UniqueDays() []Date {
	out := make([]Date, 0, len(t.Days))
	for d := range t.Days {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// =============================================================================
// AGGREGATOR
// =============================================================================

// Aggregate reduces one employee's sessions over the period. Sessions whose
// clock-in falls outside the period are ignored; open sessions contribute
// zero hours but can still mark a worked day when they are the day's only
// session.
func Aggregate(sessions []*session.WorkSession, period Period, loc *time.Location, week WeekConfig) (Totals, error) {
	if loc == nil {
		return Totals{}, ErrNilLocation
	}
	week = week.withDefaults()

	totals := Totals{
		RegularHours:  decimal.Zero,
		OvertimeHours: decimal.Zero,
		Days:          make(map[Date]bool),
	}

	// Per-week worked hours, and per-date qualification for the day set.
	weekly := make(map[Date]decimal.Decimal)
	perDate := make(map[Date]int)
	qualified := make(map[Date]bool)

	for _, s := range sessions {
		if !period.Contains(s.ClockIn) {
			continue
		}
		date := DateOf(s.ClockIn, loc)
		perDate[date]++

		worked := durationHours(s.Worked())
		if worked.IsPositive() {
			qualified[date] = true
			wk := week.weekOf(date)
			weekly[wk] = weekly[wk].Add(worked)
		}
	}

	// A date counts when it has a nonzero-duration session, or when its only
	// session is the zero-duration one (e.g. an open session).
	for date, n := range perDate {
		if qualified[date] || n == 1 {
			totals.Days[date] = true
		}
	}

	// Overtime split per week bucket; iterate sorted for determinism.
	weeks := make([]Date, 0, len(weekly))
	for wk := range weekly {
		weeks = append(weeks, wk)
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].Before(weeks[j]) })

	for _, wk := range weeks {
		total := weekly[wk]
		if total.GreaterThan(week.OvertimeThreshold) {
			totals.RegularHours = totals.RegularHours.Add(week.OvertimeThreshold)
			totals.OvertimeHours = totals.OvertimeHours.Add(total.Sub(week.OvertimeThreshold))
		} else {
			totals.RegularHours = totals.RegularHours.Add(total)
		}
	}

	return totals, nil
}

func durationHours(d time.Duration) decimal.Decimal {
	if d <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(d / time.Second)).Div(decimal.NewFromInt(3600))
}
