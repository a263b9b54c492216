/*
assembler.go - The period assembly run

PURPOSE:
  Fans the per-employee pipeline out across goroutines (no cross-employee
  data dependency exists, so no locks are needed), fans the results back in
  by input index, and emits line items in sorted employee-ID order so
  goroutine scheduling can never change the output bytes.

DETERMINISM:
  - No clock reads: the period and timezone are inputs.
  - No map iteration reaches the output unsorted.
  - Results land in a pre-sized slice at their input index, then get sorted
    by employee ID before totals are folded.
*/
package payroll

import (
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/punch-engine/hours"
	"github.com/warp/punch-engine/pay"
	"github.com/warp/punch-engine/punch"
	"github.com/warp/punch-engine/session"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options carries the tuning shared by every employee in a run.
type Options struct {
	Windows            punch.Windows
	Reopen             session.ReopenPolicy
	ShortSession       time.Duration
	Week               hours.WeekConfig
	OvertimeMultiplier decimal.Decimal
}

// =============================================================================
// ASSEMBLER
// =============================================================================

// Assembler runs payroll periods. Stateless; safe for concurrent use.
type Assembler struct {
	opts Options
}

// NewAssembler builds an assembler. Zero-value options get the standard
// defaults (60s/60s/120s windows, force-close reopen, Monday 40h week, 1.5x
// overtime).
func NewAssembler(opts Options) *Assembler {
	if opts.Week.OvertimeThreshold.IsZero() && opts.Week.StartDay == 0 {
		opts.Week = hours.DefaultWeekConfig()
	}
	return &Assembler{opts: opts}
}

// Run assembles one payroll period. The only run-level error is a missing
// location; per-employee failures land on their line items.
func (a *Assembler) Run(in RunInput) (*RunResult, error) {
	if in.Location == nil {
		return nil, hours.ErrNilLocation
	}

	items := make([]LineItem, len(in.Employees))

	var wg sync.WaitGroup
	for i := range in.Employees {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			items[i] = a.runEmployee(in.Employees[i], in)
		}(i)
	}
	wg.Wait()

	sort.Slice(items, func(i, j int) bool {
		return items[i].EmployeeID < items[j].EmployeeID
	})

	result := &RunResult{
		PeriodStart: in.Period.Start,
		PeriodEnd:   in.Period.End,
		Items:       items,
	}
	for _, item := range items {
		if item.Err != nil {
			continue
		}
		result.Totals.RegularPayCents += item.RegularPayCents
		result.Totals.OvertimePayCents += item.OvertimePayCents
		result.Totals.SalaryPayCents += item.SalaryPayCents
		result.Totals.ContractorPayCents += item.ContractorPayCents
		result.Totals.DailyRatePayCents += item.DailyRatePayCents
		result.Totals.TipsOwedCents += item.TipsOwedCents
		result.Totals.GrossPayCents += item.GrossPayCents
		result.Totals.TotalPayCents += item.TotalPayCents
	}
	return result, nil
}

// runEmployee is the full pipeline for one employee:
// normalize -> reconstruct -> aggregate -> dispatch -> tips.
func (a *Assembler) runEmployee(emp EmployeeInput, in RunInput) LineItem {
	item := LineItem{
		EmployeeID:    emp.EmployeeID,
		RegularHours:  decimal.Zero,
		OvertimeHours: decimal.Zero,
	}

	normalized := punch.NormalizeWith(emp.Punches, a.opts.Windows)

	rec := session.NewReconstructor(session.Config{
		Reopen:           a.opts.Reopen,
		ShortSession:     a.opts.ShortSession,
		Location:         in.Location,
		BreakAbortWindow: a.opts.Windows.BreakAbort,
	})
	sessions := rec.Reconstruct(emp.EmployeeID, normalized)
	for _, s := range sessions {
		item.Anomalies += len(s.Anomalies)
	}

	totals, err := hours.Aggregate(sessions, in.Period, in.Location, a.opts.Week)
	if err != nil {
		return item.fail(err)
	}
	item.RegularHours = totals.RegularHours
	item.OvertimeHours = totals.OvertimeHours
	item.DaysWorked = totals.DaysWorked()

	breakdown, err := pay.Dispatch(emp.Profile, totals, pay.Input{
		OvertimeMultiplier: a.opts.OvertimeMultiplier,
		ElapsedDays:        emp.ElapsedDays,
		PeriodDays:         emp.PeriodDays,
	})
	if err != nil {
		return item.fail(err)
	}
	item.RegularPayCents = breakdown.RegularPayCents
	item.OvertimePayCents = breakdown.OvertimePayCents
	item.SalaryPayCents = breakdown.SalaryPayCents
	item.ContractorPayCents = breakdown.ContractorPayCents
	item.DailyRatePayCents = breakdown.DailyRatePayCents

	item.TipsEarnedCents, item.TipsPaidOutCents = pay.SumTips(emp.Tips)
	item.TipsOwedCents = pay.TipsOwed(item.TipsEarnedCents, item.TipsPaidOutCents)

	item.GrossPayCents = breakdown.GrossCents()
	item.TotalPayCents = item.GrossPayCents + item.TipsOwedCents
	return item
}

func (item LineItem) fail(err error) LineItem {
	item.Err = err
	item.Error = err.Error()
	return item
}
