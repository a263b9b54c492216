/*
tips.go - Tip offset calculation

PURPOSE:
  Reduces tips-earned and tips-paid-out records from the tip-pool
  collaborator into the tips-owed figure merged into a line item. A manager
  may have advanced more cash than was earned; the owed amount floors at
  zero and the excess is a reconciliation concern for the collaborator, not
  a claw-back here.
*/
package pay

import (
	"time"

	"github.com/warp/punch-engine/punch"
)

// =============================================================================
// TIP RECORDS - Supplied by the tip-pool collaborator, consumed read-only
// =============================================================================

type TipKind string

const (
	TipEarned  TipKind = "earned"
	TipPaidOut TipKind = "paid_out"
)

// TipRecord is one day's tip movement for one employee.
type TipRecord struct {
	EmployeeID  punch.EmployeeID
	Date        time.Time
	AmountCents int64
	Kind        TipKind
}

// =============================================================================
// TIP OFFSET
// =============================================================================

// SumTips reduces a record list into total earned and paid-out cents.
func SumTips(records []TipRecord) (earnedCents, paidOutCents int64) {
	for _, r := range records {
		switch r.Kind {
		case TipEarned:
			earnedCents += r.AmountCents
		case TipPaidOut:
			paidOutCents += r.AmountCents
		}
	}
	return earnedCents, paidOutCents
}

// TipsOwed is earned minus paid-out, floored at zero.
func TipsOwed(earnedCents, paidOutCents int64) int64 {
	owed := earnedCents - paidOutCents
	if owed < 0 {
		return 0
	}
	return owed
}
