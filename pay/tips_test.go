package pay_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warp/punch-engine/pay"
)

func tip(kind pay.TipKind, amount int64) pay.TipRecord {
	return pay.TipRecord{EmployeeID: "emp-1", Kind: kind, AmountCents: amount}
}

func TestTipsOwed_EarnedExceedsPaidOut(t *testing.T) {
	// GIVEN: 8000 earned, 6000 already paid in cash
	// THEN: payroll owes the 2000 remainder

	earned, paid := pay.SumTips([]pay.TipRecord{
		tip(pay.TipEarned, 5000),
		tip(pay.TipEarned, 3000),
		tip(pay.TipPaidOut, 6000),
	})

	assert.Equal(t, int64(8000), earned)
	assert.Equal(t, int64(6000), paid)
	assert.Equal(t, int64(2000), pay.TipsOwed(earned, paid))
}

func TestTipsOwed_OverpaidFloorsAtZero(t *testing.T) {
	// GIVEN: 5000 earned but 7000 paid out
	// THEN: owed is zero; the overpayment is never clawed back as a
	//       negative line item

	earned, paid := pay.SumTips([]pay.TipRecord{
		tip(pay.TipEarned, 5000),
		tip(pay.TipPaidOut, 7000),
	})

	assert.Equal(t, int64(0), pay.TipsOwed(earned, paid))
}

func TestTipsOwed_ExactWash(t *testing.T) {
	assert.Equal(t, int64(0), pay.TipsOwed(4500, 4500))
}

func TestSumTips_Empty(t *testing.T) {
	earned, paid := pay.SumTips(nil)
	assert.Equal(t, int64(0), earned)
	assert.Equal(t, int64(0), paid)
}
