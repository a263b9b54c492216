package factory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/punch-engine/factory"
	"github.com/warp/punch-engine/hours"
	"github.com/warp/punch-engine/pay"
)

func totalsFixture() hours.Totals {
	return hours.Totals{
		RegularHours:  decimal.NewFromInt(40),
		OvertimeHours: decimal.Zero,
		Days:          map[hours.Date]bool{},
	}
}

func TestParseProfile_Hourly(t *testing.T) {
	p, err := factory.ParseProfile([]byte(`{
		"employee_id": "emp-7",
		"compensation_type": "hourly",
		"hourly_rate_cents": 1500
	}`))
	require.NoError(t, err)

	assert.Equal(t, pay.TypeHourly, p.Type)
	require.NotNil(t, p.HourlyRateCents)
	assert.Equal(t, int64(1500), *p.HourlyRateCents)
}

func TestParseProfile_DailyRate(t *testing.T) {
	p, err := factory.ParseProfile([]byte(`{
		"employee_id": "emp-9",
		"compensation_type": "daily_rate",
		"daily_rate_cents": 16667
	}`))
	require.NoError(t, err)
	assert.Equal(t, pay.TypeDailyRate, p.Type)
}

func TestParseProfile_UnknownType(t *testing.T) {
	_, err := factory.ParseProfile([]byte(`{
		"employee_id": "emp-1",
		"compensation_type": "equity"
	}`))
	assert.ErrorIs(t, err, pay.ErrUnknownCompensationType)
}

func TestParseProfile_MissingRequiredField(t *testing.T) {
	// The factory fails at configuration time with the same error the
	// dispatcher would raise at payroll time.
	cases := []struct {
		name  string
		body  string
		field string
	}{
		{"hourly", `{"employee_id":"e","compensation_type":"hourly"}`, "hourly_rate_cents"},
		{"salary", `{"employee_id":"e","compensation_type":"salary"}`, "salary_amount_cents"},
		{"contractor", `{"employee_id":"e","compensation_type":"contractor"}`, "contractor_amount_cents"},
		{"daily rate", `{"employee_id":"e","compensation_type":"daily_rate"}`, "daily_rate_cents"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := factory.ParseProfile([]byte(tc.body))
			require.Error(t, err)
			assert.ErrorIs(t, err, pay.ErrMissingCompensationField)
			var missing *pay.MissingCompensationFieldError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tc.field, missing.Field)
		})
	}
}

func TestParseProfile_Malformed(t *testing.T) {
	_, err := factory.ParseProfile([]byte(`{not json`))
	assert.Error(t, err)
}

func TestToJSON_RoundTrip(t *testing.T) {
	original := factory.SalaryPreset("chef-1", 250000, 14)

	back, err := factory.FromJSON(factory.ToJSON(original))
	require.NoError(t, err)
	assert.Equal(t, original, back)
}

func TestPresets_PassDispatch(t *testing.T) {
	// Every preset must be dispatchable as-is.
	profiles := []pay.Profile{
		factory.HourlyPreset("cook-1", 1500),
		factory.SalaryPreset("chef-1", 250000, 14),
		factory.ContractorPreset("consult-1", 120000, pay.IntervalWeekly),
		factory.DailyRatePreset("porter-1", 16667),
	}

	for _, p := range profiles {
		_, err := pay.Dispatch(p, totalsFixture(), pay.Input{})
		assert.NoError(t, err, "preset %s", p.Type)
	}
}
