package broker

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestFlatFee(t *testing.T) {
	s, err := FlatFee(dec("9.99"))
	require.NoError(t, err)
	assert.Equal(t, "9.99", s.Fee(dec("1")).String())
	assert.Equal(t, "9.99", s.Fee(dec("100000")).String())

	_, err = FlatFee(dec("-1"))
	assert.ErrorIs(t, err, ErrBadFeeSchedule)
}

func TestPercentFee(t *testing.T) {
	s, err := PercentFee(dec("0.0025"), dec("1.00"))
	require.NoError(t, err)

	// 0.25% of 10000 = 25.00
	assert.Equal(t, "25", s.Fee(dec("10000")).String())
	// Below the floor.
	assert.Equal(t, "1", s.Fee(dec("100")).String())

	_, err = PercentFee(dec("1.5"), decimal.Zero)
	assert.ErrorIs(t, err, ErrBadFeeSchedule)
	_, err = PercentFee(dec("0.01"), dec("-1"))
	assert.ErrorIs(t, err, ErrBadFeeSchedule)
}

func ladder(t *testing.T) FeeSchedule {
	t.Helper()
	s, err := LadderedFee([]Tier{
		{From: dec("0"), Rate: dec("0.01")},
		{From: dec("1000"), Rate: dec("0.005")},
		{From: dec("10000"), Rate: dec("0.001")},
	})
	require.NoError(t, err)
	return s
}

func TestLadderedFeeMarginalRates(t *testing.T) {
	s := ladder(t)

	// Entirely inside the first tier.
	assert.Equal(t, "5", s.Fee(dec("500")).String())
	// Tier boundary is an inclusive lower bound: exactly 1000 pays only
	// the first tier.
	assert.Equal(t, "10", s.Fee(dec("1000")).String())
	// 1000*0.01 + 500*0.005 = 12.50
	assert.Equal(t, "12.5", s.Fee(dec("1500")).String())
	// 1000*0.01 + 9000*0.005 + 10000*0.001 = 10 + 45 + 10 = 65
	assert.Equal(t, "65", s.Fee(dec("20000")).String())
}

func TestLadderedFeeTierContributionsSum(t *testing.T) {
	s := ladder(t)
	value := dec("20000")

	// Sum of per-tier marginal contributions equals the total fee.
	sum := dec("1000").Mul(dec("0.01")).
		Add(dec("9000").Mul(dec("0.005"))).
		Add(dec("10000").Mul(dec("0.001")))
	assert.True(t, s.Fee(value).Equal(sum.Round(2)), "fee %s != sum %s", s.Fee(value), sum)
}

func TestLadderedFeeMonotonic(t *testing.T) {
	s := ladder(t)
	prev := decimal.Zero
	for _, v := range []string{"0", "100", "999.99", "1000", "1000.01", "5000", "10000", "50000"} {
		fee := s.Fee(dec(v))
		assert.True(t, fee.GreaterThanOrEqual(prev), "fee(%s)=%s < previous %s", v, fee, prev)
		prev = fee
	}
}

func TestLadderedFeeValidation(t *testing.T) {
	_, err := LadderedFee(nil)
	assert.ErrorIs(t, err, ErrBadFeeSchedule)

	_, err = LadderedFee([]Tier{{From: dec("100"), Rate: dec("0.01")}})
	assert.ErrorIs(t, err, ErrBadFeeSchedule, "first tier must start at zero")

	_, err = LadderedFee([]Tier{
		{From: dec("0"), Rate: dec("0.01")},
		{From: dec("0"), Rate: dec("0.005")},
	})
	assert.ErrorIs(t, err, ErrBadFeeSchedule, "bounds must ascend")

	_, err = LadderedFee([]Tier{{From: dec("0"), Rate: dec("-0.01")}})
	assert.ErrorIs(t, err, ErrBadFeeSchedule)
}

func TestManagementFeeCalculators(t *testing.T) {
	m, err := RateManagementFee(dec("0.01"))
	require.NoError(t, err)
	assert.Equal(t, "100", m.Fee(dec("10000")).String())

	lm, err := LadderedManagementFee([]Tier{
		{From: dec("0"), Rate: dec("0.02")},
		{From: dec("5000"), Rate: dec("0.01")},
	})
	require.NoError(t, err)
	// 5000*0.02 + 5000*0.01 = 150
	assert.Equal(t, "150", lm.Fee(dec("10000")).String())

	assert.True(t, NoManagementFee().Fee(dec("10000")).IsZero())
}
