package upgrade

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludik-gifts/backend/internal/domain"
)

var (
	maxChance  = decimal.NewFromInt(75)
	minChance  = decimal.NewFromInt(3)
	riskFactor = decimal.NewFromFloat(0.60)
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSuccessChance_DoubleValue(t *testing.T) {
	// x = 2 means one full risk-factor decay: 75 * 0.6 = 45.
	chance, err := SuccessChance(dec("10"), dec("20"), maxChance, minChance, riskFactor)
	require.NoError(t, err)

	assert.True(t, chance.Sub(dec("45")).Abs().LessThan(dec("0.000001")), "got %s", chance)
}

func TestSuccessChance_ModestStep(t *testing.T) {
	// x = 1.5 -> 75 * 0.6^0.5 ~= 58.09.
	chance, err := SuccessChance(dec("10"), dec("15"), maxChance, minChance, riskFactor)
	require.NoError(t, err)

	assert.True(t, chance.GreaterThan(dec("58")) && chance.LessThan(dec("58.2")), "got %s", chance)
}

func TestSuccessChance_ClampsToMinimum(t *testing.T) {
	// x = 20 decays far below the floor.
	chance, err := SuccessChance(dec("1"), dec("20"), maxChance, minChance, riskFactor)
	require.NoError(t, err)

	assert.True(t, chance.Equal(minChance), "got %s", chance)
}

func TestSuccessChance_ClampsToMaximum(t *testing.T) {
	// A risk factor above 1 would inflate the chance past the ceiling.
	chance, err := SuccessChance(dec("10"), dec("20"), maxChance, minChance, dec("1.5"))
	require.NoError(t, err)

	assert.True(t, chance.Equal(maxChance), "got %s", chance)
}

func TestSuccessChance_MonotonicInRatio(t *testing.T) {
	prev := decimal.NewFromInt(100)
	for _, desired := range []string{"11", "15", "20", "30", "50", "100"} {
		chance, err := SuccessChance(dec("10"), dec(desired), maxChance, minChance, riskFactor)
		require.NoError(t, err)
		assert.True(t, chance.LessThanOrEqual(prev), "chance rose at desired=%s", desired)
		prev = chance
	}
}

func TestSuccessChance_TargetNotMoreValuable(t *testing.T) {
	_, err := SuccessChance(dec("10"), dec("10"), maxChance, minChance, riskFactor)
	assert.ErrorIs(t, err, domain.ErrUpgradeTargetTooCheap)

	_, err = SuccessChance(dec("10"), dec("5"), maxChance, minChance, riskFactor)
	assert.ErrorIs(t, err, domain.ErrUpgradeTargetTooCheap)
}

func TestSuccessChance_NonPositiveCurrentValue(t *testing.T) {
	_, err := SuccessChance(decimal.Zero, dec("5"), maxChance, minChance, riskFactor)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = SuccessChance(dec("-1"), dec("5"), maxChance, minChance, riskFactor)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRoll(t *testing.T) {
	chance := dec("45")

	assert.True(t, Roll(chance, func() float64 { return 0.449 }))
	assert.False(t, Roll(chance, func() float64 { return 0.45 }))
	assert.False(t, Roll(chance, func() float64 { return 0.99 }))
	assert.False(t, Roll(decimal.Zero, func() float64 { return 0 }))
}
