// Package upgrade implements the value-ratio success model for gambling an
// owned prize into a more valuable one.
package upgrade

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ludik-gifts/backend/internal/domain"
)

// powPrecision bounds the decimal exponentiation. Chances are percentages
// compared against a uniform roll on [0,100), so 12 places is plenty.
const powPrecision = 12

// SuccessChance returns the success probability, in percent, of upgrading
// an item worth currentValue into one worth desiredValue:
//
//	x      = desiredValue / currentValue
//	chance = clamp(maxChance × riskFactor^(x−1), minChance, maxChance)
//
// The result is monotonically non-increasing in x and always lies in
// [minChance, maxChance]. currentValue must be positive and desiredValue
// strictly greater; callers reject anything else before invoking the model.
func SuccessChance(currentValue, desiredValue, maxChance, minChance, riskFactor decimal.Decimal) (decimal.Decimal, error) {
	if !currentValue.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: current value must be positive", domain.ErrInvalidInput)
	}
	if desiredValue.LessThanOrEqual(currentValue) {
		return decimal.Zero, domain.ErrUpgradeTargetTooCheap
	}

	x := desiredValue.Div(currentValue)
	exponent := x.Sub(decimal.NewFromInt(1))

	factor, err := riskFactor.PowWithPrecision(exponent, powPrecision)
	if err != nil {
		return decimal.Zero, fmt.Errorf("computing risk decay: %w", err)
	}

	chance := maxChance.Mul(factor)
	if chance.LessThan(minChance) {
		return minChance, nil
	}
	if chance.GreaterThan(maxChance) {
		return maxChance, nil
	}
	return chance, nil
}

// Roll decides an upgrade outcome: one uniform draw on [0,100) compared
// against the chance percentage.
func Roll(chance decimal.Decimal, rnd func() float64) bool {
	roll := decimal.NewFromFloat(rnd() * 100)
	return roll.LessThan(chance)
}
