package rtp

import (
	"github.com/shopspring/decimal"

	"github.com/ludik-gifts/backend/internal/domain"
)

// SumTolerance is the maximum drift allowed between the probability sum and
// exactly 1 before the residual is folded back into the first entry.
var SumTolerance = decimal.New(1, -7) // 1e-7

// Calibrate converts a raw case definition plus a floor-price valuation
// table into a probability table whose expected value hits
// price × targetRTP.
//
// The filler-anchored method fixes every non-filler prize's share first,
// then assigns the cheapest positive-value prize ("filler") whatever
// probability mass is needed to land on the target EV. When that required
// probability falls outside [0,1] the proportional fallback rescales all
// weights by targetEV/EV instead.
//
// Cases where no prize has a positive floor price cannot be calibrated and
// yield an empty table; callers treat those as misconfigured.
//
// All arithmetic is decimal end to end: raw weights go down to 1e-7 and
// float accumulation across dozens of prizes would drift past the
// tolerance.
func Calibrate(def domain.CaseDefinition, floors map[string]decimal.Decimal, targetRTP decimal.Decimal) domain.CalibratedCase {
	out := domain.CalibratedCase{
		ID:       def.ID,
		Name:     def.Name,
		ImageRef: def.ImageRef,
		PriceTON: def.PriceTON,
	}

	entries := buildEntries(def, floors)
	if len(entries) == 0 || allZeroValue(entries) {
		return out
	}

	targetEV := def.PriceTON.Mul(targetRTP)

	filler := fillerIndex(entries)
	if filler == -1 {
		out.Prizes = proportional(entries, targetEV)
		return out
	}

	nonFillerEV := decimal.Zero
	nonFillerWeight := decimal.Zero
	for i, e := range entries {
		if i == filler {
			continue
		}
		nonFillerEV = nonFillerEV.Add(e.FloorValue.Mul(e.Probability))
		nonFillerWeight = nonFillerWeight.Add(e.Probability)
	}

	remainingEV := targetEV.Sub(nonFillerEV)
	if entries[filler].FloorValue.LessThanOrEqual(decimal.Zero) {
		out.Prizes = proportional(entries, targetEV)
		return out
	}

	requiredFillerProb := remainingEV.Div(entries[filler].FloorValue)
	if requiredFillerProb.IsNegative() || requiredFillerProb.GreaterThan(decimal.NewFromInt(1)) {
		out.Prizes = proportional(entries, targetEV)
		return out
	}

	if nonFillerWeight.IsPositive() {
		scale := decimal.NewFromInt(1).Sub(requiredFillerProb).Div(nonFillerWeight)
		for i := range entries {
			if i != filler {
				entries[i].Probability = entries[i].Probability.Mul(scale)
			}
		}
	}
	entries[filler].Probability = requiredFillerProb

	correctResidual(entries)
	out.Prizes = entries
	return out
}

// buildEntries resolves floor prices and seeds each entry's probability
// with its raw weight.
func buildEntries(def domain.CaseDefinition, floors map[string]decimal.Decimal) []domain.CalibratedPrize {
	entries := make([]domain.CalibratedPrize, 0, len(def.Prizes))
	for _, p := range def.Prizes {
		floor := floors[p.Name] // absent names value at zero
		entries = append(entries, domain.CalibratedPrize{
			Prize: domain.Prize{
				Name:       p.Name,
				FloorValue: floor,
				ImageRef:   p.ImageRef,
				IsTONPrize: p.IsTONPrize,
			},
			Probability: p.RawWeight,
		})
	}
	return entries
}

func allZeroValue(entries []domain.CalibratedPrize) bool {
	for _, e := range entries {
		if !e.FloorValue.IsZero() {
			return false
		}
	}
	return true
}

// fillerIndex returns the prize with the minimum strictly positive floor
// value, or -1 when none exists. Ties keep the earliest entry, which keeps
// calibration order-stable.
func fillerIndex(entries []domain.CalibratedPrize) int {
	idx := -1
	for i, e := range entries {
		if !e.FloorValue.IsPositive() {
			continue
		}
		if idx == -1 || e.FloorValue.LessThan(entries[idx].FloorValue) {
			idx = i
		}
	}
	return idx
}

// proportional is the fallback method: scale every weight by targetEV/EV,
// then normalize to a proper distribution. A zero unscaled EV means the
// case cannot be calibrated at all.
func proportional(entries []domain.CalibratedPrize, targetEV decimal.Decimal) []domain.CalibratedPrize {
	currentEV := decimal.Zero
	for _, e := range entries {
		currentEV = currentEV.Add(e.FloorValue.Mul(e.Probability))
	}
	if currentEV.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	scale := targetEV.Div(currentEV)
	total := decimal.Zero
	for i := range entries {
		entries[i].Probability = entries[i].Probability.Mul(scale)
		total = total.Add(entries[i].Probability)
	}
	if total.LessThanOrEqual(decimal.Zero) {
		return nil
	}
	for i := range entries {
		entries[i].Probability = entries[i].Probability.Div(total)
	}

	correctResidual(entries)
	return entries
}

// correctResidual folds any drift from rounding into the first entry so
// the probabilities sum to exactly 1. Deterministic and order-stable.
func correctResidual(entries []domain.CalibratedPrize) {
	if len(entries) == 0 {
		return
	}
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Probability)
	}
	residual := decimal.NewFromInt(1).Sub(sum)
	if residual.Abs().GreaterThan(SumTolerance) {
		entries[0].Probability = entries[0].Probability.Add(residual)
	}
}
