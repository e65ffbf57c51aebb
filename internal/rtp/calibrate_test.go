package rtp

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludik-gifts/backend/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func probabilitySum(prizes []domain.CalibratedPrize) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range prizes {
		sum = sum.Add(p.Probability)
	}
	return sum
}

func TestCalibrate_FillerAnchoredHitsTarget(t *testing.T) {
	def := domain.CaseDefinition{
		ID:       "dud",
		PriceTON: dec("2"),
		Prizes: []domain.PrizeWeight{
			{Name: "Nothing", RawWeight: dec("0.9")},
			{Name: "Candy", RawWeight: dec("0.1")},
		},
	}
	floors := map[string]decimal.Decimal{"Candy": dec("2")}

	table := Calibrate(def, floors, dec("0.88"))
	require.Len(t, table.Prizes, 2)

	// Filler is the only positive-value prize; it must carry exactly
	// targetEV / floor = 1.76 / 2 = 0.88 of the mass.
	var candy domain.CalibratedPrize
	for _, p := range table.Prizes {
		if p.Name == "Candy" {
			candy = p
		}
	}
	assert.True(t, candy.Probability.Equal(dec("0.88")), "got %s", candy.Probability)
	assert.True(t, table.ExpectedValue().Equal(dec("1.76")), "EV %s", table.ExpectedValue())
	assert.True(t, probabilitySum(table.Prizes).Sub(decimal.NewFromInt(1)).Abs().LessThanOrEqual(SumTolerance))
}

func TestCalibrate_RareTopPrizeGetsTinyShare(t *testing.T) {
	// Shape of a real case: one jackpot at a minuscule weight, cheap filler
	// carrying the rest. The filler probability must absorb whatever the
	// jackpot leaves of the target EV.
	def := domain.CaseDefinition{
		ID:       "jackpot",
		PriceTON: dec("1"),
		Prizes: []domain.PrizeWeight{
			{Name: "Jackpot", RawWeight: dec("0.000001")},
			{Name: "Nothing", RawWeight: dec("0.95")},
			{Name: "Sticker", RawWeight: dec("0.05")},
		},
	}
	floors := map[string]decimal.Decimal{
		"Jackpot": dec("3000"),
		"Sticker": dec("1.1"),
	}

	table := Calibrate(def, floors, dec("0.88"))
	require.Len(t, table.Prizes, 3)

	assert.True(t, probabilitySum(table.Prizes).Sub(decimal.NewFromInt(1)).Abs().LessThanOrEqual(SumTolerance))

	for _, p := range table.Prizes {
		assert.False(t, p.Probability.IsNegative(), "%s has negative probability", p.Name)
		if p.Name == "Sticker" {
			// rem = 0.88 - 3000*0.000001 = 0.877; 0.877 / 1.1
			assert.True(t, p.Probability.Equal(dec("0.877").Div(dec("1.1"))), "got %s", p.Probability)
		}
	}
}

func TestCalibrate_FallbackWhenFillerCannotAbsorb(t *testing.T) {
	// Required filler probability exceeds 1 (cheap filler, expensive EV
	// target), so calibration falls back to proportional scaling. Weights
	// already summing to 1 come back unchanged after normalization.
	def := domain.CaseDefinition{
		ID:       "lowfloor",
		PriceTON: dec("2"),
		Prizes: []domain.PrizeWeight{
			{Name: "Rare Gem", RawWeight: dec("0.01")},
			{Name: "Candy", RawWeight: dec("0.99")},
		},
	}
	floors := map[string]decimal.Decimal{
		"Rare Gem": dec("50"),
		"Candy":    dec("1"),
	}

	table := Calibrate(def, floors, dec("0.88"))
	require.Len(t, table.Prizes, 2)

	assert.True(t, table.Prizes[0].Probability.Equal(dec("0.01")), "got %s", table.Prizes[0].Probability)
	assert.True(t, table.Prizes[1].Probability.Equal(dec("0.99")), "got %s", table.Prizes[1].Probability)
}

func TestCalibrate_AllZeroFloorsYieldsEmptyTable(t *testing.T) {
	def := domain.CaseDefinition{
		ID:       "worthless",
		PriceTON: dec("1"),
		Prizes: []domain.PrizeWeight{
			{Name: "Unknown A", RawWeight: dec("0.5")},
			{Name: "Unknown B", RawWeight: dec("0.5")},
		},
	}

	table := Calibrate(def, map[string]decimal.Decimal{}, dec("0.88"))
	assert.Empty(t, table.Prizes)
}

func TestCalibrate_NoPrizesYieldsEmptyTable(t *testing.T) {
	def := domain.CaseDefinition{ID: "empty", PriceTON: dec("1")}

	table := Calibrate(def, map[string]decimal.Decimal{}, dec("0.88"))
	assert.Empty(t, table.Prizes)
}

func TestCalibrate_UnknownNameValuesAtZero(t *testing.T) {
	def := domain.CaseDefinition{
		ID:       "mixed",
		PriceTON: dec("2"),
		Prizes: []domain.PrizeWeight{
			{Name: "Ghost", RawWeight: dec("0.9")},
			{Name: "Candy", RawWeight: dec("0.1")},
		},
	}
	floors := map[string]decimal.Decimal{"Candy": dec("2")}

	table := Calibrate(def, floors, dec("0.88"))
	require.Len(t, table.Prizes, 2)

	for _, p := range table.Prizes {
		if p.Name == "Ghost" {
			assert.True(t, p.FloorValue.IsZero())
		}
	}
}

func TestCalibrate_FillerTieKeepsEarliest(t *testing.T) {
	def := domain.CaseDefinition{
		ID:       "tie",
		PriceTON: dec("2"),
		Prizes: []domain.PrizeWeight{
			{Name: "First", RawWeight: dec("0.5")},
			{Name: "Second", RawWeight: dec("0.5")},
		},
	}
	floors := map[string]decimal.Decimal{
		"First":  dec("2"),
		"Second": dec("2"),
	}

	table := Calibrate(def, floors, dec("0.88"))
	require.Len(t, table.Prizes, 2)

	// First is the filler: rem = 1.76 - 2*0.5 = 0.76; 0.76/2 = 0.38.
	assert.True(t, table.Prizes[0].Probability.Equal(dec("0.38")), "got %s", table.Prizes[0].Probability)
}
