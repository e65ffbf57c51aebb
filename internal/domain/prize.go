package domain

import "github.com/shopspring/decimal"

// Prize is a static catalog entry: a named gift with a market floor value.
// TON prizes credit balance directly when converted and cannot be withdrawn.
type Prize struct {
	Name       string          `json:"name"`
	FloorValue decimal.Decimal `json:"floor_price"`
	ImageRef   string          `json:"imageFilename"`
	IsTONPrize bool            `json:"is_ton_prize"`
}

// PrizeWeight is a raw, uncalibrated entry in a case definition.
// Weights can be as small as 1e-7, which is why all calibration math stays
// in decimal until the output boundary.
type PrizeWeight struct {
	Name       string          `json:"name"`
	RawWeight  decimal.Decimal `json:"probability"`
	ImageRef   string          `json:"imageFilename,omitempty"`
	IsTONPrize bool            `json:"is_ton_prize,omitempty"`
}

// CaseDefinition is a raw case as configured: a price and weighted prizes.
type CaseDefinition struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	ImageRef string          `json:"imageFilename"`
	PriceTON decimal.Decimal `json:"priceTON"`
	Prizes   []PrizeWeight   `json:"prizes"`
}

// CalibratedPrize pairs a prize with its calibrated draw probability.
type CalibratedPrize struct {
	Prize
	Probability decimal.Decimal `json:"probability"`
}

// CalibratedCase is the output of RTP calibration: an ordered probability
// table whose probabilities sum to 1 (within 1e-7) when non-empty.
type CalibratedCase struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	ImageRef string            `json:"imageFilename"`
	PriceTON decimal.Decimal   `json:"priceTON"`
	Prizes   []CalibratedPrize `json:"prizes"`
}

// ExpectedValue returns sum(probability * floorValue) over the table.
func (c *CalibratedCase) ExpectedValue() decimal.Decimal {
	ev := decimal.Zero
	for _, p := range c.Prizes {
		ev = ev.Add(p.Probability.Mul(p.FloorValue))
	}
	return ev
}
