package rtp

import (
	"fmt"
	"math/rand"

	"github.com/shopspring/decimal"

	"github.com/ludik-gifts/backend/internal/domain"
)

// Sampler draws prizes from a calibrated table. Draws are independent and
// identically distributed; the same prize can be won multiple times in one
// multi-draw request.
type Sampler struct {
	rnd func() float64 // Injectable for testing
}

// NewSampler creates a sampler backed by the server-side generator.
// Client input never reaches the randomness source.
func NewSampler() *Sampler {
	return &Sampler{rnd: rand.Float64} //nolint:gosec // Game odds, not key material
}

// NewSamplerWithRand creates a sampler with a custom randomness source,
// typically a seeded generator in tests.
func NewSamplerWithRand(rnd func() float64) *Sampler {
	return &Sampler{rnd: rnd}
}

// Draw samples count prizes from the table.
func (s *Sampler) Draw(table *domain.CalibratedCase, count int) ([]domain.CalibratedPrize, error) {
	if table == nil || len(table.Prizes) == 0 {
		return nil, fmt.Errorf("%w: empty prize table", domain.ErrCaseNotCalibrated)
	}
	if count <= 0 {
		return nil, fmt.Errorf("%w: draw count must be positive", domain.ErrInvalidInput)
	}

	drawn := make([]domain.CalibratedPrize, 0, count)
	for i := 0; i < count; i++ {
		drawn = append(drawn, s.drawOne(table.Prizes))
	}
	return drawn, nil
}

// drawOne walks the cumulative distribution. The final entry absorbs any
// residual below 1, so the walk always terminates on a prize.
func (s *Sampler) drawOne(prizes []domain.CalibratedPrize) domain.CalibratedPrize {
	roll := decimal.NewFromFloat(s.rnd())

	cumulative := decimal.Zero
	for _, p := range prizes {
		cumulative = cumulative.Add(p.Probability)
		if roll.LessThan(cumulative) {
			return p
		}
	}
	return prizes[len(prizes)-1]
}
