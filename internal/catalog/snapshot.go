package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ludik-gifts/backend/internal/domain"
	"github.com/ludik-gifts/backend/internal/rtp"
)

// Snapshot is the calibrated, read-only view of the catalog the rest of
// the service works against. It is built once at startup; concurrent
// reads need no locking.
type Snapshot struct {
	cases      []domain.CaseDefinition
	calibrated map[string]*domain.CalibratedCase
	floors     map[string]decimal.Decimal
	giftImages map[string]string
}

// NewSnapshot calibrates every case in cfg against targetRTP and freezes
// the result. A case whose probabilities cannot be produced (all-zero
// floors and weights never happen past Validate) still calibrates via the
// proportional fallback, so this only fails on genuinely broken data.
func NewSnapshot(cfg *Config, targetRTP decimal.Decimal) (*Snapshot, error) {
	snap := &Snapshot{
		cases:      make([]domain.CaseDefinition, len(cfg.Cases)),
		calibrated: make(map[string]*domain.CalibratedCase, len(cfg.Cases)),
		floors:     cfg.Floors,
		giftImages: cfg.GiftImages,
	}
	copy(snap.cases, cfg.Cases)

	// Resolve artwork before calibration so calibrated tables carry the
	// final image references.
	for i := range snap.cases {
		for j := range snap.cases[i].Prizes {
			if snap.cases[i].Prizes[j].ImageRef == "" {
				snap.cases[i].Prizes[j].ImageRef = snap.ImageRef(snap.cases[i].Prizes[j].Name)
			}
		}
	}

	for _, def := range snap.cases {
		table := rtp.Calibrate(def, cfg.Floors, targetRTP)
		if len(table.Prizes) == 0 {
			return nil, fmt.Errorf("case %s produced an empty calibrated table", def.ID)
		}
		snap.calibrated[def.ID] = &table
	}
	return snap, nil
}

// Cases returns the case definitions in catalog order.
func (s *Snapshot) Cases() []domain.CaseDefinition {
	out := make([]domain.CaseDefinition, len(s.cases))
	copy(out, s.cases)
	return out
}

// Case returns the definition for id, or ErrCaseNotFound.
func (s *Snapshot) Case(id string) (domain.CaseDefinition, error) {
	for _, c := range s.cases {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.CaseDefinition{}, domain.ErrCaseNotFound
}

// Calibrated returns the probability table for id, or ErrCaseNotFound.
func (s *Snapshot) Calibrated(id string) (*domain.CalibratedCase, error) {
	table, ok := s.calibrated[id]
	if !ok {
		return nil, domain.ErrCaseNotFound
	}
	return table, nil
}

// FloorPrice returns the market floor value for a prize name. Unknown
// names value at zero, matching how calibration treats them.
func (s *Snapshot) FloorPrice(name string) decimal.Decimal {
	return s.floors[name]
}
