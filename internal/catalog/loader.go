// Package catalog loads the static case and valuation data into an
// immutable snapshot at startup. Nothing reads catalog data as ambient
// global state; the snapshot is passed explicitly to whoever needs it.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/ludik-gifts/backend/internal/domain"
)

// Sentinel errors for catalog loading
var (
	ErrDuplicateCaseID = errors.New("duplicate case id")
	ErrInvalidConfig   = errors.New("invalid configuration")
)

// Config file names, resolved against the catalog directory
const (
	CasesFile       = "cases.json"
	FloorPricesFile = "floor_prices.json"
	GiftImagesFile  = "gift_images.json"
)

// Config represents the JSON configuration for the prize catalog
type Config struct {
	Cases      []domain.CaseDefinition
	Floors     map[string]decimal.Decimal
	GiftImages map[string]string // prize name -> Telegram gift ID
}

// Load reads and validates the catalog configuration from dir.
func Load(dir string) (*Config, error) {
	cfg := &Config{}

	if err := readJSON(filepath.Join(dir, CasesFile), &cfg.Cases); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, FloorPricesFile), &cfg.Floors); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, GiftImagesFile), &cfg.GiftImages); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// Validate checks the structural invariants the calibrator relies on:
// unique case IDs, positive prices, non-negative weights and floor prices.
func Validate(cfg *Config) error {
	seen := make(map[string]bool, len(cfg.Cases))
	for _, c := range cfg.Cases {
		if c.ID == "" {
			return fmt.Errorf("%w: case with empty id", ErrInvalidConfig)
		}
		if seen[c.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateCaseID, c.ID)
		}
		seen[c.ID] = true

		if !c.PriceTON.IsPositive() {
			return fmt.Errorf("%w: case %s has non-positive price", ErrInvalidConfig, c.ID)
		}
		if len(c.Prizes) == 0 {
			return fmt.Errorf("%w: case %s has no prizes", ErrInvalidConfig, c.ID)
		}
		for _, p := range c.Prizes {
			if p.Name == "" {
				return fmt.Errorf("%w: case %s has a prize with empty name", ErrInvalidConfig, c.ID)
			}
			if p.RawWeight.IsNegative() {
				return fmt.Errorf("%w: case %s prize %s has negative weight", ErrInvalidConfig, c.ID, p.Name)
			}
		}
	}

	for name, floor := range cfg.Floors {
		if floor.IsNegative() {
			return fmt.Errorf("%w: floor price for %s is negative", ErrInvalidConfig, name)
		}
	}
	return nil
}
