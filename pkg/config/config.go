// Package config loads layout tuning from a TOML file.
//
// Tier cut points and solver constants are tuning values, not correctness
// invariants, so operators may override them. The result is always
// materialized into an explicit venn.Config value passed into each call;
// nothing in the engine reads process-wide state.
//
// Example file:
//
//	packing_efficiency = 0.75
//	safety_margin = 1.15
//
//	[[tiers]]
//	name = "comfortable"
//	max_count = 6
//	radius = 2.2
//	font_size = 48
//	padding = 0.45
//
// Omitted values keep their defaults. If any [[tiers]] entries are present
// they replace the default tier table entirely.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/vennkit/vennkit/pkg/errors"
	"github.com/vennkit/vennkit/pkg/venn"
)

// fileConfig mirrors venn.Config with optional fields so that an absent key
// keeps its default.
type fileConfig struct {
	Tiers               []venn.TierParams `toml:"tiers"`
	FontToUnit          *float64          `toml:"font_to_unit"`
	PackingEfficiency   *float64          `toml:"packing_efficiency"`
	SafetyMargin        *float64          `toml:"safety_margin"`
	CrescentInset       *float64          `toml:"crescent_inset"`
	MaxCrescentFraction *float64          `toml:"max_crescent_fraction"`
	MaxLatticePoints    *int              `toml:"max_lattice_points"`
}

// Load reads a TOML tuning file and overlays it onto the default config.
// An empty path returns the defaults unchanged.
func Load(path string) (venn.Config, error) {
	cfg := venn.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return venn.Config{}, errors.New(errors.ErrCodeFileNotFound, "no such config file: %s", path)
	}
	if err != nil {
		return venn.Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return venn.Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}

	if len(fc.Tiers) > 0 {
		cfg.Tiers = fc.Tiers
	}
	if fc.FontToUnit != nil {
		cfg.FontToUnit = *fc.FontToUnit
	}
	if fc.PackingEfficiency != nil {
		cfg.PackingEfficiency = *fc.PackingEfficiency
	}
	if fc.SafetyMargin != nil {
		cfg.SafetyMargin = *fc.SafetyMargin
	}
	if fc.CrescentInset != nil {
		cfg.CrescentInset = *fc.CrescentInset
	}
	if fc.MaxCrescentFraction != nil {
		cfg.MaxCrescentFraction = *fc.MaxCrescentFraction
	}
	if fc.MaxLatticePoints != nil {
		cfg.MaxLatticePoints = *fc.MaxLatticePoints
	}

	if err := cfg.Validate(); err != nil {
		return venn.Config{}, err
	}
	return cfg, nil
}
