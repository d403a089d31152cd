package venn

import (
	"github.com/vennkit/vennkit/pkg/errors"
)

// Tier is a discrete configuration bucket chosen by element-count magnitude.
// Each tier supplies the default radius, font size, and inter-element padding
// used before any solving occurs.
type Tier string

// Tiers ordered from roomiest to most crowded. Extreme is the unbounded top
// bucket and carries the most conservative defaults.
const (
	TierComfortable Tier = "comfortable"
	TierModerate    Tier = "moderate"
	TierTight       Tier = "tight"
	TierExtreme     Tier = "extreme"
)

// TierParams are the geometry defaults a tier supplies.
type TierParams struct {
	// Name of the tier.
	Name Tier `json:"name" toml:"name"`
	// MaxCount is the largest per-region element count this tier accepts.
	// Zero means unbounded (the top bucket).
	MaxCount int `json:"max_count" toml:"max_count"`
	// Radius is the circle radius in layout units.
	Radius float64 `json:"radius" toml:"radius"`
	// FontSize is the starting label font size.
	FontSize int `json:"font_size" toml:"font_size"`
	// Padding is the inter-element padding in layout units.
	Padding float64 `json:"padding" toml:"padding"`
}

// Config carries every tuning constant of the layout engine. A Config value
// is passed explicitly into each call; nothing is read from process-wide
// state, so two calls with equal Counts and Config always agree.
type Config struct {
	// Tiers in ascending MaxCount order; the last entry must be unbounded.
	Tiers []TierParams `json:"tiers" toml:"tiers"`

	// FontToUnit converts a font size to an element size in layout units
	// (elementSize = fontSize / FontToUnit).
	FontToUnit float64 `json:"font_to_unit" toml:"font_to_unit"`

	// PackingEfficiency estimates how much of a region's area packed
	// elements can actually use (< 1). It only shapes the solved
	// separation; real capacity always comes from the lattice scan.
	PackingEfficiency float64 `json:"packing_efficiency" toml:"packing_efficiency"`

	// SafetyMargin inflates the requested lens area.
	SafetyMargin float64 `json:"safety_margin" toml:"safety_margin"`

	// CrescentInset positions the crescent packing anchor this fraction of
	// the radius outward from the circle center.
	CrescentInset float64 `json:"crescent_inset" toml:"crescent_inset"`

	// MaxCrescentFraction limits the crescent packing radius to this
	// fraction of the circle radius before label sizes shrink.
	MaxCrescentFraction float64 `json:"max_crescent_fraction" toml:"max_crescent_fraction"`

	// MaxLatticePoints caps the packing lattice scan. An exceeded cap is
	// treated as insufficient capacity.
	MaxLatticePoints int `json:"max_lattice_points" toml:"max_lattice_points"`
}

// ContainmentSlack is the extra footprint fraction kept clear of region
// boundaries: an element of size s claims s·(1+ContainmentSlack)/2 around its
// center, so no element visually crosses a circle edge.
const ContainmentSlack = 0.10

// crescentRescale backs shrunk crescent labels off their upper bound so the
// recomputed radius lands safely under the limit.
const crescentRescale = 0.9

// DefaultConfig returns the tuning constants used by the hosted renderers.
func DefaultConfig() Config {
	return Config{
		Tiers: []TierParams{
			{Name: TierComfortable, MaxCount: 6, Radius: 2.2, FontSize: 48, Padding: 0.45},
			{Name: TierModerate, MaxCount: 12, Radius: 2.2, FontSize: 44, Padding: 0.40},
			{Name: TierTight, MaxCount: 24, Radius: 2.2, FontSize: 40, Padding: 0.35},
			{Name: TierExtreme, MaxCount: 0, Radius: 1.8, FontSize: 30, Padding: 0.22},
		},
		FontToUnit:          95.0,
		PackingEfficiency:   0.75,
		SafetyMargin:        1.15,
		CrescentInset:       0.35,
		MaxCrescentFraction: 0.65,
		MaxLatticePoints:    4096,
	}
}

// Validate checks that the config is internally consistent.
func (cfg Config) Validate() error {
	if len(cfg.Tiers) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "config has no tiers")
	}
	prev := 0
	for i, t := range cfg.Tiers {
		if t.Radius <= 0 || t.FontSize <= 0 || t.Padding < 0 {
			return errors.New(errors.ErrCodeInvalidConfig,
				"tier %q has invalid geometry (radius=%g font=%d padding=%g)",
				t.Name, t.Radius, t.FontSize, t.Padding)
		}
		last := i == len(cfg.Tiers)-1
		if last {
			if t.MaxCount != 0 {
				return errors.New(errors.ErrCodeInvalidConfig,
					"last tier %q must be unbounded (max_count=0)", t.Name)
			}
			continue
		}
		if t.MaxCount <= prev {
			return errors.New(errors.ErrCodeInvalidConfig,
				"tier %q max_count %d must exceed the previous tier's %d",
				t.Name, t.MaxCount, prev)
		}
		prev = t.MaxCount
	}
	if cfg.FontToUnit <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "font_to_unit must be positive")
	}
	if cfg.PackingEfficiency <= 0 || cfg.PackingEfficiency > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "packing_efficiency must be in (0, 1]")
	}
	if cfg.SafetyMargin < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "safety_margin must be >= 1")
	}
	if cfg.CrescentInset < 0 || cfg.CrescentInset >= 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "crescent_inset must be in [0, 1)")
	}
	if cfg.MaxCrescentFraction <= 0 || cfg.MaxCrescentFraction > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "max_crescent_fraction must be in (0, 1]")
	}
	if cfg.MaxLatticePoints <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max_lattice_points must be positive")
	}
	return nil
}

// SelectTier maps the largest per-region count onto a tier. Every
// non-negative count maps to some tier; there is no failure mode.
func (cfg Config) SelectTier(maxRegion int) (Tier, TierParams) {
	for _, t := range cfg.Tiers {
		if t.MaxCount == 0 || maxRegion <= t.MaxCount {
			return t.Name, t
		}
	}
	last := cfg.Tiers[len(cfg.Tiers)-1]
	return last.Name, last
}
