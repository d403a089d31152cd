// Package pipeline provides the core computation pipeline for vennkit.
//
// This package implements the complete counts → layout → pack → render flow
// used by both the CLI and the API. Centralizing it ensures consistent
// behavior across entry points and gives every caller the same caching.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Layout: solve circle geometry and region sizing from the counts
//  2. Pack: place every element at a collision-free position
//  3. Render: generate output artifacts (SVG, PNG, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
// Layout and render results are cached; both stages are pure functions of
// their inputs, so cached entries never go stale.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, logger)
//	opts := pipeline.Options{
//	    AOnly:        3,
//	    BOnly:        3,
//	    Intersection: 2,
//	    Formats:      []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vennkit/vennkit/pkg/cache"
	"github.com/vennkit/vennkit/pkg/diagram"
	"github.com/vennkit/vennkit/pkg/render"
	"github.com/vennkit/vennkit/pkg/venn"
)

// Default values shared by CLI and API.
const (
	// DefaultTTL is how long cached layouts and artifacts live. The
	// computation is pure, so the TTL only bounds disk usage.
	DefaultTTL = 30 * 24 * time.Hour

	// DefaultScale is the default pixels-per-unit for rendering.
	DefaultScale = 100.0

	// DefaultFillAlpha is the default circle fill opacity.
	DefaultFillAlpha = 0.25
)

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Region counts (the canonical input of the layout engine).
	AOnly        int `json:"a_only"`
	BOnly        int `json:"b_only"`
	Intersection int `json:"intersection"`

	// Elements in canonical packing order (A-exclusive, shared,
	// B-exclusive). Optional: when empty, placeholder labels are
	// generated so that packing and rendering still exercise the full
	// layout.
	Elements []string `json:"elements,omitempty"`

	// Render options.
	Formats    []string `json:"formats,omitempty"`
	Scale      float64  `json:"scale,omitempty"`
	HideLabels bool     `json:"hide_labels,omitempty"`
	FillAlpha  float64  `json:"fill_alpha,omitempty"`

	// SkipPack stops after the layout stage.
	SkipPack bool `json:"skip_pack,omitempty"`

	// Runtime options (not serialized).
	Config venn.Config `json:"-"`
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Counts derived from the options.
	Counts venn.Counts

	// Layout is the computed layout descriptor.
	Layout venn.Layout

	// Diagram bundles layout and positions; zero unless packing ran.
	Diagram diagram.Diagram

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	LayoutTime time.Duration
	PackTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.Config.FontToUnit == 0 {
		o.Config = venn.DefaultConfig()
	}
	if err := o.Config.Validate(); err != nil {
		return err
	}

	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.FillAlpha == 0 {
		o.FillAlpha = DefaultFillAlpha
	}
	if len(o.Formats) == 0 && !o.SkipPack {
		o.Formats = []string{render.FormatJSON}
	}
	for _, f := range o.Formats {
		if err := render.ValidateFormat(f); err != nil {
			return err
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// Counts assembles the venn.Counts for this run, validating the sizes.
func (o *Options) Counts() (venn.Counts, error) {
	return venn.NewCounts(o.AOnly, o.BOnly, o.Intersection)
}

// RenderOptions converts the serialized render fields.
func (o *Options) RenderOptions() render.Options {
	return render.Options{
		Scale:      o.Scale,
		ShowLabels: !o.HideLabels,
		FillAlpha:  o.FillAlpha,
	}
}

// LayoutKeyOpts returns cache key options for the layout stage.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		AOnly:        o.AOnly,
		BOnly:        o.BOnly,
		Intersection: o.Intersection,
		ConfigHash:   configHash(o.Config),
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		Scale:      o.Scale,
		ShowLabels: !o.HideLabels,
		FillAlpha:  o.FillAlpha,
	}
}

// configHash fingerprints a config for cache keys.
func configHash(cfg venn.Config) string {
	data, _ := json.Marshal(cfg)
	return cache.Hash(data)
}

// PlaceholderElements generates stable placeholder labels in canonical
// packing order: a1..aN for A-exclusive, ab1..abN shared, b1..bN
// B-exclusive.
func PlaceholderElements(counts venn.Counts) []string {
	out := make([]string, 0, counts.Union)
	for i := 1; i <= counts.AOnly; i++ {
		out = append(out, fmt.Sprintf("a%d", i))
	}
	for i := 1; i <= counts.Intersection; i++ {
		out = append(out, fmt.Sprintf("ab%d", i))
	}
	for i := 1; i <= counts.BOnly; i++ {
		out = append(out, fmt.Sprintf("b%d", i))
	}
	return out
}
