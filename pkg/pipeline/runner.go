package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vennkit/vennkit/pkg/cache"
	"github.com/vennkit/vennkit/pkg/diagram"
	"github.com/vennkit/vennkit/pkg/errors"
	"github.com/vennkit/vennkit/pkg/render"
	"github.com/vennkit/vennkit/pkg/venn"
	"github.com/vennkit/vennkit/pkg/venn/pack"
)

// Runner executes pipeline stages against a cache backend.
type Runner struct {
	cache  cache.Cache
	logger *log.Logger
}

// NewRunner creates a Runner. A nil cache disables caching and a nil logger
// silences stage logs.
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{cache: c, logger: logger}
}

// Close releases the underlying cache.
func (r *Runner) Close() error {
	return r.cache.Close()
}

// ComputeLayout runs the layout stage, consulting the cache first.
func (r *Runner) ComputeLayout(ctx context.Context, opts Options) (venn.Layout, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return venn.Layout{}, false, err
	}
	counts, err := opts.Counts()
	if err != nil {
		return venn.Layout{}, false, err
	}

	key := cache.LayoutKey(opts.LayoutKeyOpts())
	if data, ok, err := r.cache.Get(ctx, key); err == nil && ok {
		var layout venn.Layout
		if err := json.Unmarshal(data, &layout); err == nil {
			r.logger.Debug("layout cache hit", "key", key)
			return layout, true, nil
		}
		// Corrupt entry, drop it and recompute.
		_ = r.cache.Delete(ctx, key)
	}

	layout, err := venn.ComputeLayout(counts, opts.Config)
	if err != nil {
		return venn.Layout{}, false, err
	}

	if data, err := json.Marshal(layout); err == nil {
		if err := r.cache.Set(ctx, key, data, DefaultTTL); err != nil {
			r.logger.Debug("layout cache write failed", "error", err)
		}
	}
	return layout, false, nil
}

// PackElements runs the packing stage. Packing is fast relative to its
// serialized size so it is not cached.
func (r *Runner) PackElements(opts Options, layout venn.Layout) (diagram.Diagram, error) {
	counts, err := opts.Counts()
	if err != nil {
		return diagram.Diagram{}, err
	}

	elements := opts.Elements
	if len(elements) == 0 {
		elements = PlaceholderElements(counts)
	}

	positions, err := pack.Pack(elements, counts, layout)
	if err != nil {
		return diagram.Diagram{}, err
	}
	return diagram.New(elements, counts, layout, positions), nil
}

// Render generates one artifact per requested format, consulting the
// artifact cache per format.
func (r *Runner) Render(ctx context.Context, opts Options, d diagram.Diagram) (map[string][]byte, bool, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	payload, err := d.Marshal()
	if err != nil {
		return nil, false, err
	}
	diagramHash := cache.Hash(payload)

	allHit := len(opts.Formats) > 0
	for _, format := range opts.Formats {
		key := cache.ArtifactKey(diagramHash, opts.ArtifactKeyOpts(format))
		if data, ok, err := r.cache.Get(ctx, key); err == nil && ok {
			artifacts[format] = data
			continue
		}
		allHit = false

		data, err := render.Render(d, format, opts.RenderOptions())
		if err != nil {
			return nil, false, err
		}
		artifacts[format] = data
		if err := r.cache.Set(ctx, key, data, DefaultTTL); err != nil {
			r.logger.Debug("artifact cache write failed", "format", format, "error", err)
		}
	}
	return artifacts, allHit, nil
}

// Execute runs the complete pipeline: layout, pack, render.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	counts, err := opts.Counts()
	if err != nil {
		return nil, err
	}

	result := &Result{Counts: counts}

	start := time.Now()
	layout, hit, err := r.ComputeLayout(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "layout stage failed")
	}
	result.Layout = layout
	result.Stats.LayoutTime = time.Since(start)
	result.CacheInfo.LayoutHit = hit
	r.logger.Debug("layout computed",
		"tier", layout.Tier,
		"separation", layout.CircleSeparation,
		"valid", layout.Valid,
		"cached", hit)

	if opts.SkipPack {
		return result, nil
	}

	start = time.Now()
	d, err := r.PackElements(opts, layout)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "pack stage failed")
	}
	result.Diagram = d
	result.Stats.PackTime = time.Since(start)
	r.logger.Debug("elements packed", "count", len(d.Positions))

	if len(opts.Formats) == 0 {
		return result, nil
	}

	start = time.Now()
	artifacts, renderHit, err := r.Render(ctx, opts, d)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "render stage failed")
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(start)
	result.CacheInfo.RenderHit = renderHit

	return result, nil
}
