package pipeline

import (
	"context"
	"reflect"
	"testing"

	"github.com/vennkit/vennkit/pkg/cache"
	"github.com/vennkit/vennkit/pkg/errors"
	"github.com/vennkit/vennkit/pkg/render"
	"github.com/vennkit/vennkit/pkg/venn"
)

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{AOnly: 3, BOnly: 3, Intersection: 2}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults error: %v", err)
	}

	if opts.Scale != DefaultScale {
		t.Errorf("Scale = %v, want %v", opts.Scale, DefaultScale)
	}
	if opts.FillAlpha != DefaultFillAlpha {
		t.Errorf("FillAlpha = %v, want %v", opts.FillAlpha, DefaultFillAlpha)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != render.FormatJSON {
		t.Errorf("Formats = %v, want [json]", opts.Formats)
	}
	if opts.Config.FontToUnit != venn.DefaultConfig().FontToUnit {
		t.Error("zero config should be replaced with defaults")
	}
	if opts.Logger == nil {
		t.Error("nil logger should be replaced with a discard logger")
	}
}

func TestValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{AOnly: 1, BOnly: 1, Intersection: 1, Scale: 42}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("first call error: %v", err)
	}
	first := opts.Formats
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second call error: %v", err)
	}
	if opts.Scale != 42 {
		t.Errorf("Scale = %v, want 42", opts.Scale)
	}
	if !reflect.DeepEqual(opts.Formats, first) {
		t.Error("repeated calls should not change formats")
	}
}

func TestValidateAndSetDefaultsSkipPack(t *testing.T) {
	opts := Options{AOnly: 1, BOnly: 1, Intersection: 0, SkipPack: true}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults error: %v", err)
	}
	if len(opts.Formats) != 0 {
		t.Errorf("SkipPack run should get no default formats, got %v", opts.Formats)
	}
}

func TestValidateAndSetDefaultsInvalidFormat(t *testing.T) {
	opts := Options{AOnly: 1, BOnly: 1, Formats: []string{"gif"}}
	if err := opts.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("want INVALID_FORMAT, got %v", err)
	}
}

func TestPlaceholderElements(t *testing.T) {
	counts, err := venn.NewCounts(2, 3, 1)
	if err != nil {
		t.Fatalf("NewCounts error: %v", err)
	}
	got := PlaceholderElements(counts)
	want := []string{"a1", "a2", "ab1", "b1", "b2", "b3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PlaceholderElements = %v, want %v", got, want)
	}
}

func TestLayoutKeyOptsIncludeConfig(t *testing.T) {
	a := Options{AOnly: 1, BOnly: 1, Intersection: 1}
	if err := a.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults error: %v", err)
	}

	b := a
	b.Config.PackingEfficiency = 0.5

	if a.LayoutKeyOpts().ConfigHash == b.LayoutKeyOpts().ConfigHash {
		t.Error("different configs should produce different config hashes")
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(cache.NewNullCache(), nil)
	defer r.Close()

	opts := Options{
		AOnly: 3, BOnly: 3, Intersection: 2,
		Formats: []string{render.FormatSVG, render.FormatJSON},
	}
	result, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if !result.Layout.Valid {
		t.Error("layout should be valid")
	}
	if len(result.Diagram.Positions) != 8 {
		t.Errorf("diagram has %d positions, want 8", len(result.Diagram.Positions))
	}
	if len(result.Artifacts) != 2 {
		t.Errorf("got %d artifacts, want 2", len(result.Artifacts))
	}
	if _, ok := result.Artifacts["svg"]; !ok {
		t.Error("missing svg artifact")
	}
	if result.CacheInfo.LayoutHit || result.CacheInfo.RenderHit {
		t.Error("null cache should never hit")
	}
}

func TestExecuteSkipPack(t *testing.T) {
	r := NewRunner(nil, nil)
	defer r.Close()

	opts := Options{AOnly: 3, BOnly: 3, Intersection: 2, SkipPack: true}
	result, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if len(result.Diagram.Positions) != 0 {
		t.Error("SkipPack run should not pack")
	}
	if len(result.Artifacts) != 0 {
		t.Error("SkipPack run should not render")
	}
	if result.Layout.CircleRadius == 0 {
		t.Error("SkipPack run should still compute the layout")
	}
}

func TestExecuteCustomElements(t *testing.T) {
	r := NewRunner(cache.NewNullCache(), nil)
	defer r.Close()

	opts := Options{
		AOnly: 1, BOnly: 1, Intersection: 1,
		Elements: []string{"go", "both", "rust"},
	}
	result, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	for _, id := range opts.Elements {
		if _, ok := result.Diagram.Positions[id]; !ok {
			t.Errorf("missing position for element %q", id)
		}
	}
}

func TestExecuteInvalidCounts(t *testing.T) {
	r := NewRunner(nil, nil)
	defer r.Close()

	_, err := r.Execute(context.Background(), Options{AOnly: -1})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("want INVALID_INPUT, got %v", err)
	}
}

func TestExecuteWrongElementCount(t *testing.T) {
	r := NewRunner(nil, nil)
	defer r.Close()

	opts := Options{AOnly: 2, BOnly: 2, Intersection: 0, Elements: []string{"only-one"}}
	_, err := r.Execute(context.Background(), opts)
	if !errors.Is(err, errors.ErrCodeInvalidElements) {
		t.Errorf("want INVALID_ELEMENTS, got %v", err)
	}
}

func TestLayoutCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	r := NewRunner(fc, nil)
	defer r.Close()

	opts := Options{AOnly: 3, BOnly: 3, Intersection: 2, SkipPack: true}

	first, hit, err := r.ComputeLayout(ctx, opts)
	if err != nil {
		t.Fatalf("ComputeLayout error: %v", err)
	}
	if hit {
		t.Error("first run should miss the cache")
	}

	second, hit, err := r.ComputeLayout(ctx, opts)
	if err != nil {
		t.Fatalf("ComputeLayout error: %v", err)
	}
	if !hit {
		t.Error("second run should hit the cache")
	}
	if second.CircleSeparation != first.CircleSeparation {
		t.Errorf("cached separation %v differs from computed %v", second.CircleSeparation, first.CircleSeparation)
	}
	if second.Tier != first.Tier {
		t.Errorf("cached tier %v differs from computed %v", second.Tier, first.Tier)
	}
}

func TestRenderCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	r := NewRunner(fc, nil)
	defer r.Close()

	opts := Options{AOnly: 2, BOnly: 2, Intersection: 1, Formats: []string{render.FormatSVG}}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if first.CacheInfo.RenderHit {
		t.Error("first run should miss the render cache")
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should hit the render cache")
	}
	if string(second.Artifacts["svg"]) != string(first.Artifacts["svg"]) {
		t.Error("cached artifact differs from rendered artifact")
	}
}
