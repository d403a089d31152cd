package venn

import (
	"fmt"
	"math"

	"github.com/vennkit/vennkit/pkg/errors"
	"github.com/vennkit/vennkit/pkg/geom"
)

// RegionSizing holds the label sizing of one region family. Lens and crescent
// sizing are computed independently of each other: each region's element size
// depends only on its own count and its own available area, so a crowded lens
// never shrinks crescent labels and vice versa. A divergence between the two
// font sizes is therefore expected and surfaced as a warning, not a defect.
type RegionSizing struct {
	FontSize    int     `json:"font_size" bson:"font_size"`
	ElementSize float64 `json:"element_size" bson:"element_size"`
	Padding     float64 `json:"padding" bson:"padding"`
}

// Spacing returns the lattice spacing for this sizing: element size plus
// padding, which is also the guaranteed minimum center-to-center distance.
func (s RegionSizing) Spacing() float64 { return s.ElementSize + s.Padding }

// LensSizing extends RegionSizing with the solved lens geometry.
type LensSizing struct {
	RegionSizing `bson:",inline"`
	Area         float64 `json:"area" bson:"area"`
	Width        float64 `json:"width" bson:"width"`
	Height       float64 `json:"height" bson:"height"`
}

// CrescentSizing extends RegionSizing with the per-side packing radii.
// A zero radius means that side has no exclusive elements.
type CrescentSizing struct {
	RegionSizing `bson:",inline"`
	RadiusA      float64 `json:"radius_a" bson:"radius_a"`
	RadiusB      float64 `json:"radius_b" bson:"radius_b"`
}

// Layout is the complete immutable layout descriptor for one diagram.
// It is computed once per request by ComputeLayout and read-only afterward;
// since the computation is pure, callers may cache layouts by
// (AOnly, BOnly, Intersection, Config).
type Layout struct {
	Counts Counts `json:"counts" bson:"counts"`
	Tier   Tier   `json:"tier" bson:"tier"`

	CircleRadius     float64    `json:"circle_radius" bson:"circle_radius"`
	CircleSeparation float64    `json:"circle_separation" bson:"circle_separation"`
	CircleACenter    geom.Point `json:"circle_a_center" bson:"circle_a_center"`
	CircleBCenter    geom.Point `json:"circle_b_center" bson:"circle_b_center"`

	Lens     LensSizing     `json:"lens" bson:"lens"`
	Crescent CrescentSizing `json:"crescent" bson:"crescent"`

	// CrescentAnchorInset is carried from the config so the packer anchors
	// crescents consistently with the layout that sized them.
	CrescentAnchorInset float64 `json:"crescent_anchor_inset" bson:"crescent_anchor_inset"`
	// MaxLatticePoints bounds the packer's candidate scan.
	MaxLatticePoints int `json:"max_lattice_points" bson:"max_lattice_points"`

	Valid    bool     `json:"valid" bson:"valid"`
	Warnings []string `json:"warnings,omitempty" bson:"warnings,omitempty"`
}

// CircleA returns circle A as a geometric value.
func (l Layout) CircleA() geom.Circle {
	return geom.Circle{Center: l.CircleACenter, Radius: l.CircleRadius}
}

// CircleB returns circle B as a geometric value.
func (l Layout) CircleB() geom.Circle {
	return geom.Circle{Center: l.CircleBCenter, Radius: l.CircleRadius}
}

// FootprintMargin returns the boundary clearance an element of the given size
// requires: half its size plus the containment slack.
func FootprintMargin(elementSize float64) float64 {
	return elementSize * (1 + ContainmentSlack) / 2
}

// separationStep is the granularity of the capacity-driven separation
// refinement, as a fraction of the radius. The refinement walk is bounded by
// 2·radius/step ≈ 40 lattice scans.
const separationStep = 1.0 / 20

// ComputeLayout derives the full layout descriptor for the given counts.
//
// Steps: select the tier, size the lens and crescent regions independently,
// derive the target lens area from the intersection count, solve the circle
// separation by bisection, and tighten the separation until the hexagonal
// lattice inside the lens actually offers enough slots.
//
// Invalid counts or config return an error. Geometric infeasibility does not:
// it yields a Layout with Valid=false and a descriptive warning, and the
// caller decides whether to retry with a larger radius or escalate the tier.
func ComputeLayout(counts Counts, cfg Config) (Layout, error) {
	if err := counts.Validate(); err != nil {
		return Layout{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Layout{}, err
	}

	tier, params := cfg.SelectTier(counts.MaxRegion())

	l := Layout{
		Counts:              counts,
		Tier:                tier,
		CircleRadius:        params.Radius,
		Valid:               true,
		CrescentAnchorInset: cfg.CrescentInset,
		MaxLatticePoints:    cfg.MaxLatticePoints,
	}

	if err := l.solveLens(counts, params, cfg); err != nil {
		return Layout{}, err
	}
	l.sizeCrescents(counts, params, cfg)
	l.balanceSeparation(counts, cfg)
	l.verifyCapacity(counts, cfg)

	l.CircleACenter = geom.Point{X: -l.CircleSeparation / 2}
	l.CircleBCenter = geom.Point{X: l.CircleSeparation / 2}

	if counts.Intersection > 0 && l.Lens.FontSize != l.Crescent.FontSize {
		l.Warnings = append(l.Warnings, fmt.Sprintf(
			"independent region sizing: lens font %d differs from crescent font %d",
			l.Lens.FontSize, l.Crescent.FontSize))
	}

	return l, nil
}

// solveLens sizes the lens region and solves the circle separation.
func (l *Layout) solveLens(counts Counts, params TierParams, cfg Config) error {
	if counts.Intersection == 0 {
		// No shared elements: the circles touch without overlapping and
		// lens sizing is skipped entirely.
		l.CircleSeparation = 2 * params.Radius
		return nil
	}

	elementSize := float64(params.FontSize) / cfg.FontToUnit
	sizing := RegionSizing{FontSize: params.FontSize, ElementSize: elementSize, Padding: params.Padding}
	footprint := sizing.Spacing() * sizing.Spacing()
	target := float64(counts.Intersection) * footprint / cfg.PackingEfficiency * cfg.SafetyMargin

	sep, err := geom.SolveSeparation(params.Radius, target)
	switch {
	case err == nil:
		sep, err = l.refineSeparation(params.Radius, sep, counts.Intersection, sizing, cfg)
		if err != nil {
			l.Valid = false
			l.Warnings = append(l.Warnings, errors.UserMessage(err))
			sep = 0
		}
	case errors.Is(err, errors.ErrCodeUnsolvableSeparation):
		l.Valid = false
		l.Warnings = append(l.Warnings, errors.UserMessage(err))
		sep = 0
	default:
		// Invalid input or a solver bug; never swallowed.
		return err
	}

	width, height := geom.LensExtent(params.Radius, sep)
	l.CircleSeparation = sep
	l.Lens = LensSizing{
		RegionSizing: sizing,
		Area:         geom.LensArea(params.Radius, sep),
		Width:        width,
		Height:       height,
	}
	return nil
}

// refineSeparation walks the separation down from the area-solved estimate
// until the containment-filtered lattice offers at least n slots. The area
// estimate relies on a packing-efficiency constant; true capacity comes only
// from this scan, so narrow lenses (small n at large fonts) are corrected
// here instead of failing later in the packer.
func (l *Layout) refineSeparation(radius, sep float64, n int, sizing RegionSizing, cfg Config) (float64, error) {
	step := radius * separationStep
	for s := sep; ; s -= step {
		if s < 0 {
			s = 0
		}
		if lensCapacity(radius, s, sizing, cfg.MaxLatticePoints) >= n {
			return s, nil
		}
		if s == 0 {
			return 0, errors.New(errors.ErrCodeInsufficientCapacity,
				"lens cannot hold %d elements at radius %.3f even fully overlapped", n, radius)
		}
	}
}

// lensCapacity counts the hexagonal lattice slots whose full footprint fits
// inside the lens of two radius-r circles separated by sep.
func lensCapacity(radius, sep float64, sizing RegionSizing, maxPoints int) int {
	a := geom.Circle{Center: geom.Point{X: -sep / 2}, Radius: radius}
	b := geom.Circle{Center: geom.Point{X: sep / 2}, Radius: radius}
	margin := FootprintMargin(sizing.ElementSize)

	width, height := geom.LensExtent(radius, sep)
	pts, ok := geom.HexLattice(geom.Point{}, width/2, height/2, sizing.Spacing(), func(p geom.Point) bool {
		return a.Contains(p, margin) && b.Contains(p, margin)
	}, maxPoints)
	if !ok {
		return 0
	}
	return len(pts)
}

// balanceSeparation widens the separation while the crescents lack capacity
// and the lens can spare it. The lens and the crescents compete for the same
// overlap: pushing the circles apart shrinks the lens and grows the
// crescents, so after the lens-driven solve the separation is nudged up until
// every exclusive region fits or the lens reaches its own capacity floor.
func (l *Layout) balanceSeparation(counts Counts, cfg Config) {
	if !l.Valid || counts.Intersection == 0 {
		return
	}

	radius := l.CircleRadius
	step := radius * separationStep
	sep := l.CircleSeparation

	for sep < 2*radius {
		if l.crescentsFit(counts, sep, cfg) {
			break
		}
		next := math.Min(sep+step, 2*radius)
		if next == sep || lensCapacity(radius, next, l.Lens.RegionSizing, cfg.MaxLatticePoints) < counts.Intersection {
			break
		}
		sep = next
	}

	if sep != l.CircleSeparation {
		l.CircleSeparation = sep
		width, height := geom.LensExtent(radius, sep)
		l.Lens.Area = geom.LensArea(radius, sep)
		l.Lens.Width = width
		l.Lens.Height = height
	}
}

// crescentsFit reports whether both exclusive regions can hold their counts
// at the given separation.
func (l *Layout) crescentsFit(counts Counts, sep float64, cfg Config) bool {
	return crescentCapacity(l.CircleRadius, sep, l.Crescent.RegionSizing, cfg.MaxLatticePoints) >=
		max(counts.AOnly, counts.BOnly)
}

// verifyCapacity downgrades the layout to Valid=false when some region still
// cannot hold its count. The capacity predicate is identical to the packer's
// candidate filter, so a layout that passes here never fails packing.
func (l *Layout) verifyCapacity(counts Counts, cfg Config) {
	if !l.Valid {
		return
	}
	got := crescentCapacity(l.CircleRadius, l.CircleSeparation, l.Crescent.RegionSizing, cfg.MaxLatticePoints)
	if need := max(counts.AOnly, counts.BOnly); got < need {
		l.Valid = false
		l.Warnings = append(l.Warnings, fmt.Sprintf(
			"insufficient packing capacity: crescent holds %d elements, %d required", got, need))
	}
}

// crescentCapacity counts the lattice slots inside one circle and fully
// outside the other. Both crescents are congruent by symmetry, so one scan
// covers both sides.
func crescentCapacity(radius, sep float64, sizing RegionSizing, maxPoints int) int {
	own := geom.Circle{Center: geom.Point{X: -sep / 2}, Radius: radius}
	other := geom.Circle{Center: geom.Point{X: sep / 2}, Radius: radius}
	margin := FootprintMargin(sizing.ElementSize)

	pts, ok := geom.HexLattice(own.Center, radius, radius, sizing.Spacing(), func(p geom.Point) bool {
		return own.Contains(p, margin) && other.Excludes(p, margin)
	}, maxPoints)
	if !ok {
		return 0
	}
	return len(pts)
}

// sizeCrescents sizes the exclusive regions. When the required packing radius
// would exceed the allowed fraction of the circle, only the crescent labels
// shrink; the lens sizing is untouched.
func (l *Layout) sizeCrescents(counts Counts, params TierParams, cfg Config) {
	font := params.FontSize
	padding := params.Padding
	elementSize := float64(font) / cfg.FontToUnit

	radiusFor := func(n int) float64 {
		if n == 0 {
			return 0
		}
		spacing := elementSize + padding
		area := float64(n) * spacing * spacing / cfg.PackingEfficiency
		return math.Sqrt(area / math.Pi)
	}

	rA, rB := radiusFor(counts.AOnly), radiusFor(counts.BOnly)
	limit := cfg.MaxCrescentFraction * params.Radius

	if r := math.Max(rA, rB); r > limit {
		scale := limit / r * crescentRescale
		font = max(int(float64(font)*scale), 1)
		padding *= scale
		elementSize = float64(font) / cfg.FontToUnit
		rA, rB = radiusFor(counts.AOnly), radiusFor(counts.BOnly)
	}

	l.Crescent = CrescentSizing{
		RegionSizing: RegionSizing{FontSize: font, ElementSize: elementSize, Padding: padding},
		RadiusA:      rA,
		RadiusB:      rB,
	}
}
