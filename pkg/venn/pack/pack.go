// Package pack places Venn diagram elements at collision-free positions.
//
// Given a computed venn.Layout and the ordered element list, Pack assigns one
// position per element inside its region (the lens or either crescent) on a
// hexagonal candidate lattice. Candidates whose footprint would cross a
// circle boundary are filtered out, so by construction no two positions are
// closer than the region's element size and every element stays visually
// inside its region.
//
// Packing is deterministic: identical inputs always produce identical output.
package pack

import (
	"fmt"
	"slices"

	"github.com/vennkit/vennkit/pkg/errors"
	"github.com/vennkit/vennkit/pkg/geom"
	"github.com/vennkit/vennkit/pkg/venn"
)

// Region identifies which part of the diagram a position belongs to.
type Region string

// The three regions of a two-set diagram.
const (
	RegionLens      Region = "lens"
	RegionACrescent Region = "a_only_crescent"
	RegionBCrescent Region = "b_only_crescent"
)

// Position is one element's placement in layout units.
type Position struct {
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Region Region  `json:"region" bson:"region"`
}

// Pack computes one position per element.
//
// The ordered element list must be partitioned by counts: the first
// counts.AOnly elements are A-exclusive, the next counts.Intersection are
// shared, and the final counts.BOnly are B-exclusive
// (venn.PartitionSlices produces this order). Elements are assigned to
// candidate slots in the caller-supplied order, so re-running with the same
// inputs reproduces identical positions.
//
// If a region offers fewer collision-free slots than it needs, Pack fails
// with ErrCodeInsufficientCapacity for that region instead of overlapping
// elements; the caller may retry with a larger radius or escalated tier.
func Pack(elements []string, counts venn.Counts, layout venn.Layout) (map[string]Position, error) {
	if err := counts.Validate(); err != nil {
		return nil, err
	}
	if len(elements) != counts.Union {
		return nil, errors.New(errors.ErrCodeInvalidElements,
			"got %d elements, counts require %d", len(elements), counts.Union)
	}
	if err := errors.ValidateElementIDs(elements); err != nil {
		return nil, err
	}
	if !layout.Valid {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"layout is not valid: %v", layout.Warnings)
	}

	aOnly := elements[:counts.AOnly]
	shared := elements[counts.AOnly : counts.AOnly+counts.Intersection]
	bOnly := elements[counts.AOnly+counts.Intersection:]

	positions := make(map[string]Position, counts.Union)
	regions := []struct {
		region   Region
		elements []string
	}{
		{RegionACrescent, aOnly},
		{RegionLens, shared},
		{RegionBCrescent, bOnly},
	}
	for _, r := range regions {
		if len(r.elements) == 0 {
			continue
		}
		if err := packRegion(positions, r.elements, r.region, layout); err != nil {
			return nil, err
		}
	}
	return positions, nil
}

// packRegion assigns the region's elements to its first len(elements)
// candidate slots.
func packRegion(out map[string]Position, elements []string, region Region, layout venn.Layout) error {
	candidates, err := Candidates(region, layout)
	if err != nil {
		return err
	}
	if len(candidates) < len(elements) {
		return errors.New(errors.ErrCodeInsufficientCapacity,
			"region %s holds %d elements, %d required", region, len(candidates), len(elements))
	}
	for i, id := range elements {
		out[id] = Position{X: candidates[i].X, Y: candidates[i].Y, Region: region}
	}
	return nil
}

// Candidates returns the region's collision-free candidate slots in
// deterministic assignment order: nearest the region anchor first, ties
// broken by y then x. The count of candidates is the region's true capacity.
func Candidates(region Region, layout venn.Layout) ([]geom.Point, error) {
	a, b := layout.CircleA(), layout.CircleB()

	var (
		sizing  venn.RegionSizing
		anchor  geom.Point
		halfW   float64
		halfH   float64
		keep    func(geom.Point) bool
		lattice geom.Point
	)

	switch region {
	case RegionLens:
		sizing = layout.Lens.RegionSizing
		margin := venn.FootprintMargin(sizing.ElementSize)
		lattice = geom.Point{} // midpoint between the centers
		anchor = lattice
		halfW, halfH = layout.Lens.Width/2, layout.Lens.Height/2
		keep = func(p geom.Point) bool {
			return a.Contains(p, margin) && b.Contains(p, margin)
		}
	case RegionACrescent:
		sizing = layout.Crescent.RegionSizing
		margin := venn.FootprintMargin(sizing.ElementSize)
		lattice = a.Center
		anchor = geom.Point{X: a.Center.X - layout.CrescentAnchorInset*layout.CircleRadius}
		halfW, halfH = layout.CircleRadius, layout.CircleRadius
		keep = func(p geom.Point) bool {
			return a.Contains(p, margin) && b.Excludes(p, margin)
		}
	case RegionBCrescent:
		sizing = layout.Crescent.RegionSizing
		margin := venn.FootprintMargin(sizing.ElementSize)
		lattice = b.Center
		anchor = geom.Point{X: b.Center.X + layout.CrescentAnchorInset*layout.CircleRadius}
		halfW, halfH = layout.CircleRadius, layout.CircleRadius
		keep = func(p geom.Point) bool {
			return b.Contains(p, margin) && a.Excludes(p, margin)
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown region %q", region)
	}

	if sizing.Spacing() <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"region %s has no element sizing", region)
	}

	pts, ok := geom.HexLattice(lattice, halfW, halfH, sizing.Spacing(), keep, layout.MaxLatticePoints)
	if !ok {
		// A truncated scan means we cannot prove capacity; same outcome
		// as a region that is simply too small.
		return nil, errors.New(errors.ErrCodeInsufficientCapacity,
			"region %s lattice scan exceeded %d points", region, layout.MaxLatticePoints)
	}

	sortByAnchor(pts, anchor)
	return pts, nil
}

// sortByAnchor orders candidates by distance to the anchor, breaking ties by
// y (descending, top rows first) then x (ascending).
func sortByAnchor(pts []geom.Point, anchor geom.Point) {
	slices.SortFunc(pts, func(p, q geom.Point) int {
		dp, dq := p.Dist(anchor), q.Dist(anchor)
		switch {
		case dp < dq:
			return -1
		case dp > dq:
			return 1
		case p.Y > q.Y:
			return -1
		case p.Y < q.Y:
			return 1
		case p.X < q.X:
			return -1
		case p.X > q.X:
			return 1
		}
		return 0
	})
}

// Capacity reports how many elements each region can hold under the layout.
// Useful for pre-flight checks and for surfacing retry guidance.
func Capacity(layout venn.Layout) (map[Region]int, error) {
	if !layout.Valid {
		return nil, errors.New(errors.ErrCodeInvalidInput, "layout is not valid")
	}
	out := make(map[Region]int, 3)
	for _, r := range []Region{RegionACrescent, RegionLens, RegionBCrescent} {
		if r == RegionLens && layout.Counts.Intersection == 0 {
			out[r] = 0
			continue
		}
		pts, err := Candidates(r, layout)
		if err != nil {
			if errors.Is(err, errors.ErrCodeInsufficientCapacity) {
				out[r] = 0
				continue
			}
			return nil, err
		}
		out[r] = len(pts)
	}
	return out, nil
}

// String renders a position for logs and debug output.
func (p Position) String() string {
	return fmt.Sprintf("(%.3f, %.3f) in %s", p.X, p.Y, p.Region)
}
