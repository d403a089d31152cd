package geom

import "math"

// HexRowHeight returns the vertical distance between rows of a hexagonal
// lattice with the given in-row spacing: spacing·√3/2. Together with the
// half-spacing offset of odd rows this yields the densest regular circle
// packing, with every nearest-neighbor pair exactly spacing apart.
func HexRowHeight(spacing float64) float64 {
	return spacing * math.Sqrt(3) / 2
}

// HexLattice generates the points of a hexagonal lattice centered on anchor
// that fall inside the axis-aligned box anchor ± (halfWidth, halfHeight) and
// satisfy keep. Odd rows are offset by half the spacing.
//
// Points are emitted row-major: rows bottom to top, columns left to right.
// The scan is bounded: if the box would produce more than maxPoints lattice
// points before filtering, generation stops and ok is false. Callers treat a
// truncated scan as insufficient capacity rather than risking unbounded work.
func HexLattice(anchor Point, halfWidth, halfHeight, spacing float64, keep func(Point) bool, maxPoints int) (pts []Point, ok bool) {
	if spacing <= 0 || halfWidth < 0 || halfHeight < 0 {
		return nil, false
	}

	rowH := HexRowHeight(spacing)
	rows := int(halfHeight/rowH) + 1
	cols := int(halfWidth/spacing) + 1

	total := (2*rows + 1) * (2*cols + 2)
	if total > maxPoints {
		return nil, false
	}

	for row := -rows; row <= rows; row++ {
		offset := 0.0
		if row%2 != 0 {
			offset = spacing / 2
		}
		for col := -cols - 1; col <= cols; col++ {
			p := Point{
				X: anchor.X + float64(col)*spacing + offset,
				Y: anchor.Y + float64(row)*rowH,
			}
			if math.Abs(p.X-anchor.X) > halfWidth+eps || math.Abs(p.Y-anchor.Y) > halfHeight+eps {
				continue
			}
			if keep(p) {
				pts = append(pts, p)
			}
		}
	}
	return pts, true
}
