// Package geom provides the circle and lens geometry underlying two-set Venn
// diagram layout: the vesica piscis area formula, lens extents, a bisection
// solver for circle separation, and hexagonal lattice generation.
//
// Everything in this package is a pure function of its arguments. All
// coordinates are in abstract layout units; the rendering layer decides how
// units map to pixels.
package geom

import "math"

const eps = 1e-9

// Point is a 2D point in layout units.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p minus q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Circle is a circle given by center and radius.
type Circle struct {
	Center Point
	Radius float64
}

// Contains reports whether p lies within the circle shrunk by margin.
// A negative margin grows the circle instead.
func (c Circle) Contains(p Point, margin float64) bool {
	return c.Center.Dist(p) <= c.Radius-margin+eps
}

// Excludes reports whether p lies fully outside the circle grown by margin.
func (c Circle) Excludes(p Point, margin float64) bool {
	return c.Center.Dist(p) >= c.Radius+margin-eps
}

// LensArea returns the area of the lens-shaped intersection of two circles of
// equal radius r whose centers are d apart.
//
//	A(d) = 2r²·arccos(d/2r) − (d/2)·√(4r² − d²)
//
// A is monotonically non-increasing in d: A(0) = πr² and A(2r) = 0.
// Distances outside [0, 2r] clamp to those extremes.
func LensArea(r, d float64) float64 {
	if r <= 0 || d >= 2*r {
		return 0
	}
	if d <= 0 {
		return math.Pi * r * r
	}
	a := 2*r*r*math.Acos(d/(2*r)) - (d/2)*math.Sqrt(4*r*r-d*d)
	return math.Max(0, a)
}

// LensExtent returns the width and height of the lens formed by two circles of
// equal radius r with center distance d. Width is measured along the axis
// through both centers, height perpendicular to it.
func LensExtent(r, d float64) (width, height float64) {
	if d >= 2*r {
		return 0, 0
	}
	if d < 0 {
		d = 0
	}
	width = 2*r - d
	height = 2 * math.Sqrt(r*r-(d/2)*(d/2))
	return width, height
}
