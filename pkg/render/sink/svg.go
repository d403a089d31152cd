// Package sink renders diagrams to concrete artifact formats.
//
// Sinks draw exclusively from the data a diagram carries (circle geometry and
// packed positions); they never recompute layout. SVG is written by hand the
// same way the JSON and PNG outputs derive from the same geometry, so all
// formats agree pixel-for-pixel up to rasterization.
package sink

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/vennkit/vennkit/pkg/diagram"
	"github.com/vennkit/vennkit/pkg/venn/pack"
)

// framePadding is the margin around the circles, in layout units.
const framePadding = 0.5

// Circle palette. Region membership is visible from the overlap alone, so
// only the two set colors are needed.
const (
	colorCircleA = "#3b82f6"
	colorCircleB = "#10b981"
	colorLabel   = "#111827"
	colorStroke  = "#1f2937"
)

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	scale     float64
	fillAlpha float64
	labels    bool
}

// WithScale sets the number of pixels per layout unit (default 100).
func WithScale(s float64) Option {
	return func(r *renderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithFillAlpha sets the circle fill opacity (default 0.25).
func WithFillAlpha(a float64) Option {
	return func(r *renderer) {
		if a >= 0 && a <= 1 {
			r.fillAlpha = a
		}
	}
}

// WithoutLabels suppresses the element labels, drawing geometry only.
func WithoutLabels() Option {
	return func(r *renderer) { r.labels = false }
}

func newRenderer(opts ...Option) renderer {
	r := renderer{scale: 100, fillAlpha: 0.25, labels: true}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// frame describes the drawing area and the unit→pixel mapping.
type frame struct {
	scale          float64
	minX, maxY     float64
	width, height  float64
}

func newFrame(d diagram.Diagram, scale float64) frame {
	l := d.Layout
	minX := l.CircleACenter.X - l.CircleRadius - framePadding
	maxX := l.CircleBCenter.X + l.CircleRadius + framePadding
	maxY := l.CircleRadius + framePadding
	return frame{
		scale:  scale,
		minX:   minX,
		maxY:   maxY,
		width:  (maxX - minX) * scale,
		height: 2 * maxY * scale,
	}
}

// px maps layout coordinates (y up) to pixel coordinates (y down).
func (f frame) px(x, y float64) (float64, float64) {
	return (x - f.minX) * f.scale, (f.maxY - y) * f.scale
}

// RenderSVG renders the diagram as a standalone SVG document.
func RenderSVG(d diagram.Diagram, opts ...Option) []byte {
	r := newRenderer(opts...)
	f := newFrame(d, r.scale)
	l := d.Layout

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		f.width, f.height, f.width, f.height)

	ax, ay := f.px(l.CircleACenter.X, l.CircleACenter.Y)
	bx, by := f.px(l.CircleBCenter.X, l.CircleBCenter.Y)
	radius := l.CircleRadius * f.scale
	stroke := max(1.0, f.scale*0.02)

	fmt.Fprintf(&buf, `  <circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" fill-opacity="%.2f" stroke="%s" stroke-width="%.1f"/>`+"\n",
		ax, ay, radius, colorCircleA, r.fillAlpha, colorStroke, stroke)
	fmt.Fprintf(&buf, `  <circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" fill-opacity="%.2f" stroke="%s" stroke-width="%.1f"/>`+"\n",
		bx, by, radius, colorCircleB, r.fillAlpha, colorStroke, stroke)

	if r.labels {
		renderLabels(&buf, d, f)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// renderLabels draws each element id at its packed position, sized per its
// region's element size.
func renderLabels(buf *bytes.Buffer, d diagram.Diagram, f frame) {
	ids := make([]string, 0, len(d.Positions))
	for id := range d.Positions {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		pos := d.Positions[id]
		size := d.Layout.Crescent.ElementSize
		if pos.Region == pack.RegionLens {
			size = d.Layout.Lens.ElementSize
		}
		x, y := f.px(pos.X, pos.Y)
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="%.1f" fill="%s" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
			x, y, size*f.scale, colorLabel, escapeXML(id))
	}
}

// escapeXML escapes the five predefined XML entities in element ids.
func escapeXML(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&apos;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
