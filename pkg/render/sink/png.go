package sink

import (
	"bytes"
	"image/color"
	"slices"

	"github.com/fogleman/gg"

	"github.com/vennkit/vennkit/pkg/diagram"
	"github.com/vennkit/vennkit/pkg/errors"
)

// RenderPNG rasterizes the diagram with the same geometry and unit→pixel
// mapping as the SVG sink.
func RenderPNG(d diagram.Diagram, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)
	f := newFrame(d, r.scale)
	l := d.Layout

	dc := gg.NewContext(int(f.width), int(f.height))
	dc.SetColor(color.White)
	dc.Clear()

	radius := l.CircleRadius * f.scale
	stroke := max(1.0, f.scale*0.02)

	ax, ay := f.px(l.CircleACenter.X, l.CircleACenter.Y)
	bx, by := f.px(l.CircleBCenter.X, l.CircleBCenter.Y)

	drawCircle := func(x, y float64, fill color.Color) {
		dc.DrawCircle(x, y, radius)
		dc.SetColor(fill)
		dc.FillPreserve()
		dc.SetLineWidth(stroke)
		dc.SetRGB255(0x1f, 0x29, 0x37)
		dc.Stroke()
	}
	alpha := uint8(r.fillAlpha * 255)
	drawCircle(ax, ay, color.NRGBA{R: 0x3b, G: 0x82, B: 0xf6, A: alpha})
	drawCircle(bx, by, color.NRGBA{R: 0x10, G: 0xb9, B: 0x81, A: alpha})

	if r.labels {
		dc.SetRGB255(0x11, 0x18, 0x27)
		ids := make([]string, 0, len(d.Positions))
		for id := range d.Positions {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		for _, id := range ids {
			pos := d.Positions[id]
			x, y := f.px(pos.X, pos.Y)
			dc.DrawStringAnchored(id, x, y, 0.5, 0.5)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}
