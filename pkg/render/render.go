// Package render turns computed diagrams into output artifacts.
//
// The layout engine only computes geometry; the sinks in render/sink are the
// thin drawing adapters that consume it. This package provides the common
// format dispatch used by the CLI and the API.
package render

import (
	"github.com/vennkit/vennkit/pkg/diagram"
	"github.com/vennkit/vennkit/pkg/errors"
	"github.com/vennkit/vennkit/pkg/render/sink"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, json)", format)
	}
	return nil
}

// Options configure how sinks draw a diagram.
type Options struct {
	// Scale is the number of pixels per layout unit.
	Scale float64
	// ShowLabels draws the element identifiers at their packed positions.
	ShowLabels bool
	// FillAlpha is the circle fill opacity in [0, 1].
	FillAlpha float64
}

// DefaultOptions returns the render defaults shared by CLI and API.
func DefaultOptions() Options {
	return Options{Scale: 100, ShowLabels: true, FillAlpha: 0.25}
}

// Render produces the diagram artifact for the given format.
func Render(d diagram.Diagram, format string, opts Options) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	switch format {
	case FormatSVG:
		return sink.RenderSVG(d, sinkOptions(opts)...), nil
	case FormatPNG:
		return sink.RenderPNG(d, sinkOptions(opts)...)
	case FormatJSON:
		return d.Marshal()
	}
	return nil, errors.New(errors.ErrCodeInternal, "unreachable format %q", format)
}

func sinkOptions(opts Options) []sink.Option {
	out := []sink.Option{
		sink.WithScale(opts.Scale),
		sink.WithFillAlpha(opts.FillAlpha),
	}
	if !opts.ShowLabels {
		out = append(out, sink.WithoutLabels())
	}
	return out
}
