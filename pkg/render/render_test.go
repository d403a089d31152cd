package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/vennkit/vennkit/pkg/diagram"
	"github.com/vennkit/vennkit/pkg/errors"
	"github.com/vennkit/vennkit/pkg/venn"
	"github.com/vennkit/vennkit/pkg/venn/pack"
)

func testDiagram(t *testing.T) diagram.Diagram {
	t.Helper()
	counts, err := venn.NewCounts(2, 2, 1)
	if err != nil {
		t.Fatalf("NewCounts error: %v", err)
	}
	layout, err := venn.ComputeLayout(counts, venn.DefaultConfig())
	if err != nil {
		t.Fatalf("ComputeLayout error: %v", err)
	}
	elements := []string{"a1", "a2", "ab1", "b1", "b2"}
	positions, err := pack.Pack(elements, counts, layout)
	if err != nil {
		t.Fatalf("Pack error: %v", err)
	}
	return diagram.New(elements, counts, layout, positions)
}

func TestValidateFormat(t *testing.T) {
	for _, format := range []string{FormatSVG, FormatPNG, FormatJSON} {
		if err := ValidateFormat(format); err != nil {
			t.Errorf("ValidateFormat(%q) error: %v", format, err)
		}
	}
	for _, format := range []string{"", "pdf", "SVG", "jpeg"} {
		if err := ValidateFormat(format); !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q): want INVALID_FORMAT, got %v", format, err)
		}
	}
}

func TestRenderJSON(t *testing.T) {
	d := testDiagram(t)

	data, err := Render(d, FormatJSON, DefaultOptions())
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}

	var got diagram.Diagram
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("json output should parse back into a diagram: %v", err)
	}
	if got.Counts != d.Counts {
		t.Errorf("counts changed across render: %+v", got.Counts)
	}
}

func TestRenderSVG(t *testing.T) {
	d := testDiagram(t)

	data, err := Render(d, FormatSVG, DefaultOptions())
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	svg := string(data)

	for _, want := range []string{"<svg", "</svg>", `<circle`, `<text`, ">ab1</text>"} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg output missing %q", want)
		}
	}
}

func TestRenderSVGNoLabels(t *testing.T) {
	d := testDiagram(t)

	opts := DefaultOptions()
	opts.ShowLabels = false
	data, err := Render(d, FormatSVG, opts)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if strings.Contains(string(data), "<text") {
		t.Error("svg output should have no labels")
	}
}

func TestRenderPNG(t *testing.T) {
	d := testDiagram(t)

	data, err := Render(d, FormatPNG, DefaultOptions())
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	// PNG magic bytes
	if len(data) < 8 || string(data[1:4]) != "PNG" {
		t.Error("png output should start with the PNG signature")
	}
}

func TestRenderInvalidFormat(t *testing.T) {
	_, err := Render(testDiagram(t), "gif", DefaultOptions())
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("want INVALID_FORMAT, got %v", err)
	}
}

func TestRenderDeterministicSVG(t *testing.T) {
	d := testDiagram(t)
	first, err := Render(d, FormatSVG, DefaultOptions())
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	for range 3 {
		again, err := Render(d, FormatSVG, DefaultOptions())
		if err != nil {
			t.Fatalf("Render error: %v", err)
		}
		if string(again) != string(first) {
			t.Fatal("svg output should be deterministic")
		}
	}
}
