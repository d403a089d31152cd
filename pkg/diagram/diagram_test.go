package diagram

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/vennkit/vennkit/pkg/errors"
	"github.com/vennkit/vennkit/pkg/venn"
	"github.com/vennkit/vennkit/pkg/venn/pack"
)

// testDiagram builds a small real diagram through the layout and packing
// stages so serialization tests exercise representative data.
func testDiagram(t *testing.T) Diagram {
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
	return New(elements, counts, layout, positions)
}

func TestValidate(t *testing.T) {
	d := testDiagram(t)
	if err := d.Validate(); err != nil {
		t.Errorf("valid diagram should pass Validate: %v", err)
	}

	t.Run("ElementCountMismatch", func(t *testing.T) {
		bad := d
		bad.Elements = bad.Elements[:3]
		if err := bad.Validate(); !errors.Is(err, errors.ErrCodeInvalidElements) {
			t.Errorf("want INVALID_ELEMENTS, got %v", err)
		}
	})

	t.Run("BadPositionID", func(t *testing.T) {
		bad := d
		bad.Positions = map[string]pack.Position{"": {}}
		if err := bad.Validate(); !errors.Is(err, errors.ErrCodeInvalidElements) {
			t.Errorf("want INVALID_ELEMENTS, got %v", err)
		}
	})

	t.Run("BadCounts", func(t *testing.T) {
		bad := d
		bad.Counts.Union = 99
		if err := bad.Validate(); err == nil {
			t.Error("broken counts identity should fail Validate")
		}
	})
}

func TestFileRoundTrip(t *testing.T) {
	d := testDiagram(t)
	path := filepath.Join(t.TempDir(), "diagram.json")

	if err := WriteFile(d, path); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}

	if !reflect.DeepEqual(got.Elements, d.Elements) {
		t.Errorf("elements changed across round trip: %v", got.Elements)
	}
	if got.Counts != d.Counts {
		t.Errorf("counts changed across round trip: %+v", got.Counts)
	}
	if len(got.Positions) != len(d.Positions) {
		t.Errorf("positions changed across round trip: %d entries, want %d", len(got.Positions), len(d.Positions))
	}
	if got.Layout.Tier != d.Layout.Tier {
		t.Errorf("tier changed across round trip: %s", got.Layout.Tier)
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("want FILE_NOT_FOUND, got %v", err)
	}
}

func TestReadFileInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	_, err := ReadFile(path)
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("want INVALID_FORMAT, got %v", err)
	}
}

func TestReadFileInvalidDiagram(t *testing.T) {
	// Well-formed JSON whose contents fail validation
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"elements":["a"],"counts":{"a_only":2,"b_only":0,"intersection":0,"union":2}}`), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	_, err := ReadFile(path)
	if !errors.Is(err, errors.ErrCodeInvalidElements) {
		t.Errorf("want INVALID_ELEMENTS, got %v", err)
	}
}
