// Package diagram defines the serialization format for computed Venn
// diagrams.
//
// A Diagram bundles the layout descriptor with the packed element positions
// so rendering layers (SVG, PNG, remote consumers) can draw the diagram
// without recomputing any geometry. The struct carries both json and bson
// tags: json for files and the HTTP API, bson for the optional MongoDB store.
package diagram

import (
	"encoding/json"
	"os"
	"time"

	"github.com/vennkit/vennkit/pkg/errors"
	"github.com/vennkit/vennkit/pkg/venn"
	"github.com/vennkit/vennkit/pkg/venn/pack"
)

// Diagram is the complete, self-contained result of a layout + pack run.
type Diagram struct {
	// ID is assigned when the diagram is persisted; empty otherwise.
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty" bson:"created_at,omitempty"`

	// Elements in canonical packing order (A-exclusive, shared,
	// B-exclusive).
	Elements []string `json:"elements" bson:"elements"`

	Counts    venn.Counts              `json:"counts" bson:"counts"`
	Layout    venn.Layout              `json:"layout" bson:"layout"`
	Positions map[string]pack.Position `json:"positions,omitempty" bson:"positions,omitempty"`
}

// New assembles a Diagram from the pipeline's outputs.
func New(elements []string, counts venn.Counts, layout venn.Layout, positions map[string]pack.Position) Diagram {
	return Diagram{
		Elements:  elements,
		Counts:    counts,
		Layout:    layout,
		Positions: positions,
	}
}

// Validate checks internal consistency after deserialization.
func (d Diagram) Validate() error {
	if err := d.Counts.Validate(); err != nil {
		return err
	}
	if len(d.Elements) != d.Counts.Union {
		return errors.New(errors.ErrCodeInvalidElements,
			"diagram has %d elements, counts require %d", len(d.Elements), d.Counts.Union)
	}
	for id := range d.Positions {
		if err := errors.ValidateElementID(id); err != nil {
			return err
		}
	}
	return nil
}

// Marshal renders the diagram as indented JSON.
func (d Diagram) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "marshal diagram")
	}
	return data, nil
}

// ReadFile loads a diagram from a JSON file.
func ReadFile(path string) (Diagram, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Diagram{}, errors.New(errors.ErrCodeFileNotFound, "no such file: %s", path)
	}
	if err != nil {
		return Diagram{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}

	var d Diagram
	if err := json.Unmarshal(data, &d); err != nil {
		return Diagram{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", path)
	}
	if err := d.Validate(); err != nil {
		return Diagram{}, err
	}
	return d, nil
}

// WriteFile stores the diagram as a JSON file.
func WriteFile(d Diagram, path string) error {
	data, err := d.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	return nil
}
