package store

import (
	"context"
	"testing"
	"time"

	"github.com/vennkit/vennkit/pkg/diagram"
	"github.com/vennkit/vennkit/pkg/errors"
	"github.com/vennkit/vennkit/pkg/venn"
)

func testDiagram(t *testing.T) diagram.Diagram {
	t.Helper()
	counts, err := venn.NewCounts(1, 1, 1)
	if err != nil {
		t.Fatalf("NewCounts error: %v", err)
	}
	return diagram.Diagram{
		Elements: []string{"a1", "ab1", "b1"},
		Counts:   counts,
	}
}

func TestMemoryPutGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	defer s.Close(ctx)

	id, err := s.Put(ctx, testDiagram(t))
	if err != nil {
		t.Fatalf("Put error: %v", err)
	}
	if id == "" {
		t.Fatal("Put should assign an ID")
	}

	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.ID != id {
		t.Errorf("Get returned ID %q, want %q", got.ID, id)
	}
	if got.CreatedAt.IsZero() {
		t.Error("Put should stamp CreatedAt")
	}
	if len(got.Elements) != 3 {
		t.Errorf("Get returned %d elements, want 3", len(got.Elements))
	}
}

func TestMemoryPutKeepsID(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	d := testDiagram(t)
	d.ID = "fixed-id"
	id, err := s.Put(ctx, d)
	if err != nil {
		t.Fatalf("Put error: %v", err)
	}
	if id != "fixed-id" {
		t.Errorf("Put should keep existing ID, got %q", id)
	}
}

func TestMemoryPutRejectsBadID(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	d := testDiagram(t)
	d.ID = "has/slash"
	if _, err := s.Put(ctx, d); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("want INVALID_INPUT, got %v", err)
	}
}

func TestMemoryGetMissing(t *testing.T) {
	s := NewMemory()
	_, err := s.Get(context.Background(), "nope")
	if !errors.Is(err, errors.ErrCodeDiagramNotFound) {
		t.Errorf("want DIAGRAM_NOT_FOUND, got %v", err)
	}
}

func TestMemoryDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	id, err := s.Put(ctx, testDiagram(t))
	if err != nil {
		t.Fatalf("Put error: %v", err)
	}
	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := s.Get(ctx, id); !errors.Is(err, errors.ErrCodeDiagramNotFound) {
		t.Errorf("Get after Delete: want DIAGRAM_NOT_FOUND, got %v", err)
	}

	// Deleting a missing ID is not an error
	if err := s.Delete(ctx, "nope"); err != nil {
		t.Errorf("Delete on missing ID error: %v", err)
	}
}

func TestMemoryListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"oldest", "middle", "newest"} {
		d := testDiagram(t)
		d.ID = id
		d.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if _, err := s.Put(ctx, d); err != nil {
			t.Fatalf("Put error: %v", err)
		}
	}

	ids, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	want := []string{"newest", "middle", "oldest"}
	if len(ids) != len(want) {
		t.Fatalf("List returned %d IDs, want %d", len(ids), len(want))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}

func TestMemoryListEmpty(t *testing.T) {
	ids, err := NewMemory().List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("empty store should list no IDs, got %v", ids)
	}
}
