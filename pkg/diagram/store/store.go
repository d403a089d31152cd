// Package store persists computed diagrams by ID.
//
// Two backends are provided:
//   - memory: in-process storage for development and tests
//   - mongo: MongoDB-backed storage for the hosted API
//
// The core layout engine never persists anything; stores exist purely so the
// API server can hand out stable diagram IDs.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vennkit/vennkit/pkg/diagram"
	"github.com/vennkit/vennkit/pkg/errors"
)

// Store is the persistence interface for diagrams.
type Store interface {
	// Put stores the diagram, assigning an ID if it has none, and returns
	// the ID.
	Put(ctx context.Context, d diagram.Diagram) (string, error)

	// Get retrieves a diagram by ID. Returns ErrCodeDiagramNotFound if no
	// diagram has that ID.
	Get(ctx context.Context, id string) (diagram.Diagram, error)

	// Delete removes a diagram. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the stored diagram IDs, newest first.
	List(ctx context.Context) ([]string, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// Memory is an in-process Store safe for concurrent use.
type Memory struct {
	mu       sync.RWMutex
	diagrams map[string]diagram.Diagram
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{diagrams: make(map[string]diagram.Diagram)}
}

// Put implements Store.
func (m *Memory) Put(_ context.Context, d diagram.Diagram) (string, error) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if err := errors.ValidateDiagramID(d.ID); err != nil {
		return "", err
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.diagrams[d.ID] = d
	return d.ID, nil
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, id string) (diagram.Diagram, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.diagrams[id]
	if !ok {
		return diagram.Diagram{}, errors.New(errors.ErrCodeDiagramNotFound, "no diagram with id %q", id)
	}
	return d, nil
}

// Delete implements Store.
func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.diagrams, id)
	return nil
}

// List implements Store.
func (m *Memory) List(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := make([]diagram.Diagram, 0, len(m.diagrams))
	for _, d := range m.diagrams {
		all = append(all, d)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	ids := make([]string, len(all))
	for i, d := range all {
		ids[i] = d.ID
	}
	return ids, nil
}

// Close implements Store.
func (m *Memory) Close(context.Context) error { return nil }

// Ensure Memory implements Store.
var _ Store = (*Memory)(nil)
