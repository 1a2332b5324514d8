package dataset

import (
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/chordwheel/pkg/relation"
)

// MemoryStore keeps the relationship set in memory.
type MemoryStore struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewMemoryStore returns a store holding rels.
func NewMemoryStore(rels []relation.Relationship) *MemoryStore {
	return &MemoryStore{snap: newSnapshot(rels)}
}

func (s *MemoryStore) Load(ctx context.Context) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.snap
	snap.Relationships = slices.Clone(snap.Relationships)
	return snap, nil
}

func (s *MemoryStore) Save(ctx context.Context, rels []relation.Relationship) (Snapshot, error) {
	if err := relation.Validate(rels); err != nil {
		return Snapshot{}, err
	}
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	snap := newSnapshot(rels)
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
	return snap, nil
}

var _ Store = (*MemoryStore)(nil)
