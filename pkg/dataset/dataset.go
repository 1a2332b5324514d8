// Package dataset persists the relationship set served by the HTTP server.
//
// A [Store] holds exactly one relationship set. Every successful [Store.Save]
// replaces it and assigns a fresh revision id, so clients can tell whether
// the diagram they hold is current. Reads return an immutable [Snapshot].
//
//   - [FileStore]: the set lives in a CSV file on disk
//   - [MemoryStore]: in-process only, for tests and ephemeral servers
package dataset

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/chordwheel/pkg/relation"
)

// Snapshot is the relationship set at one revision.
type Snapshot struct {
	Revision      string                  `json:"revision"`
	UpdatedAt     time.Time               `json:"updated_at"`
	Relationships []relation.Relationship `json:"relationships"`
}

// Hash returns the content hash of the relationships.
func (s Snapshot) Hash() string { return relation.Hash(s.Relationships) }

// Store persists one relationship set. Implementations must be safe for
// concurrent use; writes are serialized.
type Store interface {
	// Load returns the current snapshot. An empty store yields a snapshot
	// with no relationships, not an error.
	Load(ctx context.Context) (Snapshot, error)
	// Save validates rels and replaces the stored set.
	Save(ctx context.Context, rels []relation.Relationship) (Snapshot, error)
}

func newSnapshot(rels []relation.Relationship) Snapshot {
	return Snapshot{
		Revision:      uuid.NewString(),
		UpdatedAt:     time.Now().UTC(),
		Relationships: slices.Clone(rels),
	}
}
