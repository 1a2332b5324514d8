package dataset

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/matzehuels/chordwheel/pkg/errors"
	chordio "github.com/matzehuels/chordwheel/pkg/io"
	"github.com/matzehuels/chordwheel/pkg/relation"
)

// FileStore keeps the relationship set in a CSV file, whatever its extension. The file is read once
// when the store opens; afterwards memory is authoritative and every save
// rewrites the file atomically.
type FileStore struct {
	mu   sync.RWMutex
	path string
	snap Snapshot
}

// NewFileStore opens the CSV file at path. A missing file starts an empty
// set; a malformed one is an error naming the offending line.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		s.snap = newSnapshot(nil)
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	rels, err := chordio.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	s.snap = newSnapshot(rels)
	if info, err := f.Stat(); err == nil {
		s.snap.UpdatedAt = info.ModTime().UTC()
	}
	return s, nil
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load(ctx context.Context) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.snap
	snap.Relationships = slices.Clone(snap.Relationships)
	return snap, nil
}

func (s *FileStore) Save(ctx context.Context, rels []relation.Relationship) (Snapshot, error) {
	if err := relation.Validate(rels); err != nil {
		return Snapshot{}, err
	}

	var buf bytes.Buffer
	if err := chordio.WriteCSV(&buf, rels); err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	if err := writeAtomic(s.path, buf.Bytes()); err != nil {
		return Snapshot{}, errors.Wrap(errors.ErrCodeInternal, err, "write dataset")
	}
	s.snap = newSnapshot(rels)
	return s.snap, nil
}

// writeAtomic replaces path with data via a temp file in the same directory.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

var _ Store = (*FileStore)(nil)
