// Package persist stores the most recent snapshot in a single JSON file
// so a restart starts from a real baseline instead of reporting every
// value as freshly changed.
package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/mgomezch/netifmon/internal/domain"
)

// File persists snapshots at a fixed path. An empty path disables
// persistence entirely: Load returns nil and Save is a no-op.
type File struct {
	path string
}

// NewFile creates a persistence handle for path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Load reads the previously saved snapshot. It fails closed: a missing
// file and unparseable content both resolve to nil (no prior state),
// logged as distinct conditions. Load never returns an error because
// the caller has nothing useful to do with one.
func (f *File) Load() domain.Snapshot {
	if f.path == "" {
		return nil
	}

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("No previous persisted state found in file %s", f.path)
		return nil
	}
	if err != nil {
		log.Printf("Failed to read persisted state from file %s: %v", f.path, err)
		return nil
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		log.Printf("Failed to parse persisted state from file %s: %v", f.path, err)
		return nil
	}
	return snap
}

// Save overwrites the backing file with the serialized snapshot. The
// write is a plain truncate-and-rewrite; a crash mid-write may leave a
// corrupt file, which Load tolerates.
func (f *File) Save(snap domain.Snapshot) error {
	if f.path == "" {
		return nil
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}
