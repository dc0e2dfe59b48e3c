package wallpaper

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/dixieflatline76/wpsetter/util/log"
)

// SnapshotStore persists the cache snapshot: a JSON array of absolute image paths.
type SnapshotStore struct {
	mu        sync.Mutex
	cachePath string
}

// NewSnapshotStore creates a store backed by the JSON file at path.
func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{cachePath: path}
}

// Path returns the snapshot file path.
func (s *SnapshotStore) Path() string {
	return s.cachePath
}

// Save replaces the snapshot with files.
func (s *SnapshotStore) Save(files []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if files == nil {
		files = []string{}
	}

	tmp := s.cachePath + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to save cache snapshot: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(files); err != nil {
		file.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to encode cache snapshot: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to save cache snapshot: %w", err)
	}

	if err := os.Rename(tmp, s.cachePath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to rename cache snapshot: %w", err)
	}
	log.Debugf("Store: saved %d paths to %s", len(files), s.cachePath)
	return nil
}

// Load reads the snapshot. A missing file is reported as CacheUninitialized.
func (s *SnapshotStore) Load() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Open(s.cachePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &Error{Kind: KindCacheUninitialized, Path: s.cachePath}
		}
		return nil, fmt.Errorf("failed to open cache snapshot: %w", err)
	}
	defer file.Close()

	var files []string
	if err := json.NewDecoder(file).Decode(&files); err != nil {
		return nil, fmt.Errorf("failed to decode cache snapshot %s: %w", s.cachePath, err)
	}
	return files, nil
}

// Remove deletes the snapshot file. A missing file is not an error.
func (s *SnapshotStore) Remove() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.cachePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove cache snapshot: %w", err)
	}
	return nil
}
