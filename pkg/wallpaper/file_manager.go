package wallpaper

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/dixieflatline76/wpsetter/util/log"
)

// FileManager handles all file system operations for the image cache directory.
type FileManager struct {
	rootDir string
}

// NewFileManager creates a new FileManager with the given root directory.
// The rootDir is typically ".../wallpaper_cache".
func NewFileManager(rootDir string) *FileManager {
	return &FileManager{
		rootDir: rootDir,
	}
}

// Dir returns the cache directory.
func (fm *FileManager) Dir() string {
	return fm.rootDir
}

// Exists reports whether the cache directory exists.
func (fm *FileManager) Exists() bool {
	info, err := os.Stat(fm.rootDir)
	return err == nil && info.IsDir()
}

// EnsureDir creates the cache directory.
func (fm *FileManager) EnsureDir() error {
	if err := os.MkdirAll(fm.rootDir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory %s: %w", fm.rootDir, err)
	}
	return nil
}

// CachedImagePath returns the path of the n-th cached image: wallpaper<n>.bmp.
func (fm *FileManager) CachedImagePath(n int) string {
	return filepath.Join(fm.rootDir, CachedImagePrefix+strconv.Itoa(n)+CachedImageExt)
}

// List returns the absolute paths of the files in the cache directory. Cached
// images come first in index order, anything else follows by name.
func (fm *FileManager) List() ([]string, error) {
	entries, err := os.ReadDir(fm.rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list cache directory %s: %w", fm.rootDir, err)
	}

	absRoot, err := filepath.Abs(fm.rootDir)
	if err != nil {
		return nil, fmt.Errorf("resolving cache directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasSuffix(e.Name(), ".tmp") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.SliceStable(names, func(i, j int) bool {
		ni, okI := cachedImageIndex(names[i])
		nj, okJ := cachedImageIndex(names[j])
		switch {
		case okI && okJ:
			return ni < nj
		case okI != okJ:
			return okI
		default:
			return names[i] < names[j]
		}
	})

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(absRoot, name)
	}
	return paths, nil
}

// TotalSize returns the combined size in bytes of the files in the cache directory.
func (fm *FileManager) TotalSize() (int64, error) {
	entries, err := os.ReadDir(fm.rootDir)
	if err != nil {
		return 0, fmt.Errorf("failed to list cache directory %s: %w", fm.rootDir, err)
	}
	var total int64
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			log.Printf("Cache: failed to stat %s: %v", e.Name(), err)
			continue
		}
		total += info.Size()
	}
	return total, nil
}

// Clear removes the cache directory and everything in it.
func (fm *FileManager) Clear() error {
	log.Printf("Cache: removing %s", fm.rootDir)
	if err := os.RemoveAll(fm.rootDir); err != nil {
		return fmt.Errorf("failed to remove cache directory %s: %w", fm.rootDir, err)
	}
	return nil
}

// cachedImageIndex extracts n from wallpaper<n>.bmp.
func cachedImageIndex(name string) (int, bool) {
	if !strings.HasPrefix(name, CachedImagePrefix) || !strings.HasSuffix(name, CachedImageExt) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, CachedImagePrefix), CachedImageExt))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// writeFileAtomic writes data to path through a temporary file in the same
// directory, so readers see either the old or the new content.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
