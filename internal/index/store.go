package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/recall-dev/recall/internal/config"
)

// Store persists index documents and satellite detail files under an
// injected base path. Missing or corrupt files are never errors on the
// read path: Load degrades to a fresh empty document.
type Store struct {
	paths  config.Paths
	limits config.Limits
}

// NewStore creates a filesystem-backed index store.
func NewStore(paths config.Paths, limits config.Limits) *Store {
	return &Store{paths: paths, limits: limits}
}

// Paths returns the path resolver the store was built with.
func (s *Store) Paths() config.Paths { return s.paths }

// Limits returns the bounds the store enforces on save.
func (s *Store) Limits() config.Limits { return s.limits }

// Load reads the project's index, migrating stale schema versions
// forward. A missing or unparseable file yields a fresh empty index;
// the corrupt original is left untouched until the next Save.
func (s *Store) Load(projectFolder string) *Index {
	data, err := os.ReadFile(s.paths.IndexPath(projectFolder))
	if err != nil {
		return New(projectFolder)
	}

	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return New(projectFolder)
	}

	if idx.Project == "" {
		idx.Project = projectFolder
	}
	idx.ensureMaps()
	if idx.Version < CurrentVersion {
		s.migrate(projectFolder, &idx)
		// Read-only callers never save, so the migrated document is
		// persisted here. The legacy pending file is removed only
		// once the folded items are safely on disk.
		if err := s.Save(projectFolder, &idx); err == nil {
			_ = os.Remove(s.paths.LegacyPendingPath())
		}
	}
	return &idx
}

// Exists reports whether an index document is present on disk.
func (s *Store) Exists(projectFolder string) bool {
	_, err := os.Stat(s.paths.IndexPath(projectFolder))
	return err == nil
}

// Save prunes the index to its size bounds and rewrites the whole
// document, creating parent directories as needed.
func (s *Store) Save(projectFolder string, idx *Index) error {
	idx.Version = CurrentVersion
	Prune(idx, s.limits)

	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling index: %w", err)
	}

	path := s.paths.IndexPath(projectFolder)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating project directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// SaveDetail writes a session's satellite file.
func (s *Store) SaveDetail(projectFolder string, d *Detail) error {
	dir := s.paths.DetailsDir(projectFolder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating details directory: %w", err)
	}

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session detail: %w", err)
	}
	return os.WriteFile(s.paths.DetailPath(projectFolder, d.SessionID), data, 0o644)
}

// LoadDetail reads a session's satellite file. The second return is
// false when the file is absent or unreadable.
func (s *Store) LoadDetail(projectFolder, sessionID string) (*Detail, bool) {
	data, err := os.ReadFile(s.paths.DetailPath(projectFolder, sessionID))
	if err != nil {
		return nil, false
	}
	var d Detail
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, false
	}
	return &d, true
}

// DeleteDetail removes a session's satellite file if present.
func (s *Store) DeleteDetail(projectFolder, sessionID string) {
	_ = os.Remove(s.paths.DetailPath(projectFolder, sessionID))
}

// SortedSessionIDs returns session ids ordered newest-first by date.
func SortedSessionIDs(idx *Index) []string {
	ids := make([]string, 0, len(idx.Sessions))
	for id := range idx.Sessions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		di, dj := idx.Sessions[ids[i]].Date, idx.Sessions[ids[j]].Date
		if di != dj {
			return di > dj
		}
		return ids[i] < ids[j]
	})
	return ids
}

// Export copies the raw index document to destPath.
func (s *Store) Export(projectFolder, destPath string) error {
	data, err := os.ReadFile(s.paths.IndexPath(projectFolder))
	if err != nil {
		return fmt.Errorf("reading index: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("creating destination directory: %w", err)
	}
	return os.WriteFile(destPath, data, 0o644)
}

// Import validates and installs an index document from srcPath,
// replacing the current one. The document must parse as an Index;
// migration runs on next Load.
func (s *Store) Import(projectFolder, srcPath string) error {
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("reading import file: %w", err)
	}
	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return fmt.Errorf("parsing import file: %w", err)
	}

	path := s.paths.IndexPath(projectFolder)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating project directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Reset deletes the index document and all satellite detail files.
func (s *Store) Reset(projectFolder string) error {
	if err := os.Remove(s.paths.IndexPath(projectFolder)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing index: %w", err)
	}
	if err := os.RemoveAll(s.paths.DetailsDir(projectFolder)); err != nil {
		return fmt.Errorf("removing session details: %w", err)
	}
	return nil
}
