package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Paths resolves every on-disk location from a single injected base
// directory, so tests can point the whole system at a temp dir.
type Paths struct {
	Base string
}

// DefaultPaths returns Paths rooted at the host assistant's data
// directory (~/.claude).
func DefaultPaths() Paths {
	home, _ := os.UserHomeDir()
	return Paths{Base: filepath.Join(home, ".claude")}
}

// ProjectFolder converts a working directory into the flattened
// project folder name used under projects/.
func ProjectFolder(cwd string) string {
	return strings.ReplaceAll(cwd, "/", "-")
}

// ProjectDir is where a project's transcripts and index live.
func (p Paths) ProjectDir(projectFolder string) string {
	return filepath.Join(p.Base, "projects", projectFolder)
}

// IndexPath is the per-project index document.
func (p Paths) IndexPath(projectFolder string) string {
	return filepath.Join(p.ProjectDir(projectFolder), "recall-index.json")
}

// DetailsDir holds one satellite JSON file per indexed session.
func (p Paths) DetailsDir(projectFolder string) string {
	return filepath.Join(p.ProjectDir(projectFolder), "recall-sessions")
}

// DetailPath is the satellite file for one session.
func (p Paths) DetailPath(projectFolder, sessionID string) string {
	return filepath.Join(p.DetailsDir(projectFolder), sessionID+".json")
}

// GlobalKnowledgePath is the shared knowledge file read into every
// session regardless of project.
func (p Paths) GlobalKnowledgePath() string {
	return filepath.Join(p.Base, "CLAUDE.md")
}

// LegacyPendingPath is the old cross-project pending-learnings file,
// read only by migration.
func (p Paths) LegacyPendingPath() string {
	return filepath.Join(p.Base, "pending-learnings.json")
}

// ProjectsDir is the parent of all project folders, used by the
// cross-project search fallback.
func (p Paths) ProjectsDir() string {
	return filepath.Join(p.Base, "projects")
}
