// Package knowledge reads and writes the flat markdown knowledge
// files: `## <Category>` headers with `- item` bullets, one global
// copy under the base directory and one per project, merged at read
// time with global items first.
package knowledge

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/recall-dev/recall/internal/config"
)

// Categories is the fixed taxonomy, in display order.
var Categories = []string{CategoryCredentials, CategoryTools, CategoryGotchas, CategoryWorkflows}

// Category names.
const (
	CategoryCredentials = "Credentials"
	CategoryTools       = "Tools"
	CategoryGotchas     = "Gotchas"
	CategoryWorkflows   = "Workflows"
)

// Scopes for Add.
const (
	ScopeGlobal  = "global"
	ScopeProject = "project"
)

// Set holds knowledge items grouped by category.
type Set map[string][]string

// Store resolves the global and project knowledge files.
type Store struct {
	paths       config.Paths
	projectRoot string
}

// NewStore builds a knowledge store. projectRoot is the project's
// working directory; the project file lives at
// <projectRoot>/.claude/CLAUDE.md.
func NewStore(paths config.Paths, projectRoot string) *Store {
	return &Store{paths: paths, projectRoot: projectRoot}
}

// GlobalPath returns the shared knowledge file path.
func (s *Store) GlobalPath() string { return s.paths.GlobalKnowledgePath() }

// ProjectPath returns the project-scoped knowledge file path.
func (s *Store) ProjectPath() string {
	return filepath.Join(s.projectRoot, ".claude", "CLAUDE.md")
}

// Add appends item to the given category in the chosen scope's file,
// skipping exact duplicates. Unknown categories and scopes are
// rejected with a false return, not an error.
func (s *Store) Add(item, category, scope string) bool {
	if !validCategory(category) {
		return false
	}

	var path, header string
	switch scope {
	case ScopeGlobal:
		path, header = s.GlobalPath(), "# Global Knowledge"
	case ScopeProject:
		if s.projectRoot == "" {
			return false
		}
		path, header = s.ProjectPath(), "# Project Knowledge"
	default:
		return false
	}

	set := Load(path)
	for _, existing := range set[category] {
		if existing == item {
			return true
		}
	}
	set[category] = append(set[category], item)

	return Save(path, set, header) == nil
}

// All loads and merges global and project knowledge, global first.
func (s *Store) All() Set {
	global := Load(s.GlobalPath())
	project := Load(s.ProjectPath())

	merged := Set{}
	for _, cat := range Categories {
		merged[cat] = append(append([]string{}, global[cat]...), project[cat]...)
	}
	return merged
}

// Load parses a knowledge file into a Set. Missing or unreadable
// files yield an empty set.
func Load(path string) Set {
	set := Set{}
	for _, cat := range Categories {
		set[cat] = nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return set
	}

	current := ""
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)

		matched := false
		for _, cat := range Categories {
			if strings.HasPrefix(trimmed, "## "+cat) {
				current = cat
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		if current != "" && strings.HasPrefix(trimmed, "- ") {
			set[current] = append(set[current], trimmed[2:])
		}
	}
	return set
}

// Save writes the set back as markdown, creating parent directories.
// Empty categories are omitted.
func Save(path string, set Set, header string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	lines := []string{header, ""}
	for _, cat := range Categories {
		items := set[cat]
		if len(items) == 0 {
			continue
		}
		lines = append(lines, "## "+cat)
		for _, item := range items {
			lines = append(lines, "- "+item)
		}
		lines = append(lines, "")
	}

	return os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644)
}

// Summary formats per-category counts for the session-start block.
// Returns "(none)" when every category is empty.
func Summary(set Set) string {
	var lines []string
	for _, cat := range Categories {
		if n := len(set[cat]); n > 0 {
			lines = append(lines, fmt.Sprintf("  - %s: %d items", cat, n))
		}
	}
	if len(lines) == 0 {
		return "  (none)"
	}
	return strings.Join(lines, "\n")
}

func validCategory(cat string) bool {
	for _, c := range Categories {
		if c == cat {
			return true
		}
	}
	return false
}
