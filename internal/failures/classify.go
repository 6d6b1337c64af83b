// Package failures classifies command failures and maintains the
// per-project failure histogram: merge with command-prefix
// deduplication, bounded category length, frequency ranking, and an
// explicit compaction pass for periodic cleanup.
package failures

import (
	"strings"

	"github.com/recall-dev/recall/internal/config"
)

// CategoryOther is the fallback error category.
const CategoryOther = "other_error"

// CategoryGeneral is the fallback learning category.
const CategoryGeneral = "general"

// DefaultErrorRules is the ordered error-classification table. First
// matching rule wins.
func DefaultErrorRules() []config.Rule {
	return []config.Rule{
		{Category: "permission_denied", Keywords: []string{"permission denied", "access denied", "eacces"}},
		{Category: "not_found", Keywords: []string{"not found", "no such file", "enoent", "command not found"}},
		{Category: "syntax_error", Keywords: []string{"syntax error", "parse error", "unexpected token"}},
		{Category: "connection_error", Keywords: []string{"connection refused", "timeout", "econnrefused", "network"}},
		{Category: "import_error", Keywords: []string{"import error", "module not found", "no module named"}},
		{Category: "type_error", Keywords: []string{"typeerror", "type error"}},
		{Category: "git_error", Keywords: []string{"fatal:", "git"}},
		{Category: "npm_error", Keywords: []string{"npm err", "npm warn"}},
		{Category: "python_error", Keywords: []string{"traceback", "exception"}},
	}
}

// DefaultLearningRules maps error text to the knowledge-category
// taxonomy used for learnings.
func DefaultLearningRules() []config.Rule {
	return []config.Rule{
		{Category: "shell", Keywords: []string{"parse error", "syntax error", "unexpected token", "unterminated", "bad substitution"}},
		{Category: "permissions", Keywords: []string{"permission denied", "access denied", "eacces"}},
		{Category: "paths", Keywords: []string{"not found", "no such file", "enoent"}},
		{Category: "network", Keywords: []string{"connection refused", "timeout", "econnrefused"}},
		{Category: "python", Keywords: []string{"traceback", "import error", "no module named", "typeerror"}},
		{Category: "git", Keywords: []string{"fatal:", "merge conflict", "detached head"}},
		{Category: "npm", Keywords: []string{"npm err", "npm warn"}},
		{Category: "aws", Keywords: []string{"expired", "credentials", "access denied", "invalididentity"}},
	}
}

// Classifier matches error text against an ordered rule table using
// case-insensitive substring matching.
type Classifier struct {
	rules    []config.Rule
	fallback string
}

// NewClassifier builds a classifier over the given rules. An empty
// table falls back to DefaultErrorRules.
func NewClassifier(rules []config.Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultErrorRules()
	}
	return &Classifier{rules: rules, fallback: CategoryOther}
}

// NewLearningClassifier builds the learning-category classifier. An
// empty table falls back to DefaultLearningRules.
func NewLearningClassifier(rules []config.Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultLearningRules()
	}
	return &Classifier{rules: rules, fallback: CategoryGeneral}
}

// Classify returns the first matching rule's category, or the
// fallback when nothing matches.
func (c *Classifier) Classify(errText string) string {
	lower := strings.ToLower(errText)
	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Category
			}
		}
	}
	return c.fallback
}
