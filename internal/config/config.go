// Package config handles the optional recall.yaml limits file.
//
// Every cap and budget in the system lives in Limits so tests and
// deployments can tighten them without rebuilding. A missing or
// malformed file falls back to DefaultConfig(): configuration is
// best-effort, like everything else in this tool.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the filename looked up under the base directory.
const ConfigFile = "recall.yaml"

// Rule is one entry in an ordered substring-matching table: the first
// rule whose keyword appears in the (lowercased) input wins.
type Rule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// Limits holds every size bound and budget the store enforces.
type Limits struct {
	// Index bounds.
	MaxSessionsInIndex int `yaml:"max_sessions_in_index"`
	MaxIndexKB         int `yaml:"max_index_kb"`
	MinSessionsFloor   int `yaml:"min_sessions_floor"`

	// Failure-pattern bounds.
	MaxPatternEntries int `yaml:"max_pattern_entries"`
	DedupPrefixLen    int `yaml:"dedup_prefix_len"`

	// Session-detail caps.
	MaxDetailMessages int `yaml:"max_detail_messages"`
	MaxDetailCommands int `yaml:"max_detail_commands"`
	MaxDetailFailures int `yaml:"max_detail_failures"`
	MaxDetailSkills   int `yaml:"max_detail_skills"`

	// Truncation lengths.
	MaxMessageLen        int `yaml:"max_message_len"`
	MaxCommandLen        int `yaml:"max_command_len"`
	MaxErrorLen          int `yaml:"max_error_len"`
	MaxSummaryLen        int `yaml:"max_summary_len"`
	MaxPatternCommandLen int `yaml:"max_pattern_command_len"`

	// Satellite and raw-transcript maintenance.
	DetailKeepCount    int           `yaml:"detail_keep_count"`
	SessionLogMaxAge   time.Duration `yaml:"session_log_max_age"`
	SessionLogKeep     int           `yaml:"session_log_keep"`
	AgentLogMaxAge     time.Duration `yaml:"agent_log_max_age"`
	MaintenanceChance  float64       `yaml:"maintenance_chance"`
	ExtractionTimeout  time.Duration `yaml:"extraction_timeout"`
	SkillSessionsCap   int           `yaml:"skill_sessions_cap"`
	NoiseMessageFloor  int           `yaml:"noise_message_floor"`
}

// Config is the top-level structure of recall.yaml. The rule tables
// replace the built-in ones entirely when present.
type Config struct {
	Limits            Limits   `yaml:"limits"`
	ErrorRules        []Rule   `yaml:"error_rules"`
	LearningRules     []Rule   `yaml:"learning_rules"`
	SensitivePatterns []string `yaml:"sensitive_patterns"`
}

// DefaultLimits returns the stock bounds.
func DefaultLimits() Limits {
	return Limits{
		MaxSessionsInIndex:   50,
		MaxIndexKB:           60,
		MinSessionsFloor:     10,
		MaxPatternEntries:    15,
		DedupPrefixLen:       50,
		MaxDetailMessages:    30,
		MaxDetailCommands:    50,
		MaxDetailFailures:    20,
		MaxDetailSkills:      30,
		MaxMessageLen:        500,
		MaxCommandLen:        300,
		MaxErrorLen:          200,
		MaxSummaryLen:        200,
		MaxPatternCommandLen: 100,
		DetailKeepCount:      100,
		SessionLogMaxAge:     30 * 24 * time.Hour,
		SessionLogKeep:       5,
		AgentLogMaxAge:       7 * 24 * time.Hour,
		MaintenanceChance:    0.1,
		ExtractionTimeout:    10 * time.Second,
		SkillSessionsCap:     10,
		NoiseMessageFloor:    3,
	}
}

// DefaultConfig returns defaults with empty rule tables (callers fall
// back to the built-in tables when a table is empty).
func DefaultConfig() Config {
	return Config{Limits: DefaultLimits()}
}

// Load reads recall.yaml from baseDir. A missing or unparseable file
// is not an error, defaults are returned instead.
func Load(baseDir string) Config {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filepath.Join(baseDir, ConfigFile))
	if err != nil {
		return cfg
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return cfg
	}

	cfg.ErrorRules = fileCfg.ErrorRules
	cfg.LearningRules = fileCfg.LearningRules
	cfg.SensitivePatterns = fileCfg.SensitivePatterns
	cfg.Limits = mergeLimits(cfg.Limits, fileCfg.Limits)
	return cfg
}

// Save writes cfg to recall.yaml under baseDir, creating the directory
// if needed.
func Save(baseDir string, cfg Config) error {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(baseDir, ConfigFile), data, 0o644)
}

// mergeLimits overlays non-zero fields from override onto base, so a
// partial limits block only changes what it names.
func mergeLimits(base, override Limits) Limits {
	out := base
	if override.MaxSessionsInIndex > 0 {
		out.MaxSessionsInIndex = override.MaxSessionsInIndex
	}
	if override.MaxIndexKB > 0 {
		out.MaxIndexKB = override.MaxIndexKB
	}
	if override.MinSessionsFloor > 0 {
		out.MinSessionsFloor = override.MinSessionsFloor
	}
	if override.MaxPatternEntries > 0 {
		out.MaxPatternEntries = override.MaxPatternEntries
	}
	if override.DedupPrefixLen > 0 {
		out.DedupPrefixLen = override.DedupPrefixLen
	}
	if override.MaxDetailMessages > 0 {
		out.MaxDetailMessages = override.MaxDetailMessages
	}
	if override.MaxDetailCommands > 0 {
		out.MaxDetailCommands = override.MaxDetailCommands
	}
	if override.MaxDetailFailures > 0 {
		out.MaxDetailFailures = override.MaxDetailFailures
	}
	if override.MaxDetailSkills > 0 {
		out.MaxDetailSkills = override.MaxDetailSkills
	}
	if override.MaxMessageLen > 0 {
		out.MaxMessageLen = override.MaxMessageLen
	}
	if override.MaxCommandLen > 0 {
		out.MaxCommandLen = override.MaxCommandLen
	}
	if override.MaxErrorLen > 0 {
		out.MaxErrorLen = override.MaxErrorLen
	}
	if override.MaxSummaryLen > 0 {
		out.MaxSummaryLen = override.MaxSummaryLen
	}
	if override.MaxPatternCommandLen > 0 {
		out.MaxPatternCommandLen = override.MaxPatternCommandLen
	}
	if override.DetailKeepCount > 0 {
		out.DetailKeepCount = override.DetailKeepCount
	}
	if override.SessionLogMaxAge > 0 {
		out.SessionLogMaxAge = override.SessionLogMaxAge
	}
	if override.SessionLogKeep > 0 {
		out.SessionLogKeep = override.SessionLogKeep
	}
	if override.AgentLogMaxAge > 0 {
		out.AgentLogMaxAge = override.AgentLogMaxAge
	}
	if override.MaintenanceChance > 0 {
		out.MaintenanceChance = override.MaintenanceChance
	}
	if override.ExtractionTimeout > 0 {
		out.ExtractionTimeout = override.ExtractionTimeout
	}
	if override.SkillSessionsCap > 0 {
		out.SkillSessionsCap = override.SkillSessionsCap
	}
	if override.NoiseMessageFloor > 0 {
		out.NoiseMessageFloor = override.NoiseMessageFloor
	}
	return out
}
