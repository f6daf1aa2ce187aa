// Package config loads the YAML analysis configuration with .env overrides.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// SemanticMode is the strictness tier governing whether a rule may rely on
// best-effort type resolution.
type SemanticMode string

const (
	SemanticOff        SemanticMode = "off"
	SemanticBestEffort SemanticMode = "best_effort"
	SemanticStrict     SemanticMode = "strict"
)

// ParseSemanticMode falls back to best-effort for unknown spellings.
func ParseSemanticMode(s string) SemanticMode {
	switch SemanticMode(s) {
	case SemanticOff, SemanticBestEffort, SemanticStrict:
		return SemanticMode(s)
	}
	return SemanticBestEffort
}

// RuleSetting is the raw per-rule YAML block.
type RuleSetting struct {
	Enabled  *bool          `yaml:"enabled"`
	Severity string         `yaml:"severity"`
	Params   map[string]any `yaml:"params"`
}

// SemanticConfig holds the global mode plus per-rule overrides.
type SemanticConfig struct {
	Mode  string            `yaml:"mode"`
	Rules map[string]string `yaml:"rules"`
}

type Config struct {
	Root              string                 `yaml:"root"`
	Include           []string               `yaml:"include"`
	Exclude           []string               `yaml:"exclude"`
	MaxJobs           int                    `yaml:"max_jobs"`
	SeverityThreshold string                 `yaml:"severity_threshold"`
	BaselinePath      string                 `yaml:"baseline"`
	UseEnhancedRules  bool                   `yaml:"use_enhanced_rules"`
	Semantic          SemanticConfig         `yaml:"semantic"`
	Rules             map[string]RuleSetting `yaml:"rules"`
}

// Default returns the configuration used when no file is present. Enhanced
// (graph-backed) rules are on by default; setting use_enhanced_rules to
// false restricts a run to the file-local rules.
func Default() *Config {
	return &Config{
		SeverityThreshold: "info",
		UseEnhancedRules:  true,
		Semantic:          SemanticConfig{Mode: string(SemanticBestEffort)},
		Rules:             map[string]RuleSetting{},
	}
}

// Load reads a YAML config file, then applies environment overrides.
// A missing file yields the defaults rather than an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	if v := os.Getenv("SWIFTLENS_MAX_JOBS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxJobs = n
		}
	}
	if v := os.Getenv("SWIFTLENS_BASELINE"); v != "" {
		cfg.BaselinePath = v
	}
	if cfg.Rules == nil {
		cfg.Rules = map[string]RuleSetting{}
	}
	return cfg, nil
}

// RuleEnabled resolves the enabled flag for a rule, falling back to the
// rule's own default when the config is silent.
func (c *Config) RuleEnabled(ruleID string, defaultEnabled bool) bool {
	if s, ok := c.Rules[ruleID]; ok && s.Enabled != nil {
		return *s.Enabled
	}
	return defaultEnabled
}

// SeverityOverride returns the configured severity for a rule, if any.
func (c *Config) SeverityOverride(ruleID string) (string, bool) {
	if s, ok := c.Rules[ruleID]; ok && s.Severity != "" {
		return s.Severity, true
	}
	return "", false
}

// RuleConfig builds the typed parameter view for a rule.
func (c *Config) RuleConfig(ruleID string) RuleSpecificConfiguration {
	s := c.Rules[ruleID]
	enabled := true
	if s.Enabled != nil {
		enabled = *s.Enabled
	}
	return RuleSpecificConfiguration{
		RuleID:   ruleID,
		Enabled:  enabled,
		Severity: s.Severity,
		params:   s.Params,
	}
}

// GlobalSemanticMode resolves the run-wide semantic mode.
func (c *Config) GlobalSemanticMode() SemanticMode {
	return ParseSemanticMode(c.Semantic.Mode)
}

// SemanticModeOverride returns the per-rule semantic override, if present.
func (c *Config) SemanticModeOverride(ruleID string) (SemanticMode, bool) {
	if c.Semantic.Rules == nil {
		return "", false
	}
	if m, ok := c.Semantic.Rules[ruleID]; ok {
		return ParseSemanticMode(m), true
	}
	return "", false
}

// RuleSpecificConfiguration is the per-rule view handed to rules: enabled
// flag, severity override, and typed parameter lookups with defaults.
type RuleSpecificConfiguration struct {
	RuleID   string
	Enabled  bool
	Severity string
	params   map[string]any
}

// IntParam returns a named integer parameter, or def when absent or
// malformed. Malformed values never abort a run.
func (rc RuleSpecificConfiguration) IntParam(name string, def int) int {
	switch v := rc.params[name].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func (rc RuleSpecificConfiguration) BoolParam(name string, def bool) bool {
	switch v := rc.params[name].(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func (rc RuleSpecificConfiguration) StringParam(name string, def string) string {
	if v, ok := rc.params[name].(string); ok {
		return v
	}
	return def
}

func (rc RuleSpecificConfiguration) StringSliceParam(name string, def []string) []string {
	v, ok := rc.params[name]
	if !ok {
		return def
	}
	switch vv := v.(type) {
	case []string:
		return vv
	case []any:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return def
}

// MatchesGlob is the path matcher used by include/exclude filtering.
// Patterns match against the slashed path, its basename, and support a
// leading "**/" for any-directory matches.
func MatchesGlob(pattern, path string) bool {
	path = filepath.ToSlash(path)
	if ok, err := filepath.Match(pattern, path); err == nil && ok {
		return true
	}
	if ok, err := filepath.Match(pattern, filepath.Base(path)); err == nil && ok {
		return true
	}
	if rest, found := strings.CutPrefix(pattern, "**/"); found {
		segments := strings.Split(path, "/")
		for i := range segments {
			sub := strings.Join(segments[i:], "/")
			if ok, err := filepath.Match(rest, sub); err == nil && ok {
				return true
			}
		}
	}
	// Bare directory names act as substring filters, mirroring common
	// linter exclude lists like "Tests" or "Generated".
	if !strings.ContainsAny(pattern, "*?[") {
		return strings.Contains(path, pattern)
	}
	return false
}
