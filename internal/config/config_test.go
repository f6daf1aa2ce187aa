package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
root: ./Sources
include:
  - "**/Sources/*.swift"
exclude:
  - Generated
max_jobs: 4
severity_threshold: warning
baseline: .swiftlens-baseline.db
use_enhanced_rules: false
semantic:
  mode: strict
  rules:
    dead_code: "off"
rules:
  force_unwrap:
    severity: error
  print_statement:
    enabled: false
  type_body_length:
    params:
      max_lines: 300
  hardcoded_secret:
    params:
      patterns:
        - "api_key"
        - "secret"
`

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".swiftlens.yml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "./Sources", cfg.Root)
	assert.Equal(t, 4, cfg.MaxJobs)
	assert.Equal(t, "warning", cfg.SeverityThreshold)
	assert.Equal(t, ".swiftlens-baseline.db", cfg.BaselinePath)
	assert.False(t, cfg.UseEnhancedRules)
	assert.Equal(t, SemanticStrict, cfg.GlobalSemanticMode())

	mode, ok := cfg.SemanticModeOverride("dead_code")
	require.True(t, ok)
	assert.Equal(t, SemanticOff, mode)
	_, ok = cfg.SemanticModeOverride("force_unwrap")
	assert.False(t, ok)
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.SeverityThreshold)
	assert.True(t, cfg.UseEnhancedRules, "enhanced rules default on")
	assert.Equal(t, SemanticBestEffort, cfg.GlobalSemanticMode())
	assert.NotNil(t, cfg.Rules)
}

func TestLoadMalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "rules: [not a map"))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SWIFTLENS_MAX_JOBS", "7")
	t.Setenv("SWIFTLENS_BASELINE", "/tmp/base.db")

	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.MaxJobs)
	assert.Equal(t, "/tmp/base.db", cfg.BaselinePath)
}

func TestRuleToggles(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.True(t, cfg.RuleEnabled("force_unwrap", true))
	assert.False(t, cfg.RuleEnabled("print_statement", true), "explicit disable wins")
	assert.False(t, cfg.RuleEnabled("unlisted_off_by_default", false), "silence keeps the rule default")

	sev, ok := cfg.SeverityOverride("force_unwrap")
	require.True(t, ok)
	assert.Equal(t, "error", sev)
	_, ok = cfg.SeverityOverride("print_statement")
	assert.False(t, ok)
}

func TestTypedParams(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	t.Run("int with default", func(t *testing.T) {
		rc := cfg.RuleConfig("type_body_length")
		assert.Equal(t, 300, rc.IntParam("max_lines", 200))
		assert.Equal(t, 5, rc.IntParam("absent", 5))
	})

	t.Run("string slice", func(t *testing.T) {
		rc := cfg.RuleConfig("hardcoded_secret")
		assert.Equal(t, []string{"api_key", "secret"}, rc.StringSliceParam("patterns", nil))
		assert.Equal(t, []string{"fallback"}, rc.StringSliceParam("absent", []string{"fallback"}))
	})

	t.Run("unknown rule gets defaults", func(t *testing.T) {
		rc := cfg.RuleConfig("never_configured")
		assert.True(t, rc.Enabled)
		assert.Equal(t, 9, rc.IntParam("anything", 9))
		assert.True(t, rc.BoolParam("flag", true))
		assert.Equal(t, "d", rc.StringParam("s", "d"))
	})
}

func TestMatchesGlob(t *testing.T) {
	cases := []struct {
		pattern, path string
		want          bool
	}{
		{"*.swift", "App/Deep/Tree/File.swift", true},
		{"*.swift", "App/File.md", false},
		{"**/Sources/*.swift", "Pkg/Sources/Main.swift", true},
		{"**/Sources/*.swift", "Pkg/Sources/Sub/Main.swift", false},
		{"Generated", "App/Generated/Models.swift", true},
		{"Generated", "App/Handwritten/Models.swift", false},
		{"Fixture?.swift", "Fixture1.swift", true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, MatchesGlob(tc.pattern, tc.path),
			"pattern %q against %q", tc.pattern, tc.path)
	}
}
