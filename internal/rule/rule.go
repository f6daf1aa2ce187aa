// Package rule defines the contract every check implements and the
// violation/fix value types they produce.
package rule

import (
	"context"

	"swiftlens/internal/analysis"
	"swiftlens/internal/source"
)

// Category is the fixed rule taxonomy.
type Category string

const (
	CategorySafety       Category = "safety"
	CategoryConcurrency  Category = "concurrency"
	CategoryArchitecture Category = "architecture"
	CategoryMemory       Category = "memory"
	CategoryComplexity   Category = "complexity"
	CategoryPerformance  Category = "performance"
	CategorySecurity     Category = "security"
	CategoryTesting      Category = "testing"
)

// Severity orders findings. Hint is advisory only and never reported.
type Severity string

const (
	SeverityHint    Severity = "hint"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

var severityRank = map[Severity]int{
	SeverityHint:    0,
	SeverityInfo:    1,
	SeverityWarning: 2,
	SeverityError:   3,
}

// ParseSeverity maps a config string onto a severity, defaulting to warning.
func ParseSeverity(s string) Severity {
	switch Severity(s) {
	case SeverityHint, SeverityInfo, SeverityWarning, SeverityError:
		return Severity(s)
	}
	return SeverityWarning
}

// GTE reports whether a is at least as severe as b.
func (a Severity) GTE(b Severity) bool {
	return severityRank[a] >= severityRank[b]
}

// Reportable reports whether the severity participates in output.
func (a Severity) Reportable() bool {
	return a != SeverityHint
}

// Rule is the flat contract every check implements. Implementations must be
// safe to run concurrently with themselves (for different files) and with
// other rules (for the same file). All cross-file data comes from the shared
// analysis context; rules never derive it independently.
//
// Analyze never fails outward: internal errors degrade to an empty result so
// one misbehaving rule cannot reduce coverage from its siblings.
type Rule interface {
	ID() string
	Name() string
	Description() string
	Category() Category
	DefaultSeverity() Severity
	EnabledByDefault() bool

	// ShouldAnalyze is the cheap applicability filter. It runs for every
	// file/rule pair, so it must be fast and side-effect free.
	ShouldAnalyze(file *source.SourceFile) bool

	Analyze(ctx context.Context, file *source.SourceFile, actx *analysis.Context) []Violation
}
