package rules

import (
	"context"
	"strings"

	"swiftlens/internal/analysis"
	"swiftlens/internal/rule"
	"swiftlens/internal/source"
)

// retainCycleCapture flags escaping closures that capture self strongly.
// The detection is line-local and deliberately conservative: it only fires
// on closures that open and use self on the same line, or on an explicit
// strong `[self]` capture list.
type retainCycleCapture struct{}

func (r *retainCycleCapture) ID() string   { return "retain_cycle_capture" }
func (r *retainCycleCapture) Name() string { return "Retain Cycle Capture" }
func (r *retainCycleCapture) Description() string {
	return "Strong self captures in escaping closures keep the owner alive."
}
func (r *retainCycleCapture) Category() rule.Category        { return rule.CategoryMemory }
func (r *retainCycleCapture) DefaultSeverity() rule.Severity { return rule.SeverityWarning }
func (r *retainCycleCapture) EnabledByDefault() bool         { return true }

func (r *retainCycleCapture) ShouldAnalyze(f *source.SourceFile) bool {
	return strings.Contains(f.Source(), "self")
}

func (r *retainCycleCapture) Analyze(_ context.Context, f *source.SourceFile, _ *analysis.Context) []rule.Violation {
	var out []rule.Violation
	for i, line := range f.Lines() {
		trimmed := strings.TrimSpace(line)
		if isComment(trimmed) {
			continue
		}

		capture := ""
		switch {
		case strings.Contains(line, "[self]"):
			capture = "[self]"
		case strings.Contains(line, "{") && strings.Contains(line, " in") && strings.Contains(line, "self."):
			if strings.Contains(line, "[weak self]") || strings.Contains(line, "[unowned self]") {
				continue
			}
			capture = "self"
		default:
			continue
		}

		col := strings.Index(line, capture)
		out = append(out, rule.NewViolation(r.ID(), r.DefaultSeverity()).
			Message("closure captures self strongly").
			At(lineLocation(f, i+1, col+1)).
			Suggest("capture `[weak self]` and bind it at the top of the closure").
			With("capture", capture).
			Build())
	}
	return out
}
