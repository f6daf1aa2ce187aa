package rules

import (
	"context"
	"strings"

	"swiftlens/internal/analysis"
	"swiftlens/internal/rule"
	"swiftlens/internal/source"
)

// forceTry flags `try!`, which turns a recoverable error into a crash.
type forceTry struct{}

func (r *forceTry) ID() string          { return "force_try" }
func (r *forceTry) Name() string        { return "Force Try" }
func (r *forceTry) Description() string { return "`try!` crashes when the call throws; handle or propagate the error." }
func (r *forceTry) Category() rule.Category        { return rule.CategorySafety }
func (r *forceTry) DefaultSeverity() rule.Severity { return rule.SeverityError }
func (r *forceTry) EnabledByDefault() bool         { return true }

func (r *forceTry) ShouldAnalyze(f *source.SourceFile) bool {
	return !f.IsTestFile()
}

func (r *forceTry) Analyze(_ context.Context, f *source.SourceFile, _ *analysis.Context) []rule.Violation {
	var out []rule.Violation
	for i, line := range f.Lines() {
		trimmed := strings.TrimSpace(line)
		if isComment(trimmed) {
			continue
		}
		col := strings.Index(line, "try!")
		if col < 0 {
			continue
		}
		out = append(out, rule.NewViolation(r.ID(), r.DefaultSeverity()).
			Message("`try!` converts a thrown error into a fatal crash").
			At(lineLocation(f, i+1, col+1)).
			Suggest("use `do { try ... } catch` or propagate with `try`").
			Build())
	}
	return out
}
