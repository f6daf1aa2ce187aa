package rules

import (
	"context"
	"strings"

	"swiftlens/internal/analysis"
	"swiftlens/internal/rule"
	"swiftlens/internal/source"
)

// printStatement flags `print(...)` calls in production code.
type printStatement struct{}

func (r *printStatement) ID() string   { return "print_statement" }
func (r *printStatement) Name() string { return "Print Statement" }
func (r *printStatement) Description() string {
	return "`print` is unstructured, unconditional output; use a logger."
}
func (r *printStatement) Category() rule.Category        { return rule.CategoryPerformance }
func (r *printStatement) DefaultSeverity() rule.Severity { return rule.SeverityInfo }
func (r *printStatement) EnabledByDefault() bool         { return true }

func (r *printStatement) ShouldAnalyze(f *source.SourceFile) bool {
	return !f.IsTestFile()
}

func (r *printStatement) Analyze(_ context.Context, f *source.SourceFile, _ *analysis.Context) []rule.Violation {
	var out []rule.Violation
	for i, line := range f.Lines() {
		trimmed := strings.TrimSpace(line)
		if isComment(trimmed) {
			continue
		}
		if !strings.HasPrefix(trimmed, "print(") {
			continue
		}
		col := strings.Index(line, "print(")
		out = append(out, rule.NewViolation(r.ID(), r.DefaultSeverity()).
			Message("print statement in production code").
			At(lineLocation(f, i+1, col+1)).
			Suggest("use os.Logger or a project logging facade").
			Build())
	}
	return out
}
