package rules

import (
	"context"
	"fmt"

	"swiftlens/internal/analysis"
	"swiftlens/internal/rule"
	"swiftlens/internal/source"
)

// typeBodyLength flags nominal types whose body exceeds the configured
// line budget (parameter "max_lines", default 200).
type typeBodyLength struct{}

func (r *typeBodyLength) ID() string   { return "type_body_length" }
func (r *typeBodyLength) Name() string { return "Type Body Length" }
func (r *typeBodyLength) Description() string {
	return "Oversized types accumulate responsibilities; split them."
}
func (r *typeBodyLength) Category() rule.Category        { return rule.CategoryComplexity }
func (r *typeBodyLength) DefaultSeverity() rule.Severity { return rule.SeverityWarning }
func (r *typeBodyLength) EnabledByDefault() bool         { return true }

func (r *typeBodyLength) ShouldAnalyze(f *source.SourceFile) bool {
	return !f.IsTestFile()
}

func (r *typeBodyLength) Analyze(_ context.Context, f *source.SourceFile, actx *analysis.Context) []rule.Violation {
	maxLines := actx.Config().RuleConfig(r.ID()).IntParam("max_lines", 200)

	var out []rule.Violation
	for _, sym := range f.Symbols() {
		if !sym.Kind.IsType() {
			continue
		}
		length := sym.EndLine - sym.Location.Line + 1
		if length <= maxLines {
			continue
		}
		out = append(out, rule.NewViolation(r.ID(), r.DefaultSeverity()).
			Message(fmt.Sprintf("%s `%s` spans %d lines (limit %d)", sym.Kind, sym.Name, length, maxLines)).
			At(sym.Location).
			Suggest("extract cohesive members into extensions or separate types").
			Build())
	}
	return out
}
