package rules

import (
	"context"
	"fmt"

	"swiftlens/internal/analysis"
	"swiftlens/internal/rule"
	"swiftlens/internal/source"
)

// deepNesting flags functions whose brace depth exceeds the configured
// maximum (parameter "max_depth", default 5). A fresh complexity analyzer
// is constructed per call; it holds no shared state.
type deepNesting struct{}

func (r *deepNesting) ID() string   { return "deep_nesting" }
func (r *deepNesting) Name() string { return "Deep Nesting" }
func (r *deepNesting) Description() string {
	return "Deeply nested control flow hides the happy path."
}
func (r *deepNesting) Category() rule.Category        { return rule.CategoryComplexity }
func (r *deepNesting) DefaultSeverity() rule.Severity { return rule.SeverityWarning }
func (r *deepNesting) EnabledByDefault() bool         { return true }

func (r *deepNesting) ShouldAnalyze(f *source.SourceFile) bool {
	return len(f.SymbolsOfKind(source.KindFunction)) > 0
}

func (r *deepNesting) Analyze(_ context.Context, f *source.SourceFile, actx *analysis.Context) []rule.Violation {
	maxDepth := actx.Config().RuleConfig(r.ID()).IntParam("max_depth", 5)
	analyzer := analysis.NewComplexityAnalyzer()

	var out []rule.Violation
	for _, sym := range f.SymbolsOfKind(source.KindFunction) {
		result := analyzer.Complexity(f, sym)
		if result.MaxNesting <= maxDepth {
			continue
		}
		out = append(out, rule.NewViolation(r.ID(), r.DefaultSeverity()).
			Message(fmt.Sprintf("function `%s` nests %d levels deep (limit %d)", sym.Name, result.MaxNesting, maxDepth)).
			At(sym.Location).
			Suggest("use guard clauses or extract helper functions").
			Build())
	}
	return out
}
