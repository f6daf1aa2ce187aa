package rules

import (
	"context"
	"strings"

	"swiftlens/internal/analysis"
	"swiftlens/internal/rule"
	"swiftlens/internal/source"
)

// sharedMutableState flags file-scope `var` declarations, which are
// unsynchronized shared state under concurrent access.
type sharedMutableState struct{}

func (r *sharedMutableState) ID() string   { return "shared_mutable_state" }
func (r *sharedMutableState) Name() string { return "Shared Mutable State" }
func (r *sharedMutableState) Description() string {
	return "Global variables are implicitly shared across tasks without synchronization."
}
func (r *sharedMutableState) Category() rule.Category        { return rule.CategoryConcurrency }
func (r *sharedMutableState) DefaultSeverity() rule.Severity { return rule.SeverityWarning }
func (r *sharedMutableState) EnabledByDefault() bool         { return true }

func (r *sharedMutableState) ShouldAnalyze(f *source.SourceFile) bool {
	return !f.IsTestFile()
}

func (r *sharedMutableState) Analyze(_ context.Context, f *source.SourceFile, _ *analysis.Context) []rule.Violation {
	var out []rule.Violation
	for _, sym := range f.SymbolsOfKind(source.KindVariable) {
		if sym.Parent != "" {
			continue
		}
		decl := strings.TrimSpace(f.Line(sym.Location.Line))
		if !strings.HasPrefix(decl, "var ") && !strings.Contains(decl, " var ") {
			continue
		}
		if sym.HasAttribute("@MainActor") {
			continue
		}
		out = append(out, rule.NewViolation(r.ID(), r.DefaultSeverity()).
			Message("global mutable variable `"+sym.Name+"`").
			At(sym.Location).
			Suggest("move the state into an actor or annotate it with a global actor").
			Build())
	}
	return out
}
