package rules

import (
	"context"
	"strings"

	"swiftlens/internal/analysis"
	"swiftlens/internal/rule"
	"swiftlens/internal/source"
)

// sendableConformance verifies that classes claiming Sendable hold no
// mutable stored state. It is a cross-file check: conformance may come in
// through a protocol declared elsewhere, so it queries the global graph.
type sendableConformance struct{}

func (r *sendableConformance) ID() string   { return "sendable_conformance" }
func (r *sendableConformance) Name() string { return "Sendable Conformance" }
func (r *sendableConformance) Description() string {
	return "A Sendable class with mutable stored properties is not data-race safe."
}
func (r *sendableConformance) Category() rule.Category        { return rule.CategoryConcurrency }
func (r *sendableConformance) DefaultSeverity() rule.Severity { return rule.SeverityError }
func (r *sendableConformance) EnabledByDefault() bool         { return true }

func (r *sendableConformance) UsesGlobalGraph() bool { return true }

func (r *sendableConformance) ShouldAnalyze(f *source.SourceFile) bool {
	return len(f.SymbolsOfKind(source.KindClass)) > 0
}

func (r *sendableConformance) Analyze(_ context.Context, f *source.SourceFile, actx *analysis.Context) []rule.Violation {
	// Conformance tracing is semantic; honor the configured mode.
	if !actx.HasSemanticAnalysis(r.ID()) {
		return nil
	}
	g := actx.GlobalGraph()

	var out []rule.Violation
	for _, cls := range f.SymbolsOfKind(source.KindClass) {
		if !g.ConformsToSendable(cls.ID) {
			continue
		}
		for _, prop := range f.SymbolsOfKind(source.KindVariable) {
			if prop.Parent != cls.ID {
				continue
			}
			decl := strings.TrimSpace(f.Line(prop.Location.Line))
			if !strings.Contains(decl, "var ") {
				continue
			}
			if prop.HasAttribute("@MainActor") || prop.HasModifier("nonisolated") {
				continue
			}
			out = append(out, rule.NewViolation(r.ID(), r.DefaultSeverity()).
				Message("Sendable class `"+cls.Name+"` has mutable stored property `"+prop.Name+"`").
				At(prop.Location).
				Related(cls.Location).
				Suggest("make the property `let`, isolate it to an actor, or drop the Sendable conformance").
				With("class", cls.Name).
				With("property", prop.Name).
				Build())
		}
	}
	return out
}
