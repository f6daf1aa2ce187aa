package rules

import (
	"context"

	"swiftlens/internal/analysis"
	"swiftlens/internal/rule"
	"swiftlens/internal/source"
)

// deadCode reports declarations nothing in the program references. Each
// file's scan reports only the dead symbols declared in that file, so the
// whole-program query yields no duplicates across scans.
type deadCode struct{}

func (r *deadCode) ID() string   { return "dead_code" }
func (r *deadCode) Name() string { return "Dead Code" }
func (r *deadCode) Description() string {
	return "Unreferenced non-public declarations are dead weight."
}
func (r *deadCode) Category() rule.Category        { return rule.CategoryArchitecture }
func (r *deadCode) DefaultSeverity() rule.Severity { return rule.SeverityInfo }
func (r *deadCode) EnabledByDefault() bool         { return true }

func (r *deadCode) UsesGlobalGraph() bool { return true }

func (r *deadCode) ShouldAnalyze(f *source.SourceFile) bool {
	return !f.IsTestFile()
}

func (r *deadCode) Analyze(_ context.Context, f *source.SourceFile, actx *analysis.Context) []rule.Violation {
	g := actx.GlobalGraph()

	var out []rule.Violation
	for _, sym := range g.UnreachableSymbols() {
		if sym.Location.File != f.Path() {
			continue
		}
		out = append(out, rule.NewViolation(r.ID(), r.DefaultSeverity()).
			Message(string(sym.Kind)+" `"+sym.Name+"` is never referenced").
			At(sym.Location).
			Suggest("remove the declaration or mark it public if it is external API").
			With("symbol", sym.QualifiedName).
			Build())
	}
	return out
}
