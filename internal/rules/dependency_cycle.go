package rules

import (
	"context"
	"strings"

	"swiftlens/internal/analysis"
	"swiftlens/internal/rule"
	"swiftlens/internal/source"
)

// dependencyCycle reports reference cycles between nominal types. The same
// logical cycle is visible from every file involved, so the shared context
// dedups by unordered member set: the first scan to reach it reports, the
// rest stay silent.
type dependencyCycle struct{}

func (r *dependencyCycle) ID() string   { return "dependency_cycle" }
func (r *dependencyCycle) Name() string { return "Dependency Cycle" }
func (r *dependencyCycle) Description() string {
	return "Type reference cycles couple modules and often leak through strong ownership."
}
func (r *dependencyCycle) Category() rule.Category        { return rule.CategoryArchitecture }
func (r *dependencyCycle) DefaultSeverity() rule.Severity { return rule.SeverityError }
func (r *dependencyCycle) EnabledByDefault() bool         { return true }

func (r *dependencyCycle) UsesGlobalGraph() bool { return true }

func (r *dependencyCycle) ShouldAnalyze(f *source.SourceFile) bool {
	for _, s := range f.Symbols() {
		if s.Kind.IsType() {
			return true
		}
	}
	return false
}

func (r *dependencyCycle) Analyze(_ context.Context, f *source.SourceFile, actx *analysis.Context) []rule.Violation {
	g := actx.GlobalGraph()

	var out []rule.Violation
	for _, cycle := range g.FindCycles() {
		if !cycleTouchesFile(cycle.Locations, f.Path()) {
			continue
		}
		if !actx.ShouldReportCycle(cycle.Names) {
			continue
		}
		v := rule.NewViolation(r.ID(), r.DefaultSeverity()).
			Message("dependency cycle: " + strings.Join(cycle.Names, " -> ")).
			At(cycle.Locations[0]).
			Suggest("break the cycle with a protocol boundary or weak ownership").
			With("members", strings.Join(cycle.Names, ","))
		for _, loc := range cycle.Locations[1:] {
			v.Related(loc)
		}
		out = append(out, v.Build())
	}
	return out
}

func cycleTouchesFile(locs []source.Location, path string) bool {
	for _, l := range locs {
		if l.File == path {
			return true
		}
	}
	return false
}
