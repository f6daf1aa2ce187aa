package rules

import (
	"context"
	"regexp"
	"strings"

	"swiftlens/internal/analysis"
	"swiftlens/internal/rule"
	"swiftlens/internal/source"
)

// actorIsolation flags nonisolated members that touch actor-isolated
// mutable state. Nonisolated code runs off the actor's executor, so a
// synchronous read or write of isolated `var` storage bypasses the
// actor's serialization.
type actorIsolation struct{}

func (r *actorIsolation) ID() string   { return "actor_isolation" }
func (r *actorIsolation) Name() string { return "Actor Isolation" }
func (r *actorIsolation) Description() string {
	return "Nonisolated members must not access actor-isolated mutable state synchronously."
}
func (r *actorIsolation) Category() rule.Category        { return rule.CategoryConcurrency }
func (r *actorIsolation) DefaultSeverity() rule.Severity { return rule.SeverityError }
func (r *actorIsolation) EnabledByDefault() bool         { return true }

func (r *actorIsolation) ShouldAnalyze(f *source.SourceFile) bool {
	return len(f.SymbolsOfKind(source.KindActor)) > 0
}

func (r *actorIsolation) Analyze(_ context.Context, f *source.SourceFile, _ *analysis.Context) []rule.Violation {
	var out []rule.Violation
	for _, act := range f.SymbolsOfKind(source.KindActor) {
		isolated := isolatedVarPatterns(f, act)
		if len(isolated) == 0 {
			continue
		}
		for _, fn := range f.SymbolsOfKind(source.KindFunction) {
			if fn.Parent != act.ID || !fn.HasModifier("nonisolated") {
				continue
			}
			out = append(out, r.scanMember(f, act, fn, isolated)...)
		}
	}
	return out
}

type isolatedVar struct {
	name string
	re   *regexp.Regexp
}

// isolatedVarPatterns collects the actor's mutable stored properties.
// Immutable `let` storage is safely readable from nonisolated code and
// `static` storage is not instance-isolated, so both stay out.
func isolatedVarPatterns(f *source.SourceFile, act source.Symbol) []isolatedVar {
	var out []isolatedVar
	for _, prop := range f.SymbolsOfKind(source.KindVariable) {
		if prop.Parent != act.ID {
			continue
		}
		decl := strings.TrimSpace(f.Line(prop.Location.Line))
		if !strings.Contains(decl, "var ") || strings.Contains(decl, "static ") {
			continue
		}
		if prop.HasModifier("nonisolated") {
			continue
		}
		out = append(out, isolatedVar{
			name: prop.Name,
			re:   regexp.MustCompile(`\b` + regexp.QuoteMeta(prop.Name) + `\b`),
		})
	}
	return out
}

func (r *actorIsolation) scanMember(f *source.SourceFile, act, fn source.Symbol, isolated []isolatedVar) []rule.Violation {
	var out []rule.Violation
	for line := fn.Location.Line + 1; line <= fn.EndLine; line++ {
		text := f.Line(line)
		trimmed := strings.TrimSpace(text)
		if isComment(trimmed) {
			continue
		}
		// An awaited access hops onto the actor first; that is the legal
		// way for nonisolated async code to reach isolated state.
		if strings.Contains(text, "await") {
			continue
		}
		for _, v := range isolated {
			loc := v.re.FindStringIndex(text)
			if loc == nil {
				continue
			}
			out = append(out, rule.NewViolation(r.ID(), r.DefaultSeverity()).
				Message("nonisolated member `"+fn.Name+"` accesses actor-isolated `"+v.name+"`").
				At(lineLocation(f, line, loc[0]+1)).
				Related(act.Location).
				Suggest("make the member isolated, or `await` the access from an async context").
				With("actor", act.Name).
				With("property", v.name).
				Build())
			break
		}
	}
	return out
}
