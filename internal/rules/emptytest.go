package rules

import (
	"context"
	"strings"

	"swiftlens/internal/analysis"
	"swiftlens/internal/rule"
	"swiftlens/internal/source"
)

// emptyTest flags test methods with empty bodies: they pass forever and
// mask missing coverage.
type emptyTest struct{}

func (r *emptyTest) ID() string   { return "empty_test" }
func (r *emptyTest) Name() string { return "Empty Test" }
func (r *emptyTest) Description() string {
	return "An empty test asserts nothing and always passes."
}
func (r *emptyTest) Category() rule.Category        { return rule.CategoryTesting }
func (r *emptyTest) DefaultSeverity() rule.Severity { return rule.SeverityWarning }
func (r *emptyTest) EnabledByDefault() bool         { return true }

func (r *emptyTest) ShouldAnalyze(f *source.SourceFile) bool {
	return f.IsTestFile()
}

func (r *emptyTest) Analyze(_ context.Context, f *source.SourceFile, _ *analysis.Context) []rule.Violation {
	var out []rule.Violation
	for _, sym := range f.SymbolsOfKind(source.KindFunction) {
		if !strings.HasPrefix(sym.Name, "test") {
			continue
		}
		if !emptyBody(f, sym) {
			continue
		}
		out = append(out, rule.NewViolation(r.ID(), r.DefaultSeverity()).
			Message("test `"+sym.Name+"` has an empty body").
			At(sym.Location).
			Suggest("add assertions or delete the placeholder").
			Build())
	}
	return out
}

// emptyBody reports whether the function's span contains no statements.
// On the declaration line only the text after the opening brace counts,
// so a one-line test with a real body is not empty.
func emptyBody(f *source.SourceFile, sym source.Symbol) bool {
	for line := sym.Location.Line; line <= sym.EndLine; line++ {
		text := strings.TrimSpace(f.Line(line))
		if text == "" || isComment(text) {
			continue
		}
		if line == sym.Location.Line {
			brace := strings.Index(text, "{")
			if brace < 0 {
				continue
			}
			text = text[brace+1:]
		}
		text = strings.TrimSuffix(strings.TrimSpace(text), "{")
		text = strings.TrimSuffix(strings.TrimSpace(text), "}")
		if strings.TrimSpace(text) != "" {
			return false
		}
	}
	return true
}
