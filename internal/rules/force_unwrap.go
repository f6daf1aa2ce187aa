package rules

import (
	"context"
	"regexp"
	"strings"

	"swiftlens/internal/analysis"
	"swiftlens/internal/rule"
	"swiftlens/internal/source"
)

// forceUnwrap flags postfix `!` on identifiers, calls and subscripts.
type forceUnwrap struct{}

var forceUnwrapRe = regexp.MustCompile(`[\p{L}\d_\)\]]!`)

func (r *forceUnwrap) ID() string                     { return "force_unwrap" }
func (r *forceUnwrap) Name() string                   { return "Force Unwrap" }
func (r *forceUnwrap) Description() string            { return "Force unwrapping crashes on nil; prefer optional binding or `??`." }
func (r *forceUnwrap) Category() rule.Category        { return rule.CategorySafety }
func (r *forceUnwrap) DefaultSeverity() rule.Severity { return rule.SeverityWarning }
func (r *forceUnwrap) EnabledByDefault() bool         { return true }

func (r *forceUnwrap) ShouldAnalyze(f *source.SourceFile) bool {
	return !f.IsTestFile()
}

func (r *forceUnwrap) Analyze(_ context.Context, f *source.SourceFile, _ *analysis.Context) []rule.Violation {
	var out []rule.Violation
	for i, line := range f.Lines() {
		trimmed := strings.TrimSpace(line)
		if isComment(trimmed) {
			continue
		}
		for _, m := range forceUnwrapRe.FindAllStringIndex(line, -1) {
			// The match ends on the '!'; exclude != and keyword forms
			// handled by other rules (try!, as!).
			bang := m[1] - 1
			if bang+1 < len(line) && line[bang+1] == '=' {
				continue
			}
			if word := wordBefore(line, bang); word == "try" || word == "as" {
				continue
			}
			out = append(out, rule.NewViolation(r.ID(), r.DefaultSeverity()).
				Message("force unwrap of optional value").
				At(lineLocation(f, i+1, bang+1)).
				Suggest("use `if let`/`guard let` binding or the `??` operator").
				Build())
		}
	}
	return out
}

// wordBefore returns the identifier ending at (exclusive) index end.
func wordBefore(line string, end int) string {
	start := end
	for start > 0 {
		c := line[start-1]
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			start--
			continue
		}
		break
	}
	return line[start:end]
}
