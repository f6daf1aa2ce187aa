package rules

import (
	"context"
	"regexp"
	"strings"

	"swiftlens/internal/analysis"
	"swiftlens/internal/rule"
	"swiftlens/internal/source"
)

// hardcodedSecret flags credential-looking string literals. Patterns are
// configurable ("patterns"); a pattern that fails to compile is dropped so
// a bad config entry degrades to fewer checks, never a failed run.
type hardcodedSecret struct{}

var defaultSecretPatterns = []string{
	`(?i)(api[_-]?key|secret|token|password)\s*[:=]\s*"[^"]{8,}"`,
	`"AKIA[0-9A-Z]{16}"`,
	`"(sk|pk)_(live|test)_[0-9a-zA-Z]{16,}"`,
}

func (r *hardcodedSecret) ID() string   { return "hardcoded_secret" }
func (r *hardcodedSecret) Name() string { return "Hardcoded Secret" }
func (r *hardcodedSecret) Description() string {
	return "Credentials in source end up in version control and binaries."
}
func (r *hardcodedSecret) Category() rule.Category        { return rule.CategorySecurity }
func (r *hardcodedSecret) DefaultSeverity() rule.Severity { return rule.SeverityError }
func (r *hardcodedSecret) EnabledByDefault() bool         { return true }

func (r *hardcodedSecret) ShouldAnalyze(f *source.SourceFile) bool {
	return !f.IsTestFile()
}

func (r *hardcodedSecret) Analyze(_ context.Context, f *source.SourceFile, actx *analysis.Context) []rule.Violation {
	patterns := actx.Config().RuleConfig(r.ID()).StringSliceParam("patterns", defaultSecretPatterns)

	var compiled []*regexp.Regexp
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			continue
		}
		compiled = append(compiled, re)
	}

	var out []rule.Violation
	for i, line := range f.Lines() {
		trimmed := strings.TrimSpace(line)
		if isComment(trimmed) {
			continue
		}
		for _, re := range compiled {
			loc := re.FindStringIndex(line)
			if loc == nil {
				continue
			}
			out = append(out, rule.NewViolation(r.ID(), r.DefaultSeverity()).
				Message("possible hardcoded credential").
				At(lineLocation(f, i+1, loc[0]+1)).
				Suggest("load the secret from the keychain or the environment").
				With("pattern", re.String()).
				Build())
			break
		}
	}
	return out
}
