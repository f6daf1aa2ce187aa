package rules

import (
	"context"
	"regexp"
	"strings"

	"swiftlens/internal/analysis"
	"swiftlens/internal/rule"
	"swiftlens/internal/source"
)

// weakDelegate flags delegate-style stored properties held strongly, which
// is the classic retain-cycle shape. It attaches a safe structured fix that
// inserts the `weak` modifier.
type weakDelegate struct{}

var delegateDeclRe = regexp.MustCompile(`^(\s*)var\s+(\w*[dD]elegate\w*|\w*[dD]ataSource\w*)\s*:`)

func (r *weakDelegate) ID() string   { return "weak_delegate" }
func (r *weakDelegate) Name() string { return "Weak Delegate" }
func (r *weakDelegate) Description() string {
	return "Delegate properties should be weak to avoid retain cycles."
}
func (r *weakDelegate) Category() rule.Category        { return rule.CategoryMemory }
func (r *weakDelegate) DefaultSeverity() rule.Severity { return rule.SeverityWarning }
func (r *weakDelegate) EnabledByDefault() bool         { return true }

func (r *weakDelegate) ShouldAnalyze(f *source.SourceFile) bool {
	return strings.Contains(f.Source(), "elegate") || strings.Contains(f.Source(), "ataSource")
}

func (r *weakDelegate) Analyze(_ context.Context, f *source.SourceFile, actx *analysis.Context) []rule.Violation {
	var resolver *analysis.TypeResolver
	if actx.HasSemanticAnalysis(r.ID()) {
		resolver = analysis.NewTypeResolver(actx.GlobalGraph())
	}

	var out []rule.Violation
	for i, line := range f.Lines() {
		m := delegateDeclRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if strings.Contains(line, "weak ") || strings.Contains(line, "unowned ") {
			continue
		}
		// Computed properties hold no reference.
		if strings.Contains(line, "{") && !strings.Contains(line, "didSet") && !strings.Contains(line, "willSet") {
			continue
		}
		// Value-typed delegates cannot form a retain cycle. Only skip when
		// the name resolves unambiguously to value types.
		if resolver != nil && isValueType(resolver, resolver.DeclaredTypeName(line), f.Module()) {
			continue
		}
		indent := len(m[1])
		fix := rule.InsertAt("insert weak modifier", rule.ConfidenceSafe, i+1, indent+1, "weak ")
		fix.IsPreferred = true
		out = append(out, rule.NewViolation(r.ID(), r.DefaultSeverity()).
			Message("delegate property `"+m[2]+"` should be declared weak").
			At(lineLocation(f, i+1, indent+1)).
			Suggest("declare the property as `weak var`").
			Fix(fix).
			With("property", m[2]).
			Build())
	}
	return out
}

func isValueType(resolver *analysis.TypeResolver, name, module string) bool {
	candidates := resolver.ResolveName(name, module)
	if len(candidates) == 0 {
		return false
	}
	for _, c := range candidates {
		if c.Kind != source.KindStruct && c.Kind != source.KindEnum {
			return false
		}
	}
	return true
}
