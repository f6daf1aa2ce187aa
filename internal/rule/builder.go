package rule

import "swiftlens/internal/source"

// ViolationBuilder assembles a Violation step by step. Rules use it so
// optional parts (related locations, fixes, context) stay ergonomic.
type ViolationBuilder struct {
	v Violation
}

// NewViolation starts a builder for the given rule with its default severity.
func NewViolation(ruleID string, severity Severity) *ViolationBuilder {
	return &ViolationBuilder{v: Violation{RuleID: ruleID, Severity: severity}}
}

func (b *ViolationBuilder) Message(msg string) *ViolationBuilder {
	b.v.Message = msg
	return b
}

func (b *ViolationBuilder) At(loc source.Location) *ViolationBuilder {
	b.v.Location = loc
	return b
}

func (b *ViolationBuilder) Related(locs ...source.Location) *ViolationBuilder {
	b.v.RelatedLocations = append(b.v.RelatedLocations, locs...)
	return b
}

// Suggest adds a human-readable fix suggestion.
func (b *ViolationBuilder) Suggest(text string) *ViolationBuilder {
	b.v.SuggestedFixes = append(b.v.SuggestedFixes, text)
	return b
}

// Fix attaches a machine-applicable structured fix.
func (b *ViolationBuilder) Fix(fix StructuredFix) *ViolationBuilder {
	b.v.Fixes = append(b.v.Fixes, fix)
	return b
}

// With records a machine-readable context entry.
func (b *ViolationBuilder) With(key, value string) *ViolationBuilder {
	if b.v.Context == nil {
		b.v.Context = make(map[string]string)
	}
	b.v.Context[key] = value
	return b
}

// Build finalizes the violation and computes its stable identity.
func (b *ViolationBuilder) Build() Violation {
	b.v.StableID = StableID(b.v.RuleID, b.v.Location.File, b.v.Location.Line, b.v.Message)
	return b.v
}
