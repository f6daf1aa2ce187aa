package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"swiftlens/internal/source"
)

func TestSeverity(t *testing.T) {
	assert.Equal(t, SeverityError, ParseSeverity("error"))
	assert.Equal(t, SeverityWarning, ParseSeverity("bogus"), "unknown spellings default to warning")

	assert.True(t, SeverityError.GTE(SeverityInfo))
	assert.False(t, SeverityInfo.GTE(SeverityWarning))
	assert.True(t, SeverityWarning.GTE(SeverityWarning))

	assert.False(t, SeverityHint.Reportable())
	assert.True(t, SeverityInfo.Reportable())
}

func TestViolationBuilder(t *testing.T) {
	loc := source.Location{File: "/checkout/App/Foo.swift", Line: 12, Column: 5}
	v := NewViolation("weak_delegate", SeverityWarning).
		Message("delegate should be weak").
		At(loc).
		Related(source.Location{File: "/checkout/App/Bar.swift", Line: 3}).
		Suggest("declare weak var").
		With("property", "delegate").
		Build()

	assert.Equal(t, "weak_delegate", v.RuleID)
	assert.Equal(t, loc, v.Location)
	assert.Len(t, v.RelatedLocations, 1)
	assert.Equal(t, "delegate", v.Context["property"])
	assert.NotEmpty(t, v.StableID)
}

func TestStableIDIgnoresDirectory(t *testing.T) {
	// Same file checked out at two different roots must correlate.
	a := StableID("force_unwrap", "/home/ci/checkout/Foo.swift", 5, "force unwrap")
	b := StableID("force_unwrap", "/Users/dev/work/Foo.swift", 5, "force unwrap")
	c := StableID("force_unwrap", "/home/ci/checkout/Foo.swift", 6, "force unwrap")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestWithSeverityCopies(t *testing.T) {
	v := NewViolation("force_try", SeverityInfo).
		Message("m").
		At(source.Location{File: "a.swift", Line: 1}).
		Build()

	escalated := v.WithSeverity(SeverityError)
	assert.Equal(t, SeverityError, escalated.Severity)
	assert.Equal(t, SeverityInfo, v.Severity, "original must stay untouched")
	assert.Equal(t, v.StableID, escalated.StableID, "severity is not identity")
}
