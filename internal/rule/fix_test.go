package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"swiftlens/internal/source"
)

func TestRangeOverlap(t *testing.T) {
	a := source.RangeAt(3, 5, 4) // 3:5-3:9
	b := source.RangeAt(3, 8, 4) // 3:8-3:12
	c := source.RangeAt(3, 9, 2) // 3:9-3:11, touches a's end only

	assert.True(t, a.Overlaps(b))
	assert.True(t, b.Overlaps(a))
	assert.False(t, a.Overlaps(c), "half-open ranges touching at a boundary do not overlap")

	multi := source.SourceRange{
		Start: source.Position{Line: 2, Column: 1},
		End:   source.Position{Line: 4, Column: 1},
	}
	assert.True(t, multi.Overlaps(a), "multi-line range spans line 3")
}

func TestConflictsWith(t *testing.T) {
	insertWeak := InsertAt("insert weak", ConfidenceSafe, 3, 5, "weak ")
	replaceDecl := ReplaceRange("rewrite decl", ConfidenceSuggested, source.RangeAt(3, 1, 20), "weak var delegate: D?")
	elsewhere := InsertAt("other line", ConfidenceSafe, 9, 1, "// note\n")

	// An insertion point inside a replaced span is consumed by the
	// replacement, so it counts as a conflict.
	assert.True(t, insertWeak.ConflictsWith(replaceDecl))
	assert.True(t, replaceDecl.ConflictsWith(ReplaceRange("x", ConfidenceSafe, source.RangeAt(3, 10, 5), "")))
	assert.False(t, replaceDecl.ConflictsWith(elsewhere))

	// Insertions at distinct points never conflict with each other.
	assert.False(t, insertWeak.ConflictsWith(InsertAt("other", ConfidenceSafe, 3, 9, "x")))
}

func TestConfidenceRank(t *testing.T) {
	assert.Greater(t, ConfidenceSafe.Rank(), ConfidenceSuggested.Rank())
	assert.Greater(t, ConfidenceSuggested.Rank(), ConfidenceExperimental.Rank())
}
