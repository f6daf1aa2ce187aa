package rule

import "swiftlens/internal/source"

// FixKind names the shape of a structured fix.
type FixKind string

const (
	FixInsert  FixKind = "insert"
	FixReplace FixKind = "replace"
	FixDelete  FixKind = "delete"
	FixRewrite FixKind = "rewrite"
)

// Confidence governs auto-apply eligibility: safe > suggested > experimental.
type Confidence string

const (
	ConfidenceSafe         Confidence = "safe"
	ConfidenceSuggested    Confidence = "suggested"
	ConfidenceExperimental Confidence = "experimental"
)

var confidenceRank = map[Confidence]int{
	ConfidenceSafe:         3,
	ConfidenceSuggested:    2,
	ConfidenceExperimental: 1,
}

// Rank orders confidences for the applier's priority sort.
func (c Confidence) Rank() int {
	return confidenceRank[c]
}

// TextEdit replaces the text in Range with NewText. An insertion is an edit
// with an empty range; a deletion has empty NewText.
type TextEdit struct {
	Range   source.SourceRange `json:"range"`
	NewText string             `json:"newText"`
}

// StructuredFix is a named, machine-applicable patch. Edits are ordered by
// position and must not overlap each other.
type StructuredFix struct {
	Name       string     `json:"name"`
	Kind       FixKind    `json:"kind"`
	Confidence Confidence `json:"confidence"`
	// IsPreferred marks the fix the applier favors when several
	// non-conflicting options exist for the same violation.
	IsPreferred bool       `json:"isPreferred,omitempty"`
	Edits       []TextEdit `json:"edits"`
}

// ConflictsWith reports whether any edit of f overlaps any edit of other.
// Conflicting fixes can never both be applied to the same text.
func (f StructuredFix) ConflictsWith(other StructuredFix) bool {
	for _, a := range f.Edits {
		for _, b := range other.Edits {
			if a.Range.Overlaps(b.Range) {
				return true
			}
		}
	}
	return false
}

// InsertAt builds a single-edit insertion fix.
func InsertAt(name string, confidence Confidence, line, col int, text string) StructuredFix {
	pos := source.Position{Line: line, Column: col}
	return StructuredFix{
		Name:       name,
		Kind:       FixInsert,
		Confidence: confidence,
		Edits:      []TextEdit{{Range: source.SourceRange{Start: pos, End: pos}, NewText: text}},
	}
}

// ReplaceRange builds a single-edit replacement fix.
func ReplaceRange(name string, confidence Confidence, r source.SourceRange, text string) StructuredFix {
	return StructuredFix{
		Name:       name,
		Kind:       FixReplace,
		Confidence: confidence,
		Edits:      []TextEdit{{Range: r, NewText: text}},
	}
}
