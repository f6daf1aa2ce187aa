// Package fixer applies structured fixes to source text, skipping any fix
// whose edits would overlap an already accepted one.
package fixer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"swiftlens/internal/rule"
	"swiftlens/internal/source"
)

// AppliedFix records one accepted fix.
type AppliedFix struct {
	Name       string          `json:"name"`
	Confidence rule.Confidence `json:"confidence"`
	Edits      int             `json:"edits"`
}

// SkippedFix records one rejected fix and why.
type SkippedFix struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Result summarizes one file's fix application.
type Result struct {
	Path         string       `json:"path"`
	ModifiedText string       `json:"-"`
	Applied      []AppliedFix `json:"applied"`
	Skipped      []SkippedFix `json:"skipped"`
	Diff         string       `json:"diff,omitempty"`
}

// Changed reports whether any fix was applied.
func (r *Result) Changed() bool {
	return len(r.Applied) > 0
}

// Apply selects a non-conflicting subset of the given fixes and applies it
// to the file's text. Selection order: preferred fixes first, then by
// confidence descending, then by name for determinism. The output is always
// obtainable by replaying only non-overlapping edits, so it is well-defined
// text even when fixes conflict.
func Apply(f *source.SourceFile, fixes []rule.StructuredFix) (*Result, error) {
	result := &Result{Path: f.Path(), ModifiedText: f.Source()}
	if len(fixes) == 0 {
		return result, nil
	}

	ordered := append([]rule.StructuredFix(nil), fixes...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].IsPreferred != ordered[j].IsPreferred {
			return ordered[i].IsPreferred
		}
		if ri, rj := ordered[i].Confidence.Rank(), ordered[j].Confidence.Rank(); ri != rj {
			return ri > rj
		}
		return ordered[i].Name < ordered[j].Name
	})

	var accepted []rule.StructuredFix
	for _, fix := range ordered {
		conflict := ""
		for _, prev := range accepted {
			if fix.ConflictsWith(prev) {
				conflict = prev.Name
				break
			}
		}
		if conflict != "" {
			result.Skipped = append(result.Skipped, SkippedFix{
				Name:   fix.Name,
				Reason: fmt.Sprintf("conflicts with fix %q", conflict),
			})
			continue
		}
		accepted = append(accepted, fix)
		result.Applied = append(result.Applied, AppliedFix{
			Name:       fix.Name,
			Confidence: fix.Confidence,
			Edits:      len(fix.Edits),
		})
	}

	modified, err := applyEdits(f, collectEdits(accepted))
	if err != nil {
		return nil, err
	}
	result.ModifiedText = modified

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(f.Source()),
		B:        difflib.SplitLines(modified),
		FromFile: f.Path(),
		ToFile:   f.Path() + " (fixed)",
		Context:  3,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render diff: %w", err)
	}
	result.Diff = diff
	return result, nil
}

func collectEdits(fixes []rule.StructuredFix) []rule.TextEdit {
	var edits []rule.TextEdit
	for _, f := range fixes {
		edits = append(edits, f.Edits...)
	}
	return edits
}

// applyEdits rewrites the file text. Edits are applied in descending source
// order so earlier offsets stay valid while later spans are replaced.
func applyEdits(f *source.SourceFile, edits []rule.TextEdit) (string, error) {
	if len(edits) == 0 {
		return f.Source(), nil
	}

	sort.Slice(edits, func(i, j int) bool {
		return edits[j].Range.Start.Before(edits[i].Range.Start)
	})

	text := f.Source()
	for _, e := range edits {
		start, err := byteOffset(f, e.Range.Start)
		if err != nil {
			return "", err
		}
		end, err := byteOffset(f, e.Range.End)
		if err != nil {
			return "", err
		}
		if end < start {
			return "", fmt.Errorf("invalid edit range %v", e.Range)
		}
		text = text[:start] + e.NewText + text[end:]
	}
	return text, nil
}

// byteOffset converts a 1-based line/column position into an offset into
// the original text.
func byteOffset(f *source.SourceFile, pos source.Position) (int, error) {
	lines := f.Lines()
	if pos.Line < 1 || pos.Line > len(lines) {
		return 0, fmt.Errorf("position %d:%d outside %s", pos.Line, pos.Column, f.Path())
	}
	offset := 0
	for i := 0; i < pos.Line-1; i++ {
		offset += len(lines[i]) + 1
	}
	col := pos.Column - 1
	if col < 0 {
		col = 0
	}
	if col > len(lines[pos.Line-1]) {
		col = len(lines[pos.Line-1])
	}
	return offset + col, nil
}

// FixesFor collects the structured fixes attached to violations in one file.
func FixesFor(path string, violations []rule.Violation) []rule.StructuredFix {
	var out []rule.StructuredFix
	for _, v := range violations {
		if v.Location.File != path {
			continue
		}
		out = append(out, v.Fixes...)
	}
	return out
}

// Summary renders a short human-readable application summary.
func (r *Result) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d applied, %d skipped", r.Path, len(r.Applied), len(r.Skipped))
	for _, s := range r.Skipped {
		fmt.Fprintf(&b, "\n  skipped %s: %s", s.Name, s.Reason)
	}
	return b.String()
}
