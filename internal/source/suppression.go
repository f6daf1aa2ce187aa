package source

import "strings"

const (
	ignoreMarker     = "swiftlens:ignore"
	ignoreNextMarker = "swiftlens:ignore:next"
	ignoreAll        = "all"
)

// SuppressionTracker indexes inline suppression comments by line.
//
// Supported forms:
//
//	let x = y! // swiftlens:ignore force_unwrap
//	// swiftlens:ignore:next force_unwrap force_try
//	// swiftlens:ignore all
//
// A marker with no rule list suppresses every rule on its target line.
type SuppressionTracker struct {
	byLine map[int]map[string]struct{}
}

// buildSuppressions scans the file's lines once at construction time.
func buildSuppressions(lines []string) *SuppressionTracker {
	t := &SuppressionTracker{byLine: make(map[int]map[string]struct{})}
	for i, text := range lines {
		idx := strings.Index(text, ignoreMarker)
		if idx < 0 {
			continue
		}
		line := i + 1
		rest := text[idx+len(ignoreMarker):]
		if strings.HasPrefix(rest, ":next") {
			line++
			rest = strings.TrimPrefix(rest, ":next")
		}
		rules := strings.Fields(rest)
		if len(rules) == 0 {
			rules = []string{ignoreAll}
		}
		set := t.byLine[line]
		if set == nil {
			set = make(map[string]struct{})
			t.byLine[line] = set
		}
		for _, r := range rules {
			set[r] = struct{}{}
		}
	}
	return t
}

// IsSuppressed reports whether ruleID is suppressed on the given 1-based line.
func (t *SuppressionTracker) IsSuppressed(ruleID string, line int) bool {
	if t == nil {
		return false
	}
	set, ok := t.byLine[line]
	if !ok {
		return false
	}
	if _, ok := set[ignoreAll]; ok {
		return true
	}
	_, ok = set[ruleID]
	return ok
}
