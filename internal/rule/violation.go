package rule

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"

	"swiftlens/internal/source"
)

// Violation is a single reported finding. Values are immutable after
// construction; the engine produces a copy when it overrides severity.
type Violation struct {
	RuleID           string            `json:"ruleId"`
	Severity         Severity          `json:"severity"`
	Message          string            `json:"message"`
	Location         source.Location   `json:"location"`
	RelatedLocations []source.Location `json:"relatedLocations,omitempty"`
	SuggestedFixes   []string          `json:"suggestedFixes,omitempty"`
	Fixes            []StructuredFix   `json:"fixes,omitempty"`
	// Context carries machine-readable extras, e.g. which capture
	// triggered the finding.
	Context map[string]string `json:"context,omitempty"`
	// StableID correlates the same logical finding across runs. It hashes
	// the file basename rather than the absolute path so IDs survive a
	// checkout living in a different directory.
	StableID string `json:"stableId"`
}

// StableID computes the cross-run identity hash for a finding key.
func StableID(ruleID, file string, line int, message string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%d|%s", ruleID, filepath.Base(file), line, message)
	return hex.EncodeToString(h.Sum(nil))
}

// WithSeverity returns a copy with the severity replaced. The identity hash
// is unchanged: severity is presentation, not identity.
func (v Violation) WithSeverity(sev Severity) Violation {
	v.Severity = sev
	return v
}
