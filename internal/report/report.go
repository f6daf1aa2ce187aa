// Package report renders violation lists and fix summaries for the CLI.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"swiftlens/internal/rule"
)

// Report is the serializable run output.
type Report struct {
	Tool       string           `json:"tool"`
	Version    string           `json:"version"`
	Violations []rule.Violation `json:"violations"`
	Summary    Summary          `json:"summary"`
}

// Summary counts findings by severity.
type Summary struct {
	Total    int `json:"total"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Infos    int `json:"infos"`
}

// Sort orders violations by (file, line, ruleId). The engine guarantees no
// ordering, so every renderer sorts first for stable output.
func Sort(violations []rule.Violation) {
	sort.SliceStable(violations, func(i, j int) bool {
		a, b := violations[i], violations[j]
		if a.Location.File != b.Location.File {
			return a.Location.File < b.Location.File
		}
		if a.Location.Line != b.Location.Line {
			return a.Location.Line < b.Location.Line
		}
		return a.RuleID < b.RuleID
	})
}

// Reportable filters out hint-tier findings and everything below the
// severity threshold.
func Reportable(violations []rule.Violation, threshold rule.Severity) []rule.Violation {
	var out []rule.Violation
	for _, v := range violations {
		if !v.Severity.Reportable() {
			continue
		}
		if !v.Severity.GTE(threshold) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// New assembles a sorted report.
func New(version string, violations []rule.Violation) *Report {
	Sort(violations)
	r := &Report{Tool: "swiftlens", Version: version, Violations: violations}
	for _, v := range violations {
		r.Summary.Total++
		switch v.Severity {
		case rule.SeverityError:
			r.Summary.Errors++
		case rule.SeverityWarning:
			r.Summary.Warnings++
		case rule.SeverityInfo:
			r.Summary.Infos++
		}
	}
	if r.Violations == nil {
		r.Violations = []rule.Violation{}
	}
	return r
}

// JSON marshals the report with indentation.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Text writes a one-line-per-finding view.
func (r *Report) Text(w io.Writer) {
	for _, v := range r.Violations {
		fmt.Fprintf(w, "%s:%d:%d: %s: %s [%s]\n",
			v.Location.File, v.Location.Line, v.Location.Column,
			v.Severity, v.Message, v.RuleID)
		for _, s := range v.SuggestedFixes {
			fmt.Fprintf(w, "    suggestion: %s\n", s)
		}
	}
	fmt.Fprintf(w, "\n%d findings (%d errors, %d warnings, %d infos)\n",
		r.Summary.Total, r.Summary.Errors, r.Summary.Warnings, r.Summary.Infos)
}
