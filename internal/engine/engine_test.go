package engine

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swiftlens/internal/analysis"
	"swiftlens/internal/config"
	"swiftlens/internal/rule"
	"swiftlens/internal/source"
)

// fakeRule lets tests script arbitrary rule behavior.
type fakeRule struct {
	id       string
	category rule.Category
	severity rule.Severity
	disabled bool
	applies  func(*source.SourceFile) bool
	analyze  func(context.Context, *source.SourceFile, *analysis.Context) []rule.Violation
}

func (f *fakeRule) ID() string          { return f.id }
func (f *fakeRule) Name() string        { return f.id }
func (f *fakeRule) Description() string { return "fake rule " + f.id }
func (f *fakeRule) Category() rule.Category {
	if f.category == "" {
		return rule.CategorySafety
	}
	return f.category
}
func (f *fakeRule) DefaultSeverity() rule.Severity {
	if f.severity == "" {
		return rule.SeverityWarning
	}
	return f.severity
}
func (f *fakeRule) EnabledByDefault() bool { return !f.disabled }
func (f *fakeRule) ShouldAnalyze(file *source.SourceFile) bool {
	if f.applies == nil {
		return true
	}
	return f.applies(file)
}
func (f *fakeRule) Analyze(ctx context.Context, file *source.SourceFile, actx *analysis.Context) []rule.Violation {
	if f.analyze == nil {
		return nil
	}
	return f.analyze(ctx, file, actx)
}

func violationAt(ruleID string, f *source.SourceFile, line int, sev rule.Severity) []rule.Violation {
	return []rule.Violation{
		rule.NewViolation(ruleID, sev).
			Message("finding from " + ruleID).
			At(source.Location{File: f.Path(), Line: line}).
			Build(),
	}
}

func mustFile(t *testing.T, path, text string) *source.SourceFile {
	t.Helper()
	f, err := source.NewSourceFile(path, []byte(text))
	require.NoError(t, err)
	return f
}

func TestRegistry(t *testing.T) {
	e := New()
	e.Register(&fakeRule{id: "a", category: rule.CategorySafety})
	e.Register(&fakeRule{id: "b", category: rule.CategoryMemory})
	e.Register(&fakeRule{id: "c", category: rule.CategorySafety})

	ids := []string{}
	for _, r := range e.Rules() {
		ids = append(ids, r.ID())
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids, "registration order is preserved")
	assert.Len(t, e.RulesInCategory(rule.CategorySafety), 2)
	assert.Len(t, e.RulesInCategory(rule.CategoryConcurrency), 0)
}

func TestSeverityOverrideWins(t *testing.T) {
	cfg := config.Default()
	cfg.Rules["quiet"] = config.RuleSetting{Severity: "error"}

	actx := analysis.NewContext(cfg, "")
	f := mustFile(t, "/p/A.swift", "class A {}")
	actx.AddSourceFile(f)

	e := New()
	e.Register(&fakeRule{
		id:       "quiet",
		severity: rule.SeverityInfo,
		analyze: func(_ context.Context, file *source.SourceFile, _ *analysis.Context) []rule.Violation {
			return violationAt("quiet", file, 1, rule.SeverityInfo)
		},
	})

	out := e.AnalyzeFile(context.Background(), f, actx)
	require.Len(t, out, 1)
	assert.Equal(t, rule.SeverityError, out[0].Severity, "configured severity beats the rule's own")
}

func TestDisabledAndInapplicableRulesSkipped(t *testing.T) {
	cfg := config.Default()
	off := false
	cfg.Rules["switched_off"] = config.RuleSetting{Enabled: &off}

	actx := analysis.NewContext(cfg, "")
	f := mustFile(t, "/p/A.swift", "class A {}")
	actx.AddSourceFile(f)

	var offRan, inapplicableRan atomic.Bool
	e := New()
	e.Register(&fakeRule{
		id: "switched_off",
		analyze: func(context.Context, *source.SourceFile, *analysis.Context) []rule.Violation {
			offRan.Store(true)
			return nil
		},
	})
	e.Register(&fakeRule{
		id:      "not_applicable",
		applies: func(*source.SourceFile) bool { return false },
		analyze: func(context.Context, *source.SourceFile, *analysis.Context) []rule.Violation {
			inapplicableRan.Store(true)
			return nil
		},
	})
	e.Register(&fakeRule{
		id:       "default_off",
		disabled: true,
		analyze: func(_ context.Context, file *source.SourceFile, _ *analysis.Context) []rule.Violation {
			return violationAt("default_off", file, 1, rule.SeverityWarning)
		},
	})

	out := e.AnalyzeFile(context.Background(), f, actx)
	assert.Empty(t, out)
	assert.False(t, offRan.Load())
	assert.False(t, inapplicableRan.Load())
}

type graphFakeRule struct {
	fakeRule
}

func (g *graphFakeRule) UsesGlobalGraph() bool { return true }

func TestEnhancedRulesGate(t *testing.T) {
	newEngine := func() *Engine {
		e := New()
		e.Register(&graphFakeRule{fakeRule{
			id: "needs_graph",
			analyze: func(_ context.Context, file *source.SourceFile, _ *analysis.Context) []rule.Violation {
				return violationAt("needs_graph", file, 1, rule.SeverityWarning)
			},
		}})
		e.Register(&fakeRule{
			id: "file_local",
			analyze: func(_ context.Context, file *source.SourceFile, _ *analysis.Context) []rule.Violation {
				return violationAt("file_local", file, 1, rule.SeverityWarning)
			},
		})
		return e
	}

	t.Run("disabled skips graph-backed rules only", func(t *testing.T) {
		cfg := config.Default()
		cfg.UseEnhancedRules = false
		actx := analysis.NewContext(cfg, "")
		f := mustFile(t, "/p/A.swift", "class A {}")
		actx.AddSourceFile(f)

		out := newEngine().AnalyzeFile(context.Background(), f, actx)
		require.Len(t, out, 1)
		assert.Equal(t, "file_local", out[0].RuleID)
	})

	t.Run("enabled by default", func(t *testing.T) {
		actx := analysis.NewContext(config.Default(), "")
		f := mustFile(t, "/p/A.swift", "class A {}")
		actx.AddSourceFile(f)

		out := newEngine().AnalyzeFile(context.Background(), f, actx)
		assert.Len(t, out, 2)
	})
}

func TestSuppressionUsesTargetFile(t *testing.T) {
	actx := analysis.NewContext(config.Default(), "")
	scanned := mustFile(t, "/p/Scanned.swift", "class Scanned {}")
	other := mustFile(t, "/p/Other.swift", "class Other {} // swiftlens:ignore cross_file")
	actx.AddSourceFile(scanned)
	actx.AddSourceFile(other)

	e := New()
	e.Register(&fakeRule{
		id: "cross_file",
		analyze: func(_ context.Context, _ *source.SourceFile, _ *analysis.Context) []rule.Violation {
			// Cross-file rules may locate findings in files other than
			// the scanned one.
			return []rule.Violation{
				rule.NewViolation("cross_file", rule.SeverityWarning).
					Message("suppressed in target").
					At(source.Location{File: "/p/Other.swift", Line: 1}).
					Build(),
				rule.NewViolation("cross_file", rule.SeverityWarning).
					Message("target file unknown").
					At(source.Location{File: "/p/Unknown.swift", Line: 1}).
					Build(),
				rule.NewViolation("cross_file", rule.SeverityWarning).
					Message("kept in scanned").
					At(source.Location{File: "/p/Scanned.swift", Line: 1}).
					Build(),
			}
		},
	})

	out := e.AnalyzeFile(context.Background(), scanned, actx)
	require.Len(t, out, 2)

	messages := map[string]bool{}
	for _, v := range out {
		messages[v.Message] = true
	}
	assert.False(t, messages["suppressed in target"], "checked against the target file's tracker")
	assert.True(t, messages["target file unknown"], "lookup miss fails open")
	assert.True(t, messages["kept in scanned"])
}

func TestSameLineSuppression(t *testing.T) {
	actx := analysis.NewContext(config.Default(), "")
	f := mustFile(t, "/p/S.swift", "let a = b! // swiftlens:ignore noisy\nlet c = d!")
	actx.AddSourceFile(f)

	e := New()
	e.Register(&fakeRule{
		id: "noisy",
		analyze: func(_ context.Context, file *source.SourceFile, _ *analysis.Context) []rule.Violation {
			return append(
				violationAt("noisy", file, 1, rule.SeverityWarning),
				violationAt("noisy", file, 2, rule.SeverityWarning)...,
			)
		},
	})

	out := e.AnalyzeFile(context.Background(), f, actx)
	require.Len(t, out, 1)
	assert.Equal(t, 2, out[0].Location.Line)
}

func TestBatchBoundedConcurrency(t *testing.T) {
	const maxJobs = 3
	cfg := config.Default()
	cfg.MaxJobs = maxJobs

	actx := analysis.NewContext(cfg, "")
	var files []*source.SourceFile
	for _, name := range []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"} {
		f := mustFile(t, "/p/"+name+".swift", "class "+name+" {}")
		actx.AddSourceFile(f)
		files = append(files, f)
	}

	var active, peak int64
	e := New()
	e.Register(&fakeRule{
		id: "probe",
		analyze: func(_ context.Context, file *source.SourceFile, _ *analysis.Context) []rule.Violation {
			n := atomic.AddInt64(&active, 1)
			for {
				p := atomic.LoadInt64(&peak)
				if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt64(&active, -1)
			return violationAt("probe", file, 1, rule.SeverityInfo)
		},
	})

	out, err := e.AnalyzeFiles(context.Background(), files, actx)
	require.NoError(t, err)
	assert.Len(t, out, len(files))
	assert.LessOrEqual(t, peak, int64(maxJobs), "in-flight files must never exceed max_jobs")
	assert.Greater(t, peak, int64(1), "batch should actually run in parallel")
}

func TestRuleFanOutWithinFile(t *testing.T) {
	actx := analysis.NewContext(config.Default(), "")
	f := mustFile(t, "/p/A.swift", "class A {}")
	actx.AddSourceFile(f)

	e := New()
	for _, id := range []string{"r1", "r2", "r3", "r4"} {
		e.Register(&fakeRule{
			id: id,
			analyze: func(_ context.Context, file *source.SourceFile, _ *analysis.Context) []rule.Violation {
				return violationAt(id, file, 1, rule.SeverityInfo)
			},
		})
	}

	out := e.AnalyzeFile(context.Background(), f, actx)
	assert.Len(t, out, 4, "all rules contribute regardless of completion order")
}
