// Package engine owns the rule registry and the parallel scheduling of
// rule executions over files.
package engine

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"swiftlens/internal/analysis"
	"swiftlens/internal/rule"
	"swiftlens/internal/source"
)

// GraphRule marks rules that depend on the whole-program reference graph.
// They are skipped when enhanced analysis is turned off in the config.
type GraphRule interface {
	UsesGlobalGraph() bool
}

// Engine holds the ordered rule registry. Registration and lookup are
// serialized; analysis itself fans out in parallel.
type Engine struct {
	mu         sync.RWMutex
	rules      []rule.Rule
	byCategory map[rule.Category][]rule.Rule
}

func New() *Engine {
	return &Engine{byCategory: make(map[rule.Category][]rule.Rule)}
}

// Register appends a rule to the registry and indexes its category.
func (e *Engine) Register(r rule.Rule) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rules = append(e.rules, r)
	e.byCategory[r.Category()] = append(e.byCategory[r.Category()], r)
}

// Rules snapshots the registry in registration order.
func (e *Engine) Rules() []rule.Rule {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]rule.Rule(nil), e.rules...)
}

// RulesInCategory snapshots one category's rules.
func (e *Engine) RulesInCategory(c rule.Category) []rule.Rule {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]rule.Rule(nil), e.byCategory[c]...)
}

// AnalyzeFile runs every enabled, applicable rule against one file
// concurrently and returns the merged findings. Ordering across rules is
// unspecified. Severities are rewritten to the configured override when one
// exists, and suppressed findings are dropped against the tracker of the
// file each violation actually points at.
func (e *Engine) AnalyzeFile(ctx context.Context, file *source.SourceFile, actx *analysis.Context) []rule.Violation {
	cfg := actx.Config()

	var applicable []rule.Rule
	for _, r := range e.Rules() {
		if !cfg.RuleEnabled(r.ID(), r.EnabledByDefault()) {
			continue
		}
		if !cfg.UseEnhancedRules {
			if gr, ok := r.(GraphRule); ok && gr.UsesGlobalGraph() {
				continue
			}
		}
		if !r.ShouldAnalyze(file) {
			continue
		}
		applicable = append(applicable, r)
	}
	if len(applicable) == 0 {
		return nil
	}

	// Fan out one task per rule. The rule set per file is small and fixed,
	// so this inner fan-out stays unbounded.
	results := make(chan []rule.Violation, len(applicable))
	var wg sync.WaitGroup
	for _, r := range applicable {
		wg.Add(1)
		go func(r rule.Rule) {
			defer wg.Done()
			violations := r.Analyze(ctx, file, actx)
			if sev, ok := cfg.SeverityOverride(r.ID()); ok {
				configured := rule.ParseSeverity(sev)
				for i := range violations {
					violations[i] = violations[i].WithSeverity(configured)
				}
			}
			results <- violations
		}(r)
	}
	wg.Wait()
	close(results)

	var out []rule.Violation
	for vs := range results {
		for _, v := range vs {
			if e.isSuppressed(v, actx) {
				continue
			}
			out = append(out, v)
		}
	}
	return out
}

// isSuppressed resolves the tracker of the violation's own target file.
// Cross-file rules report violations located in files other than the one
// that triggered the scan, so the lookup goes through the registry. A
// lookup miss fails open: a finding is never silently dropped because its
// file could not be found.
func (e *Engine) isSuppressed(v rule.Violation, actx *analysis.Context) bool {
	target, ok := actx.SourceFile(v.Location.File)
	if !ok {
		return false
	}
	return target.Suppressions().IsSuppressed(v.RuleID, v.Location.Line)
}

// AnalyzeFiles runs per-file analysis across many files under a bounded
// concurrency window of cfg.MaxJobs. As each file completes, the next
// pending one starts, keeping the in-flight count constant until the list
// drains.
func (e *Engine) AnalyzeFiles(ctx context.Context, files []*source.SourceFile, actx *analysis.Context) ([]rule.Violation, error) {
	jobs := actx.Config().MaxJobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([][]rule.Violation, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, max(len(files), 1)))

	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = e.AnalyzeFile(gctx, f, actx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []rule.Violation
	for _, vs := range results {
		out = append(out, vs...)
	}
	return out, nil
}
