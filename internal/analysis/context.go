// Package analysis holds the per-run shared state rules read through, plus
// the small disposable helper analyzers.
package analysis

import (
	"sort"
	"strings"
	"sync"

	"swiftlens/internal/config"
	"swiftlens/internal/graph"
	"swiftlens/internal/source"
)

// Context is the run-scoped shared state handed to every rule execution.
// Each logical resource is guarded by its own lock so, e.g., cycle-dedup
// bookkeeping never blocks source-file registry reads. Rules must treat
// everything reachable from here as read-only; the only legitimate write
// paths are the explicit mutators (AddSourceFile, ShouldReportCycle).
type Context struct {
	cfg  *config.Config
	root string

	filesMu sync.RWMutex
	files   map[string]*source.SourceFile

	graphMu     sync.RWMutex
	graph       *graph.Graph
	graphBuilds int

	cyclesMu       sync.Mutex
	reportedCycles map[string]struct{}
}

// NewContext creates the shared state for one analysis run.
func NewContext(cfg *config.Config, root string) *Context {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Context{
		cfg:            cfg,
		root:           root,
		files:          make(map[string]*source.SourceFile),
		reportedCycles: make(map[string]struct{}),
	}
}

func (c *Context) Config() *config.Config { return c.cfg }
func (c *Context) Root() string           { return c.root }

// AddSourceFile registers a loaded file. Re-adding the same path overwrites
// the previous entry (last write wins).
func (c *Context) AddSourceFile(f *source.SourceFile) {
	if f == nil {
		return
	}
	c.filesMu.Lock()
	c.files[f.Path()] = f
	c.filesMu.Unlock()
}

// SourceFile looks a file up by path.
func (c *Context) SourceFile(path string) (*source.SourceFile, bool) {
	c.filesMu.RLock()
	f, ok := c.files[path]
	c.filesMu.RUnlock()
	return f, ok
}

// AllSourceFiles snapshots the registry in path order.
func (c *Context) AllSourceFiles() []*source.SourceFile {
	c.filesMu.RLock()
	out := make([]*source.SourceFile, 0, len(c.files))
	for _, f := range c.files {
		out = append(out, f)
	}
	c.filesMu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Path() < out[j].Path() })
	return out
}

// GlobalGraph returns the whole-program reference graph, building it on
// first use. The build happens exactly once per run: concurrent first
// requesters serialize on the write lock and re-check before building, so
// later arrivals receive the same instance.
func (c *Context) GlobalGraph() *graph.Graph {
	c.graphMu.RLock()
	g := c.graph
	c.graphMu.RUnlock()
	if g != nil {
		return g
	}

	c.graphMu.Lock()
	defer c.graphMu.Unlock()
	if c.graph == nil {
		c.graph = graph.Build(c.AllSourceFiles())
		c.graphBuilds++
	}
	return c.graph
}

// GraphBuildCount reports how many times the graph was actually built.
// It exists so the build-once guarantee is observable in tests.
func (c *Context) GraphBuildCount() int {
	c.graphMu.RLock()
	defer c.graphMu.RUnlock()
	return c.graphBuilds
}

// ShouldReportCycle atomically records a dependency cycle, identified by
// its unordered member-type set, and reports whether this is the first
// sighting in the run. Structurally different cycles over the same type
// set share one key and are conflated deliberately.
func (c *Context) ShouldReportCycle(types []string) bool {
	key := cycleKey(types)
	c.cyclesMu.Lock()
	defer c.cyclesMu.Unlock()
	if _, seen := c.reportedCycles[key]; seen {
		return false
	}
	c.reportedCycles[key] = struct{}{}
	return true
}

func cycleKey(types []string) string {
	sorted := append([]string(nil), types...)
	sort.Strings(sorted)
	return strings.Join(sorted, "|")
}

// EffectiveSemanticMode resolves the semantic mode for a rule: a per-rule
// override always wins; otherwise the global mode applies.
func (c *Context) EffectiveSemanticMode(ruleID string) config.SemanticMode {
	if mode, ok := c.cfg.SemanticModeOverride(ruleID); ok {
		return mode
	}
	return c.cfg.GlobalSemanticMode()
}

// IsSemanticStrict reports whether the rule must refuse to run on
// unresolved types.
func (c *Context) IsSemanticStrict(ruleID string) bool {
	return c.EffectiveSemanticMode(ruleID) == config.SemanticStrict
}

// HasSemanticAnalysis reports whether the rule may use type resolution
// at all.
func (c *Context) HasSemanticAnalysis(ruleID string) bool {
	return c.EffectiveSemanticMode(ruleID) != config.SemanticOff
}

// IsIncluded applies the include allow-list first (when non-empty, the
// path must match at least one glob), then the exclude deny-list.
func (c *Context) IsIncluded(path string) bool {
	if len(c.cfg.Include) > 0 {
		matched := false
		for _, pattern := range c.cfg.Include {
			if config.MatchesGlob(pattern, path) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	for _, pattern := range c.cfg.Exclude {
		if config.MatchesGlob(pattern, path) {
			return false
		}
	}
	return true
}
