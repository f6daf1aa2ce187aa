package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swiftlens/internal/fixer"
	"swiftlens/internal/rule"
	"swiftlens/internal/source"
)

func TestWeakDelegate(t *testing.T) {
	f := mustFile(t, "/p/View.swift", `
class ListView {
    var delegate: ListViewDelegate?
    weak var scrollDelegate: ScrollDelegate?
    var dataSource: ListDataSource?
    var delegateName: String { "main" }
    var items: [Item] = []
}
`)
	out := analyze(t, &weakDelegate{}, f, nil)

	require.Len(t, out, 2, "strong delegate and dataSource only: %v", out)
	assert.Equal(t, 3, out[0].Location.Line)
	assert.Equal(t, "delegate", out[0].Context["property"])
	assert.Equal(t, 5, out[1].Location.Line)
	assert.Equal(t, "dataSource", out[1].Context["property"])

	for _, v := range out {
		require.Len(t, v.Fixes, 1)
		assert.True(t, v.Fixes[0].IsPreferred)
		assert.Equal(t, rule.ConfidenceSafe, v.Fixes[0].Confidence)
	}
}

func TestWeakDelegateSkipsValueTypes(t *testing.T) {
	f := mustFile(t, "/p/Menu.swift", `
struct MenuDelegate {}

class Menu {
    var delegate: MenuDelegate?
}
`)
	assert.Empty(t, analyze(t, &weakDelegate{}, f, nil),
		"struct-typed delegates cannot retain their owner")

	t.Run("unresolved names still flag", func(t *testing.T) {
		unknown := mustFile(t, "/p/Other.swift", `
class Other {
    var delegate: VendorDelegate?
}
`)
		assert.Len(t, analyze(t, &weakDelegate{}, unknown, nil), 1)
	})
}

// Applying the suggested fix must leave nothing for the rule to find.
func TestWeakDelegateFixRoundTrip(t *testing.T) {
	f := mustFile(t, "/p/Round.swift", `class Panel {
    var delegate: PanelDelegate?
}
`)
	out := analyze(t, &weakDelegate{}, f, nil)
	require.Len(t, out, 1)

	res, err := fixer.Apply(f, fixer.FixesFor(f.Path(), out))
	require.NoError(t, err)
	require.True(t, res.Changed())
	assert.Contains(t, res.ModifiedText, "weak var delegate: PanelDelegate?")

	fixed, err := source.NewSourceFile(f.Path(), []byte(res.ModifiedText))
	require.NoError(t, err)
	assert.Empty(t, analyze(t, &weakDelegate{}, fixed, nil))
}
