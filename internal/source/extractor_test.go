package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSwift = `import Foundation

public class SessionManager: NSObject, Sendable {
    var delegate: SessionDelegate?

    func connect() {
        delegate?.sessionDidConnect()
    }
}

protocol SessionDelegate {
    func sessionDidConnect()
}

struct Packet {
    let payload: String
}

func main() {
    let manager = SessionManager()
    manager.connect()
}
`

func parseSample(t *testing.T) *SourceFile {
	t.Helper()
	f, err := NewSourceFile("Sources/Network/Session.swift", []byte(sampleSwift))
	require.NoError(t, err)
	return f
}

func symbolByName(f *SourceFile, name string) (Symbol, bool) {
	for _, s := range f.Symbols() {
		if s.Name == name {
			return s, true
		}
	}
	return Symbol{}, false
}

func TestExtractSymbols(t *testing.T) {
	f := parseSample(t)
	require.NotEmpty(t, f.Symbols())

	t.Run("class with inheritance and access", func(t *testing.T) {
		cls, ok := symbolByName(f, "SessionManager")
		require.True(t, ok)
		assert.Equal(t, KindClass, cls.Kind)
		assert.Equal(t, AccessPublic, cls.Accessibility)
		assert.Contains(t, cls.InheritedTypes, "Sendable")
		assert.Equal(t, 3, cls.Location.Line)
	})

	t.Run("nested property carries parent", func(t *testing.T) {
		prop, ok := symbolByName(f, "delegate")
		require.True(t, ok)
		assert.Equal(t, KindVariable, prop.Kind)

		cls, _ := symbolByName(f, "SessionManager")
		assert.Equal(t, cls.ID, prop.Parent)
		assert.Equal(t, "SessionManager.delegate", prop.QualifiedName)
	})

	t.Run("protocol and struct kinds", func(t *testing.T) {
		proto, ok := symbolByName(f, "SessionDelegate")
		require.True(t, ok)
		assert.Equal(t, KindProtocol, proto.Kind)

		pkt, ok := symbolByName(f, "Packet")
		require.True(t, ok)
		assert.Equal(t, KindStruct, pkt.Kind)
	})

	t.Run("function lookup", func(t *testing.T) {
		loc, ok := f.LocationOfFunction("main")
		require.True(t, ok)
		assert.Equal(t, f.Path(), loc.File)
		assert.Greater(t, loc.Line, 1)
	})
}

func TestSymbolIDStability(t *testing.T) {
	a := parseSample(t)
	b := parseSample(t)

	symA, ok := symbolByName(a, "SessionManager")
	require.True(t, ok)
	symB, ok := symbolByName(b, "SessionManager")
	require.True(t, ok)

	assert.Equal(t, symA.ID, symB.ID, "repeated parses must yield identical IDs")
}

func TestScanReferences(t *testing.T) {
	f := parseSample(t)
	refs := ScanReferences(f)
	require.NotEmpty(t, refs)

	var initRef, conformanceRef bool
	for _, r := range refs {
		if r.Name == "SessionManager" && r.Kind == RefInitializer {
			initRef = true
		}
		if r.Name == "Sendable" && r.Kind == RefConformance {
			conformanceRef = true
		}
	}
	assert.True(t, initRef, "SessionManager() should record an initializer reference")
	assert.True(t, conformanceRef, "inheritance clause should record a conformance reference")
}

func TestFileProperties(t *testing.T) {
	f := parseSample(t)

	assert.Equal(t, "Network", f.Module())
	assert.False(t, f.IsTestFile())
	assert.Equal(t, "import Foundation", f.Line(1))
	assert.Equal(t, "", f.Line(10_000))

	tf, err := NewSourceFile("Tests/NetworkTests/SessionTests.swift", []byte("final class SessionTests {}"))
	require.NoError(t, err)
	assert.True(t, tf.IsTestFile())
}
