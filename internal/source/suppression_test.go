package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuppressionTracker(t *testing.T) {
	lines := []string{
		"let a = b!            // swiftlens:ignore force_unwrap",
		"// swiftlens:ignore:next force_try hardcoded_secret",
		"let c = try! load()",
		"let d = e!",
		"// swiftlens:ignore",
		"let f = g!",
	}
	tr := buildSuppressions(lines)

	t.Run("same line", func(t *testing.T) {
		assert.True(t, tr.IsSuppressed("force_unwrap", 1))
		assert.False(t, tr.IsSuppressed("force_try", 1))
	})

	t.Run("next line", func(t *testing.T) {
		assert.True(t, tr.IsSuppressed("force_try", 3))
		assert.True(t, tr.IsSuppressed("hardcoded_secret", 3))
		assert.False(t, tr.IsSuppressed("force_try", 2))
	})

	t.Run("unmarked lines stay clean", func(t *testing.T) {
		assert.False(t, tr.IsSuppressed("force_unwrap", 4))
	})

	t.Run("bare marker suppresses everything", func(t *testing.T) {
		assert.True(t, tr.IsSuppressed("force_unwrap", 5))
		assert.True(t, tr.IsSuppressed("anything", 5))
	})

	t.Run("nil tracker", func(t *testing.T) {
		var nilTracker *SuppressionTracker
		assert.False(t, nilTracker.IsSuppressed("force_unwrap", 1))
	})
}
