package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportFor(handle string) *Analytics {
	return &Analytics{
		ID:          "report_" + handle,
		Profile:     Profile{Handle: handle},
		GeneratedAt: time.Now().UTC(),
	}
}

func TestMergeAnalytics(t *testing.T) {
	t.Run("updates replace and extend", func(t *testing.T) {
		prior := map[string]*Analytics{
			"alice": reportFor("alice"),
			"bob":   reportFor("bob"),
		}
		fresher := reportFor("bob")
		updates := map[string]*Analytics{
			"bob":   fresher,
			"carol": reportFor("carol"),
		}

		merged := MergeAnalytics(prior, updates)
		require.Len(t, merged, 3)
		assert.Same(t, prior["alice"], merged["alice"], "untouched entries carry over")
		assert.Same(t, fresher, merged["bob"], "fresh report wins for shared handles")
		assert.NotNil(t, merged["carol"])
	})

	t.Run("inputs are not mutated", func(t *testing.T) {
		prior := map[string]*Analytics{"alice": reportFor("alice")}
		updates := map[string]*Analytics{"bob": reportFor("bob")}

		MergeAnalytics(prior, updates)
		assert.Len(t, prior, 1)
		assert.Len(t, updates, 1)
	})

	t.Run("nil maps", func(t *testing.T) {
		assert.Empty(t, MergeAnalytics(nil, nil))

		merged := MergeAnalytics(nil, map[string]*Analytics{"alice": reportFor("alice")})
		assert.Len(t, merged, 1)

		merged = MergeAnalytics(map[string]*Analytics{"alice": reportFor("alice")}, nil)
		assert.Len(t, merged, 1)
	})
}
