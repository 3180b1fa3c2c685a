package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keys(ks ...string) []Candidate {
	out := make([]Candidate, 0, len(ks))
	for _, k := range ks {
		out = append(out, ParseCandidate(k))
	}
	return out
}

// TestResolve_PrefersClosestMatch covers the case where a
// partially-matching longer suffix must lose to an exact shorter one.
func TestResolve_PrefersClosestMatch(t *testing.T) {
	candidates := keys("greeting", "greeting:es", "greeting:es:formal")

	got, ok := Resolve("greeting", candidates, Context{Language: "es"})
	require.True(t, ok)
	assert.Equal(t, "greeting:es", got.Raw,
		"the formal variant is disqualified when formality is unrequested")

	got, ok = Resolve("greeting", candidates, Context{Language: "es", Formality: FormalityFormal})
	require.True(t, ok)
	assert.Equal(t, "greeting:es:formal", got.Raw)

	got, ok = Resolve("greeting", candidates, Context{})
	require.True(t, ok)
	assert.Equal(t, "greeting", got.Raw, "empty context selects the base")
}

// TestResolve_VersionTiebreak covers the case where the higher patch
// wins via the fractional bonus, not declaration order.
func TestResolve_VersionTiebreak(t *testing.T) {
	req := Version{Major: 3, Minor: 4, Specificity: 2}
	ctx := Context{Version: &req}

	// Lower patch declared first: order must not decide.
	got, ok := Resolve("tool", keys("tool:3.4.5", "tool:3.4.100"), ctx)
	require.True(t, ok)
	assert.Equal(t, "tool:3.4.100", got.Raw)
}

// TestResolve_Deterministic verifies that equal-score candidates resolve
// to the first declared, every time.
func TestResolve_Deterministic(t *testing.T) {
	ctx := Context{Custom: map[string]any{"a": "x", "b": "y"}}
	candidates := keys("k:x", "k:y")

	for i := 0; i < 50; i++ {
		got, ok := Resolve("k", candidates, ctx)
		require.True(t, ok)
		assert.Equal(t, "k:x", got.Raw)
	}
}

// TestResolve_ExtraCountTiebreak prefers the candidate with fewer
// unmatched segments when points tie.
func TestResolve_ExtraCountTiebreak(t *testing.T) {
	ctx := Context{Language: "es"}
	got, ok := Resolve("k", keys("k:es:mobile", "k:es"), ctx)
	require.True(t, ok)
	assert.Equal(t, "k:es", got.Raw)
}

// TestResolve_NotFound returns false when nothing is selectable.
func TestResolve_NotFound(t *testing.T) {
	_, ok := Resolve("missing", keys("other", "other:es"), Context{})
	assert.False(t, ok)

	// Present base but every candidate disqualified.
	_, ok = Resolve("k", keys("k:male"), Context{})
	assert.False(t, ok)
}

// TestResolveKeys is the raw-key convenience wrapper.
func TestResolveKeys(t *testing.T) {
	key, ok := ResolveKeys("greeting", []string{"greeting", "greeting:es"}, Context{Language: "es"})
	require.True(t, ok)
	assert.Equal(t, "greeting:es", key)
}
