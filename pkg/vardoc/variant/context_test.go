package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFromMap builds contexts from declaration-shaped maps.
func TestFromMap(t *testing.T) {
	c := FromMap(map[string]any{
		"language":  "ES",
		"gender":    "female",
		"formality": "formal",
		"version":   "3.4",
		"theme":     "dark",
	})

	assert.Equal(t, "es", c.Language)
	assert.Equal(t, GenderFemale, c.Gender)
	assert.Equal(t, FormalityFormal, c.Formality)
	require.NotNil(t, c.Version)
	assert.Equal(t, 2, c.Version.Specificity)
	assert.Equal(t, map[string]any{"theme": "dark"}, c.Custom)
}

// TestFromMap_VersionMap accepts the structured version triple shape.
func TestFromMap_VersionMap(t *testing.T) {
	c := FromMap(map[string]any{
		"version": map[string]any{"major": 3, "minor": 4},
	})
	require.NotNil(t, c.Version)
	assert.Equal(t, 3, c.Version.Major)
	assert.Equal(t, 4, c.Version.Minor)
	assert.Equal(t, 2, c.Version.Specificity)
}

// TestMerge verifies overlay-wins, never-delete semantics.
func TestMerge(t *testing.T) {
	base := Context{Language: "en", Gender: GenderNeutral, Custom: map[string]any{"a": 1}}
	overlay := Context{Language: "es", Custom: map[string]any{"b": 2}}

	merged := base.Merge(overlay)
	assert.Equal(t, "es", merged.Language)
	assert.Equal(t, GenderNeutral, merged.Gender, "absent overlay dimension preserved")
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, merged.Custom)

	// The receiver is untouched.
	assert.Equal(t, "en", base.Language)
	assert.Equal(t, map[string]any{"a": 1}, base.Custom)
}

// TestFingerprint is canonical for equal contexts.
func TestFingerprint(t *testing.T) {
	a := FromMap(map[string]any{"language": "es", "x": 1, "y": 2})
	b := FromMap(map[string]any{"y": 2, "x": 1, "language": "es"})
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.Empty(t, Context{}.Fingerprint())
}

// TestSegments renders a canonical identifier suffix.
func TestSegments(t *testing.T) {
	v := Version{Major: 2, Specificity: 1}
	c := Context{Language: "es", Formality: FormalityFormal, Version: &v}
	assert.Equal(t, []string{"es", "formal", "2"}, c.Segments())
	assert.Empty(t, Context{}.Segments())
}
