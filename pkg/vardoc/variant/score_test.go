package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestClassify verifies that every segment maps to exactly one dimension.
func TestClassify(t *testing.T) {
	tests := []struct {
		seg  string
		want Dimension
	}{
		{"es", DimLanguage},
		{"en-US", DimLanguage},
		{"male", DimGender},
		{"female", DimGender},
		{"neutral", DimGender},
		{"formal", DimFormality},
		{"informal", DimFormality},
		{"3", DimVersion},
		{"3.4", DimVersion},
		{"3.4.100", DimVersion},
		{"v2.1", DimVersion},
		{"dark", DimCustom},
		{"mobile", DimCustom},
		{"FORMAL", DimCustom}, // closed sets are case-sensitive
	}

	for _, tt := range tests {
		t.Run(tt.seg, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.seg).Dim)
		})
	}
}

// TestParseCandidate splits base and segments.
func TestParseCandidate(t *testing.T) {
	c := ParseCandidate("greeting:es:formal")
	assert.Equal(t, "greeting", c.Base)
	require.Len(t, c.Segments, 2)
	assert.Equal(t, DimLanguage, c.Segments[0].Dim)
	assert.Equal(t, DimFormality, c.Segments[1].Dim)

	bare := ParseCandidate("greeting")
	assert.Equal(t, "greeting", bare.Base)
	assert.Empty(t, bare.Segments)
}

// TestMatch_Weights verifies per-dimension scoring weights.
func TestMatch_Weights(t *testing.T) {
	ctx := Context{
		Language:  "es",
		Gender:    GenderFemale,
		Formality: FormalityFormal,
		Custom:    map[string]any{"theme": "dark"},
	}

	tests := []struct {
		name       string
		key        string
		wantPoints float64
		wantExtra  int
		wantOK     bool
	}{
		{"unsuffixed always matches", "greeting", 0, 0, true},
		{"language", "greeting:es", 1000, 0, true},
		{"gender", "greeting:female", 100, 0, true},
		{"formality", "greeting:formal", 50, 0, true},
		{"custom by value", "greeting:dark", 10, 0, true},
		{"language plus formality", "greeting:es:formal", 1050, 0, true},
		{"language mismatch scores zero and counts extra", "greeting:fr:formal", 50, 1, true},
		{"gender mismatch disqualifies", "greeting:male", 0, 0, false},
		{"all segments unmatched", "greeting:fr", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, ok := Match(ParseCandidate(tt.key), ctx)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantPoints, score.Points)
				assert.Equal(t, tt.wantExtra, score.Extra)
			}
		})
	}
}

// TestMatch_ClosedSetAbsenceDisqualifies covers gender/formality segments
// when the context does not request the dimension at all.
func TestMatch_ClosedSetAbsenceDisqualifies(t *testing.T) {
	ctx := Context{Language: "es"}

	_, ok := Match(ParseCandidate("greeting:female"), ctx)
	assert.False(t, ok, "gender segment with no requested gender")

	_, ok = Match(ParseCandidate("greeting:es:formal"), ctx)
	assert.False(t, ok, "formality segment with no requested formality")
}

// TestMatch_VersionBonus verifies the fractional version tiebreaker.
func TestMatch_VersionBonus(t *testing.T) {
	req := Version{Major: 3, Minor: 4, Specificity: 2}
	ctx := Context{Version: &req}

	high, ok := Match(ParseCandidate("tool:3.4.100"), ctx)
	require.True(t, ok)
	low, ok := Match(ParseCandidate("tool:3.4.5"), ctx)
	require.True(t, ok)

	assert.Greater(t, high.Points, low.Points)
	assert.Less(t, high.Points, WeightVersion+1, "bonus stays below the next tier")

	_, ok = Match(ParseCandidate("tool:2.0"), ctx)
	assert.False(t, ok, "mismatched version contributes nothing")
}

// TestVersion_TrailingBonus_Lexicographic verifies that a higher minor
// outranks any patch under a major-only request.
func TestVersion_TrailingBonus_Lexicographic(t *testing.T) {
	req := Version{Major: 3, Specificity: 1}

	v35, ok := ParseVersion("3.5")
	require.True(t, ok)
	v34100, ok := ParseVersion("3.4.100")
	require.True(t, ok)

	assert.Greater(t, req.TrailingBonus(v35), req.TrailingBonus(v34100))
}

// TestParseVersion covers accepted and rejected shapes.
func TestParseVersion(t *testing.T) {
	v, ok := ParseVersion("3.4.100")
	require.True(t, ok)
	assert.Equal(t, 3, v.Major)
	assert.Equal(t, 4, v.Minor)
	assert.Equal(t, 100, v.Patch)
	assert.Equal(t, 3, v.Specificity)

	v, ok = ParseVersion("v2")
	require.True(t, ok)
	assert.Equal(t, 2, v.Major)
	assert.Equal(t, 1, v.Specificity)

	for _, bad := range []string{"", "a.b", "1.2.3.4", "1.02", "-1"} {
		_, ok := ParseVersion(bad)
		assert.False(t, ok, bad)
	}
}
