package vardoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapPreservesDeclarationOrder(t *testing.T) {
	m := NewMap().Set("z", 1).Set("a", 2).Set("m", 3)
	assert.Equal(t, []string{"z", "a", "m"}, m.Keys())

	// Re-setting an existing key keeps its position.
	m.Set("a", 20)
	assert.Equal(t, []string{"z", "a", "m"}, m.Keys())
	v, _ := m.Get("a")
	assert.Equal(t, 20, v)

	m.Delete("a")
	assert.Equal(t, []string{"z", "m"}, m.Keys())
	assert.False(t, m.Has("a"))
}

func TestMapCloneIsDeep(t *testing.T) {
	inner := NewMap().Set("x", 1)
	m := NewMap().Set("inner", inner).Set("seq", []any{1, 2})

	c := m.Clone()
	ci, _ := c.Get("inner")
	ci.(*Map).Set("x", 99)

	v, _ := inner.Get("x")
	assert.Equal(t, 1, v, "mutating the clone must not touch the original")
}

func TestFromGoAndToGo(t *testing.T) {
	in := map[string]any{
		"b": 1,
		"a": map[string]any{"nested": true},
		"s": []any{map[string]any{"k": "v"}},
	}

	tree := FromGo(in)
	m, ok := tree.(*Map)
	require.True(t, ok)
	// Go maps carry no order; keys come out sorted.
	assert.Equal(t, []string{"a", "b", "s"}, m.Keys())

	assert.Equal(t, in, ToGo(tree))
}

func TestDeepMerge(t *testing.T) {
	tests := []struct {
		name    string
		base    any
		overlay any
		want    any
	}{
		{
			name:    "scalars replace",
			base:    1,
			overlay: 2,
			want:    2,
		},
		{
			name:    "overlay key wins",
			base:    FromGo(map[string]any{"a": 1, "b": 2}),
			overlay: FromGo(map[string]any{"b": 3}),
			want:    map[string]any{"a": 1, "b": 3},
		},
		{
			name:    "mappings recurse",
			base:    FromGo(map[string]any{"m": map[string]any{"x": 1, "y": 2}}),
			overlay: FromGo(map[string]any{"m": map[string]any{"y": 20}}),
			want:    map[string]any{"m": map[string]any{"x": 1, "y": 20}},
		},
		{
			name:    "sequences replace not concatenate",
			base:    FromGo(map[string]any{"s": []any{1, 2, 3}}),
			overlay: FromGo(map[string]any{"s": []any{9}}),
			want:    map[string]any{"s": []any{9}},
		},
		{
			name:    "mapping over scalar replaces",
			base:    FromGo(map[string]any{"k": 1}),
			overlay: FromGo(map[string]any{"k": map[string]any{"x": 1}}),
			want:    map[string]any{"k": map[string]any{"x": 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := deepMerge(tt.base, tt.overlay)
			assert.Equal(t, tt.want, ToGo(got))
		})
	}
}

func TestDeepMergeDoesNotMutateInputs(t *testing.T) {
	base := FromGo(map[string]any{"m": map[string]any{"x": 1}}).(*Map)
	overlay := FromGo(map[string]any{"m": map[string]any{"y": 2}}).(*Map)

	merged := deepMerge(base, overlay).(*Map)
	mm, _ := merged.Get("m")
	mm.(*Map).Set("x", 99)

	bm, _ := base.Get("m")
	v, _ := bm.(*Map).Get("x")
	assert.Equal(t, 1, v)
}

func TestSetRaw(t *testing.T) {
	root := NewMap()

	setRaw(root, ParsePath("a.b.c"), 1)
	a, _ := root.Get("a")
	b, _ := a.(*Map).Get("b")
	c, _ := b.(*Map).Get("c")
	assert.Equal(t, 1, c)

	// A scalar intermediate is replaced by a mapping.
	setRaw(root, ParsePath("a.b.c.d"), 2)
	assert.True(t, root.Has("a"))
	a, _ = root.Get("a")
	b, _ = a.(*Map).Get("b")
	c, _ = b.(*Map).Get("c")
	d, _ := c.(*Map).Get("d")
	assert.Equal(t, 2, d)
}

func TestIndexSeq(t *testing.T) {
	seq := []any{"a", "b"}

	v, ok := indexSeq(seq, "0")
	assert.True(t, ok)
	assert.Equal(t, "a", v)

	_, ok = indexSeq(seq, "2")
	assert.False(t, ok)
	_, ok = indexSeq(seq, "-1")
	assert.False(t, ok)
	_, ok = indexSeq(seq, "x")
	assert.False(t, ok)
}
