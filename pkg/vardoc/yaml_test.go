package vardoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTreePreservesOrder(t *testing.T) {
	tree, err := DecodeTree([]byte(`
zebra: 1
alpha: 2
middle:
  inner2: a
  inner1: b
`))
	require.NoError(t, err)

	m, ok := tree.(*Map)
	require.True(t, ok)
	assert.Equal(t, []string{"zebra", "alpha", "middle"}, m.Keys())

	mid, _ := m.Get("middle")
	assert.Equal(t, []string{"inner2", "inner1"}, mid.(*Map).Keys())
}

func TestDecodeTreeValues(t *testing.T) {
	tree, err := DecodeTree([]byte(`
str: hello
int: 42
float: 1.5
bool: true
"null": ~
seq: [1, two, {k: v}]
"greeting:es": Hola
".directive": "${x}"
`))
	require.NoError(t, err)
	m := tree.(*Map)

	get := func(k string) any { v, _ := m.Get(k); return v }
	assert.Equal(t, "hello", get("str"))
	assert.Equal(t, 42, get("int"))
	assert.Equal(t, 1.5, get("float"))
	assert.Equal(t, true, get("bool"))
	assert.Nil(t, get("null"))
	assert.Equal(t, "Hola", get("greeting:es"))
	assert.Equal(t, "${x}", get(".directive"))

	seq := get("seq").([]any)
	require.Len(t, seq, 3)
	assert.Equal(t, 1, seq[0])
	assert.Equal(t, "two", seq[1])
	v, _ := seq[2].(*Map).Get("k")
	assert.Equal(t, "v", v)
}

func TestDecodeTreeJSON(t *testing.T) {
	tree, err := DecodeTree([]byte(`{"b": 1, "a": {"x": true}}`))
	require.NoError(t, err)

	m := tree.(*Map)
	assert.Equal(t, []string{"b", "a"}, m.Keys(), "JSON decodes as a YAML subset, order preserved")
}

func TestDecodeTreeEmptyAndInvalid(t *testing.T) {
	tree, err := DecodeTree(nil)
	require.NoError(t, err)
	assert.Nil(t, tree)

	_, err = DecodeTree([]byte("{"))
	assert.Error(t, err)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	src := []byte(`zebra: 1
alpha:
    nested: true
seq:
    - a
    - b
`)
	tree, err := DecodeTree(src)
	require.NoError(t, err)

	out, err := EncodeTree(tree)
	require.NoError(t, err)

	again, err := DecodeTree(out)
	require.NoError(t, err)
	assert.Equal(t, ToGo(tree), ToGo(again))
	assert.Equal(t, tree.(*Map).Keys(), again.(*Map).Keys())
}

func TestDecodeTreeAnchors(t *testing.T) {
	tree, err := DecodeTree([]byte(`
defaults: &d
  timeout: 30
service:
  <<: *d
  name: api
`))
	// Merge keys are not expanded; the anchor itself must still decode.
	require.NoError(t, err)
	m := tree.(*Map)
	d, _ := m.Get("defaults")
	v, _ := d.(*Map).Get("timeout")
	assert.Equal(t, 30, v)
}
