package vardoc

import (
	"sort"
	"strconv"
)

// Map is an insertion-ordered string-keyed mapping, the mapping node of a
// document tree. Order is irrelevant for lookup but significant for
// iteration: variant selection breaks score ties by declaration order.
//
// Tree values are any of: scalars, []any sequences, and *Map mappings.
type Map struct {
	keys   []string
	values map[string]any
}

// NewMap creates an empty mapping.
func NewMap() *Map {
	return &Map{values: make(map[string]any)}
}

// Len returns the number of keys.
func (m *Map) Len() int { return len(m.keys) }

// Keys returns the keys in declaration order. The slice is a copy.
func (m *Map) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Get returns the value for key and whether it exists.
func (m *Map) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Has returns true if key exists.
func (m *Map) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Set adds or replaces a value. A new key is appended; an existing key
// keeps its position. Returns the map for chaining when building trees
// in code.
func (m *Map) Set(key string, v any) *Map {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
	return m
}

// Delete removes a key, preserving the order of the rest.
func (m *Map) Delete(key string) bool {
	if _, ok := m.values[key]; !ok {
		return false
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return true
}

// Clone returns a deep copy of the mapping.
func (m *Map) Clone() *Map {
	out := &Map{
		keys:   make([]string, len(m.keys)),
		values: make(map[string]any, len(m.values)),
	}
	copy(out.keys, m.keys)
	for k, v := range m.values {
		out.values[k] = CloneTree(v)
	}
	return out
}

// CloneTree deep-copies a tree value.
func CloneTree(v any) any {
	switch val := v.(type) {
	case *Map:
		return val.Clone()
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = CloneTree(e)
		}
		return out
	}
	return v
}

// FromGo converts plain Go values into tree values: map[string]any
// becomes *Map (keys sorted, since Go map iteration order carries no
// declaration order to preserve), slices are converted element-wise,
// scalars pass through. *Map values pass through unchanged.
func FromGo(v any) any {
	switch val := v.(type) {
	case *Map:
		return val
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := NewMap()
		for _, k := range keys {
			m.Set(k, FromGo(val[k]))
		}
		return m
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = FromGo(e)
		}
		return out
	}
	return v
}

// ToGo converts tree values back into plain Go values: *Map becomes
// map[string]any (declaration order is lost).
func ToGo(v any) any {
	switch val := v.(type) {
	case *Map:
		out := make(map[string]any, val.Len())
		for _, k := range val.keys {
			out[k] = ToGo(val.values[k])
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = ToGo(e)
		}
		return out
	}
	return v
}

// deepMerge merges overlay on top of base: mappings recurse, sequences
// and scalars are replaced by the overlay side. Neither input is
// modified; shared subtrees are copied.
func deepMerge(base, overlay any) any {
	bm, bok := base.(*Map)
	om, ook := overlay.(*Map)
	if !bok || !ook {
		return CloneTree(overlay)
	}
	out := bm.Clone()
	for _, k := range om.keys {
		ov := om.values[k]
		if bv, ok := out.Get(k); ok {
			out.Set(k, deepMerge(bv, ov))
		} else {
			out.Set(k, CloneTree(ov))
		}
	}
	return out
}

// setRaw writes a value into the raw tree at p, creating intermediate
// mappings as needed. A non-mapping intermediate is replaced.
func setRaw(root *Map, p Path, v any) {
	cur := root
	for _, seg := range p[:len(p)-1] {
		next, ok := cur.Get(seg)
		nm, isMap := next.(*Map)
		if !ok || !isMap {
			nm = NewMap()
			cur.Set(seg, nm)
		}
		cur = nm
	}
	cur.Set(p.Key(), v)
}

// indexSeq interprets a path segment as a sequence index.
func indexSeq(seq []any, seg string) (any, bool) {
	i, err := strconv.Atoi(seg)
	if err != nil || i < 0 || i >= len(seq) {
		return nil, false
	}
	return seq[i], true
}
