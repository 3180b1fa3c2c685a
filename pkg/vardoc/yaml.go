package vardoc

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML decodes a YAML mapping into an ordered Map, preserving
// key declaration order. JSON documents decode through the same path,
// being a YAML subset.
func (m *Map) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.AliasNode {
		return m.UnmarshalYAML(value.Alias)
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping, got %s", value.Line, yamlKindName(value.Kind))
	}
	if m.values == nil {
		m.values = make(map[string]any)
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		keyNode, valNode := value.Content[i], value.Content[i+1]
		var key string
		if err := keyNode.Decode(&key); err != nil {
			return fmt.Errorf("line %d: mapping key: %w", keyNode.Line, err)
		}
		v, err := decodeYAMLNode(valNode)
		if err != nil {
			return err
		}
		m.Set(key, v)
	}
	return nil
}

// MarshalYAML encodes the mapping preserving declaration order.
func (m *Map) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range m.keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
		valNode := &yaml.Node{}
		v := m.values[k]
		if v == nil {
			valNode.Kind = yaml.ScalarNode
			valNode.Tag = "!!null"
			valNode.Value = "null"
		} else if err := valNode.Encode(v); err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		n.Content = append(n.Content, keyNode, valNode)
	}
	return n, nil
}

func decodeYAMLNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return decodeYAMLNode(n.Alias)
	case yaml.MappingNode:
		m := NewMap()
		if err := m.UnmarshalYAML(n); err != nil {
			return nil, err
		}
		return m, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := decodeYAMLNode(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return v, nil
	}
}

func yamlKindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "unknown"
}

// DecodeTree parses a YAML or JSON document into tree values, preserving
// mapping key order. An empty document decodes to nil.
func DecodeTree(data []byte) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}
	return decodeYAMLNode(doc.Content[0])
}

// EncodeTree renders tree values as YAML, preserving mapping key order.
func EncodeTree(v any) ([]byte, error) {
	return yaml.Marshal(v)
}
