package document

import (
	"github.com/juju/errors"
	"gopkg.in/yaml.v3"
)

// OrderedMap is a string-keyed mapping that remembers the order keys were
// decoded or inserted in. Bundle machines and applications use it so that
// "the first N machines" means the same thing it does in the source file.
type OrderedMap[V any] struct {
	keys   []string
	values map[string]V

	// keyTags holds the decoded tag of keys that were not plain strings,
	// such as the unquoted integer machine ids of a bundle.
	keyTags map[string]string
}

// NewOrderedMap creates an empty OrderedMap.
func NewOrderedMap[V any]() *OrderedMap[V] {
	return &OrderedMap[V]{values: make(map[string]V)}
}

// Len returns the number of entries. A nil map has none.
func (m *OrderedMap[V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns a copy of the keys in iteration order.
func (m *OrderedMap[V]) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Get returns the value stored under key.
func (m *OrderedMap[V]) Get(key string) (V, bool) {
	var zero V
	if m == nil {
		return zero, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m *OrderedMap[V]) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Set stores value under key. New keys are appended to the end.
func (m *OrderedMap[V]) Set(key string, value V) {
	if m.values == nil {
		m.values = make(map[string]V)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Delete removes key. Deleting an absent key is a no-op.
func (m *OrderedMap[V]) Delete(key string) {
	if m == nil {
		return
	}
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	delete(m.keyTags, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i:i], m.keys[i+1:]...)
			break
		}
	}
}

// Clone copies the map, passing every value through cloneValue.
func (m *OrderedMap[V]) Clone(cloneValue func(V) V) *OrderedMap[V] {
	if m == nil {
		return nil
	}
	out := &OrderedMap[V]{
		keys:   make([]string, len(m.keys)),
		values: make(map[string]V, len(m.values)),
	}
	copy(out.keys, m.keys)
	if m.keyTags != nil {
		out.keyTags = make(map[string]string, len(m.keyTags))
		for k, tag := range m.keyTags {
			out.keyTags[k] = tag
		}
	}
	for k, v := range m.values {
		out.values[k] = cloneValue(v)
	}
	return out
}

// UnmarshalYAML implements yaml.Unmarshaler, keeping mapping key order.
func (m *OrderedMap[V]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	if node.Kind != yaml.MappingNode {
		return errors.Annotatef(ErrMalformedDocument, "line %d: expected a mapping", node.Line)
	}
	m.keys = nil
	m.keyTags = nil
	m.values = make(map[string]V, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		var value V
		if err := node.Content[i+1].Decode(&value); err != nil {
			return errors.Annotatef(err, "decoding %q", key.Value)
		}
		m.Set(key.Value, value)
		if tag := key.ShortTag(); tag != "!!str" {
			if m.keyTags == nil {
				m.keyTags = make(map[string]string)
			}
			m.keyTags[key.Value] = tag
		}
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler, emitting keys in stored order.
func (m *OrderedMap[V]) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range m.keys {
		var value yaml.Node
		if err := value.Encode(m.values[k]); err != nil {
			return nil, errors.Annotatef(err, "encoding %q", k)
		}
		tag, ok := m.keyTags[k]
		if !ok {
			tag = "!!str"
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: k},
			&value,
		)
	}
	return node, nil
}
