package model

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrKeyCollision is returned when a top-level key is written twice
var ErrKeyCollision = errors.New("top-level key collision")

// Document is the root mapping of a generated pipeline. Keys keep their
// insertion order so the serialized output is byte-stable.
type Document struct {
	keys   []string
	values map[string]interface{}
}

// NewDocument creates an empty pipeline document
func NewDocument() *Document {
	return &Document{values: make(map[string]interface{})}
}

// Set adds a top-level entry. Writing an existing key is an error.
func (d *Document) Set(key string, value interface{}) error {
	if _, exists := d.values[key]; exists {
		return fmt.Errorf("%w: %q", ErrKeyCollision, key)
	}
	d.keys = append(d.keys, key)
	d.values[key] = value
	return nil
}

// Get returns the value stored under key
func (d *Document) Get(key string) (interface{}, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Keys returns the top-level keys in insertion order
func (d *Document) Keys() []string {
	return append([]string(nil), d.keys...)
}

// Len returns the number of top-level entries
func (d *Document) Len() int {
	return len(d.keys)
}

// MarshalYAML implements yaml.Marshaler
func (d *Document) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, key := range d.keys {
		var value yaml.Node
		if err := value.Encode(d.values[key]); err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", key, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			&value,
		)
	}
	return node, nil
}
