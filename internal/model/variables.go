package model

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Variable is a single CI variable binding
type Variable struct {
	Name  string
	Value interface{}
}

// Variables is an insertion-ordered variable map. It serializes as a YAML
// mapping in declaration order.
type Variables []Variable

// Lookup returns the value bound to name
func (v Variables) Lookup(name string) (interface{}, bool) {
	for _, kv := range v {
		if kv.Name == name {
			return kv.Value, true
		}
	}
	return nil, false
}

// Names returns the variable names in order
func (v Variables) Names() []string {
	names := make([]string, len(v))
	for i, kv := range v {
		names[i] = kv.Name
	}
	return names
}

// MarshalYAML implements yaml.Marshaler
func (v Variables) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, kv := range v {
		var value yaml.Node
		if err := value.Encode(kv.Value); err != nil {
			return nil, fmt.Errorf("variable %s: %w", kv.Name, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: kv.Name},
			&value,
		)
	}
	return node, nil
}

// UnmarshalYAML implements yaml.Unmarshaler, keeping the document order
func (v *Variables) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: variables must be a mapping", node.Line)
	}

	out := make(Variables, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var value interface{}
		if err := node.Content[i+1].Decode(&value); err != nil {
			return fmt.Errorf("line %d: variable %s: %w", node.Content[i].Line, node.Content[i].Value, err)
		}
		out = append(out, Variable{Name: node.Content[i].Value, Value: value})
	}

	*v = out
	return nil
}
