// SPDX-License-Identifier: MPL-2.0

package datamod

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/stylevars/stylevars/pkg/varmap"
)

// decodeYAML decodes the first YAML document, keeping mapping key order.
func decodeYAML(data []byte, _ string) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 {
		return nil, nil
	}
	return yamlTree(&doc)
}

func yamlTree(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return yamlTree(n.Content[0])
	case yaml.AliasNode:
		return yamlTree(n.Alias)
	case yaml.MappingNode:
		obj := varmap.NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, value := n.Content[i], n.Content[i+1]
			child, err := yamlTree(value)
			if err != nil {
				return nil, err
			}
			if key.ShortTag() == "!!merge" {
				mergeInto(obj, child)
				continue
			}
			obj.Set(key.Value, child)
		}
		return obj, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			child, err := yamlTree(item)
			if err != nil {
				return nil, err
			}
			out = append(out, child)
		}
		return out, nil
	case yaml.ScalarNode:
		return yamlScalar(n)
	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node kind %d", n.Line, n.Kind)
	}
}

func yamlScalar(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		err := n.Decode(&b)
		return b, err
	case "!!int", "!!float":
		var f float64
		err := n.Decode(&f)
		return f, err
	default:
		return n.Value, nil
	}
}

// mergeInto applies a YAML merge key ("<<"). Keys already present win.
func mergeInto(obj *varmap.Object, merged any) {
	switch m := merged.(type) {
	case *varmap.Object:
		for k, v := range m.All() {
			if _, exists := obj.Get(k); !exists {
				obj.Set(k, v)
			}
		}
	case []any:
		for _, item := range m {
			mergeInto(obj, item)
		}
	}
}
