// SPDX-License-Identifier: MPL-2.0

package datamod

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pelletier/go-toml/v2/unstable"

	"github.com/stylevars/stylevars/pkg/varmap"
)

// decodeTOML decodes values with toml.Unmarshal and restores declaration order
// from the unstable parser, since Go maps do not keep it.
func decodeTOML(data []byte, _ string) (any, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	order, err := tomlKeyOrder(data)
	if err != nil {
		return nil, err
	}
	return tomlTree(doc, nil, order), nil
}

// tomlKeyOrder maps every dotted key path to the position of its first appearance.
func tomlKeyOrder(data []byte) (map[string]int, error) {
	order := make(map[string]int)
	see := func(path []string) {
		for i := range path {
			k := strings.Join(path[:i+1], "\x00")
			if _, ok := order[k]; !ok {
				order[k] = len(order)
			}
		}
	}

	var p unstable.Parser
	p.Reset(data)

	var table []string
	for p.NextExpression() {
		expr := p.Expression()
		switch expr.Kind {
		case unstable.Table, unstable.ArrayTable:
			table = keyParts(expr.Key())
			see(table)
		case unstable.KeyValue:
			path := append(slices.Clone(table), keyParts(expr.Key())...)
			see(path)
			seeInline(expr.Value(), path, see)
		}
	}
	if err := p.Error(); err != nil {
		return nil, err
	}
	return order, nil
}

func seeInline(value *unstable.Node, prefix []string, see func([]string)) {
	if value.Kind != unstable.InlineTable {
		return
	}
	children := value.Children()
	for children.Next() {
		kv := children.Node()
		if kv.Kind != unstable.KeyValue {
			continue
		}
		path := append(slices.Clone(prefix), keyParts(kv.Key())...)
		see(path)
		seeInline(kv.Value(), path, see)
	}
}

func keyParts(it unstable.Iterator) []string {
	var parts []string
	for it.Next() {
		parts = append(parts, string(it.Node().Data))
	}
	return parts
}

func tomlTree(v any, path []string, order map[string]int) any {
	switch x := v.(type) {
	case map[string]any:
		position := func(k string) int {
			if pos, ok := order[strings.Join(append(slices.Clone(path), k), "\x00")]; ok {
				return pos
			}
			return len(order)
		}
		keys := slices.SortedFunc(maps.Keys(x), func(a, b string) int {
			return cmp.Or(cmp.Compare(position(a), position(b)), strings.Compare(a, b))
		})
		obj := varmap.NewObject()
		for _, k := range keys {
			obj.Set(k, tomlTree(x[k], append(slices.Clone(path), k), order))
		}
		return obj
	case []any:
		out := make([]any, 0, len(x))
		for _, item := range x {
			out = append(out, tomlTree(item, path, order))
		}
		return out
	case int64:
		return float64(x)
	case float64, string, bool:
		return x
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return x.String()
	default:
		return x
	}
}
