// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/stylevars/stylevars/pkg/varmap"
)

// ToTree converts a concrete CUE value into the neutral data-module tree:
// structs become *varmap.Object in field order, lists become []any, numbers
// become float64 and bytes become strings.
func ToTree(v cue.Value) (any, error) {
	switch v.Kind() {
	case cue.StructKind:
		fields, err := v.Fields()
		if err != nil {
			return nil, err
		}
		obj := varmap.NewObject()
		for fields.Next() {
			child, err := ToTree(fields.Value())
			if err != nil {
				return nil, err
			}
			obj.Set(fields.Selector().Unquoted(), child)
		}
		return obj, nil
	case cue.ListKind:
		items, err := v.List()
		if err != nil {
			return nil, err
		}
		out := []any{}
		for items.Next() {
			child, err := ToTree(items.Value())
			if err != nil {
				return nil, err
			}
			out = append(out, child)
		}
		return out, nil
	case cue.StringKind:
		return v.String()
	case cue.BytesKind:
		b, err := v.Bytes()
		return string(b), err
	case cue.IntKind, cue.FloatKind, cue.NumberKind:
		return v.Float64()
	case cue.BoolKind:
		return v.Bool()
	case cue.NullKind:
		return nil, nil
	default:
		if err := v.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%s: value is not concrete (%s)", v.Path(), v.IncompleteKind())
	}
}
