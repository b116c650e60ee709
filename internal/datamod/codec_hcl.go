// SPDX-License-Identifier: MPL-2.0

package datamod

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/stylevars/stylevars/pkg/varmap"
)

// decodeHCL evaluates the top-level attributes of an HCL file without any
// variables or functions. Attributes and object constructors keep source order.
func decodeHCL(data []byte, filename string) (any, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, diags
	}
	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	ordered := slices.SortedFunc(maps.Values(attrs), func(a, b *hcl.Attribute) int {
		return cmp.Compare(a.Range.Start.Byte, b.Range.Start.Byte)
	})

	obj := varmap.NewObject()
	for _, attr := range ordered {
		v, err := hclExprTree(attr.Expr)
		if err != nil {
			return nil, err
		}
		obj.Set(attr.Name, v)
	}
	return obj, nil
}

func hclExprTree(expr hcl.Expression) (any, error) {
	cons, ok := expr.(*hclsyntax.ObjectConsExpr)
	if !ok {
		v, diags := expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		return ctyTree(v)
	}

	obj := varmap.NewObject()
	for _, item := range cons.Items {
		key, diags := item.KeyExpr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		if key.IsNull() || !key.IsKnown() || key.Type() != cty.String {
			return nil, fmt.Errorf("%s: object keys must be strings", item.KeyExpr.Range())
		}
		child, err := hclExprTree(item.ValueExpr)
		if err != nil {
			return nil, err
		}
		obj.Set(key.AsString(), child)
	}
	return obj, nil
}

func ctyTree(v cty.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsKnown() {
		return nil, fmt.Errorf("value of type %s is not known", v.Type().FriendlyName())
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil
	case ty == cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return f, nil
	case ty == cty.Bool:
		return v.True(), nil
	case ty.IsObjectType() || ty.IsMapType():
		obj := varmap.NewObject()
		for it := v.ElementIterator(); it.Next(); {
			k, ev := it.Element()
			child, err := ctyTree(ev)
			if err != nil {
				return nil, err
			}
			obj.Set(k.AsString(), child)
		}
		return obj, nil
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := []any{}
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			child, err := ctyTree(ev)
			if err != nil {
				return nil, err
			}
			out = append(out, child)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported HCL value of type %s", ty.FriendlyName())
	}
}
