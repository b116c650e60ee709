// SPDX-License-Identifier: MPL-2.0

package varmap

import (
	"iter"
	"math"
	"strconv"
	"strings"
)

type (
	// Var is one validated style variable. Value is either a string or a
	// finite float64.
	Var struct {
		Name  string
		Value any
	}

	// VarMap is a flat, ordered set of validated style variables. It is the
	// only shape accepted by the dialect serializers.
	VarMap struct {
		vars []Var
	}
)

// Text renders the value the way it is written into a declaration.
func (v Var) Text() string {
	switch x := v.Value.(type) {
	case string:
		return x
	case float64:
		return FormatNumber(x)
	default:
		return ""
	}
}

// Len returns the number of variables.
func (m VarMap) Len() int {
	return len(m.vars)
}

// Vars returns the variables in declaration order.
func (m VarMap) Vars() iter.Seq[Var] {
	return func(yield func(Var) bool) {
		for _, v := range m.vars {
			if !yield(v) {
				return
			}
		}
	}
}

// Get returns the variable called name.
func (m VarMap) Get(name string) (Var, bool) {
	for _, v := range m.vars {
		if v.Name == name {
			return v, true
		}
	}
	return Var{}, false
}

// Extract applies the export rules to a decoded module export and returns the
// resulting variables. module and property only feed error messages and the
// property lookup; property is a dotted path without a leading dot.
func Extract(export any, module, property string) (VarMap, error) {
	if isFalsy(export) {
		return VarMap{}, &EmptyExportError{Module: module}
	}
	root, ok := export.(*Object)
	if !ok {
		return VarMap{}, &ExportShapeError{Module: module, Kind: KindOf(export)}
	}

	target := root
	if property != "" {
		narrowed, found := Lookup(root, property)
		if !found {
			return VarMap{}, &PropertyShapeError{Module: module, Property: property, Kind: "undefined"}
		}
		obj, isObj := narrowed.(*Object)
		if !isObj || obj == nil {
			return VarMap{}, &PropertyShapeError{Module: module, Property: property, Kind: KindOf(narrowed)}
		}
		target = obj
	}

	return Validate(target, module, property)
}

// Validate checks that every value of obj is a string or a finite number and
// returns them as a VarMap in key order.
func Validate(obj *Object, module, property string) (VarMap, error) {
	vars := make([]Var, 0, obj.Len())
	for key, value := range obj.All() {
		scalar, ok := scalarOf(value)
		if !ok {
			return VarMap{}, &InvalidVarValueError{
				Module:   module,
				Property: property,
				Key:      key,
				Kind:     describe(value),
			}
		}
		vars = append(vars, Var{Name: key, Value: scalar})
	}
	return VarMap{vars: vars}, nil
}

// FormatNumber prints f the way JavaScript string conversion does: integers
// without a fraction, the shortest round-trip decimal otherwise, and exponent
// notation outside [1e-6, 1e21).
func FormatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
		return mantissa + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func scalarOf(v any) (any, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, false
		}
		return x, true
	case float32:
		return scalarOf(float64(x))
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case int32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case uint32:
		return float64(x), true
	default:
		return nil, false
	}
}

func describe(v any) string {
	if f, ok := v.(float64); ok {
		switch {
		case math.IsNaN(f):
			return "NaN"
		case math.IsInf(f, 0):
			return "Infinity"
		}
	}
	return KindOf(v)
}

func isFalsy(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case *Object:
		return x == nil
	case bool:
		return !x
	case string:
		return x == ""
	case float64:
		return x == 0 || math.IsNaN(x)
	case int:
		return x == 0
	case int64:
		return x == 0
	default:
		return false
	}
}
