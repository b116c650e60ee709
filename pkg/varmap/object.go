// SPDX-License-Identifier: MPL-2.0

package varmap

import (
	"iter"
	"slices"
	"strings"
)

// Object is an ordered key/value mapping. Keys keep the position of their
// first insertion; setting an existing key replaces the value in place.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject returns an empty Object.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// ObjectOf builds an Object from alternating key/value pairs. It is a
// convenience for tests and literals; an odd trailing key is ignored.
func ObjectOf(pairs ...any) *Object {
	o := NewObject()
	for i := 0; i+1 < len(pairs); i += 2 {
		key, _ := pairs[i].(string)
		o.Set(key, pairs[i+1])
	}
	return o
}

// Set stores value under key.
func (o *Object) Set(key string, value any) {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns a copy of the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return slices.Clone(o.keys)
}

// All yields key/value pairs in insertion order.
func (o *Object) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if o == nil {
			return
		}
		for _, k := range o.keys {
			if !yield(k, o.values[k]) {
				return
			}
		}
	}
}

// Lookup descends into root following a dot-separated path. It reports false
// when a segment is missing or an intermediate value is not an object. An
// empty path returns root itself.
func Lookup(root *Object, path string) (any, bool) {
	if path == "" {
		return root, root != nil
	}
	var current any = root
	for segment := range strings.SplitSeq(path, ".") {
		obj, ok := current.(*Object)
		if !ok || obj == nil {
			return nil, false
		}
		current, ok = obj.Get(segment)
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// KindOf names the shape of a decoded value for error messages.
func KindOf(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case *Object:
		if x == nil {
			return "null"
		}
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int64, int32, uint64, uint32:
		return "number"
	case interface{ Kind() string }:
		return x.Kind()
	default:
		return "unknown"
	}
}
