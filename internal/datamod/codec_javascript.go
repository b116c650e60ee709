// SPDX-License-Identifier: MPL-2.0

package datamod

import (
	"errors"
	"fmt"
	"io/fs"
	"math/big"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/require"

	"github.com/stylevars/stylevars/pkg/cueutil"
	"github.com/stylevars/stylevars/pkg/varmap"
)

const (
	// jsEvalTimeout bounds the evaluation of one JavaScript module, including
	// the modules it requires.
	jsEvalTimeout = 5 * time.Second

	jsMaxCallStackSize = 1024

	// jsMaxDepth bounds how deep an export is converted. Objects below it
	// are kept as opaque values, which also cuts reference cycles.
	jsMaxDepth = 64

	// jsMaxArrayLen bounds the arrays that are converted element by element.
	jsMaxArrayLen = 1 << 16
)

// esmDefaultExport rewrites an ES module default export into its CommonJS form.
var esmDefaultExport = regexp.MustCompile(`(?m)^(\s*)export\s+default\b`)

var errJSTimeout = errors.New("module evaluation timed out")

type (
	// jsCodec evaluates a CommonJS module in an isolated runtime and decodes
	// its module.exports. Relative require calls load sibling modules from
	// disk; there are no Node built-ins.
	jsCodec struct {
		maxFileSize int64
		timeout     time.Duration
	}

	// jsOpaque stands for an exported JavaScript value with no data
	// representation, such as a function, a Date or a Symbol.
	jsOpaque struct {
		kind string
	}

	jsConverter struct {
		vm       *goja.Runtime
		toString goja.Callable
	}
)

// Kind implements the kind naming used by varmap error messages.
func (o jsOpaque) Kind() string {
	return o.kind
}

func (c jsCodec) Decode(data []byte, filename string) (any, error) {
	abs, err := filepath.Abs(filename)
	if err != nil {
		return nil, err
	}
	dir, base := filepath.Dir(abs), filepath.Base(abs)
	if strings.EqualFold(filepath.Ext(base), ".mjs") {
		data = esmDefaultExport.ReplaceAll(data, []byte("${1}module.exports ="))
	}

	maxFileSize := c.maxFileSize
	if maxFileSize <= 0 {
		maxFileSize = cueutil.DefaultMaxFileSize
	}
	source := func(name string) ([]byte, error) {
		if name == base {
			return data, nil
		}
		p := filepath.FromSlash(name)
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		if info, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
			return nil, require.ModuleFileDoesNotExistError
		}
		src, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		if err := cueutil.CheckFileSize(src, maxFileSize, p); err != nil {
			return nil, err
		}
		return src, nil
	}

	vm := goja.New()
	vm.SetMaxCallStackSize(jsMaxCallStackSize)
	req := require.NewRegistry(require.WithLoader(source)).Enable(vm)

	timeout := c.timeout
	if timeout <= 0 {
		timeout = jsEvalTimeout
	}
	timer := time.AfterFunc(timeout, func() {
		vm.Interrupt(errJSTimeout)
	})
	defer timer.Stop()

	exports, err := req.Require("./" + base)
	if err != nil {
		return nil, err
	}

	conv, err := newJSConverter(vm)
	if err != nil {
		return nil, err
	}
	var (
		tree    any
		convErr error
	)
	// Keys and Get run getters, which panic with an *Exception when they throw.
	if ex := vm.Try(func() {
		tree, convErr = conv.tree(exports, 0)
	}); ex != nil {
		return nil, ex
	}
	return tree, convErr
}

func newJSConverter(vm *goja.Runtime) (*jsConverter, error) {
	proto := vm.Get("Object").ToObject(vm).Get("prototype").ToObject(vm)
	toString, ok := goja.AssertFunction(proto.Get("toString"))
	if !ok {
		return nil, errors.New("cannot call Object.prototype.toString")
	}
	return &jsConverter{vm: vm, toString: toString}, nil
}

// tree converts v into the neutral value tree. Only objects whose tag is
// [object Object] become *varmap.Object; numbers keep NaN and infinities so
// that validation reports them by key.
func (c *jsConverter) tree(v goja.Value, depth int) (any, error) {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, nil
	}
	if _, ok := v.(*goja.Symbol); ok {
		return jsOpaque{kind: "symbol"}, nil
	}

	obj, ok := v.(*goja.Object)
	if !ok {
		switch x := v.Export().(type) {
		case int64:
			return float64(x), nil
		case float64, string, bool:
			return x, nil
		case *big.Int:
			return jsOpaque{kind: "bigint"}, nil
		default:
			return jsOpaque{kind: fmt.Sprintf("%T", x)}, nil
		}
	}

	tag, err := c.tag(obj)
	if err != nil {
		return nil, err
	}
	switch tag {
	case "Object":
		if depth >= jsMaxDepth {
			return jsOpaque{kind: "object"}, nil
		}
		out := varmap.NewObject()
		for _, key := range obj.Keys() {
			child, err := c.tree(obj.Get(key), depth+1)
			if err != nil {
				return nil, err
			}
			out.Set(key, child)
		}
		return out, nil
	case "Array":
		n := obj.Get("length").ToInteger()
		if depth >= jsMaxDepth || n > jsMaxArrayLen {
			return jsOpaque{kind: "array"}, nil
		}
		out := make([]any, 0, n)
		for i := range n {
			child, err := c.tree(obj.Get(strconv.FormatInt(i, 10)), depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, child)
		}
		return out, nil
	default:
		return jsOpaque{kind: strings.ToLower(tag)}, nil
	}
}

// tag returns the class of obj as reported by Object.prototype.toString,
// "Object" for "[object Object]".
func (c *jsConverter) tag(obj *goja.Object) (string, error) {
	res, err := c.toString(obj)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(strings.TrimPrefix(res.String(), "[object "), "]"), nil
}
