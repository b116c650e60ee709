// SPDX-License-Identifier: MPL-2.0

package datamod

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stylevars/stylevars/internal/testutil"
	"github.com/stylevars/stylevars/pkg/cueutil"
	"github.com/stylevars/stylevars/pkg/varmap"
)

// render flattens a decoded tree into "key=value" pairs for comparison.
func render(t *testing.T, tree any, property string) string {
	t.Helper()
	vars, err := varmap.Extract(tree, "test", property)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	var parts []string
	for v := range vars.Vars() {
		parts = append(parts, v.Name+"="+v.Text())
	}
	return strings.Join(parts, ",")
}

func TestDecode_AllCodecs(t *testing.T) {
	t.Parallel()

	codecs := defaultCodecs(cueutil.DefaultMaxFileSize)

	tests := []struct {
		name     string
		ext      string
		src      string
		property string
		want     string
	}{
		{
			name: "commonjs export",
			ext:  ".js",
			src: `// theme tokens
'use strict';
module.exports = {
	primary: '#fff', /* brand */
	"font-stack": "Helvetica, 'Arial'",
	gutter: 8,
	ratio: .5,
	_private: 'kept',
};
`,
			want: "primary=#fff,font-stack=Helvetica, 'Arial',gutter=8,ratio=0.5,_private=kept",
		},
		{
			name:     "es module export with nesting",
			ext:      ".mjs",
			src:      "export default {\n  colors: { primary: `#000`, 'count': 2, },\n  sizes: [1, 2],\n}\n",
			property: "colors",
			want:     "primary=#000,count=2",
		},
		{
			name: "js escapes and integer keys first",
			ext:  ".js",
			src:  `module.exports = {if: 'a\'b', "null": "é\x41", 1: -1e3}`,
			want: "1=-1000,if=a'b,null=éA",
		},
		{
			name: "json",
			ext:  ".json",
			src:  `{"b": 1, "a": "two"}`,
			want: "b=1,a=two",
		},
		{
			name: "cue",
			ext:  ".cue",
			src:  "base: 4\nspacing: base * 2\nunit: \"px\"\n",
			want: "base=4,spacing=8,unit=px",
		},
		{
			name:     "yaml",
			ext:      ".yaml",
			src:      "defaults: &d\n  radius: 4px\ncolors:\n  <<: *d\n  z: 1\n  a: '#fff'\n",
			property: "colors",
			want:     "radius=4px,z=1,a=#fff",
		},
		{
			name:     "toml",
			ext:      ".toml",
			src:      "title = \"x\"\n[colors]\nzeta = \"#111\"\nalpha = 2\ninline = { b = 1, a = 2 }\n",
			property: "colors.inline",
			want:     "b=1,a=2",
		},
		{
			name:     "toml table order",
			ext:      ".toml",
			src:      "[colors]\nzeta = \"#111\"\nalpha = 2.5\n",
			property: "colors",
			want:     "zeta=#111,alpha=2.5",
		},
		{
			name: "hcl",
			ext:  ".hcl",
			src:  "zeta = \"#111\"\nalpha = 1 + 2\nnested = {\n  y = \"1\"\n  x = 2\n}\n",
			want: "zeta=#111,alpha=3",
		},
		{
			name:     "hcl nested object order",
			ext:      ".hcl",
			src:      "nested = {\n  y = \"1\"\n  x = 2\n}\n",
			property: "nested",
			want:     "y=1,x=2",
		},
		{
			name: "dotenv",
			ext:  ".env",
			src:  "# comment\nZ_INDEX=10\nexport PRIMARY=\"#fff\"\nA=b\n",
			want: "Z_INDEX=10,PRIMARY=#fff,A=b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			codec, ok := codecs[tt.ext]
			if !ok {
				t.Fatalf("no codec for %s", tt.ext)
			}
			tree, err := codec.Decode([]byte(tt.src), "vars"+tt.ext)
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if tt.name == "hcl" {
				// nested is an object: only assert on the scalar prefix.
				root := tree.(*varmap.Object)
				flat := varmap.NewObject()
				for k, v := range root.All() {
					if _, isObj := v.(*varmap.Object); !isObj {
						flat.Set(k, v)
					}
				}
				tree = flat
			}
			if got := render(t, tree, tt.property); got != tt.want {
				t.Errorf("decoded = %q, want %q", got, tt.want)
			}
		})
	}
}

func decodeJS(t *testing.T, dir, name, src string) (any, error) {
	t.Helper()
	path := testutil.WriteFile(t, filepath.Join(dir, name), src)
	return jsCodec{maxFileSize: cueutil.DefaultMaxFileSize}.Decode([]byte(src), path)
}

func TestJSCodec_CommonJS(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.WriteFile(t, filepath.Join(dir, "base.js"), "module.exports = {unit: 4, primary: '#fff'};\n")
	testutil.WriteFile(t, filepath.Join(dir, "lib", "scale.json"), `{"ratio": 1.5}`)

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"named exports", "exports.primary = '#fff';\nexports.gutter = 8;\n", "primary=#fff,gutter=8"},
		{"exported binding", "const theme = {a: 1};\ntheme.b = theme.a * 2;\nmodule.exports = theme;\n", "a=1,b=2"},
		{"duplicate key keeps last", "module.exports = {a: 1, a: 2};", "a=2"},
		{"computed keys", "const p = 'col';\nmodule.exports = {[p + 'or']: 'red', ['size']: `${2 * 4}px`};", "color=red,size=8px"},
		{"require sibling", "const base = require('./base');\nmodule.exports = {...base, gutter: base.unit * 2};", "unit=4,primary=#fff,gutter=8"},
		{"require json", "module.exports = require('./lib/scale.json');", "ratio=1.5"},
		{"use strict and comments", "'use strict';\n/* tokens */\nmodule.exports = {a: 'x'}; // trailing\n", "a=x"},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tree, err := decodeJS(t, dir, fmt.Sprintf("case%d.js", i), tt.src)
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if got := render(t, tree, ""); got != tt.want {
				t.Errorf("decoded = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestJSCodec_NoExport(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for i, src := range []string{
		"module.exports = undefined;\n",
		"module.exports = null;\n",
	} {
		tree, err := decodeJS(t, dir, fmt.Sprintf("none%d.js", i), src)
		if err != nil {
			t.Errorf("Decode(%q) error: %v", src, err)
			continue
		}
		if tree != nil {
			t.Errorf("Decode(%q) = %v, want no export", src, tree)
		}
	}

	// A module that never assigns exports still exports an empty object.
	tree, err := decodeJS(t, dir, "unassigned.js", "const x = {a: 1};\n")
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if obj, ok := tree.(*varmap.Object); !ok || obj.Len() != 0 {
		t.Errorf("Decode() = %#v, want an empty object", tree)
	}
}

func TestJSCodec_ValueKinds(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tree, err := decodeJS(t, dir, "kinds.js", `module.exports = {
	fn: function () {},
	when: new Date(0),
	pattern: /x/,
	sym: Symbol('s'),
	big: 10n,
	list: [1, 'two'],
	sparse: (() => { const a = []; a.length = 1e7; return a; })(),
	nan: NaN,
	inf: -Infinity,
	flag: true,
	nothing: null,
};
`)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	root, ok := tree.(*varmap.Object)
	if !ok {
		t.Fatalf("Decode() = %T, want *varmap.Object", tree)
	}

	want := map[string]string{
		"fn":      "function",
		"when":    "date",
		"pattern": "regexp",
		"sym":     "symbol",
		"big":     "bigint",
		"list":    "array",
		"sparse":  "array",
		"nan":     "number",
		"inf":     "number",
		"flag":    "boolean",
		"nothing": "null",
	}
	for key, kind := range want {
		v, found := root.Get(key)
		if !found {
			t.Errorf("key %q missing", key)
			continue
		}
		if got := varmap.KindOf(v); got != kind {
			t.Errorf("KindOf(%s) = %q, want %q", key, got, kind)
		}
	}
	if v, _ := root.Get("nan"); !math.IsNaN(v.(float64)) {
		t.Errorf("nan = %v, want NaN", v)
	}
	if v, _ := root.Get("inf"); !math.IsInf(v.(float64), -1) {
		t.Errorf("inf = %v, want -Inf", v)
	}
}

func TestJSCodec_CyclicExport(t *testing.T) {
	t.Parallel()

	tree, err := decodeJS(t, t.TempDir(), "cycle.js", "const a = {x: '1'};\na.self = a;\nmodule.exports = a;\n")
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if v, ok := varmap.Lookup(tree.(*varmap.Object), "self.self.x"); !ok || v != "1" {
		t.Errorf("Lookup(self.self.x) = %v, %v; want 1, true", v, ok)
	}
}

func TestJSCodec_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.WriteFile(t, filepath.Join(dir, "huge.js"), "module.exports = {a: '"+strings.Repeat("x", 64)+"'};")

	tests := []struct {
		name string
		src  string
	}{
		{"syntax error", "module.exports = {a: };"},
		{"thrown error", "throw new Error('no tokens');"},
		{"missing require", "module.exports = require('./missing');"},
		{"throwing getter", "module.exports = {get a() { throw new Error('x'); }};"},
		{"node built-in", "module.exports = {cwd: require('fs').readFileSync('x')};"},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := decodeJS(t, dir, fmt.Sprintf("err%d.js", i), tt.src); err == nil {
				t.Error("Decode() should fail")
			}
		})
	}

	t.Run("required module too large", func(t *testing.T) {
		t.Parallel()

		src := "module.exports = require('./huge');"
		path := testutil.WriteFile(t, filepath.Join(dir, "big.js"), src)
		_, err := jsCodec{maxFileSize: 32}.Decode([]byte(src), path)
		if !errors.Is(err, cueutil.ErrFileTooLarge) {
			t.Errorf("Decode() error = %v, want wrapping ErrFileTooLarge", err)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		t.Parallel()

		src := "while (true) {}"
		path := testutil.WriteFile(t, filepath.Join(dir, "loop.js"), src)
		_, err := jsCodec{timeout: 50 * time.Millisecond}.Decode([]byte(src), path)
		if !errors.Is(err, errJSTimeout) {
			t.Errorf("Decode() error = %v, want wrapping errJSTimeout", err)
		}
	})
}
