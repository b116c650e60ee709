// SPDX-License-Identifier: MPL-2.0

package directive

import (
	"testing"
)

func TestScan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		want     []Directive
		wantText []string
	}{
		{
			name: "no directives",
			text: "body { color: red; }\n@import 'theme.scss';\n",
		},
		{
			name: "double quoted with terminator",
			text: `@import "./vars.js";`,
			want: []Directive{{Start: 0, End: 20, Quote: '"', Module: "./vars.js"}},
		},
		{
			name: "single quoted without terminator",
			text: `a{}@import './vars.js'` + "\nb{}",
			want: []Directive{{Start: 3, End: 22, Quote: '\'', Module: "./vars.js"}},
		},
		{
			name: "property path",
			text: `@import "~pkg/theme.js".colors.primary;`,
			want: []Directive{{Start: 0, End: 39, Quote: '"', Module: "~pkg/theme.js", Property: ".colors.primary"}},
		},
		{
			name: "whitespace between keyword and quote is optional",
			text: `@import"a.js"`,
			want: []Directive{{Start: 0, End: 13, Quote: '"', Module: "a.js"}},
		},
		{
			name: "case insensitive",
			text: `@IMPORT "A.JS".Sizes;`,
			want: []Directive{{Start: 0, End: 21, Quote: '"', Module: "A.JS", Property: ".Sizes"}},
		},
		{
			name: "mismatched quotes are ignored",
			text: `@import "vars.js';`,
		},
		{
			name: "other suffixes are ignored",
			text: `@import "vars.json";`,
		},
		{
			name: "multiple directives in order",
			text: "@import 'a.js';\n.x{}\n@import \"b.js\".c-d_e;\n",
			want: []Directive{
				{Start: 0, End: 15, Quote: '\'', Module: "a.js"},
				{Start: 21, End: 42, Quote: '"', Module: "b.js", Property: ".c-d_e"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Scan(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("Scan() returned %d directives, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Scan()[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
				if text := tt.text[got[i].Start:got[i].End]; len(text) != got[i].Len() {
					t.Errorf("Len() = %d, span text %q", got[i].Len(), text)
				}
			}
			if Contains(tt.text) != (len(tt.want) > 0) {
				t.Errorf("Contains() = %v, want %v", Contains(tt.text), len(tt.want) > 0)
			}
		})
	}
}

func TestPropertyPath_DropsLeadingDot(t *testing.T) {
	t.Parallel()

	tests := []struct {
		property string
		want     string
	}{
		{"", ""},
		{".colors", "colors"},
		{".colors.primary", "colors.primary"},
	}
	for _, tt := range tests {
		d := Directive{Property: tt.property}
		if got := d.PropertyPath(); got != tt.want {
			t.Errorf("PropertyPath(%q) = %q, want %q", tt.property, got, tt.want)
		}
		if d.HasProperty() != (tt.property != "") {
			t.Errorf("HasProperty(%q) = %v", tt.property, d.HasProperty())
		}
	}
}

func TestMatches_StopsEarly(t *testing.T) {
	t.Parallel()

	text := `@import "a.js"; @import "b.js"; @import "c.js";`
	var seen []string
	for d := range Matches(text) {
		seen = append(seen, d.Module)
		if len(seen) == 2 {
			break
		}
	}
	if len(seen) != 2 || seen[0] != "a.js" || seen[1] != "b.js" {
		t.Errorf("Matches() yielded %v, want [a.js b.js]", seen)
	}
}
