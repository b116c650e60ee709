// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stylevars/stylevars/pkg/varmap"
)

const testSchema = `
#Settings: {
	name:   string
	count?: int & >=0
}
`

func TestCompileAndToTree(t *testing.T) {
	t.Parallel()

	data := []byte(`{
	zeta: "last-declared-first"
	colors: {primary: "#fff", count: 2}
	ratio: 1.5
	flags: [true, null]
}`)
	v, err := Compile(data, WithFilename("vars.json"))
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	tree, err := ToTree(v)
	if err != nil {
		t.Fatalf("ToTree() error: %v", err)
	}

	root, ok := tree.(*varmap.Object)
	if !ok {
		t.Fatalf("ToTree() = %T, want *varmap.Object", tree)
	}
	keys := strings.Join(root.Keys(), ",")
	if keys != "zeta,colors,ratio,flags" {
		t.Errorf("keys = %s, want declaration order", keys)
	}

	colors, _ := root.Get("colors")
	if count, _ := colors.(*varmap.Object).Get("count"); count != 2.0 {
		t.Errorf("colors.count = %v (%T), want float64 2", count, count)
	}
	flags, _ := root.Get("flags")
	if list, ok := flags.([]any); !ok || len(list) != 2 || list[0] != true || list[1] != nil {
		t.Errorf("flags = %#v", flags)
	}
}

func TestCompile_ErrorIncludesFilename(t *testing.T) {
	t.Parallel()

	_, err := Compile([]byte(`{a: }`), WithFilename("broken.cue"))
	if err == nil {
		t.Fatal("Compile() should fail on a syntax error")
	}
	if !strings.Contains(err.Error(), "broken.cue") {
		t.Errorf("error should mention the file, got: %v", err)
	}
}

func TestCompile_RejectsNonConcrete(t *testing.T) {
	t.Parallel()

	if _, err := Compile([]byte(`a: string`)); err == nil {
		t.Error("Compile() should reject non-concrete values by default")
	}
	if _, err := Compile([]byte(`a: string`), WithConcrete(false)); err != nil {
		t.Errorf("Compile(WithConcrete(false)) error: %v", err)
	}
}

func TestCompile_FileSizeLimit(t *testing.T) {
	t.Parallel()

	_, err := Compile([]byte(`{a: "0123456789"}`), WithMaxFileSize(4), WithFilename("big.json"))
	if err == nil || !strings.Contains(err.Error(), "exceeds maximum 4 bytes") {
		t.Errorf("Compile() error = %v, want size limit error", err)
	}
}

func TestParseAndDecode(t *testing.T) {
	t.Parallel()

	result, err := ParseAndDecode[map[string]any]([]byte(testSchema), []byte(`name: "x"`), "#Settings",
		WithConcrete(false), WithFilename("settings.cue"))
	if err != nil {
		t.Fatalf("ParseAndDecode() error: %v", err)
	}
	if (*result.Value)["name"] != "x" {
		t.Errorf("name = %v, want x", (*result.Value)["name"])
	}

	_, err = ParseAndDecode[map[string]any]([]byte(testSchema), []byte("name: \"x\"\ncount: -1"), "#Settings",
		WithFilename("settings.cue"))
	if err == nil || !strings.Contains(err.Error(), "count") {
		t.Errorf("ParseAndDecode() error = %v, want count constraint failure", err)
	}
}

func TestFormatError(t *testing.T) {
	t.Parallel()

	if FormatError(nil, "x.cue") != nil {
		t.Error("FormatError(nil) should be nil")
	}

	original := errors.New("boom")
	err := FormatError(original, "x.cue")
	if !errors.Is(err, original) || err.Error() != "x.cue: boom" {
		t.Errorf("FormatError(non-CUE) = %v", err)
	}

	wrapped := fmt.Errorf("read: %w", os.ErrNotExist)
	if err := FormatError(wrapped, "x.cue"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("FormatError(wrapped) = %v, want wrapping os.ErrNotExist", err)
	}

	_, cueErr := Compile([]byte("a: 1\na: 2\n"), WithFilename("vars.cue"))
	if cueErr == nil {
		t.Fatal("Compile() of conflicting values should fail")
	}
	if !strings.HasPrefix(cueErr.Error(), "vars.cue: a: conflicting values") {
		t.Errorf("formatted CUE error = %q, want a vars.cue: a: prefix", cueErr)
	}
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path []string
		want string
	}{
		{nil, ""},
		{[]string{"name"}, "name"},
		{[]string{"colors", "primary"}, "colors.primary"},
		{[]string{"sizes", "0", "px"}, "sizes[0].px"},
		{[]string{"0"}, "0"},
	}
	for _, tt := range tests {
		if got := formatPath(tt.path); got != tt.want {
			t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()

	if err := CheckFileSize(make([]byte, 100), 100, "f"); err != nil {
		t.Errorf("data at the limit should pass, got %v", err)
	}
	err := CheckFileSize(make([]byte, 101), 100, "f.cue")
	if err == nil || !strings.Contains(err.Error(), "f.cue") || !strings.Contains(err.Error(), "101") {
		t.Errorf("CheckFileSize() error = %v", err)
	}
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("CheckFileSize() error = %v, want wrapping ErrFileTooLarge", err)
	}
}
