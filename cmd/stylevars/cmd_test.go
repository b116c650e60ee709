// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stylevars/stylevars/internal/config"
	"github.com/stylevars/stylevars/internal/datamod"
	"github.com/stylevars/stylevars/internal/issue"
	"github.com/stylevars/stylevars/internal/resolve"
	"github.com/stylevars/stylevars/internal/testutil"
	"github.com/stylevars/stylevars/pkg/dialect"
	"github.com/stylevars/stylevars/pkg/varmap"
)

// staticProvider returns a fixed configuration without touching the filesystem.
type staticProvider struct {
	cfg *config.Config
	err error
}

func (p staticProvider) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	return p.cfg, p.err
}

type testEnv struct {
	dir    string
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	app    *App
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		dir:    t.TempDir(),
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
	env.app = NewApp(Dependencies{
		Config: staticProvider{cfg: config.DefaultConfig()},
		Stdout: env.stdout,
		Stderr: env.stderr,
	})
	return env
}

func (e *testEnv) write(t *testing.T, name, content string) string {
	t.Helper()
	return testutil.WriteFile(t, filepath.Join(e.dir, name), content)
}

func (e *testEnv) run(args ...string) error {
	root := NewRootCommand(e.app)
	root.SetArgs(args)
	root.SetOut(e.stdout)
	root.SetErr(e.stderr)
	return root.ExecuteContext(context.Background())
}

func TestTransform_Stdout(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.write(t, "theme.js", "module.exports = {colors: {primary: '#fff', gap: 4}};")
	sheet := env.write(t, "main.scss", "@import \"theme.js\".colors;\n.a { color: $primary; }\n")

	if err := env.run("transform", sheet); err != nil {
		t.Fatalf("transform error: %v\nstderr: %s", err, env.stderr)
	}

	want := "$primary: #fff;\n$gap: 4;\n\n.a { color: $primary; }\n"
	if got := env.stdout.String(); got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestTransform_OutputAndDeps(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	dep := env.write(t, "tokens/spacing.yaml", "small: 2px\nlarge: 8px\n")
	sheet := env.write(t, "main.less", "@import 'tokens/spacing.js';\n")
	out := filepath.Join(env.dir, "dist", "main.less")

	if err := env.run("transform", sheet, "-o", out, "--deps"); err != nil {
		t.Fatalf("transform error: %v\nstderr: %s", err, env.stderr)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if got, want := string(data), "@small: 2px;\n@large: 8px;\n\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	if env.stdout.Len() != 0 {
		t.Errorf("stdout should be empty with --output, got %q", env.stdout)
	}
	if !strings.Contains(env.stderr.String(), dep) {
		t.Errorf("--deps output %q should list %s", env.stderr, dep)
	}
	if !strings.Contains(env.stderr.String(), "(2 top-level keys)") {
		t.Errorf("--deps output %q should summarise the cached export", env.stderr)
	}
}

func TestTransform_Failure(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.write(t, "bad.js", "module.exports = {a: [1, 2]};")
	sheet := env.write(t, "main.scss", `@import "bad.js";`)

	err := env.run("transform", sheet)

	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Fatalf("transform error = %v, want *ExitError with code 1", err)
	}
	if !errors.Is(err, varmap.ErrInvalidVarValue) {
		t.Errorf("error chain should include ErrInvalidVarValue: %v", err)
	}
	stderr := env.stderr.String()
	if !strings.Contains(stderr, "transform stylesheet") || !strings.Contains(stderr, "--verbose") {
		t.Errorf("stderr = %q, want actionable message with suggestion", stderr)
	}
	if env.stdout.Len() != 0 {
		t.Errorf("no partial output expected, got %q", env.stdout)
	}
}

func TestTransform_VerboseRendersGuide(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	sheet := env.write(t, "main.scss", `@import "missing.js";`)

	if err := env.run("transform", "--verbose", sheet); err == nil {
		t.Fatal("transform should fail for a missing module")
	}
	if !strings.Contains(env.stderr.String(), "Data module not found") {
		t.Errorf("verbose stderr should contain the issue guide, got:\n%s", env.stderr)
	}
}

func TestTransform_MissingStylesheet(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	err := env.run("transform", filepath.Join(env.dir, "nope.scss"))

	var ae *issue.ActionableError
	if !errors.As(err, &ae) || ae.IssueID != issue.StylesheetNotFoundId {
		t.Errorf("error = %v, want StylesheetNotFoundId actionable error", err)
	}
}

func TestTransform_ConfigError(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.app.Config = staticProvider{err: errors.New("bad config")}
	sheet := env.write(t, "main.scss", "")

	if err := env.run("transform", sheet); err == nil || !strings.Contains(err.Error(), "bad config") {
		t.Errorf("transform error = %v, want config error", err)
	}
}

func TestVars(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	module := env.write(t, "palette.toml", "[brand]\nred = \"#f00\"\nblue = \"#00f\"\n")

	if err := env.run("vars", module, "--property", "brand", "--dialect", "less"); err != nil {
		t.Fatalf("vars error: %v\nstderr: %s", err, env.stderr)
	}
	if got, want := env.stdout.String(), "@red: #f00;\n@blue: #00f;\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

// Changes the process working directory, so it must not run in parallel.
func TestVars_ResolvesFromWorkingDir(t *testing.T) {
	env := newTestEnv(t)
	env.write(t, "node_modules/tokens/colors.json", `{"palette": {"ink": "#111"}}`)
	defer testutil.MustChdir(t, env.dir)()

	if err := env.run("vars", "~tokens/colors.json", "-p", "palette"); err != nil {
		t.Fatalf("vars error: %v\nstderr: %s", err, env.stderr)
	}
	if got, want := env.stdout.String(), "$ink: #111;\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestVars_InvalidDialect(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	module := env.write(t, "palette.json", `{"a": "1"}`)

	err := env.run("vars", module, "--dialect", "stylus")
	if !errors.Is(err, dialect.ErrUnsupportedDialect) {
		t.Errorf("vars error = %v, want ErrUnsupportedDialect", err)
	}
}

func TestConfigShow(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	if err := env.run("config", "show"); err != nil {
		t.Fatalf("config show error: %v", err)
	}
	out := env.stdout.String()
	for _, want := range []string{"cache_size: 256", `log_level: "info"`, `debounce: "300ms"`} {
		if !strings.Contains(out, want) {
			t.Errorf("config show output missing %q:\n%s", want, out)
		}
	}
}

func TestIssueFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want issue.Id
	}{
		{&resolve.ResolutionError{Request: "x.js"}, issue.ModuleNotResolvedId},
		{&varmap.EmptyExportError{Module: "m"}, issue.EmptyExportId},
		{&varmap.ExportShapeError{Module: "m", Kind: "string"}, issue.InvalidExportShapeId},
		{&varmap.PropertyShapeError{Module: "m", Property: "p", Kind: "undefined"}, issue.InvalidPropertyShapeId},
		{&varmap.InvalidVarValueError{Module: "m", Key: "k", Kind: "array"}, issue.InvalidVarValueId},
		{&dialect.UnsupportedFileTypeError{Path: "a.css"}, issue.UnsupportedFileTypeId},
		{&datamod.UnsupportedModuleError{Path: "a.ini", Ext: ".ini"}, issue.UnsupportedModuleId},
		{&datamod.DecodeError{Path: "a.js", Cause: errors.New("syntax")}, issue.ModuleDecodeFailedId},
		{fmt.Errorf("wrapped: %w", varmap.ErrEmptyExport), issue.EmptyExportId},
		{errors.New("other"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			t.Parallel()
			if got := issueFor(tt.err); got != tt.want {
				t.Errorf("issueFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestActionable_PassesThroughActionableErrors(t *testing.T) {
	t.Parallel()

	inner := issue.NewErrorContext().WithOperation("read stylesheet").BuildError()
	if got := actionable(inner, "transform stylesheet", "x"); got != inner {
		t.Errorf("actionable() rewrapped an actionable error: %v", got)
	}
	if actionable(nil, "op", "x") != nil {
		t.Error("actionable(nil) should be nil")
	}
}

func TestActionable_UnclassifiedError(t *testing.T) {
	t.Parallel()

	cause := errors.New("disk full")
	err := actionable(cause, "write output", "dist/main.css")

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("actionable() = %T, want *issue.ActionableError", err)
	}
	if ae.Operation != "write output" || ae.Resource != "dist/main.css" || ae.IssueID != 0 {
		t.Errorf("actionable() = %+v, want operation and resource without an issue", ae)
	}
	if ae.HasSuggestions() {
		t.Error("an unclassified error should carry no --verbose suggestion")
	}
	if !errors.Is(err, cause) {
		t.Errorf("actionable() should wrap its cause, got %v", err)
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()

	if got := (&ExitError{Code: 2}).Error(); got != "exit status 2" {
		t.Errorf("Error() = %q", got)
	}
	inner := errors.New("inner")
	if got := (&ExitError{Code: 1, Err: inner}); !errors.Is(got, inner) || got.Error() != "inner" {
		t.Errorf("ExitError should wrap its error, got %v", got)
	}
}

func TestGetVersionString(t *testing.T) {
	t.Parallel()

	if got := getVersionString(); !strings.HasPrefix(got, "dev") {
		t.Errorf("getVersionString() = %q, want dev build", got)
	}
}
