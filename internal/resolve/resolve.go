// SPDX-License-Identifier: MPL-2.0

// Package resolve turns directive module references into absolute file paths.
//
// Requests follow the conventions of stylesheet loaders in JavaScript build
// tools:
//
//   - "~pkg/theme.js" is a module request, searched for in the configured
//     module directories (default "node_modules") from the requesting
//     directory up to the filesystem root.
//   - "/abs/theme.js" is absolute, re-rooted under Options.Root when set.
//   - anything else, including a bare "theme.js", is relative to the
//     requesting directory.
//
// When the exact file does not exist, siblings with the configured fallback
// extensions replacing the ".js" suffix are tried in order, so a directive can
// point at a JSON, CUE, YAML, TOML, HCL or dotenv data module.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ErrNotResolved is returned when a module request matches no file.
var ErrNotResolved = errors.New("module not resolved")

// DefaultModuleDirs are searched for "~" module requests.
var DefaultModuleDirs = []string{"node_modules"}

// DefaultExtensions are tried, in order, when the requested ".js" file does not exist.
var DefaultExtensions = []string{".json", ".cue", ".yaml", ".yml", ".toml", ".hcl", ".env"}

type (
	// Resolver resolves a module request relative to the directory of the
	// file being transformed.
	Resolver interface {
		Resolve(ctx context.Context, contextDir, request string) (string, error)
	}

	// Options configures an FS resolver.
	Options struct {
		// ModuleDirs are directory names searched for "~" requests.
		ModuleDirs []string
		// Root re-roots absolute requests when non-empty.
		Root string
		// Extensions are fallback suffixes replacing ".js" when the exact file is missing.
		Extensions []string
	}

	// FS resolves requests against the local filesystem.
	FS struct {
		moduleDirs []string
		root       string
		extensions []string
	}

	// ResolutionError is returned when Request could not be resolved from
	// ContextDir. Tried lists every candidate path that was checked.
	// It wraps ErrNotResolved for errors.Is() compatibility.
	ResolutionError struct {
		Request    string
		ContextDir string
		Tried      []string
	}
)

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("can't resolve '%s' in '%s' (tried %d candidates)", e.Request, e.ContextDir, len(e.Tried))
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *ResolutionError) Unwrap() error {
	return ErrNotResolved
}

// NewFS creates a filesystem resolver. Nil option slices take the defaults;
// empty non-nil slices disable the corresponding lookup.
func NewFS(opts Options) *FS {
	moduleDirs := opts.ModuleDirs
	if moduleDirs == nil {
		moduleDirs = DefaultModuleDirs
	}
	extensions := opts.Extensions
	if extensions == nil {
		extensions = DefaultExtensions
	}
	return &FS{
		moduleDirs: slices.Clone(moduleDirs),
		root:       opts.Root,
		extensions: slices.Clone(extensions),
	}
}

// Resolve implements Resolver.
func (r *FS) Resolve(ctx context.Context, contextDir, request string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("resolve %q canceled: %w", request, err)
	}

	absContext, err := filepath.Abs(contextDir)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", request, err)
	}

	var tried []string
	for _, base := range r.bases(absContext, request) {
		for _, candidate := range r.candidates(base) {
			tried = append(tried, candidate)
			if isFile(candidate) {
				return candidate, nil
			}
		}
	}

	return "", &ResolutionError{Request: request, ContextDir: absContext, Tried: tried}
}

// bases returns the candidate paths of request before extension fallback, in
// lookup order.
func (r *FS) bases(contextDir, request string) []string {
	rel := filepath.FromSlash(request)

	switch {
	case strings.HasPrefix(request, "~"):
		name := filepath.FromSlash(strings.TrimPrefix(strings.TrimPrefix(request, "~"), "/"))
		var out []string
		for dir := contextDir; ; dir = filepath.Dir(dir) {
			for _, modules := range r.moduleDirs {
				out = append(out, filepath.Join(dir, modules, name))
			}
			if parent := filepath.Dir(dir); parent == dir {
				break
			}
		}
		return out
	case filepath.IsAbs(rel) || strings.HasPrefix(request, "/"):
		if r.root != "" {
			return []string{filepath.Join(r.root, rel)}
		}
		return []string{filepath.Clean(rel)}
	default:
		return []string{filepath.Join(contextDir, rel)}
	}
}

// candidates expands base with the fallback extensions.
func (r *FS) candidates(base string) []string {
	out := []string{base}
	ext := filepath.Ext(base)
	if !strings.EqualFold(ext, ".js") {
		return out
	}
	stem := strings.TrimSuffix(base, ext)
	for _, fallback := range r.extensions {
		out = append(out, stem+fallback)
	}
	return out
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Func adapts an ordinary function to the Resolver interface.
type Func func(ctx context.Context, contextDir, request string) (string, error)

// Resolve implements Resolver.
func (f Func) Resolve(ctx context.Context, contextDir, request string) (string, error) {
	return f(ctx, contextDir, request)
}
