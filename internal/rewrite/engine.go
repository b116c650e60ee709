// SPDX-License-Identifier: MPL-2.0

package rewrite

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/stylevars/stylevars/internal/ctxlog"
	"github.com/stylevars/stylevars/pkg/dialect"
	"github.com/stylevars/stylevars/pkg/directive"
	"github.com/stylevars/stylevars/pkg/varmap"
)

// ErrSynchronousInvocation is returned by Run when no completion callback is supplied.
var ErrSynchronousInvocation = errors.New("synchronous compilation is not supported")

type (
	// ModuleLoader loads the style variables of a resolved module, narrowed
	// to property when it is non-empty.
	ModuleLoader interface {
		Load(ctx context.Context, path, property string) (varmap.VarMap, error)
	}

	// Callback receives the outcome of an asynchronous pass. On failure result is empty.
	Callback func(err error, result string)

	// Options configures an Engine.
	Options struct {
		// Concurrency bounds how many directives are expanded at once.
		// Zero or negative means unbounded.
		Concurrency int
	}

	// Engine runs rewrite passes. It holds no per-pass state and is safe for
	// concurrent use.
	Engine struct {
		loader      ModuleLoader
		concurrency int
	}
)

// New creates an Engine loading modules through loader.
func New(loader ModuleLoader, opts Options) *Engine {
	return &Engine{
		loader:      loader,
		concurrency: opts.Concurrency,
	}
}

// Run starts a pass over content on a new goroutine and reports the outcome
// through done exactly once. A nil done is rejected with
// ErrSynchronousInvocation and nothing is run.
func (e *Engine) Run(ctx context.Context, host Host, resourcePath, content string, done Callback) error {
	if done == nil {
		return ErrSynchronousInvocation
	}
	go func() {
		result, err := e.Rewrite(ctx, host, resourcePath, content)
		if err != nil {
			done(err, "")
			return
		}
		done(nil, result)
	}()
	return nil
}

// Rewrite runs a pass over content, the text of the stylesheet at
// resourcePath. The dialect comes from the extension of resourcePath and
// directives resolve relative to its directory.
func (e *Engine) Rewrite(ctx context.Context, host Host, resourcePath, content string) (string, error) {
	d, err := dialect.FromPath(resourcePath)
	if err != nil {
		return "", err
	}
	return e.RewriteDialect(ctx, host, d, filepath.Dir(resourcePath), content)
}

// RewriteDialect runs a pass with an explicit dialect and context directory.
func (e *Engine) RewriteDialect(ctx context.Context, host Host, d dialect.Dialect, contextDir, content string) (string, error) {
	if err := d.Validate(); err != nil {
		return "", err
	}

	directives := directive.Scan(content)
	if len(directives) == 0 {
		return content, nil
	}

	logger := ctxlog.FromContext(ctx)
	logger.Debug("rewriting stylesheet", "dir", contextDir, "dialect", d, "directives", len(directives))

	var depMu sync.Mutex
	addDependency := func(path string) {
		depMu.Lock()
		defer depMu.Unlock()
		host.AddDependency(path)
	}

	blocks := make([]string, len(directives))
	g, gctx := errgroup.WithContext(ctx)
	if e.concurrency > 0 {
		g.SetLimit(e.concurrency)
	}
	for i, dir := range directives {
		g.Go(func() error {
			block, err := e.expand(gctx, host, addDependency, d, contextDir, dir)
			if err != nil {
				return err
			}
			blocks[i] = block
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	return splice(content, directives, blocks), nil
}

// expand runs the resolve, load, serialize pipeline of a single directive.
// Host resolution errors are returned unchanged.
func (e *Engine) expand(
	ctx context.Context,
	host Host,
	addDependency func(string),
	d dialect.Dialect,
	contextDir string,
	dir directive.Directive,
) (string, error) {
	path, err := host.Resolve(ctx, contextDir, dir.Module)
	if err != nil {
		return "", err
	}

	vars, err := e.loader.Load(ctx, path, dir.PropertyPath())
	if err != nil {
		return "", err
	}
	addDependency(path)

	ctxlog.FromContext(ctx).Debug("expanded directive",
		"module", dir.Module, "property", dir.PropertyPath(), "path", path, "vars", vars.Len())
	return dialect.Serialize(d, vars)
}

// splice replaces each directive span of content with the matching block.
func splice(content string, directives []directive.Directive, blocks []string) string {
	var sb strings.Builder
	sb.Grow(len(content))
	last := 0
	for i, d := range directives {
		sb.WriteString(content[last:d.Start])
		sb.WriteString(blocks[i])
		last = d.End
	}
	sb.WriteString(content[last:])
	return sb.String()
}
