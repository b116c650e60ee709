// SPDX-License-Identifier: MPL-2.0

package datamod

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/stylevars/stylevars/internal/ctxlog"
	"github.com/stylevars/stylevars/pkg/cueutil"
	"github.com/stylevars/stylevars/pkg/varmap"
)

// DefaultCacheSize is the number of module exports kept in the cache.
const DefaultCacheSize = 256

type (
	// Options configures a Loader.
	Options struct {
		// CacheSize bounds the module cache. Zero means DefaultCacheSize.
		CacheSize int
		// MaxFileSize bounds module files. Zero means cueutil.DefaultMaxFileSize.
		MaxFileSize int64
		// Codecs adds or replaces codecs, keyed by extension (".json" or "json").
		Codecs map[string]Codec
	}

	// Loader loads data modules and extracts style variables from them.
	// It is safe for concurrent use.
	Loader struct {
		cache       *lru.Cache[string, any]
		codecs      map[string]Codec
		maxFileSize int64
	}
)

// NewLoader creates a Loader with the built-in codecs.
func NewLoader(opts Options) (*Loader, error) {
	size := opts.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	maxFileSize := opts.MaxFileSize
	if maxFileSize <= 0 {
		maxFileSize = cueutil.DefaultMaxFileSize
	}

	cache, err := lru.New[string, any](size)
	if err != nil {
		return nil, fmt.Errorf("create module cache: %w", err)
	}

	codecs := defaultCodecs(maxFileSize)
	for ext, codec := range opts.Codecs {
		codecs[normalizeExt(ext)] = codec
	}

	return &Loader{
		cache:       cache,
		codecs:      codecs,
		maxFileSize: maxFileSize,
	}, nil
}

// Extensions returns the module extensions the loader can decode, sorted.
func (l *Loader) Extensions() []string {
	return sortedExtensions(l.codecs)
}

// Supports reports whether a codec exists for the extension of path.
func (l *Loader) Supports(path string) bool {
	_, ok := l.codecs[normalizeExt(filepath.Ext(path))]
	return ok
}

// Evict drops the cached export of path. It reports whether an entry was present.
func (l *Loader) Evict(path string) bool {
	return l.cache.Remove(path)
}

// Cached returns the export cached for path by the last load, if any.
func (l *Loader) Cached(path string) (any, bool) {
	return l.cache.Peek(path)
}

// Purge empties the module cache.
func (l *Loader) Purge() {
	l.cache.Purge()
}

// Module evicts any cached copy of path, then reads and decodes the file.
// A file with only whitespace has no export (nil).
func (l *Loader) Module(ctx context.Context, path string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load module %s canceled: %w", path, err)
	}
	logger := ctxlog.FromContext(ctx)

	if l.Evict(path) {
		logger.Debug("evicted cached module", "path", path)
	}

	ext := normalizeExt(filepath.Ext(path))
	codec, ok := l.codecs[ext]
	if !ok {
		return nil, &UnsupportedModuleError{Path: path, Ext: ext}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read module %s: %w", path, err)
	}
	if err := cueutil.CheckFileSize(data, l.maxFileSize, path); err != nil {
		return nil, &DecodeError{Path: path, Cause: err}
	}

	var export any
	if len(bytes.TrimSpace(data)) > 0 {
		export, err = codec.Decode(data, path)
		if err != nil {
			return nil, &DecodeError{Path: path, Cause: err}
		}
	}

	l.cache.Add(path, export)
	logger.Debug("loaded module", "path", path, "codec", ext)
	return export, nil
}

// Load loads path and extracts its style variables, narrowed to property
// (a dotted path without leading dot) when non-empty.
func (l *Loader) Load(ctx context.Context, path, property string) (varmap.VarMap, error) {
	export, err := l.Module(ctx, path)
	if err != nil {
		return varmap.VarMap{}, err
	}
	return varmap.Extract(export, path, property)
}
