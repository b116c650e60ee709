// SPDX-License-Identifier: MPL-2.0

package rewrite

import (
	"context"
	"slices"
	"sync"

	"github.com/stylevars/stylevars/internal/resolve"
)

type (
	// Host is the build pipeline invoking a rewrite pass. Resolve turns a
	// directive module reference into an absolute path; AddDependency records a
	// resolved module as a dependency of the file being transformed.
	// The engine never calls AddDependency concurrently.
	Host interface {
		resolve.Resolver
		AddDependency(path string)
	}

	// HostFuncs adapts two functions to the Host interface.
	HostFuncs struct {
		ResolveFunc       resolve.Func
		AddDependencyFunc func(path string)
	}

	// TrackingHost resolves through a Resolver and records dependencies in
	// registration order, without duplicates.
	TrackingHost struct {
		resolver resolve.Resolver
		mu       sync.Mutex
		deps     []string
	}
)

// Resolve implements Host.
func (h HostFuncs) Resolve(ctx context.Context, contextDir, request string) (string, error) {
	return h.ResolveFunc.Resolve(ctx, contextDir, request)
}

// AddDependency implements Host. A nil AddDependencyFunc is a no-op.
func (h HostFuncs) AddDependency(path string) {
	if h.AddDependencyFunc != nil {
		h.AddDependencyFunc(path)
	}
}

// NewTrackingHost creates a TrackingHost resolving through r.
func NewTrackingHost(r resolve.Resolver) *TrackingHost {
	return &TrackingHost{resolver: r}
}

// Resolve implements Host.
func (h *TrackingHost) Resolve(ctx context.Context, contextDir, request string) (string, error) {
	return h.resolver.Resolve(ctx, contextDir, request)
}

// AddDependency implements Host.
func (h *TrackingHost) AddDependency(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !slices.Contains(h.deps, path) {
		h.deps = append(h.deps, path)
	}
}

// Dependencies returns the registered dependencies.
func (h *TrackingHost) Dependencies() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.deps)
}

// Reset forgets all registered dependencies.
func (h *TrackingHost) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.deps = nil
}
