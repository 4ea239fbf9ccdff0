// Package observability provides hooks for metrics and tracing.
//
// Hooks are carried by value on each [pipeline.Runner] rather than stored in
// a process-wide registry, so independent runners (tests, sweeps, API
// servers) never observe each other's events.
//
// # Usage
//
//	counters := observability.NewCounters()
//	runner := pipeline.NewRunner(c, nil, logger)
//	runner.Hooks = observability.Hooks{Solve: counters, Cache: counters}
//
// Libraries call hooks to emit events:
//
//	r.Hooks.Solve.OnSolveStart(ctx, name)
//	// ... solve ...
//	r.Hooks.Solve.OnSolveComplete(ctx, name, trays, converged, duration, err)
//
// [pipeline.Runner]: github.com/matzehuels/mccabe/pkg/pipeline.Runner
package observability

import (
	"context"
	"time"
)

// =============================================================================
// Solve Hooks
// =============================================================================

// SolveHooks receives events from the design pipeline.
type SolveHooks interface {
	// Solve events
	OnSolveStart(ctx context.Context, name string)
	OnSolveComplete(ctx context.Context, name string, trays int, converged bool, duration time.Duration, err error)

	// Render events
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSolveHooks is a no-op implementation of SolveHooks.
type NoopSolveHooks struct{}

func (NoopSolveHooks) OnSolveStart(context.Context, string) {}
func (NoopSolveHooks) OnSolveComplete(context.Context, string, int, bool, time.Duration, error) {
}
func (NoopSolveHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Hook Set
// =============================================================================

// Hooks bundles the hooks one runner reports to. Nil fields are treated as
// no-ops.
type Hooks struct {
	Solve SolveHooks
	Cache CacheHooks
}

// WithDefaults returns h with nil fields replaced by no-op hooks.
func (h Hooks) WithDefaults() Hooks {
	if h.Solve == nil {
		h.Solve = NoopSolveHooks{}
	}
	if h.Cache == nil {
		h.Cache = NoopCacheHooks{}
	}
	return h
}
