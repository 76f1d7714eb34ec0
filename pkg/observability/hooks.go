// Package observability provides hooks for metrics, tracing, and logging.
//
// Consumers register hooks at startup to receive events about assembly
// jobs, artifact rendering, cache operations and API requests. Libraries
// call the registered hooks; the defaults do nothing.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetAssemblyHooks(&myAssemblyHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Assembly().OnPartStart(ctx, kind, path)
//	// ... import the part ...
//	observability.Assembly().OnPartComplete(ctx, kind, path, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Assembly Hooks
// =============================================================================

// AssemblyHooks receives events from assembly jobs.
type AssemblyHooks interface {
	// Job events
	OnJobStart(ctx context.Context, jobID string, groups int)
	OnJobComplete(ctx context.Context, jobID string, duration time.Duration, err error)

	// Part events
	OnPartStart(ctx context.Context, kind, path string)
	OnPartComplete(ctx context.Context, kind, path string, duration time.Duration, err error)

	// Merge events
	OnMergeStart(ctx context.Context, group string, parts int)
	OnMergeComplete(ctx context.Context, group, stage string, duration time.Duration, err error)
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from artifact rendering.
type PipelineHooks interface {
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations. keyType is "material"
// for the job-scoped material cache and "artifact" for rendered artifacts.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the API server.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records a completed response.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)

	// OnError records a request that failed with an error.
	OnError(ctx context.Context, method, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopAssemblyHooks is a no-op implementation of AssemblyHooks.
type NoopAssemblyHooks struct{}

func (NoopAssemblyHooks) OnJobStart(context.Context, string, int)                          {}
func (NoopAssemblyHooks) OnJobComplete(context.Context, string, time.Duration, error)      {}
func (NoopAssemblyHooks) OnPartStart(context.Context, string, string)                      {}
func (NoopAssemblyHooks) OnPartComplete(context.Context, string, string, time.Duration, error) {
}
func (NoopAssemblyHooks) OnMergeStart(context.Context, string, int) {}
func (NoopAssemblyHooks) OnMergeComplete(context.Context, string, string, time.Duration, error) {
}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	assemblyHooks AssemblyHooks = NoopAssemblyHooks{}
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetAssemblyHooks registers custom assembly hooks.
// This should be called once at application startup before any job runs.
func SetAssemblyHooks(h AssemblyHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		assemblyHooks = h
	}
}

// SetPipelineHooks registers custom pipeline hooks.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Assembly returns the registered assembly hooks.
func Assembly() AssemblyHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return assemblyHooks
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	assemblyHooks = NoopAssemblyHooks{}
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
