// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about frame rendering and HTTP frame serving.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, never by libraries, so the core packages stay
// free of any observability backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetRenderHooks(observability.NewLogHooks(logger))
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Render().OnFrameStart(ctx, t)
//	// ... draw the frame ...
//	observability.Render().OnFrameComplete(ctx, t, rings, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from the frame pipeline.
type RenderHooks interface {
	// OnFrameStart records the start of frame t.
	OnFrameStart(ctx context.Context, t int)

	// OnFrameComplete records a finished frame and the number of rings drawn.
	OnFrameComplete(ctx context.Context, t int, rings int, duration time.Duration, err error)
}

// =============================================================================
// Serve Hooks
// =============================================================================

// ServeHooks receives events from the HTTP frame server.
type ServeHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the response status and latency.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnFrameStart(context.Context, int)                               {}
func (NoopRenderHooks) OnFrameComplete(context.Context, int, int, time.Duration, error) {}

// NoopServeHooks is a no-op implementation of ServeHooks.
type NoopServeHooks struct{}

func (NoopServeHooks) OnRequest(context.Context, string, string)                      {}
func (NoopServeHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	renderHooks RenderHooks = NoopRenderHooks{}
	serveHooks  ServeHooks  = NoopServeHooks{}
	hooksMu     sync.RWMutex
)

// SetRenderHooks registers custom render hooks.
// This should be called once at application startup before any frame is drawn.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// SetServeHooks registers custom serve hooks.
// This should be called once at application startup before the server starts.
func SetServeHooks(h ServeHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		serveHooks = h
	}
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Serve returns the registered serve hooks.
func Serve() ServeHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return serveHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	renderHooks = NoopRenderHooks{}
	serveHooks = NoopServeHooks{}
}
