// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about layout interaction, script replay and rendering.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Layout hooks are called synchronously from inside the canvas control loop,
// so implementations must be fast and must not call back into the canvas.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetLayoutHooks(&myLayoutHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Layout().OnSnap(itemID, "mesh")
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from the interactive layout engine.
type LayoutHooks interface {
	// Item lifecycle
	OnItemCreated(id, itemType string)
	OnItemDeleted(id string)

	// Drag lifecycle
	OnDragStart(id string)
	OnDragEnd(id string)

	// OnSnap records which snap tier decided a committed position.
	OnSnap(id, tier string)

	// OnPropagate records a linked movement triggered by a shaft commit.
	OnPropagate(shaftID string, moved int)

	// OnViewportChange records a pan, zoom or reset.
	OnViewportChange(x, y, zoom float64)
}

// =============================================================================
// Replay Hooks
// =============================================================================

// ReplayHooks receives events from scenario script replay.
type ReplayHooks interface {
	OnReplayStart(ctx context.Context, name string, events int)
	OnReplayComplete(ctx context.Context, name string, applied int, duration time.Duration, err error)
}

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from the output renderers.
type RenderHooks interface {
	OnRenderStart(ctx context.Context, format string)
	OnRenderComplete(ctx context.Context, format string, size int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnItemCreated(string, string)               {}
func (NoopLayoutHooks) OnItemDeleted(string)                       {}
func (NoopLayoutHooks) OnDragStart(string)                         {}
func (NoopLayoutHooks) OnDragEnd(string)                           {}
func (NoopLayoutHooks) OnSnap(string, string)                      {}
func (NoopLayoutHooks) OnPropagate(string, int)                    {}
func (NoopLayoutHooks) OnViewportChange(float64, float64, float64) {}

// NoopReplayHooks is a no-op implementation of ReplayHooks.
type NoopReplayHooks struct{}

func (NoopReplayHooks) OnReplayStart(context.Context, string, int) {}
func (NoopReplayHooks) OnReplayComplete(context.Context, string, int, time.Duration, error) {
}

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRenderStart(context.Context, string)                               {}
func (NoopRenderHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	layoutHooks LayoutHooks = NoopLayoutHooks{}
	replayHooks ReplayHooks = NoopReplayHooks{}
	renderHooks RenderHooks = NoopRenderHooks{}
	hooksMu     sync.RWMutex
)

// SetLayoutHooks registers custom layout hooks.
// This should be called once at application startup before any canvas is created.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetReplayHooks registers custom replay hooks.
func SetReplayHooks(h ReplayHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		replayHooks = h
	}
}

// SetRenderHooks registers custom render hooks.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Replay returns the registered replay hooks.
func Replay() ReplayHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return replayHooks
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	replayHooks = NoopReplayHooks{}
	renderHooks = NoopRenderHooks{}
}
