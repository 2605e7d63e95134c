// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about exports and sink deliveries.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetExportHooks(&myExportHooks{})
//	    observability.SetSinkHooks(&mySinkHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Export().OnRenderStart(ctx, "png", nodeCount)
//	// ... render ...
//	observability.Export().OnRenderComplete(ctx, "png", size, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Export Hooks
// =============================================================================

// ExportHooks receives events from the export transforms.
type ExportHooks interface {
	// OnRenderStart is called before a project is rendered to format.
	OnRenderStart(ctx context.Context, format string, nodeCount int)

	// OnRenderComplete is called after rendering with the artifact size.
	OnRenderComplete(ctx context.Context, format string, size int, duration time.Duration, err error)
}

// =============================================================================
// Sink Hooks
// =============================================================================

// SinkHooks receives events from artifact delivery.
type SinkHooks interface {
	// OnDeliver records a delivery attempt and its outcome.
	OnDeliver(ctx context.Context, sink, name string, size int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopExportHooks is a no-op implementation of ExportHooks.
type NoopExportHooks struct{}

func (NoopExportHooks) OnRenderStart(context.Context, string, int)                          {}
func (NoopExportHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {}

// NoopSinkHooks is a no-op implementation of SinkHooks.
type NoopSinkHooks struct{}

func (NoopSinkHooks) OnDeliver(context.Context, string, string, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	exportHooks ExportHooks = NoopExportHooks{}
	sinkHooks   SinkHooks   = NoopSinkHooks{}
	hooksMu     sync.RWMutex
)

// SetExportHooks registers custom export hooks.
// This should be called once at application startup before any export.
func SetExportHooks(h ExportHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		exportHooks = h
	}
}

// SetSinkHooks registers custom sink hooks.
// This should be called once at application startup before any delivery.
func SetSinkHooks(h SinkHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		sinkHooks = h
	}
}

// Export returns the registered export hooks.
func Export() ExportHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return exportHooks
}

// Sink returns the registered sink hooks.
func Sink() SinkHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return sinkHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	exportHooks = NoopExportHooks{}
	sinkHooks = NoopSinkHooks{}
}

// =============================================================================
// Fan-out
// =============================================================================

type multiExportHooks []ExportHooks

func (m multiExportHooks) OnRenderStart(ctx context.Context, format string, nodeCount int) {
	for _, h := range m {
		h.OnRenderStart(ctx, format, nodeCount)
	}
}

func (m multiExportHooks) OnRenderComplete(ctx context.Context, format string, size int, d time.Duration, err error) {
	for _, h := range m {
		h.OnRenderComplete(ctx, format, size, d, err)
	}
}

// MultiExportHooks returns hooks that forward every event to each of hooks
// in order. Nil entries are skipped.
func MultiExportHooks(hooks ...ExportHooks) ExportHooks {
	var m multiExportHooks
	for _, h := range hooks {
		if h != nil {
			m = append(m, h)
		}
	}
	return m
}

type multiSinkHooks []SinkHooks

func (m multiSinkHooks) OnDeliver(ctx context.Context, sink, name string, size int, d time.Duration, err error) {
	for _, h := range m {
		h.OnDeliver(ctx, sink, name, size, d, err)
	}
}

// MultiSinkHooks is the [SinkHooks] counterpart of [MultiExportHooks].
func MultiSinkHooks(hooks ...SinkHooks) SinkHooks {
	var m multiSinkHooks
	for _, h := range hooks {
		if h != nil {
			m = append(m, h)
		}
	}
	return m
}
