// Package observability provides hooks for metrics, tracing, and logging.
//
// The pipeline reports stage events through [PipelineHooks] without knowing
// who listens. Consumers register an implementation at startup, or hand one
// to a single pipeline runner:
//
//	func main() {
//	    observability.SetPipelineHooks(observability.NewLogHooks(logger))
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnParseStart(ctx, path)
//	// ... read the results file ...
//	observability.Pipeline().OnParseComplete(ctx, path, records, duration, err)
package observability

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the heat-map pipeline.
type PipelineHooks interface {
	// Parse events
	OnParseStart(ctx context.Context, input string)
	OnParseComplete(ctx context.Context, input string, records int, duration time.Duration, err error)

	// Layout events
	OnLayoutStart(ctx context.Context, nodeCount int)
	OnLayoutComplete(ctx context.Context, shape string, grids int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, artifacts int)
	OnArtifact(ctx context.Context, name string, size int, duration time.Duration)
	OnRenderComplete(ctx context.Context, artifacts int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementation
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnParseStart(context.Context, string)                                {}
func (NoopPipelineHooks) OnParseComplete(context.Context, string, int, time.Duration, error)   {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, int)                                  {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, int)                                  {}
func (NoopPipelineHooks) OnArtifact(context.Context, string, int, time.Duration)              {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, int, time.Duration, error)         {}

// =============================================================================
// Logging Implementation
// =============================================================================

// LogHooks writes every event to a logger at debug level; failed stages are
// logged as errors.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks logging to logger. A nil logger uses log.Default().
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{Logger: logger}
}

func (h *LogHooks) OnParseStart(_ context.Context, input string) {
	h.Logger.Debug("parse started", "input", input)
}

func (h *LogHooks) OnParseComplete(_ context.Context, input string, records int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Error("parse failed", "input", input, "err", err)
		return
	}
	h.Logger.Debug("parse finished", "input", input, "records", records, "duration", d)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, nodeCount int) {
	h.Logger.Debug("layout started", "nodes", nodeCount)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, shape string, grids int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Error("layout failed", "err", err)
		return
	}
	h.Logger.Debug("layout finished", "shape", shape, "grids", grids, "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, artifacts int) {
	h.Logger.Debug("render started", "artifacts", artifacts)
}

func (h *LogHooks) OnArtifact(_ context.Context, name string, size int, d time.Duration) {
	h.Logger.Debug("rendered", "artifact", name, "bytes", size, "duration", d)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, artifacts int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Error("render failed", "err", err)
		return
	}
	h.Logger.Debug("render finished", "artifacts", artifacts, "duration", d)
}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Reset restores the hooks to their no-op default.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
}
