// Package observability provides hooks for metrics, tracing, and logging.
//
// Instrumentation is optional and backend-agnostic. The generation pipeline,
// the cache layer, and the HTTP server emit events through small hook
// interfaces; consumers register implementations at startup.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// [LogHooks] writes every event to a charmbracelet logger at debug level.
// [Counters] keeps atomic totals for the server's stats endpoint. [Multi]
// fans pipeline events out to several sinks.
//
// # Usage
//
// Register hooks at application startup:
//
//	counters := observability.NewCounters()
//	observability.SetCacheHooks(counters)
//	defer observability.Reset()
//
// Emitters read the registry on every event, so a later registration is
// seen by running code:
//
//	observability.Cache().OnCacheHit(ctx, "layout")
package observability

import (
	"context"
	"time"
)

// Stage names reported by the generation pipeline.
const (
	StageSplit  = "split"
	StagePrune  = "prune"
	StageReduce = "reduce"
	StageGrid   = "grid"
	StagePath   = "path"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from dungeon generation.
type PipelineHooks interface {
	// Whole-run events
	OnGenerateStart(ctx context.Context, seed uint64, strategy string)
	OnGenerateComplete(ctx context.Context, rooms, doors int, duration time.Duration, err error)

	// Stage events. count is stage specific: rooms after a split, rooms
	// removed by pruning, doors removed by reduction, cells in the grid, or
	// steps in a path.
	OnStageStart(ctx context.Context, stage string)
	OnStageComplete(ctx context.Context, stage string, count int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives layout and artifact cache events. kind is "layout"
// or "artifact"; size is the stored byte count.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, kind string)
	OnCacheMiss(ctx context.Context, kind string)
	OnCacheSet(ctx context.Context, kind string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives API request events. OnError fires in addition to
// OnResponse for server-side failures.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, path string, status int, duration time.Duration)
	OnError(ctx context.Context, method, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks ignores every event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnGenerateStart(context.Context, uint64, string)                    {}
func (NoopPipelineHooks) OnGenerateComplete(context.Context, int, int, time.Duration, error) {}
func (NoopPipelineHooks) OnStageStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnStageComplete(context.Context, string, int, time.Duration, error) {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}
