package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to Logger at debug level.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks that log to l.
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{Logger: l}
}

func (h *LogHooks) OnGenerateStart(_ context.Context, seed uint64, strategy string) {
	h.Logger.Debug("generate start", "seed", seed, "strategy", strategy)
}

func (h *LogHooks) OnGenerateComplete(_ context.Context, rooms, doors int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("generate failed", "error", err, "duration", d)
		return
	}
	h.Logger.Debug("generate done", "rooms", rooms, "doors", doors, "duration", d)
}

func (h *LogHooks) OnStageStart(_ context.Context, stage string) {
	h.Logger.Debug("stage start", "stage", stage)
}

func (h *LogHooks) OnStageComplete(_ context.Context, stage string, count int, d time.Duration, err error) {
	h.Logger.Debug("stage done", "stage", stage, "count", count, "duration", d, "error", err)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.Logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.Logger.Info("response", "method", method, "path", path, "status", status, "duration", d)
}

func (h *LogHooks) OnError(_ context.Context, method, path string, err error) {
	h.Logger.Error("request failed", "method", method, "path", path, "error", err)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
