package observability

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Counters accumulates event totals. It is safe for concurrent use.
type Counters struct {
	generated atomic.Int64
	failed    atomic.Int64
	hits      atomic.Int64
	misses    atomic.Int64
	sets      atomic.Int64
	requests  atomic.Int64
	errors    atomic.Int64

	mu     sync.Mutex
	stages map[string]StageTotals
}

// StageTotals aggregates completions of a single stage.
type StageTotals struct {
	Runs     int64         `json:"runs"`
	Failures int64         `json:"failures"`
	Count    int64         `json:"count"`
	Duration time.Duration `json:"duration_ns"`
}

// Snapshot is a point-in-time copy of Counters.
type Snapshot struct {
	Generated   int64                  `json:"generated"`
	Failed      int64                  `json:"failed"`
	CacheHits   int64                  `json:"cache_hits"`
	CacheMisses int64                  `json:"cache_misses"`
	CacheSets   int64                  `json:"cache_sets"`
	Requests    int64                  `json:"requests"`
	Errors      int64                  `json:"errors"`
	Stages      map[string]StageTotals `json:"stages"`
}

// NewCounters returns zeroed counters.
func NewCounters() *Counters {
	return &Counters{stages: make(map[string]StageTotals)}
}

// Snapshot copies the current totals.
func (c *Counters) Snapshot() Snapshot {
	c.mu.Lock()
	stages := make(map[string]StageTotals, len(c.stages))
	for k, v := range c.stages {
		stages[k] = v
	}
	c.mu.Unlock()

	return Snapshot{
		Generated:   c.generated.Load(),
		Failed:      c.failed.Load(),
		CacheHits:   c.hits.Load(),
		CacheMisses: c.misses.Load(),
		CacheSets:   c.sets.Load(),
		Requests:    c.requests.Load(),
		Errors:      c.errors.Load(),
		Stages:      stages,
	}
}

func (c *Counters) OnGenerateStart(context.Context, uint64, string) {}

func (c *Counters) OnGenerateComplete(_ context.Context, _, _ int, _ time.Duration, err error) {
	if err != nil {
		c.failed.Add(1)
		return
	}
	c.generated.Add(1)
}

func (c *Counters) OnStageStart(context.Context, string) {}

func (c *Counters) OnStageComplete(_ context.Context, stage string, count int, d time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.stages[stage]
	t.Runs++
	if err != nil {
		t.Failures++
	}
	t.Count += int64(count)
	t.Duration += d
	c.stages[stage] = t
}

func (c *Counters) OnCacheHit(context.Context, string)      { c.hits.Add(1) }
func (c *Counters) OnCacheMiss(context.Context, string)     { c.misses.Add(1) }
func (c *Counters) OnCacheSet(context.Context, string, int) { c.sets.Add(1) }

func (c *Counters) OnRequest(context.Context, string, string)                      { c.requests.Add(1) }
func (c *Counters) OnResponse(context.Context, string, string, int, time.Duration) {}
func (c *Counters) OnError(context.Context, string, string, error)                 { c.errors.Add(1) }

var (
	_ PipelineHooks = (*Counters)(nil)
	_ CacheHooks    = (*Counters)(nil)
	_ HTTPHooks     = (*Counters)(nil)
)
