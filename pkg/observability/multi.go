package observability

import (
	"context"
	"time"
)

// MultiPipeline fans pipeline events out to several hooks in order.
type MultiPipeline []PipelineHooks

// Multi combines hooks, skipping nil entries.
func Multi(hooks ...PipelineHooks) PipelineHooks {
	out := make(MultiPipeline, 0, len(hooks))
	for _, h := range hooks {
		if h != nil {
			out = append(out, h)
		}
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}

func (m MultiPipeline) OnGenerateStart(ctx context.Context, seed uint64, strategy string) {
	for _, h := range m {
		h.OnGenerateStart(ctx, seed, strategy)
	}
}

func (m MultiPipeline) OnGenerateComplete(ctx context.Context, rooms, doors int, d time.Duration, err error) {
	for _, h := range m {
		h.OnGenerateComplete(ctx, rooms, doors, d, err)
	}
}

func (m MultiPipeline) OnStageStart(ctx context.Context, stage string) {
	for _, h := range m {
		h.OnStageStart(ctx, stage)
	}
}

func (m MultiPipeline) OnStageComplete(ctx context.Context, stage string, count int, d time.Duration, err error) {
	for _, h := range m {
		h.OnStageComplete(ctx, stage, count, d, err)
	}
}
