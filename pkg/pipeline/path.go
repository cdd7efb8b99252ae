package pipeline

import (
	"context"
	"time"

	errs "github.com/Wesbraak3/Dungeon-Generator/pkg/errors"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/grid"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/observability"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/pathfind"
)

// PathQuery asks for a route between two world positions.
type PathQuery struct {
	From      pathfind.Vec3 `json:"from"`
	To        pathfind.Vec3 `json:"to"`
	Algorithm string        `json:"algorithm,omitempty"`
}

// PathResult is the answer to a PathQuery. An unreachable goal yields an
// empty Path and is not an error.
type PathResult struct {
	Algorithm  pathfind.Algorithm `json:"algorithm"`
	Path       []grid.Cell        `json:"path"`
	Discovered []grid.Cell        `json:"discovered"`
	Cost       float64            `json:"cost"`
	Duration   time.Duration      `json:"duration_ns"`
}

// Found reports whether a route exists.
func (p *PathResult) Found() bool { return len(p.Path) > 0 }

// Path runs a pathfinding query on the grid of res.
func (r *Runner) Path(ctx context.Context, res *Result, q PathQuery) (*PathResult, error) {
	if res == nil || res.Grid == nil {
		return nil, errs.New(errs.ErrCodeInvalidInput, "no grid to search")
	}
	algo := pathfind.AlgoBFS
	if q.Algorithm != "" {
		var err error
		if algo, err = pathfind.ParseAlgorithm(q.Algorithm); err != nil {
			return nil, errs.ValidateChoice(errs.ErrCodeInvalidAlgorithm, "algorithm",
				pathfind.Algorithm(q.Algorithm), pathfind.Algorithms)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hooks := r.hooks(Options{})
	hooks.OnStageStart(ctx, observability.StagePath)
	t := time.Now()
	path, trace := pathfind.NewFinder(res.Grid, algo).ComputePath(q.From, q.To)
	out := &PathResult{
		Algorithm:  algo,
		Path:       path,
		Discovered: trace.Discovered,
		Cost:       pathfind.PathCost(path),
		Duration:   time.Since(t),
	}
	hooks.OnStageComplete(ctx, observability.StagePath, len(path), out.Duration, nil)

	r.Logger.Debug("path query",
		"algorithm", algo,
		"steps", len(path),
		"discovered", len(trace.Discovered),
		"duration", out.Duration)
	return out, nil
}
