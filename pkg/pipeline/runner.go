package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Wesbraak3/Dungeon-Generator/pkg/cache"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/dungeon"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/dungeon/split"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/dungeon/transform"
	errs "github.com/Wesbraak3/Dungeon-Generator/pkg/errors"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/grid/build"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/layout"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/observability"
)

// reduceSalt separates the reducer's random stream from the splitter's.
const reduceSalt = 0x5ad1_7e3c_0b9f_4d21

// Runner encapsulates pipeline execution with caching.
// The CLI, TUI and server all use it so generation behaves identically.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// Hooks receives stage events. Nil uses the registered global hooks.
	Hooks observability.PipelineHooks
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs split, prune, reduce, validate and grid stages. The layout
// produced by the first three stages is cached; a hit skips them.
//
// Cancelling ctx aborts the run at the next stage or split boundary.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	hooks := r.hooks(opts)

	start := time.Now()
	hooks.OnGenerateStart(ctx, opts.Seed, opts.Strategy)

	res, err := r.execute(ctx, opts, hooks)
	if err != nil {
		hooks.OnGenerateComplete(ctx, 0, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnGenerateComplete(ctx, res.Stats.Rooms, res.Stats.Doors, time.Since(start), nil)
	return res, nil
}

func (r *Runner) execute(ctx context.Context, opts Options, hooks observability.PipelineHooks) (*Result, error) {
	res := &Result{ID: uuid.NewString(), Seed: opts.Seed}
	key := r.Keyer.LayoutKey(opts.LayoutKeyOpts())

	l, hit := r.cachedLayout(ctx, key, opts)
	res.CacheInfo.LayoutHit = hit
	if !hit {
		generated, err := r.generate(ctx, opts, hooks, res)
		if err != nil {
			return nil, err
		}
		l = layout.FromDungeon(generated, layout.Meta{
			Seed:     opts.Seed,
			Bounds:   opts.Bounds(),
			Strategy: opts.Strategy,
		})
	}

	// Rebuilding from the snapshot renumbers rooms and doors densely, so a
	// fresh run and a cache hit yield the same handles.
	d, _, err := l.Dungeon()
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvariant, err, "rebuild dungeon")
	}
	var checks []dungeon.ValidateOption
	if !opts.StrictDoors {
		checks = append(checks, dungeon.RequireConnected())
	} else if !d.IsConnected() {
		res.Warnings = append(res.Warnings, "strict door placement left the dungeon disconnected")
	}
	if err := d.Validate(checks...); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvariant, err, "finalized dungeon is invalid")
	}
	l = layout.FromDungeon(d, l.Meta)

	data, err := layout.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshal layout: %w", err)
	}
	res.LayoutHash = cache.Hash(data)
	if !hit && !res.exhausted {
		if err := r.Cache.Set(ctx, key, data, cache.TTLLayout); err != nil {
			opts.Logger.Warn("cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	l.ID = res.ID
	res.Layout = l
	res.Dungeon = d
	res.Stats.Rooms = d.RoomCount()
	res.Stats.Doors = d.DoorCount()

	if err := stage(ctx, hooks, observability.StageGrid, func() (int, error) {
		t := time.Now()
		m, stats, err := build.FromDungeon(ctx, d, build.Options{})
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		if err != nil {
			return 0, errs.Wrap(errs.ErrCodeInvariant, err, "build grid")
		}
		res.Grid = m
		res.Stats.WallCells = stats.WallCells
		res.Stats.DoorCells = stats.DoorCells
		res.Stats.FloorCells = stats.FloorCells
		res.Stats.GridTime = time.Since(t)
		return m.Len(), nil
	}); err != nil {
		return nil, err
	}

	opts.Logger.Info("built grid",
		"cells", res.Grid.Len(),
		"walls", res.Stats.WallCells,
		"doors", res.Stats.DoorCells,
		"duration", res.Stats.GridTime)
	return res, nil
}

// generate runs the seeded stages on a fresh arena.
func (r *Runner) generate(ctx context.Context, opts Options, hooks observability.PipelineHooks, res *Result) (*dungeon.Dungeon, error) {
	d := dungeon.New()
	root := d.AddRoom(opts.Bounds())

	// Stage 1: Split
	err := stage(ctx, hooks, observability.StageSplit, func() (int, error) {
		t := time.Now()
		sr, err := opts.Splitter().Split(ctx, d, root, opts.Seed)
		if err != nil {
			return 0, fmt.Errorf("split: %w", err)
		}
		res.Stats.Splits = sr.Splits
		res.Stats.Depth = sr.Depth
		res.Stats.SplitTime = time.Since(t)
		return len(sr.Leaves), nil
	})
	if err != nil {
		return nil, err
	}
	opts.Logger.Info("split rooms",
		"rooms", d.RoomCount(),
		"doors", d.DoorCount(),
		"depth", res.Stats.Depth,
		"duration", res.Stats.SplitTime)

	// Stage 2: Prune
	err = stage(ctx, hooks, observability.StagePrune, func() (int, error) {
		t := time.Now()
		ps, err := transform.PruneSmallRooms(ctx, d, transform.PruneOptions{
			Percent:   opts.PercentToRemove,
			Timeout:   opts.PruneTimeout(),
			MaxPasses: opts.MaxPrunePasses,
		})
		res.Stats.RoomsPruned = ps.Removed
		res.Stats.PruneTime = time.Since(t)
		switch {
		case errors.Is(err, transform.ErrBudgetExhausted) && opts.StrictPrune:
			return ps.Removed, errs.Wrap(errs.ErrCodeNonConvergence, err, "prune did not reach its target")
		case errors.Is(err, transform.ErrBudgetExhausted):
			res.exhausted = true
			res.Warnings = append(res.Warnings, err.Error())
			opts.Logger.Warn("pruning stopped early", "removed", ps.Removed, "target", ps.Target, "passes", ps.Passes)
		case err != nil:
			return ps.Removed, fmt.Errorf("prune: %w", err)
		case ps.Blocked:
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("pruned %d of %d rooms: every remaining candidate is a cut room", ps.Removed, ps.Target))
		}
		return ps.Removed, nil
	})
	if err != nil {
		return nil, err
	}
	opts.Logger.Info("pruned rooms",
		"removed", res.Stats.RoomsPruned,
		"rooms", d.RoomCount(),
		"duration", res.Stats.PruneTime)

	// Stage 3: Reduce
	err = stage(ctx, hooks, observability.StageReduce, func() (int, error) {
		t := time.Now()
		cs, err := transform.ReduceCycles(ctx, d, transform.CycleOptions{
			Strategy: opts.ReductionStrategy(),
			Rand:     split.NewSource(opts.Seed ^ reduceSalt),
			Keep:     opts.KeepLoops,
		})
		res.Stats.DoorsRemoved = cs.Removed
		res.Stats.ReduceTime = time.Since(t)
		if err != nil {
			return cs.Removed, fmt.Errorf("reduce cycles: %w", err)
		}
		return cs.Removed, nil
	})
	if err != nil {
		return nil, err
	}
	opts.Logger.Info("reduced cycles",
		"strategy", opts.Strategy,
		"removed", res.Stats.DoorsRemoved,
		"doors", d.DoorCount(),
		"duration", res.Stats.ReduceTime)

	return d, nil
}

// cachedLayout looks up a previously generated layout.
func (r *Runner) cachedLayout(ctx context.Context, key string, opts Options) (layout.Layout, bool) {
	if opts.Refresh {
		return layout.Layout{}, false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		opts.Logger.Warn("cache read failed", "error", err)
		return layout.Layout{}, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "layout")
		return layout.Layout{}, false
	}
	l, err := layout.Unmarshal(data)
	if err != nil {
		opts.Logger.Debug("discarding unreadable cached layout", "error", err)
		return layout.Layout{}, false
	}
	observability.Cache().OnCacheHit(ctx, "layout")
	opts.Logger.Debug("layout cache hit", "rooms", len(l.Rooms), "doors", len(l.Doors))
	return l, true
}

// stage runs fn between start and complete hook events after checking ctx.
func stage(ctx context.Context, hooks observability.PipelineHooks, name string, fn func() (int, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	hooks.OnStageStart(ctx, name)
	t := time.Now()
	count, err := fn()
	hooks.OnStageComplete(ctx, name, count, time.Since(t), err)
	return err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) hooks(opts Options) observability.PipelineHooks {
	switch {
	case opts.Hooks != nil:
		return opts.Hooks
	case r.Hooks != nil:
		return r.Hooks
	}
	return observability.Pipeline()
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
