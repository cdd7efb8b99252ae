// Package pipeline generates complete dungeons.
//
// It runs the generation stages in order and is shared by the CLI, the TUI
// viewer and the HTTP server so that every entry point produces the same
// dungeon for the same options.
//
// # Architecture
//
// A run has five stages:
//
//  1. Split: recursively partition the bounds and place doors between siblings
//  2. Prune: remove the smallest rooms that are not cut rooms
//  3. Reduce: remove doors that close cycles using the chosen traversal
//  4. Validate: check the arena and that every room is reachable
//  5. Grid: build the occupancy map used by the pathfinder and renderers
//
// Stages 1 to 3 are deterministic for a given seed, so their output is
// cached as a [layout.Layout] keyed by the options. A cache hit skips them
// and rebuilds the arena and grid from the snapshot.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{Seed: 1234, Strategy: "dfs"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Dungeon.RoomCount(), "rooms")
//
// Query a path on the result:
//
//	p, err := runner.Path(ctx, res, pipeline.PathQuery{From: a, To: b, Algorithm: "astar"})
package pipeline

import (
	"io"
	"math"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Wesbraak3/Dungeon-Generator/pkg/cache"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/dungeon"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/dungeon/split"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/dungeon/transform"
	errs "github.com/Wesbraak3/Dungeon-Generator/pkg/errors"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/geom"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/grid"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/layout"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/observability"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and TUI
// =============================================================================

const (
	DefaultX      = 0
	DefaultY      = 0
	DefaultWidth  = 100
	DefaultHeight = 50

	// MaxArea bounds Width*Height.
	MaxArea = 1 << 20

	// DefaultMinRoomSize is the smallest side a room may be split down to.
	DefaultMinRoomSize = 10

	// DefaultDoorWidth is the door length along its wall.
	DefaultDoorWidth = 2

	// DefaultSeed is the seed the CLI uses when none is given. A zero seed in
	// Options selects a random one.
	DefaultSeed = uint64(1234)

	DefaultStrategy = transform.BFS

	DefaultPruneTimeout = transform.DefaultPruneTimeout
)

// Format constants for rendered outputs.
const (
	FormatJSON  = "json"
	FormatDOT   = "dot"
	FormatSVG   = "svg"
	FormatASCII = "ascii"
	FormatTiles = "tiles" // marching-squares wall pieces as JSON
)

// Formats lists the supported output formats.
var Formats = []string{FormatJSON, FormatDOT, FormatSVG, FormatASCII, FormatTiles}

// =============================================================================
// Options - Generation Configuration
// =============================================================================

// Options contains all configuration for a generation run. It decodes from
// JSON request bodies and from TOML config files.
type Options struct {
	// Bounds of the root room
	X      int `json:"x,omitempty" toml:"x"`
	Y      int `json:"y,omitempty" toml:"y"`
	Width  int `json:"width,omitempty" toml:"width"`
	Height int `json:"height,omitempty" toml:"height"`

	// Split options
	MinRoomSize int    `json:"min_room_size,omitempty" toml:"min_room_size"`
	MaxWorkers  int    `json:"max_workers,omitempty" toml:"max_workers"`
	Seed        uint64 `json:"seed,omitempty" toml:"seed"`

	// Door options
	DoorWidth   int  `json:"door_width,omitempty" toml:"door_width"`
	Clearance   int  `json:"clearance,omitempty" toml:"clearance"`
	StrictDoors bool `json:"strict_doors,omitempty" toml:"strict_doors"` // no fallback door on short shared walls

	// Prune options
	PercentToRemove int  `json:"percent_to_remove,omitempty" toml:"percent_to_remove"`
	PruneTimeoutMS  int  `json:"prune_timeout_ms,omitempty" toml:"prune_timeout_ms"`
	MaxPrunePasses  int  `json:"max_prune_passes,omitempty" toml:"max_prune_passes"`
	StrictPrune     bool `json:"strict_prune,omitempty" toml:"strict_prune"` // fail instead of warn when the budget runs out

	// Cycle reduction options
	Strategy  string `json:"strategy,omitempty" toml:"strategy"`
	KeepLoops int    `json:"keep_loops,omitempty" toml:"keep_loops"` // cycle doors to retain

	Refresh bool `json:"refresh,omitempty" toml:"-"` // bypass the layout cache

	// Runtime options (not serialized)
	Logger *log.Logger                 `json:"-" toml:"-"`
	Hooks  observability.PipelineHooks `json:"-" toml:"-"`

	strategy transform.Strategy
	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// ID identifies this run in logs and API responses.
	ID string

	// Seed is the seed actually used, after a zero seed was resolved.
	Seed uint64

	// Dungeon is the finalized room/door arena.
	Dungeon *dungeon.Dungeon

	// Layout is the serializable snapshot of Dungeon.
	Layout layout.Layout

	// LayoutHash is the content hash of the marshaled layout.
	LayoutHash string

	// Grid is the occupancy map built from Dungeon.
	Grid *grid.Map

	// Warnings collects non-fatal problems, such as a pruning budget
	// running out before its target was reached.
	Warnings []string

	// Stats contains timing and size information.
	Stats Stats

	// exhausted is set when pruning stopped on its budget. Such layouts
	// depend on timing and are not cached.
	exhausted bool

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Rooms        int           `json:"rooms"`
	Doors        int           `json:"doors"`
	Splits       int           `json:"splits"`
	Depth        int           `json:"depth"`
	RoomsPruned  int           `json:"rooms_pruned"`
	DoorsRemoved int           `json:"doors_removed"`
	WallCells    int           `json:"wall_cells"`
	DoorCells    int           `json:"door_cells"`
	FloorCells   int           `json:"floor_cells"`
	SplitTime    time.Duration `json:"split_ns"`
	PruneTime    time.Duration `json:"prune_ns"`
	ReduceTime   time.Duration `json:"reduce_ns"`
	GridTime     time.Duration `json:"grid_ns"`
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool `json:"layout_hit"`
	RenderHit bool `json:"render_hit"`
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()

	checks := []error{
		errs.ValidateRange("width", o.Width, 1, MaxArea),
		errs.ValidateRange("height", o.Height, 1, MaxArea),
		errs.ValidatePositive("min_room_size", o.MinRoomSize),
		errs.ValidatePositive("max_workers", o.MaxWorkers),
		errs.ValidatePositive("door_width", o.DoorWidth),
		errs.ValidateRange("clearance", o.Clearance, 0, o.MinRoomSize),
		errs.ValidateRange("percent_to_remove", o.PercentToRemove, 0, 100),
		errs.ValidateRange("keep_loops", o.KeepLoops, 0, math.MaxInt32),
		errs.ValidateRange("max_prune_passes", o.MaxPrunePasses, 0, math.MaxInt32),
		errs.ValidatePositive("prune_timeout_ms", o.PruneTimeoutMS),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	if err := errs.ValidateRange("area", o.Width*o.Height, 1, MaxArea); err != nil {
		return err
	}

	s, err := transform.ParseStrategy(o.Strategy)
	if err != nil {
		return errs.ValidateChoice(errs.ErrCodeInvalidStrategy, "strategy", transform.Strategy(o.Strategy), transform.Strategies)
	}
	o.strategy = s
	o.Strategy = s.String()

	if o.Seed == 0 {
		o.Seed = rand.Uint64()
	}
	o.validated = true
	return nil
}

// SetDefaults fills zero fields with their defaults. The origin is kept as
// given. A zero seed is left alone; ValidateAndSetDefaults replaces it with
// a random one.
func (o *Options) SetDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.MinRoomSize == 0 {
		o.MinRoomSize = DefaultMinRoomSize
	}
	if o.MaxWorkers == 0 {
		o.MaxWorkers = split.DefaultMaxWorkers
	}
	if o.DoorWidth == 0 {
		o.DoorWidth = DefaultDoorWidth
	}
	if o.Clearance == 0 {
		o.Clearance = split.DefaultClearance
	}
	if o.PruneTimeoutMS == 0 {
		o.PruneTimeoutMS = int(DefaultPruneTimeout / time.Millisecond)
	}
	if o.Strategy == "" {
		o.Strategy = DefaultStrategy.String()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Bounds returns the root room rectangle.
func (o *Options) Bounds() geom.Rect {
	return geom.R(o.X, o.Y, o.Width, o.Height)
}

// ReductionStrategy returns the parsed strategy. Valid after
// ValidateAndSetDefaults.
func (o *Options) ReductionStrategy() transform.Strategy {
	return o.strategy
}

// PruneTimeout returns the pruning wall-clock budget.
func (o *Options) PruneTimeout() time.Duration {
	return time.Duration(o.PruneTimeoutMS) * time.Millisecond
}

// Splitter returns the configured splitter with its door placer.
func (o *Options) Splitter() *split.Splitter {
	return &split.Splitter{
		MinRoomSize: o.MinRoomSize,
		MaxWorkers:  o.MaxWorkers,
		Doors: &split.DoorPlacer{
			Width:     o.DoorWidth,
			Clearance: o.Clearance,
			Relax:     !o.StrictDoors,
		},
	}
}

// LayoutKeyOpts returns cache key options for the generated layout.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		X:               o.X,
		Y:               o.Y,
		Width:           o.Width,
		Height:          o.Height,
		MinRoomSize:     o.MinRoomSize,
		DoorWidth:       o.DoorWidth,
		Clearance:       o.Clearance,
		Relax:           !o.StrictDoors,
		Seed:            o.Seed,
		PercentToRemove: o.PercentToRemove,
		Strategy:        o.Strategy,
		KeepLoops:       o.KeepLoops,
	}
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	return errs.ValidateChoice(errs.ErrCodeInvalidFormat, "format", format, Formats)
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}
