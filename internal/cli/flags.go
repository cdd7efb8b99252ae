package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/Wesbraak3/Dungeon-Generator/pkg/dungeon/transform"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/pathfind"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/pipeline"
)

// genFlags binds generation options to command flags. A --config file is
// decoded beneath the flags: explicitly set flags win over the file, and
// the file wins over flag defaults.
type genFlags struct {
	opts     pipeline.Options
	config   string
	noCache  bool
	cacheDSN string
}

func (f *genFlags) register(fs *pflag.FlagSet) {
	o := &f.opts
	fs.IntVar(&o.X, "x", pipeline.DefaultX, "left edge of the dungeon")
	fs.IntVar(&o.Y, "y", pipeline.DefaultY, "top edge of the dungeon")
	fs.IntVarP(&o.Width, "width", "W", pipeline.DefaultWidth, "dungeon width")
	fs.IntVarP(&o.Height, "height", "H", pipeline.DefaultHeight, "dungeon height")
	fs.IntVarP(&o.MinRoomSize, "min-room", "m", pipeline.DefaultMinRoomSize, "minimum room side length")
	fs.IntVar(&o.MaxWorkers, "workers", 0, "concurrent split workers (0 = GOMAXPROCS)")
	fs.Uint64VarP(&o.Seed, "seed", "s", pipeline.DefaultSeed, "random seed (0 picks one)")
	fs.IntVar(&o.DoorWidth, "door-width", pipeline.DefaultDoorWidth, "door opening width")
	fs.IntVar(&o.Clearance, "clearance", 0, "minimum distance between a door and a wall end (0 = default)")
	fs.BoolVar(&o.StrictDoors, "strict-doors", false, "never place a door on a wall shorter than the clearance allows")
	fs.IntVarP(&o.PercentToRemove, "prune", "p", 0, "percentage of rooms to remove")
	fs.IntVar(&o.PruneTimeoutMS, "prune-timeout", 0, "pruning time budget in milliseconds (0 = default)")
	fs.IntVar(&o.MaxPrunePasses, "prune-passes", 0, "maximum pruning passes (0 = one per room)")
	fs.BoolVar(&o.StrictPrune, "strict-prune", false, "fail when pruning runs out of budget")
	fs.StringVar(&o.Strategy, "strategy", string(pipeline.DefaultStrategy),
		"loop reduction strategy: "+joinNames(transform.Strategies))
	fs.IntVar(&o.KeepLoops, "keep-loops", 0, "loop doors to keep after reduction")
	fs.BoolVar(&o.Refresh, "refresh", false, "regenerate even when the layout is cached")

	fs.StringVarP(&f.config, "config", "c", "", "TOML config file")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable the layout cache")
	fs.StringVar(&f.cacheDSN, "cache", "", "cache DSN: redis://, mongodb://, file:// or a directory")
}

// resolve returns the effective configuration for a command invocation.
func (f *genFlags) resolve(fs *pflag.FlagSet) (pipeline.Config, error) {
	cfg := pipeline.Config{Generate: f.opts}
	if f.config != "" {
		changed := map[string]string{}
		fs.Visit(func(fl *pflag.Flag) { changed[fl.Name] = fl.Value.String() })

		if err := pipeline.LoadConfigInto(f.config, &cfg); err != nil {
			return cfg, err
		}
		f.opts = cfg.Generate
		for name, v := range changed {
			if err := fs.Set(name, v); err != nil {
				return cfg, fmt.Errorf("reapply --%s: %w", name, err)
			}
		}
		cfg.Generate = f.opts
	}
	if f.cacheDSN != "" {
		cfg.Cache.DSN = f.cacheDSN
	}
	if f.noCache {
		cfg.Cache.Disabled = true
	}
	return cfg, nil
}

func joinNames[T ~string](names []T) string {
	s := make([]string, len(names))
	for i, n := range names {
		s[i] = string(n)
	}
	return strings.Join(s, ", ")
}

// =============================================================================
// Point Flags
// =============================================================================

// pointValue is a pflag.Value holding a world position written as "x,z" or
// "x,y,z".
type pointValue struct {
	v   *pathfind.Vec3
	set bool
}

func newPointValue(v *pathfind.Vec3) *pointValue { return &pointValue{v: v} }

func (p *pointValue) String() string {
	if p.v == nil || !p.set {
		return ""
	}
	if p.v.Y != 0 {
		return fmt.Sprintf("%g,%g,%g", p.v.X, p.v.Y, p.v.Z)
	}
	return fmt.Sprintf("%g,%g", p.v.X, p.v.Z)
}

func (p *pointValue) Set(s string) error {
	v, err := parsePoint(s)
	if err != nil {
		return err
	}
	*p.v, p.set = v, true
	return nil
}

func (p *pointValue) Type() string { return "x,z" }

func parsePoint(s string) (pathfind.Vec3, error) {
	parts := strings.Split(s, ",")
	nums := make([]float64, len(parts))
	for i, part := range parts {
		n, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return pathfind.Vec3{}, fmt.Errorf("invalid coordinate %q in %q", part, s)
		}
		nums[i] = n
	}
	switch len(nums) {
	case 2:
		return pathfind.Vec3{X: nums[0], Z: nums[1]}, nil
	case 3:
		return pathfind.Vec3{X: nums[0], Y: nums[1], Z: nums[2]}, nil
	}
	return pathfind.Vec3{}, fmt.Errorf("point %q must be x,z or x,y,z", s)
}
