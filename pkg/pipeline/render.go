package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Wesbraak3/Dungeon-Generator/pkg/cache"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/grid/build"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/layout"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/observability"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/render/ascii"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/render/nodelink"
)

// RenderOptions selects artifact formats and their presentation.
type RenderOptions struct {
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // fuller labels in dot/svg
	Spatial  bool     `json:"spatial,omitempty"`  // pin graph nodes at room centers

	// Path is overlaid on ascii output. Path artifacts are not cached.
	Path *PathResult `json:"-"`
}

// Render generates artifacts for res, reusing cached artifacts when every
// requested format is available.
func (r *Runner) Render(ctx context.Context, res *Result, opts RenderOptions) (map[string][]byte, error) {
	if len(opts.Formats) == 0 {
		opts.Formats = []string{FormatJSON}
	}
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}
	cacheable := opts.Path == nil && res.LayoutHash != ""

	if cacheable {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, f := range opts.Formats {
			if f == FormatJSON {
				// The snapshot carries the run ID, so it is always fresh.
				data, err := layout.Marshal(res.Layout)
				if err != nil {
					return nil, err
				}
				artifacts[f] = data
				continue
			}
			data, hit, err := r.Cache.Get(ctx, r.artifactKey(res, f, opts))
			if err != nil || !hit {
				break
			}
			artifacts[f] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			res.CacheInfo.RenderHit = true
			return artifacts, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, f := range opts.Formats {
		data, err := RenderFormat(ctx, res, f, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", f, err)
		}
		artifacts[f] = data
		if cacheable && f != FormatJSON {
			if err := r.Cache.Set(ctx, r.artifactKey(res, f, opts), data, cache.TTLArtifact); err == nil {
				observability.Cache().OnCacheSet(ctx, "artifact", len(data))
			}
		}
	}
	return artifacts, nil
}

func (r *Runner) artifactKey(res *Result, format string, opts RenderOptions) string {
	return r.Keyer.ArtifactKey(res.LayoutHash, cache.ArtifactKeyOpts{
		Format:   format,
		Detailed: opts.Detailed,
		Spatial:  opts.Spatial,
	})
}

// RenderFormat produces a single artifact without consulting the cache.
func RenderFormat(ctx context.Context, res *Result, format string, opts RenderOptions) ([]byte, error) {
	switch format {
	case FormatJSON:
		return layout.Marshal(res.Layout)
	case FormatDOT:
		return []byte(nodelink.ToDOT(res.Dungeon, dotOptions(opts))), nil
	case FormatSVG:
		return nodelink.RenderSVG(ctx, nodelink.ToDOT(res.Dungeon, dotOptions(opts)))
	case FormatASCII:
		return []byte(ascii.Render(res.Grid, res.ASCIIOptions(opts.Path)) + "\n"), nil
	case FormatTiles:
		return json.MarshalIndent(res.Tiles(), "", "  ")
	}
	return nil, ValidateFormat(format)
}

func dotOptions(opts RenderOptions) nodelink.Options {
	return nodelink.Options{Detailed: opts.Detailed, Spatial: opts.Spatial}
}

// ASCIIOptions returns the text rendering options for res, with the path
// overlaid when p is not nil.
func (res *Result) ASCIIOptions(p *PathResult) ascii.Options {
	ao := ascii.Options{Area: res.Layout.Area(), Locked: res.lockedDoor}
	if p != nil {
		ao.Path = p.Path
		ao.Discovered = p.Discovered
	}
	return ao
}

// TilePiece is one marching-squares sample of the wall map. Case bits mark
// the solid corners of the 2x2 window anchored at (X, Z).
type TilePiece struct {
	X    int        `json:"x"`
	Z    int        `json:"z"`
	Case build.Case `json:"case"`
}

// Tiles samples the wall map of res for a mesh builder.
func (res *Result) Tiles() []TilePiece {
	pieces := build.March(res.Grid, res.Layout.Area())
	out := make([]TilePiece, len(pieces))
	for i, p := range pieces {
		out[i] = TilePiece{X: p.Cell.X, Z: p.Cell.Z, Case: p.Case}
	}
	return out
}

func (res *Result) lockedDoor(t build.Tile) bool {
	door, ok := res.Dungeon.Door(t.Door)
	return ok && door.Locked
}
