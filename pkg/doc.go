// Package pkg provides the libraries behind the dungeongen procedural
// dungeon generator.
//
// # Overview
//
// A dungeon starts as one rectangular room that is split recursively into
// leaf rooms joined by doors. The resulting room/door graph is pruned and
// thinned of loops, then rasterized into a grid that pathfinding runs on.
// The pkg directory is organized into these areas:
//
//  1. [geom] - Integer rectangles and axis helpers
//  2. [dungeon] - The room/door graph, with [dungeon/split] (BSP splitter
//     and door placement) and [dungeon/transform] (pruner and cycle reducer)
//  3. [grid] - The sparse occupancy map, filled by [grid/build]
//  4. [pathfind] - BFS, Dijkstra and A* over a grid
//  5. [layout] - The serializable snapshot of a finished dungeon
//  6. [render] - ASCII maps and Graphviz diagrams
//  7. [pipeline] - Orchestration (split → prune → reduce → grid) with caching
//  8. [cache], [errors], [observability], [httputil], [buildinfo] - Infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	pipeline.Options
//	       ↓
//	  [dungeon/split] (rooms + doors)
//	       ↓
//	  [dungeon/transform] (prune small rooms, cut loops)
//	       ↓
//	  [grid/build] (occupancy map)
//	       ↓
//	  [layout] / [render] / [pathfind]
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	defer runner.Close()
//
//	res, err := runner.Execute(ctx, pipeline.Options{Width: 120, Height: 80, Seed: 42})
//	if err != nil {
//	    return err
//	}
//	artifacts, err := runner.Render(ctx, res, pipeline.RenderOptions{
//	    Formats: []string{pipeline.FormatASCII, pipeline.FormatDOT},
//	})
//
// The same seed and options always produce the same layout, whatever the
// worker count.
package pkg
