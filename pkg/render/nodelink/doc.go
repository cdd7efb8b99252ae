// Package nodelink renders the room/door graph of a dungeon as a node-link
// diagram.
//
// # Overview
//
// Rooms become boxes and doors become undirected edges between them. The
// diagram is useful for checking the effect of cycle reduction and pruning
// without reading the map itself.
//
// # Usage
//
// Convert a dungeon to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(d, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
//   - Detailed: labels include room bounds and area, and door rectangles
//   - Spatial: nodes are pinned at room centers and laid out with neato
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
