// Package render groups the output formats for generated dungeons.
//
// # ASCII Maps
//
// The [ascii] subpackage draws a grid occupancy map as text: walls, doors,
// floor and unused space each get a glyph, and a path overlay can mark the
// start, goal, route and the cells a search discovered.
//
//	text := ascii.Render(res.Grid, res.ASCIIOptions(nil))
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage renders the room/door graph as a Graphviz
// diagram. Rooms are boxes and doors are edges; spatial mode pins each room
// at its center so the diagram mirrors the floor plan.
//
//	dot := nodelink.ToDOT(d, nodelink.Options{Spatial: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
package render
