// Package pathfind computes shortest paths over a grid occupancy map.
//
// Three algorithms share one neighbour contract (eight planar neighbours)
// and one traversability rule (only traversable cells may be entered):
//
//   - [BFS] minimises hop count.
//   - [Dijkstra] minimises Euclidean step cost.
//   - [AStar] minimises the same cost, guided by the Euclidean distance to
//     the goal.
//
// Every search returns the path from start to goal inclusive, or nil when
// the goal is unreachable. The cells the search discovered are returned in
// a [Trace] for diagnostics; they are not part of the result.
//
// Searches only read the map, so any number may run concurrently against a
// map that is no longer being written.
package pathfind
