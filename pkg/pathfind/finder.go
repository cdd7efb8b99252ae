package pathfind

import "github.com/Wesbraak3/Dungeon-Generator/pkg/grid"

// Vec3 is a continuous world position.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Finder runs one configured algorithm over a graph.
type Finder struct {
	Graph     Graph
	Algorithm Algorithm
}

// NewFinder returns a finder for g. An empty algorithm selects BFS.
func NewFinder(g Graph, algo Algorithm) *Finder {
	if algo == "" {
		algo = AlgoBFS
	}
	return &Finder{Graph: g, Algorithm: algo}
}

// Find searches between two cells.
func (f *Finder) Find(start, goal grid.Cell) ([]grid.Cell, Trace) {
	switch f.Algorithm {
	case AlgoDijkstra:
		return Dijkstra(f.Graph, start, goal)
	case AlgoAStar:
		return AStar(f.Graph, start, goal)
	default:
		return BFS(f.Graph, start, goal)
	}
}

// ComputePath searches between two world positions. The start snaps to the
// closest cell and the goal to the cell containing it; both are projected
// onto the floor layer.
func (f *Finder) ComputePath(from, to Vec3) ([]grid.Cell, Trace) {
	start := grid.ClosestCell(from.X, from.Y, from.Z)
	goal := grid.WorldToCell(to.X, to.Y, to.Z)
	start.Y, goal.Y = 0, 0
	return f.Find(start, goal)
}
