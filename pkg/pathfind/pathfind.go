package pathfind

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/zyedidia/generic/heap"
	"github.com/zyedidia/generic/mapset"
	"github.com/zyedidia/generic/queue"

	"github.com/Wesbraak3/Dungeon-Generator/pkg/grid"
)

// Graph is the read-only view of a map that searches need. *grid.Map
// implements it.
type Graph interface {
	Neighbors(grid.Cell) []grid.Cell
	IsTraversable(grid.Cell) bool
}

// Algorithm names a search strategy.
type Algorithm string

const (
	AlgoBFS      Algorithm = "bfs"
	AlgoDijkstra Algorithm = "dijkstra"
	AlgoAStar    Algorithm = "astar"
)

// Algorithms lists the supported algorithms.
var Algorithms = []Algorithm{AlgoBFS, AlgoDijkstra, AlgoAStar}

// ParseAlgorithm converts a case-insensitive name into an Algorithm.
// "a*" and "a-star" are accepted for AStar.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "bfs":
		return AlgoBFS, nil
	case "dijkstra":
		return AlgoDijkstra, nil
	case "astar", "a*", "a-star":
		return AlgoAStar, nil
	}
	return "", fmt.Errorf("unknown path algorithm %q", name)
}

// Trace records the cells a search discovered, in discovery order.
type Trace struct {
	Discovered []grid.Cell
}

type tracker struct {
	seen  mapset.Set[grid.Cell]
	trace Trace
}

func newTracker() *tracker { return &tracker{seen: mapset.New[grid.Cell]()} }

func (t *tracker) mark(c grid.Cell) {
	t.seen.Put(c)
	t.trace.Discovered = append(t.trace.Discovered, c)
}

// Cost is the price of stepping from v onto w: their Euclidean distance, or
// +Inf when w is not traversable.
func Cost(g Graph, v, w grid.Cell) float64 {
	if !g.IsTraversable(w) {
		return math.Inf(1)
	}
	return v.Distance(w)
}

// Heuristic estimates the remaining cost from c to goal.
func Heuristic(c, goal grid.Cell) float64 { return c.Distance(goal) }

// PathCost sums the Euclidean step lengths along path.
func PathCost(path []grid.Cell) float64 {
	var total float64
	for i := 1; i < len(path); i++ {
		total += path[i-1].Distance(path[i])
	}
	return total
}

// BFS finds a path with the fewest steps. Cells are marked discovered when
// they are enqueued.
func BFS(g Graph, start, goal grid.Cell) ([]grid.Cell, Trace) {
	t := newTracker()
	parents := make(map[grid.Cell]grid.Cell)
	q := queue.New[grid.Cell]()
	q.Enqueue(start)
	t.mark(start)

	for !q.Empty() {
		v := q.Dequeue()
		if v == goal {
			return reconstruct(parents, start, goal), t.trace
		}
		for _, w := range g.Neighbors(v) {
			if t.seen.Has(w) || !g.IsTraversable(w) {
				continue
			}
			t.mark(w)
			parents[w] = v
			q.Enqueue(w)
		}
	}
	return nil, t.trace
}

// Dijkstra finds a minimum-cost path. Cells are marked discovered when
// they are dequeued.
func Dijkstra(g Graph, start, goal grid.Cell) ([]grid.Cell, Trace) {
	return best(g, start, goal, func(grid.Cell) float64 { return 0 })
}

// AStar finds a minimum-cost path using the Euclidean heuristic.
func AStar(g Graph, start, goal grid.Cell) ([]grid.Cell, Trace) {
	return best(g, start, goal, func(c grid.Cell) float64 { return Heuristic(c, goal) })
}

type entry struct {
	cell grid.Cell
	prio float64
	seq  int
}

func best(g Graph, start, goal grid.Cell, h func(grid.Cell) float64) ([]grid.Cell, Trace) {
	t := newTracker()
	parents := make(map[grid.Cell]grid.Cell)
	costs := map[grid.Cell]float64{start: 0}
	pq := heap.New[entry](func(a, b entry) bool {
		if a.prio != b.prio {
			return a.prio < b.prio
		}
		return a.seq < b.seq
	})
	seq := 0
	pq.Push(entry{cell: start})

	for pq.Size() > 0 {
		e, _ := pq.Pop()
		v := e.cell
		if t.seen.Has(v) {
			continue
		}
		t.mark(v)
		if v == goal {
			return reconstruct(parents, start, goal), t.trace
		}
		for _, w := range g.Neighbors(v) {
			step := Cost(g, v, w)
			if math.IsInf(step, 1) || t.seen.Has(w) {
				continue
			}
			next := costs[v] + step
			if old, ok := costs[w]; ok && next >= old {
				continue
			}
			costs[w] = next
			parents[w] = v
			seq++
			pq.Push(entry{cell: w, prio: next + h(w), seq: seq})
		}
	}
	return nil, t.trace
}

func reconstruct(parents map[grid.Cell]grid.Cell, start, goal grid.Cell) []grid.Cell {
	path := []grid.Cell{goal}
	for cur := goal; cur != start; {
		cur = parents[cur]
		path = append(path, cur)
	}
	slices.Reverse(path)
	return path
}
