// Package grid provides a sparse occupancy map from integer cells to
// multi-cell placements.
//
// A placement covers a rectangular footprint on the XZ plane at a fixed Y.
// Each cell belongs to at most one placement; reserving a footprint that
// overlaps an existing placement fails without touching the map. Releasing
// any cell of a placement frees the whole footprint.
//
// A [Map] may be read from many goroutines at once. Writes take an exclusive
// lock; callers populate the map before handing it to path queries.
package grid

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

var (
	// ErrOccupied is returned when a footprint overlaps an existing placement.
	ErrOccupied = errors.New("cell already occupied")

	// ErrEmptyFootprint is returned for footprints with a non-positive side.
	ErrEmptyFootprint = errors.New("footprint must cover at least one cell")
)

// Cell is an integer grid coordinate. Y is the vertical layer; the dungeon
// floor lives at Y = 0.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// C is shorthand for constructing a Cell.
func C(x, y, z int) Cell { return Cell{X: x, Y: y, Z: z} }

// Add returns c offset by o.
func (c Cell) Add(o Cell) Cell { return Cell{c.X + o.X, c.Y + o.Y, c.Z + o.Z} }

// Distance returns the Euclidean distance between two cells.
func (c Cell) Distance(o Cell) float64 {
	dx, dy, dz := float64(c.X-o.X), float64(c.Y-o.Y), float64(c.Z-o.Z)
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func (c Cell) String() string { return fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Z) }

// Size is a footprint extent: W cells along X and D cells along Z.
type Size struct {
	W int `json:"w"`
	D int `json:"d"`
}

// Placement is one object on the map.
type Placement struct {
	Cells       []Cell
	Traversable bool
	Payload     any
}

// Map is the occupancy index. The zero value is not usable; call [New].
type Map struct {
	mu    sync.RWMutex
	cells map[Cell]*Placement
}

// New returns an empty map.
func New() *Map {
	return &Map{cells: make(map[Cell]*Placement)}
}

// Footprint lists the cells covered by a placement of the given size at origin.
func Footprint(origin Cell, size Size) ([]Cell, error) {
	if size.W <= 0 || size.D <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyFootprint, size.W, size.D)
	}
	out := make([]Cell, 0, size.W*size.D)
	for x := range size.W {
		for z := range size.D {
			out = append(out, Cell{origin.X + x, origin.Y, origin.Z + z})
		}
	}
	return out, nil
}

// Reserve places an object covering size cells at origin. It fails with
// ErrOccupied, leaving the map unchanged, if any cell is taken.
func (m *Map) Reserve(origin Cell, size Size, payload any, traversable bool) error {
	cells, err := Footprint(origin, size)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reserve(cells, payload, traversable)
}

func (m *Map) reserve(cells []Cell, payload any, traversable bool) error {
	for _, c := range cells {
		if _, taken := m.cells[c]; taken {
			return fmt.Errorf("%w: %v", ErrOccupied, c)
		}
	}
	p := &Placement{Cells: cells, Traversable: traversable, Payload: payload}
	for _, c := range cells {
		m.cells[c] = p
	}
	return nil
}

// CanPlace reports whether a footprint of size at origin is entirely free.
func (m *Map) CanPlace(origin Cell, size Size) bool {
	cells, err := Footprint(origin, size)
	if err != nil {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range cells {
		if _, taken := m.cells[c]; taken {
			return false
		}
	}
	return true
}

// Get returns a copy of the placement covering c.
func (m *Map) Get(c Cell) (Placement, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.cells[c]
	if !ok {
		return Placement{}, false
	}
	cp := *p
	cp.Cells = append([]Cell(nil), p.Cells...)
	return cp, true
}

// Release frees every cell of the placement that owns c. It reports whether
// anything was released.
func (m *Map) Release(c Cell) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.release(c) != nil
}

func (m *Map) release(c Cell) *Placement {
	p, ok := m.cells[c]
	if !ok {
		return nil
	}
	for _, pc := range p.Cells {
		delete(m.cells, pc)
	}
	return p
}

// Replace releases the placement at origin, if any, and reserves the new
// footprint. If the new footprint collides with another placement the
// previous occupant is restored and ErrOccupied is returned.
func (m *Map) Replace(origin Cell, size Size, payload any, traversable bool) error {
	cells, err := Footprint(origin, size)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	old := m.release(origin)
	if err := m.reserve(cells, payload, traversable); err != nil {
		if old != nil {
			for _, c := range old.Cells {
				m.cells[c] = old
			}
		}
		return err
	}
	return nil
}

// IsTraversable reports whether c is occupied by a traversable placement.
// Empty cells are not traversable.
func (m *Map) IsTraversable(c Cell) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.cells[c]
	return ok && p.Traversable
}

// Len returns the number of occupied cells.
func (m *Map) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cells)
}

// Each calls fn for every occupied cell. Iteration order is unspecified.
// fn must not modify the map.
func (m *Map) Each(fn func(Cell, Placement)) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for c, p := range m.cells {
		fn(c, *p)
	}
}

// Bounds returns the inclusive min and max cells of the occupied area.
func (m *Map) Bounds() (lo, hi Cell, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for c := range m.cells {
		if !ok {
			lo, hi, ok = c, c, true
			continue
		}
		lo = Cell{min(lo.X, c.X), min(lo.Y, c.Y), min(lo.Z, c.Z)}
		hi = Cell{max(hi.X, c.X), max(hi.Y, c.Y), max(hi.Z, c.Z)}
	}
	return lo, hi, ok
}
