package build

import (
	"github.com/Wesbraak3/Dungeon-Generator/pkg/geom"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/grid"
)

// Case is a marching-squares configuration, 0..15. Bits mark which corners
// of a 2x2 window are solid: 8 top-left, 4 top-right, 2 bottom-left,
// 1 bottom-right, where "top" is the larger z.
type Case uint8

// Piece is one marching-squares sample anchored at its bottom-left cell.
type Piece struct {
	Cell grid.Cell
	Case Case
}

// Solid reports whether c holds a wall: occupied and not traversable.
func Solid(m *grid.Map, c grid.Cell) bool {
	p, ok := m.Get(c)
	return ok && !p.Traversable
}

// CaseAt computes the configuration of the window whose bottom-left cell is (x, z).
func CaseAt(m *grid.Map, x, z int) Case {
	var idx Case
	if Solid(m, grid.C(x, 0, z+1)) {
		idx |= 8
	}
	if Solid(m, grid.C(x+1, 0, z+1)) {
		idx |= 4
	}
	if Solid(m, grid.C(x, 0, z)) {
		idx |= 2
	}
	if Solid(m, grid.C(x+1, 0, z)) {
		idx |= 1
	}
	return idx
}

// March samples every window over area, extended by one cell on the low
// side so the outer walls get edge pieces. Empty windows (case 0) are
// omitted.
func March(m *grid.Map, area geom.Rect) []Piece {
	var out []Piece
	for z := area.Y - 1; z < area.YMax(); z++ {
		for x := area.X - 1; x < area.XMax(); x++ {
			if c := CaseAt(m, x, z); c != 0 {
				out = append(out, Piece{Cell: grid.C(x, 0, z), Case: c})
			}
		}
	}
	return out
}
