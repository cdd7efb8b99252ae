package grid

import "math"

// Directions are the eight planar neighbour offsets: four cardinal
// followed by four diagonal.
var Directions = [8]Cell{
	{1, 0, 0}, {0, 0, 1}, {-1, 0, 0}, {0, 0, -1},
	{1, 0, 1}, {1, 0, -1}, {-1, 0, 1}, {-1, 0, -1},
}

// Neighbors returns the eight cells adjacent to c on its layer, whether or
// not they are occupied.
func Neighbors(c Cell) []Cell {
	out := make([]Cell, len(Directions))
	for i, d := range Directions {
		out[i] = c.Add(d)
	}
	return out
}

// Neighbors returns the cells adjacent to c on the map's plane.
func (m *Map) Neighbors(c Cell) []Cell { return Neighbors(c) }

// WorldToCell maps a world position to the cell containing it.
func WorldToCell(x, y, z float64) Cell {
	return Cell{int(math.Floor(x)), int(math.Floor(y)), int(math.Floor(z))}
}

// ClosestCell maps a world position to the nearest cell corner.
func ClosestCell(x, y, z float64) Cell {
	return Cell{int(math.Round(x)), int(math.Round(y)), int(math.Round(z))}
}
