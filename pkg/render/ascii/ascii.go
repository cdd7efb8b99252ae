// Package ascii draws an occupancy grid as text.
//
// Each map cell becomes one character. Walls, doors and floors come from
// the [build.Tile] payloads; a path and the cells a search discovered can
// be overlaid on top.
//
//	fmt.Println(ascii.Render(m, ascii.Options{Path: path}))
package ascii

import (
	"strings"

	"github.com/zyedidia/generic/mapset"

	"github.com/Wesbraak3/Dungeon-Generator/pkg/geom"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/grid"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/grid/build"
)

// Glyphs used for each cell class.
const (
	Empty      = ' '
	Wall       = '#'
	Door       = '+'
	LockedDoor = 'X'
	Floor      = '.'
	Blocked    = '?' // occupied by a payload that is not a build.Tile
	Step       = '*'
	Seen       = ':'
	Start      = 'S'
	Goal       = 'G'
)

// Options configures rendering.
type Options struct {
	// Area restricts output to a rectangle of the XZ plane. An empty Area
	// renders the bounding box of all occupied cells.
	Area geom.Rect

	// Path is drawn over the map; its ends are marked Start and Goal.
	Path []grid.Cell

	// Discovered cells are drawn beneath Path.
	Discovered []grid.Cell

	// Locked reports whether a door cell belongs to a locked door.
	Locked func(build.Tile) bool
}

// Render returns the map as newline-separated rows.
func Render(m *grid.Map, opts Options) string {
	return strings.Join(Rows(m, opts), "\n")
}

// Rows returns one string per map row, top row first.
func Rows(m *grid.Map, opts Options) []string {
	area := opts.Area
	if area.Empty() {
		lo, hi, ok := m.Bounds()
		if !ok {
			return nil
		}
		area = geom.R(lo.X, lo.Z, hi.X-lo.X+1, hi.Z-lo.Z+1)
	}

	path := mapset.New[grid.Cell]()
	for _, c := range opts.Path {
		path.Put(flat(c))
	}
	seen := mapset.New[grid.Cell]()
	for _, c := range opts.Discovered {
		seen.Put(flat(c))
	}
	var start, goal grid.Cell
	if n := len(opts.Path); n > 0 {
		start, goal = flat(opts.Path[0]), flat(opts.Path[n-1])
	}

	rows := make([]string, 0, area.H)
	line := make([]rune, area.W)
	for z := area.Y; z < area.YMax(); z++ {
		for i := range line {
			c := build.CellOf(area.X+i, z)
			switch {
			case len(opts.Path) > 0 && c == start:
				line[i] = Start
			case len(opts.Path) > 0 && c == goal:
				line[i] = Goal
			case path.Has(c):
				line[i] = Step
			case seen.Has(c):
				line[i] = Seen
			default:
				line[i] = glyph(m, c, opts.Locked)
			}
		}
		rows = append(rows, strings.TrimRight(string(line), string(Empty)))
	}
	return rows
}

func glyph(m *grid.Map, c grid.Cell, locked func(build.Tile) bool) rune {
	p, ok := m.Get(c)
	if !ok {
		return Empty
	}
	t, ok := p.Payload.(build.Tile)
	if !ok {
		return Blocked
	}
	switch t.Kind {
	case build.Wall:
		return Wall
	case build.Door:
		if locked != nil && locked(t) {
			return LockedDoor
		}
		return Door
	case build.Floor:
		return Floor
	}
	return Blocked
}

func flat(c grid.Cell) grid.Cell {
	c.Y = 0
	return c
}
