// Package build derives a grid occupancy map from a finalized dungeon.
//
// Room perimeters become non-traversable wall cells, door footprints are
// carved out of those walls and re-reserved as traversable doors, and each
// room interior becomes one traversable floor placement. Dungeon (x, y)
// coordinates map to grid cells (x, 0, y).
package build

import (
	"context"
	"fmt"

	"github.com/Wesbraak3/Dungeon-Generator/pkg/dungeon"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/geom"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/grid"
)

// Kind tags what a grid placement represents.
type Kind uint8

const (
	Wall Kind = iota + 1
	Door
	Floor
)

func (k Kind) String() string {
	switch k {
	case Wall:
		return "wall"
	case Door:
		return "door"
	case Floor:
		return "floor"
	}
	return "unknown"
}

// Tile is the payload stored on every placement created by [FromDungeon].
type Tile struct {
	Kind Kind
	Room dungeon.RoomID
	Door dungeon.DoorID
}

// Stats counts what was placed.
type Stats struct {
	WallCells  int
	DoorCells  int
	FloorCells int
}

// Options tunes [FromDungeon].
type Options struct {
	// SkipFloors leaves room interiors empty.
	SkipFloors bool
}

// CellOf maps a dungeon coordinate to its grid cell.
func CellOf(x, y int) grid.Cell { return grid.C(x, 0, y) }

// FromDungeon builds a fresh occupancy map for d.
func FromDungeon(ctx context.Context, d *dungeon.Dungeon, opts Options) (*grid.Map, Stats, error) {
	m := grid.New()
	stats, err := Into(ctx, m, d, opts)
	return m, stats, err
}

// Into populates m from d. An overlap while placing doors or floors means
// the dungeon geometry is inconsistent and is returned as an error. ctx is
// checked once per room and door.
func Into(ctx context.Context, m *grid.Map, d *dungeon.Dungeon, opts Options) (Stats, error) {
	var stats Stats
	one := grid.Size{W: 1, D: 1}

	for _, r := range d.Rooms() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		var err error
		r.Bounds.Cells(func(x, y int) {
			if err != nil || !r.Bounds.OnBorder(x, y) {
				return
			}
			c := CellOf(x, y)
			if !m.CanPlace(c, one) {
				return
			}
			if err = m.Reserve(c, one, Tile{Kind: Wall, Room: r.ID}, false); err == nil {
				stats.WallCells++
			}
		})
		if err != nil {
			return stats, fmt.Errorf("wall of room %d: %w", r.ID, err)
		}
	}

	for _, door := range d.Doors() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		door.Bounds.Cells(func(x, y int) {
			if m.Release(CellOf(x, y)) {
				stats.WallCells--
			}
		})
		size := grid.Size{W: door.Bounds.W, D: door.Bounds.H}
		if err := m.Reserve(CellOf(door.Bounds.X, door.Bounds.Y), size, Tile{Kind: Door, Door: door.ID}, true); err != nil {
			return stats, fmt.Errorf("door %d: %w", door.ID, err)
		}
		stats.DoorCells += door.Bounds.Area()
	}

	if opts.SkipFloors {
		return stats, nil
	}
	for _, r := range d.Rooms() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		inner := geom.R(r.Bounds.X+1, r.Bounds.Y+1, r.Bounds.W-2, r.Bounds.H-2)
		if inner.Empty() {
			continue
		}
		size := grid.Size{W: inner.W, D: inner.H}
		if err := m.Reserve(CellOf(inner.X, inner.Y), size, Tile{Kind: Floor, Room: r.ID}, true); err != nil {
			return stats, fmt.Errorf("floor of room %d: %w", r.ID, err)
		}
		stats.FloorCells += inner.Area()
	}
	return stats, nil
}

// TileAt returns the Tile payload at c, if any.
func TileAt(m *grid.Map, c grid.Cell) (Tile, bool) {
	p, ok := m.Get(c)
	if !ok {
		return Tile{}, false
	}
	t, ok := p.Payload.(Tile)
	return t, ok
}
