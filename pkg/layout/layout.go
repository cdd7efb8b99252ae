package layout

import (
	"fmt"

	"github.com/Wesbraak3/Dungeon-Generator/pkg/dungeon"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/geom"
)

// Layout is a finalized dungeon with the options that produced it.
type Layout struct {
	Meta
	Rooms []Room `json:"rooms"`
	Doors []Door `json:"doors"`
}

// Meta describes how a layout was generated.
type Meta struct {
	ID       string    `json:"id,omitempty"`
	Seed     uint64    `json:"seed"`
	Bounds   geom.Rect `json:"bounds"`
	Strategy string    `json:"strategy,omitempty"`
}

// Room is one room of a layout.
type Room struct {
	ID     int       `json:"id"`
	Bounds geom.Rect `json:"bounds"`
	Height int       `json:"height,omitempty"`
	Doors  []int     `json:"doors,omitempty"`
}

// Door is one door of a layout.
type Door struct {
	ID     int       `json:"id"`
	Bounds geom.Rect `json:"bounds"`
	A      int       `json:"a"`
	B      int       `json:"b"`
	Height int       `json:"height,omitempty"`
	Locked bool      `json:"locked,omitempty"`
}

// FromDungeon snapshots d.
func FromDungeon(d *dungeon.Dungeon, meta Meta) Layout {
	l := Layout{
		Meta:  meta,
		Rooms: make([]Room, 0, d.RoomCount()),
		Doors: make([]Door, 0, d.DoorCount()),
	}
	for _, r := range d.Rooms() {
		room := Room{ID: int(r.ID), Bounds: r.Bounds, Height: r.Height}
		for _, id := range r.Doors() {
			room.Doors = append(room.Doors, int(id))
		}
		l.Rooms = append(l.Rooms, room)
	}
	for _, door := range d.Doors() {
		l.Doors = append(l.Doors, Door{
			ID:     int(door.ID),
			Bounds: door.Bounds,
			A:      int(door.A),
			B:      int(door.B),
			Height: door.Height,
			Locked: door.Locked,
		})
	}
	return l
}

// Dungeon rebuilds an arena from the layout. Handles in the new arena are
// assigned afresh; the returned map translates layout room IDs to them.
func (l Layout) Dungeon() (*dungeon.Dungeon, map[int]dungeon.RoomID, error) {
	d := dungeon.New()
	ids := make(map[int]dungeon.RoomID, len(l.Rooms))
	for _, r := range l.Rooms {
		if _, dup := ids[r.ID]; dup {
			return nil, nil, fmt.Errorf("duplicate room id %d", r.ID)
		}
		id := d.AddRoom(r.Bounds)
		if r.Height > 0 {
			_ = d.SetRoomHeight(id, r.Height)
		}
		ids[r.ID] = id
	}
	for _, door := range l.Doors {
		a, okA := ids[door.A]
		b, okB := ids[door.B]
		if !okA || !okB {
			return nil, nil, fmt.Errorf("door %d: %w", door.ID, dungeon.ErrDanglingDoor)
		}
		id, _, err := d.AddDoor(a, b, door.Bounds)
		if err != nil {
			return nil, nil, fmt.Errorf("door %d: %w", door.ID, err)
		}
		if door.Locked {
			_ = d.SetLocked(id, true)
		}
	}
	return d, ids, nil
}

// Area returns the bounding rectangle of all rooms. It falls back to the
// generation bounds for an empty layout.
func (l Layout) Area() geom.Rect {
	if len(l.Rooms) == 0 {
		return l.Bounds
	}
	r := l.Rooms[0].Bounds
	x0, y0, x1, y1 := r.X, r.Y, r.XMax(), r.YMax()
	for _, room := range l.Rooms[1:] {
		b := room.Bounds
		x0, y0 = min(x0, b.X), min(y0, b.Y)
		x1, y1 = max(x1, b.XMax()), max(y1, b.YMax())
	}
	return geom.R(x0, y0, x1-x0, y1-y0)
}
