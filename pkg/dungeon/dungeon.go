package dungeon

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Wesbraak3/Dungeon-Generator/pkg/geom"
)

var (
	// ErrUnknownRoom is returned when a handle does not name a room in the arena.
	ErrUnknownRoom = errors.New("unknown room")

	// ErrUnknownDoor is returned when a handle does not name a door in the arena.
	ErrUnknownDoor = errors.New("unknown door")

	// ErrSelfDoor is returned by [Dungeon.AddDoor] when both endpoints are the
	// same room.
	ErrSelfDoor = errors.New("door endpoints must be distinct rooms")

	// ErrDanglingDoor is returned by [Dungeon.Validate] when a door refers to
	// a room that is not in the arena.
	ErrDanglingDoor = errors.New("door references missing room")

	// ErrDuplicateDoor is returned by [Dungeon.Validate] when two doors join
	// the same pair of rooms.
	ErrDuplicateDoor = errors.New("duplicate door between room pair")

	// ErrDisconnected is returned by [Dungeon.Validate] with the connected
	// option when some room cannot be reached from the root.
	ErrDisconnected = errors.New("dungeon is not connected")
)

// DefaultRoomHeight is the extrusion height assigned to new rooms.
const DefaultRoomHeight = 5

// RoomID is a stable handle for a room. Handles are never reused within one
// arena.
type RoomID int

// DoorID is a stable handle for a door.
type DoorID int

// NoRoom is the zero handle; no room ever has it.
const NoRoom RoomID = 0

// Room is an axis-aligned rectangle in the dungeon. Two rooms with identical
// bounds are still distinct rooms.
type Room struct {
	ID     RoomID
	Bounds geom.Rect
	Height int

	doors []DoorID
}

// Area returns the area of the room's bounds.
func (r Room) Area() int { return r.Bounds.Area() }

// Doors returns the handles of the doors incident to the room, in insertion order.
func (r Room) Doors() []DoorID { return slices.Clone(r.doors) }

// Door joins two rooms. The pair (A, B) has unordered identity.
type Door struct {
	ID     DoorID
	Bounds geom.Rect
	A, B   RoomID
	Height int
	Locked bool
}

// Other returns the endpoint of d that is not r.
func (d Door) Other(r RoomID) RoomID {
	if d.A == r {
		return d.B
	}
	return d.A
}

// Joins reports whether d connects r.
func (d Door) Joins(r RoomID) bool { return d.A == r || d.B == r }

type pair struct{ lo, hi RoomID }

func pairOf(a, b RoomID) pair {
	if a > b {
		a, b = b, a
	}
	return pair{a, b}
}

// Dungeon is the arena that owns every room and door.
//
// The zero value is not usable; call [New].
type Dungeon struct {
	rooms     map[RoomID]*Room
	roomOrder []RoomID
	doors     map[DoorID]*Door
	doorOrder []DoorID
	pairs     map[pair]DoorID
	nextRoom  RoomID
	nextDoor  DoorID
}

// New creates an empty dungeon.
func New() *Dungeon {
	return &Dungeon{
		rooms: make(map[RoomID]*Room),
		doors: make(map[DoorID]*Door),
		pairs: make(map[pair]DoorID),
	}
}

// AddRoom inserts a room with the given bounds and returns its handle.
func (d *Dungeon) AddRoom(bounds geom.Rect) RoomID {
	d.nextRoom++
	id := d.nextRoom
	d.rooms[id] = &Room{ID: id, Bounds: bounds, Height: DefaultRoomHeight}
	d.roomOrder = append(d.roomOrder, id)
	return id
}

// RemoveRoom deletes a room and every door incident to it.
func (d *Dungeon) RemoveRoom(id RoomID) error {
	r, ok := d.rooms[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownRoom, id)
	}
	for _, did := range slices.Clone(r.doors) {
		d.detachDoor(did)
	}
	delete(d.rooms, id)
	d.roomOrder = deleteValue(d.roomOrder, id)
	return nil
}

// ReplaceRoom removes id and inserts two rooms in its place, returning their
// handles in argument order. Doors incident to id are removed with it.
func (d *Dungeon) ReplaceRoom(id RoomID, a, b geom.Rect) (RoomID, RoomID, error) {
	if err := d.RemoveRoom(id); err != nil {
		return NoRoom, NoRoom, err
	}
	return d.AddRoom(a), d.AddRoom(b), nil
}

// Room returns a copy of the room with the given handle.
func (d *Dungeon) Room(id RoomID) (Room, bool) {
	r, ok := d.rooms[id]
	if !ok {
		return Room{}, false
	}
	cp := *r
	cp.doors = slices.Clone(r.doors)
	return cp, true
}

// HasRoom reports whether id names a room in the arena.
func (d *Dungeon) HasRoom(id RoomID) bool {
	_, ok := d.rooms[id]
	return ok
}

// SetRoomHeight changes a room's extrusion height.
func (d *Dungeon) SetRoomHeight(id RoomID, h int) error {
	r, ok := d.rooms[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownRoom, id)
	}
	r.Height = h
	return nil
}

// RoomIDs returns room handles in insertion order.
func (d *Dungeon) RoomIDs() []RoomID { return slices.Clone(d.roomOrder) }

// Rooms returns copies of all rooms in insertion order.
func (d *Dungeon) Rooms() []Room {
	out := make([]Room, 0, len(d.roomOrder))
	for _, id := range d.roomOrder {
		r, _ := d.Room(id)
		out = append(out, r)
	}
	return out
}

// RoomCount returns the number of rooms.
func (d *Dungeon) RoomCount() int { return len(d.roomOrder) }

// Root returns the first surviving room in insertion order, or NoRoom for an
// empty dungeon. Connectivity checks start here.
func (d *Dungeon) Root() RoomID {
	if len(d.roomOrder) == 0 {
		return NoRoom
	}
	return d.roomOrder[0]
}

// AddDoor connects rooms a and b. If the pair is already connected the call
// is a no-op and returns the existing handle with added set to false.
// The door's height is the lower of the two room heights.
func (d *Dungeon) AddDoor(a, b RoomID, bounds geom.Rect) (id DoorID, added bool, err error) {
	ra, ok := d.rooms[a]
	if !ok {
		return 0, false, fmt.Errorf("%w: %d", ErrUnknownRoom, a)
	}
	rb, ok := d.rooms[b]
	if !ok {
		return 0, false, fmt.Errorf("%w: %d", ErrUnknownRoom, b)
	}
	if a == b {
		return 0, false, ErrSelfDoor
	}
	key := pairOf(a, b)
	if existing, ok := d.pairs[key]; ok {
		return existing, false, nil
	}

	d.nextDoor++
	id = d.nextDoor
	d.doors[id] = &Door{ID: id, Bounds: bounds, A: a, B: b, Height: min(ra.Height, rb.Height)}
	d.doorOrder = append(d.doorOrder, id)
	d.pairs[key] = id
	ra.doors = append(ra.doors, id)
	rb.doors = append(rb.doors, id)
	return id, true, nil
}

// RemoveDoor deletes a door and detaches it from both endpoints.
func (d *Dungeon) RemoveDoor(id DoorID) error {
	if _, ok := d.doors[id]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownDoor, id)
	}
	d.detachDoor(id)
	return nil
}

func (d *Dungeon) detachDoor(id DoorID) {
	door := d.doors[id]
	if r, ok := d.rooms[door.A]; ok {
		r.doors = deleteValue(r.doors, id)
	}
	if r, ok := d.rooms[door.B]; ok {
		r.doors = deleteValue(r.doors, id)
	}
	delete(d.pairs, pairOf(door.A, door.B))
	delete(d.doors, id)
	d.doorOrder = deleteValue(d.doorOrder, id)
}

// SetLocked marks a door as locked or unlocked. Locking does not affect
// connectivity.
func (d *Dungeon) SetLocked(id DoorID, locked bool) error {
	door, ok := d.doors[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownDoor, id)
	}
	door.Locked = locked
	return nil
}

// Door returns a copy of the door with the given handle.
func (d *Dungeon) Door(id DoorID) (Door, bool) {
	door, ok := d.doors[id]
	if !ok {
		return Door{}, false
	}
	return *door, true
}

// DoorBetween returns the door joining a and b, if any.
func (d *Dungeon) DoorBetween(a, b RoomID) (DoorID, bool) {
	id, ok := d.pairs[pairOf(a, b)]
	return id, ok
}

// Doors returns copies of all doors in insertion order.
func (d *Dungeon) Doors() []Door {
	out := make([]Door, 0, len(d.doorOrder))
	for _, id := range d.doorOrder {
		out = append(out, *d.doors[id])
	}
	return out
}

// DoorCount returns the number of doors.
func (d *Dungeon) DoorCount() int { return len(d.doorOrder) }

// DoorsOf returns the handles of doors incident to room r in insertion order.
func (d *Dungeon) DoorsOf(r RoomID) []DoorID {
	room, ok := d.rooms[r]
	if !ok {
		return nil
	}
	return slices.Clone(room.doors)
}

// Neighbors returns the rooms reachable from r through one door.
func (d *Dungeon) Neighbors(r RoomID) []RoomID {
	room, ok := d.rooms[r]
	if !ok {
		return nil
	}
	out := make([]RoomID, 0, len(room.doors))
	for _, did := range room.doors {
		out = append(out, d.doors[did].Other(r))
	}
	return out
}

// Clone returns a deep copy. Handles are preserved, so IDs taken from the
// original remain valid on the copy.
func (d *Dungeon) Clone() *Dungeon {
	c := &Dungeon{
		rooms:     make(map[RoomID]*Room, len(d.rooms)),
		roomOrder: slices.Clone(d.roomOrder),
		doors:     make(map[DoorID]*Door, len(d.doors)),
		doorOrder: slices.Clone(d.doorOrder),
		pairs:     make(map[pair]DoorID, len(d.pairs)),
		nextRoom:  d.nextRoom,
		nextDoor:  d.nextDoor,
	}
	for id, r := range d.rooms {
		cp := *r
		cp.doors = slices.Clone(r.doors)
		c.rooms[id] = &cp
	}
	for id, door := range d.doors {
		cp := *door
		c.doors[id] = &cp
	}
	for k, v := range d.pairs {
		c.pairs[k] = v
	}
	return c
}

func deleteValue[T comparable](s []T, v T) []T {
	if i := slices.Index(s, v); i >= 0 {
		return slices.Delete(s, i, i+1)
	}
	return s
}
