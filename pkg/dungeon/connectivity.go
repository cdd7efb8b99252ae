package dungeon

import (
	"fmt"
	"slices"

	"github.com/zyedidia/generic/mapset"
	"github.com/zyedidia/generic/queue"
)

// Reachable returns the set of rooms reachable from root by walking doors,
// treating excluded as if it had been removed. Pass [NoRoom] to exclude
// nothing. A root equal to excluded yields an empty set.
func (d *Dungeon) Reachable(root, excluded RoomID) mapset.Set[RoomID] {
	seen := mapset.New[RoomID]()
	if !d.HasRoom(root) || root == excluded {
		return seen
	}

	q := queue.New[RoomID]()
	seen.Put(root)
	q.Enqueue(root)
	for !q.Empty() {
		cur := q.Dequeue()
		for _, next := range d.Neighbors(cur) {
			if next == excluded || seen.Has(next) {
				continue
			}
			seen.Put(next)
			q.Enqueue(next)
		}
	}
	return seen
}

// ConnectedWithout reports whether every room other than excluded stays
// reachable from a single root once excluded is taken away. The root is the
// first room in insertion order that is not excluded.
func (d *Dungeon) ConnectedWithout(excluded RoomID) bool {
	root := NoRoom
	for _, id := range d.roomOrder {
		if id != excluded {
			root = id
			break
		}
	}
	if root == NoRoom {
		return true
	}
	want := d.RoomCount()
	if d.HasRoom(excluded) {
		want--
	}
	return d.Reachable(root, excluded).Size() == want
}

// IsConnected reports whether all rooms form one component.
func (d *Dungeon) IsConnected() bool { return d.ConnectedWithout(NoRoom) }

// ValidateOption tunes [Dungeon.Validate].
type ValidateOption func(*validateConfig)

type validateConfig struct {
	connected bool
}

// RequireConnected makes Validate also check that the dungeon is a single
// connected component.
func RequireConnected() ValidateOption {
	return func(c *validateConfig) { c.connected = true }
}

// Validate checks the arena's structural invariants: every door's endpoints
// exist and list the door, every pair of rooms has at most one door, and
// (optionally) the dungeon is connected.
func (d *Dungeon) Validate(opts ...ValidateOption) error {
	var cfg validateConfig
	for _, o := range opts {
		o(&cfg)
	}

	seen := make(map[pair]DoorID, len(d.doors))
	for _, id := range d.doorOrder {
		door := d.doors[id]
		for _, end := range []RoomID{door.A, door.B} {
			r, ok := d.rooms[end]
			if !ok {
				return fmt.Errorf("%w: door %d -> room %d", ErrDanglingDoor, id, end)
			}
			if !slices.Contains(r.doors, id) {
				return fmt.Errorf("%w: room %d does not list door %d", ErrDanglingDoor, end, id)
			}
		}
		key := pairOf(door.A, door.B)
		if other, dup := seen[key]; dup {
			return fmt.Errorf("%w: doors %d and %d", ErrDuplicateDoor, other, id)
		}
		seen[key] = id
	}
	for _, rid := range d.roomOrder {
		for _, did := range d.rooms[rid].doors {
			door, ok := d.doors[did]
			if !ok || !door.Joins(rid) {
				return fmt.Errorf("%w: room %d lists door %d", ErrUnknownDoor, rid, did)
			}
		}
	}

	if cfg.connected && !d.IsConnected() {
		return ErrDisconnected
	}
	return nil
}
