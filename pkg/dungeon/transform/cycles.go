package transform

import (
	"context"
	"math/rand/v2"

	"github.com/zyedidia/generic/mapset"
	"github.com/zyedidia/generic/queue"
	"github.com/zyedidia/generic/stack"

	"github.com/Wesbraak3/Dungeon-Generator/pkg/dungeon"
)

// CycleOptions configures [ReduceCycles].
type CycleOptions struct {
	Strategy Strategy
	// Root is the room the traversal starts from. NoRoom selects the
	// dungeon's first room.
	Root dungeon.RoomID
	// Rand drives the shuffle of randomized strategies. Required for them.
	Rand *rand.Rand
	// Keep retains up to this many cycle doors, in traversal order, instead
	// of removing them.
	Keep int
}

// CycleStats reports what [ReduceCycles] did.
type CycleStats struct {
	Removed   int
	Kept      int
	Visited   int
	Unreached int
}

type state uint8

const (
	unvisited state = iota
	frontier
	settled
)

type reducer struct {
	d      *dungeon.Dungeon
	opts   CycleOptions
	states map[dungeon.RoomID]state
	tree   mapset.Set[dungeon.DoorID]
	stats  CycleStats
}

// ReduceCycles removes doors that close cycles in d. On a connected dungeon
// with Keep == 0 the result is a spanning tree with RoomCount-1 doors.
// Rooms not reachable from the root are left untouched and counted in
// CycleStats.Unreached.
func ReduceCycles(ctx context.Context, d *dungeon.Dungeon, opts CycleOptions) (CycleStats, error) {
	if opts.Strategy == NoReduction || d.RoomCount() == 0 {
		return CycleStats{}, nil
	}
	if opts.Root == dungeon.NoRoom {
		opts.Root = d.Root()
	}
	if !d.HasRoom(opts.Root) {
		return CycleStats{}, dungeon.ErrUnknownRoom
	}
	if opts.Strategy.Randomized() && opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(0, 0))
	}

	r := &reducer{
		d:      d,
		opts:   opts,
		states: make(map[dungeon.RoomID]state, d.RoomCount()),
		tree:   mapset.New[dungeon.DoorID](),
	}

	var err error
	switch opts.Strategy {
	case BFS:
		err = r.iterative(ctx, &fifo{q: queue.New[dungeon.RoomID]()})
	case DFS, DFSRandom:
		err = r.iterative(ctx, &lifo{s: stack.New[dungeon.RoomID]()})
	case DFSRecursive, DFSRandomRecursive:
		err = r.recursive(ctx, opts.Root)
	default:
		_, err = ParseStrategy(string(opts.Strategy))
	}
	if err != nil {
		return r.stats, err
	}

	r.stats.Visited = len(r.states)
	r.stats.Unreached = d.RoomCount() - r.stats.Visited
	return r.stats, nil
}

// doors returns the incident doors of v in traversal order.
func (r *reducer) doors(v dungeon.RoomID) []dungeon.DoorID {
	ids := r.d.DoorsOf(v)
	if r.opts.Strategy.Randomized() {
		r.opts.Rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	}
	return ids
}

// inspect applies the discovery rule to one door of v and returns the room
// to descend into, or NoRoom.
func (r *reducer) inspect(v dungeon.RoomID, id dungeon.DoorID) (dungeon.RoomID, error) {
	if r.tree.Has(id) {
		return dungeon.NoRoom, nil
	}
	door, ok := r.d.Door(id)
	if !ok {
		return dungeon.NoRoom, nil
	}
	w := door.Other(v)
	if r.states[w] != unvisited {
		if r.stats.Kept < r.opts.Keep {
			r.stats.Kept++
			r.tree.Put(id)
			return dungeon.NoRoom, nil
		}
		r.stats.Removed++
		return dungeon.NoRoom, r.d.RemoveDoor(id)
	}
	r.tree.Put(id)
	r.states[w] = frontier
	return w, nil
}

type frontierSet interface {
	push(dungeon.RoomID)
	pop() dungeon.RoomID
	empty() bool
}

type fifo struct{ q *queue.Queue[dungeon.RoomID] }

func (f *fifo) push(v dungeon.RoomID) { f.q.Enqueue(v) }
func (f *fifo) pop() dungeon.RoomID   { return f.q.Dequeue() }
func (f *fifo) empty() bool           { return f.q.Empty() }

type lifo struct{ s *stack.Stack[dungeon.RoomID] }

func (l *lifo) push(v dungeon.RoomID) { l.s.Push(v) }
func (l *lifo) pop() dungeon.RoomID   { return l.s.Pop() }
func (l *lifo) empty() bool           { return l.s.Size() == 0 }

func (r *reducer) iterative(ctx context.Context, f frontierSet) error {
	r.states[r.opts.Root] = frontier
	f.push(r.opts.Root)
	for !f.empty() {
		if err := ctx.Err(); err != nil {
			return err
		}
		v := f.pop()
		r.states[v] = settled
		for _, id := range r.doors(v) {
			w, err := r.inspect(v, id)
			if err != nil {
				return err
			}
			if w != dungeon.NoRoom {
				f.push(w)
			}
		}
	}
	return nil
}

func (r *reducer) recursive(ctx context.Context, v dungeon.RoomID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.states[v] == unvisited {
		r.states[v] = frontier
	}
	for _, id := range r.doors(v) {
		w, err := r.inspect(v, id)
		if err != nil {
			return err
		}
		if w != dungeon.NoRoom {
			if err := r.recursive(ctx, w); err != nil {
				return err
			}
		}
	}
	r.states[v] = settled
	return nil
}
