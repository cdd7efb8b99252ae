package split

import (
	"context"
	"fmt"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"

	"github.com/Wesbraak3/Dungeon-Generator/pkg/dungeon"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/geom"
)

// DefaultMaxWorkers bounds concurrent subtree planning when MaxWorkers is unset.
const DefaultMaxWorkers = 2

// Axis identifies the direction of a split line.
type Axis int

const (
	// None marks a leaf.
	None Axis = iota
	// Vertical splits divide the width.
	Vertical
	// Horizontal splits divide the height.
	Horizontal
)

func (a Axis) String() string {
	switch a {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	default:
		return "none"
	}
}

// Splitter partitions a room into leaves.
type Splitter struct {
	// MinRoomSize is the smallest allowed side length of a leaf.
	MinRoomSize int
	// MaxWorkers bounds concurrently planned subtrees.
	MaxWorkers int
	// Doors, when non-nil, places doors between sibling subtrees.
	Doors *DoorPlacer
}

// Result describes a completed split.
type Result struct {
	Leaves []dungeon.RoomID
	Splits int
	Depth  int
	Doors  int
}

// node is one rectangle of the plan tree. Children are written once by the
// goroutine that plans them and read only after the pool has drained.
type node struct {
	rect        geom.Rect
	axis        Axis
	left, right *node
	doorSeed    uint64
}

// Split partitions room root of d into leaves using the given seed. The root
// room is replaced by its descendants; leaves are returned in left-to-right
// pre-order.
func (s *Splitter) Split(ctx context.Context, d *dungeon.Dungeon, root dungeon.RoomID, seed uint64) (*Result, error) {
	room, ok := d.Room(root)
	if !ok {
		return nil, fmt.Errorf("%w: %d", dungeon.ErrUnknownRoom, root)
	}
	if s.MinRoomSize < 1 {
		return nil, fmt.Errorf("min room size must be positive, got %d", s.MinRoomSize)
	}
	workers := s.MaxWorkers
	if workers <= 0 {
		workers = DefaultMaxWorkers
	}

	tree, err := s.plan(ctx, room.Bounds, seed, workers)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	leaves, err := s.commit(ctx, d, tree, root, 0, res)
	if err != nil {
		return nil, err
	}
	res.Leaves = leaves
	return res, nil
}

func (s *Splitter) plan(ctx context.Context, bounds geom.Rect, seed uint64, workers int) (*node, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	root := &node{rect: bounds}
	var visit func(n *node, rng *rand.Rand) error
	visit = func(n *node, rng *rand.Rand) error {
		if err := gctx.Err(); err != nil {
			return err
		}
		a, b, axis := s.divide(n.rect, rng)
		if axis == None {
			return nil
		}
		n.axis = axis
		n.left = &node{rect: a}
		n.right = &node{rect: b}
		leftRng := NewSource(rng.Uint64())
		rightRng := NewSource(rng.Uint64())
		n.doorSeed = rng.Uint64()

		for _, child := range []struct {
			n   *node
			rng *rand.Rand
		}{{n.left, leftRng}, {n.right, rightRng}} {
			fn := func() error { return visit(child.n, child.rng) }
			if !g.TryGo(fn) {
				if err := fn(); err != nil {
					return err
				}
			}
		}
		return nil
	}

	g.Go(func() error { return visit(root, NewSource(seed)) })
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return root, nil
}

// divide chooses an axis and offset for r. It returns axis None when r is a leaf.
func (s *Splitter) divide(r geom.Rect, rng *rand.Rand) (geom.Rect, geom.Rect, Axis) {
	axis := ChooseAxis(r, s.MinRoomSize, rng)
	switch axis {
	case Vertical:
		at := between(rng, s.MinRoomSize, r.W-s.MinRoomSize+1)
		return geom.R(r.X, r.Y, at, r.H), geom.R(r.X+at-1, r.Y, r.W-at+1, r.H), Vertical
	case Horizontal:
		at := between(rng, s.MinRoomSize, r.H-s.MinRoomSize+1)
		return geom.R(r.X, r.Y, r.W, at), geom.R(r.X, r.Y+at-1, r.W, r.H-at+1), Horizontal
	}
	return geom.Rect{}, geom.Rect{}, None
}

// ChooseAxis applies the split-axis policy to r. The coin is only drawn when
// both axes are legal and neither dimension dominates.
func ChooseAxis(r geom.Rect, minSize int, rng *rand.Rand) Axis {
	canH := r.H/2 > minSize
	canV := r.W/2 > minSize
	switch {
	case !canH && !canV:
		return None
	case !canH || (canV && r.W >= r.H*2):
		return Vertical
	case !canV || (canH && r.H >= r.W*2):
		return Horizontal
	case rng.IntN(2) == 0:
		return Vertical
	default:
		return Horizontal
	}
}

// commit replays the plan onto d in pre-order. ctx is checked at every node.
func (s *Splitter) commit(ctx context.Context, d *dungeon.Dungeon, n *node, id dungeon.RoomID, depth int, res *Result) ([]dungeon.RoomID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res.Depth = max(res.Depth, depth)
	if n.axis == None {
		return []dungeon.RoomID{id}, nil
	}

	a, b, err := d.ReplaceRoom(id, n.left.rect, n.right.rect)
	if err != nil {
		return nil, err
	}
	res.Splits++

	left, err := s.commit(ctx, d, n.left, a, depth+1, res)
	if err != nil {
		return nil, err
	}
	right, err := s.commit(ctx, d, n.right, b, depth+1, res)
	if err != nil {
		return nil, err
	}

	if s.Doors != nil {
		// Only leaves on the split line can share a wall across it.
		line, _ := geom.Intersect(n.left.rect, n.right.rect)
		placed, err := s.Doors.Between(d, NewSource(n.doorSeed), touching(d, left, line), touching(d, right, line))
		if err != nil {
			return nil, err
		}
		res.Doors += placed
	}
	return append(left, right...), nil
}

// touching returns the rooms of ids whose bounds overlap line.
func touching(d *dungeon.Dungeon, ids []dungeon.RoomID, line geom.Rect) []dungeon.RoomID {
	var out []dungeon.RoomID
	for _, id := range ids {
		if r, ok := d.Room(id); ok && geom.Overlaps(r.Bounds, line) {
			out = append(out, id)
		}
	}
	return out
}
