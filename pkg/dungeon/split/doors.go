package split

import (
	"fmt"
	"math/rand/v2"

	"github.com/Wesbraak3/Dungeon-Generator/pkg/dungeon"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/geom"
)

// DefaultClearance is the number of wall cells kept free on each side of a door.
const DefaultClearance = 2

// DoorPlacer places doors on walls shared by two rooms.
type DoorPlacer struct {
	// Width is the door's long dimension. Must be positive.
	Width int
	// Clearance is the minimum distance from the door to either wall corner.
	Clearance int
	// Relax, when set, places one door with reduced clearance on the longest
	// shared wall if no regular door joined the two room sets.
	Relax bool
}

// NewDoorPlacer returns a placer using DefaultClearance.
func NewDoorPlacer(width int) *DoorPlacer {
	return &DoorPlacer{Width: width, Clearance: DefaultClearance, Relax: true}
}

// Span returns the shortest shared wall that can hold a door.
func (p *DoorPlacer) Span() int { return p.Width + 2*p.Clearance }

// Fit computes a door rectangle for the shared wall between a and b. It
// returns false when the rooms do not share a wall long enough for a door.
func (p *DoorPlacer) Fit(a, b geom.Rect, rng *rand.Rand) (geom.Rect, bool) {
	wall, ok := geom.Intersect(a, b)
	if !ok {
		return geom.Rect{}, false
	}
	switch {
	case wall.IsHorizontalWall() && wall.W >= p.Span():
		x := between(rng, wall.X+p.Clearance, wall.XMax()-(p.Width+p.Clearance))
		return geom.R(x, wall.Y, p.Width, 1), true
	case wall.IsVerticalWall() && wall.H >= p.Span():
		y := between(rng, wall.Y+p.Clearance, wall.YMax()-(p.Width+p.Clearance))
		return geom.R(wall.X, y, 1, p.Width), true
	}
	return geom.Rect{}, false
}

// Between places at most one door for every pair (a, b) with a drawn from as
// and b from bs. It returns the number of doors added.
func (p *DoorPlacer) Between(d *dungeon.Dungeon, rng *rand.Rand, as, bs []dungeon.RoomID) (int, error) {
	if p.Width <= 0 {
		return 0, fmt.Errorf("door width must be positive, got %d", p.Width)
	}
	placed := 0
	joined := false
	for _, a := range as {
		ra, ok := d.Room(a)
		if !ok {
			return placed, fmt.Errorf("%w: %d", dungeon.ErrUnknownRoom, a)
		}
		for _, b := range bs {
			if a == b {
				continue
			}
			if _, exists := d.DoorBetween(a, b); exists {
				joined = true
				continue
			}
			rb, ok := d.Room(b)
			if !ok {
				return placed, fmt.Errorf("%w: %d", dungeon.ErrUnknownRoom, b)
			}
			rect, ok := p.Fit(ra.Bounds, rb.Bounds, rng)
			if !ok {
				continue
			}
			if _, added, err := d.AddDoor(a, b, rect); err != nil {
				return placed, err
			} else if added {
				placed++
				joined = true
			}
		}
	}
	if !joined && p.Relax {
		added, err := p.relaxed(d, as, bs)
		if err != nil {
			return placed, err
		}
		if added {
			placed++
		}
	}
	return placed, nil
}

// relaxed centers one door on the longest wall shared by the two sets,
// shrinking the clearance as far as the wall requires. At least one wall
// cell is kept on each side of the door.
func (p *DoorPlacer) relaxed(d *dungeon.Dungeon, as, bs []dungeon.RoomID) (bool, error) {
	var (
		best         geom.Rect
		bestLen      int
		bestA, bestB dungeon.RoomID
	)
	for _, a := range as {
		ra, _ := d.Room(a)
		for _, b := range bs {
			rb, ok := d.Room(b)
			if !ok || a == b {
				continue
			}
			wall, ok := geom.Intersect(ra.Bounds, rb.Bounds)
			if !ok || (!wall.IsHorizontalWall() && !wall.IsVerticalWall()) {
				continue
			}
			if n := max(wall.W, wall.H); n > bestLen {
				best, bestLen, bestA, bestB = wall, n, a, b
			}
		}
	}
	if bestLen < p.Width+2 {
		return false, nil
	}

	offset := (bestLen - p.Width) / 2
	rect := geom.R(best.X+offset, best.Y, p.Width, 1)
	if best.IsVerticalWall() && best.H > 1 {
		rect = geom.R(best.X, best.Y+offset, 1, p.Width)
	}
	_, added, err := d.AddDoor(bestA, bestB, rect)
	return added, err
}

// All places doors between every pair of rooms in d. It is the simple mode
// used when rooms were not produced by a Splitter.
func (p *DoorPlacer) All(d *dungeon.Dungeon, rng *rand.Rand) (int, error) {
	ids := d.RoomIDs()
	placed := 0
	for i, a := range ids {
		n, err := p.Between(d, rng, []dungeon.RoomID{a}, ids[i+1:])
		placed += n
		if err != nil {
			return placed, err
		}
	}
	return placed, nil
}
