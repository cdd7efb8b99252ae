package split

import (
	"testing"

	"github.com/Wesbraak3/Dungeon-Generator/pkg/dungeon"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/geom"
)

func TestDoorFit(t *testing.T) {
	p := &DoorPlacer{Width: 2, Clearance: 2}
	rng := NewSource(5)

	tests := []struct {
		name string
		a, b geom.Rect
		ok   bool
	}{
		{"vertical wall", geom.R(0, 0, 10, 10), geom.R(9, 0, 10, 10), true},
		{"horizontal wall", geom.R(0, 0, 10, 10), geom.R(0, 9, 10, 10), true},
		{"wall too short", geom.R(0, 0, 10, 10), geom.R(9, 5, 10, 10), false},
		{"exact span", geom.R(0, 0, 10, 6), geom.R(9, 0, 10, 6), true},
		{"corner touch", geom.R(0, 0, 10, 10), geom.R(9, 9, 10, 10), false},
		{"disjoint", geom.R(0, 0, 5, 5), geom.R(10, 10, 5, 5), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			door, ok := p.Fit(tt.a, tt.b, rng)
			if ok != tt.ok {
				t.Fatalf("Fit ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			wall, _ := geom.Intersect(tt.a, tt.b)
			if !wall.ContainsRect(door) {
				t.Errorf("door %v outside wall %v", door, wall)
			}
			long := max(door.W, door.H)
			if long != 2 || min(door.W, door.H) != 1 {
				t.Errorf("door %v has wrong shape", door)
			}
			if wall.IsHorizontalWall() {
				if door.X < wall.X+2 || door.XMax() > wall.XMax()-2 {
					t.Errorf("door %v violates clearance on %v", door, wall)
				}
			} else if door.Y < wall.Y+2 || door.YMax() > wall.YMax()-2 {
				t.Errorf("door %v violates clearance on %v", door, wall)
			}
		})
	}
}

func TestBetweenPlacesOncePerPair(t *testing.T) {
	d := dungeon.New()
	a := d.AddRoom(geom.R(0, 0, 10, 10))
	b := d.AddRoom(geom.R(9, 0, 10, 10))
	p := NewDoorPlacer(2)

	n, err := p.Between(d, NewSource(1), []dungeon.RoomID{a}, []dungeon.RoomID{b})
	if err != nil || n != 1 {
		t.Fatalf("first Between = (%d, %v), want 1 door", n, err)
	}
	n, err = p.Between(d, NewSource(1), []dungeon.RoomID{b}, []dungeon.RoomID{a})
	if err != nil || n != 0 {
		t.Errorf("second Between = (%d, %v), want 0 doors", n, err)
	}
}

func TestBetweenRelaxed(t *testing.T) {
	d := dungeon.New()
	a := d.AddRoom(geom.R(0, 0, 10, 10))
	b := d.AddRoom(geom.R(9, 6, 10, 10))

	strict := &DoorPlacer{Width: 2, Clearance: 2}
	if n, _ := strict.Between(d, NewSource(1), []dungeon.RoomID{a}, []dungeon.RoomID{b}); n != 0 {
		t.Fatalf("strict placer added %d doors on a 4-cell wall", n)
	}

	relaxed := NewDoorPlacer(2)
	if n, _ := relaxed.Between(d, NewSource(1), []dungeon.RoomID{a}, []dungeon.RoomID{b}); n != 1 {
		t.Fatalf("relaxed placer added %d doors, want 1", n)
	}
	id, _ := d.DoorBetween(a, b)
	door, _ := d.Door(id)
	if door.Bounds != geom.R(9, 7, 1, 2) {
		t.Errorf("relaxed door = %v, want centered (9,7 1x2)", door.Bounds)
	}
}

func TestAllPairwise(t *testing.T) {
	d := dungeon.New()
	d.AddRoom(geom.R(0, 0, 10, 10))
	d.AddRoom(geom.R(9, 0, 10, 10))
	d.AddRoom(geom.R(0, 9, 19, 10))

	n, err := NewDoorPlacer(2).All(d, NewSource(3))
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 || d.DoorCount() != 3 {
		t.Errorf("All placed %d doors (dungeon has %d), want 3", n, d.DoorCount())
	}
}

func TestBetweenRejectsBadWidth(t *testing.T) {
	d := dungeon.New()
	a := d.AddRoom(geom.R(0, 0, 10, 10))
	if _, err := (&DoorPlacer{}).Between(d, NewSource(1), []dungeon.RoomID{a}, nil); err == nil {
		t.Error("expected error for zero width")
	}
}

func TestBetweenRelaxedKeepsCorners(t *testing.T) {
	tests := []struct {
		name  string
		b     geom.Rect
		doors int
	}{
		{"wall equals door width", geom.R(9, 8, 10, 10), 0},
		{"one spare cell", geom.R(9, 7, 10, 10), 0},
		{"one cell each side", geom.R(9, 6, 10, 10), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := dungeon.New()
			ra := geom.R(0, 0, 10, 10)
			a := d.AddRoom(ra)
			b := d.AddRoom(tt.b)
			n, err := NewDoorPlacer(2).Between(d, NewSource(1), []dungeon.RoomID{a}, []dungeon.RoomID{b})
			if err != nil {
				t.Fatal(err)
			}
			if n != tt.doors {
				t.Fatalf("placed %d doors, want %d", n, tt.doors)
			}
			if n == 0 {
				return
			}
			wall, _ := geom.Intersect(ra, tt.b)
			id, _ := d.DoorBetween(a, b)
			door, _ := d.Door(id)
			if door.Bounds.Y <= wall.Y || door.Bounds.YMax() >= wall.YMax() {
				t.Errorf("door %v touches a corner of wall %v", door.Bounds, wall)
			}
		})
	}
}
