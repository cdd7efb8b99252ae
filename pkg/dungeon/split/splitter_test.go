package split

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Wesbraak3/Dungeon-Generator/pkg/dungeon"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/geom"
)

func splitRoot(t *testing.T, s *Splitter, bounds geom.Rect, seed uint64) (*dungeon.Dungeon, *Result) {
	t.Helper()
	d := dungeon.New()
	root := d.AddRoom(bounds)
	res, err := s.Split(context.Background(), d, root, seed)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	return d, res
}

func TestChooseAxis(t *testing.T) {
	rng := NewSource(1)
	tests := []struct {
		name string
		r    geom.Rect
		min  int
		want Axis
	}{
		{"wide", geom.R(0, 0, 100, 50), 10, Vertical},
		{"tall", geom.R(0, 0, 30, 100), 10, Horizontal},
		{"only horizontal legal", geom.R(0, 0, 21, 100), 10, Horizontal},
		{"only vertical legal", geom.R(0, 0, 100, 21), 10, Vertical},
		{"too small", geom.R(0, 0, 22, 22), 11, None},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChooseAxis(tt.r, tt.min, rng); got != tt.want {
				t.Errorf("ChooseAxis(%v, %d) = %v, want %v", tt.r, tt.min, got, tt.want)
			}
		})
	}
}

func TestSplitLeafSizes(t *testing.T) {
	for _, seed := range []uint64{1, 7, 1234, 99999} {
		d, res := splitRoot(t, &Splitter{MinRoomSize: 10}, geom.R(0, 0, 100, 50), seed)
		if len(res.Leaves) < 2 {
			t.Fatalf("seed %d: got %d leaves", seed, len(res.Leaves))
		}
		if d.RoomCount() != len(res.Leaves) {
			t.Errorf("seed %d: RoomCount = %d, leaves = %d", seed, d.RoomCount(), len(res.Leaves))
		}
		if res.Splits != len(res.Leaves)-1 {
			t.Errorf("seed %d: splits = %d, want %d", seed, res.Splits, len(res.Leaves)-1)
		}
		for _, r := range d.Rooms() {
			if r.Bounds.W < 10 || r.Bounds.H < 10 {
				t.Errorf("seed %d: leaf %v smaller than minimum", seed, r.Bounds)
			}
		}
	}
}

func TestSplitTilesRoot(t *testing.T) {
	root := geom.R(0, 0, 100, 50)
	d, _ := splitRoot(t, &Splitter{MinRoomSize: 8}, root, 42)
	rooms := d.Rooms()

	root.Cells(func(x, y int) {
		covered := 0
		interior := 0
		for _, r := range rooms {
			if r.Bounds.Contains(x, y) {
				covered++
				if !r.Bounds.OnBorder(x, y) {
					interior++
				}
			}
		}
		if covered == 0 {
			t.Fatalf("cell (%d,%d) not covered", x, y)
		}
		if interior > 0 && covered != 1 {
			t.Fatalf("interior cell (%d,%d) covered %d times", x, y, covered)
		}
	})
	for _, r := range rooms {
		if !root.ContainsRect(r.Bounds) {
			t.Errorf("leaf %v escapes root", r.Bounds)
		}
	}
}

func TestSplitRootTooSmall(t *testing.T) {
	d := dungeon.New()
	root := d.AddRoom(geom.R(0, 0, 20, 20))
	res, err := (&Splitter{MinRoomSize: 10}).Split(context.Background(), d, root, 1)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(res.Leaves) != 1 || res.Leaves[0] != root {
		t.Errorf("Leaves = %v, want [%d]", res.Leaves, root)
	}
}

func TestSplitDeterministicAcrossWorkers(t *testing.T) {
	bounds := geom.R(0, 0, 120, 80)
	one, _ := splitRoot(t, &Splitter{MinRoomSize: 6, MaxWorkers: 1, Doors: NewDoorPlacer(2)}, bounds, 1234)
	many, _ := splitRoot(t, &Splitter{MinRoomSize: 6, MaxWorkers: 8, Doors: NewDoorPlacer(2)}, bounds, 1234)

	a, b := one.Rooms(), many.Rooms()
	if len(a) != len(b) {
		t.Fatalf("room counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Bounds != b[i].Bounds || a[i].ID != b[i].ID {
			t.Fatalf("room %d differs: %v vs %v", i, a[i].Bounds, b[i].Bounds)
		}
	}
	da, db := one.Doors(), many.Doors()
	if len(da) != len(db) {
		t.Fatalf("door counts differ: %d vs %d", len(da), len(db))
	}
	for i := range da {
		if da[i] != db[i] {
			t.Fatalf("door %d differs: %+v vs %+v", i, da[i], db[i])
		}
	}
}

func TestSplitSeedChangesLayout(t *testing.T) {
	bounds := geom.R(0, 0, 100, 50)
	a, _ := splitRoot(t, &Splitter{MinRoomSize: 5}, bounds, 1)
	b, _ := splitRoot(t, &Splitter{MinRoomSize: 5}, bounds, 2)
	same := a.RoomCount() == b.RoomCount()
	if same {
		ra, rb := a.Rooms(), b.Rooms()
		for i := range ra {
			if ra[i].Bounds != rb[i].Bounds {
				same = false
				break
			}
		}
	}
	if same {
		t.Error("different seeds produced identical layouts")
	}
}

func TestSplitCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := dungeon.New()
	root := d.AddRoom(geom.R(0, 0, 100, 50))
	_, err := (&Splitter{MinRoomSize: 10}).Split(ctx, d, root, 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if d.RoomCount() != 1 {
		t.Errorf("cancelled split mutated the dungeon: %d rooms", d.RoomCount())
	}
}

func TestSplitWithDoorsIsConnected(t *testing.T) {
	for _, seed := range []uint64{1, 2, 3, 1234} {
		d, res := splitRoot(t, &Splitter{MinRoomSize: 10, Doors: NewDoorPlacer(2)}, geom.R(0, 0, 100, 50), seed)
		if res.Doors != d.DoorCount() {
			t.Errorf("seed %d: reported %d doors, dungeon has %d", seed, res.Doors, d.DoorCount())
		}
		if err := d.Validate(dungeon.RequireConnected()); err != nil {
			t.Errorf("seed %d: %v", seed, err)
		}
	}
}

func TestCommitStopsWhenCancelled(t *testing.T) {
	s := &Splitter{MinRoomSize: 6, Doors: NewDoorPlacer(2)}
	bounds := geom.R(0, 0, 200, 120)
	tree, err := s.plan(context.Background(), bounds, 9, 1)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := dungeon.New()
	root := d.AddRoom(bounds)
	if _, err := s.commit(ctx, d, tree, root, 0, &Result{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if d.RoomCount() != 1 {
		t.Errorf("cancelled commit replaced the root: %d rooms", d.RoomCount())
	}
}

func TestSplitLargeRespectsDeadline(t *testing.T) {
	if testing.Short() {
		t.Skip("large split")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	d := dungeon.New()
	root := d.AddRoom(geom.R(0, 0, 1600, 1600))

	start := time.Now()
	_, err := (&Splitter{MinRoomSize: 10, Doors: NewDoorPlacer(2)}).Split(ctx, d, root, 1)
	elapsed := time.Since(start)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Split: %v", err)
	}
	if elapsed > 5*time.Second {
		t.Errorf("split ran %v past a 500ms deadline", elapsed)
	}
}

// Every pair of leaves sharing a wall long enough for a door lies on
// opposite sides of some split line, so it must end up with a door.
func TestSplitDoorsOnEveryLongWall(t *testing.T) {
	p := NewDoorPlacer(2)
	d, _ := splitRoot(t, &Splitter{MinRoomSize: 6, Doors: p}, geom.R(0, 0, 150, 90), 77)
	rooms := d.Rooms()
	for i, a := range rooms {
		for _, b := range rooms[i+1:] {
			wall, ok := geom.Intersect(a.Bounds, b.Bounds)
			if !ok || max(wall.W, wall.H) < p.Span() || min(wall.W, wall.H) != 1 {
				continue
			}
			if _, ok := d.DoorBetween(a.ID, b.ID); !ok {
				t.Errorf("no door on wall %v between rooms %d and %d", wall, a.ID, b.ID)
			}
		}
	}
}
