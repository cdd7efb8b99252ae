package layout

import (
	"bytes"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/Wesbraak3/Dungeon-Generator/pkg/dungeon"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/geom"
)

func sample(t *testing.T) *dungeon.Dungeon {
	t.Helper()
	d := dungeon.New()
	a := d.AddRoom(geom.R(0, 0, 10, 10))
	b := d.AddRoom(geom.R(9, 0, 10, 10))
	c := d.AddRoom(geom.R(0, 9, 19, 10))
	if _, _, err := d.AddDoor(a, b, geom.R(9, 4, 1, 2)); err != nil {
		t.Fatal(err)
	}
	id, _, err := d.AddDoor(b, c, geom.R(12, 9, 2, 1))
	if err != nil {
		t.Fatal(err)
	}
	if err := d.SetLocked(id, true); err != nil {
		t.Fatal(err)
	}
	return d
}

func TestRoundTrip(t *testing.T) {
	d := sample(t)
	l := FromDungeon(d, Meta{Seed: 7, Bounds: geom.R(0, 0, 19, 19), Strategy: "bfs"})

	data, err := Marshal(l)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	back, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(l, back) {
		t.Fatalf("round trip changed the layout:\n got %+v\nwant %+v", back, l)
	}

	rebuilt, ids, err := back.Dungeon()
	if err != nil {
		t.Fatalf("Dungeon: %v", err)
	}
	if len(ids) != 3 {
		t.Errorf("got %d room handles, want 3", len(ids))
	}
	if rebuilt.RoomCount() != d.RoomCount() || rebuilt.DoorCount() != d.DoorCount() {
		t.Errorf("rebuilt %d rooms, %d doors; want %d, %d",
			rebuilt.RoomCount(), rebuilt.DoorCount(), d.RoomCount(), d.DoorCount())
	}
	if err := rebuilt.Validate(dungeon.RequireConnected()); err != nil {
		t.Error(err)
	}

	again, err := Marshal(FromDungeon(rebuilt, l.Meta))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, again) {
		t.Errorf("snapshot of rebuilt dungeon differs:\n%s\n%s", data, again)
	}
}

func TestDungeonDanglingDoor(t *testing.T) {
	l := Layout{
		Rooms: []Room{{ID: 1, Bounds: geom.R(0, 0, 10, 10)}},
		Doors: []Door{{ID: 1, A: 1, B: 2}},
	}
	if _, _, err := l.Dungeon(); !errors.Is(err, dungeon.ErrDanglingDoor) {
		t.Errorf("err = %v, want ErrDanglingDoor", err)
	}
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dungeon.json")
	l := FromDungeon(sample(t), Meta{Seed: 1})
	if err := WriteFile(l, path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	back, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !reflect.DeepEqual(l, back) {
		t.Errorf("file round trip changed the layout")
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestArea(t *testing.T) {
	if got := FromDungeon(sample(t), Meta{}).Area(); got != geom.R(0, 0, 19, 19) {
		t.Errorf("Area from rooms = %v", got)
	}
	if got := (Layout{Meta: Meta{Bounds: geom.R(1, 2, 3, 4)}}).Area(); got != geom.R(1, 2, 3, 4) {
		t.Errorf("Area from bounds = %v", got)
	}
}
