package ascii

import (
	"context"
	"slices"
	"testing"

	"github.com/Wesbraak3/Dungeon-Generator/pkg/dungeon"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/geom"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/grid"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/grid/build"
)

func mapOf(t *testing.T, d *dungeon.Dungeon) *grid.Map {
	t.Helper()
	m, _, err := build.FromDungeon(context.Background(), d, build.Options{})
	if err != nil {
		t.Fatalf("FromDungeon: %v", err)
	}
	return m
}

func TestRenderRoom(t *testing.T) {
	d := dungeon.New()
	d.AddRoom(geom.R(0, 0, 5, 4))

	want := "#####\n#...#\n#...#\n#####"
	if got := Render(mapOf(t, d), Options{}); got != want {
		t.Errorf("Render =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderDoors(t *testing.T) {
	d := dungeon.New()
	a := d.AddRoom(geom.R(0, 0, 4, 4))
	b := d.AddRoom(geom.R(3, 0, 4, 4))
	id, _, err := d.AddDoor(a, b, geom.R(3, 1, 1, 2))
	if err != nil {
		t.Fatal(err)
	}
	m := mapOf(t, d)

	want := []string{
		"#######",
		"#..+..#",
		"#..+..#",
		"#######",
	}
	if got := Rows(m, Options{}); !slices.Equal(got, want) {
		t.Errorf("Rows = %q, want %q", got, want)
	}

	if err := d.SetLocked(id, true); err != nil {
		t.Fatal(err)
	}
	locked := func(tile build.Tile) bool {
		door, ok := d.Door(tile.Door)
		return ok && door.Locked
	}
	if got := Rows(m, Options{Locked: locked})[1]; got != "#..X..#" {
		t.Errorf("locked row = %q", got)
	}
}

func TestRenderPathOverlay(t *testing.T) {
	d := dungeon.New()
	d.AddRoom(geom.R(0, 0, 6, 3))
	m := mapOf(t, d)

	path := []grid.Cell{build.CellOf(1, 1), build.CellOf(2, 1), build.CellOf(3, 1), build.CellOf(4, 1)}
	seen := []grid.Cell{build.CellOf(1, 1), build.CellOf(2, 1)}
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"path over discovered", Options{Path: path, Discovered: seen}, "#S**G#"},
		{"discovered only", Options{Discovered: seen}, "#::..#"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Rows(m, tt.opts)[1]; got != tt.want {
				t.Errorf("row = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderArea(t *testing.T) {
	d := dungeon.New()
	d.AddRoom(geom.R(0, 0, 5, 4))
	m := mapOf(t, d)

	if got := Rows(m, Options{Area: geom.R(0, 1, 3, 2)}); !slices.Equal(got, []string{"#..", "#.."}) {
		t.Errorf("Rows = %q", got)
	}
	// Unoccupied cells become trailing blanks and are trimmed.
	if got := Rows(m, Options{Area: geom.R(4, 1, 3, 2)}); !slices.Equal(got, []string{"#", "#"}) {
		t.Errorf("Rows = %q", got)
	}
}

func TestRenderEmpty(t *testing.T) {
	if rows := Rows(grid.New(), Options{}); len(rows) != 0 {
		t.Errorf("Rows = %q, want none", rows)
	}
	if got := Render(grid.New(), Options{}); got != "" {
		t.Errorf("Render = %q, want empty", got)
	}
}

func TestRenderForeignPayload(t *testing.T) {
	m := grid.New()
	if err := m.Reserve(grid.C(0, 0, 0), grid.Size{W: 2, D: 1}, "crate", false); err != nil {
		t.Fatal(err)
	}
	if got := Render(m, Options{}); got != "??" {
		t.Errorf("Render = %q, want ??", got)
	}
}
