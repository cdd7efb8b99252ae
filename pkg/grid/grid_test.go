package grid

import (
	"errors"
	"slices"
	"sync"
	"testing"
)

func mustReserve(t *testing.T, m *Map, origin Cell, size Size, payload any, traversable bool) {
	t.Helper()
	if err := m.Reserve(origin, size, payload, traversable); err != nil {
		t.Fatalf("Reserve(%v, %v): %v", origin, size, err)
	}
}

func TestReserveOverlap(t *testing.T) {
	m := New()
	mustReserve(t, m, C(0, 0, 0), Size{W: 2, D: 1}, "crate", false)
	if m.CanPlace(C(1, 0, 0), Size{W: 1, D: 1}) {
		t.Error("CanPlace on an occupied cell")
	}
	if !m.CanPlace(C(2, 0, 0), Size{W: 1, D: 1}) {
		t.Error("CanPlace rejected a free cell")
	}

	if err := m.Reserve(C(1, 0, 0), Size{W: 2, D: 2}, "table", true); !errors.Is(err, ErrOccupied) {
		t.Fatalf("err = %v, want ErrOccupied", err)
	}
	// No partial reservation.
	if !m.CanPlace(C(2, 0, 0), Size{W: 1, D: 2}) {
		t.Error("failed Reserve left cells behind")
	}
	if m.Len() != 2 {
		t.Errorf("Len = %d, want 2", m.Len())
	}
}

func TestReserveReleaseRoundTrip(t *testing.T) {
	m := New()
	origin, size := C(3, 0, 4), Size{W: 3, D: 2}
	mustReserve(t, m, origin, size, nil, true)
	if m.CanPlace(origin, size) {
		t.Fatal("footprint still placeable after Reserve")
	}

	// Releasing any owned cell frees the whole placement.
	if !m.Release(C(5, 0, 5)) {
		t.Fatal("Release of an owned cell returned false")
	}
	if !m.CanPlace(origin, size) || m.Len() != 0 {
		t.Errorf("after Release: CanPlace=%v Len=%d", m.CanPlace(origin, size), m.Len())
	}
	if m.Release(origin) {
		t.Error("second Release returned true")
	}
}

func TestGet(t *testing.T) {
	m := New()
	mustReserve(t, m, C(0, 0, 0), Size{W: 1, D: 2}, 42, true)

	p, ok := m.Get(C(0, 0, 1))
	if !ok {
		t.Fatal("Get missed an owned cell")
	}
	if p.Payload != 42 || !p.Traversable {
		t.Errorf("placement = %+v", p)
	}
	if len(p.Cells) != 2 || !slices.Contains(p.Cells, C(0, 0, 0)) || !slices.Contains(p.Cells, C(0, 0, 1)) {
		t.Errorf("Cells = %v", p.Cells)
	}
	if _, ok := m.Get(C(1, 0, 0)); ok {
		t.Error("Get found a free cell")
	}
}

func TestReplace(t *testing.T) {
	m := New()
	mustReserve(t, m, C(0, 0, 0), Size{W: 1, D: 1}, "wall", false)
	mustReserve(t, m, C(3, 0, 0), Size{W: 1, D: 1}, "wall", false)

	if err := m.Replace(C(0, 0, 0), Size{W: 2, D: 1}, "door", true); err != nil {
		t.Fatal(err)
	}
	if !m.IsTraversable(C(1, 0, 0)) {
		t.Error("replaced door is not traversable")
	}

	if err := m.Replace(C(0, 0, 0), Size{W: 4, D: 1}, "gate", true); !errors.Is(err, ErrOccupied) {
		t.Fatalf("err = %v, want ErrOccupied", err)
	}
	// A failed replace restores the previous occupant.
	if p, ok := m.Get(C(1, 0, 0)); !ok || p.Payload != "door" {
		t.Errorf("Get after failed Replace = %+v, %v", p, ok)
	}

	if err := m.Replace(C(7, 0, 7), Size{W: 1, D: 1}, "floor", true); err != nil {
		t.Errorf("Replace on free cells: %v", err)
	}
}

func TestEmptyFootprint(t *testing.T) {
	m := New()
	if err := m.Reserve(C(0, 0, 0), Size{W: 0, D: 1}, nil, true); !errors.Is(err, ErrEmptyFootprint) {
		t.Errorf("err = %v, want ErrEmptyFootprint", err)
	}
	if m.CanPlace(C(0, 0, 0), Size{W: 1, D: -1}) {
		t.Error("CanPlace accepted a negative footprint")
	}
}

func TestTraversable(t *testing.T) {
	m := New()
	if m.IsTraversable(C(0, 0, 0)) {
		t.Error("empty cells are not traversable")
	}
	mustReserve(t, m, C(0, 0, 0), Size{W: 1, D: 1}, nil, false)
	mustReserve(t, m, C(1, 0, 0), Size{W: 1, D: 1}, nil, true)
	if m.IsTraversable(C(0, 0, 0)) || !m.IsTraversable(C(1, 0, 0)) {
		t.Error("traversability does not follow the placement flag")
	}
}

func TestNeighbors(t *testing.T) {
	n := Neighbors(C(5, 0, 5))
	if len(n) != 8 {
		t.Fatalf("got %d neighbours, want 8", len(n))
	}
	if n[0] != C(6, 0, 5) {
		t.Errorf("first neighbour = %v, want east", n[0])
	}
	if !slices.Contains(n, C(4, 0, 4)) {
		t.Error("missing diagonal neighbour")
	}
	for _, c := range n {
		if c.Y != 0 || c == C(5, 0, 5) {
			t.Errorf("bad neighbour %v", c)
		}
	}
}

func TestWorldConversion(t *testing.T) {
	if got := WorldToCell(1.9, 0.2, -0.1); got != C(1, 0, -1) {
		t.Errorf("WorldToCell = %v", got)
	}
	if got := ClosestCell(1.6, 0.2, -0.1); got != C(2, 0, 0) {
		t.Errorf("ClosestCell = %v", got)
	}
}

func TestBounds(t *testing.T) {
	m := New()
	if _, _, ok := m.Bounds(); ok {
		t.Error("empty map reported bounds")
	}
	mustReserve(t, m, C(-2, 0, 1), Size{W: 1, D: 1}, nil, true)
	mustReserve(t, m, C(4, 0, 7), Size{W: 2, D: 2}, nil, true)
	lo, hi, ok := m.Bounds()
	if !ok || lo != C(-2, 0, 1) || hi != C(5, 0, 8) {
		t.Errorf("Bounds = %v, %v, %v", lo, hi, ok)
	}
}

func TestConcurrentReads(t *testing.T) {
	m := New()
	for x := range 20 {
		mustReserve(t, m, C(x, 0, 0), Size{W: 1, D: 20}, nil, x%2 == 0)
	}
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for x := range 20 {
				_ = m.IsTraversable(C(x, 0, 3))
				_, _ = m.Get(C(x, 0, 5))
			}
		}()
	}
	wg.Wait()
}
