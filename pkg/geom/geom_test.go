package geom

import "testing"

func TestIntersect(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want Rect
		ok   bool
	}{
		{"shared vertical wall", R(0, 0, 10, 10), R(9, 0, 10, 10), R(9, 0, 1, 10), true},
		{"shared horizontal wall", R(0, 0, 10, 10), R(0, 9, 10, 5), R(0, 9, 10, 1), true},
		{"disjoint", R(0, 0, 5, 5), R(5, 0, 5, 5), Rect{}, false},
		{"corner only", R(0, 0, 5, 5), R(4, 4, 5, 5), R(4, 4, 1, 1), true},
		{"nested", R(0, 0, 10, 10), R(2, 2, 3, 3), R(2, 2, 3, 3), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Intersect(tt.a, tt.b)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("Intersect(%v, %v) = %v, %v; want %v, %v", tt.a, tt.b, got, ok, tt.want, tt.ok)
			}
			if back, _ := Intersect(tt.b, tt.a); back != got {
				t.Errorf("Intersect is not symmetric: %v vs %v", got, back)
			}
			if Overlaps(tt.a, tt.b) != tt.ok {
				t.Errorf("Overlaps(%v, %v) = %v, want %v", tt.a, tt.b, !tt.ok, tt.ok)
			}
		})
	}
}

func TestContains(t *testing.T) {
	r := R(2, 3, 4, 5)
	cells := []struct {
		x, y int
		want bool
	}{
		{2, 3, true},
		{5, 7, true},
		{6, 3, false},
		{2, 8, false},
	}
	for _, c := range cells {
		if got := r.Contains(c.x, c.y); got != c.want {
			t.Errorf("%v.Contains(%d, %d) = %v, want %v", r, c.x, c.y, got, c.want)
		}
	}
	if !r.ContainsRect(R(3, 4, 1, 1)) {
		t.Error("inner rect not contained")
	}
	if r.ContainsRect(R(3, 4, 4, 1)) {
		t.Error("overhanging rect reported as contained")
	}
}

func TestWallsAndBorder(t *testing.T) {
	if !R(0, 0, 5, 1).IsHorizontalWall() || R(0, 0, 5, 1).IsVerticalWall() {
		t.Error("5x1 strip should be a horizontal wall only")
	}
	if !R(0, 0, 1, 5).IsVerticalWall() {
		t.Error("1x5 strip should be a vertical wall")
	}

	r := R(0, 0, 3, 3)
	var border, inner int
	r.Cells(func(x, y int) {
		if r.OnBorder(x, y) {
			border++
		} else {
			inner++
		}
	})
	if border != 8 || inner != 1 || r.Area() != 9 {
		t.Errorf("border=%d inner=%d area=%d, want 8, 1, 9", border, inner, r.Area())
	}
}
