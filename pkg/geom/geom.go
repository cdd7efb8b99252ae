// Package geom provides axis-aligned integer rectangles used by every layer
// of the dungeon generator.
//
// Rectangles follow a half-open convention on the grid: a rectangle with
// origin (X, Y) and size (W, H) covers the cells X..X+W-1 and Y..Y+H-1.
// Two rooms produced by a split overlap by exactly one column or row, so the
// intersection of neighbouring rooms is a degenerate rectangle one cell thick
// that describes their shared wall.
package geom

import "fmt"

// Rect is an axis-aligned integer rectangle.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// R is shorthand for constructing a Rect.
func R(x, y, w, h int) Rect { return Rect{X: x, Y: y, W: w, H: h} }

// XMax returns the exclusive right edge.
func (r Rect) XMax() int { return r.X + r.W }

// YMax returns the exclusive bottom edge.
func (r Rect) YMax() int { return r.Y + r.H }

// Area returns W*H.
func (r Rect) Area() int { return r.W * r.H }

// Empty reports whether the rectangle covers no cells.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Center returns the midpoint of the rectangle in continuous coordinates.
func (r Rect) Center() (float64, float64) {
	return float64(r.X) + float64(r.W)/2, float64(r.Y) + float64(r.H)/2
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.XMax() && y >= r.Y && y < r.YMax()
}

// ContainsRect reports whether o lies entirely inside r.
func (r Rect) ContainsRect(o Rect) bool {
	if o.Empty() {
		return false
	}
	return o.X >= r.X && o.Y >= r.Y && o.XMax() <= r.XMax() && o.YMax() <= r.YMax()
}

// Intersect returns the overlap of a and b. The boolean is false when the
// rectangles do not share at least one cell.
func Intersect(a, b Rect) (Rect, bool) {
	x := max(a.X, b.X)
	y := max(a.Y, b.Y)
	w := min(a.XMax(), b.XMax()) - x
	h := min(a.YMax(), b.YMax()) - y
	if w <= 0 || h <= 0 {
		return Rect{}, false
	}
	return Rect{X: x, Y: y, W: w, H: h}, true
}

// Overlaps reports whether a and b share at least one cell.
func Overlaps(a, b Rect) bool {
	_, ok := Intersect(a, b)
	return ok
}

// IsHorizontalWall reports whether r is a one-row strip.
func (r Rect) IsHorizontalWall() bool { return r.H == 1 && r.W > 0 }

// IsVerticalWall reports whether r is a one-column strip.
func (r Rect) IsVerticalWall() bool { return r.W == 1 && r.H > 0 }

// Cells calls fn for every cell covered by r in row-major order.
func (r Rect) Cells(fn func(x, y int)) {
	for y := r.Y; y < r.YMax(); y++ {
		for x := r.X; x < r.XMax(); x++ {
			fn(x, y)
		}
	}
}

// OnBorder reports whether (x, y) is on the outermost ring of r.
func (r Rect) OnBorder(x, y int) bool {
	if !r.Contains(x, y) {
		return false
	}
	return x == r.X || y == r.Y || x == r.XMax()-1 || y == r.YMax()-1
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.W, r.H)
}
