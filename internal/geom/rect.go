package geom

import "strconv"

// Point is an integer pixel or cell coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pt returns Point{x, y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns p + o.
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

func (p Point) String() string {
	return "(" + strconv.Itoa(p.X) + "," + strconv.Itoa(p.Y) + ")"
}

// Vector converts p to a Vector2.
func (p Point) Vector() Vector2 {
	return Vector2{X: float64(p.X), Y: float64(p.Y)}
}

// Rectangle is an axis-aligned integer rectangle. Edge semantics follow the
// usual screen-space convention: Right and Bottom are exclusive for
// intersection tests and inclusive for containment of other rectangles.
type Rectangle struct {
	X      int `yaml:"x" json:"x"`
	Y      int `yaml:"y" json:"y"`
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// Rect returns Rectangle{x, y, w, h}.
func Rect(x, y, w, h int) Rectangle {
	return Rectangle{X: x, Y: y, Width: w, Height: h}
}

// RectAt returns a rectangle with top-left corner pos and the given size.
func RectAt(pos, size Point) Rectangle {
	return Rectangle{X: pos.X, Y: pos.Y, Width: size.X, Height: size.Y}
}

func (r Rectangle) Left() int   { return r.X }
func (r Rectangle) Top() int    { return r.Y }
func (r Rectangle) Right() int  { return r.X + r.Width }
func (r Rectangle) Bottom() int { return r.Y + r.Height }

// Center returns the integer center of r.
func (r Rectangle) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Size returns the width and height as a Point.
func (r Rectangle) Size() Point {
	return Point{X: r.Width, Y: r.Height}
}

// Contains reports whether o lies entirely inside r. Shared edges count as inside.
func (r Rectangle) Contains(o Rectangle) bool {
	return r.X <= o.X && o.Right() <= r.Right() &&
		r.Y <= o.Y && o.Bottom() <= r.Bottom()
}

// ContainsPoint reports whether p lies inside r (right and bottom edges excluded).
func (r Rectangle) ContainsPoint(p Point) bool {
	return r.X <= p.X && p.X < r.Right() && r.Y <= p.Y && p.Y < r.Bottom()
}

// ContainsVector is ContainsPoint for fractional positions.
func (r Rectangle) ContainsVector(v Vector2) bool {
	return float64(r.X) <= v.X && v.X < float64(r.Right()) &&
		float64(r.Y) <= v.Y && v.Y < float64(r.Bottom())
}

// Intersects reports whether r and o overlap by a non-empty area.
func (r Rectangle) Intersects(o Rectangle) bool {
	return o.X < r.Right() && r.X < o.Right() &&
		o.Y < r.Bottom() && r.Y < o.Bottom()
}

// Offset returns r moved by d.
func (r Rectangle) Offset(d Point) Rectangle {
	r.X += d.X
	r.Y += d.Y
	return r
}

// Span returns the rectangle spanned by two corner points in any order.
func Span(a, b Point) Rectangle {
	x, w := a.X, b.X-a.X
	if a.X > b.X {
		x, w = b.X, a.X-b.X
	}
	y, h := a.Y, b.Y-a.Y
	if a.Y > b.Y {
		y, h = b.Y, a.Y-b.Y
	}
	return Rectangle{X: x, Y: y, Width: w, Height: h}
}
