package geom

// Ellipse is an axis-aligned ellipse used for area queries around a creature.
type Ellipse struct {
	Center Vector2
	Width  float64
	Height float64
}

// BoundingRectangle returns the integer rectangle enclosing e, truncated
// the same way positions are.
func (e Ellipse) BoundingRectangle() Rectangle {
	corner := e.Center.Sub(Vector2{X: e.Width / 2, Y: e.Height / 2}).Point()
	return RectAt(corner, Vector2{X: e.Width, Y: e.Height}.Point())
}

// Contains reports whether p lies inside or on e.
func (e Ellipse) Contains(p Vector2) bool {
	rx, ry := e.Width/2, e.Height/2
	if rx == 0 || ry == 0 {
		return false
	}
	dx := (p.X - e.Center.X) / rx
	dy := (p.Y - e.Center.Y) / ry
	return dx*dx+dy*dy <= 1
}
