package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVector2_Normalize(t *testing.T) {
	v := Vec(3, 4).Normalize()
	assert.InDelta(t, 0.6, v.X, 1e-9)
	assert.InDelta(t, 0.8, v.Y, 1e-9)
	assert.InDelta(t, 1.0, v.Length(), 1e-9)

	assert.Equal(t, Vector2{}, Vector2{}.Normalize(), "zero vector must stay zero")
}

func TestVector2_Distance(t *testing.T) {
	assert.InDelta(t, 5.0, Vec(1, 1).Distance(Vec(4, 5)), 1e-9)
	assert.Equal(t, Pt(3, -2), Vec(3.9, -2.7).Point())
}

func TestRectangle_Contains(t *testing.T) {
	outer := Rect(0, 0, 100, 100)

	tests := []struct {
		name  string
		inner Rectangle
		want  bool
	}{
		{"fully inside", Rect(10, 10, 20, 20), true},
		{"same rectangle", outer, true},
		{"touching right edge", Rect(80, 0, 20, 20), true},
		{"crossing right edge", Rect(90, 0, 20, 20), false},
		{"left of origin", Rect(-1, 0, 10, 10), false},
		{"below", Rect(0, 95, 10, 10), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, outer.Contains(tt.inner))
		})
	}
}

func TestRectangle_Intersects(t *testing.T) {
	r := Rect(0, 0, 10, 10)

	assert.True(t, r.Intersects(Rect(5, 5, 10, 10)))
	assert.True(t, r.Intersects(Rect(-5, -5, 6, 6)))
	assert.False(t, r.Intersects(Rect(10, 0, 5, 5)), "shared edge is not an overlap")
	assert.False(t, r.Intersects(Rect(0, 10, 5, 5)))
	assert.False(t, r.Intersects(Rect(20, 20, 1, 1)))
}

func TestRectangle_ContainsPoint(t *testing.T) {
	r := Rect(0, 0, 10, 10)

	assert.True(t, r.ContainsPoint(Pt(0, 0)))
	assert.True(t, r.ContainsPoint(Pt(9, 9)))
	assert.False(t, r.ContainsPoint(Pt(10, 5)))
	assert.True(t, r.ContainsVector(Vec(9.5, 0)))
	assert.False(t, r.ContainsVector(Vec(-0.1, 0)))
}

func TestSpan(t *testing.T) {
	assert.Equal(t, Rect(2, 3, 8, 4), Span(Pt(10, 7), Pt(2, 3)))
	assert.Equal(t, Rect(2, 3, 8, 4), Span(Pt(2, 3), Pt(10, 7)))
}

func TestEllipse(t *testing.T) {
	e := Ellipse{Center: Vec(100, 100), Width: 40, Height: 20}

	assert.Equal(t, Rect(80, 90, 40, 20), e.BoundingRectangle())
	assert.True(t, e.Contains(Vec(100, 100)))
	assert.True(t, e.Contains(Vec(120, 100)), "boundary counts as inside")
	assert.False(t, e.Contains(Vec(100, 111)))
	assert.False(t, e.Contains(Vec(118, 108)))
	assert.False(t, Ellipse{Center: Vec(0, 0)}.Contains(Vec(0, 0)))
}
