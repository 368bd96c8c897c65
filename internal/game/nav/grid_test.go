package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// layer builds a collision layer of w×h cells with the given cells blocked.
func layer(w, h int, blocked ...[2]int) [][]bool {
	l := make([][]bool, h)
	for y := range l {
		l[y] = make([]bool, w)
	}
	for _, c := range blocked {
		l[c[1]][c[0]] = true
	}
	return l
}

func TestNewGrid(t *testing.T) {
	g := NewGrid(4, 3)

	assert.Equal(t, 4, g.Width())
	assert.Equal(t, 3, g.Height())
	assert.Equal(t, 0, g.BlockedCount())
	for y := range 3 {
		for x := range 4 {
			assert.Equal(t, 0, g.GetIndex(x, y))
		}
	}
}

func TestNewGridNegativeSize(t *testing.T) {
	g := NewGrid(-1, 5)
	assert.Equal(t, 0, g.Width())
	assert.Equal(t, 5, g.Height())
}

func TestNewGridForMap(t *testing.T) {
	// 41×41 tiles of 64×32 pixels.
	g := NewGridForMap(41, 41, 64, 32)
	assert.Equal(t, 160, g.Width())
	assert.Equal(t, 40, g.Height())
}

func TestCreateCollisions(t *testing.T) {
	g := NewGrid(3, 2)

	require.NoError(t, g.CreateCollisions(layer(3, 2, [2]int{1, 0})))
	require.NoError(t, g.CreateCollisions(layer(3, 2, [2]int{2, 1})))

	assert.Equal(t, 1, g.GetIndex(1, 0))
	assert.Equal(t, 1, g.GetIndex(2, 1))
	assert.Equal(t, 0, g.GetIndex(0, 0))
	assert.Equal(t, 2, g.BlockedCount())

	// A walkable cell in a later layer never clears an earlier block.
	require.NoError(t, g.CreateCollisions(layer(3, 2)))
	assert.Equal(t, 2, g.BlockedCount())
}

func TestCreateCollisionsOrderIndependent(t *testing.T) {
	a := layer(4, 3, [2]int{0, 0}, [2]int{2, 1}, [2]int{3, 2})
	b := layer(4, 3, [2]int{2, 1}, [2]int{1, 2})

	ab := NewGrid(4, 3)
	require.NoError(t, ab.CreateCollisions(a))
	require.NoError(t, ab.CreateCollisions(b))

	ba := NewGrid(4, 3)
	require.NoError(t, ba.CreateCollisions(b))
	require.NoError(t, ba.CreateCollisions(a))

	for y := range 3 {
		for x := range 4 {
			assert.Equal(t, ab.GetIndex(x, y), ba.GetIndex(x, y), "cell (%d,%d)", x, y)
		}
	}
	assert.Equal(t, 4, ab.BlockedCount())

	// Merging the same layer twice changes nothing.
	require.NoError(t, ab.CreateCollisions(a))
	assert.Equal(t, 4, ab.BlockedCount())
	assert.Equal(t, 1, ab.GetIndex(3, 2))
}

func TestCreateCollisionsMismatch(t *testing.T) {
	tests := []struct {
		name  string
		layer [][]bool
	}{
		{"too few rows", layer(3, 1, [2]int{0, 0})},
		{"too many cells", layer(4, 2, [2]int{0, 0})},
		{"ragged rows", [][]bool{{true, false}, {false, false, false, false}}},
		{"empty", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGrid(3, 2)
			err := g.CreateCollisions(tt.layer)
			require.ErrorIs(t, err, ErrGridMismatch)
			assert.Equal(t, 0, g.BlockedCount(), "grid must stay untouched")
		})
	}
}

func TestGridBlockedOutside(t *testing.T) {
	g := NewGrid(2, 2)

	assert.False(t, g.Blocked(1, 1))
	assert.True(t, g.Blocked(-1, 0))
	assert.True(t, g.Blocked(0, 2))
	assert.True(t, g.Blocked(2, 0))
}
