package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoundingBox(t *testing.T) {
	assert.Equal(t, RectInt{}, BoundingBox(nil))
	assert.True(t, BoundingBox(nil).Empty())

	box := BoundingBox([]PointInt{{X: 3, Y: 7}, {X: 1, Y: 9}, {X: 5, Y: 8}})
	assert.Equal(t, RectInt{X: 1, Y: 7, Width: 5, Height: 3}, box)
	assert.Equal(t, Point2D{X: 3.5, Y: 8.5}, box.Center())
	assert.True(t, box.Contains(PointInt{X: 5, Y: 9}))
	assert.False(t, box.Contains(PointInt{X: 6, Y: 9}))
	assert.False(t, box.Contains(PointInt{X: 1, Y: 10}))
}

func TestNeighbors4(t *testing.T) {
	assert.Equal(t, [4]PointInt{{X: 2, Y: 1}, {X: 3, Y: 2}, {X: 2, Y: 3}, {X: 1, Y: 2}},
		PointInt{X: 2, Y: 2}.Neighbors4())
	assert.Equal(t, Point2D{X: 2.5, Y: 0.5}, PointInt{X: 2}.ToFloat())
	assert.InDelta(t, 5.0, Point2D{}.Distance(Point2D{X: 3, Y: 4}), 1e-12)
}
