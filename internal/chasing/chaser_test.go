package chasing

import (
	"testing"

	"github.com/OCAP2/hazardtrack/internal/shape"
	"github.com/stretchr/testify/assert"
)

func TestPredictedPosition_TargetWithinReach(t *testing.T) {
	c := NewChaser(shape.Circle{Radius: 6}, 1, pos(0, 0), 10, 3, t0, 5, 10)

	// exact equality, not approximate
	assert.Equal(t, pos(3, 4), c.PredictedPosition(pos(3, 4)))
	assert.Equal(t, pos(6, 8), c.PredictedPosition(pos(6, 8)), "boundary lands on target")
}

func TestPredictedPosition_CappedByMoveDistance(t *testing.T) {
	c := NewChaser(shape.Circle{Radius: 6}, 1, pos(0, 0), 5, 3, t0, 5, 5)

	got := c.PredictedPosition(pos(30, 40))

	assert.InDelta(t, 5.0, got.Sub(c.PrevPos).Length(), 1e-9)
	assert.InDelta(t, 3.0, got.X, 1e-9)
	assert.InDelta(t, 4.0, got.Y, 1e-9)
}

func TestPredictedPosition_FirstActivationDoesNotMove(t *testing.T) {
	c := NewChaser(shape.Circle{Radius: 6}, 1, pos(7, -2), 0, 3, t0, 5, 5)

	assert.Equal(t, pos(7, -2), c.PredictedPosition(pos(100, 100)))
	assert.Equal(t, pos(7, -2), c.PredictedPosition(pos(7, -2)))
}

func TestPredictedPosition_Idempotent(t *testing.T) {
	c := NewChaser(shape.Circle{Radius: 6}, 1, pos(1, 1), 4, 3, t0, 5, 4)
	target := pos(-20, 13)

	first := c.PredictedPosition(target)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, c.PredictedPosition(target))
	}
}

func TestNewChaser_AssignsID(t *testing.T) {
	a := NewChaser(shape.Circle{Radius: 1}, 1, pos(0, 0), 0, 1, t0, 1, 1)
	b := NewChaser(shape.Circle{Radius: 1}, 1, pos(0, 0), 0, 1, t0, 1, 1)
	assert.NotEqual(t, a.ID, b.ID)
}
