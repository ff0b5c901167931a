// Package chasing tracks area hazards that re-anchor onto a target entity
// after every activation, predicts where each will land next, and matches
// confirmed activations back to the hazard that fired.
package chasing

import (
	"time"

	"github.com/OCAP2/hazardtrack/pkg/core"
	"github.com/google/uuid"
)

// Chaser is one in-flight chasing hazard.
// TargetID is resolved through the registry on every use; the chaser never
// holds the entity itself.
type Chaser struct {
	ID                        uuid.UUID
	Shape                     core.Shape
	TargetID                  uint64
	PrevPos                   core.Position // anchor of the last confirmed activation
	NextMoveDist              float64       // max travel before the next activation, 0 before the first
	ExpectedMoveDist          float64       // nominal travel per activation
	NumRemaining              int
	NextActivation            time.Time
	SecondsBetweenActivations float64
}

// NewChaser creates a chaser anchored at pos.
func NewChaser(shape core.Shape, targetID uint64, pos core.Position, moveDist float64, numRemaining int, nextActivation time.Time, secondsBetweenActivations, expectedMoveDist float64) *Chaser {
	return &Chaser{
		ID:                        uuid.New(),
		Shape:                     shape,
		TargetID:                  targetID,
		PrevPos:                   pos,
		NextMoveDist:              moveDist,
		ExpectedMoveDist:          expectedMoveDist,
		NumRemaining:              numRemaining,
		NextActivation:            nextActivation,
		SecondsBetweenActivations: secondsBetweenActivations,
	}
}

// PredictedPosition returns where the next activation lands given the
// target's current position: the anchor crawls toward the target but covers
// at most NextMoveDist.
func (c *Chaser) PredictedPosition(target core.Position) core.Position {
	offset := target.Sub(c.PrevPos)
	distance := offset.Length()
	if distance > c.NextMoveDist {
		return c.PrevPos.Add(offset.Scale(c.NextMoveDist / distance))
	}
	return target
}

// secondsToDuration converts fractional seconds without truncating to whole seconds.
func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
