// pkg/core/hazard.go
package core

import (
	"time"

	"github.com/google/uuid"
	geom "github.com/peterstace/simplefeatures/geom"
)

// Shape is an area anchored at an origin and facing a heading.
type Shape interface {
	Contains(origin Position, rotation Angle, p Position) bool
	Footprint(origin Position, rotation Angle) geom.Polygon
	String() string
}

// AnticipatedHazard is a predicted activation of a tracked hazard.
type AnticipatedHazard struct {
	ID         uuid.UUID
	Shape      Shape
	Origin     Position
	Rotation   Angle
	Activation time.Time
}

// Check reports whether p lies inside the anticipated area.
func (h AnticipatedHazard) Check(p Position) bool {
	return h.Shape.Contains(h.Origin, h.Rotation, p)
}

// ForbiddenZone is movement guidance for one entity.
type ForbiddenZone struct {
	Shape      Shape
	Origin     Position
	Rotation   Angle
	Activation time.Time
}

// Segment is a line between two arena points, used for tethers.
type Segment struct {
	From Position
	To   Position
}

// Priority classifies an entity for highlighting.
type Priority int

const (
	PriorityIrrelevant Priority = iota
	PriorityInteresting
)

func (p Priority) String() string {
	switch p {
	case PriorityInteresting:
		return "interesting"
	default:
		return "irrelevant"
	}
}
