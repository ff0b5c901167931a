package chasing

import (
	"iter"
	"slices"
	"time"

	"github.com/OCAP2/hazardtrack/internal/shape"
	"github.com/OCAP2/hazardtrack/pkg/core"
)

// DefaultWarningText is shown to an entity standing in an anticipated hazard.
const DefaultWarningText = "GTFO from chasing aoe!"

// Registry resolves entity ids to their latest snapshot.
type Registry interface {
	Find(id uint64) (core.Entity, bool)
}

// Tracker owns the set of in-flight chasers. It is the only place chasers
// are inserted or removed. Not safe for concurrent use: all calls are
// expected from the goroutine driving the tick loop.
type Tracker struct {
	chasers     []*Chaser
	registry    Registry
	warningText string

	// NumCasts counts every Advance call, matched or not.
	NumCasts int
}

// NewTracker creates an empty tracker resolving targets through registry.
func NewTracker(registry Registry) *Tracker {
	return &Tracker{
		registry:    registry,
		warningText: DefaultWarningText,
	}
}

// SetWarningText overrides the text returned by Warning.
func (t *Tracker) SetWarningText(text string) {
	t.warningText = text
}

// Add inserts a chaser. Insertion order is the tie-break order for Advance.
func (t *Tracker) Add(c *Chaser) {
	t.chasers = append(t.chasers, c)
}

// Len returns the number of active chasers.
func (t *Tracker) Len() int {
	return len(t.chasers)
}

// Chasers iterates active chasers in insertion order.
func (t *Tracker) Chasers() iter.Seq[*Chaser] {
	return slices.Values(t.chasers)
}

// targetPosition returns the live position of the chaser's target. A target
// the registry has never heard of leaves the hazard where it is.
func (t *Tracker) targetPosition(c *Chaser) core.Position {
	if e, ok := t.registry.Find(c.TargetID); ok {
		return e.Position
	}
	return c.PrevPos
}

func (t *Tracker) predict(c *Chaser) core.Position {
	return c.PredictedPosition(t.targetPosition(c))
}

// ActiveHazards yields the anticipated next activation of every chaser.
// Positions are recomputed on each iteration since targets keep moving.
func (t *Tracker) ActiveHazards() iter.Seq[core.AnticipatedHazard] {
	return func(yield func(core.AnticipatedHazard) bool) {
		for _, c := range t.chasers {
			pos := t.predict(c)
			var rot core.Angle
			if off := pos.Sub(c.PrevPos); off.LengthSq() > 0 {
				rot = core.AngleFromDirection(off)
			}
			h := core.AnticipatedHazard{
				ID:         c.ID,
				Shape:      c.Shape,
				Origin:     pos,
				Rotation:   rot,
				Activation: c.NextActivation,
			}
			if !yield(h) {
				return
			}
		}
	}
}

// Tethers yields the line from each chaser's anchor to its target.
func (t *Tracker) Tethers() iter.Seq[core.Segment] {
	return func(yield func(core.Segment) bool) {
		for _, c := range t.chasers {
			if !yield(core.Segment{From: c.PrevPos, To: t.targetPosition(c)}) {
				return
			}
		}
	}
}

func (t *Tracker) chaserFor(entityID uint64) *Chaser {
	for _, c := range t.chasers {
		if c.TargetID == entityID {
			return c
		}
	}
	return nil
}

// DangerZoneHint returns the area the given entity should keep out of while
// it is being chased. Only circular hazards produce a hint; the radius grows
// by two expected hops while more than one activation remains.
func (t *Tracker) DangerZoneHint(entityID uint64) (core.ForbiddenZone, bool) {
	c := t.chaserFor(entityID)
	if c == nil {
		return core.ForbiddenZone{}, false
	}
	circle, ok := c.Shape.(shape.Circle)
	if !ok {
		return core.ForbiddenZone{}, false
	}
	multi := 1.0
	if c.NumRemaining > 1 {
		multi = 2
	}
	return core.ForbiddenZone{
		Shape:      shape.Circle{Radius: circle.Radius + c.ExpectedMoveDist*multi},
		Origin:     c.PrevPos,
		Activation: c.NextActivation,
	}, true
}

// PriorityOf marks entities targeted by any chaser as interesting.
func (t *Tracker) PriorityOf(entityID uint64) core.Priority {
	if t.chaserFor(entityID) != nil {
		return core.PriorityInteresting
	}
	return core.PriorityIrrelevant
}

// Warning returns the warning text when the entity stands inside any
// anticipated hazard.
func (t *Tracker) Warning(entityID uint64) (string, bool) {
	e, ok := t.registry.Find(entityID)
	if !ok {
		return "", false
	}
	for h := range t.ActiveHazards() {
		if h.Check(e.Position) {
			return t.warningText, true
		}
	}
	return "", false
}

// Advance matches a confirmed activation at pos to the chaser predicted
// nearest to it and moves that chaser along. Returns nil when no chaser is
// active. The returned chaser may already be removed; callers inspect
// NumRemaining to find out.
func (t *Tracker) Advance(pos core.Position, moveDistance float64, currentTime time.Time, removeWhenFinished bool) *Chaser {
	t.NumCasts++

	best := -1
	var bestDist float64
	for i, c := range t.chasers {
		d := t.predict(c).DistanceSq(pos)
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return nil
	}

	c := t.chasers[best]
	if c.NumRemaining > 0 {
		c.NumRemaining--
	}
	if c.NumRemaining == 0 && removeWhenFinished {
		t.chasers = slices.Delete(t.chasers, best, best+1)
	} else {
		c.PrevPos = pos
		c.NextMoveDist = moveDistance
		c.NextActivation = currentTime.Add(secondsToDuration(c.SecondsBetweenActivations))
	}
	return c
}

// Prune drops chasers whose target died or was destroyed after they had
// already fired at least once. A chaser that has not fired yet keeps its
// target. Returns the removed chasers.
func (t *Tracker) Prune(maxCasts int) []*Chaser {
	var removed []*Chaser
	t.chasers = slices.DeleteFunc(t.chasers, func(c *Chaser) bool {
		e, ok := t.registry.Find(c.TargetID)
		if !ok || e.Alive() || c.NumRemaining >= maxCasts {
			return false
		}
		removed = append(removed, c)
		return true
	})
	return removed
}
