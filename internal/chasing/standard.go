package chasing

import (
	"errors"
	"fmt"
	"time"

	"github.com/OCAP2/hazardtrack/pkg/core"
)

// ErrUnexpectedCast is returned when a confirmed activation arrives and no
// chaser is in flight to match it.
var ErrUnexpectedCast = errors.New("unexpected cast from chasing aoe")

// Party is the registry view the standard policy needs for bait selection.
type Party interface {
	Registry
	// Party returns party members ordered by slot.
	Party() []core.Entity
}

// Config describes one hazard family.
type Config struct {
	Name                      string
	Shape                     core.Shape
	ActionFirst               core.ActionID // long telegraphed opener
	ActionRest                core.ActionID // instant follow-ups
	MoveDistance              float64
	SecondsBetweenActivations float64
	MaxCasts                  int
}

// Standard is the usual chasing pattern: the opener has a long cast and is
// baited by the party member nearest to where it was aimed, every later
// activation is instant and jumps toward the same target.
type Standard struct {
	cfg     Config
	party   Party
	tracker *Tracker

	// entities currently chased by a hazard of this family; they are not
	// picked again as bait until released
	claimed map[uint64]struct{}
}

// NewStandard creates a policy for one hazard family.
func NewStandard(cfg Config, party Party) *Standard {
	return &Standard{
		cfg:     cfg,
		party:   party,
		tracker: NewTracker(party),
		claimed: make(map[uint64]struct{}),
	}
}

// Config returns the family definition.
func (s *Standard) Config() Config {
	return s.cfg
}

// Tracker returns the tracker owning this family's chasers.
func (s *Standard) Tracker() *Tracker {
	return s.tracker
}

// Claimed reports whether the entity is currently chased by this family.
func (s *Standard) Claimed(id uint64) bool {
	_, ok := s.claimed[id]
	return ok
}

// Anchor picks the position a cast is aimed at: the caster when it
// targets itself, else the target entity, else the location carried by the
// notification, else the caster.
func (s *Standard) Anchor(caster core.Entity, targetID uint64, loc *core.Position) core.Position {
	if targetID == caster.ID {
		return caster.Position
	}
	if e, ok := s.party.Find(targetID); ok {
		return e.Position
	}
	if loc != nil {
		return *loc
	}
	return caster.Position
}

// selectBait returns the alive, unclaimed party member nearest to pos.
// Equal distances go to the lower slot.
func (s *Standard) selectBait(pos core.Position) (core.Entity, bool) {
	var (
		best     core.Entity
		bestDist float64
		found    bool
	)
	for _, e := range s.party.Party() {
		if !e.Alive() || s.Claimed(e.ID) {
			continue
		}
		d := e.Position.DistanceSq(pos)
		if !found || d < bestDist {
			best, bestDist, found = e, d, true
		}
	}
	return best, found
}

// OnCastStarted spawns a chaser when the family's opener starts casting.
// Returns false when the cast is not the opener or nobody can be baited.
func (s *Standard) OnCastStarted(caster core.Entity, cast core.CastInfo) (*Chaser, bool) {
	if cast.Action != s.cfg.ActionFirst {
		return nil, false
	}
	pos := s.Anchor(caster, cast.TargetID, cast.Location)
	target, ok := s.selectBait(pos)
	if !ok {
		return nil, false
	}

	// the opener resolves where it was aimed, it does not move first
	c := NewChaser(s.cfg.Shape, target.ID, pos, 0, s.cfg.MaxCasts, cast.FinishAt, s.cfg.SecondsBetweenActivations, s.cfg.MoveDistance)
	s.tracker.Add(c)
	s.claimed[target.ID] = struct{}{}
	return c, true
}

// OnEventCast advances the chaser matching a confirmed activation of either
// the opener or a follow-up. Other actions are ignored.
func (s *Standard) OnEventCast(caster core.Entity, ev core.CastEvent, now time.Time) (*Chaser, error) {
	if ev.Action != s.cfg.ActionFirst && ev.Action != s.cfg.ActionRest {
		return nil, nil
	}
	pos := s.Anchor(caster, ev.MainTargetID, ev.TargetPos)
	advanced := s.tracker.Advance(pos, s.cfg.MoveDistance, now, true)
	if advanced == nil {
		return nil, fmt.Errorf("%w at %s", ErrUnexpectedCast, pos)
	}
	if advanced.NumRemaining <= 0 {
		delete(s.claimed, advanced.TargetID)
	}
	return advanced, nil
}

// Update drops chasers whose target is gone after the first activation and
// releases their claims. Call once per tick before querying.
func (s *Standard) Update() []*Chaser {
	removed := s.tracker.Prune(s.cfg.MaxCasts)
	for _, c := range removed {
		delete(s.claimed, c.TargetID)
	}
	return removed
}
