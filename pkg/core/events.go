// pkg/core/events.go
package core

import "time"

// ActionID identifies the action a caster is performing.
type ActionID uint32

// CastInfo describes a cast that has started but not resolved yet.
// TargetID may reference the caster itself, another entity, or nothing
// the registry knows about, in which case Location is the fallback.
type CastInfo struct {
	Action    ActionID
	TargetID  uint64
	Location  *Position
	StartedAt time.Time
	FinishAt  time.Time
}

// CastEvent is a confirmed resolution of an action at a point in time.
type CastEvent struct {
	Action       ActionID
	MainTargetID uint64
	TargetPos    *Position
	Time         time.Time
}
