package parser

import (
	"time"

	"github.com/OCAP2/hazardtrack/pkg/core"
)

// ParsedEntity is an entity snapshot and the time it was taken.
type ParsedEntity struct {
	Time   time.Time
	Entity core.Entity
}

// ParsedDestroyed reports an entity removed from the simulation.
type ParsedDestroyed struct {
	Time     time.Time
	EntityID uint64
}

// ParsedCastStart holds a started cast with the caster id still unresolved;
// the handler looks the caster up in the entity registry.
type ParsedCastStart struct {
	Time     time.Time
	CasterID uint64
	Cast     core.CastInfo
}

// ParsedCastEvent holds a confirmed activation with the caster id still unresolved.
type ParsedCastEvent struct {
	CasterID uint64
	Event    core.CastEvent
}
