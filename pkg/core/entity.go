// pkg/core/entity.go
package core

// NoSlot marks an entity that is not a party member.
const NoSlot = -1

// Entity is a snapshot of one actor in the simulation.
// ID is the stable identity the event source uses in every notification.
type Entity struct {
	ID          uint64
	Name        string
	Slot        int // party slot, NoSlot for non-party actors
	Position    Position
	IsDead      bool
	IsDestroyed bool
}

// Alive reports whether the entity can still be targeted.
func (e Entity) Alive() bool {
	return !e.IsDead && !e.IsDestroyed
}

// InParty reports whether the entity occupies a party slot.
func (e Entity) InParty() bool {
	return e.Slot != NoSlot
}
