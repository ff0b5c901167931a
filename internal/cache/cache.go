package cache

import (
	"cmp"
	"slices"
	"sync"

	"github.com/OCAP2/hazardtrack/pkg/core"
)

// EntityCache is the registry of every entity the event source has reported.
// Dead and destroyed entities are kept with their flags set so hazards
// chasing them can still read their last known position.
type EntityCache struct {
	mu       sync.RWMutex
	entities map[uint64]core.Entity
}

func NewEntityCache() *EntityCache {
	return &EntityCache{
		entities: make(map[uint64]core.Entity),
	}
}

func (c *EntityCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entities = make(map[uint64]core.Entity)
}

// Upsert stores the latest snapshot of an entity.
// A destroyed entity stays destroyed even if a stale update arrives.
func (c *EntityCache) Upsert(e core.Entity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.entities[e.ID]; ok && prev.IsDestroyed {
		e.IsDestroyed = true
	}
	c.entities[e.ID] = e
}

func (c *EntityCache) Find(id uint64) (core.Entity, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entities[id]
	return e, ok
}

// MarkDead flags the entity as dead. Returns false for unknown ids.
func (c *EntityCache) MarkDead(id uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entities[id]
	if !ok {
		return false
	}
	e.IsDead = true
	c.entities[id] = e
	return true
}

// MarkDestroyed flags the entity as removed from the simulation.
// Returns false for unknown ids.
func (c *EntityCache) MarkDestroyed(id uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entities[id]
	if !ok {
		return false
	}
	e.IsDestroyed = true
	c.entities[id] = e
	return true
}

// Party returns party members ordered by slot, dead ones included.
func (c *EntityCache) Party() []core.Entity {
	c.mu.RLock()
	party := make([]core.Entity, 0, len(c.entities))
	for _, e := range c.entities {
		if e.InParty() && !e.IsDestroyed {
			party = append(party, e)
		}
	}
	c.mu.RUnlock()

	slices.SortFunc(party, func(a, b core.Entity) int {
		if n := cmp.Compare(a.Slot, b.Slot); n != 0 {
			return n
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return party
}

// FindSlot returns the party slot of an entity, or core.NoSlot.
func (c *EntityCache) FindSlot(id uint64) int {
	e, ok := c.Find(id)
	if !ok {
		return core.NoSlot
	}
	return e.Slot
}

// Len returns the number of known entities.
func (c *EntityCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entities)
}
