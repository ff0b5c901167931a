package chasing

import (
	"sort"
	"time"

	"github.com/OCAP2/hazardtrack/pkg/core"
)

// fakeRegistry implements Party for tests
type fakeRegistry struct {
	entities map[uint64]core.Entity
}

func newFakeRegistry(entities ...core.Entity) *fakeRegistry {
	r := &fakeRegistry{entities: make(map[uint64]core.Entity)}
	for _, e := range entities {
		r.entities[e.ID] = e
	}
	return r
}

func (r *fakeRegistry) Find(id uint64) (core.Entity, bool) {
	e, ok := r.entities[id]
	return e, ok
}

func (r *fakeRegistry) Party() []core.Entity {
	var party []core.Entity
	for _, e := range r.entities {
		if e.InParty() {
			party = append(party, e)
		}
	}
	sort.Slice(party, func(i, j int) bool { return party[i].Slot < party[j].Slot })
	return party
}

func (r *fakeRegistry) move(id uint64, pos core.Position) {
	e := r.entities[id]
	e.Position = pos
	r.entities[id] = e
}

func (r *fakeRegistry) kill(id uint64) {
	e := r.entities[id]
	e.IsDead = true
	r.entities[id] = e
}

var t0 = time.Date(2026, 10, 19, 20, 0, 0, 0, time.UTC)

func pos(x, y float64) core.Position {
	return core.Position{X: x, Y: y}
}

func member(id uint64, slot int, p core.Position) core.Entity {
	return core.Entity{ID: id, Name: "player", Slot: slot, Position: p}
}
