package parser

import (
	"fmt"

	"github.com/OCAP2/hazardtrack/internal/geo"
	"github.com/OCAP2/hazardtrack/pkg/core"
)

// ParseEntity parses an entity update:
// [time, id, name, slot, "x,y", dead]
// Slot is -1 for actors outside the party.
func (p *Parser) ParseEntity(data []string) (ParsedEntity, error) {
	var result ParsedEntity

	fixArgs(data)
	if len(data) < 6 {
		return result, fmt.Errorf("insufficient data fields: got %d, need 6", len(data))
	}

	t, err := p.parseTime(data[0])
	if err != nil {
		return result, fmt.Errorf("error parsing time: %w", err)
	}
	result.Time = t

	id, err := parseUintFromFloat(data[1])
	if err != nil {
		return result, fmt.Errorf("error parsing entity id: %w", err)
	}

	slot, err := parseIntFromFloat(data[3])
	if err != nil {
		return result, fmt.Errorf("error parsing slot: %w", err)
	}
	if slot < core.NoSlot {
		return result, fmt.Errorf("error parsing slot: %d is below %d", slot, core.NoSlot)
	}

	pos, err := geo.PositionFromString(data[4])
	if err != nil {
		return result, fmt.Errorf("error parsing position %q: %w", data[4], err)
	}

	dead, err := parseBool(data[5])
	if err != nil {
		return result, fmt.Errorf("error parsing dead flag: %w", err)
	}

	result.Entity = core.Entity{
		ID:       id,
		Name:     data[2],
		Slot:     int(slot),
		Position: pos,
		IsDead:   dead,
	}
	return result, nil
}

// ParseDestroyed parses an entity removal: [time, id]
func (p *Parser) ParseDestroyed(data []string) (ParsedDestroyed, error) {
	var result ParsedDestroyed

	fixArgs(data)
	if len(data) < 2 {
		return result, fmt.Errorf("insufficient data fields: got %d, need 2", len(data))
	}

	t, err := p.parseTime(data[0])
	if err != nil {
		return result, fmt.Errorf("error parsing time: %w", err)
	}
	result.Time = t

	id, err := parseUintFromFloat(data[1])
	if err != nil {
		return result, fmt.Errorf("error parsing entity id: %w", err)
	}
	result.EntityID = id
	return result, nil
}
