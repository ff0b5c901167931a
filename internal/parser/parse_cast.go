package parser

import (
	"fmt"

	"github.com/OCAP2/hazardtrack/internal/geo"
	"github.com/OCAP2/hazardtrack/pkg/core"
)

// ParseCastStart parses a started cast:
// [time, casterID, actionID, targetID, "x,y" or "", castSeconds]
// The location is only a fallback when targetID cannot be resolved.
func (p *Parser) ParseCastStart(data []string) (ParsedCastStart, error) {
	var result ParsedCastStart

	fixArgs(data)
	if len(data) < 6 {
		return result, fmt.Errorf("insufficient data fields: got %d, need 6", len(data))
	}

	t, err := p.parseTime(data[0])
	if err != nil {
		return result, fmt.Errorf("error parsing time: %w", err)
	}
	result.Time = t

	result.CasterID, err = parseUintFromFloat(data[1])
	if err != nil {
		return result, fmt.Errorf("error parsing casterID: %w", err)
	}

	action, err := parseActionID(data[2])
	if err != nil {
		return result, fmt.Errorf("error parsing actionID: %w", err)
	}

	targetID, err := parseUintFromFloat(data[3])
	if err != nil {
		return result, fmt.Errorf("error parsing targetID: %w", err)
	}

	loc, err := geo.OptionalPositionFromString(data[4])
	if err != nil {
		return result, fmt.Errorf("error parsing location %q: %w", data[4], err)
	}

	castTime, err := parseSeconds(data[5])
	if err != nil {
		return result, fmt.Errorf("error parsing cast time: %w", err)
	}

	result.Cast = core.CastInfo{
		Action:    core.ActionID(action),
		TargetID:  targetID,
		Location:  loc,
		StartedAt: t,
		FinishAt:  t.Add(castTime),
	}
	return result, nil
}

// ParseCastEvent parses a confirmed activation:
// [time, casterID, actionID, mainTargetID, "x,y" or ""]
func (p *Parser) ParseCastEvent(data []string) (ParsedCastEvent, error) {
	var result ParsedCastEvent

	fixArgs(data)
	if len(data) < 5 {
		return result, fmt.Errorf("insufficient data fields: got %d, need 5", len(data))
	}

	t, err := p.parseTime(data[0])
	if err != nil {
		return result, fmt.Errorf("error parsing time: %w", err)
	}

	result.CasterID, err = parseUintFromFloat(data[1])
	if err != nil {
		return result, fmt.Errorf("error parsing casterID: %w", err)
	}

	action, err := parseActionID(data[2])
	if err != nil {
		return result, fmt.Errorf("error parsing actionID: %w", err)
	}

	mainTargetID, err := parseUintFromFloat(data[3])
	if err != nil {
		return result, fmt.Errorf("error parsing mainTargetID: %w", err)
	}

	targetPos, err := geo.OptionalPositionFromString(data[4])
	if err != nil {
		return result, fmt.Errorf("error parsing target position %q: %w", data[4], err)
	}

	result.Event = core.CastEvent{
		Action:       core.ActionID(action),
		MainTargetID: mainTargetID,
		TargetPos:    targetPos,
		Time:         t,
	}
	return result, nil
}
