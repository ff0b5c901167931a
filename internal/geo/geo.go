package geo

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/OCAP2/hazardtrack/pkg/core"
)

// Arena coordinates are flat local meters. Positions arrive as "x,y" strings;
// a third component (height) is accepted and dropped, since hazards are 2D.

// ErrInvalidCoordinates is returned when the coordinates are invalid
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// PositionFromString parses a "x,y" or "x,y,z" string into a core.Position.
func PositionFromString(coords string) (core.Position, error) {
	coordsSplit := strings.Split(strings.TrimSpace(coords), ",")
	if len(coordsSplit) < 2 || len(coordsSplit) > 3 {
		return core.Position{}, ErrInvalidCoordinates
	}
	x, err := parseCoordinate(coordsSplit[0])
	if err != nil {
		return core.Position{}, err
	}
	y, err := parseCoordinate(coordsSplit[1])
	if err != nil {
		return core.Position{}, err
	}
	// height is validated but not kept
	if len(coordsSplit) > 2 {
		if _, err := parseCoordinate(coordsSplit[2]); err != nil {
			return core.Position{}, err
		}
	}
	return core.Position{X: x, Y: y}, nil
}

// parseCoordinate parses one finite coordinate component.
func parseCoordinate(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrInvalidCoordinates
	}
	return f, nil
}

// OptionalPositionFromString is PositionFromString for fields the event
// source may leave empty. An empty string yields nil and no error.
func OptionalPositionFromString(coords string) (*core.Position, error) {
	if strings.TrimSpace(coords) == "" {
		return nil, nil
	}
	pos, err := PositionFromString(coords)
	if err != nil {
		return nil, err
	}
	return &pos, nil
}
