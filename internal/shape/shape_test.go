package shape

import (
	"math"
	"testing"

	"github.com/OCAP2/hazardtrack/pkg/core"
	"github.com/stretchr/testify/assert"
)

func TestCircle_Contains(t *testing.T) {
	c := Circle{Radius: 5}
	origin := core.Position{X: 10, Y: 10}

	assert.True(t, c.Contains(origin, 0, origin))
	assert.True(t, c.Contains(origin, 0, core.Position{X: 15, Y: 10}), "edge is inside")
	assert.False(t, c.Contains(origin, 0, core.Position{X: 15.01, Y: 10}))
}

func TestDonut_Contains(t *testing.T) {
	d := Donut{Inner: 2, Outer: 6}
	origin := core.Position{}

	assert.False(t, d.Contains(origin, 0, core.Position{X: 1}))
	assert.True(t, d.Contains(origin, 0, core.Position{X: 4}))
	assert.False(t, d.Contains(origin, 0, core.Position{X: 7}))
}

func TestRect_Contains(t *testing.T) {
	r := Rect{LengthFront: 10, LengthBack: 2, HalfWidth: 3}
	origin := core.Position{}

	tests := []struct {
		name     string
		rotation core.Angle
		point    core.Position
		want     bool
	}{
		{"ahead, facing north", 0, core.Position{Y: 9}, true},
		{"behind within back length", 0, core.Position{Y: -1.5}, true},
		{"too far behind", 0, core.Position{Y: -3}, false},
		{"too wide", 0, core.Position{X: 4, Y: 5}, false},
		{"ahead, facing east", math.Pi / 2, core.Position{X: 9}, true},
		{"north when facing east", math.Pi / 2, core.Position{Y: 9}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Contains(origin, tt.rotation, tt.point))
		})
	}
}

func TestFootprints(t *testing.T) {
	origin := core.Position{X: 1, Y: 2}

	assert.False(t, Circle{Radius: 3}.Footprint(origin, 0).IsEmpty())
	assert.Equal(t, 1, Donut{Inner: 1, Outer: 3}.Footprint(origin, 0).NumInteriorRings())
	assert.Equal(t, "POLYGON((0 2,2 2,2 4,0 4,0 2))",
		Rect{LengthFront: 2, HalfWidth: 1}.Footprint(origin, 0).AsText())
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "circle(r=6.00)", Circle{Radius: 6}.String())
	assert.Equal(t, "donut(1.00-3.00)", Donut{Inner: 1, Outer: 3}.String())
	assert.Equal(t, "rect(2.00/0.00/1.00)", Rect{LengthFront: 2, HalfWidth: 1}.String())
}
