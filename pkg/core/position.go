// pkg/core/position.go
package core

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Position is a point in flat arena coordinates (meters).
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Position) vec() r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

func fromVec(v r2.Vec) Position { return Position{X: v.X, Y: v.Y} }

// Add returns p+o.
func (p Position) Add(o Position) Position { return fromVec(r2.Add(p.vec(), o.vec())) }

// Sub returns p-o.
func (p Position) Sub(o Position) Position { return fromVec(r2.Sub(p.vec(), o.vec())) }

// Scale returns p*f.
func (p Position) Scale(f float64) Position { return fromVec(r2.Scale(f, p.vec())) }

// Dot returns the dot product of p and o.
func (p Position) Dot(o Position) float64 { return r2.Dot(p.vec(), o.vec()) }

// Length returns the euclidean norm of p treated as an offset.
func (p Position) Length() float64 { return r2.Norm(p.vec()) }

// LengthSq returns the squared norm, used for nearest comparisons.
func (p Position) LengthSq() float64 { return r2.Norm2(p.vec()) }

// Normalized returns the unit vector in the direction of p.
// The zero offset stays zero.
func (p Position) Normalized() Position {
	if p.X == 0 && p.Y == 0 {
		return p
	}
	return fromVec(r2.Unit(p.vec()))
}

// DistanceSq returns the squared distance between p and o.
func (p Position) DistanceSq(o Position) float64 { return p.Sub(o).LengthSq() }

// Rotate turns a local offset, whose forward axis is +Y, to face heading a.
// Headings grow clockwise, so this is a counter-clockwise turn by -a.
func (p Position) Rotate(a Angle) Position {
	return fromVec(r2.Rotate(p.vec(), -a.Rad(), r2.Vec{}))
}

func (p Position) String() string {
	return fmt.Sprintf("[%.3f, %.3f]", p.X, p.Y)
}

// Angle is a heading in radians. Zero points along +Y (north), matching
// the orientation convention of arena shapes.
type Angle float64

// AngleFromDirection returns the heading of a non-zero offset.
func AngleFromDirection(dir Position) Angle {
	return Angle(math.Atan2(dir.X, dir.Y))
}

// Rad returns the angle in radians.
func (a Angle) Rad() float64 { return float64(a) }

// Deg returns the angle in degrees.
func (a Angle) Deg() float64 { return float64(a) * 180 / math.Pi }

// ToDirection returns the unit vector for the heading.
func (a Angle) ToDirection() Position {
	return Position{X: math.Sin(float64(a)), Y: math.Cos(float64(a))}
}

func (a Angle) String() string {
	return fmt.Sprintf("%.1f deg", a.Deg())
}
