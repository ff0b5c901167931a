// Package shape provides the area variants hazards are drawn with.
// Each variant satisfies core.Shape; callers that need variant-specific
// data (such as a circle's radius) switch on the concrete type.
package shape

import (
	"fmt"

	"github.com/OCAP2/hazardtrack/internal/geo"
	"github.com/OCAP2/hazardtrack/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
)

// Circle is a disc of the given radius around the origin.
type Circle struct {
	Radius float64
}

func (c Circle) Contains(origin core.Position, _ core.Angle, p core.Position) bool {
	return p.DistanceSq(origin) <= c.Radius*c.Radius
}

func (c Circle) Footprint(origin core.Position, _ core.Angle) geom.Polygon {
	return geo.CirclePolygon(origin, c.Radius)
}

func (c Circle) String() string {
	return fmt.Sprintf("circle(r=%.2f)", c.Radius)
}

// Donut is a ring between Inner and Outer radii.
type Donut struct {
	Inner float64
	Outer float64
}

func (d Donut) Contains(origin core.Position, _ core.Angle, p core.Position) bool {
	dsq := p.DistanceSq(origin)
	return dsq >= d.Inner*d.Inner && dsq <= d.Outer*d.Outer
}

func (d Donut) Footprint(origin core.Position, _ core.Angle) geom.Polygon {
	return geo.AnnulusPolygon(origin, d.Inner, d.Outer)
}

func (d Donut) String() string {
	return fmt.Sprintf("donut(%.2f-%.2f)", d.Inner, d.Outer)
}

// Rect is an oriented rectangle. LengthFront extends along the heading,
// LengthBack behind the origin, HalfWidth to either side.
type Rect struct {
	LengthFront float64
	LengthBack  float64
	HalfWidth   float64
}

func (r Rect) Contains(origin core.Position, rotation core.Angle, p core.Position) bool {
	offset := p.Sub(origin)
	dir := rotation.ToDirection()
	normal := core.Position{X: dir.Y, Y: -dir.X}
	along := offset.Dot(dir)
	across := offset.Dot(normal)
	return along >= -r.LengthBack && along <= r.LengthFront &&
		across >= -r.HalfWidth && across <= r.HalfWidth
}

func (r Rect) Footprint(origin core.Position, rotation core.Angle) geom.Polygon {
	corners := []core.Position{
		{X: -r.HalfWidth, Y: -r.LengthBack},
		{X: r.HalfWidth, Y: -r.LengthBack},
		{X: r.HalfWidth, Y: r.LengthFront},
		{X: -r.HalfWidth, Y: r.LengthFront},
	}
	for i, c := range corners {
		corners[i] = origin.Add(c.Rotate(rotation))
	}
	return geo.PolygonFromPoints(corners)
}

func (r Rect) String() string {
	return fmt.Sprintf("rect(%.2f/%.2f/%.2f)", r.LengthFront, r.LengthBack, r.HalfWidth)
}

var (
	_ core.Shape = Circle{}
	_ core.Shape = Donut{}
	_ core.Shape = Rect{}
)
