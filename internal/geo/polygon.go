package geo

import (
	"math"

	"github.com/OCAP2/hazardtrack/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
)

// CircleSegments is the number of edges used to approximate round footprints.
const CircleSegments = 32

// ring builds a closed coordinate sequence from the given points.
func ring(points []core.Position) geom.LineString {
	flatCoords := make([]float64, 0, (len(points)+1)*2)
	for _, p := range points {
		flatCoords = append(flatCoords, p.X, p.Y)
	}
	if len(points) > 0 {
		flatCoords = append(flatCoords, points[0].X, points[0].Y)
	}
	return geom.NewLineString(geom.NewSequence(flatCoords, geom.DimXY))
}

// PolygonFromPoints builds a polygon from an exterior ring given without the
// closing point. Fewer than three points give an empty polygon.
func PolygonFromPoints(points []core.Position) geom.Polygon {
	if len(points) < 3 {
		return geom.Polygon{}
	}
	return geom.NewPolygon([]geom.LineString{ring(points)})
}

// circlePoints returns CircleSegments points on a circle, counter-clockwise.
func circlePoints(center core.Position, radius float64) []core.Position {
	points := make([]core.Position, CircleSegments)
	for i := range points {
		a := 2 * math.Pi * float64(i) / CircleSegments
		points[i] = core.Position{
			X: center.X + radius*math.Cos(a),
			Y: center.Y + radius*math.Sin(a),
		}
	}
	return points
}

// CirclePolygon approximates a disc with a regular polygon.
func CirclePolygon(center core.Position, radius float64) geom.Polygon {
	if radius <= 0 {
		return geom.Polygon{}
	}
	return PolygonFromPoints(circlePoints(center, radius))
}

// AnnulusPolygon approximates a ring with an outer shell and one hole.
func AnnulusPolygon(center core.Position, inner, outer float64) geom.Polygon {
	if outer <= 0 {
		return geom.Polygon{}
	}
	if inner <= 0 {
		return CirclePolygon(center, outer)
	}
	hole := circlePoints(center, inner)
	// interior rings run the opposite way to the shell
	for i, j := 0, len(hole)-1; i < j; i, j = i+1, j-1 {
		hole[i], hole[j] = hole[j], hole[i]
	}
	return geom.NewPolygon([]geom.LineString{
		ring(circlePoints(center, outer)),
		ring(hole),
	})
}
