// Package radar computes radar (spider) chart geometry for trait vectors and
// renders it as SVG.
package radar

import (
	"math"

	"github.com/okian/matchboard/internal/domain/traits"
)

// Missing is the value plotted for a trait absent from the vector.
const Missing = 0.5

// labelPadding is the gap between the outer ring and the viewBox edge.
const labelPadding = 12

// Point is a 2D vertex in SVG user space (y grows downwards).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Geometry fixes the chart center and outer radius.
type Geometry struct {
	CX     float64 `json:"cx"`
	CY     float64 `json:"cy"`
	Radius float64 `json:"r"`
}

// GeometryForSize centers a chart in a size x size viewBox leaving room for
// axis labels.
func GeometryForSize(size float64) Geometry {
	return Geometry{CX: size / 2, CY: size / 2, Radius: size/2 - labelPadding}
}

// AngleStep is the angular distance between consecutive axes.
var AngleStep = 2 * math.Pi / float64(traits.Count)

// Angle returns the angle of axis i: the first axis points straight up and
// subsequent axes proceed clockwise on screen.
func Angle(i int) float64 {
	return -math.Pi/2 + float64(i)*AngleStep
}

// At returns the point at fraction f of the radius along axis i.
func (g Geometry) At(i int, f float64) Point {
	a := Angle(i)
	return Point{
		X: g.CX + math.Cos(a)*f*g.Radius,
		Y: g.CY + math.Sin(a)*f*g.Radius,
	}
}

// Vertices returns exactly one vertex per trait axis in axis order. Missing
// traits plot at Missing.
func Vertices(v traits.Normalized, g Geometry) []Point {
	out := make([]Point, traits.Count)
	for i, t := range traits.All() {
		out[i] = g.At(i, v.ValueOr(t, Missing))
	}
	return out
}

// Overlay returns the polygons for two vectors on shared axes.
func Overlay(a, b traits.Normalized, g Geometry) (first, second []Point) {
	return Vertices(a, g), Vertices(b, g)
}

// Ring returns the polygon for a grid ring at fraction f.
func Ring(g Geometry, f float64) []Point {
	out := make([]Point, traits.Count)
	for i := range out {
		out[i] = g.At(i, f)
	}
	return out
}
