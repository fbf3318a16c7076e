package geom

import "gonum.org/v1/gonum/spatial/r2"

// Point is a position in normalized unit-square coordinates.
type Point = r2.Vec

// Polygon is an ordered vertex list interpreted as a closed polyline.
// The edge from the last vertex back to the first is implied.
type Polygon []Point

// Center is the shared midpoint of every ring.
var Center = Point{X: 0.5, Y: 0.5}

// Dist returns the Euclidean distance between p and q.
func Dist(p, q Point) float64 {
	return r2.Norm(r2.Sub(p, q))
}

// Radius returns the distance of p from [Center].
func Radius(p Point) float64 {
	return Dist(p, Center)
}

// Mapper converts normalized coordinates to device pixels.
type Mapper struct {
	w, h float64
}

// NewMapper returns a mapper for a canvas of w × h pixels.
func NewMapper(w, h int) Mapper {
	return Mapper{w: float64(w), h: float64(h)}
}

// X maps a normalized horizontal coordinate to pixels.
func (m Mapper) X(u float64) float64 { return u * m.w }

// Y maps a normalized vertical coordinate to pixels.
func (m Mapper) Y(v float64) float64 { return v * m.h }

// Width returns the full horizontal extent in pixels.
func (m Mapper) Width() float64 { return m.w }

// Height returns the full vertical extent in pixels.
func (m Mapper) Height() float64 { return m.h }

// Point maps p to pixel coordinates.
func (m Mapper) Point(p Point) (x, y float64) {
	return m.X(p.X), m.Y(p.Y)
}
